/*Package metrics wraps datadog-go to faciliate metric recording
Following are naming convention of metric:
- Internal process time: *.time
- External latency: *.latency
- Error: *.err
- Warning: *.warn
*/
package metrics

import (
	"time"

	"github.com/spf13/viper"

	"github.com/bidhaus/goapi/base/env"
)

// Ender provides interface for BumpTime
type Ender interface {
	End()
}

// Service provides interface for metrics
type Service interface {
	BumpAvg(key string, val float64, tags ...string)
	BumpSum(key string, val float64, tags ...string)
	BumpHistogram(key string, val float64, tags ...string)

	BumpTime(key string, tags ...string) Ender
}

// Option is functional parameter for metrics option
type Option func(*opt)

type opt struct {
	withPodName bool
}

// WithoutPodName disables the pod name tag. Pod names produce a lot of
// custom metrics; drop them when grouping by pod is unnecessary.
func WithoutPodName() Option {
	return func(o *opt) {
		o.withPodName = false
	}
}

// New creates a metric client with package name as prefix
func New(pkgName string, options ...Option) Service {
	o := opt{
		withPodName: true,
	}
	for _, option := range options {
		option(&o)
	}

	ddTags := []string{
		"host:", // using empty host removes all tags associated with host
		"env:" + viper.GetString("env_name"),
		"app:" + viper.GetString("app_name"),
	}
	if o.withPodName {
		ddTags = append(ddTags, "pod:"+env.PodName())
	}

	return &metricsImpl{
		pkgName: pkgName,
		ddTags:  ddTags,
	}
}

type metricsImpl struct {
	pkgName string
	ddTags  []string
}

func (mt *metricsImpl) BumpAvg(key string, val float64, tags ...string) {
	bumpAvg(mt.pkgName+"."+key, val, mt.mergeTags(tags))
}

func (mt *metricsImpl) BumpSum(key string, val float64, tags ...string) {
	bumpSum(mt.pkgName+"."+key, val, mt.mergeTags(tags))
}

func (mt *metricsImpl) BumpHistogram(key string, val float64, tags ...string) {
	bumpHistogram(mt.pkgName+"."+key, val, mt.mergeTags(tags))
}

func (mt *metricsImpl) BumpTime(key string, tags ...string) Ender {
	return &timeEnder{
		key:   mt.pkgName + "." + key,
		tags:  mt.mergeTags(tags),
		start: time.Now(),
	}
}

// mergeTags converts "k1", "v1", "k2", "v2" pairs into datadog tag format
// and appends the service-level tags.
func (mt *metricsImpl) mergeTags(kvs []string) []string {
	tags := append([]string{}, mt.ddTags...)
	for i := 0; i+1 < len(kvs); i += 2 {
		tags = append(tags, kvs[i]+":"+kvs[i+1])
	}
	return tags
}

type timeEnder struct {
	key   string
	tags  []string
	start time.Time
}

func (te *timeEnder) End() {
	bumpTimeInMs(te.key, float64(time.Since(te.start)/time.Millisecond), te.tags)
}
