package metrics

import (
	"fmt"
	"sync"

	"github.com/DataDog/datadog-go/statsd"
	"github.com/spf13/viper"

	"github.com/bidhaus/goapi/base/log"
)

const (
	// ddRate is the rate to pass metrics to datadog agent. 1 means always
	ddRate = 1
	// buffer this many counters before sending to statsd
	bufferMetrics = 10

	ddPort = 8125
)

var (
	initOnce = sync.Once{}

	ddClient statsCli
)

type statsCli interface {
	Gauge(name string, value float64, tags []string, rate float64) error
	Count(name string, value int64, tags []string, rate float64) error
	Histogram(name string, value float64, tags []string, rate float64) error
	TimeInMilliseconds(name string, value float64, tags []string, rate float64) error
}

func initDDClient() {
	host := viper.GetString("datadog_host")
	addr := fmt.Sprintf("%s:%d", host, ddPort)
	log.Log().WithField("addr", addr).Info("connecting to datadog agent")

	cli, err := statsd.NewBuffered(addr, bufferMetrics)
	if err != nil {
		log.Log().WithFields(log.Fields{"addr": addr, "err": err}).Panic("can't talk to datadog agent")
	}
	ddClient = cli
}

func bumpAvg(key string, val float64, tags []string) {
	initOnce.Do(initDDClient)
	// datadog has no plain average; record a histogram instead
	ddClient.Histogram(key, val, tags, ddRate)
}

func bumpSum(key string, val float64, tags []string) {
	initOnce.Do(initDDClient)
	ddClient.Count(key, int64(val), tags, ddRate)
}

func bumpHistogram(key string, val float64, tags []string) {
	initOnce.Do(initDDClient)
	ddClient.Histogram(key, val, tags, ddRate)
}

func bumpTimeInMs(key string, ms float64, tags []string) {
	initOnce.Do(initDDClient)
	ddClient.TimeInMilliseconds(key+".time", ms, tags, ddRate)
}
