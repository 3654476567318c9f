package publisher

import (
	"encoding/json"

	"github.com/gomodule/redigo/redis"

	"github.com/bidhaus/goapi/base/ctx"
	"github.com/bidhaus/goapi/base/log"
	"github.com/bidhaus/goapi/base/metrics"
	"github.com/bidhaus/goapi/domain/keys"
	"github.com/bidhaus/goapi/domain/notification"
)

const channelPrefix = "auction"

// ConnPool abstracts *redis.Pool so tests can inject a fake connection.
type ConnPool interface {
	Get() redis.Conn
}

type redisPublisher struct {
	pool ConnPool
	met  metrics.Service
}

// New creates a redis pub/sub publisher. Events are marshalled to JSON and
// published on the auction's channel, one channel per auction id.
func New(pool ConnPool) notification.Publisher {
	return &redisPublisher{
		pool: pool,
		met:  metrics.New("notification"),
	}
}

func (im *redisPublisher) Publish(c ctx.Ctx, auctionId string, ev *notification.Event) error {
	defer im.met.BumpTime("publish.time", "type", ev.Type.String()).End()

	payload, err := json.Marshal(ev)
	if err != nil {
		c.WithFields(log.Fields{
			"auctionId": auctionId,
			"err":       err,
		}).Error("failed to json.Marshal")
		return err
	}

	conn := im.pool.Get()
	defer conn.Close()

	channel := keys.RedisKey(channelPrefix, auctionId)
	if _, err := conn.Do("PUBLISH", channel, payload); err != nil {
		c.WithFields(log.Fields{
			"channel": channel,
			"err":     err,
		}).Error("failed to PUBLISH")
		im.met.BumpSum("publish.err", 1, "type", ev.Type.String())
		return err
	}
	return nil
}
