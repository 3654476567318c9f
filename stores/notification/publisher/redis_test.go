package publisher

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/gomodule/redigo/redis"
	"github.com/stretchr/testify/suite"

	"github.com/bidhaus/goapi/base/ctx"
	"github.com/bidhaus/goapi/domain/notification"
)

var (
	mockCtx = ctx.Background()
)

type fakeConn struct {
	redis.Conn
	commands []string
	channels []string
	payloads [][]byte
	err      error
	closed   bool
}

func (f *fakeConn) Do(command string, args ...interface{}) (interface{}, error) {
	f.commands = append(f.commands, command)
	if len(args) > 1 {
		f.channels = append(f.channels, args[0].(string))
		f.payloads = append(f.payloads, args[1].([]byte))
	}
	return int64(1), f.err
}

func (f *fakeConn) Close() error {
	f.closed = true
	return nil
}

type fakePool struct {
	conn *fakeConn
}

func (f *fakePool) Get() redis.Conn {
	return f.conn
}

type testsuite struct {
	suite.Suite
	conn    *fakeConn
	subject notification.Publisher
}

func Test(t *testing.T) {
	suite.Run(t, new(testsuite))
}

func (t *testsuite) SetupTest() {
	t.conn = &fakeConn{}
	t.subject = New(&fakePool{conn: t.conn})
}

func (t *testsuite) TestPublish() {
	ev := notification.NewEvent(
		notification.EventBidUpdate,
		"auction-1",
		time.Date(2023, 6, 1, 12, 0, 0, 0, time.UTC),
		&notification.BidUpdatePayload{Price: "51", BidCount: 1, NextMinimumBid: "52"},
	)

	err := t.subject.Publish(mockCtx, "auction-1", ev)
	t.NoError(err)
	t.Equal([]string{"PUBLISH"}, t.conn.commands)
	t.Equal([]string{"auction:auction-1"}, t.conn.channels)
	t.True(t.conn.closed)

	decoded := &notification.Event{}
	t.NoError(json.Unmarshal(t.conn.payloads[0], decoded))
	t.Equal(notification.EventBidUpdate, decoded.Type)
	t.Equal("auction-1", decoded.AuctionId)
}
