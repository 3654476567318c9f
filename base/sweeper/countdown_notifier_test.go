package sweeper

import (
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/bidhaus/goapi/domain/auction"
	mockAuction "github.com/bidhaus/goapi/domain/auction/mocks"
	"github.com/bidhaus/goapi/domain/notification"
	mockNotification "github.com/bidhaus/goapi/domain/notification/mocks"
)

type countdownSuite struct {
	suite.Suite
	mockAuction   *mockAuction.Usecase
	mockPublisher *mockNotification.Publisher
	clock         *clock.Mock
	subject       *CountdownNotifier

	events []*notification.Event
}

func TestCountdownNotifier(t *testing.T) {
	suite.Run(t, new(countdownSuite))
}

func (t *countdownSuite) SetupTest() {
	t.mockAuction = &mockAuction.Usecase{}
	t.mockPublisher = &mockNotification.Publisher{}
	t.clock = clock.NewMock()
	t.clock.Set(time.Date(2023, 6, 1, 12, 0, 0, 0, time.UTC))
	t.events = nil
	t.mockPublisher.On("Publish", mock.Anything, mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		t.events = append(t.events, args.Get(2).(*notification.Event))
	}).Return(nil)
	t.subject = NewCountdownNotifier(&CountdownNotifierCfg{
		Auction:   t.mockAuction,
		Publisher: t.mockPublisher,
		Interval:  30 * time.Second,
		Clock:     t.clock,
	})
}

func (t *countdownSuite) eventsOfType(et notification.EventType) []*notification.Event {
	var res []*notification.Event
	for _, ev := range t.events {
		if ev.Type == et {
			res = append(res, ev)
		}
	}
	return res
}

func (t *countdownSuite) TestCountdownUpdatePerTick() {
	a := &auction.Auction{
		Id:           "auction-1",
		Status:       auction.StatusActive,
		CurrentPrice: "75",
		BidCount:     3,
		EndDate:      t.clock.Now().Add(time.Hour),
	}
	t.mockAuction.On("List", mock.Anything, mock.Anything, mock.Anything).Return([]*auction.Auction{a}, nil)

	t.NoError(t.subject.tick(mockCtx))
	t.NoError(t.subject.tick(mockCtx))

	countdown := t.eventsOfType(notification.EventCountdownUpdate)
	t.Len(countdown, 2)
	payload := countdown[0].Payload.(*notification.CountdownUpdatePayload)
	t.Equal("75", payload.Price)
	t.Equal(int32(3), payload.BidCount)
	t.Equal(time.Hour.Milliseconds(), payload.TimeRemainingMs)

	// an hour out, no ending-soon window applies
	t.Empty(t.eventsOfType(notification.EventAuctionEnding))
}

func (t *countdownSuite) TestEndingSoonIsEdgeTriggered() {
	a := &auction.Auction{
		Id:      "auction-1",
		Status:  auction.StatusActive,
		EndDate: t.clock.Now().Add(14 * time.Minute),
	}
	t.mockAuction.On("List", mock.Anything, mock.Anything, mock.Anything).Return([]*auction.Auction{a}, nil)

	// several ticks inside the 15 minute window produce exactly one event
	t.NoError(t.subject.tick(mockCtx))
	t.NoError(t.subject.tick(mockCtx))
	t.NoError(t.subject.tick(mockCtx))

	ending := t.eventsOfType(notification.EventAuctionEnding)
	t.Len(ending, 1)
	t.Equal(int32(15), ending[0].Payload.(*notification.AuctionEndingPayload).WindowMinutes)

	// crossing into the 5 minute window fires again, once
	t.clock.Add(10 * time.Minute)
	t.NoError(t.subject.tick(mockCtx))
	t.NoError(t.subject.tick(mockCtx))

	ending = t.eventsOfType(notification.EventAuctionEnding)
	t.Len(ending, 2)
	t.Equal(int32(5), ending[1].Payload.(*notification.AuctionEndingPayload).WindowMinutes)

	// and the 1 minute window
	t.clock.Add(3*time.Minute + 30*time.Second)
	t.NoError(t.subject.tick(mockCtx))

	ending = t.eventsOfType(notification.EventAuctionEnding)
	t.Len(ending, 3)
	t.Equal(int32(1), ending[2].Payload.(*notification.AuctionEndingPayload).WindowMinutes)
}

func (t *countdownSuite) TestThresholdStateDroppedWhenAuctionLeaves() {
	a := &auction.Auction{
		Id:      "auction-1",
		Status:  auction.StatusActive,
		EndDate: t.clock.Now().Add(10 * time.Minute),
	}
	t.mockAuction.On("List", mock.Anything, mock.Anything, mock.Anything).Return([]*auction.Auction{a}, nil).Once()
	t.NoError(t.subject.tick(mockCtx))
	t.Len(t.subject.lastThreshold, 1)

	// auction ended and no longer enumerated
	t.mockAuction.On("List", mock.Anything, mock.Anything, mock.Anything).Return([]*auction.Auction{}, nil)
	t.NoError(t.subject.tick(mockCtx))
	t.Empty(t.subject.lastThreshold)
}
