package sweeper

import (
	"errors"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	bCtx "github.com/bidhaus/goapi/base/ctx"
	"github.com/bidhaus/goapi/domain/auction"
	mockAuction "github.com/bidhaus/goapi/domain/auction/mocks"
)

var (
	mockCtx      = bCtx.Background()
	errTransient = errors.New("transient registry error")
)

type statusSweeperSuite struct {
	suite.Suite
	mockAuction *mockAuction.Usecase
	clock       *clock.Mock
	subject     *StatusSweeper
}

func TestStatusSweeper(t *testing.T) {
	suite.Run(t, new(statusSweeperSuite))
}

func (t *statusSweeperSuite) SetupTest() {
	t.mockAuction = &mockAuction.Usecase{}
	t.clock = clock.NewMock()
	t.clock.Set(time.Date(2023, 6, 1, 12, 0, 0, 0, time.UTC))
	t.subject = NewStatusSweeper(&StatusSweeperCfg{
		Auction:  t.mockAuction,
		Interval: time.Minute,
		Clock:    t.clock,
	})
}

func (t *statusSweeperSuite) TestSweepEvaluatesEachAuction() {
	auctions := []*auction.Auction{
		{Id: "auction-1", Status: auction.StatusScheduled},
		{Id: "auction-2", Status: auction.StatusActive},
	}
	t.mockAuction.On("List", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(auctions, nil)
	t.mockAuction.On("EvaluateTransitions", mock.Anything, "auction-1").Return(auctions[0], nil)
	t.mockAuction.On("EvaluateTransitions", mock.Anything, "auction-2").Return(auctions[1], nil)

	t.NoError(t.subject.sweep(mockCtx))
	t.mockAuction.AssertExpectations(t.T())
}

func (t *statusSweeperSuite) TestSweepIsolatesPerItemFaults() {
	auctions := []*auction.Auction{
		{Id: "auction-1", Status: auction.StatusActive},
		{Id: "auction-2", Status: auction.StatusActive},
	}
	t.mockAuction.On("List", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(auctions, nil)
	t.mockAuction.On("EvaluateTransitions", mock.Anything, "auction-1").Return(nil, errTransient)
	t.mockAuction.On("EvaluateTransitions", mock.Anything, "auction-2").Return(auctions[1], nil)

	// the first auction's failure must not abort the sweep
	t.NoError(t.subject.sweep(mockCtx))
	t.mockAuction.AssertCalled(t.T(), "EvaluateTransitions", mock.Anything, "auction-2")
}

func (t *statusSweeperSuite) TestSweepIsolatesPerItemPanics() {
	auctions := []*auction.Auction{
		{Id: "auction-1", Status: auction.StatusActive},
		{Id: "auction-2", Status: auction.StatusActive},
	}
	t.mockAuction.On("List", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(auctions, nil)
	t.mockAuction.On("EvaluateTransitions", mock.Anything, "auction-1").Run(func(mock.Arguments) {
		panic("registry exploded")
	}).Return(nil, nil)
	t.mockAuction.On("EvaluateTransitions", mock.Anything, "auction-2").Return(auctions[1], nil)

	t.NoError(t.subject.sweep(mockCtx))
	t.mockAuction.AssertCalled(t.T(), "EvaluateTransitions", mock.Anything, "auction-2")
}

func (t *statusSweeperSuite) TestTickerDrivesSweep() {
	evaluated := make(chan string, 1)
	t.mockAuction.On("List", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return([]*auction.Auction{{Id: "auction-1", Status: auction.StatusScheduled}}, nil)
	t.mockAuction.On("EvaluateTransitions", mock.Anything, "auction-1").Run(func(args mock.Arguments) {
		evaluated <- args.String(1)
	}).Return(&auction.Auction{Id: "auction-1"}, nil)

	ctx, cancel := bCtx.WithCancel(mockCtx)
	t.subject.Start(ctx)
	// give the loop a chance to install its ticker before advancing
	time.Sleep(10 * time.Millisecond)
	t.clock.Add(time.Minute)

	select {
	case id := <-evaluated:
		t.Equal("auction-1", id)
	case <-time.After(time.Second):
		t.FailNow("sweep never ran")
	}

	cancel()
	t.subject.Wait()
}
