package usecase

import (
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/bidhaus/goapi/base/ctx"
	"github.com/bidhaus/goapi/base/ptr"
	"github.com/bidhaus/goapi/domain"
	"github.com/bidhaus/goapi/domain/auction"
	mockAuction "github.com/bidhaus/goapi/domain/auction/mocks"
	mockBid "github.com/bidhaus/goapi/domain/bid/mocks"
	"github.com/bidhaus/goapi/domain/notification"
	mockNotification "github.com/bidhaus/goapi/domain/notification/mocks"
)

var (
	mockCtx = ctx.Background()
)

type testsuite struct {
	suite.Suite
	mockAuctionRepo  *mockAuction.Repo
	mockApprovalRepo *mockAuction.ApprovalRepo
	mockBidRepo      *mockBid.Repo
	mockPublisher    *mockNotification.Publisher
	clock            *clock.Mock
	subject          *auctionUseCase
}

func Test(t *testing.T) {
	suite.Run(t, new(testsuite))
}

func (t *testsuite) SetupTest() {
	t.mockAuctionRepo = &mockAuction.Repo{}
	t.mockApprovalRepo = &mockAuction.ApprovalRepo{}
	t.mockBidRepo = &mockBid.Repo{}
	t.mockPublisher = &mockNotification.Publisher{}
	t.clock = clock.NewMock()
	t.clock.Set(time.Date(2023, 6, 1, 12, 0, 0, 0, time.UTC))
	t.subject = &auctionUseCase{
		auctionRepo:  t.mockAuctionRepo,
		approvalRepo: t.mockApprovalRepo,
		bidRepo:      t.mockBidRepo,
		publisher:    t.mockPublisher,
		clock:        t.clock,
	}
}

func (t *testsuite) activeAuction() *auction.Auction {
	now := t.clock.Now()
	return &auction.Auction{
		Id:            "auction-1",
		SellerId:      "seller-1",
		StartingPrice: "50",
		CurrentPrice:  "75",
		BidCount:      3,
		WinnerId:      ptr.String("bidder-1"),
		StartDate:     now.Add(-time.Hour),
		EndDate:       now.Add(time.Hour),
		Status:        auction.StatusActive,
		Version:       7,
	}
}

func (t *testsuite) expectPublish(eventType notification.EventType) chan *notification.Event {
	published := make(chan *notification.Event, 1)
	t.mockPublisher.On("Publish", mock.Anything, mock.Anything, mock.MatchedBy(func(ev *notification.Event) bool {
		return ev.Type == eventType
	})).Run(func(args mock.Arguments) {
		published <- args.Get(2).(*notification.Event)
	}).Return(nil)
	return published
}

func (t *testsuite) waitPublish(published chan *notification.Event) *notification.Event {
	select {
	case ev := <-published:
		return ev
	case <-time.After(time.Second):
		t.FailNow("event was never published")
		return nil
	}
}

func (t *testsuite) TestCreateDefaultsToDraft() {
	t.mockAuctionRepo.On("Insert", mockCtx, mock.MatchedBy(func(a *auction.Auction) bool {
		return a.Status == auction.StatusDraft && a.CurrentPrice == a.StartingPrice && a.Id != ""
	})).Return(nil)

	a, err := t.subject.Create(mockCtx, &auction.Auction{
		SellerId:      "seller-1",
		StartingPrice: "50",
	})
	t.NoError(err)
	t.Equal(auction.StatusDraft, a.Status)
	t.Equal(int32(0), a.BidCount)
}

func (t *testsuite) TestCreateScheduledRequiresValidDates() {
	now := t.clock.Now()
	_, err := t.subject.Create(mockCtx, &auction.Auction{
		SellerId:      "seller-1",
		StartingPrice: "50",
		Status:        auction.StatusScheduled,
		StartDate:     now.Add(time.Hour),
		EndDate:       now.Add(time.Hour),
	})
	t.ErrorIs(err, auction.ErrEndBeforeStart)
}

func (t *testsuite) TestCreateRejectsNonInitialStatus() {
	_, err := t.subject.Create(mockCtx, &auction.Auction{
		SellerId:      "seller-1",
		StartingPrice: "50",
		Status:        auction.StatusActive,
	})
	t.ErrorIs(err, domain.ErrBadParamInput)
}

func (t *testsuite) TestActivateDraftSetsStartDate() {
	a := t.activeAuction()
	a.Status = auction.StatusDraft
	now := t.clock.Now()

	t.mockAuctionRepo.On("FindOne", mockCtx, a.Id).Return(a, nil)
	t.mockAuctionRepo.On("Update", mockCtx, a.Id, a.Version, mock.MatchedBy(func(u *auction.Updater) bool {
		return u.Status != nil && *u.Status == auction.StatusActive &&
			u.StartDate != nil && u.StartDate.Equal(now)
	})).Return(nil)

	ok, err := t.subject.Activate(mockCtx, a.Id)
	t.NoError(err)
	t.True(ok)
	t.mockAuctionRepo.AssertExpectations(t.T())
}

func (t *testsuite) TestActivateEndedIsNoop() {
	a := t.activeAuction()
	a.Status = auction.StatusEnded
	t.mockAuctionRepo.On("FindOne", mockCtx, a.Id).Return(a, nil)

	ok, err := t.subject.Activate(mockCtx, a.Id)
	t.NoError(err)
	t.False(ok)
	t.mockAuctionRepo.AssertNotCalled(t.T(), "Update", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (t *testsuite) TestScheduleRejectsEndBeforeStart() {
	now := t.clock.Now()
	_, err := t.subject.Schedule(mockCtx, "auction-1", now.Add(2*time.Hour), now.Add(time.Hour))
	t.ErrorIs(err, auction.ErrEndBeforeStart)
}

func (t *testsuite) TestCancelActive() {
	a := t.activeAuction()
	t.mockAuctionRepo.On("FindOne", mockCtx, a.Id).Return(a, nil)
	t.mockAuctionRepo.On("Update", mockCtx, a.Id, a.Version, mock.MatchedBy(func(u *auction.Updater) bool {
		return u.Status != nil && *u.Status == auction.StatusCancelled &&
			u.CancelReason != nil && *u.CancelReason == "item withdrawn"
	})).Return(nil)

	ok, err := t.subject.Cancel(mockCtx, a.Id, "item withdrawn")
	t.NoError(err)
	t.True(ok)
}

func (t *testsuite) TestCancelSoldIsNoop() {
	a := t.activeAuction()
	a.Status = auction.StatusSold
	t.mockAuctionRepo.On("FindOne", mockCtx, a.Id).Return(a, nil)

	ok, err := t.subject.Cancel(mockCtx, a.Id, "too late")
	t.NoError(err)
	t.False(ok)
}

func (t *testsuite) TestEndNowEmitsEndedEvent() {
	a := t.activeAuction()
	published := t.expectPublish(notification.EventAuctionEnded)

	t.mockAuctionRepo.On("FindOne", mockCtx, a.Id).Return(a, nil)
	t.mockAuctionRepo.On("Update", mockCtx, a.Id, a.Version, mock.MatchedBy(func(u *auction.Updater) bool {
		return u.Status != nil && *u.Status == auction.StatusEnded
	})).Return(nil)

	ok, err := t.subject.EndNow(mockCtx, a.Id)
	t.NoError(err)
	t.True(ok)

	ev := t.waitPublish(published)
	payload := ev.Payload.(*notification.AuctionEndedPayload)
	t.Equal("75", payload.FinalPrice)
	t.Equal(int32(3), payload.BidCount)
	t.True(payload.ReserveMet)
	t.Equal("bidder-1", *payload.WinnerId)
}

func (t *testsuite) TestEndNowTwiceIsNoop() {
	a := t.activeAuction()
	a.Status = auction.StatusEnded
	t.mockAuctionRepo.On("FindOne", mockCtx, a.Id).Return(a, nil)

	ok, err := t.subject.EndNow(mockCtx, a.Id)
	t.NoError(err)
	t.False(ok)
	t.mockPublisher.AssertNotCalled(t.T(), "Publish", mock.Anything, mock.Anything, mock.Anything)
}

func (t *testsuite) TestEndedWithUnmetReserveHasNoWinner() {
	a := t.activeAuction()
	a.ReservePrice = ptr.String("100")
	published := t.expectPublish(notification.EventAuctionEnded)

	t.mockAuctionRepo.On("FindOne", mockCtx, a.Id).Return(a, nil)
	t.mockAuctionRepo.On("Update", mockCtx, a.Id, a.Version, mock.Anything).Return(nil)

	ok, err := t.subject.EndNow(mockCtx, a.Id)
	t.NoError(err)
	t.True(ok)

	payload := t.waitPublish(published).Payload.(*notification.AuctionEndedPayload)
	t.False(payload.ReserveMet)
	t.Nil(payload.WinnerId)
}

func (t *testsuite) TestMarkSoldRequiresWinner() {
	a := t.activeAuction()
	a.Status = auction.StatusEnded
	a.WinnerId = nil
	t.mockAuctionRepo.On("FindOne", mockCtx, a.Id).Return(a, nil)

	ok, err := t.subject.MarkSold(mockCtx, a.Id)
	t.NoError(err)
	t.False(ok)
}

func (t *testsuite) TestMarkSold() {
	a := t.activeAuction()
	a.Status = auction.StatusEnded
	t.mockAuctionRepo.On("FindOne", mockCtx, a.Id).Return(a, nil)
	t.mockAuctionRepo.On("Update", mockCtx, a.Id, a.Version, mock.MatchedBy(func(u *auction.Updater) bool {
		return u.Status != nil && *u.Status == auction.StatusSold
	})).Return(nil)

	ok, err := t.subject.MarkSold(mockCtx, a.Id)
	t.NoError(err)
	t.True(ok)
}

func (t *testsuite) TestEvaluateTransitionsActivatesScheduled() {
	a := t.activeAuction()
	a.Status = auction.StatusScheduled
	a.StartDate = t.clock.Now().Add(-time.Minute)
	activated := t.activeAuction()
	activated.Version = a.Version + 1

	t.mockAuctionRepo.On("FindOne", mockCtx, a.Id).Return(a, nil).Once()
	t.mockAuctionRepo.On("Update", mockCtx, a.Id, a.Version, mock.MatchedBy(func(u *auction.Updater) bool {
		return u.Status != nil && *u.Status == auction.StatusActive
	})).Return(nil)
	t.mockAuctionRepo.On("FindOne", mockCtx, a.Id).Return(activated, nil).Once()

	res, err := t.subject.EvaluateTransitions(mockCtx, a.Id)
	t.NoError(err)
	t.Equal(auction.StatusActive, res.Status)
}

func (t *testsuite) TestEvaluateTransitionsEndsExpired() {
	a := t.activeAuction()
	a.EndDate = t.clock.Now().Add(-time.Minute)
	ended := t.activeAuction()
	ended.Status = auction.StatusEnded
	ended.Version = a.Version + 1
	published := t.expectPublish(notification.EventAuctionEnded)

	t.mockAuctionRepo.On("FindOne", mockCtx, a.Id).Return(a, nil).Once()
	t.mockAuctionRepo.On("Update", mockCtx, a.Id, a.Version, mock.MatchedBy(func(u *auction.Updater) bool {
		return u.Status != nil && *u.Status == auction.StatusEnded
	})).Return(nil)
	t.mockAuctionRepo.On("FindOne", mockCtx, a.Id).Return(ended, nil).Once()

	res, err := t.subject.EvaluateTransitions(mockCtx, a.Id)
	t.NoError(err)
	t.Equal(auction.StatusEnded, res.Status)
	t.waitPublish(published)
}

func (t *testsuite) TestCheckAutoExtensionPushesEndDate() {
	a := t.activeAuction()
	a.AutoExtend = true
	a.AutoExtendWindowMinutes = 10
	a.EndDate = t.clock.Now().Add(5 * time.Minute)
	now := t.clock.Now()
	published := t.expectPublish(notification.EventAuctionExtended)

	t.mockAuctionRepo.On("FindOne", mockCtx, a.Id).Return(a, nil)
	t.mockBidRepo.On("Count", mockCtx, mock.Anything, mock.Anything).Return(1, nil)
	t.mockAuctionRepo.On("Update", mockCtx, a.Id, a.Version, mock.MatchedBy(func(u *auction.Updater) bool {
		return u.EndDate != nil && u.EndDate.Equal(now.Add(10*time.Minute)) &&
			u.LastExtensionBidId != nil && *u.LastExtensionBidId == "bid-9"
	})).Return(nil)

	extended, err := t.subject.CheckAutoExtension(mockCtx, a.Id, "bid-9")
	t.NoError(err)
	t.True(extended)

	payload := t.waitPublish(published).Payload.(*notification.AuctionExtendedPayload)
	t.Equal("bid-9", payload.BidId)
	t.True(payload.NewEndDate.Equal(now.Add(10 * time.Minute)))
}

func (t *testsuite) TestCheckAutoExtensionIdempotentPerBid() {
	a := t.activeAuction()
	a.AutoExtend = true
	a.AutoExtendWindowMinutes = 10
	a.EndDate = t.clock.Now().Add(5 * time.Minute)
	a.LastExtensionBidId = "bid-9"

	t.mockAuctionRepo.On("FindOne", mockCtx, a.Id).Return(a, nil)

	extended, err := t.subject.CheckAutoExtension(mockCtx, a.Id, "bid-9")
	t.NoError(err)
	t.False(extended)
	t.mockAuctionRepo.AssertNotCalled(t.T(), "Update", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (t *testsuite) TestCheckAutoExtensionOutsideWindow() {
	a := t.activeAuction()
	a.AutoExtend = true
	a.AutoExtendWindowMinutes = 10
	a.EndDate = t.clock.Now().Add(time.Hour)

	t.mockAuctionRepo.On("FindOne", mockCtx, a.Id).Return(a, nil)

	extended, err := t.subject.CheckAutoExtension(mockCtx, a.Id, "bid-9")
	t.NoError(err)
	t.False(extended)
}
