package usecase

import (
	"errors"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/viney-shih/goroutines"

	"github.com/bidhaus/goapi/base/ctx"
	"github.com/bidhaus/goapi/base/goroutine"
	"github.com/bidhaus/goapi/base/keylock"
	"github.com/bidhaus/goapi/base/log"
	"github.com/bidhaus/goapi/base/metrics"
	"github.com/bidhaus/goapi/base/ptr"
	"github.com/bidhaus/goapi/domain"
	"github.com/bidhaus/goapi/domain/auction"
	"github.com/bidhaus/goapi/domain/bid"
	"github.com/bidhaus/goapi/domain/notification"
)

const (
	// maxCommitRetries bounds the re-validation loop when the version-guarded
	// auction patch loses to a concurrent lifecycle update.
	maxCommitRetries = 3

	extensionCheckTimeout = 3 * time.Second
)

type Cfg struct {
	AuctionRepo  auction.Repo
	ApprovalRepo auction.ApprovalRepo
	BidRepo      bid.Repo
	Auction      auction.Usecase
	Publisher    notification.Publisher
	Clock        clock.Clock
}

type bidUseCase struct {
	auctionRepo  auction.Repo
	approvalRepo auction.ApprovalRepo
	bidRepo      bid.Repo
	auction      auction.Usecase
	publisher    notification.Publisher
	clock        clock.Clock

	// locks serializes commits per auction id; validation re-runs inside the
	// critical section so a race loser sees the fresh minimum.
	locks      *keylock.KeyLock
	workerPool *goroutines.Pool
	met        metrics.Service
}

func New(cfg *Cfg) bid.Usecase {
	ck := cfg.Clock
	if ck == nil {
		ck = clock.New()
	}
	return &bidUseCase{
		auctionRepo:  cfg.AuctionRepo,
		approvalRepo: cfg.ApprovalRepo,
		bidRepo:      cfg.BidRepo,
		auction:      cfg.Auction,
		publisher:    cfg.Publisher,
		clock:        ck,
		locks:        keylock.New(256),
		workerPool:   goroutines.NewPool(32, goroutines.WithTaskQueueLength(1024), goroutines.WithPreAllocWorkers(8)),
		met:          metrics.New("bid"),
	}
}

func (im *bidUseCase) PlaceBid(c ctx.Ctx, auctionId, bidderId string, amount decimal.Decimal) (*bid.PlaceBidResult, error) {
	if !amount.IsPositive() {
		return im.reject(bid.OutcomeInvalidAmount, decimal.Zero, 0), nil
	}

	im.locks.Lock(auctionId)
	defer im.locks.Unlock(auctionId)

	for attempt := 0; attempt < maxCommitRetries; attempt++ {
		a, err := im.auctionRepo.FindOne(c, auctionId)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return im.reject(bid.OutcomeAuctionNotActive, decimal.Zero, 0), nil
			}
			c.WithFields(log.Fields{
				"auctionId": auctionId,
				"err":       err,
			}).Error("failed to auctionRepo.FindOne")
			return im.internalError(), err
		}

		now := im.clock.Now()

		outcome, nextMin, err := im.validate(c, a, bidderId, amount, now)
		if err != nil {
			return im.internalError(), err
		}
		if outcome != bid.OutcomeSuccess {
			im.bumpOutcome(outcome)
			return im.reject(outcome, nextMin, a.TimeRemaining(now).Milliseconds()), nil
		}

		// The bid lands non-winning; MarkWinning unsets the previous winner
		// and flips this one, so readers never observe two winning bids.
		newBid := &bid.Bid{
			Id:        uuid.NewString(),
			AuctionId: auctionId,
			BidderId:  bidderId,
			Amount:    amount.String(),
			PlacedAt:  now,
			Seq:       int64(a.BidCount) + 1,
		}

		// The version-guarded patch is the commit point. A conflict means a
		// lifecycle update slipped in; re-read and re-validate.
		err = im.auctionRepo.Update(c, auctionId, a.Version, &auction.Updater{
			CurrentPrice: ptr.String(newBid.Amount),
			BidCount:     ptr.Int32(a.BidCount + 1),
			WinnerId:     ptr.String(bidderId),
			UpdatedAt:    now,
		})
		if errors.Is(err, domain.ErrConflict) {
			continue
		}
		if err != nil {
			c.WithFields(log.Fields{
				"auctionId": auctionId,
				"err":       err,
			}).Error("failed to auctionRepo.Update")
			return im.internalError(), err
		}

		if err := im.bidRepo.Insert(c, newBid); err != nil {
			c.WithFields(log.Fields{
				"bid": newBid,
				"err": err,
			}).Error("failed to bidRepo.Insert")
			return im.internalError(), err
		}

		if err := im.bidRepo.MarkWinning(c, auctionId, newBid.Id); err != nil {
			c.WithFields(log.Fields{
				"auctionId": auctionId,
				"bidId":     newBid.Id,
				"err":       err,
			}).Error("failed to bidRepo.MarkWinning")
			return im.internalError(), err
		}
		newBid.IsWinning = true

		nextMinAfter := auction.NextMinimumBid(amount, a.BidIncrementDecimal())
		remaining := a.TimeRemaining(now).Milliseconds()

		im.publishBidUpdate(c, a, newBid, nextMinAfter, remaining)
		im.enqueueExtensionCheck(c, auctionId, newBid.Id)
		im.bumpOutcome(bid.OutcomeSuccess)

		return &bid.PlaceBidResult{
			Outcome:         bid.OutcomeSuccess,
			Bid:             newBid,
			NextMinimumBid:  nextMinAfter.String(),
			TimeRemainingMs: remaining,
		}, nil
	}

	c.WithField("auctionId", auctionId).Error("bid commit retries exhausted")
	return im.internalError(), domain.ErrConflict
}

// validate runs the pure pre-commit checks. It never mutates anything; an
// outcome other than success is an expected rejection, not a fault.
func (im *bidUseCase) validate(c ctx.Ctx, a *auction.Auction, bidderId string, amount decimal.Decimal, now time.Time) (bid.Outcome, decimal.Decimal, error) {
	switch {
	case a.Status == auction.StatusEnded || a.Status == auction.StatusSold:
		return bid.OutcomeAuctionEnded, decimal.Zero, nil
	case a.Status != auction.StatusActive || now.Before(a.StartDate):
		return bid.OutcomeAuctionNotActive, decimal.Zero, nil
	case !now.Before(a.EndDate):
		return bid.OutcomeAuctionEnded, decimal.Zero, nil
	}

	if bidderId == a.SellerId {
		return bid.OutcomeSelfBid, decimal.Zero, nil
	}

	nextMin, err := im.nextMinimumBid(c, a)
	if err != nil {
		return bid.OutcomeInternalError, decimal.Zero, err
	}
	if amount.LessThan(nextMin) {
		return bid.OutcomeBidTooLow, nextMin, nil
	}

	if a.RequirePreApproval {
		approved, err := im.approvalRepo.IsApproved(c, a.Id, bidderId)
		if err != nil {
			c.WithFields(log.Fields{
				"auctionId": a.Id,
				"bidderId":  bidderId,
				"err":       err,
			}).Error("failed to approvalRepo.IsApproved")
			return bid.OutcomeInternalError, decimal.Zero, err
		}
		if !approved {
			return bid.OutcomeBidderNotApproved, nextMin, nil
		}
	}

	if a.MaxBidsPerBidder != nil {
		cnt, err := im.bidRepo.Count(c, bid.WithAuctionId(a.Id), bid.WithBidderId(bidderId))
		if err != nil {
			c.WithFields(log.Fields{
				"auctionId": a.Id,
				"bidderId":  bidderId,
				"err":       err,
			}).Error("failed to bidRepo.Count")
			return bid.OutcomeInternalError, decimal.Zero, err
		}
		if int32(cnt) >= *a.MaxBidsPerBidder {
			return bid.OutcomeMaxBidsReached, nextMin, nil
		}
	}

	return bid.OutcomeSuccess, nextMin, nil
}

// nextMinimumBid computes the floor for the next acceptable bid: the winning
// bid's amount plus the applicable increment, or the starting price plus the
// increment when the auction has no bids yet.
func (im *bidUseCase) nextMinimumBid(c ctx.Ctx, a *auction.Auction) (decimal.Decimal, error) {
	winning, err := im.bidRepo.FindWinning(c, a.Id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return auction.NextMinimumBid(a.StartingPriceDecimal(), a.BidIncrementDecimal()), nil
		}
		c.WithFields(log.Fields{
			"auctionId": a.Id,
			"err":       err,
		}).Error("failed to bidRepo.FindWinning")
		return decimal.Zero, err
	}
	return auction.NextMinimumBid(winning.AmountDecimal(), a.BidIncrementDecimal()), nil
}

func (im *bidUseCase) GetNextMinimumBid(c ctx.Ctx, auctionId string) (decimal.Decimal, error) {
	a, err := im.auctionRepo.FindOne(c, auctionId)
	if err != nil {
		return decimal.Zero, err
	}
	return im.nextMinimumBid(c, a)
}

func (im *bidUseCase) GetHighestBid(c ctx.Ctx, auctionId string) (*bid.Bid, error) {
	return im.bidRepo.FindWinning(c, auctionId)
}

func (im *bidUseCase) IsValidBid(c ctx.Ctx, auctionId, bidderId string, amount decimal.Decimal) (bool, error) {
	if !amount.IsPositive() {
		return false, nil
	}
	a, err := im.auctionRepo.FindOne(c, auctionId)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	outcome, _, err := im.validate(c, a, bidderId, amount, im.clock.Now())
	if err != nil {
		return false, err
	}
	return outcome == bid.OutcomeSuccess, nil
}

func (im *bidUseCase) ListBids(c ctx.Ctx, auctionId string, opts ...bid.FindAllOptionsFunc) ([]*bid.Bid, error) {
	opts = append(opts, bid.WithAuctionId(auctionId))
	return im.bidRepo.FindAll(c, opts...)
}

// publishBidUpdate fans out the committed bid. Dispatch is fire-and-forget; a
// slow or failed publish never rolls back or delays the commit.
func (im *bidUseCase) publishBidUpdate(c ctx.Ctx, a *auction.Auction, b *bid.Bid, nextMin decimal.Decimal, remainingMs int64) {
	ev := notification.NewEvent(notification.EventBidUpdate, a.Id, b.PlacedAt, &notification.BidUpdatePayload{
		Price:           b.Amount,
		BidCount:        a.BidCount + 1,
		NextMinimumBid:  nextMin.String(),
		TimeRemainingMs: remainingMs,
	})
	goroutine.RecoverableGo(func() {
		if err := im.publisher.Publish(c, a.Id, ev); err != nil {
			c.WithFields(log.Fields{
				"auctionId": a.Id,
				"err":       err,
			}).Error("failed to publisher.Publish")
		}
	})
}

func (im *bidUseCase) enqueueExtensionCheck(c ctx.Ctx, auctionId, bidId string) {
	err := im.workerPool.ScheduleWithTimeout(extensionCheckTimeout, func() {
		if _, err := im.auction.CheckAutoExtension(c, auctionId, bidId); err != nil {
			c.WithFields(log.Fields{
				"auctionId": auctionId,
				"bidId":     bidId,
				"err":       err,
			}).Error("failed to CheckAutoExtension")
		}
	})
	if err != nil {
		c.WithFields(log.Fields{
			"auctionId": auctionId,
			"bidId":     bidId,
			"err":       err,
		}).Error("failed to ScheduleWithTimeout")
	}
}

func (im *bidUseCase) reject(outcome bid.Outcome, nextMin decimal.Decimal, remainingMs int64) *bid.PlaceBidResult {
	res := &bid.PlaceBidResult{
		Outcome:         outcome,
		TimeRemainingMs: remainingMs,
	}
	if !nextMin.IsZero() {
		res.NextMinimumBid = nextMin.String()
	}
	return res
}

func (im *bidUseCase) internalError() *bid.PlaceBidResult {
	im.bumpOutcome(bid.OutcomeInternalError)
	return &bid.PlaceBidResult{Outcome: bid.OutcomeInternalError}
}

func (im *bidUseCase) bumpOutcome(outcome bid.Outcome) {
	im.met.BumpSum("place_bid.outcome", 1, "outcome", outcome.String())
}
