package usecase

import (
	"errors"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"

	"github.com/bidhaus/goapi/base/ctx"
	"github.com/bidhaus/goapi/base/goroutine"
	"github.com/bidhaus/goapi/base/log"
	"github.com/bidhaus/goapi/base/ptr"
	"github.com/bidhaus/goapi/domain"
	"github.com/bidhaus/goapi/domain/auction"
	"github.com/bidhaus/goapi/domain/bid"
	"github.com/bidhaus/goapi/domain/keys"
	"github.com/bidhaus/goapi/domain/notification"
	"github.com/bidhaus/goapi/service/cache"
)

// maxUpdateRetries bounds re-reads when a version-guarded patch loses to a
// concurrent writer (a bid commit or another lifecycle update).
const maxUpdateRetries = 3

type Cfg struct {
	AuctionRepo  auction.Repo
	ApprovalRepo auction.ApprovalRepo
	BidRepo      bid.Repo
	Publisher    notification.Publisher
	Clock        clock.Clock

	// Cache, when set, backs display reads. Mutating operations invalidate it.
	Cache cache.Service
}

type auctionUseCase struct {
	auctionRepo  auction.Repo
	approvalRepo auction.ApprovalRepo
	bidRepo      bid.Repo
	publisher    notification.Publisher
	clock        clock.Clock
	cache        cache.Service
}

func New(cfg *Cfg) auction.Usecase {
	ck := cfg.Clock
	if ck == nil {
		ck = clock.New()
	}
	return &auctionUseCase{
		auctionRepo:  cfg.AuctionRepo,
		approvalRepo: cfg.ApprovalRepo,
		bidRepo:      cfg.BidRepo,
		publisher:    cfg.Publisher,
		clock:        ck,
		cache:        cfg.Cache,
	}
}

func (im *auctionUseCase) Create(c ctx.Ctx, a *auction.Auction) (*auction.Auction, error) {
	now := im.clock.Now()

	if a.Status == "" {
		a.Status = auction.StatusDraft
	}
	if a.Status != auction.StatusDraft && a.Status != auction.StatusScheduled {
		return nil, domain.ErrBadParamInput
	}
	if a.Status == auction.StatusScheduled && !a.EndDate.After(a.StartDate) {
		return nil, auction.ErrEndBeforeStart
	}
	if !a.StartingPriceDecimal().IsPositive() {
		return nil, domain.ErrBadParamInput
	}

	if a.Id == "" {
		a.Id = uuid.NewString()
	}
	a.CurrentPrice = a.StartingPrice
	a.BidCount = 0
	a.Version = 0
	a.CreatedAt = now
	a.UpdatedAt = now

	if err := im.auctionRepo.Insert(c, a); err != nil {
		c.WithFields(log.Fields{
			"auction": a,
			"err":     err,
		}).Error("failed to auctionRepo.Insert")
		return nil, err
	}
	return a, nil
}

func (im *auctionUseCase) Get(c ctx.Ctx, id string) (*auction.Auction, error) {
	if im.cache == nil {
		return im.auctionRepo.FindOne(c, id)
	}

	res := &auction.Auction{}
	err := im.cache.GetByFunc(c, keys.RedisKey(keys.PfxAuction, id), res, func() (interface{}, error) {
		return im.auctionRepo.FindOne(c, id)
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (im *auctionUseCase) List(c ctx.Ctx, opts ...auction.FindAllOptionsFunc) ([]*auction.Auction, error) {
	return im.auctionRepo.FindAll(c, opts...)
}

func (im *auctionUseCase) Activate(c ctx.Ctx, id string) (bool, error) {
	for attempt := 0; attempt < maxUpdateRetries; attempt++ {
		a, err := im.auctionRepo.FindOne(c, id)
		if err != nil {
			return false, err
		}
		if !a.Status.CanTransitionTo(auction.StatusActive) {
			return false, nil
		}

		now := im.clock.Now()
		if !a.EndDate.After(now) {
			return false, auction.ErrEndBeforeStart
		}

		err = im.auctionRepo.Update(c, id, a.Version, &auction.Updater{
			Status:    statusPtr(auction.StatusActive),
			StartDate: &now,
			UpdatedAt: now,
		})
		if errors.Is(err, domain.ErrConflict) {
			continue
		}
		if err != nil {
			return false, err
		}

		im.invalidate(c, id)
		return true, nil
	}
	return false, domain.ErrConflict
}

func (im *auctionUseCase) Schedule(c ctx.Ctx, id string, start, end time.Time) (bool, error) {
	if !end.After(start) {
		return false, auction.ErrEndBeforeStart
	}

	for attempt := 0; attempt < maxUpdateRetries; attempt++ {
		a, err := im.auctionRepo.FindOne(c, id)
		if err != nil {
			return false, err
		}
		if !a.Status.CanTransitionTo(auction.StatusScheduled) {
			return false, nil
		}

		now := im.clock.Now()
		err = im.auctionRepo.Update(c, id, a.Version, &auction.Updater{
			Status:    statusPtr(auction.StatusScheduled),
			StartDate: &start,
			EndDate:   &end,
			UpdatedAt: now,
		})
		if errors.Is(err, domain.ErrConflict) {
			continue
		}
		if err != nil {
			return false, err
		}

		im.invalidate(c, id)
		return true, nil
	}
	return false, domain.ErrConflict
}

func (im *auctionUseCase) Cancel(c ctx.Ctx, id, reason string) (bool, error) {
	for attempt := 0; attempt < maxUpdateRetries; attempt++ {
		a, err := im.auctionRepo.FindOne(c, id)
		if err != nil {
			return false, err
		}
		if !a.Status.CanTransitionTo(auction.StatusCancelled) {
			return false, nil
		}

		err = im.auctionRepo.Update(c, id, a.Version, &auction.Updater{
			Status:       statusPtr(auction.StatusCancelled),
			CancelReason: ptr.String(reason),
			UpdatedAt:    im.clock.Now(),
		})
		if errors.Is(err, domain.ErrConflict) {
			continue
		}
		if err != nil {
			return false, err
		}

		im.invalidate(c, id)
		return true, nil
	}
	return false, domain.ErrConflict
}

func (im *auctionUseCase) EndNow(c ctx.Ctx, id string) (bool, error) {
	for attempt := 0; attempt < maxUpdateRetries; attempt++ {
		a, err := im.auctionRepo.FindOne(c, id)
		if err != nil {
			return false, err
		}
		if !a.Status.CanTransitionTo(auction.StatusEnded) {
			return false, nil
		}

		ended, err := im.endAuction(c, a)
		if errors.Is(err, domain.ErrConflict) {
			continue
		}
		return ended, err
	}
	return false, domain.ErrConflict
}

func (im *auctionUseCase) MarkSold(c ctx.Ctx, id string) (bool, error) {
	for attempt := 0; attempt < maxUpdateRetries; attempt++ {
		a, err := im.auctionRepo.FindOne(c, id)
		if err != nil {
			return false, err
		}
		if !a.Status.CanTransitionTo(auction.StatusSold) {
			return false, nil
		}
		if a.WinnerId == nil {
			return false, nil
		}

		err = im.auctionRepo.Update(c, id, a.Version, &auction.Updater{
			Status:    statusPtr(auction.StatusSold),
			UpdatedAt: im.clock.Now(),
		})
		if errors.Is(err, domain.ErrConflict) {
			continue
		}
		if err != nil {
			return false, err
		}

		im.invalidate(c, id)
		return true, nil
	}
	return false, domain.ErrConflict
}

func (im *auctionUseCase) EvaluateTransitions(c ctx.Ctx, id string) (*auction.Auction, error) {
	for attempt := 0; attempt < maxUpdateRetries; attempt++ {
		a, err := im.auctionRepo.FindOne(c, id)
		if err != nil {
			return nil, err
		}

		now := im.clock.Now()

		if a.Status == auction.StatusScheduled && !now.Before(a.StartDate) {
			err = im.auctionRepo.Update(c, id, a.Version, &auction.Updater{
				Status:    statusPtr(auction.StatusActive),
				UpdatedAt: now,
			})
			if errors.Is(err, domain.ErrConflict) {
				continue
			}
			if err != nil {
				return nil, err
			}
			im.invalidate(c, id)

			a, err = im.auctionRepo.FindOne(c, id)
			if err != nil {
				return nil, err
			}
		}

		if a.Status == auction.StatusActive && !now.Before(a.EndDate) {
			if _, err := im.endAuction(c, a); err != nil {
				if errors.Is(err, domain.ErrConflict) {
					continue
				}
				return nil, err
			}
			return im.auctionRepo.FindOne(c, id)
		}

		return a, nil
	}
	return nil, domain.ErrConflict
}

// endAuction performs the one-way Active→Ended patch and emits the terminal
// notification. The patch can only succeed once per auction, which is what
// makes the ended event exactly-once.
func (im *auctionUseCase) endAuction(c ctx.Ctx, a *auction.Auction) (bool, error) {
	err := im.auctionRepo.Update(c, a.Id, a.Version, &auction.Updater{
		Status:    statusPtr(auction.StatusEnded),
		UpdatedAt: im.clock.Now(),
	})
	if err != nil {
		if !errors.Is(err, domain.ErrConflict) {
			c.WithFields(log.Fields{
				"auctionId": a.Id,
				"err":       err,
			}).Error("failed to auctionRepo.Update")
		}
		return false, err
	}

	im.invalidate(c, a.Id)
	im.publishEnded(c, a)
	return true, nil
}

func (im *auctionUseCase) publishEnded(c ctx.Ctx, a *auction.Auction) {
	reserveMet := true
	if rp := a.ReservePriceDecimal(); rp != nil {
		reserveMet = a.CurrentPriceDecimal().GreaterThanOrEqual(*rp)
	}

	payload := &notification.AuctionEndedPayload{
		FinalPrice: a.CurrentPrice,
		BidCount:   a.BidCount,
		ReserveMet: reserveMet,
	}
	if reserveMet && a.WinnerId != nil {
		payload.WinnerId = a.WinnerId
	}

	ev := notification.NewEvent(notification.EventAuctionEnded, a.Id, im.clock.Now(), payload)
	goroutine.RecoverableGo(func() {
		if err := im.publisher.Publish(c, a.Id, ev); err != nil {
			c.WithFields(log.Fields{
				"auctionId": a.Id,
				"err":       err,
			}).Error("failed to publisher.Publish")
		}
	})
}

func (im *auctionUseCase) CheckAutoExtension(c ctx.Ctx, id, bidId string) (bool, error) {
	for attempt := 0; attempt < maxUpdateRetries; attempt++ {
		a, err := im.auctionRepo.FindOne(c, id)
		if err != nil {
			return false, err
		}

		if !a.AutoExtend || a.Status != auction.StatusActive {
			return false, nil
		}
		// already extended for this bid
		if a.LastExtensionBidId == bidId {
			return false, nil
		}

		window := a.AutoExtendWindow()
		if window <= 0 {
			return false, nil
		}

		now := im.clock.Now()
		if a.EndDate.Sub(now) > window {
			return false, nil
		}

		cnt, err := im.bidRepo.Count(c, bid.WithAuctionId(id), bid.WithPlacedAfter(now.Add(-window)))
		if err != nil {
			c.WithFields(log.Fields{
				"auctionId": id,
				"err":       err,
			}).Error("failed to bidRepo.Count")
			return false, err
		}
		if cnt == 0 {
			return false, nil
		}

		newEnd := now.Add(window)
		err = im.auctionRepo.Update(c, id, a.Version, &auction.Updater{
			EndDate:            &newEnd,
			LastExtensionBidId: ptr.String(bidId),
			UpdatedAt:          now,
		})
		if errors.Is(err, domain.ErrConflict) {
			continue
		}
		if err != nil {
			c.WithFields(log.Fields{
				"auctionId": id,
				"err":       err,
			}).Error("failed to auctionRepo.Update")
			return false, err
		}

		im.invalidate(c, id)

		ev := notification.NewEvent(notification.EventAuctionExtended, id, now, &notification.AuctionExtendedPayload{
			NewEndDate: newEnd,
			BidId:      bidId,
		})
		goroutine.RecoverableGo(func() {
			if err := im.publisher.Publish(c, id, ev); err != nil {
				c.WithFields(log.Fields{
					"auctionId": id,
					"err":       err,
				}).Error("failed to publisher.Publish")
			}
		})

		return true, nil
	}
	return false, domain.ErrConflict
}

func (im *auctionUseCase) Approve(c ctx.Ctx, auctionId, bidderId string) error {
	if _, err := im.auctionRepo.FindOne(c, auctionId); err != nil {
		return err
	}
	return im.approvalRepo.Approve(c, auctionId, bidderId)
}

func (im *auctionUseCase) Revoke(c ctx.Ctx, auctionId, bidderId string) error {
	return im.approvalRepo.Revoke(c, auctionId, bidderId)
}

func (im *auctionUseCase) IsApproved(c ctx.Ctx, auctionId, bidderId string) (bool, error) {
	return im.approvalRepo.IsApproved(c, auctionId, bidderId)
}

func (im *auctionUseCase) invalidate(c ctx.Ctx, id string) {
	if im.cache == nil {
		return
	}
	if err := im.cache.Del(c, keys.RedisKey(keys.PfxAuction, id)); err != nil && !errors.Is(err, cache.ErrNotFound) {
		c.WithFields(log.Fields{
			"auctionId": id,
			"err":       err,
		}).Error("failed to cache.Del")
	}
}

func statusPtr(s auction.Status) *auction.Status {
	return &s
}
