package sweeper

import (
	"time"

	"github.com/benbjohnson/clock"

	bCtx "github.com/bidhaus/goapi/base/ctx"
	"github.com/bidhaus/goapi/base/goroutine"
	"github.com/bidhaus/goapi/base/log"
	"github.com/bidhaus/goapi/base/metrics"
	"github.com/bidhaus/goapi/domain/auction"
)

const (
	// itemTimeout bounds per-auction evaluation so one slow auction cannot
	// stall the whole sweep.
	itemTimeout = 10 * time.Second

	sweepBatchSize = int32(500)
)

type StatusSweeperCfg struct {
	Auction  auction.Usecase
	Interval time.Duration
	Clock    clock.Clock
	ErrorCh  chan<- error
}

// StatusSweeper is the authoritative lifecycle sweep: on every tick it walks
// the scheduled and active auctions and asks the lifecycle usecase to advance
// time-driven transitions. Faults are isolated per auction.
type StatusSweeper struct {
	auction   auction.Usecase
	interval  time.Duration
	clock     clock.Clock
	errorCh   chan<- error
	stoppedCh chan interface{}
}

func NewStatusSweeper(cfg *StatusSweeperCfg) *StatusSweeper {
	ck := cfg.Clock
	if ck == nil {
		ck = clock.New()
	}
	return &StatusSweeper{
		auction:   cfg.Auction,
		interval:  cfg.Interval,
		clock:     ck,
		errorCh:   cfg.ErrorCh,
		stoppedCh: make(chan interface{}),
	}
}

func (s *StatusSweeper) Start(ctx bCtx.Ctx) {
	go s.loop(ctx)
}

func (s *StatusSweeper) Wait() {
	<-s.stoppedCh
}

func (s *StatusSweeper) loop(ctx bCtx.Ctx) {
	ticker := s.clock.Ticker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			close(s.stoppedCh)
			return
		case <-ticker.C:
			if err := s.sweep(ctx); err != nil {
				ctx.WithField("err", err).Error("sweep failed")
				if s.errorCh != nil {
					s.errorCh <- err
				}
			}
		}
	}
}

// sweep enumerates auctions that may need a transition. An error from a
// single auction is logged and skipped; only enumeration errors abort the
// tick.
func (s *StatusSweeper) sweep(ctx bCtx.Ctx) error {
	defer metrics.New("sweeper").BumpTime("sweep.time").End()

	now := s.clock.Now()
	auctions, err := s.auction.List(ctx,
		auction.WithStatuses(auction.StatusScheduled, auction.StatusActive),
		auction.WithStartDateLTE(now),
		auction.WithPagination(0, sweepBatchSize),
	)
	if err != nil {
		ctx.WithField("err", err).Error("auction.List failed")
		return err
	}

	for _, a := range auctions {
		s.evaluateOne(ctx, a.Id)
	}
	return nil
}

func (s *StatusSweeper) evaluateOne(ctx bCtx.Ctx, id string) {
	itemCtx, cancel := bCtx.WithTimeout(ctx, itemTimeout)
	defer cancel()

	done := goroutine.RecoverableGo(func() {
		if _, err := s.auction.EvaluateTransitions(itemCtx, id); err != nil {
			itemCtx.WithFields(log.Fields{
				"auctionId": id,
				"err":       err,
			}).Error("EvaluateTransitions failed")
		}
	})

	select {
	case <-done:
	case <-itemCtx.Done():
		ctx.WithField("auctionId", id).Warn("auction evaluation timed out")
	}
}
