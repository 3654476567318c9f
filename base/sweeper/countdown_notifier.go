package sweeper

import (
	"sync"
	"time"

	"github.com/benbjohnson/clock"

	bCtx "github.com/bidhaus/goapi/base/ctx"
	"github.com/bidhaus/goapi/base/log"
	"github.com/bidhaus/goapi/domain/auction"
	"github.com/bidhaus/goapi/domain/notification"
)

// endingSoonThresholds are the time-remaining windows that trigger a one-time
// ending-soon notification, largest first.
var endingSoonThresholds = []time.Duration{
	15 * time.Minute,
	5 * time.Minute,
	1 * time.Minute,
}

type CountdownNotifierCfg struct {
	Auction   auction.Usecase
	Publisher notification.Publisher
	Interval  time.Duration
	Clock     clock.Clock
	ErrorCh   chan<- error
}

// CountdownNotifier emits a countdown update for every active auction on each
// tick and an edge-triggered ending-soon notification when time remaining crosses
// a threshold window. Threshold state lives in memory; a restart re-sends at
// most one notification per window.
type CountdownNotifier struct {
	auction   auction.Usecase
	publisher notification.Publisher
	interval  time.Duration
	clock     clock.Clock
	errorCh   chan<- error
	stoppedCh chan interface{}

	mu sync.Mutex
	// lastThreshold remembers the smallest window already announced per
	// auction, keeping the notifications edge-triggered.
	lastThreshold map[string]time.Duration
}

func NewCountdownNotifier(cfg *CountdownNotifierCfg) *CountdownNotifier {
	ck := cfg.Clock
	if ck == nil {
		ck = clock.New()
	}
	return &CountdownNotifier{
		auction:       cfg.Auction,
		publisher:     cfg.Publisher,
		interval:      cfg.Interval,
		clock:         ck,
		errorCh:       cfg.ErrorCh,
		stoppedCh:     make(chan interface{}),
		lastThreshold: map[string]time.Duration{},
	}
}

func (n *CountdownNotifier) Start(ctx bCtx.Ctx) {
	go n.loop(ctx)
}

func (n *CountdownNotifier) Wait() {
	<-n.stoppedCh
}

func (n *CountdownNotifier) loop(ctx bCtx.Ctx) {
	ticker := n.clock.Ticker(n.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			close(n.stoppedCh)
			return
		case <-ticker.C:
			if err := n.tick(ctx); err != nil {
				ctx.WithField("err", err).Error("countdown tick failed")
				if n.errorCh != nil {
					n.errorCh <- err
				}
			}
		}
	}
}

func (n *CountdownNotifier) tick(ctx bCtx.Ctx) error {
	auctions, err := n.auction.List(ctx,
		auction.WithStatuses(auction.StatusActive),
		auction.WithPagination(0, sweepBatchSize),
	)
	if err != nil {
		ctx.WithField("err", err).Error("auction.List failed")
		return err
	}

	seen := map[string]bool{}
	for _, a := range auctions {
		seen[a.Id] = true
		n.notifyOne(ctx, a)
	}
	n.dropStale(seen)
	return nil
}

// notifyOne publishes the countdown update and, at most once per threshold
// window, the ending-soon notification. Publish failures are logged per auction
// and never abort the tick.
func (n *CountdownNotifier) notifyOne(ctx bCtx.Ctx, a *auction.Auction) {
	now := n.clock.Now()
	remaining := a.TimeRemaining(now)

	countdown := notification.NewEvent(notification.EventCountdownUpdate, a.Id, now, &notification.CountdownUpdatePayload{
		Price:           a.CurrentPrice,
		BidCount:        a.BidCount,
		TimeRemainingMs: remaining.Milliseconds(),
	})
	if err := n.publisher.Publish(ctx, a.Id, countdown); err != nil {
		ctx.WithFields(log.Fields{
			"auctionId": a.Id,
			"err":       err,
		}).Error("failed to publisher.Publish")
	}

	threshold, ok := n.crossThreshold(a.Id, remaining)
	if !ok {
		return
	}

	ending := notification.NewEvent(notification.EventAuctionEnding, a.Id, now, &notification.AuctionEndingPayload{
		WindowMinutes:   int32(threshold / time.Minute),
		TimeRemainingMs: remaining.Milliseconds(),
	})
	if err := n.publisher.Publish(ctx, a.Id, ending); err != nil {
		ctx.WithFields(log.Fields{
			"auctionId": a.Id,
			"err":       err,
		}).Error("failed to publisher.Publish")
	}
}

// crossThreshold reports whether time remaining has entered a window that has
// not been announced for this auction yet, and records the window when it has.
func (n *CountdownNotifier) crossThreshold(auctionId string, remaining time.Duration) (time.Duration, bool) {
	var crossed time.Duration
	for _, t := range endingSoonThresholds {
		if remaining <= t {
			crossed = t
		}
	}
	if crossed == 0 {
		return 0, false
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	if last, ok := n.lastThreshold[auctionId]; ok && last <= crossed {
		return 0, false
	}
	n.lastThreshold[auctionId] = crossed
	return crossed, true
}

// dropStale forgets threshold state of auctions that are no longer active.
func (n *CountdownNotifier) dropStale(active map[string]bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	for id := range n.lastThreshold {
		if !active[id] {
			delete(n.lastThreshold, id)
		}
	}
}
