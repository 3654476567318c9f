package notification

import (
	"time"

	"github.com/bidhaus/goapi/base/ctx"
)

type EventType string

func (t EventType) String() string {
	return string(t)
}

const (
	EventBidUpdate       EventType = "bid-update"
	EventCountdownUpdate EventType = "countdown-update"
	EventAuctionEnding   EventType = "auction-ending"
	EventAuctionExtended EventType = "auction-extended"
	EventAuctionEnded    EventType = "auction-ended"
)

// Event is a flat versionable record fanned out on the auction's channel.
type Event struct {
	Version   int32       `json:"version"`
	Type      EventType   `json:"type"`
	AuctionId string      `json:"auctionId"`
	EmittedAt time.Time   `json:"emittedAt"`
	Payload   interface{} `json:"payload"`
}

const EventVersion = int32(1)

func NewEvent(t EventType, auctionId string, emittedAt time.Time, payload interface{}) *Event {
	return &Event{
		Version:   EventVersion,
		Type:      t,
		AuctionId: auctionId,
		EmittedAt: emittedAt,
		Payload:   payload,
	}
}

type BidUpdatePayload struct {
	Price           string `json:"price"`
	BidCount        int32  `json:"bidCount"`
	NextMinimumBid  string `json:"nextMinimumBid"`
	TimeRemainingMs int64  `json:"timeRemainingMs"`
}

type CountdownUpdatePayload struct {
	Price           string `json:"price"`
	BidCount        int32  `json:"bidCount"`
	TimeRemainingMs int64  `json:"timeRemainingMs"`
}

type AuctionEndingPayload struct {
	WindowMinutes   int32 `json:"windowMinutes"`
	TimeRemainingMs int64 `json:"timeRemainingMs"`
}

type AuctionExtendedPayload struct {
	NewEndDate time.Time `json:"newEndDate"`
	BidId      string    `json:"bidId"`
}

type AuctionEndedPayload struct {
	WinnerId   *string `json:"winnerId,omitempty"`
	FinalPrice string  `json:"finalPrice"`
	BidCount   int32   `json:"bidCount"`
	ReserveMet bool    `json:"reserveMet"`
}

// Publisher is a fan-out-only sink addressed by auction id. Implementations
// must not read back into the engine, and dispatch failures must never fail
// a bid commit.
type Publisher interface {
	Publish(c ctx.Ctx, auctionId string, ev *Event) error
}
