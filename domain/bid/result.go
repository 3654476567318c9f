package bid

import (
	"github.com/shopspring/decimal"

	"github.com/bidhaus/goapi/base/ctx"
)

// Outcome tags the result of a bid placement. Every value except
// OutcomeSuccess is an expected business rejection, safe to retry with
// corrected input; OutcomeInternalError is the only infrastructure fault.
type Outcome string

const (
	OutcomeSuccess           Outcome = "success"
	OutcomeInvalidAmount     Outcome = "invalid-amount"
	OutcomeAuctionNotActive  Outcome = "auction-not-active"
	OutcomeAuctionEnded      Outcome = "auction-ended"
	OutcomeSelfBid           Outcome = "self-bid"
	OutcomeBidTooLow         Outcome = "bid-too-low"
	OutcomeMaxBidsReached    Outcome = "max-bids-reached"
	OutcomeBidderNotApproved Outcome = "bidder-not-approved"
	OutcomeInternalError     Outcome = "internal-error"
)

func (o Outcome) String() string {
	return string(o)
}

func (o Outcome) IsSuccess() bool {
	return o == OutcomeSuccess
}

// PlaceBidResult is the tagged outcome of PlaceBid. NextMinimumBid is always
// populated on bid-too-low so the caller can self-correct without a second
// round trip.
type PlaceBidResult struct {
	Outcome         Outcome `json:"outcome"`
	Bid             *Bid    `json:"bid,omitempty"`
	NextMinimumBid  string  `json:"nextMinimumBid,omitempty"`
	TimeRemainingMs int64   `json:"timeRemainingMs,omitempty"`
}

// Usecase is the bid arbitration engine. PlaceBid returns rejections as
// tagged outcomes, never errors; the error return is reserved for
// infrastructure faults surfacing alongside OutcomeInternalError.
type Usecase interface {
	PlaceBid(c ctx.Ctx, auctionId, bidderId string, amount decimal.Decimal) (*PlaceBidResult, error)
	GetNextMinimumBid(c ctx.Ctx, auctionId string) (decimal.Decimal, error)
	GetHighestBid(c ctx.Ctx, auctionId string) (*Bid, error)
	// IsValidBid runs the same validation as PlaceBid without committing.
	IsValidBid(c ctx.Ctx, auctionId, bidderId string, amount decimal.Decimal) (bool, error)
	ListBids(c ctx.Ctx, auctionId string, opts ...FindAllOptionsFunc) ([]*Bid, error)
}
