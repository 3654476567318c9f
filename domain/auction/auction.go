package auction

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bidhaus/goapi/base/ctx"
)

// Status is the lifecycle state of an auction. Transitions are forward-only;
// see CanTransitionTo for the full table.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusScheduled Status = "scheduled"
	StatusActive    Status = "active"
	StatusEnded     Status = "ended"
	StatusSold      Status = "sold"
	StatusCancelled Status = "cancelled"
)

func (s Status) String() string {
	return string(s)
}

// IsTerminal reports whether no transition may leave this state.
// Ended is terminal except for the settlement step into Sold.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusEnded, StatusSold, StatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo encodes the forward-only state machine. Ended auctions may
// only move to Sold (external settlement); Sold and Cancelled accept nothing.
func (s Status) CanTransitionTo(next Status) bool {
	switch s {
	case StatusDraft:
		return next == StatusScheduled || next == StatusActive || next == StatusCancelled
	case StatusScheduled:
		return next == StatusActive || next == StatusCancelled
	case StatusActive:
		return next == StatusEnded || next == StatusCancelled
	case StatusEnded:
		return next == StatusSold
	}
	return false
}

// Auction is an auction listing stored in database. Monetary fields are
// decimal strings; never floats.
type Auction struct {
	Id            string  `json:"id" bson:"id"`
	Title         string  `json:"title" bson:"title"`
	Description   string  `json:"description" bson:"description"`
	SellerId      string  `json:"sellerId" bson:"sellerId"`
	StartingPrice string  `json:"startingPrice" bson:"startingPrice"`
	CurrentPrice  string  `json:"currentPrice" bson:"currentPrice"`
	BuyNowPrice   *string `json:"buyNowPrice,omitempty" bson:"buyNowPrice,omitempty"`
	ReservePrice  *string `json:"reservePrice,omitempty" bson:"reservePrice,omitempty"`

	StartDate time.Time `json:"startDate" bson:"startDate"`
	EndDate   time.Time `json:"endDate" bson:"endDate"`
	Status    Status    `json:"status" bson:"status"`
	BidCount  int32     `json:"bidCount" bson:"bidCount"`
	WinnerId  *string   `json:"winnerId,omitempty" bson:"winnerId,omitempty"`

	// BidIncrement overrides the default increment schedule when set.
	BidIncrement            *string `json:"bidIncrement,omitempty" bson:"bidIncrement,omitempty"`
	AutoExtend              bool    `json:"autoExtend" bson:"autoExtend"`
	AutoExtendWindowMinutes int32   `json:"autoExtendWindowMinutes" bson:"autoExtendWindowMinutes"`
	MaxBidsPerBidder        *int32  `json:"maxBidsPerBidder,omitempty" bson:"maxBidsPerBidder,omitempty"`
	RequirePreApproval      bool    `json:"requirePreApproval" bson:"requirePreApproval"`

	// LastExtensionBidId is the id of the bid that most recently triggered an
	// auto-extension. Extension patches are conditioned on it, which makes the
	// check idempotent per qualifying bid.
	LastExtensionBidId string `json:"-" bson:"lastExtensionBidId"`

	CancelReason string `json:"cancelReason,omitempty" bson:"cancelReason,omitempty"`

	// Version guards concurrent updates; every repo update increments it.
	Version int64 `json:"-" bson:"version"`

	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

func (a *Auction) StartingPriceDecimal() decimal.Decimal {
	d, _ := decimal.NewFromString(a.StartingPrice)
	return d
}

func (a *Auction) CurrentPriceDecimal() decimal.Decimal {
	d, _ := decimal.NewFromString(a.CurrentPrice)
	return d
}

func (a *Auction) BidIncrementDecimal() *decimal.Decimal {
	if a.BidIncrement == nil {
		return nil
	}
	d, err := decimal.NewFromString(*a.BidIncrement)
	if err != nil {
		return nil
	}
	return &d
}

func (a *Auction) ReservePriceDecimal() *decimal.Decimal {
	if a.ReservePrice == nil {
		return nil
	}
	d, err := decimal.NewFromString(*a.ReservePrice)
	if err != nil {
		return nil
	}
	return &d
}

// IsLive reports whether bids are accepted at the given instant.
func (a *Auction) IsLive(now time.Time) bool {
	return a.Status == StatusActive && !now.Before(a.StartDate) && now.Before(a.EndDate)
}

func (a *Auction) TimeRemaining(now time.Time) time.Duration {
	if now.After(a.EndDate) {
		return 0
	}
	return a.EndDate.Sub(now)
}

func (a *Auction) AutoExtendWindow() time.Duration {
	return time.Duration(a.AutoExtendWindowMinutes) * time.Minute
}

// Updater patches an auction document. Nil fields are left untouched.
type Updater struct {
	Status             *Status    `bson:"status,omitempty"`
	CurrentPrice       *string    `bson:"currentPrice,omitempty"`
	BidCount           *int32     `bson:"bidCount,omitempty"`
	WinnerId           *string    `bson:"winnerId,omitempty"`
	StartDate          *time.Time `bson:"startDate,omitempty"`
	EndDate            *time.Time `bson:"endDate,omitempty"`
	LastExtensionBidId *string    `bson:"lastExtensionBidId,omitempty"`
	CancelReason       *string    `bson:"cancelReason,omitempty"`
	UpdatedAt          time.Time  `bson:"updatedAt"`
}

var (
	// ErrEndBeforeStart occurs when scheduling with endDate <= startDate
	ErrEndBeforeStart = errors.New("end date must be after start date")
)

type FindAllOptions struct {
	Statuses     *[]Status
	SellerId     *string
	StartDateLTE *time.Time
	EndDateLTE   *time.Time
	Offset       *int32
	Limit        *int32
}

type FindAllOptionsFunc func(*FindAllOptions) error

func GetFindAllOptions(opts ...FindAllOptionsFunc) (FindAllOptions, error) {
	res := FindAllOptions{}
	for _, opt := range opts {
		if err := opt(&res); err != nil {
			return res, err
		}
	}
	return res, nil
}

func WithStatuses(statuses ...Status) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.Statuses = &statuses
		return nil
	}
}

func WithSellerId(sellerId string) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.SellerId = &sellerId
		return nil
	}
}

func WithStartDateLTE(t time.Time) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.StartDateLTE = &t
		return nil
	}
}

func WithEndDateLTE(t time.Time) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.EndDateLTE = &t
		return nil
	}
}

func WithPagination(offset, limit int32) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.Offset = &offset
		options.Limit = &limit
		return nil
	}
}

// Repo is the auction registry's storage interface
type Repo interface {
	FindOne(c ctx.Ctx, id string) (*Auction, error)
	FindAll(c ctx.Ctx, opts ...FindAllOptionsFunc) ([]*Auction, error)
	Insert(c ctx.Ctx, a *Auction) error
	// Update patches the auction identified by id, guarded by version. It
	// returns domain.ErrConflict when the stored version differs, so callers
	// can re-read and retry.
	Update(c ctx.Ctx, id string, version int64, updater *Updater) error
}

// ApprovalRepo stores the per-auction bidder pre-approval list
type ApprovalRepo interface {
	IsApproved(c ctx.Ctx, auctionId, bidderId string) (bool, error)
	Approve(c ctx.Ctx, auctionId, bidderId string) error
	Revoke(c ctx.Ctx, auctionId, bidderId string) error
}

// Usecase owns the auction lifecycle state machine. Lifecycle operations
// return false (not an error) for illegal transitions; callers treat that as
// an expected race and skip.
type Usecase interface {
	Create(c ctx.Ctx, a *Auction) (*Auction, error)
	Get(c ctx.Ctx, id string) (*Auction, error)
	List(c ctx.Ctx, opts ...FindAllOptionsFunc) ([]*Auction, error)

	Activate(c ctx.Ctx, id string) (bool, error)
	Schedule(c ctx.Ctx, id string, start, end time.Time) (bool, error)
	Cancel(c ctx.Ctx, id, reason string) (bool, error)
	EndNow(c ctx.Ctx, id string) (bool, error)
	MarkSold(c ctx.Ctx, id string) (bool, error)

	// EvaluateTransitions advances time-driven state for one auction
	// (scheduled-activation and end-by-time) and returns the refreshed
	// auction. Emits AuctionEnded when it ends the auction.
	EvaluateTransitions(c ctx.Ctx, id string) (*Auction, error)

	// CheckAutoExtension pushes endDate forward when the triggering bid
	// qualifies. Idempotent per bidId; returns whether the extension fired.
	CheckAutoExtension(c ctx.Ctx, id, bidId string) (bool, error)

	Approve(c ctx.Ctx, auctionId, bidderId string) error
	Revoke(c ctx.Ctx, auctionId, bidderId string) error
	IsApproved(c ctx.Ctx, auctionId, bidderId string) (bool, error)
}
