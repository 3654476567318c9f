package bid

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/bidhaus/goapi/base/ctx"
)

// Bid is a committed bid stored in database. Bids are immutable except for
// the IsWinning flag, which flips to false exactly once when superseded.
type Bid struct {
	Id        string    `json:"id" bson:"id"`
	AuctionId string    `json:"auctionId" bson:"auctionId"`
	BidderId  string    `json:"bidderId" bson:"bidderId"`
	Amount    string    `json:"amount" bson:"amount"`
	PlacedAt  time.Time `json:"placedAt" bson:"placedAt"`
	IsWinning bool      `json:"isWinning" bson:"isWinning"`

	// Seq is the commit-order sequence within the auction, assigned by the
	// registry at commit time.
	Seq int64 `json:"seq" bson:"seq"`
}

func (b *Bid) AmountDecimal() decimal.Decimal {
	d, _ := decimal.NewFromString(b.Amount)
	return d
}

type FindAllOptions struct {
	AuctionId   *string
	BidderId    *string
	PlacedAfter *time.Time
	IsWinning   *bool
	Offset      *int32
	Limit       *int32
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

func WithAuctionId(auctionId string) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.AuctionId = &auctionId
		return nil
	}
}

func WithBidderId(bidderId string) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.BidderId = &bidderId
		return nil
	}
}

func WithPlacedAfter(t time.Time) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.PlacedAfter = &t
		return nil
	}
}

func WithIsWinning(isWinning bool) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.IsWinning = &isWinning
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

// Repo stores committed bids. Insert and MarkWinning are only called inside
// the per-auction critical section owned by the bid usecase.
type Repo interface {
	FindAll(c ctx.Ctx, opts ...FindAllOptionsFunc) ([]*Bid, error)
	Count(c ctx.Ctx, opts ...FindAllOptionsFunc) (int, error)
	// FindWinning returns the bid currently flagged winning for the auction,
	// or domain.ErrNotFound when the auction has no bids yet.
	FindWinning(c ctx.Ctx, auctionId string) (*Bid, error)
	Insert(c ctx.Ctx, b *Bid) error
	// MarkWinning flips the previous winning bid's flag off (if any) and the
	// given bid's flag on.
	MarkWinning(c ctx.Ctx, auctionId, bidId string) error
}
