package auction

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestDefaultIncrement(t *testing.T) {
	req := require.New(t)

	cases := []struct {
		price     string
		increment string
	}{
		{"0", "1"},
		{"50", "1"},
		{"99.99", "1"},
		{"100", "5"},
		{"499.99", "5"},
		{"500", "10"},
		{"999.99", "10"},
		{"1000", "25"},
		{"4999.99", "25"},
		{"5000", "50"},
		{"100000", "50"},
	}

	for _, c := range cases {
		price, err := decimal.NewFromString(c.price)
		req.NoError(err)
		req.Equal(c.increment, DefaultIncrement(price).String(), "price %s", c.price)
	}
}

func TestNextMinimumBid(t *testing.T) {
	req := require.New(t)

	fifty := decimal.NewFromInt(50)
	req.Equal("51", NextMinimumBid(fifty, nil).String())

	override := decimal.RequireFromString("2.50")
	req.Equal("52.5", NextMinimumBid(fifty, &override).String())

	// non-positive override falls back to the schedule
	zero := decimal.Zero
	req.Equal("51", NextMinimumBid(fifty, &zero).String())
}

func TestNextMinimumBidMonotone(t *testing.T) {
	req := require.New(t)

	prev := decimal.Zero
	for _, p := range []int64{1, 50, 99, 100, 499, 500, 999, 1000, 4999, 5000, 10000} {
		price := decimal.NewFromInt(p)
		min := NextMinimumBid(price, nil)
		req.True(min.GreaterThan(price))
		req.True(min.GreaterThan(prev))
		prev = min
	}
}
