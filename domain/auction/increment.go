package auction

import "github.com/shopspring/decimal"

// incrementBand maps a price ceiling (exclusive) to the absolute increment
// applied below it. Bands must be sorted ascending by ceiling.
type incrementBand struct {
	below     decimal.Decimal
	increment decimal.Decimal
}

var defaultIncrementSchedule = []incrementBand{
	{decimal.NewFromInt(100), decimal.NewFromInt(1)},
	{decimal.NewFromInt(500), decimal.NewFromInt(5)},
	{decimal.NewFromInt(1000), decimal.NewFromInt(10)},
	{decimal.NewFromInt(5000), decimal.NewFromInt(25)},
}

var topIncrement = decimal.NewFromInt(50)

// DefaultIncrement returns the increment for the given price per the default
// schedule, a monotone step function of price.
func DefaultIncrement(price decimal.Decimal) decimal.Decimal {
	for _, band := range defaultIncrementSchedule {
		if price.LessThan(band.below) {
			return band.increment
		}
	}
	return topIncrement
}

// NextMinimumBid computes the smallest acceptable bid on top of the current
// highest amount. An auction-specific override increment takes precedence
// over the default schedule.
func NextMinimumBid(currentHighest decimal.Decimal, override *decimal.Decimal) decimal.Decimal {
	if override != nil && override.IsPositive() {
		return currentHighest.Add(*override)
	}
	return currentHighest.Add(DefaultIncrement(currentHighest))
}
