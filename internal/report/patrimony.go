package report

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/starsgrow/libertad-financiera/internal/storage"
)

var hundred = decimal.NewFromInt(100)

// Variation returns current minus purchase and the percentage over the
// purchase value. The percentage is 0 when the purchase value is 0.
func Variation(item storage.PatrimonyItem) (amount, pct decimal.Decimal) {
	amount = item.CurrentValue.Sub(item.PurchaseValue)
	if item.PurchaseValue.IsPositive() {
		pct = amount.Div(item.PurchaseValue).Mul(hundred)
	} else {
		pct = decimal.Zero
	}
	return amount, pct
}

type PatrimonySummary struct {
	TotalValue         decimal.Decimal
	TotalPurchaseValue decimal.Decimal
	TotalVariation     decimal.Decimal
	TotalVariationPct  decimal.Decimal
	ItemsCount         int
}

func PatrimonyTotals(items []storage.PatrimonyItem) PatrimonySummary {
	s := PatrimonySummary{
		TotalValue:         decimal.Zero,
		TotalPurchaseValue: decimal.Zero,
		ItemsCount:         len(items),
	}
	for _, item := range items {
		s.TotalValue = s.TotalValue.Add(item.CurrentValue)
		s.TotalPurchaseValue = s.TotalPurchaseValue.Add(item.PurchaseValue)
	}
	s.TotalVariation = s.TotalValue.Sub(s.TotalPurchaseValue)
	if s.TotalPurchaseValue.IsPositive() {
		s.TotalVariationPct = s.TotalVariation.Div(s.TotalPurchaseValue).Mul(hundred)
	} else {
		s.TotalVariationPct = decimal.Zero
	}
	return s
}

// ByCategory sums current value per asset category.
func ByCategory(items []storage.PatrimonyItem) map[storage.PatrimonyCategory]decimal.Decimal {
	totals := make(map[storage.PatrimonyCategory]decimal.Decimal)
	for _, item := range items {
		totals[item.Category] = totals[item.Category].Add(item.CurrentValue)
	}
	return totals
}

// StaleAfter is how old a valuation may get before the update reminder
// fires.
const StaleAfter = 30 * 24 * time.Hour

// NeedsUpdate returns the items whose last valuation is older than
// StaleAfter.
func NeedsUpdate(items []storage.PatrimonyItem, now time.Time) []storage.PatrimonyItem {
	cutoff := now.Add(-StaleAfter)
	var stale []storage.PatrimonyItem
	for _, item := range items {
		if item.LastUpdate.Before(cutoff) {
			stale = append(stale, item)
		}
	}
	return stale
}

// Growth compares the two most recent snapshots of one period.
type Growth struct {
	CurrentValue     decimal.Decimal
	PreviousValue    decimal.Decimal
	GrowthAmount     decimal.Decimal
	GrowthPercentage decimal.Decimal
}

// GrowthRate expects snapshots for a single period sorted newest first,
// as returned by SnapshotsByPeriod. With fewer than two snapshots every
// field is zero; there is never a division by zero.
func GrowthRate(snapshots []storage.PatrimonySnapshot) Growth {
	g := Growth{
		CurrentValue:     decimal.Zero,
		PreviousValue:    decimal.Zero,
		GrowthAmount:     decimal.Zero,
		GrowthPercentage: decimal.Zero,
	}
	if len(snapshots) < 2 {
		return g
	}
	current, previous := snapshots[0], snapshots[1]
	g.CurrentValue = current.TotalValue
	g.PreviousValue = previous.TotalValue
	g.GrowthAmount = current.TotalValue.Sub(previous.TotalValue)
	if previous.TotalValue.IsPositive() {
		g.GrowthPercentage = g.GrowthAmount.Div(previous.TotalValue).Mul(hundred)
	}
	return g
}

// NewAssets estimates value added to the patrimony between the two most
// recent snapshots as the non-negative delta in total purchase value and
// item count. It is a heuristic: revaluing an existing item's purchase
// value inflates it.
type NewAssets struct {
	Value decimal.Decimal
	Count int
}

func NewAssetsInPeriod(snapshots []storage.PatrimonySnapshot) NewAssets {
	n := NewAssets{Value: decimal.Zero}
	if len(snapshots) < 2 {
		return n
	}
	current, previous := snapshots[0], snapshots[1]
	if delta := current.TotalPurchaseValue.Sub(previous.TotalPurchaseValue); delta.IsPositive() {
		n.Value = delta
	}
	if delta := current.ItemsCount - previous.ItemsCount; delta > 0 {
		n.Count = delta
	}
	return n
}
