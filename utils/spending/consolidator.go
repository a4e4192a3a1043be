// Package spending turns a raw category breakdown into a small set of
// chart-ready buckets.
package spending

import (
	"strings"

	"github.com/Aashish23092/taxwise-dashboard/dto"
)

const (
	DefaultThreshold    = 0.03
	DefaultIncomeMarker = "income"
	OtherLabel          = "Other"
)

// Consolidator drops income-like categories and folds categories whose share
// of the remaining total is below Threshold into a single "Other" bucket.
type Consolidator struct {
	Threshold    float64
	IncomeMarker string
}

func NewConsolidator(threshold float64, incomeMarker string) *Consolidator {
	return &Consolidator{
		Threshold:    threshold,
		IncomeMarker: incomeMarker,
	}
}

// Consolidate uses the default 3% threshold and "income" marker.
func Consolidate(in dto.SpendingBreakdown) dto.SpendingBreakdown {
	return NewConsolidator(DefaultThreshold, DefaultIncomeMarker).Consolidate(in)
}

// Consolidate never mutates its input. Income categories are removed before
// the total is taken, so they do not dilute the threshold. A zero total skips
// thresholding and returns the remaining categories as they are.
func (c *Consolidator) Consolidate(in dto.SpendingBreakdown) dto.SpendingBreakdown {
	kept := make(dto.SpendingBreakdown, 0, len(in))
	var total float64
	for _, item := range in {
		if c.IsIncome(item.Category) {
			continue
		}
		kept = append(kept, item)
		total += item.Amount
	}

	if total == 0 || c.Threshold <= 0 {
		return kept
	}

	out := make(dto.SpendingBreakdown, 0, len(kept)+1)
	var other float64
	for _, item := range kept {
		if item.Amount/total < c.Threshold {
			other += item.Amount
			continue
		}
		out = append(out, item)
	}

	if other > 0 {
		out = addToOther(out, other)
	}
	return out
}

// IsIncome reports whether a label contains the income marker, ignoring case.
func (c *Consolidator) IsIncome(category string) bool {
	if c.IncomeMarker == "" {
		return false
	}
	return strings.Contains(strings.ToLower(category), strings.ToLower(c.IncomeMarker))
}

// addToOther folds amount into an existing "Other" bucket, or appends one.
func addToOther(b dto.SpendingBreakdown, amount float64) dto.SpendingBreakdown {
	for i := range b {
		if b[i].Category == OtherLabel {
			b[i].Amount += amount
			return b
		}
	}
	return append(b, dto.CategoryAmount{Category: OtherLabel, Amount: amount})
}
