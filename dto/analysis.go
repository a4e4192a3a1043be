package dto

import (
	"encoding/json"
	"strconv"
	"strings"
)

// AnalysisResult mirrors the JSON returned by the remote analysis API
type AnalysisResult struct {
	DashboardData DashboardData `json:"dashboard_data"`
	TaxAnalysis   TaxAnalysis   `json:"tax_analysis"`
	CibilAnalysis CibilAnalysis `json:"cibil_analysis"`
}

type DashboardData struct {
	Investments80C    float64           `json:"investments_80c"`
	TotalIncome       float64           `json:"total_income"`
	Transactions      []Transaction     `json:"transactions"`
	SpendingBreakdown SpendingBreakdown `json:"spending_breakdown"`
}

// Transaction is a statement row as the backend reports it. Depending on the
// bank, the date arrives as "date" or "transaction date".
type Transaction struct {
	Date            string  `json:"date,omitempty"`
	TransactionDate string  `json:"transaction date,omitempty"`
	Description     string  `json:"description,omitempty"`
	Credit          float64 `json:"credit"`
	Debit           float64 `json:"debit"`
}

// DisplayDate returns the first non-empty date field, or "N/A"
func (t Transaction) DisplayDate() string {
	if d := strings.TrimSpace(t.Date); d != "" {
		return d
	}
	if d := strings.TrimSpace(t.TransactionDate); d != "" {
		return d
	}
	return "N/A"
}

func (t Transaction) IsCredit() bool {
	return t.Credit > 0
}

type RegimeResult struct {
	TaxableIncome float64 `json:"taxable_income"`
	TaxPayable    float64 `json:"tax_payable"`
}

type TaxAnalysis struct {
	RecommendedRegime string       `json:"recommended_regime"`
	OldRegime         RegimeResult `json:"old_regime"`
	NewRegime         RegimeResult `json:"new_regime"`
	Recommendations   []string     `json:"recommendations"`
}

// IsOldRecommended reports whether the backend picked the old regime.
// Anything other than "old" is treated as the new (default) regime.
func (t TaxAnalysis) IsOldRecommended() bool {
	return strings.EqualFold(strings.TrimSpace(t.RecommendedRegime), "old")
}

// Recommended returns the figures of the recommended regime
func (t TaxAnalysis) Recommended() RegimeResult {
	if t.IsOldRecommended() {
		return t.OldRegime
	}
	return t.NewRegime
}

// RecommendedLabel returns "OLD" or "NEW"
func (t TaxAnalysis) RecommendedLabel() string {
	if t.IsOldRecommended() {
		return "OLD"
	}
	return "NEW"
}

type CibilAnalysis struct {
	Score           float64      `json:"score"`
	Factors         CibilFactors `json:"factors"`
	Recommendations []string     `json:"recommendations"`
}

type CibilFactors struct {
	CreditUtilization float64    `json:"credit_utilization"` // ratio, 0..1
	CreditMix         FlexString `json:"credit_mix"`
}

// FlexString accepts a JSON string, number or bool and keeps its text form.
// The backend has sent credit_mix both as a label and as a count.
type FlexString string

func (s *FlexString) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" {
		*s = ""
		return nil
	}
	if strings.HasPrefix(raw, `"`) {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*s = FlexString(v)
		return nil
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		*s = FlexString(strconv.FormatFloat(f, 'f', -1, 64))
		return nil
	}
	*s = FlexString(raw)
	return nil
}
