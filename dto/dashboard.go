package dto

// DashboardView is the chart-ready projection of the latest analysis
type DashboardView struct {
	AnalysisID          string           `json:"analysis_id"`
	GeneratedAt         string           `json:"generated_at"`
	TaxLiability        float64          `json:"tax_liability"`
	TaxLiabilityDisplay string           `json:"tax_liability_display"`
	RecommendedRegime   string           `json:"recommended_regime"`
	CibilScore          int              `json:"cibil_score"`
	Investments80C      float64          `json:"investments_80c"`
	Headroom80C         float64          `json:"headroom_80c"`
	TotalIncome         float64          `json:"total_income"`
	Transactions        []TransactionRow `json:"transactions"`
	SpendingChart       []ChartSlice     `json:"spending_chart"`
	TaxOptimizer        TaxOptimizerView `json:"tax_optimizer"`
	CibilAdvisor        CibilAdvisorView `json:"cibil_advisor"`
	WhatIf              SimulationResult `json:"what_if"`
}

type TransactionRow struct {
	Date        string `json:"date"`
	Description string `json:"description"`
	Amount      string `json:"amount"`    // "+ ₹ 50,000" / "- ₹ 500"
	Direction   string `json:"direction"` // "credit" or "debit"
}

type ChartSlice struct {
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
	Share    float64 `json:"share"` // percent of the charted total
	Color    string  `json:"color"`
}

type RegimeView struct {
	Name          string  `json:"name"`
	TaxableIncome float64 `json:"taxable_income"`
	TaxPayable    float64 `json:"tax_payable"`
	Recommended   bool    `json:"recommended"`
}

type TaxOptimizerView struct {
	OldRegime       RegimeView `json:"old_regime"`
	NewRegime       RegimeView `json:"new_regime"`
	Recommendations []string   `json:"recommendations"`
}

type CibilAdvisorView struct {
	Score             int      `json:"score"`
	PaymentHistory    string   `json:"payment_history"`
	CreditUtilization int      `json:"credit_utilization"` // percent
	CreditMix         string   `json:"credit_mix"`
	Recommendations   []string `json:"recommendations"`
}

type SimulationResult struct {
	Utilization    float64 `json:"utilization"`
	EstimatedScore int     `json:"estimated_score"`
	Adjustment     int     `json:"adjustment"`
	Band           string  `json:"band"`
}
