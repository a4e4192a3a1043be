package service

import (
	"context"
	"fmt"
	"log"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/Aashish23092/taxwise-dashboard/dto"
	"github.com/Aashish23092/taxwise-dashboard/utils"
	"github.com/Aashish23092/taxwise-dashboard/utils/cibil"
	"github.com/Aashish23092/taxwise-dashboard/utils/spending"
	"github.com/google/uuid"
)

const (
	Section80CLimit = 150000

	NoTaxRecommendations   = "No specific tax recommendations available at this time."
	NoCibilRecommendations = "No specific CIBIL recommendations available at this time."
)

// ChartPalette is cycled over the spending chart slices
var ChartPalette = []string{"#818cf8", "#f87171", "#fbbf24", "#34d399", "#60a5fa", "#a78bfa", "#f472b6"}

// AnalysisAPI is the remote backend that analyses statements
type AnalysisAPI interface {
	Analyze(ctx context.Context, files []dto.StatementFile) (*dto.AnalysisResult, error)
}

// DashboardState is the latest successful analysis with its derived view
type DashboardState struct {
	ID         string
	Analysis   dto.AnalysisResult
	View       dto.DashboardView
	Documents  []dto.DocumentReport
	ReceivedAt time.Time
}

type DashboardService struct {
	api          AnalysisAPI
	preprocessor *StatementPreprocessor
	consolidator *spending.Consolidator
	now          func() time.Time

	mu    sync.RWMutex
	state *DashboardState
}

func NewDashboardService(api AnalysisAPI, preprocessor *StatementPreprocessor, consolidator *spending.Consolidator) *DashboardService {
	return &DashboardService{
		api:          api,
		preprocessor: preprocessor,
		consolidator: consolidator,
		now:          time.Now,
	}
}

// Analyze preprocesses the statements, sends them to the backend and replaces
// the current state on success. On failure the previous state is kept.
func (s *DashboardService) Analyze(ctx context.Context, req *dto.StatementUploadRequest) (*dto.UploadResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	files := req.Files
	var reports []dto.DocumentReport
	if s.preprocessor != nil {
		var err error
		files, reports, err = s.preprocessor.PrepareAll(req.Files, req.Password)
		if err != nil {
			return nil, err
		}
	}

	log.Printf("Forwarding %d statements to analysis API", len(files))
	result, err := s.api.Analyze(ctx, files)
	if err != nil {
		return nil, fmt.Errorf("analysis failed: %w", err)
	}

	state := s.install(*result, reports)

	return &dto.UploadResponse{
		Message:   "Statements processed successfully",
		Documents: reports,
		Dashboard: state.View,
	}, nil
}

// Load installs an analysis as the current state, e.g. one saved earlier.
func (s *DashboardService) Load(result dto.AnalysisResult) DashboardState {
	return s.install(result, nil)
}

func (s *DashboardService) install(result dto.AnalysisResult, reports []dto.DocumentReport) DashboardState {
	state := &DashboardState{
		ID:         uuid.NewString(),
		Analysis:   result,
		Documents:  reports,
		ReceivedAt: s.now(),
	}
	state.View = s.BuildView(state.ID, state.ReceivedAt, result)

	s.mu.Lock()
	s.state = state
	s.mu.Unlock()

	log.Printf("Dashboard state %s loaded (score %d, regime %s)", state.ID, state.View.CibilScore, state.View.RecommendedRegime)
	return *state
}

// State returns a copy of the current state or dto.ErrNoAnalysis
func (s *DashboardService) State() (DashboardState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.state == nil {
		return DashboardState{}, dto.ErrNoAnalysis
	}
	return *s.state, nil
}

func (s *DashboardService) Current() (dto.DashboardView, error) {
	state, err := s.State()
	if err != nil {
		return dto.DashboardView{}, err
	}
	return state.View, nil
}

// Simulate estimates the score for a utilization percentage
func (s *DashboardService) Simulate(utilization float64) dto.SimulationResult {
	est := cibil.Evaluate(utilization)
	return dto.SimulationResult{
		Utilization:    est.Utilization,
		EstimatedScore: est.Score,
		Adjustment:     est.Adjustment,
		Band:           est.Band,
	}
}

func (s *DashboardService) Consolidate(breakdown dto.SpendingBreakdown) dto.ConsolidateResponse {
	out := s.consolidator.Consolidate(breakdown)
	return dto.ConsolidateResponse{
		Threshold:    s.consolidator.Threshold,
		Total:        out.Total(),
		Consolidated: out,
	}
}

// BuildView derives the dashboard projection from a backend analysis
func (s *DashboardService) BuildView(id string, at time.Time, result dto.AnalysisResult) dto.DashboardView {
	data := result.DashboardData
	tax := result.TaxAnalysis
	score := int(math.Round(result.CibilAnalysis.Score))
	recommended := tax.Recommended()

	utilization := cibil.RatioToPercent(result.CibilAnalysis.Factors.CreditUtilization)

	return dto.DashboardView{
		AnalysisID:          id,
		GeneratedAt:         at.Format(time.RFC3339),
		TaxLiability:        recommended.TaxPayable,
		TaxLiabilityDisplay: utils.FormatRupees(recommended.TaxPayable),
		RecommendedRegime:   tax.RecommendedLabel(),
		CibilScore:          score,
		Investments80C:      data.Investments80C,
		Headroom80C:         math.Max(0, Section80CLimit-data.Investments80C),
		TotalIncome:         data.TotalIncome,
		Transactions:        transactionRows(data.Transactions),
		SpendingChart:       chartSlices(s.consolidator.Consolidate(data.SpendingBreakdown)),
		TaxOptimizer: dto.TaxOptimizerView{
			OldRegime: dto.RegimeView{
				Name:          "Old Regime",
				TaxableIncome: tax.OldRegime.TaxableIncome,
				TaxPayable:    tax.OldRegime.TaxPayable,
				Recommended:   tax.IsOldRecommended(),
			},
			NewRegime: dto.RegimeView{
				Name:          "New Regime",
				TaxableIncome: tax.NewRegime.TaxableIncome,
				TaxPayable:    tax.NewRegime.TaxPayable,
				Recommended:   !tax.IsOldRecommended(),
			},
			Recommendations: orFallback(tax.Recommendations, NoTaxRecommendations),
		},
		CibilAdvisor: dto.CibilAdvisorView{
			Score:             score,
			PaymentHistory:    "100%",
			CreditUtilization: int(math.Round(utilization)),
			CreditMix:         string(result.CibilAnalysis.Factors.CreditMix),
			Recommendations:   orFallback(result.CibilAnalysis.Recommendations, NoCibilRecommendations),
		},
		WhatIf: s.Simulate(utilization),
	}
}

func transactionRows(txs []dto.Transaction) []dto.TransactionRow {
	rows := make([]dto.TransactionRow, 0, len(txs))
	for _, tx := range txs {
		credit := tx.IsCredit()
		amount, direction := tx.Debit, "debit"
		if credit {
			amount, direction = tx.Credit, "credit"
		}

		description := strings.TrimSpace(tx.Description)
		if description == "" {
			description = "N/A"
		}

		rows = append(rows, dto.TransactionRow{
			Date:        tx.DisplayDate(),
			Description: description,
			Amount:      utils.FormatSignedRupees(amount, credit),
			Direction:   direction,
		})
	}
	return rows
}

func chartSlices(buckets dto.SpendingBreakdown) []dto.ChartSlice {
	total := buckets.Total()
	slices := make([]dto.ChartSlice, 0, len(buckets))
	for i, b := range buckets {
		share := 0.0
		if total > 0 {
			share = math.Round(b.Amount/total*10000) / 100
		}
		slices = append(slices, dto.ChartSlice{
			Category: b.Category,
			Amount:   b.Amount,
			Share:    share,
			Color:    ChartPalette[i%len(ChartPalette)],
		})
	}
	return slices
}

func orFallback(items []string, fallback string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if strings.TrimSpace(item) != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return []string{fallback}
	}
	return out
}
