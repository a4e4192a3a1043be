package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/Aashish23092/taxwise-dashboard/dto"
	"github.com/Aashish23092/taxwise-dashboard/utils"
	"github.com/Aashish23092/taxwise-dashboard/utils/chat"
	"github.com/Aashish23092/taxwise-dashboard/utils/spending"
)

const (
	SourceAI     = "ai"
	SourceCanned = "canned"
)

// Assistant is an AI backend that answers a message under a system instruction
type Assistant interface {
	Ask(ctx context.Context, system, message string) (string, error)
}

// ChatService answers dashboard questions. The assistant, when set, is tried
// first; the canned responder answers otherwise or when the assistant fails.
type ChatService struct {
	assistant Assistant
	responder *chat.Responder
	dashboard *DashboardService
	timeout   time.Duration
}

func NewChatService(assistant Assistant, dashboard *DashboardService) *ChatService {
	return &ChatService{
		assistant: assistant,
		responder: chat.NewResponder(),
		dashboard: dashboard,
		timeout:   20 * time.Second,
	}
}

func (s *ChatService) Reply(ctx context.Context, req *dto.ChatRequest) dto.ChatResponse {
	snapshot := s.snapshot()

	if s.assistant != nil && strings.TrimSpace(req.Message) != "" {
		askCtx, cancel := context.WithTimeout(ctx, s.timeout)
		defer cancel()

		reply, err := s.assistant.Ask(askCtx, systemInstruction(snapshot), req.Message)
		if err == nil {
			return dto.ChatResponse{Reply: reply, Source: SourceAI}
		}
		log.Printf("Assistant failed, using canned reply: %v", err)
	}

	reply, rule := s.responder.Respond(req.Message, snapshot)
	return dto.ChatResponse{Reply: reply, Source: SourceCanned, Rule: rule}
}

func (s *ChatService) snapshot() chat.Snapshot {
	if s.dashboard == nil {
		return chat.Snapshot{}
	}
	view, err := s.dashboard.Current()
	if err != nil {
		return chat.Snapshot{}
	}

	snap := chat.Snapshot{
		HasAnalysis:       true,
		Score:             view.CibilScore,
		UtilizationPct:    view.CibilAdvisor.CreditUtilization,
		RecommendedRegime: view.RecommendedRegime,
		TaxPayable:        view.TaxLiability,
		Investments80C:    view.Investments80C,
	}

	var top float64
	for _, slice := range view.SpendingChart {
		if slice.Category != spending.OtherLabel && slice.Amount > top {
			top = slice.Amount
			snap.TopCategory = slice.Category
		}
	}
	return snap
}

func systemInstruction(s chat.Snapshot) string {
	var sb strings.Builder
	sb.WriteString("You are the TaxWise assistant, a friendly personal finance guide for Indian taxpayers. ")
	sb.WriteString("Answer briefly in plain language. Amounts are in Indian rupees.\n")

	if !s.HasAnalysis {
		sb.WriteString("The user has not uploaded any statements yet; suggest uploading them when figures are needed.")
		return sb.String()
	}

	fmt.Fprintf(&sb, "Estimated CIBIL score: %d\n", s.Score)
	fmt.Fprintf(&sb, "Credit utilization: %d%%\n", s.UtilizationPct)
	fmt.Fprintf(&sb, "Recommended tax regime: %s, tax payable ₹ %s\n", s.RecommendedRegime, utils.FormatINR(s.TaxPayable))
	fmt.Fprintf(&sb, "80C investments: ₹ %s of ₹ %s\n", utils.FormatINR(s.Investments80C), utils.FormatINR(Section80CLimit))
	if s.TopCategory != "" {
		fmt.Fprintf(&sb, "Largest spending category: %s\n", s.TopCategory)
	}
	return sb.String()
}
