// Package chat is the rule-based fallback for the dashboard assistant.
package chat

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/Aashish23092/taxwise-dashboard/utils"
)

const (
	Section80CCap = 150000

	GreetingReply = "Hello! I'm your TaxWise assistant. Ask me about your CIBIL score, tax regime, 80C investments or spending."
	FallbackReply = "I'm not sure about that yet. Try asking about your CIBIL score, tax regime, 80C investments or spending."
)

// Snapshot is the slice of the current analysis a reply may quote.
type Snapshot struct {
	HasAnalysis       bool
	Score             int
	UtilizationPct    int
	RecommendedRegime string
	TaxPayable        float64
	Investments80C    float64
	TopCategory       string
}

// Rule pairs a predicate over the normalised message with a reply.
type Rule struct {
	Name  string
	Match func(words map[string]bool, text string) bool
	Reply func(s Snapshot) string
}

type Responder struct {
	rules    []Rule
	fallback string
}

func NewResponder() *Responder {
	return &Responder{
		rules:    DefaultRules(),
		fallback: FallbackReply,
	}
}

// Respond returns the reply of the first matching rule and its name. An empty
// message gets the greeting; no match gets the fallback with rule "fallback".
func (r *Responder) Respond(message string, s Snapshot) (string, string) {
	text := normalize(message)
	if text == "" {
		return GreetingReply, "greeting"
	}

	words := make(map[string]bool)
	for _, w := range strings.Fields(text) {
		words[w] = true
	}

	for _, rule := range r.rules {
		if rule.Match(words, text) {
			return rule.Reply(s), rule.Name
		}
	}
	return r.fallback, "fallback"
}

// anyOf matches single keywords against whole words and multi-word phrases
// against the normalised text.
func anyOf(keywords ...string) func(map[string]bool, string) bool {
	return func(words map[string]bool, text string) bool {
		for _, k := range keywords {
			if strings.Contains(k, " ") {
				if strings.Contains(text, k) {
					return true
				}
				continue
			}
			if words[k] {
				return true
			}
		}
		return false
	}
}

// prefixOf matches any word starting with one of the prefixes ("thank" → "thanks").
func prefixOf(prefixes ...string) func(map[string]bool, string) bool {
	return func(words map[string]bool, _ string) bool {
		for w := range words {
			for _, p := range prefixes {
				if strings.HasPrefix(w, p) {
					return true
				}
			}
		}
		return false
	}
}

func normalize(message string) string {
	lower := strings.ToLower(message)
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return ' '
	}, lower)
	return strings.Join(strings.Fields(cleaned), " ")
}

// DefaultRules is ordered by priority: specific topics before generic ones.
func DefaultRules() []Rule {
	return []Rule{
		{
			Name:  "utilization",
			Match: anyOf("utilization", "utilisation", "credit limit", "credit card"),
			Reply: func(s Snapshot) string {
				advice := "Keep your credit utilization below 30% of your total limit; above that the estimated score starts to drop."
				if s.HasAnalysis {
					return fmt.Sprintf("Your current credit utilization is about %d%%. %s", s.UtilizationPct, advice)
				}
				return advice
			},
		},
		{
			Name:  "cibil",
			Match: anyOf("cibil", "credit score", "score"),
			Reply: func(s Snapshot) string {
				if s.HasAnalysis {
					return fmt.Sprintf("Your estimated CIBIL score is %d. Paying dues on time and keeping utilization under 30%% are the quickest ways to improve it.", s.Score)
				}
				return "Upload your statements and I'll estimate your CIBIL score. Timely repayments and low credit utilization help the most."
			},
		},
		{
			Name:  "80c",
			Match: anyOf("80c", "elss", "ppf", "deduction", "deductions"),
			Reply: func(s Snapshot) string {
				if s.HasAnalysis {
					headroom := Section80CCap - s.Investments80C
					if headroom <= 0 {
						return fmt.Sprintf("You have invested ₹ %s under 80C, which already uses the full ₹ %s limit.", utils.FormatINR(s.Investments80C), utils.FormatINR(Section80CCap))
					}
					return fmt.Sprintf("You have invested ₹ %s under 80C. You can still invest ₹ %s more in ELSS, PPF or similar options to reach the ₹ %s limit.", utils.FormatINR(s.Investments80C), utils.FormatINR(headroom), utils.FormatINR(Section80CCap))
				}
				return fmt.Sprintf("Section 80C lets you deduct up to ₹ %s a year for investments such as ELSS, PPF and life insurance premiums.", utils.FormatINR(Section80CCap))
			},
		},
		{
			Name:  "regime",
			Match: anyOf("regime", "old regime", "new regime"),
			Reply: func(s Snapshot) string {
				if s.HasAnalysis {
					return fmt.Sprintf("Based on your statements the %s regime works out better, with tax payable of ₹ %s.", s.RecommendedRegime, utils.FormatINR(s.TaxPayable))
				}
				return "The old regime allows deductions like 80C and HRA; the new regime has lower slab rates with fewer deductions. Upload your statements to compare both."
			},
		},
		{
			Name:  "tax",
			Match: anyOf("tax", "taxes", "itr", "liability"),
			Reply: func(s Snapshot) string {
				if s.HasAnalysis {
					return fmt.Sprintf("Your projected tax liability is ₹ %s under the %s regime. Check the Tax Optimizer for ways to reduce it.", utils.FormatINR(s.TaxPayable), s.RecommendedRegime)
				}
				return "Upload your statements and I'll compare your tax under the old and new regimes."
			},
		},
		{
			Name:  "spending",
			Match: anyOf("spending", "spend", "expense", "expenses", "budget"),
			Reply: func(s Snapshot) string {
				if s.HasAnalysis && s.TopCategory != "" {
					return fmt.Sprintf("Your biggest spending category is %s. Setting a monthly cap there is the easiest place to start saving.", s.TopCategory)
				}
				return "Track your largest spending categories first; the dashboard chart groups small ones under Other."
			},
		},
		{
			Name:  "upload",
			Match: anyOf("upload", "statement", "statements", "pdf", "report"),
			Reply: func(Snapshot) string {
				return "Use the upload button on the dashboard to add bank or credit card statements (PDF, CSV, Excel or images). Once processed you can download a PDF summary from Reports."
			},
		},
		{
			Name:  "greeting",
			Match: anyOf("hi", "hello", "hey", "namaste", "good morning", "good evening"),
			Reply: func(Snapshot) string { return GreetingReply },
		},
		{
			Name:  "thanks",
			Match: prefixOf("thank", "thx"),
			Reply: func(Snapshot) string { return "You're welcome! Anything else about your finances?" },
		},
	}
}
