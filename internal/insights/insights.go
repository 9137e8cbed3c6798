// Package insights generates model-written commentary about an extracted
// portfolio. It is advisory output only; nothing downstream parses it.
package insights

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/finkit/empower-extract/internal/extract"
	"github.com/finkit/empower-extract/internal/stats"
)

// DefaultModelName is the Gemini model used for commentary.
const DefaultModelName = "gemini-2.5-flash"

// Generator produces portfolio commentary through the GenAI API. The
// zero value is not usable; construct with NewGenerator.
type Generator struct {
	client *genai.Client
	model  string
}

// NewGenerator creates a commentary generator. Credentials come from the
// environment, the same way the rest of the Google stack picks them up.
func NewGenerator(ctx context.Context) (*Generator, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return nil, fmt.Errorf("insights: create genai client: %w", err)
	}
	return &Generator{client: client, model: DefaultModelName}, nil
}

// Commentary asks the model for a short plain-text read on the
// portfolio's composition and concentration.
func (g *Generator) Commentary(ctx context.Context, holdings []extract.Holding, summary stats.Summary) (string, error) {
	prompt := buildPrompt(holdings, summary)

	contents := []*genai.Content{
		{
			Role:  "user",
			Parts: []*genai.Part{{Text: prompt}},
		},
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("insights: generate content: %w", err)
	}

	text := cleanModelText(resp.Text())
	if text == "" {
		return "", fmt.Errorf("insights: empty response from model")
	}
	return text, nil
}

func buildPrompt(holdings []extract.Holding, summary stats.Summary) string {
	var b strings.Builder
	b.WriteString("You are a portfolio analyst. Below is a list of holdings and summary statistics.\n")
	b.WriteString("Write a short plain-text commentary (under 200 words) on composition, concentration and anything notable.\n")
	b.WriteString("Do NOT give buy/sell advice. Do NOT use Markdown or code fences.\n\n")

	b.WriteString(fmt.Sprintf("Positions: %d\n", summary.Positions))
	b.WriteString(fmt.Sprintf("Total value: %.2f\n", summary.TotalValue))
	b.WriteString(fmt.Sprintf("Top 5 weight: %.1f%%\n", summary.Top5Weight*100))
	b.WriteString(fmt.Sprintf("Top 10 weight: %.1f%%\n", summary.Top10Weight*100))
	b.WriteString(fmt.Sprintf("Herfindahl index: %.4f (%s concentration)\n\n", summary.HHI, summary.Concentration))

	b.WriteString("Holdings (ticker, name, value):\n")
	for _, h := range holdings {
		b.WriteString(fmt.Sprintf("%s, %s, %s\n", h.Ticker, h.Name, h.Value.StringFixed(2)))
	}
	return b.String()
}

// cleanModelText strips Markdown fences when the model ignores the
// plain-text instruction.
func cleanModelText(raw string) string {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		} else {
			return ""
		}
	}
	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = s[:idx]
	}
	return strings.TrimSpace(s)
}
