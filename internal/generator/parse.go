package generator

import (
	"encoding/json"
	"errors"
	"math"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/mikedutoitzs/floogleads/internal/models"
)

var errNoContent = errors.New("no content generated")

type rawKeyword struct {
	Term        string  `json:"term"`
	Type        string  `json:"type"`
	Volume      float64 `json:"volume"`
	Competition float64 `json:"competition"`
	Relevance   float64 `json:"relevance"`
	CPC         float64 `json:"cpc"`
}

type rawAnalysis struct {
	Title          string       `json:"title"`
	Summary        string       `json:"summary"`
	Currency       string       `json:"currency"`
	CurrencySymbol string       `json:"currencySymbol"`
	Keywords       []rawKeyword `json:"keywords"`
}

type rawAdGroup struct {
	Name               string   `json:"name"`
	AssignedKeywords   []string `json:"assigned_keywords"`
	Headlines          []string `json:"headlines"`
	Descriptions       []string `json:"descriptions"`
	Callouts           []string `json:"callouts"`
	Sitelinks          []string `json:"sitelinks"`
	StructuredSnippets []string `json:"structuredSnippets"`
}

// responseText joins the text parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", errNoContent
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}
	return stripFence(b.String()), nil
}

// stripFence removes a markdown code fence some models wrap JSON in.
func stripFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

func parseAnalysis(text, currencyOverride string) (*models.SiteAnalysis, error) {
	raw := rawAnalysis{}
	if text != "" {
		if err := json.Unmarshal([]byte(text), &raw); err != nil {
			return nil, err
		}
	}

	analysis := &models.SiteAnalysis{
		Title:          raw.Title,
		Summary:        raw.Summary,
		Currency:       raw.Currency,
		CurrencySymbol: raw.CurrencySymbol,
		Keywords:       []models.Keyword{},
	}
	if analysis.Currency == "" {
		analysis.Currency = currencyOverride
		if analysis.Currency == "" {
			analysis.Currency = defaultCurrency
		}
	}
	if analysis.CurrencySymbol == "" {
		analysis.CurrencySymbol = defaultCurrencySymbol
	}

	seen := make(map[string]bool)
	for _, rk := range raw.Keywords {
		term := strings.TrimSpace(rk.Term)
		if term == "" || seen[term] {
			continue
		}
		seen[term] = true

		kt, ok := models.ParseKeywordType(rk.Type)
		if !ok {
			kt = models.KeywordGeneric
		}

		analysis.Keywords = append(analysis.Keywords, models.Keyword{
			Term:        term,
			Type:        kt,
			Volume:      int(math.Max(0, math.Round(rk.Volume))),
			Competition: clampPercent(rk.Competition),
			Relevance:   clampPercent(rk.Relevance),
			CPC:         math.Max(0, rk.CPC),
			Selected:    true,
		})
	}

	return analysis, nil
}

func parseAdGroups(text string, newID func() string) ([]models.AdGroup, error) {
	var raw []rawAdGroup
	if text != "" {
		if err := json.Unmarshal([]byte(text), &raw); err != nil {
			return nil, err
		}
	}

	groups := make([]models.AdGroup, 0, len(raw))
	for _, rg := range raw {
		g := models.AdGroup{
			ID:                 newID(),
			Name:               rg.Name,
			Keywords:           rg.AssignedKeywords,
			Headlines:          rg.Headlines,
			Descriptions:       rg.Descriptions,
			Callouts:           rg.Callouts,
			Sitelinks:          rg.Sitelinks,
			StructuredSnippets: rg.StructuredSnippets,
		}
		g.Backfill()
		groups = append(groups, g)
	}
	return groups, nil
}

// extractImage returns the first inline image part of the first candidate.
func extractImage(resp *genai.GenerateContentResponse) *models.Image {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil
	}
	for _, part := range resp.Candidates[0].Content.Parts {
		if blob, ok := part.(genai.Blob); ok && len(blob.Data) > 0 {
			return &models.Image{MIMEType: blob.MIMEType, Data: blob.Data}
		}
	}
	return nil
}

func clampPercent(v float64) int {
	return int(math.Min(100, math.Max(0, math.Round(v))))
}
