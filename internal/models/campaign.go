package models

import (
	"encoding/base64"
	"strings"
)

// Character and count limits for responsive search ad assets.
const (
	HeadlineLimit    = 30
	DescriptionLimit = 90
	AssetLimit       = 25 // sitelinks, callouts, structured snippets

	MaxHeadlines    = 15
	MaxDescriptions = 4
	MaxExtensions   = 4
)

// Wizard steps.
const (
	StepSetup    = 1
	StepKeywords = 2
	StepAdGroups = 3
	StepAssets   = 4
	StepExport   = 5
)

var StepNames = []string{"Setup", "Keywords", "Ad Groups", "Assets", "Export"}

type KeywordType string

const (
	KeywordBrand      KeywordType = "Brand"
	KeywordGeneric    KeywordType = "Generic"
	KeywordCompetitor KeywordType = "Competitor"
)

// ParseKeywordType maps a category name onto a KeywordType, case-insensitively.
// Unknown names report false.
func ParseKeywordType(s string) (KeywordType, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "brand":
		return KeywordBrand, true
	case "generic":
		return KeywordGeneric, true
	case "competitor":
		return KeywordCompetitor, true
	}
	return "", false
}

type Keyword struct {
	Term        string      `json:"term"`
	Type        KeywordType `json:"type"`
	Volume      int         `json:"volume"`      // estimated monthly searches
	Competition int         `json:"competition"` // 0-100
	Relevance   int         `json:"relevance"`   // 0-100
	CPC         float64     `json:"cpc"`
	Selected    bool        `json:"selected"`
}

type AdGroup struct {
	ID                 string   `json:"id"`
	Name               string   `json:"name"`
	Keywords           []string `json:"keywords"`
	Headlines          []string `json:"headlines"`
	Descriptions       []string `json:"descriptions"`
	Callouts           []string `json:"callouts"`
	Sitelinks          []string `json:"sitelinks"`
	StructuredSnippets []string `json:"structuredSnippets"`
	GeneratedImage     string   `json:"generatedImage,omitempty"` // data URL
}

// Backfill replaces every nil list with an empty one so older saved shapes
// decode into a complete ad group.
func (g *AdGroup) Backfill() {
	g.Keywords = orEmpty(g.Keywords)
	g.Headlines = orEmpty(g.Headlines)
	g.Descriptions = orEmpty(g.Descriptions)
	g.Callouts = orEmpty(g.Callouts)
	g.Sitelinks = orEmpty(g.Sitelinks)
	g.StructuredSnippets = orEmpty(g.StructuredSnippets)
}

func (g AdGroup) Clone() AdGroup {
	g.Keywords = cloneStrings(g.Keywords)
	g.Headlines = cloneStrings(g.Headlines)
	g.Descriptions = cloneStrings(g.Descriptions)
	g.Callouts = cloneStrings(g.Callouts)
	g.Sitelinks = cloneStrings(g.Sitelinks)
	g.StructuredSnippets = cloneStrings(g.StructuredSnippets)
	return g
}

type ExtractedInfo struct {
	Title          string `json:"title"`
	Summary        string `json:"summary"`
	Currency       string `json:"currency"`
	CurrencySymbol string `json:"currencySymbol"`
}

type CampaignState struct {
	Step          int            `json:"step"`
	URL           string         `json:"url"`
	Location      string         `json:"location"`
	Description   string         `json:"description"`
	ExtractedInfo *ExtractedInfo `json:"extractedInfo"`
	Keywords      []Keyword      `json:"keywords"`
	AdGroups      []AdGroup      `json:"adGroups"`
	IsProcessing  bool           `json:"isProcessing"`
	ProcessStatus string         `json:"processStatus"`
}

func DefaultState() CampaignState {
	return CampaignState{
		Step:     StepSetup,
		Keywords: []Keyword{},
		AdGroups: []AdGroup{},
	}
}

// Backfill fills absent lists on the state and on every ad group.
func (s *CampaignState) Backfill() {
	if s.Keywords == nil {
		s.Keywords = []Keyword{}
	}
	if s.AdGroups == nil {
		s.AdGroups = []AdGroup{}
	}
	for i := range s.AdGroups {
		s.AdGroups[i].Backfill()
	}
	if s.Step < StepSetup || s.Step > StepExport {
		s.Step = StepSetup
	}
}

// Clone returns a deep copy; mutating the copy never touches s.
func (s CampaignState) Clone() CampaignState {
	if s.ExtractedInfo != nil {
		info := *s.ExtractedInfo
		s.ExtractedInfo = &info
	}
	if s.Keywords != nil {
		kws := make([]Keyword, len(s.Keywords))
		copy(kws, s.Keywords)
		s.Keywords = kws
	}
	if s.AdGroups != nil {
		groups := make([]AdGroup, len(s.AdGroups))
		for i, g := range s.AdGroups {
			groups[i] = g.Clone()
		}
		s.AdGroups = groups
	}
	return s
}

func (s CampaignState) SelectedKeywords() []Keyword {
	var out []Keyword
	for _, k := range s.Keywords {
		if k.Selected {
			out = append(out, k)
		}
	}
	return out
}

func (s CampaignState) Summary() string {
	if s.ExtractedInfo == nil {
		return ""
	}
	return s.ExtractedInfo.Summary
}

// SiteAnalysis is the result of analysing a website.
type SiteAnalysis struct {
	Title          string
	Summary        string
	Currency       string
	CurrencySymbol string
	Keywords       []Keyword
}

// Image is a generated ad image.
type Image struct {
	MIMEType string
	Data     []byte
}

// DataURL encodes the image as a data URL suitable for AdGroup.GeneratedImage.
func (img Image) DataURL() string {
	mime := img.MIMEType
	if mime == "" {
		mime = "image/png"
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(img.Data)
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}
