package campaign

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mikedutoitzs/floogleads/internal/models"
)

var (
	ErrBusy               = errors.New("a generation request is already in progress")
	ErrInvalidStep        = errors.New("invalid wizard step")
	ErrMissingInput       = errors.New("url and location are required")
	ErrEmptyKeyword       = errors.New("keyword term is required")
	ErrDuplicateKeyword   = errors.New("keyword already exists")
	ErrKeywordNotFound    = errors.New("keyword not found")
	ErrInvalidKeywordType = errors.New("keyword type must be Brand, Generic or Competitor")
	ErrNoSelectedKeywords = errors.New("no keywords selected")
	ErrAdGroupNotFound    = errors.New("ad group not found")
	ErrInvalidAsset       = errors.New("invalid asset")
	ErrGeneration         = errors.New("generation failed")
)

// AssetKind names an editable list on an ad group.
type AssetKind string

const (
	AssetHeadlines          AssetKind = "headlines"
	AssetDescriptions       AssetKind = "descriptions"
	AssetCallouts           AssetKind = "callouts"
	AssetSitelinks          AssetKind = "sitelinks"
	AssetStructuredSnippets AssetKind = "structuredSnippets"
)

var AssetKinds = []AssetKind{AssetHeadlines, AssetDescriptions, AssetCallouts, AssetSitelinks, AssetStructuredSnippets}

// MaxItems is how many entries of the kind an ad group can hold.
func (k AssetKind) MaxItems() int {
	switch k {
	case AssetHeadlines:
		return models.MaxHeadlines
	case AssetDescriptions:
		return models.MaxDescriptions
	case AssetCallouts, AssetSitelinks, AssetStructuredSnippets:
		return models.MaxExtensions
	}
	return 0
}

// CharLimit is the character limit for a single entry of the kind.
func (k AssetKind) CharLimit() int {
	switch k {
	case AssetHeadlines:
		return models.HeadlineLimit
	case AssetDescriptions:
		return models.DescriptionLimit
	case AssetCallouts, AssetSitelinks, AssetStructuredSnippets:
		return models.AssetLimit
	}
	return 0
}

func (k AssetKind) list(g *models.AdGroup) *[]string {
	switch k {
	case AssetHeadlines:
		return &g.Headlines
	case AssetDescriptions:
		return &g.Descriptions
	case AssetCallouts:
		return &g.Callouts
	case AssetSitelinks:
		return &g.Sitelinks
	case AssetStructuredSnippets:
		return &g.StructuredSnippets
	}
	return nil
}

// The functions below are the wizard's state transitions. Each takes a state
// by value and returns a new one; the input is never modified.

func SetInput(s models.CampaignState, url, location string) models.CampaignState {
	next := s.Clone()
	next.URL = strings.TrimSpace(url)
	next.Location = strings.TrimSpace(location)
	return next
}

func SetStep(s models.CampaignState, step int) (models.CampaignState, error) {
	if step < models.StepSetup || step > models.StepExport {
		return s, fmt.Errorf("%w: %d", ErrInvalidStep, step)
	}
	next := s.Clone()
	next.Step = step
	return next, nil
}

func StartProcessing(s models.CampaignState, status string) models.CampaignState {
	next := s.Clone()
	next.IsProcessing = true
	next.ProcessStatus = status
	return next
}

func StopProcessing(s models.CampaignState) models.CampaignState {
	next := s.Clone()
	next.IsProcessing = false
	next.ProcessStatus = ""
	return next
}

// ApplyAnalysis moves to the keyword step with the analysed site info and a
// fresh, fully selected keyword list.
func ApplyAnalysis(s models.CampaignState, a *models.SiteAnalysis) models.CampaignState {
	next := StopProcessing(s)
	next.Step = models.StepKeywords
	next.ExtractedInfo = infoFrom(a)
	next.Keywords = selectAll(a.Keywords)
	return next
}

// ApplyRefinement replaces location, site info and keywords after a
// re-analysis. The step is unchanged.
func ApplyRefinement(s models.CampaignState, location string, a *models.SiteAnalysis) models.CampaignState {
	next := StopProcessing(s)
	next.Location = strings.TrimSpace(location)
	next.ExtractedInfo = infoFrom(a)
	next.Keywords = selectAll(a.Keywords)
	return next
}

func ApplyAdGroups(s models.CampaignState, groups []models.AdGroup) models.CampaignState {
	next := StopProcessing(s)
	next.Step = models.StepAdGroups
	next.AdGroups = make([]models.AdGroup, len(groups))
	for i, g := range groups {
		g = g.Clone()
		g.Backfill()
		next.AdGroups[i] = g
	}
	return next
}

// AddKeyword prepends a manual keyword: full relevance, no volume,
// competition or cost, selected.
func AddKeyword(s models.CampaignState, term string, kt models.KeywordType) (models.CampaignState, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return s, ErrEmptyKeyword
	}
	if _, ok := models.ParseKeywordType(string(kt)); !ok {
		return s, fmt.Errorf("%w: %q", ErrInvalidKeywordType, kt)
	}
	if indexOfKeyword(s.Keywords, term) >= 0 {
		return s, fmt.Errorf("%w: %q", ErrDuplicateKeyword, term)
	}

	next := s.Clone()
	kw := models.Keyword{
		Term:      term,
		Type:      kt,
		Relevance: 100,
		Selected:  true,
	}
	next.Keywords = append([]models.Keyword{kw}, next.Keywords...)
	return next, nil
}

// ToggleKeyword flips the selection flag of the keyword with the given term.
func ToggleKeyword(s models.CampaignState, term string) (models.CampaignState, error) {
	i := indexOfKeyword(s.Keywords, term)
	if i < 0 {
		return s, fmt.Errorf("%w: %q", ErrKeywordNotFound, term)
	}
	next := s.Clone()
	next.Keywords[i].Selected = !next.Keywords[i].Selected
	return next, nil
}

func RemoveKeyword(s models.CampaignState, term string) (models.CampaignState, error) {
	i := indexOfKeyword(s.Keywords, term)
	if i < 0 {
		return s, fmt.Errorf("%w: %q", ErrKeywordNotFound, term)
	}
	next := s.Clone()
	next.Keywords = append(next.Keywords[:i], next.Keywords[i+1:]...)
	return next, nil
}

func RenameAdGroup(s models.CampaignState, id, name string) (models.CampaignState, error) {
	i := indexOfGroup(s.AdGroups, id)
	if i < 0 {
		return s, fmt.Errorf("%w: %s", ErrAdGroupNotFound, id)
	}
	next := s.Clone()
	next.AdGroups[i].Name = name
	return next, nil
}

func RemoveAdGroup(s models.CampaignState, id string) (models.CampaignState, error) {
	i := indexOfGroup(s.AdGroups, id)
	if i < 0 {
		return s, fmt.Errorf("%w: %s", ErrAdGroupNotFound, id)
	}
	next := s.Clone()
	next.AdGroups = append(next.AdGroups[:i], next.AdGroups[i+1:]...)
	return next, nil
}

// UpdateAsset sets entry index of the kind's list, growing the list with
// blanks when index is past its end.
func UpdateAsset(s models.CampaignState, id string, kind AssetKind, index int, value string) (models.CampaignState, error) {
	n := kind.MaxItems()
	if n == 0 {
		return s, fmt.Errorf("%w: unknown kind %q", ErrInvalidAsset, kind)
	}
	if index < 0 || index >= n {
		return s, fmt.Errorf("%w: %s index %d out of range 0..%d", ErrInvalidAsset, kind, index, n-1)
	}
	i := indexOfGroup(s.AdGroups, id)
	if i < 0 {
		return s, fmt.Errorf("%w: %s", ErrAdGroupNotFound, id)
	}

	next := s.Clone()
	list := kind.list(&next.AdGroups[i])
	for len(*list) <= index {
		*list = append(*list, "")
	}
	(*list)[index] = value
	return next, nil
}

func SetGeneratedImage(s models.CampaignState, id string, img *models.Image) (models.CampaignState, error) {
	i := indexOfGroup(s.AdGroups, id)
	if i < 0 {
		return s, fmt.Errorf("%w: %s", ErrAdGroupNotFound, id)
	}
	next := StopProcessing(s)
	if img != nil {
		next.AdGroups[i].GeneratedImage = img.DataURL()
	}
	return next, nil
}

// LimitViolation reports an asset longer than its character limit.
type LimitViolation struct {
	AdGroupID string    `json:"adGroupId"`
	AdGroup   string    `json:"adGroup"`
	Kind      AssetKind `json:"kind"`
	Index     int       `json:"index"`
	Length    int       `json:"length"`
	Limit     int       `json:"limit"`
	Value     string    `json:"value"`
}

// LimitViolations lists every asset over its character limit, in ad group
// then kind order.
func LimitViolations(s models.CampaignState) []LimitViolation {
	var out []LimitViolation
	for _, g := range s.AdGroups {
		for _, kind := range AssetKinds {
			limit := kind.CharLimit()
			for i, v := range *kind.list(&g) {
				if n := len([]rune(v)); n > limit {
					out = append(out, LimitViolation{
						AdGroupID: g.ID,
						AdGroup:   g.Name,
						Kind:      kind,
						Index:     i,
						Length:    n,
						Limit:     limit,
						Value:     v,
					})
				}
			}
		}
	}
	return out
}

func infoFrom(a *models.SiteAnalysis) *models.ExtractedInfo {
	return &models.ExtractedInfo{
		Title:          a.Title,
		Summary:        a.Summary,
		Currency:       a.Currency,
		CurrencySymbol: a.CurrencySymbol,
	}
}

func selectAll(kws []models.Keyword) []models.Keyword {
	out := make([]models.Keyword, len(kws))
	for i, k := range kws {
		k.Selected = true
		out[i] = k
	}
	return out
}

func indexOfKeyword(kws []models.Keyword, term string) int {
	for i, k := range kws {
		if k.Term == term {
			return i
		}
	}
	return -1
}

func indexOfGroup(groups []models.AdGroup, id string) int {
	for i, g := range groups {
		if g.ID == id {
			return i
		}
	}
	return -1
}
