package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKeywordType(t *testing.T) {
	tests := []struct {
		in   string
		want KeywordType
		ok   bool
	}{
		{"Brand", KeywordBrand, true},
		{"generic", KeywordGeneric, true},
		{" COMPETITOR ", KeywordCompetitor, true},
		{"", "", false},
		{"Long-tail", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseKeywordType(tt.in)
		assert.Equal(t, tt.want, got, tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
	}
}

func TestCampaignStateBackfill(t *testing.T) {
	raw := `{"step":0,"url":"https://example.com","adGroups":[{"id":"g1","name":"Shoes","headlines":["Buy Shoes"]}]}`

	var s CampaignState
	require.NoError(t, json.Unmarshal([]byte(raw), &s))
	s.Backfill()

	assert.Equal(t, StepSetup, s.Step)
	assert.NotNil(t, s.Keywords)
	require.Len(t, s.AdGroups, 1)

	g := s.AdGroups[0]
	assert.Equal(t, []string{"Buy Shoes"}, g.Headlines)
	assert.NotNil(t, g.Keywords)
	assert.NotNil(t, g.Descriptions)
	assert.NotNil(t, g.Callouts)
	assert.NotNil(t, g.Sitelinks)
	assert.NotNil(t, g.StructuredSnippets)
}

func TestCampaignStateBackfillKeepsValidStep(t *testing.T) {
	s := CampaignState{Step: StepAssets}
	s.Backfill()
	assert.Equal(t, StepAssets, s.Step)
}

func TestCampaignStateCloneIsDeep(t *testing.T) {
	orig := CampaignState{
		Step:          StepAdGroups,
		ExtractedInfo: &ExtractedInfo{Title: "Acme"},
		Keywords:      []Keyword{{Term: "shoes", Selected: true}},
		AdGroups:      []AdGroup{{ID: "g1", Headlines: []string{"One"}}},
	}

	c := orig.Clone()
	c.ExtractedInfo.Title = "Other"
	c.Keywords[0].Selected = false
	c.AdGroups[0].Headlines[0] = "Changed"

	assert.Equal(t, "Acme", orig.ExtractedInfo.Title)
	assert.True(t, orig.Keywords[0].Selected)
	assert.Equal(t, "One", orig.AdGroups[0].Headlines[0])
}

func TestSelectedKeywords(t *testing.T) {
	s := CampaignState{Keywords: []Keyword{
		{Term: "a", Selected: true},
		{Term: "b"},
		{Term: "c", Selected: true},
	}}

	var terms []string
	for _, k := range s.SelectedKeywords() {
		terms = append(terms, k.Term)
	}
	assert.Equal(t, []string{"a", "c"}, terms)
}

func TestStateJSONFieldNames(t *testing.T) {
	data, err := json.Marshal(DefaultState())
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(data, &fields))
	for _, name := range []string{"step", "url", "location", "description", "extractedInfo", "keywords", "adGroups", "isProcessing", "processStatus"} {
		assert.Contains(t, fields, name)
	}
}

func TestImageDataURL(t *testing.T) {
	assert.Equal(t, "data:image/png;base64,AQI=", Image{Data: []byte{1, 2}}.DataURL())
	assert.Equal(t, "data:image/jpeg;base64,AQI=", Image{MIMEType: "image/jpeg", Data: []byte{1, 2}}.DataURL())
}
