package export

import (
	"strings"
	"testing"
	"time"

	"github.com/mikedutoitzs/floogleads/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var exportTime = time.Date(2024, 5, 17, 23, 30, 0, 0, time.UTC)

func testState() models.CampaignState {
	s := models.DefaultState()
	s.ExtractedInfo = &models.ExtractedInfo{Title: "Acme Shoes", Currency: "GBP", CurrencySymbol: "£"}
	s.AdGroups = []models.AdGroup{
		{
			ID:                 "group-1",
			Name:               "Running",
			Keywords:           []string{"running shoes", "trail shoes"},
			Headlines:          []string{"H1", "H2", "H3"},
			Descriptions:       []string{"D1", "D2"},
			Callouts:           []string{"Free Delivery", "Price Match"},
			Sitelinks:          []string{"Sale", "New In"},
			StructuredSnippets: []string{"Brands: Acme"},
		},
		{
			ID:   "group-2",
			Name: "Empty",
		},
	}
	return s
}

func TestHeader(t *testing.T) {
	h := Header()
	require.Len(t, h, Columns)
	assert.Equal(t, 26, Columns)
	assert.Equal(t, []string{"Campaign", "Ad Group", "Keyword", "Type"}, h[:4])
	assert.Equal(t, "Headline 1", h[4])
	assert.Equal(t, "Headline 15", h[18])
	assert.Equal(t, "Description 1", h[19])
	assert.Equal(t, "Description 4", h[22])
	assert.Equal(t, []string{"Sitelinks", "Callouts", "Structured Snippets"}, h[23:])
}

func TestCampaignName(t *testing.T) {
	assert.Equal(t, "Search - Acme Shoes - 2024-05-17", CampaignName(testState(), exportTime))
	assert.Equal(t, "Search - Generated - 2024-05-17", CampaignName(models.DefaultState(), exportTime))

	// The date is taken in UTC.
	bst := time.FixedZone("BST", 3600)
	assert.Equal(t, "Search - Generated - 2024-05-17", CampaignName(models.DefaultState(), time.Date(2024, 5, 18, 0, 30, 0, 0, bst)))
}

func TestRows(t *testing.T) {
	rows := Rows(testState(), exportTime)

	// 2 keyword rows + 1 ad row for the first group, 1 ad row for the empty group.
	require.Len(t, rows, 4)
	for _, row := range rows {
		assert.Len(t, row, Columns)
	}

	kw := rows[0]
	assert.Equal(t, []string{"Search - Acme Shoes - 2024-05-17", "Running", "running shoes", RowTypeKeyword}, kw[:4])
	for _, cell := range kw[4:] {
		assert.Empty(t, cell)
	}
	assert.Equal(t, "trail shoes", rows[1][2])

	ad := rows[2]
	assert.Equal(t, "", ad[2])
	assert.Equal(t, RowTypeAd, ad[3])
	assert.Equal(t, []string{"H1", "H2", "H3"}, ad[4:7])
	for _, cell := range ad[7:19] {
		assert.Empty(t, cell, "unused headline columns are blank")
	}
	assert.Equal(t, []string{"D1", "D2", "", ""}, ad[19:23])
	assert.Equal(t, "Sale; New In", ad[23])
	assert.Equal(t, "Free Delivery; Price Match", ad[24])
	assert.Equal(t, "Brands: Acme", ad[25])

	assert.Equal(t, "Empty", rows[3][1])
	assert.Equal(t, RowTypeAd, rows[3][3])
}

func TestRowsTruncatesExtraCopy(t *testing.T) {
	s := testState()
	for i := 0; i < 20; i++ {
		s.AdGroups[0].Headlines = append(s.AdGroups[0].Headlines, "extra")
	}
	s.AdGroups[0].Descriptions = []string{"1", "2", "3", "4", "5"}

	ad := Rows(s, exportTime)[2]
	assert.Len(t, ad, Columns)
	assert.Equal(t, "4", ad[22])
}

func TestWrite(t *testing.T) {
	doc := String(testState(), exportTime)

	lines := strings.Split(doc, "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, strings.Join(Header(), ","), lines[0])
	assert.False(t, strings.HasSuffix(doc, "\n"))
	assert.Equal(t, `"Search - Acme Shoes - 2024-05-17","Running","running shoes","Keyword",`+strings.Repeat(`,""`, 22)[1:], lines[1])
}

func TestWriteEmptyCampaign(t *testing.T) {
	assert.Equal(t, strings.Join(Header(), ","), String(models.DefaultState(), exportTime))
}

func TestWriteEscapesQuotes(t *testing.T) {
	s := testState()
	s.AdGroups = []models.AdGroup{{ID: "g", Name: `The "Best" Shoes`, Headlines: []string{`Say "hi", now`}}}

	lines := strings.Split(String(s, exportTime), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[1], `"The ""Best"" Shoes"`)
	assert.Contains(t, lines[1], `"Say ""hi"", now"`)
}
