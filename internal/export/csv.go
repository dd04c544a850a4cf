// Package export renders a campaign as a CSV document for bulk import into
// an ads-management tool.
package export

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/mikedutoitzs/floogleads/internal/models"
)

const (
	FileName = "campaign_export.csv"

	RowTypeKeyword = "Keyword"
	RowTypeAd      = "Responsive Search Ad"

	extensionSeparator = "; "
)

// Columns is the fixed width of every row.
var Columns = 4 + models.MaxHeadlines + models.MaxDescriptions + 3

func Header() []string {
	header := []string{"Campaign", "Ad Group", "Keyword", "Type"}
	for i := 1; i <= models.MaxHeadlines; i++ {
		header = append(header, fmt.Sprintf("Headline %d", i))
	}
	for i := 1; i <= models.MaxDescriptions; i++ {
		header = append(header, fmt.Sprintf("Description %d", i))
	}
	return append(header, "Sitelinks", "Callouts", "Structured Snippets")
}

// CampaignName is "Search - <site title> - <date>", with "Generated" standing
// in for a missing title.
func CampaignName(state models.CampaignState, now time.Time) string {
	title := "Generated"
	if state.ExtractedInfo != nil && state.ExtractedInfo.Title != "" {
		title = state.ExtractedInfo.Title
	}
	return fmt.Sprintf("Search - %s - %s", title, now.UTC().Format("2006-01-02"))
}

// Rows returns the data rows: for each ad group one row per assigned keyword
// followed by one ad content row.
func Rows(state models.CampaignState, now time.Time) [][]string {
	name := CampaignName(state, now)

	var rows [][]string
	for _, group := range state.AdGroups {
		for _, keyword := range group.Keywords {
			row := make([]string, Columns)
			row[0], row[1], row[2], row[3] = name, group.Name, keyword, RowTypeKeyword
			rows = append(rows, row)
		}

		row := make([]string, 0, Columns)
		row = append(row, name, group.Name, "", RowTypeAd)
		row = append(row, fixed(group.Headlines, models.MaxHeadlines)...)
		row = append(row, fixed(group.Descriptions, models.MaxDescriptions)...)
		row = append(row,
			strings.Join(group.Sitelinks, extensionSeparator),
			strings.Join(group.Callouts, extensionSeparator),
			strings.Join(group.StructuredSnippets, extensionSeparator),
		)
		rows = append(rows, row)
	}
	return rows
}

// Write renders the document: an unquoted header line, then every data row
// with each value double-quoted. Rows are separated by "\n" with no trailing
// newline.
func Write(w io.Writer, state models.CampaignState, now time.Time) error {
	bw := bufio.NewWriter(w)

	bw.WriteString(strings.Join(Header(), ","))
	for _, row := range Rows(state, now) {
		bw.WriteByte('\n')
		for i, cell := range row {
			if i > 0 {
				bw.WriteByte(',')
			}
			bw.WriteString(quote(cell))
		}
	}
	return bw.Flush()
}

func String(state models.CampaignState, now time.Time) string {
	var b strings.Builder
	Write(&b, state, now)
	return b.String()
}

// quote wraps v in double quotes, doubling any quote inside it.
func quote(v string) string {
	return `"` + strings.ReplaceAll(v, `"`, `""`) + `"`
}

// fixed returns exactly n values: items padded with blanks or cut short.
func fixed(items []string, n int) []string {
	out := make([]string, n)
	copy(out, items)
	return out
}
