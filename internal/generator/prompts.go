package generator

import (
	"fmt"
	"strings"

	"github.com/mikedutoitzs/floogleads/internal/models"
	"github.com/mikedutoitzs/floogleads/internal/sitefetch"
)

func buildAnalysisPrompt(url, location, currency string, snapshot *sitefetch.Snapshot) string {
	currencyInstruction := "Determine the local currency for the location provided. Default to 'GBP' (£) if location suggests UK or is ambiguous. Return the currency code (e.g., USD, GBP) and symbol."
	if currency != "" {
		currencyInstruction = fmt.Sprintf("IMPORTANT: The user has explicitly requested to use '%s' as the currency. You MUST estimate all CPC values in %s. Return '%s' as the currency code and the appropriate symbol.", currency, currency, currency)
	}

	var b strings.Builder
	fmt.Fprintf(&b, `Analyze the website content for: %s.
The target location is: %s.

1. Extract the likely page title and a brief summary of what the business offers.
2. %s
3. Generate a comprehensive list of 20 Google Ads keywords suitable for this business.
   - Include long-tail variations.
   - Include specific competitor brand names if relevant.
   - Categorize them strictly into 'Brand' (using the domain name/business name), 'Generic' (industry terms/services), and 'Competitor' (likely competitors).
   - Estimate a 'volume' (0-10000), 'competition' (0-100), 'relevance' (0-100) and 'cpc' (cost per click in the determined currency, e.g., 0.50 to 50.00) for each based on general knowledge.
`, url, location, currencyInstruction)

	if snapshot != nil {
		b.WriteString("\nRendered page content (use it in preference to general knowledge):\n")
		if snapshot.Title != "" {
			fmt.Fprintf(&b, "Title: %s\n", snapshot.Title)
		}
		if snapshot.Description != "" {
			fmt.Fprintf(&b, "Meta description: %s\n", snapshot.Description)
		}
		if snapshot.Text != "" {
			fmt.Fprintf(&b, "Visible text:\n%s\n", snapshot.Text)
		}
	}

	return b.String()
}

func buildAdGroupsPrompt(terms []string, summary string) string {
	return fmt.Sprintf(`Based on the business summary: "%s" and these selected keywords: %s.

Create logical Google Ads Ad Groups.
Theme Strategy: Strictly segregate ad groups by theme. Keep 'Brand' keywords in their own group, 'Competitor' keywords in their own, and 'Generic' themes split by specific service/product lines.

For each ad group:
1. Give it a campaign-compliant name.
2. Assign relevant keywords from the list.
3. Generate %d Headlines (Max %d chars).
   - CRITICAL: Aggressively insert the assigned keywords into the headlines.
   - Aim for natural keyword density.
   - Use as close to %d characters as possible for maximum visibility.
4. Generate %d Descriptions (Max %d chars).
   - CRITICAL: Include keywords naturally.
   - Focus on benefits and call-to-actions.
   - Use as close to %d characters as possible.
5. Write %d Callout texts (Max %d chars).
6. Write %d Sitelink texts (Max %d chars).
7. Write %d Structured Snippet values (Max %d chars).

Strictly adhere to character limits.`,
		summary, strings.Join(terms, ", "),
		models.MaxHeadlines, models.HeadlineLimit, models.HeadlineLimit,
		models.MaxDescriptions, models.DescriptionLimit, models.DescriptionLimit,
		models.MaxExtensions, models.AssetLimit,
		models.MaxExtensions, models.AssetLimit,
		models.MaxExtensions, models.AssetLimit)
}

func buildImagePrompt(group models.AdGroup, summary string) string {
	return fmt.Sprintf(`Create a professional, high-quality digital advertising image for a business described as: %s.
Focus on the theme: %s.
The style should be modern, clean, and suitable for a social media or display ad.
No text on the image.`, summary, group.Name)
}
