// Package sitefetch renders a web page in headless Chrome and captures the
// text a keyword analysis needs.
package sitefetch

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

// MaxTextChars caps the visible text kept from a page.
const MaxTextChars = 6000

type Snapshot struct {
	URL         string
	Title       string
	Description string
	Text        string
}

type ChromeFetcher struct {
	timeout time.Duration
	logger  *zap.Logger
}

func NewChromeFetcher(timeout time.Duration, logger *zap.Logger) *ChromeFetcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChromeFetcher{timeout: timeout, logger: logger}
}

// Fetch loads url in a fresh headless browser and returns its title, meta
// description and visible text.
func (f *ChromeFetcher) Fetch(ctx context.Context, url string) (*Snapshot, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent(`Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36`),
	)
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	taskCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	if f.timeout > 0 {
		taskCtx, cancel = context.WithTimeout(taskCtx, f.timeout)
		defer cancel()
	}

	var title, description, text string
	start := time.Now()
	err := chromedp.Run(taskCtx,
		chromedp.Navigate(url),
		chromedp.Title(&title),
		chromedp.Evaluate(`(document.querySelector('meta[name="description"]') || {}).content || ""`, &description),
		chromedp.Evaluate(`document.body ? document.body.innerText : ""`, &text),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to render %s: %w", url, err)
	}

	f.logger.Debug("Page rendered",
		zap.String("url", url),
		zap.String("title", title),
		zap.Int64("duration_ms", time.Since(start).Milliseconds()))

	return &Snapshot{
		URL:         url,
		Title:       strings.TrimSpace(title),
		Description: strings.TrimSpace(description),
		Text:        CleanText(text, MaxTextChars),
	}, nil
}

// CleanText collapses whitespace runs, drops blank lines and truncates the
// result to at most max runes.
func CleanText(s string, max int) string {
	var lines []string
	for _, line := range strings.Split(s, "\n") {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			lines = append(lines, line)
		}
	}
	out := strings.Join(lines, "\n")

	runes := []rune(out)
	if max > 0 && len(runes) > max {
		out = string(runes[:max])
	}
	return out
}
