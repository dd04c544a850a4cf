package generator

import (
	"context"
	"fmt"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/google/uuid"
	"github.com/mikedutoitzs/floogleads/internal/metrics"
	"github.com/mikedutoitzs/floogleads/internal/models"
	"github.com/mikedutoitzs/floogleads/internal/sitefetch"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

const (
	defaultCurrency       = "GBP"
	defaultCurrencySymbol = "£"
)

// contentModel is the slice of *genai.GenerativeModel the client uses.
type contentModel interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

// PageFetcher renders a page so its text can be handed to the model.
type PageFetcher interface {
	Fetch(ctx context.Context, url string) (*sitefetch.Snapshot, error)
}

type Config struct {
	APIKey     string
	TextModel  string
	ImageModel string
}

type GeminiClient struct {
	client *genai.Client

	analysis contentModel
	adGroups contentModel
	image    contentModel

	fetcher PageFetcher
	logger  *zap.Logger
	newID   func() string
}

func NewGeminiClient(ctx context.Context, cfg Config, logger *zap.Logger) (*GeminiClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	analysis := client.GenerativeModel(cfg.TextModel)
	analysis.SetTemperature(0.7)
	analysis.ResponseMIMEType = "application/json"
	analysis.ResponseSchema = analysisSchema

	adGroups := client.GenerativeModel(cfg.TextModel)
	adGroups.SetTemperature(0.7)
	adGroups.ResponseMIMEType = "application/json"
	adGroups.ResponseSchema = adGroupsSchema

	image := client.GenerativeModel(cfg.ImageModel)

	g := newClient(analysis, adGroups, image, logger)
	g.client = client
	return g, nil
}

func newClient(analysis, adGroups, image contentModel, logger *zap.Logger) *GeminiClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GeminiClient{
		analysis: analysis,
		adGroups: adGroups,
		image:    image,
		logger:   logger,
		newID:    func() string { return "group-" + uuid.NewString() },
	}
}

// WithPageFetcher enables page snapshots in the analysis prompt.
func (g *GeminiClient) WithPageFetcher(f PageFetcher) *GeminiClient {
	g.fetcher = f
	return g
}

func (g *GeminiClient) Close() {
	if g.client != nil {
		g.client.Close()
	}
}

// AnalyzeSite extracts the business title, summary, currency and a keyword
// list for url. currency, when not empty, forces the currency used for CPC
// estimates.
func (g *GeminiClient) AnalyzeSite(ctx context.Context, url, location, currency string) (*models.SiteAnalysis, error) {
	var snapshot *sitefetch.Snapshot
	if g.fetcher != nil {
		s, err := g.fetcher.Fetch(ctx, url)
		if err != nil {
			g.logger.Warn("Page snapshot failed, analysing without it", zap.String("url", url), zap.Error(err))
		} else {
			snapshot = s
		}
	}

	prompt := buildAnalysisPrompt(url, location, currency, snapshot)

	resp, err := g.generate(ctx, "analyze", g.analysis, prompt)
	if err != nil {
		return nil, err
	}

	text, err := responseText(resp)
	if err != nil {
		return nil, err
	}

	analysis, err := parseAnalysis(text, currency)
	if err != nil {
		return nil, fmt.Errorf("failed to parse site analysis: %w", err)
	}

	g.logger.Info("Site analysed",
		zap.String("url", url),
		zap.String("currency", analysis.Currency),
		zap.Int("keywords", len(analysis.Keywords)))
	return analysis, nil
}

// StructureAdGroups groups the selected keywords into ad groups with copy.
// The grouping returned by the model is trusted as is.
func (g *GeminiClient) StructureAdGroups(ctx context.Context, keywords []models.Keyword, summary string) ([]models.AdGroup, error) {
	var terms []string
	for _, k := range keywords {
		if k.Selected {
			terms = append(terms, k.Term)
		}
	}

	resp, err := g.generate(ctx, "adgroups", g.adGroups, buildAdGroupsPrompt(terms, summary))
	if err != nil {
		return nil, err
	}

	text, err := responseText(resp)
	if err != nil {
		return nil, err
	}

	groups, err := parseAdGroups(text, g.newID)
	if err != nil {
		return nil, fmt.Errorf("failed to parse ad groups: %w", err)
	}

	g.logger.Info("Ad groups structured", zap.Int("keywords", len(terms)), zap.Int("groups", len(groups)))
	return groups, nil
}

// GenerateImage asks the image model for an ad visual. It returns nil, nil
// when the response carries no image.
func (g *GeminiClient) GenerateImage(ctx context.Context, group models.AdGroup, summary string) (*models.Image, error) {
	resp, err := g.generate(ctx, "image", g.image, buildImagePrompt(group, summary))
	if err != nil {
		return nil, err
	}

	img := extractImage(resp)
	if img == nil {
		metrics.GenerationsTotal.WithLabelValues("image", "empty").Inc()
		g.logger.Info("Image model returned no image", zap.String("group", group.ID))
		return nil, nil
	}
	return img, nil
}

func (g *GeminiClient) generate(ctx context.Context, op string, model contentModel, prompt string) (*genai.GenerateContentResponse, error) {
	g.logger.Debug("Calling Gemini", zap.String("operation", op), zap.Int("prompt_chars", len(prompt)))

	start := time.Now()
	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	metrics.GenerationDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.GenerationsTotal.WithLabelValues(op, "failure").Inc()
		g.logger.Error("Gemini call failed", zap.String("operation", op), zap.Error(err))
		return nil, fmt.Errorf("failed to generate content: %w", err)
	}
	metrics.GenerationsTotal.WithLabelValues(op, "success").Inc()
	return resp, nil
}
