package campaign

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/mikedutoitzs/floogleads/internal/export"
	"github.com/mikedutoitzs/floogleads/internal/metrics"
	"github.com/mikedutoitzs/floogleads/internal/models"
	"go.uber.org/zap"
)

const (
	StatusAnalyzing  = "Analyzing website & gathering currency data..."
	StatusRefining   = "Refining targeting & updating metrics..."
	StatusStructure  = "Structuring ad groups..."
	StatusGenerating = "Generating ad image..."
)

// Generator is the AI gateway.
type Generator interface {
	AnalyzeSite(ctx context.Context, url, location, currency string) (*models.SiteAnalysis, error)
	StructureAdGroups(ctx context.Context, keywords []models.Keyword, summary string) ([]models.AdGroup, error)
	GenerateImage(ctx context.Context, group models.AdGroup, summary string) (*models.Image, error)
}

// Store persists the whole state record.
type Store interface {
	Load(ctx context.Context) (models.CampaignState, error)
	Save(ctx context.Context, state models.CampaignState) error
	Clear(ctx context.Context) error
}

// Service owns the single campaign state. Every mutation replaces the state
// and is written to the store before the call returns. At most one AI call
// is in flight; while it runs every other mutation fails with ErrBusy.
type Service struct {
	mu    sync.Mutex
	state models.CampaignState

	store     Store
	generator Generator
	logger    *zap.Logger
}

func NewService(ctx context.Context, store Store, generator Generator, logger *zap.Logger) (*Service, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	state, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load campaign state: %w", err)
	}
	logger.Info("Campaign state loaded",
		zap.Int("step", state.Step),
		zap.Int("keywords", len(state.Keywords)),
		zap.Int("ad_groups", len(state.AdGroups)))

	return &Service{
		state:     state,
		store:     store,
		generator: generator,
		logger:    logger,
	}, nil
}

// State returns a copy of the current state.
func (s *Service) State() models.CampaignState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

func (s *Service) SetInput(ctx context.Context, url, location string) (models.CampaignState, error) {
	return s.update(ctx, func(st models.CampaignState) (models.CampaignState, error) {
		return SetInput(st, url, location), nil
	})
}

func (s *Service) SetStep(ctx context.Context, step int) (models.CampaignState, error) {
	return s.update(ctx, func(st models.CampaignState) (models.CampaignState, error) {
		return SetStep(st, step)
	})
}

func (s *Service) AddKeyword(ctx context.Context, term string, kt models.KeywordType) (models.CampaignState, error) {
	return s.update(ctx, func(st models.CampaignState) (models.CampaignState, error) {
		return AddKeyword(st, term, kt)
	})
}

func (s *Service) ToggleKeyword(ctx context.Context, term string) (models.CampaignState, error) {
	return s.update(ctx, func(st models.CampaignState) (models.CampaignState, error) {
		return ToggleKeyword(st, term)
	})
}

func (s *Service) RemoveKeyword(ctx context.Context, term string) (models.CampaignState, error) {
	return s.update(ctx, func(st models.CampaignState) (models.CampaignState, error) {
		return RemoveKeyword(st, term)
	})
}

func (s *Service) RenameAdGroup(ctx context.Context, id, name string) (models.CampaignState, error) {
	return s.update(ctx, func(st models.CampaignState) (models.CampaignState, error) {
		return RenameAdGroup(st, id, name)
	})
}

func (s *Service) RemoveAdGroup(ctx context.Context, id string) (models.CampaignState, error) {
	return s.update(ctx, func(st models.CampaignState) (models.CampaignState, error) {
		return RemoveAdGroup(st, id)
	})
}

func (s *Service) UpdateAsset(ctx context.Context, id string, kind AssetKind, index int, value string) (models.CampaignState, error) {
	return s.update(ctx, func(st models.CampaignState) (models.CampaignState, error) {
		return UpdateAsset(st, id, kind, index, value)
	})
}

// Analyze runs the site analysis for the saved URL and location and moves
// the wizard to the keyword step.
func (s *Service) Analyze(ctx context.Context) (models.CampaignState, error) {
	snap, err := s.begin(ctx, StatusAnalyzing, func(st models.CampaignState) error {
		if st.URL == "" || st.Location == "" {
			return ErrMissingInput
		}
		return nil
	})
	if err != nil {
		return snap, err
	}

	analysis, err := s.generator.AnalyzeSite(ctx, snap.URL, snap.Location, "")
	if err != nil {
		return s.fail(ctx, "analyze", err)
	}
	return s.finish(ctx, func(st models.CampaignState) (models.CampaignState, error) {
		return ApplyAnalysis(st, analysis), nil
	})
}

// Refine re-runs the analysis for a new location with a forced currency.
func (s *Service) Refine(ctx context.Context, location, currency string) (models.CampaignState, error) {
	snap, err := s.begin(ctx, StatusRefining, func(st models.CampaignState) error {
		if st.URL == "" || location == "" || currency == "" {
			return ErrMissingInput
		}
		return nil
	})
	if err != nil {
		return snap, err
	}

	analysis, err := s.generator.AnalyzeSite(ctx, snap.URL, location, currency)
	if err != nil {
		return s.fail(ctx, "refine", err)
	}
	return s.finish(ctx, func(st models.CampaignState) (models.CampaignState, error) {
		return ApplyRefinement(st, location, analysis), nil
	})
}

// GenerateAdGroups structures the selected keywords into ad groups and moves
// the wizard to the ad group step.
func (s *Service) GenerateAdGroups(ctx context.Context) (models.CampaignState, error) {
	snap, err := s.begin(ctx, StatusStructure, func(st models.CampaignState) error {
		if len(st.SelectedKeywords()) == 0 {
			return ErrNoSelectedKeywords
		}
		return nil
	})
	if err != nil {
		return snap, err
	}

	groups, err := s.generator.StructureAdGroups(ctx, snap.SelectedKeywords(), snap.Summary())
	if err != nil {
		return s.fail(ctx, "adgroups", err)
	}
	return s.finish(ctx, func(st models.CampaignState) (models.CampaignState, error) {
		return ApplyAdGroups(st, groups), nil
	})
}

// GenerateImage creates an ad image for one ad group. The bool reports
// whether the model produced an image; when it did not the group is left
// unchanged and no error is returned.
func (s *Service) GenerateImage(ctx context.Context, id string) (models.CampaignState, bool, error) {
	snap, err := s.begin(ctx, StatusGenerating, func(st models.CampaignState) error {
		if indexOfGroup(st.AdGroups, id) < 0 {
			return fmt.Errorf("%w: %s", ErrAdGroupNotFound, id)
		}
		return nil
	})
	if err != nil {
		return snap, false, err
	}

	group := snap.AdGroups[indexOfGroup(snap.AdGroups, id)]
	img, err := s.generator.GenerateImage(ctx, group, snap.Summary())
	if err != nil {
		st, err := s.fail(ctx, "image", err)
		return st, false, err
	}

	st, err := s.finish(ctx, func(st models.CampaignState) (models.CampaignState, error) {
		return SetGeneratedImage(st, id, img)
	})
	return st, img != nil, err
}

func (s *Service) LimitViolations() []LimitViolation {
	return LimitViolations(s.State())
}

// Export writes the CSV document for the current state.
func (s *Service) Export(w io.Writer, now time.Time) error {
	st := s.State()
	if err := export.Write(w, st, now); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}
	metrics.ExportsTotal.Inc()
	s.logger.Info("Campaign exported", zap.Int("ad_groups", len(st.AdGroups)))
	return nil
}

// Reset restores the default state and erases the persisted record.
func (s *Service) Reset(ctx context.Context) (models.CampaignState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.IsProcessing {
		return s.state.Clone(), ErrBusy
	}
	s.state = models.DefaultState()
	if err := s.store.Clear(ctx); err != nil {
		return s.state.Clone(), err
	}
	s.logger.Info("Campaign reset")
	return s.state.Clone(), nil
}

func (s *Service) update(ctx context.Context, fn func(models.CampaignState) (models.CampaignState, error)) (models.CampaignState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.IsProcessing {
		return s.state.Clone(), ErrBusy
	}
	next, err := fn(s.state)
	if err != nil {
		return s.state.Clone(), err
	}
	return next.Clone(), s.commit(ctx, next)
}

// begin raises the processing flag after check accepts the current state.
func (s *Service) begin(ctx context.Context, status string, check func(models.CampaignState) error) (models.CampaignState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.IsProcessing {
		return s.state.Clone(), ErrBusy
	}
	if err := check(s.state); err != nil {
		return s.state.Clone(), err
	}
	next := StartProcessing(s.state, status)
	if err := s.commit(ctx, next); err != nil {
		s.state = StopProcessing(next)
		return s.state.Clone(), err
	}
	return next.Clone(), nil
}

// finish applies a generation result. The store write ignores cancellation
// of ctx so the cleared flag always reaches storage.
func (s *Service) finish(ctx context.Context, apply func(models.CampaignState) (models.CampaignState, error)) (models.CampaignState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := apply(s.state)
	if err != nil {
		next = StopProcessing(s.state)
		if cerr := s.commit(context.WithoutCancel(ctx), next); cerr != nil {
			s.logger.Error("Failed to persist state", zap.Error(cerr))
		}
		return next.Clone(), err
	}
	return next.Clone(), s.commit(context.WithoutCancel(ctx), next)
}

// fail clears the processing flag after a failed generation call.
func (s *Service) fail(ctx context.Context, op string, cause error) (models.CampaignState, error) {
	s.logger.Error("Generation failed", zap.String("operation", op), zap.Error(cause))
	st, _ := s.finish(ctx, func(st models.CampaignState) (models.CampaignState, error) {
		return StopProcessing(st), nil
	})
	return st, fmt.Errorf("%w: %s: %w", ErrGeneration, op, cause)
}

func (s *Service) commit(ctx context.Context, next models.CampaignState) error {
	s.state = next
	if err := s.store.Save(ctx, next); err != nil {
		return fmt.Errorf("failed to persist state: %w", err)
	}
	return nil
}
