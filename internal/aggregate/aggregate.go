// Package aggregate is the front door over both sources. It owns the
// fast/slow search merge, the detail fetch with its background
// availability resolution, and the autocomplete session that drops
// stale responses.
package aggregate

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"cuestream/internal/models"
)

type titleSource interface {
	Autocomplete(ctx context.Context, query string) ([]models.AutoCompleteResult, error)
	Search(ctx context.Context, query string) ([]models.SearchResult, error)
	GetDetail(ctx context.Context, id string) (*models.TitleDetail, error)
	GetTrailerSource(ctx context.Context, url string) (models.TrailerSource, error)
}

type availabilityResolver interface {
	Resolve(ctx context.Context, query, yearHint, crossRefID string) (*models.AvailabilityDetail, error)
}

// Facade combines the metadata source with availability resolution.
type Facade struct {
	titles       titleSource
	availability availabilityResolver
	log          zerolog.Logger
}

// NewFacade creates the aggregation facade.
func NewFacade(titles titleSource, availability availabilityResolver, logger zerolog.Logger) *Facade {
	return &Facade{
		titles:       titles,
		availability: availability,
		log:          logger.With().Str("component", "aggregate").Logger(),
	}
}

// Search runs the full search pass.
func (f *Facade) Search(ctx context.Context, query string) ([]models.SearchResult, error) {
	return f.titles.Search(ctx, query)
}

// GetTrailerSource resolves a trailer page into its playable pair.
func (f *Facade) GetTrailerSource(ctx context.Context, url string) (models.TrailerSource, error) {
	return f.titles.GetTrailerSource(ctx, url)
}

// GetTitle fetches the full detail record and kicks off availability
// resolution in the background. The channel delivers at most one
// record and is always closed; a close without a send means no
// confident availability match exists.
func (f *Facade) GetTitle(ctx context.Context, id string) (*models.TitleDetail, <-chan *models.AvailabilityDetail, error) {
	detail, err := f.titles.GetDetail(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	availability := make(chan *models.AvailabilityDetail, 1)
	go func() {
		defer close(availability)
		matched, err := f.availability.Resolve(ctx, detail.Title, detail.ReleaseDate, detail.ID)
		if err != nil {
			f.log.Warn().Err(err).Str("id", detail.ID).Msg("availability resolution failed")
			return
		}
		if matched != nil {
			availability <- matched
		}
	}()

	return detail, availability, nil
}

// MergeEnrichment patches the fast suggestions in place with the
// rating, plot and duration from the matching full search rows.
// Suggestions without a matching row keep their placeholders; order is
// preserved throughout.
func MergeEnrichment(fast []models.AutoCompleteResult, full []models.SearchResult) {
	byID := make(map[string]*models.SearchResult, len(full))
	for i := range full {
		byID[full[i].ID] = &full[i]
	}
	for i := range fast {
		row, ok := byID[fast[i].ID]
		if !ok {
			continue
		}
		fast[i].Rating = row.Rating
		fast[i].Plot = row.Plot
		fast[i].Duration = row.Duration
	}
}

// AutocompleteSession serializes overlapping autocomplete queries. A
// new query cancels the previous one, and responses belonging to a
// superseded query are dropped instead of delivered out of order.
type AutocompleteSession struct {
	facade *Facade

	mu     sync.Mutex
	seq    uint64
	cancel context.CancelFunc
}

// NewSession creates an autocomplete session over the facade.
func NewSession(facade *Facade) *AutocompleteSession {
	return &AutocompleteSession{facade: facade}
}

// Query starts the two-phase lookup for query. onFast fires with the
// lightweight suggestions as soon as they arrive; onEnriched fires
// once the slow pass has patched them. Neither callback fires for a
// query that has been superseded by a newer one.
func (s *AutocompleteSession) Query(ctx context.Context, query string, onFast, onEnriched func([]models.AutoCompleteResult)) {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.seq++
	seq := s.seq
	s.mu.Unlock()

	go func() {
		defer cancel()

		fast, err := s.facade.titles.Autocomplete(ctx, query)
		if err != nil || !s.current(seq) {
			return
		}
		if onFast != nil {
			onFast(fast)
		}

		full, err := s.facade.titles.Search(ctx, query)
		if err != nil || !s.current(seq) {
			return
		}
		MergeEnrichment(fast, full)
		if onEnriched != nil {
			onEnriched(fast)
		}
	}()
}

func (s *AutocompleteSession) current(seq uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seq == seq
}
