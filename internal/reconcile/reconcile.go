// Package reconcile matches a title from the metadata source against
// the availability source's catalog. The two systems share no common
// identifier up front, so candidates are scored by normalized title
// similarity and the winner is validated against the cross-reference
// identifier embedded in its payload.
package reconcile

import (
	"context"
	"fmt"
	"strconv"

	"github.com/rs/zerolog"

	"cuestream/internal/justwatch"
	"cuestream/internal/match"
	"cuestream/internal/models"
)

type availabilitySource interface {
	SuggestedTitles(ctx context.Context, query string) ([]justwatch.Candidate, error)
	TitleDetails(ctx context.Context, entityID string) (*models.AvailabilityDetail, error)
}

// Orchestrator runs the two-step candidate search and validation.
type Orchestrator struct {
	source availabilitySource
	log    zerolog.Logger
}

// New creates an orchestrator over the given availability source.
func New(source availabilitySource, logger zerolog.Logger) *Orchestrator {
	return &Orchestrator{
		source: source,
		log:    logger.With().Str("component", "reconcile").Logger(),
	}
}

// Resolve finds the availability record best matching query. yearHint,
// when parseable, gates candidates to the exact release year before one
// may take the lead. crossRefID, when non-empty, must match the
// identifier carried by the winning record or the whole match is
// rejected. A nil, nil return means no confident match exists; that is
// an ordinary outcome, not an error.
func (o *Orchestrator) Resolve(ctx context.Context, query, yearHint, crossRefID string) (*models.AvailabilityDetail, error) {
	candidates, err := o.source.SuggestedTitles(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("fetching candidates: %w", err)
	}

	year := yearFromDate(yearHint)
	normQuery := match.Normalize(query)

	var best *justwatch.Candidate
	bestScore := -1.0
	for i := range candidates {
		cand := &candidates[i]
		score := match.Similarity(normQuery, match.Normalize(cand.Title))
		if score > bestScore {
			if year != 0 && strconv.Itoa(year) != cand.Year {
				continue
			}
			bestScore = score
			best = cand
		}
	}

	if best == nil {
		o.log.Debug().Str("query", query).Msg("no candidate passed the year gate")
		return nil, nil
	}

	detail, err := o.source.TitleDetails(ctx, best.EntityID)
	if err != nil {
		return nil, fmt.Errorf("fetching details for %s: %w", best.EntityID, err)
	}

	if crossRefID != "" && detail.CrossRefID != crossRefID {
		o.log.Debug().
			Str("query", query).
			Str("want", crossRefID).
			Str("got", detail.CrossRefID).
			Msg("cross-reference mismatch, rejecting match")
		return nil, nil
	}

	return detail, nil
}

// yearFromDate reads the leading four-digit year out of a date string.
// Returns 0 when the prefix is not a year.
func yearFromDate(date string) int {
	if len(date) < 4 {
		return 0
	}
	year, err := strconv.Atoi(date[:4])
	if err != nil {
		return 0
	}
	return year
}
