// Package dashboard assembles the standings and fixtures shown for one
// competition season, caching the result in the snapshot store.
package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/samvad-hq/soccer-hub/internal/domain"
	"github.com/samvad-hq/soccer-hub/internal/footballdata"
	"github.com/samvad-hq/soccer-hub/internal/logger"
	"github.com/samvad-hq/soccer-hub/internal/storage"
	"github.com/samvad-hq/soccer-hub/pkg/competitions"
)

// Source provides raw competition data.
type Source interface {
	Standings(ctx context.Context, code string, season int) (domain.Standings, error)
	Matches(ctx context.Context, code string, season int, status string) ([]domain.Match, error)
}

// Page is the data behind one dashboard view.
type Page struct {
	Competition competitions.Competition `json:"competition"`
	Season      int                      `json:"season"`
	Standings   domain.Standings         `json:"standings"`
	Table       []domain.TableRow        `json:"table"`
	Scheduled   []domain.Match           `json:"scheduled"`
	Finished    []domain.Match           `json:"finished"`
	BuiltAt     time.Time                `json:"built_at"`
}

// Service builds dashboard pages.
type Service struct {
	src   Source
	store storage.Store
	logos *footballdata.Logos
	log   logger.Logger
	now   func() time.Time
	sfg   singleflight.Group
}

// NewService wires a dashboard service. A nil store disables caching and nil
// logos fall back to the bundled catalog.
func NewService(src Source, store storage.Store, logos *footballdata.Logos, log logger.Logger) *Service {
	if store == nil {
		store, _ = storage.NewStore("none", "", storage.Options{})
	}
	if logos == nil {
		logos = footballdata.DefaultLogos()
	}
	return &Service{
		src:   src,
		store: store,
		logos: logos,
		log:   logger.Ensure(log),
		now:   time.Now,
	}
}

// Page returns the cached page for comp/season, building it on a miss.
// Concurrent misses for the same key share one build. Cache failures are
// logged and bypassed.
func (s *Service) Page(ctx context.Context, comp competitions.Competition, season int) (Page, error) {
	key := cacheKey(comp.Code, season)
	if page, ok := s.cached(key); ok {
		return page, nil
	}

	v, err, _ := s.sfg.Do(key, func() (any, error) {
		if page, ok := s.cached(key); ok {
			return page, nil
		}
		return s.Refresh(ctx, comp, season)
	})
	if err != nil {
		return Page{}, err
	}
	return v.(Page), nil
}

func (s *Service) cached(key string) (Page, bool) {
	raw, ok, err := s.store.Get(key)
	if err != nil {
		s.log.WarnObj("dashboard cache read failed", "cache_error", map[string]any{
			"key":   key,
			"error": err.Error(),
		})
		return Page{}, false
	}
	if !ok {
		return Page{}, false
	}
	var page Page
	if err := json.Unmarshal(raw, &page); err != nil {
		s.log.WarnObj("dashboard cache entry unreadable", "cache_error", map[string]any{
			"key":   key,
			"error": err.Error(),
		})
		return Page{}, false
	}
	return page, true
}

// Refresh rebuilds the page from the source and rewrites the cache.
func (s *Service) Refresh(ctx context.Context, comp competitions.Competition, season int) (Page, error) {
	page, err := s.build(ctx, comp, season)
	if err != nil {
		return Page{}, err
	}

	key := cacheKey(comp.Code, season)
	if raw, err := json.Marshal(page); err != nil {
		s.log.WarnObj("dashboard page encode failed", "cache_error", map[string]any{"key": key, "error": err.Error()})
	} else if err := s.store.Put(key, raw); err != nil {
		s.log.WarnObj("dashboard cache write failed", "cache_error", map[string]any{"key": key, "error": err.Error()})
	}
	return page, nil
}

func (s *Service) build(ctx context.Context, comp competitions.Competition, season int) (Page, error) {
	if s.src == nil {
		return Page{}, fmt.Errorf("dashboard source is not configured")
	}

	var (
		standings domain.Standings
		scheduled []domain.Match
		finished  []domain.Match
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		standings, err = s.src.Standings(gctx, comp.Code, season)
		return err
	})
	g.Go(func() (err error) {
		scheduled, err = s.src.Matches(gctx, comp.Code, season, footballdata.StatusScheduled)
		return err
	})
	g.Go(func() (err error) {
		finished, err = s.src.Matches(gctx, comp.Code, season, footballdata.StatusFinished)
		return err
	})
	if err := g.Wait(); err != nil {
		return Page{}, fmt.Errorf("build dashboard %s/%d: %w", comp.Code, season, err)
	}

	start := s.now()
	page := Page{
		Competition: comp,
		Season:      season,
		Standings:   standings,
		Table:       s.decorateTable(standings.Total()),
		Scheduled:   s.decorateMatches(scheduled),
		Finished:    s.decorateMatches(finished),
		BuiltAt:     start.UTC(),
	}
	s.log.DebugObj("dashboard built", "dashboard_meta", map[string]any{
		"competition": comp.Code,
		"season":      season,
		"table_rows":  len(page.Table),
		"scheduled":   len(page.Scheduled),
		"finished":    len(page.Finished),
	})
	return page, nil
}

func (s *Service) decorateTable(rows []domain.TableRow) []domain.TableRow {
	out := make([]domain.TableRow, len(rows))
	for i, r := range rows {
		r.Team = s.logos.Decorate(r.Team)
		out[i] = r
	}
	return out
}

func (s *Service) decorateMatches(matches []domain.Match) []domain.Match {
	out := make([]domain.Match, len(matches))
	for i, m := range matches {
		m.HomeTeam = s.logos.Decorate(m.HomeTeam)
		m.AwayTeam = s.logos.Decorate(m.AwayTeam)
		if t, err := time.Parse(time.RFC3339, m.UTCDate); err == nil {
			m.DateTimeFormat = FormatDateTime(t)
		}
		out[i] = m
	}
	return out
}

// FormatDateTime renders t in UTC as a day-month label and a dotted clock, e.g. ["16 Aug", "19.00"].
func FormatDateTime(t time.Time) []string {
	t = t.UTC()
	return []string{t.Format("02 Jan"), t.Format("15.04")}
}

func cacheKey(code string, season int) string {
	return fmt.Sprintf("dashboard:%s:%d", code, season)
}
