// Package web serves the dashboard over HTTP.
package web

import (
	"context"
	"fmt"
	"html/template"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/samvad-hq/soccer-hub/internal/dashboard"
	"github.com/samvad-hq/soccer-hub/internal/logger"
	"github.com/samvad-hq/soccer-hub/pkg/competitions"
)

// PageProvider returns dashboard pages.
type PageProvider interface {
	Page(ctx context.Context, comp competitions.Competition, season int) (dashboard.Page, error)
}

type indexView struct {
	Page         dashboard.Page
	Competitions []competitions.Competition
	Seasons      []int
	Now          []string
}

type errorView struct {
	Title   string
	Message string
}

// Server hosts the dashboard routes.
type Server struct {
	app     *fiber.App
	catalog *competitions.Catalog
	pages   PageProvider
	tmpl    *template.Template
	log     logger.Logger
	now     func() time.Time
}

// NewServer builds the fiber app and registers routes.
func NewServer(appName string, catalog *competitions.Catalog, pages PageProvider, log logger.Logger) (*Server, error) {
	if catalog == nil {
		return nil, fmt.Errorf("competitions catalog must not be nil")
	}
	if pages == nil {
		return nil, fmt.Errorf("page provider must not be nil")
	}
	tmpl, err := parseTemplates()
	if err != nil {
		return nil, err
	}

	s := &Server{
		catalog: catalog,
		pages:   pages,
		tmpl:    tmpl,
		log:     logger.Ensure(log),
		now:     time.Now,
	}
	s.app = fiber.New(fiber.Config{
		AppName:               appName,
		DisableStartupMessage: true,
	})
	s.app.Use(recover.New())
	s.app.Use(s.requestLogger)

	s.app.Get("/health", s.health)
	s.app.Get("/", s.home)
	return s, nil
}

// App exposes the underlying fiber app.
func (s *Server) App() *fiber.App { return s.app }

// Serve serves HTTP on an existing listener until Shutdown is called.
func (s *Server) Serve(ln net.Listener) error { return s.app.Listener(ln) }

// Shutdown stops accepting connections and waits for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error { return s.app.ShutdownWithContext(ctx) }

func (s *Server) health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

func (s *Server) home(c *fiber.Ctx) error {
	comp := s.catalog.DefaultCompetition()
	if code := strings.TrimSpace(c.Query("competition_id")); code != "" {
		found, ok := s.catalog.ByCode(code)
		if !ok {
			return s.renderError(c, fiber.StatusBadRequest, "Unknown competition", fmt.Sprintf("Competition %q is not available.", code))
		}
		comp = found
	}

	season := s.catalog.DefaultSeason()
	if raw := strings.TrimSpace(c.Query("season")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || !s.catalog.HasSeason(parsed) {
			return s.renderError(c, fiber.StatusBadRequest, "Unknown season", fmt.Sprintf("Season %q is not available.", raw))
		}
		season = parsed
	}

	page, err := s.pages.Page(c.UserContext(), comp, season)
	if err != nil {
		s.log.ErrorObj("dashboard page failed", "dashboard_error", map[string]any{
			"competition": comp.Code,
			"season":      season,
			"error":       err.Error(),
		})
		return s.renderError(c, fiber.StatusBadGateway, "Data unavailable", "Competition data could not be loaded. Please try again shortly.")
	}

	body, err := render(s.tmpl, "index.html", indexView{
		Page:         page,
		Competitions: s.catalog.Competitions(),
		Seasons:      s.catalog.Seasons(),
		Now:          dashboard.FormatDateTime(s.now()),
	})
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.Send(body)
}

func (s *Server) renderError(c *fiber.Ctx, status int, title, msg string) error {
	body, err := render(s.tmpl, "error.html", errorView{Title: title, Message: msg})
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.Status(status).Send(body)
}

// requestLogger logs one structured line per request.
func (s *Server) requestLogger(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()
	s.log.InfoObj("http request", "http_request", map[string]any{
		"method":     c.Method(),
		"path":       c.Path(),
		"status":     c.Response().StatusCode(),
		"elapsed_ms": time.Since(start).Milliseconds(),
	})
	return err
}
