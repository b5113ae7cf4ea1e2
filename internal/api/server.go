// Package api exposes the back-office HTTP surface: CRUD for content, the
// merged agenda, the signage payload, and the calendar feed.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/copperkettle/backhouse/internal/ai"
	"github.com/copperkettle/backhouse/internal/ics"
)

type Options struct {
	Addr           string
	Loc            *time.Location
	DisableReqLogs bool

	Events        EventStore
	Specials      SpecialStore
	Announcements AnnouncementStore
	Menu          MenuStore
	Displays      DisplayStore
	Campaigns     CampaignStore

	Feed     *ics.Feed
	AI       *ai.Client // nil disables /v1/ai
	Notifier Notifier   // nil is fine
}

type Server struct {
	opts *Options
	app  *echo.Echo
}

func NewServer(opts *Options) *Server {
	s := &Server{
		opts: opts,
		app:  echo.New(),
	}
	s.setup()
	return s
}

func (s *Server) setup() {
	s.app.HideBanner = true
	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.opts.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	s.app.Use(middleware.Recover())
	s.app.Validator = &requestValidator{validate: validator.New()}

	s.app.GET("/health", func(ctx echo.Context) error {
		return ctx.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	v1 := s.app.Group("/v1")
	registerEventAPI(v1, s.opts.Events, s.opts.Loc, s.opts.Feed)
	registerSpecialAPI(v1, s.opts.Specials, s.opts.Loc)
	registerAnnouncementAPI(v1, s.opts.Announcements, s.opts.Loc, s.opts.Notifier)
	registerMenuAPI(v1, s.opts.Menu)
	registerDisplayAPI(v1, s.opts.Displays)
	registerCampaignAPI(v1, s.opts.Campaigns, s.opts.Loc)
	registerAgendaAPI(v1, s.opts.Events, s.opts.Specials, s.opts.Announcements, s.opts.Loc)
	registerSignageAPI(v1, s.opts.Displays, s.opts.Specials, s.opts.Events, s.opts.Announcements, s.opts.Campaigns, s.opts.Loc)
	registerAIAPI(v1, s.opts.AI)
}

func (s *Server) Start() error {
	return s.app.Start(s.opts.Addr)
}

func (s *Server) Stop(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

type requestValidator struct {
	validate *validator.Validate
}

func (v *requestValidator) Validate(i any) error {
	if err := v.validate.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}
	return nil
}
