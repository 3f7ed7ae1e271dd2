// Package server wires the echo instance, middleware and API routes.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/hrygo/designgenie/internal/profile"
	"github.com/hrygo/designgenie/plugin/ai"
	apiv1 "github.com/hrygo/designgenie/server/router/api/v1"
	"github.com/hrygo/designgenie/store"
)

// Server hosts the session HTTP surface.
type Server struct {
	Profile *profile.Profile
	Store   *store.Store

	echoServer *echo.Echo
}

// New builds the server with its middleware stack and routes.
func New(profile *profile.Profile, st *store.Store, provider *ai.Provider) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(requestLogging())

	apiService := apiv1.NewAPIV1Service(profile, st, provider)
	apiService.Register(e)

	return &Server{
		Profile:    profile,
		Store:      st,
		echoServer: e,
	}
}

// Start runs the server until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) Start(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := s.echoServer.Start(s.Profile.ListenAddr()); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.echoServer.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
