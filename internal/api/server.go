// Package api exposes the region directory and the fuel price snapshot over HTTP.
package api

import (
	"bbm-backend/internal/assert"
	"bbm-backend/internal/cache"
	"bbm-backend/internal/chrono"
	"bbm-backend/internal/prices"
	"bbm-backend/internal/regions"
	"bbm-backend/internal/telemetry"
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
)

// PriceService is the part of prices.Service the API depends on.
type PriceService interface {
	Snapshot(ctx context.Context) (prices.Snapshot, error)
	Refresh(ctx context.Context) (prices.Snapshot, error)
}

type CacheStats interface {
	Stats() cache.Stats
}

type Options struct {
	// BasePath prefixes every route, ex. "/api". Empty serves routes at the root.
	BasePath string
	// StaticDir, when set, is served for GET requests that don't match a route.
	StaticDir string
}

type Server struct {
	regions regions.Directory
	prices  PriceService
	cache   CacheStats
	time    chrono.TimeAPI
	tel     telemetry.API
	opts    Options
}

func NewServer(
	directory regions.Directory,
	priceService PriceService,
	cacheStats CacheStats,
	time chrono.TimeAPI,
	tel telemetry.API,
	opts Options,
) *Server {
	assert.NotNil(directory, "directory")
	assert.NotNil(priceService, "price service")
	assert.NotNil(cacheStats, "cache stats")
	assert.NotNil(time, "time")
	assert.NotNil(tel, "telemetry")

	return &Server{
		regions: directory,
		prices:  priceService,
		cache:   cacheStats,
		time:    time,
		tel:     telemetry.NewScopedAPI("api", tel),
		opts:    opts,
	}
}

// Handler builds the gin engine with every route and middleware.
func (s *Server) Handler() *gin.Engine {
	router := gin.New()
	router.Use(
		s.requestID,
		s.accessLog,
		gin.CustomRecovery(s.recoverPanic),
		cors,
	)

	root := router.Group(s.opts.BasePath)
	root.GET("/health", s.health)

	regionRoutes := root.Group("/regions")
	{
		regionRoutes.GET("/provinces", s.listProvinces)
		regionRoutes.GET("/regencies/:provinceId", s.listRegencies)
		regionRoutes.GET("/districts/:regencyId", s.listDistricts)
	}

	priceRoutes := root.Group("/prices")
	{
		priceRoutes.GET("", s.getPrices)
		priceRoutes.GET("/:provider", s.getProvider)
	}
	root.POST("/refresh", s.refresh)

	router.NoRoute(s.noRoute)

	return router
}

// Serve listens on addr until ctx is canceled, then shuts down gracefully. HTTP/2
// is accepted without TLS.
func (s *Server) Serve(ctx context.Context, addr string) error {
	server := &http.Server{
		Addr:              addr,
		Handler:           h2c.NewHandler(s.Handler(), &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	}

	errs := make(chan error, 1)
	go func() {
		errs <- server.ListenAndServe()
	}()

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 15*time.Second)
	defer cancel()
	err := server.Shutdown(shutdownCtx)
	if err != nil {
		return err
	}
	err = <-errs
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
