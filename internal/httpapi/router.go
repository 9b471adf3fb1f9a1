package httpapi

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/klauspost/compress/gzhttp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/watt-toolkit/memkv/pkg/memkv"
)

// Options configures the router beyond the engine it fronts.
type Options struct {
	Debug           bool
	MetricsDisabled bool
	// MaxWorkers caps the number of requests handled concurrently. nil
	// means unbounded (the transport's default).
	MaxWorkers *int
}

// NewRouter builds the Gin engine exposing /get, /set, /delete, /healthz,
// and optionally /metrics, following the middleware-then-routes shape of
// smcdaniel54-LlamaGate/cmd/llamagate/main.go.
func NewRouter(engine *memkv.Engine, opts Options) *gin.Engine {
	if opts.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger())
	if opts.MaxWorkers != nil {
		router.Use(workerLimiter(*opts.MaxWorkers))
	}

	router.GET("/healthz", Healthz)

	if !opts.MetricsDisabled {
		registry := prometheus.NewRegistry()
		registry.MustRegister(newEngineCollector(engine))
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))
	}

	h := NewHandlers(engine)
	router.POST("/get", h.Get)
	router.POST("/set", h.Set)
	router.POST("/delete", h.Delete)

	return router
}

// requestLogger mirrors the inline zerolog access-log middleware in
// smcdaniel54-LlamaGate/cmd/llamagate/main.go.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		log.Info().
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Str("ip", c.ClientIP()).
			Msg("http request")
	}
}

// workerLimiter caps the number of requests in flight at once, standing in
// for the fixed-size worker pool the config's optional "workers" count
// requests: once n requests are being handled, the (n+1)th blocks on the
// semaphore channel until one finishes.
func workerLimiter(n int) gin.HandlerFunc {
	sem := make(chan struct{}, n)
	return func(c *gin.Context) {
		sem <- struct{}{}
		defer func() { <-sem }()
		c.Next()
	}
}

// Wrap applies gzip compression around the router, following
// klauspost/compress/gzhttp's standard-library-compatible wrapping so
// response bodies of at least 256 bytes are compressed on the wire for
// clients that accept gzip, without gin needing its own compression
// middleware. Smaller bodies are sent uncompressed.
func Wrap(handler http.Handler) (http.Handler, error) {
	wrapped, err := gzhttp.NewWrapper(gzhttp.MinSize(256))(handler)
	if err != nil {
		return nil, fmt.Errorf("wrap handler with gzip: %w", err)
	}
	return wrapped, nil
}
