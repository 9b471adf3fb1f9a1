package httpapi

import (
	"errors"
	"net/http"
	"time"

	json "github.com/goccy/go-json"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/watt-toolkit/memkv/pkg/memkv"
)

// Handlers binds the three cache operations to the engine they front.
type Handlers struct {
	engine *memkv.Engine
}

// NewHandlers wires handlers against engine.
func NewHandlers(engine *memkv.Engine) *Handlers {
	return &Handlers{engine: engine}
}

type keyRequest struct {
	Key string `json:"key"`
}

type valueResponse struct {
	Data string `json:"data"`
}

type setRequest struct {
	Key  string `json:"key"`
	Data string `json:"data"`
	TTL  string `json:"ttl,omitempty"`
}

// writeJSON encodes body into a pooled buffer and writes it with status,
// mirroring the pooled-encode-then-write shape of bolt's Context.JSON.
func writeJSON(c *gin.Context, status int, body interface{}) {
	buf := acquireBuf()
	defer releaseBuf(buf)

	enc := json.NewEncoder(buf)
	if err := enc.Encode(body); err != nil {
		log.Error().Err(err).Msg("failed to encode response body")
		c.Status(http.StatusInternalServerError)
		return
	}

	c.Data(status, "application/json; charset=utf-8", buf.Bytes())
}

// Get handles POST /get: {"key"} -> 200 {"data"} | 404.
func (h *Handlers) Get(c *gin.Context) {
	var req keyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	value, err := h.engine.Get(req.Key)
	if errors.Is(err, memkv.ErrNotFound) {
		c.Status(http.StatusNotFound)
		return
	}

	writeJSON(c, http.StatusOK, valueResponse{Data: string(value)})
}

// Set handles POST /set: {"key","data","ttl"?} -> 200 | 304.
func (h *Handlers) Set(c *gin.Context) {
	var req setRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	var ttl time.Duration
	if req.TTL != "" {
		d, err := time.ParseDuration(req.TTL)
		if err != nil {
			c.Status(http.StatusBadRequest)
			return
		}
		ttl = d
	}

	err := h.engine.Set(req.Key, []byte(req.Data), ttl)
	if errors.Is(err, memkv.ErrAdmissionRefused) {
		c.Status(http.StatusNotModified)
		return
	}

	c.Status(http.StatusOK)
}

// Delete handles POST /delete: {"key"} -> 200 {"data"} | 404.
func (h *Handlers) Delete(c *gin.Context) {
	var req keyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	value, err := h.engine.Delete(req.Key)
	if errors.Is(err, memkv.ErrNotFound) {
		c.Status(http.StatusNotFound)
		return
	}

	writeJSON(c, http.StatusOK, valueResponse{Data: string(value)})
}

// Healthz handles GET /healthz, following the unconditional-200 shape of
// smcdaniel54-LlamaGate/internal/api/health.go's healthy branch, simplified
// because memkv has no downstream dependency to probe.
func Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
