// Package ginsink exposes the development bulk store over HTTP.
package ginsink

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/vshulcz/elasticreport/internal/adapters/elastic/bulk"
	"github.com/vshulcz/elasticreport/internal/domain"
	"github.com/vshulcz/elasticreport/internal/services/audit"
	"github.com/vshulcz/elasticreport/internal/services/sink"
)

const tagline = "You Know, for Search"

// Handler serves the subset of the store API the reporter talks to.
type Handler struct {
	svc  *sink.Service
	log  *zap.Logger
	name string
}

// NewHandler wires a sink service into gin handlers. name is announced on GET /.
func NewHandler(svc *sink.Service, name string, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{svc: svc, name: name, log: logger}
}

type infoResponse struct {
	Name        string      `json:"name"`
	ClusterName string      `json:"cluster_name"`
	Tagline     string      `json:"tagline"`
	Version     infoVersion `json:"version"`
}

type infoVersion struct {
	Number      string `json:"number"`
	BuildFlavor string `json:"build_flavor"`
}

type errorBody struct {
	Error  errorCause `json:"error"`
	Status int        `json:"status"`
}

type errorCause struct {
	Type   string `json:"type"`
	Reason string `json:"reason"`
}

type bulkResponse struct {
	Items  []bulkItem `json:"items"`
	Took   int64      `json:"took"`
	Errors bool       `json:"errors"`
}

type bulkItem struct {
	Index bulkItemResult `json:"index"`
}

type bulkItemResult struct {
	Error  *errorCause `json:"error,omitempty"`
	Index  string      `json:"_index"`
	Type   string      `json:"_type,omitempty"`
	Result string      `json:"result,omitempty"`
	Status int         `json:"status"`
}

// Info handles `GET /` with the cluster info document probed by reporters.
func (h *Handler) Info(c *gin.Context) {
	c.JSON(http.StatusOK, infoResponse{
		Name:        h.name,
		ClusterName: "elasticreport-sink",
		Tagline:     tagline,
		Version:     infoVersion{Number: h.svc.Version().Number, BuildFlavor: "default"},
	})
}

// Bulk handles `POST|PUT /_bulk` and `/:index/_bulk` NDJSON bodies.
func (h *Handler) Bulk(c *gin.Context) {
	defIndex := c.Param("index")
	if defIndex != "" && !domain.ValidIndexName(defIndex) {
		abortWith(c, http.StatusBadRequest, "invalid_index_name_exception", domain.ErrInvalidIndex.Error())
		return
	}

	docs, err := bulk.Parse(c.Request.Body, defIndex)
	if err != nil {
		abortWith(c, http.StatusBadRequest, "parse_exception", err.Error())
		return
	}
	if len(docs) == 0 {
		abortWith(c, http.StatusBadRequest, "action_request_validation_exception", "no requests added")
		return
	}

	ctx := audit.WithClientIP(c.Request.Context(), c.ClientIP())
	res, err := h.svc.Ingest(ctx, docs)
	if err != nil {
		h.log.Error("bulk ingest failed", zap.Int("docs", len(docs)), zap.Error(err))
		abortWith(c, http.StatusInternalServerError, "store_exception", err.Error())
		return
	}

	out := bulkResponse{Took: res.Took.Milliseconds(), Errors: res.Errors, Items: make([]bulkItem, len(res.Items))}
	for i, it := range res.Items {
		r := bulkItemResult{Index: it.Index, Type: it.Type, Status: it.Status}
		if it.Error != "" {
			r.Error = &errorCause{Type: "illegal_argument_exception", Reason: it.Error}
		} else {
			r.Result = "created"
		}
		out.Items[i] = bulkItem{Index: r}
	}
	c.JSON(http.StatusOK, out)
}

// Count handles `GET /:index/_count`.
func (h *Handler) Count(c *gin.Context) {
	n, err := h.svc.Count(c.Request.Context(), c.Param("index"))
	switch {
	case errors.Is(err, domain.ErrInvalidIndex):
		abortWith(c, http.StatusBadRequest, "invalid_index_name_exception", err.Error())
		return
	case err != nil:
		abortWith(c, http.StatusInternalServerError, "store_exception", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": n})
}

// Ping handles `GET /ping` by checking the document store.
func (h *Handler) Ping(c *gin.Context) {
	if err := h.svc.Ping(c.Request.Context()); err != nil {
		c.String(http.StatusInternalServerError, "store ping error: %v", err)
		return
	}
	c.String(http.StatusOK, "ok")
}

func abortWith(c *gin.Context, status int, kind, reason string) {
	c.AbortWithStatusJSON(status, errorBody{Error: errorCause{Type: kind, Reason: reason}, Status: status})
}
