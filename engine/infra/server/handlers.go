package server

import (
	"net/http"
	"time"

	"github.com/brainus-ai/brainus-go/engine/brainus"
	"github.com/brainus-ai/brainus-go/pkg/logger"
	"github.com/brainus-ai/brainus-go/pkg/version"
	"github.com/gin-gonic/gin"
)

// QueryRequest is the body of POST /api/v0/query.
type QueryRequest struct {
	Query   string         `json:"query"`
	StoreID string         `json:"store_id"`
	Filters map[string]any `json:"filters,omitempty"`
}

// QueryResponse is the payload returned for a successful query.
type QueryResponse struct {
	Answer       string             `json:"answer"`
	Citations    []brainus.Citation `json:"citations"`
	HasCitations bool               `json:"has_citations"`
	Cached       bool               `json:"cached"`
}

func (s *Server) handleRoot(c *gin.Context) {
	respondOK(c, "service info", gin.H{
		"service": "BrainUs Proxy API",
		"version": version.Get(),
		"status":  "online",
	})
}

func (s *Server) handleHealth(c *gin.Context) {
	respondOK(c, "healthy", gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleQuery(c *gin.Context) {
	var req QueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, &Error{
			Code:    ErrBadRequestCode,
			Message: "invalid request body",
			Err:     err,
		})
		return
	}

	q := brainus.Query{Text: req.Query, StoreID: req.StoreID}
	if err := q.Validate(); err != nil {
		mapQueryError(c, err)
		return
	}

	ctx := c.Request.Context()
	log := logger.FromContext(ctx)

	if s.cache != nil {
		if entry, ok := s.cache.Get(q.Store(), q.Text); ok {
			log.Debug("answer served from cache", "store", q.Store())
			respondOK(c, "query answered", QueryResponse{
				Answer:       entry.Answer,
				Citations:    entry.Citations,
				HasCitations: entry.HasCitations,
				Cached:       true,
			})
			return
		}
	}

	result, err := s.dispatcher.QueryWithRetry(ctx, q, s.policy)
	if err != nil {
		log.Warn("query failed", "store", q.Store(), "error", err)
		mapQueryError(c, err)
		return
	}

	if s.cache != nil {
		s.cache.Set(q.Store(), q.Text, result)
	}
	respondOK(c, "query answered", QueryResponse{
		Answer:       result.Answer,
		Citations:    result.Citations,
		HasCitations: result.HasCitations,
	})
}
