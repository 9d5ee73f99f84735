package generate

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/promptpage-dev/promptpage-backend/internal/auth"
)

// Handler bundles the dependencies for generation HTTP endpoints.
type Handler struct {
	client  *Client
	history *HistoryRepository
	limiter *rate.Limiter
}

// NewHandler creates the generation handler. history may be nil when no
// redis is configured; results are then simply not recorded.
func NewHandler(client *Client, history *HistoryRepository) *Handler {
	return &Handler{
		client:  client,
		history: history,
		// Upstream calls are slow and billed; one per second with a small
		// burst absorbs a double-clicked generate button.
		limiter: rate.NewLimiter(rate.Limit(1), 3),
	}
}

// Register attaches generation routes to the given router group.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.POST("/generate", h.generate)
	rg.GET("/generate/history", h.listHistory)
	rg.DELETE("/generate/history", h.clearHistory)
}

type generateReq struct {
	Prompt    string `json:"prompt"`
	ProjectID string `json:"project_id"`
}

func (h *Handler) generate(c *gin.Context) {
	userID := auth.UserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req generateReq
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Prompt) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "prompt is required"})
		return
	}

	if !h.limiter.Allow() {
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many generation requests"})
		return
	}

	result, err := h.client.Generate(c.Request.Context(), req.Prompt)
	if err != nil {
		log.Printf("[error] operation=generate user_id=%s error=%v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "generation failed"})
		return
	}

	if h.history != nil {
		rec := &Record{
			ProjectID: req.ProjectID,
			Prompt:    req.Prompt,
			Content:   result.Content,
			Model:     result.Model,
			Usage:     result.Usage,
		}
		if err := h.history.Append(c.Request.Context(), userID, rec); err != nil {
			// History is best effort; the generation itself succeeded.
			log.Printf("[warn] operation=generate user_id=%s history append failed: %v", userID, err)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"content": result.Content,
		"model":   result.Model,
		"usage":   result.Usage,
	})
}

func (h *Handler) listHistory(c *gin.Context) {
	userID := auth.UserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	if h.history == nil {
		c.JSON(http.StatusOK, gin.H{"ok": true, "records": []Record{}})
		return
	}

	records, err := h.history.List(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "records": records})
}

func (h *Handler) clearHistory(c *gin.Context) {
	userID := auth.UserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	if h.history == nil {
		c.JSON(http.StatusOK, gin.H{"ok": true})
		return
	}

	if err := h.history.Clear(c.Request.Context(), userID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
