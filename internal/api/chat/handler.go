package chat

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"docuchat/internal/domain"
	"docuchat/internal/service"
)

// Handler handles chat API requests
type Handler struct {
	chatService *service.ChatService
}

// NewHandler creates a new chat handler
func NewHandler(chatService *service.ChatService) *Handler {
	return &Handler{chatService: chatService}
}

// RegisterRoutes registers chat routes
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/message", h.Message)
	r.POST("/sessions", h.CreateSession)
	r.GET("/sessions", h.ListSessions)
	r.GET("/sessions/:id", h.GetSession)
	r.DELETE("/sessions/:id", h.DeleteSession)
	r.GET("/sessions/:id/summary", h.Summary)
	r.POST("/sessions/:id/suggestions", h.Suggestions)
}

// Message answers a user message with retrieval-augmented generation.
// The engine never fails a turn, so this always answers 200.
func (h *Handler) Message(c *gin.Context) {
	var req domain.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result := h.chatService.Answer(c.Request.Context(), req.Message, req.SessionID)
	c.JSON(http.StatusOK, result)
}

// CreateSession creates a new chat session
func (h *Handler) CreateSession(c *gin.Context) {
	var req domain.SessionCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sess := h.chatService.CreateSession(req.Title)
	c.JSON(http.StatusOK, sess)
}

// GetSession returns a session with its full history
func (h *Handler) GetSession(c *gin.Context) {
	sess, ok := h.chatService.GetSession(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "chat session not found"})
		return
	}
	c.JSON(http.StatusOK, sess)
}

// ListSessions lists all sessions
func (h *Handler) ListSessions(c *gin.Context) {
	summaries := h.chatService.ListSessions()
	c.JSON(http.StatusOK, gin.H{
		"sessions": summaries,
		"total":    len(summaries),
	})
}

// DeleteSession removes a session
func (h *Handler) DeleteSession(c *gin.Context) {
	if !h.chatService.DeleteSession(c.Param("id")) {
		c.JSON(http.StatusNotFound, gin.H{"error": "chat session not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Chat session deleted successfully"})
}

// Summary returns a short abstractive summary of the conversation
func (h *Handler) Summary(c *gin.Context) {
	sessionID := c.Param("id")
	c.JSON(http.StatusOK, gin.H{
		"session_id": sessionID,
		"summary":    h.chatService.Summarize(c.Request.Context(), sessionID),
	})
}

// Suggestions proposes follow-up questions for the current query
func (h *Handler) Suggestions(c *gin.Context) {
	var req domain.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sessionID := c.Param("id")
	suggestions := h.chatService.SuggestFollowUps(c.Request.Context(), req.Message, sessionID)
	if suggestions == nil {
		suggestions = []string{}
	}
	c.JSON(http.StatusOK, gin.H{
		"session_id":  sessionID,
		"suggestions": suggestions,
	})
}
