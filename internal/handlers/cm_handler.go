package handlers

import (
	"net/http"

	"prediction-game/internal/auth"
	"prediction-game/internal/models"
	"prediction-game/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CMHandler serves the chief-minister pick endpoints.
type CMHandler struct {
	cmService    *services.CMService
	defaultState string
}

func NewCMHandler(cmService *services.CMService, defaultState string) *CMHandler {
	return &CMHandler{cmService: cmService, defaultState: defaultState}
}

// GetCandidates lists CM candidates for a state
// GET /api/cm/candidates
func (h *CMHandler) GetCandidates(c *gin.Context) {
	state := c.DefaultQuery("state", h.defaultState)

	candidates, err := h.cmService.Candidates(c.Request.Context(), state)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"candidates": candidates})
}

// SetPick records or replaces the caller's CM pick
// POST /api/cm/pick
func (h *CMHandler) SetPick(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req models.SetCMPickRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.State == "" {
		req.State = h.defaultState
	}

	candidateID, err := uuid.Parse(req.CandidateID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid candidate id"})
		return
	}

	pick, err := h.cmService.SetPick(c.Request.Context(), userID, req.State, candidateID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"pick": pick})
}

// LockPick freezes the caller's CM pick
// PATCH /api/cm/pick/lock
func (h *CMHandler) LockPick(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	state := c.DefaultQuery("state", h.defaultState)

	pick, err := h.cmService.LockPick(c.Request.Context(), userID, state)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"pick": pick})
}

// GetPick returns the caller's CM pick
// GET /api/cm/pick
func (h *CMHandler) GetPick(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	state := c.DefaultQuery("state", h.defaultState)

	pick, err := h.cmService.GetPick(c.Request.Context(), userID, state)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"pick": pick})
}
