package handlers

import (
	"net/http"
	"strconv"

	"prediction-game/internal/auth"
	"prediction-game/internal/models"
	"prediction-game/internal/repository"
	"prediction-game/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type PredictionHandler struct {
	predictionService   *services.PredictionService
	defaultState        string
	defaultElectionYear int
}

func NewPredictionHandler(predictionService *services.PredictionService, defaultState string, defaultElectionYear int) *PredictionHandler {
	return &PredictionHandler{
		predictionService:   predictionService,
		defaultState:        defaultState,
		defaultElectionYear: defaultElectionYear,
	}
}

// setID parses the prediction set id path param.
func setID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("predictionId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid prediction id"})
		return uuid.Nil, false
	}
	return id, true
}

// CreatePrediction starts a new prediction set for the current user
// POST /api/predictions
func (h *PredictionHandler) CreatePrediction(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req models.CreatePredictionSetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.State == "" {
		req.State = h.defaultState
	}

	set, err := h.predictionService.Create(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"prediction": set})
}

// GetMyPrediction returns the current user's set for an election
// GET /api/predictions/my-prediction
func (h *PredictionHandler) GetMyPrediction(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	year := parseYear(c, h.defaultElectionYear)
	state := c.DefaultQuery("state", h.defaultState)

	set, err := h.predictionService.GetMine(c.Request.Context(), userID, year, state)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"prediction": set})
}

// GetPredictionByID returns one set, honoring the visibility rule
// GET /api/predictions/:predictionId
func (h *PredictionHandler) GetPredictionByID(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	id, ok := setID(c)
	if !ok {
		return
	}

	set, err := h.predictionService.GetByID(c.Request.Context(), userID, id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"prediction": set})
}

// AddConstituencyPrediction creates or updates one record
// POST /api/predictions/:predictionId/constituency
func (h *PredictionHandler) AddConstituencyPrediction(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	id, ok := setID(c)
	if !ok {
		return
	}

	var req models.AddPredictionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	set, action, coins, err := h.predictionService.AddOrUpdate(c.Request.Context(), userID, id, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"prediction":  set,
		"coinsEarned": coins,
		"action":      action,
	})
}

// LockConstituencyPrediction freezes one record
// PATCH /api/predictions/:predictionId/constituency/:constituency/lock
func (h *PredictionHandler) LockConstituencyPrediction(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	id, ok := setID(c)
	if !ok {
		return
	}

	set, coins, err := h.predictionService.Lock(c.Request.Context(), userID, id, c.Param("constituency"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"prediction":  set,
		"coinsEarned": coins,
	})
}

// GetConstituencyPrediction returns one record of the caller's set
// GET /api/predictions/:predictionId/constituency/:constituency
func (h *PredictionHandler) GetConstituencyPrediction(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	id, ok := setID(c)
	if !ok {
		return
	}

	record, err := h.predictionService.GetRecord(c.Request.Context(), userID, id, c.Param("constituency"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"prediction": record})
}

// BulkAddPredictions applies a batch of record upserts
// POST /api/predictions/:predictionId/bulk
func (h *PredictionHandler) BulkAddPredictions(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	id, ok := setID(c)
	if !ok {
		return
	}

	var req models.BulkAddRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	set, summary, itemErrors, err := h.predictionService.BulkAdd(c.Request.Context(), userID, id, req.Predictions)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := gin.H{
		"prediction": set,
		"summary":    summary,
	}
	if len(itemErrors) > 0 {
		resp["errors"] = itemErrors
	}
	c.JSON(http.StatusOK, resp)
}

// DeleteConstituencyPrediction removes one unlocked record
// DELETE /api/predictions/:predictionId/constituency/:constituency
func (h *PredictionHandler) DeleteConstituencyPrediction(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	id, ok := setID(c)
	if !ok {
		return
	}

	set, deducted, err := h.predictionService.DeleteRecord(c.Request.Context(), userID, id, c.Param("constituency"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"prediction":    set,
		"coinsDeducted": deducted,
	})
}

// ResetUnlockedPredictions discards all unlocked records
// PATCH /api/predictions/:predictionId/reset-unlocked
func (h *PredictionHandler) ResetUnlockedPredictions(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	id, ok := setID(c)
	if !ok {
		return
	}

	set, resetCount, lockedCount, err := h.predictionService.ResetUnlocked(c.Request.Context(), userID, id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"prediction":  set,
		"resetCount":  resetCount,
		"lockedCount": lockedCount,
	})
}

// SubmitPrediction finalizes the set
// PATCH /api/predictions/:predictionId/submit
func (h *PredictionHandler) SubmitPrediction(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	id, ok := setID(c)
	if !ok {
		return
	}

	var req models.SubmitPredictionRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	set, err := h.predictionService.Submit(c.Request.Context(), userID, id, req.OverallWinner)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"prediction": set})
}

// UpdatePrediction applies a partial metadata update
// PATCH /api/predictions/:predictionId
func (h *PredictionHandler) UpdatePrediction(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	id, ok := setID(c)
	if !ok {
		return
	}

	var upd models.MetadataUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	set, err := h.predictionService.UpdateMetadata(c.Request.Context(), userID, id, upd)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"prediction": set})
}

// DeletePrediction removes a whole set (refused while records are locked)
// DELETE /api/predictions/:predictionId
func (h *PredictionHandler) DeletePrediction(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	id, ok := setID(c)
	if !ok {
		return
	}

	if err := h.predictionService.DeleteSet(c.Request.Context(), userID, id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "prediction deleted successfully"})
}

// GetPredictionsByArea returns the caller's records for one area
// GET /api/predictions/area/:area
func (h *PredictionHandler) GetPredictionsByArea(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	area := c.Param("area")
	year := parseYear(c, h.defaultElectionYear)

	records, err := h.predictionService.RecordsInArea(c.Request.Context(), userID, year, h.defaultState, area)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"area":        area,
		"predictions": records,
		"count":       len(records),
	})
}

// GetAllPredictions returns one filtered page of sets
// GET /api/predictions/all
func (h *PredictionHandler) GetAllPredictions(c *gin.Context) {
	page, limit := parsePagination(c)

	filters := repository.ListFilters{
		State: c.DefaultQuery("state", h.defaultState),
	}
	if yearStr := c.Query("electionYear"); yearStr != "" {
		if y, err := strconv.Atoi(yearStr); err == nil {
			filters.ElectionYear = &y
		}
	}
	if status := c.Query("status"); status != "" {
		filters.Status = models.PredictionStatus(status)
	}
	if isPublicStr := c.Query("isPublic"); isPublicStr != "" {
		isPublic := isPublicStr == "true"
		filters.IsPublic = &isPublic
	}
	if userIDStr := c.Query("userId"); userIDStr != "" {
		if id, err := strconv.ParseUint(userIDStr, 10, 64); err == nil {
			uid := uint(id)
			filters.UserID = &uid
		}
	}

	sortBy := c.DefaultQuery("sortBy", "created_at")
	sortOrder := c.DefaultQuery("sortOrder", "desc")

	sets, total, err := h.predictionService.List(c.Request.Context(), filters, sortBy, sortOrder, page, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"predictions": sets,
		"totalDocs":   total,
		"totalPages":  totalPages(total, limit),
		"currentPage": page,
		"hasNextPage": int64(page) < totalPages(total, limit),
		"hasPrevPage": page > 1,
	})
}

// GetPublicPredictions returns public submitted sets, optionally narrowed
// to one area or constituency
// GET /api/predictions/public
func (h *PredictionHandler) GetPublicPredictions(c *gin.Context) {
	page, limit := parsePagination(c)
	year := parseYear(c, h.defaultElectionYear)

	sets, total, err := h.predictionService.PublicList(
		c.Request.Context(),
		year,
		h.defaultState,
		c.Query("area"),
		c.Query("constituency"),
		page,
		limit,
	)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"predictions": sets,
		"totalCount":  total,
		"currentPage": page,
		"totalPages":  totalPages(total, limit),
	})
}
