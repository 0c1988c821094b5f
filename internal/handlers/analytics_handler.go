package handlers

import (
	"net/http"
	"strconv"

	"prediction-game/internal/auth"
	"prediction-game/internal/services"

	"github.com/gin-gonic/gin"
)

// AnalyticsHandler serves the public leaderboard, area analytics and
// stats endpoints plus the per-user progress endpoint.
type AnalyticsHandler struct {
	leaderboardService  *services.LeaderboardService
	defaultElectionYear int
}

func NewAnalyticsHandler(leaderboardService *services.LeaderboardService, defaultElectionYear int) *AnalyticsHandler {
	return &AnalyticsHandler{
		leaderboardService:  leaderboardService,
		defaultElectionYear: defaultElectionYear,
	}
}

// GetLeaderboard returns one ranked page
// GET /api/predictions/leaderboard
func (h *AnalyticsHandler) GetLeaderboard(c *gin.Context) {
	page, limit := parsePagination(c)
	year := parseYear(c, h.defaultElectionYear)

	entries, total, err := h.leaderboardService.Leaderboard(c.Request.Context(), year, page, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"leaderboard": entries,
		"totalCount":  total,
		"currentPage": page,
		"totalPages":  totalPages(total, limit),
	})
}

// GetAreaAnalytics returns the party breakdowns for one area
// GET /api/predictions/area/:area/analytics
func (h *AnalyticsHandler) GetAreaAnalytics(c *gin.Context) {
	area := c.Param("area")
	year := h.defaultElectionYear
	if yearStr := c.Param("electionYear"); yearStr != "" {
		if y, err := strconv.Atoi(yearStr); err == nil {
			year = y
		}
	} else {
		year = parseYear(c, h.defaultElectionYear)
	}

	analytics, err := h.leaderboardService.AreaAnalytics(c.Request.Context(), area, year)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, analytics)
}

// GetStats returns election-wide totals and party distribution
// GET /api/predictions/stats
func (h *AnalyticsHandler) GetStats(c *gin.Context) {
	year := parseYear(c, h.defaultElectionYear)

	stats, err := h.leaderboardService.Stats(c.Request.Context(), year)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// GetProgress returns the caller's completion snapshot, or the
// "not started" sentinel when no set exists
// GET /api/predictions/progress
func (h *AnalyticsHandler) GetProgress(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	year := parseYear(c, h.defaultElectionYear)

	progress, err := h.leaderboardService.Progress(c.Request.Context(), userID, year)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, progress)
}
