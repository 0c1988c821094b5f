package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"prediction-game/internal/models"

	"github.com/gin-gonic/gin"
)

// errorStatus maps business error kinds to HTTP statuses. Unrecognized
// errors are treated as internal failures.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, models.ErrValidation),
		errors.Is(err, models.ErrPredictionLocked),
		errors.Is(err, models.ErrAlreadyLocked),
		errors.Is(err, models.ErrAlreadySubmitted),
		errors.Is(err, models.ErrInsufficientPredictions),
		errors.Is(err, models.ErrNothingToReset):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, models.ErrPrivatePrediction):
		return http.StatusForbidden
	case errors.Is(err, models.ErrPredictionSetNotFound),
		errors.Is(err, models.ErrPredictionNotFound),
		errors.Is(err, models.ErrCandidateNotFound),
		errors.Is(err, models.ErrCMPickNotFound),
		errors.Is(err, models.ErrQuestionNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrPredictionSetExists),
		errors.Is(err, models.ErrUserExists):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes an error response, hiding internal error details.
func respondError(c *gin.Context, err error) {
	status := errorStatus(err)
	if status == http.StatusInternalServerError {
		log.Printf("internal error on %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		c.JSON(status, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// parsePagination reads page/limit query params, capping limit at 100.
func parsePagination(c *gin.Context) (int, int) {
	page := 1
	limit := 10

	if pageStr := c.Query("page"); pageStr != "" {
		if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
			page = p
		}
	}
	if limitStr := c.Query("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l <= 100 {
			limit = l
		}
	}
	return page, limit
}

// parseYear reads an election year query param falling back to a default.
func parseYear(c *gin.Context, fallback int) int {
	if yearStr := c.Query("electionYear"); yearStr != "" {
		if y, err := strconv.Atoi(yearStr); err == nil && y > 0 {
			return y
		}
	}
	return fallback
}

// totalPages computes ceil(total/limit) for pagination metadata.
func totalPages(total int64, limit int) int64 {
	if limit <= 0 {
		return 0
	}
	return (total + int64(limit) - 1) / int64(limit)
}
