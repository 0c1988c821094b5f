package handlers

import (
	"net/http"

	"prediction-game/internal/auth"
	"prediction-game/internal/models"
	"prediction-game/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// QuizHandler serves the trivia question and answer endpoints.
type QuizHandler struct {
	quizService *services.QuizService
}

func NewQuizHandler(quizService *services.QuizService) *QuizHandler {
	return &QuizHandler{quizService: quizService}
}

// questionID parses the question id path param.
func questionID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("questionId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid question id"})
		return uuid.Nil, false
	}
	return id, true
}

// CreateQuestion adds a trivia question
// POST /api/quiz/questions
func (h *QuizHandler) CreateQuestion(c *gin.Context) {
	var req models.CreateQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	question, err := h.quizService.CreateQuestion(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"question": question})
}

// GetQuestions returns one page of questions in random order with the
// caller's answer state
// GET /api/quiz/questions
func (h *QuizHandler) GetQuestions(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	page, limit := parsePagination(c)

	questions, total, err := h.quizService.RandomQuestions(c.Request.Context(), userID, page, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"questions":      questions,
		"totalQuestions": total,
		"currentPage":    page,
	})
}

// UpdateQuestion partially updates a question
// PUT /api/quiz/questions/:questionId
func (h *QuizHandler) UpdateQuestion(c *gin.Context) {
	id, ok := questionID(c)
	if !ok {
		return
	}

	var req models.UpdateQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	question, err := h.quizService.UpdateQuestion(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"question": question})
}

// DeleteQuestion removes a question and its answers
// DELETE /api/quiz/questions/:questionId
func (h *QuizHandler) DeleteQuestion(c *gin.Context) {
	id, ok := questionID(c)
	if !ok {
		return
	}

	if err := h.quizService.DeleteQuestion(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "question deleted successfully"})
}

// SubmitAnswer records or retries the caller's answer
// POST /api/quiz/answers
func (h *QuizHandler) SubmitAnswer(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req models.SubmitAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	qid, err := uuid.Parse(req.QuestionID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid question id"})
		return
	}

	answer, created, err := h.quizService.SubmitAnswer(c.Request.Context(), userID, qid, *req.SelectedOptionIndex)
	if err != nil {
		respondError(c, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, gin.H{"answer": answer})
}

// GetMyAnswers returns the caller's answers with their questions
// GET /api/quiz/answers/my
func (h *QuizHandler) GetMyAnswers(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	answers, err := h.quizService.MyAnswers(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"answers": answers,
		"count":   len(answers),
	})
}
