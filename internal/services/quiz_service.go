package services

import (
	"context"
	"errors"
	"fmt"

	"prediction-game/internal/models"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// QuizService manages the trivia questions and per-user answers. Answer
// submission is an upsert with one asymmetry: a wrong answer may be
// retried, a correct answer is final.
type QuizService struct {
	db *gorm.DB
}

func NewQuizService(db *gorm.DB) *QuizService {
	return &QuizService{db: db}
}

// QuizQuestionRow is one listed question annotated with the caller's
// answer state.
type QuizQuestionRow struct {
	ID                 uuid.UUID                    `json:"id"`
	QuestionText       string                       `json:"question_text"`
	Options            datatypes.JSONType[[]string] `json:"options"`
	CorrectOptionIndex int                          `json:"correct_option_index"`
	IsAnswered         bool                         `json:"is_answered"`
	IsCorrect          *bool                        `json:"is_correct"`
}

func validateOptionIndex(index int, options []string) error {
	if len(options) < 2 {
		return fmt.Errorf("%w: at least two options are required", models.ErrValidation)
	}
	if index < 0 || index >= len(options) {
		return fmt.Errorf("%w: correct option index out of range", models.ErrValidation)
	}
	return nil
}

// CreateQuestion adds a trivia question.
func (s *QuizService) CreateQuestion(ctx context.Context, req models.CreateQuestionRequest) (*models.QuizQuestion, error) {
	if err := validateOptionIndex(*req.CorrectOptionIndex, req.Options); err != nil {
		return nil, err
	}

	question := models.QuizQuestion{
		ID:                 uuid.New(),
		QuestionText:       req.QuestionText,
		Options:            datatypes.NewJSONType(req.Options),
		CorrectOptionIndex: *req.CorrectOptionIndex,
	}
	if err := s.db.WithContext(ctx).Create(&question).Error; err != nil {
		return nil, err
	}
	return &question, nil
}

// UpdateQuestion applies a partial update. The correct option index is
// revalidated against the resulting option list.
func (s *QuizService) UpdateQuestion(ctx context.Context, id uuid.UUID, req models.UpdateQuestionRequest) (*models.QuizQuestion, error) {
	var question models.QuizQuestion
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&question).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.ErrQuestionNotFound
	}
	if err != nil {
		return nil, err
	}

	if req.QuestionText != nil {
		question.QuestionText = *req.QuestionText
	}
	if req.Options != nil {
		question.Options = datatypes.NewJSONType(*req.Options)
	}
	if req.CorrectOptionIndex != nil {
		question.CorrectOptionIndex = *req.CorrectOptionIndex
	}
	if err := validateOptionIndex(question.CorrectOptionIndex, question.Options.Data()); err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Save(&question).Error; err != nil {
		return nil, err
	}
	return &question, nil
}

// DeleteQuestion removes a question together with its answers.
func (s *QuizService) DeleteQuestion(ctx context.Context, id uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("question_id = ?", id).Delete(&models.QuizAnswer{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&models.QuizQuestion{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return models.ErrQuestionNotFound
		}
		return nil
	})
}

// RandomQuestions returns one page of questions in random order, each
// flagged with whether the caller answered it and whether that answer was
// correct. Random ordering happens in SQL (RANDOM() is shared by postgres
// and sqlite), so a page is a fresh shuffle on every call.
func (s *QuizService) RandomQuestions(ctx context.Context, userID uint, page, limit int) ([]QuizQuestionRow, int64, error) {
	var total int64
	if err := s.db.WithContext(ctx).Model(&models.QuizQuestion{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []QuizQuestionRow
	err := s.db.WithContext(ctx).
		Table("quiz_questions").
		Joins("LEFT JOIN quiz_answers ON quiz_answers.question_id = quiz_questions.id AND quiz_answers.user_id = ?", userID).
		Select("quiz_questions.id, quiz_questions.question_text, quiz_questions.options, " +
			"quiz_questions.correct_option_index, " +
			"quiz_answers.id IS NOT NULL AS is_answered, " +
			"quiz_answers.is_correct AS is_correct").
		Order("RANDOM()").
		Limit(limit).
		Offset((page - 1) * limit).
		Scan(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// SubmitAnswer records the caller's answer to a question, or retries a
// previous wrong one. Returns the answer and whether a new row was
// created. Submitting against an already-correct answer changes nothing.
func (s *QuizService) SubmitAnswer(ctx context.Context, userID uint, questionID uuid.UUID, selected int) (*models.QuizAnswer, bool, error) {
	var question models.QuizQuestion
	err := s.db.WithContext(ctx).Where("id = ?", questionID).First(&question).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, models.ErrQuestionNotFound
	}
	if err != nil {
		return nil, false, err
	}

	options := question.Options.Data()
	if selected < 0 || selected >= len(options) {
		return nil, false, fmt.Errorf("%w: selected option index out of range", models.ErrValidation)
	}
	correct := selected == question.CorrectOptionIndex

	var answer models.QuizAnswer
	err = s.db.WithContext(ctx).Where("user_id = ? AND question_id = ?", userID, questionID).First(&answer).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		answer = models.QuizAnswer{
			ID:                  uuid.New(),
			QuestionID:          questionID,
			UserID:              userID,
			SelectedOptionIndex: selected,
			IsCorrect:           correct,
		}
		if err := s.db.WithContext(ctx).Create(&answer).Error; err != nil {
			return nil, false, err
		}
		answer.Question = &question
		return &answer, true, nil
	case err != nil:
		return nil, false, err
	}

	if answer.IsCorrect {
		answer.Question = &question
		return &answer, false, nil
	}

	answer.SelectedOptionIndex = selected
	answer.IsCorrect = correct
	if err := s.db.WithContext(ctx).Save(&answer).Error; err != nil {
		return nil, false, err
	}
	answer.Question = &question
	return &answer, false, nil
}

// MyAnswers returns the caller's answers with their questions.
func (s *QuizService) MyAnswers(ctx context.Context, userID uint) ([]models.QuizAnswer, error) {
	var answers []models.QuizAnswer
	err := s.db.WithContext(ctx).Preload("Question").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&answers).Error
	return answers, err
}
