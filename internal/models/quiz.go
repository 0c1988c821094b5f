package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// QuizQuestion is one multiple-choice trivia question. Options are a JSON
// array of at least two entries; the correct option is an index into it.
type QuizQuestion struct {
	ID                 uuid.UUID                    `gorm:"type:uuid;primaryKey" json:"id"`
	QuestionText       string                       `gorm:"type:text;not null" json:"question_text"`
	Options            datatypes.JSONType[[]string] `json:"options"`
	CorrectOptionIndex int                          `gorm:"not null" json:"correct_option_index"`
	CreatedAt          time.Time                    `json:"created_at"`
	UpdatedAt          time.Time                    `json:"updated_at"`
}

func (QuizQuestion) TableName() string {
	return "quiz_questions"
}

// QuizAnswer is one user's answer to one question. A user answers each
// question at most once; a wrong answer may be replaced, a correct one is
// final.
type QuizAnswer struct {
	ID                  uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	QuestionID          uuid.UUID     `gorm:"type:uuid;not null;uniqueIndex:idx_answer_user_question;index" json:"question_id"`
	Question            *QuizQuestion `gorm:"foreignKey:QuestionID" json:"question,omitempty"`
	UserID              uint          `gorm:"not null;uniqueIndex:idx_answer_user_question;index" json:"user_id"`
	SelectedOptionIndex int           `gorm:"not null" json:"selected_option_index"`
	IsCorrect           bool          `gorm:"not null" json:"is_correct"`
	CreatedAt           time.Time     `json:"created_at"`
	UpdatedAt           time.Time     `json:"updated_at"`
}

func (QuizAnswer) TableName() string {
	return "quiz_answers"
}
