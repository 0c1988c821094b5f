package models

// CreatePredictionSetRequest starts a new prediction set for an election.
type CreatePredictionSetRequest struct {
	ElectionType ElectionType `json:"election_type"`
	ElectionYear int          `json:"election_year" binding:"required"`
	State        string       `json:"state"`
}

// AddPredictionRequest creates or updates one constituency record.
type AddPredictionRequest struct {
	Constituency   string `json:"constituency" binding:"required"`
	Area           string `json:"area" binding:"required"`
	PredictedParty string `json:"predicted_party" binding:"required"`
	Confidence     *int   `json:"confidence"`
}

// BulkAddRequest carries a batch of record upserts. Items are applied
// independently: a bad item is reported, it does not abort the batch.
type BulkAddRequest struct {
	Predictions []BulkPredictionItem `json:"predictions" binding:"required"`
}

// BulkPredictionItem is one entry of a bulk upsert. Fields are validated
// per item rather than by binding so failures stay per-item.
type BulkPredictionItem struct {
	Constituency   string `json:"constituency"`
	Area           string `json:"area"`
	PredictedParty string `json:"predicted_party"`
	Confidence     *int   `json:"confidence"`
}

// SubmitPredictionRequest finalizes a set, optionally overriding the
// derived overall winner.
type SubmitPredictionRequest struct {
	OverallWinner string `json:"overall_winner"`
}

// RegisterRequest creates a user account.
type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	FullName string `json:"full_name" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
}

// LoginRequest authenticates a user by username or email.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// SetCMPickRequest records or replaces a chief-minister pick.
type SetCMPickRequest struct {
	State       string `json:"state"`
	CandidateID string `json:"candidate_id" binding:"required"`
}

// CreateQuestionRequest adds one trivia question.
type CreateQuestionRequest struct {
	QuestionText       string   `json:"question_text" binding:"required"`
	Options            []string `json:"options" binding:"required,min=2"`
	CorrectOptionIndex *int     `json:"correct_option_index" binding:"required"`
}

// UpdateQuestionRequest partially updates a question. Nil fields are left
// unchanged.
type UpdateQuestionRequest struct {
	QuestionText       *string   `json:"question_text"`
	Options            *[]string `json:"options"`
	CorrectOptionIndex *int      `json:"correct_option_index"`
}

// SubmitAnswerRequest records or retries a user's answer to a question.
type SubmitAnswerRequest struct {
	QuestionID          string `json:"question_id" binding:"required"`
	SelectedOptionIndex *int   `json:"selected_option_index" binding:"required"`
}
