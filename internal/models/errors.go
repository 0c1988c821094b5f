package models

import "errors"

var (
	// ErrValidation indicates a missing or malformed input field.
	ErrValidation = errors.New("validation failed")
	// ErrPredictionSetNotFound is returned when no prediction set matches
	// the requested id or owner/election/state key.
	ErrPredictionSetNotFound = errors.New("prediction set not found")
	// ErrPredictionNotFound is returned when a set has no record for the
	// requested constituency.
	ErrPredictionNotFound = errors.New("constituency prediction not found")
	// ErrPredictionSetExists is returned when a set already exists for the
	// same owner, election year and state.
	ErrPredictionSetExists = errors.New("prediction set already exists for this election")
	// ErrPredictionLocked is returned on any attempt to change or delete a
	// locked record.
	ErrPredictionLocked = errors.New("prediction is locked")
	// ErrAlreadyLocked is returned when locking a record twice.
	ErrAlreadyLocked = errors.New("prediction already locked")
	// ErrAlreadySubmitted is returned when submitting a set twice.
	ErrAlreadySubmitted = errors.New("prediction set already submitted")
	// ErrInsufficientPredictions is returned when submitting below the
	// 50-record floor.
	ErrInsufficientPredictions = errors.New("not enough predictions to submit")
	// ErrNothingToReset is returned when a reset finds no unlocked records.
	ErrNothingToReset = errors.New("no unlocked predictions to reset")
	// ErrPrivatePrediction is returned when reading another user's
	// non-public set.
	ErrPrivatePrediction = errors.New("access denied to private prediction")

	// ErrUserExists is returned when registering a duplicate username or email.
	ErrUserExists = errors.New("user already exists")
	// ErrInvalidCredentials is returned on a failed login.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrCandidateNotFound is returned when a CM pick references an unknown candidate.
	ErrCandidateNotFound = errors.New("candidate not found")
	// ErrCMPickNotFound is returned when a user has no CM pick for a state.
	ErrCMPickNotFound = errors.New("cm pick not found")
	// ErrQuestionNotFound is returned when no quiz question matches the id.
	ErrQuestionNotFound = errors.New("question not found")
)
