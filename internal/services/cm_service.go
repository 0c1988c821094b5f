package services

import (
	"context"
	"errors"
	"time"

	"prediction-game/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CMService manages chief-minister picks: one pick per user per state,
// frozen once locked.
type CMService struct {
	db *gorm.DB
}

func NewCMService(db *gorm.DB) *CMService {
	return &CMService{db: db}
}

// Candidates lists the CM candidates for a state.
func (s *CMService) Candidates(ctx context.Context, state string) ([]models.CMCandidate, error) {
	var candidates []models.CMCandidate
	err := s.db.WithContext(ctx).Where("state = ?", state).Order("name ASC").Find(&candidates).Error
	return candidates, err
}

// SetPick records or replaces a user's CM pick for a state. A locked pick
// cannot be replaced.
func (s *CMService) SetPick(ctx context.Context, userID uint, state string, candidateID uuid.UUID) (*models.CMPick, error) {
	var candidate models.CMCandidate
	err := s.db.WithContext(ctx).Where("id = ? AND state = ?", candidateID, state).First(&candidate).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.ErrCandidateNotFound
	}
	if err != nil {
		return nil, err
	}

	var pick models.CMPick
	err = s.db.WithContext(ctx).Where("user_id = ? AND state = ?", userID, state).First(&pick).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		pick = models.CMPick{
			ID:          uuid.New(),
			UserID:      userID,
			State:       state,
			CandidateID: candidateID,
			PickedAt:    time.Now(),
		}
		if err := s.db.WithContext(ctx).Create(&pick).Error; err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	default:
		if pick.IsLocked {
			return nil, models.ErrPredictionLocked
		}
		pick.CandidateID = candidateID
		pick.PickedAt = time.Now()
		if err := s.db.WithContext(ctx).Save(&pick).Error; err != nil {
			return nil, err
		}
	}

	pick.Candidate = &candidate
	return &pick, nil
}

// LockPick freezes a user's CM pick for a state.
func (s *CMService) LockPick(ctx context.Context, userID uint, state string) (*models.CMPick, error) {
	var pick models.CMPick
	err := s.db.WithContext(ctx).Preload("Candidate").
		Where("user_id = ? AND state = ?", userID, state).First(&pick).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.ErrCMPickNotFound
	}
	if err != nil {
		return nil, err
	}
	if pick.IsLocked {
		return nil, models.ErrAlreadyLocked
	}

	pick.IsLocked = true
	if err := s.db.WithContext(ctx).Save(&pick).Error; err != nil {
		return nil, err
	}
	return &pick, nil
}

// GetPick returns a user's CM pick for a state.
func (s *CMService) GetPick(ctx context.Context, userID uint, state string) (*models.CMPick, error) {
	var pick models.CMPick
	err := s.db.WithContext(ctx).Preload("Candidate").
		Where("user_id = ? AND state = ?", userID, state).First(&pick).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.ErrCMPickNotFound
	}
	if err != nil {
		return nil, err
	}
	return &pick, nil
}
