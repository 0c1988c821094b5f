package services

import (
	"context"
	"fmt"
	"log"

	"prediction-game/internal/config"
	"prediction-game/internal/models"
	"prediction-game/internal/repository"

	"github.com/google/uuid"
)

// PredictionService orchestrates aggregate mutations: it loads the set,
// applies the domain operation, applies the coin policy keyed off the
// operation's result, and persists the whole set atomically. Business
// rules are validated before any write, so a failed operation leaves the
// stored set untouched.
type PredictionService struct {
	repo    *repository.PredictionRepository
	rewards config.RewardConfig
}

func NewPredictionService(repo *repository.PredictionRepository, rewards config.RewardConfig) *PredictionService {
	return &PredictionService{repo: repo, rewards: rewards}
}

// BulkSummary reports the per-item outcome counts of a bulk upsert.
type BulkSummary struct {
	Added       int `json:"added"`
	Updated     int `json:"updated"`
	Errors      int `json:"errors"`
	CoinsEarned int `json:"total_coins_earned"`
}

// fetchOwned loads a set and verifies ownership. A set owned by someone
// else is reported as not found, matching the public API contract.
func (s *PredictionService) fetchOwned(ctx context.Context, setID uuid.UUID, userID uint) (*models.PredictionSet, error) {
	set, err := s.repo.FindByID(ctx, setID)
	if err != nil {
		return nil, err
	}
	if set.UserID != userID {
		return nil, models.ErrPredictionSetNotFound
	}
	return set, nil
}

// Create starts an empty prediction set for one user/election/state.
func (s *PredictionService) Create(ctx context.Context, userID uint, req models.CreatePredictionSetRequest) (*models.PredictionSet, error) {
	if req.ElectionYear == 0 {
		return nil, fmt.Errorf("%w: election year is required", models.ErrValidation)
	}
	set := models.NewPredictionSet(userID, req.ElectionType, req.ElectionYear, req.State)
	if err := s.repo.Create(ctx, set); err != nil {
		return nil, err
	}
	log.Printf("Prediction set created: user=%d year=%d state=%s (ID: %s)", userID, set.ElectionYear, set.State, set.ID)
	return set, nil
}

// GetMine returns the caller's set for an election.
func (s *PredictionService) GetMine(ctx context.Context, userID uint, electionYear int, state string) (*models.PredictionSet, error) {
	return s.repo.FindByOwner(ctx, userID, electionYear, state)
}

// GetByID returns a set, enforcing the visibility rule: private sets are
// readable by their owner only.
func (s *PredictionService) GetByID(ctx context.Context, userID uint, setID uuid.UUID) (*models.PredictionSet, error) {
	set, err := s.repo.FindByID(ctx, setID)
	if err != nil {
		return nil, err
	}
	if !set.IsPublic && set.UserID != userID {
		return nil, models.ErrPrivatePrediction
	}
	return set, nil
}

// AddOrUpdate upserts one constituency record and awards creation or
// update coins depending on which path the aggregate took.
func (s *PredictionService) AddOrUpdate(ctx context.Context, userID uint, setID uuid.UUID, req models.AddPredictionRequest) (*models.PredictionSet, models.PredictionAction, int, error) {
	set, err := s.fetchOwned(ctx, setID, userID)
	if err != nil {
		return nil, "", 0, err
	}

	confidence := 50
	if req.Confidence != nil {
		confidence = *req.Confidence
	}

	action, err := set.AddPrediction(req.Constituency, req.Area, req.PredictedParty, confidence)
	if err != nil {
		return nil, "", 0, err
	}

	coins := s.rewards.UpdatePrediction
	if action == models.PredictionCreated {
		coins = s.rewards.CreatePrediction
	}
	set.TotalCoins += coins

	if err := s.repo.Save(ctx, set); err != nil {
		return nil, "", 0, err
	}
	return set, action, coins, nil
}

// Lock freezes one record and awards the lock bonus.
func (s *PredictionService) Lock(ctx context.Context, userID uint, setID uuid.UUID, constituency string) (*models.PredictionSet, int, error) {
	set, err := s.fetchOwned(ctx, setID, userID)
	if err != nil {
		return nil, 0, err
	}
	if err := set.LockPrediction(constituency); err != nil {
		return nil, 0, err
	}
	set.TotalCoins += s.rewards.LockPrediction

	if err := s.repo.Save(ctx, set); err != nil {
		return nil, 0, err
	}
	return set, s.rewards.LockPrediction, nil
}

// BulkAdd applies a batch of upserts with partial-failure semantics: each
// item is validated and applied independently, failures are collected and
// the successful items are persisted in one save. A later item targeting
// the same constituency as an earlier one supersedes it, exactly as two
// sequential single calls would.
func (s *PredictionService) BulkAdd(ctx context.Context, userID uint, setID uuid.UUID, items []models.BulkPredictionItem) (*models.PredictionSet, BulkSummary, []string, error) {
	if len(items) == 0 {
		return nil, BulkSummary{}, nil, fmt.Errorf("%w: predictions array is required", models.ErrValidation)
	}

	set, err := s.fetchOwned(ctx, setID, userID)
	if err != nil {
		return nil, BulkSummary{}, nil, err
	}

	var summary BulkSummary
	var itemErrors []string
	for _, item := range items {
		confidence := 50
		if item.Confidence != nil {
			confidence = *item.Confidence
		}

		action, err := set.AddPrediction(item.Constituency, item.Area, item.PredictedParty, confidence)
		if err != nil {
			name := item.Constituency
			if name == "" {
				name = "unknown"
			}
			itemErrors = append(itemErrors, fmt.Sprintf("%s: %v", name, err))
			summary.Errors++
			continue
		}

		if action == models.PredictionCreated {
			summary.Added++
			summary.CoinsEarned += s.rewards.CreatePrediction
		} else {
			summary.Updated++
			summary.CoinsEarned += s.rewards.UpdatePrediction
		}
	}

	set.TotalCoins += summary.CoinsEarned
	if err := s.repo.Save(ctx, set); err != nil {
		return nil, BulkSummary{}, nil, err
	}
	return set, summary, itemErrors, nil
}

// DeleteRecord removes one unlocked record and deducts the delete
// penalty, never taking the balance below zero.
func (s *PredictionService) DeleteRecord(ctx context.Context, userID uint, setID uuid.UUID, constituency string) (*models.PredictionSet, int, error) {
	set, err := s.fetchOwned(ctx, setID, userID)
	if err != nil {
		return nil, 0, err
	}
	if err := set.RemovePrediction(constituency); err != nil {
		return nil, 0, err
	}

	deducted := s.rewards.DeletePrediction
	set.TotalCoins -= deducted
	if set.TotalCoins < 0 {
		set.TotalCoins = 0
	}

	if err := s.repo.Save(ctx, set); err != nil {
		return nil, 0, err
	}
	return set, deducted, nil
}

// DeleteSet removes a whole set. Refused while any record is locked.
func (s *PredictionService) DeleteSet(ctx context.Context, userID uint, setID uuid.UUID) error {
	set, err := s.fetchOwned(ctx, setID, userID)
	if err != nil {
		return err
	}
	if set.HasLockedPredictions() {
		return models.ErrPredictionLocked
	}

	deleted, err := s.repo.Delete(ctx, setID, userID)
	if err != nil {
		return err
	}
	if !deleted {
		return models.ErrPredictionSetNotFound
	}
	return nil
}

// ResetUnlocked discards every unlocked record and recomputes the coin
// balance from the surviving locked records. The recompute is
// destructive: prior coin history is replaced by lockedCount x the
// locked-keep value (creation reward plus lock bonus).
func (s *PredictionService) ResetUnlocked(ctx context.Context, userID uint, setID uuid.UUID) (*models.PredictionSet, int, int, error) {
	set, err := s.fetchOwned(ctx, setID, userID)
	if err != nil {
		return nil, 0, 0, err
	}

	removed, err := set.ResetUnlocked()
	if err != nil {
		return nil, 0, 0, err
	}
	set.TotalCoins = set.LockedPredictions * s.rewards.LockedKeep

	if err := s.repo.Save(ctx, set); err != nil {
		return nil, 0, 0, err
	}
	return set, removed, set.LockedPredictions, nil
}

// Submit finalizes a set and grants the submission bonus.
func (s *PredictionService) Submit(ctx context.Context, userID uint, setID uuid.UUID, overallWinner string) (*models.PredictionSet, error) {
	set, err := s.fetchOwned(ctx, setID, userID)
	if err != nil {
		return nil, err
	}
	if err := set.Submit(overallWinner); err != nil {
		return nil, err
	}
	set.TotalCoins += s.rewards.SubmitBonus

	if err := s.repo.Save(ctx, set); err != nil {
		return nil, err
	}
	log.Printf("Prediction set submitted: user=%d set=%s predictions=%d", userID, set.ID, set.TotalPredictions)
	return set, nil
}

// UpdateMetadata applies a partial update of the caller-settable fields.
func (s *PredictionService) UpdateMetadata(ctx context.Context, userID uint, setID uuid.UUID, upd models.MetadataUpdate) (*models.PredictionSet, error) {
	set, err := s.fetchOwned(ctx, setID, userID)
	if err != nil {
		return nil, err
	}
	if err := set.ApplyMetadata(upd); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, set); err != nil {
		return nil, err
	}
	return set, nil
}

// RecordsInArea returns the caller's records for one area of an election.
func (s *PredictionService) RecordsInArea(ctx context.Context, userID uint, electionYear int, state, area string) ([]models.ConstituencyPrediction, error) {
	set, err := s.repo.FindByOwner(ctx, userID, electionYear, state)
	if err != nil {
		return nil, err
	}
	return set.PredictionsInArea(area), nil
}

// GetRecord returns one record of the caller's set.
func (s *PredictionService) GetRecord(ctx context.Context, userID uint, setID uuid.UUID, constituency string) (*models.ConstituencyPrediction, error) {
	set, err := s.fetchOwned(ctx, setID, userID)
	if err != nil {
		return nil, err
	}
	record := set.PredictionFor(constituency)
	if record == nil {
		return nil, models.ErrPredictionNotFound
	}
	return record, nil
}

// List returns one admin/filtered page of sets.
func (s *PredictionService) List(ctx context.Context, f repository.ListFilters, sortBy, sortOrder string, page, limit int) ([]models.PredictionSet, int64, error) {
	return s.repo.List(ctx, f, sortBy, sortOrder, page, limit)
}

// PublicList returns one page of public sets, optionally filtered down to
// an area or a single constituency.
func (s *PredictionService) PublicList(ctx context.Context, electionYear int, state, area, constituency string, page, limit int) ([]models.PredictionSet, int64, error) {
	return s.repo.PublicList(ctx, electionYear, state, area, constituency, page, limit)
}
