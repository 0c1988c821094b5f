package models

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ElectionType string

const (
	ElectionTypeAssembly   ElectionType = "assembly"
	ElectionTypeLokSabha   ElectionType = "lok_sabha"
	ElectionTypeByElection ElectionType = "by_election"
)

type PredictionStatus string

const (
	PredictionStatusDraft     PredictionStatus = "draft"
	PredictionStatusSubmitted PredictionStatus = "submitted"
	PredictionStatusCompleted PredictionStatus = "completed"
	PredictionStatusVerified  PredictionStatus = "verified"
)

// PredictionAction discriminates the outcome of AddPrediction. The coin
// policy in the service layer keys off this value.
type PredictionAction string

const (
	PredictionCreated PredictionAction = "created"
	PredictionUpdated PredictionAction = "updated"
)

// PartySeats maps party -> predicted seat count. Fully derived from the
// record collection on every mutation.
type PartySeats map[string]int

// DeviceInfo is the free-form client info attached by the mobile app.
type DeviceInfo struct {
	Platform  string `json:"platform,omitempty"`
	Version   string `json:"version,omitempty"`
	UserAgent string `json:"user_agent,omitempty"`
}

// ConstituencyPrediction is one user's predicted outcome for one
// constituency, embedded in a PredictionSet. Constituency names are unique
// within a set.
type ConstituencyPrediction struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	PredictionSetID uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_set_constituency" json:"prediction_set_id"`
	Constituency    string     `gorm:"size:255;not null;uniqueIndex:idx_set_constituency;index" json:"constituency"`
	Area            string     `gorm:"size:255;not null;index" json:"area"`
	PredictedParty  string     `gorm:"size:50;not null" json:"predicted_party"`
	Confidence      int        `gorm:"not null;default:50" json:"confidence"`
	IsLocked        bool       `gorm:"not null;default:false" json:"is_locked"`
	LockedAt        *time.Time `json:"locked_at"`
	LastModified    time.Time  `json:"last_modified"`
	Position        int        `gorm:"not null;default:0;index" json:"-"`
	CreatedAt       time.Time  `json:"created_at"`
}

func (ConstituencyPrediction) TableName() string {
	return "constituency_predictions"
}

// PredictionSet is the per-user, per-election, per-state aggregate owning
// all constituency predictions plus derived summary fields. Summary fields
// are recomputed by the domain mutators and must never be taken from
// caller input.
type PredictionSet struct {
	ID                   uuid.UUID                      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID               uint                           `gorm:"not null;uniqueIndex:idx_user_election_state;index" json:"user_id"`
	User                 *User                          `gorm:"foreignKey:UserID" json:"user,omitempty"`
	ElectionType         ElectionType                   `gorm:"size:20;not null;default:assembly" json:"election_type"`
	ElectionYear         int                            `gorm:"not null;uniqueIndex:idx_user_election_state;index" json:"election_year"`
	State                string                         `gorm:"size:100;not null;default:Bihar;uniqueIndex:idx_user_election_state;index" json:"state"`
	TotalConstituencies  int                            `gorm:"not null;default:243" json:"total_constituencies"`
	Predictions          []ConstituencyPrediction       `gorm:"foreignKey:PredictionSetID" json:"predictions"`
	OverallWinner        *string                        `gorm:"size:50" json:"overall_winner"`
	PartyWiseSeats       datatypes.JSONType[PartySeats] `json:"party_wise_seats"`
	TotalCoins           int                            `gorm:"not null;default:0" json:"total_coins"`
	TotalPredictions     int                            `gorm:"not null;default:0" json:"total_predictions"`
	LockedPredictions    int                            `gorm:"not null;default:0" json:"locked_predictions"`
	CompletionPercentage int                            `gorm:"not null;default:0" json:"completion_percentage"`
	PredictionAccuracy   *float64                       `json:"prediction_accuracy"`
	Status               PredictionStatus               `gorm:"size:20;not null;default:draft;index" json:"status"`
	SubmittedAt          *time.Time                     `json:"submitted_at"`
	LastUpdated          time.Time                      `json:"last_updated"`
	IsPublic             bool                           `gorm:"not null;default:false;index" json:"is_public"`
	TimeSpentMinutes     int                            `gorm:"not null;default:0" json:"time_spent_minutes"`
	DeviceInfo           datatypes.JSONType[DeviceInfo] `json:"device_info"`
	CreatedAt            time.Time                      `json:"created_at"`
	UpdatedAt            time.Time                      `json:"updated_at"`
}

func (PredictionSet) TableName() string {
	return "prediction_sets"
}

// NewPredictionSet creates an empty aggregate for one user/election/state.
func NewPredictionSet(userID uint, electionType ElectionType, electionYear int, state string) *PredictionSet {
	if electionType == "" {
		electionType = ElectionTypeAssembly
	}
	if state == "" {
		state = DefaultState
	}
	set := &PredictionSet{
		ID:                  uuid.New(),
		UserID:              userID,
		ElectionType:        electionType,
		ElectionYear:        electionYear,
		State:               state,
		TotalConstituencies: DefaultTotalConstituencies,
		Status:              PredictionStatusDraft,
	}
	set.recalcSummary()
	return set
}

// AddPrediction creates or overwrites the record for a constituency.
// Locked records refuse the overwrite. Inputs are validated before any
// state changes.
func (s *PredictionSet) AddPrediction(constituency, area, party string, confidence int) (PredictionAction, error) {
	constituency = strings.TrimSpace(constituency)
	if constituency == "" {
		return "", fmt.Errorf("%w: constituency is required", ErrValidation)
	}
	if !IsValidArea(area) {
		return "", fmt.Errorf("%w: invalid area %q", ErrValidation, area)
	}
	if !IsValidParty(party) {
		return "", fmt.Errorf("%w: invalid party %q", ErrValidation, party)
	}
	if confidence < 0 || confidence > 100 {
		return "", fmt.Errorf("%w: confidence must be between 0 and 100", ErrValidation)
	}

	now := time.Now()
	for i := range s.Predictions {
		if s.Predictions[i].Constituency != constituency {
			continue
		}
		if s.Predictions[i].IsLocked {
			return "", ErrPredictionLocked
		}
		s.Predictions[i].PredictedParty = party
		s.Predictions[i].Confidence = confidence
		s.Predictions[i].LastModified = now
		s.recalcSummary()
		return PredictionUpdated, nil
	}

	s.Predictions = append(s.Predictions, ConstituencyPrediction{
		ID:              uuid.New(),
		PredictionSetID: s.ID,
		Constituency:    constituency,
		Area:            area,
		PredictedParty:  party,
		Confidence:      confidence,
		LastModified:    now,
	})
	s.recalcSummary()
	return PredictionCreated, nil
}

// LockPrediction freezes a record. Locking is one-way; the only unlock
// path is ResetUnlocked, which discards unlocked peers and keeps locked
// ones untouched.
func (s *PredictionSet) LockPrediction(constituency string) error {
	p := s.PredictionFor(constituency)
	if p == nil {
		return ErrPredictionNotFound
	}
	if p.IsLocked {
		return ErrAlreadyLocked
	}
	now := time.Now()
	p.IsLocked = true
	p.LockedAt = &now
	s.recalcSummary()
	return nil
}

// RemovePrediction deletes a single unlocked record.
func (s *PredictionSet) RemovePrediction(constituency string) error {
	for i := range s.Predictions {
		if s.Predictions[i].Constituency != constituency {
			continue
		}
		if s.Predictions[i].IsLocked {
			return ErrPredictionLocked
		}
		s.Predictions = append(s.Predictions[:i], s.Predictions[i+1:]...)
		s.recalcSummary()
		return nil
	}
	return ErrPredictionNotFound
}

// ResetUnlocked discards every unlocked record and reports how many were
// removed. Fails when there is nothing to remove.
func (s *PredictionSet) ResetUnlocked() (int, error) {
	kept := s.Predictions[:0]
	for _, p := range s.Predictions {
		if p.IsLocked {
			kept = append(kept, p)
		}
	}
	removed := len(s.Predictions) - len(kept)
	if removed == 0 {
		return 0, ErrNothingToReset
	}
	s.Predictions = kept
	s.recalcSummary()
	return removed, nil
}

// Submit moves the set to submitted. Requires at least
// MinPredictionsToSubmit records; an optional override replaces the
// derived overall winner.
func (s *PredictionSet) Submit(overallWinner string) error {
	if s.Status == PredictionStatusSubmitted || s.Status == PredictionStatusCompleted {
		return ErrAlreadySubmitted
	}
	if s.TotalPredictions < MinPredictionsToSubmit {
		return ErrInsufficientPredictions
	}
	if overallWinner != "" && !IsValidParty(overallWinner) {
		return fmt.Errorf("%w: invalid party %q", ErrValidation, overallWinner)
	}

	s.recalcSummary()
	now := time.Now()
	s.Status = PredictionStatusSubmitted
	s.SubmittedAt = &now
	if overallWinner != "" {
		s.OverallWinner = &overallWinner
	}
	return nil
}

// MetadataUpdate carries the caller-settable aggregate fields for the
// partial-update endpoint. Derived fields are deliberately absent.
type MetadataUpdate struct {
	OverallWinner    *string           `json:"overall_winner"`
	Status           *PredictionStatus `json:"status"`
	IsPublic         *bool             `json:"is_public"`
	TimeSpentMinutes *int              `json:"time_spent_minutes"`
	DeviceInfo       *DeviceInfo       `json:"device_info"`
}

// ApplyMetadata applies a partial metadata update. Moving the status to
// submitted through here stamps submittedAt but grants no coins; the
// submission bonus belongs to Submit.
func (s *PredictionSet) ApplyMetadata(upd MetadataUpdate) error {
	if upd.OverallWinner != nil {
		if !IsValidParty(*upd.OverallWinner) {
			return fmt.Errorf("%w: invalid party %q", ErrValidation, *upd.OverallWinner)
		}
		s.OverallWinner = upd.OverallWinner
	}
	if upd.Status != nil {
		switch *upd.Status {
		case PredictionStatusDraft, PredictionStatusSubmitted, PredictionStatusCompleted, PredictionStatusVerified:
		default:
			return fmt.Errorf("%w: invalid status %q", ErrValidation, *upd.Status)
		}
		if *upd.Status == PredictionStatusSubmitted && s.SubmittedAt == nil {
			now := time.Now()
			s.SubmittedAt = &now
		}
		s.Status = *upd.Status
	}
	if upd.IsPublic != nil {
		s.IsPublic = *upd.IsPublic
	}
	if upd.TimeSpentMinutes != nil {
		if *upd.TimeSpentMinutes < 0 {
			return fmt.Errorf("%w: time spent cannot be negative", ErrValidation)
		}
		s.TimeSpentMinutes = *upd.TimeSpentMinutes
	}
	if upd.DeviceInfo != nil {
		s.DeviceInfo = datatypes.NewJSONType(*upd.DeviceInfo)
	}
	s.LastUpdated = time.Now()
	return nil
}

// PredictionFor returns the record for a constituency, or nil.
func (s *PredictionSet) PredictionFor(constituency string) *ConstituencyPrediction {
	for i := range s.Predictions {
		if s.Predictions[i].Constituency == constituency {
			return &s.Predictions[i]
		}
	}
	return nil
}

// PredictionsInArea returns the records belonging to one area.
func (s *PredictionSet) PredictionsInArea(area string) []ConstituencyPrediction {
	var out []ConstituencyPrediction
	for _, p := range s.Predictions {
		if p.Area == area {
			out = append(out, p)
		}
	}
	return out
}

// HasLockedPredictions reports whether any record is locked.
func (s *PredictionSet) HasLockedPredictions() bool {
	for _, p := range s.Predictions {
		if p.IsLocked {
			return true
		}
	}
	return false
}

// ProgressSummary is the caller-facing completion snapshot.
type ProgressSummary struct {
	Total      int `json:"total"`
	Completed  int `json:"completed"`
	Locked     int `json:"locked"`
	Percentage int `json:"percentage"`
}

// Progress returns the completion snapshot for this set.
func (s *PredictionSet) Progress() ProgressSummary {
	return ProgressSummary{
		Total:      s.TotalConstituencies,
		Completed:  s.TotalPredictions,
		Locked:     s.LockedPredictions,
		Percentage: s.CompletionPercentage,
	}
}

// recalcSummary rebuilds every derived field from the record collection.
// It runs at the end of each domain mutator so a persisted set always
// carries summary fields consistent with its records. Seat counts are
// reset and rescanned, never patched incrementally, and the overall
// winner tie-break is the first party in Parties order reaching the max.
func (s *PredictionSet) recalcSummary() {
	s.TotalPredictions = len(s.Predictions)

	locked := 0
	seats := make(PartySeats, len(Parties))
	for _, party := range Parties {
		seats[party] = 0
	}
	for i := range s.Predictions {
		s.Predictions[i].Position = i
		if s.Predictions[i].IsLocked {
			locked++
		}
		if _, ok := seats[s.Predictions[i].PredictedParty]; ok {
			seats[s.Predictions[i].PredictedParty]++
		}
	}
	s.LockedPredictions = locked
	s.PartyWiseSeats = datatypes.NewJSONType(seats)

	maxSeats := 0
	for _, party := range Parties {
		if seats[party] > maxSeats {
			maxSeats = seats[party]
		}
	}
	if maxSeats > 0 {
		for _, party := range Parties {
			if seats[party] == maxSeats {
				winner := party
				s.OverallWinner = &winner
				break
			}
		}
	}

	if s.TotalConstituencies > 0 {
		s.CompletionPercentage = int(math.Round(float64(s.TotalPredictions) / float64(s.TotalConstituencies) * 100))
	}
	s.LastUpdated = time.Now()
}
