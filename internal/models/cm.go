package models

import (
	"time"

	"github.com/google/uuid"
)

// CMCandidate is one entry in the chief-minister candidate list for a state.
type CMCandidate struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Party     string    `gorm:"size:50;not null" json:"party"`
	State     string    `gorm:"size:100;not null;index" json:"state"`
	Avatar    *string   `gorm:"size:500" json:"avatar,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (CMCandidate) TableName() string {
	return "cm_candidates"
}

// CMPick is one user's chief-minister pick for a state. At most one pick
// per user per state; once locked it cannot be changed.
type CMPick struct {
	ID          uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uint         `gorm:"not null;uniqueIndex:idx_cm_user_state" json:"user_id"`
	State       string       `gorm:"size:100;not null;uniqueIndex:idx_cm_user_state" json:"state"`
	CandidateID uuid.UUID    `gorm:"type:uuid;not null" json:"candidate_id"`
	Candidate   *CMCandidate `gorm:"foreignKey:CandidateID" json:"candidate,omitempty"`
	IsLocked    bool         `gorm:"not null;default:false" json:"is_locked"`
	PickedAt    time.Time    `json:"picked_at"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

func (CMPick) TableName() string {
	return "cm_picks"
}
