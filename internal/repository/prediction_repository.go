package repository

import (
	"context"
	"errors"

	"prediction-game/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PredictionRepository is the persistence boundary for prediction sets.
// A set and its records are written together: Save replaces the record
// rows and the parent row in one transaction, so derived summary fields
// can never be persisted out of step with the records they summarize.
type PredictionRepository struct {
	db *gorm.DB
}

func NewPredictionRepository(db *gorm.DB) *PredictionRepository {
	return &PredictionRepository{db: db}
}

// preloaded returns a query that loads records in insertion order plus the
// owning user.
func (r *PredictionRepository) preloaded(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Predictions", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Preload("User")
}

// FindByOwner retrieves the set for one user/election/state key.
func (r *PredictionRepository) FindByOwner(ctx context.Context, userID uint, electionYear int, state string) (*models.PredictionSet, error) {
	var set models.PredictionSet
	err := r.preloaded(ctx).
		Where("user_id = ? AND election_year = ? AND state = ?", userID, electionYear, state).
		First(&set).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.ErrPredictionSetNotFound
	}
	if err != nil {
		return nil, err
	}
	return &set, nil
}

// FindByID retrieves a set by its id.
func (r *PredictionRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.PredictionSet, error) {
	var set models.PredictionSet
	err := r.preloaded(ctx).Where("id = ?", id).First(&set).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.ErrPredictionSetNotFound
	}
	if err != nil {
		return nil, err
	}
	return &set, nil
}

// Create inserts a new set. The (user, election year, state) unique index
// rejects a second set for the same key.
func (r *PredictionRepository) Create(ctx context.Context, set *models.PredictionSet) error {
	err := r.db.WithContext(ctx).Omit(clause.Associations).Create(set).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return models.ErrPredictionSetExists
	}
	return err
}

// Save persists the set as a whole replacement: all record rows are
// rewritten and the parent row updated in one transaction.
func (r *PredictionRepository) Save(ctx context.Context, set *models.PredictionSet) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("prediction_set_id = ?", set.ID).
			Delete(&models.ConstituencyPrediction{}).Error; err != nil {
			return err
		}
		if len(set.Predictions) > 0 {
			if err := tx.Create(&set.Predictions).Error; err != nil {
				return err
			}
		}
		return tx.Omit(clause.Associations).Save(set).Error
	})
}

// Delete removes a set owned by userID. Returns false when no row matched.
func (r *PredictionRepository) Delete(ctx context.Context, id uuid.UUID, userID uint) (bool, error) {
	var deleted bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("prediction_set_id = ?", id).
			Delete(&models.ConstituencyPrediction{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ? AND user_id = ?", id, userID).Delete(&models.PredictionSet{})
		if res.Error != nil {
			return res.Error
		}
		deleted = res.RowsAffected > 0
		return nil
	})
	return deleted, err
}

// ListFilters narrows List and Count queries. Nil/zero fields are ignored.
type ListFilters struct {
	ElectionYear *int
	State        string
	Status       models.PredictionStatus
	IsPublic     *bool
	UserID       *uint
}

// sortColumns whitelists caller-selectable sort keys.
var sortColumns = map[string]string{
	"created_at":        "created_at",
	"last_updated":      "last_updated",
	"submitted_at":      "submitted_at",
	"total_predictions": "total_predictions",
	"total_coins":       "total_coins",
}

func (r *PredictionRepository) filtered(ctx context.Context, f ListFilters) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&models.PredictionSet{})
	if f.ElectionYear != nil {
		q = q.Where("election_year = ?", *f.ElectionYear)
	}
	if f.State != "" {
		q = q.Where("state = ?", f.State)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.IsPublic != nil {
		q = q.Where("is_public = ?", *f.IsPublic)
	}
	if f.UserID != nil {
		q = q.Where("user_id = ?", *f.UserID)
	}
	return q
}

// List returns one page of sets matching the filters plus the total match
// count. Records are not loaded; listings only need the summary fields.
func (r *PredictionRepository) List(ctx context.Context, f ListFilters, sortBy, sortOrder string, page, limit int) ([]models.PredictionSet, int64, error) {
	var total int64
	if err := r.filtered(ctx, f).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	column, ok := sortColumns[sortBy]
	if !ok {
		column = "created_at"
	}
	direction := "DESC"
	if sortOrder == "asc" {
		direction = "ASC"
	}

	var sets []models.PredictionSet
	err := r.filtered(ctx, f).
		Preload("User").
		Order(column + " " + direction).
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&sets).Error
	if err != nil {
		return nil, 0, err
	}
	return sets, total, nil
}

// Count returns the number of sets matching the filters.
func (r *PredictionRepository) Count(ctx context.Context, f ListFilters) (int64, error) {
	var total int64
	err := r.filtered(ctx, f).Count(&total).Error
	return total, err
}

// PublicList returns one page of public submitted/completed sets. When an
// area or constituency filter is given, only sets containing a matching
// record qualify and only the matching records are loaded.
func (r *PredictionRepository) PublicList(ctx context.Context, electionYear int, state, area, constituency string, page, limit int) ([]models.PredictionSet, int64, error) {
	recordConds := make([]interface{}, 0, 4)
	recordWhere := ""
	if area != "" {
		recordWhere = "area = ?"
		recordConds = append(recordConds, area)
	}
	if constituency != "" {
		if recordWhere != "" {
			recordWhere += " AND "
		}
		recordWhere += "constituency = ?"
		recordConds = append(recordConds, constituency)
	}
	base := func() *gorm.DB {
		q := r.db.WithContext(ctx).Model(&models.PredictionSet{}).
			Where("election_year = ? AND state = ? AND is_public = ? AND status IN ?",
				electionYear, state, true,
				[]models.PredictionStatus{models.PredictionStatusSubmitted, models.PredictionStatusCompleted})
		if recordWhere != "" {
			sub := r.db.Model(&models.ConstituencyPrediction{}).
				Select("prediction_set_id").
				Where(recordWhere, recordConds...)
			q = q.Where("id IN (?)", sub)
		}
		return q
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	preload := func(db *gorm.DB) *gorm.DB {
		if recordWhere != "" {
			db = db.Where(recordWhere, recordConds...)
		}
		return db.Order("position ASC")
	}

	var sets []models.PredictionSet
	err := base().
		Preload("Predictions", preload).
		Preload("User").
		Order("submitted_at DESC, total_predictions DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&sets).Error
	if err != nil {
		return nil, 0, err
	}
	return sets, total, nil
}
