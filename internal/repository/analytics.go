package repository

import (
	"context"
	"time"

	"prediction-game/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LeaderboardRow is one ranked aggregate joined with its owner's public
// profile fields.
type LeaderboardRow struct {
	PredictionSetID      uuid.UUID  `json:"prediction_set_id"`
	UserID               uint       `json:"user_id"`
	Username             string     `json:"username"`
	FullName             string     `json:"full_name"`
	Avatar               *string    `json:"avatar"`
	Points               int        `json:"points"`
	TotalPredictions     int        `json:"total_predictions"`
	LockedPredictions    int        `json:"locked_predictions"`
	TotalCoins           int        `json:"total_coins"`
	CompletionPercentage int        `json:"completion_percentage"`
	SubmittedAt          *time.Time `json:"submitted_at"`
}

// PartyBreakdownRow is one (constituency, party) group with prediction
// count and average confidence.
type PartyBreakdownRow struct {
	Constituency  string  `json:"constituency"`
	Party         string  `json:"party"`
	Count         int     `json:"count"`
	AvgConfidence float64 `json:"avg_confidence"`
}

// PartySummaryRow is one party's totals over a filtered record set.
type PartySummaryRow struct {
	Party         string  `json:"party"`
	Count         int     `json:"count"`
	AvgConfidence float64 `json:"avg_confidence"`
	LockedCount   int     `json:"locked_count"`
}

// StatsRow is the collection-wide summary for one election.
type StatsRow struct {
	TotalUsers           int     `json:"total_users"`
	TotalPredictions     int     `json:"total_predictions"`
	TotalLocked          int     `json:"total_locked"`
	TotalCoins           int     `json:"total_coins"`
	AvgProgress          float64 `json:"avg_progress"`
	SubmittedPredictions int     `json:"submitted_predictions"`
	CompletedPredictions int     `json:"completed_predictions"`
}

// scoreExpr is the leaderboard score scaled by ten so the ordering runs
// in integer arithmetic. A float expression (coins * 0.1) could separate
// two scores that the exact decimal computation considers tied.
const scoreExpr = "(total_predictions * 20 + locked_predictions * 50 + total_coins)"

// LeaderboardRows returns one page of public submitted/completed sets
// ordered by score, with ties broken by prediction count then locked
// count. Ordering happens in SQL so pagination stays correct.
func (r *PredictionRepository) LeaderboardRows(ctx context.Context, electionYear int, state string, page, limit int) ([]LeaderboardRow, int64, error) {
	filter := func() *gorm.DB {
		return r.db.WithContext(ctx).Model(&models.PredictionSet{}).
			Where("prediction_sets.election_year = ? AND prediction_sets.state = ? AND prediction_sets.is_public = ? AND prediction_sets.status IN ?",
				electionYear, state, true,
				[]models.PredictionStatus{models.PredictionStatusSubmitted, models.PredictionStatusCompleted})
	}

	var total int64
	if err := filter().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []LeaderboardRow
	err := filter().
		Joins("JOIN users ON users.id = prediction_sets.user_id").
		Select("prediction_sets.id AS prediction_set_id, prediction_sets.user_id, users.username, users.full_name, users.avatar, users.points, " +
			"prediction_sets.total_predictions, prediction_sets.locked_predictions, prediction_sets.total_coins, " +
			"prediction_sets.completion_percentage, prediction_sets.submitted_at").
		Order(scoreExpr + " DESC, total_predictions DESC, locked_predictions DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Scan(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// AreaPartyByConstituency groups the records of one area across all sets
// of an election by (constituency, party), with count and average
// confidence.
func (r *PredictionRepository) AreaPartyByConstituency(ctx context.Context, area string, electionYear int, state string) ([]PartyBreakdownRow, error) {
	var rows []PartyBreakdownRow
	err := r.db.WithContext(ctx).
		Table("constituency_predictions").
		Joins("JOIN prediction_sets ON prediction_sets.id = constituency_predictions.prediction_set_id").
		Where("prediction_sets.election_year = ? AND prediction_sets.state = ? AND constituency_predictions.area = ?",
			electionYear, state, area).
		Select("constituency_predictions.constituency, constituency_predictions.predicted_party AS party, " +
			"COUNT(*) AS count, AVG(constituency_predictions.confidence) AS avg_confidence").
		Group("constituency_predictions.constituency, constituency_predictions.predicted_party").
		Order("constituency_predictions.constituency ASC").
		Scan(&rows).Error
	return rows, err
}

// AreaPartySummary computes the flat per-party totals over one area's
// records across all sets of an election.
func (r *PredictionRepository) AreaPartySummary(ctx context.Context, area string, electionYear int, state string) ([]PartySummaryRow, error) {
	var rows []PartySummaryRow
	err := r.db.WithContext(ctx).
		Table("constituency_predictions").
		Joins("JOIN prediction_sets ON prediction_sets.id = constituency_predictions.prediction_set_id").
		Where("prediction_sets.election_year = ? AND prediction_sets.state = ? AND constituency_predictions.area = ?",
			electionYear, state, area).
		Select("constituency_predictions.predicted_party AS party, COUNT(*) AS count, " +
			"AVG(constituency_predictions.confidence) AS avg_confidence, " +
			"SUM(CASE WHEN constituency_predictions.is_locked THEN 1 ELSE 0 END) AS locked_count").
		Group("constituency_predictions.predicted_party").
		Order("count DESC").
		Scan(&rows).Error
	return rows, err
}

// PartyDistribution computes per-party totals over every record of an
// election, regardless of area.
func (r *PredictionRepository) PartyDistribution(ctx context.Context, electionYear int, state string) ([]PartySummaryRow, error) {
	var rows []PartySummaryRow
	err := r.db.WithContext(ctx).
		Table("constituency_predictions").
		Joins("JOIN prediction_sets ON prediction_sets.id = constituency_predictions.prediction_set_id").
		Where("prediction_sets.election_year = ? AND prediction_sets.state = ?", electionYear, state).
		Select("constituency_predictions.predicted_party AS party, COUNT(*) AS count, " +
			"AVG(constituency_predictions.confidence) AS avg_confidence, " +
			"SUM(CASE WHEN constituency_predictions.is_locked THEN 1 ELSE 0 END) AS locked_count").
		Group("constituency_predictions.predicted_party").
		Order("count DESC").
		Scan(&rows).Error
	return rows, err
}

// OverallStats aggregates set-level totals for one election.
func (r *PredictionRepository) OverallStats(ctx context.Context, electionYear int, state string) (*StatsRow, error) {
	var row StatsRow
	err := r.db.WithContext(ctx).Model(&models.PredictionSet{}).
		Where("election_year = ? AND state = ?", electionYear, state).
		Select("COUNT(*) AS total_users, " +
			"COALESCE(SUM(total_predictions), 0) AS total_predictions, " +
			"COALESCE(SUM(locked_predictions), 0) AS total_locked, " +
			"COALESCE(SUM(total_coins), 0) AS total_coins, " +
			"COALESCE(AVG(total_predictions * 100.0 / total_constituencies), 0) AS avg_progress, " +
			"COALESCE(SUM(CASE WHEN status = 'submitted' THEN 1 ELSE 0 END), 0) AS submitted_predictions, " +
			"COALESCE(SUM(CASE WHEN status = 'completed' THEN 1 ELSE 0 END), 0) AS completed_predictions").
		Scan(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}
