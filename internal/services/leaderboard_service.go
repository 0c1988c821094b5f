package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"prediction-game/internal/models"
	"prediction-game/internal/repository"

	"github.com/shopspring/decimal"
)

// LeaderboardService serves the read-only projections over the prediction
// collection: ranking, area analytics, election-wide stats and per-user
// progress. These reads take no locks and may observe a mixture of
// committed states across users' sets.
type LeaderboardService struct {
	repo  *repository.PredictionRepository
	state string
}

func NewLeaderboardService(repo *repository.PredictionRepository, state string) *LeaderboardService {
	if state == "" {
		state = models.DefaultState
	}
	return &LeaderboardService{repo: repo, state: state}
}

// Score weights: two points per prediction, five per locked prediction,
// a tenth of a point per coin.
var (
	scorePerPrediction = decimal.NewFromInt(2)
	scorePerLocked     = decimal.NewFromInt(5)
	scorePerCoin       = decimal.RequireFromString("0.1")
)

// Score computes the leaderboard score for one aggregate. Decimal math
// keeps tied scores exactly equal, which the tie-break ordering relies on.
func Score(totalPredictions, lockedPredictions, totalCoins int) decimal.Decimal {
	return decimal.NewFromInt(int64(totalPredictions)).Mul(scorePerPrediction).
		Add(decimal.NewFromInt(int64(lockedPredictions)).Mul(scorePerLocked)).
		Add(decimal.NewFromInt(int64(totalCoins)).Mul(scorePerCoin))
}

// LeaderboardEntry is one ranked row with the owner's public profile.
type LeaderboardEntry struct {
	Rank                 int                    `json:"rank"`
	User                 map[string]interface{} `json:"user"`
	Score                decimal.Decimal        `json:"score"`
	TotalPredictions     int                    `json:"total_predictions"`
	LockedPredictions    int                    `json:"locked_predictions"`
	TotalCoins           int                    `json:"total_coins"`
	CompletionPercentage int                    `json:"completion_percentage"`
	SubmittedAt          *time.Time             `json:"submitted_at"`
}

// Leaderboard returns one ranked page of public submitted sets for an
// election year.
func (s *LeaderboardService) Leaderboard(ctx context.Context, electionYear, page, limit int) ([]LeaderboardEntry, int64, error) {
	rows, total, err := s.repo.LeaderboardRows(ctx, electionYear, s.state, page, limit)
	if err != nil {
		return nil, 0, err
	}

	entries := make([]LeaderboardEntry, 0, len(rows))
	for i, row := range rows {
		entries = append(entries, LeaderboardEntry{
			Rank: (page-1)*limit + i + 1,
			User: map[string]interface{}{
				"id":        row.UserID,
				"username":  row.Username,
				"full_name": row.FullName,
				"avatar":    row.Avatar,
				"points":    row.Points,
			},
			Score:                Score(row.TotalPredictions, row.LockedPredictions, row.TotalCoins),
			TotalPredictions:     row.TotalPredictions,
			LockedPredictions:    row.LockedPredictions,
			TotalCoins:           row.TotalCoins,
			CompletionPercentage: row.CompletionPercentage,
			SubmittedAt:          row.SubmittedAt,
		})
	}
	return entries, total, nil
}

// ConstituencyBreakdown lists the per-party vote of one constituency.
type ConstituencyBreakdown struct {
	Constituency     string                         `json:"constituency"`
	PartyPredictions []repository.PartyBreakdownRow `json:"party_predictions"`
	TotalPredictions int                            `json:"total_predictions"`
}

// AreaAnalytics is the full analytic view of one area.
type AreaAnalytics struct {
	Area         string                       `json:"area"`
	ElectionYear int                          `json:"election_year"`
	Constituency []ConstituencyBreakdown      `json:"constituency_analytics"`
	PartySummary []repository.PartySummaryRow `json:"party_summary"`
}

// AreaAnalytics groups every matching record of one area by constituency
// and party, plus a flat per-party summary over the same record set.
func (s *LeaderboardService) AreaAnalytics(ctx context.Context, area string, electionYear int) (*AreaAnalytics, error) {
	if !models.IsValidArea(area) {
		return nil, fmt.Errorf("%w: invalid area %q", models.ErrValidation, area)
	}

	rows, err := s.repo.AreaPartyByConstituency(ctx, area, electionYear, s.state)
	if err != nil {
		return nil, err
	}

	grouped := make(map[string]*ConstituencyBreakdown)
	for _, row := range rows {
		b, ok := grouped[row.Constituency]
		if !ok {
			b = &ConstituencyBreakdown{Constituency: row.Constituency}
			grouped[row.Constituency] = b
		}
		b.PartyPredictions = append(b.PartyPredictions, row)
		b.TotalPredictions += row.Count
	}

	breakdowns := make([]ConstituencyBreakdown, 0, len(grouped))
	for _, b := range grouped {
		breakdowns = append(breakdowns, *b)
	}
	sort.Slice(breakdowns, func(i, j int) bool {
		return breakdowns[i].Constituency < breakdowns[j].Constituency
	})

	summary, err := s.repo.AreaPartySummary(ctx, area, electionYear, s.state)
	if err != nil {
		return nil, err
	}

	return &AreaAnalytics{
		Area:         area,
		ElectionYear: electionYear,
		Constituency: breakdowns,
		PartySummary: summary,
	}, nil
}

// ElectionStats is the collection-wide summary plus party distribution.
type ElectionStats struct {
	General           repository.StatsRow          `json:"general"`
	PartyDistribution []repository.PartySummaryRow `json:"party_distribution"`
}

// Stats aggregates set totals and the party distribution for an election.
func (s *LeaderboardService) Stats(ctx context.Context, electionYear int) (*ElectionStats, error) {
	general, err := s.repo.OverallStats(ctx, electionYear, s.state)
	if err != nil {
		return nil, err
	}
	distribution, err := s.repo.PartyDistribution(ctx, electionYear, s.state)
	if err != nil {
		return nil, err
	}
	return &ElectionStats{General: *general, PartyDistribution: distribution}, nil
}

// UserProgress is the per-user completion snapshot.
type UserProgress struct {
	Progress    models.ProgressSummary `json:"progress"`
	Coins       int                    `json:"coins"`
	Status      string                 `json:"status"`
	LastUpdated *time.Time             `json:"last_updated,omitempty"`
}

// Progress returns a user's completion snapshot for an election. A user
// who never created a set gets a zero-valued "not started" snapshot
// rather than an error.
func (s *LeaderboardService) Progress(ctx context.Context, userID uint, electionYear int) (*UserProgress, error) {
	set, err := s.repo.FindByOwner(ctx, userID, electionYear, s.state)
	if errors.Is(err, models.ErrPredictionSetNotFound) {
		return &UserProgress{
			Progress: models.ProgressSummary{Total: models.DefaultTotalConstituencies},
			Status:   "not_started",
		}, nil
	}
	if err != nil {
		return nil, err
	}

	lastUpdated := set.LastUpdated
	return &UserProgress{
		Progress:    set.Progress(),
		Coins:       set.TotalCoins,
		Status:      string(set.Status),
		LastUpdated: &lastUpdated,
	}, nil
}
