package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"prediction-game/internal/models"
	"prediction-game/internal/repository"
)

// seedSubmittedSet inserts a public submitted set with the given summary
// fields, bypassing the service so tests control the numbers exactly.
func seedSubmittedSet(t *testing.T, db *gorm.DB, userID uint, total, locked, coins int) *models.PredictionSet {
	now := time.Now()
	set := &models.PredictionSet{
		ID:                  uuid.New(),
		UserID:              userID,
		ElectionType:        models.ElectionTypeAssembly,
		ElectionYear:        2025,
		State:               "Bihar",
		TotalConstituencies: models.DefaultTotalConstituencies,
		TotalPredictions:    total,
		LockedPredictions:   locked,
		TotalCoins:          coins,
		Status:              models.PredictionStatusSubmitted,
		SubmittedAt:         &now,
		IsPublic:            true,
	}
	if err := db.Create(set).Error; err != nil {
		t.Fatalf("failed to seed set: %v", err)
	}
	return set
}

func seedRecord(t *testing.T, db *gorm.DB, setID uuid.UUID, constituency, area, party string, confidence int, locked bool) {
	record := models.ConstituencyPrediction{
		ID:              uuid.New(),
		PredictionSetID: setID,
		Constituency:    constituency,
		Area:            area,
		PredictedParty:  party,
		Confidence:      confidence,
		IsLocked:        locked,
		LastModified:    time.Now(),
	}
	if err := db.Create(&record).Error; err != nil {
		t.Fatalf("failed to seed record: %v", err)
	}
}

func TestScore(t *testing.T) {
	score := Score(3, 0, 45)
	if !score.Equal(decimal.RequireFromString("10.5")) {
		t.Errorf("expected 10.5, got %s", score)
	}
	if !Score(0, 0, 0).Equal(decimal.Zero) {
		t.Errorf("empty set must score zero, got %s", Score(0, 0, 0))
	}
	// Coins contribute a tenth of a point each, exactly
	if !Score(0, 0, 1).Equal(decimal.RequireFromString("0.1")) {
		t.Errorf("expected 0.1, got %s", Score(0, 0, 1))
	}
}

func TestLeaderboardTieBreak(t *testing.T) {
	db := setupTestDB(t)
	createTestUser(t, db, 1)
	createTestUser(t, db, 2)
	createTestUser(t, db, 3)
	createTestUser(t, db, 4)

	// Users 1, 2 and 4 all score exactly 10.5 from different mixes of
	// predictions, locks and coins; the tie resolves on prediction count.
	// User 3 scores 9.0. Coin-only scores exercise the coin term of the
	// SQL ordering, which must stay exact for the tie to hold.
	seedSubmittedSet(t, db, 1, 3, 0, 45)
	seedSubmittedSet(t, db, 2, 1, 1, 35)
	seedSubmittedSet(t, db, 3, 2, 1, 0)
	seedSubmittedSet(t, db, 4, 0, 0, 105)

	service := NewLeaderboardService(repository.NewPredictionRepository(db), "Bihar")
	entries, total, err := service.Leaderboard(context.Background(), 2025, 1, 10)
	if err != nil {
		t.Fatalf("Leaderboard failed: %v", err)
	}
	if total != 4 || len(entries) != 4 {
		t.Fatalf("expected 4 entries, got %d (total %d)", len(entries), total)
	}

	wantOrder := []uint{1, 2, 4, 3}
	for i, want := range wantOrder {
		got := entries[i].User["id"].(uint)
		if got != want {
			t.Errorf("rank %d: expected user %d, got %d", i+1, want, got)
		}
		if entries[i].Rank != i+1 {
			t.Errorf("expected rank %d, got %d", i+1, entries[i].Rank)
		}
	}
	if !entries[0].Score.Equal(entries[1].Score) || !entries[1].Score.Equal(entries[2].Score) {
		t.Errorf("scores should tie exactly: %s, %s, %s",
			entries[0].Score, entries[1].Score, entries[2].Score)
	}
	if entries[0].User["username"] != "user1" {
		t.Errorf("profile fields missing: %+v", entries[0].User)
	}
}

func TestLeaderboardExcludesDraftsAndPrivate(t *testing.T) {
	db := setupTestDB(t)
	createTestUser(t, db, 1)
	createTestUser(t, db, 2)
	createTestUser(t, db, 3)

	seedSubmittedSet(t, db, 1, 5, 0, 0)
	private := seedSubmittedSet(t, db, 2, 10, 0, 0)
	db.Model(private).Update("is_public", false)
	draft := seedSubmittedSet(t, db, 3, 10, 0, 0)
	db.Model(draft).Updates(map[string]interface{}{"status": "draft", "submitted_at": nil})

	service := NewLeaderboardService(repository.NewPredictionRepository(db), "Bihar")
	entries, total, err := service.Leaderboard(context.Background(), 2025, 1, 10)
	if err != nil {
		t.Fatalf("Leaderboard failed: %v", err)
	}
	if total != 1 || len(entries) != 1 {
		t.Fatalf("expected only the public submitted set, got %d (total %d)", len(entries), total)
	}
	if entries[0].User["id"].(uint) != 1 {
		t.Errorf("wrong entry survived the filter: %+v", entries[0].User)
	}
}

func TestAreaAnalytics(t *testing.T) {
	db := setupTestDB(t)
	createTestUser(t, db, 1)
	createTestUser(t, db, 2)

	set1 := seedSubmittedSet(t, db, 1, 2, 1, 0)
	set2 := seedSubmittedSet(t, db, 2, 1, 0, 0)
	seedRecord(t, db, set1.ID, "Bankipur", "Patna Sahib", "BJP", 80, true)
	seedRecord(t, db, set1.ID, "Kumhrar", "Patna Sahib", "RJD", 60, false)
	seedRecord(t, db, set2.ID, "Bankipur", "Patna Sahib", "BJP", 60, false)

	service := NewLeaderboardService(repository.NewPredictionRepository(db), "Bihar")
	analytics, err := service.AreaAnalytics(context.Background(), "Patna Sahib", 2025)
	if err != nil {
		t.Fatalf("AreaAnalytics failed: %v", err)
	}

	if len(analytics.Constituency) != 2 {
		t.Fatalf("expected 2 constituencies, got %d", len(analytics.Constituency))
	}
	// Sorted by name: Bankipur before Kumhrar
	bankipur := analytics.Constituency[0]
	if bankipur.Constituency != "Bankipur" || bankipur.TotalPredictions != 2 {
		t.Errorf("unexpected first breakdown: %+v", bankipur)
	}
	if len(bankipur.PartyPredictions) != 1 || bankipur.PartyPredictions[0].Count != 2 {
		t.Errorf("expected one BJP group of 2: %+v", bankipur.PartyPredictions)
	}
	if bankipur.PartyPredictions[0].AvgConfidence != 70 {
		t.Errorf("expected avg confidence 70, got %v", bankipur.PartyPredictions[0].AvgConfidence)
	}

	if len(analytics.PartySummary) != 2 {
		t.Fatalf("expected 2 party rows, got %d", len(analytics.PartySummary))
	}
	// Ordered by count: BJP (2) first
	if analytics.PartySummary[0].Party != "BJP" || analytics.PartySummary[0].LockedCount != 1 {
		t.Errorf("unexpected party summary: %+v", analytics.PartySummary[0])
	}

	// Unknown areas are rejected up front
	if _, err := service.AreaAnalytics(context.Background(), "Mumbai", 2025); err == nil {
		t.Error("expected validation error for unknown area")
	}
}

func TestStats(t *testing.T) {
	db := setupTestDB(t)
	createTestUser(t, db, 1)
	createTestUser(t, db, 2)

	set1 := seedSubmittedSet(t, db, 1, 10, 4, 100)
	seedSubmittedSet(t, db, 2, 20, 0, 50)
	seedRecord(t, db, set1.ID, "Bankipur", "Patna Sahib", "BJP", 80, true)
	seedRecord(t, db, set1.ID, "Kumhrar", "Patna Sahib", "RJD", 60, false)

	service := NewLeaderboardService(repository.NewPredictionRepository(db), "Bihar")
	stats, err := service.Stats(context.Background(), 2025)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}

	g := stats.General
	if g.TotalUsers != 2 || g.TotalPredictions != 30 || g.TotalLocked != 4 || g.TotalCoins != 150 {
		t.Errorf("unexpected general stats: %+v", g)
	}
	if g.SubmittedPredictions != 2 {
		t.Errorf("expected 2 submitted sets, got %d", g.SubmittedPredictions)
	}
	if len(stats.PartyDistribution) != 2 {
		t.Errorf("expected 2 parties in distribution, got %d", len(stats.PartyDistribution))
	}
}

func TestStatsEmptyElection(t *testing.T) {
	db := setupTestDB(t)

	service := NewLeaderboardService(repository.NewPredictionRepository(db), "Bihar")
	stats, err := service.Stats(context.Background(), 1999)
	if err != nil {
		t.Fatalf("Stats failed on empty election: %v", err)
	}
	if stats.General.TotalUsers != 0 || stats.General.TotalPredictions != 0 {
		t.Errorf("expected zeroed stats, got %+v", stats.General)
	}
}

func TestProgressNotStarted(t *testing.T) {
	db := setupTestDB(t)
	createTestUser(t, db, 1)

	service := NewLeaderboardService(repository.NewPredictionRepository(db), "Bihar")

	// No set yet: sentinel snapshot, not an error
	progress, err := service.Progress(context.Background(), 1, 2025)
	if err != nil {
		t.Fatalf("Progress failed: %v", err)
	}
	if progress.Status != "not_started" {
		t.Errorf("expected not_started, got %s", progress.Status)
	}
	if progress.Progress.Total != models.DefaultTotalConstituencies || progress.Progress.Completed != 0 {
		t.Errorf("unexpected sentinel progress: %+v", progress.Progress)
	}
	if progress.LastUpdated != nil {
		t.Errorf("sentinel must not carry a timestamp, got %v", progress.LastUpdated)
	}

	seedSubmittedSet(t, db, 1, 30, 5, 200)
	progress, err = service.Progress(context.Background(), 1, 2025)
	if err != nil {
		t.Fatalf("Progress failed: %v", err)
	}
	if progress.Status != "submitted" || progress.Coins != 200 {
		t.Errorf("unexpected progress: %+v", progress)
	}
	if progress.Progress.Completed != 30 || progress.Progress.Locked != 5 {
		t.Errorf("unexpected progress snapshot: %+v", progress.Progress)
	}
}
