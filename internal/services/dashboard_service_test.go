package services

import (
	"context"
	"testing"

	"prediction-game/internal/models"
)

func TestDashboardStats(t *testing.T) {
	db := setupTestDB(t)
	quiz := NewQuizService(db)
	service := NewDashboardService(db)
	ctx := context.Background()

	for i := uint(1); i <= 7; i++ {
		createTestUser(t, db, i)
		db.Model(&models.User{}).Where("id = ?", i).Update("points", int(i)*10)
	}
	question := createTestQuestion(t, quiz, "Q1", []string{"a", "b"}, 0)
	if _, _, err := quiz.SubmitAnswer(ctx, 1, question.ID, 0); err != nil {
		t.Fatalf("SubmitAnswer failed: %v", err)
	}
	seedSubmittedSet(t, db, 1, 3, 0, 0)

	stats, err := service.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats.Users != 7 || stats.Questions != 1 || stats.Answers != 1 {
		t.Errorf("wrong counts: %+v", stats)
	}
	if stats.ConstituencyPredictions != 1 || stats.CMPredictions != 0 {
		t.Errorf("wrong prediction counts: %+v", stats)
	}

	if len(stats.TopUsers) != 5 {
		t.Fatalf("expected top 5 users, got %d", len(stats.TopUsers))
	}
	if stats.TopUsers[0]["points"] != 70 || stats.TopUsers[0]["username"] != "user7" {
		t.Errorf("wrong leader: %+v", stats.TopUsers[0])
	}
	if _, exposed := stats.TopUsers[0]["email"]; exposed {
		t.Error("dashboard must expose public profile fields only")
	}
}
