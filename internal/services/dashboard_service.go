package services

import (
	"context"

	"prediction-game/internal/models"

	"gorm.io/gorm"
)

// DashboardService aggregates the cross-module counters shown on the
// admin dashboard.
type DashboardService struct {
	db *gorm.DB
}

func NewDashboardService(db *gorm.DB) *DashboardService {
	return &DashboardService{db: db}
}

// DashboardStats is the dashboard snapshot: collection sizes plus the
// top users by points.
type DashboardStats struct {
	Users                   int64                    `json:"users"`
	Questions               int64                    `json:"questions"`
	Answers                 int64                    `json:"answers"`
	ConstituencyPredictions int64                    `json:"constituency_predictions"`
	CMPredictions           int64                    `json:"cm_predictions"`
	TopUsers                []map[string]interface{} `json:"top_users"`
}

// Stats counts every collection and lists the five highest-scoring users.
func (s *DashboardService) Stats(ctx context.Context) (*DashboardStats, error) {
	var stats DashboardStats

	counts := []struct {
		model interface{}
		dest  *int64
	}{
		{&models.User{}, &stats.Users},
		{&models.QuizQuestion{}, &stats.Questions},
		{&models.QuizAnswer{}, &stats.Answers},
		{&models.PredictionSet{}, &stats.ConstituencyPredictions},
		{&models.CMPick{}, &stats.CMPredictions},
	}
	for _, c := range counts {
		if err := s.db.WithContext(ctx).Model(c.model).Count(c.dest).Error; err != nil {
			return nil, err
		}
	}

	var topUsers []models.User
	err := s.db.WithContext(ctx).Order("points DESC").Limit(5).Find(&topUsers).Error
	if err != nil {
		return nil, err
	}
	stats.TopUsers = make([]map[string]interface{}, 0, len(topUsers))
	for i := range topUsers {
		stats.TopUsers = append(stats.TopUsers, topUsers[i].PublicProfile())
	}

	return &stats, nil
}
