package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"prediction-game/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.PredictionSet{},
		&models.ConstituencyPrediction{},
	)
	if err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}

	db.Exec("DELETE FROM constituency_predictions")
	db.Exec("DELETE FROM prediction_sets")
	db.Exec("DELETE FROM users")

	return db
}

func createUser(t *testing.T, db *gorm.DB, id uint) {
	user := models.User{
		ID:           id,
		Username:     fmt.Sprintf("user%d", id),
		Email:        fmt.Sprintf("user%d@example.com", id),
		FullName:     fmt.Sprintf("User %d", id),
		PasswordHash: "x",
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
}

func TestCreateConflictOnOwnerKey(t *testing.T) {
	db := setupTestDB(t)
	createUser(t, db, 1)
	repo := NewPredictionRepository(db)
	ctx := context.Background()

	first := models.NewPredictionSet(1, models.ElectionTypeAssembly, 2025, "Bihar")
	if err := repo.Create(ctx, first); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	dup := models.NewPredictionSet(1, models.ElectionTypeAssembly, 2025, "Bihar")
	if err := repo.Create(ctx, dup); !errors.Is(err, models.ErrPredictionSetExists) {
		t.Errorf("expected conflict error, got %v", err)
	}

	// Same user, different state: no conflict
	other := models.NewPredictionSet(1, models.ElectionTypeAssembly, 2025, "Jharkhand")
	if err := repo.Create(ctx, other); err != nil {
		t.Errorf("different state should not conflict: %v", err)
	}
}

func TestSaveReplacesRecordsInOrder(t *testing.T) {
	db := setupTestDB(t)
	createUser(t, db, 1)
	repo := NewPredictionRepository(db)
	ctx := context.Background()

	set := models.NewPredictionSet(1, models.ElectionTypeAssembly, 2025, "Bihar")
	if err := repo.Create(ctx, set); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	names := []string{"Bankipur", "Kumhrar", "Digha", "Phulwari"}
	for _, name := range names {
		if _, err := set.AddPrediction(name, "Patna Sahib", "BJP", 60); err != nil {
			t.Fatalf("AddPrediction failed: %v", err)
		}
	}
	if err := repo.Save(ctx, set); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	// Records come back in insertion order
	loaded, err := repo.FindByID(ctx, set.ID)
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if len(loaded.Predictions) != len(names) {
		t.Fatalf("expected %d records, got %d", len(names), len(loaded.Predictions))
	}
	for i, name := range names {
		if loaded.Predictions[i].Constituency != name {
			t.Errorf("position %d: expected %s, got %s", i, name, loaded.Predictions[i].Constituency)
		}
	}
	if loaded.User == nil || loaded.User.Username != "user1" {
		t.Errorf("owner not preloaded: %+v", loaded.User)
	}

	// Removing from the middle and saving again keeps order and count
	if err := loaded.RemovePrediction("Kumhrar"); err != nil {
		t.Fatalf("RemovePrediction failed: %v", err)
	}
	if err := repo.Save(ctx, loaded); err != nil {
		t.Fatalf("second Save failed: %v", err)
	}

	reloaded, err := repo.FindByID(ctx, set.ID)
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	want := []string{"Bankipur", "Digha", "Phulwari"}
	if len(reloaded.Predictions) != len(want) {
		t.Fatalf("expected %d records after removal, got %d", len(want), len(reloaded.Predictions))
	}
	for i, name := range want {
		if reloaded.Predictions[i].Constituency != name {
			t.Errorf("position %d: expected %s, got %s", i, name, reloaded.Predictions[i].Constituency)
		}
	}

	var orphans int64
	db.Model(&models.ConstituencyPrediction{}).
		Where("prediction_set_id = ?", set.ID).Count(&orphans)
	if orphans != 3 {
		t.Errorf("expected 3 record rows, got %d", orphans)
	}
}

func TestSaveKeepsRecordCreationTime(t *testing.T) {
	db := setupTestDB(t)
	createUser(t, db, 1)
	repo := NewPredictionRepository(db)
	ctx := context.Background()

	set := models.NewPredictionSet(1, models.ElectionTypeAssembly, 2025, "Bihar")
	if _, err := set.AddPrediction("Bankipur", "Patna Sahib", "BJP", 60); err != nil {
		t.Fatalf("AddPrediction failed: %v", err)
	}
	if err := repo.Create(ctx, set); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := repo.Save(ctx, set); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := repo.FindByID(ctx, set.ID)
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	born := loaded.Predictions[0].CreatedAt

	// Updating the record and saving rewrites the row but keeps created_at
	if _, err := loaded.AddPrediction("Bankipur", "Patna Sahib", "RJD", 80); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if err := repo.Save(ctx, loaded); err != nil {
		t.Fatalf("second Save failed: %v", err)
	}

	reloaded, err := repo.FindByID(ctx, set.ID)
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if reloaded.Predictions[0].PredictedParty != "RJD" {
		t.Errorf("update lost: %+v", reloaded.Predictions[0])
	}
	if !reloaded.Predictions[0].CreatedAt.Equal(born) {
		t.Errorf("created_at drifted: %s -> %s", born, reloaded.Predictions[0].CreatedAt)
	}
}

func TestFindByOwnerNotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPredictionRepository(db)

	_, err := repo.FindByOwner(context.Background(), 42, 2025, "Bihar")
	if !errors.Is(err, models.ErrPredictionSetNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestDeleteScopedToOwner(t *testing.T) {
	db := setupTestDB(t)
	createUser(t, db, 1)
	repo := NewPredictionRepository(db)
	ctx := context.Background()

	set := models.NewPredictionSet(1, models.ElectionTypeAssembly, 2025, "Bihar")
	if _, err := set.AddPrediction("Bankipur", "Patna Sahib", "BJP", 60); err != nil {
		t.Fatalf("AddPrediction failed: %v", err)
	}
	if err := repo.Create(ctx, set); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := repo.Save(ctx, set); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	// Wrong owner: nothing deleted
	deleted, err := repo.Delete(ctx, set.ID, 99)
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if deleted {
		t.Error("delete must be scoped to the owner")
	}

	deleted, err = repo.Delete(ctx, set.ID, 1)
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if !deleted {
		t.Error("expected the owner's delete to succeed")
	}

	var records int64
	db.Model(&models.ConstituencyPrediction{}).
		Where("prediction_set_id = ?", set.ID).Count(&records)
	if records != 0 {
		t.Errorf("record rows must go with the set, %d left", records)
	}
}

func TestListFiltersAndPagination(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPredictionRepository(db)
	ctx := context.Background()

	for i := uint(1); i <= 5; i++ {
		createUser(t, db, i)
		set := models.NewPredictionSet(i, models.ElectionTypeAssembly, 2025, "Bihar")
		set.TotalCoins = int(i) * 10
		if i <= 2 {
			set.Status = models.PredictionStatusSubmitted
			now := time.Now()
			set.SubmittedAt = &now
		}
		if err := repo.Create(ctx, set); err != nil {
			t.Fatalf("Create %d failed: %v", i, err)
		}
	}

	status := models.PredictionStatusSubmitted
	sets, total, err := repo.List(ctx, ListFilters{Status: status}, "total_coins", "desc", 1, 10)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if total != 2 || len(sets) != 2 {
		t.Fatalf("expected 2 submitted sets, got %d (total %d)", len(sets), total)
	}
	if sets[0].TotalCoins != 20 || sets[1].TotalCoins != 10 {
		t.Errorf("wrong sort order: %d, %d", sets[0].TotalCoins, sets[1].TotalCoins)
	}

	// Pagination over the full collection
	sets, total, err = repo.List(ctx, ListFilters{}, "total_coins", "asc", 2, 2)
	if err != nil {
		t.Fatalf("List page 2 failed: %v", err)
	}
	if total != 5 || len(sets) != 2 {
		t.Fatalf("expected page of 2 over 5, got %d (total %d)", len(sets), total)
	}
	if sets[0].TotalCoins != 30 {
		t.Errorf("expected page 2 to start at 30 coins, got %d", sets[0].TotalCoins)
	}

	// An unknown sort key falls back instead of leaking into SQL
	if _, _, err := repo.List(ctx, ListFilters{}, "tricky; DROP TABLE users", "asc", 1, 10); err != nil {
		t.Errorf("unknown sort key must fall back, got %v", err)
	}
}

func TestPublicListAreaFilter(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPredictionRepository(db)
	ctx := context.Background()

	now := time.Now()
	mkSet := func(userID uint, area, constituency string) *models.PredictionSet {
		createUser(t, db, userID)
		set := models.NewPredictionSet(userID, models.ElectionTypeAssembly, 2025, "Bihar")
		if _, err := set.AddPrediction(constituency, area, "BJP", 60); err != nil {
			t.Fatalf("AddPrediction failed: %v", err)
		}
		set.IsPublic = true
		set.Status = models.PredictionStatusSubmitted
		set.SubmittedAt = &now
		if err := repo.Create(ctx, set); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if err := repo.Save(ctx, set); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
		return set
	}

	mkSet(1, "Patna Sahib", "Bankipur")
	mkSet(2, "Patna Sahib", "Kumhrar")
	mkSet(3, "Munger", "Barh")

	// Draft sets stay out even when public
	draft := models.NewPredictionSet(4, models.ElectionTypeAssembly, 2025, "Bihar")
	createUser(t, db, 4)
	draft.IsPublic = true
	if err := repo.Create(ctx, draft); err != nil {
		t.Fatalf("Create draft failed: %v", err)
	}

	sets, total, err := repo.PublicList(ctx, 2025, "Bihar", "", "", 1, 10)
	if err != nil {
		t.Fatalf("PublicList failed: %v", err)
	}
	if total != 3 || len(sets) != 3 {
		t.Fatalf("expected 3 public sets, got %d (total %d)", len(sets), total)
	}

	sets, total, err = repo.PublicList(ctx, 2025, "Bihar", "Patna Sahib", "", 1, 10)
	if err != nil {
		t.Fatalf("PublicList area filter failed: %v", err)
	}
	if total != 2 {
		t.Errorf("expected 2 sets in area, got %d", total)
	}
	for _, s := range sets {
		for _, p := range s.Predictions {
			if p.Area != "Patna Sahib" {
				t.Errorf("record outside the filtered area: %+v", p)
			}
		}
	}

	sets, total, err = repo.PublicList(ctx, 2025, "Bihar", "", "Barh", 1, 10)
	if err != nil {
		t.Fatalf("PublicList constituency filter failed: %v", err)
	}
	if total != 1 || len(sets) != 1 {
		t.Fatalf("expected 1 set for constituency, got %d (total %d)", len(sets), total)
	}
	if sets[0].UserID != 3 {
		t.Errorf("wrong set matched: user %d", sets[0].UserID)
	}
}
