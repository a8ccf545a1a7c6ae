package service

import (
	"context"
	"errors"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/coderRohan123/tempdescription/internal/domain"
	"github.com/coderRohan123/tempdescription/internal/repository"
)

func testHistoryService(t *testing.T) *HistoryService {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.AutoMigrate(&domain.Generation{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return NewHistoryService(repository.NewGenerationRepository(db))
}

func TestHistoryService_SaveCreatesNewRecord(t *testing.T) {
	svc := testHistoryService(t)

	attrs := domain.GenerationAttributes{
		ProductName:     "Keyboard",
		ProductCategory: "Electronics",
		TargetAudience:  "professionals",
		TargetLanguage:  "English",
	}
	res, err := svc.Save(context.Background(), "user-1", attrs, "A fine keyboard.", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Updated {
		t.Error("first save must be a create")
	}
	if res.ID == "" {
		t.Error("expected a generated record ID")
	}

	gens, err := svc.List(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(gens) != 1 {
		t.Fatalf("expected 1 record, got %d", len(gens))
	}
	if gens[0].ImageURLs == nil {
		t.Error("nil image URLs must be persisted as empty, not null")
	}
}

func TestHistoryService_SaveOverwritesByProductName(t *testing.T) {
	svc := testHistoryService(t)

	attrs := domain.GenerationAttributes{
		ProductName:     "Keyboard",
		ProductCategory: "Electronics",
		TargetAudience:  "professionals",
		TargetLanguage:  "English",
	}
	first, err := svc.Save(context.Background(), "user-1", attrs, "First description.", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Same user and product name: the record is overwritten, not duplicated
	attrs.TargetAudience = "everyone"
	attrs.TargetLanguage = "Spanish"
	second, err := svc.Save(context.Background(), "user-1", attrs, "Segunda descripción.", []string{"https://cdn.example/a.png"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !second.Updated {
		t.Error("matching save must be an update")
	}
	if second.ID != first.ID {
		t.Errorf("overwrite must keep the record identity: %s vs %s", second.ID, first.ID)
	}

	gens, err := svc.List(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(gens) != 1 {
		t.Fatalf("expected 1 record after overwrite, got %d", len(gens))
	}
	got := gens[0]
	if got.FinalDescription != "Segunda descripción." {
		t.Errorf("expected overwritten description, got %q", got.FinalDescription)
	}
	if got.TargetAudience != "everyone" || got.TargetLanguage != "Spanish" {
		t.Errorf("expected overwritten attributes, got %+v", got)
	}
	if len(got.ImageURLs) != 1 {
		t.Errorf("expected overwritten image URLs, got %v", got.ImageURLs)
	}
}

func TestHistoryService_SaveScopedPerUser(t *testing.T) {
	svc := testHistoryService(t)

	attrs := domain.GenerationAttributes{ProductName: "Keyboard", TargetLanguage: "English"}
	if _, err := svc.Save(context.Background(), "user-1", attrs, "Mine.", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// A different user with the same product name gets a separate record
	res, err := svc.Save(context.Background(), "user-2", attrs, "Theirs.", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Updated {
		t.Error("saves must never collide across users")
	}
}

func TestHistoryService_SaveValidation(t *testing.T) {
	svc := testHistoryService(t)

	tests := []struct {
		name        string
		productName string
		description string
	}{
		{"missing product name", "", "text"},
		{"missing description", "Keyboard", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			attrs := domain.GenerationAttributes{ProductName: tt.productName}
			if _, err := svc.Save(context.Background(), "user-1", attrs, tt.description, nil); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestHistoryService_Delete(t *testing.T) {
	svc := testHistoryService(t)

	attrs := domain.GenerationAttributes{ProductName: "Keyboard", TargetLanguage: "English"}
	res, err := svc.Save(context.Background(), "user-1", attrs, "Text.", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := svc.Delete(context.Background(), "user-1", res.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	gens, err := svc.List(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(gens) != 0 {
		t.Errorf("expected empty list after delete, got %d", len(gens))
	}

	// Deleted product names are free for re-saving as a new record
	again, err := svc.Save(context.Background(), "user-1", attrs, "Text again.", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if again.Updated || again.ID == res.ID {
		t.Error("a deleted record must not be resurrected by a new save")
	}
}

func TestHistoryService_DeleteNotFound(t *testing.T) {
	svc := testHistoryService(t)

	tests := []struct {
		name   string
		userID string
		id     string
	}{
		{"unknown id", "user-1", "nope"},
		{"foreign record", "user-2", ""},
	}

	attrs := domain.GenerationAttributes{ProductName: "Keyboard", TargetLanguage: "English"}
	res, err := svc.Save(context.Background(), "user-1", attrs, "Text.", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	tests[1].id = res.ID

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := svc.Delete(context.Background(), tt.userID, tt.id); !errors.Is(err, ErrGenerationNotFound) {
				t.Errorf("expected ErrGenerationNotFound, got %v", err)
			}
		})
	}
}
