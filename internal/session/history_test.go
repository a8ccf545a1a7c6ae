package session

import (
	"context"
	"errors"
	"testing"

	"github.com/coderRohan123/tempdescription/internal/domain"
)

func loadedHistory(t *testing.T, gen *fakeGenerator, tr *fakeTranslator, store *fakeStore, confirm *fakeConfirmer) *HistorySession {
	t.Helper()
	h := NewHistorySession(gen, tr, store, confirm)
	if err := h.Load(context.Background()); err != nil {
		t.Fatalf("load failed: %v", err)
	}
	return h
}

func TestHistorySession_Load(t *testing.T) {
	store := &fakeStore{records: []domain.Generation{
		testRecord("gen-2", "Desk Lamp"),
		testRecord("gen-1", "Keyboard"),
	}}
	h := NewHistorySession(&fakeGenerator{}, &fakeTranslator{}, store, &fakeConfirmer{})

	if err := h.Load(context.Background()); err != nil {
		t.Fatalf("load failed: %v", err)
	}
	records := h.Records()
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].ID != "gen-2" {
		t.Errorf("expected store order preserved, got %s first", records[0].ID)
	}
}

func TestHistorySession_LoadFailure(t *testing.T) {
	store := &fakeStore{listErr: errors.New("connection refused")}
	h := NewHistorySession(&fakeGenerator{}, &fakeTranslator{}, store, &fakeConfirmer{})

	if err := h.Load(context.Background()); err == nil {
		t.Fatal("expected load to fail")
	}
	if h.Err() == "" {
		t.Error("expected a user-facing error message")
	}
}

func TestHistorySession_BeginEditPrefillsOverlay(t *testing.T) {
	store := &fakeStore{records: []domain.Generation{testRecord("gen-1", "Keyboard")}}
	h := loadedHistory(t, &fakeGenerator{}, &fakeTranslator{}, store, &fakeConfirmer{})

	if err := h.BeginEdit("gen-1"); err != nil {
		t.Fatalf("begin edit failed: %v", err)
	}

	overlay := h.Overlay("gen-1")
	if overlay == nil {
		t.Fatal("expected an open overlay")
	}
	if overlay.ProductCategory == nil || *overlay.ProductCategory != "Electronics" {
		t.Error("overlay must open pre-filled with the stored category")
	}
	if overlay.UserDescription == nil || *overlay.UserDescription != "original notes" {
		t.Error("overlay must open pre-filled with the stored description")
	}
	if overlay.PendingText != "" {
		t.Error("a fresh overlay has no pending text")
	}
}

func TestHistorySession_BeginEditUnknownRecord(t *testing.T) {
	h := NewHistorySession(&fakeGenerator{}, &fakeTranslator{}, &fakeStore{}, &fakeConfirmer{})
	if err := h.BeginEdit("missing"); !IsValidation(err) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestHistorySession_SingleActiveEditor(t *testing.T) {
	store := &fakeStore{records: []domain.Generation{
		testRecord("gen-1", "Keyboard"),
		testRecord("gen-2", "Desk Lamp"),
	}}
	h := loadedHistory(t, &fakeGenerator{}, &fakeTranslator{}, store, &fakeConfirmer{})

	if err := h.BeginEdit("gen-1"); err != nil {
		t.Fatalf("begin edit failed: %v", err)
	}
	overlay := h.Overlay("gen-1")
	edited := "edited while open"
	overlay.UserDescription = &edited

	// Opening a second editor discards the first overlay entirely
	if err := h.BeginEdit("gen-2"); err != nil {
		t.Fatalf("begin edit failed: %v", err)
	}
	if h.EditingID() != "gen-2" {
		t.Errorf("expected gen-2 editing, got %q", h.EditingID())
	}
	if h.Overlay("gen-1") != nil {
		t.Error("first overlay must be discarded")
	}

	// Coming back to gen-1 starts from the stored values again
	if err := h.BeginEdit("gen-1"); err != nil {
		t.Fatalf("begin edit failed: %v", err)
	}
	fresh := h.Overlay("gen-1")
	if fresh.UserDescription == nil || *fresh.UserDescription != "original notes" {
		t.Error("reopened overlay must pre-fill from stored values, not prior edits")
	}
}

func TestHistorySession_CancelEdit(t *testing.T) {
	store := &fakeStore{records: []domain.Generation{testRecord("gen-1", "Keyboard")}}
	h := loadedHistory(t, &fakeGenerator{}, &fakeTranslator{}, store, &fakeConfirmer{})

	if err := h.BeginEdit("gen-1"); err != nil {
		t.Fatalf("begin edit failed: %v", err)
	}
	h.CancelEdit()

	if h.EditingID() != "" {
		t.Error("cancel must clear the editing record")
	}
	if h.Overlay("gen-1") != nil {
		t.Error("cancel must discard the overlay")
	}
	records := h.Records()
	if records[0].UserDescription != "original notes" {
		t.Error("cancel must not touch the stored record")
	}
}

func TestHistorySession_RegenerateUsesEffectiveAttributes(t *testing.T) {
	gen := &fakeGenerator{text: "Descripción regenerada"}
	store := &fakeStore{records: []domain.Generation{testRecord("gen-1", "Keyboard")}}
	h := loadedHistory(t, gen, &fakeTranslator{}, store, &fakeConfirmer{})

	if err := h.BeginEdit("gen-1"); err != nil {
		t.Fatalf("begin edit failed: %v", err)
	}
	overlay := h.Overlay("gen-1")
	spanish := "Spanish"
	overlay.TargetLanguage = &spanish

	if err := h.Regenerate(context.Background(), "gen-1"); err != nil {
		t.Fatalf("regenerate failed: %v", err)
	}

	if gen.lastAttrs.TargetLanguage != "Spanish" {
		t.Errorf("expected overlay language used, got %q", gen.lastAttrs.TargetLanguage)
	}
	if gen.lastAttrs.ProductName != "Keyboard" {
		t.Errorf("product name must come from the record, got %q", gen.lastAttrs.ProductName)
	}
	if gen.lastAttrs.ProductCategory != "Electronics" {
		t.Errorf("untouched fields must fall back to stored values, got %q", gen.lastAttrs.ProductCategory)
	}
	if overlay.PendingText != "Descripción regenerada" {
		t.Errorf("expected pending text set, got %q", overlay.PendingText)
	}
	// The stored record is untouched until save-update
	if h.Records()[0].FinalDescription != "Original description for Keyboard" {
		t.Error("regenerate must not modify the stored record")
	}
}

func TestHistorySession_RegenerateRequiresOpenEditor(t *testing.T) {
	gen := &fakeGenerator{text: "unused"}
	store := &fakeStore{records: []domain.Generation{testRecord("gen-1", "Keyboard")}}
	h := loadedHistory(t, gen, &fakeTranslator{}, store, &fakeConfirmer{})

	if err := h.Regenerate(context.Background(), "gen-1"); !IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if gen.callCount() != 0 {
		t.Error("regenerate without an editor must not reach the generator")
	}
}

func TestHistorySession_RegenerateFailureKeepsPendingText(t *testing.T) {
	gen := &fakeGenerator{text: "first candidate"}
	store := &fakeStore{records: []domain.Generation{testRecord("gen-1", "Keyboard")}}
	h := loadedHistory(t, gen, &fakeTranslator{}, store, &fakeConfirmer{})

	if err := h.BeginEdit("gen-1"); err != nil {
		t.Fatalf("begin edit failed: %v", err)
	}
	if err := h.Regenerate(context.Background(), "gen-1"); err != nil {
		t.Fatalf("regenerate failed: %v", err)
	}

	gen.err = errors.New("rate limited")
	if err := h.Regenerate(context.Background(), "gen-1"); err == nil {
		t.Fatal("expected regenerate to fail")
	}

	overlay := h.Overlay("gen-1")
	if overlay.PendingText != "first candidate" {
		t.Errorf("failure must keep prior pending text, got %q", overlay.PendingText)
	}
	if overlay.Err == "" {
		t.Error("expected error surfaced on the overlay")
	}
}

func TestHistorySession_RegenerateBusy(t *testing.T) {
	gen := &fakeGenerator{
		text:    "slow",
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	store := &fakeStore{records: []domain.Generation{testRecord("gen-1", "Keyboard")}}
	h := loadedHistory(t, gen, &fakeTranslator{}, store, &fakeConfirmer{})

	if err := h.BeginEdit("gen-1"); err != nil {
		t.Fatalf("begin edit failed: %v", err)
	}

	done := make(chan error, 1)
	go func() {
		done <- h.Regenerate(context.Background(), "gen-1")
	}()
	<-gen.started

	if err := h.Regenerate(context.Background(), "gen-1"); err != ErrBusy {
		t.Errorf("expected ErrBusy, got %v", err)
	}

	close(gen.release)
	if err := <-done; err != nil {
		t.Fatalf("first regenerate failed: %v", err)
	}
}

func TestHistorySession_RegenerateAfterCancelDiscardsResult(t *testing.T) {
	gen := &fakeGenerator{
		text:    "late result",
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	store := &fakeStore{records: []domain.Generation{testRecord("gen-1", "Keyboard")}}
	h := loadedHistory(t, gen, &fakeTranslator{}, store, &fakeConfirmer{})

	if err := h.BeginEdit("gen-1"); err != nil {
		t.Fatalf("begin edit failed: %v", err)
	}

	done := make(chan error, 1)
	go func() {
		done <- h.Regenerate(context.Background(), "gen-1")
	}()
	<-gen.started

	h.CancelEdit()
	close(gen.release)

	if err := <-done; err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if h.Overlay("gen-1") != nil {
		t.Error("cancelled edit must stay cancelled after the call returns")
	}
}

func TestHistorySession_SaveUpdateRequiresPendingText(t *testing.T) {
	store := &fakeStore{records: []domain.Generation{testRecord("gen-1", "Keyboard")}}
	h := loadedHistory(t, &fakeGenerator{}, &fakeTranslator{}, store, &fakeConfirmer{})

	if err := h.BeginEdit("gen-1"); err != nil {
		t.Fatalf("begin edit failed: %v", err)
	}

	err := h.SaveUpdate(context.Background(), "gen-1")
	if !IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if store.saveCalls != 0 {
		t.Error("save-update without pending text must not reach the store")
	}
}

func TestHistorySession_SaveUpdateSuccess(t *testing.T) {
	gen := &fakeGenerator{text: "Regenerated copy"}
	rec := testRecord("gen-1", "Keyboard")
	rec.ImageURLs = domain.StringArray{"https://cdn.example/img1.png"}
	store := &fakeStore{
		records:    []domain.Generation{rec},
		saveResult: SaveResult{ID: "gen-1", Updated: true},
	}
	h := loadedHistory(t, gen, &fakeTranslator{}, store, &fakeConfirmer{})

	if err := h.BeginEdit("gen-1"); err != nil {
		t.Fatalf("begin edit failed: %v", err)
	}
	overlay := h.Overlay("gen-1")
	audience := "everyone"
	overlay.TargetAudience = &audience

	if err := h.Regenerate(context.Background(), "gen-1"); err != nil {
		t.Fatalf("regenerate failed: %v", err)
	}

	// The list reload after save returns the updated record
	updated := rec
	updated.TargetAudience = "everyone"
	updated.FinalDescription = "Regenerated copy"
	store.mu.Lock()
	store.records = []domain.Generation{updated}
	store.mu.Unlock()

	if err := h.SaveUpdate(context.Background(), "gen-1"); err != nil {
		t.Fatalf("save-update failed: %v", err)
	}

	if store.lastText != "Regenerated copy" {
		t.Errorf("expected pending text persisted, got %q", store.lastText)
	}
	if store.lastAttrs.TargetAudience != "everyone" {
		t.Errorf("expected overlay audience persisted, got %q", store.lastAttrs.TargetAudience)
	}
	if len(store.lastURLs) != 1 || store.lastURLs[0] != "https://cdn.example/img1.png" {
		t.Errorf("stored image URLs must be preserved unchanged, got %v", store.lastURLs)
	}
	if h.EditingID() != "" {
		t.Error("successful save-update must close the editor")
	}
	if h.Records()[0].FinalDescription != "Regenerated copy" {
		t.Error("expected reloaded record in the list")
	}
}

func TestHistorySession_SaveUpdateFailureKeepsEditing(t *testing.T) {
	gen := &fakeGenerator{text: "candidate"}
	store := &fakeStore{
		records: []domain.Generation{testRecord("gen-1", "Keyboard")},
		saveErr: errors.New("write conflict"),
	}
	h := loadedHistory(t, gen, &fakeTranslator{}, store, &fakeConfirmer{})

	if err := h.BeginEdit("gen-1"); err != nil {
		t.Fatalf("begin edit failed: %v", err)
	}
	if err := h.Regenerate(context.Background(), "gen-1"); err != nil {
		t.Fatalf("regenerate failed: %v", err)
	}
	if err := h.SaveUpdate(context.Background(), "gen-1"); err == nil {
		t.Fatal("expected save-update to fail")
	}

	if h.EditingID() != "gen-1" {
		t.Error("failed save-update must keep the editor open")
	}
	overlay := h.Overlay("gen-1")
	if overlay.PendingText != "candidate" {
		t.Error("failed save-update must keep the pending text for retry")
	}
	if overlay.Err == "" {
		t.Error("expected error surfaced on the overlay")
	}
}

func TestHistorySession_DeleteConfirmed(t *testing.T) {
	store := &fakeStore{records: []domain.Generation{
		testRecord("gen-1", "Keyboard"),
		testRecord("gen-2", "Desk Lamp"),
	}}
	confirm := &fakeConfirmer{answer: true}
	h := loadedHistory(t, &fakeGenerator{}, &fakeTranslator{}, store, confirm)

	// Open a panel so deletion can be seen clearing it
	if h.TogglePanel("gen-1") == nil {
		t.Fatal("expected a panel")
	}

	if err := h.DeleteRecord(context.Background(), "gen-1"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	if len(confirm.prompts) != 1 {
		t.Fatalf("expected one confirmation prompt, got %d", len(confirm.prompts))
	}
	if store.deletedID != "gen-1" {
		t.Errorf("expected gen-1 deleted, got %q", store.deletedID)
	}
	records := h.Records()
	if len(records) != 1 || records[0].ID != "gen-2" {
		t.Errorf("expected gen-1 removed from the list, got %v", records)
	}
	if h.Panel("gen-1") != nil {
		t.Error("deleting a record must drop its translation panel")
	}
}

func TestHistorySession_DeleteDeclined(t *testing.T) {
	store := &fakeStore{records: []domain.Generation{testRecord("gen-1", "Keyboard")}}
	confirm := &fakeConfirmer{answer: false}
	h := loadedHistory(t, &fakeGenerator{}, &fakeTranslator{}, store, confirm)

	if err := h.DeleteRecord(context.Background(), "gen-1"); err != nil {
		t.Fatalf("declined delete must not error: %v", err)
	}
	if store.deleteCalls != 0 {
		t.Error("declined delete must not reach the store")
	}
	if len(h.Records()) != 1 {
		t.Error("declined delete must keep the record")
	}
}

func TestHistorySession_DeleteFailure(t *testing.T) {
	store := &fakeStore{
		records:   []domain.Generation{testRecord("gen-1", "Keyboard")},
		deleteErr: errors.New("generation not found"),
	}
	confirm := &fakeConfirmer{answer: true}
	h := loadedHistory(t, &fakeGenerator{}, &fakeTranslator{}, store, confirm)

	if err := h.DeleteRecord(context.Background(), "gen-1"); err == nil {
		t.Fatal("expected delete to fail")
	}
	if len(h.Records()) != 1 {
		t.Error("failed delete must keep the record in the list")
	}
	if h.Err() == "" {
		t.Error("expected a user-facing error message")
	}
}

func TestHistorySession_DeleteWhileEditingClosesEditor(t *testing.T) {
	store := &fakeStore{records: []domain.Generation{testRecord("gen-1", "Keyboard")}}
	confirm := &fakeConfirmer{answer: true}
	h := loadedHistory(t, &fakeGenerator{}, &fakeTranslator{}, store, confirm)

	if err := h.BeginEdit("gen-1"); err != nil {
		t.Fatalf("begin edit failed: %v", err)
	}
	if err := h.DeleteRecord(context.Background(), "gen-1"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if h.EditingID() != "" {
		t.Error("deleting the edited record must close the editor")
	}
}

func TestEffectiveAttributes(t *testing.T) {
	rec := testRecord("gen-1", "Keyboard")

	if got := EffectiveAttributes(&rec, nil); got != rec.Attributes() {
		t.Errorf("nil overlay must yield stored attributes, got %+v", got)
	}

	language := "French"
	overlay := &EditOverlay{TargetLanguage: &language}
	got := EffectiveAttributes(&rec, overlay)
	if got.TargetLanguage != "French" {
		t.Errorf("expected overlay language, got %q", got.TargetLanguage)
	}
	if got.ProductCategory != "Electronics" {
		t.Errorf("unset overlay fields must fall back to the record, got %q", got.ProductCategory)
	}
	if got.ProductName != "Keyboard" {
		t.Errorf("product name always comes from the record, got %q", got.ProductName)
	}
}
