package services

import (
	"context"
	"errors"
	"testing"

	"world-events/internal/models"
	"world-events/internal/repository"
)

func TestReverseIsAtMostOnce(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewRepository(db)
	ls := NewLedgerService(repo)
	ctx := context.Background()

	user := seedUser(t, db, 1, "alice", 100)
	var character models.Character
	db.Where("user_id = ?", user.ID).First(&character)

	character.CurrencyPoints -= 80
	if err := db.Save(&character).Error; err != nil {
		t.Fatalf("failed to debit character: %v", err)
	}
	entry, err := ls.Record(ctx, user, &character, models.LedgerKindContribution, "Event: test", "event_test", 80)
	if err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	if err := ls.Reverse(ctx, entry.ID, "alice"); err != nil {
		t.Fatalf("Reverse failed: %v", err)
	}

	db.Where("user_id = ?", user.ID).First(&character)
	if character.CurrencyPoints != 100 {
		t.Errorf("expected balance restored to 100, got %d", character.CurrencyPoints)
	}

	err = ls.Reverse(ctx, entry.ID, "alice")
	if !errors.Is(err, ErrAlreadyReversed) {
		t.Fatalf("expected ErrAlreadyReversed, got %v", err)
	}
	db.Where("user_id = ?", user.ID).First(&character)
	if character.CurrencyPoints != 100 {
		t.Errorf("second reverse must not credit again, got %d", character.CurrencyPoints)
	}
}

func TestReverseWritesCompensatingEntry(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewRepository(db)
	ls := NewLedgerService(repo)
	ctx := context.Background()

	user := seedUser(t, db, 1, "alice", 500)
	var character models.Character
	db.Where("user_id = ?", user.ID).First(&character)

	character.CurrencyPoints -= 200
	db.Save(&character)
	entry, err := ls.Record(ctx, user, &character, models.LedgerKindContribution, "Event: test", "event_test", 200)
	if err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if entry.BalanceAfter != 300 {
		t.Errorf("expected balance snapshot 300, got %d", entry.BalanceAfter)
	}

	if err := ls.Reverse(ctx, entry.ID, "admin"); err != nil {
		t.Fatalf("Reverse failed: %v", err)
	}

	var cashback models.LedgerEntry
	err = db.Where("reference = ? AND kind = ?", "event_test", models.LedgerKindRefund).First(&cashback).Error
	if err != nil {
		t.Fatalf("expected cashback entry: %v", err)
	}
	if cashback.Amount != 200 {
		t.Errorf("expected cashback amount 200, got %d", cashback.Amount)
	}
	if cashback.BalanceAfter != 500 {
		t.Errorf("expected cashback balance snapshot 500, got %d", cashback.BalanceAfter)
	}

	var original models.LedgerEntry
	db.Where("id = ?", entry.ID).First(&original)
	if !original.Reversed || original.ReversedBy == nil || *original.ReversedBy != "admin" {
		t.Errorf("expected original marked reversed by admin, got %+v", original)
	}
}

func TestRefundEventContributionsEmptyIsNoop(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewRepository(db)
	ls := NewLedgerService(repo)

	event := &models.Event{Title: "Empty"}
	refunded, err := ls.RefundEventContributions(context.Background(), event, "system")
	if err != nil {
		t.Fatalf("RefundEventContributions failed: %v", err)
	}
	if refunded != 0 {
		t.Errorf("expected 0 refunds, got %d", refunded)
	}
}
