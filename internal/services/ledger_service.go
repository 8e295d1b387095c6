package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"world-events/internal/models"
	"world-events/internal/repository"

	"github.com/google/uuid"
)

var ErrAlreadyReversed = errors.New("ledger entry already reversed")

// LedgerService keeps the append-only record of currency movements and owns
// the refund path. Reversal is at-most-once per entry, which is what makes
// refunds safe to re-run from both user actions and the sweeper.
type LedgerService struct {
	repo *repository.Repository
}

func NewLedgerService(repo *repository.Repository) *LedgerService {
	return &LedgerService{repo: repo}
}

// Record appends one signed ledger entry for a deduction already applied to
// the character. BalanceAfter snapshots the character's balance post-write.
func (ls *LedgerService) Record(
	ctx context.Context,
	user *models.User,
	character *models.Character,
	kind models.LedgerEntryKind,
	description string,
	reference string,
	amount int,
) (*models.LedgerEntry, error) {
	return ls.record(ctx, ls.repo, user, character, kind, description, reference, amount)
}

func (ls *LedgerService) record(
	ctx context.Context,
	r *repository.Repository,
	user *models.User,
	character *models.Character,
	kind models.LedgerEntryKind,
	description string,
	reference string,
	amount int,
) (*models.LedgerEntry, error) {
	entry := &models.LedgerEntry{
		ID:            uuid.New(),
		UserID:        user.ID,
		CharacterID:   character.ID,
		Kind:          kind,
		Reference:     reference,
		Description:   description,
		Amount:        amount,
		BalanceAfter:  character.CurrencyPoints,
		CharacterName: character.PlayerName,
		Username:      user.Username,
		CreatedAt:     time.Now(),
	}

	if err := r.CreateLedgerEntry(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to record ledger entry: %w", err)
	}

	log.Printf("Ledger: %s %s for %s (%d points)", kind, description, character.PlayerName, amount)
	return entry, nil
}

// Reverse credits an entry's amount back to its originating character and
// marks the entry reversed. A second Reverse on the same entry fails with
// ErrAlreadyReversed.
func (ls *LedgerService) Reverse(ctx context.Context, entryID uuid.UUID, actor string) error {
	return ls.repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		return ls.reverse(ctx, txRepo, entryID, actor)
	})
}

func (ls *LedgerService) reverse(ctx context.Context, r *repository.Repository, entryID uuid.UUID, actor string) error {
	entry, err := r.GetLedgerEntryByID(ctx, entryID)
	if err != nil {
		return fmt.Errorf("ledger entry not found: %w", err)
	}

	if entry.Reversed {
		return ErrAlreadyReversed
	}

	character, err := r.GetCharacterByID(ctx, entry.CharacterID)
	if err != nil {
		return fmt.Errorf("failed to load character for refund: %w", err)
	}

	character.CurrencyPoints += entry.Amount
	if err := r.SaveCharacter(ctx, character); err != nil {
		return fmt.Errorf("failed to credit character %s: %w", character.PlayerName, err)
	}

	now := time.Now()
	entry.Reversed = true
	entry.ReversedAt = &now
	entry.ReversedBy = &actor
	if err := r.SaveLedgerEntry(ctx, entry); err != nil {
		return fmt.Errorf("failed to mark entry reversed: %w", err)
	}

	// Compensating entry so the history shows the credit, not a vanished debit
	cashback := &models.LedgerEntry{
		ID:            uuid.New(),
		UserID:        entry.UserID,
		CharacterID:   entry.CharacterID,
		Kind:          models.LedgerKindRefund,
		Reference:     entry.Reference,
		Description:   "Refund: " + entry.Description,
		Amount:        entry.Amount,
		BalanceAfter:  character.CurrencyPoints,
		CharacterName: character.PlayerName,
		Username:      entry.Username,
		CreatedAt:     now,
	}
	if err := r.CreateLedgerEntry(ctx, cashback); err != nil {
		return fmt.Errorf("failed to record refund entry: %w", err)
	}

	log.Printf("Ledger: reversed entry %s by %s (%d points back to %s)",
		entry.ID, actor, entry.Amount, character.PlayerName)
	return nil
}

// RefundEventContributions reverses every un-reversed contribution entry
// tagged to the event. Entries already reversed are skipped, so re-running
// the refund, from the sweeper or anywhere else, changes nothing. An event
// with zero contributions refunds zero entries and is not an error.
func (ls *LedgerService) RefundEventContributions(ctx context.Context, event *models.Event, actor string) (int, error) {
	entries, err := ls.repo.GetUnreversedEntries(ctx, event.Reference(), models.LedgerKindContribution)
	if err != nil {
		return 0, fmt.Errorf("failed to list contribution entries: %w", err)
	}

	refunded := 0
	for _, entry := range entries {
		err := ls.Reverse(ctx, entry.ID, actor)
		if errors.Is(err, ErrAlreadyReversed) {
			continue
		}
		if err != nil {
			log.Printf("Warning: failed to refund ledger entry %s for event %s: %v", entry.ID, event.ID, err)
			continue
		}
		refunded++
	}

	if refunded > 0 {
		log.Printf("Refunded %d contribution entries for event %q", refunded, event.Title)
	}
	return refunded, nil
}
