package repository

import (
	"context"
	"time"

	"world-events/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Transaction runs fn against a repository bound to a single database
// transaction. Everything fn writes commits or rolls back as one unit.
func (r *Repository) Transaction(ctx context.Context, fn func(txRepo *Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Repository{db: tx})
	})
}

// ==================== Events ====================

// CreateEvent persists a new event with its modifiers and contributions.
func (r *Repository) CreateEvent(ctx context.Context, event *models.Event) error {
	return r.db.WithContext(ctx).Create(event).Error
}

// GetEventByID retrieves an event with its owned modifier and contribution records.
func (r *Repository) GetEventByID(ctx context.Context, eventID uuid.UUID) (*models.Event, error) {
	var event models.Event
	err := r.db.WithContext(ctx).
		Preload("Modifiers").
		Preload("Contributions").
		Where("id = ?", eventID).
		First(&event).Error
	if err != nil {
		return nil, err
	}
	return &event, nil
}

// SaveEvent updates an event's own columns. Child records are written
// through their own methods, never cascaded from here.
func (r *Repository) SaveEvent(ctx context.Context, event *models.Event) error {
	return r.db.WithContext(ctx).Omit("Modifiers", "Contributions", "CreatedBy").Save(event).Error
}

// GetEventsByStatus retrieves all events in a given status, modifiers preloaded.
func (r *Repository) GetEventsByStatus(ctx context.Context, status models.EventStatus) ([]*models.Event, error) {
	var events []*models.Event
	err := r.db.WithContext(ctx).
		Preload("Modifiers").
		Where("status = ?", status).
		Order("created_at ASC").
		Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}

// ListEvents retrieves events with optional title search and status filter.
func (r *Repository) ListEvents(
	ctx context.Context,
	search string,
	status models.EventStatus,
	limit, offset int,
) ([]*models.Event, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Event{})
	if search != "" {
		query = query.Where("title LIKE ?", "%"+search+"%")
	}
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var events []*models.Event
	err := query.
		Preload("Modifiers").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&events).Error
	if err != nil {
		return nil, 0, err
	}

	return events, total, nil
}

// CountEventsByCreatorSince counts events a user created after the cutoff.
func (r *Repository) CountEventsByCreatorSince(ctx context.Context, userID uint, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Event{}).
		Where("created_by_id = ? AND created_at > ?", userID, since).
		Count(&count).Error
	return count, err
}

// CreateContribution appends a contribution record.
func (r *Repository) CreateContribution(ctx context.Context, c *models.Contribution) error {
	return r.db.WithContext(ctx).Create(c).Error
}

// LinkModifierToZone sets the one-shot zone backlink on a modifier.
func (r *Repository) LinkModifierToZone(ctx context.Context, modifierID, zoneID uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&models.EventModifier{}).
		Where("id = ?", modifierID).
		Update("linked_zone_id", zoneID).Error
}

// ==================== Zones ====================

// CreateZone persists a zone together with its overrides.
func (r *Repository) CreateZone(ctx context.Context, zone *models.Zone) error {
	return r.db.WithContext(ctx).Create(zone).Error
}

// GetZoneByID retrieves a zone by ID
func (r *Repository) GetZoneByID(ctx context.Context, zoneID uuid.UUID) (*models.Zone, error) {
	var zone models.Zone
	err := r.db.WithContext(ctx).
		Preload("Overrides").
		Where("id = ?", zoneID).
		First(&zone).Error
	if err != nil {
		return nil, err
	}
	return &zone, nil
}

// GetEnabledZones retrieves all currently enabled zones.
func (r *Repository) GetEnabledZones(ctx context.Context) ([]*models.Zone, error) {
	var zones []*models.Zone
	err := r.db.WithContext(ctx).
		Preload("Overrides").
		Where("enabled = ?", true).
		Find(&zones).Error
	if err != nil {
		return nil, err
	}
	return zones, nil
}

// DisableZone flips a zone off. Zones are never hard-deleted.
func (r *Repository) DisableZone(ctx context.Context, zoneID uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&models.Zone{}).
		Where("id = ?", zoneID).
		Update("enabled", false).Error
}

// ==================== Ledger ====================

// CreateLedgerEntry appends a currency movement record.
func (r *Repository) CreateLedgerEntry(ctx context.Context, entry *models.LedgerEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// GetLedgerEntryByID retrieves a ledger entry by ID
func (r *Repository) GetLedgerEntryByID(ctx context.Context, entryID uuid.UUID) (*models.LedgerEntry, error) {
	var entry models.LedgerEntry
	err := r.db.WithContext(ctx).Where("id = ?", entryID).First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// SaveLedgerEntry updates an existing ledger entry.
func (r *Repository) SaveLedgerEntry(ctx context.Context, entry *models.LedgerEntry) error {
	return r.db.WithContext(ctx).Save(entry).Error
}

// GetUnreversedEntries retrieves entries for a reference that have not been
// reversed yet, oldest first.
func (r *Repository) GetUnreversedEntries(
	ctx context.Context,
	reference string,
	kind models.LedgerEntryKind,
) ([]*models.LedgerEntry, error) {
	var entries []*models.LedgerEntry
	err := r.db.WithContext(ctx).
		Where("reference = ? AND kind = ? AND reversed = ?", reference, kind, false).
		Order("created_at ASC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// GetUserLedgerEntries retrieves a user's transaction history, newest first.
func (r *Repository) GetUserLedgerEntries(
	ctx context.Context,
	userID uint,
	limit, offset int,
) ([]*models.LedgerEntry, int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&models.LedgerEntry{}).
		Where("user_id = ?", userID).
		Count(&total).Error
	if err != nil {
		return nil, 0, err
	}

	var entries []*models.LedgerEntry
	err = r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&entries).Error
	if err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

// ==================== Characters and users ====================

// GetUserByID retrieves a user by ID
func (r *Repository) GetUserByID(ctx context.Context, userID uint) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("id = ?", userID).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserCharacters retrieves a user's characters in stable id order, which
// is also the order contributions draw balances from.
func (r *Repository) GetUserCharacters(ctx context.Context, userID uint) ([]*models.Character, error) {
	var characters []*models.Character
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id ASC").
		Find(&characters).Error
	if err != nil {
		return nil, err
	}
	return characters, nil
}

// GetCharacterByID retrieves a character by ID
func (r *Repository) GetCharacterByID(ctx context.Context, characterID uint) (*models.Character, error) {
	var character models.Character
	err := r.db.WithContext(ctx).Where("id = ?", characterID).First(&character).Error
	if err != nil {
		return nil, err
	}
	return &character, nil
}

// SaveCharacter updates a character's balance.
func (r *Repository) SaveCharacter(ctx context.Context, character *models.Character) error {
	return r.db.WithContext(ctx).Save(character).Error
}

// ==================== World settings ====================

// GetSetting retrieves a world setting by key and config type.
func (r *Repository) GetSetting(
	ctx context.Context,
	key string,
	configType models.ConfigType,
) (*models.WorldSetting, error) {
	var setting models.WorldSetting
	err := r.db.WithContext(ctx).
		Where("setting_key = ? AND config_type = ?", key, configType).
		First(&setting).Error
	if err != nil {
		return nil, err
	}
	return &setting, nil
}

// SaveSetting updates a world setting.
func (r *Repository) SaveSetting(ctx context.Context, setting *models.WorldSetting) error {
	return r.db.WithContext(ctx).Save(setting).Error
}
