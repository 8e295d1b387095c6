package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"world-events/internal/catalog"
	"world-events/internal/models"
	"world-events/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const refundActorSweeper = "SYSTEM_EVENT_EXPIRY"

// EventService owns the event state machine: creation, funding, activation,
// expiration and cancellation. Every state-changing operation on an event
// runs under that event's lock, and the PENDING→ACTIVE transition is
// re-checked inside the same transaction that moves the money, so two
// contributions crossing the funding threshold at once activate exactly once.
type EventService struct {
	repo         *repository.Repository
	ledger       *LedgerService
	settings     *SettingsService
	weeklyLimit  int
	durationDays int

	eventLocks entityLocks
	userLocks  entityLocks
}

func NewEventService(
	repo *repository.Repository,
	ledger *LedgerService,
	settings *SettingsService,
	weeklyLimit int,
	durationDays int,
) *EventService {
	return &EventService{
		repo:         repo,
		ledger:       ledger,
		settings:     settings,
		weeklyLimit:  weeklyLimit,
		durationDays: durationDays,
	}
}

// ==================== Queries ====================

// GetEventByID retrieves an event with its modifiers and contributions.
func (es *EventService) GetEventByID(ctx context.Context, eventID uuid.UUID) (*models.Event, error) {
	return es.repo.GetEventByID(ctx, eventID)
}

// ListEvents retrieves events with optional title search and status filter.
func (es *EventService) ListEvents(
	ctx context.Context,
	search string,
	status models.EventStatus,
	limit, offset int,
) ([]*models.Event, int64, error) {
	return es.repo.ListEvents(ctx, search, status, limit, offset)
}

// WeeklyEventsCreated returns how many events the user created in the last 7 days.
func (es *EventService) WeeklyEventsCreated(ctx context.Context, userID uint) (int64, error) {
	oneWeekAgo := time.Now().AddDate(0, 0, -7)
	return es.repo.CountEventsByCreatorSince(ctx, userID, oneWeekAgo)
}

// WeeklyEventsRemaining returns how many events the user can still create this week.
func (es *EventService) WeeklyEventsRemaining(ctx context.Context, userID uint) (int, error) {
	created, err := es.WeeklyEventsCreated(ctx, userID)
	if err != nil {
		return 0, err
	}
	remaining := es.weeklyLimit - int(created)
	if remaining < 0 {
		remaining = 0
	}
	return remaining, nil
}

// UserBalance returns the user's total currency across all characters.
func (es *EventService) UserBalance(ctx context.Context, userID uint) (int, error) {
	characters, err := es.repo.GetUserCharacters(ctx, userID)
	if err != nil {
		return 0, err
	}
	total := 0
	for _, c := range characters {
		total += c.CurrencyPoints
	}
	return total, nil
}

// ActiveModifiersByKey returns all modifiers from currently active events,
// grouped by property key. Before collecting, each active event is checked
// for expiration; overdue events are deactivated on the spot rather than
// served stale. Pass an empty target to include both sandbox and zone
// modifiers.
func (es *EventService) ActiveModifiersByKey(
	ctx context.Context,
	target models.ModifierTarget,
) (map[string][]models.EventModifier, error) {
	active, err := es.repo.GetEventsByStatus(ctx, models.EventStatusActive)
	if err != nil {
		return nil, fmt.Errorf("failed to load active events: %w", err)
	}

	now := time.Now()
	grouped := make(map[string][]models.EventModifier)

	for _, event := range active {
		if event.ExpirationDate != nil && event.ExpirationDate.Before(now) {
			if err := es.Deactivate(ctx, event.ID); err != nil {
				log.Printf("Failed to auto-expire event %s during modifier read: %v", event.ID, err)
			} else {
				log.Printf("Auto-expired event %q during modifier read", event.Title)
			}
			continue
		}
		for _, m := range event.Modifiers {
			if target != "" && m.Target != target {
				continue
			}
			grouped[m.PropertyKey] = append(grouped[m.PropertyKey], m)
		}
	}

	return grouped, nil
}

// ==================== Create ====================

// CreateEventResult reports the outcome of a creation attempt. Business-rule
// violations land in OK/Message; infrastructure failures are returned as errors.
type CreateEventResult struct {
	OK      bool
	Message string
	Event   *models.Event
}

func createFailure(format string, args ...interface{}) (CreateEventResult, error) {
	return CreateEventResult{OK: false, Message: fmt.Sprintf(format, args...)}, nil
}

// CreateEvent validates the user's catalog selections, recomputes every cost
// and delta server-side and persists a PENDING event. Client-submitted cost
// or delta values are never trusted.
func (es *EventService) CreateEvent(
	ctx context.Context,
	user *models.User,
	req *models.CreateEventRequest,
) (CreateEventResult, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return createFailure("event title is required")
	}
	if len(req.Selections) == 0 {
		return createFailure("select at least one modifier")
	}

	remaining, err := es.WeeklyEventsRemaining(ctx, user.ID)
	if err != nil {
		return CreateEventResult{}, fmt.Errorf("failed to check weekly limit: %w", err)
	}
	if remaining <= 0 {
		return createFailure("you reached the limit of %d events per week, try again later", es.weeklyLimit)
	}

	event := &models.Event{
		ID:           uuid.New(),
		Title:        title,
		Description:  strings.TrimSpace(req.Description),
		CreatedByID:  user.ID,
		Status:       models.EventStatusPending,
		DurationDays: es.durationDays,
		CreatedAt:    time.Now(),
	}

	totalCost := 0
	hasZoneModifiers := false

	for _, sel := range req.Selections {
		def, ok := catalog.Lookup(sel.CatalogKey)
		if !ok {
			return createFailure("invalid modifier: %s", sel.CatalogKey)
		}

		value := strings.TrimSpace(sel.Value)
		tier := 0
		cost := 0
		delta := ""

		switch def.ValueKind {
		case models.ValueKindBoolean:
			value = "true"
			cost = def.BaseCost
			delta = "true"

		case models.ValueKindText:
			if value == "" {
				return createFailure("text is required for %s", def.DisplayName)
			}
			cost = def.BaseCost
			delta = value

		case models.ValueKindPercentage:
			tier, err = strconv.Atoi(value)
			if err != nil {
				return createFailure("invalid value for %s", def.DisplayName)
			}
			if !def.ValidTier(tier) {
				return createFailure("invalid percentage for %s", def.DisplayName)
			}
			cost, err = def.Cost(tier)
			if err != nil {
				return createFailure("invalid percentage for %s", def.DisplayName)
			}
			delta = def.DeltaString(tier)

		case models.ValueKindAbsolute:
			absValue, parseErr := strconv.ParseFloat(value, 64)
			if parseErr != nil {
				return createFailure("invalid value for %s", def.DisplayName)
			}
			if !def.ValidAbsolute(absValue) {
				return createFailure("value out of bounds for %s", def.DisplayName)
			}
			cost, err = def.CostForAbsolute(absValue)
			if err != nil {
				return CreateEventResult{}, fmt.Errorf("catalog inconsistency for %s: %w", def.Key, err)
			}
			delta = value
		}

		// Sandbox percentage modifiers with a cap must not push the world's
		// effective value beyond it. A missing setting is a hard failure
		// here: the event's effect could never be verified.
		if def.Target == models.TargetSandbox &&
			def.ValueKind == models.ValueKindPercentage &&
			def.MaxValue != nil {
			current, err := es.settings.CurrentValue(ctx, def)
			if errors.Is(err, ErrSettingNotFound) {
				return createFailure("world setting not found for %s", def.DisplayName)
			}
			if err != nil {
				return CreateEventResult{}, err
			}
			if current+def.Delta(tier) > *def.MaxValue {
				return createFailure("%s would exceed the allowed maximum (%v), current value: %v",
					def.DisplayName, *def.MaxValue, current)
			}
		}

		modifier := models.EventModifier{
			ID:              uuid.New(),
			EventID:         event.ID,
			CatalogKey:      def.Key,
			Target:          def.Target,
			PropertyKey:     def.PropertyKey,
			DisplayName:     def.DisplayName,
			ValueKind:       def.ValueKind,
			SelectedValue:   value,
			CalculatedDelta: delta,
			Cost:            cost,
			CreatedAt:       time.Now(),
		}

		if def.Target == models.TargetZone {
			hasZoneModifiers = true
			modifier.ZoneX1 = req.ZoneX1
			modifier.ZoneX2 = req.ZoneX2
			modifier.ZoneY1 = req.ZoneY1
			modifier.ZoneY2 = req.ZoneY2
			z := 0
			if req.ZoneZ != nil {
				z = *req.ZoneZ
			}
			modifier.ZoneZ = &z
		}

		event.Modifiers = append(event.Modifiers, modifier)
		totalCost += cost
	}

	if hasZoneModifiers {
		if req.ZoneX1 == nil || req.ZoneX2 == nil || req.ZoneY1 == nil || req.ZoneY2 == nil {
			return createFailure("zone coordinates are required for zone modifiers")
		}
		conflict, err := es.CheckZoneOverlap(ctx, *req.ZoneX1, *req.ZoneX2, *req.ZoneY1, *req.ZoneY2)
		if err != nil {
			return CreateEventResult{}, err
		}
		if conflict != "" {
			return createFailure("the proposed zone overlaps the existing zone: %s", conflict)
		}
		if name := strings.TrimSpace(req.ZoneName); name != "" {
			event.ZoneName = &name
		}
	}

	event.TotalCost = totalCost

	if err := es.repo.CreateEvent(ctx, event); err != nil {
		return CreateEventResult{}, fmt.Errorf("failed to create event: %w", err)
	}

	log.Printf("Event created: %q (ID: %s, cost: %d) by user %s", event.Title, event.ID, totalCost, user.Username)
	return CreateEventResult{
		OK:      true,
		Message: fmt.Sprintf("event created, total cost: %d", totalCost),
		Event:   event,
	}, nil
}

// ==================== Contribute ====================

// ContributeResult reports the outcome of a contribution attempt.
type ContributeResult struct {
	OK        bool
	Message   string
	Amount    int
	Activated bool
}

// Contribute pools currency towards a pending event. The effective amount is
// capped by the remaining cost and the user's total balance, drawn from the
// user's characters in id order with one ledger entry per touched character.
// The character writes, ledger writes and event update commit as one unit.
// A contribution that completes the funding activates the event in the same
// unit.
func (es *EventService) Contribute(
	ctx context.Context,
	eventID uuid.UUID,
	requestedAmount int,
	user *models.User,
) (ContributeResult, error) {
	unlockEvent := es.eventLocks.lock(eventID.String())
	defer unlockEvent()
	unlockUser := es.userLocks.lock(fmt.Sprintf("user-%d", user.ID))
	defer unlockUser()

	var result ContributeResult

	err := es.repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		event, err := txRepo.GetEventByID(ctx, eventID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("event not found: %s", eventID)
			}
			return fmt.Errorf("failed to load event: %w", err)
		}

		if event.Status != models.EventStatusPending {
			result = ContributeResult{OK: false, Message: "this event is not accepting contributions"}
			return nil
		}
		if requestedAmount <= 0 {
			result = ContributeResult{OK: false, Message: "invalid amount"}
			return nil
		}

		characters, err := txRepo.GetUserCharacters(ctx, user.ID)
		if err != nil {
			return fmt.Errorf("failed to load characters: %w", err)
		}
		totalBalance := 0
		for _, c := range characters {
			totalBalance += c.CurrencyPoints
		}

		effective := requestedAmount
		if remaining := event.RemainingAmount(); effective > remaining {
			effective = remaining
		}
		if effective > totalBalance {
			effective = totalBalance
		}
		if effective <= 0 {
			result = ContributeResult{OK: false, Message: "insufficient balance to contribute"}
			return nil
		}

		// Draw from characters in order until the effective amount is covered.
		remainingCost := effective
		for _, character := range characters {
			if remainingCost <= 0 {
				break
			}
			if character.CurrencyPoints <= 0 {
				continue
			}
			deduction := character.CurrencyPoints
			if deduction > remainingCost {
				deduction = remainingCost
			}
			character.CurrencyPoints -= deduction
			remainingCost -= deduction

			if err := txRepo.SaveCharacter(ctx, character); err != nil {
				return fmt.Errorf("failed to save character %s: %w", character.PlayerName, err)
			}
			if _, err := es.ledger.record(ctx, txRepo, user, character,
				models.LedgerKindContribution, "Event: "+event.Title, event.Reference(), deduction); err != nil {
				return err
			}
		}

		contribution := &models.Contribution{
			ID:            uuid.New(),
			EventID:       event.ID,
			UserID:        user.ID,
			Amount:        effective,
			ContributedAt: time.Now(),
		}
		if err := txRepo.CreateContribution(ctx, contribution); err != nil {
			return fmt.Errorf("failed to record contribution: %w", err)
		}

		event.AmountCollected += effective

		if event.FullyFunded() {
			if err := es.activate(ctx, txRepo, event); err != nil {
				return err
			}
			result = ContributeResult{
				OK:        true,
				Message:   fmt.Sprintf("contribution of %d recorded, event funded and activated", effective),
				Amount:    effective,
				Activated: true,
			}
			return nil
		}

		if err := txRepo.SaveEvent(ctx, event); err != nil {
			return fmt.Errorf("failed to save event: %w", err)
		}
		result = ContributeResult{
			OK:      true,
			Message: fmt.Sprintf("contribution of %d recorded, %d still needed", effective, event.RemainingAmount()),
			Amount:  effective,
		}
		return nil
	})
	if err != nil {
		return ContributeResult{}, err
	}
	return result, nil
}

// ==================== Activation ====================

// activate applies every modifier's effect and moves the event to ACTIVE.
// Sandbox applications are best-effort per modifier; zone modifiers become
// one zone built from the first modifier's rectangle, carrying every
// modifier's key/value as an override. Caller holds the event lock.
func (es *EventService) activate(ctx context.Context, txRepo *repository.Repository, event *models.Event) error {
	log.Printf("Activating event: %q (ID: %s)", event.Title, event.ID)

	now := time.Now()
	expiration := now.AddDate(0, 0, event.DurationDays)

	for i := range event.Modifiers {
		m := &event.Modifiers[i]
		if m.Target != models.TargetSandbox {
			continue
		}
		def, ok := catalog.Lookup(m.CatalogKey)
		if !ok || def.ConfigType == "" {
			log.Printf("Warning: cannot apply sandbox modifier, unknown catalog key: %s", m.CatalogKey)
			continue
		}
		delta := parseFloat(m.CalculatedDelta, 0)
		if err := es.settings.applyDelta(ctx, txRepo, def, delta); err != nil {
			log.Printf("Warning: failed to apply sandbox modifier %s: %v", m.PropertyKey, err)
		}
	}

	if err := es.createEventZone(ctx, txRepo, event, expiration); err != nil {
		return err
	}

	event.Status = models.EventStatusActive
	event.ActivatedAt = &now
	event.ExpirationDate = &expiration
	if err := txRepo.SaveEvent(ctx, event); err != nil {
		return fmt.Errorf("failed to save activated event: %w", err)
	}

	log.Printf("Event activated: %q", event.Title)
	return nil
}

// createEventZone builds the single zone for an event's zone modifiers. All
// zone modifiers of one event share the first modifier's rectangle.
func (es *EventService) createEventZone(
	ctx context.Context,
	txRepo *repository.Repository,
	event *models.Event,
	expiration time.Time,
) error {
	var zoneModifiers []*models.EventModifier
	for i := range event.Modifiers {
		if event.Modifiers[i].Target == models.TargetZone {
			zoneModifiers = append(zoneModifiers, &event.Modifiers[i])
		}
	}
	if len(zoneModifiers) == 0 {
		return nil
	}

	first := zoneModifiers[0]
	name := "Event: " + event.Title
	if event.ZoneName != nil && *event.ZoneName != "" {
		name = *event.ZoneName
	}

	zone := &models.Zone{
		ID:             uuid.New(),
		Code:           event.Reference(),
		Name:           name,
		X1:             intOrZero(first.ZoneX1),
		X2:             intOrZero(first.ZoneX2),
		Y1:             intOrZero(first.ZoneY1),
		Y2:             intOrZero(first.ZoneY2),
		Z:              intOrZero(first.ZoneZ),
		Enabled:        true,
		Permanent:      false,
		ExpirationDate: &expiration,
		CreatedAt:      time.Now(),
	}
	for _, m := range zoneModifiers {
		zone.Overrides = append(zone.Overrides, models.ZoneOverride{
			ID:     uuid.New(),
			ZoneID: zone.ID,
			Name:   m.PropertyKey,
			Value:  m.CalculatedDelta,
		})
	}

	if err := txRepo.CreateZone(ctx, zone); err != nil {
		return fmt.Errorf("failed to create event zone: %w", err)
	}

	for _, m := range zoneModifiers {
		if err := txRepo.LinkModifierToZone(ctx, m.ID, zone.ID); err != nil {
			return fmt.Errorf("failed to link modifier %s to zone: %w", m.ID, err)
		}
		zoneID := zone.ID
		m.LinkedZoneID = &zoneID
	}

	log.Printf("Created event zone %s with %d overrides", zone.Code, len(zone.Overrides))
	return nil
}

// ==================== Deactivation ====================

// Deactivate reverts an active event's effects and moves it to EXPIRED.
// Reverting one modifier is best-effort and never blocks the others or the
// status transition. Re-invoking on a non-ACTIVE event is a no-op.
func (es *EventService) Deactivate(ctx context.Context, eventID uuid.UUID) error {
	unlock := es.eventLocks.lock(eventID.String())
	defer unlock()

	return es.repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		event, err := txRepo.GetEventByID(ctx, eventID)
		if err != nil {
			return fmt.Errorf("failed to load event: %w", err)
		}
		if event.Status != models.EventStatusActive {
			return nil
		}

		log.Printf("Deactivating event: %q (ID: %s)", event.Title, event.ID)

		for i := range event.Modifiers {
			m := &event.Modifiers[i]
			if m.Target != models.TargetSandbox {
				continue
			}
			def, ok := catalog.Lookup(m.CatalogKey)
			if !ok || def.ConfigType == "" {
				continue
			}
			delta := parseFloat(m.CalculatedDelta, 0)
			if err := es.settings.revertDelta(ctx, txRepo, def, delta); err != nil {
				log.Printf("Warning: failed to revert sandbox modifier %s: %v", m.PropertyKey, err)
			}
		}

		// Disable each linked zone once, even when several modifiers share it.
		seen := make(map[uuid.UUID]bool)
		for _, m := range event.Modifiers {
			if m.LinkedZoneID == nil || seen[*m.LinkedZoneID] {
				continue
			}
			seen[*m.LinkedZoneID] = true
			if err := txRepo.DisableZone(ctx, *m.LinkedZoneID); err != nil {
				log.Printf("Warning: failed to disable zone %s: %v", *m.LinkedZoneID, err)
				continue
			}
			log.Printf("Disabled event zone %s", *m.LinkedZoneID)
		}

		now := time.Now()
		event.Status = models.EventStatusExpired
		event.ExpiredAt = &now
		if err := txRepo.SaveEvent(ctx, event); err != nil {
			return fmt.Errorf("failed to save expired event: %w", err)
		}

		log.Printf("Event deactivated: %q", event.Title)
		return nil
	})
}

// ==================== Cancel ====================

// CancelEventResult reports the outcome of a cancellation attempt.
type CancelEventResult struct {
	OK      bool
	Message string
}

// CancelEvent lets the creator cancel their own PENDING event. Every
// contribution is refunded through the ledger before the status flips.
func (es *EventService) CancelEvent(ctx context.Context, eventID uuid.UUID, user *models.User) (CancelEventResult, error) {
	unlock := es.eventLocks.lock(eventID.String())
	defer unlock()

	event, err := es.repo.GetEventByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return CancelEventResult{OK: false, Message: "event not found"}, nil
		}
		return CancelEventResult{}, fmt.Errorf("failed to load event: %w", err)
	}

	if event.CreatedByID != user.ID {
		return CancelEventResult{OK: false, Message: "only the event creator can cancel it"}, nil
	}
	if event.Status != models.EventStatusPending {
		return CancelEventResult{OK: false, Message: "only pending events can be cancelled"}, nil
	}

	if _, err := es.ledger.RefundEventContributions(ctx, event, user.Username); err != nil {
		return CancelEventResult{}, err
	}

	now := time.Now()
	event.Status = models.EventStatusCancelled
	event.ExpiredAt = &now
	if err := es.repo.SaveEvent(ctx, event); err != nil {
		return CancelEventResult{}, fmt.Errorf("failed to save cancelled event: %w", err)
	}

	log.Printf("Event cancelled by creator: %q (ID: %s) by %s", event.Title, event.ID, user.Username)
	return CancelEventResult{OK: true, Message: "event cancelled, all contributions refunded"}, nil
}

// ==================== Expiration reconciliation ====================

// ProcessExpiredEvents is the reconciliation pass behind the sweeper: it
// expires overdue ACTIVE events and cancels-with-refund PENDING events whose
// funding window has closed. One event's failure never blocks the rest, and
// repeating the pass with no state change does nothing.
func (es *EventService) ProcessExpiredEvents(ctx context.Context) {
	now := time.Now()

	active, err := es.repo.GetEventsByStatus(ctx, models.EventStatusActive)
	if err != nil {
		log.Printf("Failed to load active events for expiration: %v", err)
	} else {
		for _, event := range active {
			if event.ExpirationDate == nil || !event.ExpirationDate.Before(now) {
				continue
			}
			if err := es.Deactivate(ctx, event.ID); err != nil {
				log.Printf("Failed to auto-expire event %s: %v", event.ID, err)
				continue
			}
			log.Printf("Auto-expired active event: %q", event.Title)
		}
	}

	pending, err := es.repo.GetEventsByStatus(ctx, models.EventStatusPending)
	if err != nil {
		log.Printf("Failed to load pending events for expiration: %v", err)
		return
	}
	for _, event := range pending {
		deadline := event.CreatedAt.AddDate(0, 0, event.DurationDays)
		if !deadline.Before(now) {
			continue
		}
		if err := es.cancelUnfunded(ctx, event.ID); err != nil {
			log.Printf("Failed to cancel unfunded event %s: %v", event.ID, err)
			continue
		}
		log.Printf("Auto-cancelled unfunded event: %q, contributions refunded", event.Title)
	}
}

// cancelUnfunded refunds and cancels a pending event whose funding window closed.
func (es *EventService) cancelUnfunded(ctx context.Context, eventID uuid.UUID) error {
	unlock := es.eventLocks.lock(eventID.String())
	defer unlock()

	event, err := es.repo.GetEventByID(ctx, eventID)
	if err != nil {
		return fmt.Errorf("failed to load event: %w", err)
	}
	if event.Status != models.EventStatusPending {
		return nil
	}

	if _, err := es.ledger.RefundEventContributions(ctx, event, refundActorSweeper); err != nil {
		return err
	}

	now := time.Now()
	event.Status = models.EventStatusCancelled
	event.ExpiredAt = &now
	if err := es.repo.SaveEvent(ctx, event); err != nil {
		return fmt.Errorf("failed to save cancelled event: %w", err)
	}
	return nil
}

// ==================== Zone overlap guard ====================

// CheckZoneOverlap tests a candidate rectangle against every enabled zone.
// Rectangles that only touch on an edge or corner do not conflict. Returns
// the first conflicting zone's name, or empty when the candidate is clear.
func (es *EventService) CheckZoneOverlap(ctx context.Context, x1, x2, y1, y2 int) (string, error) {
	minX, maxX := minMax(x1, x2)
	minY, maxY := minMax(y1, y2)

	zones, err := es.repo.GetEnabledZones(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to load enabled zones: %w", err)
	}

	for _, existing := range zones {
		eMinX, eMaxX := minMax(existing.X1, existing.X2)
		eMinY, eMaxY := minMax(existing.Y1, existing.Y2)

		// AABB overlap, strict interior only
		if minX < eMaxX && maxX > eMinX && minY < eMaxY && maxY > eMinY {
			return fmt.Sprintf("%s (%s)", existing.Name, existing.Code), nil
		}
	}
	return "", nil
}

func minMax(a, b int) (int, int) {
	if a < b {
		return a, b
	}
	return b, a
}

func intOrZero(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}
