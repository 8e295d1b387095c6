package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"world-events/internal/models"
	"world-events/internal/repository"
)

func setupTestDB(t *testing.T) *gorm.DB {
	// Named shared-cache memory DB so every pooled connection sees the same data
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Character{},
		&models.WorldSetting{},
		&models.Zone{},
		&models.ZoneOverride{},
		&models.Event{},
		&models.EventModifier{},
		&models.Contribution{},
		&models.LedgerEntry{},
	)
	if err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}

	return db
}

func newTestEventService(t *testing.T, db *gorm.DB, weeklyLimit int) (*EventService, *repository.Repository) {
	repo := repository.NewRepository(db)
	return NewEventService(repo, NewLedgerService(repo), NewSettingsService(repo), weeklyLimit, 7), repo
}

func seedUser(t *testing.T, db *gorm.DB, id uint, username string, balances ...int) *models.User {
	user := &models.User{ID: id, Username: username}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	for i, points := range balances {
		character := &models.Character{
			UserID:         id,
			PlayerName:     fmt.Sprintf("%s-char-%d", username, i+1),
			CurrencyPoints: points,
		}
		if err := db.Create(character).Error; err != nil {
			t.Fatalf("failed to create character: %v", err)
		}
	}
	return user
}

func seedSetting(t *testing.T, db *gorm.DB, key string, configType models.ConfigType, value string) {
	setting := &models.WorldSetting{
		SettingKey:   key,
		ConfigType:   configType,
		CurrentValue: value,
	}
	if err := db.Create(setting).Error; err != nil {
		t.Fatalf("failed to create setting: %v", err)
	}
}

func mustCreateEvent(t *testing.T, es *EventService, user *models.User, req *models.CreateEventRequest) *models.Event {
	t.Helper()
	result, err := es.CreateEvent(context.Background(), user, req)
	if err != nil {
		t.Fatalf("CreateEvent returned error: %v", err)
	}
	if !result.OK {
		t.Fatalf("CreateEvent rejected: %s", result.Message)
	}
	return result.Event
}

func foodLootRequest(title string) *models.CreateEventRequest {
	return &models.CreateEventRequest{
		Title: title,
		Selections: []models.ModifierSelection{
			{CatalogKey: "FOOD_LOOT", Value: "30"},
		},
	}
}

func TestCreateEventValidations(t *testing.T) {
	db := setupTestDB(t)
	es, _ := newTestEventService(t, db, 3)
	user := seedUser(t, db, 1, "alice", 10000)
	seedSetting(t, db, "FoodLootNew", models.ConfigTypeSandboxVars, "0.6")
	ctx := context.Background()

	cases := []struct {
		name string
		req  *models.CreateEventRequest
	}{
		{"empty title", &models.CreateEventRequest{
			Title:      "   ",
			Selections: []models.ModifierSelection{{CatalogKey: "FOOD_LOOT", Value: "30"}},
		}},
		{"no selections", &models.CreateEventRequest{Title: "Event"}},
		{"unknown key", &models.CreateEventRequest{
			Title:      "Event",
			Selections: []models.ModifierSelection{{CatalogKey: "NOT_A_KEY", Value: "30"}},
		}},
		{"invalid tier", &models.CreateEventRequest{
			Title:      "Event",
			Selections: []models.ModifierSelection{{CatalogKey: "FOOD_LOOT", Value: "42"}},
		}},
		{"non-numeric tier", &models.CreateEventRequest{
			Title:      "Event",
			Selections: []models.ModifierSelection{{CatalogKey: "FOOD_LOOT", Value: "abc"}},
		}},
	}

	for _, tc := range cases {
		result, err := es.CreateEvent(ctx, user, tc.req)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tc.name, err)
		}
		if result.OK {
			t.Errorf("%s: expected rejection, got OK", tc.name)
		}
	}

	var count int64
	db.Model(&models.Event{}).Count(&count)
	if count != 0 {
		t.Errorf("expected no events persisted, got %d", count)
	}
}

func TestCreateEventComputesCostServerSide(t *testing.T) {
	db := setupTestDB(t)
	es, _ := newTestEventService(t, db, 3)
	user := seedUser(t, db, 1, "alice", 10000)
	seedSetting(t, db, "FoodLootNew", models.ConfigTypeSandboxVars, "0.6")

	event := mustCreateEvent(t, es, user, foodLootRequest("More food"))

	if event.Status != models.EventStatusPending {
		t.Errorf("expected PENDING, got %s", event.Status)
	}
	if event.TotalCost != 1020 {
		t.Errorf("expected total cost 1020, got %d", event.TotalCost)
	}
	if len(event.Modifiers) != 1 {
		t.Fatalf("expected 1 modifier, got %d", len(event.Modifiers))
	}
	m := event.Modifiers[0]
	if m.CalculatedDelta != "0.18" {
		t.Errorf("expected delta 0.18, got %s", m.CalculatedDelta)
	}
	if m.Cost != 1020 {
		t.Errorf("expected modifier cost 1020, got %d", m.Cost)
	}
	if m.Target != models.TargetSandbox {
		t.Errorf("expected sandbox target, got %s", m.Target)
	}
}

func TestCreateEventRejectsValueOverCap(t *testing.T) {
	db := setupTestDB(t)
	es, _ := newTestEventService(t, db, 3)
	user := seedUser(t, db, 1, "alice", 10000)
	// 3.9 + 0.6 at tier 100 would exceed the 4.0 cap
	seedSetting(t, db, "FoodLootNew", models.ConfigTypeSandboxVars, "3.9")

	result, err := es.CreateEvent(context.Background(), user, &models.CreateEventRequest{
		Title:      "Too much food",
		Selections: []models.ModifierSelection{{CatalogKey: "FOOD_LOOT", Value: "100"}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.OK {
		t.Fatal("expected rejection for value over cap")
	}
}

func TestCreateEventMissingSettingRejected(t *testing.T) {
	db := setupTestDB(t)
	es, _ := newTestEventService(t, db, 3)
	user := seedUser(t, db, 1, "alice", 10000)

	result, err := es.CreateEvent(context.Background(), user, foodLootRequest("No setting"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.OK {
		t.Fatal("expected rejection when the world setting is missing")
	}
}

func TestCreateEventWeeklyLimit(t *testing.T) {
	db := setupTestDB(t)
	es, _ := newTestEventService(t, db, 1)
	user := seedUser(t, db, 1, "alice", 10000)
	seedSetting(t, db, "FoodLootNew", models.ConfigTypeSandboxVars, "0.6")
	ctx := context.Background()

	mustCreateEvent(t, es, user, foodLootRequest("First"))

	result, err := es.CreateEvent(ctx, user, foodLootRequest("Second"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.OK {
		t.Fatal("expected weekly limit rejection")
	}

	remaining, err := es.WeeklyEventsRemaining(ctx, user.ID)
	if err != nil {
		t.Fatalf("WeeklyEventsRemaining failed: %v", err)
	}
	if remaining != 0 {
		t.Errorf("expected 0 remaining, got %d", remaining)
	}
}

func TestCreateEventZoneRequiresCoordinates(t *testing.T) {
	db := setupTestDB(t)
	es, _ := newTestEventService(t, db, 3)
	user := seedUser(t, db, 1, "alice", 10000)

	result, err := es.CreateEvent(context.Background(), user, &models.CreateEventRequest{
		Title:      "Sprinters",
		Selections: []models.ModifierSelection{{CatalogKey: "SPRINTER_ZONE", Value: "50"}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.OK {
		t.Fatal("expected rejection without zone coordinates")
	}
}

func intPtr(v int) *int { return &v }

func sprinterZoneRequest(title string, x1, x2, y1, y2 int) *models.CreateEventRequest {
	return &models.CreateEventRequest{
		Title: title,
		Selections: []models.ModifierSelection{
			{CatalogKey: "SPRINTER_ZONE", Value: "50"},
			{CatalogKey: "PVP_ZONE", Value: ""},
		},
		ZoneX1: intPtr(x1), ZoneX2: intPtr(x2),
		ZoneY1: intPtr(y1), ZoneY2: intPtr(y2),
	}
}

func TestContributeCapsAtRemainingAndBalance(t *testing.T) {
	db := setupTestDB(t)
	es, _ := newTestEventService(t, db, 3)
	creator := seedUser(t, db, 1, "alice", 500)
	seedSetting(t, db, "FoodLootNew", models.ConfigTypeSandboxVars, "0.6")
	ctx := context.Background()

	event := mustCreateEvent(t, es, creator, foodLootRequest("More food")) // cost 1020

	// Balance cap: alice holds 500, asks for 2000
	result, err := es.Contribute(ctx, event.ID, 2000, creator)
	if err != nil {
		t.Fatalf("Contribute failed: %v", err)
	}
	if !result.OK || result.Amount != 500 {
		t.Fatalf("expected effective amount 500, got %+v", result)
	}
	if result.Activated {
		t.Fatal("event should not be activated yet")
	}

	var char models.Character
	db.Where("user_id = ?", creator.ID).First(&char)
	if char.CurrencyPoints != 0 {
		t.Errorf("expected alice drained to 0, got %d", char.CurrencyPoints)
	}

	// Remaining cap: bob asks for 2000 but only 520 is still needed
	bob := seedUser(t, db, 2, "bob", 10000)
	result, err = es.Contribute(ctx, event.ID, 2000, bob)
	if err != nil {
		t.Fatalf("Contribute failed: %v", err)
	}
	if result.Amount != 520 {
		t.Errorf("expected effective amount 520, got %d", result.Amount)
	}
	if !result.Activated {
		t.Error("expected activation once fully funded")
	}

	reloaded, err := es.GetEventByID(ctx, event.ID)
	if err != nil {
		t.Fatalf("GetEventByID failed: %v", err)
	}
	if reloaded.Status != models.EventStatusActive {
		t.Errorf("expected ACTIVE, got %s", reloaded.Status)
	}
	if reloaded.AmountCollected != 1020 {
		t.Errorf("expected collected 1020, got %d", reloaded.AmountCollected)
	}
}

func TestContributeZeroBalanceRejected(t *testing.T) {
	db := setupTestDB(t)
	es, _ := newTestEventService(t, db, 3)
	creator := seedUser(t, db, 1, "alice", 10000)
	seedSetting(t, db, "FoodLootNew", models.ConfigTypeSandboxVars, "0.6")
	broke := seedUser(t, db, 2, "bob", 0)

	event := mustCreateEvent(t, es, creator, foodLootRequest("More food"))

	result, err := es.Contribute(context.Background(), event.ID, 100, broke)
	if err != nil {
		t.Fatalf("Contribute failed: %v", err)
	}
	if result.OK {
		t.Fatal("expected rejection for zero balance")
	}
}

func TestContributeDrawsCharactersInOrder(t *testing.T) {
	db := setupTestDB(t)
	es, _ := newTestEventService(t, db, 3)
	creator := seedUser(t, db, 1, "alice", 100, 400, 1000)
	seedSetting(t, db, "FoodLootNew", models.ConfigTypeSandboxVars, "0.6")
	ctx := context.Background()

	event := mustCreateEvent(t, es, creator, foodLootRequest("More food"))

	result, err := es.Contribute(ctx, event.ID, 450, creator)
	if err != nil {
		t.Fatalf("Contribute failed: %v", err)
	}
	if result.Amount != 450 {
		t.Fatalf("expected amount 450, got %d", result.Amount)
	}

	var characters []models.Character
	db.Where("user_id = ?", creator.ID).Order("id ASC").Find(&characters)
	if characters[0].CurrencyPoints != 0 {
		t.Errorf("first character should be drained, got %d", characters[0].CurrencyPoints)
	}
	if characters[1].CurrencyPoints != 50 {
		t.Errorf("second character should hold 50, got %d", characters[1].CurrencyPoints)
	}
	if characters[2].CurrencyPoints != 1000 {
		t.Errorf("third character should be untouched, got %d", characters[2].CurrencyPoints)
	}

	var entries []models.LedgerEntry
	db.Where("reference = ?", event.Reference()).Order("created_at ASC").Find(&entries)
	if len(entries) != 2 {
		t.Fatalf("expected 2 ledger entries, got %d", len(entries))
	}
	if entries[0].Amount != 100 || entries[1].Amount != 350 {
		t.Errorf("expected entry amounts 100 and 350, got %d and %d", entries[0].Amount, entries[1].Amount)
	}
	for _, e := range entries {
		if e.Kind != models.LedgerKindContribution {
			t.Errorf("expected contribution kind, got %s", e.Kind)
		}
	}
}

func TestContributeNonPendingRejected(t *testing.T) {
	db := setupTestDB(t)
	es, _ := newTestEventService(t, db, 3)
	creator := seedUser(t, db, 1, "alice", 10000)
	seedSetting(t, db, "FoodLootNew", models.ConfigTypeSandboxVars, "0.6")
	ctx := context.Background()

	event := mustCreateEvent(t, es, creator, foodLootRequest("More food"))
	if _, err := es.Contribute(ctx, event.ID, 1020, creator); err != nil {
		t.Fatalf("funding contribution failed: %v", err)
	}

	result, err := es.Contribute(ctx, event.ID, 100, creator)
	if err != nil {
		t.Fatalf("Contribute failed: %v", err)
	}
	if result.OK {
		t.Fatal("expected rejection for non-pending event")
	}
}

func TestActivationAppliesSandboxAndZone(t *testing.T) {
	db := setupTestDB(t)
	es, repo := newTestEventService(t, db, 3)
	creator := seedUser(t, db, 1, "alice", 100000)
	seedSetting(t, db, "FoodLootNew", models.ConfigTypeSandboxVars, "0.6")
	ctx := context.Background()

	req := sprinterZoneRequest("Danger zone", 100, 200, 100, 200)
	req.Selections = append(req.Selections, models.ModifierSelection{CatalogKey: "FOOD_LOOT", Value: "30"})
	event := mustCreateEvent(t, es, creator, req)

	// SPRINTER_ZONE tier 50 = 5000, PVP_ZONE = 500, FOOD_LOOT tier 30 = 1020
	if event.TotalCost != 6520 {
		t.Fatalf("expected total cost 6520, got %d", event.TotalCost)
	}

	result, err := es.Contribute(ctx, event.ID, 6520, creator)
	if err != nil {
		t.Fatalf("Contribute failed: %v", err)
	}
	if !result.Activated {
		t.Fatal("expected activation")
	}

	// Sandbox setting got the delta, rounded up to 2 decimals
	setting, err := repo.GetSetting(ctx, "FoodLootNew", models.ConfigTypeSandboxVars)
	if err != nil {
		t.Fatalf("GetSetting failed: %v", err)
	}
	if setting.AppliedValue == nil || *setting.AppliedValue != "0.78" {
		t.Errorf("expected applied value 0.78, got %v", setting.AppliedValue)
	}
	if !setting.OverwriteAtStartup {
		t.Error("expected overwrite_at_startup to be set")
	}

	// One zone with one override per zone modifier
	var zones []models.Zone
	db.Preload("Overrides").Find(&zones)
	if len(zones) != 1 {
		t.Fatalf("expected 1 zone, got %d", len(zones))
	}
	zone := zones[0]
	if !zone.Enabled {
		t.Error("expected zone enabled")
	}
	if zone.Code != event.Reference() {
		t.Errorf("expected zone code %s, got %s", event.Reference(), zone.Code)
	}
	if zone.X1 != 100 || zone.X2 != 200 || zone.Y1 != 100 || zone.Y2 != 200 {
		t.Errorf("unexpected zone rectangle: %+v", zone)
	}
	if len(zone.Overrides) != 2 {
		t.Fatalf("expected 2 overrides, got %d", len(zone.Overrides))
	}
	overrides := map[string]string{}
	for _, o := range zone.Overrides {
		overrides[o.Name] = o.Value
	}
	if overrides["sprinterChance"] != "50" {
		t.Errorf("expected sprinterChance=50, got %s", overrides["sprinterChance"])
	}
	if overrides["pvpEnabled"] != "true" {
		t.Errorf("expected pvpEnabled=true, got %s", overrides["pvpEnabled"])
	}

	// Zone modifiers link back to the zone
	reloaded, _ := es.GetEventByID(ctx, event.ID)
	for _, m := range reloaded.Modifiers {
		if m.Target == models.TargetZone && (m.LinkedZoneID == nil || *m.LinkedZoneID != zone.ID) {
			t.Errorf("zone modifier %s not linked to zone", m.CatalogKey)
		}
	}
	if reloaded.ExpirationDate == nil {
		t.Fatal("expected expiration date set")
	}
	wantExpiry := reloaded.ActivatedAt.AddDate(0, 0, 7)
	if diff := reloaded.ExpirationDate.Sub(wantExpiry); diff < -time.Second || diff > time.Second {
		t.Errorf("expected expiration 7 days after activation, diff %v", diff)
	}
}

func TestConcurrentContributionsActivateOnce(t *testing.T) {
	db := setupTestDB(t)
	es, _ := newTestEventService(t, db, 3)
	creator := seedUser(t, db, 1, "alice", 100000)
	seedSetting(t, db, "FoodLootNew", models.ConfigTypeSandboxVars, "0.6")
	ctx := context.Background()

	event := mustCreateEvent(t, es, creator, foodLootRequest("More food")) // cost 1020

	contributors := make([]*models.User, 5)
	for i := range contributors {
		contributors[i] = seedUser(t, db, uint(10+i), fmt.Sprintf("user-%d", i), 5000)
	}

	var wg sync.WaitGroup
	activations := make(chan bool, len(contributors))
	for _, user := range contributors {
		wg.Add(1)
		go func(u *models.User) {
			defer wg.Done()
			result, err := es.Contribute(ctx, event.ID, 1020, u)
			if err != nil {
				t.Errorf("Contribute failed: %v", err)
				return
			}
			if result.OK && result.Activated {
				activations <- true
			}
		}(user)
	}
	wg.Wait()
	close(activations)

	if got := len(activations); got != 1 {
		t.Errorf("expected exactly 1 activation, got %d", got)
	}

	reloaded, err := es.GetEventByID(ctx, event.ID)
	if err != nil {
		t.Fatalf("GetEventByID failed: %v", err)
	}
	if reloaded.Status != models.EventStatusActive {
		t.Errorf("expected ACTIVE, got %s", reloaded.Status)
	}
	if reloaded.AmountCollected != 1020 {
		t.Errorf("expected collected exactly 1020, got %d", reloaded.AmountCollected)
	}

	// Total deducted across all contributors matches the cost exactly
	var totalRemaining int
	var characters []models.Character
	db.Where("user_id >= ?", 10).Find(&characters)
	for _, c := range characters {
		totalRemaining += c.CurrencyPoints
	}
	if deducted := len(contributors)*5000 - totalRemaining; deducted != 1020 {
		t.Errorf("expected total deduction 1020, got %d", deducted)
	}
}

func TestCancelRestoresBalancesExactly(t *testing.T) {
	db := setupTestDB(t)
	es, _ := newTestEventService(t, db, 3)
	creator := seedUser(t, db, 1, "alice", 300, 200)
	bob := seedUser(t, db, 2, "bob", 700)
	seedSetting(t, db, "FoodLootNew", models.ConfigTypeSandboxVars, "0.6")
	ctx := context.Background()

	event := mustCreateEvent(t, es, creator, foodLootRequest("More food"))

	if _, err := es.Contribute(ctx, event.ID, 400, creator); err != nil {
		t.Fatalf("Contribute failed: %v", err)
	}
	if _, err := es.Contribute(ctx, event.ID, 300, bob); err != nil {
		t.Fatalf("Contribute failed: %v", err)
	}

	result, err := es.CancelEvent(ctx, event.ID, creator)
	if err != nil {
		t.Fatalf("CancelEvent failed: %v", err)
	}
	if !result.OK {
		t.Fatalf("CancelEvent rejected: %s", result.Message)
	}

	reloaded, _ := es.GetEventByID(ctx, event.ID)
	if reloaded.Status != models.EventStatusCancelled {
		t.Errorf("expected CANCELLED, got %s", reloaded.Status)
	}

	var characters []models.Character
	db.Order("id ASC").Find(&characters)
	want := []int{300, 200, 700}
	for i, c := range characters {
		if c.CurrencyPoints != want[i] {
			t.Errorf("character %d: expected %d restored, got %d", i, want[i], c.CurrencyPoints)
		}
	}

	// Every contribution entry is reversed and matched by a cashback entry
	var contributions []models.LedgerEntry
	db.Where("reference = ? AND kind = ?", event.Reference(), models.LedgerKindContribution).Find(&contributions)
	for _, e := range contributions {
		if !e.Reversed {
			t.Errorf("contribution entry %s not reversed", e.ID)
		}
	}
	var cashbacks int64
	db.Model(&models.LedgerEntry{}).
		Where("reference = ? AND kind = ?", event.Reference(), models.LedgerKindRefund).
		Count(&cashbacks)
	if int(cashbacks) != len(contributions) {
		t.Errorf("expected %d cashback entries, got %d", len(contributions), cashbacks)
	}
}

func TestCancelOnlyCreatorAndOnlyPending(t *testing.T) {
	db := setupTestDB(t)
	es, _ := newTestEventService(t, db, 3)
	creator := seedUser(t, db, 1, "alice", 10000)
	bob := seedUser(t, db, 2, "bob", 10000)
	seedSetting(t, db, "FoodLootNew", models.ConfigTypeSandboxVars, "0.6")
	ctx := context.Background()

	event := mustCreateEvent(t, es, creator, foodLootRequest("More food"))

	result, err := es.CancelEvent(ctx, event.ID, bob)
	if err != nil {
		t.Fatalf("CancelEvent failed: %v", err)
	}
	if result.OK {
		t.Fatal("expected rejection for non-creator")
	}

	if _, err := es.Contribute(ctx, event.ID, 1020, creator); err != nil {
		t.Fatalf("Contribute failed: %v", err)
	}
	result, err = es.CancelEvent(ctx, event.ID, creator)
	if err != nil {
		t.Fatalf("CancelEvent failed: %v", err)
	}
	if result.OK {
		t.Fatal("expected rejection for active event")
	}
}

func TestCancelWithoutContributionsIsCleanNoop(t *testing.T) {
	db := setupTestDB(t)
	es, _ := newTestEventService(t, db, 3)
	creator := seedUser(t, db, 1, "alice", 10000)
	seedSetting(t, db, "FoodLootNew", models.ConfigTypeSandboxVars, "0.6")

	event := mustCreateEvent(t, es, creator, foodLootRequest("More food"))

	result, err := es.CancelEvent(context.Background(), event.ID, creator)
	if err != nil {
		t.Fatalf("CancelEvent failed: %v", err)
	}
	if !result.OK {
		t.Fatalf("CancelEvent rejected: %s", result.Message)
	}

	var entries int64
	db.Model(&models.LedgerEntry{}).Count(&entries)
	if entries != 0 {
		t.Errorf("expected no ledger entries, got %d", entries)
	}
}

func TestZoneOverlapStrictInterior(t *testing.T) {
	db := setupTestDB(t)
	es, _ := newTestEventService(t, db, 3)
	ctx := context.Background()

	existing := &models.Zone{
		Code: "zone-test", Name: "Existing",
		X1: 100, X2: 200, Y1: 100, Y2: 200,
		Enabled: true,
	}
	if err := db.Create(existing).Error; err != nil {
		t.Fatalf("failed to create zone: %v", err)
	}

	cases := []struct {
		name           string
		x1, x2, y1, y2 int
		conflict       bool
	}{
		{"fully inside", 120, 180, 120, 180, true},
		{"partial overlap", 150, 250, 150, 250, true},
		{"surrounds existing", 50, 250, 50, 250, true},
		{"shares right edge", 200, 300, 100, 200, false},
		{"shares top edge", 100, 200, 200, 300, false},
		{"shares corner", 200, 300, 200, 300, false},
		{"disjoint", 500, 600, 500, 600, false},
		{"reversed coordinates overlap", 250, 150, 250, 150, true},
	}

	for _, tc := range cases {
		conflict, err := es.CheckZoneOverlap(ctx, tc.x1, tc.x2, tc.y1, tc.y2)
		if err != nil {
			t.Fatalf("%s: CheckZoneOverlap failed: %v", tc.name, err)
		}
		if (conflict != "") != tc.conflict {
			t.Errorf("%s: expected conflict=%v, got %q", tc.name, tc.conflict, conflict)
		}
	}
}

func TestZoneOverlapIgnoresDisabledZones(t *testing.T) {
	db := setupTestDB(t)
	es, _ := newTestEventService(t, db, 3)

	disabled := &models.Zone{
		Code: "zone-off", Name: "Disabled",
		X1: 100, X2: 200, Y1: 100, Y2: 200,
		Enabled: false,
	}
	if err := db.Create(disabled).Error; err != nil {
		t.Fatalf("failed to create zone: %v", err)
	}

	conflict, err := es.CheckZoneOverlap(context.Background(), 120, 180, 120, 180)
	if err != nil {
		t.Fatalf("CheckZoneOverlap failed: %v", err)
	}
	if conflict != "" {
		t.Errorf("expected no conflict against disabled zone, got %q", conflict)
	}
}

func TestCreateEventRejectsOverlappingZone(t *testing.T) {
	db := setupTestDB(t)
	es, _ := newTestEventService(t, db, 3)
	creator := seedUser(t, db, 1, "alice", 100000)
	ctx := context.Background()

	first := mustCreateEvent(t, es, creator, sprinterZoneRequest("First", 100, 200, 100, 200))
	if _, err := es.Contribute(ctx, first.ID, first.TotalCost, creator); err != nil {
		t.Fatalf("Contribute failed: %v", err)
	}

	result, err := es.CreateEvent(ctx, creator, sprinterZoneRequest("Second", 150, 250, 150, 250))
	if err != nil {
		t.Fatalf("CreateEvent failed: %v", err)
	}
	if result.OK {
		t.Fatal("expected rejection for overlapping zone")
	}

	// Touching the first zone's edge is fine
	result, err = es.CreateEvent(ctx, creator, sprinterZoneRequest("Adjacent", 200, 300, 100, 200))
	if err != nil {
		t.Fatalf("CreateEvent failed: %v", err)
	}
	if !result.OK {
		t.Fatalf("expected adjacent zone accepted, got: %s", result.Message)
	}
}

func TestProcessExpiredEventsDeactivatesActive(t *testing.T) {
	db := setupTestDB(t)
	es, repo := newTestEventService(t, db, 3)
	creator := seedUser(t, db, 1, "alice", 100000)
	seedSetting(t, db, "FoodLootNew", models.ConfigTypeSandboxVars, "0.6")
	ctx := context.Background()

	req := sprinterZoneRequest("Danger zone", 100, 200, 100, 200)
	req.Selections = append(req.Selections, models.ModifierSelection{CatalogKey: "FOOD_LOOT", Value: "30"})
	event := mustCreateEvent(t, es, creator, req)
	if _, err := es.Contribute(ctx, event.ID, event.TotalCost, creator); err != nil {
		t.Fatalf("Contribute failed: %v", err)
	}

	// Push the expiration into the past
	past := time.Now().Add(-time.Hour)
	db.Model(&models.Event{}).Where("id = ?", event.ID).Update("expiration_date", past)

	es.ProcessExpiredEvents(ctx)

	reloaded, _ := es.GetEventByID(ctx, event.ID)
	if reloaded.Status != models.EventStatusExpired {
		t.Fatalf("expected EXPIRED, got %s", reloaded.Status)
	}
	if reloaded.ExpiredAt == nil {
		t.Error("expected expired_at set")
	}

	// Sandbox delta reverted
	setting, err := repo.GetSetting(ctx, "FoodLootNew", models.ConfigTypeSandboxVars)
	if err != nil {
		t.Fatalf("GetSetting failed: %v", err)
	}
	if setting.AppliedValue == nil || *setting.AppliedValue != "0.6" {
		t.Errorf("expected applied value back to 0.6, got %v", setting.AppliedValue)
	}

	// Zone disabled
	var zone models.Zone
	db.Where("code = ?", event.Reference()).First(&zone)
	if zone.Enabled {
		t.Error("expected zone disabled")
	}

	// Second sweep changes nothing
	es.ProcessExpiredEvents(ctx)
	again, _ := es.GetEventByID(ctx, event.ID)
	if !again.ExpiredAt.Equal(*reloaded.ExpiredAt) {
		t.Error("second sweep must not touch the event")
	}
	setting, _ = repo.GetSetting(ctx, "FoodLootNew", models.ConfigTypeSandboxVars)
	if *setting.AppliedValue != "0.6" {
		t.Errorf("second sweep must not revert again, got %v", *setting.AppliedValue)
	}
}

func TestProcessExpiredEventsCancelsStalePending(t *testing.T) {
	db := setupTestDB(t)
	es, _ := newTestEventService(t, db, 3)
	creator := seedUser(t, db, 1, "alice", 10000)
	bob := seedUser(t, db, 2, "bob", 500)
	seedSetting(t, db, "FoodLootNew", models.ConfigTypeSandboxVars, "0.6")
	ctx := context.Background()

	event := mustCreateEvent(t, es, creator, foodLootRequest("More food"))
	if _, err := es.Contribute(ctx, event.ID, 500, bob); err != nil {
		t.Fatalf("Contribute failed: %v", err)
	}

	// Funding window closed 8 days ago plus duration
	stale := time.Now().AddDate(0, 0, -8)
	db.Model(&models.Event{}).Where("id = ?", event.ID).Update("created_at", stale)

	es.ProcessExpiredEvents(ctx)

	reloaded, _ := es.GetEventByID(ctx, event.ID)
	if reloaded.Status != models.EventStatusCancelled {
		t.Fatalf("expected CANCELLED, got %s", reloaded.Status)
	}

	var char models.Character
	db.Where("user_id = ?", bob.ID).First(&char)
	if char.CurrencyPoints != 500 {
		t.Errorf("expected bob refunded to 500, got %d", char.CurrencyPoints)
	}

	// Double sweep makes no duplicate refund
	es.ProcessExpiredEvents(ctx)
	db.Where("user_id = ?", bob.ID).First(&char)
	if char.CurrencyPoints != 500 {
		t.Errorf("expected balance unchanged after second sweep, got %d", char.CurrencyPoints)
	}
	var cashbacks int64
	db.Model(&models.LedgerEntry{}).
		Where("reference = ? AND kind = ?", event.Reference(), models.LedgerKindRefund).
		Count(&cashbacks)
	if cashbacks != 1 {
		t.Errorf("expected exactly 1 cashback entry, got %d", cashbacks)
	}
}

func TestActiveModifiersByKeyGroupsAndFilters(t *testing.T) {
	db := setupTestDB(t)
	es, _ := newTestEventService(t, db, 3)
	creator := seedUser(t, db, 1, "alice", 100000)
	seedSetting(t, db, "FoodLootNew", models.ConfigTypeSandboxVars, "0.6")
	ctx := context.Background()

	req := sprinterZoneRequest("Danger zone", 100, 200, 100, 200)
	req.Selections = append(req.Selections, models.ModifierSelection{CatalogKey: "FOOD_LOOT", Value: "30"})
	event := mustCreateEvent(t, es, creator, req)
	if _, err := es.Contribute(ctx, event.ID, event.TotalCost, creator); err != nil {
		t.Fatalf("Contribute failed: %v", err)
	}

	all, err := es.ActiveModifiersByKey(ctx, "")
	if err != nil {
		t.Fatalf("ActiveModifiersByKey failed: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("expected 3 property keys, got %d", len(all))
	}

	sandboxOnly, err := es.ActiveModifiersByKey(ctx, models.TargetSandbox)
	if err != nil {
		t.Fatalf("ActiveModifiersByKey failed: %v", err)
	}
	if len(sandboxOnly) != 1 {
		t.Fatalf("expected 1 sandbox key, got %d", len(sandboxOnly))
	}
	if _, ok := sandboxOnly["FoodLootNew"]; !ok {
		t.Error("expected FoodLootNew in sandbox modifiers")
	}
}

func TestActiveModifiersByKeyExpiresOverdue(t *testing.T) {
	db := setupTestDB(t)
	es, _ := newTestEventService(t, db, 3)
	creator := seedUser(t, db, 1, "alice", 100000)
	seedSetting(t, db, "FoodLootNew", models.ConfigTypeSandboxVars, "0.6")
	ctx := context.Background()

	event := mustCreateEvent(t, es, creator, foodLootRequest("More food"))
	if _, err := es.Contribute(ctx, event.ID, event.TotalCost, creator); err != nil {
		t.Fatalf("Contribute failed: %v", err)
	}
	past := time.Now().Add(-time.Hour)
	db.Model(&models.Event{}).Where("id = ?", event.ID).Update("expiration_date", past)

	modifiers, err := es.ActiveModifiersByKey(ctx, "")
	if err != nil {
		t.Fatalf("ActiveModifiersByKey failed: %v", err)
	}
	if len(modifiers) != 0 {
		t.Errorf("expected no modifiers from overdue event, got %d keys", len(modifiers))
	}

	reloaded, _ := es.GetEventByID(ctx, event.ID)
	if reloaded.Status != models.EventStatusExpired {
		t.Errorf("expected overdue event EXPIRED on read, got %s", reloaded.Status)
	}
}
