package catalog

import "world-events/internal/models"

func f(v float64) *float64 { return &v }

// definitions is the full registry, loaded once at process start. Sandbox
// entries map to world settings keys; zone entries become zone overrides.
var definitions = []Definition{
	// ---- loot settings (individual categories) ----
	{
		Key: "FOOD_LOOT", DisplayName: "Food Loot", PropertyKey: "FoodLootNew",
		Target: models.TargetSandbox, ConfigType: models.ConfigTypeSandboxVars,
		ValueKind: models.ValueKindPercentage,
		Description: "Perishable food and items that can spoil",
		BaseValue: f(0.6), MinValue: f(0.0), MaxValue: f(4.0), BaseCost: 170,
	},
	{
		Key: "LITERATURE_LOOT", DisplayName: "Literature Loot", PropertyKey: "LiteratureLootNew",
		Target: models.TargetSandbox, ConfigType: models.ConfigTypeSandboxVars,
		ValueKind: models.ValueKindPercentage,
		Description: "Reading material, including pamphlets and skill books",
		BaseValue: f(0.6), MinValue: f(0.0), MaxValue: f(4.0), BaseCost: 270,
	},
	{
		Key: "MEDICAL_LOOT", DisplayName: "Medical Loot", PropertyKey: "MedicalLootNew",
		Target: models.TargetSandbox, ConfigType: models.ConfigTypeSandboxVars,
		ValueKind: models.ValueKindPercentage,
		Description: "Medicine, bandages and first-aid supplies",
		BaseValue: f(0.6), MinValue: f(0.0), MaxValue: f(4.0), BaseCost: 170,
	},
	{
		Key: "SURVIVAL_GEAR_LOOT", DisplayName: "Survival Gear Loot", PropertyKey: "SurvivalGearsLootNew",
		Target: models.TargetSandbox, ConfigType: models.ConfigTypeSandboxVars,
		ValueKind: models.ValueKindPercentage,
		Description: "Fishing rods, tents and camping equipment",
		BaseValue: f(0.6), MinValue: f(0.0), MaxValue: f(4.0), BaseCost: 170,
	},
	{
		Key: "CANNED_FOOD_LOOT", DisplayName: "Canned Food Loot", PropertyKey: "CannedFoodLootNew",
		Target: models.TargetSandbox, ConfigType: models.ConfigTypeSandboxVars,
		ValueKind: models.ValueKindPercentage,
		Description: "Canned and dried food, plus drinks",
		BaseValue: f(0.6), MinValue: f(0.0), MaxValue: f(4.0), BaseCost: 270,
	},
	{
		Key: "WEAPON_LOOT", DisplayName: "Weapon Loot", PropertyKey: "WeaponLootNew",
		Target: models.TargetSandbox, ConfigType: models.ConfigTypeSandboxVars,
		ValueKind: models.ValueKindPercentage,
		Description: "Weapons that are not tools of other categories",
		BaseValue: f(0.6), MinValue: f(0.0), MaxValue: f(4.0), BaseCost: 390,
	},
	{
		Key: "RANGED_WEAPON_LOOT", DisplayName: "Firearm Loot", PropertyKey: "RangedWeaponLootNew",
		Target: models.TargetSandbox, ConfigType: models.ConfigTypeSandboxVars,
		ValueKind: models.ValueKindPercentage,
		Description: "Firearms, including attachments and accessories",
		BaseValue: f(0.6), MinValue: f(0.0), MaxValue: f(4.0), BaseCost: 450,
	},
	{
		Key: "AMMO_LOOT", DisplayName: "Ammo Loot", PropertyKey: "AmmoLootNew",
		Target: models.TargetSandbox, ConfigType: models.ConfigTypeSandboxVars,
		ValueKind: models.ValueKindPercentage,
		Description: "Loose ammunition, boxes and magazines",
		BaseValue: f(0.6), MinValue: f(0.0), MaxValue: f(4.0), BaseCost: 650,
	},
	{
		Key: "MECHANICS_LOOT", DisplayName: "Mechanics Loot", PropertyKey: "MechanicsLootNew",
		Target: models.TargetSandbox, ConfigType: models.ConfigTypeSandboxVars,
		ValueKind: models.ValueKindPercentage,
		Description: "Vehicle parts and the tools to install them",
		BaseValue: f(0.6), MinValue: f(0.0), MaxValue: f(4.0), BaseCost: 180,
	},
	{
		Key: "OTHER_LOOT", DisplayName: "Miscellaneous Loot", PropertyKey: "OtherLootNew",
		Target: models.TargetSandbox, ConfigType: models.ConfigTypeSandboxVars,
		ValueKind: models.ValueKindPercentage,
		Description: "Everything else. Also affects foraging in urban zones",
		BaseValue: f(0.6), MinValue: f(0.0), MaxValue: f(4.0), BaseCost: 170,
	},
	{
		Key: "CLOTHING_LOOT", DisplayName: "Clothing Loot", PropertyKey: "ClothingLootNew",
		Target: models.TargetSandbox, ConfigType: models.ConfigTypeSandboxVars,
		ValueKind: models.ValueKindPercentage,
		Description: "Wearable items that are not containers",
		BaseValue: f(0.6), MinValue: f(0.0), MaxValue: f(4.0), BaseCost: 170,
	},
	{
		Key: "CONTAINER_LOOT", DisplayName: "Backpack Loot", PropertyKey: "ContainerLootNew",
		Target: models.TargetSandbox, ConfigType: models.ConfigTypeSandboxVars,
		ValueKind: models.ValueKindPercentage,
		Description: "Backpacks and wearable or equippable containers",
		BaseValue: f(0.6), MinValue: f(0.0), MaxValue: f(4.0), BaseCost: 200,
	},
	{
		Key: "KEY_LOOT", DisplayName: "Key Loot", PropertyKey: "KeyLootNew",
		Target: models.TargetSandbox, ConfigType: models.ConfigTypeSandboxVars,
		ValueKind: models.ValueKindPercentage,
		Description: "Building and car keys, key rings and padlocks",
		BaseValue: f(0.6), MinValue: f(0.0), MaxValue: f(4.0), BaseCost: 170,
	},
	{
		Key: "MEDIA_LOOT", DisplayName: "Media Loot", PropertyKey: "MediaLootNew",
		Target: models.TargetSandbox, ConfigType: models.ConfigTypeSandboxVars,
		ValueKind: models.ValueKindPercentage,
		Description: "VHS tapes and CDs",
		BaseValue: f(0.6), MinValue: f(0.0), MaxValue: f(4.0), BaseCost: 250,
	},
	{
		Key: "MEMENTO_LOOT", DisplayName: "Memento Loot", PropertyKey: "MementoLootNew",
		Target: models.TargetSandbox, ConfigType: models.ConfigTypeSandboxVars,
		ValueKind: models.ValueKindPercentage,
		Description: "Spiffo items, plushies and collectibles",
		BaseValue: f(0.6), MinValue: f(0.0), MaxValue: f(4.0), BaseCost: 50,
	},
	{
		Key: "COOKWARE_LOOT", DisplayName: "Cookware Loot", PropertyKey: "CookwareLootNew",
		Target: models.TargetSandbox, ConfigType: models.ConfigTypeSandboxVars,
		ValueKind: models.ValueKindPercentage,
		Description: "Items used in cooking, knives included. No food",
		BaseValue: f(0.6), MinValue: f(0.0), MaxValue: f(4.0), BaseCost: 165,
	},
	{
		Key: "MATERIAL_LOOT", DisplayName: "Material Loot", PropertyKey: "MaterialLootNew",
		Target: models.TargetSandbox, ConfigType: models.ConfigTypeSandboxVars,
		ValueKind: models.ValueKindPercentage,
		Description: "Crafting and construction ingredients. No tools",
		BaseValue: f(0.6), MinValue: f(0.0), MaxValue: f(4.0), BaseCost: 165,
	},
	{
		Key: "FARMING_LOOT", DisplayName: "Farming Loot", PropertyKey: "FarmingLootNew",
		Target: models.TargetSandbox, ConfigType: models.ConfigTypeSandboxVars,
		ValueKind: models.ValueKindPercentage,
		Description: "Agriculture items like seeds, shovels and trowels",
		BaseValue: f(0.6), MinValue: f(0.0), MaxValue: f(4.0), BaseCost: 165,
	},
	{
		Key: "TOOL_LOOT", DisplayName: "Tool Loot", PropertyKey: "ToolLootNew",
		Target: models.TargetSandbox, ConfigType: models.ConfigTypeSandboxVars,
		ValueKind: models.ValueKindPercentage,
		Description: "Assorted tools not covered by other categories",
		BaseValue: f(0.6), MinValue: f(0.0), MaxValue: f(4.0), BaseCost: 180,
	},

	// ---- world pacing and experience ----
	{
		Key: "FARMING_SPEED", DisplayName: "Farming Speed", PropertyKey: "Farming",
		Target: models.TargetSandbox, ConfigType: models.ConfigTypeSandboxVars,
		ValueKind: models.ValueKindPercentage,
		Description: "Speeds up crop growth",
		BaseValue: f(1.0), MinValue: f(0.05), MaxValue: f(3.0), BaseCost: 180,
	},
	{
		Key: "MELEE_XP_BOOST", DisplayName: "Melee Combat XP", PropertyKey: "XPMultiplier.Maintenance",
		Target: models.TargetSandbox, ConfigType: models.ConfigTypeSandboxVars,
		ValueKind: models.ValueKindPercentage,
		Description: "Increases experience gained in melee combat",
		BaseValue: f(1.0), MinValue: f(0.05), MaxValue: f(3.0), BaseCost: 490,
	},
	{
		Key: "CRAFTING_XP_BOOST", DisplayName: "Crafting XP", PropertyKey: "XPMultiplier.Crafting",
		Target: models.TargetSandbox, ConfigType: models.ConfigTypeSandboxVars,
		ValueKind: models.ValueKindPercentage,
		Description: "Increases experience gained when crafting items",
		BaseValue: f(1.0), MinValue: f(0.05), MaxValue: f(3.0), BaseCost: 570,
	},
	{
		Key: "COOKING_XP_BOOST", DisplayName: "Cooking XP", PropertyKey: "XPMultiplier.Cooking",
		Target: models.TargetSandbox, ConfigType: models.ConfigTypeSandboxVars,
		ValueKind: models.ValueKindPercentage,
		Description: "Increases experience gained when cooking",
		BaseValue: f(1.0), MinValue: f(0.05), MaxValue: f(3.0), BaseCost: 360,
	},
	{
		Key: "NATURE_ABUNDANCE", DisplayName: "Nature Abundance", PropertyKey: "NatureAbundance",
		Target: models.TargetSandbox, ConfigType: models.ConfigTypeSandboxVars,
		ValueKind: models.ValueKindPercentage,
		Description: "Increases natural resources like fruit, berries and mushrooms",
		BaseValue: f(1.0), MinValue: f(0.05), MaxValue: f(3.0), BaseCost: 190,
	},
	{
		Key: "FITNESS_XP_BOOST", DisplayName: "Fitness XP", PropertyKey: "XPMultiplier.Fitness",
		Target: models.TargetSandbox, ConfigType: models.ConfigTypeSandboxVars,
		ValueKind: models.ValueKindPercentage,
		Description: "Increases fitness and strength experience",
		BaseValue: f(1.0), MinValue: f(0.05), MaxValue: f(3.0), BaseCost: 260,
	},
	{
		Key: "SURVIVAL_XP_BOOST", DisplayName: "Survival XP", PropertyKey: "XPMultiplier.Survival",
		Target: models.TargetSandbox, ConfigType: models.ConfigTypeSandboxVars,
		ValueKind: models.ValueKindPercentage,
		Description: "Increases survival skill experience",
		BaseValue: f(1.0), MinValue: f(0.05), MaxValue: f(3.0), BaseCost: 130,
	},

	// ---- zone effects ----
	{
		Key: "SPRINTER_ZONE", DisplayName: "Sprinter Zone", PropertyKey: "sprinterChance",
		Target: models.TargetZone, ValueKind: models.ValueKindPercentage,
		Description: "Creates a dangerous zone with running zombies",
		BaseValue: f(0.0), MinValue: f(5.0), MaxValue: f(100.0), BaseCost: 500,
	},
	{
		Key: "PVP_ZONE", DisplayName: "PVP Combat Zone", PropertyKey: "pvpEnabled",
		Target: models.TargetZone, ValueKind: models.ValueKindBoolean,
		Description: "Enables player-versus-player combat inside the zone",
		BaseCost: 500,
	},
	{
		Key: "TOUGH_ZOMBIE_ZONE", DisplayName: "Tough Zombie Zone", PropertyKey: "toughnessChance",
		Target: models.TargetZone, ValueKind: models.ValueKindPercentage,
		Description: "Creates a zone with harder-to-kill zombies",
		BaseValue: f(0.0), MinValue: f(5.0), MaxValue: f(100.0), BaseCost: 350,
	},
	{
		Key: "ARMORED_ZOMBIE_ZONE", DisplayName: "Armored Zombie Zone", PropertyKey: "zombieArmorFactor",
		Target: models.TargetZone, ValueKind: models.ValueKindPercentage,
		Description: "Creates a zone where zombies carry extra armor",
		BaseValue: f(0.0), MinValue: f(5.0), MaxValue: f(100.0), BaseCost: 530,
	},
	{
		Key: "HAWK_VISION_ZONE", DisplayName: "Hawk Vision Zone", PropertyKey: "hawkVisionChance",
		Target: models.TargetZone, ValueKind: models.ValueKindPercentage,
		Description: "Creates a zone where zombies spot players easily",
		BaseValue: f(0.0), MinValue: f(5.0), MaxValue: f(100.0), BaseCost: 320,
	},
	{
		Key: "GOOD_HEARING_ZONE", DisplayName: "Keen Hearing Zone", PropertyKey: "goodHearingChance",
		Target: models.TargetZone, ValueKind: models.ValueKindPercentage,
		Description: "Creates a zone where zombies hear further",
		BaseValue: f(0.0), MinValue: f(5.0), MaxValue: f(100.0), BaseCost: 310,
	},
	{
		Key: "SUPERHUMAN_ZOMBIE_ZONE", DisplayName: "Superhuman Zombie Zone", PropertyKey: "superhumanChance",
		Target: models.TargetZone, ValueKind: models.ValueKindPercentage,
		Description: "Creates a zone with extremely powerful zombies",
		BaseValue: f(0.0), MinValue: f(5.0), MaxValue: f(100.0), BaseCost: 350,
	},
	{
		Key: "ZONE_MESSAGE", DisplayName: "Zone Message", PropertyKey: "regionMessage",
		Target: models.TargetZone, ValueKind: models.ValueKindText,
		Description: "Shows a custom message when players enter the zone",
		BaseCost: 550,
	},
	{
		Key: "KILL_POINTS_MULTIPLIER", DisplayName: "Kill Points Multiplier", PropertyKey: "killPointsMultiplier",
		Target: models.TargetZone, ValueKind: models.ValueKindAbsolute,
		Description: "Increases points earned for zombie kills inside the zone",
		BaseValue: f(1.0), MinValue: f(5.0), MaxValue: f(100.0), BaseCost: 150,
	},
}
