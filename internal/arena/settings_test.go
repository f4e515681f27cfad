package arena

import (
	"testing"

	"github.com/pixil98/go-testutil"
)

func intPtr(i int) *int           { return &i }
func floatPtr(f float64) *float64 { return &f }

func TestSettingsPatch_Merge(t *testing.T) {
	base := DefaultSettings()

	tests := map[string]struct {
		patch SettingsPatch
		exp   Settings
	}{
		"empty patch": {
			patch: SettingsPatch{},
			exp:   base,
		},
		"rock damage only": {
			patch: SettingsPatch{RockDamage: intPtr(40)},
			exp: Settings{
				MaxHealth:     100,
				RockDamage:    40,
				RespawnTimeMs: 3000,
				MovementSpeed: 5,
				ThrowForce:    15,
			},
		},
		"several fields": {
			patch: SettingsPatch{MaxHealth: intPtr(150), ThrowForce: floatPtr(20)},
			exp: Settings{
				MaxHealth:     150,
				RockDamage:    25,
				RespawnTimeMs: 3000,
				MovementSpeed: 5,
				ThrowForce:    20,
			},
		},
		"non-positive values dropped": {
			patch: SettingsPatch{RespawnTimeMs: intPtr(0), MovementSpeed: floatPtr(-1)},
			exp:   base,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			testutil.AssertEqual(t, "settings", tt.patch.Merge(base), tt.exp)
		})
	}
}

func TestSettings_Validate(t *testing.T) {
	tests := map[string]struct {
		settings Settings
		expErr   string
	}{
		"defaults": {
			settings: DefaultSettings(),
		},
		"zero max health": {
			settings: Settings{MaxHealth: 0, RockDamage: 1, RespawnTimeMs: 1, MovementSpeed: 1, ThrowForce: 1},
			expErr:   "max_health must be positive",
		},
		"negative throw force": {
			settings: Settings{MaxHealth: 1, RockDamage: 1, RespawnTimeMs: 1, MovementSpeed: 1, ThrowForce: -2},
			expErr:   "throw_force must be positive",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			err := tt.settings.Validate()
			if tt.expErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			testutil.AssertErrorContains(t, err, tt.expErr)
		})
	}
}

func TestSettingsPatch_Validate(t *testing.T) {
	err := SettingsPatch{RockDamage: intPtr(-5)}.Validate()
	testutil.AssertErrorContains(t, err, "rock_damage must be positive")

	err = SettingsPatch{RockDamage: intPtr(5)}.Validate()
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestPatchFrom(t *testing.T) {
	s := Settings{MaxHealth: 7, RockDamage: 3, RespawnTimeMs: 10, MovementSpeed: 2, ThrowForce: 9}
	testutil.AssertEqual(t, "merged", PatchFrom(s).Merge(DefaultSettings()), s)
	testutil.AssertEqual(t, "empty", SettingsPatch{}.Empty(), true)
	testutil.AssertEqual(t, "not empty", PatchFrom(s).Empty(), false)
}
