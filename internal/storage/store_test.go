package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/pixil98/go-arena/internal/arena"
	"github.com/pixil98/go-testutil"
)

func writeAsset(t *testing.T, path string, asset Asset[*Preset]) {
	t.Helper()
	data, err := json.Marshal(asset)
	if err != nil {
		t.Fatalf("failed to marshal test asset: %v", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}
}

func TestNewFileStore(t *testing.T) {
	tmpDir := t.TempDir()

	store, err := NewPresetStore(tmpDir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	testutil.AssertEqual(t, "path", store.path, tmpDir)
	testutil.AssertEqual(t, "records length", len(store.records), 0)
}

func TestNewFileStore_NonExistentDirectory(t *testing.T) {
	_, err := NewPresetStore("/nonexistent/path/that/does/not/exist")
	if err == nil {
		t.Error("expected error for non-existent directory")
	}
}

func TestNewFileStore_WithExistingAssets(t *testing.T) {
	tmpDir := t.TempDir()

	writeAsset(t, filepath.Join(tmpDir, "glass-cannon.json"), Asset[*Preset]{
		Version:    1,
		Identifier: "glass-cannon",
		Spec:       validPreset(),
	})
	writeAsset(t, filepath.Join(tmpDir, "tank.json"), Asset[*Preset]{
		Version:    1,
		Identifier: "tank",
		Spec:       &Preset{Name: "Tank", Settings: arena.SettingsPatch{MaxHealth: intPtr(400)}},
	})

	store, err := NewPresetStore(tmpDir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	testutil.AssertEqual(t, "record count", len(store.records), 2)

	tank, ok := store.Get("tank")
	if !ok {
		t.Fatal("expected tank to be loaded")
	}
	testutil.AssertEqual(t, "tank name", tank.Name, "Tank")
	testutil.AssertEqual(t, "tank max health", *tank.Settings.MaxHealth, 400)
}

func TestNewFileStore_Errors(t *testing.T) {
	tests := map[string]struct {
		setup  func(t *testing.T, dir string)
		expErr string
	}{
		"invalid json": {
			setup: func(t *testing.T, dir string) {
				if err := os.WriteFile(filepath.Join(dir, "bad.json"), []byte(`{invalid json`), 0644); err != nil {
					t.Fatalf("failed to write test file: %v", err)
				}
			},
			expErr: "unmarshalling asset",
		},
		"validation error": {
			setup: func(t *testing.T, dir string) {
				writeAsset(t, filepath.Join(dir, "test.json"), Asset[*Preset]{Identifier: "test", Spec: validPreset()})
			},
			expErr: "version must be set",
		},
		"duplicate key": {
			setup: func(t *testing.T, dir string) {
				subDir := filepath.Join(dir, "subdir")
				if err := os.Mkdir(subDir, 0755); err != nil {
					t.Fatalf("failed to create subdir: %v", err)
				}
				asset := Asset[*Preset]{Version: 1, Identifier: "duplicate-id", Spec: validPreset()}
				writeAsset(t, filepath.Join(dir, "file1.json"), asset)
				writeAsset(t, filepath.Join(subDir, "file2.json"), asset)
			},
			expErr: "duplicate key detected",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			tmpDir := t.TempDir()
			tt.setup(t, tmpDir)

			_, err := NewPresetStore(tmpDir)
			testutil.AssertErrorContains(t, err, tt.expErr)
		})
	}
}

func TestNewFileStore_IgnoresNonJSONFiles(t *testing.T) {
	tmpDir := t.TempDir()

	writeAsset(t, filepath.Join(tmpDir, "valid.json"), Asset[*Preset]{Version: 1, Identifier: "valid", Spec: validPreset()})

	err := os.WriteFile(filepath.Join(tmpDir, "readme.txt"), []byte("ignore me"), 0644)
	if err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}
	err = os.WriteFile(filepath.Join(tmpDir, "settings.yaml"), []byte("max_health: 10"), 0644)
	if err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	store, err := NewPresetStore(tmpDir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	testutil.AssertEqual(t, "record count", len(store.records), 1)
}

func TestFileStore_Get(t *testing.T) {
	store, err := NewPresetStore(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error creating store: %v", err)
	}
	store.records = map[Identifier]*Preset{
		"existing": {Name: "Existing"},
	}

	tests := map[string]struct {
		id      Identifier
		expOk   bool
		expName string
	}{
		"get existing record": {
			id:      "existing",
			expOk:   true,
			expName: "Existing",
		},
		"get non-existing record": {
			id: "nonexistent",
		},
		"get empty id": {
			id: "",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			result, ok := store.Get(tt.id)

			testutil.AssertEqual(t, "found", ok, tt.expOk)
			if ok {
				testutil.AssertEqual(t, "name", result.Name, tt.expName)
			}
		})
	}
}

func TestFileStore_GetAllReturnsCopy(t *testing.T) {
	store, err := NewPresetStore(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error creating store: %v", err)
	}
	store.records = map[Identifier]*Preset{
		"one": {Name: "One"},
		"two": {Name: "Two"},
	}

	result := store.GetAll()
	testutil.AssertEqual(t, "count", len(result), 2)

	delete(result, "one")
	testutil.AssertEqual(t, "store count", len(store.records), 2)
}

func TestFileStore_Ids(t *testing.T) {
	store, err := NewPresetStore(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error creating store: %v", err)
	}
	store.records = map[Identifier]*Preset{
		"tank":         {Name: "Tank"},
		"glass-cannon": {Name: "Glass cannon"},
		"marathon":     {Name: "Marathon"},
	}

	ids := store.Ids()
	testutil.AssertEqual(t, "count", len(ids), 3)
	testutil.AssertEqual(t, "first", ids[0], Identifier("glass-cannon"))
	testutil.AssertEqual(t, "last", ids[2], Identifier("tank"))
}

func TestFileStore_Save(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewPresetStore(tmpDir)
	if err != nil {
		t.Fatalf("unexpected error creating store: %v", err)
	}

	err = store.Save("glass-cannon", validPreset())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cached, ok := store.Get("glass-cannon")
	if !ok {
		t.Fatal("expected cached record")
	}
	testutil.AssertEqual(t, "cached name", cached.Name, "Glass cannon")

	data, err := os.ReadFile(filepath.Join(tmpDir, "glass-cannon.json"))
	if err != nil {
		t.Fatalf("failed to read saved file: %v", err)
	}

	var asset Asset[*Preset]
	err = json.Unmarshal(data, &asset)
	if err != nil {
		t.Fatalf("failed to unmarshal saved data: %v", err)
	}

	testutil.AssertEqual(t, "asset version", asset.Version, uint(1))
	testutil.AssertEqual(t, "asset id", asset.Identifier, Identifier("glass-cannon"))
	testutil.AssertEqual(t, "spec damage", *asset.Spec.Settings.RockDamage, 50)

	reloaded, err := NewPresetStore(tmpDir)
	if err != nil {
		t.Fatalf("unexpected error reloading: %v", err)
	}
	testutil.AssertEqual(t, "reloaded count", len(reloaded.Ids()), 1)
}

func TestFileStore_Save_RejectsInvalid(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewPresetStore(tmpDir)
	if err != nil {
		t.Fatalf("unexpected error creating store: %v", err)
	}

	err = store.Save("bad id", validPreset())
	testutil.AssertErrorContains(t, err, "id must be alphanumeric")

	_, ok := store.Get("bad id")
	testutil.AssertEqual(t, "cached", ok, false)
}

func TestFileStore_Reload(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewPresetStore(tmpDir)
	if err != nil {
		t.Fatalf("unexpected error creating store: %v", err)
	}

	writeAsset(t, filepath.Join(tmpDir, "late.json"), Asset[*Preset]{Version: 1, Identifier: "late", Spec: validPreset()})

	if err := store.Reload(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, ok := store.Get("late")
	testutil.AssertEqual(t, "found", ok, true)
}

func TestFileStore_filePath(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewPresetStore(tmpDir)
	if err != nil {
		t.Fatalf("unexpected error creating store: %v", err)
	}

	testutil.AssertEqual(t, "file path", store.filePath("test-id"), filepath.Join(tmpDir, "test-id.json"))
}
