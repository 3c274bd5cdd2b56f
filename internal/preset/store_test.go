package preset

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/JonMunkholm/costdraft/internal/profile"
)

// exerciseStore runs the shared Store contract against s.
func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()
	created := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	p := profile.Profile{Name: "Spring"}
	p.SetCharacter("1305", profile.CharacterCosts{1, 1.25, 1.5, 2, 2.5, 3, 4})
	p.SetEquipment("23020", profile.EquipmentCosts{0.25, 0.5, 0.75, 1, 1.25})

	rec := Record{ID: "a", OwnerID: "alice", Profile: p, CreatedAt: created, UpdatedAt: created}
	if err := s.Save(ctx, rec); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	other := Record{ID: "b", OwnerID: "bob", Profile: profile.Profile{Name: "Other"}, CreatedAt: created, UpdatedAt: created}
	if err := s.Save(ctx, other); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := s.Get(ctx, "alice", "a")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Profile.Name != "Spring" {
		t.Errorf("Profile.Name = %q, want %q", got.Profile.Name, "Spring")
	}
	if got.Profile.Characters["1305"] != p.Characters["1305"] {
		t.Errorf("Characters[1305] = %v, want %v", got.Profile.Characters["1305"], p.Characters["1305"])
	}
	if got.Profile.Equipment["23020"] != p.Equipment["23020"] {
		t.Errorf("Equipment[23020] = %v, want %v", got.Profile.Equipment["23020"], p.Equipment["23020"])
	}
	if !got.CreatedAt.Equal(created) {
		t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, created)
	}

	if _, err := s.Get(ctx, "bob", "a"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() by other owner error = %v, want ErrNotFound", err)
	}

	rec.Profile.Name = "Renamed"
	rec.UpdatedAt = created.Add(time.Hour)
	if err := s.Save(ctx, rec); err != nil {
		t.Fatalf("Save(update) error = %v", err)
	}
	list, err := s.List(ctx, "alice")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(list) != 1 || list[0].Profile.Name != "Renamed" {
		t.Errorf("List() = %+v, want one renamed record", list)
	}

	if err := s.Delete(ctx, "bob", "a"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Delete() by other owner error = %v, want ErrNotFound", err)
	}
	if err := s.Delete(ctx, "alice", "a"); err != nil {
		t.Errorf("Delete() error = %v", err)
	}
	if err := s.Delete(ctx, "alice", "a"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Delete() twice error = %v, want ErrNotFound", err)
	}
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore())
}

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	p := profile.Profile{Name: "x"}
	p.SetCharacter("1", profile.CharacterCosts{1})
	if err := s.Save(ctx, Record{ID: "a", OwnerID: "o", Profile: p}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, _ := s.Get(ctx, "o", "a")
	got.Profile.Characters["1"] = profile.CharacterCosts{9}

	again, _ := s.Get(ctx, "o", "a")
	if again.Profile.Characters["1"][0] != 1 {
		t.Errorf("stored matrix changed through a returned copy")
	}
}

func TestSQLiteStore(t *testing.T) {
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "presets.db"))
	if err != nil {
		t.Fatalf("OpenSQLite() error = %v", err)
	}
	defer s.Close()
	exerciseStore(t, s)
}

func TestSQLiteStore_InMemory(t *testing.T) {
	s, err := OpenSQLite(":memory:")
	if err != nil {
		t.Fatalf("OpenSQLite() error = %v", err)
	}
	defer s.Close()
	exerciseStore(t, s)
}

func TestPostgresStore(t *testing.T) {
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	s, err := OpenPostgres(ctx, url, PostgresPoolConfig{MaxConns: 2})
	if err != nil {
		t.Fatalf("OpenPostgres() error = %v", err)
	}
	defer s.Close()
	_, _ = s.db.Exec(ctx, `DELETE FROM cost_presets WHERE owner_id IN ('alice', 'bob')`)
	exerciseStore(t, s)
}
