package jsonfile

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/viral-studio/internal/casestore"
	"github.com/viral-studio/internal/models"
	"github.com/viral-studio/pkg/logger"
)

func newTestRepo(t *testing.T) (*Repository, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cases.json")
	repo, err := New(path, logger.Default())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return repo, path
}

func TestLoad_BootstrapsSeedWhenMissing(t *testing.T) {
	repo, _ := newTestRepo(t)

	cases, err := repo.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(cases) == 0 {
		t.Fatal("Load() on a missing store returned no seed cases")
	}
	if cases[0].DisplayScore() != 51 {
		t.Errorf("seed case DisplayScore() = %d, want 51 (51.3492... truncated)", cases[0].DisplayScore())
	}
}

func TestLoad_CorruptStoreIsUnavailable(t *testing.T) {
	repo, path := newTestRepo(t)
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := repo.Load(context.Background())
	if !errors.Is(err, casestore.ErrStoreUnavailable) {
		t.Errorf("Load() error = %v, want ErrStoreUnavailable", err)
	}
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	repo, path := newTestRepo(t)
	ctx := context.Background()

	in := []*models.Case{
		{ID: "VC0001", Title: "one", Platform: models.PlatformWeibo},
		{ID: "VC0002", Title: "two", Platform: models.PlatformWeChat},
	}
	if err := repo.Save(ctx, in); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	out, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(out) != 2 || out[0].ID != "VC0001" || out[1].ID != "VC0002" {
		t.Errorf("Load() after Save() = %v", out)
	}

	// The document shape is {"cases": [...]}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"cases"`) {
		t.Errorf("store document missing top-level cases key: %s", data)
	}

	// No temp files left behind
	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("store directory has %d entries after save, want 1", len(entries))
	}
}

func TestAppend_AssignsSequentialIDs(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	// Start from an explicit collection with a gap in the VC namespace
	if err := repo.Save(ctx, []*models.Case{
		{ID: "sample", Title: "seeded"},
		{ID: "VC0007", Title: "gap"},
	}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	id, err := repo.Append(ctx, &models.Case{Title: "new", Platform: models.PlatformWeibo})
	if err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	if id != "VC0008" {
		t.Errorf("Append() id = %s, want VC0008", id)
	}

	// Caller-supplied ids are kept
	id, err = repo.Append(ctx, &models.Case{ID: "curated", Title: "kept"})
	if err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	if id != "curated" {
		t.Errorf("Append() id = %s, want curated", id)
	}

	cases, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(cases) != 4 {
		t.Errorf("Load() returned %d cases, want 4", len(cases))
	}
}

func TestAppend_RejectsDuplicateID(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	if err := repo.Save(ctx, []*models.Case{
		{ID: "VC0001", Title: "original", Platform: models.PlatformWeibo},
	}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	_, err := repo.Append(ctx, &models.Case{ID: "VC0001", Title: "imposter"})
	if !errors.Is(err, casestore.ErrDuplicateID) {
		t.Fatalf("Append() with an existing id error = %v, want ErrDuplicateID", err)
	}

	// The collection is untouched and the original still wins lookups
	cases, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(cases) != 1 {
		t.Errorf("Load() returned %d cases after rejected append, want 1", len(cases))
	}
	found, err := repo.FindByID(ctx, "VC0001")
	if err != nil {
		t.Fatalf("FindByID() error = %v", err)
	}
	if found.Title != "original" {
		t.Errorf("FindByID() title = %s, want original", found.Title)
	}
}

func TestAppend_FirstGeneratedIDIsVC0001(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	if err := repo.Save(ctx, nil); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	id, err := repo.Append(ctx, &models.Case{Title: "first"})
	if err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	if id != "VC0001" {
		t.Errorf("Append() id = %s, want VC0001", id)
	}
}

func TestQuery_EmptyPlatformSetSuppressesAllRows(t *testing.T) {
	repo, _ := newTestRepo(t)

	got, err := repo.Query(context.Background(), casestore.Query{
		Platforms: nil,
		Keyword:   "tariff",
		SortKey:   casestore.SortImpactDesc,
	})
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Query() with empty platform set returned %d cases, want 0", len(got))
	}
}

func TestQuery_SeededEndToEnd(t *testing.T) {
	repo, _ := newTestRepo(t)

	got, err := repo.Query(context.Background(), casestore.DefaultQuery())
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("Query() returned %d cases, want the single seed case", len(got))
	}
	if got[0].DisplayScore() != 51 {
		t.Errorf("DisplayScore() = %d, want 51", got[0].DisplayScore())
	}
}

func TestFindByID(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	seed, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	found, err := repo.FindByID(ctx, seed[0].ID)
	if err != nil {
		t.Fatalf("FindByID() error = %v", err)
	}
	if found.Title != seed[0].Title {
		t.Errorf("FindByID() title = %s, want %s", found.Title, seed[0].Title)
	}

	if _, err := repo.FindByID(ctx, "nope"); !errors.Is(err, casestore.ErrCaseNotFound) {
		t.Errorf("FindByID(nope) error = %v, want ErrCaseNotFound", err)
	}
}
