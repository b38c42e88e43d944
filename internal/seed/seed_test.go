package seed

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"tally/internal/ledger/memory"
)

func TestCategoriesFallback(t *testing.T) {
	cats := Categories(t.TempDir())
	if len(cats) == 0 {
		t.Fatal("expected built-in categories")
	}
	found := false
	for _, c := range cats {
		if c == "Salary" {
			found = true
		}
	}
	if !found {
		t.Fatalf("built-in list missing Salary: %v", cats)
	}
}

func TestCategoriesFromFile(t *testing.T) {
	dir := t.TempDir()
	content := "# taxonomy\nRent\nFood\n\nFood\nTravel\n"
	if err := os.WriteFile(filepath.Join(dir, "categories.txt"), []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cats := Categories(dir)
	want := []string{"Rent", "Food", "Travel"}
	if len(cats) != len(want) {
		t.Fatalf("cats = %v", cats)
	}
	for i := range want {
		if cats[i] != want[i] {
			t.Fatalf("cats = %v, want %v", cats, want)
		}
	}
}

func TestDemoSeedsValidRecords(t *testing.T) {
	s := memory.New()
	if err := Demo(context.Background(), s); err != nil {
		t.Fatalf("demo seed: %v", err)
	}
	txs, _ := s.Transactions(context.Background())
	if len(txs) == 0 {
		t.Fatal("no transactions seeded")
	}
	fcs, _ := s.FixedCosts(context.Background())
	if len(fcs) != 2 {
		t.Fatalf("fixed costs = %d, want 2", len(fcs))
	}
	for _, fc := range fcs {
		if !fc.Active {
			t.Fatalf("seeded fixed cost inactive: %+v", fc)
		}
	}
}
