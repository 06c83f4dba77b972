package portfolio

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
)

func TestAdd_MergesByTicker(t *testing.T) {
	s, err := NewStore("")
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	if err := s.Add("AAPL", 3); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := s.Add(" aapl ", 2.5); err != nil {
		t.Fatalf("add: %v", err)
	}

	entries := s.Snapshot()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry after merge, got %d", len(entries))
	}
	if entries[0].Ticker != "AAPL" {
		t.Errorf("ticker = %q, want AAPL", entries[0].Ticker)
	}
	if entries[0].Shares != 5.5 {
		t.Errorf("shares = %v, want 5.5", entries[0].Shares)
	}
}

func TestAdd_RejectsInvalidInput(t *testing.T) {
	s, _ := NewStore("")
	if err := s.Add("", 1); err == nil {
		t.Error("expected error for empty ticker")
	}
	if err := s.Add("  ", 1); err == nil {
		t.Error("expected error for blank ticker")
	}
	if err := s.Add("AAPL", 0); err == nil {
		t.Error("expected error for zero shares")
	}
	if err := s.Add("AAPL", -2); err == nil {
		t.Error("expected error for negative shares")
	}
}

func TestRemove(t *testing.T) {
	s, _ := NewStore("")
	s.Add("AAPL", 1)
	s.Add("MSFT", 2)
	s.Add("GOOG", 3)

	if err := s.Remove("msft"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := s.Remove("MSFT"); !errors.Is(err, ErrNotHeld) {
		t.Errorf("err = %v, want ErrNotHeld", err)
	}

	entries := s.Snapshot()
	if len(entries) != 2 || entries[0].Ticker != "AAPL" || entries[1].Ticker != "GOOG" {
		t.Errorf("unexpected entries after removal: %v", entries)
	}

	// Index must stay consistent after the shift.
	if err := s.Remove("GOOG"); err != nil {
		t.Fatalf("remove after shift: %v", err)
	}
}

func TestSnapshot_IsACopy(t *testing.T) {
	s, _ := NewStore("")
	s.Add("AAPL", 1)

	snap := s.Snapshot()
	snap[0].Shares = 999

	if got := s.Snapshot()[0].Shares; got != 1 {
		t.Errorf("store mutated through snapshot: shares = %v", got)
	}
}

func TestImportCSV(t *testing.T) {
	s, _ := NewStore("")
	s.Add("AAPL", 1)

	csv := "Ticker,Shares\nAAPL,2\nmsft, 4\nAAPL,3\n"
	count, err := s.ImportCSV(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if count != 3 {
		t.Errorf("imported = %d, want 3", count)
	}

	entries := s.Snapshot()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Ticker != "AAPL" || entries[0].Shares != 6 {
		t.Errorf("AAPL entry = %+v, want 6 shares", entries[0])
	}
	if entries[1].Ticker != "MSFT" || entries[1].Shares != 4 {
		t.Errorf("MSFT entry = %+v, want 4 shares", entries[1])
	}
}

func TestImportCSV_Errors(t *testing.T) {
	tests := []struct {
		name string
		csv  string
	}{
		{"wrong header", "Symbol,Count\nAAPL,1\n"},
		{"non-numeric shares", "Ticker,Shares\nAAPL,many\n"},
		{"non-positive shares", "Ticker,Shares\nAAPL,0\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := NewStore("")
			if _, err := s.ImportCSV(strings.NewReader(tt.csv)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestStatePersistence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "portfolio.json")

	s, err := NewStore(path)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	s.Add("AAPL", 10)
	s.Add("MSFT", 4)
	s.Remove("MSFT")

	reloaded, err := NewStore(path)
	if err != nil {
		t.Fatalf("reload store: %v", err)
	}
	entries := reloaded.Snapshot()
	if len(entries) != 1 || entries[0].Ticker != "AAPL" || entries[0].Shares != 10 {
		t.Errorf("unexpected reloaded entries: %v", entries)
	}
}
