package portfolio

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"
	"sync"

	"PortfolioSentinel/internal/model"
)

// ErrNotHeld is returned when removing a ticker that is not in the portfolio.
var ErrNotHeld = errors.New("ticker not held")

// Store holds the portfolio with merge-on-add semantics and concurrency
// safety. Adding an already-held ticker sums the share counts; there is at
// most one entry per ticker.
type Store struct {
	mu       sync.Mutex
	entries  []model.PortfolioEntry
	index    map[string]int
	filePath string
}

// NewStore creates a Store, loading state from disk when filePath is set.
func NewStore(filePath string) (*Store, error) {
	s := &Store{index: make(map[string]int), filePath: filePath}
	if filePath == "" {
		return s, nil
	}
	entries, err := LoadState(filePath)
	if err != nil {
		return nil, fmt.Errorf("load portfolio state: %w", err)
	}
	for _, e := range entries {
		s.index[e.Ticker] = len(s.entries)
		s.entries = append(s.entries, e)
	}
	return s, nil
}

func normalizeTicker(ticker string) string {
	return strings.ToUpper(strings.TrimSpace(ticker))
}

// Add inserts a holding, merging by summing shares when the ticker is
// already held.
func (s *Store) Add(ticker string, shares float64) error {
	t := normalizeTicker(ticker)
	if t == "" {
		return errors.New("ticker must not be empty")
	}
	if shares <= 0 {
		return fmt.Errorf("shares must be positive, got %v", shares)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if i, ok := s.index[t]; ok {
		s.entries[i].Shares += shares
	} else {
		s.index[t] = len(s.entries)
		s.entries = append(s.entries, model.PortfolioEntry{Ticker: t, Shares: shares})
	}
	s.saveLocked()
	return nil
}

// Remove deletes a holding entirely.
func (s *Store) Remove(ticker string) error {
	t := normalizeTicker(ticker)

	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[t]
	if !ok {
		return ErrNotHeld
	}
	s.entries = append(s.entries[:i], s.entries[i+1:]...)
	delete(s.index, t)
	for j := i; j < len(s.entries); j++ {
		s.index[s.entries[j].Ticker] = j
	}
	s.saveLocked()
	return nil
}

// Holds reports whether the ticker is currently in the portfolio.
func (s *Store) Holds(ticker string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.index[normalizeTicker(ticker)]
	return ok
}

// Snapshot returns a copy of the entries in insertion order. The batch
// engine iterates the snapshot, never the live list.
func (s *Store) Snapshot() []model.PortfolioEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.PortfolioEntry, len(s.entries))
	copy(out, s.entries)
	return out
}

// ImportCSV reads a two-column (Ticker, Shares) file and merges every row
// into the portfolio. Duplicate rows merge by summing shares. Returns the
// number of rows imported.
func (s *Store) ImportCSV(r io.Reader) (int, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return 0, fmt.Errorf("read csv header: %w", err)
	}
	if len(header) < 2 ||
		!strings.EqualFold(strings.TrimSpace(header[0]), "Ticker") ||
		!strings.EqualFold(strings.TrimSpace(header[1]), "Shares") {
		return 0, fmt.Errorf("unexpected csv header %v, want Ticker,Shares", header)
	}

	count := 0
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return count, fmt.Errorf("read csv row: %w", err)
		}
		if len(rec) < 2 {
			return count, fmt.Errorf("csv row %d: want 2 columns, got %d", count+2, len(rec))
		}
		shares, err := strconv.ParseFloat(strings.TrimSpace(rec[1]), 64)
		if err != nil {
			return count, fmt.Errorf("csv row %d: invalid shares %q: %w", count+2, rec[1], err)
		}
		if err := s.Add(rec[0], shares); err != nil {
			return count, fmt.Errorf("csv row %d: %w", count+2, err)
		}
		count++
	}
	return count, nil
}

func (s *Store) saveLocked() {
	if s.filePath == "" {
		return
	}
	if err := SaveState(s.filePath, s.entries); err != nil {
		log.Printf("[ERROR] failed to save portfolio state: %v", err)
	}
}
