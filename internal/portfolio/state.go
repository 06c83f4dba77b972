package portfolio

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"PortfolioSentinel/internal/model"
)

type stateFile struct {
	Entries   []model.PortfolioEntry `json:"entries"`
	UpdatedAt time.Time              `json:"updated_at"`
}

// LoadState reads the portfolio from a JSON file. Returns an empty portfolio
// if the file doesn't exist.
func LoadState(filePath string) ([]model.PortfolioEntry, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var state stateFile
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, err
	}
	return state.Entries, nil
}

// SaveState writes the portfolio to a JSON file.
func SaveState(filePath string, entries []model.PortfolioEntry) error {
	if dir := filepath.Dir(filePath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	data, err := json.MarshalIndent(stateFile{Entries: entries, UpdatedAt: time.Now()}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filePath, data, 0644)
}
