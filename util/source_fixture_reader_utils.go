package util

import (
	"encoding/json"
	"fmt"
	"os"

	"museum-buddy/models/row"
)

// SourceFixture is a data source dump: museum and exhibition rows as the
// remote tables return them.
type SourceFixture struct {
	Museums     []row.Row `json:"musea"`
	Exhibitions []row.Row `json:"exposities"`
}

// ReadSourceFixtureFromJSON loads a SourceFixture from JSON on disk.
func ReadSourceFixtureFromJSON(filePath string) (*SourceFixture, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %q: %w", filePath, err)
	}
	var fixture SourceFixture
	if err := json.Unmarshal(data, &fixture); err != nil {
		return nil, fmt.Errorf("failed to unmarshal SourceFixture: %w", err)
	}
	if len(fixture.Museums) == 0 {
		return nil, fmt.Errorf("source fixture %q has no museum rows", filePath)
	}
	return &fixture, nil
}
