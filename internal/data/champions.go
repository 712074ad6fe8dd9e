// Package data provides Data Dragon game data loaders for RiftRewind.
package data

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
)

// ChampionFile represents the structure of champion.json
type ChampionFile struct {
	Type    string              `json:"type"`
	Version string              `json:"version"`
	Data    map[string]Champion `json:"data"`
}

// Champion represents a single champion's data
type Champion struct {
	ID    string   `json:"id"`
	Key   string   `json:"key"` // Numeric champion id as a string
	Name  string   `json:"name"`
	Title string   `json:"title"`
	Tags  []string `json:"tags"`
}

// Champions indexes champions by numeric id. The zero value and nil are empty catalogs.
type Champions struct {
	version string
	byID    map[int]Champion
}

// LoadChampions loads champion data from the JSON file
func LoadChampions(filePath string) (*Champions, error) {
	raw, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}
	return ParseChampions(raw)
}

// ParseChampions parses the contents of champion.json.
// Entries whose key is not numeric are skipped.
func ParseChampions(raw []byte) (*Champions, error) {
	var file ChampionFile
	if err := json.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("failed to parse champion data: %w", err)
	}

	c := &Champions{version: file.Version, byID: make(map[int]Champion, len(file.Data))}
	for _, champ := range file.Data {
		id, err := strconv.Atoi(champ.Key)
		if err != nil {
			continue
		}
		c.byID[id] = champ
	}
	return c, nil
}

// Name returns the display name for a champion id, or "" if unknown.
func (c *Champions) Name(championID int) string {
	if c == nil {
		return ""
	}
	return c.byID[championID].Name
}

// Len returns the number of loaded champions.
func (c *Champions) Len() int {
	if c == nil {
		return 0
	}
	return len(c.byID)
}

// Version returns the Data Dragon version of the loaded file.
func (c *Champions) Version() string {
	if c == nil {
		return ""
	}
	return c.version
}
