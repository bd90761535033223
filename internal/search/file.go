package search

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"strings"
)

// FileProvider loads a recorded search response from a local JSON file for
// offline runs and tests. The file uses the same shape as the Serper API:
// {"organic": [{"title": "...", "link": "..."}]}. The query is ignored.
type FileProvider struct {
	Path string
}

func (f *FileProvider) Name() string { return "file" }

func (f *FileProvider) Search(_ context.Context, _ string) (ResultSet, error) {
	if strings.TrimSpace(f.Path) == "" {
		return ResultSet{}, errors.New("file provider path is empty")
	}
	b, err := os.ReadFile(f.Path)
	if err != nil {
		return ResultSet{}, err
	}
	var set ResultSet
	if err := json.Unmarshal(b, &set); err != nil {
		return ResultSet{}, err
	}
	return set, nil
}
