package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/LuizHUlmi/profiles-sub000/internal/config"
	"github.com/LuizHUlmi/profiles-sub000/internal/domain"
)

var planExtensions = []string{".yaml", ".yml"}

// FileSource reads plans from a directory of YAML files named <plan id>.yaml
type FileSource struct {
	Dir    string
	parser *config.InputParser
}

// NewFileSource creates a source over dir
func NewFileSource(dir string) *FileSource {
	return &FileSource{Dir: dir, parser: config.NewInputParser()}
}

func (s *FileSource) Name() string { return "file:" + s.Dir }

// ListPlans returns the plan ids found in the directory, sorted
func (s *FileSource) ListPlans(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read plan directory %s: %w", s.Dir, err)
	}

	var ids []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		for _, want := range planExtensions {
			if ext == want {
				ids = append(ids, strings.TrimSuffix(e.Name(), filepath.Ext(e.Name())))
				break
			}
		}
	}
	sort.Strings(ids)
	return ids, nil
}

// LoadPlan parses and validates <dir>/<id>.yaml (or .yml)
func (s *FileSource) LoadPlan(ctx context.Context, id string) (*domain.Plan, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if id == "" || strings.ContainsAny(id, `/\`) || id == "." || id == ".." {
		return nil, fmt.Errorf("invalid plan id %q", id)
	}

	for _, ext := range planExtensions {
		path := filepath.Join(s.Dir, id+ext)
		if _, err := os.Stat(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("failed to stat %s: %w", path, err)
		}
		return s.parser.LoadFromFile(path)
	}
	return nil, fmt.Errorf("%w: %s", ErrPlanNotFound, id)
}
