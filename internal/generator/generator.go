package generator

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/CrazySloths/skillbadge/internal/logging"
	"github.com/CrazySloths/skillbadge/internal/models"
)

var (
	// ErrEmptyMarker is returned when a region marker is the empty string.
	ErrEmptyMarker = errors.New("region markers must not be empty")
	// ErrMarkersNotFound is returned when the document has no complete
	// start/end marker pair.
	ErrMarkersNotFound = errors.New("region markers not found")
)

// Markers delimit the generated region of a README.
type Markers struct {
	Start string
	End   string
}

// Result describes what Run did.
type Result struct {
	Content string
	Changed bool
}

// BuildBadge returns the skillicons image tag for skills, listing tokens in
// insertion order.
func BuildBadge(baseURL string, skills *models.SkillSet) string {
	return fmt.Sprintf(`<img src="%s?i=%s" />`, baseURL, strings.Join(skills.Items(), ","))
}

// Run replaces the marked region of the README at path with content. The
// file is read once and written once, and only when the text changes. With
// dryRun set nothing is written.
func Run(path string, markers Markers, content string, dryRun bool) (*Result, error) {
	original, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	updated, err := ReplaceRegion(original, markers, content)
	if err != nil {
		return nil, fmt.Errorf("failed to update %s: %w", path, err)
	}

	res := &Result{Content: string(updated), Changed: !bytes.Equal(original, updated)}
	if !res.Changed {
		logging.Debug("readme unchanged", "path", path)
		return res, nil
	}
	if dryRun {
		logging.Debug("dry run, not writing", "path", path)
		return res, nil
	}

	if err := writeFile(path, updated); err != nil {
		return nil, err
	}
	return res, nil
}

// writeFile replaces path through a temporary file in the same directory so
// a failed write never leaves a truncated README behind.
func writeFile(path string, data []byte) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create temp file for %s: %w", path, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Chmod(info.Mode().Perm()); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to chmod %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}
