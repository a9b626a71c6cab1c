package crawler

import (
	"encoding/json"
	"fmt"

	"github.com/CrazySloths/skillbadge/internal/models"
)

type packageJSON struct {
	Dependencies    map[string]any `json:"dependencies"`
	DevDependencies map[string]any `json:"devDependencies"`
}

// parsePackageJSON merges the dependencies and devDependencies of a
// package.json. A devDependencies entry wins over a runtime entry of the
// same name.
func parsePackageJSON(data []byte) (models.DependencyManifest, error) {
	var pkg packageJSON
	if err := json.Unmarshal(data, &pkg); err != nil {
		return nil, fmt.Errorf("failed to parse package.json: %w", err)
	}

	deps := make(models.DependencyManifest, len(pkg.Dependencies)+len(pkg.DevDependencies))
	for _, section := range []map[string]any{pkg.Dependencies, pkg.DevDependencies} {
		for name, version := range section {
			deps[name] = versionString(version)
		}
	}
	return deps, nil
}

func versionString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case nil:
		return ""
	default:
		return fmt.Sprint(t)
	}
}
