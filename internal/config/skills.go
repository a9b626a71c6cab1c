package config

import (
	_ "embed"
	"fmt"

	"github.com/CrazySloths/skillbadge/internal/models"
	"gopkg.in/yaml.v3"
)

//go:embed skills.yaml
var embeddedSkills []byte

// DependencySkill maps one package.json dependency to a skill token.
type DependencySkill struct {
	Dependency string `mapstructure:"dependency" yaml:"dependency"`
	Skill      string `mapstructure:"skill" yaml:"skill"`
}

// SkillTable is the declarative lookup used by the scanner.
type SkillTable struct {
	Dependencies []DependencySkill `mapstructure:"dependencies" yaml:"dependencies"`
	Composer     []string          `mapstructure:"composer" yaml:"composer"`
}

// DefaultSkillTable returns the embedded table.
func DefaultSkillTable() (SkillTable, error) {
	return ParseSkillTable(embeddedSkills)
}

// ParseSkillTable decodes a YAML skill table.
func ParseSkillTable(data []byte) (SkillTable, error) {
	var table SkillTable
	if err := yaml.Unmarshal(data, &table); err != nil {
		return SkillTable{}, fmt.Errorf("failed to parse skill table: %w", err)
	}
	if err := table.Validate(); err != nil {
		return SkillTable{}, err
	}
	return table, nil
}

// Validate checks that every entry names both a dependency and a skill.
func (t SkillTable) Validate() error {
	for i, d := range t.Dependencies {
		if d.Dependency == "" {
			return fmt.Errorf("skills.dependencies[%d]: dependency is required", i)
		}
		if d.Skill == "" {
			return fmt.Errorf("skills.dependencies[%d]: skill is required for %q", i, d.Dependency)
		}
	}
	for i, s := range t.Composer {
		if s == "" {
			return fmt.Errorf("skills.composer[%d]: empty skill token", i)
		}
	}
	return nil
}

// Detect returns the skills whose dependency is declared in m, in table
// order and without duplicates.
func (t SkillTable) Detect(m models.DependencyManifest) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, d := range t.Dependencies {
		if !m.Has(d.Dependency) {
			continue
		}
		if _, ok := seen[d.Skill]; ok {
			continue
		}
		seen[d.Skill] = struct{}{}
		out = append(out, d.Skill)
	}
	return out
}

// defaultsMap renders the table in the shape viper stores defaults in.
func (t SkillTable) defaultsMap() []map[string]any {
	out := make([]map[string]any, 0, len(t.Dependencies))
	for _, d := range t.Dependencies {
		out = append(out, map[string]any{
			"dependency": d.Dependency,
			"skill":      d.Skill,
		})
	}
	return out
}
