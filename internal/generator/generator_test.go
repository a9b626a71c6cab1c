package generator

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/CrazySloths/skillbadge/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testMarkers = Markers{Start: "<!-- SKILLS:START -->", End: "<!-- SKILLS:END -->"}

const baseURL = "https://skillicons.dev/icons"

func TestBuildBadge(t *testing.T) {
	skills := models.NewSkillSet("react", "php", "laravel", "mysql")

	assert.Equal(t,
		`<img src="https://skillicons.dev/icons?i=react,php,laravel,mysql" />`,
		BuildBadge(baseURL, skills))
}

func TestBuildBadge_StableForSameSet(t *testing.T) {
	a := BuildBadge(baseURL, models.NewSkillSet("vue", "express"))
	b := BuildBadge(baseURL, models.NewSkillSet("vue", "express", "vue"))

	assert.Equal(t, a, b)
}

func TestBuildBadge_Empty(t *testing.T) {
	assert.Equal(t, `<img src="https://skillicons.dev/icons?i=" />`, BuildBadge(baseURL, models.NewSkillSet()))
}

func TestReplaceRegion(t *testing.T) {
	doc := "# Hi\n\n<!-- SKILLS:START -->\nold badge\n<!-- SKILLS:END -->\n\nBye\n"

	out, err := ReplaceRegion([]byte(doc), testMarkers, "<img />")

	require.NoError(t, err)
	assert.Equal(t, "# Hi\n\n<!-- SKILLS:START -->\n<img />\n<!-- SKILLS:END -->\n\nBye\n", string(out))
}

func TestReplaceRegion_Idempotent(t *testing.T) {
	doc := "intro\n\n<!-- SKILLS:START -->\n<!-- SKILLS:END -->\n\noutro\n"
	badge := BuildBadge(baseURL, models.NewSkillSet("react", "php"))

	once, err := ReplaceRegion([]byte(doc), testMarkers, badge)
	require.NoError(t, err)
	twice, err := ReplaceRegion(once, testMarkers, badge)
	require.NoError(t, err)

	assert.Equal(t, string(once), string(twice))
}

func TestReplaceRegion_SameLineMarkers(t *testing.T) {
	doc := "<!-- SKILLS:START --><!-- SKILLS:END -->\n"

	out, err := ReplaceRegion([]byte(doc), testMarkers, "x")

	require.NoError(t, err)
	assert.Equal(t, "<!-- SKILLS:START -->\nx\n<!-- SKILLS:END -->\n", string(out))
}

func TestReplaceRegion_FirstEndAfterStart(t *testing.T) {
	doc := "<!-- SKILLS:END -->\n\n<!-- SKILLS:START -->\na\n<!-- SKILLS:END -->\nkeep\n<!-- SKILLS:END -->\n"

	out, err := ReplaceRegion([]byte(doc), testMarkers, "b")

	require.NoError(t, err)
	assert.Equal(t, "<!-- SKILLS:END -->\n\n<!-- SKILLS:START -->\nb\n<!-- SKILLS:END -->\nkeep\n<!-- SKILLS:END -->\n", string(out))
}

func TestReplaceRegion_IgnoresMarkersInCode(t *testing.T) {
	doc := "Put `<!-- SKILLS:START -->` in your README:\n\n" +
		"```html\n<!-- SKILLS:START -->\n<!-- SKILLS:END -->\n```\n\n" +
		"<!-- SKILLS:START -->\nold\n<!-- SKILLS:END -->\n"

	out, err := ReplaceRegion([]byte(doc), testMarkers, "new")

	require.NoError(t, err)
	assert.Equal(t, "Put `<!-- SKILLS:START -->` in your README:\n\n"+
		"```html\n<!-- SKILLS:START -->\n<!-- SKILLS:END -->\n```\n\n"+
		"<!-- SKILLS:START -->\nnew\n<!-- SKILLS:END -->\n", string(out))
}

func TestReplaceRegion_NonCommentMarkers(t *testing.T) {
	m := Markers{Start: "[//]: # (skills)", End: "[//]: # (/skills)"}
	doc := "a\n\n[//]: # (skills)\n\n[//]: # (/skills)\n"

	out, err := ReplaceRegion([]byte(doc), m, "badge")

	require.NoError(t, err)
	assert.Equal(t, "a\n\n[//]: # (skills)\nbadge\n[//]: # (/skills)\n", string(out))
}

func TestReplaceRegion_Errors(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		markers Markers
		want    error
	}{
		{"empty start", "x", Markers{End: "b"}, ErrEmptyMarker},
		{"empty end", "x", Markers{Start: "a"}, ErrEmptyMarker},
		{"no markers", "# README\n", testMarkers, ErrMarkersNotFound},
		{"no end", "<!-- SKILLS:START -->\n", testMarkers, ErrMarkersNotFound},
		{"end before start only", "<!-- SKILLS:END -->\n<!-- SKILLS:START -->\n", testMarkers, ErrMarkersNotFound},
		{"markers only in code", "```\n<!-- SKILLS:START -->\n<!-- SKILLS:END -->\n```\n", testMarkers, ErrMarkersNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReplaceRegion([]byte(tt.doc), tt.markers, "c")
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func writeReadme(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "README.md")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o640))
	return path
}

func TestRun_WritesFile(t *testing.T) {
	path := writeReadme(t, "top\n<!-- SKILLS:START -->\n<!-- SKILLS:END -->\n")

	res, err := Run(path, testMarkers, "<img />", false)
	require.NoError(t, err)

	assert.True(t, res.Changed)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "top\n<!-- SKILLS:START -->\n<img />\n<!-- SKILLS:END -->\n", string(data))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o640), info.Mode().Perm())

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file left behind")
}

func TestRun_UnchangedDoesNotWrite(t *testing.T) {
	path := writeReadme(t, "<!-- SKILLS:START -->\n<img />\n<!-- SKILLS:END -->\n")
	before, err := os.Stat(path)
	require.NoError(t, err)

	res, err := Run(path, testMarkers, "<img />", false)
	require.NoError(t, err)

	assert.False(t, res.Changed)
	after, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, before.ModTime(), after.ModTime())
}

func TestRun_DryRun(t *testing.T) {
	original := "<!-- SKILLS:START -->\nold\n<!-- SKILLS:END -->\n"
	path := writeReadme(t, original)

	res, err := Run(path, testMarkers, "new", true)
	require.NoError(t, err)

	assert.True(t, res.Changed)
	assert.Contains(t, res.Content, "\nnew\n")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, original, string(data))
}

func TestRun_MissingFile(t *testing.T) {
	_, err := Run(filepath.Join(t.TempDir(), "README.md"), testMarkers, "x", false)
	assert.Error(t, err)
}

func TestRun_MissingMarkersLeavesFileUntouched(t *testing.T) {
	path := writeReadme(t, "# nothing here\n")

	_, err := Run(path, testMarkers, "x", false)

	assert.True(t, errors.Is(err, ErrMarkersNotFound))
	data, readErr := os.ReadFile(path)
	require.NoError(t, readErr)
	assert.Equal(t, "# nothing here\n", string(data))
}
