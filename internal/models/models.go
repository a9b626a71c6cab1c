package models

// Repository is a repository returned by the lister. Only the name is used.
type Repository struct {
	Name string
}

// ManifestFile is a file fetched from a repository's default branch root,
// with its transport encoding already removed.
type ManifestFile struct {
	Path    string
	Content string
}

// DependencyManifest maps package names to version specifiers, merged from
// the dependencies and devDependencies sections of a package.json.
type DependencyManifest map[string]string

// Has reports whether name is declared in the manifest.
func (m DependencyManifest) Has(name string) bool {
	_, ok := m[name]
	return ok
}

// SkillSet is a set of skill tokens that remembers insertion order.
// The zero value is ready to use.
type SkillSet struct {
	order []string
	seen  map[string]struct{}
}

// NewSkillSet returns a set holding tokens in the given order.
func NewSkillSet(tokens ...string) *SkillSet {
	s := &SkillSet{}
	for _, t := range tokens {
		s.Add(t)
	}
	return s
}

// Add inserts token. It returns false if the token was already present.
func (s *SkillSet) Add(token string) bool {
	if s.seen == nil {
		s.seen = make(map[string]struct{})
	}
	if _, ok := s.seen[token]; ok {
		return false
	}
	s.seen[token] = struct{}{}
	s.order = append(s.order, token)
	return true
}

// Has reports whether token is a member.
func (s *SkillSet) Has(token string) bool {
	_, ok := s.seen[token]
	return ok
}

// Len returns the number of members.
func (s *SkillSet) Len() int {
	return len(s.order)
}

// Items returns the members in first-insertion order.
func (s *SkillSet) Items() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}
