package models

// Ecosystem identifies the dependency manifest a package came from.
type Ecosystem string

const (
	EcosystemNPM      Ecosystem = "npm"
	EcosystemComposer Ecosystem = "composer"
)

// String implements fmt.Stringer for toon serialization.
func (e Ecosystem) String() string {
	return string(e)
}

// Dependency is a declared package from a manifest file.
type Dependency struct {
	Name      string    `json:"name" toon:"name"`
	Version   string    `json:"version" toon:"version"` // constraint as written, not resolved
	Ecosystem Ecosystem `json:"ecosystem" toon:"ecosystem"`
	Dev       bool      `json:"dev,omitempty" toon:"dev,omitempty"`
}

// LanguageStat aggregates file and line counts for one language.
type LanguageStat struct {
	Language string `json:"language" toon:"language"`
	Files    int    `json:"files" toon:"files"`
	Lines    int    `json:"lines" toon:"lines"`
}

// TypeScriptConfig carries the facts read from tsconfig.json.
type TypeScriptConfig struct {
	Target string `json:"target,omitempty" toon:"target,omitempty"`
	Strict bool   `json:"strict,omitempty" toon:"strict,omitempty"`
}

// StackProfile is the stack stage's namespace: languages, frameworks,
// declared dependencies, and inferred language-version floors.
type StackProfile struct {
	Languages    []LanguageStat    `json:"languages" toon:"languages"`
	Frameworks   []string          `json:"frameworks" toon:"frameworks"`
	Dependencies []Dependency      `json:"dependencies" toon:"dependencies"`
	PHPFloor     string            `json:"php_floor,omitempty" toon:"php_floor,omitempty"`
	ESFloor      string            `json:"es_floor,omitempty" toon:"es_floor,omitempty"`
	TypeScript   *TypeScriptConfig `json:"typescript,omitempty" toon:"typescript,omitempty"`
	ProjectType  string            `json:"project_type,omitempty" toon:"project_type,omitempty"`
}

// Dependency returns the named dependency, or nil.
func (p *StackProfile) Dependency(name string) *Dependency {
	for i := range p.Dependencies {
		if p.Dependencies[i].Name == name {
			return &p.Dependencies[i]
		}
	}
	return nil
}
