package models

// Severity ranks how actionable an issue is.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityWarning  Severity = "warning"
	SeverityInfo     Severity = "info"
)

// String implements fmt.Stringer for toon serialization.
func (s Severity) String() string {
	return string(s)
}

// Rank returns an ordering key, lower is more severe.
func (s Severity) Rank() int {
	switch s {
	case SeverityCritical:
		return 0
	case SeverityWarning:
		return 1
	default:
		return 2
	}
}

// IssueKind classifies a quality issue.
type IssueKind string

const (
	IssueUnusedFunction   IssueKind = "unused_function"
	IssueUnusedMethod     IssueKind = "unused_method"
	IssueUnusedClass      IssueKind = "unused_class"
	IssueUnusedImport     IssueKind = "unused_import"
	IssueUnusedDependency IssueKind = "unused_dependency"
	IssueCommentedCode    IssueKind = "commented_code"
)

// String implements fmt.Stringer for toon serialization.
func (k IssueKind) String() string {
	return string(k)
}

// Issue is one quality finding. Immutable once emitted.
type Issue struct {
	Name        string    `json:"name" toon:"name"`
	Kind        IssueKind `json:"kind" toon:"kind"`
	Severity    Severity  `json:"severity" toon:"severity"`
	File        string    `json:"file,omitempty" toon:"file,omitempty"`
	Line        int       `json:"line,omitempty" toon:"line,omitempty"`
	Class       string    `json:"class,omitempty" toon:"class,omitempty"` // owning class for unused methods
	Tag         string    `json:"tag" toon:"tag"`                         // short human tag, e.g. "dead code", "dynamic"
	Description string    `json:"description" toon:"description"`
	ContextHash string    `json:"context_hash,omitempty" toon:"context_hash,omitempty"` // BLAKE3 identity for tracking across runs
}

// CommentBlock is a contiguous run of comment lines long enough to be
// treated as disabled code rather than documentation.
type CommentBlock struct {
	File      string `json:"file" toon:"file"`
	StartLine int    `json:"start_line" toon:"start_line"`
	Lines     int    `json:"lines" toon:"lines"`
}

// ComplexityBreakdown counts branch-indicating constructs per kind.
type ComplexityBreakdown struct {
	Conditionals int `json:"conditionals" toon:"conditionals"` // if / else
	Loops        int `json:"loops" toon:"loops"`               // for / while
	Switches     int `json:"switches" toon:"switches"`         // switch / case
	Catches      int `json:"catches" toon:"catches"`
	Ternaries    int `json:"ternaries" toon:"ternaries"`
	Logical      int `json:"logical" toon:"logical"` // && / ||
}

// ComplexityRecord scores one file above the reporting threshold.
type ComplexityRecord struct {
	File      string              `json:"file" toon:"file"`
	Score     int                 `json:"score" toon:"score"`
	Lines     int                 `json:"lines" toon:"lines"`
	PerLine   float64             `json:"per_line" toon:"per_line"`
	Breakdown ComplexityBreakdown `json:"breakdown" toon:"breakdown"`
}

// ComplexitySummary aggregates scores across reported files.
type ComplexitySummary struct {
	Files int     `json:"files" toon:"files"`
	Max   int     `json:"max" toon:"max"`
	P50   float64 `json:"p50" toon:"p50"`
	P90   float64 `json:"p90" toon:"p90"`
	P95   float64 `json:"p95" toon:"p95"`
}

// UnusedImport records an import specifier never referenced outside its
// own import statement.
type UnusedImport struct {
	Name   string `json:"name" toon:"name"`
	Source string `json:"source" toon:"source"`
	File   string `json:"file" toon:"file"`
	Line   int    `json:"line" toon:"line"`
}

// QualityAnalysis is the quality stage's namespace: the flat issue list
// plus the raw per-category lists and the complexity table.
type QualityAnalysis struct {
	Issues             []Issue            `json:"issues" toon:"issues"`
	UnusedFunctions    []DeclaredSymbol   `json:"unused_functions" toon:"unused_functions"`
	UnusedMethods      []DeclaredSymbol   `json:"unused_methods" toon:"unused_methods"`
	UnusedClasses      []DeclaredSymbol   `json:"unused_classes" toon:"unused_classes"`
	UnusedImports      []UnusedImport     `json:"unused_imports" toon:"unused_imports"`
	UnusedDependencies []string           `json:"unused_dependencies" toon:"unused_dependencies"`
	CommentBlocks      []CommentBlock     `json:"comment_blocks" toon:"comment_blocks"`
	Complexity         []ComplexityRecord `json:"complexity" toon:"complexity"`
	Summary            ComplexitySummary  `json:"complexity_summary" toon:"complexity_summary"`
	DynamicSignal      bool               `json:"dynamic_signal,omitempty" toon:"dynamic_signal,omitempty"`
}

// CountBySeverity returns issue counts keyed by severity.
func (q *QualityAnalysis) CountBySeverity() map[Severity]int {
	counts := make(map[Severity]int)
	for _, is := range q.Issues {
		counts[is.Severity]++
	}
	return counts
}
