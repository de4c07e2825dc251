package models

import "time"

// ProjectContext is the core input: where to analyze and how.
type ProjectContext struct {
	Root     string   // absolute or relative root path of the project
	Exclude  []string // extra folder/file name substrings to skip
	TypeHint string   // optional project type used by the locations stage
}

// StageStatus records how a stage run ended.
type StageStatus string

const (
	StageOK     StageStatus = "ok"
	StageFailed StageStatus = "failed"
)

// String implements fmt.Stringer for toon serialization.
func (s StageStatus) String() string {
	return string(s)
}

// StageMeta is the per-stage execution record kept in run metadata.
type StageMeta struct {
	Stage    string        `json:"stage" toon:"stage"`
	Status   StageStatus   `json:"status" toon:"status"`
	Duration time.Duration `json:"duration_ns" toon:"duration_ns"`
	Error    string        `json:"error,omitempty" toon:"error,omitempty"`
}

// Snapshot is the cumulative read-only state after N stages. A stage
// receives a frozen structural copy; namespaces of later stages are nil
// until their stage has run, so earlier stages cannot observe them.
type Snapshot struct {
	Files     *Inventory       `json:"files,omitempty" toon:"files,omitempty"`
	Stack     *StackProfile    `json:"stack,omitempty" toon:"stack,omitempty"`
	Structure *Extraction      `json:"structure,omitempty" toon:"structure,omitempty"`
	Quality   *QualityAnalysis `json:"quality,omitempty" toon:"quality,omitempty"`
	Locations *KeyLocations    `json:"locations,omitempty" toon:"locations,omitempty"`
	Score     *ScoreResult     `json:"score,omitempty" toon:"score,omitempty"`
}

// Delta is the partial state one stage contributes. Only the stage's
// own namespace may be non-nil.
type Delta struct {
	Files     *Inventory
	Stack     *StackProfile
	Structure *Extraction
	Quality   *QualityAnalysis
	Locations *KeyLocations
	Score     *ScoreResult
}

// Clone returns a structural copy of the snapshot. Slices are copied so
// a stage cannot mutate state behind the engine's back; the records
// themselves are treated as immutable by convention.
func (s *Snapshot) Clone() *Snapshot {
	out := &Snapshot{}
	if s.Files != nil {
		inv := *s.Files
		inv.Records = append([]FileRecord(nil), s.Files.Records...)
		out.Files = &inv
	}
	if s.Stack != nil {
		sp := *s.Stack
		sp.Languages = append([]LanguageStat(nil), s.Stack.Languages...)
		sp.Frameworks = append([]string(nil), s.Stack.Frameworks...)
		sp.Dependencies = append([]Dependency(nil), s.Stack.Dependencies...)
		if s.Stack.TypeScript != nil {
			ts := *s.Stack.TypeScript
			sp.TypeScript = &ts
		}
		out.Stack = &sp
	}
	if s.Structure != nil {
		ex := *s.Structure
		ex.Files = append([]FileStructure(nil), s.Structure.Files...)
		out.Structure = &ex
	}
	if s.Quality != nil {
		q := *s.Quality
		q.Issues = append([]Issue(nil), s.Quality.Issues...)
		q.UnusedFunctions = append([]DeclaredSymbol(nil), s.Quality.UnusedFunctions...)
		q.UnusedMethods = append([]DeclaredSymbol(nil), s.Quality.UnusedMethods...)
		q.UnusedClasses = append([]DeclaredSymbol(nil), s.Quality.UnusedClasses...)
		q.UnusedImports = append([]UnusedImport(nil), s.Quality.UnusedImports...)
		q.UnusedDependencies = append([]string(nil), s.Quality.UnusedDependencies...)
		q.CommentBlocks = append([]CommentBlock(nil), s.Quality.CommentBlocks...)
		q.Complexity = append([]ComplexityRecord(nil), s.Quality.Complexity...)
		out.Quality = &q
	}
	if s.Locations != nil {
		loc := *s.Locations
		loc.EntryPoints = append([]string(nil), s.Locations.EntryPoints...)
		loc.Hits = append([]LocationHit(nil), s.Locations.Hits...)
		out.Locations = &loc
	}
	if s.Score != nil {
		sc := *s.Score
		sc.Deductions = append([]ScoreReason(nil), s.Score.Deductions...)
		sc.Bonuses = append([]ScoreReason(nil), s.Score.Bonuses...)
		out.Score = &sc
	}
	return out
}

// Merge folds a delta into the snapshot. Non-nil namespaces replace the
// existing value; nil namespaces are left untouched.
func (s *Snapshot) Merge(d *Delta) {
	if d == nil {
		return
	}
	if d.Files != nil {
		s.Files = d.Files
	}
	if d.Stack != nil {
		s.Stack = d.Stack
	}
	if d.Structure != nil {
		s.Structure = d.Structure
	}
	if d.Quality != nil {
		s.Quality = d.Quality
	}
	if d.Locations != nil {
		s.Locations = d.Locations
	}
	if d.Score != nil {
		s.Score = d.Score
	}
}

// RunMeta is the run-level metadata attached to every report.
type RunMeta struct {
	StartedAt      time.Time   `json:"started_at" toon:"started_at"`
	FinishedAt     time.Time   `json:"finished_at" toon:"finished_at"`
	LayersExecuted []StageMeta `json:"layers_executed" toon:"layers_executed"`
}

// Report is the nested output object keyed by stage namespaces.
// Internal-only data (raw file contents) has been stripped.
type Report struct {
	Files     *Inventory       `json:"files,omitempty" toon:"files,omitempty"`
	Stack     *StackProfile    `json:"stack,omitempty" toon:"stack,omitempty"`
	Structure *Extraction      `json:"structure,omitempty" toon:"structure,omitempty"`
	Quality   *QualityAnalysis `json:"quality,omitempty" toon:"quality,omitempty"`
	Locations *KeyLocations    `json:"locations,omitempty" toon:"locations,omitempty"`
	Score     *ScoreResult     `json:"score,omitempty" toon:"score,omitempty"`
	Meta      RunMeta          `json:"meta" toon:"meta"`
}

// BuildReport converts the final snapshot into a report, dropping the
// held raw contents from every file record.
func BuildReport(s *Snapshot, meta RunMeta) *Report {
	r := &Report{
		Stack:     s.Stack,
		Structure: s.Structure,
		Quality:   s.Quality,
		Locations: s.Locations,
		Score:     s.Score,
		Meta:      meta,
	}
	if s.Files != nil {
		inv := *s.Files
		inv.Records = make([]FileRecord, len(s.Files.Records))
		for i, rec := range s.Files.Records {
			rec.Content = ""
			inv.Records[i] = rec
		}
		r.Files = &inv
	}
	return r
}
