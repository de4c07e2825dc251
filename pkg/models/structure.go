package models

// SymbolKind classifies a declared symbol.
type SymbolKind string

const (
	KindFunction SymbolKind = "function"
	KindMethod   SymbolKind = "method"
	KindClass    SymbolKind = "class"
)

// String implements fmt.Stringer for toon serialization.
func (k SymbolKind) String() string {
	return string(k)
}

// DeclaredSymbol is one declaration site recovered from source text. A
// name may legitimately have multiple declarations across files.
type DeclaredSymbol struct {
	Name       string     `json:"name" toon:"name"`
	Kind       SymbolKind `json:"kind" toon:"kind"`
	File       string     `json:"file" toon:"file"`
	Line       int        `json:"line" toon:"line"`
	Language   string     `json:"language" toon:"language"`
	Class      string     `json:"class,omitempty" toon:"class,omitempty"` // owning class for methods
	Visibility string     `json:"visibility,omitempty" toon:"visibility,omitempty"`
}

// Function is a standalone function or a class method declaration.
type Function struct {
	Name        string `json:"name" toon:"name"`
	Line        int    `json:"line" toon:"line"`
	Visibility  string `json:"visibility,omitempty" toon:"visibility,omitempty"`
	Static      bool   `json:"static,omitempty" toon:"static,omitempty"`
	Constructor bool   `json:"constructor,omitempty" toon:"constructor,omitempty"`
	Magic       bool   `json:"magic,omitempty" toon:"magic,omitempty"` // __-prefixed or framework lifecycle name
}

// Property is a class property declaration.
type Property struct {
	Name       string `json:"name" toon:"name"`
	Line       int    `json:"line" toon:"line"`
	Visibility string `json:"visibility,omitempty" toon:"visibility,omitempty"`
	Static     bool   `json:"static,omitempty" toon:"static,omitempty"`
}

// Class is a recovered class declaration with its members.
type Class struct {
	Name       string     `json:"name" toon:"name"`
	Extends    string     `json:"extends,omitempty" toon:"extends,omitempty"`
	Implements []string   `json:"implements,omitempty" toon:"implements,omitempty"`
	Line       int        `json:"line" toon:"line"`
	Methods    []Function `json:"methods" toon:"methods"`
	Properties []Property `json:"properties,omitempty" toon:"properties,omitempty"`
}

// Import is an import/require/use statement.
type Import struct {
	Source     string   `json:"source" toon:"source"`
	Specifiers []string `json:"specifiers,omitempty" toon:"specifiers,omitempty"`
	Line       int      `json:"line" toon:"line"`
}

// Export is an export statement.
type Export struct {
	Name    string `json:"name,omitempty" toon:"name,omitempty"`
	Kind    string `json:"kind,omitempty" toon:"kind,omitempty"` // function, class, const, ...
	Default bool   `json:"default,omitempty" toon:"default,omitempty"`
	Line    int    `json:"line" toon:"line"`
}

// CommentStyle distinguishes comment syntaxes during extraction.
type CommentStyle string

const (
	StyleLine  CommentStyle = "line"  // // or #
	StyleBlock CommentStyle = "block" // /* ... */
	StyleDoc   CommentStyle = "doc"   // /** ... */
)

// Comment is a single comment line recovered from source.
type Comment struct {
	Line  int          `json:"line" toon:"line"`
	Style CommentStyle `json:"style" toon:"style"`
	Text  string       `json:"text,omitempty" toon:"text,omitempty"`
}

// FileStructure is the structural extraction for one file.
type FileStructure struct {
	Path      string     `json:"path" toon:"path"`
	Language  string     `json:"language" toon:"language"`
	Classes   []Class    `json:"classes" toon:"classes"`
	Functions []Function `json:"functions" toon:"functions"`
	Imports   []Import   `json:"imports" toon:"imports"`
	Exports   []Export   `json:"exports" toon:"exports"`
	Comments  []Comment  `json:"comments,omitempty" toon:"-"`
	Skipped   bool       `json:"skipped,omitempty" toon:"skipped,omitempty"` // obfuscated input, not scanned
}

// Extraction is the structure stage's namespace.
type Extraction struct {
	Files          []FileStructure `json:"files" toon:"files"`
	TotalClasses   int             `json:"total_classes" toon:"total_classes"`
	TotalFunctions int             `json:"total_functions" toon:"total_functions"`
	TotalMethods   int             `json:"total_methods" toon:"total_methods"`
	TotalImports   int             `json:"total_imports" toon:"total_imports"`
}

// Symbols flattens the extraction into one DeclaredSymbol per
// declaration site.
func (e *Extraction) Symbols() []DeclaredSymbol {
	var out []DeclaredSymbol
	for _, fs := range e.Files {
		for _, fn := range fs.Functions {
			out = append(out, DeclaredSymbol{
				Name: fn.Name, Kind: KindFunction,
				File: fs.Path, Line: fn.Line, Language: fs.Language,
			})
		}
		for _, cls := range fs.Classes {
			out = append(out, DeclaredSymbol{
				Name: cls.Name, Kind: KindClass,
				File: fs.Path, Line: cls.Line, Language: fs.Language,
			})
			for _, m := range cls.Methods {
				out = append(out, DeclaredSymbol{
					Name: m.Name, Kind: KindMethod,
					File: fs.Path, Line: m.Line, Language: fs.Language,
					Class: cls.Name, Visibility: m.Visibility,
				})
			}
		}
	}
	return out
}
