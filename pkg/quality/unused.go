package quality

import (
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/auspexhq/auspex/pkg/models"
)

// lifecycleAllowlist holds method and function names frameworks invoke
// implicitly. Reporting these as unused would be noise: routing layers
// dispatch REST verbs and resource actions by convention, Vue and React
// call their hooks, migrations run up/down.
var lifecycleAllowlist = map[string]bool{
	// dispatch and entry
	"main": true, "boot": true, "register": true, "handle": true,
	"run": true, "setup": true, "init": true, "register_routes": true,
	// REST verbs and Laravel resource actions
	"get": true, "post": true, "put": true, "patch": true, "delete": true,
	"head": true, "options": true,
	"index": true, "show": true, "store": true, "update": true,
	"destroy": true, "create": true, "edit": true,
	// migrations and validation
	"up": true, "down": true, "rules": true, "authorize": true,
	// Vue lifecycle
	"data": true, "created": true, "mounted": true, "updated": true,
	"unmounted": true, "beforeCreate": true, "beforeMount": true,
	"beforeUpdate": true, "beforeUnmount": true, "beforeDestroy": true,
	"destroyed": true, "activated": true, "deactivated": true,
	// React lifecycle
	"render": true, "componentDidMount": true, "componentDidUpdate": true,
	"componentWillUnmount": true, "shouldComponentUpdate": true,
	// common coercion hooks
	"toString": true, "toArray": true, "toJSON": true, "jsonSerialize": true,
}

// dynamicSignalRe matches instantiation through a variable-held class
// name or reflective invocation anywhere in PHP source. Any hit means
// unused-class findings in PHP cannot be trusted as firm.
var dynamicSignalRe = regexp.MustCompile(
	`new\s+\$\w+|call_user_func|ReflectionClass|ReflectionMethod|class_exists\s*\(\s*\$|app\s*\(\s*\$`)

// npmImplicitTools are packages wired through build and lint tooling
// rather than imported from source.
var npmImplicitTools = map[string]bool{
	"webpack": true, "webpack-cli": true, "webpack-dev-server": true,
	"vite": true, "laravel-mix": true, "typescript": true,
	"eslint": true, "prettier": true, "babel": true,
	"jest": true, "vitest": true, "mocha": true, "chai": true,
	"nodemon": true, "ts-node": true, "rimraf": true, "cross-env": true,
	"husky": true, "lint-staged": true, "concurrently": true,
	"autoprefixer": true, "postcss": true, "tailwindcss": true,
	"sass": true, "less": true, "sass-loader": true,
}

// npmImplicitPrefixes extends the tool list to scoped plugin families.
var npmImplicitPrefixes = []string{
	"@babel/", "@types/", "@vitejs/", "@typescript-eslint/", "eslint-",
	"babel-", "postcss-", "webpack-", "@vue/cli",
}

// composerNamespaceOverrides maps packages whose root PHP namespace is
// not derivable from the package name.
var composerNamespaceOverrides = map[string]string{
	"laravel/framework": "Illuminate",
	"laravel/lumen-framework": "Laravel",
	"phpunit/phpunit": "PHPUnit",
	"guzzlehttp/guzzle": "GuzzleHttp",
	"vlucas/phpdotenv": "Dotenv",
	"fakerphp/faker": "Faker",
	"nesbot/carbon": "Carbon",
}

// Unused holds every declared-vs-referenced finding plus the
// dynamic-instantiation signal it was computed under.
type Unused struct {
	Functions     []models.DeclaredSymbol
	Methods       []models.DeclaredSymbol
	Classes       []models.DeclaredSymbol
	Imports       []models.UnusedImport
	Dependencies  []string
	DynamicSignal bool
}

// FindUnused reconciles the declared-symbol set against the reference
// set and the raw file contents.
func FindUnused(inv *models.Inventory, ext *models.Extraction, stack *models.StackProfile, refs ReferenceSet) *Unused {
	out := &Unused{DynamicSignal: hasDynamicSignal(inv)}

	for _, sym := range ext.Symbols() {
		if lifecycleAllowlist[sym.Name] || refs.Has(sym.Name) {
			continue
		}
		switch sym.Kind {
		case models.KindFunction:
			out.Functions = append(out.Functions, sym)
		case models.KindMethod:
			if isImplicitMethod(ext, sym) {
				continue
			}
			out.Methods = append(out.Methods, sym)
		case models.KindClass:
			out.Classes = append(out.Classes, sym)
		}
	}

	out.Imports = findUnusedImports(inv, ext)
	if stack != nil {
		out.Dependencies = findUnusedDependencies(inv, ext, stack)
	}

	sortSymbols(out.Functions)
	sortSymbols(out.Methods)
	sortSymbols(out.Classes)
	return out
}

// isImplicitMethod reports whether a method is invoked implicitly by
// the runtime: constructors and magic methods never appear in call
// position under their own name.
func isImplicitMethod(ext *models.Extraction, sym models.DeclaredSymbol) bool {
	for _, fs := range ext.Files {
		if fs.Path != sym.File {
			continue
		}
		for _, cls := range fs.Classes {
			if cls.Name != sym.Class {
				continue
			}
			for _, m := range cls.Methods {
				if m.Name == sym.Name && m.Line == sym.Line {
					return m.Constructor || m.Magic
				}
			}
		}
	}
	return false
}

// hasDynamicSignal scans PHP contents for variable-held instantiation
// or reflection patterns.
func hasDynamicSignal(inv *models.Inventory) bool {
	for i := range inv.Records {
		rec := &inv.Records[i]
		if rec.Ext != "php" || rec.Content == "" || rec.Obfuscated {
			continue
		}
		if dynamicSignalRe.MatchString(rec.Content) {
			return true
		}
	}
	return false
}

// findUnusedImports flags import specifiers whose occurrence count in
// their own file is at most one, meaning only the import statement
// itself matches.
func findUnusedImports(inv *models.Inventory, ext *models.Extraction) []models.UnusedImport {
	var out []models.UnusedImport
	for _, fs := range ext.Files {
		rec := inv.Record(fs.Path)
		if rec == nil || rec.Content == "" {
			continue
		}
		for _, imp := range fs.Imports {
			for _, spec := range imp.Specifiers {
				if countWordOccurrences(rec.Content, spec) <= 1 {
					out = append(out, models.UnusedImport{
						Name:   spec,
						Source: imp.Source,
						File:   fs.Path,
						Line:   imp.Line,
					})
				}
			}
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].File != out[j].File {
			return out[i].File < out[j].File
		}
		return out[i].Line < out[j].Line
	})
	return out
}

// findUnusedDependencies flags manifest packages with no import-style
// reference anywhere in the project. Implicit tooling packages are
// excluded up front.
func findUnusedDependencies(inv *models.Inventory, ext *models.Extraction, stack *models.StackProfile) []string {
	importSources := make(map[string]bool)
	for _, fs := range ext.Files {
		for _, imp := range fs.Imports {
			importSources[imp.Source] = true
		}
	}

	var out []string
	for _, dep := range stack.Dependencies {
		switch dep.Ecosystem {
		case models.EcosystemNPM:
			if npmImplicit(dep.Name) {
				continue
			}
			if !npmDependencyUsed(dep.Name, importSources) {
				out = append(out, dep.Name)
			}
		case models.EcosystemComposer:
			if dep.Name == "php" || strings.HasPrefix(dep.Name, "ext-") || strings.HasPrefix(dep.Name, "lib-") {
				continue
			}
			if !composerDependencyUsed(dep.Name, inv) {
				out = append(out, dep.Name)
			}
		}
	}
	sort.Strings(out)
	return out
}

func npmImplicit(name string) bool {
	if npmImplicitTools[name] {
		return true
	}
	for _, prefix := range npmImplicitPrefixes {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	return false
}

// npmDependencyUsed matches the package name against recovered import
// sources, including subpath imports like "lodash/debounce".
func npmDependencyUsed(name string, sources map[string]bool) bool {
	if sources[name] {
		return true
	}
	for src := range sources {
		if strings.HasPrefix(src, name+"/") {
			return true
		}
	}
	return false
}

// composerDependencyUsed looks for a namespace-style reference derived
// from the package name in any PHP file.
func composerDependencyUsed(name string, inv *models.Inventory) bool {
	var namespaces []string
	if ns, ok := composerNamespaceOverrides[name]; ok {
		namespaces = []string{ns}
	} else {
		vendor, pkg, _ := strings.Cut(name, "/")
		namespaces = []string{studly(vendor)}
		if pkg != "" && !strings.EqualFold(pkg, vendor) {
			namespaces = append(namespaces, studly(pkg))
		}
	}

	for i := range inv.Records {
		rec := &inv.Records[i]
		if rec.Ext != "php" || rec.Content == "" {
			continue
		}
		for _, ns := range namespaces {
			if strings.Contains(rec.Content, ns+`\`) {
				return true
			}
		}
	}
	return false
}

// studly converts a hyphenated or underscored package segment to the
// StudlyCase namespace Composer conventions produce.
func studly(segment string) string {
	var b strings.Builder
	upper := true
	for _, r := range segment {
		if r == '-' || r == '_' || r == '.' {
			upper = true
			continue
		}
		if upper {
			b.WriteRune(unicode.ToUpper(r))
			upper = false
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// countWordOccurrences counts boundary-delimited occurrences of name.
func countWordOccurrences(content, name string) int {
	if name == "" {
		return 0
	}
	count := 0
	for off := 0; ; {
		idx := strings.Index(content[off:], name)
		if idx < 0 {
			return count
		}
		start := off + idx
		end := start + len(name)
		if (start == 0 || !isWordByte(content[start-1])) &&
			(end == len(content) || !isWordByte(content[end])) {
			count++
		}
		off = end
	}
}

func sortSymbols(syms []models.DeclaredSymbol) {
	sort.Slice(syms, func(i, j int) bool {
		if syms[i].File != syms[j].File {
			return syms[i].File < syms[j].File
		}
		return syms[i].Line < syms[j].Line
	})
}
