package stack

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"github.com/auspexhq/auspex/pkg/models"
	"github.com/auspexhq/auspex/pkg/pipeline"
)

// feature is one version-indicating syntactic pattern.
type feature struct {
	re      *regexp.Regexp
	version string
}

// PHP features, highest floors first. A match raises the inferred
// minimum version; composer constraints stay authoritative when higher.
var phpFeatures = []feature{
	{regexp.MustCompile(`\benum\s+[A-Z]\w*`), "8.1"},
	{regexp.MustCompile(`\breadonly\s+(public|private|protected|\?|int|string|float|bool|array)`), "8.1"},
	{regexp.MustCompile(`\?->`), "8.0"},
	{regexp.MustCompile(`\bmatch\s*\(`), "8.0"},
	{regexp.MustCompile(`\bfn\s*\(`), "7.4"},
	{regexp.MustCompile(`(public|private|protected)\s+(static\s+)?\??(int|string|float|bool|array|object|self)\s+\$`), "7.4"},
	{regexp.MustCompile(`\?\?`), "7.0"},
}

// ECMAScript features. Floors are edition labels, later editions rank
// higher.
var esFeatures = []feature{
	{regexp.MustCompile(`\?\.`), "ES2020"},
	{regexp.MustCompile(`\?\?`), "ES2020"},
	{regexp.MustCompile(`\basync\s+function\b|\bawait\s`), "ES2017"},
	{regexp.MustCompile(`=>|\bclass\s+[A-Z]|\bconst\s|\blet\s|\$\{`), "ES6"},
}

var esOrder = map[string]int{"ES5": 0, "ES6": 1, "ES2017": 2, "ES2020": 3}

// inferVersionFloors scans code contents for version-indicating syntax
// and raises the reported floors accordingly.
func (p *Profiler) inferVersionFloors(ctx context.Context, inv *models.Inventory, profile *models.StackProfile, progress pipeline.Progress) {
	total := len(inv.Records)
	for i := range inv.Records {
		if ctx.Err() != nil {
			return
		}
		rec := &inv.Records[i]
		progress("versions", i+1, total)
		if !rec.HasContent() || rec.Obfuscated {
			continue
		}

		switch rec.Ext {
		case "php":
			for _, f := range phpFeatures {
				if phpVersionLess(profile.PHPFloor, f.version) && f.re.MatchString(rec.Content) {
					profile.PHPFloor = f.version
				}
			}
		case "js", "jsx", "mjs", "cjs", "ts", "tsx", "vue":
			for _, f := range esFeatures {
				if esVersionLess(profile.ESFloor, f.version) && f.re.MatchString(rec.Content) {
					profile.ESFloor = f.version
				}
			}
		}
	}
}

// phpVersionLess compares "major.minor" strings numerically; an empty
// current floor is always raised.
func phpVersionLess(current, candidate string) bool {
	if current == "" {
		return true
	}
	curMaj, curMin := splitVersion(current)
	candMaj, candMin := splitVersion(candidate)
	if curMaj != candMaj {
		return curMaj < candMaj
	}
	return curMin < candMin
}

func splitVersion(v string) (int, int) {
	parts := strings.SplitN(v, ".", 3)
	major, _ := strconv.Atoi(parts[0])
	minor := 0
	if len(parts) > 1 {
		minor, _ = strconv.Atoi(parts[1])
	}
	return major, minor
}

func esVersionLess(current, candidate string) bool {
	if current == "" {
		return true
	}
	return esOrder[current] < esOrder[candidate]
}
