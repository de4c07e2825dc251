package catalog

import (
	"fmt"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/auspexhq/auspex/pkg/models"
)

// treeNode is one directory in the rendered view.
type treeNode struct {
	dirs  map[string]*treeNode
	files []fileEntry
}

type fileEntry struct {
	name    string
	ext     string
	code    bool
	modTime time.Time
}

func newTreeNode() *treeNode {
	return &treeNode{dirs: make(map[string]*treeNode)}
}

func (n *treeNode) child(name string) *treeNode {
	if c, ok := n.dirs[name]; ok {
		return c
	}
	c := newTreeNode()
	n.dirs[name] = c
	return c
}

// renderTree produces the collapsed tree view: code and config files
// listed individually, runs of asset files summarized per directory,
// recently modified files annotated with their timestamp. Minified
// files never appear.
func renderTree(rootName string, records []models.FileRecord, recentDays int) string {
	root := newTreeNode()

	for i := range records {
		rec := &records[i]
		if isMinified(rec.Path) {
			continue
		}
		dir, base := path.Split(rec.Path)
		node := root
		for _, part := range strings.Split(strings.Trim(dir, "/"), "/") {
			if part == "" {
				continue
			}
			node = node.child(part)
		}
		node.files = append(node.files, fileEntry{
			name:    base,
			ext:     rec.Ext,
			code:    textExts[rec.Ext],
			modTime: rec.ModTime,
		})
	}

	recentCutoff := time.Now().AddDate(0, 0, -recentDays)

	var b strings.Builder
	b.WriteString(rootName + "/\n")
	writeNode(&b, root, 1, recentCutoff)
	return b.String()
}

func writeNode(b *strings.Builder, node *treeNode, depth int, recentCutoff time.Time) {
	indent := strings.Repeat("  ", depth)

	dirNames := make([]string, 0, len(node.dirs))
	for name := range node.dirs {
		dirNames = append(dirNames, name)
	}
	sort.Strings(dirNames)

	for _, name := range dirNames {
		b.WriteString(indent + name + "/\n")
		writeNode(b, node.dirs[name], depth+1, recentCutoff)
	}

	var assets []fileEntry
	for _, f := range node.files {
		if !f.code {
			assets = append(assets, f)
			continue
		}
		b.WriteString(indent + f.name)
		if f.modTime.After(recentCutoff) {
			b.WriteString(" (modified " + f.modTime.Format("2006-01-02") + ")")
		}
		b.WriteString("\n")
	}

	if len(assets) > 0 {
		b.WriteString(indent + summarizeAssets(assets) + "\n")
	}
}

// summarizeAssets collapses a run of asset files into one line.
func summarizeAssets(assets []fileEntry) string {
	seen := make(map[string]bool)
	var exts []string
	for _, a := range assets {
		if a.ext != "" && !seen[a.ext] {
			seen[a.ext] = true
			exts = append(exts, a.ext)
		}
	}
	sort.Strings(exts)
	if len(exts) == 0 {
		return fmt.Sprintf("[%d asset files]", len(assets))
	}
	return fmt.Sprintf("[%d asset files: %s]", len(assets), strings.Join(exts, ", "))
}
