// Package models defines the shared data types produced and consumed by
// pipeline stages. All types are plain data; stages communicate only
// through them.
package models

import "time"

// FileRecord describes a single file discovered by the catalog stage.
// Records are created once and never mutated by later stages.
type FileRecord struct {
	Path       string    `json:"path" toon:"path"` // project-relative, slash-separated
	Ext        string    `json:"ext" toon:"ext"`
	Size       int64     `json:"size" toon:"size"`
	Lines      int       `json:"lines" toon:"lines"`
	ModTime    time.Time `json:"mod_time" toon:"mod_time"`
	Digest     string    `json:"digest,omitempty" toon:"digest,omitempty"` // xxhash64 of content, empty for unread files
	Obfuscated bool      `json:"obfuscated,omitempty" toon:"obfuscated,omitempty"`

	// Content holds the raw file text for cross-stage use. It is
	// internal: the engine strips it before the report leaves.
	Content string `json:"-" toon:"-"`
}

// HasContent reports whether the file's text was read into the record.
func (f *FileRecord) HasContent() bool {
	return f.Content != ""
}

// Inventory is the catalog stage's namespace: every surviving file plus
// a rendered tree view and aggregate totals.
type Inventory struct {
	Records    []FileRecord `json:"records" toon:"records"`
	Tree       string       `json:"tree" toon:"tree"`
	TotalFiles int          `json:"total_files" toon:"total_files"`
	TotalLines int          `json:"total_lines" toon:"total_lines"`
	TotalSize  int64        `json:"total_size" toon:"total_size"`
	Skipped    int          `json:"skipped,omitempty" toon:"skipped,omitempty"` // oversized or unreadable
}

// Record returns the record for a project-relative path, or nil.
func (inv *Inventory) Record(path string) *FileRecord {
	for i := range inv.Records {
		if inv.Records[i].Path == path {
			return &inv.Records[i]
		}
	}
	return nil
}

// CountByExt returns the number of records per extension.
func (inv *Inventory) CountByExt() map[string]int {
	counts := make(map[string]int)
	for i := range inv.Records {
		counts[inv.Records[i].Ext]++
	}
	return counts
}
