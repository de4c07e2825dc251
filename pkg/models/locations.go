package models

// LocationCategory classifies a key-location hit.
type LocationCategory string

const (
	LocationEnv      LocationCategory = "environment"
	LocationDatabase LocationCategory = "database"
	LocationLog      LocationCategory = "logging"
	LocationConfig   LocationCategory = "configuration"
)

// String implements fmt.Stringer for toon serialization.
func (c LocationCategory) String() string {
	return string(c)
}

// LocationHit records a signature match inside a file's scanned prefix.
type LocationHit struct {
	File      string           `json:"file" toon:"file"`
	Category  LocationCategory `json:"category" toon:"category"`
	Signature string           `json:"signature" toon:"signature"`
}

// KeyLocations is the locations stage's namespace: navigational
// hotspots read from prior deltas.
type KeyLocations struct {
	EntryPoints []string      `json:"entry_points" toon:"entry_points"`
	Hits        []LocationHit `json:"hits" toon:"hits"`
}
