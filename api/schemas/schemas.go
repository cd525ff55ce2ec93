// Filename: api/schemas/schemas.go
// Wire types for analysis reports. These are the JSON shapes the reporters
// emit and the store persists; the engine's internal types never cross this
// boundary directly.
package schemas

import "time"

// SiteStatus values mirror the engine's per-site outcome taxonomy.
const (
	StatusDecoded              = "decoded"
	StatusNoTransform          = "no_transform"
	StatusUnresolvedArray      = "unresolved_array"
	StatusUnresolvedKey        = "unresolved_key"
	StatusUnsupportedTransform = "unsupported_transform"
)

// Report is the full result of analyzing one input file.
type Report struct {
	File        string        `json:"file"`
	GeneratedAt time.Time     `json:"generated_at"`
	Keys        []KeyReport   `json:"keys"`
	Arrays      []ArrayReport `json:"arrays"`
	Sites       []SiteReport  `json:"sites"`
}

// KeyReport is one inferred key record.
type KeyReport struct {
	Name       string      `json:"name"`
	Kind       string      `json:"kind"` // "numeric" or "concat_string"
	Value      string      `json:"value"`
	Provenance *Provenance `json:"provenance,omitempty"`
}

// Provenance records the last fold applied to a numeric key.
type Provenance struct {
	Origin   string `json:"origin"`
	Operator string `json:"operator"`
	Operand  int64  `json:"operand"`
}

// ArrayReport is one all-numeric array literal found in the tree.
type ArrayReport struct {
	Index    int     `json:"index"`
	Location string  `json:"location,omitempty"`
	Length   int     `json:"length"`
	Sample   []int64 `json:"sample"`
}

// SiteReport is one located decode site and its outcome.
type SiteReport struct {
	Location  string           `json:"location,omitempty"`
	Transform string           `json:"transform,omitempty"` // empty when absent
	Operand   string           `json:"operand,omitempty"`   // human description of the key operand
	Key       string           `json:"key,omitempty"`       // resolved key value
	Array     []int64          `json:"array,omitempty"`     // resolved source values
	Status    string           `json:"status"`
	Decoded   string           `json:"decoded,omitempty"`
	Failures  []ElementFailure `json:"failures,omitempty"`
	Trace     []TraceEntry     `json:"trace,omitempty"`
}

// ElementFailure flags a single element whose transform produced an invalid
// code point.
type ElementFailure struct {
	Index  int   `json:"index"`
	Value  int64 `json:"value"`
	Result int64 `json:"result"`
}

// TraceEntry is one row of the optional per-character verbose trace.
type TraceEntry struct {
	Original    int64  `json:"original"`
	Transformed int64  `json:"transformed"`
	Char        string `json:"char,omitempty"`
	BitsValue   string `json:"bits_value"`
	BitsKey     string `json:"bits_key"`
	BitsResult  string `json:"bits_result"`
}
