package model

// NoAttribute marks a result without a spoken quantity, or one whose label cannot carry it
const NoAttribute = -1

// Result is the per-clip record handed to submission and report writers
type Result struct {
	Audio     string `json:"audio"`     // Clip base name
	Text      string `json:"text"`      // Transcript as produced by the ASR backend
	Label     int    `json:"label"`     // Command label identifier
	Attribute int    `json:"attribute"` // Parsed quantity or NoAttribute
}

// HasAttribute reports whether the result carries a quantity
func (r Result) HasAttribute() bool {
	return r.Attribute != NoAttribute
}
