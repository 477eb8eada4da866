package types

// SubtitleSegment is one timed subtitle chunk of one or two words.
// Times are seconds from the start of the narration.
type SubtitleSegment struct {
	Text  string  `json:"text"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Duration returns End-Start.
func (s SubtitleSegment) Duration() float64 {
	return s.End - s.Start
}
