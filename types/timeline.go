package types

// CaptionStyle is the single fixed style every subtitle overlay uses.
type CaptionStyle struct {
	Font        string `json:"font"`
	Size        int    `json:"size"`
	Fill        string `json:"fill"`
	Stroke      string `json:"stroke"`
	StrokeWidth int    `json:"stroke_width"`
	// WrapWidth is the caption box width in canvas pixels.
	WrapWidth int `json:"wrap_width"`
	// FadeIn and FadeOut are always zero: subtitles hard-cut.
	FadeIn  float64 `json:"fade_in"`
	FadeOut float64 `json:"fade_out"`
}

// VideoLayer is the bottom layer of a timeline.
type VideoLayer struct {
	Frame TransformedFrame `json:"frame"`
}

// AudioLayer binds the narration to the whole timeline.
type AudioLayer struct {
	Narration Narration `json:"narration"`
}

// TextLayer is one subtitle overlay, centered on the canvas and visible
// during [Segment.Start, Segment.End).
type TextLayer struct {
	Index   int             `json:"index"`
	Segment SubtitleSegment `json:"segment"`
	Style   CaptionStyle    `json:"style"`
}

// Timeline is the in-memory composition handed to the renderer. Layers are
// ordered bottom to top: Base, then Overlays in segment order.
type Timeline struct {
	Canvas   Size        `json:"canvas"`
	FPS      int         `json:"fps"`
	Duration float64     `json:"duration"`
	Base     VideoLayer  `json:"base"`
	Audio    AudioLayer  `json:"audio"`
	Overlays []TextLayer `json:"overlays"`
}

// VisibleAt returns the overlays visible at time t.
func (tl *Timeline) VisibleAt(t float64) []TextLayer {
	var out []TextLayer
	for _, o := range tl.Overlays {
		if t >= o.Segment.Start && t < o.Segment.End {
			out = append(out, o)
		}
	}
	return out
}
