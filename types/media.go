package types

// VideoAsset references a source clip with its natural dimensions and duration.
// It is read-only input to the frame transformer.
type VideoAsset struct {
	Path     string  `json:"path"`
	Width    int     `json:"width"`
	Height   int     `json:"height"`
	Duration float64 `json:"duration"`
}

// Size is a pixel width/height pair.
type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// TransformedFrame describes how an asset is fitted onto the canvas: the
// uniform scale to apply, followed by a crop at (CropX, CropY) of Canvas size.
type TransformedFrame struct {
	Asset    VideoAsset `json:"asset"`
	Canvas   Size       `json:"canvas"`
	Scaled   Size       `json:"scaled"`
	CropX    int        `json:"crop_x"`
	CropY    int        `json:"crop_y"`
	Duration float64    `json:"duration"`
	// Loop is set when the source is shorter than Duration and must be repeated.
	Loop bool `json:"loop"`
}

// Narration is the synthesized audio for a script.
type Narration struct {
	Path     string  `json:"path"`
	Duration float64 `json:"duration"`
}
