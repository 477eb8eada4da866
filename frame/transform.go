// Package frame fits an arbitrary-aspect clip onto the fixed portrait canvas.
package frame

import (
	"fmt"
	"math"

	"brainrot/config"
	"brainrot/types"
)

// DurationPolicy decides what happens when the clip is shorter than the
// narration.
type DurationPolicy int

const (
	// PolicyReject fails with types.ErrClipTooShort.
	PolicyReject DurationPolicy = iota
	// PolicyLoop repeats the clip and trims it to the narration.
	PolicyLoop
)

// Canvas is the fixed output size.
var Canvas = types.Size{Width: config.VideoWidth, Height: config.VideoHeight}

// Transform computes how asset is trimmed, scaled and center-cropped to
// exactly fill Canvas for targetDuration seconds. The asset is not modified.
//
// The clip is scaled so its height is the canvas height; if that leaves it
// narrower than the canvas it is scaled by width instead. Either way the
// crop window is centered on the scaled frame.
func Transform(asset types.VideoAsset, targetDuration float64, policy DurationPolicy) (types.TransformedFrame, error) {
	if asset.Width <= 0 || asset.Height <= 0 {
		return types.TransformedFrame{}, &types.AssetDecodeError{
			Path: asset.Path,
			Err:  fmt.Errorf("invalid dimensions %dx%d", asset.Width, asset.Height),
		}
	}
	if math.IsNaN(targetDuration) || targetDuration < 0 {
		return types.TransformedFrame{}, fmt.Errorf("%w: %v", types.ErrInvalidDuration, targetDuration)
	}

	loop := false
	if asset.Duration < targetDuration {
		if policy != PolicyLoop {
			return types.TransformedFrame{}, fmt.Errorf("%w: %s is %.2fs, narration is %.2fs",
				types.ErrClipTooShort, asset.Path, asset.Duration, targetDuration)
		}
		loop = true
	}

	scaled := ScaleToCover(types.Size{Width: asset.Width, Height: asset.Height}, Canvas)
	return types.TransformedFrame{
		Asset:    asset,
		Canvas:   Canvas,
		Scaled:   scaled,
		CropX:    (scaled.Width - Canvas.Width) / 2,
		CropY:    (scaled.Height - Canvas.Height) / 2,
		Duration: targetDuration,
		Loop:     loop,
	}, nil
}

// ScaleToCover returns src uniformly scaled to canvas height, or to canvas
// width when height scaling would leave it too narrow. Sides are rounded to
// even numbers as most encoders require.
func ScaleToCover(src, canvas types.Size) types.Size {
	w := even(float64(src.Width) * float64(canvas.Height) / float64(src.Height))
	if w >= canvas.Width {
		return types.Size{Width: w, Height: canvas.Height}
	}
	h := even(float64(src.Height) * float64(canvas.Width) / float64(src.Width))
	return types.Size{Width: canvas.Width, Height: max(h, canvas.Height)}
}

func even(v float64) int {
	return 2 * int(math.Round(v/2))
}
