// Package subtitles paces narration text into timed subtitle segments and
// writes them out as ASS or SRT.
package subtitles

import (
	"fmt"
	"math"
	"strings"

	"brainrot/config"
	"brainrot/types"
)

// Pace groups the words of text into chunks of config.WordsPerSegment (the
// last chunk may be shorter) and gives every chunk an equal slice of
// audioDuration. Segments are returned in display order, are contiguous, and
// the last one ends exactly at audioDuration.
func Pace(text string, audioDuration float64) ([]types.SubtitleSegment, error) {
	if math.IsNaN(audioDuration) || math.IsInf(audioDuration, 0) || audioDuration < 0 {
		return nil, fmt.Errorf("%w: %v", types.ErrInvalidDuration, audioDuration)
	}

	words := strings.Fields(text)
	if len(words) == 0 {
		return nil, types.ErrEmptyInput
	}

	n := (len(words) + config.WordsPerSegment - 1) / config.WordsPerSegment
	step := audioDuration / float64(n)

	// Each boundary is computed once and shared by the two segments that meet
	// there, so end(i) == start(i+1) exactly.
	boundary := func(i int) float64 {
		if i >= n {
			return audioDuration
		}
		return math.Min(float64(i)*step, audioDuration)
	}

	segments := make([]types.SubtitleSegment, 0, n)
	for i := 0; i < n; i++ {
		lo := i * config.WordsPerSegment
		hi := min(lo+config.WordsPerSegment, len(words))
		segments = append(segments, types.SubtitleSegment{
			Text:  strings.Join(words[lo:hi], " "),
			Start: boundary(i),
			End:   boundary(i + 1),
		})
	}
	return segments, nil
}
