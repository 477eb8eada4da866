package subtitles

import (
	"bufio"
	"fmt"
	"io"
	"math"

	"brainrot/types"
)

// WriteSRT writes segments as a SubRip file.
func WriteSRT(w io.Writer, segments []types.SubtitleSegment) error {
	bw := bufio.NewWriter(w)
	for i, seg := range segments {
		fmt.Fprintf(bw, "%d\n", i+1)
		fmt.Fprintf(bw, "%s --> %s\n", FormatSRTTime(seg.Start), FormatSRTTime(seg.End))
		fmt.Fprintf(bw, "%s\n\n", seg.Text)
	}
	return bw.Flush()
}

// FormatSRTTime converts seconds to HH:MM:SS,mmm.
func FormatSRTTime(seconds float64) string {
	ms := int64(math.Round(math.Max(seconds, 0) * 1000))
	hours := ms / 3600000
	minutes := (ms / 60000) % 60
	secs := (ms / 1000) % 60
	return fmt.Sprintf("%02d:%02d:%02d,%03d", hours, minutes, secs, ms%1000)
}
