package subtitles

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strings"

	"brainrot/types"
)

// ASS alignment 5 is middle-center (numpad layout).
const assAlignCenter = 5

// WriteASS writes segments as an Advanced SubStation Alpha script sized to
// canvas. Every event uses the single style and cuts in and out with no fade.
// Zero-width segments are omitted since they would never be displayed. ASS
// times have centisecond resolution, so any other segment is shown for at
// least one centisecond and starts no earlier than the previous one ended.
func WriteASS(w io.Writer, segments []types.SubtitleSegment, style types.CaptionStyle, canvas types.Size) error {
	bw := bufio.NewWriter(w)

	margin := 0
	if style.WrapWidth > 0 && style.WrapWidth < canvas.Width {
		margin = (canvas.Width - style.WrapWidth) / 2
	}

	fmt.Fprintln(bw, "[Script Info]")
	fmt.Fprintln(bw, "Title: brainrot")
	fmt.Fprintln(bw, "ScriptType: v4.00+")
	fmt.Fprintln(bw, "WrapStyle: 0")
	fmt.Fprintln(bw, "ScaledBorderAndShadow: yes")
	fmt.Fprintf(bw, "PlayResX: %d\n", canvas.Width)
	fmt.Fprintf(bw, "PlayResY: %d\n", canvas.Height)
	fmt.Fprintln(bw)
	fmt.Fprintln(bw, "[V4+ Styles]")
	fmt.Fprintln(bw, "Format: Name, Fontname, Fontsize, PrimaryColour, SecondaryColour, OutlineColour, BackColour, Bold, Italic, Underline, StrikeOut, ScaleX, ScaleY, Spacing, Angle, BorderStyle, Outline, Shadow, Alignment, MarginL, MarginR, MarginV, Encoding")
	fmt.Fprintf(bw, "Style: Default,%s,%d,%s,%s,%s,&H00000000,0,0,0,0,100,100,0,0,1,%d,0,%d,%d,%d,0,1\n",
		style.Font, style.Size,
		assColor(style.Fill), assColor(style.Fill), assColor(style.Stroke),
		style.StrokeWidth, assAlignCenter, margin, margin)
	fmt.Fprintln(bw)
	fmt.Fprintln(bw, "[Events]")
	fmt.Fprintln(bw, "Format: Layer, Start, End, Style, Name, MarginL, MarginR, MarginV, Effect, Text")

	var prevEnd int64
	for _, seg := range segments {
		if seg.End <= seg.Start {
			continue
		}
		start := max(centiseconds(seg.Start), prevEnd)
		end := max(centiseconds(seg.End), start+1)
		prevEnd = end
		fmt.Fprintf(bw, "Dialogue: 0,%s,%s,Default,,0,0,0,,%s\n", formatCS(start), formatCS(end), escapeASS(seg.Text))
	}

	return bw.Flush()
}

// FormatASSTime converts seconds to h:mm:ss.cc, rounding to the nearest
// centisecond.
func FormatASSTime(seconds float64) string {
	return formatCS(centiseconds(seconds))
}

func centiseconds(seconds float64) int64 {
	return int64(math.Round(math.Max(seconds, 0) * 100))
}

func formatCS(cs int64) string {
	hours := cs / 360000
	minutes := (cs / 6000) % 60
	secs := (cs / 100) % 60
	return fmt.Sprintf("%d:%02d:%02d.%02d", hours, minutes, secs, cs%100)
}

func escapeASS(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "{", "(")
	s = strings.ReplaceAll(s, "}", ")")
	return s
}

// assColor converts a color name or #RRGGBB to &HAABBGGRR.
func assColor(c string) string {
	switch strings.ToLower(c) {
	case "white":
		return "&H00FFFFFF"
	case "black":
		return "&H00000000"
	case "yellow":
		return "&H0000FFFF"
	}
	hex := strings.TrimPrefix(c, "#")
	if len(hex) == 6 {
		return "&H00" + strings.ToUpper(hex[4:6]+hex[2:4]+hex[0:2])
	}
	return "&H00FFFFFF"
}
