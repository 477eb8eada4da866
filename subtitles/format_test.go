package subtitles

import (
	"bytes"
	"strings"
	"testing"

	"brainrot/types"
)

func TestFormatTimes(t *testing.T) {
	cases := []struct {
		sec      float64
		ass, srt string
	}{
		{0, "0:00:00.00", "00:00:00,000"},
		{3.3333333, "0:00:03.33", "00:00:03,333"},
		{6.6666667, "0:00:06.67", "00:00:06,667"},
		{61.25, "0:01:01.25", "00:01:01,250"},
		{3723.5, "1:02:03.50", "01:02:03,500"},
		{-2, "0:00:00.00", "00:00:00,000"},
	}
	for _, c := range cases {
		if got := FormatASSTime(c.sec); got != c.ass {
			t.Errorf("FormatASSTime(%v) = %q, want %q", c.sec, got, c.ass)
		}
		if got := FormatSRTTime(c.sec); got != c.srt {
			t.Errorf("FormatSRTTime(%v) = %q, want %q", c.sec, got, c.srt)
		}
	}
}

func testStyle() types.CaptionStyle {
	return types.CaptionStyle{Font: "Verdana", Size: 100, Fill: "white", Stroke: "black", StrokeWidth: 2, WrapWidth: 1080}
}

func TestWriteASS(t *testing.T) {
	segs := []types.SubtitleSegment{
		{Text: "this is", Start: 0, End: 3.3333333},
		{Text: "a {test}", Start: 3.3333333, End: 6.6666667},
		{Text: "gone", Start: 10, End: 10},
	}
	var buf bytes.Buffer
	if err := WriteASS(&buf, segs, testStyle(), types.Size{Width: 1080, Height: 1920}); err != nil {
		t.Fatalf("WriteASS: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"PlayResX: 1080",
		"PlayResY: 1920",
		"Style: Default,Verdana,100,&H00FFFFFF,&H00FFFFFF,&H00000000,&H00000000,0,0,0,0,100,100,0,0,1,2,0,5,0,0,0,1",
		"Dialogue: 0,0:00:00.00,0:00:03.33,Default,,0,0,0,,this is",
		"Dialogue: 0,0:00:03.33,0:00:06.67,Default,,0,0,0,,a (test)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("ASS output missing %q\n%s", want, out)
		}
	}
	if strings.Contains(out, "gone") {
		t.Errorf("zero-width segment should be omitted")
	}
}

func TestWriteASS_NoSegments(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteASS(&buf, nil, testStyle(), types.Size{Width: 1080, Height: 1920}); err != nil {
		t.Fatalf("WriteASS: %v", err)
	}
	if strings.Contains(buf.String(), "Dialogue:") {
		t.Fatalf("expected no events")
	}
}

func TestWriteSRT(t *testing.T) {
	segs := []types.SubtitleSegment{
		{Text: "hello there", Start: 0, End: 1.5},
		{Text: "friend", Start: 1.5, End: 3},
	}
	var buf bytes.Buffer
	if err := WriteSRT(&buf, segs); err != nil {
		t.Fatalf("WriteSRT: %v", err)
	}
	want := "1\n00:00:00,000 --> 00:00:01,500\nhello there\n\n2\n00:00:01,500 --> 00:00:03,000\nfriend\n\n"
	if buf.String() != want {
		t.Fatalf("got:\n%q\nwant:\n%q", buf.String(), want)
	}
}

func TestWriteASS_ShortNarrationKeepsEveryCaption(t *testing.T) {
	segs, err := Pace("one two three four five six", 0.012)
	if err != nil {
		t.Fatalf("Pace: %v", err)
	}
	var buf bytes.Buffer
	if err := WriteASS(&buf, segs, testStyle(), types.Size{Width: 1080, Height: 1920}); err != nil {
		t.Fatalf("WriteASS: %v", err)
	}
	out := buf.String()
	if n := strings.Count(out, "Dialogue:"); n != len(segs) {
		t.Fatalf("%d events for %d segments\n%s", n, len(segs), out)
	}
	for _, want := range []string{
		"Dialogue: 0,0:00:00.00,0:00:00.01,Default,,0,0,0,,one two",
		"Dialogue: 0,0:00:00.01,0:00:00.02,Default,,0,0,0,,three four",
		"Dialogue: 0,0:00:00.02,0:00:00.03,Default,,0,0,0,,five six",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q\n%s", want, out)
		}
	}
}
