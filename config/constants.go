package config

import "time"

// Canvas and encoding
const (
	// VideoWidth is the output canvas width (9:16 portrait)
	VideoWidth = 1080

	// VideoHeight is the output canvas height (9:16 portrait)
	VideoHeight = 1920

	// FrameRate is the fixed output frame rate
	FrameRate = 60

	VideoCodec   = "libx264"
	AudioCodec   = "aac"
	AudioBitrate = "192k"
	VideoPreset  = "fast"
	PixelFormat  = "yuv420p"

	// DefaultOutputExt is appended to output paths that have no extension
	DefaultOutputExt = ".mp4"

	// NarrationExt is the extension of the synthesized narration written next to the output
	NarrationExt = ".mp3"
)

// Subtitle style
const (
	SubtitleFont        = "Verdana"
	SubtitleFontSize    = 100
	SubtitleFill        = "white"
	SubtitleStroke      = "black"
	SubtitleStrokeWidth = 2

	// WordsPerSegment is how many words each subtitle chunk shows
	WordsPerSegment = 2
)

// Directories and files
const (
	// ConfigFile is the optional JSON file consulted when a CLI flag is absent
	ConfigFile = "assets/config.json"

	// WordListFile is the optional extra profanity list
	WordListFile = "assets/profanity.txt"

	BackgroundsDir = "backgrounds"
	InputDir       = "input"
	OutputDir      = "output"

	// BackgroundPattern selects candidate clips inside a background folder
	BackgroundPattern = "*.mp4"
)

// Narration service
const (
	ElevenLabsBaseURL      = "https://api.elevenlabs.io"
	ElevenLabsModel        = "eleven_multilingual_v2"
	ElevenLabsOutputFormat = "mp3_44100_128"
)

// Processing
const (
	// MaxConcurrentRenders bounds parallel renders in batch, API and Kafka modes
	MaxConcurrentRenders = 2

	SynthesisTimeout = 2 * time.Minute
	RenderTimeout    = 15 * time.Minute
	ProbeTimeout     = 30 * time.Second

	// JobTTL is how long job records are kept in Redis
	JobTTL = 24 * time.Hour
	// PresignLifetime bounds download links for uploaded videos
	PresignLifetime = 7 * 24 * time.Hour
	// DedupTTL is how long rendered story hashes are remembered
	DedupTTL = 30 * 24 * time.Hour

	// MaxTitleWords and MaxTitleLength shape upload titles
	MaxTitleWords  = 10
	MaxTitleLength = 100

	// YouTubeCategoryID is Entertainment
	YouTubeCategoryID    = "24"
	YouTubePrivacyStatus = "public"
)
