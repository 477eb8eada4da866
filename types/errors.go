package types

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyInput means there are no words to display.
	ErrEmptyInput = errors.New("empty input: no words to pace")
	// ErrNoAssets means the background pool is empty.
	ErrNoAssets = errors.New("no background assets available")
	// ErrAssetDecode means a media file could not be decoded.
	ErrAssetDecode = errors.New("asset decode failed")
	// ErrSynthesis means the text-to-speech service failed.
	ErrSynthesis = errors.New("narration synthesis failed")
	// ErrClipTooShort means the background clip is shorter than the narration.
	ErrClipTooShort = errors.New("background clip shorter than narration")
	// ErrInvalidDuration means a negative or NaN duration was supplied.
	ErrInvalidDuration = errors.New("invalid duration")
)

// AssetDecodeError reports an unreadable media file.
type AssetDecodeError struct {
	Path string
	Err  error
}

func (e *AssetDecodeError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("decode %s: %v", e.Path, ErrAssetDecode)
	}
	return fmt.Sprintf("decode %s: %v", e.Path, e.Err)
}

func (e *AssetDecodeError) Unwrap() error { return e.Err }

func (e *AssetDecodeError) Is(target error) bool { return target == ErrAssetDecode }

// SynthesisError reports a failed call to the narration service.
type SynthesisError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *SynthesisError) Error() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("synthesis: %v", e.Err)
	case e.StatusCode != 0:
		return fmt.Sprintf("synthesis: status %d: %s", e.StatusCode, e.Body)
	default:
		return ErrSynthesis.Error()
	}
}

func (e *SynthesisError) Unwrap() error { return e.Err }

func (e *SynthesisError) Is(target error) bool { return target == ErrSynthesis }

// IsTerminal reports whether err ends a render for good: retrying the same
// request against the same assets would fail the same way. Synthesis and
// transport failures are not terminal.
func IsTerminal(err error) bool {
	for _, target := range []error{ErrEmptyInput, ErrNoAssets, ErrAssetDecode, ErrClipTooShort, ErrInvalidDuration} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
