package audio

import (
	"fmt"
	"strings"

	"soundcheck/internal/domain"
)

// Analyzer scores declared stream parameters. It never touches the archive
// bytes; submitters declare the stream shape and the policy layer punishes
// lies through the integrity and risk inputs.
type Analyzer struct{}

const (
	baseLossless = 100
	baseLossy    = 60
	baseUnknown  = 40
)

var losslessFormats = map[string]bool{
	"flac": true,
	"wav":  true,
	"aiff": true,
	"alac": true,
}

var lossyFormats = map[string]bool{
	"mp3":  true,
	"aac":  true,
	"ogg":  true,
	"opus": true,
}

func (Analyzer) Score(info domain.StreamInfo) (int, error) {
	if info.SampleRateHz <= 0 {
		return 0, fmt.Errorf("%w: sample rate must be positive", domain.ErrInvalidInput)
	}
	if info.Channels <= 0 {
		return 0, fmt.Errorf("%w: channel count must be positive", domain.ErrInvalidInput)
	}
	if info.DropoutCount < 0 {
		return 0, fmt.Errorf("%w: dropout count must not be negative", domain.ErrInvalidInput)
	}
	if info.ClippingRatio < 0 || info.ClippingRatio > 1 {
		return 0, fmt.Errorf("%w: clipping ratio must be in [0,1]", domain.ErrInvalidInput)
	}

	format := strings.ToLower(strings.TrimSpace(info.Format))
	score := baseUnknown
	switch {
	case losslessFormats[format]:
		score = baseLossless
	case lossyFormats[format]:
		score = baseLossy
	}

	switch {
	case info.SampleRateHz < 22050:
		score -= 30
	case info.SampleRateHz < 44100:
		score -= 15
	}
	if losslessFormats[format] && info.BitDepth > 0 && info.BitDepth < 16 {
		score -= 10
	}
	if info.Channels < 2 {
		score -= 5
	}

	dropoutPenalty := 2 * info.DropoutCount
	if dropoutPenalty > 30 {
		dropoutPenalty = 30
	}
	score -= dropoutPenalty
	score -= int(info.ClippingRatio * 50)

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return score, nil
}
