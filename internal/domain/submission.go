package domain

// StreamInfo carries the declared parameters of the dominant audio stream
// in an uploaded archive. Values are taken from the submission manifest;
// decoding the archive itself is a collaborator concern.
type StreamInfo struct {
	Format        string  `json:"format"`
	SampleRateHz  int     `json:"sample_rate_hz"`
	BitDepth      int     `json:"bit_depth"`
	Channels      int     `json:"channels"`
	DropoutCount  int     `json:"dropout_count"`
	ClippingRatio float64 `json:"clipping_ratio"`
}
