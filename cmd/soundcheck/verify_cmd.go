package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"soundcheck/internal/config"
	"soundcheck/internal/domain"
	"soundcheck/internal/infra/audio"
	cryptoinfra "soundcheck/internal/infra/crypto"
	"soundcheck/internal/infra/policyopa"
	"soundcheck/internal/usecase"
)

type verifyOutput struct {
	Report domain.VerificationReport `json:"report"`
	Policy domain.RiskEvaluation     `json:"policy"`
}

func runVerify(args []string) int {
	fs := flag.NewFlagSet("verify", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var inPath string
	var mediaType string
	var claimedHash string
	var format string
	var sampleRate int
	var bitDepth int
	var channels int
	var dropouts int
	var clipping float64
	var uploader string
	var strikes int
	var consent bool
	var takedown bool
	var duplicate bool
	var bundlePath string
	var outPath string

	fs.StringVar(&inPath, "in", "", "archive path")
	fs.StringVar(&mediaType, "media-type", "application/zip", "archive media type")
	fs.StringVar(&claimedHash, "claimed-hash", "", "claimed sha256 hex digest")
	fs.StringVar(&format, "format", "", "audio format (flac, wav, mp3, ...)")
	fs.IntVar(&sampleRate, "sample-rate", 0, "sample rate in Hz")
	fs.IntVar(&bitDepth, "bit-depth", 0, "bit depth")
	fs.IntVar(&channels, "channels", 2, "channel count")
	fs.IntVar(&dropouts, "dropouts", 0, "detected dropout count")
	fs.Float64Var(&clipping, "clipping", 0, "clipping ratio (0-1)")
	fs.StringVar(&uploader, "uploader", "", "uploader id")
	fs.IntVar(&strikes, "strikes", 0, "uploader strike count")
	fs.BoolVar(&consent, "consent", false, "taper consent on record")
	fs.BoolVar(&takedown, "takedown", false, "subject matches a takedown request")
	fs.BoolVar(&duplicate, "duplicate", false, "identifier already submitted")
	fs.StringVar(&bundlePath, "policy-bundle", "", "risk policy bundle directory")
	fs.StringVar(&outPath, "out", "", "output path (defaults to stdout)")

	if err := fs.Parse(args); err != nil {
		return 1
	}
	if inPath == "" {
		fmt.Fprintln(os.Stderr, "verify requires --in")
		return 1
	}
	if claimedHash == "" {
		fmt.Fprintln(os.Stderr, "verify requires --claimed-hash")
		return 1
	}

	archive, err := os.ReadFile(inPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "verify: %v\n", err)
		return 1
	}

	scorer, err := newScorerFromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "verify: %v\n", err)
		return 1
	}

	cfg := config.FromEnv()
	var risk usecase.RiskEvaluator = policyopa.StaticEvaluator{Risk: cfg.StaticRisk}
	if bundlePath != "" {
		engine, err := policyopa.NewEngineFromBundlePath(context.Background(), bundlePath, cfg.PolicyBundleID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "verify: load policy bundle: %v\n", err)
			return 1
		}
		risk = engine
	}

	uc := &usecase.VerifySubmission{
		Scorer: scorer,
		Hasher: cryptoinfra.Service{},
		Audio:  audio.Analyzer{},
		Risk:   risk,
	}
	result, err := uc.Execute(context.Background(), usecase.VerifySubmissionRequest{
		Archive:     archive,
		MediaType:   mediaType,
		ClaimedHash: claimedHash,
		Stream: domain.StreamInfo{
			Format:        format,
			SampleRateHz:  sampleRate,
			BitDepth:      bitDepth,
			Channels:      channels,
			DropoutCount:  dropouts,
			ClippingRatio: clipping,
		},
		Submitter: domain.SubmissionFacts{
			UploaderID:      uploader,
			UploaderStrikes: strikes,
			TaperConsent:    consent,
			TakedownMatch:   takedown,
			Duplicate:       duplicate,
		},
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "verify: %v\n", err)
		return 1
	}

	payload, err := json.MarshalIndent(verifyOutput{Report: result.Report, Policy: result.Policy}, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "verify: %v\n", err)
		return 1
	}
	if err := writeOutput(outPath, payload); err != nil {
		fmt.Fprintf(os.Stderr, "verify: %v\n", err)
		return 1
	}
	return 0
}
