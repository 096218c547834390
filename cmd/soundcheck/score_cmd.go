package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"soundcheck/internal/config"
	"soundcheck/internal/usecase"
)

func runScore(args []string) int {
	fs := flag.NewFlagSet("score", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var identifier string
	var integrityPass bool
	var audioScore int
	var policyRisk int
	var outPath string

	fs.StringVar(&identifier, "identifier", "", "sha256 content address (64-char hex)")
	fs.BoolVar(&integrityPass, "integrity-pass", false, "outcome of the hash comparison")
	fs.IntVar(&audioScore, "audio-score", -1, "audio quality score (0-100)")
	fs.IntVar(&policyRisk, "policy-risk", -1, "policy risk score (0-100)")
	fs.StringVar(&outPath, "out", "", "output path (defaults to stdout)")

	if err := fs.Parse(args); err != nil {
		return 1
	}
	if identifier == "" {
		fmt.Fprintln(os.Stderr, "score requires --identifier")
		return 1
	}
	if audioScore < 0 || policyRisk < 0 {
		fmt.Fprintln(os.Stderr, "score requires --audio-score and --policy-risk")
		return 1
	}

	scorer, err := newScorerFromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "score: %v\n", err)
		return 1
	}
	report, err := scorer.Score(identifier, integrityPass, audioScore, policyRisk)
	if err != nil {
		fmt.Fprintf(os.Stderr, "score: %v\n", err)
		return 1
	}

	payload, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "score: %v\n", err)
		return 1
	}
	if err := writeOutput(outPath, payload); err != nil {
		fmt.Fprintf(os.Stderr, "score: %v\n", err)
		return 1
	}
	return 0
}

func newScorerFromEnv() (*usecase.Scorer, error) {
	cfg := config.FromEnv()
	return usecase.NewScorer(
		usecase.Weights{
			Integrity: cfg.ScoreWeightIntegrity,
			Audio:     cfg.ScoreWeightAudio,
			Policy:    cfg.ScoreWeightPolicy,
		},
		usecase.Thresholds{
			AcceptMinOverall:   cfg.VerdictAcceptMinOverall,
			AcceptMaxRisk:      cfg.VerdictAcceptMaxRisk,
			RejectBelowOverall: cfg.VerdictRejectBelowOverall,
		},
	)
}
