package main

import (
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

func runReport(args []string) int {
	fs := flag.NewFlagSet("report", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var server string
	var identifier string
	var outPath string

	fs.StringVar(&server, "server", "http://localhost:8080", "soundcheckd base URL")
	fs.StringVar(&identifier, "identifier", "", "report content address")
	fs.StringVar(&outPath, "out", "", "output path (defaults to stdout)")

	if err := fs.Parse(args); err != nil {
		return 1
	}
	if identifier == "" {
		fmt.Fprintln(os.Stderr, "report requires --identifier")
		return 1
	}

	endpoint := strings.TrimRight(server, "/") + "/v1/reports/" + url.PathEscape(identifier)
	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Get(endpoint)
	if err != nil {
		fmt.Fprintf(os.Stderr, "report: %v\n", err)
		return 1
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		fmt.Fprintf(os.Stderr, "report: %v\n", err)
		return 1
	}
	if resp.StatusCode != http.StatusOK {
		fmt.Fprintf(os.Stderr, "report: server returned %d: %s\n", resp.StatusCode, payload)
		return 1
	}
	if err := writeOutput(outPath, payload); err != nil {
		fmt.Fprintf(os.Stderr, "report: %v\n", err)
		return 1
	}
	return 0
}
