package main

import (
	"fmt"
	"os"
	"path/filepath"
)

func main() {
	os.Exit(run(os.Args))
}

func run(args []string) int {
	if len(args) < 2 {
		usage(args)
		return 1
	}

	switch args[1] {
	case "score":
		return runScore(args[2:])
	case "verify":
		return runVerify(args[2:])
	case "report":
		return runReport(args[2:])
	}

	usage(args)
	return 1
}

func usage(args []string) {
	name := "soundcheck"
	if len(args) > 0 && args[0] != "" {
		name = filepath.Base(args[0])
	}
	fmt.Fprintf(os.Stderr, "usage:\n")
	fmt.Fprintf(os.Stderr, "  %s score --identifier <hex> --integrity-pass=<bool> --audio-score <0-100> --policy-risk <0-100> [--out <file>]\n", name)
	fmt.Fprintf(os.Stderr, "  %s verify --in <archive> --media-type <type> --claimed-hash <hex> --format <fmt> --sample-rate <hz> [--bit-depth <n>] [--channels <n>] [--dropouts <n>] [--clipping <0-1>] [--uploader <id>] [--strikes <n>] [--consent] [--takedown] [--duplicate] [--policy-bundle <dir>] [--out <file>]\n", name)
	fmt.Fprintf(os.Stderr, "  %s report --server <url> --identifier <hex> [--out <file>]\n", name)
}
