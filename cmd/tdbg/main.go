// Command tdbg is the debug and maintenance CLI for tadabbur.
//
// Usage:
//
//	tdbg                    Show help
//	tdbg stats              Journal statistics
//	tdbg recent             Recently archived reflections
//	tdbg events             JSONL event log viewer
package main

import (
	"fmt"
	"os"
)

const usage = `tdbg — tadabbur debug & maintenance CLI

Usage:
  tdbg <command> [flags]

Commands:
  stats       Journal statistics (totals, hydration, read counts, kinds)
  recent      Recently archived reflections
  events      JSONL event log viewer

Run 'tdbg <command> -h' for command-specific help.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Print(usage)
		os.Exit(0)
	}

	cmd := os.Args[1]
	// Strip the program name + subcommand so flag sets see only their flags
	os.Args = os.Args[1:]

	switch cmd {
	case "stats":
		runStats()
	case "recent":
		runRecent()
	case "events":
		runEvents()
	case "-h", "--help", "help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "tdbg: unknown command %q\n\n", cmd)
		fmt.Print(usage)
		os.Exit(1)
	}
}
