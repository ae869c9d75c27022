package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"sort"

	"github.com/tadabbur/tadabbur/internal/feed"
)

func runStats() {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	fs.Parse(os.Args[1:])

	jr := openJournal()
	defer jr.Close()

	stats, err := jr.Stats()
	if err != nil {
		log.Fatalf("failed to read stats: %v", err)
	}

	fmt.Printf("Archived reflections:  %d\n", stats.Total)
	fmt.Printf("With full essay:       %d\n", stats.Hydrated)
	fmt.Printf("Marked read:           %d\n", stats.Read)
	if stats.Total > 0 {
		fmt.Printf("Read rate:             %.1f%%\n", float64(stats.Read)/float64(stats.Total)*100)
	}

	if len(stats.ByKind) == 0 {
		return
	}
	kinds := make([]string, 0, len(stats.ByKind))
	for k := range stats.ByKind {
		kinds = append(kinds, string(k))
	}
	sort.Strings(kinds)

	fmt.Printf("\nKinds (%d):\n", len(kinds))
	for _, k := range kinds {
		fmt.Printf("  %-12s %d\n", k, stats.ByKind[feed.Kind(k)])
	}
}
