package main

import (
	"flag"
	"fmt"
	"log"
	"os"
)

func runRecent() {
	fs := flag.NewFlagSet("recent", flag.ExitOnError)
	limit := fs.Int("n", 20, "Number of reflections to show")
	fs.Parse(os.Args[1:])

	jr := openJournal()
	defer jr.Close()

	items, err := jr.Recent(*limit)
	if err != nil {
		log.Fatalf("failed to read recent reflections: %v", err)
	}
	if len(items) == 0 {
		fmt.Println("No reflections archived yet. Run the tadabbur TUI first.")
		return
	}

	for _, it := range items {
		read := " "
		if it.Read() {
			read = "R"
		}
		essay := " "
		if it.Hydrated() {
			essay = "E"
		}
		fmt.Printf("%s%s  %-10s %-9s %s  %s\n",
			read, essay, it.Kind, it.Origin,
			it.Fetched.Format("Jan 02 15:04"),
			truncate(it.Title, 60))
	}
}
