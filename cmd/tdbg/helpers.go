package main

import (
	"log"
	"path/filepath"

	"github.com/tadabbur/tadabbur/internal/config"
	"github.com/tadabbur/tadabbur/internal/journal"
)

// dbPath returns the path to tadabbur.db.
func dbPath() string {
	return filepath.Join(config.Dir(), "tadabbur.db")
}

// eventLogPath returns the path to events.jsonl.
func eventLogPath() string {
	return filepath.Join(config.Dir(), "events.jsonl")
}

// openJournal opens the journal or fatals.
func openJournal() *journal.Journal {
	jr, err := journal.Open(dbPath())
	if err != nil {
		log.Fatalf("failed to open journal: %v", err)
	}
	return jr
}

// truncate shortens a string to max runes, appending "..." if truncated.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}
