// Package feed holds the ordered reflection feed and its item model.
package feed

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Kind categorizes a reflection. It affects presentation and whether
// short-form content skips hydration entirely.
type Kind string

const (
	KindVerse     Kind = "verse"     // scripture quote with translation
	KindNarration Kind = "narration" // prophetic narration
	KindNature    Kind = "nature"    // sign-in-creation reflection
	KindPrompt    Kind = "prompt"    // journaling/self-examination prompt
	KindProphecy  Kind = "prophecy"  // prophetic biography moment
	KindStory     Kind = "story"     // story of the righteous
)

// Kinds lists all content kinds in rotation order.
var Kinds = []Kind{KindVerse, KindNarration, KindNature, KindPrompt, KindProphecy, KindStory}

// Item is a single entry in the reflection feed.
// After ingestion the Store exclusively owns its mutable fields (Full, ReadAt);
// other components request changes through Store.UpdateItem.
type Item struct {
	ID      string
	Kind    Kind
	Title   string
	Short   string // teaser text, always present
	Full    string // complete essay, empty until hydrated
	Origin  string // which source produced it ("curated", "ollama", ...)
	Fetched time.Time
	ReadAt  time.Time // zero until the dwell timer fires
}

// minEssayLen is the shortest Full text considered a real essay rather
// than a placeholder echo of the teaser.
const minEssayLen = 120

// Hydrated reports whether the item carries its full essay.
// A Full that merely repeats the teaser doesn't count.
func (it Item) Hydrated() bool {
	if it.Full == "" || it.Full == it.Short {
		return false
	}
	return len(it.Full) >= minEssayLen || len(it.Full) > len(it.Short)
}

// Read reports whether the dwell timer has marked this item read.
func (it Item) Read() bool {
	return !it.ReadAt.IsZero()
}

// HashID derives a stable item ID from content. Sources use this at
// ingestion time so the same reflection always dedups to one entry.
func HashID(parts ...string) string {
	h := sha256.New()
	for _, p := range parts {
		h.Write([]byte(p))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))[:16]
}

// Patch carries optional field updates for Store.UpdateItem.
// Nil fields are left untouched.
type Patch struct {
	Full   *string
	ReadAt *time.Time
}
