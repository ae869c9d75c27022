package gen

import (
	"fmt"
	"strings"

	"github.com/tadabbur/tadabbur/internal/feed"
)

// teaserSystem frames all short-form generation. The response contract
// (Title: line + body) is what ParseTeaser expects.
const teaserSystem = `You are a thoughtful Islamic devotional writer. You write short,
sincere reflections that invite contemplation without preaching. Always
respond in exactly this format:

Title: <a short evocative title, at most eight words>
<two to four sentences of reflection>

No markdown headings, no preamble, no closing remarks.`

// essaySystem frames deep-dive expansion of a teaser into a full essay.
const essaySystem = `You are a thoughtful Islamic devotional writer. Expand the given
reflection into a complete contemplative essay of four to six paragraphs
in markdown. Stay grounded in the teaser's theme. Quote scripture
sparingly and always with attribution. End with one gentle question for
the reader to carry into their day.`

// kindTopics steers per-kind teaser generation.
var kindTopics = map[feed.Kind]string{
	feed.KindVerse:     "a single Quranic verse: give the verse reference, a faithful translation, and one sentence on what it asks of the heart",
	feed.KindNarration: "a short authentic prophetic narration with its source collection and a sentence on its lesson",
	feed.KindNature:    "a sign in creation (weather, stars, growth, seasons) read as an invitation to gratitude",
	feed.KindPrompt:    "a gentle self-examination question for a daily journal, with one sentence of framing",
	feed.KindProphecy:  "a brief moment from the prophetic biography and what it reveals about patience or mercy",
	feed.KindStory:     "a short story of one of the righteous of the early generations and its quiet lesson",
}

// TeaserRequest builds the generation request for one feed teaser of the
// given kind.
func TeaserRequest(kind feed.Kind) Request {
	topic, ok := kindTopics[kind]
	if !ok {
		topic = kindTopics[feed.KindPrompt]
	}
	return Request{
		SystemPrompt: teaserSystem,
		UserPrompt:   fmt.Sprintf("Write one reflection about %s.", topic),
		MaxTokens:    300,
	}
}

// EssayRequest builds the deep-dive request expanding a teaser into a
// full essay.
func EssayRequest(kind feed.Kind, title, teaser string) Request {
	return Request{
		SystemPrompt: essaySystem,
		UserPrompt:   fmt.Sprintf("Kind: %s\nTitle: %s\nTeaser: %s", kind, title, teaser),
		MaxTokens:    1200,
	}
}

// ParseTeaser splits a teaser response into title and body per the
// contract in teaserSystem. Handles missing or mid-text Title: lines by
// falling back to the first line as title.
func ParseTeaser(raw string) (title, body string, err error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", "", fmt.Errorf("empty generation response")
	}

	lines := strings.SplitN(raw, "\n", 2)
	first := strings.TrimSpace(lines[0])

	if after, ok := strings.CutPrefix(first, "Title:"); ok {
		title = strings.TrimSpace(after)
	} else {
		title = first
	}
	if len(lines) > 1 {
		body = strings.TrimSpace(lines[1])
	}

	if title == "" {
		return "", "", fmt.Errorf("no title in generation response")
	}
	if body == "" {
		// single-line response: treat the whole thing as body
		body = title
	}
	return title, body, nil
}
