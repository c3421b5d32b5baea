package catalog

import "strings"

// LimitWords keeps the first max space-separated words of text and appends an
// ellipsis when something was cut.
func LimitWords(text string, max int) string {
	if text == "" {
		return ""
	}
	if max <= 0 {
		return "…"
	}
	words := strings.Split(text, " ")
	if len(words) <= max {
		return text
	}
	return strings.Join(words[:max], " ") + "…"
}

// Truncate shortens text to max runes followed by "...", as used for tooltips.
func Truncate(text string, max int) string {
	if max < 0 {
		max = 0
	}
	r := []rune(text)
	if len(r) <= max {
		return text
	}
	return string(r[:max]) + "..."
}

// DisplayRecord is a DocumentRecord plus the shortened strings the list screens show.
type DisplayRecord struct {
	DocumentRecord
	ShortTitle  string `json:"shortTitle"`
	ShortAuthor string `json:"shortAuthor"`
}

// Display projects records for list rendering: titles are cut for tooltips and
// authors limited to a few words.
func Display(items []DocumentRecord) []DisplayRecord {
	out := make([]DisplayRecord, 0, len(items))
	for _, it := range items {
		out = append(out, DisplayRecord{
			DocumentRecord: it,
			ShortTitle:     Truncate(it.Title, 20),
			ShortAuthor:    LimitWords(it.Author, 4),
		})
	}
	return out
}
