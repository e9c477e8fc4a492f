package moderate

import (
	"sort"
	"strings"
)

// Entry is one moderation dictionary record. Word is always stored in
// lowercase; Variants are alternate spellings matched as if they were
// the word itself; Alternatives are mild replacement words used by
// structure-preserving sanitization.
type Entry struct {
	Word         string   `json:"word" bson:"word"`
	Severity     Severity `json:"severity" bson:"severity"`
	Alternatives []string `json:"alternatives,omitempty" bson:"alternatives,omitempty"`
	Variants     []string `json:"variants,omitempty" bson:"variants,omitempty"`
}

// Library holds the word entries an engine scans for, keyed by
// lowercase word. Not safe for concurrent mutation.
type Library struct {
	entries map[string]Entry
}

// NewLibrary returns an empty library.
func NewLibrary() *Library {
	return &Library{entries: make(map[string]Entry)}
}

// DefaultLibrary returns a library seeded with the built-in word set,
// so a freshly constructed engine is usable without configuration.
func DefaultLibrary() *Library {
	lib := NewLibrary()
	lib.Import(defaultEntries)
	return lib
}

// Add inserts an entry, overwriting any existing entry for the same
// lowercase word.
func (lib *Library) Add(word string, severity Severity, alternatives, variants []string) {
	key := strings.ToLower(strings.TrimSpace(word))
	if key == "" {
		return
	}
	lib.entries[key] = Entry{
		Word:         key,
		Severity:     severity,
		Alternatives: alternatives,
		Variants:     variants,
	}
}

// Remove deletes the entry for word and reports whether one existed.
func (lib *Library) Remove(word string) bool {
	key := strings.ToLower(strings.TrimSpace(word))
	if _, ok := lib.entries[key]; !ok {
		return false
	}
	delete(lib.entries, key)
	return true
}

// Clear empties the library, including the default seed set.
func (lib *Library) Clear() {
	lib.entries = make(map[string]Entry)
}

func (lib *Library) Len() int {
	return len(lib.entries)
}

func (lib *Library) Has(word string) bool {
	_, ok := lib.entries[strings.ToLower(strings.TrimSpace(word))]
	return ok
}

// Get looks up an entry case-insensitively.
func (lib *Library) Get(word string) (Entry, bool) {
	entry, ok := lib.entries[strings.ToLower(strings.TrimSpace(word))]
	return entry, ok
}

// Import merges entries into the library. Existing entries for the same
// word are overwritten; nothing is removed.
func (lib *Library) Import(entries []Entry) {
	for _, e := range entries {
		lib.Add(e.Word, e.Severity, e.Alternatives, e.Variants)
	}
}

// Export returns all entries sorted by word.
func (lib *Library) Export() []Entry {
	out := make([]Entry, 0, len(lib.entries))
	for _, e := range lib.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Word < out[j].Word })
	return out
}

// BySeverity returns all entries of the given severity, sorted by word.
func (lib *Library) BySeverity(severity Severity) []Entry {
	var out []Entry
	for _, e := range lib.entries {
		if e.Severity == severity {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Word < out[j].Word })
	return out
}

// Suggestions returns the configured replacement words for word, or nil
// if the word is unknown or has no alternatives.
func (lib *Library) Suggestions(word string) []string {
	entry, ok := lib.Get(word)
	if !ok {
		return nil
	}
	return entry.Alternatives
}

// defaultEntries is the built-in seed set, spanning all four severities
// with representative alternatives and spelling variants.
var defaultEntries = []Entry{
	{Word: "damn", Severity: SeverityMild, Alternatives: []string{"darn", "dang"}},
	{Word: "hell", Severity: SeverityMild, Alternatives: []string{"heck"}},
	{Word: "crap", Severity: SeverityMild, Alternatives: []string{"crud", "junk"}},
	{Word: "piss", Severity: SeverityMild, Alternatives: []string{"pee"}, Variants: []string{"pissed"}},

	{Word: "shit", Severity: SeverityModerate, Alternatives: []string{"shoot", "crud"}, Variants: []string{"shite", "bullshit"}},
	{Word: "ass", Severity: SeverityModerate, Alternatives: []string{"butt", "behind"}, Variants: []string{"arse"}},
	{Word: "douche", Severity: SeverityModerate, Alternatives: []string{"jerk"}, Variants: []string{"douchebag"}},

	{Word: "fuck", Severity: SeveritySevere, Alternatives: []string{"fudge", "frick"}, Variants: []string{"fucking", "fucker", "motherfuck"}},
	{Word: "bitch", Severity: SeveritySevere, Alternatives: []string{"jerk"}, Variants: []string{"biatch"}},
	{Word: "dick", Severity: SeveritySevere, Alternatives: []string{"jerk"}, Variants: []string{"dickhead"}},
	{Word: "bastard", Severity: SeveritySevere, Alternatives: []string{"scoundrel"}},
	{Word: "asshole", Severity: SeveritySevere, Alternatives: []string{"jerk"}, Variants: []string{"arsehole"}},

	{Word: "cunt", Severity: SeverityExtreme, Alternatives: []string{"jerk"}},
	{Word: "motherfucker", Severity: SeverityExtreme, Alternatives: []string{"scoundrel"}},
}
