package moderate

import (
	"sort"
	"strings"
)

// Match is one detected occurrence. Word is the text exactly as found
// in the input, casing and obfuscation preserved; Canonical is the
// library word (or variant owner) that explains it; Position is the
// byte offset of the occurrence in the input.
type Match struct {
	Word      string   `json:"word"`
	Canonical string   `json:"canonical"`
	Severity  Severity `json:"severity"`
	Position  int      `json:"position"`
}

func (m Match) end() int {
	return m.Position + len(m.Word)
}

type candidate struct {
	literal string
	entry   Entry
}

// scan finds every non-overlapping occurrence of a blocked library word
// in text. Longer literals are tried first so a phrase or compound
// entry takes priority over a shorter entry matching part of the same
// span; among accepted matches the consumed ranges never intersect.
func (e *Engine) scan(text string, level Level) []Match {
	if level == LevelOff || e.library.Len() == 0 || strings.TrimSpace(text) == "" {
		return nil
	}

	candidates := e.candidates(level)
	if len(candidates) == 0 {
		return nil
	}

	var matches []Match
	for _, c := range candidates {
		m := e.matcherFor(c.literal)
		if m == nil {
			continue
		}
		for from := 0; ; {
			start, end, ok := m.find(text, from)
			if !ok {
				break
			}
			if !intersects(matches, start, end) {
				matches = append(matches, Match{
					Word:      text[start:end],
					Canonical: c.entry.Word,
					Severity:  c.entry.Severity,
					Position:  start,
				})
			}
			from = end
		}
	}

	sort.Slice(matches, func(i, j int) bool { return matches[i].Position < matches[j].Position })
	return matches
}

// candidates collects every word and variant whose entry severity is
// blocked at level, ordered longest first. Equal lengths fall back to
// lexicographic order to keep scans deterministic.
func (e *Engine) candidates(level Level) []candidate {
	var out []candidate
	for _, entry := range e.library.entries {
		if !level.Blocks(entry.Severity) {
			continue
		}
		out = append(out, candidate{literal: entry.Word, entry: entry})
		for _, v := range entry.Variants {
			v = strings.ToLower(strings.TrimSpace(v))
			if v != "" {
				out = append(out, candidate{literal: v, entry: entry})
			}
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if len(out[i].literal) != len(out[j].literal) {
			return len(out[i].literal) > len(out[j].literal)
		}
		return out[i].literal < out[j].literal
	})
	return out
}

// matcherFor returns the cached compiled matcher for a literal,
// compiling it on first use. The cache is dropped whenever the library
// mutates.
func (e *Engine) matcherFor(literal string) *matcher {
	if m, ok := e.matchers[literal]; ok {
		return m
	}
	m, err := newMatcher(literal)
	if err != nil {
		m = nil
	}
	e.matchers[literal] = m
	return m
}

func intersects(matches []Match, start, end int) bool {
	for _, m := range matches {
		if start < m.end() && m.Position < end {
			return true
		}
	}
	return false
}
