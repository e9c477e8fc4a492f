package moderate

import (
	"fmt"
	"math/rand"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Result is the outcome of one moderation call. It is a pure value:
// composing it never mutates the engine.
type Result struct {
	IsClean    bool     `json:"is_clean"`
	FoundWords []string `json:"found_words,omitempty"`
	Severity   Severity `json:"severity"`
	Sanitized  string   `json:"sanitized"`
	Matches    []Match  `json:"matches,omitempty"`
}

// Limits are the ceilings a text is validated against. A zero ceiling
// disables that check.
type Limits struct {
	MaxScore    float64  `json:"max_score,omitempty"`
	MaxSeverity Severity `json:"max_severity,omitempty"`
	MaxWords    int      `json:"max_words,omitempty"`
}

// Validation reports whether a text passed its limits, with a
// human-readable reason per violated ceiling. Never an error: callers
// branch on IsValid.
type Validation struct {
	IsValid   bool     `json:"is_valid"`
	Reasons   []string `json:"reasons,omitempty"`
	Score     float64  `json:"score"`
	Severity  Severity `json:"severity"`
	WordCount int      `json:"word_count"`
}

// ReportDetail is one match with its surrounding context snippet.
type ReportDetail struct {
	Match
	Context string `json:"context"`
}

// Report summarizes how much of a text is flagged.
type Report struct {
	TotalWords     int            `json:"total_words"`
	FlaggedCount   int            `json:"flagged_count"`
	PercentFlagged float64        `json:"percent_flagged"`
	Severity       Severity       `json:"severity"`
	Details        []ReportDetail `json:"details,omitempty"`
}

func (e *Engine) compose(text string, matches []Match) Result {
	r := Result{
		IsClean:   len(matches) == 0,
		Sanitized: text,
		Matches:   matches,
	}
	if r.IsClean {
		return r
	}

	r.Sanitized = censorMatches(text, matches, e.censor)

	seen := make(map[string]bool)
	for _, m := range matches {
		if m.Severity > r.Severity {
			r.Severity = m.Severity
		}
		if !seen[m.Word] {
			seen[m.Word] = true
			r.FoundWords = append(r.FoundWords, m.Word)
		}
	}
	return r
}

// censorMatches replaces each match span with the censor string
// repeated per character. Replacements run in descending position
// order so earlier spans don't shift later offsets.
func censorMatches(text string, matches []Match, censor string) string {
	for i := len(matches) - 1; i >= 0; i-- {
		m := matches[i]
		text = text[:m.Position] + strings.Repeat(censor, utf8.RuneCountInString(m.Word)) + text[m.end():]
	}
	return text
}

// replaceMatches substitutes each match span with repl's output, in
// descending position order.
func replaceMatches(text string, matches []Match, repl func(Match) string) string {
	for i := len(matches) - 1; i >= 0; i-- {
		m := matches[i]
		text = text[:m.Position] + repl(m) + text[m.end():]
	}
	return text
}

// ModerateSentence rewrites text keeping its structure. With
// preserveStructure, each flagged word becomes its entry's first
// configured alternative ("damn" -> "darn"); words without
// alternatives fall back to censoring. Without it, the call is plain
// sanitization.
func (e *Engine) ModerateSentence(text string, preserveStructure bool) string {
	matches := e.scan(text, e.level)
	if len(matches) == 0 {
		return text
	}
	if !preserveStructure {
		return censorMatches(text, matches, e.censor)
	}
	return replaceMatches(text, matches, func(m Match) string {
		if alts := e.library.Suggestions(m.Canonical); len(alts) > 0 {
			return alts[0]
		}
		return strings.Repeat(e.censor, utf8.RuneCountInString(m.Word))
	})
}

// ReplaceRandom rewrites text substituting each flagged word with a
// randomly chosen alternative from its entry, censoring when none are
// configured.
func (e *Engine) ReplaceRandom(text string) string {
	matches := e.scan(text, e.level)
	if len(matches) == 0 {
		return text
	}
	return replaceMatches(text, matches, func(m Match) string {
		if alts := e.library.Suggestions(m.Canonical); len(alts) > 0 {
			return alts[rand.Intn(len(alts))]
		}
		return strings.Repeat(e.censor, utf8.RuneCountInString(m.Word))
	})
}

// Highlight wraps each flagged word in the open and close markers,
// leaving the word itself intact.
func (e *Engine) Highlight(text, openTag, closeTag string) string {
	matches := e.scan(text, e.level)
	if len(matches) == 0 {
		return text
	}
	return replaceMatches(text, matches, func(m Match) string {
		return openTag + m.Word + closeTag
	})
}

// CountBySeverity tallies flagged occurrences per severity.
func (e *Engine) CountBySeverity(text string) map[Severity]int {
	counts := make(map[Severity]int)
	for _, m := range e.scan(text, e.level) {
		counts[m.Severity]++
	}
	return counts
}

// Score computes the normalized 0-100 profanity score: the summed
// severity points of all matches divided by the whitespace-delimited
// word count, scaled by 10 and capped at 100. Blank input scores 0.
func (e *Engine) Score(text string) float64 {
	words := strings.Fields(text)
	if len(words) == 0 {
		return 0
	}

	var points float64
	for _, m := range e.scan(text, e.level) {
		points += m.Severity.Points()
	}

	score := points / float64(len(words)) * 10
	if score > 100 {
		score = 100
	}
	return score
}

// Validate checks text against the given ceilings and reports each
// violation as a readable reason.
func (e *Engine) Validate(text string, limits Limits) Validation {
	matches := e.scan(text, e.level)

	v := Validation{
		IsValid:   true,
		Score:     e.Score(text),
		WordCount: len(matches),
	}
	for _, m := range matches {
		if m.Severity > v.Severity {
			v.Severity = m.Severity
		}
	}

	if limits.MaxScore > 0 && v.Score > limits.MaxScore {
		v.Reasons = append(v.Reasons, fmt.Sprintf("profanity score %.1f exceeds limit %.1f", v.Score, limits.MaxScore))
	}
	if limits.MaxSeverity > 0 && v.Severity > limits.MaxSeverity {
		v.Reasons = append(v.Reasons, fmt.Sprintf("severity %q exceeds limit %q", v.Severity, limits.MaxSeverity))
	}
	if limits.MaxWords > 0 && v.WordCount > limits.MaxWords {
		v.Reasons = append(v.Reasons, fmt.Sprintf("%d flagged words exceed limit %d", v.WordCount, limits.MaxWords))
	}
	v.IsValid = len(v.Reasons) == 0

	return v
}

// contextRunes is the number of characters shown on each side of a
// match in report snippets.
const contextRunes = 20

// DetailedReport breaks down how much of the text is flagged and
// where, with a context snippet per match.
func (e *Engine) DetailedReport(text string) Report {
	matches := e.scan(text, e.level)

	r := Report{
		TotalWords:   len(strings.Fields(text)),
		FlaggedCount: len(matches),
	}
	for _, m := range matches {
		if m.Severity > r.Severity {
			r.Severity = m.Severity
		}
		r.Details = append(r.Details, ReportDetail{
			Match:   m,
			Context: contextSnippet(text, m.Position, m.end()),
		})
	}
	if r.TotalWords > 0 {
		r.PercentFlagged = float64(r.FlaggedCount) / float64(r.TotalWords) * 100
	}
	return r
}

func contextSnippet(text string, start, end int) string {
	lo := start
	for i := 0; i < contextRunes && lo > 0; i++ {
		_, size := utf8.DecodeLastRuneInString(text[:lo])
		lo -= size
	}
	hi := end
	for i := 0; i < contextRunes && hi < len(text); i++ {
		_, size := utf8.DecodeRuneInString(text[hi:])
		hi += size
	}

	snippet := text[lo:hi]
	if lo > 0 {
		snippet = "..." + snippet
	}
	if hi < len(text) {
		snippet += "..."
	}
	return snippet
}

// ModerateBatch maps Moderate over texts, preserving order.
func (e *Engine) ModerateBatch(texts []string) []Result {
	results := make([]Result, len(texts))
	for i, t := range texts {
		results[i] = e.Moderate(t)
	}
	return results
}

// SanitizeBatch maps Sanitize over texts, preserving order.
func (e *Engine) SanitizeBatch(texts []string) []string {
	out := make([]string, len(texts))
	for i, t := range texts {
		out[i] = e.Sanitize(t)
	}
	return out
}

var sentenceSplit = regexp.MustCompile(`[.!?]+`)

// CleanSentences splits text on sentence terminators and returns only
// the sentences that moderate clean, trimmed of surrounding space.
func (e *Engine) CleanSentences(text string) []string {
	var clean []string
	for _, s := range sentenceSplit.Split(text, -1) {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if e.IsClean(s) {
			clean = append(clean, s)
		}
	}
	return clean
}
