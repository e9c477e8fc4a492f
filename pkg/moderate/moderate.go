// Package moderate implements an obfuscation-aware profanity detection
// and sanitization engine. A configurable word library maps canonical
// words to a severity rank, replacement alternatives and spelling
// variants; scanning recognizes words through common evasion tricks
// (leet substitutions, inserted spacing and punctuation, homoglyphs)
// while only firing at token boundaries, so "classic" never flags
// "ass".
//
// The engine is purely request/response: moderating text never mutates
// the library, and all operations are total functions returning
// neutral values for empty input. Instances are not synchronized;
// callers mutating the library concurrently with reads must lock
// externally.
package moderate

// Engine scans text against its word library at a configured
// moderation level and derives sanitized, highlighted and scored views
// of the input.
type Engine struct {
	level   Level
	censor  string
	library *Library

	// compiled matcher cache, reset on any library mutation
	matchers map[string]*matcher
}

type Option func(*Engine)

func WithLevel(level Level) Option {
	return func(e *Engine) { e.level = level }
}

// WithCensorChar sets the string repeated per censored character.
func WithCensorChar(censor string) Option {
	return func(e *Engine) {
		if censor != "" {
			e.censor = censor
		}
	}
}

// WithLibrary replaces the default seed library.
func WithLibrary(lib *Library) Option {
	return func(e *Engine) {
		if lib != nil {
			e.library = lib
		}
	}
}

// New returns an engine with the built-in word library, moderation
// level "moderate" and censor string "*" unless overridden by options.
func New(opts ...Option) *Engine {
	e := &Engine{
		level:    LevelModerate,
		censor:   "*",
		matchers: make(map[string]*matcher),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.library == nil {
		e.library = DefaultLibrary()
	}
	return e
}

func (e *Engine) Level() Level {
	return e.level
}

func (e *Engine) SetLevel(level Level) {
	e.level = level
}

func (e *Engine) CensorChar() string {
	return e.censor
}

func (e *Engine) SetCensorChar(censor string) {
	if censor == "" {
		censor = "*"
	}
	e.censor = censor
}

// AddWord inserts or overwrites a library entry and invalidates the
// compiled matcher cache.
func (e *Engine) AddWord(word string, severity Severity, alternatives, variants []string) {
	e.library.Add(word, severity, alternatives, variants)
	e.invalidate()
}

// RemoveWord deletes a library entry, reporting whether it existed.
func (e *Engine) RemoveWord(word string) bool {
	ok := e.library.Remove(word)
	if ok {
		e.invalidate()
	}
	return ok
}

// ClearWords empties the library, including the default seed set.
func (e *Engine) ClearWords() {
	e.library.Clear()
	e.invalidate()
}

// ImportEntries merges entries into the library; existing words are
// overwritten, nothing is removed.
func (e *Engine) ImportEntries(entries []Entry) {
	e.library.Import(entries)
	e.invalidate()
}

// ExportEntries returns all library entries sorted by word.
func (e *Engine) ExportEntries() []Entry {
	return e.library.Export()
}

func (e *Engine) HasWord(word string) bool {
	return e.library.Has(word)
}

// WordInfo looks up a library entry case-insensitively.
func (e *Engine) WordInfo(word string) (Entry, bool) {
	return e.library.Get(word)
}

func (e *Engine) WordsBySeverity(severity Severity) []Entry {
	return e.library.BySeverity(severity)
}

// Suggestions returns the configured replacement words for word.
func (e *Engine) Suggestions(word string) []string {
	return e.library.Suggestions(word)
}

func (e *Engine) WordCount() int {
	return e.library.Len()
}

// Moderate scans text at the current level and composes the full
// result: clean flag, found words, maximum severity, sanitized text
// and the match list in ascending position order.
func (e *Engine) Moderate(text string) Result {
	return e.compose(text, e.scan(text, e.level))
}

// IsClean reports whether text contains no blocked words at the
// current level.
func (e *Engine) IsClean(text string) bool {
	return len(e.scan(text, e.level)) == 0
}

// Sanitize returns text with every blocked word censored.
func (e *Engine) Sanitize(text string) string {
	matches := e.scan(text, e.level)
	if len(matches) == 0 {
		return text
	}
	return censorMatches(text, matches, e.censor)
}

func (e *Engine) invalidate() {
	e.matchers = make(map[string]*matcher)
}
