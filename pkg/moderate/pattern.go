package moderate

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// substitutions maps each base letter to the characters commonly used
// to disguise it: leet digits, look-alike symbols and homoglyphs from
// other scripts. Pure data; both cases of every letter are added when
// the class is built.
var substitutions = map[rune]string{
	'a': "4@àáâäåαа",
	'b': "8ßв",
	'c': "(¢çсć",
	'e': "3€èéêëεе",
	'g': "9ğ",
	'i': "1!|íìîïі",
	'k': "κк",
	'l': "1|£ł",
	'n': "ñń",
	'o': "0òóôöøοо",
	's': "5$§šѕ",
	't': "7+т",
	'u': "ùúûüµυ",
	'x': "×хж",
	'y': "¥уý",
	'z': "2žз",
}

// separatorExpr tolerates runs of spacing and punctuation between the
// letters of an obfuscated word ("d a m n", "d_a_m_n", "d.a.m.n").
const separatorExpr = `[\s\p{P}\p{S}]*`

// matcher recognizes one literal word plus its obfuscated renderings.
// Occurrences are only reported at token boundaries.
type matcher struct {
	word string
	re   *regexp.Regexp
}

func newMatcher(word string) (*matcher, error) {
	re, err := regexp.Compile(buildPattern(word))
	if err != nil {
		return nil, err
	}
	return &matcher{word: word, re: re}, nil
}

// buildPattern expands word into a regular expression body: one
// character class per letter, separator runs between them, and an
// optional plural suffix. Words with no letters or digits have nothing
// to obfuscate and are matched literally.
func buildPattern(word string) string {
	word = strings.ToLower(word)
	if !containsAlnum(word) {
		return regexp.QuoteMeta(word)
	}

	var classes []string
	for _, r := range word {
		switch {
		case unicode.IsLetter(r):
			classes = append(classes, charClass(r))
		case unicode.IsDigit(r):
			classes = append(classes, string(r))
		}
		// Spacing and punctuation inside the word itself (multi-word
		// phrases) is already covered by the separator runs.
	}

	var sb strings.Builder
	for i, class := range classes {
		if i > 0 {
			sb.WriteString(separatorExpr)
		}
		sb.WriteString(class)
	}
	// Tolerated plural suffix, obfuscations included.
	sb.WriteString("(?:" + charClass('s') + ")?")

	return sb.String()
}

// charClass builds the bracket expression matching a base letter in
// either case plus every configured substitution character.
func charClass(base rune) string {
	lower := unicode.ToLower(base)

	var sb strings.Builder
	sb.WriteByte('[')
	seen := make(map[rune]bool)
	add := func(r rune) {
		if seen[r] {
			return
		}
		seen[r] = true
		switch r {
		case '\\', ']', '^', '-':
			sb.WriteByte('\\')
		}
		sb.WriteRune(r)
	}

	add(lower)
	add(unicode.ToUpper(lower))
	for _, r := range substitutions[lower] {
		add(r)
		if unicode.IsLetter(r) {
			add(unicode.ToUpper(r))
		}
	}
	sb.WriteByte(']')

	return sb.String()
}

func containsAlnum(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

// find returns the byte range of the next token-boundary occurrence at
// or after from. Boundary anchoring is checked here rather than in the
// expression itself so adjacent occurrences do not consume each
// other's delimiting characters.
func (m *matcher) find(text string, from int) (start, end int, ok bool) {
	for from <= len(text) {
		loc := m.re.FindStringIndex(text[from:])
		if loc == nil || loc[0] == loc[1] {
			return 0, 0, false
		}
		start, end = from+loc[0], from+loc[1]
		if boundaryBefore(text, start) && boundaryAfter(text, end) {
			return start, end, true
		}
		_, size := utf8.DecodeRuneInString(text[start:])
		if size == 0 {
			size = 1
		}
		from = start + size
	}
	return 0, 0, false
}

func boundaryBefore(text string, pos int) bool {
	if pos == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(text[:pos])
	return !isWordRune(r)
}

func boundaryAfter(text string, pos int) bool {
	if pos == len(text) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(text[pos:])
	return !isWordRune(r)
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
