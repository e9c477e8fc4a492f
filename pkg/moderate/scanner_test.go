package moderate

import "testing"

func TestEngine_scanLevelGating(t *testing.T) {
	e := New()

	// "shit" is moderate severity in the default library.
	tests := []struct {
		level Level
		want  int
	}{
		{LevelOff, 0},
		{LevelRelaxed, 0},
		{LevelModerate, 1},
		{LevelStrict, 1},
	}
	for _, tt := range tests {
		t.Run(tt.level.String(), func(t *testing.T) {
			if got := len(e.scan("shit", tt.level)); got != tt.want {
				t.Errorf("scan at %v found %d matches; want %d", tt.level, got, tt.want)
			}
		})
	}
}

func TestEngine_scanMonotonicity(t *testing.T) {
	e := New()
	text := "damn shit fuck and worse: cunt"

	levels := []Level{LevelOff, LevelRelaxed, LevelModerate, LevelStrict}
	prev := -1
	prevWords := map[string]bool{}
	for _, level := range levels {
		matches := e.scan(text, level)
		if len(matches) < prev {
			t.Errorf("match count dropped from %d to %d at %v", prev, len(matches), level)
		}
		words := map[string]bool{}
		for _, m := range matches {
			words[m.Word] = true
		}
		for w := range prevWords {
			if !words[w] {
				t.Errorf("word %q found at lower level but not at %v", w, level)
			}
		}
		prev = len(matches)
		prevWords = words
	}

	if got := len(e.scan(text, LevelOff)); got != 0 {
		t.Errorf("scan at off found %d matches; want 0", got)
	}
	if got := len(e.scan(text, LevelStrict)); got != 4 {
		t.Errorf("scan at strict found %d matches; want 4", got)
	}
}

func TestEngine_scanLongestWordWins(t *testing.T) {
	e := New(WithLibrary(NewLibrary()))
	e.AddWord("ass", SeverityModerate, nil, nil)
	e.AddWord("asshole", SeveritySevere, nil, nil)

	// Spaced out, both candidates can explain the leading span; the
	// longer word is tried first and consumes it.
	matches := e.scan("a s s h o l e", LevelStrict)
	if len(matches) != 1 {
		t.Fatalf("got %d matches %v; want 1", len(matches), matches)
	}
	if matches[0].Canonical != "asshole" {
		t.Errorf("winning word = %q; want %q", matches[0].Canonical, "asshole")
	}
	if matches[0].Severity != SeveritySevere {
		t.Errorf("severity = %v; want %v", matches[0].Severity, SeveritySevere)
	}
}

func TestEngine_scanVariants(t *testing.T) {
	e := New(WithLevel(LevelStrict))

	matches := e.scan("total bullshit", LevelStrict)
	if len(matches) != 1 {
		t.Fatalf("got %d matches %v; want 1", len(matches), matches)
	}
	if matches[0].Word != "bullshit" {
		t.Errorf("matched %q; want variant %q", matches[0].Word, "bullshit")
	}
	if matches[0].Canonical != "shit" {
		t.Errorf("canonical = %q; want %q", matches[0].Canonical, "shit")
	}
}

func TestEngine_scanNoOverlap(t *testing.T) {
	e := New(WithLevel(LevelStrict))

	texts := []string{
		"shit shit shit",
		"damn asshole, what a fucking bastard",
		"a s s h o l e and ass",
		"sh!t mixed with $hit and bull shit",
	}
	for _, text := range texts {
		matches := e.scan(text, LevelStrict)
		for i := range matches {
			for j := i + 1; j < len(matches); j++ {
				a, b := matches[i], matches[j]
				if a.Position < b.end() && b.Position < a.end() {
					t.Errorf("overlapping matches in %q: %+v and %+v", text, a, b)
				}
			}
		}
		for i := 1; i < len(matches); i++ {
			if matches[i].Position < matches[i-1].Position {
				t.Errorf("matches out of order in %q: %v", text, matches)
			}
		}
	}
}

func TestEngine_scanShortCircuits(t *testing.T) {
	e := New()

	if got := e.scan("shit", LevelOff); got != nil {
		t.Errorf("scan at off = %v; want nil", got)
	}
	if got := e.scan("", LevelStrict); got != nil {
		t.Errorf("scan of empty text = %v; want nil", got)
	}
	if got := e.scan("   ", LevelStrict); got != nil {
		t.Errorf("scan of blank text = %v; want nil", got)
	}

	e.ClearWords()
	if got := e.scan("shit", LevelStrict); got != nil {
		t.Errorf("scan with empty library = %v; want nil", got)
	}
}
