package moderate

import (
	"fmt"
	"strings"
)

// Severity ranks how offensive a library word is.
// The zero value means "no severity" (clean text).
type Severity int

const (
	SeverityMild Severity = iota + 1
	SeverityModerate
	SeveritySevere
	SeverityExtreme
)

var ErrUnknownSeverity = fmt.Errorf("unknown severity")

var severityNames = map[Severity]string{
	SeverityMild:     "mild",
	SeverityModerate: "moderate",
	SeveritySevere:   "severe",
	SeverityExtreme:  "extreme",
}

// Severities lists all severities in ascending rank order.
func Severities() []Severity {
	return []Severity{SeverityMild, SeverityModerate, SeveritySevere, SeverityExtreme}
}

func (s Severity) String() string {
	if name, ok := severityNames[s]; ok {
		return name
	}
	return "none"
}

// Points returns the score weight of the severity. The weights feed the
// profanity score: mild=10, moderate=25, severe=50, extreme=100.
func (s Severity) Points() float64 {
	switch s {
	case SeverityMild:
		return 10
	case SeverityModerate:
		return 25
	case SeveritySevere:
		return 50
	case SeverityExtreme:
		return 100
	}
	return 0
}

func ParseSeverity(s string) (Severity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "mild":
		return SeverityMild, nil
	case "moderate":
		return SeverityModerate, nil
	case "severe":
		return SeveritySevere, nil
	case "extreme":
		return SeverityExtreme, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownSeverity, s)
}

func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Severity) UnmarshalText(b []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(b))) {
	case "", "none":
		*s = 0
		return nil
	}
	sev, err := ParseSeverity(string(b))
	if err != nil {
		return err
	}
	*s = sev
	return nil
}

// Level selects which severities are blocked during a scan.
type Level int

const (
	LevelOff Level = iota
	LevelRelaxed
	LevelModerate
	LevelStrict
)

var ErrUnknownLevel = fmt.Errorf("unknown moderation level")

func (l Level) String() string {
	switch l {
	case LevelOff:
		return "off"
	case LevelRelaxed:
		return "relaxed"
	case LevelModerate:
		return "moderate"
	case LevelStrict:
		return "strict"
	}
	return "off"
}

// Blocks reports whether words of the given severity are filtered at
// this level. Each level blocks a superset of the levels below it:
// off blocks nothing, relaxed blocks severe and extreme, moderate adds
// moderate, strict blocks everything.
func (l Level) Blocks(s Severity) bool {
	switch l {
	case LevelRelaxed:
		return s >= SeveritySevere
	case LevelModerate:
		return s >= SeverityModerate
	case LevelStrict:
		return s >= SeverityMild
	}
	return false
}

func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "off":
		return LevelOff, nil
	case "relaxed":
		return LevelRelaxed, nil
	case "moderate":
		return LevelModerate, nil
	case "strict":
		return LevelStrict, nil
	}
	return LevelOff, fmt.Errorf("%w: %q", ErrUnknownLevel, s)
}

func (l Level) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

func (l *Level) UnmarshalText(b []byte) error {
	level, err := ParseLevel(string(b))
	if err != nil {
		return err
	}
	*l = level
	return nil
}
