package domain

import (
	"fmt"
	"strings"
	"time"
)

// InputSource records which input path produced the description.
type InputSource string

const (
	SourceText   InputSource = "text"
	SourceVoice  InputSource = "voice"
	SourceUpload InputSource = "upload"
)

// ParseInputSource defaults an empty value to SourceText.
func ParseInputSource(raw string) (InputSource, error) {
	switch s := InputSource(strings.ToLower(strings.TrimSpace(raw))); s {
	case "":
		return SourceText, nil
	case SourceText, SourceVoice, SourceUpload:
		return s, nil
	default:
		return "", fmt.Errorf("unknown input source %q", raw)
	}
}

// Outcome says how the classifier arrived at its answer.
type Outcome string

const (
	OutcomeMatched  Outcome = "matched"  // at least one keyword hit
	OutcomeFallback Outcome = "fallback" // no keyword hit, random pick
	OutcomeEmpty    Outcome = "empty"    // nothing to identify
)

// Classification is the single winner of a classifier run.
type Classification struct {
	Species SpeciesID `json:"species,omitempty"`
	Score   int       `json:"score"`
	Outcome Outcome   `json:"outcome"`
}

// Identified reports whether a species was produced.
func (c Classification) Identified() bool {
	return c.Outcome != OutcomeEmpty
}

// Identification is one entry of the append-only identification history.
type Identification struct {
	ID        string      `json:"id"`
	Species   SpeciesID   `json:"species"`
	Outcome   Outcome     `json:"outcome"`
	Score     int         `json:"score"`
	Source    InputSource `json:"source"`
	Input     string      `json:"input"`
	CreatedAt time.Time   `json:"created_at"`
}

// QuizQuestion is a "guess the species" prompt. The answer stays server-side.
type QuizQuestion struct {
	ID        string    `json:"id"`
	Image     string    `json:"image"`
	ExpiresAt time.Time `json:"expires_at"`
}

// QuizResult is the verdict on a guess.
type QuizResult struct {
	Correct bool      `json:"correct"`
	Species SpeciesID `json:"species"`
}
