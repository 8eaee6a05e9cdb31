package domain

import "errors"

var (
	// ErrUnknownSpecies means an identifier outside the closed species set was used.
	// The classifier never produces one, so seeing it is a data or programming error.
	ErrUnknownSpecies = errors.New("unknown species")

	// ErrMonthNotFound means the month is valid but absent from that species' timeline.
	ErrMonthNotFound = errors.New("month not found")

	// ErrInvalidMonth means the label is not one of the twelve month abbreviations.
	ErrInvalidMonth = errors.New("invalid month")

	// ErrQuizNotFound means the quiz question expired or was already answered.
	ErrQuizNotFound = errors.New("quiz question not found")

	// ErrIdentificationNotFound is returned by history stores for unknown IDs.
	ErrIdentificationNotFound = errors.New("identification not found")
)
