package drawbot

import "errors"

// Sentinel errors for the drawing engine. Operations wrap these with
// fmt.Errorf("%w: ...") so callers can match with errors.Is.
var (
	// ErrDrawingState is returned when an operation requires a path or
	// page that was never started (lineTo before moveTo, newPage without
	// dimensions).
	ErrDrawingState = errors.New("drawbot: invalid drawing state")

	// ErrInvalidParameter is returned when an enumerated-option argument
	// (line join, line cap, alignment) is outside the recognized set.
	ErrInvalidParameter = errors.New("drawbot: invalid parameter")

	// ErrInvalidColor is returned for malformed color construction input.
	ErrInvalidColor = errors.New("drawbot: invalid color")

	// ErrInvalidGradient is returned for malformed gradient construction
	// arguments.
	ErrInvalidGradient = errors.New("drawbot: invalid gradient")

	// ErrInvalidFont is returned when an explicitly set fallback font
	// cannot itself be resolved.
	ErrInvalidFont = errors.New("drawbot: invalid font")

	// ErrUnbalancedState is returned by Restore without a matching Save.
	ErrUnbalancedState = errors.New("drawbot: restore without matching save")

	// ErrNoPage is returned when saving or printing is requested before a
	// page has been started.
	ErrNoPage = errors.New("drawbot: no page started")
)
