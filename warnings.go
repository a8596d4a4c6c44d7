package drawbot

import "fmt"

// Warning kinds reported during drawing. Warnings never abort execution;
// they are collected on the Context (or FormattedString) that produced them
// and logged at Warn level.
const (
	WarningFontSubstitution = "font-substitution"
	WarningUnknownGlyph     = "unknown-glyph"
	WarningUnknownFeature   = "unknown-feature"
)

// Warning is a non-fatal diagnostic raised while building or drawing.
// Each script run accumulates its own list; nothing is stored globally.
type Warning struct {
	Kind    string
	Message string
}

func (w Warning) String() string {
	return w.Kind + ": " + w.Message
}

// fontSubstitutionWarning reports that requested could not be resolved and
// used was substituted in its place.
func fontSubstitutionWarning(requested, used string) Warning {
	return Warning{
		Kind:    WarningFontSubstitution,
		Message: fmt.Sprintf("font %q is not available, falling back to %q", requested, used),
	}
}

func unknownGlyphWarning(font, glyphName string) Warning {
	return Warning{
		Kind:    WarningUnknownGlyph,
		Message: fmt.Sprintf("font %q has no glyph named %q", font, glyphName),
	}
}

func unknownFeatureWarning(tag string) Warning {
	return Warning{
		Kind:    WarningUnknownFeature,
		Message: fmt.Sprintf("unknown OpenType feature tag %q", tag),
	}
}
