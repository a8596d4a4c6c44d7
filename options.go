package drawbot

import "github.com/schriftgestalt/drawbot/text"

// Option configures a Context at construction time.
type Option func(*Context)

// WithLibrary sets the font library used to resolve font names.
// The default resolves every name to a synthetic fixed-metrics face.
func WithLibrary(lib text.Library) Option {
	return func(ctx *Context) {
		if lib != nil {
			ctx.library = lib
		}
	}
}

// WithEngine sets the shaping engine. The default is the builtin
// fixed-metrics engine; use text.NewGoTextEngine for HarfBuzz shaping.
func WithEngine(engine text.Engine) Option {
	return func(ctx *Context) {
		if engine != nil {
			ctx.engine = engine
		}
	}
}

// WithHyphenator sets the hyphenator consulted when a text style enables
// hyphenation. Without one, hyphenation is a no-op.
func WithHyphenator(h Hyphenator) Option {
	return func(ctx *Context) {
		ctx.hyphenator = h
	}
}
