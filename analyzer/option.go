package analyzer

import (
	"log/slog"
	"regexp"
)

type Option func(*Analyzer)

// WithShadowing sets the reference attribution policy
func WithShadowing(shadowing Shadowing) Option {
	return func(a *Analyzer) {
		a.shadowing = shadowing
	}
}

// WithKeep exempts declarations whose name matches any of the expressions
func WithKeep(expressions ...*regexp.Regexp) Option {
	return func(a *Analyzer) {
		a.keep = append(a.keep, expressions...)
	}
}

// WithLogger sets the logger used for debug tracing of scopes
func WithLogger(logger *slog.Logger) Option {
	return func(a *Analyzer) {
		a.logger = logger
	}
}
