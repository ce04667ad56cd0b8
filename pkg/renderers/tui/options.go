package tui

import (
	"go.uber.org/zap"
)

// Theme holds the prefixes printed before informational and error lines.
type Theme struct {
	InfoPrefix  string
	ErrorPrefix string
}

// Option configures the terminal wizard.
type Option func(*Wizard)

// WithPromptDriver overrides the prompt driver.
func WithPromptDriver(driver PromptDriver) Option {
	return func(w *Wizard) {
		if driver != nil {
			w.driver = driver
		}
	}
}

// WithTheme applies message prefixes.
func WithTheme(theme Theme) Option {
	return func(w *Wizard) {
		w.theme = theme
	}
}

// WithLogger routes controller traces to logger.
func WithLogger(logger *zap.Logger) Option {
	return func(w *Wizard) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// WithBarWidth sets the progress bar width in cells.
func WithBarWidth(width int) Option {
	return func(w *Wizard) {
		if width > 0 {
			w.barWidth = width
		}
	}
}
