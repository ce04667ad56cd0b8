// Package tui runs the wizard in a terminal. Wizard prompts each step through
// a PromptDriver (survey by default) and submits through a
// submission.Handler; TextRenderer prints a static plain-text page.
package tui
