// Package ui provides the styled terminal output shared by dorc's screens.
//
// Output is built with Lip Gloss using ANSI colors, so it degrades cleanly
// on limited terminals. SetColorMode applies the COLOR setting and
// DisableColors handles --no-color.
//
// Components:
//
//	Printer      - one-off status lines (✓ success, ✗ error, ! warning)
//	PhaseDisplay - step-by-step progress for multi-stage operations
//	Prompter     - yes/no and free-text questions backed by Huh forms
//	Page         - full-screen scrollable view for history and reports
//	RenderToolTable - doctor tool versions as a table
//
// Selection menus live in the menu package; ui only provides their colors
// and symbols.
package ui
