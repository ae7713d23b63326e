package cli

import "github.com/charmbracelet/lipgloss"

// Color scheme follows rustc diagnostics, using ANSI 256 colors.
var (
	styleError   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	styleWarning = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	styleNote    = lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true)
	styleHelp    = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	styleSuccess = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	styleCode    = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)

	styleLineNum  = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	stylePipe     = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	stylePointer  = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	styleFilePath = lipgloss.NewStyle().Bold(true)

	styleProgress = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	styleHeader   = lipgloss.NewStyle().Bold(true)
	styleDim      = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	styleEntity   = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
)

// paint renders s with style when colors are enabled.
func paint(style lipgloss.Style, s string) string {
	if !EnableColors() {
		return s
	}
	return style.Render(s)
}

// Error returns text styled as an error label.
func Error(s string) string { return paint(styleError, s) }

// Warning returns text styled as a warning label.
func Warning(s string) string { return paint(styleWarning, s) }

// Note returns text styled as a note label.
func Note(s string) string { return paint(styleNote, s) }

// Help returns text styled as a help label.
func Help(s string) string { return paint(styleHelp, s) }

// Success returns text styled as a success label.
func Success(s string) string { return paint(styleSuccess, s) }

// Code returns an error code such as E2001 styled for display.
func Code(s string) string { return paint(styleCode, s) }

// LineNum returns a styled source line number.
func LineNum(s string) string { return paint(styleLineNum, s) }

// Pipe returns the gutter character.
func Pipe() string { return paint(stylePipe, "|") }

// Pointer returns styled carets under a source span.
func Pointer(s string) string { return paint(stylePointer, s) }

// FilePath returns a styled file location.
func FilePath(s string) string { return paint(styleFilePath, s) }

// Header returns a styled table header cell.
func Header(s string) string { return paint(styleHeader, s) }

// Dim returns de-emphasized text.
func Dim(s string) string { return paint(styleDim, s) }

// Entity returns a styled table, view or enum name.
func Entity(s string) string { return paint(styleEntity, s) }
