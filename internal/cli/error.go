package cli

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/hlop3z/sqlzod/internal/alerr"
	"github.com/hlop3z/sqlzod/pkg/z"
)

// locationKeys are context keys rendered in the header rather than as details.
var locationKeys = map[string]bool{
	"file": true, "line": true, "notes": true, "helps": true,
}

// FormatError formats an error for CLI display in rustc style:
//
//	error[E2001]: unknown refinement key "emial"
//	  --> schema/users.yaml:12
//	   |
//	12 |   - name: email
//	   |     ^^^^^^^^^^^
//	   |
//	   | entity: public.users
//	help: did you mean 'email'?
//
// Errors that carry no code are printed as "error: message".
func FormatError(err error) string {
	if err == nil {
		return ""
	}
	var ae *alerr.Error
	if errors.As(err, &ae) {
		return formatCodedError(ae)
	}
	return Error("error") + ": " + err.Error() + "\n"
}

func formatCodedError(err *alerr.Error) string {
	var b strings.Builder
	ctx := err.GetContext()

	b.WriteString(Error("error"))
	b.WriteString("[")
	b.WriteString(Code(string(err.GetCode())))
	b.WriteString("]: ")
	b.WriteString(err.GetMessage())
	b.WriteString("\n")

	file, _ := ctx["file"].(string)
	line, _ := ctx["line"].(int)
	if file != "" {
		b.WriteString("  ")
		b.WriteString(paint(stylePipe, "-->"))
		b.WriteString(" ")
		loc := file
		if line > 0 {
			loc = fmt.Sprintf("%s:%d", file, line)
		}
		b.WriteString(FilePath(loc))
		b.WriteString("\n")
	}

	gutter := "   "
	if file != "" && line > 0 {
		if snippet, serr := NewSourceSnippet(file, line, 0, 0); serr == nil && len(snippet.Lines) > 0 {
			snippet.HighlightLine(line)
			gutter = strings.Repeat(" ", len(fmt.Sprint(line))+1)
			b.WriteString(gutter)
			b.WriteString(Pipe())
			b.WriteString("\n")
			b.WriteString(snippet.Render())
		}
	}

	if details := contextDetails(ctx); len(details) > 0 {
		b.WriteString(gutter)
		b.WriteString(Pipe())
		b.WriteString("\n")
		for _, detail := range details {
			b.WriteString(gutter)
			b.WriteString(Pipe())
			b.WriteString(" ")
			b.WriteString(detail)
			b.WriteString("\n")
		}
	}

	for _, note := range err.Notes() {
		b.WriteString(gutter)
		b.WriteString(Pipe())
		b.WriteString("\n")
		b.WriteString(Note("note"))
		b.WriteString(": ")
		b.WriteString(note)
		b.WriteString("\n")
	}
	for _, help := range err.Helps() {
		b.WriteString(Help("help"))
		b.WriteString(": ")
		b.WriteString(help)
		b.WriteString("\n")
	}

	if cause := err.GetCause(); cause != nil {
		b.WriteString(gutter)
		b.WriteString(Pipe())
		b.WriteString("\n")
		b.WriteString(Note("cause"))
		b.WriteString(": ")
		b.WriteString(cause.Error())
		b.WriteString("\n")
	}
	return b.String()
}

// contextDetails renders the remaining context as sorted "key: value" lines.
func contextDetails(ctx map[string]any) []string {
	keys := make([]string, 0, len(ctx))
	for k := range ctx {
		if !locationKeys[k] {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	details := make([]string, 0, len(keys))
	for _, k := range keys {
		var v string
		switch val := ctx[k].(type) {
		case []string:
			v = strings.Join(val, ".")
		default:
			v = fmt.Sprint(val)
		}
		if k == "entity" {
			v = Entity(v)
		}
		details = append(details, fmt.Sprintf("%s: %s", k, v))
	}
	return details
}

// FormatIssues formats validation issues, one per line:
//
//	invalid: age: number must be less than or equal to 130 (too_big)
func FormatIssues(issues []z.Issue) string {
	var b strings.Builder
	for _, is := range issues {
		b.WriteString(Error("invalid"))
		b.WriteString(": ")
		b.WriteString(is.PathString())
		b.WriteString(": ")
		b.WriteString(is.Message)
		b.WriteString(" ")
		b.WriteString(Dim("(" + is.Code + ")"))
		b.WriteString("\n")
	}
	return b.String()
}

// FormatWarning formats a warning message.
func FormatWarning(msg string) string {
	return Warning("warning") + ": " + msg + "\n"
}

// FormatNote formats a note message.
func FormatNote(msg string) string {
	return Note("note") + ": " + msg + "\n"
}

// FormatHelp formats a help message.
func FormatHelp(msg string) string {
	return Help("help") + ": " + msg + "\n"
}

// FormatSuccess formats a success message.
func FormatSuccess(msg string) string {
	return Success("success") + ": " + msg + "\n"
}
