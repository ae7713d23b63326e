package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// SourceSnippet is a range of lines from a schema file, shown under an
// error header.
type SourceSnippet struct {
	File      string
	StartLine int
	Lines     []string
	highlight int // line whose content is underlined, 0 for none
}

// NewSourceSnippet reads targetLine and the requested context lines
// around it from file.
func NewSourceSnippet(file string, targetLine, contextBefore, contextAfter int) (*SourceSnippet, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	startLine := max(targetLine-contextBefore, 1)
	endLine := targetLine + contextAfter

	var lines []string
	scanner := bufio.NewScanner(f)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		if lineNum > endLine {
			break
		}
		if lineNum >= startLine {
			lines = append(lines, scanner.Text())
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return &SourceSnippet{File: file, StartLine: startLine, Lines: lines}, nil
}

// HighlightLine underlines the content of line when it is rendered.
func (s *SourceSnippet) HighlightLine(line int) {
	s.highlight = line
}

// Render renders the snippet with a line-number gutter.
func (s *SourceSnippet) Render() string {
	if len(s.Lines) == 0 {
		return ""
	}
	var b strings.Builder
	width := len(fmt.Sprint(s.StartLine + len(s.Lines) - 1))

	for i, line := range s.Lines {
		lineNum := s.StartLine + i
		b.WriteString(LineNum(fmt.Sprintf("%*d", width, lineNum)))
		b.WriteString(" ")
		b.WriteString(Pipe())
		b.WriteString(" ")
		b.WriteString(line)
		b.WriteString("\n")

		if lineNum == s.highlight {
			if underline := underlineContent(line); underline != "" {
				b.WriteString(strings.Repeat(" ", width+1))
				b.WriteString(Pipe())
				b.WriteString(" ")
				b.WriteString(underline)
				b.WriteString("\n")
			}
		}
	}
	return b.String()
}

// underlineContent places carets under the non-blank part of line, leaving
// a YAML sequence dash uncovered.
func underlineContent(line string) string {
	trimmed := strings.TrimRight(line, " \t")
	start := len(trimmed) - len(strings.TrimLeft(trimmed, " \t"))
	if strings.HasPrefix(trimmed[start:], "- ") {
		start += 2
	}
	if start >= len(trimmed) {
		return ""
	}
	return strings.Repeat(" ", start) + Pointer(strings.Repeat("^", len(trimmed)-start))
}
