package diag

import (
	"fmt"
	"io"
	"strings"

	"github.com/tern-lang/tern/internal/source"
)

// Formatter renders diagnostics with the offending source line and a
// caret underline.
type Formatter struct {
	out   io.Writer
	files map[string]*source.File
}

// NewFormatter creates a formatter writing to out.
func NewFormatter(out io.Writer) *Formatter {
	return &Formatter{
		out:   out,
		files: make(map[string]*source.File),
	}
}

// AddFile registers a source file so its diagnostics can show snippets.
func (f *Formatter) AddFile(file *source.File) {
	f.files[file.Name] = file
}

// Format renders a single diagnostic.
func (f *Formatter) Format(d Diagnostic) {
	f.printHeader(d)

	file := f.files[d.File]
	if file != nil && d.Span.IsValid() {
		f.printSnippet(file, d.Span)
	} else if d.File != "" {
		fmt.Fprintf(f.out, "  --> %s\n", d.File)
	}

	for _, note := range d.Notes {
		fmt.Fprintf(f.out, "  = note: %s\n", note)
	}
	if d.Help != "" {
		fmt.Fprintf(f.out, "help: %s\n", d.Help)
	}
}

func (f *Formatter) printHeader(d Diagnostic) {
	severity := string(d.Severity)
	if severity == "" {
		severity = string(SeverityError)
	}
	if d.Code != "" {
		fmt.Fprintf(f.out, "%s[%s]: %s\n", severity, d.Code, d.Message)
	} else {
		fmt.Fprintf(f.out, "%s: %s\n", severity, d.Message)
	}
}

func (f *Formatter) printSnippet(file *source.File, span source.Span) {
	line, col := file.Position(span.Start)
	content := file.Line(line)

	lineNum := fmt.Sprintf("%d", line)
	pad := strings.Repeat(" ", len(lineNum))

	fmt.Fprintf(f.out, "  --> %s:%d:%d\n", file.Name, line, col)
	fmt.Fprintf(f.out, " %s |\n", pad)
	fmt.Fprintf(f.out, " %s | %s\n", lineNum, content)

	// Underline the span, clamped to the line it starts on.
	width := span.End - span.Start
	if width < 1 {
		width = 1
	}
	if col-1+width > len(content) {
		width = len(content) - (col - 1)
		if width < 1 {
			width = 1
		}
	}
	fmt.Fprintf(f.out, " %s | %s%s\n", pad, strings.Repeat(" ", col-1), strings.Repeat("^", width))
}
