package source

import (
	"fmt"
	"sort"
	"strings"
)

// Span is a half-open [Start, End) byte range into a source file.
type Span struct {
	Start int
	End   int
}

// IsValid reports whether the span denotes a real source range.
func (s Span) IsValid() bool {
	return s.Start >= 0 && s.End >= s.Start && (s.Start != 0 || s.End != 0)
}

func (s Span) String() string {
	return fmt.Sprintf("[%d,%d)", s.Start, s.End)
}

// File is a single source file with a line-offset table for resolving
// byte offsets to 1-based line/column positions.
type File struct {
	Name    string
	Content string

	lineStarts []int // byte offset of the first byte of each line
}

// NewFile builds a file and its line table.
func NewFile(name, content string) *File {
	f := &File{Name: name, Content: content}
	f.lineStarts = append(f.lineStarts, 0)
	for i := 0; i < len(content); i++ {
		if content[i] == '\n' {
			f.lineStarts = append(f.lineStarts, i+1)
		}
	}
	return f
}

// Position resolves a byte offset to a 1-based line and column.
// Offsets past the end of the file clamp to the final line.
func (f *File) Position(offset int) (line, col int) {
	if offset < 0 {
		offset = 0
	}
	if offset > len(f.Content) {
		offset = len(f.Content)
	}
	// First line whose start is beyond the offset; the offset's line is
	// the one before it.
	i := sort.Search(len(f.lineStarts), func(i int) bool {
		return f.lineStarts[i] > offset
	})
	line = i
	col = offset - f.lineStarts[line-1] + 1
	return line, col
}

// NumLines returns the number of lines in the file. The empty file has
// one (empty) line.
func (f *File) NumLines() int {
	return len(f.lineStarts)
}

// Line returns the text of the 1-based line n without its terminator.
func (f *File) Line(n int) string {
	if n < 1 || n > len(f.lineStarts) {
		return ""
	}
	start := f.lineStarts[n-1]
	end := len(f.Content)
	if n < len(f.lineStarts) {
		end = f.lineStarts[n] - 1
	}
	return strings.TrimSuffix(f.Content[start:end], "\r")
}

// Span builds a span over [start, end).
func (f *File) Span(start, end int) Span {
	return Span{Start: start, End: end}
}
