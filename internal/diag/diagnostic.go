package diag

import (
	"fmt"

	"github.com/tern-lang/tern/internal/source"
)

// Stage identifies which compiler phase produced the diagnostic.
type Stage string

const (
	StageScanner  Stage = "scanner"
	StageIR       Stage = "ir"
	StageVerifier Stage = "verifier"
)

// Severity captures how impactful the diagnostic is.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityNote    Severity = "note"
)

// Code is a stable identifier for a diagnostic.
type Code string

const (
	CodeScanUnterminatedString       Code = "SCAN_UNTERMINATED_STRING"
	CodeScanUnterminatedBlockComment Code = "SCAN_UNTERMINATED_BLOCK_COMMENT"
	CodeScanIllegalRune              Code = "SCAN_ILLEGAL_RUNE"

	CodeIRNodeBlockMismatch        Code = "IR_NODE_BLOCK_MISMATCH"
	CodeIRUseBeforeDef             Code = "IR_USE_BEFORE_DEF"
	CodeIRBadLocal                 Code = "IR_BAD_LOCAL"
	CodeIRBadBlock                 Code = "IR_BAD_BLOCK"
	CodeIRBadString                Code = "IR_BAD_STRING"
	CodeIRBlockMissingTerminator   Code = "IR_BLOCK_MISSING_TERMINATOR"
	CodeIRBlockMultipleTerminators Code = "IR_BLOCK_MULTIPLE_TERMINATORS"
	CodeIRBadSuccessors            Code = "IR_BAD_SUCCESSORS"
	CodeIRBadResultType            Code = "IR_BAD_RESULT_TYPE"
	CodeIRBadFrame                 Code = "IR_BAD_FRAME"
)

// Diagnostic is a compiler diagnostic surfaced to end-users.
type Diagnostic struct {
	Stage    Stage
	Severity Severity
	Code     Code
	Message  string
	File     string
	Span     source.Span
	Notes    []string
	Help     string
}

func (d Diagnostic) String() string {
	if d.Code != "" {
		return fmt.Sprintf("%s[%s]: %s", d.Severity, d.Code, d.Message)
	}
	return fmt.Sprintf("%s: %s", d.Severity, d.Message)
}

// WithNote returns a copy of the diagnostic with an extra note attached.
func (d Diagnostic) WithNote(note string) Diagnostic {
	d.Notes = append(d.Notes[:len(d.Notes):len(d.Notes)], note)
	return d
}
