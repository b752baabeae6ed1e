package scanner

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

// tok is the shape the stream tests compare against: type plus decoded
// value.
type tok struct {
	Type  TokenType
	Value string
}

func scanAll(t *testing.T, src string) ([]tok, *Scanner) {
	t.Helper()
	s := New(src)
	var out []tok
	for _, tk := range s.Scan() {
		out = append(out, tok{tk.Type, tk.Value})
	}
	return out, s
}

func TestScan_Function(t *testing.T) {
	src := `fn add(a: int, b: int) -> int {
	return a + b;
}`
	got, s := scanAll(t, src)
	want := []tok{
		{FN, "fn"}, {IDENT, "add"}, {LPAREN, "("},
		{IDENT, "a"}, {COLON, ":"}, {IDENT, "int"}, {COMMA, ","},
		{IDENT, "b"}, {COLON, ":"}, {IDENT, "int"}, {RPAREN, ")"},
		{ARROW, "->"}, {IDENT, "int"}, {LBRACE, "{"},
		{RETURN, "return"}, {IDENT, "a"}, {PLUS, "+"}, {IDENT, "b"}, {SEMICOLON, ";"},
		{RBRACE, "}"}, {EOF, ""},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("token stream mismatch (-want +got):\n%s", diff)
	}
	if len(s.Errors) != 0 {
		t.Errorf("unexpected errors: %v", s.Errors)
	}
}

func TestScan_Operators(t *testing.T) {
	src := "= == != < <= > >= << >> & && | || ^ ~ ! + - * / %"
	got, _ := scanAll(t, src)
	want := []tok{
		{ASSIGN, "="}, {EQ, "=="}, {NOT_EQ, "!="},
		{LT, "<"}, {LE, "<="}, {GT, ">"}, {GE, ">="},
		{SHL, "<<"}, {SHR, ">>"},
		{AMP, "&"}, {AND, "&&"}, {PIPE, "|"}, {OR, "||"},
		{CARET, "^"}, {TILDE, "~"}, {BANG, "!"},
		{PLUS, "+"}, {MINUS, "-"}, {ASTERISK, "*"}, {SLASH, "/"}, {PERCENT, "%"},
		{EOF, ""},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("token stream mismatch (-want +got):\n%s", diff)
	}
}

func TestScan_Numbers(t *testing.T) {
	got, _ := scanAll(t, "0 42 1_000 0xFF 0b1010 3.14 1e9 2.5e-3")
	want := []tok{
		{INT, "0"}, {INT, "42"}, {INT, "1_000"},
		{INT, "0xFF"}, {INT, "0b1010"},
		{FLOAT, "3.14"}, {FLOAT, "1e9"}, {FLOAT, "2.5e-3"},
		{EOF, ""},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("token stream mismatch (-want +got):\n%s", diff)
	}
}

func TestScan_Keywords(t *testing.T) {
	got, _ := scanAll(t, "fn let mut if else while for return break continue struct union global true false null")
	want := []tok{
		{FN, "fn"}, {LET, "let"}, {MUT, "mut"}, {IF, "if"}, {ELSE, "else"},
		{WHILE, "while"}, {FOR, "for"}, {RETURN, "return"},
		{BREAK, "break"}, {CONTINUE, "continue"},
		{STRUCT, "struct"}, {UNION, "union"}, {GLOBAL, "global"},
		{TRUE, "true"}, {FALSE, "false"}, {NULL, "null"},
		{EOF, ""},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("token stream mismatch (-want +got):\n%s", diff)
	}
}

func TestScan_StringEscapes(t *testing.T) {
	got, _ := scanAll(t, `"a\nb\t\"q\""`)
	want := []tok{
		{STRING, "a\nb\t\"q\""},
		{EOF, ""},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("token stream mismatch (-want +got):\n%s", diff)
	}
}

func TestScan_StringRawKeepsQuotes(t *testing.T) {
	s := New(`"hi"`)
	tk := s.Next()
	if tk.Raw != `"hi"` {
		t.Errorf("Raw = %q, want %q", tk.Raw, `"hi"`)
	}
	if tk.Value != "hi" {
		t.Errorf("Value = %q, want %q", tk.Value, "hi")
	}
	if tk.Span.Start != 0 || tk.Span.End != 4 {
		t.Errorf("span = %v, want [0,4)", tk.Span)
	}
}

func TestScan_Comments(t *testing.T) {
	src := `let x; // trailing
/* block
   spanning lines */ let y;
/* nested /* inner */ outer */ let z;`
	got, s := scanAll(t, src)
	want := []tok{
		{LET, "let"}, {IDENT, "x"}, {SEMICOLON, ";"},
		{LET, "let"}, {IDENT, "y"}, {SEMICOLON, ";"},
		{LET, "let"}, {IDENT, "z"}, {SEMICOLON, ";"},
		{EOF, ""},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("token stream mismatch (-want +got):\n%s", diff)
	}
	if len(s.Errors) != 0 {
		t.Errorf("unexpected errors: %v", s.Errors)
	}
}

func TestScan_UnterminatedString(t *testing.T) {
	_, s := scanAll(t, `"open`)
	if len(s.Errors) != 1 {
		t.Fatalf("errors = %d, want 1", len(s.Errors))
	}
	if s.Errors[0].Kind != ErrUnterminatedString {
		t.Errorf("kind = %v, want ErrUnterminatedString", s.Errors[0].Kind)
	}
}

func TestScan_NewlineInString(t *testing.T) {
	_, s := scanAll(t, "\"ab\ncd\"")
	if len(s.Errors) == 0 {
		t.Fatal("expected an error for newline in string")
	}
	if s.Errors[0].Kind != ErrUnterminatedString {
		t.Errorf("kind = %v, want ErrUnterminatedString", s.Errors[0].Kind)
	}
}

func TestScan_UnterminatedBlockComment(t *testing.T) {
	_, s := scanAll(t, "/* never closed")
	if len(s.Errors) != 1 {
		t.Fatalf("errors = %d, want 1", len(s.Errors))
	}
	if s.Errors[0].Kind != ErrUnterminatedBlockComment {
		t.Errorf("kind = %v, want ErrUnterminatedBlockComment", s.Errors[0].Kind)
	}
}

func TestScan_IllegalRune(t *testing.T) {
	got, s := scanAll(t, "let @ x")
	want := []tok{
		{LET, "let"}, {ILLEGAL, "@"}, {IDENT, "x"}, {EOF, ""},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("token stream mismatch (-want +got):\n%s", diff)
	}
	if len(s.Errors) != 1 || s.Errors[0].Kind != ErrIllegalRune {
		t.Errorf("errors = %v, want one ErrIllegalRune", s.Errors)
	}
}

func TestScan_SpanOffsets(t *testing.T) {
	s := New("let abc = 42;")
	spans := []struct {
		typ        TokenType
		start, end int
	}{
		{LET, 0, 3},
		{IDENT, 4, 7},
		{ASSIGN, 8, 9},
		{INT, 10, 12},
		{SEMICOLON, 12, 13},
		{EOF, 13, 13},
	}
	for _, want := range spans {
		tk := s.Next()
		if tk.Type != want.typ || tk.Span.Start != want.start || tk.Span.End != want.end {
			t.Errorf("token %s span [%d,%d), want %s [%d,%d)",
				tk.Type, tk.Span.Start, tk.Span.End, want.typ, want.start, want.end)
		}
	}
}

func TestScan_ErrorToDiagnostic(t *testing.T) {
	_, s := scanAll(t, `"open`)
	d := s.Errors[0].ToDiagnostic("main.tern")
	if d.File != "main.tern" {
		t.Errorf("file = %q, want main.tern", d.File)
	}
	if d.Code != "SCAN_UNTERMINATED_STRING" {
		t.Errorf("code = %q, want SCAN_UNTERMINATED_STRING", d.Code)
	}
	if d.Stage != "scanner" || d.Severity != "error" {
		t.Errorf("stage/severity = %s/%s", d.Stage, d.Severity)
	}
}

func TestScan_EmptyInput(t *testing.T) {
	got, s := scanAll(t, "")
	want := []tok{{EOF, ""}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("token stream mismatch (-want +got):\n%s", diff)
	}
	if len(s.Errors) != 0 {
		t.Errorf("unexpected errors: %v", s.Errors)
	}
}
