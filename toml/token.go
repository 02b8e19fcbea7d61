package toml

import "fmt"

// TokenKind classifies a lexeme
type TokenKind uint8

const (
	KindError TokenKind = iota
	KindEOF
	KindNewline
	KindComment

	KindKey    // bare key
	KindString // "basic string"
	KindInt
	KindFloat
	KindBool

	KindEqual // =
	KindOpen  // [
	KindClose // ]
)

var kindNames = [...]string{
	KindError:   "error",
	KindEOF:     "end of input",
	KindNewline: "newline",
	KindComment: "comment",
	KindKey:     "key",
	KindString:  "string",
	KindInt:     "integer",
	KindFloat:   "float",
	KindBool:    "bool",
	KindEqual:   "'='",
	KindOpen:    "'['",
	KindClose:   "']'",
}

func (k TokenKind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("TokenKind(%d)", k)
}

// Token is one lexeme with the line it started on
type Token struct {
	Kind TokenKind
	Text string
	Line int
}

// String describes the token for error messages, clipping long text
func (t Token) String() string {
	switch t.Kind {
	case KindEOF, KindNewline, KindEqual, KindOpen, KindClose:
		return t.Kind.String()
	}
	text := t.Text
	if len(text) > 20 {
		text = text[:20] + "..."
	}
	return fmt.Sprintf("%s %q", t.Kind, text)
}

// ParseError reports malformed input with its line
type ParseError struct {
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("toml line %d: %s", e.Line, e.Msg)
}
