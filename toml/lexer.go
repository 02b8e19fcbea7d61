package toml

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Lexer splits a settings document into tokens
type Lexer struct {
	input []byte
	off   int
	line  int
}

func NewLexer(input []byte) *Lexer {
	return &Lexer{input: input, line: 1}
}

// NextToken returns the next token in the stream
func (l *Lexer) NextToken() Token {
	l.skipBlanks()

	if l.off >= len(l.input) {
		return l.newToken(KindEOF, "")
	}

	ch := l.look()
	switch ch {
	case '\n':
		tok := l.newToken(KindNewline, "\n")
		l.read()
		return tok
	case '#':
		return l.readComment()
	case '=':
		l.read()
		return l.newToken(KindEqual, "=")
	case '[':
		l.read()
		return l.newToken(KindOpen, "[")
	case ']':
		l.read()
		return l.newToken(KindClose, "]")
	case '"':
		return l.readString()
	}

	if isDigit(ch) || isAlpha(ch) || ch == '_' || ch == '-' || ch == '+' {
		return l.readBare()
	}

	l.read()
	return l.newToken(KindError, fmt.Sprintf("unexpected character: %c", ch))
}

func (l *Lexer) newToken(kind TokenKind, text string) Token {
	return Token{Kind: kind, Text: text, Line: l.line}
}

func (l *Lexer) read() rune {
	if l.off >= len(l.input) {
		return 0
	}
	r, w := utf8.DecodeRune(l.input[l.off:])
	l.off += w
	if r == '\n' {
		l.line++
	}
	return r
}

func (l *Lexer) look() rune {
	if l.off >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRune(l.input[l.off:])
	return r
}

func (l *Lexer) skipBlanks() {
	for l.off < len(l.input) {
		ch := l.look()
		if ch != ' ' && ch != '\t' && ch != '\r' {
			return
		}
		l.read()
	}
}

func (l *Lexer) readComment() Token {
	l.read() // '#'
	start := l.off
	for l.off < len(l.input) && l.look() != '\n' {
		l.read()
	}
	return l.newToken(KindComment, string(l.input[start:l.off]))
}

func (l *Lexer) readString() Token {
	l.read() // opening quote
	var sb strings.Builder
	for l.off < len(l.input) {
		if l.look() == '\n' {
			return l.newToken(KindError, "newline in basic string")
		}
		ch := l.read()
		switch ch {
		case '"':
			return l.newToken(KindString, sb.String())
		case '\\':
			esc := l.read()
			switch esc {
			case '"', '\\':
				sb.WriteRune(esc)
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case 'r':
				sb.WriteByte('\r')
			default:
				return l.newToken(KindError, fmt.Sprintf("unsupported escape \\%c", esc))
			}
		default:
			sb.WriteRune(ch)
		}
	}
	return l.newToken(KindError, "unterminated string")
}

// readBare reads a bare key, number or boolean and classifies it
func (l *Lexer) readBare() Token {
	start := l.off
	for l.off < len(l.input) {
		ch := l.look()
		if isAlpha(ch) || isDigit(ch) || ch == '_' || ch == '-' || ch == '+' || ch == '.' {
			l.read()
			continue
		}
		break
	}
	lit := string(l.input[start:l.off])

	if lit == "true" || lit == "false" {
		return l.newToken(KindBool, lit)
	}
	if looksNumeric(lit) {
		if strings.ContainsAny(lit, ".eE") {
			return l.newToken(KindFloat, lit)
		}
		return l.newToken(KindInt, lit)
	}
	if strings.Contains(lit, ".") {
		return l.newToken(KindError, fmt.Sprintf("dotted key %q not supported", lit))
	}
	return l.newToken(KindKey, lit)
}

// looksNumeric reports a literal starting with a digit, or a sign then a digit
func looksNumeric(lit string) bool {
	s := strings.TrimLeft(lit, "+-")
	if len(s) == 0 || len(lit)-len(s) > 1 {
		return false
	}
	return isDigit(rune(s[0]))
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isAlpha(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}
