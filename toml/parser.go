package toml

import (
	"fmt"
	"strconv"
	"strings"
)

// Parser builds a document of one root table plus named single-level tables
// Values are string, int64, float64 or bool
type Parser struct {
	lexer   *Lexer
	cur     Token
	next    Token
	root    map[string]any
	current map[string]any
}

func NewParser(input []byte) *Parser {
	p := &Parser{
		lexer: NewLexer(input),
		root:  make(map[string]any),
	}
	p.nextToken()
	p.nextToken()
	p.current = p.root
	return p
}

func (p *Parser) nextToken() {
	p.cur = p.next
	p.next = p.lexer.NextToken()

	// Comments are dropped
	for p.next.Kind == KindComment {
		p.next = p.lexer.NextToken()
	}
}

func (p *Parser) fail(format string, args ...any) error {
	return &ParseError{Line: p.cur.Line, Msg: fmt.Sprintf(format, args...)}
}

// Parse consumes the whole input
func (p *Parser) Parse() (map[string]any, error) {
	for p.cur.Kind != KindEOF {
		if p.cur.Kind == KindNewline {
			p.nextToken()
			continue
		}
		if err := p.parseStatement(); err != nil {
			return nil, err
		}
	}
	return p.root, nil
}

func (p *Parser) parseStatement() error {
	var err error
	switch p.cur.Kind {
	case KindOpen:
		err = p.parseTableHeader()
	case KindKey, KindString:
		err = p.parseKeyValue()
	case KindError:
		return p.fail("%s", p.cur.Text)
	default:
		return p.fail("unexpected token %s", p.cur)
	}
	if err != nil {
		return err
	}

	// Statements end at a newline or EOF
	if p.cur.Kind != KindNewline && p.cur.Kind != KindEOF {
		return p.fail("expected end of line, got %s", p.cur)
	}
	return nil
}

// parseTableHeader handles [name]
func (p *Parser) parseTableHeader() error {
	p.nextToken() // [
	if p.cur.Kind != KindKey && p.cur.Kind != KindString {
		return p.fail("expected table name, got %s", p.cur)
	}
	name := p.cur.Text
	p.nextToken()
	if p.cur.Kind != KindClose {
		return p.fail("expected ']' after table %q", name)
	}
	p.nextToken()

	if _, exists := p.root[name]; exists {
		return p.fail("duplicate table %q", name)
	}
	table := make(map[string]any)
	p.root[name] = table
	p.current = table
	return nil
}

func (p *Parser) parseKeyValue() error {
	key := p.cur.Text
	p.nextToken()
	if p.cur.Kind != KindEqual {
		return p.fail("expected '=' after key %q, got %s", key, p.cur)
	}
	p.nextToken()

	val, err := p.parseValue()
	if err != nil {
		return err
	}
	if _, exists := p.current[key]; exists {
		return p.fail("duplicate key %q", key)
	}
	p.current[key] = val
	return nil
}

func (p *Parser) parseValue() (any, error) {
	tok := p.cur
	switch tok.Kind {
	case KindString:
		p.nextToken()
		return tok.Text, nil
	case KindInt:
		val, err := strconv.ParseInt(strings.ReplaceAll(tok.Text, "_", ""), 10, 64)
		if err != nil {
			return nil, p.fail("invalid integer %q", tok.Text)
		}
		p.nextToken()
		return val, nil
	case KindFloat:
		val, err := strconv.ParseFloat(strings.ReplaceAll(tok.Text, "_", ""), 64)
		if err != nil {
			return nil, p.fail("invalid float %q", tok.Text)
		}
		p.nextToken()
		return val, nil
	case KindBool:
		p.nextToken()
		return tok.Text == "true", nil
	case KindOpen:
		return nil, p.fail("arrays are not supported")
	}
	return nil, p.fail("unexpected value %s", tok)
}
