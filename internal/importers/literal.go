package importers

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

// SyntaxError reports where ParseLiteral stopped.
type SyntaxError struct {
	Offset int
	Msg    string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s at offset %d", e.Msg, e.Offset)
}

// ParseLiteral parses the object-literal notation accepted by account
// imports: a flat array of objects whose keys may be bare identifiers or
// quoted strings and whose values are single- or double-quoted strings,
// numbers, true, false or null.
//
//	[{username: 'alice', password: "s3cret"}, {'username': 'bob', password: 'x'}]
//
// Trailing commas are allowed. Nested arrays, objects used as values and
// comments are rejected. The result uses the same shapes as encoding/json
// decoding into any, with json.Number for numbers.
func ParseLiteral(src string) (any, error) {
	p := &literalParser{src: src}
	p.skipSpace()

	var (
		value any
		err   error
	)
	switch p.peek() {
	case '[':
		value, err = p.parseArray()
	case '{':
		value, err = p.parseObject()
	default:
		value, err = p.parseScalar()
	}
	if err != nil {
		return nil, err
	}

	p.skipSpace()
	if !p.eof() {
		return nil, p.errorf("unexpected %s after value", p.describe())
	}
	return value, nil
}

type literalParser struct {
	src string
	pos int
}

func (p *literalParser) eof() bool {
	return p.pos >= len(p.src)
}

func (p *literalParser) peek() byte {
	if p.eof() {
		return 0
	}
	return p.src[p.pos]
}

func (p *literalParser) skipSpace() {
	for !p.eof() {
		switch p.src[p.pos] {
		case ' ', '\t', '\n', '\r':
			p.pos++
		default:
			return
		}
	}
}

func (p *literalParser) errorf(format string, args ...any) *SyntaxError {
	return &SyntaxError{Offset: p.pos, Msg: fmt.Sprintf(format, args...)}
}

func (p *literalParser) describe() string {
	if p.eof() {
		return "end of input"
	}
	r, _ := utf8.DecodeRuneInString(p.src[p.pos:])
	return fmt.Sprintf("character %q", r)
}

func (p *literalParser) parseArray() ([]any, error) {
	p.pos++ // [
	items := []any{}

	p.skipSpace()
	if p.peek() == ']' {
		p.pos++
		return items, nil
	}

	for {
		var (
			item any
			err  error
		)
		switch p.peek() {
		case '{':
			item, err = p.parseObject()
		case '[':
			return nil, p.errorf("nested arrays are not supported")
		default:
			item, err = p.parseScalar()
		}
		if err != nil {
			return nil, err
		}
		items = append(items, item)

		p.skipSpace()
		switch p.peek() {
		case ',':
			p.pos++
			p.skipSpace()
			if p.peek() == ']' {
				p.pos++
				return items, nil
			}
		case ']':
			p.pos++
			return items, nil
		default:
			return nil, p.errorf("expected ',' or ']' but found %s", p.describe())
		}
	}
}

func (p *literalParser) parseObject() (map[string]any, error) {
	p.pos++ // {
	obj := map[string]any{}

	p.skipSpace()
	if p.peek() == '}' {
		p.pos++
		return obj, nil
	}

	for {
		key, err := p.parseKey()
		if err != nil {
			return nil, err
		}

		p.skipSpace()
		if p.peek() != ':' {
			return nil, p.errorf("expected ':' after property %q but found %s", key, p.describe())
		}
		p.pos++
		p.skipSpace()

		if c := p.peek(); c == '{' || c == '[' {
			return nil, p.errorf("nested value for property %q is not supported", key)
		}
		value, err := p.parseScalar()
		if err != nil {
			return nil, err
		}
		obj[key] = value

		p.skipSpace()
		switch p.peek() {
		case ',':
			p.pos++
			p.skipSpace()
			if p.peek() == '}' {
				p.pos++
				return obj, nil
			}
		case '}':
			p.pos++
			return obj, nil
		default:
			return nil, p.errorf("expected ',' or '}' but found %s", p.describe())
		}
	}
}

func (p *literalParser) parseKey() (string, error) {
	if c := p.peek(); c == '"' || c == '\'' {
		return p.parseString()
	}
	word := p.scanWord()
	if word == "" {
		return "", p.errorf("expected property name but found %s", p.describe())
	}
	return word, nil
}

func (p *literalParser) parseScalar() (any, error) {
	c := p.peek()
	switch {
	case c == '"' || c == '\'':
		return p.parseString()
	case c == '-' || isDigit(c):
		return p.parseNumber()
	case isWordByte(c):
		start := p.pos
		switch word := p.scanWord(); word {
		case "true":
			return true, nil
		case "false":
			return false, nil
		case "null":
			return nil, nil
		default:
			p.pos = start
			return nil, p.errorf("unexpected identifier %q", word)
		}
	default:
		return nil, p.errorf("expected a value but found %s", p.describe())
	}
}

func (p *literalParser) scanWord() string {
	start := p.pos
	for !p.eof() && isWordByte(p.src[p.pos]) {
		p.pos++
	}
	return p.src[start:p.pos]
}

func (p *literalParser) parseString() (string, error) {
	quote := p.src[p.pos]
	start := p.pos
	p.pos++

	var sb strings.Builder
	for {
		if p.eof() {
			p.pos = start
			return "", p.errorf("unterminated string")
		}
		c := p.src[p.pos]
		switch {
		case c == quote:
			p.pos++
			return sb.String(), nil
		case c == '\n' || c == '\r':
			return "", p.errorf("line break inside string")
		case c == '\\':
			if err := p.parseEscape(&sb); err != nil {
				return "", err
			}
		default:
			sb.WriteByte(c)
			p.pos++
		}
	}
}

func (p *literalParser) parseEscape(sb *strings.Builder) error {
	p.pos++ // backslash
	if p.eof() {
		return p.errorf("unterminated string")
	}

	c := p.src[p.pos]
	p.pos++
	switch c {
	case '"', '\'', '\\', '/':
		sb.WriteByte(c)
	case 'b':
		sb.WriteByte('\b')
	case 'f':
		sb.WriteByte('\f')
	case 'n':
		sb.WriteByte('\n')
	case 'r':
		sb.WriteByte('\r')
	case 't':
		sb.WriteByte('\t')
	case 'u':
		r, err := p.parseHex4()
		if err != nil {
			return err
		}
		if utf16.IsSurrogate(r) && strings.HasPrefix(p.src[p.pos:], `\u`) {
			save := p.pos
			p.pos += 2
			r2, err := p.parseHex4()
			if err == nil {
				if pair := utf16.DecodeRune(r, r2); pair != utf8.RuneError {
					sb.WriteRune(pair)
					return nil
				}
			}
			p.pos = save
		}
		sb.WriteRune(r)
	default:
		p.pos--
		return p.errorf("invalid escape sequence '\\%c'", c)
	}
	return nil
}

func (p *literalParser) parseHex4() (rune, error) {
	if p.pos+4 > len(p.src) {
		return 0, p.errorf("invalid unicode escape")
	}
	var r rune
	for i := 0; i < 4; i++ {
		c := p.src[p.pos+i]
		var v byte
		switch {
		case isDigit(c):
			v = c - '0'
		case c >= 'a' && c <= 'f':
			v = c - 'a' + 10
		case c >= 'A' && c <= 'F':
			v = c - 'A' + 10
		default:
			return 0, p.errorf("invalid unicode escape")
		}
		r = r<<4 | rune(v)
	}
	p.pos += 4
	return r, nil
}

// parseNumber accepts the JSON number grammar.
func (p *literalParser) parseNumber() (json.Number, error) {
	start := p.pos
	if p.peek() == '-' {
		p.pos++
	}

	switch {
	case p.peek() == '0':
		p.pos++
	case isDigit(p.peek()):
		p.skipDigits()
	default:
		return "", p.errorf("invalid number")
	}

	if p.peek() == '.' {
		p.pos++
		if !isDigit(p.peek()) {
			return "", p.errorf("invalid number")
		}
		p.skipDigits()
	}

	if c := p.peek(); c == 'e' || c == 'E' {
		p.pos++
		if c := p.peek(); c == '+' || c == '-' {
			p.pos++
		}
		if !isDigit(p.peek()) {
			return "", p.errorf("invalid number")
		}
		p.skipDigits()
	}

	if isWordByte(p.peek()) {
		return "", p.errorf("invalid number")
	}
	return json.Number(p.src[start:p.pos]), nil
}

func (p *literalParser) skipDigits() {
	for isDigit(p.peek()) {
		p.pos++
	}
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isWordByte(c byte) bool {
	return c == '_' || c == '$' || isDigit(c) || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
