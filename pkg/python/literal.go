package python

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// ParseLiteral evaluates a restricted subset of Python literal expressions:
// strings, integers, floats, booleans, None, and tuples/lists of those.
// Anything else (names, calls, operators) is an error; values computed at
// runtime are never guessed at.
func ParseLiteral(src string) (any, error) {
	p := &literalParser{src: src}
	value, err := p.parseValue()
	if err != nil {
		return nil, err
	}

	p.skipSpace()
	if p.pos < len(p.src) && p.src[p.pos] != '#' {
		return nil, fmt.Errorf("unexpected trailing input %q", p.src[p.pos:])
	}
	return value, nil
}

type literalParser struct {
	src string
	pos int
}

func (p *literalParser) skipSpace() {
	for p.pos < len(p.src) && (p.src[p.pos] == ' ' || p.src[p.pos] == '\t') {
		p.pos++
	}
}

func (p *literalParser) parseValue() (any, error) {
	p.skipSpace()
	if p.pos >= len(p.src) {
		return nil, fmt.Errorf("empty expression")
	}

	switch c := p.src[p.pos]; {
	case c == '"' || c == '\'':
		return p.parseString()
	case c == '(' || c == '[':
		return p.parseSequence()
	case c == '-' || c == '+' || unicode.IsDigit(rune(c)):
		return p.parseNumber()
	default:
		return p.parseKeyword()
	}
}

// parseString consumes a quoted string, handling the common escape
// sequences. Multi-line strings are not supported.
func (p *literalParser) parseString() (any, error) {
	quote := p.src[p.pos]
	p.pos++

	var sb strings.Builder
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		switch c {
		case quote:
			p.pos++
			return sb.String(), nil
		case '\\':
			p.pos++
			if p.pos >= len(p.src) {
				return nil, fmt.Errorf("unterminated escape sequence")
			}
			switch esc := p.src[p.pos]; esc {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case 'r':
				sb.WriteByte('\r')
			case '\\', '\'', '"':
				sb.WriteByte(esc)
			default:
				return nil, fmt.Errorf("unsupported escape sequence \\%c", esc)
			}
			p.pos++
		default:
			sb.WriteByte(c)
			p.pos++
		}
	}
	return nil, fmt.Errorf("unterminated string literal")
}

// parseSequence consumes a tuple or list of literal values
func (p *literalParser) parseSequence() (any, error) {
	open := p.src[p.pos]
	closing := byte(')')
	if open == '[' {
		closing = ']'
	}
	p.pos++

	values := []any{}
	for {
		p.skipSpace()
		if p.pos >= len(p.src) {
			return nil, fmt.Errorf("unterminated sequence")
		}
		if p.src[p.pos] == closing {
			p.pos++
			return values, nil
		}

		value, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		values = append(values, value)

		p.skipSpace()
		if p.pos < len(p.src) && p.src[p.pos] == ',' {
			p.pos++
			continue
		}
		if p.pos < len(p.src) && p.src[p.pos] == closing {
			p.pos++
			return values, nil
		}
		return nil, fmt.Errorf("expected ',' or '%c' in sequence", closing)
	}
}

func (p *literalParser) parseNumber() (any, error) {
	start := p.pos
	if p.src[p.pos] == '-' || p.src[p.pos] == '+' {
		p.pos++
	}
	isFloat := false
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		if unicode.IsDigit(rune(c)) || c == '_' {
			p.pos++
			continue
		}
		if c == '.' || c == 'e' || c == 'E' {
			isFloat = true
			p.pos++
			continue
		}
		break
	}

	text := strings.ReplaceAll(p.src[start:p.pos], "_", "")
	if isFloat {
		value, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q", text)
		}
		return value, nil
	}
	value, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid number %q", text)
	}
	return value, nil
}

func (p *literalParser) parseKeyword() (any, error) {
	start := p.pos
	for p.pos < len(p.src) && (unicode.IsLetter(rune(p.src[p.pos])) || p.src[p.pos] == '_') {
		p.pos++
	}

	switch word := p.src[start:p.pos]; word {
	case "True":
		return true, nil
	case "False":
		return false, nil
	case "None":
		return nil, nil
	case "":
		return nil, fmt.Errorf("unexpected character %q", p.src[start])
	default:
		return nil, fmt.Errorf("%q is not a literal value", word)
	}
}
