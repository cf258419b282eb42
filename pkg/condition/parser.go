package condition

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	errUtils "github.com/packmeta/packmeta/errors"
)

type tokenKind int

const (
	tokenEOF tokenKind = iota
	tokenString
	tokenNumber
	tokenIdent    // bare words: and, or, not, in, true, false
	tokenVariable // $name
	tokenOperator // == != < <= > >=
	tokenLParen
	tokenRParen
	tokenLBracket
	tokenRBracket
	tokenComma
)

type token struct {
	kind tokenKind
	text string
}

func lex(input string) ([]token, error) {
	var tokens []token
	i := 0
	for i < len(input) {
		c := input[i]
		switch {
		case c == ' ' || c == '\t':
			i++
		case c == '(':
			tokens = append(tokens, token{tokenLParen, "("})
			i++
		case c == ')':
			tokens = append(tokens, token{tokenRParen, ")"})
			i++
		case c == '[':
			tokens = append(tokens, token{tokenLBracket, "["})
			i++
		case c == ']':
			tokens = append(tokens, token{tokenRBracket, "]"})
			i++
		case c == ',':
			tokens = append(tokens, token{tokenComma, ","})
			i++
		case c == '\'' || c == '"':
			end := strings.IndexByte(input[i+1:], c)
			if end == -1 {
				return nil, fmt.Errorf("%w: unterminated string", errUtils.ErrConditionSyntax)
			}
			tokens = append(tokens, token{tokenString, input[i+1 : i+1+end]})
			i += end + 2
		case c == '$':
			j := i + 1
			for j < len(input) && (isIdentChar(input[j])) {
				j++
			}
			if j == i+1 {
				return nil, fmt.Errorf("%w: bare '$'", errUtils.ErrConditionSyntax)
			}
			tokens = append(tokens, token{tokenVariable, input[i+1 : j]})
			i = j
		case strings.ContainsRune("=!<>", rune(c)):
			op := string(c)
			if i+1 < len(input) && input[i+1] == '=' {
				op += "="
				i++
			}
			i++
			switch op {
			case "==", "!=", "<", "<=", ">", ">=":
				tokens = append(tokens, token{tokenOperator, op})
			default:
				return nil, fmt.Errorf("%w: unknown operator %q", errUtils.ErrConditionSyntax, op)
			}
		case unicode.IsDigit(rune(c)) || (c == '-' && i+1 < len(input) && unicode.IsDigit(rune(input[i+1]))):
			j := i + 1
			for j < len(input) && (unicode.IsDigit(rune(input[j])) || input[j] == '.') {
				j++
			}
			tokens = append(tokens, token{tokenNumber, input[i:j]})
			i = j
		case isIdentChar(c):
			j := i
			for j < len(input) && isIdentChar(input[j]) {
				j++
			}
			tokens = append(tokens, token{tokenIdent, input[i:j]})
			i = j
		default:
			return nil, fmt.Errorf("%w: unexpected character %q", errUtils.ErrConditionSyntax, string(c))
		}
	}
	tokens = append(tokens, token{tokenEOF, ""})
	return tokens, nil
}

func isIdentChar(c byte) bool {
	return c == '_' || c == '-' || c == '.' ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

type parser struct {
	tokens []token
	pos    int
}

func (p *parser) peek() token { return p.tokens[p.pos] }

func (p *parser) next() token {
	t := p.tokens[p.pos]
	if t.kind != tokenEOF {
		p.pos++
	}
	return t
}

func (p *parser) atEnd() bool { return p.peek().kind == tokenEOF }

func (p *parser) acceptIdent(word string) bool {
	if p.peek().kind == tokenIdent && p.peek().text == word {
		p.pos++
		return true
	}
	return false
}

func (p *parser) expect(kind tokenKind, what string) (token, error) {
	if p.peek().kind != kind {
		return token{}, fmt.Errorf("%w: expected %s, got %q", errUtils.ErrConditionSyntax, what, p.peek().text)
	}
	return p.next(), nil
}

func (p *parser) parseOr() (Expr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.acceptIdent("or") {
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = boolNode{op: "or", left: left, right: right}
	}
	return left, nil
}

func (p *parser) parseAnd() (Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.acceptIdent("and") {
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = boolNode{op: "and", left: left, right: right}
	}
	return left, nil
}

func (p *parser) parseUnary() (Expr, error) {
	// "not in" belongs to a comparison; only treat "not" as a unary operator
	// when it does not introduce a membership test.
	if p.peek().kind == tokenIdent && p.peek().text == "not" && p.tokens[p.pos+1].text != "in" {
		p.pos++
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return notNode{operand: operand}, nil
	}
	return p.parseComparison()
}

func (p *parser) parseComparison() (Expr, error) {
	left, err := p.parseOperand()
	if err != nil {
		return nil, err
	}

	if p.peek().kind == tokenOperator {
		op := p.next().text
		right, err := p.parseOperand()
		if err != nil {
			return nil, err
		}
		return compareNode{op: op, left: left, right: right}, nil
	}

	negated := false
	if p.peek().kind == tokenIdent && p.peek().text == "not" && p.tokens[p.pos+1].text == "in" {
		p.pos++
		negated = true
	}
	if p.acceptIdent("in") {
		hay, err := p.parseOperand()
		if err != nil {
			return nil, err
		}
		return membershipNode{negated: negated, needle: left, hay: hay}, nil
	}

	return left, nil
}

func (p *parser) parseOperand() (Expr, error) {
	switch t := p.peek(); t.kind {
	case tokenString:
		p.next()
		return literalNode{v: stringValue(t.text)}, nil
	case tokenNumber:
		p.next()
		f, err := strconv.ParseFloat(t.text, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: bad number %q", errUtils.ErrConditionSyntax, t.text)
		}
		return literalNode{v: numberValue(f)}, nil
	case tokenVariable:
		p.next()
		return varNode{name: t.text}, nil
	case tokenLParen:
		p.next()
		expr, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokenRParen, "')'"); err != nil {
			return nil, err
		}
		return expr, nil
	case tokenLBracket:
		return p.parseList()
	case tokenIdent:
		switch t.text {
		case "true":
			p.next()
			return literalNode{v: boolValue(true)}, nil
		case "false":
			p.next()
			return literalNode{v: boolValue(false)}, nil
		case "and", "or", "not", "in":
			return nil, fmt.Errorf("%w: unexpected keyword %q", errUtils.ErrConditionSyntax, t.text)
		default:
			// Bare words are string literals; template authors write
			// `$platform == linux` without quotes.
			p.next()
			return literalNode{v: stringValue(t.text)}, nil
		}
	default:
		return nil, fmt.Errorf("%w: unexpected token %q", errUtils.ErrConditionSyntax, t.text)
	}
}

func (p *parser) parseList() (Expr, error) {
	if _, err := p.expect(tokenLBracket, "'['"); err != nil {
		return nil, err
	}
	var items []Expr
	if p.peek().kind != tokenRBracket {
		for {
			item, err := p.parseOperand()
			if err != nil {
				return nil, err
			}
			items = append(items, item)
			if p.peek().kind != tokenComma {
				break
			}
			p.next()
		}
	}
	if _, err := p.expect(tokenRBracket, "']'"); err != nil {
		return nil, err
	}
	return listNode{items: items}, nil
}
