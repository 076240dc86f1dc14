package parser

import (
	"fmt"
)

// Parser parses line-numbered BASIC source into an AST
type Parser struct {
	lexer   *Lexer
	current Token
	peek    Token
}

// NewParser creates a new Parser instance
func NewParser(input string) *Parser {
	p := &Parser{
		lexer: NewLexer(input),
	}
	// Read two tokens to initialize current and peek
	p.nextToken()
	p.nextToken()
	return p
}

// nextToken advances to the next token
func (p *Parser) nextToken() {
	p.current = p.peek
	p.peek = p.lexer.NextToken()
}

// errorf builds a syntax error positioned at tok
func (p *Parser) errorf(tok Token, format string, args ...interface{}) error {
	return &SyntaxError{
		Message: fmt.Sprintf(format, args...),
		Value:   tok.Value,
		Pos:     tok.Pos,
	}
}

// expect consumes the current token if it has the given type
func (p *Parser) expect(t TokenType) (Token, error) {
	tok := p.current
	if tok.Type != t {
		return tok, p.errorf(tok, "Expected %s", t)
	}
	p.nextToken()
	return tok, nil
}

// isKeyword reports whether the current token is the given keyword
func (p *Parser) isKeyword(kw string) bool {
	return p.current.Type == TOKEN_KEYWORD && p.current.Value == kw
}

// expectKeyword consumes the given keyword
func (p *Parser) expectKeyword(kw string) (Token, error) {
	tok := p.current
	if !p.isKeyword(kw) {
		return tok, p.errorf(tok, "Expected %s", kw)
	}
	p.nextToken()
	return tok, nil
}

// ParseProgram parses the whole source into a NODE_PROGRAM node
func (p *Parser) ParseProgram() (*Node, error) {
	prog := &Node{Kind: NODE_PROGRAM, Pos: p.current.Pos}

	for p.current.Type != TOKEN_EOF {
		if p.current.Type == TOKEN_NEWLINE {
			p.nextToken()
			continue
		}
		line, err := p.parseLine()
		if err != nil {
			return nil, err
		}
		prog.Args = append(prog.Args, line)
	}

	return prog, nil
}

// parseLine parses an optional line number followed by statements
func (p *Parser) parseLine() (*Node, error) {
	line := &Node{Kind: NODE_LINE, Pos: p.current.Pos}
	if p.current.Type == TOKEN_NUMBER {
		line.Value = p.current.Value
		line.Len = p.current.Len
		p.nextToken()
	}

	stmts, err := p.parseStatements(false)
	if err != nil {
		return nil, err
	}
	line.Args = stmts

	if p.current.Type != TOKEN_NEWLINE && p.current.Type != TOKEN_EOF {
		return nil, p.errorf(p.current, "Expected end of line")
	}
	return line, nil
}

// binaryPrecedence returns the operator text and binding power of the
// current token, or 0 when it is not a binary operator.
// XOR binds loosest, then OR, AND, comparisons, + -, MOD, \, * /, ^.
func binaryPrecedence(tok Token) (string, int) {
	switch tok.Type {
	case TOKEN_CARET:
		return "^", 12
	case TOKEN_STAR:
		return "*", 10
	case TOKEN_SLASH:
		return "/", 10
	case TOKEN_BACKSLASH:
		return "\\", 9
	case TOKEN_PLUS:
		return "+", 7
	case TOKEN_MINUS:
		return "-", 7
	case TOKEN_EQ:
		return "=", 6
	case TOKEN_NE:
		return "<>", 6
	case TOKEN_LT:
		return "<", 6
	case TOKEN_GT:
		return ">", 6
	case TOKEN_LE:
		return "<=", 6
	case TOKEN_GE:
		return ">=", 6
	case TOKEN_KEYWORD:
		switch tok.Value {
		case "MOD":
			return "MOD", 8
		case "AND":
			return "AND", 4
		case "OR":
			return "OR", 3
		case "XOR":
			return "XOR", 2
		}
	}
	return "", 0
}

const (
	precNot   = 5  // NOT applies to a whole comparison
	precUnary = 11 // unary minus binds tighter than * but looser than ^
)

// ParseExpression parses an expression using precedence climbing
func (p *Parser) ParseExpression(minPrec int) (*Node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}

	for {
		op, prec := binaryPrecedence(p.current)
		if prec == 0 || prec < minPrec {
			break
		}
		tok := p.current
		p.nextToken()

		right, err := p.ParseExpression(prec + 1)
		if err != nil {
			return nil, err
		}
		left = &Node{
			Kind:  NODE_BINARY,
			Value: op,
			Pos:   tok.Pos,
			Len:   tok.Len,
			Left:  left,
			Right: right,
		}
	}

	return left, nil
}

// parseUnary parses prefix operators
func (p *Parser) parseUnary() (*Node, error) {
	tok := p.current
	var prec int
	var op string

	switch {
	case tok.Type == TOKEN_MINUS:
		op, prec = "-", precUnary
	case tok.Type == TOKEN_PLUS:
		op, prec = "+", precUnary
	case p.isKeyword("NOT"):
		op, prec = "NOT", precNot
	case tok.Type == TOKEN_AT:
		p.nextToken()
		operand, err := p.parseVariable()
		if err != nil {
			return nil, err
		}
		return &Node{Kind: NODE_UNARY, Value: "@", Pos: tok.Pos, Len: tok.Len, Left: operand}, nil
	default:
		return p.parsePrimary()
	}

	p.nextToken()
	operand, err := p.ParseExpression(prec)
	if err != nil {
		return nil, err
	}
	return &Node{Kind: NODE_UNARY, Value: op, Pos: tok.Pos, Len: tok.Len, Left: operand}, nil
}

// parsePrimary handles literals, variables, calls and parentheses
func (p *Parser) parsePrimary() (*Node, error) {
	tok := p.current

	switch tok.Type {
	case TOKEN_NUMBER:
		p.nextToken()
		return &Node{Kind: NODE_NUMBER, Value: tok.Value, Pos: tok.Pos, Len: tok.Len}, nil
	case TOKEN_HEX:
		p.nextToken()
		return &Node{Kind: NODE_HEX, Value: tok.Value, Pos: tok.Pos, Len: tok.Len}, nil
	case TOKEN_BIN:
		p.nextToken()
		return &Node{Kind: NODE_BIN, Value: tok.Value, Pos: tok.Pos, Len: tok.Len}, nil
	case TOKEN_STRING:
		p.nextToken()
		return &Node{Kind: NODE_STRING, Value: tok.Literal, Pos: tok.Pos, Len: tok.Len}, nil
	case TOKEN_LPAREN:
		p.nextToken()
		inner, err := p.ParseExpression(0)
		if err != nil {
			return nil, err
		}
		closing, err := p.expect(TOKEN_RPAREN)
		if err != nil {
			return nil, err
		}
		return &Node{Kind: NODE_PAREN, Value: "(", Pos: tok.Pos, Len: closing.Pos + 1 - tok.Pos, Left: inner}, nil
	case TOKEN_IDENTIFIER:
		return p.parseVariable()
	case TOKEN_KEYWORD:
		if tok.Value == "FN" {
			return p.parseFnCall()
		}
		if IsFunction(tok.Value) {
			return p.parseFunction()
		}
	}

	return nil, p.errorf(tok, "Expected expression")
}

// parseVariable parses a scalar variable or an array element
func (p *Parser) parseVariable() (*Node, error) {
	tok, err := p.expect(TOKEN_IDENTIFIER)
	if err != nil {
		return nil, err
	}
	node := &Node{Kind: NODE_VAR, Value: tok.Value, Pos: tok.Pos, Len: tok.Len}
	if p.current.Type != TOKEN_LPAREN {
		return node, nil
	}

	args, end, err := p.parseArgList()
	if err != nil {
		return nil, err
	}
	node.Kind = NODE_ARRAY
	node.Args = args
	node.Len = end - tok.Pos
	return node, nil
}

// parseFnCall parses FNname[(args)]
func (p *Parser) parseFnCall() (*Node, error) {
	fnTok := p.current
	p.nextToken()
	name, err := p.expect(TOKEN_IDENTIFIER)
	if err != nil {
		return nil, err
	}
	node := &Node{Kind: NODE_FN, Value: name.Value, Pos: fnTok.Pos, Len: name.Pos + name.Len - fnTok.Pos}
	if p.current.Type == TOKEN_LPAREN {
		args, end, err := p.parseArgList()
		if err != nil {
			return nil, err
		}
		node.Args = args
		node.Len = end - fnTok.Pos
	}
	return node, nil
}

// parseFunction parses a built-in function call; the argument list is
// optional for system variables such as TIME or INKEY$
func (p *Parser) parseFunction() (*Node, error) {
	tok := p.current
	p.nextToken()
	node := &Node{Kind: NODE_FUNCTION, Value: tok.Value, Pos: tok.Pos, Len: tok.Len}
	if p.current.Type == TOKEN_LPAREN {
		args, end, err := p.parseArgList()
		if err != nil {
			return nil, err
		}
		node.Args = args
		node.Len = end - tok.Pos
	}
	return node, nil
}
