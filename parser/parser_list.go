package parser

// parseArgList parses "(expr, expr, ...)" and returns the offset after ")".
// A leading #stream argument is accepted for functions like EOF or POS.
func (p *Parser) parseArgList() ([]*Node, int, error) {
	if _, err := p.expect(TOKEN_LPAREN); err != nil {
		return nil, 0, err
	}
	var args []*Node
	for p.current.Type != TOKEN_RPAREN {
		arg, err := p.parseArgument()
		if err != nil {
			return nil, 0, err
		}
		args = append(args, arg)
		if p.current.Type != TOKEN_COMMA {
			break
		}
		p.nextToken()
	}
	closing, err := p.expect(TOKEN_RPAREN)
	if err != nil {
		return nil, 0, err
	}
	return args, closing.Pos + 1, nil
}

// parseArgument parses an expression or a #stream reference
func (p *Parser) parseArgument() (*Node, error) {
	if p.current.Type != TOKEN_HASH {
		return p.ParseExpression(0)
	}
	tok := p.current
	p.nextToken()
	num, err := p.ParseExpression(precUnary)
	if err != nil {
		return nil, err
	}
	return &Node{Kind: NODE_STREAM, Value: "#", Pos: tok.Pos, Len: tok.Len, Left: num}, nil
}

// parseArguments parses a possibly empty comma separated argument list
// that runs to the end of the statement
func (p *Parser) parseArguments() ([]*Node, error) {
	var args []*Node
	for !p.atEndOfStatement() {
		arg, err := p.parseArgument()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if p.current.Type != TOKEN_COMMA {
			break
		}
		p.nextToken()
	}
	return args, nil
}
