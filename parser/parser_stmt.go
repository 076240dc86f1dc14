package parser

import (
	"strings"
)

// atEndOfLine reports whether the current token ends a source line
func (p *Parser) atEndOfLine() bool {
	return p.current.Type == TOKEN_NEWLINE || p.current.Type == TOKEN_EOF
}

// atEndOfStatement reports whether the current token ends a statement
func (p *Parser) atEndOfStatement() bool {
	return p.atEndOfLine() || p.current.Type == TOKEN_COLON || p.isKeyword("ELSE")
}

// parseStatements parses colon separated statements up to the end of the
// line; inside an IF branch an ELSE also ends the list
func (p *Parser) parseStatements(inIf bool) ([]*Node, error) {
	var stmts []*Node
	for {
		for p.current.Type == TOKEN_COLON {
			p.nextToken()
		}
		if p.atEndOfLine() || (inIf && p.isKeyword("ELSE")) {
			break
		}

		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)

		// a ' comment may follow a statement without a colon
		if p.current.Type == TOKEN_COLON || p.current.Type == TOKEN_REM {
			continue
		}
		if p.atEndOfLine() || (inIf && p.isKeyword("ELSE")) {
			break
		}
		return nil, p.errorf(p.current, "Expected end of statement")
	}
	return stmts, nil
}

// parseStatement parses a single statement
func (p *Parser) parseStatement() (*Node, error) {
	tok := p.current

	switch tok.Type {
	case TOKEN_REM:
		p.nextToken()
		return &Node{Kind: NODE_REM, Value: tok.Literal, Pos: tok.Pos, Len: tok.Len}, nil
	case TOKEN_DATA:
		p.nextToken()
		return parseDataItems(tok), nil
	case TOKEN_RSX:
		return p.parseRsx()
	case TOKEN_IDENTIFIER:
		return p.parseAssign()
	case TOKEN_KEYWORD:
		// handled below
	default:
		return nil, p.errorf(tok, "Unexpected token")
	}

	switch tok.Value {
	case "LET":
		p.nextToken()
		return p.parseAssign()
	case "PRINT":
		return p.parsePrint()
	case "INPUT":
		p.nextToken()
		return p.parseInput(NODE_INPUT, tok)
	case "LINE":
		p.nextToken()
		if _, err := p.expectKeyword("INPUT"); err != nil {
			return nil, err
		}
		return p.parseInput(NODE_LINE_INPUT, tok)
	case "IF":
		return p.parseIf()
	case "FOR":
		return p.parseFor()
	case "NEXT":
		return p.parseNext()
	case "WHILE":
		p.nextToken()
		cond, err := p.ParseExpression(0)
		if err != nil {
			return nil, err
		}
		return &Node{Kind: NODE_WHILE, Value: tok.Value, Pos: tok.Pos, Len: tok.Len, Left: cond}, nil
	case "GOTO":
		return p.parseJump(NODE_GOTO)
	case "GOSUB":
		return p.parseJump(NODE_GOSUB)
	case "WEND", "RETURN", "END", "STOP", "TRON", "TROFF":
		p.nextToken()
		return &Node{Kind: simpleStatements[tok.Value], Value: tok.Value, Pos: tok.Pos, Len: tok.Len}, nil
	case "ON":
		return p.parseOn()
	case "RESUME":
		return p.parseResume()
	case "ERROR":
		p.nextToken()
		code, err := p.ParseExpression(0)
		if err != nil {
			return nil, err
		}
		return &Node{Kind: NODE_ERROR, Value: tok.Value, Pos: tok.Pos, Len: tok.Len, Args: []*Node{code}}, nil
	case "READ":
		return p.parseRead()
	case "RESTORE":
		p.nextToken()
		node := &Node{Kind: NODE_RESTORE, Value: tok.Value, Pos: tok.Pos, Len: tok.Len}
		if p.current.Type == TOKEN_NUMBER {
			node.Args = []*Node{p.parseLineNumber()}
		}
		return node, nil
	case "DEF":
		return p.parseDefFn()
	case "DIM":
		return p.parseDim()
	case "RUN":
		return p.parseRun()
	case "CHAIN":
		return p.parseChain()
	case "MERGE":
		p.nextToken()
		args, err := p.parseArguments()
		if err != nil {
			return nil, err
		}
		return &Node{Kind: NODE_MERGE, Value: tok.Value, Pos: tok.Pos, Len: tok.Len, Args: args}, nil
	case "EVERY":
		return p.parseTimer(NODE_EVERY)
	case "AFTER":
		return p.parseTimer(NODE_AFTER)
	case "DEFINT", "DEFREAL", "DEFSTR", "ERASE":
		return p.parseLetters()
	case "THEN", "ELSE", "TO", "STEP", "USING", "FN":
		return nil, p.errorf(tok, "Unexpected %s", tok.Value)
	}

	if statementKeywords[tok.Value] {
		return p.parseCommand()
	}
	return nil, p.errorf(tok, "Unexpected token")
}

var simpleStatements = map[string]Kind{
	"WEND":   NODE_WEND,
	"RETURN": NODE_RETURN,
	"END":    NODE_END,
	"STOP":   NODE_STOP,
	"TRON":   NODE_TRON,
	"TROFF":  NODE_TROFF,
}

// parseLineNumber converts the current number token into a line reference
func (p *Parser) parseLineNumber() *Node {
	tok := p.current
	p.nextToken()
	return &Node{Kind: NODE_LINENUMBER, Value: tok.Value, Pos: tok.Pos, Len: tok.Len}
}

// expectLineNumber parses a mandatory line reference
func (p *Parser) expectLineNumber() (*Node, error) {
	if p.current.Type != TOKEN_NUMBER {
		return nil, p.errorf(p.current, "Expected line number")
	}
	return p.parseLineNumber(), nil
}

// parseAssign parses [LET] target = expression
func (p *Parser) parseAssign() (*Node, error) {
	target, err := p.parseVariable()
	if err != nil {
		return nil, err
	}
	eq, err := p.expect(TOKEN_EQ)
	if err != nil {
		return nil, err
	}
	value, err := p.ParseExpression(0)
	if err != nil {
		return nil, err
	}
	return &Node{Kind: NODE_ASSIGN, Value: "=", Pos: eq.Pos, Len: eq.Len, Left: target, Right: value}, nil
}

// parseCommand parses a generic keyword statement with arguments
func (p *Parser) parseCommand() (*Node, error) {
	tok := p.current
	p.nextToken()
	name := tok.Value

	// two-word commands
	switch {
	case name == "GRAPHICS" && (p.isKeyword("PEN") || p.isKeyword("PAPER")),
		name == "CLEAR" && p.isKeyword("INPUT"),
		name == "SYMBOL" && p.isKeyword("AFTER"),
		name == "KEY" && p.isKeyword("DEF"):
		name += " " + p.current.Value
		p.nextToken()
	}

	args, err := p.parseArguments()
	if err != nil {
		return nil, err
	}
	return &Node{Kind: NODE_COMMAND, Value: name, Pos: tok.Pos, Len: tok.Len, Args: args}, nil
}

// parseRsx parses |NAME[,args]
func (p *Parser) parseRsx() (*Node, error) {
	tok := p.current
	p.nextToken()
	node := &Node{Kind: NODE_RSX, Value: tok.Value, Pos: tok.Pos, Len: tok.Len}
	if p.current.Type == TOKEN_COMMA {
		p.nextToken()
		args, err := p.parseArguments()
		if err != nil {
			return nil, err
		}
		node.Args = args
	}
	return node, nil
}

// parsePrint parses PRINT [#s,] items with ; , SPC TAB and USING
func (p *Parser) parsePrint() (*Node, error) {
	tok := p.current
	p.nextToken()
	node := &Node{Kind: NODE_PRINT, Value: tok.Value, Pos: tok.Pos, Len: tok.Len}

	if p.current.Type == TOKEN_HASH {
		stream, err := p.parseArgument()
		if err != nil {
			return nil, err
		}
		node.Left = stream
		if p.current.Type == TOKEN_COMMA {
			p.nextToken()
		}
	}

	newline := true
	for !p.atEndOfStatement() {
		cur := p.current
		switch {
		case cur.Type == TOKEN_SEMICOLON:
			p.nextToken()
			newline = false
		case cur.Type == TOKEN_COMMA:
			p.nextToken()
			node.Args = append(node.Args, &Node{Kind: NODE_COMMA_TAB, Value: ",", Pos: cur.Pos, Len: cur.Len})
			newline = false
		case p.isKeyword("USING"):
			using, trailing, err := p.parseUsing()
			if err != nil {
				return nil, err
			}
			node.Args = append(node.Args, using)
			newline = !trailing
		default:
			expr, err := p.ParseExpression(0)
			if err != nil {
				return nil, err
			}
			node.Args = append(node.Args, expr)
			newline = true
		}
	}

	if newline {
		node.Args = append(node.Args, &Node{Kind: NODE_NEWLINE, Pos: p.current.Pos})
	}
	return node, nil
}

// parseUsing parses USING format; values. It reports whether the list
// ended with a separator.
func (p *Parser) parseUsing() (*Node, bool, error) {
	tok := p.current
	p.nextToken()
	format, err := p.ParseExpression(0)
	if err != nil {
		return nil, false, err
	}
	if _, err := p.expect(TOKEN_SEMICOLON); err != nil {
		return nil, false, err
	}
	node := &Node{Kind: NODE_USING, Value: tok.Value, Pos: tok.Pos, Len: tok.Len, Left: format}

	trailing := true
	for !p.atEndOfStatement() {
		value, err := p.ParseExpression(0)
		if err != nil {
			return nil, false, err
		}
		node.Args = append(node.Args, value)
		trailing = false
		if p.current.Type != TOKEN_SEMICOLON && p.current.Type != TOKEN_COMMA {
			break
		}
		p.nextToken()
		trailing = true
	}
	return node, trailing, nil
}

// parseInput parses INPUT / LINE INPUT [#s,][;]["prompt"(;|,)] vars
func (p *Parser) parseInput(kind Kind, tok Token) (*Node, error) {
	node := &Node{Kind: kind, Value: tok.Value, Pos: tok.Pos, Len: tok.Len}

	if p.current.Type == TOKEN_HASH {
		stream, err := p.parseArgument()
		if err != nil {
			return nil, err
		}
		node.Left = stream
		if _, err := p.expect(TOKEN_COMMA); err != nil {
			return nil, err
		}
	}

	if p.current.Type == TOKEN_SEMICOLON {
		node.Args2 = append(node.Args2, &Node{Kind: NODE_SEPARATOR, Value: ";", Pos: p.current.Pos, Len: 1})
		p.nextToken()
	}

	if p.current.Type == TOKEN_STRING {
		promptTok := p.current
		p.nextToken()
		prompt := &Node{Kind: NODE_STRING, Value: promptTok.Literal, Pos: promptTok.Pos, Len: promptTok.Len}
		switch p.current.Type {
		case TOKEN_SEMICOLON:
			prompt.Value += "? "
		case TOKEN_COMMA:
		default:
			return nil, p.errorf(p.current, "Expected ; or ,")
		}
		p.nextToken()
		node.Right = prompt
	}

	for {
		target, err := p.parseVariable()
		if err != nil {
			return nil, err
		}
		node.Args = append(node.Args, target)
		if kind == NODE_LINE_INPUT || p.current.Type != TOKEN_COMMA {
			break
		}
		p.nextToken()
	}
	return node, nil
}

// parseIf parses IF cond THEN ...|GOTO n [ELSE ...]
func (p *Parser) parseIf() (*Node, error) {
	tok := p.current
	p.nextToken()
	cond, err := p.ParseExpression(0)
	if err != nil {
		return nil, err
	}
	node := &Node{Kind: NODE_IF, Value: tok.Value, Pos: tok.Pos, Len: tok.Len, Left: cond}

	if p.isKeyword("GOTO") {
		jump, err := p.parseJump(NODE_GOTO)
		if err != nil {
			return nil, err
		}
		node.Args = []*Node{jump}
	} else {
		if _, err := p.expectKeyword("THEN"); err != nil {
			return nil, err
		}
		if node.Args, err = p.parseBranch(); err != nil {
			return nil, err
		}
	}

	if p.isKeyword("ELSE") {
		p.nextToken()
		if node.Args2, err = p.parseBranch(); err != nil {
			return nil, err
		}
	}
	return node, nil
}

// parseBranch parses the statements of a THEN or ELSE branch; a bare line
// number is an implicit GOTO
func (p *Parser) parseBranch() ([]*Node, error) {
	if p.current.Type == TOKEN_NUMBER {
		target := p.parseLineNumber()
		jump := &Node{Kind: NODE_GOTO, Value: "GOTO", Pos: target.Pos, Len: target.Len, Args: []*Node{target}}
		return []*Node{jump}, nil
	}
	return p.parseStatements(true)
}

// parseFor parses FOR var = start TO end [STEP step]
func (p *Parser) parseFor() (*Node, error) {
	tok := p.current
	p.nextToken()
	loopVar, err := p.parseVariable()
	if err != nil {
		return nil, err
	}
	if loopVar.Kind != NODE_VAR {
		return nil, &SyntaxError{Message: "Expected simple variable", Value: loopVar.Value, Pos: loopVar.Pos}
	}
	if _, err := p.expect(TOKEN_EQ); err != nil {
		return nil, err
	}
	start, err := p.ParseExpression(0)
	if err != nil {
		return nil, err
	}
	if _, err := p.expectKeyword("TO"); err != nil {
		return nil, err
	}
	end, err := p.ParseExpression(0)
	if err != nil {
		return nil, err
	}
	node := &Node{Kind: NODE_FOR, Value: tok.Value, Pos: tok.Pos, Len: tok.Len, Left: loopVar, Args: []*Node{start, end}}

	if p.isKeyword("STEP") {
		p.nextToken()
		step, err := p.ParseExpression(0)
		if err != nil {
			return nil, err
		}
		node.Args = append(node.Args, step)
	}
	return node, nil
}

// parseNext parses NEXT [var[,var...]]
func (p *Parser) parseNext() (*Node, error) {
	tok := p.current
	p.nextToken()
	node := &Node{Kind: NODE_NEXT, Value: tok.Value, Pos: tok.Pos, Len: tok.Len}
	for !p.atEndOfStatement() {
		v, err := p.parseVariable()
		if err != nil {
			return nil, err
		}
		node.Args = append(node.Args, v)
		if p.current.Type != TOKEN_COMMA {
			break
		}
		p.nextToken()
	}
	return node, nil
}

// parseJump parses GOTO n / GOSUB n
func (p *Parser) parseJump(kind Kind) (*Node, error) {
	tok := p.current
	p.nextToken()
	target, err := p.expectLineNumber()
	if err != nil {
		return nil, err
	}
	return &Node{Kind: kind, Value: tok.Value, Pos: tok.Pos, Len: tok.Len, Args: []*Node{target}}, nil
}

// parseOn parses ON ERROR GOTO n and ON x GOTO|GOSUB n,n,...
func (p *Parser) parseOn() (*Node, error) {
	tok := p.current
	p.nextToken()

	if p.isKeyword("ERROR") {
		p.nextToken()
		if _, err := p.expectKeyword("GOTO"); err != nil {
			return nil, err
		}
		target, err := p.expectLineNumber()
		if err != nil {
			return nil, err
		}
		return &Node{Kind: NODE_ON_ERROR, Value: tok.Value, Pos: tok.Pos, Len: tok.Len, Args: []*Node{target}}, nil
	}

	selector, err := p.ParseExpression(0)
	if err != nil {
		return nil, err
	}
	node := &Node{Value: tok.Value, Pos: tok.Pos, Len: tok.Len, Left: selector}
	switch {
	case p.isKeyword("GOTO"):
		node.Kind = NODE_ON_GOTO
	case p.isKeyword("GOSUB"):
		node.Kind = NODE_ON_GOSUB
	default:
		return nil, p.errorf(p.current, "Expected GOTO or GOSUB")
	}
	p.nextToken()

	for {
		target, err := p.expectLineNumber()
		if err != nil {
			return nil, err
		}
		node.Args = append(node.Args, target)
		if p.current.Type != TOKEN_COMMA {
			break
		}
		p.nextToken()
	}
	return node, nil
}

// parseResume parses RESUME, RESUME NEXT and RESUME n
func (p *Parser) parseResume() (*Node, error) {
	tok := p.current
	p.nextToken()
	node := &Node{Kind: NODE_RESUME, Value: tok.Value, Pos: tok.Pos, Len: tok.Len}
	switch {
	case p.isKeyword("NEXT"):
		p.nextToken()
		node.Kind = NODE_RESUME_NEXT
	case p.current.Type == TOKEN_NUMBER:
		node.Args = []*Node{p.parseLineNumber()}
	}
	return node, nil
}

// parseRead parses READ var[,var...]
func (p *Parser) parseRead() (*Node, error) {
	tok := p.current
	p.nextToken()
	node := &Node{Kind: NODE_READ, Value: tok.Value, Pos: tok.Pos, Len: tok.Len}
	for {
		v, err := p.parseVariable()
		if err != nil {
			return nil, err
		}
		node.Args = append(node.Args, v)
		if p.current.Type != TOKEN_COMMA {
			break
		}
		p.nextToken()
	}
	return node, nil
}

// parseDefFn parses DEF FNname[(params)] = expression
func (p *Parser) parseDefFn() (*Node, error) {
	tok := p.current
	p.nextToken()
	if _, err := p.expectKeyword("FN"); err != nil {
		return nil, err
	}
	name, err := p.expect(TOKEN_IDENTIFIER)
	if err != nil {
		return nil, err
	}
	node := &Node{Kind: NODE_DEF_FN, Value: name.Value, Pos: tok.Pos, Len: tok.Len}

	if p.current.Type == TOKEN_LPAREN {
		p.nextToken()
		for p.current.Type != TOKEN_RPAREN {
			param, err := p.expect(TOKEN_IDENTIFIER)
			if err != nil {
				return nil, err
			}
			node.Args = append(node.Args, &Node{Kind: NODE_VAR, Value: param.Value, Pos: param.Pos, Len: param.Len})
			if p.current.Type != TOKEN_COMMA {
				break
			}
			p.nextToken()
		}
		if _, err := p.expect(TOKEN_RPAREN); err != nil {
			return nil, err
		}
	}

	if _, err := p.expect(TOKEN_EQ); err != nil {
		return nil, err
	}
	body, err := p.ParseExpression(0)
	if err != nil {
		return nil, err
	}
	node.Right = body
	return node, nil
}

// parseDim parses DIM a(n[,m]) [, b(n)...]
func (p *Parser) parseDim() (*Node, error) {
	tok := p.current
	p.nextToken()
	node := &Node{Kind: NODE_DIM, Value: tok.Value, Pos: tok.Pos, Len: tok.Len}
	for {
		arr, err := p.parseVariable()
		if err != nil {
			return nil, err
		}
		if arr.Kind != NODE_ARRAY {
			return nil, &SyntaxError{Message: "Expected array dimensions", Value: arr.Value, Pos: arr.Pos}
		}
		node.Args = append(node.Args, arr)
		if p.current.Type != TOKEN_COMMA {
			break
		}
		p.nextToken()
	}
	return node, nil
}

// parseRun parses RUN [line | "file"]
func (p *Parser) parseRun() (*Node, error) {
	tok := p.current
	p.nextToken()
	node := &Node{Kind: NODE_RUN, Value: tok.Value, Pos: tok.Pos, Len: tok.Len}
	if p.current.Type == TOKEN_NUMBER {
		node.Args = []*Node{p.parseLineNumber()}
		return node, nil
	}
	args, err := p.parseArguments()
	if err != nil {
		return nil, err
	}
	node.Args = args
	return node, nil
}

// parseChain parses CHAIN [MERGE] file[, line]
func (p *Parser) parseChain() (*Node, error) {
	tok := p.current
	p.nextToken()
	node := &Node{Kind: NODE_CHAIN, Value: tok.Value, Pos: tok.Pos, Len: tok.Len}
	if p.isKeyword("MERGE") {
		p.nextToken()
		node.Kind = NODE_CHAIN_MERGE
	}
	args, err := p.parseArguments()
	if err != nil {
		return nil, err
	}
	node.Args = args
	return node, nil
}

// parseTimer parses EVERY|AFTER time[,timer] GOSUB n
func (p *Parser) parseTimer(kind Kind) (*Node, error) {
	tok := p.current
	p.nextToken()
	node := &Node{Kind: kind, Value: tok.Value, Pos: tok.Pos, Len: tok.Len}
	for {
		arg, err := p.ParseExpression(0)
		if err != nil {
			return nil, err
		}
		node.Args = append(node.Args, arg)
		if p.current.Type != TOKEN_COMMA {
			break
		}
		p.nextToken()
	}
	if _, err := p.expectKeyword("GOSUB"); err != nil {
		return nil, err
	}
	target, err := p.expectLineNumber()
	if err != nil {
		return nil, err
	}
	node.Right = target
	return node, nil
}

// parseLetters parses DEFINT a-c,x and ERASE a,b$ argument lists
func (p *Parser) parseLetters() (*Node, error) {
	tok := p.current
	p.nextToken()
	node := &Node{Kind: NODE_COMMAND, Value: tok.Value, Pos: tok.Pos, Len: tok.Len}
	for !p.atEndOfStatement() {
		first, err := p.expect(TOKEN_IDENTIFIER)
		if err != nil {
			return nil, err
		}
		item := &Node{Kind: NODE_LETTERS, Value: strings.ToLower(first.Value), Pos: first.Pos, Len: first.Len}
		if p.current.Type == TOKEN_MINUS {
			p.nextToken()
			last, err := p.expect(TOKEN_IDENTIFIER)
			if err != nil {
				return nil, err
			}
			item.Value += "-" + strings.ToLower(last.Value)
			item.Len = last.Pos + last.Len - first.Pos
		}
		node.Args = append(node.Args, item)
		if p.current.Type != TOKEN_COMMA {
			break
		}
		p.nextToken()
	}
	return node, nil
}

// parseDataItems splits the raw DATA list into string items. Quotes are
// removed; unquoted items are kept verbatim (trimmed) for READ to convert.
func parseDataItems(tok Token) *Node {
	node := &Node{Kind: NODE_DATA, Value: "DATA", Pos: tok.Pos, Len: tok.Len}
	raw := tok.Literal
	base := tok.Pos + len("DATA")

	start := 0
	inQuote := false
	flush := func(end int) {
		item := raw[start:end]
		trimmed := strings.TrimSpace(item)
		offset := base + start + len(item) - len(strings.TrimLeft(item, " \t"))
		value := trimmed
		if strings.HasPrefix(trimmed, "\"") {
			value = strings.TrimSuffix(strings.TrimPrefix(trimmed, "\""), "\"")
		}
		node.Args = append(node.Args, &Node{Kind: NODE_STRING, Value: value, Pos: offset, Len: len(trimmed)})
	}
	for i := 0; i < len(raw); i++ {
		switch raw[i] {
		case '"':
			inQuote = !inQuote
		case ',':
			if !inQuote {
				flush(i)
				start = i + 1
			}
		}
	}
	if strings.TrimSpace(raw) != "" || len(node.Args) > 0 {
		flush(len(raw))
	}
	return node
}
