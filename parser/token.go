package parser

// TokenType represents different types of lexical tokens
type TokenType int

const (
	// Special tokens
	TOKEN_EOF TokenType = iota
	TOKEN_ILLEGAL
	TOKEN_NEWLINE

	// Literals
	TOKEN_NUMBER // 42, 1.5, 2E3
	TOKEN_HEX    // &FF, &HFF
	TOKEN_BIN    // &X101
	TOKEN_STRING // "hello"

	// Words
	TOKEN_IDENTIFIER // a, b$, c%, d!
	TOKEN_KEYWORD    // PRINT, GOTO, LEFT$ ... (Value is upper case)
	TOKEN_RSX        // |DIR
	TOKEN_REM        // REM or ' (Literal holds the comment)
	TOKEN_DATA       // DATA (Literal holds the raw item list)

	// Operators
	TOKEN_PLUS      // +
	TOKEN_MINUS     // -
	TOKEN_STAR      // *
	TOKEN_SLASH     // /
	TOKEN_BACKSLASH // \
	TOKEN_CARET     // ^
	TOKEN_EQ        // =
	TOKEN_NE        // <>
	TOKEN_LT        // <
	TOKEN_GT        // >
	TOKEN_LE        // <=
	TOKEN_GE        // >=
	TOKEN_AT        // @

	// Delimiters
	TOKEN_LPAREN    // (
	TOKEN_RPAREN    // )
	TOKEN_COMMA     // ,
	TOKEN_SEMICOLON // ;
	TOKEN_COLON     // :
	TOKEN_HASH      // #
)

// Token represents a lexical token
type Token struct {
	Type    TokenType
	Value   string // raw lexeme (keywords upper-cased)
	Literal string // decoded string value (TOKEN_STRING, TOKEN_REM, TOKEN_DATA)
	Pos     int    // byte offset in the source
	Len     int    // length of the lexeme in bytes
}

var tokenNames = [...]string{
	TOKEN_EOF:        "EOF",
	TOKEN_ILLEGAL:    "ILLEGAL",
	TOKEN_NEWLINE:    "NEWLINE",
	TOKEN_NUMBER:     "NUMBER",
	TOKEN_HEX:        "HEX",
	TOKEN_BIN:        "BIN",
	TOKEN_STRING:     "STRING",
	TOKEN_IDENTIFIER: "IDENTIFIER",
	TOKEN_KEYWORD:    "KEYWORD",
	TOKEN_RSX:        "RSX",
	TOKEN_REM:        "REM",
	TOKEN_DATA:       "DATA",
	TOKEN_PLUS:       "PLUS",
	TOKEN_MINUS:      "MINUS",
	TOKEN_STAR:       "STAR",
	TOKEN_SLASH:      "SLASH",
	TOKEN_BACKSLASH:  "BACKSLASH",
	TOKEN_CARET:      "CARET",
	TOKEN_EQ:         "EQ",
	TOKEN_NE:         "NE",
	TOKEN_LT:         "LT",
	TOKEN_GT:         "GT",
	TOKEN_LE:         "LE",
	TOKEN_GE:         "GE",
	TOKEN_AT:         "AT",
	TOKEN_LPAREN:     "LPAREN",
	TOKEN_RPAREN:     "RPAREN",
	TOKEN_COMMA:      "COMMA",
	TOKEN_SEMICOLON:  "SEMICOLON",
	TOKEN_COLON:      "COLON",
	TOKEN_HASH:       "HASH",
}

// String returns a string representation of the token type
func (t TokenType) String() string {
	if int(t) < len(tokenNames) {
		return tokenNames[t]
	}
	return "UNKNOWN"
}

// keywords lists the reserved words of the dialect. Statement keywords,
// operators and function names share one namespace; the parser decides by
// context.
var keywords = map[string]bool{}

var statementKeywords = map[string]bool{
	"AFTER": true, "AUTO": true, "BORDER": true, "CALL": true, "CAT": true,
	"CHAIN": true, "CLEAR": true, "CLG": true, "CLOSEIN": true, "CLOSEOUT": true,
	"CLS": true, "CONT": true, "CURSOR": true, "DATA": true, "DEF": true,
	"DEFINT": true, "DEFREAL": true, "DEFSTR": true, "DELETE": true, "DI": true,
	"DIM": true, "DRAW": true, "DRAWR": true, "EDIT": true, "EI": true,
	"ELSE": true, "END": true, "ENT": true, "ENV": true, "ERASE": true,
	"ERROR": true, "EVERY": true, "FILL": true, "FOR": true, "FRAME": true,
	"GOSUB": true, "GOTO": true, "GRAPHICS": true, "IF": true, "INK": true,
	"INPUT": true, "KEY": true, "LET": true, "LINE": true, "LIST": true,
	"LOAD": true, "LOCATE": true, "MASK": true, "MEMORY": true, "MERGE": true,
	"MODE": true, "MOVE": true, "MOVER": true, "NEW": true, "NEXT": true,
	"ON": true, "OPENIN": true, "OPENOUT": true, "ORIGIN": true, "OUT": true,
	"PAPER": true, "PEN": true, "PLOT": true, "PLOTR": true, "POKE": true,
	"PRINT": true, "RANDOMIZE": true, "READ": true, "RELEASE": true, "REM": true,
	"RENUM": true, "RESTORE": true, "RESUME": true, "RETURN": true, "RUN": true,
	"SAVE": true, "SOUND": true, "SPEED": true, "STEP": true, "STOP": true,
	"SYMBOL": true, "TAG": true, "TAGOFF": true, "THEN": true, "TO": true,
	"TROFF": true, "TRON": true, "USING": true, "WAIT": true, "WEND": true,
	"WHILE": true, "WIDTH": true, "WINDOW": true, "WRITE": true, "ZONE": true,
	"FN": true,
}

var operatorKeywords = map[string]bool{
	"AND": true, "MOD": true, "NOT": true, "OR": true, "XOR": true,
}

var functionKeywords = map[string]bool{
	"ABS": true, "ASC": true, "ATN": true, "BIN$": true, "CHR$": true,
	"CINT": true, "COPYCHR$": true, "COS": true, "CREAL": true, "DEC$": true,
	"DEG": true, "DERR": true, "EOF": true, "ERL": true, "ERR": true,
	"EXP": true, "FIX": true, "FRE": true, "HEX$": true, "HIMEM": true,
	"INKEY": true, "INKEY$": true, "INP": true, "INSTR": true, "INT": true,
	"JOY": true, "LEFT$": true, "LEN": true, "LOG": true, "LOG10": true,
	"LOWER$": true, "MAX": true, "MID$": true, "MIN": true, "PEEK": true,
	"PI": true, "POS": true, "RAD": true, "REMAIN": true, "RIGHT$": true,
	"RND": true, "ROUND": true, "SGN": true, "SIN": true, "SPACE$": true,
	"SPC": true, "SQ": true, "SQR": true, "STR$": true, "STRING$": true,
	"TAB": true, "TAN": true, "TEST": true, "TESTR": true, "TIME": true,
	"UNT": true, "UPPER$": true, "VAL": true, "VPOS": true, "XPOS": true,
	"YPOS": true,
}

func init() {
	for _, table := range []map[string]bool{statementKeywords, operatorKeywords, functionKeywords} {
		for k := range table {
			keywords[k] = true
		}
	}
}

// IsKeyword reports whether the upper-case word is reserved
func IsKeyword(word string) bool {
	return keywords[word]
}

// IsFunction reports whether the upper-case word names a built-in function
func IsFunction(word string) bool {
	return functionKeywords[word]
}
