package compiler

import (
	"strings"
	"testing"

	"cpcbasic/types"
	"github.com/nalgeon/be"
)

func TestNumberLiteral(t *testing.T) {
	tests := []struct {
		in   string
		text string
		typ  types.TypeTag
	}{
		{"42", "42", types.TYPE_INT},
		{"32767", "32767", types.TYPE_INT},
		{"40000", "40000", types.TYPE_REAL},
		{"007", "7", types.TYPE_INT},
		{"1.5", "1.5", types.TYPE_REAL},
		{".5", "0.5", types.TYPE_REAL},
		{"00.25", "0.25", types.TYPE_REAL},
		{"2E3", "2E3", types.TYPE_REAL},
		{"99999999999999999999", "99999999999999999999", types.TYPE_REAL},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			text, typ := numberLiteral(tt.in)
			be.Equal(t, text, tt.text)
			be.Equal(t, typ, tt.typ)
		})
	}
}

func TestExpressions(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"integer add", "10 a%=b%+c%", "v.aI = v.bI + v.cI;"},
		{"mixed add widens", "10 a!=b%+c!", "v.aR = v.bI + v.cR;"},
		{"real into integer", "10 a%=b!*2", "v.aI = o.vmRound(v.bR * 2);"},
		{"mod rounds real", "10 a%=b! MOD c%", "v.aI = o.vmRound(v.bR) % v.cI;"},
		{"integer division", `10 a%=b%\c%`, "v.aI = v.bI / v.cI | 0;"},
		{"and unknown", "10 a=b AND c", `v.a = o.vmAssign("a", o.vmRound(v.b) & o.vmRound(v.c));`},
		{"unknown plus int", "10 a%=b+1", `v.aI = o.vmAssign("aI", v.b + 1);`},
		{"unknown plus real", "10 a%=b+1.5", "v.aI = o.vmRound(v.b + 1.5);"},
		{"xor", "10 a%=b% XOR 1", "v.aI = v.bI ^ 1;"},
		{"divide is real", "10 a%=4/2", "v.aI = o.vmRound(4 / 2);"},
		{"power", "10 a!=2^3", "v.aR = Math.pow(2, 3);"},
		{"compare", "10 a=b<>c", `v.a = o.vmAssign("a", v.b !== v.c ? -1 : 0);`},
		{"compare strings", `10 a%=b$="x"`, `v.aI = v.b$ === "x" ? -1 : 0;`},
		{"nested binary", "10 a!=(b!+1)*c!-2", "v.aR = ((v.bR + 1) * v.cR) - 2;"},
		{"operand precedence", "10 a!=b!*(c!+1)", "v.aR = v.bR * (v.cR + 1);"},
		{"comparison operand", "10 a%=(b%>1)+1", "v.aI = (v.bI > 1 ? -1 : 0) + 1;"},
		{"concat", `10 a$=b$+"x"`, `v.a$ = v.b$ + "x";`},
		{"negate", "10 a%=-b%", "v.aI = -v.bI;"},
		{"double negate", "10 a%=-(-1)", "v.aI = -(-1);"},
		{"negate binary", "10 a!=-b!^2", "v.aR = -Math.pow(v.bR, 2);"},
		{"not integer", "10 a%=NOT b%", "v.aI = ~v.bI;"},
		{"not real", "10 a%=NOT b!", "v.aI = ~o.vmRound(v.bR);"},
		{"not comparison", "10 a%=NOT b%=1", "v.aI = ~(v.bI === 1 ? -1 : 0);"},
		{"hex and bin", "10 a%=&FF+&X10", "v.aI = 0xff + 0b10;"},
		{"string literal", `10 a$="c:\x"`, `v.a$ = "c:\\x";`},
		{"function types", "10 a%=LEN(b$)", "v.aI = o.len(v.b$);"},
		{"string function", "10 a$=LEFT$(b$,2)", "v.a$ = o.left$(v.b$, 2);"},
		{"real function", "10 a!=SIN(1)", "v.aR = o.sin(1);"},
		{"system function", "10 t!=TIME", "v.tR = o.time();"},
		{"stream argument", "10 a%=EOF(#9)", "v.aI = o.eof(9);"},
		{"address", "10 a%=@b$", `v.aI = o.addressOf("b$");`},
		{"array", "10 a(1,i!)=2", `v.aAA[1][o.vmRound(v.iR)] = o.vmAssign("aAA", 2);`},
		{"array read", "10 x$=b$(n%)", "v.x$ = v.b$A[v.nI];"},
		{"dotted name", "10 my.var!=1", "v.my_varR = 1;"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text := fragment(t, tt.src)
			if !strings.Contains(text, tt.want) {
				t.Errorf("compile %q\n got  %s\n want %s", tt.src, text, tt.want)
			}
		})
	}
}

func TestExpressionTypeErrors(t *testing.T) {
	tests := []struct {
		src string
		pos int
	}{
		{"10 a=b$<1", 7},
		{"10 a=b$-c$", 7},
		{"10 a=-b$", 5},
		{"10 a=NOT b$", 5},
		{"10 a=b$ AND 1", 8},
		{`10 a=c(x$)`, 7},
		{`10 IF a$ THEN PRINT`, 6},
		{`10 PRINT USING 1;a`, 15},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			err := compileErr(t, tt.src, Options{})
			be.Equal(t, err.Kind, ERR_TYPE)
			be.Equal(t, err.Message, "Type error")
			be.Equal(t, err.Pos, tt.pos)
		})
	}
}
