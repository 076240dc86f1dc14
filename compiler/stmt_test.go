package compiler

import (
	"strings"
	"testing"

	"cpcbasic/parser"
	"github.com/nalgeon/be"
)

func TestStatements(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"print", "10 PRINT 1,2;", `o.print(0, 1, o.commaTab(0), 2);`},
		{"print stream", `10 PRINT #2,"x";SPC(3);a`, `o.print(2, "x", o.spc(2, 3), v.a, "\r\n");`},
		{"print using", `10 PRINT USING "##";n%`, `o.print(0, o.using("##", v.nI), "\r\n");`},
		{"read", "10 READ a$,b%", `v.a$ = o.read("a$"); v.bI = o.read("bI");`},
		{"dim", "10 DIM a(10),b$(2,3)", `o.dim("aA", 10); o.dim("b$AA", 2, 3);`},
		{"dim real size", "10 DIM a(n!)", `o.dim("aA", o.vmRound(v.nR));`},
		{"def fn", "10 DEF FNd(x)=x*2", `v.fnd = function (x) { return x * 2; };`},
		{"def fn integer", "10 DEF FNi%(x)=x/2", `v.fniI = function (x) { return o.vmRound(x / 2); };`},
		{"def fn reserved param", "10 DEF FNf(this)=this+1", `v.fnf = function (this_) { return this_ + 1; };`},
		{"fn call", "10 DEF FNd(x)=x*2:a=FNd(3)", `v.a = o.vmAssign("a", v.fnd(3));`},
		{"error", "10 ERROR 5", `o.error(5); break;`},
		{"on error off", "10 ON ERROR GOTO 0", `o.onErrorGoto(0);`},
		{"tron", "10 TRON", `o.tron();`},
		{"troff", "10 TROFF", `o.troff();`},
		{"end", "10 END", `o.end("10s0"); break;` + "\n" + `case "10s0":`},
		{"stop", "10 STOP", `o.stop("10s0"); break;` + "\n" + `case "10s0":`},
		{"run file", `10 RUN "prog"`, `o.run("prog"); break;`},
		{"chain", `10 CHAIN "x",100`, `o.chain("x", 100); break;`},
		{"every", "10 EVERY 50 GOSUB 10", `o.every(50, 0, 10);`},
		{"after with timer", "10 AFTER 100,2 GOSUB 10", `o.after(100, 2, 10);`},
		{"known rsx", "10 |MODE,1", `o.rsx.mode(1); o.goto("10s0"); break;` + "\n" + `case "10s0":`},
		{"dotted rsx", "10 |DISC.IN", `o.rsx.disc_in();`},
		{"command", "10 MODE 1:CLS", `o.mode(1); o.cls();`},
		{"two word command", "10 GRAPHICS PEN 1", `o.graphicsPen(1);`},
		{"letters", "10 DEFINT a-c,z", `o.defint("a-c", "z");`},
		{"suspend command", "10 CLEAR INPUT", `o.clearInput(); o.goto("10s0"); break;` + "\n" + `case "10s0":`},
		{"randomize asks", "10 RANDOMIZE", `o.randomize(); o.goto("10s0"); break;`},
		{"randomize seed", "10 RANDOMIZE 5", "o.randomize(5);\n"},
		{"rem", "10 REM nothing", "o.l = 10;\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text := fragment(t, tt.src)
			if !strings.Contains(text, tt.want) {
				t.Errorf("%s:\ngot  %s\nwant %s", tt.src, text, tt.want)
			}
		})
	}
}

func TestFor(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			"integer literals", "10 FOR i%=1 TO 10\n20 NEXT",
			`/* case 10: */ o.l = 10; v.iI = 1; o.goto("10f0b"); break;` + "\n" +
				`case "10f0": v.iI += 1;` + "\n" +
				`case "10f0b": if (v.iI > 10) { o.goto("10f0e"); break; }` + "\n" +
				`/* case 20: */ o.l = 20; o.goto("10f0"); break;` + "\n" +
				`case "10f0e":` + "\n",
		},
		{
			"variable end", "10 FOR i%=1 TO n!\n20 NEXT i%",
			`v.iI = 1; v.iIEnd = o.vmRound(v.nR); o.goto("10f0b"); break;` + "\n" +
				`case "10f0": v.iI += 1;` + "\n" +
				`case "10f0b": if (v.iI > v.iIEnd) {`,
		},
		{
			"real literal into integer loop", "10 FOR i%=1 TO 2.5:NEXT",
			`v.iIEnd = o.vmRound(2.5);`,
		},
		{
			"real loop", "10 FOR x!=0 TO 1 STEP 0.1:NEXT",
			`v.xR = 0; o.goto("10f0b"); break;` + "\n" +
				`case "10f0": v.xR += 0.1;` + "\n" +
				`case "10f0b": if (v.xR > 1) {`,
		},
		{
			"negative step", "10 FOR i=10 TO 1 STEP -1:NEXT",
			`case "10f0": v.i += -1;` + "\n" + `case "10f0b": if (v.i < 1) {`,
		},
		{
			"zero step", "10 FOR i=1 TO 5 STEP 0:NEXT",
			`case "10f0b": if (v.i > 5) {`,
		},
		{
			"variable step", "10 FOR i=1 TO 5 STEP s:NEXT",
			`v.i = o.vmAssign("i", 1); v.iStep = v.s; o.goto("10f0b"); break;` + "\n" +
				`case "10f0": v.i += v.iStep;` + "\n" +
				`case "10f0b": if ((v.iStep < 0 ? v.i < 5 : v.i > 5)) {`,
		},
		{
			"nested next", "10 FOR i=1 TO 2:FOR j=1 TO 2:NEXT j,i",
			`o.goto("10f1"); break;` + "\n" + `case "10f1e": o.goto("10f0"); break;` + "\n" + `case "10f0e":`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text := fragment(t, tt.src)
			if !strings.Contains(text, tt.want) {
				t.Errorf("%s:\ngot  %s\nwant %s", tt.src, text, tt.want)
			}
		})
	}
}

func TestForShadowVariables(t *testing.T) {
	res := compile(t, "10 FOR i%=1 TO n STEP s:NEXT", Options{})
	be.Equal(t, res.Variables, []string{"iI", "iIEnd", "iIStep", "n", "s"})
}

func TestNextErrors(t *testing.T) {
	err := compileErr(t, "10 NEXT", Options{})
	be.Equal(t, err.Kind, ERR_STRUCTURAL)
	be.Equal(t, err.Message, "Unexpected NEXT")
	be.Equal(t, err.Pos, 3)

	err = compileErr(t, "10 FOR i=1 TO 2\n20 NEXT j", Options{})
	be.Equal(t, err.Message, "Unexpected NEXT variable")
	be.Equal(t, err.Value, "j")
	be.Equal(t, err.Pos, 19)
	be.Equal(t, err.Line, "20")

	err = compileErr(t, "10 FOR i=1 TO 2:NEXT i,j", Options{})
	be.Equal(t, err.Message, "Unexpected NEXT")
}

func TestForTypeError(t *testing.T) {
	err := compileErr(t, `10 FOR i=1 TO "x":NEXT`, Options{})
	be.Equal(t, err.Kind, ERR_TYPE)
	be.Equal(t, err.Pos, 14)
}

func TestWhile(t *testing.T) {
	text := fragment(t, "10 WHILE a<5:a=a+1:WEND")
	want := `/* case 10: */ o.l = 10;` + "\n" +
		`case "10w0": if (!(v.a < 5 ? -1 : 0)) { o.goto("10w0e"); break; } v.a = o.vmAssign("a", v.a + 1); o.goto("10w0"); break;` + "\n" +
		`case "10w0e":` + "\n"
	be.Equal(t, text, want)

	err := compileErr(t, "10 WEND", Options{})
	be.Equal(t, err.Message, "Unexpected WEND")
	be.Equal(t, err.Pos, 3)
}

func TestGosubReturn(t *testing.T) {
	text := fragment(t, "10 GOSUB 20\n20 RETURN")
	be.Equal(t, text, `/* case 10: */ o.l = 10; o.gosub("10g0", 20); break;`+"\n"+
		`case "10g0":`+"\n"+
		`case 20: o.l = 20; o.return(); break;`+"\n")
}

func TestOnJump(t *testing.T) {
	res := compile(t, "10 ON n GOSUB 20,30\n20 RETURN\n30 RETURN", Options{NoOuterFrame: true})
	be.True(t, strings.Contains(res.Text, `o.onGosub("10g0", o.vmRound(v.n), 20, 30); break;`+"\n"+`case "10g0":`))
	be.Equal(t, res.Lines, []LineRef{{"10", 0}, {"20", 1}, {"30", 1}})

	text := fragment(t, "10 ON n% GOTO 10")
	be.True(t, strings.Contains(text, `o.onGoto("10g0", v.nI, 10); break;`))

	err := compileErr(t, "10 ON n GOTO 20", Options{})
	be.Equal(t, err.Kind, ERR_REFERENCE)
}

func TestIf(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			"simple", "10 IF a THEN b=1 ELSE b=2",
			`if (v.a) { v.b = o.vmAssign("b", 1); } else { v.b = o.vmAssign("b", 2); }`,
		},
		{
			"simple without else", "10 IF a% THEN PRINT 1",
			`if (v.aI) { o.print(0, 1, "\r\n"); }` + "\n",
		},
		{
			"transfer", "10 IF a THEN 20 ELSE PRINT 1\n20 END",
			`if (v.a) { o.goto("10i0"); break; } o.print(0, 1, "\r\n"); o.goto("10i1"); break;` + "\n" +
				`case "10i0": o.goto(20); break;` + "\n" +
				`case "10i1":` + "\n" +
				`case 20: o.l = 20;`,
		},
		{
			"transfer without else", "10 IF a THEN GOSUB 10",
			`if (v.a) { o.goto("10i0"); break; } o.goto("10i1"); break;` + "\n" +
				`case "10i0": o.gosub("10g0", 10); break;` + "\n" +
				`case "10g0":` + "\n" +
				`case "10i1":`,
		},
		{
			"nested transfer", "10 IF a THEN IF b THEN GOTO 10",
			`case "10i0": if (v.b) { o.goto("10i2"); break; } o.goto("10i3"); break;`,
		},
		{
			"suspend command in branch", "10 IF a THEN CLS:CALL 0",
			`case "10i0": o.cls(); o.call(0); o.goto("10s0"); break;`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text := fragment(t, tt.src)
			if !strings.Contains(text, tt.want) {
				t.Errorf("%s:\ngot  %s\nwant %s", tt.src, text, tt.want)
			}
		})
	}
}

// Branches compile in source order: THEN allocates labels first and
// reports its errors first
func TestIfBranchOrder(t *testing.T) {
	text := fragment(t, "10 IF a THEN GOSUB 10 ELSE GOSUB 10")
	be.True(t, strings.Contains(text, `o.gosub("10g1", 10); break;`+"\n"+`case "10g1": o.goto("10i1"); break;`))
	be.True(t, strings.Contains(text, `case "10i0": o.gosub("10g0", 10); break;`))

	text = fragment(t, "10 IF a THEN FOR i%=1 TO 2:NEXT ELSE FOR j%=1 TO 2:NEXT")
	be.True(t, strings.Contains(text, `case "10i0": v.iI = 1; o.goto("10f0b"); break;`))
	be.True(t, strings.Contains(text, `v.jI = 1; o.goto("10f1b"); break;`))

	err := compileErr(t, "10 IF a THEN GOTO 99 ELSE GOTO 98", Options{})
	be.Equal(t, err.Kind, ERR_REFERENCE)
	be.Equal(t, err.Value, "99")
}

func TestInput(t *testing.T) {
	text := fragment(t, `10 INPUT "Name";n$`)
	be.True(t, strings.Contains(text, `o.goto("10s0"); break;`+"\n"+
		`case "10s0": o.input(0, "", "Name? ", "n$"); o.goto("10s1"); break;`+"\n"+
		`case "10s1": v.n$ = o.vmGetNextInput("n$");`))

	text = fragment(t, "10 INPUT;a,b")
	be.True(t, strings.Contains(text, `o.input(0, ";", "? ", "a", "b");`))
	be.True(t, strings.Contains(text, `v.a = o.vmGetNextInput("a"); v.b = o.vmGetNextInput("b");`))

	text = fragment(t, `10 LINE INPUT #1,"> ",s$`)
	be.True(t, strings.Contains(text, `o.lineInput(1, "", "> ", "s$");`))

	err := compileErr(t, "10 LINE INPUT a%", Options{})
	be.Equal(t, err.Kind, ERR_TYPE)
	be.Equal(t, err.Pos, 14)
}

func TestRestore(t *testing.T) {
	res := compile(t, "10 RESTORE 20\n20 DATA 1", Options{NoOuterFrame: true})
	be.True(t, strings.Contains(res.Text, "o.restore(20);"))
	be.True(t, strings.Contains(res.Text, "/* case 20: */"))
	be.Equal(t, res.Lines[1], LineRef{Line: "20", Refs: 0})

	be.True(t, strings.Contains(fragment(t, "10 RESTORE"), "o.restore();"))

	err := compileErr(t, "10 RESTORE 30", Options{})
	be.Equal(t, err.Kind, ERR_REFERENCE)
	be.Equal(t, err.Pos, 11)
}

func TestRunCountsReference(t *testing.T) {
	res := compile(t, "10 PRINT\n20 RUN 10", Options{NoOuterFrame: true})
	be.True(t, strings.HasPrefix(res.Text, "case 10: o.l = 10;"))
	be.True(t, strings.Contains(res.Text, "o.run(10); break;"))
}

func TestDefFnScope(t *testing.T) {
	c := New(Options{Quiet: true, NoOuterFrame: true})
	prog, err := parser.NewParser("10 DEF FNf(x$)=x$-1").ParseProgram()
	be.Err(t, err, nil)
	_, err = c.CompileProgram(prog)
	be.Err(t, err)
	be.True(t, c.scope == nil)

	// the parameter shadows the variable only inside the body
	text := fragment(t, "10 DEF FNf(x)=x+1:y=x")
	be.True(t, strings.Contains(text, `return x + 1;`))
	be.True(t, strings.Contains(text, `v.y = o.vmAssign("y", v.x);`))
}

func TestDefFnTypeError(t *testing.T) {
	err := compileErr(t, `10 DEF FNa$(x)=2*3`, Options{})
	be.Equal(t, err.Kind, ERR_TYPE)
	be.Equal(t, err.Pos, 3)
}
