package qasm

import (
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var qasmLexer = lexer.MustSimple([]lexer.SimpleRule{
	{"Comment", `//[^\n]*`},
	{"String", `"[^"]*"`},
	{"Float", `(\d+\.\d*|\.\d+)([eE][-+]?\d+)?|\d+[eE][-+]?\d+`},
	{"Int", `\d+`},
	{"Arrow", `->`},
	{"Eq", `==`},
	{"Ident", `[a-zA-Z_][a-zA-Z0-9_]*`},
	{"Punct", `[;,(){}\[\]+\-*/^]`},
	{"Whitespace", `\s+`},
})

var parser = participle.MustBuild[program](
	participle.Lexer(qasmLexer),
	participle.Elide("Comment", "Whitespace"),
	participle.Unquote("String"),
)

type program struct {
	Version    string       `"OPENQASM" @(Float | Int) ";"`
	Statements []*statement `@@*`
}

type statement struct {
	Pos lexer.Position

	Include *string    `(  "include" @String ";"`
	QReg    *regDecl   ` | "qreg" @@ ";"`
	CReg    *regDecl   ` | "creg" @@ ";"`
	GateDef *gateDef   ` | "gate" @@`
	Opaque  *signature ` | "opaque" @@ ";"`
	If      *ifStmt    ` | "if" @@`
	Barrier *argList   ` | "barrier" @@ ";"`
	Op      *quantumOp ` | @@ )`
}

// quantumOp is an operation that may stand alone or follow an if.
type quantumOp struct {
	Measure *measure  `(  "measure" @@ ";"`
	Reset   *argument ` | "reset" @@ ";"`
	Gate    *gateCall ` | @@ ";" )`
}

type ifStmt struct {
	Reg   string     `"(" @Ident Eq`
	Value int        `@Int ")"`
	Op    *quantumOp `@@`
}

type regDecl struct {
	Name string `@Ident`
	Size int    `"[" @Int "]"`
}

// signature is the head shared by gate and opaque declarations.
type signature struct {
	Name   string   `@Ident`
	Params []string `( "(" ( @Ident ( "," @Ident )* )? ")" )?`
	Args   []string `@Ident ( "," @Ident )*`
}

type gateDef struct {
	Sig  *signature `@@`
	Body []*bodyOp  `"{" @@* "}"`
}

type bodyOp struct {
	Pos lexer.Position

	Barrier *argList  `(  "barrier" @@ ";"`
	Gate    *gateCall ` | @@ ";" )`
}

type argument struct {
	Reg   string `@Ident`
	Index *int   `( "[" @Int "]" )?`
}

type argList struct {
	Args []*argument `@@ ( "," @@ )*`
}

type measure struct {
	Qubit *argument `@@ Arrow`
	Clbit *argument `@@`
}

type gateCall struct {
	Name   string   `@Ident`
	Params []*expr  `( "(" ( @@ ( "," @@ )* )? ")" )?`
	Args   *argList `@@`
}

// expr keeps a parameter expression as a token sequence; parameters are
// carried through routing untouched.
type expr struct {
	Terms []*term `@@+`
}

type term struct {
	Atom string `  @( Float | Int | Ident | "+" | "-" | "*" | "/" | "^" )`
	Sub  *expr  `| "(" @@ ")"`
}

func (e *expr) String() string { return e.render(nil) }

// render prints e with every identifier found in bind replaced by its bound
// expression. A bound expression is parenthesised when it has operators and
// e is more than the bare identifier.
func (e *expr) render(bind map[string]string) string {
	if len(e.Terms) == 1 {
		if v, ok := bind[e.Terms[0].Atom]; ok && e.Terms[0].Sub == nil {
			return v
		}
	}
	var b strings.Builder
	for _, t := range e.Terms {
		switch v, ok := bind[t.Atom]; {
		case t.Sub != nil:
			b.WriteString("(" + t.Sub.render(bind) + ")")
		case ok && strings.ContainsAny(v, "+-*/^ "):
			b.WriteString("(" + v + ")")
		case ok:
			b.WriteString(v)
		default:
			b.WriteString(t.Atom)
		}
	}
	return b.String()
}
