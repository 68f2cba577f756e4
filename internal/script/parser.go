package script

import (
	"fmt"
	"io"
	"strconv"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var (
	scriptLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Whitespace", Pattern: `[ \t\r]+`},
		{Name: "Newline", Pattern: `\n+`},
		{Name: "Comment", Pattern: `#[^\n]*`},
		{Name: "Number", Pattern: `[-+]?(?:\d+\.\d*|\.\d+|\d+)`},
		{Name: "String", Pattern: `"(?:\\.|[^"])*"`},
		{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_-]*`},
	})

	scriptParser = participle.MustBuild[Script](
		participle.Lexer(scriptLexer),
		participle.Elide("Whitespace", "Comment"),
	)
)

// Script is the root AST node of a pipeline script.
type Script struct {
	Statements []*Statement `parser:"( @@ | Newline )*"`
}

// Statement is one command line: a command name followed by its arguments.
type Statement struct {
	Pos     lexer.Position `parser:"" json:"-"`
	Command string         `parser:"@Ident"`
	Args    []*Arg         `parser:"@@*"`
}

// Arg is a single argument token.
type Arg struct {
	Pos    lexer.Position `parser:"" json:"-"`
	String *StringLiteral `parser:"  @String"`
	Number *string        `parser:"| @Number"`
	Word   *string        `parser:"| @Ident"`
}

// Text returns the argument as written, with strings unquoted.
func (a *Arg) Text() string {
	switch {
	case a.String != nil:
		return string(*a.String)
	case a.Number != nil:
		return *a.Number
	case a.Word != nil:
		return *a.Word
	}
	return ""
}

// Float parses the argument as a number.
func (a *Arg) Float() (float64, error) {
	if a.Number == nil {
		return 0, fmt.Errorf("%s: expected a number, got %q", a.Pos, a.Text())
	}
	v, err := strconv.ParseFloat(*a.Number, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", a.Pos, err)
	}
	return v, nil
}

// Int parses the argument as a number and truncates it.
func (a *Arg) Int() (int, error) {
	v, err := a.Float()
	return int(v), err
}

// StringLiteral unquotes Go-style strings on capture.
type StringLiteral string

// Capture implements participle.Capture.
func (s *StringLiteral) Capture(values []string) error {
	if len(values) == 0 {
		return fmt.Errorf("string literal capture requires value")
	}
	val, err := strconv.Unquote(values[0])
	if err != nil {
		return err
	}
	*s = StringLiteral(val)
	return nil
}

// Parse parses a script from r. name is used in error positions.
func Parse(name string, r io.Reader) (*Script, error) {
	return scriptParser.Parse(name, r)
}

// ParseString parses a script held in a string.
func ParseString(name, input string) (*Script, error) {
	return scriptParser.ParseString(name, input)
}
