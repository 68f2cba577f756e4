package script

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/participle/v2/lexer"

	"github.com/ironsheep/simpleimage/internal/imaging"
)

// Runner executes scripts.
type Runner struct {
	// Config is passed to every document the script opens or creates.
	Config imaging.Config

	// Dir resolves relative paths in load, overlay and save. Empty means
	// the working directory.
	Dir string
}

// Result is the outcome of a successful run.
type Result struct {
	// Doc is the final document. The caller owns it and should Close it.
	Doc *imaging.Document

	// Saved lists the files written by save statements, in order.
	Saved []string
}

// session holds the state of one run.
type session struct {
	cfg   imaging.Config
	dir   string
	saved []string
}

func (s *session) path(p string) string {
	if s.dir == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(s.dir, p)
}

// instruction is a bound statement ready to run.
type instruction struct {
	name  string
	pos   lexer.Position
	open  func() (*imaging.Document, error)
	apply func(*imaging.Document) (*imaging.Document, error)
}

// compile binds every statement to its command. All argument errors are
// reported before any image work starts.
func (s *session) compile(sc *Script) ([]instruction, error) {
	var out []instruction
	for _, stmt := range sc.Statements {
		name := strings.ToLower(stmt.Command)
		cmd, ok := commands[name]
		if !ok {
			return nil, fmt.Errorf("%s: unknown command %q", stmt.Pos, stmt.Command)
		}
		c, err := bind(stmt, cmd)
		if err != nil {
			return nil, err
		}

		in := instruction{name: name, pos: stmt.Pos}
		if cmd.open != nil {
			in.open = func() (*imaging.Document, error) { return cmd.open(s, c) }
		} else {
			fn, err := cmd.apply(s, c)
			if err != nil {
				return nil, fmt.Errorf("%s: %s: %w", stmt.Pos, name, err)
			}
			in.apply = fn
		}
		out = append(out, in)
	}

	if len(out) == 0 {
		return nil, fmt.Errorf("script is empty")
	}
	if out[0].open == nil {
		return nil, fmt.Errorf("%s: script must start with load or new", out[0].pos)
	}
	return out, nil
}

// Run executes sc. A script starts with load or new; every following
// statement transforms the current document through an imaging.Chain. A
// later load or new replaces the current document.
func (r *Runner) Run(sc *Script) (*Result, error) {
	s := &session{cfg: r.Config, dir: r.Dir}
	program, err := s.compile(sc)
	if err != nil {
		return nil, err
	}

	var (
		chain   *imaging.Chain
		sources []*imaging.Document
	)
	defer func() {
		for _, doc := range sources {
			doc.Close()
		}
	}()

	for _, in := range program {
		if in.open == nil {
			apply := in.apply
			pos := in.pos
			chain.Then(in.name, func(d *imaging.Document) (*imaging.Document, error) {
				next, err := apply(d)
				if err != nil {
					return nil, fmt.Errorf("%s: %w", pos, err)
				}
				return next, nil
			})
			continue
		}

		if chain != nil {
			prev, err := chain.Finalize()
			if err != nil {
				return nil, err
			}
			prev.Close()
		}
		doc, err := in.open()
		if err != nil {
			return nil, fmt.Errorf("%s: %s: %w", in.pos, in.name, err)
		}
		sources = append(sources, doc)
		chain = imaging.Edit(doc)
	}

	doc, err := chain.Finalize()
	if err != nil {
		return nil, err
	}
	return &Result{Doc: doc, Saved: s.saved}, nil
}

// RunString parses and runs src.
func (r *Runner) RunString(src string) (*Result, error) {
	sc, err := ParseString("", src)
	if err != nil {
		return nil, fmt.Errorf("failed to parse script: %w", err)
	}
	return r.Run(sc)
}

// RunFile parses and runs the script at path. When r.Dir is empty, relative
// paths in the script resolve against the script's directory.
func (r *Runner) RunFile(path string) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open script: %w", err)
	}
	defer f.Close()

	sc, err := Parse(filepath.Base(path), f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse script: %w", err)
	}

	runner := *r
	if runner.Dir == "" {
		runner.Dir = filepath.Dir(path)
	}
	return runner.Run(sc)
}
