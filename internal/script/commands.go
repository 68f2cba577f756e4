package script

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ironsheep/simpleimage/internal/imaging"
)

// call is a statement with its arguments split into leading positional
// arguments and keyword options. A keyword collects every argument up to the
// next keyword, so "color "#fff" "#f00"" yields two values.
type call struct {
	stmt *Statement
	pos  []*Arg
	opts map[string][]*Arg
}

// command describes one script command.
type command struct {
	usage    string
	min, max int
	keywords []string

	// open starts a new document; apply transforms the current one.
	// Exactly one of them is set.
	open  func(s *session, c *call) (*imaging.Document, error)
	apply func(s *session, c *call) (func(*imaging.Document) (*imaging.Document, error), error)
}

var commands map[string]*command

func init() {
	commands = map[string]*command{
		"load": {
			usage: "load PATH", min: 1, max: 1,
			open: func(s *session, c *call) (*imaging.Document, error) {
				return imaging.Open(s.path(c.pos[0].Text()), s.cfg)
			},
		},
		"new": {
			usage: "new WIDTH [HEIGHT] [color C]", min: 1, max: 2,
			keywords: []string{"color"},
			open: func(s *session, c *call) (*imaging.Document, error) {
				w, err := c.pos[0].Int()
				if err != nil {
					return nil, err
				}
				h, err := c.optionalInt(1, 0)
				if err != nil {
					return nil, err
				}
				var fill any
				if v, ok := c.opts["color"]; ok && len(v) > 0 {
					fill = v[0].Text()
				}
				return imaging.New(w, h, fill, s.cfg)
			},
		},
		"save": {
			usage: "save [PATH] [format F] [quality Q]", min: 0, max: 1,
			keywords: []string{"format", "quality"},
			apply: func(s *session, c *call) (func(*imaging.Document) (*imaging.Document, error), error) {
				path := ""
				if len(c.pos) > 0 {
					path = s.path(c.pos[0].Text())
				}
				format := c.optString("format", "")
				quality, err := c.optInt("quality", 0)
				if err != nil {
					return nil, err
				}
				return func(d *imaging.Document) (*imaging.Document, error) {
					if err := d.Save(path, format, quality); err != nil {
						return nil, err
					}
					out := path
					if out == "" {
						out = d.Info().Path
					}
					s.saved = append(s.saved, out)
					return d, nil
				}, nil
			},
		},
		"resize":          sizeCommand("resize WIDTH HEIGHT", 2, (*imaging.Document).Resize),
		"best_fit":        sizeCommand("best_fit MAX_WIDTH MAX_HEIGHT", 2, (*imaging.Document).BestFit),
		"adaptive_resize": sizeCommand("adaptive_resize WIDTH [HEIGHT]", 1, (*imaging.Document).AdaptiveResize),
		"fit_to_width": intCommand("fit_to_width WIDTH", func(d *imaging.Document, v int) (*imaging.Document, error) {
			return d.FitToWidth(v)
		}),
		"fit_to_height": intCommand("fit_to_height HEIGHT", func(d *imaging.Document, v int) (*imaging.Document, error) {
			return d.FitToHeight(v)
		}),
		"orient": intCommand("orient TAG", func(d *imaging.Document, v int) (*imaging.Document, error) {
			return d.Orient(v)
		}),
		"thumbnail": {
			usage: "thumbnail WIDTH [HEIGHT] [ANCHOR]", min: 1, max: 3,
			apply: func(s *session, c *call) (func(*imaging.Document) (*imaging.Document, error), error) {
				w, err := c.pos[0].Int()
				if err != nil {
					return nil, err
				}
				h := 0
				anchorAt := 1
				if len(c.pos) > 1 && c.pos[1].Number != nil {
					if h, err = c.pos[1].Int(); err != nil {
						return nil, err
					}
					anchorAt = 2
				} else if len(c.pos) > 2 {
					return nil, fmt.Errorf("%s: expected HEIGHT before ANCHOR", c.pos[1].Pos)
				}
				focal := imaging.Center
				if len(c.pos) > anchorAt {
					if focal, err = imaging.ParseAnchor(c.pos[anchorAt].Text()); err != nil {
						return nil, err
					}
				}
				return func(d *imaging.Document) (*imaging.Document, error) {
					return d.Thumbnail(w, h, focal)
				}, nil
			},
		},
		"crop": {
			usage: "crop X1 Y1 X2 Y2", min: 4, max: 4,
			apply: func(s *session, c *call) (func(*imaging.Document) (*imaging.Document, error), error) {
				v, err := c.ints()
				if err != nil {
					return nil, err
				}
				return func(d *imaging.Document) (*imaging.Document, error) {
					return d.Crop(v[0], v[1], v[2], v[3])
				}, nil
			},
		},
		"crop_region": {
			usage: "crop_region NAME", min: 1, max: 1,
			apply: func(s *session, c *call) (func(*imaging.Document) (*imaging.Document, error), error) {
				name := c.pos[0].Text()
				return func(d *imaging.Document) (*imaging.Document, error) {
					return d.CropRegion(name)
				}, nil
			},
		},
		"rotate": {
			usage: "rotate ANGLE [background C]", min: 1, max: 1,
			keywords: []string{"background"},
			apply: func(s *session, c *call) (func(*imaging.Document) (*imaging.Document, error), error) {
				angle, err := c.pos[0].Float()
				if err != nil {
					return nil, err
				}
				var bg any
				if v := c.optString("background", ""); v != "" {
					bg = v
				}
				return func(d *imaging.Document) (*imaging.Document, error) {
					return d.Rotate(angle, bg)
				}, nil
			},
		},
		"flip": {
			usage: "flip x|y|both", min: 1, max: 1,
			apply: func(s *session, c *call) (func(*imaging.Document) (*imaging.Document, error), error) {
				dir := c.pos[0].Text()
				return func(d *imaging.Document) (*imaging.Document, error) {
					return d.Flip(dir)
				}, nil
			},
		},
		"overlay": {
			usage: "overlay PATH [position P] [opacity O] [offset X Y]", min: 1, max: 1,
			keywords: []string{"position", "opacity", "offset"},
			apply: func(s *session, c *call) (func(*imaging.Document) (*imaging.Document, error), error) {
				path := s.path(c.pos[0].Text())
				pos, err := imaging.ParseAnchor(c.optString("position", ""))
				if err != nil {
					return nil, err
				}
				opacity, err := c.optFloat("opacity", 1)
				if err != nil {
					return nil, err
				}
				x, y, err := c.optPair("offset")
				if err != nil {
					return nil, err
				}
				return func(d *imaging.Document) (*imaging.Document, error) {
					other, err := imaging.Open(path, s.cfg)
					if err != nil {
						return nil, err
					}
					defer other.Close()
					return d.Overlay(other, pos, opacity, x, y)
				}, nil
			},
		},
		"opacity": floatCommand("opacity AMOUNT", 1, func(d *imaging.Document, v float64) (*imaging.Document, error) {
			return d.Opacity(v)
		}),
		"desaturate": floatCommand("desaturate [PERCENT]", 0, func(d *imaging.Document, v float64) (*imaging.Document, error) {
			if v == 0 {
				v = 100
			}
			return d.Desaturate(v)
		}),
		"fill": {
			usage: "fill COLOR", min: 1, max: 1,
			apply: func(s *session, c *call) (func(*imaging.Document) (*imaging.Document, error), error) {
				color, err := imaging.Normalize(c.pos[0].Text())
				if err != nil {
					return nil, err
				}
				return func(d *imaging.Document) (*imaging.Document, error) {
					return d.Fill(color)
				}, nil
			},
		},
		"text": {
			usage:    "text STRING [font F] [size S] [color C...] [stroke C...] [width W] [position P] [offset X Y] [align A] [spacing N]",
			min:      1,
			max:      1,
			keywords: []string{"font", "size", "color", "stroke", "width", "position", "offset", "align", "spacing"},
			apply: func(s *session, c *call) (func(*imaging.Document) (*imaging.Document, error), error) {
				run, err := c.textRun()
				if err != nil {
					return nil, err
				}
				return func(d *imaging.Document) (*imaging.Document, error) {
					return d.Text(run)
				}, nil
			},
		},
		"blur": {
			usage: "blur [gaussian|selective] [PASSES]", min: 0, max: 2,
			apply: func(s *session, c *call) (func(*imaging.Document) (*imaging.Document, error), error) {
				kind, passes := "gaussian", 1
				for _, a := range c.pos {
					if a.Number != nil {
						n, err := a.Int()
						if err != nil {
							return nil, err
						}
						passes = n
					} else {
						kind = a.Text()
					}
				}
				return func(d *imaging.Document) (*imaging.Document, error) {
					return d.Blur(kind, passes)
				}, nil
			},
		},
		"grid": {
			usage: "grid [SPACING] [color C] [labels SIZE]", min: 0, max: 1,
			keywords: []string{"color", "labels"},
			apply: func(s *session, c *call) (func(*imaging.Document) (*imaging.Document, error), error) {
				spacing, err := c.optionalInt(0, imaging.DefaultGridSpacing)
				if err != nil {
					return nil, err
				}
				opts := imaging.GridOptions{Spacing: spacing}
				colors, err := c.optColors("color")
				if err != nil {
					return nil, err
				}
				if len(colors) > 0 {
					opts.Color = colors[0]
				}
				if _, ok := c.opts["labels"]; ok {
					opts.Labels = true
					if opts.LabelSize, err = c.optFloat("labels", 0); err != nil {
						return nil, err
					}
				}
				return func(d *imaging.Document) (*imaging.Document, error) {
					return d.Grid(opts)
				}, nil
			},
		},
		"filter": {
			usage: "filter NAME [level N] [kind K] [passes N] [color C] [opacity O]", min: 1, max: 1,
			keywords: filterKeywords,
			apply: func(s *session, c *call) (func(*imaging.Document) (*imaging.Document, error), error) {
				return c.filter(c.pos[0].Text())
			},
		},
		"colorize": {
			usage: "colorize COLOR [opacity O]", min: 1, max: 1,
			keywords: []string{"opacity"},
			apply: func(s *session, c *call) (func(*imaging.Document) (*imaging.Document, error), error) {
				color, err := imaging.Normalize(c.pos[0].Text())
				if err != nil {
					return nil, err
				}
				opacity, err := c.optFloat("opacity", 1)
				if err != nil {
					return nil, err
				}
				return func(d *imaging.Document) (*imaging.Document, error) {
					return d.Colorize(color, opacity)
				}, nil
			},
		},
	}

	// Every remaining filter doubles as a command taking an optional level.
	for _, name := range imaging.FilterNames {
		if _, ok := commands[name]; ok {
			continue
		}
		name := name
		commands[name] = &command{
			usage: name + " [LEVEL]", min: 0, max: 1,
			apply: func(s *session, c *call) (func(*imaging.Document) (*imaging.Document, error), error) {
				if len(c.pos) > 0 {
					c.opts["level"] = c.pos[:1]
				}
				return c.filter(name)
			},
		}
	}
}

var filterKeywords = []string{"level", "kind", "passes", "color", "opacity"}

// Commands returns the sorted command names.
func Commands() []string {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func sizeCommand(usage string, min int, op func(*imaging.Document, int, int) (*imaging.Document, error)) *command {
	return &command{
		usage: usage, min: min, max: 2,
		apply: func(s *session, c *call) (func(*imaging.Document) (*imaging.Document, error), error) {
			w, err := c.pos[0].Int()
			if err != nil {
				return nil, err
			}
			h, err := c.optionalInt(1, w)
			if err != nil {
				return nil, err
			}
			return func(d *imaging.Document) (*imaging.Document, error) {
				return op(d, w, h)
			}, nil
		},
	}
}

func intCommand(usage string, op func(*imaging.Document, int) (*imaging.Document, error)) *command {
	return &command{
		usage: usage, min: 1, max: 1,
		apply: func(s *session, c *call) (func(*imaging.Document) (*imaging.Document, error), error) {
			v, err := c.pos[0].Int()
			if err != nil {
				return nil, err
			}
			return func(d *imaging.Document) (*imaging.Document, error) {
				return op(d, v)
			}, nil
		},
	}
}

func floatCommand(usage string, min int, op func(*imaging.Document, float64) (*imaging.Document, error)) *command {
	return &command{
		usage: usage, min: min, max: 1,
		apply: func(s *session, c *call) (func(*imaging.Document) (*imaging.Document, error), error) {
			v := 0.0
			if len(c.pos) > 0 {
				var err error
				if v, err = c.pos[0].Float(); err != nil {
					return nil, err
				}
			}
			return func(d *imaging.Document) (*imaging.Document, error) {
				return op(d, v)
			}, nil
		},
	}
}

// bind splits the statement's arguments according to cmd.
func bind(stmt *Statement, cmd *command) (*call, error) {
	c := &call{stmt: stmt, opts: map[string][]*Arg{}}
	keyword := ""
	for _, a := range stmt.Args {
		if a.Word != nil && contains(cmd.keywords, strings.ToLower(*a.Word)) {
			keyword = strings.ToLower(*a.Word)
			if _, dup := c.opts[keyword]; dup {
				return nil, fmt.Errorf("%s: %s given twice", a.Pos, keyword)
			}
			c.opts[keyword] = nil
			continue
		}
		if keyword == "" {
			c.pos = append(c.pos, a)
			continue
		}
		c.opts[keyword] = append(c.opts[keyword], a)
	}

	if len(c.pos) < cmd.min || len(c.pos) > cmd.max {
		return nil, fmt.Errorf("%s: usage: %s", stmt.Pos, cmd.usage)
	}
	for k, v := range c.opts {
		if len(v) == 0 {
			return nil, fmt.Errorf("%s: %s needs a value", stmt.Pos, k)
		}
	}
	return c, nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func (c *call) optionalInt(i, def int) (int, error) {
	if len(c.pos) <= i {
		return def, nil
	}
	return c.pos[i].Int()
}

func (c *call) ints() ([]int, error) {
	out := make([]int, len(c.pos))
	for i, a := range c.pos {
		v, err := a.Int()
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (c *call) optString(name, def string) string {
	if v, ok := c.opts[name]; ok {
		return v[0].Text()
	}
	return def
}

func (c *call) optFloat(name string, def float64) (float64, error) {
	if v, ok := c.opts[name]; ok {
		return v[0].Float()
	}
	return def, nil
}

func (c *call) optInt(name string, def int) (int, error) {
	if v, ok := c.opts[name]; ok {
		return v[0].Int()
	}
	return def, nil
}

func (c *call) optPair(name string) (int, int, error) {
	v, ok := c.opts[name]
	if !ok {
		return 0, 0, nil
	}
	if len(v) != 2 {
		return 0, 0, fmt.Errorf("%s: %s takes two values", c.stmt.Pos, name)
	}
	x, err := v[0].Int()
	if err != nil {
		return 0, 0, err
	}
	y, err := v[1].Int()
	if err != nil {
		return 0, 0, err
	}
	return x, y, nil
}

func (c *call) optColors(name string) ([]imaging.Color, error) {
	var out []imaging.Color
	for _, a := range c.opts[name] {
		color, err := imaging.Normalize(a.Text())
		if err != nil {
			return nil, fmt.Errorf("%s: %w", a.Pos, err)
		}
		out = append(out, color)
	}
	return out, nil
}

func (c *call) textRun() (imaging.TextRun, error) {
	run := imaging.TextRun{
		Text: c.pos[0].Text(),
		Font: c.optString("font", ""),
	}

	var err error
	if run.Size, err = c.optFloat("size", 12); err != nil {
		return run, err
	}
	if run.Colors, err = c.optColors("color"); err != nil {
		return run, err
	}
	if run.StrokeColors, err = c.optColors("stroke"); err != nil {
		return run, err
	}
	if run.StrokeWidth, err = c.optInt("width", 1); err != nil {
		return run, err
	}
	if run.Position, err = imaging.ParseAnchor(c.optString("position", "")); err != nil {
		return run, err
	}
	if run.OffsetX, run.OffsetY, err = c.optPair("offset"); err != nil {
		return run, err
	}
	if run.Align, err = imaging.ParseAlignment(c.optString("align", "")); err != nil {
		return run, err
	}
	if run.LetterSpacing, err = c.optInt("spacing", 0); err != nil {
		return run, err
	}
	return run, nil
}

func (c *call) filter(name string) (func(*imaging.Document) (*imaging.Document, error), error) {
	opts := imaging.FilterOptions{
		Kind: c.optString("kind", ""),
	}
	var err error
	if opts.Level, err = c.optFloat("level", 0); err != nil {
		return nil, err
	}
	if opts.Passes, err = c.optInt("passes", 1); err != nil {
		return nil, err
	}
	if opts.Opacity, err = c.optFloat("opacity", 1); err != nil {
		return nil, err
	}
	if v := c.optString("color", ""); v != "" {
		opts.Color = v
	}
	return func(d *imaging.Document) (*imaging.Document, error) {
		return d.Filter(name, opts)
	}, nil
}
