package imaging

import "fmt"

// Chain applies a sequence of operations to a document.
//
//	doc, err := imaging.Edit(src).
//		Thumbnail(200, 200, imaging.Center).
//		Blur("gaussian", 2).
//		Finalize()
//
// The first failing step records its error and every later step is skipped;
// Finalize reports that error. Intermediate documents created by the chain
// are closed as soon as the next step replaces them. The document passed to
// Edit is never modified or closed.
type Chain struct {
	doc   *Document
	owned bool
	step  int
	err   error
}

// Edit starts a chain on doc.
func Edit(doc *Document) *Chain {
	c := &Chain{doc: doc}
	if _, err := doc.buffer(); err != nil {
		c.err = err
	}
	return c
}

// Then runs op on the current document. Chain methods are shorthands for
// Then; use it directly for operations with no shorthand. op may return
// its input unchanged, for example after saving it.
func (c *Chain) Then(name string, op func(*Document) (*Document, error)) *Chain {
	if c.err != nil {
		return c
	}
	c.step++

	next, err := op(c.doc)
	if err != nil {
		c.err = fmt.Errorf("step %d (%s): %w", c.step, name, err)
		return c
	}
	if next == c.doc {
		return c
	}
	if c.owned {
		c.doc.Close()
	}
	c.doc, c.owned = next, true
	return c
}

// Err returns the error recorded so far.
func (c *Chain) Err() error {
	return c.err
}

// Current returns the document as of the last successful step. It is still
// owned by the chain.
func (c *Chain) Current() *Document {
	return c.doc
}

// Finalize ends the chain and returns the resulting document, which the
// caller now owns. When a step failed the intermediate document is closed
// and only the error is returned.
func (c *Chain) Finalize() (*Document, error) {
	if c.err != nil {
		if c.owned {
			c.doc.Close()
		}
		return nil, c.err
	}
	if !c.owned {
		// No steps ran; hand back a copy so the caller's original stays
		// independent of the result.
		img, err := c.doc.Image()
		if err != nil {
			return nil, err
		}
		return c.doc.derive(img), nil
	}
	return c.doc, nil
}

func (c *Chain) Resize(width, height int) *Chain {
	return c.Then("resize", func(d *Document) (*Document, error) { return d.Resize(width, height) })
}

func (c *Chain) BestFit(maxWidth, maxHeight int) *Chain {
	return c.Then("best_fit", func(d *Document) (*Document, error) { return d.BestFit(maxWidth, maxHeight) })
}

func (c *Chain) FitToWidth(width int) *Chain {
	return c.Then("fit_to_width", func(d *Document) (*Document, error) { return d.FitToWidth(width) })
}

func (c *Chain) FitToHeight(height int) *Chain {
	return c.Then("fit_to_height", func(d *Document) (*Document, error) { return d.FitToHeight(height) })
}

func (c *Chain) Thumbnail(width, height int, focal Anchor) *Chain {
	return c.Then("thumbnail", func(d *Document) (*Document, error) { return d.Thumbnail(width, height, focal) })
}

func (c *Chain) AdaptiveResize(width, height int) *Chain {
	return c.Then("adaptive_resize", func(d *Document) (*Document, error) { return d.AdaptiveResize(width, height) })
}

func (c *Chain) Crop(x1, y1, x2, y2 int) *Chain {
	return c.Then("crop", func(d *Document) (*Document, error) { return d.Crop(x1, y1, x2, y2) })
}

func (c *Chain) Rotate(angle float64, bg any) *Chain {
	return c.Then("rotate", func(d *Document) (*Document, error) { return d.Rotate(angle, bg) })
}

func (c *Chain) Flip(direction string) *Chain {
	return c.Then("flip", func(d *Document) (*Document, error) { return d.Flip(direction) })
}

func (c *Chain) Orient(tag int) *Chain {
	return c.Then("orient", func(d *Document) (*Document, error) { return d.Orient(tag) })
}

func (c *Chain) Overlay(other *Document, position Anchor, opacity float64, xOff, yOff int) *Chain {
	return c.Then("overlay", func(d *Document) (*Document, error) {
		return d.Overlay(other, position, opacity, xOff, yOff)
	})
}

func (c *Chain) Opacity(o float64) *Chain {
	return c.Then("opacity", func(d *Document) (*Document, error) { return d.Opacity(o) })
}

func (c *Chain) Desaturate(percent float64) *Chain {
	return c.Then("desaturate", func(d *Document) (*Document, error) { return d.Desaturate(percent) })
}

func (c *Chain) Fill(color any) *Chain {
	return c.Then("fill", func(d *Document) (*Document, error) { return d.Fill(color) })
}

func (c *Chain) Text(run TextRun) *Chain {
	return c.Then("text", func(d *Document) (*Document, error) { return d.Text(run) })
}

func (c *Chain) Blur(kind string, passes int) *Chain {
	return c.Then("blur", func(d *Document) (*Document, error) { return d.Blur(kind, passes) })
}

func (c *Chain) Filter(name string, opts FilterOptions) *Chain {
	return c.Then(name, func(d *Document) (*Document, error) { return d.Filter(name, opts) })
}

func (c *Chain) Grid(opts GridOptions) *Chain {
	return c.Then("grid", func(d *Document) (*Document, error) { return d.Grid(opts) })
}
