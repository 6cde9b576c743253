package scan

import (
	"strings"
)

// RecognizedBlock is one block of text returned by a text recognizer.
// The bounding box is optional and may arrive in either of the two shapes
// produced by common recognizers.
type RecognizedBlock struct {
	Text        string       `json:"text"`
	BoundingBox *BoundingBox `json:"boundingBox,omitempty"`
}

// BoundingBox tolerates both {top,bottom,left,right} and {x,y,width,height}
// geometry, including partially filled boxes.
type BoundingBox struct {
	Top    *float64 `json:"top,omitempty"`
	Bottom *float64 `json:"bottom,omitempty"`
	Left   *float64 `json:"left,omitempty"`
	Right  *float64 `json:"right,omitempty"`
	X      *float64 `json:"x,omitempty"`
	Y      *float64 `json:"y,omitempty"`
	Width  *float64 `json:"width,omitempty"`
	Height *float64 `json:"height,omitempty"`
}

// center computes the vertical and horizontal midpoint of the box.
// ok is false when no vertical ordinate is present at all.
func (b *BoundingBox) center() (vertical, horizontal float64, ok bool) {
	switch {
	case b.Top != nil && b.Bottom != nil:
		vertical = (*b.Top + *b.Bottom) / 2
		ok = true
	case b.Y != nil && b.Height != nil:
		vertical = *b.Y + *b.Height/2
		ok = true
	case b.Top != nil:
		vertical = *b.Top
		ok = true
	case b.Y != nil:
		vertical = *b.Y
		ok = true
	}

	switch {
	case b.Left != nil && b.Right != nil:
		horizontal = (*b.Left + *b.Right) / 2
	case b.X != nil && b.Width != nil:
		horizontal = *b.X + *b.Width/2
	case b.Left != nil:
		horizontal = *b.Left
	case b.X != nil:
		horizontal = *b.X
	}

	return vertical, horizontal, ok
}

// TextFragment is a single trimmed line of recognized text with an
// approximate position on the page. Fragments are immutable once created.
type TextFragment struct {
	Text        string
	Vertical    float64
	Horizontal  float64
	HasGeometry bool
}

const (
	// Synthetic position steps used when a block carries no geometry.
	syntheticRowStep = 20
	syntheticColStep = 10
	// Lines split out of a multi-line block keep their relative order.
	lineStep = 15
)

// Preprocess cleans the raw recognized blocks into ordered single-line
// fragments. Blocks without geometry get synthetic positions derived from
// their index so relative order survives. The returned flag reports whether
// any fragment carries real geometry, which selects the pairing strategy.
func Preprocess(blocks []RecognizedBlock) ([]TextFragment, bool) {
	var fragments []TextFragment
	spatial := 0

	for i, block := range blocks {
		var vertical, horizontal float64
		hasGeometry := false
		if block.BoundingBox != nil {
			vertical, horizontal, hasGeometry = block.BoundingBox.center()
		}
		if !hasGeometry {
			vertical = float64(i * syntheticRowStep)
			horizontal = float64(i * syntheticColStep)
		}

		for j, line := range strings.Split(block.Text, "\n") {
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			fragments = append(fragments, TextFragment{
				Text:        line,
				Vertical:    vertical + float64(j*lineStep),
				Horizontal:  horizontal,
				HasGeometry: hasGeometry,
			})
			if hasGeometry {
				spatial++
			}
		}
	}

	return fragments, spatial > 0
}

// joinFragments rebuilds the full receipt text for classifiers that scan
// across line boundaries.
func joinFragments(fragments []TextFragment) string {
	var sb strings.Builder
	for i, f := range fragments {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(f.Text)
	}
	return sb.String()
}
