package export

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/floorline/floorline/backend-go/internal/document"
	"github.com/floorline/floorline/backend-go/internal/scene"
)

// PlanOptions controls how a floor plan is drawn.
type PlanOptions struct {
	Scale  float64 // pixels per meter
	Margin float64 // pixels around the floor outline
	Grid   bool    // draw grid lines at the floor's snap size
	Labels bool    // draw object names
}

func DefaultPlanOptions() PlanOptions {
	return PlanOptions{Scale: 40, Margin: 24, Grid: true, Labels: true}
}

const (
	fillFloor    = "#f8f9fa"
	fillObject   = "#4dabf7"
	fillPinned   = "#868e96"
	fillOverlap  = "#e03131"
	strokeFloor  = "#343a40"
	strokeGrid   = "#e9ecef"
	strokeObject = "#1864ab"
	labelColor   = "#212529"
)

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
)

// planMapper converts floor coordinates (meters, x east / z south)
// to SVG pixel coordinates.
type planMapper struct {
	bounds scene.Boundary
	scale  float64
	margin float64
}

func (m planMapper) x(x float64) float64 { return (x-m.bounds.MinX)*m.scale + m.margin }
func (m planMapper) y(z float64) float64 { return (z-m.bounds.MinZ)*m.scale + m.margin }

// RenderPlan hydrates the document into a scene and draws it top-down as
// SVG. Objects keep their document order; overlapping objects are drawn
// in the collision color so problem areas stand out on the printout.
func RenderPlan(w io.Writer, doc *document.LayoutDocument, opts PlanOptions) error {
	if opts.Scale <= 0 {
		opts.Scale = DefaultPlanOptions().Scale
	}
	if opts.Margin < 0 {
		opts.Margin = 0
	}

	eng := scene.NewEngine()
	document.Hydrate(doc, eng)

	bounds := eng.Boundary()
	if bounds.IsZero() {
		bounds = scene.CenteredBoundary(document.DefaultFloorWidth, document.DefaultFloorDepth)
	}
	m := planMapper{bounds: bounds, scale: opts.Scale, margin: opts.Margin}

	floorW := (bounds.MaxX - bounds.MinX) * opts.Scale
	floorD := (bounds.MaxZ - bounds.MinZ) * opts.Scale
	totalW := floorW + 2*opts.Margin
	totalH := floorD + 2*opts.Margin

	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, `<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">`+"\n",
		totalW, totalH, totalW, totalH)
	if doc.Project.Name != "" {
		fmt.Fprintf(bw, "  <title>%s</title>\n", xmlEscaper.Replace(doc.Project.Name))
	}

	fmt.Fprintf(bw, `  <rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="%s" stroke="%s" stroke-width="2"/>`+"\n",
		m.x(bounds.MinX), m.y(bounds.MinZ), floorW, floorD, fillFloor, strokeFloor)

	if opts.Grid {
		step := doc.Floor.GridSnapSize
		if !doc.Floor.GridSnapEnabled || step <= 0 {
			step = 1.0
		}
		writeGrid(bw, m, bounds, step)
	}

	for _, s := range eng.State() {
		writeObject(bw, m, s, opts.Labels)
	}

	writeScaleBar(bw, m, bounds, opts.Scale)

	fmt.Fprint(bw, "</svg>\n")
	return bw.Flush()
}

func writeGrid(bw *bufio.Writer, m planMapper, b scene.Boundary, step float64) {
	fmt.Fprintf(bw, `  <g stroke="%s" stroke-width="1">`+"\n", strokeGrid)
	for gx := b.MinX + step; gx < b.MaxX; gx += step {
		fmt.Fprintf(bw, `    <line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f"/>`+"\n",
			m.x(gx), m.y(b.MinZ), m.x(gx), m.y(b.MaxZ))
	}
	for gz := b.MinZ + step; gz < b.MaxZ; gz += step {
		fmt.Fprintf(bw, `    <line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f"/>`+"\n",
			m.x(b.MinX), m.y(gz), m.x(b.MaxX), m.y(gz))
	}
	fmt.Fprint(bw, "  </g>\n")
}

func writeObject(bw *bufio.Writer, m planMapper, s scene.ObjectState, label bool) {
	halfW := s.Footprint.Width * s.Scale * m.scale / 2
	halfD := s.Footprint.Depth * s.Scale * m.scale / 2

	fill := fillObject
	switch {
	case s.Colliding:
		fill = fillOverlap
	case !s.Draggable:
		fill = fillPinned
	}

	// Yaw is counterclockwise in plan view while SVG rotation is
	// clockwise, hence the sign flip.
	fmt.Fprintf(bw, `  <g transform="translate(%.2f %.2f) rotate(%.2f)">`+"\n",
		m.x(s.Position.X), m.y(s.Position.Z), -s.RotationDeg)
	fmt.Fprintf(bw, `    <rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="%s" fill-opacity="0.85" stroke="%s"/>`+"\n",
		-halfW, -halfD, 2*halfW, 2*halfD, fill, strokeObject)
	// Heading tick toward the object's front edge.
	fmt.Fprintf(bw, `    <line x1="0" y1="0" x2="0" y2="%.2f" stroke="%s"/>`+"\n", -halfD, strokeObject)
	fmt.Fprint(bw, "  </g>\n")

	if label && s.Name != "" {
		fmt.Fprintf(bw, `  <text x="%.2f" y="%.2f" font-size="10" font-family="sans-serif" fill="%s" text-anchor="middle">%s</text>`+"\n",
			m.x(s.Position.X), m.y(s.Position.Z)+3, labelColor, xmlEscaper.Replace(s.Name))
	}
}

func writeScaleBar(bw *bufio.Writer, m planMapper, b scene.Boundary, scale float64) {
	y := m.y(b.MaxZ) + 14
	fmt.Fprintf(bw, `  <line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s" stroke-width="2"/>`+"\n",
		m.x(b.MinX), y, m.x(b.MinX)+scale, y, strokeFloor)
	fmt.Fprintf(bw, `  <text x="%.2f" y="%.2f" font-size="9" font-family="sans-serif" fill="%s">1 m</text>`+"\n",
		m.x(b.MinX)+scale+4, y+3, labelColor)
}
