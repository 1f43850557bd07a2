package importer

import (
	"fmt"
	"math"
	"sort"

	"github.com/piwi3910/StoneQuote/internal/model"
	"github.com/yofu/dxf"
	"github.com/yofu/dxf/entity"
)

// DXFUnit is the drawing unit of a DXF file.
type DXFUnit string

const (
	DXFMillimeters DXFUnit = "mm"
	DXFCentimeters DXFUnit = "cm"
	DXFMeters      DXFUnit = "m"
)

// toCm converts a drawing length to centimeters. Unknown units are read as mm.
func (u DXFUnit) toCm(v float64) float64 {
	switch u {
	case DXFCentimeters:
		return v
	case DXFMeters:
		return model.MToCm(v)
	default:
		return v / 10
	}
}

// StairOutline is the bounding box of one closed shape in a stair drawing.
// LengthCm is always the longer side.
type StairOutline struct {
	Name     string  `json:"name"`
	LengthCm float64 `json:"length_cm"`
	WidthCm  float64 `json:"width_cm"`
	Quantity int     `json:"quantity"` // Identical outlines collapsed into one
}

// ApplyTo writes the outline dimensions into a draft in centimeters.
func (o StairOutline) ApplyTo(d *model.StairPartDraft) {
	d.Length = model.Dimension{Value: o.LengthCm, Unit: model.UnitCm}
	d.Width = model.Dimension{Value: o.WidthCm, Unit: model.UnitCm}
	if d.Quantity == 0 {
		d.Quantity = o.Quantity
	}
}

// DXFResult holds the results of a stair drawing import.
type DXFResult struct {
	Outlines []StairOutline
	Errors   []string
	Warnings []string
}

type point struct {
	X, Y float64
}

type outline []point

func (o outline) boundingBox() (point, point) {
	lo := point{math.Inf(1), math.Inf(1)}
	hi := point{math.Inf(-1), math.Inf(-1)}
	for _, p := range o {
		lo.X, lo.Y = math.Min(lo.X, p.X), math.Min(lo.Y, p.Y)
		hi.X, hi.Y = math.Max(hi.X, p.X), math.Max(hi.Y, p.Y)
	}
	return lo, hi
}

// segment represents a line segment between two 2D points, used for
// chaining disconnected LINE entities into closed outlines.
type segment struct {
	start point
	end   point
}

// ImportStairDXF reads a stair drawing. Each closed shape (LWPOLYLINE,
// or chain of connected LINEs/ARCs) becomes a part outline sized by its
// bounding box. Outlines with the same size are counted once with a quantity.
func ImportStairDXF(path string, unit DXFUnit) DXFResult {
	result := DXFResult{}

	drawing, err := dxf.Open(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open DXF file: %v", err))
		return result
	}

	entities := drawing.Entities()
	if len(entities) == 0 {
		result.Errors = append(result.Errors, "DXF file contains no entities")
		return result
	}

	var outlines []outline
	var segments []segment

	for _, ent := range entities {
		switch e := ent.(type) {
		case *entity.LwPolyline:
			o := lwPolylineToOutline(e)
			if len(o) >= 3 {
				outlines = append(outlines, o)
			} else {
				result.Warnings = append(result.Warnings,
					"Skipped LWPOLYLINE with fewer than 3 vertices")
			}

		case *entity.Arc:
			pts := arcToPoints(e, 16)
			if len(pts) >= 2 {
				segments = append(segments, pointsToSegments(pts)...)
			}

		case *entity.Line:
			segments = append(segments, segment{
				start: point{X: e.Start[0], Y: e.Start[1]},
				end:   point{X: e.End[0], Y: e.End[1]},
			})

		case *entity.Circle:
			result.Warnings = append(result.Warnings, "Skipped CIRCLE: not a stair part")
		}
	}

	for _, co := range chainSegments(segments, 0.01) {
		if len(co) >= 3 {
			outlines = append(outlines, co)
		}
	}

	if len(outlines) == 0 {
		result.Errors = append(result.Errors, "No closed shapes found in DXF file")
		return result
	}

	seen := make(map[string]int)
	for _, o := range outlines {
		lo, hi := o.boundingBox()
		a, b := unit.toCm(hi.X-lo.X), unit.toCm(hi.Y-lo.Y)
		length, width := math.Max(a, b), math.Min(a, b)

		if width < 0.1 {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("Skipped degenerate shape (%.2f x %.2f cm)", length, width))
			continue
		}

		length, width = math.Round(length*10)/10, math.Round(width*10)/10
		key := fmt.Sprintf("%.1fx%.1f", length, width)
		if i, ok := seen[key]; ok {
			result.Outlines[i].Quantity++
			continue
		}
		seen[key] = len(result.Outlines)
		result.Outlines = append(result.Outlines, StairOutline{
			Name:     fmt.Sprintf("DXF Part %d", len(result.Outlines)+1),
			LengthCm: length,
			WidthCm:  width,
			Quantity: 1,
		})
	}

	return result
}

// lwPolylineToOutline converts a DXF LWPOLYLINE entity to an outline.
// Bulges are ignored: only the bounding box is needed and stair parts
// are rectangular.
func lwPolylineToOutline(lw *entity.LwPolyline) outline {
	o := make(outline, 0, len(lw.Vertices))
	for _, v := range lw.Vertices {
		o = append(o, point{X: v[0], Y: v[1]})
	}
	return o
}

// arcToPoints converts a DXF ARC entity to a series of line points.
func arcToPoints(a *entity.Arc, numSegments int) []point {
	cx, cy := a.Circle.Center[0], a.Circle.Center[1]
	r := a.Circle.Radius

	startRad := a.Angle[0] * math.Pi / 180
	endRad := a.Angle[1] * math.Pi / 180
	if endRad <= startRad {
		endRad += 2 * math.Pi
	}

	pts := make([]point, numSegments+1)
	for i := 0; i <= numSegments; i++ {
		t := float64(i) / float64(numSegments)
		angle := startRad + t*(endRad-startRad)
		pts[i] = point{X: cx + r*math.Cos(angle), Y: cy + r*math.Sin(angle)}
	}
	return pts
}

// pointsToSegments converts a point sequence to a slice of connected segments.
func pointsToSegments(pts []point) []segment {
	segs := make([]segment, 0, len(pts)-1)
	for i := 0; i < len(pts)-1; i++ {
		segs = append(segs, segment{start: pts[i], end: pts[i+1]})
	}
	return segs
}

// chainSegments connects individual segments into closed outlines.
// tolerance is the maximum distance between endpoints to consider them connected.
func chainSegments(segs []segment, tolerance float64) []outline {
	if len(segs) == 0 {
		return nil
	}

	used := make([]bool, len(segs))
	var outlines []outline

	for {
		startIdx := -1
		for i, u := range used {
			if !u {
				startIdx = i
				break
			}
		}
		if startIdx == -1 {
			break
		}

		chain := outline{segs[startIdx].start, segs[startIdx].end}
		used[startIdx] = true

		changed := true
		for changed {
			changed = false
			tail := chain[len(chain)-1]

			for i, seg := range segs {
				if used[i] {
					continue
				}
				if pointsClose(tail, seg.start, tolerance) {
					chain = append(chain, seg.end)
					used[i] = true
					changed = true
					break
				}
				if pointsClose(tail, seg.end, tolerance) {
					chain = append(chain, seg.start)
					used[i] = true
					changed = true
					break
				}
			}
		}

		// Open chains are not parts.
		if len(chain) >= 4 && pointsClose(chain[0], chain[len(chain)-1], tolerance) {
			outlines = append(outlines, chain[:len(chain)-1])
		}
	}

	// Largest first for a stable order.
	sort.SliceStable(outlines, func(i, j int) bool {
		return outlineArea(outlines[i]) > outlineArea(outlines[j])
	})

	return outlines
}

// pointsClose checks whether two points are within the given tolerance.
func pointsClose(a, b point, tolerance float64) bool {
	return math.Hypot(a.X-b.X, a.Y-b.Y) <= tolerance
}

// outlineArea computes the absolute area of a polygon using the shoelace formula.
func outlineArea(o outline) float64 {
	n := len(o)
	if n < 3 {
		return 0
	}
	var area float64
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		area += o[i].X*o[j].Y - o[j].X*o[i].Y
	}
	return math.Abs(area) / 2
}
