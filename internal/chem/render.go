package chem

import (
	"bytes"
	"fmt"
	"math"

	"github.com/fogleman/gg"
)

// Layout2D assigns 2D depiction coordinates (bond length 1.0): rings become
// regular polygons, fused rings share edges, and acyclic branches fan out at
// angles that avoid their placed siblings.
func Layout2D(m *Mol) [][2]float64 {
	n := m.NumAtoms()
	pos := make([][2]float64, n)
	placed := make([]bool, n)
	rings := m.Rings()
	compOffset := 0.0

	for _, comp := range m.Components() {
		startX := compOffset
		seeded := false

		// Seed with a ring when the component has one.
		for _, ring := range rings {
			if !contains(comp, ring[0]) {
				continue
			}
			placeRegularPolygon(pos, placed, ring, startX+1.5, 0)
			seeded = true
			break
		}
		if !seeded {
			pos[comp[0]] = [2]float64{startX, 0}
			placed[comp[0]] = true
		}

		// Fuse remaining rings that share a placed edge, repeating until no
		// progress.
		for changed := true; changed; {
			changed = false
			for _, ring := range rings {
				if !contains(comp, ring[0]) || allPlaced(placed, ring) {
					continue
				}
				if fuseRing(pos, placed, ring) {
					changed = true
				}
			}
		}

		// Grow chains outward from placed atoms.
		growChains(m, pos, placed, comp)

		// Advance the per-component offset past this component's extent.
		maxX := startX
		for _, ai := range comp {
			if pos[ai][0] > maxX {
				maxX = pos[ai][0]
			}
		}
		compOffset = maxX + 2.5
	}
	return pos
}

func contains(list []int, v int) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}

func allPlaced(placed []bool, atoms []int) bool {
	for _, a := range atoms {
		if !placed[a] {
			return false
		}
	}
	return true
}

func placeRegularPolygon(pos [][2]float64, placed []bool, ring []int, cx, cy float64) {
	k := len(ring)
	radius := 0.5 / math.Sin(math.Pi/float64(k))
	for i, ai := range ring {
		theta := 2*math.Pi*float64(i)/float64(k) - math.Pi/2
		pos[ai] = [2]float64{cx + radius*math.Cos(theta), cy + radius*math.Sin(theta)}
		placed[ai] = true
	}
}

// fuseRing places a ring that shares two adjacent placed atoms with the
// laid-out portion, putting its center on the far side of the shared edge.
func fuseRing(pos [][2]float64, placed []bool, ring []int) bool {
	k := len(ring)
	shared := -1
	for i := 0; i < k; i++ {
		if placed[ring[i]] && placed[ring[(i+1)%k]] {
			shared = i
			break
		}
	}
	if shared == -1 {
		return false
	}
	a, b := ring[shared], ring[(shared+1)%k]
	ax, ay := pos[a][0], pos[a][1]
	bx, by := pos[b][0], pos[b][1]
	mx, my := (ax+bx)/2, (ay+by)/2
	ex, ey := bx-ax, by-ay
	elen := math.Hypot(ex, ey)
	if elen < 1e-9 {
		return false
	}
	apothem := 0.5 / math.Tan(math.Pi/float64(k)) * elen
	// Two candidate centers; take the one farther from the placed centroid.
	nx, ny := -ey/elen, ex/elen
	cgx, cgy, cnt := 0.0, 0.0, 0
	for i, p := range placed {
		if p {
			cgx += pos[i][0]
			cgy += pos[i][1]
			cnt++
		}
	}
	cgx /= float64(cnt)
	cgy /= float64(cnt)
	c1 := [2]float64{mx + nx*apothem, my + ny*apothem}
	c2 := [2]float64{mx - nx*apothem, my - ny*apothem}
	center := c1
	if math.Hypot(c2[0]-cgx, c2[1]-cgy) > math.Hypot(c1[0]-cgx, c1[1]-cgy) {
		center = c2
	}

	radius := elen * 0.5 / math.Sin(math.Pi/float64(k))
	baseTheta := math.Atan2(ay-center[1], ax-center[0])
	// Walk the cycle from the shared edge, spacing atoms evenly; the sweep
	// direction is chosen so atom b lands on its existing position.
	stepAngle := 2 * math.Pi / float64(k)
	thetaB := math.Atan2(by-center[1], bx-center[0])
	dir := 1.0
	if angleDiff(baseTheta+stepAngle, thetaB) > angleDiff(baseTheta-stepAngle, thetaB) {
		dir = -1.0
	}
	for i := 0; i < k; i++ {
		ai := ring[(shared+i)%k]
		if placed[ai] {
			continue
		}
		theta := baseTheta + dir*stepAngle*float64(i)
		pos[ai] = [2]float64{center[0] + radius*math.Cos(theta), center[1] + radius*math.Sin(theta)}
		placed[ai] = true
	}
	return true
}

func angleDiff(a, b float64) float64 {
	d := math.Mod(a-b, 2*math.Pi)
	if d < -math.Pi {
		d += 2 * math.Pi
	}
	if d > math.Pi {
		d -= 2 * math.Pi
	}
	return math.Abs(d)
}

// growChains places acyclic atoms breadth-first, picking for each new atom
// the candidate angle farthest from its parent's existing substituents.
func growChains(m *Mol, pos [][2]float64, placed []bool, comp []int) {
	queue := make([]int, 0, len(comp))
	for _, ai := range comp {
		if placed[ai] {
			queue = append(queue, ai)
		}
	}
	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]
		for _, v := range m.Neighbors(u) {
			if placed[v] {
				continue
			}
			pos[v] = bestChainPosition(m, pos, placed, u)
			placed[v] = true
			queue = append(queue, v)
		}
	}
}

func bestChainPosition(m *Mol, pos [][2]float64, placed []bool, u int) [2]float64 {
	var occupied []float64
	for _, w := range m.Neighbors(u) {
		if placed[w] {
			occupied = append(occupied, math.Atan2(pos[w][1]-pos[u][1], pos[w][0]-pos[u][0]))
		}
	}
	best := [2]float64{pos[u][0] + 1, pos[u][1]}
	bestScore := -1.0
	for step := 0; step < 12; step++ {
		theta := float64(step) * math.Pi / 6
		score := math.Pi
		for _, occ := range occupied {
			if d := angleDiff(theta, occ); d < score {
				score = d
			}
		}
		if score > bestScore {
			bestScore = score
			best = [2]float64{pos[u][0] + math.Cos(theta), pos[u][1] + math.Sin(theta)}
		}
	}
	return best
}

// atomColors maps atomic numbers to depiction colors (CPK-inspired).
var atomColors = map[int][3]float64{
	7: {0.0, 0.0, 0.8}, 8: {0.8, 0.0, 0.0}, 9: {0.0, 0.6, 0.0},
	15: {0.8, 0.4, 0.0}, 16: {0.7, 0.6, 0.0}, 17: {0.0, 0.6, 0.0},
	35: {0.5, 0.2, 0.1}, 53: {0.4, 0.0, 0.5},
}

// RenderPNG draws the molecule into a width x height PNG.  Carbons are
// unlabeled vertices; heteroatoms get colored element labels; aromatic
// rings carry an inner circle.
func RenderPNG(m *Mol, width, height int) ([]byte, error) {
	if m.NumAtoms() == 0 {
		return nil, fmt.Errorf("cannot render an empty molecule")
	}
	layout := Layout2D(m)

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range layout {
		minX, maxX = math.Min(minX, p[0]), math.Max(maxX, p[0])
		minY, maxY = math.Min(minY, p[1]), math.Max(maxY, p[1])
	}
	spanX, spanY := maxX-minX, maxY-minY
	if spanX < 1e-6 {
		spanX = 1
	}
	if spanY < 1e-6 {
		spanY = 1
	}
	margin := 0.12 * math.Min(float64(width), float64(height))
	scale := math.Min((float64(width)-2*margin)/spanX, (float64(height)-2*margin)/spanY)
	toPx := func(p [2]float64) (float64, float64) {
		x := margin + (p[0]-minX)*scale + (float64(width)-2*margin-spanX*scale)/2
		y := margin + (maxY-p[1])*scale + (float64(height)-2*margin-spanY*scale)/2
		return x, y
	}

	dc := gg.NewContext(width, height)
	dc.SetRGB(1, 1, 1)
	dc.Clear()
	dc.SetLineWidth(math.Max(1.5, scale*0.045))

	labeled := make([]bool, m.NumAtoms())
	for i := range m.Atoms {
		a := &m.Atoms[i]
		labeled[i] = a.AtomicNum != 6 || a.Charge != 0
	}

	for _, b := range m.Bonds {
		x1, y1 := toPx(layout[b.From])
		x2, y2 := toPx(layout[b.To])
		// Pull bond ends back from labeled atoms so lines do not cross text.
		x1, y1, x2, y2 = trimBond(x1, y1, x2, y2, labeled[b.From], labeled[b.To], scale*0.18)
		dc.SetRGB(0.1, 0.1, 0.1)
		switch {
		case b.Aromatic || b.Order == BondSingle:
			dc.DrawLine(x1, y1, x2, y2)
			dc.Stroke()
		case b.Order == BondDouble:
			ox, oy := offsetNormal(x1, y1, x2, y2, scale*0.06)
			dc.DrawLine(x1+ox, y1+oy, x2+ox, y2+oy)
			dc.DrawLine(x1-ox, y1-oy, x2-ox, y2-oy)
			dc.Stroke()
		case b.Order == BondTriple:
			ox, oy := offsetNormal(x1, y1, x2, y2, scale*0.1)
			dc.DrawLine(x1, y1, x2, y2)
			dc.DrawLine(x1+ox, y1+oy, x2+ox, y2+oy)
			dc.DrawLine(x1-ox, y1-oy, x2-ox, y2-oy)
			dc.Stroke()
		}
	}

	// Inner circles mark aromatic rings.
	for _, ring := range m.Rings() {
		aromatic := true
		for _, ai := range ring {
			if !m.Atoms[ai].Aromatic {
				aromatic = false
				break
			}
		}
		if !aromatic {
			continue
		}
		cx, cy := 0.0, 0.0
		for _, ai := range ring {
			px, py := toPx(layout[ai])
			cx += px
			cy += py
		}
		cx /= float64(len(ring))
		cy /= float64(len(ring))
		dc.SetRGB(0.35, 0.35, 0.35)
		dc.DrawCircle(cx, cy, scale*0.28)
		dc.Stroke()
	}

	for i := range m.Atoms {
		if !labeled[i] {
			continue
		}
		a := &m.Atoms[i]
		x, y := toPx(layout[i])
		dc.SetRGB(1, 1, 1)
		dc.DrawCircle(x, y, scale*0.17)
		dc.Fill()
		c, ok := atomColors[a.AtomicNum]
		if !ok {
			c = [3]float64{0.1, 0.1, 0.1}
		}
		dc.SetRGB(c[0], c[1], c[2])
		label := a.Symbol
		if h := m.TotalHCount(i); h == 1 {
			label += "H"
		} else if h > 1 {
			label += fmt.Sprintf("H%d", h)
		}
		switch {
		case a.Charge == 1:
			label += "+"
		case a.Charge == -1:
			label += "-"
		case a.Charge > 1:
			label += fmt.Sprintf("+%d", a.Charge)
		case a.Charge < -1:
			label += fmt.Sprintf("-%d", -a.Charge)
		}
		dc.DrawStringAnchored(label, x, y, 0.5, 0.35)
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("png encoding failed: %w", err)
	}
	return buf.Bytes(), nil
}

func offsetNormal(x1, y1, x2, y2, d float64) (float64, float64) {
	dx, dy := x2-x1, y2-y1
	l := math.Hypot(dx, dy)
	if l < 1e-9 {
		return 0, 0
	}
	return -dy / l * d, dx / l * d
}

func trimBond(x1, y1, x2, y2 float64, trimA, trimB bool, d float64) (float64, float64, float64, float64) {
	dx, dy := x2-x1, y2-y1
	l := math.Hypot(dx, dy)
	if l < 1e-9 {
		return x1, y1, x2, y2
	}
	ux, uy := dx/l, dy/l
	if trimA {
		x1 += ux * d
		y1 += uy * d
	}
	if trimB {
		x2 -= ux * d
		y2 -= uy * d
	}
	return x1, y1, x2, y2
}
