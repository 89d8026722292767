package rules

import (
	"math"

	"geoprove/internal/geom"
)

// Numeric checks validate that a stated axiom is consistent with the diagram
// coordinates. They mirror the guard arithmetic: approximate comparison, and
// rejection of degenerate configurations where the relation is meaningless.

func checkCong(p []geom.Point) bool {
	return geom.CloseLengths(geom.Distance(p[0], p[1]), geom.Distance(p[2], p[3]))
}

func checkPara(p []geom.Point) bool {
	if p[0] == p[1] || p[2] == p[3] {
		return false
	}
	return geom.CloseAngles(geom.LineAngle(p[0], p[1]), geom.LineAngle(p[2], p[3]))
}

func checkPerp(p []geom.Point) bool {
	if p[0] == p[1] || p[2] == p[3] {
		return false
	}
	d := math.Mod(math.Abs(geom.LineAngle(p[0], p[1])-geom.LineAngle(p[2], p[3])), math.Pi)
	return math.Abs(d-math.Pi/2) < geom.AngleTol
}

func checkCol(p []geom.Point) bool {
	if p[0] == p[1] || p[1] == p[2] || p[0] == p[2] {
		return true
	}
	return geom.CloseAngles(geom.LineAngle(p[0], p[1]), geom.LineAngle(p[0], p[2]))
}

func checkMidp(p []geom.Point) bool {
	return checkCol([]geom.Point{p[0], p[1], p[2]}) &&
		geom.CloseLengths(geom.Distance(p[1], p[0]), geom.Distance(p[0], p[2]))
}

func checkEqangle(p []geom.Point) bool {
	if p[0] == p[1] || p[1] == p[2] || p[3] == p[4] || p[4] == p[5] {
		return false
	}
	a1 := math.Mod(geom.AngleBetween(p[0], p[1], p[2]), math.Pi)
	a2 := math.Mod(geom.AngleBetween(p[3], p[4], p[5]), math.Pi)
	d := math.Mod(a1-a2, math.Pi)
	if d < 0 {
		d += math.Pi
	}
	return d < geom.AngleTol || math.Pi-d < geom.AngleTol
}

func checkEqratio(p []geom.Point) bool {
	d1 := geom.Distance(p[0], p[1])
	d2 := geom.Distance(p[2], p[3])
	d3 := geom.Distance(p[4], p[5])
	d4 := geom.Distance(p[6], p[7])
	if d2 == 0 || d4 == 0 {
		return false
	}
	return math.Abs(d1/d2-d3/d4) < geom.AngleTol
}

func checkSameclock(p []geom.Point) bool {
	same, ok := geom.SameOrientation(p[0], p[1], p[2], p[3], p[4], p[5])
	return ok && same
}

func checkContri1(p []geom.Point) bool {
	same, ok := geom.SameOrientation(p[0], p[1], p[2], p[3], p[4], p[5])
	if !ok || !same {
		return false
	}
	return geom.CloseLengths(geom.Distance(p[0], p[1]), geom.Distance(p[3], p[4])) &&
		geom.CloseLengths(geom.Distance(p[1], p[2]), geom.Distance(p[4], p[5])) &&
		geom.CloseLengths(geom.Distance(p[2], p[0]), geom.Distance(p[5], p[3]))
}

func checkContri2(p []geom.Point) bool {
	same, ok := geom.SameOrientation(p[0], p[1], p[2], p[3], p[4], p[5])
	if !ok || same {
		return false
	}
	return geom.CloseLengths(geom.Distance(p[0], p[1]), geom.Distance(p[3], p[4])) &&
		geom.CloseLengths(geom.Distance(p[1], p[2]), geom.Distance(p[4], p[5])) &&
		geom.CloseLengths(geom.Distance(p[0], p[2]), geom.Distance(p[3], p[5]))
}

func checkSimtri(p []geom.Point, wantSame bool) bool {
	same, ok := geom.SameOrientation(p[0], p[1], p[2], p[3], p[4], p[5])
	if !ok || same != wantSame {
		return false
	}
	ab, de := geom.Distance(p[0], p[1]), geom.Distance(p[3], p[4])
	bc, ef := geom.Distance(p[1], p[2]), geom.Distance(p[4], p[5])
	ca, fd := geom.Distance(p[2], p[0]), geom.Distance(p[5], p[3])
	if de == 0 || ef == 0 || fd == 0 {
		return false
	}
	return math.Abs(ab/de-bc/ef) < geom.AngleTol && math.Abs(bc/ef-ca/fd) < geom.AngleTol
}

func checkSimtri1(p []geom.Point) bool { return checkSimtri(p, true) }
func checkSimtri2(p []geom.Point) bool { return checkSimtri(p, false) }

// checkCyclic tests concyclicity of four points with the standard determinant
//
//	| x²+y²  x  y  1 |
//
// scaled by the square of the diagram size so tolerance stays relative.
func checkCyclic(p []geom.Point) bool {
	rows := make([][4]float64, 4)
	scale := 0.0
	for i, pt := range p {
		rows[i] = [4]float64{pt.X*pt.X + pt.Y*pt.Y, pt.X, pt.Y, 1}
		scale = math.Max(scale, math.Abs(pt.X)+math.Abs(pt.Y))
	}
	if scale < 1 {
		scale = 1
	}
	det := det4(rows)
	return math.Abs(det)/(scale*scale*scale*scale) < geom.AngleTol
}

func det4(m [][4]float64) float64 {
	det := 0.0
	for col := 0; col < 4; col++ {
		var minor [3][3]float64
		for i := 1; i < 4; i++ {
			mi := 0
			for j := 0; j < 4; j++ {
				if j == col {
					continue
				}
				minor[i-1][mi] = m[i][j]
				mi++
			}
		}
		cofactor := minor[0][0]*(minor[1][1]*minor[2][2]-minor[1][2]*minor[2][1]) -
			minor[0][1]*(minor[1][0]*minor[2][2]-minor[1][2]*minor[2][0]) +
			minor[0][2]*(minor[1][0]*minor[2][1]-minor[1][1]*minor[2][0])
		if col%2 == 0 {
			det += m[0][col] * cofactor
		} else {
			det -= m[0][col] * cofactor
		}
	}
	return det
}
