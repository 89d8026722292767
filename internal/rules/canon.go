package rules

import (
	"sort"
	"strings"
)

// Canonicalizers and their inverse variant expansions for the geometry
// predicate catalogue. Each pair must agree: every tuple a Variants function
// emits canonicalizes back to the input, and every tuple a problem may state
// canonicalizes to exactly one representative.

func sorted(args ...string) []string {
	out := append([]string(nil), args...)
	sort.Strings(out)
	return out
}

func tupleLess(a, b []string) bool {
	return strings.Join(a, " ") < strings.Join(b, " ")
}

// canonAllSorted fully symmetric relation: sorted tuple.
func canonAllSorted(args []string) []string {
	return sorted(args...)
}

// canonSegmentPair relation over two unordered segments where the sides are
// interchangeable (cong, para, perp): sort within each segment, then put the
// lexicographically smaller segment first.
func canonSegmentPair(args []string) []string {
	s1 := sorted(args[0], args[1])
	s2 := sorted(args[2], args[3])
	if tupleLess(s2, s1) {
		s1, s2 = s2, s1
	}
	return []string{s1[0], s1[1], s2[0], s2[1]}
}

// canonMidpoint midp(M, A, B): M fixed, segment unordered.
func canonMidpoint(args []string) []string {
	s := sorted(args[1], args[2])
	return []string{args[0], s[0], s[1]}
}

// canonTriplePair relation over two ordered triples with interchangeable
// sides (eqangle, sameclock): smaller triple first, triple order preserved.
func canonTriplePair(args []string) []string {
	t1 := args[0:3]
	t2 := args[3:6]
	if tupleLess(t2, t1) {
		t1, t2 = t2, t1
	}
	return []string{t1[0], t1[1], t1[2], t2[0], t2[1], t2[2]}
}

// canonRatioPair eqratio(AB/CD = EF/GH): segments unordered internally,
// segment order within a side preserved (a ratio is directed), sides
// interchangeable.
func canonRatioPair(args []string) []string {
	s1 := sorted(args[0], args[1])
	s2 := sorted(args[2], args[3])
	s3 := sorted(args[4], args[5])
	s4 := sorted(args[6], args[7])
	left := []string{s1[0], s1[1], s2[0], s2[1]}
	right := []string{s3[0], s3[1], s4[0], s4[1]}
	if tupleLess(right, left) {
		left, right = right, left
	}
	return append(left, right...)
}

// canonTrianglePair congruent/similar triangle predicates: the vertex
// correspondence is meaningful, but rotating both triangles in step names the
// same correspondence. Pick the rotation with the smallest first triangle.
func canonTrianglePair(args []string) []string {
	best := args
	for r := 1; r < 3; r++ {
		cand := []string{
			args[r%3], args[(r+1)%3], args[(r+2)%3],
			args[3+r%3], args[3+(r+1)%3], args[3+(r+2)%3],
		}
		if tupleLess(cand, best) {
			best = cand
		}
	}
	return append([]string(nil), best...)
}

// canonIntersection inter(A, BC, DE): A fixed, each line unordered, lines
// interchangeable.
func canonIntersection(args []string) []string {
	l1 := sorted(args[1], args[2])
	l2 := sorted(args[3], args[4])
	if tupleLess(l2, l1) {
		l1, l2 = l2, l1
	}
	return []string{args[0], l1[0], l1[1], l2[0], l2[1]}
}

func permutations(args []string) [][]string {
	if len(args) == 1 {
		return [][]string{{args[0]}}
	}
	var out [][]string
	for i := range args {
		rest := make([]string, 0, len(args)-1)
		rest = append(rest, args[:i]...)
		rest = append(rest, args[i+1:]...)
		for _, sub := range permutations(rest) {
			out = append(out, append([]string{args[i]}, sub...))
		}
	}
	return out
}

func variantsAllPerms(args []string) [][]string {
	return permutations(args)
}

func variantsSegmentPair(args []string) [][]string {
	var out [][]string
	for _, s1 := range [][]string{{args[0], args[1]}, {args[1], args[0]}} {
		for _, s2 := range [][]string{{args[2], args[3]}, {args[3], args[2]}} {
			out = append(out,
				[]string{s1[0], s1[1], s2[0], s2[1]},
				[]string{s2[0], s2[1], s1[0], s1[1]})
		}
	}
	return out
}

func variantsMidpoint(args []string) [][]string {
	return [][]string{
		{args[0], args[1], args[2]},
		{args[0], args[2], args[1]},
	}
}

func variantsTriplePair(args []string) [][]string {
	return [][]string{
		{args[0], args[1], args[2], args[3], args[4], args[5]},
		{args[3], args[4], args[5], args[0], args[1], args[2]},
	}
}

func variantsRatioPair(args []string) [][]string {
	var out [][]string
	segs := func(a, b string) [][]string {
		return [][]string{{a, b}, {b, a}}
	}
	sides := [][][]string{}
	for _, s1 := range segs(args[0], args[1]) {
		for _, s2 := range segs(args[2], args[3]) {
			sides = append(sides, [][]string{s1, s2})
		}
	}
	otherSides := [][][]string{}
	for _, s3 := range segs(args[4], args[5]) {
		for _, s4 := range segs(args[6], args[7]) {
			otherSides = append(otherSides, [][]string{s3, s4})
		}
	}
	for _, l := range sides {
		for _, r := range otherSides {
			left := []string{l[0][0], l[0][1], l[1][0], l[1][1]}
			right := []string{r[0][0], r[0][1], r[1][0], r[1][1]}
			out = append(out, append(append([]string(nil), left...), right...))
			out = append(out, append(append([]string(nil), right...), left...))
		}
	}
	return out
}

func variantsTrianglePair(args []string) [][]string {
	out := make([][]string, 0, 3)
	for r := 0; r < 3; r++ {
		out = append(out, []string{
			args[r%3], args[(r+1)%3], args[(r+2)%3],
			args[3+r%3], args[3+(r+1)%3], args[3+(r+2)%3],
		})
	}
	return out
}

func variantsSameclock(args []string) [][]string {
	var out [][]string
	rot := func(t []string, r int) []string {
		return []string{t[r%3], t[(r+1)%3], t[(r+2)%3]}
	}
	t1 := args[0:3]
	t2 := args[3:6]
	for r1 := 0; r1 < 3; r1++ {
		for r2 := 0; r2 < 3; r2++ {
			a := rot(t1, r1)
			b := rot(t2, r2)
			out = append(out, append(append([]string(nil), a...), b...))
			out = append(out, append(append([]string(nil), b...), a...))
		}
	}
	return out
}

// canonSameclock: orientation is invariant under rotating either triple
// independently, so canonicalize each triple to its smallest rotation and
// order the sides.
func canonSameclock(args []string) []string {
	minRot := func(t []string) []string {
		best := t
		for r := 1; r < 3; r++ {
			cand := []string{t[r%3], t[(r+1)%3], t[(r+2)%3]}
			if tupleLess(cand, best) {
				best = cand
			}
		}
		return best
	}
	t1 := minRot(args[0:3])
	t2 := minRot(args[3:6])
	if tupleLess(t2, t1) {
		t1, t2 = t2, t1
	}
	return append(append([]string(nil), t1...), t2...)
}

func variantsIntersection(args []string) [][]string {
	var out [][]string
	for _, l1 := range [][]string{{args[1], args[2]}, {args[2], args[1]}} {
		for _, l2 := range [][]string{{args[3], args[4]}, {args[4], args[3]}} {
			out = append(out,
				[]string{args[0], l1[0], l1[1], l2[0], l2[1]},
				[]string{args[0], l2[0], l2[1], l1[0], l1[1]})
		}
	}
	return out
}
