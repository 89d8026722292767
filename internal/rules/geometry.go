package rules

import "geoprove/internal/geom"

// Geometry builds the registry for the Euclidean catalogue: the predicate
// declarations with their canonicalization behavior, and the rule table.
// Everything here is data fed to the generic engine.
func Geometry() *Registry {
	r := NewRegistry()

	preds := []Predicate{
		{Name: "col", Arity: 3, Canon: canonAllSorted, Variants: variantsAllPerms, Check: checkCol},
		{Name: "para", Arity: 4, Canon: canonSegmentPair, Variants: variantsSegmentPair, Check: checkPara},
		{Name: "perp", Arity: 4, Canon: canonSegmentPair, Variants: variantsSegmentPair, Check: checkPerp},
		{Name: "cong", Arity: 4, Canon: canonSegmentPair, Variants: variantsSegmentPair, Check: checkCong},
		{Name: "midp", Arity: 3, Canon: canonMidpoint, Variants: variantsMidpoint, Check: checkMidp},
		{Name: "cyclic", Arity: 4, Canon: canonAllSorted, Variants: variantsAllPerms, Check: checkCyclic},
		{Name: "eqangle", Arity: 6, Canon: canonTriplePair, Variants: variantsTriplePair, Check: checkEqangle},
		{Name: "eqratio", Arity: 8, Canon: canonRatioPair, Variants: variantsRatioPair, Check: checkEqratio},
		{Name: "sameclock", Arity: 6, Canon: canonSameclock, Variants: variantsSameclock, Check: checkSameclock},
		{Name: "simtri1", Arity: 6, Canon: canonTrianglePair, Variants: variantsTrianglePair, Check: checkSimtri1},
		{Name: "simtri2", Arity: 6, Canon: canonTrianglePair, Variants: variantsTrianglePair, Check: checkSimtri2},
		{Name: "contri1", Arity: 6, Canon: canonTrianglePair, Variants: variantsTrianglePair, Check: checkContri1},
		{Name: "contri2", Arity: 6, Canon: canonTrianglePair, Variants: variantsTrianglePair, Check: checkContri2},
		{Name: "aconst", Arity: 5},
		{Name: "inter", Arity: 5, Canon: canonIntersection, Variants: variantsIntersection, Check: nil},
	}
	for _, p := range preds {
		if err := r.Register(p); err != nil {
			panic(err)
		}
	}

	for _, rule := range geometryRules() {
		if err := r.AddRule(rule); err != nil {
			panic(err)
		}
	}
	return r
}

func prem(pred string, vars ...string) Premise {
	return Premise{Predicate: pred, Vars: vars}
}

func atom(pred string, args ...string) Atom {
	return Atom{Predicate: pred, Args: args}
}

func geometryRules() []Rule {
	return []Rule{
		// Reversing both angle triples names the same angle equality. This
		// rule and its image are mutually derivable, which is exactly the
		// cyclic-provenance shape the proof extractor has to survive.
		{
			Name:        "eqangle_rev",
			Premises:    []Premise{prem("eqangle", "A", "B", "C", "D", "E", "F")},
			Conclusions: []Atom{atom("eqangle", "C", "B", "A", "F", "E", "D")},
		},
		{
			Name: "eqangle_trans",
			Premises: []Premise{
				prem("eqangle", "A", "B", "C", "D", "E", "F"),
				prem("eqangle", "D", "E", "F", "G", "H", "I"),
			},
			Guard:       distinctTriples("A", "B", "C", "G", "H", "I"),
			Conclusions: []Atom{atom("eqangle", "A", "B", "C", "G", "H", "I")},
		},
		{
			Name: "cong_trans",
			Premises: []Premise{
				prem("cong", "A", "B", "C", "D"),
				prem("cong", "C", "D", "E", "F"),
			},
			Guard:       distinctSegments("A", "B", "E", "F"),
			Conclusions: []Atom{atom("cong", "A", "B", "E", "F")},
		},
		{
			Name: "para_trans",
			Premises: []Premise{
				prem("para", "A", "B", "C", "D"),
				prem("para", "C", "D", "E", "F"),
			},
			Guard:       distinctSegments("A", "B", "E", "F"),
			Conclusions: []Atom{atom("para", "A", "B", "E", "F")},
		},
		{
			Name: "perp_para",
			Premises: []Premise{
				prem("perp", "A", "B", "C", "D"),
				prem("para", "C", "D", "E", "F"),
			},
			Guard:       distinctSegments("A", "B", "E", "F"),
			Conclusions: []Atom{atom("perp", "A", "B", "E", "F")},
		},
		{
			Name: "perp_perp_para",
			Premises: []Premise{
				prem("perp", "A", "B", "C", "D"),
				prem("perp", "C", "D", "E", "F"),
			},
			Guard:       distinctSegments("A", "B", "E", "F"),
			Conclusions: []Atom{atom("para", "A", "B", "E", "F")},
		},
		{
			Name:     "midp_split",
			Premises: []Premise{prem("midp", "M", "A", "B")},
			Conclusions: []Atom{
				atom("col", "M", "A", "B"),
				atom("cong", "A", "M", "M", "B"),
			},
		},
		{
			Name:     "col_para",
			Premises: []Premise{prem("col", "A", "B", "C")},
			Conclusions: []Atom{
				atom("para", "A", "B", "B", "C"),
				atom("para", "A", "B", "A", "C"),
				atom("para", "B", "C", "A", "C"),
			},
		},
		// Two parallel lines through a shared point are one line.
		{
			Name:        "para_shared_col",
			Premises:    []Premise{prem("para", "A", "B", "A", "C")},
			Guard:       distinctPoints("B", "C"),
			Conclusions: []Atom{atom("col", "A", "B", "C")},
		},
		{
			Name:        "inter_col",
			Premises:    []Premise{prem("inter", "A", "B", "C", "D", "E")},
			Conclusions: []Atom{atom("col", "A", "B", "C"), atom("col", "A", "D", "E")},
		},
		// Inscribed angles subtending the same arc are equal. The fully
		// symmetric canonicalization of cyclic makes the matcher fire this
		// for every vertex ordering, which closes the whole family.
		{
			Name:        "cyclic_eqangle",
			Premises:    []Premise{prem("cyclic", "A", "B", "C", "D")},
			Conclusions: []Atom{atom("eqangle", "B", "A", "C", "B", "D", "C")},
		},
		// SAS congruence, one descriptor per orientation case.
		{
			Name: "sas_cong",
			Premises: []Premise{
				prem("cong", "A", "B", "D", "E"),
				prem("cong", "C", "A", "F", "D"),
				prem("eqangle", "C", "A", "B", "F", "D", "E"),
			},
			Guard:       orientationGuard("A", "B", "C", "D", "E", "F", true),
			Conclusions: []Atom{atom("contri1", "A", "B", "C", "D", "E", "F")},
		},
		{
			Name: "sas_cong",
			Premises: []Premise{
				prem("cong", "A", "B", "D", "E"),
				prem("cong", "A", "C", "D", "F"),
				prem("eqangle", "C", "A", "B", "E", "D", "F"),
			},
			Guard:       orientationGuard("A", "B", "C", "D", "E", "F", false),
			Conclusions: []Atom{atom("contri2", "A", "B", "C", "D", "E", "F")},
		},
		// SSS congruence.
		{
			Name: "sss_cong",
			Premises: []Premise{
				prem("cong", "A", "B", "D", "E"),
				prem("cong", "B", "C", "E", "F"),
				prem("cong", "C", "A", "F", "D"),
			},
			Guard:       orientationGuard("A", "B", "C", "D", "E", "F", true),
			Conclusions: []Atom{atom("contri1", "A", "B", "C", "D", "E", "F")},
		},
		{
			Name: "sss_cong",
			Premises: []Premise{
				prem("cong", "A", "B", "D", "E"),
				prem("cong", "B", "C", "E", "F"),
				prem("cong", "A", "C", "D", "F"),
			},
			Guard:       orientationGuard("A", "B", "C", "D", "E", "F", false),
			Conclusions: []Atom{atom("contri2", "A", "B", "C", "D", "E", "F")},
		},
		// AA similarity.
		{
			Name: "aa_sim",
			Premises: []Premise{
				prem("eqangle", "A", "B", "C", "D", "E", "F"),
				prem("eqangle", "B", "C", "A", "E", "F", "D"),
			},
			Guard:       orientationGuard("A", "B", "C", "D", "E", "F", true),
			Conclusions: []Atom{atom("simtri1", "A", "B", "C", "D", "E", "F")},
		},
		{
			Name: "aa_sim",
			Premises: []Premise{
				prem("eqangle", "A", "B", "C", "F", "E", "D"),
				prem("eqangle", "B", "C", "A", "D", "F", "E"),
			},
			Guard:       orientationGuard("A", "B", "C", "D", "E", "F", false),
			Conclusions: []Atom{atom("simtri2", "A", "B", "C", "D", "E", "F")},
		},
		// Congruent triangles decompose into their component relations.
		{
			Name:     "contri1_split",
			Premises: []Premise{prem("contri1", "A", "B", "C", "D", "E", "F")},
			Conclusions: []Atom{
				atom("eqangle", "A", "B", "C", "D", "E", "F"),
				atom("eqangle", "B", "C", "A", "E", "F", "D"),
				atom("eqangle", "C", "A", "B", "F", "D", "E"),
				atom("cong", "A", "B", "D", "E"),
				atom("cong", "B", "C", "E", "F"),
				atom("cong", "C", "A", "F", "D"),
			},
		},
		{
			Name:     "contri2_split",
			Premises: []Premise{prem("contri2", "A", "B", "C", "D", "E", "F")},
			Conclusions: []Atom{
				atom("eqangle", "C", "A", "B", "E", "D", "F"),
				atom("eqangle", "B", "C", "A", "D", "F", "E"),
				atom("eqangle", "A", "B", "C", "F", "E", "D"),
				atom("cong", "A", "B", "D", "E"),
				atom("cong", "B", "C", "E", "F"),
				atom("cong", "A", "C", "D", "F"),
			},
		},
		{
			Name:        "contri1_simtri",
			Premises:    []Premise{prem("contri1", "A", "B", "C", "D", "E", "F")},
			Conclusions: []Atom{atom("simtri1", "A", "B", "C", "D", "E", "F")},
		},
		{
			Name:        "contri2_simtri",
			Premises:    []Premise{prem("contri2", "A", "B", "C", "D", "E", "F")},
			Conclusions: []Atom{atom("simtri2", "A", "B", "C", "D", "E", "F")},
		},
		{
			Name:     "simtri1_split",
			Premises: []Premise{prem("simtri1", "A", "B", "C", "D", "E", "F")},
			Conclusions: []Atom{
				atom("eqangle", "A", "B", "C", "D", "E", "F"),
				atom("eqangle", "B", "C", "A", "E", "F", "D"),
				atom("eqangle", "C", "A", "B", "F", "D", "E"),
				atom("eqratio", "A", "C", "B", "C", "D", "F", "E", "F"),
				atom("eqratio", "A", "C", "B", "A", "D", "F", "E", "D"),
			},
		},
		{
			Name:     "simtri2_split",
			Premises: []Premise{prem("simtri2", "A", "B", "C", "D", "E", "F")},
			Conclusions: []Atom{
				atom("eqangle", "A", "B", "C", "F", "E", "D"),
				atom("eqangle", "B", "C", "A", "D", "F", "E"),
				atom("eqratio", "A", "C", "A", "B", "D", "F", "D", "E"),
				atom("eqratio", "A", "B", "B", "C", "D", "E", "E", "F"),
			},
		},
	}
}

// distinctSegments rejects bindings where {a,b} and {c,d} name the same
// unordered segment. Needs no coordinates.
func distinctSegments(a, b, c, d string) Guard {
	return func(bind Binding, _ *geom.Table) bool {
		p, q, r, s := bind[a], bind[b], bind[c], bind[d]
		return !(p == r && q == s) && !(p == s && q == r)
	}
}

func distinctTriples(a, b, c, d, e, f string) Guard {
	return func(bind Binding, _ *geom.Table) bool {
		return !(bind[a] == bind[d] && bind[b] == bind[e] && bind[c] == bind[f])
	}
}

func distinctPoints(a, b string) Guard {
	return func(bind Binding, _ *geom.Table) bool {
		return bind[a] != bind[b]
	}
}

// orientationGuard resolves six points and requires their triangles to wind
// the same way (or opposite ways). Missing coordinates or degenerate
// triangles reject the binding; they never abort a pass.
func orientationGuard(a, b, c, d, e, f string, wantSame bool) Guard {
	vars := []string{a, b, c, d, e, f}
	return func(bind Binding, pts *geom.Table) bool {
		resolved := make([]geom.Point, 6)
		for i, v := range vars {
			pt, ok := pts.Get(bind[v])
			if !ok {
				return false
			}
			resolved[i] = pt
		}
		same, ok := geom.SameOrientation(resolved[0], resolved[1], resolved[2], resolved[3], resolved[4], resolved[5])
		return ok && same == wantSame
	}
}
