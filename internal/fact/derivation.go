package fact

import "strings"

// Derivation is one justification for a fact: either an axiom (optionally
// tagged with the source that supplied it) or a rule application citing the
// premise keys it consumed. Premises are recorded in the rule's declared
// order.
type Derivation struct {
	Rule     string // empty for axioms
	Source   string // axiom source tag ("problem", reasoner name, ...)
	Premises []Key
}

// SourceProblem tags axioms stated by the problem itself, as opposed to
// axioms supplied by an external reasoner.
const SourceProblem = "problem"

// Axiom returns an axiom derivation tagged with the given source.
func Axiom(source string) Derivation {
	return Derivation{Source: source}
}

// ByRule returns a rule derivation citing the given premises.
func ByRule(rule string, premises ...Key) Derivation {
	return Derivation{Rule: rule, Premises: premises}
}

// IsAxiom reports whether the derivation is an axiom.
func (d Derivation) IsAxiom() bool {
	return d.Rule == ""
}

func (d Derivation) String() string {
	if d.IsAxiom() {
		if d.Source != "" {
			return "axiom(" + d.Source + ")"
		}
		return "axiom"
	}
	parts := make([]string, len(d.Premises))
	for i, p := range d.Premises {
		parts[i] = p.String()
	}
	return d.Rule + "(" + strings.Join(parts, "; ") + ")"
}

// signature is the identity of a derivation inside a provenance set. Two
// derivations with the same rule, source, and premise sequence are the same
// justification.
func (d Derivation) signature() string {
	var sb strings.Builder
	sb.WriteString(d.Rule)
	sb.WriteByte('\x00')
	sb.WriteString(d.Source)
	for _, p := range d.Premises {
		sb.WriteByte('\x00')
		sb.WriteString(p.String())
	}
	return sb.String()
}
