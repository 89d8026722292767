package proof

import (
	"fmt"
	"strings"

	"geoprove/internal/fact"
)

// Render formats a proof as the numbered listing the solver emits: one step
// per line, the justification after a separator, premises cited by step
// number. Output is byte-stable for a given step list.
func Render(steps []Step) string {
	position := make(map[fact.Key]int, len(steps))
	for _, s := range steps {
		position[s.Key] = s.ID
	}

	var sb strings.Builder
	for i, s := range steps {
		if i > 0 {
			sb.WriteByte('\n')
		}
		justification := "axiom"
		if s.By.IsAxiom() {
			if s.By.Source != "" && s.By.Source != fact.SourceProblem {
				justification = "axiom (" + s.By.Source + ")"
			}
		} else {
			refs := make([]string, len(s.By.Premises))
			for j, p := range s.By.Premises {
				refs[j] = fmt.Sprintf("[%d]", position[p])
			}
			justification = s.By.Rule + " " + strings.Join(refs, ",")
		}
		fmt.Fprintf(&sb, "[%d] %-30s | %s", s.ID, s.Key.String(), justification)
	}
	return sb.String()
}
