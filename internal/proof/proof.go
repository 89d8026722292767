// Package proof extracts a minimal acyclic proof from a goal's provenance
// set. The raw provenance graph can be cyclic (mutually derivable symmetric
// facts cite each other), so extraction is a depth-first walk with explicit
// in-progress marking: a derivation whose premise is currently being realized
// is rejected and the next one tried. The result is a topologically ordered
// step list by construction.
package proof

import (
	"fmt"

	"geoprove/internal/fact"
)

// Step is one line of an extracted proof. Every premise cited by By has a
// strictly smaller step ID, and no fact key appears on two steps.
type Step struct {
	ID  int
	Key fact.Key
	By  fact.Derivation
}

// CycleError reports that every derivation of some fact needed for the goal
// closes a cycle, so no acyclic proof exists. That signals a defect in the
// rule set's provenance construction, not in the problem.
type CycleError struct {
	Goal fact.Key
	Key  fact.Key
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("no acyclic derivation of %s while proving %s", e.Key, e.Goal)
}

type extractor struct {
	store      *fact.Store
	steps      []Step
	placed     map[fact.Key]int
	inProgress map[fact.Key]bool
}

// Extract produces an ordered proof of the goal from its provenance set.
// The goal must be known in the store.
func Extract(store *fact.Store, goal fact.Key) ([]Step, error) {
	if !store.Known(goal) {
		return nil, fmt.Errorf("goal %s is not known", goal)
	}
	ex := &extractor{
		store:      store,
		placed:     make(map[fact.Key]int),
		inProgress: make(map[fact.Key]bool),
	}
	failed, err := ex.realize(goal)
	if err != nil {
		return nil, err
	}
	if failed != nil {
		return nil, &CycleError{Goal: goal, Key: *failed}
	}
	return trim(ex.steps, goal), nil
}

// trim drops steps nothing on the path to the goal cites. The walk can
// place a premise and then reject the derivation that wanted it, which
// leaves orphan steps in the list. Steps are topologically ordered, so a
// single backward sweep finds everything reachable from the goal.
func trim(steps []Step, goal fact.Key) []Step {
	needed := map[fact.Key]bool{goal: true}
	for i := len(steps) - 1; i >= 0; i-- {
		if !needed[steps[i].Key] {
			continue
		}
		for _, p := range steps[i].By.Premises {
			needed[p] = true
		}
	}
	out := make([]Step, 0, len(steps))
	for _, s := range steps {
		if !needed[s.Key] {
			continue
		}
		s.ID = len(out) + 1
		out = append(out, s)
	}
	return out
}

// realize places a fact and everything it depends on. It returns a non-nil
// key when every derivation of some needed fact was rejected for cyclicity;
// the caller then tries its own next derivation.
func (ex *extractor) realize(key fact.Key) (*fact.Key, error) {
	if _, ok := ex.placed[key]; ok {
		return nil, nil
	}
	if ex.inProgress[key] {
		// Realizing key would require key itself: reject this path.
		return &key, nil
	}

	set := ex.store.ProvenanceOf(key)
	if set.Empty() {
		return nil, fmt.Errorf("fact %s cited as premise but has no derivation", key)
	}

	ex.inProgress[key] = true
	defer delete(ex.inProgress, key)

	// Derivations come back axioms-first, then deterministically ordered
	// rule derivations: the shortest justification wins when it can.
derivations:
	for _, d := range set.Derivations() {
		for _, premise := range d.Premises {
			failed, err := ex.realize(premise)
			if err != nil {
				return nil, err
			}
			if failed != nil {
				continue derivations
			}
		}
		id := len(ex.steps) + 1
		ex.placed[key] = id
		ex.steps = append(ex.steps, Step{ID: id, Key: key, By: d})
		return nil, nil
	}

	return &key, nil
}
