package workflow

import (
	"fmt"
	"slices"
)

// Definition is a named, versioned workflow: a set of step specs whose
// After references form an acyclic graph. Definitions are immutable
// after load; Compile validates the graph and produces the execution
// plan the engine walks.
type Definition struct {
	Name        string     `json:"name"`
	Version     string     `json:"version"`
	Description string     `json:"description,omitempty"`
	Steps       []StepSpec `json:"steps"`
}

// Plan is a compiled definition: steps grouped into ordered stages. A
// stage with more than one step is a parallel group whose members share
// identical predecessor and successor sets.
type Plan struct {
	Definition *Definition
	Stages     [][]*StepSpec
}

// StepCount returns the total number of steps in the plan.
func (p *Plan) StepCount() int {
	count := 0
	for _, stage := range p.Stages {
		count += len(stage)
	}
	return count
}

// Compile validates the definition graph and groups steps into ordered
// stages. It returns an error wrapping ErrStructural for duplicate ids,
// dangling After references, cycles, invalid retry budgets, or parallel
// siblings with mismatched predecessor/successor sets.
func (d *Definition) Compile() (*Plan, error) {
	if d.Name == "" {
		return nil, fmt.Errorf("%w: definition name required", ErrStructural)
	}
	if len(d.Steps) == 0 {
		return nil, fmt.Errorf("%w: %s has no steps", ErrStructural, d.Name)
	}

	index := make(map[string]*StepSpec, len(d.Steps))
	for i := range d.Steps {
		step := &d.Steps[i]
		if step.ID == "" {
			return nil, fmt.Errorf("%w: %s contains a step without an id", ErrStructural, d.Name)
		}
		if step.Capability == "" {
			return nil, fmt.Errorf("%w: %s step %s has no capability", ErrStructural, d.Name, step.ID)
		}
		if step.RetryBudget < 0 || step.RetryBudget > MaxRetryBudget {
			return nil, fmt.Errorf(
				"%w: %s step %s retry budget %d outside [0,%d]",
				ErrStructural, d.Name, step.ID, step.RetryBudget, MaxRetryBudget,
			)
		}
		if _, exists := index[step.ID]; exists {
			return nil, fmt.Errorf("%w: %s has duplicate step id %s", ErrStructural, d.Name, step.ID)
		}
		index[step.ID] = step
	}

	successors := make(map[string][]string, len(d.Steps))
	for i := range d.Steps {
		step := &d.Steps[i]
		for _, dep := range step.After {
			if _, exists := index[dep]; !exists {
				return nil, fmt.Errorf(
					"%w: %s step %s references unknown step %s",
					ErrStructural, d.Name, step.ID, dep,
				)
			}
			successors[dep] = append(successors[dep], step.ID)
		}
	}

	depths, err := d.resolveDepths(index)
	if err != nil {
		return nil, err
	}

	stages, err := d.groupStages(index, successors, depths)
	if err != nil {
		return nil, err
	}

	return &Plan{Definition: d, Stages: stages}, nil
}

// resolveDepths assigns each step its stage depth (longest dependency
// chain from a root) via Kahn's algorithm, detecting cycles.
func (d *Definition) resolveDepths(index map[string]*StepSpec) (map[string]int, error) {
	remaining := make(map[string]int, len(d.Steps))
	for i := range d.Steps {
		remaining[d.Steps[i].ID] = len(d.Steps[i].After)
	}

	depths := make(map[string]int, len(d.Steps))
	var frontier []string
	for id, deps := range remaining {
		if deps == 0 {
			frontier = append(frontier, id)
			depths[id] = 0
		}
	}

	resolved := 0
	for len(frontier) > 0 {
		var next []string
		for _, id := range frontier {
			resolved++
			for j := range d.Steps {
				step := &d.Steps[j]
				if !slices.Contains(step.After, id) {
					continue
				}
				if depth := depths[id] + 1; depth > depths[step.ID] {
					depths[step.ID] = depth
				}
				remaining[step.ID]--
				if remaining[step.ID] == 0 {
					next = append(next, step.ID)
				}
			}
		}
		frontier = next
	}

	if resolved != len(d.Steps) {
		return nil, fmt.Errorf("%w: %s contains a dependency cycle", ErrStructural, d.Name)
	}

	return depths, nil
}

// groupStages orders steps into stages by depth and enforces that
// parallel siblings share identical predecessor and successor sets.
func (d *Definition) groupStages(
	index map[string]*StepSpec,
	successors map[string][]string,
	depths map[string]int,
) ([][]*StepSpec, error) {
	maxDepth := 0
	for _, depth := range depths {
		maxDepth = max(maxDepth, depth)
	}

	stages := make([][]*StepSpec, maxDepth+1)
	for i := range d.Steps {
		step := &d.Steps[i]
		depth := depths[step.ID]
		stages[depth] = append(stages[depth], step)
	}

	for _, stage := range stages {
		if len(stage) < 2 {
			continue
		}
		first := stage[0]
		for _, sibling := range stage[1:] {
			if !sameSet(first.After, sibling.After) {
				return nil, fmt.Errorf(
					"%w: %s parallel steps %s and %s have different predecessors",
					ErrStructural, d.Name, first.ID, sibling.ID,
				)
			}
			if !sameSet(successors[first.ID], successors[sibling.ID]) {
				return nil, fmt.Errorf(
					"%w: %s parallel steps %s and %s have different successors",
					ErrStructural, d.Name, first.ID, sibling.ID,
				)
			}
		}
	}

	return stages, nil
}

func sameSet(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	as := slices.Clone(a)
	bs := slices.Clone(b)
	slices.Sort(as)
	slices.Sort(bs)
	return slices.Equal(as, bs)
}
