package compile

import (
	"github.com/vk/gridflow/internal/sets"
)

// Optimise rewrites a plan so that buffer slots are reused whenever their
// lifetimes do not overlap. A backward liveness pass over the transform
// list records a conflict between every pair of simultaneously live slots;
// a first-fit greedy coloring then assigns the lowest non-conflicting
// buffer index to every slot. Greedy coloring is deliberately a heuristic,
// not a minimum-coloring solver, but it is deterministic.
//
// The returned plan shares the source directory with the input; Slots is
// the colored buffer pool size (max color + 1).
func Optimise(plan *Plan) *Plan {
	if len(plan.Transforms) == 0 {
		return &Plan{Sources: plan.Sources}
	}

	conflicts := conflictGraph(plan.Transforms)
	colors := colorSlots(plan.Slots, conflicts)

	out := &Plan{
		Transforms: make([]Transform, 0, len(plan.Transforms)),
		Sources:    plan.Sources,
	}
	maxColor := 0
	for _, t := range plan.Transforms {
		reads := make([]int, len(t.Reads))
		for i, r := range t.Reads {
			reads[i] = colors[r]
		}
		write := colors[t.Write]
		if write > maxColor {
			maxColor = write
		}
		out.Transforms = append(out.Transforms, Transform{Node: t.Node, Write: write, Reads: reads})
	}
	out.Slots = maxColor + 1
	return out
}

// conflictGraph scans the transform list in reverse, tracking the set of
// slots still needed by later steps. Each read joins the live set and
// conflicts with everything already in it; a step's write leaves the live
// set once its defining step is reached. The final transform's write seeds
// the live set, since the backend consumes it after the plan finishes.
func conflictGraph(transforms []Transform) map[int]sets.Set[int] {
	conflicts := make(map[int]sets.Set[int])
	addConflict := func(a, b int) {
		if conflicts[a] == nil {
			conflicts[a] = sets.New[int]()
		}
		if conflicts[b] == nil {
			conflicts[b] = sets.New[int]()
		}
		conflicts[a].Add(b)
		conflicts[b].Add(a)
	}

	live := sets.New[int](transforms[len(transforms)-1].Write)
	for i := len(transforms) - 1; i >= 0; i-- {
		t := transforms[i]
		for _, r := range t.Reads {
			for l := range live {
				if l != r {
					addConflict(r, l)
				}
			}
			live.Add(r)
		}
		live.Delete(t.Write)
	}
	return conflicts
}

// colorSlots greedily colors the slot indices 0..n-1: for each color in
// ascending order, every still-uncolored slot whose conflict neighbors do
// not already hold that color takes it. Slots are visited in ascending
// index order, so the result is deterministic.
func colorSlots(n int, conflicts map[int]sets.Set[int]) []int {
	colors := make([]int, n)
	for i := range colors {
		colors[i] = -1
	}

	remaining := n
	for c := 0; remaining > 0; c++ {
		for slot := 0; slot < n; slot++ {
			if colors[slot] != -1 {
				continue
			}
			taken := false
			for nb := range conflicts[slot] {
				if colors[nb] == c {
					taken = true
					break
				}
			}
			if !taken {
				colors[slot] = c
				remaining--
			}
		}
	}
	return colors
}
