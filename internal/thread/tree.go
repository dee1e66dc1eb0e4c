// Package thread nests a flat list of comments into reply trees.
package thread

import (
	"github.com/google/uuid"

	"tinkbyte-api/internal/domain"
)

// DefaultMaxDepth is the deepest reply level rendered as its own nesting level
const DefaultMaxDepth = 4

// Node is a comment with its direct replies
type Node struct {
	Comment *domain.Comment
	Depth   int
	Replies []*Node
}

// Build nests comments under their parents and returns the roots.
//
// A comment whose parent is not in the input is a root. Siblings keep input
// order. A reply that would sit deeper than maxDepth is attached to its ancestor
// at maxDepth-1, so no node is rendered below maxDepth. Parent chains that loop
// are cut at the first looping comment in input order, which becomes a root.
func Build(comments []*domain.Comment, maxDepth int) []*Node {
	if maxDepth < 0 {
		maxDepth = 0
	}

	nodes := make(map[uuid.UUID]*Node, len(comments))
	order := make([]*Node, 0, len(comments))
	for _, c := range comments {
		if c == nil {
			continue
		}
		if _, dup := nodes[c.ID]; dup {
			continue
		}
		n := &Node{Comment: c}
		nodes[c.ID] = n
		order = append(order, n)
	}

	parentOf := make(map[uuid.UUID]uuid.UUID, len(order))
	for _, n := range order {
		if pid := n.Comment.ParentID; pid != nil && *pid != n.Comment.ID {
			if _, ok := nodes[*pid]; ok {
				parentOf[n.Comment.ID] = *pid
			}
		}
	}
	breakCycles(order, parentOf)

	depths := make(map[uuid.UUID]int, len(order))
	var depthOf func(id uuid.UUID) int
	depthOf = func(id uuid.UUID) int {
		if d, ok := depths[id]; ok {
			return d
		}
		d := 0
		if pid, ok := parentOf[id]; ok {
			d = depthOf(pid) + 1
		}
		depths[id] = d
		return d
	}

	roots := make([]*Node, 0)
	for _, n := range order {
		id := n.Comment.ID
		if _, ok := parentOf[id]; !ok {
			n.Depth = 0
			roots = append(roots, n)
			continue
		}

		depth := depthOf(id)
		holder := parentOf[id]
		if depth > maxDepth {
			// too deep: hang beside the chain at maxDepth, under the ancestor one level up
			if maxDepth == 0 {
				n.Depth = 0
				roots = append(roots, n)
				continue
			}
			for d := depth - 1; d > maxDepth-1; d-- {
				holder = parentOf[holder]
			}
			depth = maxDepth
		}
		n.Depth = depth
		nodes[holder].Replies = append(nodes[holder].Replies, n)
	}

	return roots
}

// breakCycles removes the parent link of the first comment (in input order) on
// every parent loop.
func breakCycles(order []*Node, parentOf map[uuid.UUID]uuid.UUID) {
	const (
		_ = iota
		visiting
		done
	)
	state := make(map[uuid.UUID]int, len(order))

	for _, n := range order {
		start := n.Comment.ID
		if state[start] == done {
			continue
		}

		var path []uuid.UUID
		cur := start
		for {
			if state[cur] == done {
				break
			}
			if state[cur] == visiting {
				// cur is on the loop; cut the loop member that appears first in input
				cutLoop(order, parentOf, cur)
				break
			}
			state[cur] = visiting
			path = append(path, cur)
			pid, ok := parentOf[cur]
			if !ok {
				break
			}
			cur = pid
		}
		for _, id := range path {
			state[id] = done
		}
	}
}

func cutLoop(order []*Node, parentOf map[uuid.UUID]uuid.UUID, member uuid.UUID) {
	loop := map[uuid.UUID]bool{member: true}
	for cur := parentOf[member]; cur != member; cur = parentOf[cur] {
		loop[cur] = true
	}
	for _, n := range order {
		if loop[n.Comment.ID] {
			delete(parentOf, n.Comment.ID)
			return
		}
	}
}

// Flatten returns the nodes in depth-first order
func Flatten(roots []*Node) []*Node {
	out := make([]*Node, 0, Count(roots))
	var walk func(nodes []*Node)
	walk = func(nodes []*Node) {
		for _, n := range nodes {
			out = append(out, n)
			walk(n.Replies)
		}
	}
	walk(roots)
	return out
}

// Count returns the number of nodes in the forest
func Count(roots []*Node) int {
	total := 0
	for _, n := range roots {
		total += 1 + Count(n.Replies)
	}
	return total
}
