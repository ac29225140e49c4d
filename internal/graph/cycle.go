// Package graph holds the pure dependency-graph algorithms used by the
// lifecycle engine. Functions operate on in-memory adjacency views
// loaded per organization; nothing here touches storage.
package graph

// Edges is an adjacency view of the dependency graph: for each task id,
// the ids it depends on.
type Edges map[string][]string

// WouldCreateCycle reports whether adding an edge taskID -> dependsOnID
// would close a cycle, i.e. whether taskID is already reachable from
// dependsOnID over the existing edges. Iterative DFS, bounded by the
// number of tasks in the view.
func WouldCreateCycle(edges Edges, taskID, dependsOnID string) bool {
	if taskID == dependsOnID {
		return true
	}
	stack := []string{dependsOnID}
	seen := map[string]bool{dependsOnID: true}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, next := range edges[cur] {
			if next == taskID {
				return true
			}
			if !seen[next] {
				seen[next] = true
				stack = append(stack, next)
			}
		}
	}
	return false
}

// AncestorChainContains reports whether walking parent links upward from
// startID reaches taskID. parents maps a task id to its parent task id.
// A pre-existing loop in the chain terminates the walk without a match.
func AncestorChainContains(parents map[string]string, startID, taskID string) bool {
	seen := map[string]bool{}
	for cur := startID; cur != ""; cur = parents[cur] {
		if cur == taskID {
			return true
		}
		if seen[cur] {
			return false
		}
		seen[cur] = true
	}
	return false
}
