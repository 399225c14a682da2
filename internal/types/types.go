package types

// Workspace is a sway workspace as the bar and user commands see it.
type Workspace struct {
	Name    string
	Output  string
	Focused bool
	// Windows counts the tiled leaves.
	Windows int
}

// Node is a trimmed copy of a sway tree node.
type Node struct {
	ID     int
	Name   string
	Layout string
	App    string
	Border string
	Width  int
	Height int
	Nodes  []Node
}

// IsWindow reports whether the node is a leaf container, not a split.
func (n Node) IsWindow() bool {
	switch n.Layout {
	case "splith", "splitv", "tabbed", "stacked":
		return false
	}

	return true
}

// CountWindows counts the leaves below the node.
func (n Node) CountWindows() int {
	if len(n.Nodes) == 0 {
		if n.IsWindow() {
			return 1
		}
		return 0
	}
	count := 0
	for _, c := range n.Nodes {
		count += c.CountWindows()
	}

	return count
}

// PathTo returns the nodes from n down to the node with the given ID, or nil.
func (n *Node) PathTo(id int) []*Node {
	if n.ID == id {
		return []*Node{n}
	}
	for i := range n.Nodes {
		if p := n.Nodes[i].PathTo(id); p != nil {
			return append([]*Node{n}, p...)
		}
	}

	return nil
}
