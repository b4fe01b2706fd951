package expr

import (
	"github.com/funvibe/pushkit/internal/omap"
)

// node holds the graph state shared by every expression variant:
// named children, the reification flag, and the cached depth.
// Invariant: depth = 1 + max(child.depth), or 1 with no children.
type node struct {
	children *omap.OMap[string, Expression]
	reified  bool
	depth    int
}

func newNode() node {
	return node{children: omap.New[string, Expression](), depth: 1}
}

func (n *node) Children() *omap.OMap[string, Expression] { return n.children }
func (n *node) Reified() bool                            { return n.reified }
func (n *node) Depth() int                               { return n.depth }

func (n *node) AddChild(name string, child Expression) {
	n.children = n.children.Add(name, child)
	n.updateDepth()
}

func (n *node) AddChildren(children *omap.OMap[string, Expression]) {
	n.children = n.children.Merge(children)
	n.updateDepth()
}

func (n *node) FlushChildren() {
	n.children = omap.New[string, Expression]()
	n.updateDepth()
}

func (n *node) updateDepth() {
	max := 0
	for _, child := range n.children.Values() {
		if child.Depth() > max {
			max = child.Depth()
		}
	}
	n.depth = max + 1
}

// cloneNode copies the node state. The children map is immutable, so
// sharing it is safe; the copy gets independent child slots the moment
// AddChild rebinds them.
func (n *node) cloneNode() node {
	return node{children: n.children, reified: n.reified, depth: n.depth}
}

// nodeEqual compares the structural part shared by all variants.
func (n *node) nodeEqual(other Expression) bool {
	if n.reified != other.Reified() {
		return false
	}
	return n.children.Equal(other.Children(), func(a, b Expression) bool {
		return a.Equal(b)
	})
}
