// Package filters models the hierarchical filter criteria the sidebar
// exposes: a tree of selectable nodes where a node is effective only when it
// and every ancestor are selected, and where some sibling groups must keep
// at least one member selected.
package filters

import (
	"errors"
	"fmt"
	"sort"
)

var (
	// ErrUnknownNode is returned when a toggle names a node that is not in
	// the tree.
	ErrUnknownNode = errors.New("filters: unknown node")
	// ErrLastInSection is returned when a toggle would deselect the last
	// selected member of a section group. State is left unchanged; callers
	// surface this as a warning.
	ErrLastInSection = errors.New("filters: section requires at least one selected member")
)

// Node is a selectable filter criterion. Parent is a back-reference only;
// ownership flows through Children. Section names the sibling group the node
// belongs to, if any; members of a non-empty section are subject to the
// minimum-one-selected rule. Optional modifier leaves carry no section.
type Node struct {
	ID          string
	DisplayName string
	Parent      *Node
	Children    []*Node
	Section     string
}

// Leaf reports whether the node has no children.
func (n *Node) Leaf() bool { return len(n.Children) == 0 }

// Tree holds the criteria nodes and their selection state. Enablement is
// never stored; it is derived from the selection of a node and its ancestor
// chain.
type Tree struct {
	roots    []*Node
	nodes    map[string]*Node
	selected map[string]bool
	sections map[string][]string
}

// NewTree builds a tree from the given roots, wiring parent back-references
// and indexing section groups. Every node starts selected except optional
// modifiers (section-less leaves flagged by startDeselected).
func NewTree(roots []*Node, startDeselected ...string) (*Tree, error) {
	t := &Tree{
		roots:    roots,
		nodes:    map[string]*Node{},
		selected: map[string]bool{},
		sections: map[string][]string{},
	}
	var walk func(n *Node, parent *Node) error
	walk = func(n *Node, parent *Node) error {
		if _, dup := t.nodes[n.ID]; dup {
			return fmt.Errorf("filters: duplicate node id %q", n.ID)
		}
		n.Parent = parent
		t.nodes[n.ID] = n
		t.selected[n.ID] = true
		if n.Section != "" {
			t.sections[n.Section] = append(t.sections[n.Section], n.ID)
		}
		for _, c := range n.Children {
			if err := walk(c, n); err != nil {
				return err
			}
		}
		return nil
	}
	for _, r := range roots {
		if err := walk(r, nil); err != nil {
			return nil, err
		}
	}
	for _, id := range startDeselected {
		if _, ok := t.nodes[id]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownNode, id)
		}
		t.selected[id] = false
	}
	return t, nil
}

// Toggle flips the selection of the node with the given id. Deselecting the
// sole selected member of a section group of size > 1 is refused with
// ErrLastInSection and no mutation.
func (t *Tree) Toggle(id string) error {
	n, ok := t.nodes[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownNode, id)
	}
	if t.selected[id] && n.Section != "" {
		members := t.sections[n.Section]
		if len(members) > 1 && t.selectedInSection(n.Section) == 1 {
			return fmt.Errorf("%w: %s", ErrLastInSection, n.Section)
		}
	}
	t.selected[id] = !t.selected[id]
	return nil
}

func (t *Tree) selectedInSection(section string) int {
	count := 0
	for _, id := range t.sections[section] {
		if t.selected[id] {
			count++
		}
	}
	return count
}

// Selected reports the node's own selection bit, ignoring ancestors.
func (t *Tree) Selected(id string) bool { return t.selected[id] }

// Enabled reports whether the node and every ancestor are selected.
// Deselecting a parent therefore disables its subtree without touching the
// children's own selection, so re-selecting the parent restores them.
func (t *Tree) Enabled(id string) bool {
	n, ok := t.nodes[id]
	if !ok {
		return false
	}
	for ; n != nil; n = n.Parent {
		if !t.selected[n.ID] {
			return false
		}
	}
	return true
}

// EnabledLeaves returns the set of leaf ids whose full ancestor chain is
// selected. This is the flattened state the display predicate consumes.
func (t *Tree) EnabledLeaves() map[string]bool {
	out := map[string]bool{}
	for id, n := range t.nodes {
		if n.Leaf() && t.Enabled(id) {
			out[id] = true
		}
	}
	return out
}

// Snapshot returns the sorted ids of all currently selected nodes, suitable
// for persistence.
func (t *Tree) Snapshot() []string {
	ids := make([]string, 0, len(t.selected))
	for id, sel := range t.selected {
		if sel {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

// Restore replaces the selection state with the given ids. Unknown ids are
// ignored so stale persisted snapshots cannot poison the tree.
func (t *Tree) Restore(ids []string) {
	for id := range t.selected {
		t.selected[id] = false
	}
	for _, id := range ids {
		if _, ok := t.nodes[id]; ok {
			t.selected[id] = true
		}
	}
}
