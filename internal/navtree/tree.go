package navtree

import (
	"errors"
	"fmt"
)

// ID identifies an item within a Tree.
type ID int

// NoID is the parent of the root.
const NoID ID = -1

// ErrSharedNode is returned when a Node is reachable through more than one
// parent, which includes cycles.
var ErrSharedNode = errors.New("navigation node reachable through more than one parent")

// Item is a single navigation entry.
type Item struct {
	Title         string
	URL           string   // Page this entry points to (empty for structural entries)
	DedicatedURLs []string // Other pages that also select this entry
	IsGlobals     bool     // Always-visible root-level category

	Parent   ID
	Children []ID
}

// Tree is an arena of navigation items. Item 0 is the root and every item's
// parent ID is smaller than its own, so upward walks always terminate.
//
// A Tree is not modified by annotation and may be shared between goroutines
// once it has been built.
type Tree struct {
	items []Item
}

// New creates a tree holding only the root item.
func New(root Item) *Tree {
	root.Parent = NoID
	root.Children = nil
	return &Tree{items: []Item{root}}
}

// Root returns the root ID.
func (t *Tree) Root() ID { return 0 }

// Len returns the number of items.
func (t *Tree) Len() int { return len(t.items) }

// Add appends item as the last child of parent and returns its ID.
func (t *Tree) Add(parent ID, item Item) (ID, error) {
	if !t.valid(parent) {
		return NoID, fmt.Errorf("add %q: unknown parent %d", item.Title, parent)
	}
	id := ID(len(t.items))
	item.Parent = parent
	item.Children = nil
	t.items = append(t.items, item)
	t.items[parent].Children = append(t.items[parent].Children, id)
	return id, nil
}

// Item returns the item with the given ID. The returned pointer must be
// treated as read-only.
func (t *Tree) Item(id ID) *Item {
	if !t.valid(id) {
		return nil
	}
	return &t.items[id]
}

// Walk visits every item in pre-order. Returning false from fn skips the
// item's children.
func (t *Tree) Walk(fn func(id ID, depth int) bool) {
	var walk func(id ID, depth int)
	walk = func(id ID, depth int) {
		if !fn(id, depth) {
			return
		}
		for _, c := range t.items[id].Children {
			walk(c, depth+1)
		}
	}
	walk(t.Root(), 0)
}

func (t *Tree) valid(id ID) bool {
	return id >= 0 && int(id) < len(t.items)
}

// Node is the nested form of a navigation tree, as produced by themes and
// menu files.
type Node struct {
	Title         string   `yaml:"title" json:"title"`
	URL           string   `yaml:"url,omitempty" json:"url,omitempty"`
	DedicatedURLs []string `yaml:"aliases,omitempty" json:"aliases,omitempty"`
	IsGlobals     bool     `yaml:"globals,omitempty" json:"globals,omitempty"`
	Children      []*Node  `yaml:"children,omitempty" json:"children,omitempty"`
}

// FromNode converts a nested node tree into an arena Tree.
func FromNode(root *Node) (*Tree, error) {
	if root == nil {
		return nil, errors.New("build navigation: nil root")
	}
	seen := map[*Node]bool{root: true}
	t := New(root.item())

	var add func(parent ID, n *Node) error
	add = func(parent ID, n *Node) error {
		for _, c := range n.Children {
			if c == nil {
				continue
			}
			if seen[c] {
				return fmt.Errorf("build navigation: %q: %w", c.Title, ErrSharedNode)
			}
			seen[c] = true
			id, err := t.Add(parent, c.item())
			if err != nil {
				return err
			}
			if err := add(id, c); err != nil {
				return err
			}
		}
		return nil
	}
	if err := add(t.Root(), root); err != nil {
		return nil, err
	}
	return t, nil
}

func (n *Node) item() Item {
	return Item{
		Title:         n.Title,
		URL:           n.URL,
		DedicatedURLs: append([]string(nil), n.DedicatedURLs...),
		IsGlobals:     n.IsGlobals,
	}
}
