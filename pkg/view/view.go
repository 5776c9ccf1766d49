// Package view lowers a flat design graph into a hierarchical block tree.
//
// The lowering pass runs in two phases over an immutable [model.Graph]
// snapshot. The first phase walks the containment sub-graph reachable from
// a root vertex and produces one [Block] per module/component/file, one
// [Pin] per retained pin/signal, and a path-keyed directory of blocks. The
// second phase scopes every eligible electrical connection to the lowest
// block containing both endpoints and appends a [Link] there.
//
// Two heuristics shape the visible surface: pins whose only connection is
// a pass-through to a signal in the same container are elided, and
// interfaces are never materialized - their pins are flattened into the
// enclosing block under hyphen-composed names ("iface-pin").
//
// The resulting tree serializes to nested JSON records for rendering and
// export tooling; serialization itself applies no semantic logic.
package view

// Pin is an electrically terminal point exposed at a block boundary.
// The name may be composite when the pin was flattened out of one or more
// enclosing interfaces ("i2c-sda", "bus-i2c-sda").
type Pin struct {
	Name   string         `json:"name"`
	Fields map[string]any `json:"fields"`
}

// Link is an electrical connection scoped to the block that is the lowest
// common container of both endpoints. Source and Target are rendered
// relative to that block, using dots between nested blocks and hyphens from
// the first interface segment onward so that they match flattened pin
// names.
type Link struct {
	Name   string `json:"name"`
	Source string `json:"source"`
	Target string `json:"target"`
}

// Block is one module, component or file in the lowered hierarchy.
//
// A Block is created exactly once during the builder's traversal and is
// mutated afterwards only by the link pass appending to Links. Child order
// follows the source graph's edge order and is preserved through
// serialization.
type Block struct {
	Name       string         `json:"name"`
	Type       string         `json:"type"`
	Fields     map[string]any `json:"fields"`
	Blocks     []*Block       `json:"blocks"`
	Pins       []*Pin         `json:"pins"`
	Links      []*Link        `json:"links"`
	InstanceOf string         `json:"instance_of,omitempty"`
}

// Walk calls fn for b and every descendant block, depth-first in child
// order. It is a convenience for inspection and rendering tooling.
func (b *Block) Walk(fn func(*Block)) {
	fn(b)
	for _, child := range b.Blocks {
		child.Walk(fn)
	}
}

// BlockCount returns the number of blocks in the tree rooted at b,
// including b itself.
func (b *Block) BlockCount() int {
	n := 0
	b.Walk(func(*Block) { n++ })
	return n
}

// PinCount returns the number of pins across the whole tree rooted at b.
func (b *Block) PinCount() int {
	n := 0
	b.Walk(func(blk *Block) { n += len(blk.Pins) })
	return n
}

// LinkCount returns the number of links across the whole tree rooted at b.
func (b *Block) LinkCount() int {
	n := 0
	b.Walk(func(blk *Block) { n += len(blk.Links) })
	return n
}
