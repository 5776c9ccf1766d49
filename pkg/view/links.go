package view

import (
	"strings"

	"github.com/hdlview/hdlview/pkg/model"
)

// resolveLinks is the second lowering phase. It enumerates every
// connects_to edge in the graph, drops those with an endpoint outside the
// visited set (elision and out-of-subtree vertices are handled here, by
// construction of the registry), and appends a named Link to the block
// owning the endpoints' least common ancestor.
func (b *builder) resolveLinks() error {
	for _, e := range b.graph.EdgesOfType(model.EdgeConnectsTo) {
		if !b.wasVisited(e.Source) || !b.wasVisited(e.Target) {
			continue
		}
		src, _ := b.graph.VertexByIndex(e.Source)
		dst, _ := b.graph.VertexByIndex(e.Target)

		lca, name, err := b.graph.Relation(src, dst)
		if err != nil {
			// Both endpoints sit under the build root, so a missing common
			// ancestor means the graph broke its containment invariant.
			return err
		}

		// The LCA may be a vertex that has no block of its own (an
		// interface, or a pin connected to its sibling's descendant).
		// Attach the link to the nearest enclosing block instead, so the
		// rendered endpoints pick up the interface segments and match the
		// flattened pin names.
		owner := lca
		blk, ok := b.directory[owner.Path]
		for !ok {
			parent, found := b.graph.VertexByPath(owner.ParentPath())
			if !found {
				return ErrRootNotFound
			}
			owner = parent
			blk, ok = b.directory[owner.Path]
		}

		relSrc, err := b.graph.PathBetween(owner, src)
		if err != nil {
			return err
		}
		relDst, err := b.graph.PathBetween(owner, dst)
		if err != nil {
			return err
		}

		blk.Links = append(blk.Links, &Link{
			Name:   name,
			Source: renderRelPath(relSrc),
			Target: renderRelPath(relDst),
		})
	}
	return nil
}

// renderRelPath renders a relative containment path as a link endpoint
// string. Segments are dot-separated until the first interface vertex; from
// there on they are hyphen-separated, with a single dot joining the two
// halves. This mirrors interface flattening, so an endpoint like
// "conn.i2c-sda" addresses the pin the enclosing block exposes as
// "i2c-sda" under child block "conn".
func renderRelPath(path []*model.Vertex) string {
	for i, v := range path {
		if v.Type != model.VertexInterface {
			continue
		}
		post := make([]string, 0, len(path)-i)
		for _, pv := range path[i:] {
			post = append(post, pv.Ref())
		}
		if i == 0 {
			return strings.Join(post, "-")
		}
		pre := make([]string, 0, i)
		for _, pv := range path[:i] {
			pre = append(pre, pv.Ref())
		}
		return strings.Join(pre, ".") + "." + strings.Join(post, "-")
	}

	refs := make([]string, 0, len(path))
	for _, v := range path {
		refs = append(refs, v.Ref())
	}
	return strings.Join(refs, ".")
}
