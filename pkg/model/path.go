package model

import (
	"fmt"
	"strings"
)

// Ancestors returns the containment chain of v from the root down to v
// itself, derived from its dotted path. The first element is the root
// vertex, the last is v. Intermediate paths that do not resolve (which
// cannot happen for a graph built through AddVertex) are skipped.
func (g *Graph) Ancestors(v *Vertex) []*Vertex {
	segs := strings.Split(v.Path, ".")
	chain := make([]*Vertex, 0, len(segs))
	for i := range segs {
		if av, ok := g.byPath[strings.Join(segs[:i+1], ".")]; ok {
			chain = append(chain, av)
		}
	}
	return chain
}

// Relation computes the least common ancestor of a and b along the
// containment hierarchy, together with a derived relation name. The name
// compares the two ancestor chains below the LCA and joins each side's
// dotted relative path with "~" (e.g., "c1.p~c2.q"); it identifies the
// connection within the scope of the LCA.
//
// Returns ErrNoCommonAncestor if the two vertices live under different
// roots.
func (g *Graph) Relation(a, b *Vertex) (*Vertex, string, error) {
	ca := g.Ancestors(a)
	cb := g.Ancestors(b)

	var lca *Vertex
	n := len(ca)
	if len(cb) < n {
		n = len(cb)
	}
	for i := 0; i < n; i++ {
		if ca[i] != cb[i] {
			break
		}
		lca = ca[i]
	}
	if lca == nil {
		return nil, "", fmt.Errorf("%w: %s and %s", ErrNoCommonAncestor, a.Path, b.Path)
	}

	name := relDotted(lca, a) + "~" + relDotted(lca, b)
	return lca, name, nil
}

// relDotted renders the dotted path of v relative to ancestor. If v is the
// ancestor itself the result is its ref.
func relDotted(ancestor, v *Vertex) string {
	if v == ancestor {
		return v.Ref()
	}
	return strings.TrimPrefix(v.Path, ancestor.Path+".")
}

// PathBetween returns the ordered sequence of vertices strictly below
// ancestor on the containment path down to descendant, ending with
// descendant itself. The ancestor is not included. If descendant equals
// ancestor the result is empty.
//
// Returns ErrNotDescendant if descendant's path does not extend ancestor's.
func (g *Graph) PathBetween(ancestor, descendant *Vertex) ([]*Vertex, error) {
	if descendant == ancestor {
		return nil, nil
	}
	if !strings.HasPrefix(descendant.Path, ancestor.Path+".") {
		return nil, fmt.Errorf("%w: %s under %s", ErrNotDescendant, descendant.Path, ancestor.Path)
	}
	rel := strings.TrimPrefix(descendant.Path, ancestor.Path+".")
	segs := strings.Split(rel, ".")
	out := make([]*Vertex, 0, len(segs))
	path := ancestor.Path
	for _, s := range segs {
		path += "." + s
		v, ok := g.byPath[path]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownVertex, path)
		}
		out = append(out, v)
	}
	return out, nil
}
