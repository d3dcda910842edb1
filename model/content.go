package model

import "strings"

// ContentMatch represents a match state of a node type's content expression,
// and can be used to find out whether further content matches here, and
// whether a given position is a valid end of the node.
//
// The expression language supported here is deliberately the subset spec.md
// calls for: a space-separated sequence of node-type-or-group names, each
// optionally followed by one of the quantifiers +, * or ?. Alternation,
// grouping and {n,m} counts (the full upstream ProseMirror grammar) are not
// needed by any content expression in this repo's schemas and are not
// implemented: ParseContentMatch returns a SchemaError for them.
type ContentMatch struct {
	// ValidEnd is true when this match state represents a valid end of the
	// node's content.
	ValidEnd bool
	// next holds (type, match) pairs: even indexes are *NodeType, the
	// following odd index is the *ContentMatch reached by matching it.
	next      []interface{}
	wrapCache []interface{}
}

// NewContentMatch is the constructor for ContentMatch.
func NewContentMatch(validEnd bool) *ContentMatch {
	return &ContentMatch{ValidEnd: validEnd}
}

type contentTerm struct {
	types []*NodeType
	quant byte // 0, '+', '*', '?'
}

func expandTermName(name string, nodeTypes map[string]*NodeType) ([]*NodeType, error) {
	if nt, ok := nodeTypes[name]; ok {
		return []*NodeType{nt}, nil
	}
	var group []*NodeType
	for _, nt := range nodeTypes {
		if hasGroup(nt.Spec.Group, name) {
			group = append(group, nt)
		}
	}
	if len(group) == 0 {
		return nil, newSchemaError("No node type or group '%s' found (in content expression '%s')", name, name)
	}
	return group, nil
}

// ParseContentMatch compiles a content expression into the starting
// ContentMatch state.
func ParseContentMatch(expr string, nodeTypes map[string]*NodeType) (*ContentMatch, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return EmptyContentMatch, nil
	}
	fields := strings.Fields(expr)
	terms := make([]contentTerm, len(fields))
	for i, f := range fields {
		name := f
		var quant byte
		if last := f[len(f)-1]; last == '+' || last == '*' || last == '?' {
			quant = last
			name = f[:len(f)-1]
		}
		types, err := expandTermName(name, nodeTypes)
		if err != nil {
			return nil, err
		}
		terms[i] = contentTerm{types: types, quant: quant}
	}

	// Build the chain of states right to left: cur always represents "what
	// may legally follow from here to the end of the content".
	cur := NewContentMatch(true)
	for i := len(terms) - 1; i >= 0; i-- {
		term := terms[i]
		switch term.quant {
		case '+', '*':
			loop := NewContentMatch(cur.ValidEnd)
			for _, t := range term.types {
				loop.next = append(loop.next, t, loop)
			}
			loop.next = append(loop.next, cur.next...)
			if term.quant == '*' {
				cur = loop
			} else {
				entry := NewContentMatch(false)
				for _, t := range term.types {
					entry.next = append(entry.next, t, loop)
				}
				cur = entry
			}
		case '?':
			opt := NewContentMatch(cur.ValidEnd)
			for _, t := range term.types {
				opt.next = append(opt.next, t, cur)
			}
			opt.next = append(opt.next, cur.next...)
			cur = opt
		default:
			one := NewContentMatch(false)
			for _, t := range term.types {
				one.next = append(one.next, t, cur)
			}
			cur = one
		}
	}
	return cur, nil
}

// MatchType matches a node type, returning the match state reached after it
// if successful, or nil.
func (cm *ContentMatch) MatchType(typ *NodeType) *ContentMatch {
	for i := 0; i < len(cm.next); i += 2 {
		if cm.next[i] == typ {
			return cm.next[i+1].(*ContentMatch)
		}
	}
	return nil
}

// MatchFragment tries to match a fragment (or a sub-range of one). Returns
// the resulting match state when successful, or nil.
func (cm *ContentMatch) MatchFragment(frag *Fragment, startEnd ...int) *ContentMatch {
	cur := cm
	start := 0
	end := frag.ChildCount()
	if len(startEnd) > 0 {
		start = startEnd[0]
	}
	if len(startEnd) > 1 {
		end = startEnd[1]
	}
	for i := start; cur != nil && i < end; i++ {
		cur = cur.MatchType(frag.Child(i).Type)
	}
	return cur
}

// AllowsType reports whether a node of the given type may follow directly
// from this state.
func (cm *ContentMatch) AllowsType(typ *NodeType) bool {
	return cm.MatchType(typ) != nil
}

// ValidContentEnd reports whether a fragment matched against this state
// ends in a valid place.
func (cm *ContentMatch) ValidContentEnd(frag *Fragment) bool {
	result := cm.MatchFragment(frag)
	return result != nil && result.ValidEnd
}

func (cm *ContentMatch) inlineContent() bool {
	if len(cm.next) == 0 {
		return false
	}
	return cm.next[0].(*NodeType).IsInline()
}

// DefaultType returns the first type that can be used to fill this state,
// for autofill purposes. nil when no default can be found (e.g. the state
// only accepts text, or is already valid end with no outgoing edges).
func (cm *ContentMatch) DefaultType() *NodeType {
	for i := 0; i < len(cm.next); i += 2 {
		typ := cm.next[i].(*NodeType)
		if !typ.IsText() && !typ.HasRequiredAttrs() {
			return typ
		}
	}
	return nil
}

func (cm *ContentMatch) compatible(other *ContentMatch) bool {
	for i := 0; i < len(cm.next); i += 2 {
		for j := 0; j < len(other.next); j += 2 {
			if cm.next[i] == other.next[j] {
				return true
			}
		}
	}
	return false
}

// FillBefore tries to find a set of nodes that can be appended, before the
// given fragment, to make this match valid (when toEnd is false) or to make
// it reach a valid end (when toEnd is true). Returns nil when no such
// sequence can be found.
func (cm *ContentMatch) FillBefore(after *Fragment, toEnd bool) *Fragment {
	seen := map[*ContentMatch]bool{cm: true}
	var search func(match *ContentMatch, types []*NodeType) *Fragment
	search = func(match *ContentMatch, types []*NodeType) *Fragment {
		finished := match.MatchFragment(after)
		if finished != nil && (!toEnd || finished.ValidEnd) {
			nodes := make([]*Node, len(types))
			for i, t := range types {
				n, err := t.CreateAndFill()
				if err != nil || n == nil {
					return nil
				}
				nodes[i] = n
			}
			frag, _ := FragmentFrom(nodesToInterface(nodes))
			return frag
		}
		for i := 0; i < len(match.next); i += 2 {
			typ := match.next[i].(*NodeType)
			next := match.next[i+1].(*ContentMatch)
			if !seen[next] && !(typ.IsText() || typ.HasRequiredAttrs()) {
				seen[next] = true
				if found := search(next, append(types, typ)); found != nil {
					return found
				}
			}
		}
		return nil
	}
	return search(cm, nil)
}

func nodesToInterface(nodes []*Node) []interface{} {
	out := make([]interface{}, len(nodes))
	for i, n := range nodes {
		out[i] = n
	}
	return out
}

// FindWrapping computes the node types that need to be wrapped around a node
// of the given type to make it fit here, returning an empty (non-nil) slice
// when it fits directly, or nil when no wrapping was found.
func (cm *ContentMatch) FindWrapping(target *NodeType) []*NodeType {
	if cm.wrapCache != nil {
		for i := 0; i < len(cm.wrapCache); i += 2 {
			if cm.wrapCache[i] == target {
				return cm.wrapCache[i+1].([]*NodeType)
			}
		}
	}
	computed, found := cm.computeWrapping(target)
	if !found {
		computed = nil
	} else if computed == nil {
		computed = []*NodeType{}
	}
	cm.wrapCache = append(cm.wrapCache, target, computed)
	return computed
}

type wrapEntry struct {
	typ  *NodeType
	via  *wrapEntry
	from *ContentMatch
}

func (cm *ContentMatch) computeWrapping(target *NodeType) ([]*NodeType, bool) {
	seen := map[*ContentMatch]bool{}
	active := []*wrapEntry{{typ: nil, via: nil, from: cm}}
	for len(active) > 0 {
		current := active[0]
		active = active[1:]
		match := current.from
		if match.AllowsType(target) {
			var result []*NodeType
			for e := current; e.via != nil; e = e.via {
				result = append([]*NodeType{e.typ}, result...)
			}
			return result, true
		}
		for i := 0; i < len(match.next); i += 2 {
			typ := match.next[i].(*NodeType)
			if !typ.IsLeaf() && !typ.HasRequiredAttrs() && !seen[typ.ContentMatch] {
				seen[typ.ContentMatch] = true
				active = append(active, &wrapEntry{typ: typ, via: current, from: typ.ContentMatch})
			}
		}
	}
	return nil, false
}

// EmptyContentMatch is the match state for an expression that allows no
// content at all (empty string expression).
var EmptyContentMatch = NewContentMatch(true)
