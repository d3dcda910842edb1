package transform

// Mapping represents a pipeline of zero or more StepMaps composed together.
// When you want to map a position through a series of changes, you'll
// usually want to use a Mapping instead of the StepMaps directly. It exposes
// the mirroring functionality needed to correctly map through a step map
// that is the inverse of an earlier one: when a step is undone and the
// changes it made are mapped through later steps, positions that were
// deleted by the original step and recreated by its inverse should be
// mapped back to their pre-deletion position rather than dropped.
type Mapping struct {
	Maps []*StepMap
	// Mirror holds even/odd pairs of indexes into Maps that are each other's
	// inverse.
	Mirror []int
	// From restricts composition/mapping to start at this index into Maps
	// (used by Slice).
	From int
	// To restricts composition/mapping to end at this index into Maps.
	To int
}

// NewMapping is the constructor for Mapping.
func NewMapping(maps ...[]*StepMap) *Mapping {
	var m []*StepMap
	if len(maps) > 0 {
		m = maps[0]
	}
	return &Mapping{Maps: m, To: len(m)}
}

func (m *Mapping) resolveTo() int {
	if m.To > 0 || m.From > 0 {
		return m.To
	}
	return len(m.Maps)
}

// AppendMap appends a new step map to this mapping, optionally paired with
// the index of another map in this mapping that it mirrors (its inverse).
func (m *Mapping) AppendMap(sm *StepMap, mirrors ...int) {
	m.To = len(m.Maps) + 1
	m.Maps = append(m.Maps, sm)
	if len(mirrors) > 0 {
		m.setMirror(len(m.Maps)-1, mirrors[0])
	}
}

// AppendMapping appends the maps in another mapping to this one, preserving
// their relative mirroring relationships.
func (m *Mapping) AppendMapping(other *Mapping) {
	startSize := len(m.Maps)
	for i := other.From; i < other.resolveTo(); i++ {
		mirr := other.getMirror(i)
		m.AppendMap(other.Maps[i])
		if mirr != nil && *mirr < i {
			m.setMirror(len(m.Maps)-1, startSize+*mirr)
		}
	}
}

// GetMirror returns the index of the step map that mirrors the one at
// index n, if any, allowing external packages (such as the history
// engine's rebase logic) to follow mirror pairs the same way AppendMapping
// does internally.
func (m *Mapping) GetMirror(n int) *int {
	return m.getMirror(n)
}

func (m *Mapping) getMirror(n int) *int {
	for i := 0; i < len(m.Mirror); i++ {
		if m.Mirror[i] == n {
			v := m.Mirror[i^1]
			return &v
		}
	}
	return nil
}

func (m *Mapping) setMirror(n, mirror int) {
	m.Mirror = append(m.Mirror, n, mirror)
}

// AppendMappingInverted appends the inverse of another mapping to this one.
func (m *Mapping) AppendMappingInverted(other *Mapping) {
	startSize := len(m.Maps)
	for i := other.resolveTo() - 1; i >= other.From; i-- {
		mirr := other.getMirror(i)
		m.AppendMap(other.Maps[i].Invert())
		if mirr != nil && *mirr > i {
			m.setMirror(len(m.Maps)-1, startSize+(other.resolveTo()-1-*mirr))
		}
	}
}

// Invert creates an inverted version of this mapping.
func (m *Mapping) Invert() *Mapping {
	inverse := NewMapping()
	inverse.AppendMappingInverted(m)
	return inverse
}

// Slice returns a slice of this mapping restricted to the given range of
// step maps.
func (m *Mapping) Slice(from ...int) *Mapping {
	f := m.From
	if len(from) > 0 {
		f = from[0]
	}
	t := m.resolveTo()
	if len(from) > 1 {
		t = from[1]
	}
	return &Mapping{Maps: m.Maps, Mirror: m.Mirror, From: f, To: t}
}

// Map maps a position through this mapping, returning only the mapped
// position.
func (m *Mapping) Map(pos int, assoc ...int) int {
	a := 1
	if len(assoc) > 0 {
		a = assoc[0]
	}
	if m.Mirror != nil {
		return m.mapResult(pos, a, true).(int)
	}
	for i := m.From; i < m.resolveTo(); i++ {
		pos = m.Maps[i].Map(pos, a)
	}
	return pos
}

// MapResult maps a position through this mapping, returning the resulting
// MapResult.
func (m *Mapping) MapResult(pos int, assoc ...int) *MapResult {
	a := 1
	if len(assoc) > 0 {
		a = assoc[0]
	}
	return m.mapResult(pos, a, false).(*MapResult)
}

func (m *Mapping) mapResult(pos, assoc int, simple bool) interface{} {
	deleted := false
	for i := m.From; i < m.resolveTo(); i++ {
		sm := m.Maps[i]
		result := sm.MapResult(pos, assoc)
		if result.Deleted {
			mirr := m.getMirror(i)
			if mirr != nil && *mirr > i && *mirr < m.resolveTo() {
				i = *mirr
				pos = m.Maps[i].Invert().Map(result.Pos, assoc)
				continue
			}
			deleted = true
		}
		pos = result.Pos
	}
	if simple {
		return pos
	}
	return NewMapResult(pos, deleted)
}

var _ Mappable = &Mapping{}
