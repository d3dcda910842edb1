package history

import (
	"github.com/go-doceng/doceng/selection"
	"github.com/go-doceng/doceng/state"
	"github.com/go-doceng/doceng/transform"
)

// depthOverflow is how far the event count is allowed to exceed the
// configured depth before the branch actually trims old events — trimming
// on every single event would be wasteful, since it involves manipulating
// the step array.
const depthOverflow = 20

// maxEmptyItems bounds how many consecutive map-only items a rebased
// branch is allowed to accumulate before it is compacted.
const maxEmptyItems = 500

// Branch is one branch (done or undone) of the undo history.
type Branch struct {
	Items      []*Item
	EventCount int
}

// EmptyBranch is the branch with no history.
var EmptyBranch = &Branch{}

// PopResult is the outcome of popping the most recent event off a branch:
// the transaction that replays it, the selection to restore afterward,
// and the branch with that event removed.
type PopResult struct {
	Remaining   *Branch
	Transaction *state.Transaction
	Selection   selection.Bookmark
}

// PopEvent pops the latest event off the branch's end and returns a
// transaction that will reverse that event, plus a new branch with the
// event removed. Returns nil if the branch is empty. Grounded on upstream
// Branch.prototype.popEvent.
func (b *Branch) PopEvent(st *state.EditorState, preserveItems bool) *PopResult {
	if b.EventCount == 0 {
		return nil
	}

	end := len(b.Items)
	for {
		next := b.Items[end-1]
		end--
		if next.Selection != nil {
			break
		}
	}

	var remap *transform.Mapping
	mapFrom := 0
	if preserveItems {
		remap = b.remapping(end, len(b.Items))
		mapFrom = len(remap.Maps)
	}

	tr := st.Tr()
	var restoreSelection selection.Bookmark
	var remaining *Branch
	// addAfter would, under preserveItems, record mirror items for the
	// steps just replayed onto tr so a later rebase could still find their
	// mirror image; the done/undone branch pair is only ever consulted
	// through PopEvent and AddTransform here, so nothing downstream reads
	// that mirror information and it is not threaded back into remaining.
	var addBefore []*Item

	for i := len(b.Items) - 1; i >= 0; i-- {
		item := b.Items[i]
		if item.Step == nil {
			if remap == nil {
				remap = b.remapping(end, i+1)
				mapFrom = len(remap.Maps)
			}
			mapFrom--
			addBefore = append(addBefore, item)
			continue
		}

		if remap != nil {
			addBefore = append(addBefore, NewItem(item.Map, nil, nil))
			step := item.Step.Map(remap.Slice(mapFrom))
			var stepMap *transform.StepMap
			if step != nil {
				result := tr.MaybeStep(step)
				if result.Doc != nil {
					stepMap = tr.Mapping.Maps[len(tr.Mapping.Maps)-1]
				}
			}
			mapFrom--
			if stepMap != nil {
				remap.AppendMap(stepMap, mapFrom)
			}
		} else {
			tr.MaybeStep(item.Step)
		}

		if item.Selection != nil {
			if remap != nil {
				restoreSelection = item.Selection.Map(mappingAdapter{remap.Slice(mapFrom)})
			} else {
				restoreSelection = item.Selection
			}
			tailItems := append(append([]*Item{}, b.Items[:end]...), reverseItems(addBefore)...)
			remaining = &Branch{Items: tailItems, EventCount: b.EventCount - 1}
			break
		}
	}

	return &PopResult{Remaining: remaining, Transaction: tr, Selection: restoreSelection}
}

func reverseItems(items []*Item) []*Item {
	out := make([]*Item, len(items))
	for i, it := range items {
		out[len(items)-1-i] = it
	}
	return out
}

// AddTransform appends the steps in tr (inverted, so they can later undo
// it) as one branch entry, associating sel (when given) with the first
// step, which marks the start of a new event and records where to restore
// the selection to. Adjacent
// mergeable steps (e.g. consecutive character insertions) are merged into
// a single item when preserveItems is false. Grounded on upstream
// Branch.prototype.addTransform.
func (b *Branch) AddTransform(tr *state.Transaction, sel selection.Bookmark, depth int, preserveItems bool) *Branch {
	var newItems []*Item
	eventCount := b.EventCount
	oldItems := b.Items
	var lastItem *Item
	if !preserveItems && len(oldItems) > 0 {
		lastItem = oldItems[len(oldItems)-1]
	}

	for i := 0; i < len(tr.Steps); i++ {
		step := tr.Steps[i].Invert(tr.Docs[i])
		item := NewItem(tr.Mapping.Maps[i], step, nil)
		var itemSel selection.Bookmark
		if sel != nil && i == 0 {
			itemSel = sel
		}
		item.Selection = itemSel

		if merged := mergeWithLast(lastItem, item); merged != nil {
			item = merged
			if i > 0 {
				newItems = newItems[:len(newItems)-1]
			} else {
				oldItems = oldItems[:len(oldItems)-1]
			}
		}

		newItems = append(newItems, item)
		if itemSel != nil {
			eventCount++
		}
		if !preserveItems {
			lastItem = item
		}
	}

	overflow := eventCount - depth
	if overflow > depthOverflow {
		oldItems = cutOffEvents(oldItems, overflow)
		eventCount -= overflow
	}

	return &Branch{Items: append(append([]*Item{}, oldItems...), newItems...), EventCount: eventCount}
}

func mergeWithLast(lastItem, item *Item) *Item {
	if lastItem == nil {
		return nil
	}
	return lastItem.Merge(item)
}

func cutOffEvents(items []*Item, n int) []*Item {
	cutPoint := 0
	remaining := n
	for i, it := range items {
		if it.Selection != nil {
			remaining--
			if remaining == 0 {
				cutPoint = i + 1
				break
			}
		}
	}
	if cutPoint == 0 {
		return items
	}
	return items[cutPoint:]
}

// remapping builds the mapping produced by the items in [from, to),
// preserving mirror relationships between items so that undone-and-redone
// deletions map back to their original position instead of collapsing.
func (b *Branch) remapping(from, to int) *transform.Mapping {
	maps := transform.NewMapping()
	for i := from; i < to; i++ {
		item := b.Items[i]
		var mirrorPos *int
		if item.MirrorOffset != nil {
			mirrorIndex := i - *item.MirrorOffset
			if mirrorIndex >= from {
				v := len(maps.Maps) - *item.MirrorOffset
				mirrorPos = &v
			}
		}
		if mirrorPos != nil {
			maps.AppendMap(item.Map, *mirrorPos)
		} else {
			maps.AppendMap(item.Map)
		}
	}
	return maps
}

// AddMaps registers position maps for changes the branch doesn't own
// (e.g. transactions applied by other plugins), so later items in this
// branch still rebase correctly against them.
func (b *Branch) AddMaps(maps []*transform.StepMap) *Branch {
	if b.EventCount == 0 {
		return b
	}
	items := make([]*Item, 0, len(b.Items)+len(maps))
	items = append(items, b.Items...)
	for _, m := range maps {
		items = append(items, NewItem(m, nil, nil))
	}
	return &Branch{Items: items, EventCount: b.EventCount}
}

// Rebased rewrites this branch's items to apply on top of a document that
// has been changed by rebasedTransform, whose last rebasedCount steps
// replace the corresponding number of this branch's own recent steps
// (used by collaborative editing to fold a server-confirmed rebase back
// into the local undo history). Grounded on upstream
// Branch.prototype.rebased.
func (b *Branch) Rebased(rebasedTransform *transform.Transform, rebasedCount int) *Branch {
	if b.EventCount == 0 {
		return b
	}
	start := len(b.Items) - rebasedCount
	if start < 0 {
		start = 0
	}

	mapping := rebasedTransform.Mapping
	newUntil := len(rebasedTransform.Steps)
	eventCount := b.EventCount
	for i := start; i < len(b.Items); i++ {
		if b.Items[i].Selection != nil {
			eventCount--
		}
	}

	// Walked forward from start, in lockstep with iRebased counting down
	// from rebasedCount, matching upstream's forward RopeSequence.forEach
	// pairing of old items against rebasedTransform's mirrored steps.
	var rebasedItems []*Item
	iRebased := rebasedCount
	for i := start; i < len(b.Items); i++ {
		item := b.Items[i]
		iRebased--
		pos := mapping.GetMirror(iRebased)
		if pos == nil {
			continue
		}
		if *pos < newUntil {
			newUntil = *pos
		}
		m := mapping.Maps[*pos]
		if item.Step != nil {
			step := rebasedTransform.Steps[*pos].Invert(rebasedTransform.Docs[*pos])
			var sel selection.Bookmark
			if item.Selection != nil {
				sel = item.Selection.Map(mappingAdapter{mapping.Slice(iRebased+1, *pos)})
				eventCount++
			}
			rebasedItems = append(rebasedItems, NewItem(m, step, sel))
		} else {
			rebasedItems = append(rebasedItems, NewItem(m, nil, nil))
		}
	}

	var newMaps []*Item
	for i := rebasedCount; i < newUntil; i++ {
		newMaps = append(newMaps, NewItem(mapping.Maps[i], nil, nil))
	}

	items := append(append(append([]*Item{}, b.Items[:start]...), newMaps...), rebasedItems...)
	branch := &Branch{Items: items, EventCount: eventCount}

	if branch.emptyItemCount() > maxEmptyItems {
		branch = branch.compress(len(b.Items) - len(rebasedItems))
	}
	return branch
}

func (b *Branch) emptyItemCount() int {
	count := 0
	for _, it := range b.Items {
		if it.Step == nil {
			count++
		}
	}
	return count
}

// compress collapses the map-only items below upto into their combined
// mapping, bounding how large a rebased branch's item list can grow from
// repeated remote rebases.
func (b *Branch) compress(upto int) *Branch {
	if upto < 0 || upto > len(b.Items) {
		upto = len(b.Items)
	}
	remap := b.remapping(0, upto)
	mapFrom := len(remap.Maps)
	var items []*Item
	events := 0

	for i := len(b.Items) - 1; i >= 0; i-- {
		if i >= upto {
			items = append(items, b.Items[i])
			if b.Items[i].Selection != nil {
				events++
			}
			continue
		}
		item := b.Items[i]
		if item.Step != nil {
			step := item.Step.Map(remap.Slice(mapFrom))
			mapFrom--
			if step != nil {
				m := step.GetMap()
				remap.AppendMap(m, mapFrom)
			}
		} else {
			mapFrom--
		}
	}

	return &Branch{Items: reverseItems(items), EventCount: events}
}

type mappingAdapter struct{ m *transform.Mapping }

func (a mappingAdapter) Map(pos int, assoc ...int) int { return a.m.Map(pos, assoc...) }

func (a mappingAdapter) MapResult(pos int, assoc ...int) selection.MapResult {
	r := a.m.MapResult(pos, assoc...)
	return selection.MapResult{Pos: r.Pos, Deleted: r.Deleted}
}
