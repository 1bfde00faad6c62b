// Package zonetree builds the compressed tree of how a country's zones have
// agreed or diverged over time, and answers priority clash and zone-usage
// queries over it.
//
// The tree is modeled as an arena of nodes indexed by integer handles: the
// arena owns all nodes, traversal uses indices instead of parent/child
// pointers that would otherwise need reference-counting or GC cycles to
// reclaim.
package zonetree

import (
	"fmt"
	"sort"

	"tzcore/internal/tzdata"
	"tzcore/internal/tzerr"
)

// NodeHandle indexes a Node within a Tree's arena. The zero value is the
// root.
type NodeHandle int

const Root NodeHandle = 0

// Node is one vertex of the zone tree.
type Node struct {
	ID           string
	Zones        []tzdata.ZoneHistory
	PeriodOffset int
	PeriodCount  int
	Primary      *tzdata.ZoneHistory
	Clash        bool
	Children     []NodeHandle
	Parent       NodeHandle
	isRoot       bool
}

// IsLeaf reports whether the node has no children.
func (n *Node) IsLeaf() bool { return len(n.Children) == 0 }

// Tree is the compressed zone tree for one country over [S, E).
type Tree struct {
	CountryIso tzdata.CountryCode
	arena      []Node
	start      tzdata.Instant
	end        tzdata.Instant
}

// Start returns the tree's analysis window start (inclusive).
func (t *Tree) Start() tzdata.Instant { return t.start }

// End returns the tree's analysis window end (exclusive).
func (t *Tree) End() tzdata.Instant { return t.end }

// Node dereferences a handle.
func (t *Tree) Node(h NodeHandle) *Node { return &t.arena[h] }

// Build constructs the tree for a country's zone histories, all of which
// must share the same [S, E) window.
func Build(countryIso tzdata.CountryCode, histories []tzdata.ZoneHistory, s, e tzdata.Instant) (*Tree, error) {
	t := &Tree{CountryIso: countryIso, start: s, end: e}
	t.arena = append(t.arena, Node{
		ID:     "0",
		Zones:  histories,
		Parent: -1,
		isRoot: true,
	})

	if err := t.grow(Root); err != nil {
		return nil, err
	}
	t.compress(Root)
	t.finalize(Root)

	return t, nil
}

// grow is the depth-first phase that partitions a node's zones into
// children by matching period content at successive depths.
func (t *Tree) grow(h NodeHandle) error {
	node := t.arena[h]
	newPeriodOffset := node.PeriodOffset + 1

	type bucket struct {
		key   tzdata.PeriodsKey
		zones []tzdata.ZoneHistory
	}
	order := make([]tzdata.PeriodsKey, 0)
	buckets := make(map[tzdata.PeriodsKey]*bucket)

	for _, zh := range node.Zones {
		idx := zh.PeriodCount() - newPeriodOffset
		if idx < 0 {
			// This zone has run out of periods; it's a leaf for this zone.
			continue
		}
		key := zh.KeyOverRange(idx, idx+1)
		b, ok := buckets[key]
		if !ok {
			b = &bucket{key: key}
			buckets[key] = b
			order = append(order, key)
		}
		b.zones = append(b.zones, zh)
	}

	childZoneCount := 0
	for _, key := range order {
		b := buckets[key]
		childZoneCount += len(b.zones)
	}
	if childZoneCount != 0 && childZoneCount != len(node.Zones) {
		return tzerr.New(tzerr.IntegrityViolation, "PartialPartition",
			fmt.Sprintf("node %s: %d of %d zones produced children", node.ID, childZoneCount, len(node.Zones)))
	}

	for i, key := range order {
		b := buckets[key]
		childID := fmt.Sprintf("%s.%d", node.ID, i+1)
		childHandle := NodeHandle(len(t.arena))
		t.arena = append(t.arena, Node{
			ID:           childID,
			Zones:        b.zones,
			PeriodOffset: newPeriodOffset,
			PeriodCount:  1,
			Parent:       h,
		})
		t.arena[h].Children = append(t.arena[h].Children, childHandle)
		if err := t.grow(childHandle); err != nil {
			return err
		}
	}
	return nil
}

// compress collapses chains of single-child nodes into one node whose
// PeriodCount sums the chain.
func (t *Tree) compress(h NodeHandle) {
	// Post-order: compress children first so a node's own single-child check
	// sees an already-compressed subtree.
	for _, c := range append([]NodeHandle(nil), t.arena[h].Children...) {
		t.compress(c)
	}

	if t.arena[h].isRoot {
		return
	}
	for len(t.arena[h].Children) == 1 {
		child := t.arena[h].Children[0]
		t.arena[h].PeriodCount += t.arena[child].PeriodCount
		t.arena[h].Children = t.arena[child].Children
		for _, gc := range t.arena[h].Children {
			t.arena[gc].Parent = h
		}
	}
}

// finalize computes Primary/Clash for every non-root node.
func (t *Tree) finalize(h NodeHandle) {
	node := &t.arena[h]
	if !node.isRoot {
		var primary *tzdata.ZoneHistory
		count := 0
		for i := range node.Zones {
			z := &node.Zones[i]
			switch {
			case primary == nil || z.Priority > primary.Priority:
				primary = z
				count = 1
			case z.Priority == primary.Priority:
				count++
			}
		}
		node.Primary = primary
		node.Clash = count > 1
	}
	for _, c := range node.Children {
		t.finalize(c)
	}
}

// visitNonRoot walks the tree pre-order, invoking fn for every non-root
// node. Callers fold over the traversal instead of the tree exposing
// iterator objects.
func (t *Tree) visitNonRoot(fn func(h NodeHandle, n *Node)) {
	var walk func(h NodeHandle)
	walk = func(h NodeHandle) {
		n := &t.arena[h]
		if !n.isRoot {
			fn(h, n)
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(Root)
}

// ClashDescription names the zones and priorities involved in a priority
// clash node.
type ClashDescription struct {
	NodeID string
	Zones  []ClashZone
}

type ClashZone struct {
	ZoneId   tzdata.ZoneId
	Priority int
}

func (c ClashDescription) String() string {
	s := c.NodeID + ": "
	for i, z := range c.Zones {
		if i > 0 {
			s += ", "
		}
		s += fmt.Sprintf("%s(%d)", z.ZoneId, z.Priority)
	}
	return s
}

// Validate returns one ClashDescription per node with a priority clash. A
// priority clash is not itself a build-time error; it is only reportable.
func (t *Tree) Validate() []ClashDescription {
	var out []ClashDescription
	t.visitNonRoot(func(_ NodeHandle, n *Node) {
		if !n.Clash {
			return
		}
		cd := ClashDescription{NodeID: n.ID}
		zones := append([]tzdata.ZoneHistory(nil), n.Zones...)
		sort.Slice(zones, func(i, j int) bool { return zones[i].ZoneId < zones[j].ZoneId })
		for _, z := range zones {
			cd.Zones = append(cd.Zones, ClashZone{ZoneId: z.ZoneId, Priority: z.Priority})
		}
		out = append(out, cd)
	})
	return out
}

// startInstant returns the instant at which node's window begins, derived
// from its primary zone's periods.
func (n *Node) startInstant() tzdata.Instant {
	offset := n.PeriodOffset + n.PeriodCount - 1
	index := n.Primary.PeriodCount() - offset
	return n.Primary.Periods[index].Start
}

// endInstant returns the instant at which node's window ends, derived from
// its primary zone's periods.
func (n *Node) endInstant() tzdata.Instant {
	index := n.Primary.PeriodCount() - n.PeriodOffset
	return n.Primary.Periods[index].End
}

// UsageRecord is the per-zone outcome of computeUsage: either NotUsedAfter
// is set (with Replacement naming the primary zone of the subtree it
// merged into), or the zone is still in use at the tree's end.
type UsageRecord struct {
	NotUsedAfter tzdata.Instant
	Replacement  tzdata.ZoneId
	StillInUse   bool
}

// groupPrimary returns the primary zone id of the nearest ancestor of h
// (inclusive) that genuinely groups more than one zone. A node left alone
// after a split has itself as its trivial Primary, which is not a
// meaningful replacement target; the zone it actually "merged into" is
// whoever it last agreed with before splitting off.
func (t *Tree) groupPrimary(h NodeHandle) tzdata.ZoneId {
	n := &t.arena[h]
	if len(n.Zones) > 1 || t.arena[n.Parent].isRoot {
		return n.Primary.ZoneId
	}
	return t.groupPrimary(n.Parent)
}

// ComputeUsage walks every non-root node and records, per zone id, the
// instant after which the zone's behavior is identical to some other zone
// of equal or higher priority. It fails if Validate() is
// non-empty.
func (t *Tree) ComputeUsage(endCutoff tzdata.Instant) (map[tzdata.ZoneId]UsageRecord, error) {
	if clashes := t.Validate(); len(clashes) > 0 {
		return nil, tzerr.New(tzerr.ValidationError, tzerr.CodePriorityClash,
			fmt.Sprintf("%d priority clash(es) in country %s", len(clashes), t.CountryIso))
	}

	usage := make(map[tzdata.ZoneId]UsageRecord)
	addIfMissing := func(zoneId tzdata.ZoneId, endInstant tzdata.Instant, primary tzdata.ZoneId) {
		if _, ok := usage[zoneId]; ok {
			return
		}
		if endInstant.After(endCutoff) {
			usage[zoneId] = UsageRecord{StillInUse: true}
		} else {
			usage[zoneId] = UsageRecord{NotUsedAfter: endInstant, Replacement: primary}
		}
	}

	t.visitNonRoot(func(h NodeHandle, n *Node) {
		endInstant := n.endInstant()
		if t.arena[n.Parent].isRoot {
			endInstant = t.end
		}
		replacement := t.groupPrimary(h)

		if !n.IsLeaf() {
			addIfMissing(n.Primary.ZoneId, endInstant, replacement)
		} else {
			for _, z := range n.Zones {
				addIfMissing(z.ZoneId, endInstant, replacement)
			}
		}
	})
	return usage, nil
}

// DumpDOT renders the tree as a Graphviz "dot" file, a debugging aid for
// inspecting how a country's zones grouped and compressed.
func (t *Tree) DumpDOT(w interface{ WriteString(string) (int, error) }) {
	w.WriteString(fmt.Sprintf("strict digraph %s {\n", t.CountryIso))
	t.visitNonRoot(func(_ NodeHandle, n *Node) {
		color := ""
		if n.Clash {
			color = ",color=\"red\""
		}
		w.WriteString(fmt.Sprintf("\"%s\"[label=\"%s\\nfrom=%d to=%d\\nperiods=%d\"%s];\n",
			n.ID, n.ID, n.startInstant(), n.endInstant(), n.PeriodCount, color))
		for _, c := range n.Children {
			w.WriteString(fmt.Sprintf("\"%s\" -> \"%s\";\n", n.ID, t.arena[c].ID))
		}
	})
	w.WriteString("}\n")
}
