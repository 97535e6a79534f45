// Package sorter partitions import descriptors into named groups and orders them
// within each group.
package sorter

import (
	"regexp"
	"sort"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/siyuan-infoblox/ts-imports-group/pkg/errors"
	"github.com/siyuan-infoblox/ts-imports-group/pkg/extractor"
	"github.com/siyuan-infoblox/ts-imports-group/pkg/logger"
	"github.com/siyuan-infoblox/ts-imports-group/pkg/resolver"
)

// GroupName names a bucket of imports.
type GroupName string

const (
	GroupGlobal   GroupName = "global"
	GroupLocal    GroupName = "local"
	GroupRelative GroupName = "relative"
	GroupStatic   GroupName = "static"
	GroupRest     GroupName = "rest"
)

// Algorithm orders the imports of one bucket.
type Algorithm string

const (
	// AlgNatural compares import targets with numeric-aware collation.
	AlgNatural Algorithm = "natural"
	// AlgPersist keeps source order.
	AlgPersist Algorithm = "persist"
)

// RelativeSortAlg orders the depth sub-groups of the relative bucket.
type RelativeSortAlg string

const (
	ShallowFirst RelativeSortAlg = "shallow-first"
	DeepestFirst RelativeSortAlg = "deepest-first"
)

// UnmatchedGroup collects local imports the split pattern does not match.
const UnmatchedGroup = "__UNMATCHED"

// Group declares one bucket and its sort algorithm.
type Group struct {
	Name GroupName
	Alg  Algorithm
}

// Options configures Process.
type Options struct {
	// Groups lists the buckets in output order. A rest/persist bucket is added when missing.
	Groups []Group
	// SplitRelativeGroups emits one group per relative depth.
	SplitRelativeGroups bool
	// RelativeSortAlg orders the depth groups. Anything but ShallowFirst sorts deepest first.
	RelativeSortAlg RelativeSortAlg
	// SplitLocalPattern splits the local bucket by the last capture group of the match.
	SplitLocalPattern string
}

type processedNode struct {
	descriptor    *extractor.Descriptor
	order         int
	isLocal       bool
	isStatic      bool
	relativeDepth int
}

// Sorter groups and orders import descriptors. It is not safe for concurrent use.
type Sorter struct {
	resolver resolver.Resolver
	collator *collate.Collator
}

// New creates a Sorter classifying targets with r.
func New(r resolver.Resolver) *Sorter {
	return &Sorter{resolver: r}
}

// Process returns the non-empty groups of descriptors in bucket declaration order.
// Every descriptor appears in exactly one group.
func (s *Sorter) Process(nodes []*extractor.Descriptor, options Options) [][]*extractor.Descriptor {
	groups := bucketList(options.Groups)
	meta := s.resolveMetadata(nodes)

	buckets := make(map[GroupName][]*processedNode, len(groups))
	for _, group := range groups {
		buckets[group.Name] = []*processedNode{}
	}
	for _, node := range meta {
		name := classify(node, buckets)
		buckets[name] = append(buckets[name], node)
	}

	var result [][]*extractor.Descriptor
	for _, group := range groups {
		bucket := buckets[group.Name]
		switch {
		case group.Name == GroupRelative && options.SplitRelativeGroups:
			for _, depth := range distinctDepths(bucket, options.RelativeSortAlg) {
				var sub []*processedNode
				for _, node := range bucket {
					if node.relativeDepth == depth {
						sub = append(sub, node)
					}
				}
				result = appendGroup(result, s.sortGroup(sub, group.Alg))
			}
		case group.Name == GroupLocal && options.SplitLocalPattern != "":
			partitions, ok := splitByPattern(bucket, options.SplitLocalPattern)
			if !ok {
				result = appendGroup(result, s.sortGroup(bucket, group.Alg))
				continue
			}
			for pair := partitions.Oldest(); pair != nil; pair = pair.Next() {
				result = appendGroup(result, s.sortGroup(pair.Value, group.Alg))
			}
		default:
			result = appendGroup(result, s.sortGroup(bucket, group.Alg))
		}
	}

	return result
}

// bucketList drops duplicate declarations, keeping the first, and appends rest/persist
// when no rest bucket is declared.
func bucketList(declared []Group) []Group {
	seen := make(map[GroupName]bool, len(declared)+1)
	groups := make([]Group, 0, len(declared)+1)
	for _, group := range declared {
		if seen[group.Name] {
			continue
		}
		seen[group.Name] = true
		groups = append(groups, group)
	}
	if !seen[GroupRest] {
		groups = append(groups, Group{Name: GroupRest, Alg: AlgPersist})
	}
	return groups
}

// classify picks the first declared bucket of the chain
// static, global, local, relative (or local), rest.
func classify(node *processedNode, buckets map[GroupName][]*processedNode) GroupName {
	declared := func(name GroupName) bool {
		_, ok := buckets[name]
		return ok
	}

	switch {
	case node.isStatic && declared(GroupStatic):
		return GroupStatic
	case !node.isLocal && !node.isStatic && declared(GroupGlobal):
		return GroupGlobal
	case node.relativeDepth == 0 && declared(GroupLocal):
		return GroupLocal
	case node.relativeDepth > 0 && declared(GroupRelative):
		return GroupRelative
	case node.relativeDepth > 0 && declared(GroupLocal):
		return GroupLocal
	default:
		return GroupRest
	}
}

func (s *Sorter) resolveMetadata(nodes []*extractor.Descriptor) []*processedNode {
	meta := make([]*processedNode, 0, len(nodes))
	for i, node := range nodes {
		path := node.Path()
		meta = append(meta, &processedNode{
			descriptor:    node,
			order:         i,
			isLocal:       s.resolver.IsLocal(path),
			isStatic:      s.resolver.GetExtension(path) != "",
			relativeDepth: RelativeDepth(path),
		})
	}
	return meta
}

// RelativeDepth returns 1 for "./" targets, 2 for each leading "../" segment and 0
// for anything else.
func RelativeDepth(path string) int {
	if strings.HasPrefix(path, "./") {
		return 1
	}

	depth := 0
	for strings.HasPrefix(path, "../") {
		depth += 2
		path = path[len("../"):]
	}
	return depth
}

func distinctDepths(bucket []*processedNode, alg RelativeSortAlg) []int {
	seen := make(map[int]bool)
	var depths []int
	for _, node := range bucket {
		if !seen[node.relativeDepth] {
			seen[node.relativeDepth] = true
			depths = append(depths, node.relativeDepth)
		}
	}

	if alg == ShallowFirst {
		sort.Ints(depths)
	} else {
		sort.Sort(sort.Reverse(sort.IntSlice(depths)))
	}
	return depths
}

// splitByPattern partitions bucket by the last submatch of pattern, in first-seen
// order. It reports false when the pattern does not compile.
func splitByPattern(bucket []*processedNode, pattern string) (*orderedmap.OrderedMap[string, []*processedNode], bool) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		logger.Warn("%s %q: %v", errors.ErrMsgInvalidSplitLocalRegex, pattern, err)
		return nil, false
	}

	partitions := orderedmap.New[string, []*processedNode]()
	for _, node := range bucket {
		key := UnmatchedGroup
		if matches := re.FindStringSubmatch(node.descriptor.Path()); matches != nil {
			key = matches[len(matches)-1]
		}
		existing, _ := partitions.Get(key)
		partitions.Set(key, append(existing, node))
	}
	return partitions, true
}

// sortGroup orders a copy of group. Unknown algorithms keep the given order.
func (s *Sorter) sortGroup(group []*processedNode, alg Algorithm) []*extractor.Descriptor {
	sorted := make([]*processedNode, len(group))
	copy(sorted, group)

	switch alg {
	case AlgNatural:
		collator := s.naturalCollator()
		sort.SliceStable(sorted, func(i, j int) bool {
			a, b := sorted[i], sorted[j]
			if c := collator.CompareString(a.descriptor.Path(), b.descriptor.Path()); c != 0 {
				return c < 0
			}
			if a.descriptor.Path() != b.descriptor.Path() {
				return a.descriptor.Path() < b.descriptor.Path()
			}
			return a.order < b.order
		})
	case AlgPersist:
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].order < sorted[j].order
		})
	}

	result := make([]*extractor.Descriptor, 0, len(sorted))
	for _, node := range sorted {
		result = append(result, node.descriptor)
	}
	return result
}

func (s *Sorter) naturalCollator() *collate.Collator {
	if s.collator == nil {
		s.collator = collate.New(language.Und, collate.Numeric)
	}
	return s.collator
}

func appendGroup(result [][]*extractor.Descriptor, group []*extractor.Descriptor) [][]*extractor.Descriptor {
	if len(group) == 0 {
		return result
	}
	return append(result, group)
}
