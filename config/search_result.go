package config

import "slices"

// SearchResultName is the name reported by a SearchResult.
const SearchResultName = "search-result"

// SearchResult aggregates the matches of a wildcard search. It is never part of the tree.
//
// A "*" segment contributes one entry per matching child, so an entry is itself a
// SearchResult when the rest of the path fans out again below that child. Flatten lists
// the matched nodes without that grouping.
type SearchResult struct {
	base

	results []Node
}

// Results returns the matched nodes.
func (s *SearchResult) Results() []Node {
	return slices.Clone(s.results)
}

// Flatten returns the matched nodes with nested results expanded in order.
func (s *SearchResult) Flatten() []Node {
	nodes := make([]Node, 0, len(s.results))

	for _, result := range s.results {
		if nested, ok := result.(*SearchResult); ok {
			nodes = append(nodes, nested.Flatten()...)

			continue
		}

		nodes = append(nodes, result)
	}

	return nodes
}

// Count returns the number of entries.
func (s *SearchResult) Count() int {
	return len(s.results)
}

// add appends node, flattening nested results and skipping nodes already present.
func (s *SearchResult) add(node Node) {
	switch found := node.(type) {
	case nil:
		return
	case *SearchResult:
		for _, result := range found.results {
			s.add(result)
		}
	default:
		if !slices.Contains(s.results, node) {
			s.results = append(s.results, node)
		}
	}
}

// addEntry appends node as a single entry; a nested result stays grouped.
func (s *SearchResult) addEntry(node Node) {
	if node != nil {
		s.results = append(s.results, node)
	}
}

// collapse returns nil for no match, the node itself for one match, or the result set.
func (s *SearchResult) collapse() Node {
	switch len(s.results) {
	case 0:
		return nil
	case 1:
		return s.results[0]
	default:
		return &SearchResult{
			base:    base{name: SearchResultName, state: StateSynced, parent: nil, configuration: s.results[0].Configuration()},
			results: s.results,
		}
	}
}

// Find applies path to every result, relative to each of them.
func (s *SearchResult) Find(path string) Node {
	var results SearchResult

	for _, result := range s.results {
		results.add(result.Find(path))
	}

	return results.collapse()
}

// FindPath applies the segments to every result.
func (s *SearchResult) FindPath(path []string, index int) Node {
	var results SearchResult

	for _, result := range s.results {
		results.add(result.FindPath(path, index))
	}

	return results.collapse()
}

// PostLoad is a no-op; results belong to their own trees.
func (s *SearchResult) PostLoad() error {
	return nil
}

// Validate is a no-op; results belong to their own trees.
func (s *SearchResult) Validate() error {
	return nil
}

// UpdateState sets the state of every result.
func (s *SearchResult) UpdateState(state State) {
	for _, result := range s.results {
		result.UpdateState(state)
	}
}

// UpdateConfiguration is a no-op; results belong to their own configurations.
func (s *SearchResult) UpdateConfiguration(*Configuration) {}
