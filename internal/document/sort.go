package document

import (
	"sort"
	"strings"
)

// SortBy selects the ordering applied to a merged result set.
type SortBy string

const (
	SortRelevance SortBy = "relevance"
	SortFileName  SortBy = "filename"
	SortPageCount SortBy = "pagecount"
)

// ParseSortBy maps a request value onto a sort policy. Anything unknown,
// including an empty value, sorts by relevance.
func ParseSortBy(s string) SortBy {
	switch SortBy(strings.ToLower(strings.TrimSpace(s))) {
	case SortFileName:
		return SortFileName
	case SortPageCount:
		return SortPageCount
	default:
		return SortRelevance
	}
}

// SortDocuments orders docs in place. Ties keep their incoming order.
func SortDocuments(docs []ScoredDocument, by SortBy) {
	switch by {
	case SortPageCount:
		sort.SliceStable(docs, func(i, j int) bool { return docs[i].PageCount > docs[j].PageCount })
	case SortFileName:
		sort.SliceStable(docs, func(i, j int) bool { return docs[i].FileName < docs[j].FileName })
	default:
		sort.SliceStable(docs, func(i, j int) bool { return docs[i].Score > docs[j].Score })
	}
}
