package document

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func scored(name string, pages int, score float64) ScoredDocument {
	return ScoredDocument{Document: Document{ID: name, FileName: name, PageCount: pages}, Score: score}
}

func fileNames(docs []ScoredDocument) []string {
	out := make([]string, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.FileName)
	}
	return out
}

func TestSortDocuments_PageCountDescending(t *testing.T) {
	docs := []ScoredDocument{scored("x", 3, 0), scored("y", 1, 0), scored("z", 2, 0)}
	SortDocuments(docs, SortPageCount)
	require.Equal(t, []int{3, 2, 1}, []int{docs[0].PageCount, docs[1].PageCount, docs[2].PageCount})
}

func TestSortDocuments_FileNameAscending(t *testing.T) {
	docs := []ScoredDocument{scored("b", 0, 0), scored("a", 0, 0), scored("c", 0, 0)}
	SortDocuments(docs, SortFileName)
	require.Equal(t, []string{"a", "b", "c"}, fileNames(docs))
}

func TestSortDocuments_RelevanceDescending(t *testing.T) {
	docs := []ScoredDocument{scored("low", 0, 0.5), scored("high", 0, 3.2), scored("mid", 0, 1.1)}
	SortDocuments(docs, ParseSortBy(""))
	require.Equal(t, []string{"high", "mid", "low"}, fileNames(docs))
}

func TestSortDocuments_TiesKeepIncomingOrder(t *testing.T) {
	docs := []ScoredDocument{scored("first", 2, 1), scored("second", 2, 1), scored("third", 5, 1)}
	SortDocuments(docs, SortPageCount)
	require.Equal(t, []string{"third", "first", "second"}, fileNames(docs))
}

func TestParseSortBy(t *testing.T) {
	require.Equal(t, SortPageCount, ParseSortBy("pagecount"))
	require.Equal(t, SortPageCount, ParseSortBy(" PageCount "))
	require.Equal(t, SortFileName, ParseSortBy("filename"))
	require.Equal(t, SortRelevance, ParseSortBy("relevance"))
	require.Equal(t, SortRelevance, ParseSortBy("size"))
	require.Equal(t, SortRelevance, ParseSortBy(""))
}

func TestDownloadFileName(t *testing.T) {
	require.Equal(t, "Report-content.pdf", DownloadFileName("abc123", "Report.pdf"))
	require.Equal(t, "Report-content.pdf", DownloadFileName("abc123", "Report.PDF"))
	require.Equal(t, "notes.txt-content.pdf", DownloadFileName("abc123", "notes.txt"))
	require.Equal(t, "document-abc123.pdf", DownloadFileName("abc123", ""))
	require.Equal(t, "document-abc123.pdf", DownloadFileName("abc123", "   "))
}

func TestNewSearchResult_DropsInternalFields(t *testing.T) {
	d := Document{ID: "1", FileName: "a.pdf", Text: "secret body", Author: "Smith", Title: "T", PageCount: 4}
	r := NewSearchResult(d, "http://h/api/documents/download/1")
	require.Equal(t, SearchResult{ID: "1", FileName: "a.pdf", Author: "Smith", Title: "T", PageCount: 4, DownloadURL: "http://h/api/documents/download/1"}, r)
}

func TestDisplayName(t *testing.T) {
	require.Equal(t, "Title", Document{Title: "Title", FileName: "f.pdf"}.DisplayName())
	require.Equal(t, "f.pdf", Document{FileName: "f.pdf"}.DisplayName())
}
