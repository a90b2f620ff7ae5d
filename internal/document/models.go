package document

// Field names as stored in both document collections.
const (
	FieldID        = "_id"
	FieldFileName  = "FileName"
	FieldText      = "Text"
	FieldCreator   = "Creator"
	FieldAuthor    = "Author"
	FieldTitle     = "Title"
	FieldSubject   = "Subject"
	FieldProducer  = "Producer"
	FieldPageCount = "PageCount"
	// FieldScore is the computed relevance score attached to search hits.
	FieldScore = "score"
)

// Document is the read-only record produced by the external ingestion process.
// Missing text fields are always empty strings and a missing page count is zero.
type Document struct {
	ID        string `json:"id"`
	FileName  string `json:"fileName"`
	Text      string `json:"text"`
	Creator   string `json:"creator"`
	Author    string `json:"author"`
	Title     string `json:"title"`
	Subject   string `json:"subject"`
	Producer  string `json:"producer"`
	PageCount int    `json:"pageCount"`
}

// ScoredDocument is a search hit as returned by the store. The score only
// drives ordering and never leaves the service.
type ScoredDocument struct {
	Document
	Score float64 `json:"score"`
}

// SearchResult is the externally visible shape of a search hit.
type SearchResult struct {
	ID          string `json:"id"`
	FileName    string `json:"fileName"`
	Author      string `json:"author"`
	Title       string `json:"title"`
	PageCount   int    `json:"pageCount"`
	DownloadURL string `json:"downloadUrl"`
}

// NewSearchResult drops internal-only fields and attaches the download URL.
func NewSearchResult(d Document, downloadURL string) SearchResult {
	return SearchResult{
		ID:          d.ID,
		FileName:    d.FileName,
		Author:      d.Author,
		Title:       d.Title,
		PageCount:   d.PageCount,
		DownloadURL: downloadURL,
	}
}

// DisplayName is the heading used when a document is rendered.
func (d Document) DisplayName() string {
	if d.Title != "" {
		return d.Title
	}
	return d.FileName
}
