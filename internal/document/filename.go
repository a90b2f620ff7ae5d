package document

import "strings"

// DownloadFileName returns the attachment name for a rendered document:
// the stored name without a trailing ".pdf" (any case) plus "-content.pdf",
// or "document-<id>.pdf" when the stored name is blank.
func DownloadFileName(id, fileName string) string {
	if IsBlank(fileName) {
		return "document-" + id + ".pdf"
	}
	base := fileName
	if strings.HasSuffix(strings.ToLower(base), ".pdf") {
		base = base[:len(base)-len(".pdf")]
	}
	return base + "-content.pdf"
}
