package handler

import (
	"context"
	"errors"
	"mime"
	"net/http"
	"net/url"
	"strings"

	"github.com/docsearch/docsearch-api/internal/document"
	"github.com/docsearch/docsearch-api/internal/document/service"
	"github.com/docsearch/docsearch-api/pkg/logger"
	"github.com/docsearch/docsearch-api/pkg/metrics"
	"github.com/gin-gonic/gin"
)

// BasePath is where the document routes are mounted.
const BasePath = "/api/documents"

// Renderer turns a display name and body text into PDF bytes.
type Renderer interface {
	Render(name, text string) ([]byte, error)
}

// RenderCache stores rendered PDFs by document id.
type RenderCache interface {
	Get(ctx context.Context, id string) ([]byte, bool)
	Put(ctx context.Context, id string, pdf []byte)
}

type Handler struct {
	svc      service.Service
	renderer Renderer
	cache    RenderCache
}

// New builds the document handler. cache may be nil.
func New(svc service.Service, renderer Renderer, cache RenderCache) *Handler {
	return &Handler{svc: svc, renderer: renderer, cache: cache}
}

// RegisterDocumentRoutes mounts the search and download routes under
// BasePath behind the given middleware.
func RegisterDocumentRoutes(r *gin.Engine, h *Handler, mw ...gin.HandlerFunc) {
	h.Register(r.Group(BasePath, mw...))
}

func (h *Handler) Register(rg *gin.RouterGroup) {
	base := rg.BasePath()
	rg.GET("/search-with-downloads", func(c *gin.Context) { h.searchByFields(c, base) })
	rg.GET("/search-all-with-downloads", func(c *gin.Context) { h.searchAllFields(c, base) })
	rg.GET("/download/:id", h.download)
}

func (h *Handler) searchByFields(c *gin.Context, base string) {
	filter := service.FieldFilter{
		FileName: c.Query("filename"),
		Author:   c.Query("author"),
		Content:  c.Query("content"),
	}
	if err := service.ValidateFieldFilter(filter); err != nil {
		h.fail(c, err)
		return
	}
	docs, err := h.svc.SearchByFields(c.Request.Context(), filter, document.ParseSortBy(c.Query("sortBy")))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, withDownloads(c.Request, base, docs))
}

func (h *Handler) searchAllFields(c *gin.Context, base string) {
	keyword := c.Query("keyword")
	if err := service.ValidateKeyword(keyword); err != nil {
		h.fail(c, err)
		return
	}
	docs, err := h.svc.SearchAllFields(c.Request.Context(), keyword, document.ParseSortBy(c.Query("sortBy")))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, withDownloads(c.Request, base, docs))
}

func (h *Handler) download(c *gin.Context) {
	id := c.Param("id")
	ctx := c.Request.Context()
	doc, err := h.svc.GetByID(ctx, id)
	if err != nil {
		h.fail(c, err)
		return
	}

	pdf, err := h.pdfFor(ctx, id, doc)
	if err != nil {
		h.fail(c, err)
		return
	}
	disposition := mime.FormatMediaType("attachment", map[string]string{
		"filename": document.DownloadFileName(id, doc.FileName),
	})
	c.Header("Content-Disposition", disposition)
	c.Data(http.StatusOK, "application/pdf", pdf)
}

func (h *Handler) pdfFor(ctx context.Context, id string, doc *document.Document) ([]byte, error) {
	if h.cache != nil {
		if pdf, ok := h.cache.Get(ctx, id); ok {
			metrics.PDFRenders.WithLabelValues("cache").Inc()
			return pdf, nil
		}
	}
	pdf, err := h.renderer.Render(doc.DisplayName(), doc.Text)
	if err != nil {
		return nil, err
	}
	metrics.PDFRenders.WithLabelValues("render").Inc()
	if h.cache != nil {
		h.cache.Put(ctx, id, pdf)
	}
	return pdf, nil
}

func (h *Handler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		logger.Errorw("request failed", "method", c.Request.Method, "path", c.Request.URL.Path, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func withDownloads(r *http.Request, base string, docs []document.Document) []document.SearchResult {
	out := make([]document.SearchResult, 0, len(docs))
	for _, d := range docs {
		out = append(out, document.NewSearchResult(d, downloadURL(r, base, d.ID)))
	}
	return out
}

// downloadURL builds an absolute link from the scheme and host the caller used.
func downloadURL(r *http.Request, base, id string) string {
	u := url.URL{
		Scheme: requestScheme(r),
		Host:   r.Host,
		Path:   strings.TrimRight(base, "/") + "/download/" + id,
	}
	return u.String()
}

func requestScheme(r *http.Request) string {
	if p := r.Header.Get("X-Forwarded-Proto"); p != "" {
		first, _, _ := strings.Cut(p, ",")
		return strings.ToLower(strings.TrimSpace(first))
	}
	if r.TLS != nil {
		return "https"
	}
	return "http"
}
