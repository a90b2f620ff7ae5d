package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterSwagger serves a Swagger UI page and the OpenAPI document for the
// search and download routes.
// - GET /swagger/index.html  -> HTML page loading the OpenAPI JSON
// - GET /swagger/doc.json    -> machine-readable OpenAPI JSON
func RegisterSwagger(r *gin.Engine) {
	r.GET("/swagger/index.html", func(c *gin.Context) {
		c.Header("Content-Type", "text/html; charset=utf-8")
		c.String(http.StatusOK, swaggerHTML)
	})

	r.GET("/swagger/doc.json", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json", []byte(swaggerJSON))
	})
}

const swaggerHTML = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>docsearch-api Swagger UI</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@4/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@4/swagger-ui-bundle.js"></script>
    <script>
      window.ui = SwaggerUIBundle({
        url: '/swagger/doc.json',
        dom_id: '#swagger-ui',
      })
    </script>
  </body>
</html>`

const swaggerJSON = `{
  "openapi": "3.0.0",
  "info": { "title": "docsearch-api", "version": "v1.0.0" },
  "components": {
    "schemas": {
      "SearchResult": {
        "type": "object",
        "properties": {
          "id": {"type": "string"},
          "fileName": {"type": "string"},
          "author": {"type": "string"},
          "title": {"type": "string"},
          "pageCount": {"type": "integer"},
          "downloadUrl": {"type": "string", "format": "uri"}
        }
      },
      "Error": { "type": "object", "properties": {"error": {"type": "string"}} }
    },
    "parameters": {
      "sortBy": { "name": "sortBy", "in": "query", "schema": {"type": "string", "enum": ["relevance", "filename", "pagecount"], "default": "relevance"} }
    }
  },
  "paths": {
    "/api/documents/search-with-downloads": {
      "get": {
        "summary": "Fuzzy search by filename, author or content (at least one required)",
        "parameters": [
          {"name": "filename", "in": "query", "schema": {"type": "string"}},
          {"name": "author", "in": "query", "schema": {"type": "string"}},
          {"name": "content", "in": "query", "schema": {"type": "string"}},
          {"$ref": "#/components/parameters/sortBy"}
        ],
        "responses": {
          "200": { "description": "matching documents", "content": {"application/json": {"schema": {"type": "array", "items": {"$ref": "#/components/schemas/SearchResult"}}}} },
          "400": { "description": "all filters blank", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/Error"}}} },
          "500": { "description": "unexpected error", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/Error"}}} }
        }
      }
    },
    "/api/documents/search-all-with-downloads": {
      "get": {
        "summary": "Fuzzy keyword search across all searchable fields",
        "parameters": [
          {"name": "keyword", "in": "query", "required": true, "schema": {"type": "string"}},
          {"$ref": "#/components/parameters/sortBy"}
        ],
        "responses": {
          "200": { "description": "matching documents", "content": {"application/json": {"schema": {"type": "array", "items": {"$ref": "#/components/schemas/SearchResult"}}}} },
          "400": { "description": "keyword blank", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/Error"}}} },
          "500": { "description": "unexpected error", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/Error"}}} }
        }
      }
    },
    "/api/documents/download/{id}": {
      "get": {
        "summary": "Download a document rendered as PDF",
        "parameters": [ {"name": "id", "in": "path", "required": true, "schema": {"type": "string"}} ],
        "responses": {
          "200": { "description": "PDF attachment", "content": {"application/pdf": {"schema": {"type": "string", "format": "binary"}}} },
          "404": { "description": "unknown or malformed id", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/Error"}}} },
          "500": { "description": "unexpected error", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/Error"}}} }
        }
      }
    },
    "/health": { "get": { "summary": "Liveness check", "responses": { "200": { "description": "healthy" } } } },
    "/ready": { "get": { "summary": "Readiness check (pings the document store)", "responses": { "200": { "description": "ready" }, "503": { "description": "not ready" } } } }
  }
}`
