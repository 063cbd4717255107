package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/vcenk/SmartRealtorAgent/internal/filestore"
	"github.com/vcenk/SmartRealtorAgent/internal/pkg/errcode"
	"github.com/vcenk/SmartRealtorAgent/internal/pkg/response"
	"github.com/vcenk/SmartRealtorAgent/internal/scraper"
	"github.com/vcenk/SmartRealtorAgent/internal/service"
)

const maxUploadBytes = 10 << 20

type KnowledgeHandler struct {
	knowledge *service.KnowledgeService
	store     filestore.Store
	maxPages  int
}

func NewKnowledgeHandler(knowledge *service.KnowledgeService, store filestore.Store, maxPages int) *KnowledgeHandler {
	return &KnowledgeHandler{knowledge: knowledge, store: store, maxPages: maxPages}
}

type ingestRequest struct {
	URL     string `json:"url"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Ingest indexes either a single page (url) or pasted text (content).
func (h *KnowledgeHandler) Ingest(c *gin.Context) {
	var req ingestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errcode.ErrInvalid, "invalid request")
		return
	}
	if req.URL == "" && req.Content == "" {
		response.Error(c, errcode.ErrInvalid, "url or content is required")
		return
	}
	tenantID := getTenantID(c)
	if req.URL != "" {
		src, err := h.knowledge.IngestURL(c.Request.Context(), tenantID, req.URL)
		if err != nil {
			handleError(c, err)
			return
		}
		response.Success(c, src)
		return
	}
	src, err := h.knowledge.IngestContent(c.Request.Context(), tenantID, req.Title, req.Content)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, src)
}

type crawlRequest struct {
	URL        string `json:"url"`
	MaxPages   int    `json:"max_pages"`
	UseSitemap bool   `json:"use_sitemap"`
	PathPrefix string `json:"path_prefix"`
}

// Crawl walks a site and streams progress as NDJSON, one event per
// line: status, progress and error events as the crawl goes, one done
// event at the end.
func (h *KnowledgeHandler) Crawl(c *gin.Context) {
	var req crawlRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errcode.ErrInvalid, "invalid request")
		return
	}
	if req.URL == "" {
		response.Error(c, errcode.ErrInvalid, "url is required")
		return
	}
	maxPages := req.MaxPages
	if maxPages <= 0 || maxPages > h.maxPages {
		maxPages = h.maxPages
	}

	c.Header("Content-Type", "application/x-ndjson")
	c.Header("Cache-Control", "no-cache")
	c.Status(http.StatusOK)
	flusher, _ := c.Writer.(http.Flusher)
	enc := json.NewEncoder(c.Writer)
	emit := func(event service.CrawlEvent) {
		_ = enc.Encode(event)
		if flusher != nil {
			flusher.Flush()
		}
	}

	err := h.knowledge.CrawlAndIngest(c.Request.Context(), getTenantID(c), req.URL, scraper.CrawlOptions{
		MaxPages:          maxPages,
		UseSitemap:        req.UseSitemap,
		AllowedPathPrefix: req.PathPrefix,
	}, emit)
	if err != nil {
		// The stream already carries per-URL error events; this is a
		// terminal failure like a cancelled request.
		emit(service.CrawlEvent{Type: "error", Reason: err.Error()})
	}
}

func (h *KnowledgeHandler) Sources(c *gin.Context) {
	sources, err := h.knowledge.ListSources(c.Request.Context(), getTenantID(c))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, sources)
}

func (h *KnowledgeHandler) Reindex(c *gin.Context) {
	src, err := h.knowledge.Reindex(c.Request.Context(), getTenantID(c), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, src)
}

func (h *KnowledgeHandler) Delete(c *gin.Context) {
	if err := h.knowledge.Delete(c.Request.Context(), getTenantID(c), c.Param("id")); err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"ok": true})
}

// Upload stores a document in the file store and, for text and markdown
// files, indexes its content as a knowledge source.
func (h *KnowledgeHandler) Upload(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		response.Error(c, errcode.ErrInvalid, "file is required")
		return
	}
	if file.Size > maxUploadBytes {
		response.Error(c, errcode.ErrInvalid, "file too large")
		return
	}
	opened, err := file.Open()
	if err != nil {
		response.Error(c, errcode.ErrInvalid, "failed to open file")
		return
	}
	defer opened.Close()

	tenantID := getTenantID(c)
	key := buildFileKey(tenantID, file.Filename)
	if err := h.store.Save(c.Request.Context(), key, opened, file.Size); err != nil {
		response.Error(c, errcode.ErrUploadFailed, "failed to store file")
		return
	}

	result := gin.H{
		"key":  key,
		"url":  h.store.URL(key, requestBaseURL(c)),
		"name": file.Filename,
	}
	if isTextUpload(file.Filename) {
		if _, err := opened.Seek(0, io.SeekStart); err != nil {
			handleError(c, err)
			return
		}
		content, err := io.ReadAll(opened)
		if err != nil {
			handleError(c, err)
			return
		}
		title := strings.TrimSuffix(file.Filename, filepath.Ext(file.Filename))
		src, err := h.knowledge.IngestContent(c.Request.Context(), tenantID, title, string(content))
		if err != nil {
			handleError(c, err)
			return
		}
		result["source"] = src
	}
	response.Success(c, result)
}

func isTextUpload(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".txt", ".md", ".markdown":
		return true
	}
	return false
}
