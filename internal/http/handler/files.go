package handler

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"rppapi/internal/service"
	"rppapi/internal/storage"
)

const presignExpiry = 15 * time.Minute

// ServePDF godoc
// @Summary Download a stored PDF
// @Tags files
// @Produce application/pdf
// @Param fileName path string true "file name"
// @Success 200 {file} binary
// @Failure 404 {object} errorPayload
// @Router /pdfs/{fileName} [get]
func ServePDF(store storage.Storage) fiber.Handler {
	return func(c *fiber.Ctx) error {
		// Generated names contain spaces and parentheses, so the segment usually arrives escaped.
		key, err := url.PathUnescape(c.Params("fileName"))
		if err != nil || storage.ValidateKey(key) != nil {
			return writeError(c, fiber.StatusBadRequest, "Invalid file name")
		}

		rc, info, err := store.Get(c.UserContext(), key)
		if err != nil {
			if errors.Is(err, storage.ErrNotExist) {
				return writeError(c, fiber.StatusNotFound, "File not found")
			}
			return writeInternal(c, err, "Failed to read file")
		}

		ct := info.ContentType
		if ct == "" {
			ct = "application/pdf"
		}
		c.Set(fiber.HeaderContentType, ct)
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("inline; filename=%q", key))
		if !info.LastModified.IsZero() {
			c.Set(fiber.HeaderLastModified, info.LastModified.UTC().Format(time.RFC1123))
		}
		size := -1
		if info.Size > 0 {
			size = int(info.Size)
		}
		// The response stream closes rc once written.
		return c.SendStream(rc, size)
	}
}

// DownloadDocument godoc
// @Summary Redirect to a document's attachment
// @Description Stored PDFs are served through a presigned URL when the driver supports it, otherwise through the public path.
// @Tags documents
// @Param id path int true "document id"
// @Success 302
// @Failure 404 {object} errorPayload
// @Router /documents/{id}/download [get]
func DownloadDocument(svc service.DocumentService, store storage.Storage, publicPrefix string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := parseID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "Invalid document ID")
		}
		doc, err := svc.Get(c.UserContext(), id)
		if err != nil {
			if errors.Is(err, service.ErrNotFound) {
				return writeError(c, fiber.StatusNotFound, fmt.Sprintf("Document with ID %d not found", id))
			}
			return writeInternal(c, err, "Failed to fetch document")
		}

		target := doc.Attachment()
		if target == "" {
			return writeError(c, fiber.StatusNotFound, fmt.Sprintf("Document with ID %d has no attachment", id))
		}
		if !redirectable(target) {
			return writeError(c, fiber.StatusNotFound, fmt.Sprintf("Document with ID %d has no downloadable attachment", id))
		}

		if key, ok := storage.KeyFromURL(publicPrefix, target); ok && store != nil {
			signed, err := store.PresignGet(c.UserContext(), key, presignExpiry)
			switch {
			case err == nil:
				target = signed
			case errors.Is(err, storage.ErrPresignUnsupported):
			default:
				return writeInternal(c, err, "Failed to prepare download")
			}
		}
		return c.Redirect(target, fiber.StatusFound)
	}
}

// redirectable accepts absolute http(s) URLs and same-origin absolute paths.
// attachmentUrl is client supplied, so anything else is never used as a Location.
func redirectable(target string) bool {
	u, err := url.Parse(target)
	if err != nil {
		return false
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		return u.Host != ""
	case "":
		// "//host" and "/\host" are treated as another origin by browsers.
		return u.Host == "" && strings.HasPrefix(target, "/") &&
			!strings.HasPrefix(target, "//") && !strings.HasPrefix(target, `/\`)
	default:
		return false
	}
}
