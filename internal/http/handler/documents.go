package handler

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"rppapi/internal/model"
	"rppapi/internal/service"
)

// ListDocuments godoc
// @Summary List documents
// @Description Paginated list. subjects and phases are dot-separated (subjects=Matematika.Fisika).
// @Tags documents
// @Produce json
// @Param page query int false "1-based page" default(1)
// @Param limit query int false "page size (max 100)" default(10)
// @Param search query string false "case-insensitive substring of subject, teacher, phase or academic year"
// @Param subjects query string false "dot-separated subjects"
// @Param phases query string false "dot-separated phases"
// @Success 200 {object} documentListResponse
// @Failure 500 {object} errorPayload
// @Router /documents [get]
func ListDocuments(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		res, err := svc.List(c.UserContext(), service.DocumentListParams{
			PageParams: service.PageParams{Page: c.QueryInt("page", 1), Limit: c.QueryInt("limit", 10)},
			Search:     c.Query("search"),
			Subjects:   splitDots(c.Query("subjects")),
			Phases:     splitDots(c.Query("phases")),
		})
		if err != nil {
			return writeInternal(c, err, "Failed to fetch documents")
		}

		docs := res.Items
		if docs == nil {
			docs = []model.Document{}
		}
		return c.JSON(documentListResponse{
			Success:        true,
			Time:           nowISO(),
			Message:        "Documents retrieved successfully",
			TotalDocuments: res.Total,
			Offset:         res.Offset,
			Limit:          res.Limit,
			Documents:      docs,
		})
	}
}

// GetDocument godoc
// @Summary Get a document
// @Tags documents
// @Produce json
// @Param id path int true "document id"
// @Success 200 {object} documentResponse
// @Failure 400 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Router /documents/{id} [get]
func GetDocument(svc service.DocumentService) fiber.Handler {
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
		return c.JSON(documentResponse{
			Success:  true,
			Time:     nowISO(),
			Message:  fmt.Sprintf("Document with ID %d found", id),
			Document: doc,
		})
	}
}

// CreateDocument godoc
// @Summary Create a document
// @Tags documents
// @Accept json
// @Produce json
// @Param body body service.CreateDocumentInput true "document"
// @Success 201 {object} documentResponse
// @Failure 400 {object} errorPayload
// @Router /documents [post]
func CreateDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in service.CreateDocumentInput
		if err := c.BodyParser(&in); err != nil {
			return writeError(c, fiber.StatusBadRequest, "Invalid request body")
		}
		doc, err := svc.Create(c.UserContext(), in)
		if err != nil {
			var verr *service.ValidationError
			if errors.As(err, &verr) {
				return writeError(c, fiber.StatusBadRequest, verr.Message)
			}
			return writeInternal(c, err, "Failed to create document")
		}
		return c.Status(fiber.StatusCreated).JSON(documentResponse{
			Success:  true,
			Message:  "Document created successfully",
			Document: doc,
		})
	}
}

// UpdateDocument godoc
// @Summary Partially update a document
// @Description Omitted or empty fields keep their values. attachmentUrl, when present, always overwrites (null clears it).
// @Tags documents
// @Accept json
// @Produce json
// @Param id path int true "document id"
// @Param body body model.DocumentPatch true "fields to change"
// @Success 200 {object} documentResponse
// @Failure 400 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Router /documents/{id} [put]
func UpdateDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := parseID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "Invalid document ID")
		}
		var patch model.DocumentPatch
		if err := c.BodyParser(&patch); err != nil {
			return writeError(c, fiber.StatusBadRequest, "Invalid request body")
		}
		doc, err := svc.Update(c.UserContext(), id, patch)
		if err != nil {
			if errors.Is(err, service.ErrNotFound) {
				return writeError(c, fiber.StatusNotFound, fmt.Sprintf("Document with ID %d not found", id))
			}
			return writeInternal(c, err, "Failed to update document")
		}
		return c.JSON(documentResponse{
			Success:  true,
			Message:  "Document updated successfully",
			Document: doc,
		})
	}
}

// DeleteDocument godoc
// @Summary Delete a document
// @Description Also removes the document's generated PDF, if any.
// @Tags documents
// @Produce json
// @Param id path int true "document id"
// @Success 200 {object} messageResponse
// @Failure 400 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Router /documents/{id} [delete]
func DeleteDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := parseID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "Invalid document ID")
		}
		if err := svc.Delete(c.UserContext(), id); err != nil {
			if errors.Is(err, service.ErrNotFound) {
				return writeError(c, fiber.StatusNotFound, fmt.Sprintf("Document with ID %d not found", id))
			}
			return writeInternal(c, err, "Failed to delete document")
		}
		return c.JSON(messageResponse{Success: true, Message: "Document deleted successfully"})
	}
}

// GenerateDocumentPDF godoc
// @Summary Generate the RPP PDF for a document
// @Description Writes lesson content with the language model, renders it, stores the PDF and links it as the attachment.
// @Tags documents
// @Produce json
// @Param id path int true "document id"
// @Success 200 {object} generateResponse
// @Failure 400 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Failure 409 {object} errorPayload
// @Failure 500 {object} errorPayload
// @Router /documents/{id}/generate-pdf [post]
func GenerateDocumentPDF(svc service.GenerationService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := parseID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "Invalid document ID")
		}
		res, err := svc.Generate(c.UserContext(), id)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrNotFound):
				return writeError(c, fiber.StatusNotFound, "Document not found")
			case errors.Is(err, service.ErrGenerationInProgress):
				return writeError(c, fiber.StatusConflict, fmt.Sprintf("PDF generation already in progress for document %d", id))
			default:
				return writeInternal(c, err, "Failed to generate PDF")
			}
		}
		return c.JSON(generateResponse{
			Success:  true,
			Message:  "PDF generated successfully",
			PDFURL:   res.PDFURL,
			FileName: res.FileName,
		})
	}
}
