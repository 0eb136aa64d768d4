package repository

import (
	"context"
	"errors"

	"rppapi/internal/model"
)

// ErrNotFound is returned by every repository implementation when the addressed row does not exist.
var ErrNotFound = errors.New("record not found")

// DocumentRepository defines data access for lesson-plan documents.
// No business logic here — strictly persistence operations.
type DocumentRepository interface {
	// Create inserts a new document record and returns it with server-assigned id and timestamps.
	Create(ctx context.Context, doc *model.Document) (*model.Document, error)

	// FindByID returns a document by its ID or ErrNotFound.
	FindByID(ctx context.Context, id int64) (*model.Document, error)

	// List returns a page of documents matching the query and the total matching count.
	List(ctx context.Context, q DocumentQuery) (*PageResult[model.Document], error)

	// Update writes only the non-nil fields of the patch and returns the stored record.
	Update(ctx context.Context, id int64, patch DocumentUpdate) (*model.Document, error)

	// Delete removes a document by ID, returning ErrNotFound if no row matched.
	Delete(ctx context.Context, id int64) error

	// ListAttachmentURLs returns every attachment URL that starts with prefix.
	ListAttachmentURLs(ctx context.Context, prefix string) ([]string, error)
}

// DocumentQuery filters a document listing.
type DocumentQuery struct {
	PageQuery
	Search   string
	Subjects []string
	Phases   []string
}

// DocumentUpdate lists the columns to overwrite. A nil field is left untouched.
// ClearAttachment sets attachment_url to NULL and takes precedence over AttachmentURL.
type DocumentUpdate struct {
	Subject         *string
	TeacherName     *string
	Phase           *string
	Semester        *string
	AcademicYear    *string
	Assessment      *string
	SessionCount    *int
	AttachmentURL   *string
	ClearAttachment bool
}
