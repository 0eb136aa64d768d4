package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"rppapi/internal/model"
	"rppapi/internal/repository"
	"rppapi/internal/storage"
)

// DocumentListParams are the list filters accepted from the API.
type DocumentListParams struct {
	PageParams
	Search   string
	Subjects []string
	Phases   []string
}

// CreateDocumentInput is the body of a create request.
type CreateDocumentInput struct {
	Subject       string  `json:"subject" validate:"required"`
	TeacherName   string  `json:"teacherName" validate:"required"`
	Phase         string  `json:"phase" validate:"required"`
	Semester      string  `json:"semester"`
	AcademicYear  string  `json:"academicYear" validate:"required"`
	Assessment    string  `json:"assessment"`
	SessionCount  int     `json:"sessionCount" validate:"gte=0,lte=100"`
	AttachmentURL *string `json:"attachmentUrl"`
}

// DocumentService defines the use cases for lesson-plan documents.
type DocumentService interface {
	List(ctx context.Context, p DocumentListParams) (*ListResult[model.Document], error)
	Get(ctx context.Context, id int64) (*model.Document, error)
	Create(ctx context.Context, in CreateDocumentInput) (*model.Document, error)
	// Update applies a partial patch: omitted or blank text fields keep their values,
	// while a present attachmentUrl always overwrites.
	Update(ctx context.Context, id int64, patch model.DocumentPatch) (*model.Document, error)
	// Delete removes the record, then its generated PDF on a best-effort basis.
	Delete(ctx context.Context, id int64) error
}

type documentService struct {
	repo         repository.DocumentRepository
	store        storage.Storage
	publicPrefix string
	validate     *validator.Validate
}

// NewDocumentService constructs a new DocumentService. store may be nil, in which case
// generated files are left for the reaper.
func NewDocumentService(repo repository.DocumentRepository, store storage.Storage, publicPrefix string) DocumentService {
	return &documentService{
		repo:         repo,
		store:        store,
		publicPrefix: publicPrefix,
		validate:     newValidate(),
	}
}

func (s *documentService) List(ctx context.Context, p DocumentListParams) (*ListResult[model.Document], error) {
	limit, offset := p.normalize()
	res, err := s.repo.List(ctx, repository.DocumentQuery{
		PageQuery: repository.PageQuery{Limit: limit, Offset: offset},
		Search:    strings.TrimSpace(p.Search),
		Subjects:  p.Subjects,
		Phases:    p.Phases,
	})
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	return &ListResult[model.Document]{Items: res.Items, Total: res.Total, Offset: offset, Limit: limit}, nil
}

func (s *documentService) Get(ctx context.Context, id int64) (*model.Document, error) {
	if id <= 0 {
		return nil, ErrInvalidID
	}
	doc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find document: %w", err)
	}
	return doc, nil
}

func (s *documentService) Create(ctx context.Context, in CreateDocumentInput) (*model.Document, error) {
	// Blank counts as missing, but accepted values are stored as sent.
	check := in
	check.Subject = strings.TrimSpace(in.Subject)
	check.TeacherName = strings.TrimSpace(in.TeacherName)
	check.Phase = strings.TrimSpace(in.Phase)
	check.AcademicYear = strings.TrimSpace(in.AcademicYear)
	if err := s.validate.Struct(check); err != nil {
		return nil, toValidationError(err)
	}

	attachment := ""
	if in.AttachmentURL != nil {
		attachment = *in.AttachmentURL
	}
	sessions := in.SessionCount
	if sessions == 0 {
		sessions = model.DefaultSessionCount
	}

	doc, err := s.repo.Create(ctx, &model.Document{
		Subject:       in.Subject,
		TeacherName:   in.TeacherName,
		Phase:         in.Phase,
		Semester:      in.Semester,
		AcademicYear:  in.AcademicYear,
		Assessment:    in.Assessment,
		SessionCount:  sessions,
		AttachmentURL: &attachment,
	})
	if err != nil {
		return nil, fmt.Errorf("create document: %w", err)
	}
	return doc, nil
}

func (s *documentService) Update(ctx context.Context, id int64, p model.DocumentPatch) (*model.Document, error) {
	if id <= 0 {
		return nil, ErrInvalidID
	}

	u := repository.DocumentUpdate{
		Subject:      nonBlank(p.Subject),
		TeacherName:  nonBlank(p.TeacherName),
		Phase:        nonBlank(p.Phase),
		Semester:     nonBlank(p.Semester),
		AcademicYear: nonBlank(p.AcademicYear),
		Assessment:   nonBlank(p.Assessment),
	}
	if p.SessionCount != nil && *p.SessionCount > 0 {
		u.SessionCount = p.SessionCount
	}
	if p.AttachmentURL.Set {
		if p.AttachmentURL.Null {
			u.ClearAttachment = true
		} else {
			u.AttachmentURL = p.AttachmentURL.Ptr()
		}
	}

	doc, err := s.repo.Update(ctx, id, u)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update document: %w", err)
	}
	return doc, nil
}

func (s *documentService) Delete(ctx context.Context, id int64) error {
	doc, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("delete document: %w", err)
	}

	s.removeGenerated(ctx, doc.Attachment())
	return nil
}

// removeGenerated deletes a stored PDF referenced by url. URLs outside the public prefix
// (uploads, external links) are never touched.
func (s *documentService) removeGenerated(ctx context.Context, url string) {
	if s.store == nil || url == "" {
		return
	}
	key, ok := storage.KeyFromURL(s.publicPrefix, url)
	if !ok {
		return
	}
	if err := s.store.Delete(ctx, key); err != nil {
		zerolog.Ctx(ctx).Warn().
			Err(err).
			Str("component", "service").
			Str("object_key", key).
			Msg("failed to delete generated pdf")
	}
}
