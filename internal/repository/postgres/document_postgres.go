package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"rppapi/internal/model"
	"rppapi/internal/repository"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var documentColumns = []string{
	"id",
	"subject",
	"teacher_name",
	"phase",
	"semester",
	"academic_year",
	"assessment",
	"session_count",
	"attachment_url",
	"created_at",
	"updated_at",
}

var returningDocument = "RETURNING " + strings.Join(documentColumns, ", ")

// DocumentPostgres is a PostgreSQL implementation of repository.DocumentRepository.
// Statements are built with squirrel and executed through the traced *sql.DB.
type DocumentPostgres struct {
	db *sql.DB
}

// NewDocumentPostgres creates a new DocumentPostgres repository.
func NewDocumentPostgres(db *sql.DB) *DocumentPostgres {
	return &DocumentPostgres{db: db}
}

var _ repository.DocumentRepository = (*DocumentPostgres)(nil)

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (*model.Document, error) {
	var d model.Document
	if err := row.Scan(
		&d.ID,
		&d.Subject,
		&d.TeacherName,
		&d.Phase,
		&d.Semester,
		&d.AcademicYear,
		&d.Assessment,
		&d.SessionCount,
		&d.AttachmentURL,
		&d.CreatedAt,
		&d.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &d, nil
}

// Create inserts a new document row and returns the stored record.
func (r *DocumentPostgres) Create(ctx context.Context, doc *model.Document) (*model.Document, error) {
	q, args, err := psql.Insert("documents").
		Columns("subject", "teacher_name", "phase", "semester", "academic_year", "assessment", "session_count", "attachment_url").
		Values(doc.Subject, doc.TeacherName, doc.Phase, doc.Semester, doc.AcademicYear, doc.Assessment, doc.SessionCount, doc.AttachmentURL).
		Suffix(returningDocument).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build insert: %w", err)
	}
	return scanDocument(r.db.QueryRowContext(ctx, q, args...))
}

// FindByID fetches a single document by its ID.
func (r *DocumentPostgres) FindByID(ctx context.Context, id int64) (*model.Document, error) {
	q, args, err := psql.Select(documentColumns...).
		From("documents").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}
	return scanDocument(r.db.QueryRowContext(ctx, q, args...))
}

func applyDocumentFilters(b sq.SelectBuilder, q repository.DocumentQuery) sq.SelectBuilder {
	if s := strings.TrimSpace(q.Search); s != "" {
		pattern := "%" + repository.EscapeLike(s) + "%"
		b = b.Where(sq.Or{
			sq.ILike{"subject": pattern},
			sq.ILike{"teacher_name": pattern},
			sq.ILike{"phase": pattern},
			sq.ILike{"academic_year": pattern},
		})
	}
	if len(q.Subjects) > 0 {
		b = b.Where(sq.Eq{"subject": q.Subjects})
	}
	if len(q.Phases) > 0 {
		b = b.Where(sq.Eq{"phase": q.Phases})
	}
	return b
}

// List returns documents using LIMIT/OFFSET pagination and the total count under the same filters.
func (r *DocumentPostgres) List(ctx context.Context, q repository.DocumentQuery) (*repository.PageResult[model.Document], error) {
	countSQL, countArgs, err := applyDocumentFilters(psql.Select("COUNT(*)").From("documents"), q).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build count: %w", err)
	}
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, err
	}

	listSQL, listArgs, err := applyDocumentFilters(psql.Select(documentColumns...).From("documents"), q).
		OrderBy("created_at DESC", "id DESC").
		Limit(uint64(q.Limit)).
		Offset(uint64(q.Offset)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list: %w", err)
	}
	rows, err := r.db.QueryContext(ctx, listSQL, listArgs...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Document, 0)
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.Document]{
		Items: items,
		Total: total,
	}, nil
}

// Update overwrites the supplied columns, bumps updated_at and returns the stored row.
func (r *DocumentPostgres) Update(ctx context.Context, id int64, u repository.DocumentUpdate) (*model.Document, error) {
	b := psql.Update("documents").Set("updated_at", sq.Expr("now()"))
	if u.Subject != nil {
		b = b.Set("subject", *u.Subject)
	}
	if u.TeacherName != nil {
		b = b.Set("teacher_name", *u.TeacherName)
	}
	if u.Phase != nil {
		b = b.Set("phase", *u.Phase)
	}
	if u.Semester != nil {
		b = b.Set("semester", *u.Semester)
	}
	if u.AcademicYear != nil {
		b = b.Set("academic_year", *u.AcademicYear)
	}
	if u.Assessment != nil {
		b = b.Set("assessment", *u.Assessment)
	}
	if u.SessionCount != nil {
		b = b.Set("session_count", *u.SessionCount)
	}
	switch {
	case u.ClearAttachment:
		b = b.Set("attachment_url", nil)
	case u.AttachmentURL != nil:
		b = b.Set("attachment_url", *u.AttachmentURL)
	}

	q, args, err := b.Where(sq.Eq{"id": id}).Suffix(returningDocument).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build update: %w", err)
	}
	return scanDocument(r.db.QueryRowContext(ctx, q, args...))
}

// Delete removes a document by ID.
func (r *DocumentPostgres) Delete(ctx context.Context, id int64) error {
	q, args, err := psql.Delete("documents").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}
	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// ListAttachmentURLs returns the attachment URLs that live under prefix.
func (r *DocumentPostgres) ListAttachmentURLs(ctx context.Context, prefix string) ([]string, error) {
	q, args, err := psql.Select("attachment_url").
		From("documents").
		Where(sq.Like{"attachment_url": repository.EscapeLike(prefix) + "%"}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}
