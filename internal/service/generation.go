package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"rppapi/internal/content"
	"rppapi/internal/generator"
	"rppapi/internal/lock"
	"rppapi/internal/metrics"
	"rppapi/internal/render"
	"rppapi/internal/repository"
	"rppapi/internal/storage"
)

// GenerationResult is returned after a PDF is stored and linked to its document.
type GenerationResult struct {
	PDFURL   string `json:"pdfUrl"`
	FileName string `json:"fileName"`
}

// GenerationService runs the generate → render → store → link pipeline for one document.
type GenerationService interface {
	Generate(ctx context.Context, id int64) (*GenerationResult, error)
}

// GenerationDeps wires a GenerationService.
type GenerationDeps struct {
	Repo         repository.DocumentRepository
	Generator    generator.ContentGenerator
	Renderer     render.Renderer
	Store        storage.Storage
	Locker       lock.Locker
	LockTTL      time.Duration
	PublicPrefix string
	Metrics      *metrics.Generation
	// Now defaults to time.Now and exists for deterministic file names in tests.
	Now func() time.Time
}

type generationService struct {
	GenerationDeps
}

func NewGenerationService(d GenerationDeps) GenerationService {
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.LockTTL <= 0 {
		d.LockTTL = 5 * time.Minute
	}
	return &generationService{GenerationDeps: d}
}

func (s *generationService) Generate(ctx context.Context, id int64) (*GenerationResult, error) {
	if id <= 0 {
		return nil, ErrInvalidID
	}
	strategy := s.Renderer.Name()
	log := zerolog.Ctx(ctx).With().
		Str("component", "generation").
		Int64("document_id", id).
		Str("strategy", strategy).
		Logger()

	release, err := s.Locker.Acquire(ctx, "document:"+strconv.FormatInt(id, 10), s.LockTTL)
	if err != nil {
		if errors.Is(err, lock.ErrLocked) {
			s.Metrics.Observe(strategy, metrics.OutcomeLocked, 0)
			return nil, ErrGenerationInProgress
		}
		return nil, fmt.Errorf("acquire generation lock: %w", err)
	}
	defer release()

	start := time.Now()
	outcome := metrics.OutcomeSuccess
	defer func() { s.Metrics.Observe(strategy, outcome, time.Since(start)) }()

	doc, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			outcome = metrics.OutcomeNotFound
			return nil, ErrNotFound
		}
		outcome = metrics.OutcomeLookupError
		return nil, fmt.Errorf("find document: %w", err)
	}

	format := s.Renderer.Format()
	raw, err := s.Generator.Generate(ctx, doc, format)
	if err != nil {
		outcome = metrics.OutcomeGenerateError
		return nil, fmt.Errorf("generate content: %w", err)
	}

	in := render.Input{Document: doc, Raw: raw}
	if format == content.FormatJSON {
		in.Content, in.ParseErr = content.Parse(raw)
		if in.ParseErr != nil {
			log.Warn().Err(in.ParseErr).Int("raw_len", len(raw)).Msg("generated content is not valid lesson json")
		}
	}

	pdf, err := s.Renderer.Render(ctx, in)
	if err != nil {
		outcome = metrics.OutcomeRenderError
		return nil, fmt.Errorf("render pdf: %w", err)
	}

	fileName := storage.PDFFileName(doc.Subject, doc.Phase, s.Now())
	if _, err := s.Store.Put(ctx, fileName, bytes.NewReader(pdf), storage.PutObjectOptions{
		Size:        int64(len(pdf)),
		ContentType: "application/pdf",
		Metadata:    map[string]string{"document-id": strconv.FormatInt(id, 10)},
	}); err != nil {
		outcome = metrics.OutcomeStorageError
		return nil, fmt.Errorf("store pdf: %w", err)
	}

	pdfURL := storage.PublicURL(s.PublicPrefix, fileName)
	previous := doc.Attachment()
	if _, err := s.Repo.Update(ctx, id, repository.DocumentUpdate{AttachmentURL: &pdfURL}); err != nil {
		// The stored file stays behind; the reaper collects unreferenced PDFs.
		outcome = metrics.OutcomeUpdateError
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update attachment: %w", err)
	}

	s.removePrevious(ctx, log, previous, fileName)

	log.Info().Str("file_name", fileName).Int("size", len(pdf)).Msg("pdf generated")
	return &GenerationResult{PDFURL: pdfURL, FileName: fileName}, nil
}

func (s *generationService) removePrevious(ctx context.Context, log zerolog.Logger, url, current string) {
	if url == "" {
		return
	}
	key, ok := storage.KeyFromURL(s.PublicPrefix, url)
	if !ok || key == current {
		return
	}
	if err := s.Store.Delete(ctx, key); err != nil {
		log.Warn().Err(err).Str("object_key", key).Msg("failed to delete previous pdf")
	}
}
