package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/garyjia/travel-expense/internal/application/port"
	"github.com/garyjia/travel-expense/internal/domain"
	"github.com/garyjia/travel-expense/internal/domain/entity"
	"github.com/garyjia/travel-expense/internal/domain/regulation"
)

// ExportService renders saved regulations into downloadable files
type ExportService interface {
	Export(ctx context.Context, userID, regulationID int64, format string) (*entity.ExportRecord, error)
	// Open returns an export and its content; exports of other users are not found
	Open(ctx context.Context, userID int64, exportID string) (*entity.ExportRecord, []byte, error)
	List(ctx context.Context, userID, regulationID int64) ([]*entity.ExportRecord, error)
}

type exportServiceImpl struct {
	regulations RegulationService
	storage     port.FileStorage
	archive     port.ExportArchive
	renderers   map[string]port.DocumentRenderer
	logger      Logger
	now         func() time.Time
}

// NewExportService creates a new ExportService serving the formats of renderers
func NewExportService(
	regulations RegulationService,
	storage port.FileStorage,
	archive port.ExportArchive,
	renderers []port.DocumentRenderer,
	logger Logger,
) ExportService {
	byFormat := make(map[string]port.DocumentRenderer, len(renderers))
	for _, r := range renderers {
		byFormat[r.Format()] = r
	}
	return &exportServiceImpl{
		regulations: regulations,
		storage:     storage,
		archive:     archive,
		renderers:   byFormat,
		logger:      logger,
		now:         time.Now,
	}
}

func (s *exportServiceImpl) Export(ctx context.Context, userID, regulationID int64, format string) (*entity.ExportRecord, error) {
	renderer, ok := s.renderers[format]
	if !ok {
		return nil, domain.ValidationError{Field: "format", Msg: fmt.Sprintf("unsupported export format %q", format)}
	}

	reg, err := s.regulations.Get(ctx, userID, regulationID)
	if err != nil {
		return nil, err
	}

	doc := reg.Document()
	content, err := renderer.Render(doc, reg.RegulationText)
	if err != nil {
		s.logger.Error("Failed to render regulation", "regulation_id", regulationID, "format", format, "error", err)
		return nil, fmt.Errorf("render %s: %w", format, err)
	}

	id := uuid.NewString()
	rec := &entity.ExportRecord{
		ID:           id,
		UserID:       userID,
		RegulationID: regulationID,
		Revision:     reg.Revision,
		Format:       format,
		FileName:     regulation.ExportFileName(doc, renderer.Extension()),
		ContentType:  renderer.ContentType(),
		Path:         fmt.Sprintf("regulations/%d/%s.%s", regulationID, id, renderer.Extension()),
		Size:         int64(len(content)),
		CreatedAt:    s.now().UTC(),
	}

	if err := s.storage.Save(ctx, rec.Path, content); err != nil {
		s.logger.Error("Failed to store export", "path", rec.Path, "error", err)
		return nil, fmt.Errorf("store export: %w", err)
	}
	if err := s.archive.Put(ctx, rec); err != nil {
		if delErr := s.storage.Delete(ctx, rec.Path); delErr != nil {
			s.logger.Error("Failed to remove unindexed export", "path", rec.Path, "error", delErr)
		}
		return nil, fmt.Errorf("index export: %w", err)
	}

	s.logger.Info("Regulation exported", "export_id", id, "regulation_id", regulationID, "format", format, "size", rec.Size)
	return rec, nil
}

func (s *exportServiceImpl) Open(ctx context.Context, userID int64, exportID string) (*entity.ExportRecord, []byte, error) {
	rec, err := s.archive.Get(ctx, exportID)
	if err != nil {
		return nil, nil, fmt.Errorf("get export: %w", err)
	}
	if rec == nil || rec.UserID != userID {
		return nil, nil, domain.NotFoundError{Resource: "export", ID: exportID}
	}

	content, err := s.storage.Read(ctx, rec.Path)
	if err != nil {
		s.logger.Error("Export file missing", "export_id", exportID, "path", rec.Path, "error", err)
		return nil, nil, domain.NotFoundError{Resource: "export", ID: exportID, Err: err}
	}
	return rec, content, nil
}

func (s *exportServiceImpl) List(ctx context.Context, userID, regulationID int64) ([]*entity.ExportRecord, error) {
	if _, err := s.regulations.Get(ctx, userID, regulationID); err != nil {
		return nil, err
	}
	return s.archive.ListByRegulation(ctx, regulationID)
}
