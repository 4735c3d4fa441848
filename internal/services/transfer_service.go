package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"task-manager/internal/errors"
	"task-manager/internal/repository"
)

// ExportFilePrefix starts every default backup file name.
const ExportFilePrefix = "tm-backup-"

// transferServiceImpl implements the TransferService interface
type transferServiceImpl struct {
	repo        repository.Repository
	timeService TimeService
	mapper      *repository.Mapper
}

// NewTransferService creates a new TransferService instance
func NewTransferService(repo repository.Repository, timeService TimeService) TransferService {
	return &transferServiceImpl{
		repo:        repo,
		timeService: timeService,
		mapper:      repository.NewMapper(),
	}
}

// Export collects every collection into one document
func (s *transferServiceImpl) Export(ctx context.Context) (*ExportDocument, error) {
	tasks, err := s.repo.ListTasks(ctx)
	if err != nil {
		return nil, err
	}
	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	settings, err := s.repo.GetSettings(ctx)
	if err != nil {
		return nil, err
	}

	taskRecords := s.mapper.Task.ToRecordSlice(tasks)
	categoryRecords := s.mapper.Category.ToRecordSlice(categories)
	settingsRecord := s.mapper.Settings.ToRecord(settings)
	return &ExportDocument{
		Tasks:      &taskRecords,
		Categories: &categoryRecords,
		Settings:   &settingsRecord,
		ExportDate: repository.FormatTime(s.timeService.Now()),
	}, nil
}

// WriteExport writes the export document to w as indented JSON
func (s *transferServiceImpl) WriteExport(ctx context.Context, w io.Writer) error {
	doc, err := s.Export(ctx)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode export: %w", err)
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	return nil
}

// ExportFileName returns the default backup file name for today
func (s *transferServiceImpl) ExportFileName() string {
	return ExportFilePrefix + s.timeService.Now().Format("2006-01-02") + ".json"
}

// Import reads a backup document and writes the collections it contains.
// The whole document is decoded before anything is written, so a
// malformed document leaves the store untouched.
func (s *transferServiceImpl) Import(ctx context.Context, r io.Reader) (*ImportResult, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.NewImportError("could not read document", err)
	}

	var doc ExportDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.NewImportError("not a valid backup file", err)
	}

	snapshot, result, err := s.snapshot(doc)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Restore(ctx, snapshot); err != nil {
		return nil, err
	}

	repaired, err := s.repo.Reconcile(ctx)
	if err != nil {
		return nil, err
	}
	result.RepairedReferences = repaired
	return result, nil
}

// snapshot converts the records present in doc to domain values
func (s *transferServiceImpl) snapshot(doc ExportDocument) (repository.Snapshot, *ImportResult, error) {
	var snapshot repository.Snapshot
	result := &ImportResult{}

	if doc.Tasks != nil {
		tasks, err := s.mapper.Task.FromRecordSlice(*doc.Tasks)
		if err != nil {
			return snapshot, nil, errors.NewImportError("invalid task", err)
		}
		snapshot.Tasks = &tasks
		result.Tasks = len(tasks)
		result.TasksWritten = true
	}

	if doc.Categories != nil {
		categories, err := s.mapper.Category.FromRecordSlice(*doc.Categories)
		if err != nil {
			return snapshot, nil, errors.NewImportError("invalid category", err)
		}
		snapshot.Categories = &categories
		result.Categories = len(categories)
		result.CategoriesWritten = true
	}

	if doc.Settings != nil {
		settings := s.mapper.Settings.FromRecord(*doc.Settings)
		snapshot.Settings = &settings
		result.SettingsWritten = true
	}

	return snapshot, result, nil
}
