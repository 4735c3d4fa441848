package services

import (
	"context"

	"task-manager/internal/domain"
	"task-manager/internal/errors"
	"task-manager/internal/repository"
	"task-manager/internal/validation"
)

// categoryServiceImpl implements the CategoryService interface
type categoryServiceImpl struct {
	repo              repository.Repository
	categoryValidator *validation.CategoryValidator
}

// NewCategoryService creates a new CategoryService instance. A nil
// validator selects the default limits.
func NewCategoryService(repo repository.Repository, categoryValidator *validation.CategoryValidator) CategoryService {
	if categoryValidator == nil {
		categoryValidator = validation.NewCategoryValidator(nil)
	}
	return &categoryServiceImpl{
		repo:              repo,
		categoryValidator: categoryValidator,
	}
}

// ListCategories returns every category in storage order
func (c *categoryServiceImpl) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	return c.repo.ListCategories(ctx)
}

// CreateCategory validates and stores a new category
func (c *categoryServiceImpl) CreateCategory(ctx context.Context, draft domain.CategoryDraft) (*domain.Category, error) {
	cleaned, err := c.categoryValidator.CleanCategoryDraft(draft)
	if err != nil {
		return nil, errors.NewValidationError("invalid category", err)
	}
	return c.repo.AddCategory(ctx, cleaned)
}

// UpdateCategory replaces the name, color and icon of a category
func (c *categoryServiceImpl) UpdateCategory(ctx context.Context, id string, draft domain.CategoryDraft) (*domain.Category, error) {
	if err := c.categoryValidator.ValidateCategoryID(id); err != nil {
		return nil, errors.NewValidationError("invalid category id", err)
	}
	cleaned, err := c.categoryValidator.CleanCategoryDraft(draft)
	if err != nil {
		return nil, errors.NewValidationError("invalid category", err)
	}
	return c.repo.UpdateCategory(ctx, id, cleaned)
}

// DeleteCategory removes a category and moves its tasks to the default
// category. The default category itself cannot be deleted.
func (c *categoryServiceImpl) DeleteCategory(ctx context.Context, id string) (int, error) {
	if err := c.categoryValidator.ValidateCategoryID(id); err != nil {
		return 0, errors.NewValidationError("invalid category id", err)
	}
	if id == domain.DefaultCategoryID {
		return 0, errors.NewProtectedError("category", id)
	}
	return c.repo.DeleteCategory(ctx, id)
}
