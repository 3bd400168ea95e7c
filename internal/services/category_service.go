package services

import (
	"context"
	"fmt"
	"strings"

	"school_ops_backend/internal/cache"
	"school_ops_backend/internal/inventory"
	"school_ops_backend/internal/models"
	"school_ops_backend/internal/upstream"
	"school_ops_backend/pkg/utils"
)

// CategoryService hosts category management. Mutations are admin-only and
// are defensively rejected here even if a route slips through.
type CategoryService interface {
	Categories() []models.Category
	Create(ctx context.Context, rc inventory.RoleContext, category models.Category) (*models.Category, error)
	Update(ctx context.Context, rc inventory.RoleContext, categoryID int64, category models.Category) (*models.Category, error)
	Delete(ctx context.Context, rc inventory.RoleContext, categoryID int64) error
}

type categoryService struct {
	da    upstream.DataAccess
	store *cache.Store
}

// NewCategoryService wires category management to its collaborators.
func NewCategoryService(da upstream.DataAccess, store *cache.Store) CategoryService {
	return &categoryService{da: da, store: store}
}

func (s *categoryService) Categories() []models.Category {
	return s.store.Categories()
}

func checkCategoryPermission(rc inventory.RoleContext) error {
	if !rc.Role.CanManageCategories() {
		return fmt.Errorf("%w: only administrators may manage categories", ErrPermissionDenied)
	}
	return nil
}

func (s *categoryService) Create(ctx context.Context, rc inventory.RoleContext, category models.Category) (*models.Category, error) {
	if err := checkCategoryPermission(rc); err != nil {
		return nil, err
	}
	if strings.TrimSpace(category.Name) == "" {
		return nil, &ValidationError{Fields: inventory.FieldErrors{"name": "name is required"}}
	}

	created, err := s.da.CreateCategory(ctx, category)
	if err != nil {
		return nil, err
	}
	utils.LogError(s.store.RefetchCategories(ctx), "Refetch categories after create failed")
	return created, nil
}

func (s *categoryService) Update(ctx context.Context, rc inventory.RoleContext, categoryID int64, category models.Category) (*models.Category, error) {
	if err := checkCategoryPermission(rc); err != nil {
		return nil, err
	}
	if strings.TrimSpace(category.Name) == "" {
		return nil, &ValidationError{Fields: inventory.FieldErrors{"name": "name is required"}}
	}

	updated, err := s.da.UpdateCategory(ctx, categoryID, category)
	if err != nil {
		return nil, err
	}
	utils.LogError(s.store.RefetchCategories(ctx), "Refetch categories after update failed")
	return updated, nil
}

// Delete removes a category. The in-use check runs here against the cached
// item count before the call; the backend enforces the same rule
// authoritatively.
func (s *categoryService) Delete(ctx context.Context, rc inventory.RoleContext, categoryID int64) error {
	if err := checkCategoryPermission(rc); err != nil {
		return err
	}
	for _, category := range s.store.Categories() {
		if category.ID == categoryID && category.ItemCount > 0 {
			return fmt.Errorf("%w: %d items still reference it", ErrCategoryInUse, category.ItemCount)
		}
	}

	if err := s.da.DeleteCategory(ctx, categoryID); err != nil {
		return err
	}
	utils.LogError(s.store.RefetchCategories(ctx), "Refetch categories after delete failed")
	return nil
}
