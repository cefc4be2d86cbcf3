package services

import (
	"pasar/internal/models"
	"pasar/internal/repositories"
)

// CategoryService handles the read-only category surface.
type CategoryService struct {
	repo repositories.CategoryRepository
}

// NewCategoryService creates a new CategoryService.
func NewCategoryService(repo repositories.CategoryRepository) *CategoryService {
	return &CategoryService{
		repo: repo,
	}
}

// CategoryNode is a category with its children, for the tree endpoint.
type CategoryNode struct {
	models.Category
	Children []*CategoryNode `json:"children"`
}

// List returns all active categories in display order.
func (s *CategoryService) List() ([]models.Category, error) {
	return s.repo.ListActive()
}

// Tree returns the active categories as a forest of root nodes.
func (s *CategoryService) Tree() ([]*CategoryNode, error) {
	categories, err := s.repo.ListActive()
	if err != nil {
		return nil, err
	}

	nodes := make(map[string]*CategoryNode, len(categories))
	for i := range categories {
		nodes[categories[i].ID] = &CategoryNode{Category: categories[i], Children: []*CategoryNode{}}
	}

	var roots []*CategoryNode
	for _, category := range categories {
		node := nodes[category.ID]
		if parent, ok := nodes[category.ParentID]; ok && category.ParentID != category.ID {
			parent.Children = append(parent.Children, node)
		} else {
			roots = append(roots, node)
		}
	}
	return roots, nil
}

// GetBySlug returns one active category.
func (s *CategoryService) GetBySlug(slug string) (*models.Category, error) {
	return s.repo.GetBySlug(slug)
}
