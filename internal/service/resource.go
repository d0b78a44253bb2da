package service

import (
	"context"
	"fmt"

	"MindBalance/internal/model"
	"MindBalance/internal/model/dto"
	"MindBalance/internal/repository"
	"MindBalance/pkg/errors"
)

type ResourceService struct {
	deps Dependencies
}

func NewResourceService(deps Dependencies) *ResourceService {
	return &ResourceService{deps: deps.withDefaults()}
}

// List 按分类、难度过滤资源库，同时返回全部分类
func (s *ResourceService) List(ctx context.Context, query dto.ResourceQuery) (*dto.ResourceListResponse, error) {
	repo := s.deps.Store.Resources()

	resources, err := repo.List(ctx, repository.ResourceFilter{
		Category:   query.Category,
		Difficulty: query.Difficulty,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list resources: %w", err)
	}

	categories, err := repo.Categories(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}

	return &dto.ResourceListResponse{
		Resources:  resources,
		Categories: categories,
		Success:    true,
	}, nil
}

func (s *ResourceService) Get(ctx context.Context, id int) (*model.Resource, error) {
	resource, err := s.deps.Store.Resources().GetByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, errors.ResourceNotFound
		}
		return nil, fmt.Errorf("failed to load resource %d: %w", id, err)
	}
	return resource, nil
}
