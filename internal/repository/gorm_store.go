package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"MindBalance/internal/model"
	"MindBalance/pkg/logger"
)

// GormStore 基于 gorm 的关系型存储，PostgreSQL 与 SQLite 共用
type GormStore struct {
	db *gorm.DB
}

// NewGormStore 创建 gorm 存储
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) CheckIns() CheckInRepository   { return gormCheckIns{s.db} }
func (s *GormStore) Users() UserRepository         { return gormUsers{s.db} }
func (s *GormStore) Resources() ResourceRepository { return gormResources{s.db} }

// SeedDefaults 在用户表、资源表为空时写入内置种子数据
func (s *GormStore) SeedDefaults(ctx context.Context) error {
	db := s.db.WithContext(ctx)

	var userCount int64
	if err := db.Model(&model.User{}).Count(&userCount).Error; err != nil {
		return fmt.Errorf("failed to count users: %w", err)
	}
	if userCount == 0 {
		users, err := SeedUsers()
		if err != nil {
			return err
		}
		if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&users).Error; err != nil {
			return fmt.Errorf("failed to seed users: %w", err)
		}
		logger.Logger.Info("Seeded default users", zap.Int("count", len(users)))
	}

	var resourceCount int64
	if err := db.Model(&model.Resource{}).Count(&resourceCount).Error; err != nil {
		return fmt.Errorf("failed to count resources: %w", err)
	}
	if resourceCount == 0 {
		resources, _, err := SeedResources()
		if err != nil {
			return err
		}
		if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&resources).Error; err != nil {
			return fmt.Errorf("failed to seed resources: %w", err)
		}
		logger.Logger.Info("Seeded default resources", zap.Int("count", len(resources)))
	}

	return nil
}

type gormCheckIns struct{ db *gorm.DB }

func (r gormCheckIns) Create(ctx context.Context, checkIn *model.CheckIn) error {
	if err := r.db.WithContext(ctx).Create(checkIn).Error; err != nil {
		return fmt.Errorf("failed to create check-in: %w", err)
	}
	return nil
}

func (r gormCheckIns) ListByUser(ctx context.Context, userID string) ([]model.CheckIn, error) {
	var checkins []model.CheckIn
	if err := r.ordered(ctx).Where("user_id = ?", userID).Find(&checkins).Error; err != nil {
		return nil, fmt.Errorf("failed to list check-ins: %w", err)
	}
	return checkins, nil
}

func (r gormCheckIns) ListByUsers(ctx context.Context, userIDs []string) ([]model.CheckIn, error) {
	if len(userIDs) == 0 {
		return []model.CheckIn{}, nil
	}

	var checkins []model.CheckIn
	if err := r.ordered(ctx).Where("user_id IN ?", userIDs).Find(&checkins).Error; err != nil {
		return nil, fmt.Errorf("failed to list check-ins: %w", err)
	}
	return checkins, nil
}

func (r gormCheckIns) ListAll(ctx context.Context) ([]model.CheckIn, error) {
	var checkins []model.CheckIn
	if err := r.ordered(ctx).Find(&checkins).Error; err != nil {
		return nil, fmt.Errorf("failed to list check-ins: %w", err)
	}
	return checkins, nil
}

// ordered 写入顺序：created_at 相同时按 snowflake id 排
func (r gormCheckIns) ordered(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Order("created_at ASC").Order("id ASC")
}

type gormUsers struct{ db *gorm.DB }

func (r gormUsers) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.first(ctx, "email = ?", email)
}

func (r gormUsers) GetByID(ctx context.Context, id string) (*model.User, error) {
	return r.first(ctx, "id = ?", id)
}

func (r gormUsers) first(ctx context.Context, query string, arg interface{}) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).Where(query, arg).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	return &user, nil
}

func (r gormUsers) List(ctx context.Context) ([]model.User, error) {
	var users []model.User
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

type gormResources struct{ db *gorm.DB }

func (r gormResources) List(ctx context.Context, filter ResourceFilter) ([]model.Resource, error) {
	q := r.db.WithContext(ctx).Order("id ASC")
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	if filter.Difficulty != "" {
		q = q.Where("difficulty = ?", filter.Difficulty)
	}

	var resources []model.Resource
	if err := q.Find(&resources).Error; err != nil {
		return nil, fmt.Errorf("failed to list resources: %w", err)
	}
	return resources, nil
}

func (r gormResources) GetByID(ctx context.Context, id int) (*model.Resource, error) {
	var resource model.Resource
	err := r.db.WithContext(ctx).First(&resource, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query resource: %w", err)
	}
	return &resource, nil
}

// Categories 关系型存储没有单独的分类表，取资源表中出现过的分类
func (r gormResources) Categories(ctx context.Context) ([]string, error) {
	var categories []string
	if err := r.db.WithContext(ctx).Model(&model.Resource{}).Distinct().Pluck("category", &categories).Error; err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	sort.Strings(categories)
	return categories, nil
}
