package repository

import (
	"context"
	"errors"

	"MindBalance/internal/model"
)

// ErrNotFound 查询的记录不存在
var ErrNotFound = errors.New("record not found")

// IsNotFound 判断错误是否为记录不存在
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// CheckInRepository 打卡记录仓储，列表按写入顺序返回
type CheckInRepository interface {
	Create(ctx context.Context, checkIn *model.CheckIn) error
	ListByUser(ctx context.Context, userID string) ([]model.CheckIn, error)
	ListByUsers(ctx context.Context, userIDs []string) ([]model.CheckIn, error)
	ListAll(ctx context.Context) ([]model.CheckIn, error)
}

// UserRepository 用户仓储
type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByID(ctx context.Context, id string) (*model.User, error)
	List(ctx context.Context) ([]model.User, error)
}

// ResourceFilter 资源列表过滤条件，空字段表示不过滤
type ResourceFilter struct {
	Category   string
	Difficulty string
}

// Match 判断资源是否满足过滤条件
func (f ResourceFilter) Match(r model.Resource) bool {
	if f.Category != "" && r.Category != f.Category {
		return false
	}
	if f.Difficulty != "" && r.Difficulty != f.Difficulty {
		return false
	}
	return true
}

// ResourceRepository 资源库仓储
type ResourceRepository interface {
	List(ctx context.Context, filter ResourceFilter) ([]model.Resource, error)
	GetByID(ctx context.Context, id int) (*model.Resource, error)
	Categories(ctx context.Context) ([]string, error)
}

// Store 聚合三个仓储，由 storage 层按驱动构造
type Store interface {
	CheckIns() CheckInRepository
	Users() UserRepository
	Resources() ResourceRepository
}
