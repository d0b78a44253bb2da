package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"MindBalance/internal/model"
	"MindBalance/pkg/logger"
)

const (
	usersFileName     = "users.json"
	checkInsFileName  = "checkins.json"
	resourcesFileName = "resources.json"
)

// JSONStore 以数据目录下的 JSON 文件为存储，每次读写都完整加载、修改、写回。
// 同一进程内的读写由 mu 串行化；多进程同时写同一目录不受保护。
type JSONStore struct {
	dir string
	mu  sync.RWMutex
}

// NewJSONStore 打开数据目录，缺失的数据文件用内置种子数据补齐
func NewJSONStore(dir string) (*JSONStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data dir: %w", err)
	}

	s := &JSONStore{dir: dir}
	if err := s.seed(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *JSONStore) seed() error {
	if !s.exists(usersFileName) {
		users, err := SeedUsers()
		if err != nil {
			return err
		}
		if err := s.write(usersFileName, usersFile{Users: users}); err != nil {
			return err
		}
	}

	if !s.exists(resourcesFileName) {
		resources, categories, err := SeedResources()
		if err != nil {
			return err
		}
		if err := s.write(resourcesFileName, resourcesFile{Resources: resources, Categories: categories}); err != nil {
			return err
		}
	}

	if !s.exists(checkInsFileName) {
		if err := s.write(checkInsFileName, checkInsFile{CheckIns: []model.CheckIn{}}); err != nil {
			return err
		}
	}
	return nil
}

func (s *JSONStore) CheckIns() CheckInRepository   { return jsonCheckIns{s} }
func (s *JSONStore) Users() UserRepository         { return jsonUsers{s} }
func (s *JSONStore) Resources() ResourceRepository { return jsonResources{s} }

func (s *JSONStore) path(name string) string {
	return filepath.Join(s.dir, name)
}

func (s *JSONStore) exists(name string) bool {
	_, err := os.Stat(s.path(name))
	return err == nil
}

func (s *JSONStore) read(name string, v interface{}) error {
	data, err := os.ReadFile(s.path(name))
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", name, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to decode %s: %w", name, err)
	}
	return nil
}

// write 先写临时文件再 rename，避免进程中断留下半个文件
func (s *JSONStore) write(name string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", name, err)
	}

	tmp, err := os.CreateTemp(s.dir, name+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file for %s: %w", name, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close %s: %w", name, err)
	}
	if err := os.Rename(tmpName, s.path(name)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace %s: %w", name, err)
	}

	logger.Logger.Debug("JSON store file written",
		zap.String("file", name),
		zap.Int("bytes", len(data)),
	)
	return nil
}

type jsonCheckIns struct{ s *JSONStore }

func (r jsonCheckIns) Create(ctx context.Context, checkIn *model.CheckIn) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var f checkInsFile
	if err := r.s.read(checkInsFileName, &f); err != nil {
		return err
	}
	f.CheckIns = append(f.CheckIns, *checkIn)
	return r.s.write(checkInsFileName, f)
}

func (r jsonCheckIns) ListByUser(ctx context.Context, userID string) ([]model.CheckIn, error) {
	return r.ListByUsers(ctx, []string{userID})
}

func (r jsonCheckIns) ListByUsers(ctx context.Context, userIDs []string) ([]model.CheckIn, error) {
	all, err := r.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	wanted := make(map[string]struct{}, len(userIDs))
	for _, id := range userIDs {
		wanted[id] = struct{}{}
	}

	result := make([]model.CheckIn, 0)
	for _, c := range all {
		if _, ok := wanted[c.UserID]; ok {
			result = append(result, c)
		}
	}
	return result, nil
}

func (r jsonCheckIns) ListAll(ctx context.Context) ([]model.CheckIn, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var f checkInsFile
	if err := r.s.read(checkInsFileName, &f); err != nil {
		return nil, err
	}
	if f.CheckIns == nil {
		f.CheckIns = []model.CheckIn{}
	}
	return f.CheckIns, nil
}

type jsonUsers struct{ s *JSONStore }

func (r jsonUsers) load() ([]model.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var f usersFile
	if err := r.s.read(usersFileName, &f); err != nil {
		return nil, err
	}
	return f.Users, nil
}

func (r jsonUsers) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.find(func(u model.User) bool { return u.Email == email })
}

func (r jsonUsers) GetByID(ctx context.Context, id string) (*model.User, error) {
	return r.find(func(u model.User) bool { return u.ID == id })
}

func (r jsonUsers) find(pred func(model.User) bool) (*model.User, error) {
	users, err := r.load()
	if err != nil {
		return nil, err
	}
	for i := range users {
		if pred(users[i]) {
			return &users[i], nil
		}
	}
	return nil, ErrNotFound
}

func (r jsonUsers) List(ctx context.Context) ([]model.User, error) {
	return r.load()
}

type jsonResources struct{ s *JSONStore }

func (r jsonResources) load() (resourcesFile, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var f resourcesFile
	err := r.s.read(resourcesFileName, &f)
	return f, err
}

func (r jsonResources) List(ctx context.Context, filter ResourceFilter) ([]model.Resource, error) {
	f, err := r.load()
	if err != nil {
		return nil, err
	}

	result := make([]model.Resource, 0, len(f.Resources))
	for _, res := range f.Resources {
		if filter.Match(res) {
			result = append(result, res)
		}
	}
	return result, nil
}

func (r jsonResources) GetByID(ctx context.Context, id int) (*model.Resource, error) {
	f, err := r.load()
	if err != nil {
		return nil, err
	}
	for i := range f.Resources {
		if f.Resources[i].ID == id {
			return &f.Resources[i], nil
		}
	}
	return nil, ErrNotFound
}

func (r jsonResources) Categories(ctx context.Context) ([]string, error) {
	f, err := r.load()
	if err != nil {
		return nil, err
	}
	if f.Categories == nil {
		return []string{}, nil
	}
	return f.Categories, nil
}
