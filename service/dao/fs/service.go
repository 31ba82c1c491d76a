package fs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path"
	"strings"
	"sync"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/option"
	"github.com/viant/afs/url"
	"github.com/viant/tasksched/service/dao"
)

const extension = ".json"

// Service implements a filesystem-based entity storage, one JSON document per entity.
type Service[T any] struct {
	baseURL     string
	fs          afs.Service
	keySelector func(*T) string
	options     *dao.Options[T]
	mu          sync.RWMutex
}

var _ dao.Service[string, struct{}] = (*Service[struct{}])(nil)

// Save persists an entity
func (s *Service[T]) Save(ctx context.Context, v *T) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(ctx, v)
}

// SaveAll persists entities
func (s *Service[T]) SaveAll(ctx context.Context, items []*T) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, v := range items {
		if err := s.save(ctx, v); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service[T]) save(ctx context.Context, v *T) error {
	if v == nil {
		return dao.ErrNilEntity
	}
	id := s.keySelector(v)
	if err := checkID(id); err != nil {
		return err
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal %v: %w", id, err)
	}
	URL := s.entityURL(id)
	if err = s.fs.Upload(ctx, URL, file.DefaultFileOsMode, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to save %v to %s: %w", id, URL, err)
	}
	return nil
}

// Load retrieves an entity or dao.ErrNotFound
func (s *Service[T]) Load(ctx context.Context, id string) (*T, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.load(ctx, id)
}

func (s *Service[T]) load(ctx context.Context, id string) (*T, error) {
	URL := s.entityURL(id)
	exists, err := s.fs.Exists(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to check if %v exists: %w", id, err)
	}
	if !exists {
		return nil, dao.ErrNotFound
	}
	data, err := s.fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", URL, err)
	}
	ret := new(T)
	if err := json.Unmarshal(data, ret); err != nil {
		return nil, fmt.Errorf("failed to unmarshal %s: %w", URL, err)
	}
	return ret, nil
}

// Update overwrites an existing entity
func (s *Service[T]) Update(ctx context.Context, v *T) error {
	if v == nil {
		return dao.ErrNilEntity
	}
	id := s.keySelector(v)
	if err := checkID(id); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	exists, err := s.fs.Exists(ctx, s.entityURL(id))
	if err != nil {
		return err
	}
	if !exists {
		return dao.ErrNotFound
	}
	return s.save(ctx, v)
}

// Delete removes an entity
func (s *Service[T]) Delete(ctx context.Context, id string) error {
	if err := checkID(id); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	URL := s.entityURL(id)
	exists, err := s.fs.Exists(ctx, URL)
	if err != nil {
		return fmt.Errorf("failed to check if %v exists: %w", id, err)
	}
	if !exists {
		return dao.ErrNotFound
	}
	if err := s.fs.Delete(ctx, URL); err != nil {
		return fmt.Errorf("failed to delete %s: %w", URL, err)
	}
	return nil
}

// DeleteAll removes every entity
func (s *Service[T]) DeleteAll(ctx context.Context) error {
	_, err := s.DeleteIf(ctx, func(*T) bool { return true })
	return err
}

// DeleteIf removes entities matching predicate
func (s *Service[T]) DeleteIf(ctx context.Context, predicate func(*T) bool) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	items, err := s.list(ctx)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, item := range items {
		if !predicate(item) {
			continue
		}
		if err := s.fs.Delete(ctx, s.entityURL(s.keySelector(item))); err != nil {
			return count, fmt.Errorf("failed to delete %v: %w", s.keySelector(item), err)
		}
		count++
	}
	return count, nil
}

// List returns entities matching parameters
func (s *Service[T]) List(ctx context.Context, parameters ...*dao.Parameter) ([]*T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items, err := s.list(ctx)
	if err != nil {
		return nil, err
	}
	var ret = make([]*T, 0, len(items))
	for _, item := range items {
		if s.options.Match(item, parameters) {
			ret = append(ret, item)
		}
	}
	return ret, nil
}

func (s *Service[T]) list(ctx context.Context) ([]*T, error) {
	objects, err := s.fs.List(ctx, s.baseURL, option.NewRecursive(false))
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", s.baseURL, err)
	}
	var ret []*T
	for _, object := range objects {
		if object.IsDir() || !strings.HasSuffix(object.Name(), extension) {
			continue
		}
		data, err := s.fs.Download(ctx, object)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", object.URL(), err)
		}
		item := new(T)
		if err := json.Unmarshal(data, item); err != nil {
			return nil, fmt.Errorf("failed to unmarshal %s: %w", object.URL(), err)
		}
		ret = append(ret, item)
	}
	return ret, nil
}

// checkID rejects keys that are blank or would resolve outside the base location
func checkID(id string) error {
	if id == "" || strings.ContainsAny(id, `/\`) || strings.Contains(id, "..") {
		return dao.ErrInvalidID
	}
	return nil
}

func (s *Service[T]) entityURL(id string) string {
	return url.Join(s.baseURL, id+extension)
}

// BaseURL returns storage location
func (s *Service[T]) BaseURL() string {
	return s.baseURL
}

// New creates a filesystem storage rooted at baseURL
func New[T any](baseURL string, keySelector func(*T) string, opts ...dao.Option[T]) (*Service[T], error) {
	if baseURL == "" {
		return nil, fmt.Errorf("base URL cannot be empty")
	}
	fs := afs.New()
	ctx := context.Background()
	baseURL = url.Normalize(baseURL, file.Scheme)
	exists, _ := fs.Exists(ctx, baseURL)
	if !exists {
		if err := fs.Create(ctx, baseURL, file.DefaultDirOsMode, true); err != nil {
			return nil, fmt.Errorf("failed to create base directory: %w", err)
		}
	}
	return &Service[T]{
		baseURL:     baseURL,
		fs:          fs,
		keySelector: keySelector,
		options:     dao.NewOptions(opts...),
	}, nil
}

// Sub returns a child location of baseURL, used to keep entity kinds apart
func Sub(baseURL string, kind string) string {
	return path.Join(baseURL, kind)
}
