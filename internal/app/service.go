// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/okian/warung/internal/adapters/repository"
	"github.com/okian/warung/internal/adapters/upload"
	"github.com/okian/warung/internal/domain/model"
	"github.com/okian/warung/internal/domain/request"
	"github.com/okian/warung/pkg/logger"
	"github.com/okian/warung/pkg/metrics"
)

// Client-facing messages.
const (
	MsgNotFound         = "Menu tidak ditemukan"
	MsgForbiddenUpdate  = "Anda tidak memiliki izin untuk mengubah menu ini"
	MsgForbiddenDelete  = "Anda tidak memiliki izin untuk menghapus menu ini"
	MsgImageRequired    = "File gambar wajib diunggah"
	MsgImageType        = "Format file tidak didukung. Gunakan JPG, PNG, GIF, atau WEBP"
	MsgImageTooLarge    = "Ukuran file terlalu besar"
	MsgImageUnavailable = "Penyimpanan gambar tidak tersedia"
	MsgInternal         = "Terjadi kesalahan pada server"

	uploadRoute = "/uploads/"
)

// Service implements the API dependencies for the menu system.
type Service struct {
	store  repository.Store
	sink   upload.Sink
	logger logger.Logger

	defaultImageID string
	publicBaseURL  string
	startedAt      time.Time
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithStore sets the menu store.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithSink sets the upload sink used by UploadImage.
func WithSink(sink upload.Sink) Option {
	return func(s *Service) {
		if sink != nil {
			s.sink = sink
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithDefaultImageID sets the image stored on items created without one.
func WithDefaultImageID(id string) Option {
	return func(s *Service) {
		if strings.TrimSpace(id) != "" {
			s.defaultImageID = id
		}
	}
}

// WithPublicBaseURL fixes the prefix of returned image URLs.
func WithPublicBaseURL(base string) Option {
	return func(s *Service) {
		s.publicBaseURL = strings.TrimRight(strings.TrimSpace(base), "/")
	}
}

// New constructs a Service. Without WithStore it owns an empty in-memory store.
func New(opts ...Option) *Service {
	s := &Service{
		defaultImageID: model.DefaultImageID,
		startedAt:      time.Now(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.store == nil {
		s.store = repository.NewMemStore(context.Background())
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}
	return s
}

// List returns every menu item.
func (s *Service) List(ctx context.Context) []model.MenuItem {
	return s.store.List(ctx)
}

// Get returns one menu item.
func (s *Service) Get(ctx context.Context, id string) (model.MenuItem, error) {
	const op = "service.get"
	item, err := s.store.Get(ctx, id)
	if err != nil {
		return model.MenuItem{}, s.storeError(op, err)
	}
	return item, nil
}

// Create validates body and stores a new item under a fresh id.
func (s *Service) Create(ctx context.Context, body request.MenuBody) (item model.MenuItem, err error) {
	defer func() { metrics.RecordMenuMutation("create", result(err)) }()

	in, err := body.Validate()
	if err != nil {
		return model.MenuItem{}, err
	}
	imageID := in.ImageID
	if imageID == "" {
		imageID = s.defaultImageID
	}
	item = s.store.Insert(ctx, model.MenuItem{
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		ImageID:     imageID,
		UserID:      in.UserID,
	})
	s.logger.Info(ctx, "menu item created", logger.String("id", item.ID))
	return item, nil
}

// Update replaces the fields of an existing item. The checks run in order:
// unknown id, then ownership, then field validation.
func (s *Service) Update(ctx context.Context, id string, body request.MenuBody) (item model.MenuItem, err error) {
	const op = "service.update"
	defer func() { metrics.RecordMenuMutation("update", result(err)) }()

	in, verr := body.Validate()
	caller := body.UserID()
	guard := func(current model.MenuItem) error {
		if !current.ModifiableBy(caller) {
			return model.NewKind(op, model.ErrForbidden, MsgForbiddenUpdate)
		}
		return verr
	}

	item, err = s.store.Replace(ctx, id, in.Patch(), guard)
	if err != nil {
		return model.MenuItem{}, s.storeError(op, err)
	}
	s.logger.Info(ctx, "menu item updated", logger.String("id", item.ID))
	return item, nil
}

// Delete removes an item when caller may modify it.
func (s *Service) Delete(ctx context.Context, id string, caller *string) (item model.MenuItem, err error) {
	const op = "service.delete"
	defer func() { metrics.RecordMenuMutation("delete", result(err)) }()

	guard := func(current model.MenuItem) error {
		if !current.ModifiableBy(caller) {
			return model.NewKind(op, model.ErrForbidden, MsgForbiddenDelete)
		}
		return nil
	}

	item, err = s.store.Remove(ctx, id, guard)
	if err != nil {
		return model.MenuItem{}, s.storeError(op, err)
	}
	s.logger.Info(ctx, "menu item deleted", logger.String("id", item.ID))
	return item, nil
}

// UploadImage stores an image and returns its public URL. requestBase is used
// when no public base URL is configured.
func (s *Service) UploadImage(ctx context.Context, filename string, r io.Reader, requestBase string) (imageURL string, err error) {
	const op = "service.upload_image"
	if s.sink == nil {
		metrics.RecordUpload("error")
		return "", model.NewKind(op, model.ErrInternal, MsgImageUnavailable)
	}
	if r == nil {
		metrics.RecordUpload("rejected")
		return "", model.NewKind(op, model.ErrValidation, MsgImageRequired)
	}

	stored, err := s.sink.Save(ctx, filename, r)
	if err != nil {
		if upload.IsRejected(err) {
			metrics.RecordUpload("rejected")
			return "", model.WrapKind(op, model.ErrValidation, uploadMessage(err), err)
		}
		metrics.RecordUpload("error")
		s.logger.Error(ctx, "storing upload failed", logger.Error(err))
		return "", model.WrapKind(op, model.ErrInternal, MsgInternal, err)
	}
	metrics.RecordUpload("ok")
	metrics.RecordUploadSize(stored.Size)
	s.logger.Info(ctx, "image uploaded",
		logger.String("name", stored.Name),
		logger.String("content_type", stored.ContentType),
		logger.Int64("size", stored.Size),
	)

	base := s.publicBaseURL
	if base == "" {
		base = strings.TrimRight(requestBase, "/")
	}
	return base + uploadRoute + url.PathEscape(stored.Name), nil
}

// ImagePath resolves a stored image name to a file on disk.
func (s *Service) ImagePath(name string) (string, error) {
	const op = "service.image_path"
	if s.sink == nil {
		return "", model.NewKind(op, model.ErrNotFound, "File tidak ditemukan")
	}
	p, err := s.sink.Path(name)
	if err != nil {
		return "", model.WrapKind(op, model.ErrNotFound, "File tidak ditemukan", err)
	}
	return p, nil
}

// GetStats returns service statistics.
func (s *Service) GetStats() map[string]interface{} {
	ctx := context.Background()
	return map[string]interface{}{
		"menuItems":     s.store.Count(ctx),
		"nextId":        s.store.NextID(ctx),
		"uploads":       s.sink != nil,
		"uptimeSeconds": int64(time.Since(s.startedAt).Seconds()),
	}
}

func (s *Service) storeError(op string, err error) error {
	var known *model.Error
	switch {
	case errors.As(err, &known):
		return err
	case errors.Is(err, repository.ErrNotFound):
		return model.WrapKind(op, model.ErrNotFound, MsgNotFound, err)
	default:
		return model.WrapKind(op, model.ErrInternal, MsgInternal, err)
	}
}

func uploadMessage(err error) string {
	switch {
	case errors.Is(err, upload.ErrTooLarge):
		return MsgImageTooLarge
	case errors.Is(err, upload.ErrEmpty):
		return MsgImageRequired
	default:
		return MsgImageType
	}
}

// result labels a mutation outcome for metrics.
func result(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, model.ErrValidation):
		return "invalid"
	case errors.Is(err, model.ErrForbidden):
		return "forbidden"
	case errors.Is(err, model.ErrNotFound):
		return "not_found"
	default:
		return "error"
	}
}
