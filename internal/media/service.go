package media

import (
	"context"
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/ardiansetya/kasirpoint-backend/pkg/config"
	pkgerrors "github.com/ardiansetya/kasirpoint-backend/pkg/errors"
	"github.com/google/uuid"
)

// Kind scopes an upload to the entity it illustrates; it decides the object
// key prefix.
type Kind string

const (
	KindProduct Kind = "product"
	KindUser    Kind = "user"
)

var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

var keyPrefixByKind = map[Kind]string{
	KindProduct: "products",
	KindUser:    "users",
}

// Uploader is the storage surface the service writes through.
type Uploader interface {
	Upload(ctx context.Context, objectPath string, data []byte, contentType string) (string, error)
}

// UploadInput carries one image upload.
type UploadInput struct {
	Kind        Kind
	ContentType string
	Data        []byte
}

// Service validates and stores catalog and avatar images.
type Service interface {
	UploadImage(ctx context.Context, input UploadInput) (string, error)
}

type service struct {
	uploader Uploader
	maxBytes int64
}

// NewService builds the media service.
func NewService(uploader Uploader, cfg config.MediaConfig) (Service, error) {
	if uploader == nil {
		return nil, fmt.Errorf("uploader is required")
	}
	maxMB := cfg.MaxUploadMB
	if maxMB <= 0 {
		maxMB = 10
	}
	return &service{
		uploader: uploader,
		maxBytes: int64(maxMB) << 20,
	}, nil
}

// UploadImage validates type and size, then writes the object under a
// kind-scoped key and returns its public URL.
func (s *service) UploadImage(ctx context.Context, input UploadInput) (string, error) {
	prefix, ok := keyPrefixByKind[input.Kind]
	if !ok {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "unknown upload kind")
	}
	if len(input.Data) == 0 {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "empty upload")
	}
	if int64(len(input.Data)) > s.maxBytes {
		return "", pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("upload exceeds %d MB", s.maxBytes>>20))
	}

	contentType := normalizeContentType(input.ContentType)
	ext, ok := allowedImageTypes[contentType]
	if !ok {
		return "", pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("content type must be one of %s", strings.Join(allowedTypeList(), ", ")))
	}

	objectPath := path.Join(prefix, uuid.NewString()+ext)
	url, err := s.uploader.Upload(ctx, objectPath, input.Data, contentType)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "upload object")
	}
	return url, nil
}

func normalizeContentType(value string) string {
	value = strings.ToLower(strings.TrimSpace(value))
	if idx := strings.IndexByte(value, ';'); idx >= 0 {
		value = strings.TrimSpace(value[:idx])
	}
	return value
}

func allowedTypeList() []string {
	out := make([]string, 0, len(allowedImageTypes))
	for t := range allowedImageTypes {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}
