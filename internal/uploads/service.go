package uploads

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/thiwankabandara/giftonline-backend/pkg/config"
	pkgerrors "github.com/thiwankabandara/giftonline-backend/pkg/errors"
)

// productsSubdir keeps product images under one namespace so the static file
// server can mount the uploads dir wholesale.
const productsSubdir = "products"

// publicPrefix is the URL path the router serves stored files under.
const publicPrefix = "/uploads"

var allowedExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".gif":  {},
	".webp": {},
}

// Upload is one incoming file, decoupled from multipart plumbing so the
// service stays testable.
type Upload struct {
	Filename string
	Size     int64
	Reader   io.Reader
}

// StoredImage describes a persisted upload.
type StoredImage struct {
	Filename string `json:"filename"`
	URL      string `json:"imageUrl"`
	Size     int64  `json:"size"`
}

// Service stores product images on local disk.
type Service interface {
	SaveImage(ctx context.Context, upload Upload) (*StoredImage, error)
	SaveImages(ctx context.Context, uploads []Upload) ([]StoredImage, error)
}

type service struct {
	cfg config.UploadsConfig
}

// NewService ensures the target directory exists and returns the service.
func NewService(cfg config.UploadsConfig) (Service, error) {
	dir := filepath.Join(cfg.Dir, productsSubdir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating uploads directory")
	}
	return &service{cfg: cfg}, nil
}

func (s *service) SaveImage(ctx context.Context, upload Upload) (*StoredImage, error) {
	if err := ctx.Err(); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "save image")
	}

	ext := strings.ToLower(filepath.Ext(upload.Filename))
	if _, ok := allowedExtensions[ext]; !ok {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "only image files are allowed")
	}
	if upload.Size > s.cfg.MaxUploadBytes() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("file exceeds the %dMB limit", s.cfg.MaxUploadMB))
	}

	// Timestamp plus uuid keeps names unique without coordinating state.
	name := fmt.Sprintf("%d-%s%s", time.Now().UnixNano(), uuid.NewString(), ext)
	target := filepath.Join(s.cfg.Dir, productsSubdir, name)

	out, err := os.Create(target)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating image file")
	}
	defer out.Close()

	written, err := io.Copy(out, io.LimitReader(upload.Reader, s.cfg.MaxUploadBytes()+1))
	if err != nil {
		os.Remove(target)
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "writing image file")
	}
	if written > s.cfg.MaxUploadBytes() {
		os.Remove(target)
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("file exceeds the %dMB limit", s.cfg.MaxUploadMB))
	}

	return &StoredImage{
		Filename: name,
		URL:      path.Join(publicPrefix, productsSubdir, name),
		Size:     written,
	}, nil
}

func (s *service) SaveImages(ctx context.Context, uploads []Upload) ([]StoredImage, error) {
	if len(uploads) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no files uploaded")
	}
	if len(uploads) > s.cfg.MaxBatchSize {
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("at most %d files per upload", s.cfg.MaxBatchSize))
	}

	stored := make([]StoredImage, 0, len(uploads))
	for _, upload := range uploads {
		image, err := s.SaveImage(ctx, upload)
		if err != nil {
			return nil, err
		}
		stored = append(stored, *image)
	}
	return stored, nil
}
