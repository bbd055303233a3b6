package service

import (
	"bytes"
	"context"
	"image"
	"io"
	"os"
	"path/filepath"
	"strings"

	// Decoders for reading image dimensions at upload time. SVG has no
	// raster decoder; such uploads are stored with 0x0 dimensions.
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"

	"cookbook/internal/model"
	"cookbook/internal/repository"

	"github.com/google/uuid"
)

// MaxPictureSize is the upload ceiling in bytes (5 MiB).
const MaxPictureSize = 5 << 20

var acceptedContentTypes = []string{
	"image/png",
	"image/jpeg",
	"image/jpg",
	"image/svg",
	"image/webp",
}

var acceptedExtensions = []string{"png", "jpeg", "jpg", "svg", "webp"}

// PictureUpload carries one uploaded file into the service.
type PictureUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Alt         string
	Reader      io.Reader
}

// PictureService stores uploaded pictures and resolves picture references
// during recipe and book editing.
type PictureService interface {
	Upload(ctx context.Context, userID string, upload PictureUpload) (*model.Picture, error)
	// Find fetches a picture the user owns and marks it used. Every
	// authorized resolution flips the flag, including read-only reference
	// checks during a patch.
	Find(ctx context.Context, id, userID string) (*model.Picture, error)
}

type pictureService struct {
	repo    repository.PictureRepository
	dataDir string
}

func NewPictureService(repo repository.PictureRepository, dataDir string) PictureService {
	return &pictureService{repo: repo, dataDir: dataDir}
}

func contains(list []string, value string) bool {
	for _, entry := range list {
		if entry == value {
			return true
		}
	}
	return false
}

// Upload validates type and size, decodes the dimensions, writes the bytes
// under the data directory and persists the metadata row. The file write
// is not transactional with the insert; a crash in between leaves an
// orphaned file.
func (s *pictureService) Upload(ctx context.Context, userID string, upload PictureUpload) (*model.Picture, error) {
	if upload.Filename == "" {
		return nil, errorOf(ErrValidation, "missing filename")
	}

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(upload.Filename), "."))
	if !contains(acceptedContentTypes, upload.ContentType) && !contains(acceptedExtensions, ext) {
		return nil, errorOf(ErrValidation, "only png, jpeg, svg and webp pictures allowed")
	}

	if upload.Size > MaxPictureSize {
		return nil, errorOf(ErrTooLarge, "picture exceeds %d bytes", MaxPictureSize)
	}

	data, err := io.ReadAll(io.LimitReader(upload.Reader, MaxPictureSize+1))
	if err != nil {
		return nil, err
	}
	if len(data) > MaxPictureSize {
		return nil, errorOf(ErrTooLarge, "picture exceeds %d bytes", MaxPictureSize)
	}

	var width, height int
	if cfg, _, err := image.DecodeConfig(bytes.NewReader(data)); err == nil {
		width, height = cfg.Width, cfg.Height
	}

	id := uuid.NewString()
	dir := filepath.Join(s.dataDir, "pictures")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	path := filepath.Join(dir, id+"."+ext)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return nil, err
	}

	picture := &model.Picture{
		ID:       id,
		UserID:   userID,
		Filename: upload.Filename,
		Path:     path,
		Alt:      upload.Alt,
		Width:    width,
		Height:   height,
	}
	if err := s.repo.Create(ctx, picture); err != nil {
		return nil, err
	}

	return picture, nil
}

func (s *pictureService) Find(ctx context.Context, id, userID string) (*model.Picture, error) {
	picture, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, errorOf(ErrNotFound, "picture %s not found", id)
	}
	if picture.UserID != userID {
		return nil, errorOf(ErrForbidden, "access to picture %s not allowed", id)
	}

	if err := s.repo.MarkUsed(ctx, id); err != nil {
		return nil, err
	}
	picture.Used = true

	return picture, nil
}
