package service

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"os"
	"strings"
	"testing"

	"cookbook/internal/model"
)

func pngBytes(t *testing.T, width, height int) []byte {
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, width, height))); err != nil {
		t.Fatal("Failed to encode png:", err)
	}
	return buf.Bytes()
}

func TestUploadPicture(t *testing.T) {
	env := setupEnv(t)
	owner := createTestUser(t, env.db, "alice")

	data := pngBytes(t, 100, 80)
	picture, err := env.pictures.Upload(context.Background(), owner.ID, PictureUpload{
		Filename:    "pie.png",
		ContentType: "image/png",
		Size:        int64(len(data)),
		Alt:         "finished pie",
		Reader:      bytes.NewReader(data),
	})
	if err != nil {
		t.Fatal("Failed to upload picture:", err)
	}

	if picture.Width != 100 || picture.Height != 80 {
		t.Errorf("Expected decoded dimensions 100x80, got %dx%d", picture.Width, picture.Height)
	}
	if picture.Alt != "finished pie" {
		t.Errorf("Expected alt text to be stored, got %s", picture.Alt)
	}
	if picture.Used {
		t.Error("Expected a fresh upload to be unused")
	}

	if _, err := os.Stat(picture.Path); err != nil {
		t.Errorf("Expected stored file at %s, got %v", picture.Path, err)
	}

	var stored model.Picture
	if err := env.db.First(&stored, "id = ?", picture.ID).Error; err != nil {
		t.Fatal("Failed to load picture row:", err)
	}
	if stored.Filename != "pie.png" {
		t.Errorf("Expected original filename, got %s", stored.Filename)
	}
}

func TestUploadRejectsBadType(t *testing.T) {
	env := setupEnv(t)
	owner := createTestUser(t, env.db, "alice")

	_, err := env.pictures.Upload(context.Background(), owner.ID, PictureUpload{
		Filename:    "notes.txt",
		ContentType: "text/plain",
		Size:        4,
		Reader:      strings.NewReader("text"),
	})
	if !errors.Is(err, ErrValidation) {
		t.Errorf("Expected ErrValidation for text upload, got %v", err)
	}

	_, err = env.pictures.Upload(context.Background(), owner.ID, PictureUpload{
		ContentType: "image/png",
		Size:        4,
		Reader:      strings.NewReader("data"),
	})
	if !errors.Is(err, ErrValidation) {
		t.Errorf("Expected ErrValidation for missing filename, got %v", err)
	}
}

func TestUploadRejectsOversize(t *testing.T) {
	env := setupEnv(t)
	owner := createTestUser(t, env.db, "alice")

	// Declared size over the ceiling is rejected before reading.
	_, err := env.pictures.Upload(context.Background(), owner.ID, PictureUpload{
		Filename:    "huge.png",
		ContentType: "image/png",
		Size:        MaxPictureSize + 1,
		Reader:      strings.NewReader(""),
	})
	if !errors.Is(err, ErrTooLarge) {
		t.Errorf("Expected ErrTooLarge for declared oversize, got %v", err)
	}

	// An understated declared size is caught while reading.
	_, err = env.pictures.Upload(context.Background(), owner.ID, PictureUpload{
		Filename:    "sneaky.png",
		ContentType: "image/png",
		Size:        10,
		Reader:      bytes.NewReader(make([]byte, MaxPictureSize+1)),
	})
	if !errors.Is(err, ErrTooLarge) {
		t.Errorf("Expected ErrTooLarge for understated size, got %v", err)
	}
}

func TestFindPictureMarksUsed(t *testing.T) {
	env := setupEnv(t)
	owner := createTestUser(t, env.db, "alice")
	stranger := createTestUser(t, env.db, "bob")

	picture := createTestPicture(t, env.db, owner.ID)

	if _, err := env.pictures.Find(context.Background(), picture.ID, stranger.ID); !errors.Is(err, ErrForbidden) {
		t.Errorf("Expected ErrForbidden for foreign picture, got %v", err)
	}
	if _, err := env.pictures.Find(context.Background(), "missing-id", owner.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound for unknown picture, got %v", err)
	}

	found, err := env.pictures.Find(context.Background(), picture.ID, owner.ID)
	if err != nil {
		t.Fatal("Failed to find picture:", err)
	}
	if !found.Used {
		t.Error("Expected resolved picture to be marked used")
	}

	var stored model.Picture
	if err := env.db.First(&stored, "id = ?", picture.ID).Error; err != nil {
		t.Fatal("Failed to load picture row:", err)
	}
	if !stored.Used {
		t.Error("Expected the used flag to be persisted")
	}
}
