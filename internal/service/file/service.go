package file

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg" // Import for JPEG decoding support
	"image/png"
	"io"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/storage"
	"github.com/google/uuid"
	"golang.org/x/image/draw"
)

const (
	// MaxLogoBytes caps the accepted upload before decoding.
	MaxLogoBytes = 2 << 20
	// maxLogoEdge is the longest side, in pixels, of a stored logo.
	maxLogoEdge = 240
	logoPrefix  = "logos"
)

var (
	ErrUnsupportedImage = errors.New("unsupported image type: only jpg, jpeg, png allowed")
	ErrImageTooLarge    = errors.New("image exceeds the upload limit")
)

type FileService interface {
	// UploadCompanyLogo normalises a logo to a PNG no larger than 240px on its
	// longest side and stores it under logos/.
	UploadCompanyLogo(ctx context.Context, file io.Reader, filename string) (string, error)

	// Generic operations
	ReadFile(ctx context.Context, path string) ([]byte, error)
	DeleteFile(ctx context.Context, path string) error
	GetFileURL(ctx context.Context, path string, expiry time.Duration) (string, error)
}

type fileServiceImpl struct {
	storage storage.FileStorage
}

func NewFileService(storage storage.FileStorage) FileService {
	return &fileServiceImpl{
		storage: storage,
	}
}

// UploadCompanyLogo uploads a company logo
func (s *fileServiceImpl) UploadCompanyLogo(ctx context.Context, file io.Reader, filename string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext != ".jpg" && ext != ".jpeg" && ext != ".png" {
		return "", ErrUnsupportedImage
	}

	buffer, err := io.ReadAll(io.LimitReader(file, MaxLogoBytes+1))
	if err != nil {
		return "", fmt.Errorf("failed to read image: %w", err)
	}
	if len(buffer) > MaxLogoBytes {
		return "", ErrImageTooLarge
	}

	normalized, err := normalizeLogo(buffer)
	if err != nil {
		return "", err
	}

	// Generate path: logos/{uuid}.png
	p := path.Join(logoPrefix, uuid.NewString()+".png")
	uploadedPath, err := s.storage.Upload(ctx, bytes.NewReader(normalized), p, "image/png")
	if err != nil {
		return "", fmt.Errorf("failed to upload company logo: %w", err)
	}

	return uploadedPath, nil
}

// ReadFile loads a whole stored file into memory.
func (s *fileServiceImpl) ReadFile(ctx context.Context, path string) ([]byte, error) {
	rc, err := s.storage.Download(ctx, path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// DeleteFile deletes a file
func (s *fileServiceImpl) DeleteFile(ctx context.Context, path string) error {
	return s.storage.Delete(ctx, path)
}

// GetFileURL generates URL to access file
func (s *fileServiceImpl) GetFileURL(ctx context.Context, path string, expiry time.Duration) (string, error) {
	return s.storage.GetURL(ctx, path, expiry)
}

// ==================== HELPER FUNCTIONS ====================

// normalizeLogo decodes a png or jpeg and re-encodes it as PNG, scaling it
// down so neither side exceeds maxLogoEdge. Smaller images keep their size.
func normalizeLogo(buffer []byte) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(buffer))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedImage, err)
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width > maxLogoEdge || height > maxLogoEdge {
		if width >= height {
			height = max(1, height*maxLogoEdge/width)
			width = maxLogoEdge
		} else {
			width = max(1, width*maxLogoEdge/height)
			height = maxLogoEdge
		}
		img = resizeImage(img, width, height)
	}

	buf := new(bytes.Buffer)
	if err := png.Encode(buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode logo: %w", err)
	}
	return buf.Bytes(), nil
}

// resizeImage resizes an image to the specified dimensions using high-quality interpolation
func resizeImage(src image.Image, width, height int) image.Image {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	// Use CatmullRom for high-quality downscaling
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)
	return dst
}
