package service

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/emzola/bookworm/internal/metrics"
	"github.com/emzola/bookworm/internal/validator"
	"github.com/emzola/bookworm/repository"
	"github.com/gabriel-vasile/mimetype"
)

// maxImageBytes caps the decoded size of an uploaded cover image.
const maxImageBytes = 5 << 20

// imageCleanupTimeout bounds a background image deletion.
const imageCleanupTimeout = 10 * time.Second

var permittedImageTypes = []string{"image/jpeg", "image/png", "image/webp", "image/gif"}

// decodeImage decodes a cover image sent either as a base64 data URI
// ("data:image/png;base64,....") or as bare base64, and sniffs its real
// content type. The type declared in a data URI is ignored.
func decodeImage(encoded string) ([]byte, *mimetype.MIME, error) {
	payload := strings.TrimSpace(encoded)
	if strings.HasPrefix(payload, "data:") {
		_, after, ok := strings.Cut(payload, ",")
		if !ok {
			return nil, nil, fmt.Errorf("%w: malformed data URI", ErrUnsupportedImage)
		}
		payload = after
	}
	if base64.RawStdEncoding.DecodedLen(len(payload)) > maxImageBytes+2 {
		return nil, nil, ErrImageTooLarge
	}
	buffer, err := base64.RawStdEncoding.DecodeString(strings.TrimRight(payload, "="))
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrUnsupportedImage, err)
	}
	if len(buffer) == 0 {
		return nil, nil, fmt.Errorf("%w: empty image", ErrUnsupportedImage)
	}
	if len(buffer) > maxImageBytes {
		return nil, nil, ErrImageTooLarge
	}
	mtype := mimetype.Detect(buffer)
	if !validator.PermittedValue(mtype.String(), permittedImageTypes...) {
		return nil, nil, fmt.Errorf("%w: %s", ErrUnsupportedImage, mtype.String())
	}
	return buffer, mtype, nil
}

// storeImage uploads an encoded cover image and returns its URL. Any failure is
// logged and counted, and nil is returned so the review is saved without an image.
func (s *service) storeImage(ctx context.Context, encoded string, userID int64) *string {
	buffer, mtype, err := decodeImage(encoded)
	if err != nil {
		s.logger.PrintWarn(err, map[string]string{
			"operation": "decode",
			"user_id":   fmt.Sprint(userID),
		})
		metrics.RecordImageStoreFailure("upload")
		return nil
	}
	url, err := s.images.Upload(ctx, buffer, mtype.String())
	if err != nil {
		s.logger.PrintWarn(err, map[string]string{
			"operation": "upload",
			"user_id":   fmt.Sprint(userID),
		})
		metrics.RecordImageStoreFailure("upload")
		return nil
	}
	return &url
}

// removeImage deletes a stored image in the background. Images that do not
// belong to the configured store are left alone.
func (s *service) removeImage(imageURL *string) {
	if imageURL == nil || !s.images.Owns(*imageURL) {
		return
	}
	url := *imageURL
	s.background(func() {
		ctx, cancel := context.WithTimeout(context.Background(), imageCleanupTimeout)
		defer cancel()
		if err := s.images.Delete(ctx, url); err != nil {
			s.logger.PrintWarn(err, map[string]string{
				"operation": "delete",
				"image":     url,
			})
			metrics.RecordImageStoreFailure("delete")
		}
	})
}

// background launches a background goroutine and recovers from panics inside
// the goroutine. It accepts an arbitrary function as a parameter and executes
// the function parameter inside the goroutine.
func (s *service) background(fn func()) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer func() {
			if err := recover(); err != nil {
				s.logger.PrintError(fmt.Errorf("%s", err), nil)
			}
		}()
		fn()
	}()
}

// translate maps repository sentinel errors onto their service counterparts.
func translate(err error) error {
	switch {
	case errors.Is(err, repository.ErrRecordNotFound):
		return ErrRecordNotFound
	case errors.Is(err, repository.ErrDuplicateRecord):
		return ErrDuplicateRecord
	default:
		return err
	}
}
