package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// FileStorage abstracts the attachment store. Failures are indistinguishable
// transient-or-permanent and always surface as a storage failure.
type FileStorage interface {
	Upload(ctx context.Context, name string, reader io.Reader) (string, error)
	Delete(ctx context.Context, url string) error
}

// ErrStorageFailure indicates a ledger or blob-store call failed or timed out.
var ErrStorageFailure = errors.New("storage operation failed")

var (
	// ErrAttachmentTooLarge indicates a file exceeded the per-file size limit.
	ErrAttachmentTooLarge = errors.New("attachment exceeds maximum allowed size")
	// ErrAttachmentTypeNotAllowed indicates the detected MIME type is not permitted.
	ErrAttachmentTypeNotAllowed = errors.New("attachment type not allowed")
)

var allowedAttachmentTypes = []string{"image/jpeg", "image/png", "application/pdf"}

// attachmentPayload is a fully validated, buffered file ready for upload.
type attachmentPayload struct {
	Key  string
	Data []byte
	Mime string
}

// readAttachment buffers and validates one uploaded file. It must reject
// before any network call: size first, then sniffed MIME type. The storage
// key is a fresh random identifier carrying the original extension.
func readAttachment(file *multipart.FileHeader, maxSize int64) (attachmentPayload, error) {
	if file.Size > maxSize {
		return attachmentPayload{}, ErrAttachmentTooLarge
	}

	handle, err := file.Open()
	if err != nil {
		return attachmentPayload{}, fmt.Errorf("failed to open file: %w", err)
	}
	defer handle.Close()

	buf := bytes.NewBuffer(nil)
	if _, err := io.Copy(buf, io.LimitReader(handle, maxSize+1)); err != nil {
		return attachmentPayload{}, fmt.Errorf("failed to read file: %w", err)
	}
	if int64(buf.Len()) > maxSize {
		return attachmentPayload{}, ErrAttachmentTooLarge
	}

	mime := mimetype.Detect(buf.Bytes())
	allowed := false
	for _, candidate := range allowedAttachmentTypes {
		if mime.Is(candidate) {
			allowed = true
			break
		}
	}
	if !allowed {
		return attachmentPayload{}, fmt.Errorf("%w: %s", ErrAttachmentTypeNotAllowed, mime.String())
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if ext == "" {
		ext = mime.Extension()
	}

	return attachmentPayload{
		Key:  uuid.NewString() + ext,
		Data: buf.Bytes(),
		Mime: mime.String(),
	}, nil
}
