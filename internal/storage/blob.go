package storage

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/gabriel-vasile/mimetype"
)

// BlobStore persists document payloads outside the relational store.
type BlobStore interface {
	// Save stores data for ownerID and returns the storage path.
	Save(ctx context.Context, fileName, ownerID string, data []byte) (string, error)
	// Delete removes the object at path.
	Delete(ctx context.Context, path string) error
	// PublicURL returns a short-lived URL for downloading the object at path.
	PublicURL(ctx context.Context, path string) (string, error)
}

// Upload constraints
const (
	PDFMimeType = "application/pdf"
	MaxFileSize = 50 * 1024 * 1024 // 50 MB
)

var (
	ErrNotPDF       = errors.New("Only PDF files are allowed")
	ErrFileTooLarge = fmt.Errorf("File size exceeds maximum of %dMB", MaxFileSize/1024/1024)
	ErrEmptyFile    = errors.New("File is empty")
)

var unsafeFileChars = regexp.MustCompile(`[^a-zA-Z0-9.-]`)

// SanitizeFileName replaces every character outside [a-zA-Z0-9.-] with an underscore.
func SanitizeFileName(name string) string {
	return unsafeFileChars.ReplaceAllString(name, "_")
}

// ObjectPath builds the storage path documents/<ownerID>/<unix-ms>-<sanitized name>.
func ObjectPath(fileName, ownerID string, now time.Time) string {
	return fmt.Sprintf("documents/%s/%d-%s", SanitizeFileName(ownerID), now.UnixMilli(), SanitizeFileName(fileName))
}

// ValidatePDF checks the size ceiling, the declared content type and the sniffed
// content of an upload. An empty declared type is treated as PDF.
func ValidatePDF(declaredType string, data []byte) error {
	if int64(len(data)) > MaxFileSize {
		return ErrFileTooLarge
	}
	if len(data) == 0 {
		return ErrEmptyFile
	}
	if declaredType != "" && !mimetype.Lookup(PDFMimeType).Is(declaredType) {
		return ErrNotPDF
	}
	if !mimetype.Detect(data).Is(PDFMimeType) {
		return ErrNotPDF
	}
	return nil
}
