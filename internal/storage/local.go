package storage

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidDownloadToken is returned for a malformed, tampered or expired download token.
var ErrInvalidDownloadToken = errors.New("invalid or expired download link")

// LocalStorage handles file storage on the local filesystem. Downloads go
// through signed, short-lived links served by the files endpoint.
type LocalStorage struct {
	basePath    string
	downloadURL string
	secret      []byte
	ttl         time.Duration
	now         func() time.Time
}

type downloadClaims struct {
	Path string `json:"path"`
	jwt.RegisteredClaims
}

// NewLocalStorage creates a new local storage instance. downloadURL is the
// absolute or root-relative URL of the files endpoint.
func NewLocalStorage(basePath, downloadURL, secret string, ttl time.Duration) (*LocalStorage, error) {
	// Ensure the base directory exists
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &LocalStorage{
		basePath:    basePath,
		downloadURL: downloadURL,
		secret:      []byte(secret),
		ttl:         ttl,
		now:         time.Now,
	}, nil
}

// Save writes data under documents/<ownerID>/ and returns its relative path
func (s *LocalStorage) Save(ctx context.Context, fileName, ownerID string, data []byte) (string, error) {
	relPath := ObjectPath(fileName, ownerID, s.now())
	filePath, err := s.resolve(relPath)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	if err := os.WriteFile(filePath, data, 0644); err != nil {
		// Clean up on failure
		os.Remove(filePath)
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	return relPath, nil
}

// Delete removes a file. A missing file is not an error.
func (s *LocalStorage) Delete(ctx context.Context, relPath string) error {
	filePath, err := s.resolve(relPath)
	if err != nil {
		return err
	}
	if err := os.Remove(filePath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// PublicURL returns a signed download link valid for the configured TTL.
func (s *LocalStorage) PublicURL(ctx context.Context, relPath string) (string, error) {
	if _, err := s.resolve(relPath); err != nil {
		return "", err
	}

	now := s.now()
	claims := downloadClaims{
		Path: relPath,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign download link: %w", err)
	}

	return s.downloadURL + "?token=" + url.QueryEscape(token), nil
}

// Open verifies a download token and opens the file it names.
func (s *LocalStorage) Open(token string) (*os.File, string, error) {
	claims := &downloadClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil || !parsed.Valid || claims.Path == "" {
		return nil, "", ErrInvalidDownloadToken
	}

	filePath, err := s.resolve(claims.Path)
	if err != nil {
		return nil, "", ErrInvalidDownloadToken
	}

	f, err := os.Open(filePath)
	if err != nil {
		return nil, "", err
	}
	return f, filepath.Base(filePath), nil
}

// resolve maps a relative storage path to a file path inside basePath.
func (s *LocalStorage) resolve(relPath string) (string, error) {
	if relPath == "" || filepath.IsAbs(relPath) {
		return "", fmt.Errorf("invalid storage path %q", relPath)
	}
	base := filepath.Clean(s.basePath)
	full := filepath.Join(base, filepath.FromSlash(relPath))
	if full != base && !strings.HasPrefix(full, base+string(filepath.Separator)) {
		return "", fmt.Errorf("invalid storage path %q", relPath)
	}
	return full, nil
}
