// Package storage keeps attachment bytes on the local filesystem, addressed
// by their BLAKE3 digest so identical uploads share one blob.
package storage

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/zeebo/blake3"

	"github.com/campusdesk/campusdesk/internal/domain/ticket"
	"github.com/campusdesk/campusdesk/internal/shared/logger"
)

const octetStream = "application/octet-stream"

// ErrBlobNotFound is returned by Open for keys with no stored bytes.
var ErrBlobNotFound = errors.New("attachment blob not found")

// keyPattern is a hex digest with an optional extension; anything else
// could escape the root.
var keyPattern = regexp.MustCompile(`^[0-9a-f]{64}(\.[0-9a-z]{1,10})?$`)

type LocalStore struct {
	root          string
	publicBaseURL string
	logger        logger.Interface
}

func NewLocalStore(root, publicBaseURL string, logger logger.Interface) (*LocalStore, error) {
	if err := os.MkdirAll(root, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create attachment root: %w", err)
	}
	return &LocalStore{
		root:          root,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
		logger:        logger,
	}, nil
}

// Store writes data unless a blob with the same digest already exists. The
// MIME type is sniffed from the bytes; the declared type only fills in when
// sniffing finds nothing specific.
func (s *LocalStore) Store(ctx context.Context, data []byte, filename, declaredMIME string) (ticket.StoredFile, error) {
	if err := ctx.Err(); err != nil {
		return ticket.StoredFile{}, err
	}

	sum := blake3.Sum256(data)
	digest := hex.EncodeToString(sum[:])

	detected := mimetype.Detect(data)
	mimeType := detected.String()
	if detected.Is(octetStream) && declaredMIME != "" {
		mimeType = declaredMIME
	}
	key := digest + strings.ToLower(detected.Extension())

	path := s.path(key)
	if _, err := os.Stat(path); err == nil {
		s.logger.Debugw("attachment blob already stored", "key", key)
	} else if err := s.write(path, data); err != nil {
		return ticket.StoredFile{}, err
	}

	return ticket.StoredFile{
		Key:         key,
		ContentHash: digest,
		SizeBytes:   int64(len(data)),
		MIMEType:    mimeType,
		Filename:    filename,
	}, nil
}

// write goes through a temp file so readers never see a partial blob.
func (s *LocalStore) write(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("failed to create blob directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".upload-*")
	if err != nil {
		return fmt.Errorf("failed to create temp blob: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write blob: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close blob: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to move blob into place: %w", err)
	}
	return nil
}

func (s *LocalStore) ResolveURL(a *ticket.Attachment) string {
	return s.publicBaseURL + "/" + a.StorageKey()
}

func (s *LocalStore) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !keyPattern.MatchString(key) {
		return nil, ErrBlobNotFound
	}

	f, err := os.Open(s.path(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrBlobNotFound
		}
		return nil, fmt.Errorf("failed to open blob: %w", err)
	}
	return f, nil
}

// path fans blobs out over 256 directories by the first digest byte.
func (s *LocalStore) path(key string) string {
	return filepath.Join(s.root, key[:2], key)
}
