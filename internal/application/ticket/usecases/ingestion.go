package usecases

import (
	"context"
	"path"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/campusdesk/campusdesk/internal/domain/ticket"
	"github.com/campusdesk/campusdesk/internal/shared/logger"
)

// UploadError mirrors the per-file status a multipart parser reports.
type UploadError int

const (
	UploadErrNone UploadError = iota
	UploadErrTooLarge
	UploadErrPartial
	UploadErrNoFile
	UploadErrTooMany
)

func (e UploadError) String() string {
	switch e {
	case UploadErrNone:
		return "none"
	case UploadErrTooLarge:
		return "too_large"
	case UploadErrPartial:
		return "partial"
	case UploadErrNoFile:
		return "no_file"
	case UploadErrTooMany:
		return "too_many"
	default:
		return "unknown"
	}
}

// Upload is one file of a request, already normalized from whichever form
// field carried it.
type Upload struct {
	Filename     string
	DeclaredMIME string
	Data         []byte
	Err          UploadError
}

const (
	maxFilenameRunes = 120
	fallbackFilename = "attachment"
)

// AttachmentIngestor stores uploads ahead of the ticket transaction. A file
// that failed to upload or that the store rejects is skipped; the rest of
// the batch still goes through.
type AttachmentIngestor struct {
	store    AttachmentStore
	maxFiles int
	maxBytes int64
	logger   logger.Interface
}

func NewAttachmentIngestor(store AttachmentStore, maxFiles int, maxBytes int64, logger logger.Interface) *AttachmentIngestor {
	return &AttachmentIngestor{
		store:    store,
		maxFiles: maxFiles,
		maxBytes: maxBytes,
		logger:   logger,
	}
}

// Ingest returns the stored files in upload order. Every returned file is
// valid, so each one becomes exactly one attachment row.
func (i *AttachmentIngestor) Ingest(ctx context.Context, uploads []Upload) []ticket.StoredFile {
	if len(uploads) == 0 {
		return nil
	}

	stored := make([]ticket.StoredFile, 0, len(uploads))
	for idx, up := range uploads {
		code := i.check(up, len(stored))
		if code != UploadErrNone {
			i.logger.Warnw("skipping attachment",
				"index", idx,
				"filename", up.Filename,
				"reason", code.String(),
			)
			continue
		}

		name := SanitizeFilename(up.Filename)
		file, err := i.store.Store(ctx, up.Data, name, up.DeclaredMIME)
		if err != nil {
			i.logger.Errorw("attachment store failed, skipping file",
				"index", idx,
				"filename", name,
				"error", err,
			)
			continue
		}
		if file.Filename == "" {
			file.Filename = name
		}
		if err := file.Validate(); err != nil {
			i.logger.Errorw("attachment store returned an unusable file, skipping",
				"index", idx,
				"filename", name,
				"error", err,
			)
			continue
		}
		stored = append(stored, file)
	}
	return stored
}

func (i *AttachmentIngestor) check(up Upload, accepted int) UploadError {
	if up.Err != UploadErrNone {
		return up.Err
	}
	if len(up.Data) == 0 {
		return UploadErrNoFile
	}
	if i.maxBytes > 0 && int64(len(up.Data)) > i.maxBytes {
		return UploadErrTooLarge
	}
	if i.maxFiles > 0 && accepted >= i.maxFiles {
		return UploadErrTooMany
	}
	return UploadErrNone
}

// SanitizeFilename keeps only the base name, normalizes it to NFC, and
// drops control characters and separators. The result is never empty.
func SanitizeFilename(name string) string {
	name = norm.NFC.String(name)
	name = strings.ReplaceAll(name, "\\", "/")
	name = path.Base(name)

	var b strings.Builder
	for _, r := range name {
		switch {
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		case unicode.IsControl(r), r == '/', r == ':', r == unicode.ReplacementChar:
			continue
		default:
			b.WriteRune(r)
		}
	}

	clean := strings.TrimSpace(b.String())
	for strings.Contains(clean, "..") {
		clean = strings.ReplaceAll(clean, "..", ".")
	}
	clean = strings.Trim(clean, ". ")

	if runes := []rune(clean); len(runes) > maxFilenameRunes {
		ext := path.Ext(clean)
		if len([]rune(ext)) >= maxFilenameRunes/2 {
			ext = ""
		}
		stem := []rune(strings.TrimSuffix(clean, ext))
		clean = string(stem[:maxFilenameRunes-len([]rune(ext))]) + ext
	}

	if clean == "" {
		return fallbackFilename
	}
	return clean
}
