package usecases

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusdesk/campusdesk/internal/domain/ticket"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"report.pdf", "report.pdf"},
		{"../../etc/passwd", "passwd"},
		{`C:\Users\ada\notes.txt`, "notes.txt"},
		{"a..b..c.txt", "a.b.c.txt"},
		{"bad\x00name\x1f.png", "badname.png"},
		{"  spaced\tout .md ", "spaced out .md"},
		{"", "attachment"},
		{"..", "attachment"},
		{"/", "attachment"},
		{"Cafe\u0301.txt", "Caf\u00e9.txt"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeFilename(tt.in))
		})
	}
}

func TestSanitizeFilename_KeepsExtensionWhenTruncating(t *testing.T) {
	got := SanitizeFilename(strings.Repeat("x", 300) + ".pdf")

	assert.Len(t, []rune(got), maxFilenameRunes)
	assert.True(t, strings.HasSuffix(got, ".pdf"))
}

func TestAttachmentIngestor_Ingest(t *testing.T) {
	store := &mockStore{}
	ingestor := NewAttachmentIngestor(store, 2, 8, &mockLogger{})

	files := ingestor.Ingest(context.Background(), []Upload{
		{Filename: "a.txt", Data: []byte("one")},
		{Filename: "big.bin", Data: []byte("way too large")},
		{Filename: "gone.txt", Err: UploadErrNoFile},
		{Filename: "b.txt", Data: []byte("two!")},
		{Filename: "c.txt", Data: []byte("three")},
	})

	require.Len(t, files, 2)
	assert.Equal(t, "a.txt", files[0].Filename)
	assert.Equal(t, "b.txt", files[1].Filename)
	assert.Equal(t, int64(4), files[1].SizeBytes)
}

func TestAttachmentIngestor_SkipsUnusableStoredFiles(t *testing.T) {
	store := &mockStore{
		StoreFunc: func(ctx context.Context, data []byte, filename, declaredMIME string) (ticket.StoredFile, error) {
			if filename == "nohash.txt" {
				return ticket.StoredFile{Key: "k", SizeBytes: int64(len(data))}, nil
			}
			return ticket.StoredFile{Key: "k-" + filename, ContentHash: "h", SizeBytes: int64(len(data))}, nil
		},
	}
	ingestor := NewAttachmentIngestor(store, 5, 64, &mockLogger{})

	files := ingestor.Ingest(context.Background(), []Upload{
		{Filename: "nohash.txt", Data: []byte("one")},
		{Filename: "ok.txt", Data: []byte("two")},
	})

	require.Len(t, files, 1)
	assert.Equal(t, "ok.txt", files[0].Filename, "missing filename falls back to the sanitized upload name")
	assert.NoError(t, files[0].Validate())
}

func TestUploadError_String(t *testing.T) {
	assert.Equal(t, "too_large", UploadErrTooLarge.String())
	assert.Equal(t, "unknown", UploadError(42).String())
}
