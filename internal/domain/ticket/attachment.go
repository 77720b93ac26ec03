package ticket

import (
	"fmt"
	"time"

	"github.com/campusdesk/campusdesk/internal/shared/biztime"
)

// Attachment is the metadata row of a stored file. The bytes live in the
// attachment store under StorageKey; ContentHash is computed from them.
type Attachment struct {
	id          uint
	messageID   uint
	ticketID    uint
	filename    string
	mimeType    string
	sizeBytes   int64
	contentHash string
	storageKey  string
	createdAt   time.Time
}

// StoredFile is what the attachment store reports back for persisted bytes.
type StoredFile struct {
	Key         string
	ContentHash string
	SizeBytes   int64
	MIMEType    string
	Filename    string
}

// Validate reports whether the file can back an attachment row.
func (f StoredFile) Validate() error {
	if f.Key == "" || f.ContentHash == "" {
		return fmt.Errorf("attachment requires a stored file")
	}
	if f.Filename == "" {
		return fmt.Errorf("attachment filename is required")
	}
	return nil
}

func NewAttachment(ticketID, messageID uint, file StoredFile) (*Attachment, error) {
	if ticketID == 0 || messageID == 0 {
		return nil, fmt.Errorf("attachment requires ticket and message IDs")
	}
	if err := file.Validate(); err != nil {
		return nil, err
	}

	return &Attachment{
		messageID:   messageID,
		ticketID:    ticketID,
		filename:    file.Filename,
		mimeType:    file.MIMEType,
		sizeBytes:   file.SizeBytes,
		contentHash: file.ContentHash,
		storageKey:  file.Key,
		createdAt:   biztime.NowUTC(),
	}, nil
}

func ReconstructAttachment(
	id, messageID, ticketID uint,
	filename, mimeType string,
	sizeBytes int64,
	contentHash, storageKey string,
	createdAt time.Time,
) *Attachment {
	return &Attachment{
		id:          id,
		messageID:   messageID,
		ticketID:    ticketID,
		filename:    filename,
		mimeType:    mimeType,
		sizeBytes:   sizeBytes,
		contentHash: contentHash,
		storageKey:  storageKey,
		createdAt:   createdAt,
	}
}

func (a *Attachment) ID() uint             { return a.id }
func (a *Attachment) MessageID() uint      { return a.messageID }
func (a *Attachment) TicketID() uint       { return a.ticketID }
func (a *Attachment) Filename() string     { return a.filename }
func (a *Attachment) MIMEType() string     { return a.mimeType }
func (a *Attachment) SizeBytes() int64     { return a.sizeBytes }
func (a *Attachment) ContentHash() string  { return a.contentHash }
func (a *Attachment) StorageKey() string   { return a.storageKey }
func (a *Attachment) CreatedAt() time.Time { return a.createdAt }

func (a *Attachment) SetID(id uint) error {
	if a.id != 0 {
		return fmt.Errorf("attachment ID is already set")
	}
	a.id = id
	return nil
}
