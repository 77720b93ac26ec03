package models

type TicketModel struct {
	ID            uint   `gorm:"primaryKey"`
	Number        string `gorm:"uniqueIndex:uk_ticket_number;size:20;not null"`
	Kind          string `gorm:"size:20;not null;index:idx_ticket_kind_status,priority:1"`
	RequesterID   uint   `gorm:"not null;index"`
	Subject       string `gorm:"size:200;not null"`
	Body          string `gorm:"type:text;not null"`
	Category      string `gorm:"size:50;not null"`
	Status        string `gorm:"size:20;not null;index:idx_ticket_kind_status,priority:2"`
	Priority      string `gorm:"size:20;not null;index"`
	AssigneeID    *uint  `gorm:"index"`
	LastMessageID *uint
	Version       int   `gorm:"not null;default:1"`
	CreatedAt     int64 `gorm:"autoCreateTime:milli;not null;index"`
	UpdatedAt     int64 `gorm:"autoUpdateTime:milli;not null"`
	ResolvedAt    *int64

	// Note: No foreign key constraints or associations.
	// Cascades are performed by the repository inside one transaction.
}

func (TicketModel) TableName() string {
	return "tickets"
}

type TicketMessageModel struct {
	ID                uint   `gorm:"primaryKey"`
	TicketID          uint   `gorm:"not null;index:idx_message_thread,priority:1"`
	AuthorID          uint   `gorm:"not null;index"`
	Body              string `gorm:"type:text;not null"`
	BodyFormat        string `gorm:"size:20;not null;default:plain"`
	IsHandlerAuthored bool   `gorm:"not null;default:false"`
	Visibility        string `gorm:"size:20;not null;default:public"`
	HasAttachments    bool   `gorm:"not null;default:false"`
	CreatedAt         int64  `gorm:"autoCreateTime:milli;not null;index:idx_message_thread,priority:2"`
}

func (TicketMessageModel) TableName() string {
	return "ticket_messages"
}

type TicketAttachmentModel struct {
	ID          uint   `gorm:"primaryKey"`
	MessageID   uint   `gorm:"not null;index"`
	TicketID    uint   `gorm:"not null;index"`
	Filename    string `gorm:"size:255;not null"`
	MimeType    string `gorm:"size:127;not null"`
	SizeBytes   int64  `gorm:"not null"`
	ContentHash string `gorm:"size:64;not null"`
	StorageKey  string `gorm:"size:191;not null;index"`
	CreatedAt   int64  `gorm:"autoCreateTime:milli;not null"`
}

func (TicketAttachmentModel) TableName() string {
	return "ticket_attachments"
}

// TicketReadMarkerModel exists only in deployments with read tracking.
type TicketReadMarkerModel struct {
	MessageID uint  `gorm:"primaryKey;autoIncrement:false"`
	UserID    uint  `gorm:"primaryKey;autoIncrement:false;index"`
	TicketID  uint  `gorm:"not null;index"`
	CreatedAt int64 `gorm:"autoCreateTime:milli;not null"`
}

func (TicketReadMarkerModel) TableName() string {
	return "ticket_read_markers"
}
