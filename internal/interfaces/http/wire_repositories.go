package http

import (
	"gorm.io/gorm"

	"github.com/campusdesk/campusdesk/internal/infrastructure/repository"
	"github.com/campusdesk/campusdesk/internal/shared/logger"
)

// repositories holds all repository instances used by the application.
type repositories struct {
	ticketRepo     *repository.TicketRepository
	messageRepo    *repository.TicketMessageRepository
	attachmentRepo *repository.TicketAttachmentRepository
	readMarkerRepo *repository.TicketReadMarkerRepository
	directoryRepo  *repository.UserDirectoryRepository
}

// newRepositories creates all repository instances from the database
// connection. The read-marker repository is left nil when read tracking is
// off.
func newRepositories(db *gorm.DB, readTracking bool, log logger.Interface) *repositories {
	repos := &repositories{
		ticketRepo:     repository.NewTicketRepository(db, readTracking, log),
		messageRepo:    repository.NewTicketMessageRepository(db),
		attachmentRepo: repository.NewTicketAttachmentRepository(db),
		directoryRepo:  repository.NewUserDirectoryRepository(db),
	}
	if readTracking {
		repos.readMarkerRepo = repository.NewTicketReadMarkerRepository(db)
	}
	return repos
}
