package migration

import (
	"github.com/campusdesk/campusdesk/internal/infrastructure/persistence/models"
)

// AutoMigrateModels lists every table the desk owns, read markers included.
func AutoMigrateModels() []interface{} {
	return []interface{}{
		&models.UserModel{},
		&models.TicketModel{},
		&models.TicketMessageModel{},
		&models.TicketAttachmentModel{},
		&models.TicketReadMarkerModel{},
	}
}
