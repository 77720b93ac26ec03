package usecases

import (
	"context"

	"github.com/campusdesk/campusdesk/internal/application/ticket/dto"
)

type CreateTicketExecutor interface {
	Execute(ctx context.Context, cmd CreateTicketCommand) (*CreateTicketResult, error)
}

type ListForOwnerExecutor interface {
	Execute(ctx context.Context, query ListForOwnerQuery) ([]*dto.TicketSummaryDTO, error)
}

type ListForHandlerExecutor interface {
	Execute(ctx context.Context, query ListForHandlerQuery) (*dto.HandlerQueueDTO, error)
}

type GetTicketDetailExecutor interface {
	Execute(ctx context.Context, query GetTicketDetailQuery) (*dto.TicketDetailDTO, error)
}

type ReplyExecutor interface {
	Execute(ctx context.Context, cmd ReplyCommand) (*ReplyResult, error)
}

type UpdateStatusExecutor interface {
	Execute(ctx context.Context, cmd UpdateStatusCommand) (*dto.TicketDTO, error)
}

type AssignTicketExecutor interface {
	Execute(ctx context.Context, cmd AssignTicketCommand) (*dto.TicketDTO, error)
}

type MarkReadExecutor interface {
	Execute(ctx context.Context, cmd MarkReadCommand) (int, error)
}

type DeleteTicketExecutor interface {
	Execute(ctx context.Context, cmd DeleteTicketCommand) error
}

type OpenAttachmentExecutor interface {
	Execute(ctx context.Context, query OpenAttachmentQuery) (*OpenAttachmentResult, error)
}
