package usecases

import (
	"context"
	"fmt"

	"github.com/campusdesk/campusdesk/internal/domain/ticket"
	"github.com/campusdesk/campusdesk/internal/shared/errors"
	"github.com/campusdesk/campusdesk/internal/shared/logger"
)

// viewer is the resolved access of one caller to one ticket.
type viewer struct {
	ticket    *ticket.Ticket
	callerID  uint
	isHandler bool
}

// handlerVoice is true when the caller speaks for the desk on this ticket.
// A handler replying to their own ticket speaks as the requester.
func (v viewer) handlerVoice() bool {
	return v.isHandler && !v.ticket.IsRequester(v.callerID)
}

// accessChecker implements the visibility rule shared by detail, reply,
// mark-read and download: the requester, any handler, or whoever the oracle
// allows. Unknown ids read as not found only to handlers.
type accessChecker struct {
	ticketRepo ticket.TicketRepository
	oracle     PermissionOracle
	logger     logger.Interface
}

func (a accessChecker) load(ctx context.Context, ticketID, callerID uint) (viewer, error) {
	isHandler, err := a.oracle.IsHandler(ctx, callerID)
	if err != nil {
		a.logger.Errorw("permission oracle failed", "user_id", callerID, "error", err)
		return viewer{}, errors.NewUpstreamError("permission check unavailable")
	}

	t, err := a.ticketRepo.GetByID(ctx, ticketID)
	if err != nil {
		if errors.IsNotFoundError(err) {
			if isHandler {
				return viewer{}, errors.NewNotFoundError("ticket not found", fmt.Sprintf("%d", ticketID))
			}
			return viewer{}, errors.NewPermissionDeniedError()
		}
		a.logger.Errorw("failed to load ticket", "ticket_id", ticketID, "error", err)
		return viewer{}, errors.NewInternalError("failed to load ticket")
	}

	v := viewer{ticket: t, callerID: callerID, isHandler: isHandler}
	if isHandler || t.IsRequester(callerID) {
		return v, nil
	}

	allowed, err := a.oracle.CanViewTicket(ctx, callerID, t)
	if err != nil {
		a.logger.Errorw("permission oracle failed", "user_id", callerID, "ticket_id", ticketID, "error", err)
		return viewer{}, errors.NewUpstreamError("permission check unavailable")
	}
	if !allowed {
		a.logger.Warnw("ticket access denied", "user_id", callerID, "ticket_id", ticketID)
		return viewer{}, errors.NewPermissionDeniedError()
	}
	return v, nil
}

// requireRole runs a yes/no oracle question and turns "no" into
// PermissionDenied.
func requireRole(ctx context.Context, log logger.Interface, check func(context.Context, uint) (bool, error), userID uint, role string) error {
	ok, err := check(ctx, userID)
	if err != nil {
		log.Errorw("permission oracle failed", "user_id", userID, "role", role, "error", err)
		return errors.NewUpstreamError("permission check unavailable")
	}
	if !ok {
		log.Warnw("caller lacks role", "user_id", userID, "role", role)
		return errors.NewPermissionDeniedError()
	}
	return nil
}

// wrapRepoError keeps typed errors and hides everything else behind an
// internal error.
func wrapRepoError(log logger.Interface, op string, err error, kv ...any) error {
	if errors.IsAppError(err) {
		return err
	}
	log.Errorw("repository "+op+" failed", append(kv, "error", err)...)
	return errors.NewInternalError("failed to " + op)
}

// publish hands committed events to the dispatcher. Failures are logged and
// never reach the caller.
func publish(ctx context.Context, d NotificationDispatcher, log logger.Interface, events ...ticket.Event) {
	if d == nil {
		return
	}
	for _, e := range events {
		if err := d.Publish(context.WithoutCancel(ctx), e); err != nil {
			log.Warnw("failed to publish ticket event",
				"event", e.Type,
				"ticket_id", e.TicketID,
				"error", err,
			)
		}
	}
}

// saveAttachments writes one metadata row per ingested file. The message's
// has_attachments flag was set from the same list, so a file that cannot be
// written fails the transaction instead of being dropped.
func saveAttachments(ctx context.Context, repo ticket.AttachmentRepository, log logger.Interface, ticketID, messageID uint, files []ticket.StoredFile) error {
	if len(files) == 0 {
		return nil
	}
	rows := make([]*ticket.Attachment, 0, len(files))
	for _, f := range files {
		a, err := ticket.NewAttachment(ticketID, messageID, f)
		if err != nil {
			log.Errorw("invalid attachment row", "key", f.Key, "message_id", messageID, "error", err)
			return errors.NewInternalError("failed to save attachments")
		}
		rows = append(rows, a)
	}
	if err := repo.CreateBatch(ctx, rows); err != nil {
		return wrapRepoError(log, "save attachments", err, "message_id", messageID)
	}
	return nil
}

func uniqueIDs(ids ...uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if id == 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
