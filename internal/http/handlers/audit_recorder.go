package handlers

import (
	"context"
	"log/slog"

	"github.com/geocoder89/salescrm/internal/actorctx"
	"github.com/geocoder89/salescrm/internal/domain/audit"
)

type AuditAppender interface {
	Append(ctx context.Context, e audit.Entry) error
}

// Auditor appends one entry per successful mutation. A failed append is logged;
// the mutation it describes has already been committed.
type Auditor struct {
	repo AuditAppender
	log  *slog.Logger
}

func NewAuditor(repo AuditAppender, log *slog.Logger) *Auditor {
	if log == nil {
		log = slog.Default()
	}
	return &Auditor{repo: repo, log: log}
}

func (a *Auditor) Record(ctx context.Context, action audit.Action, entity, entityID string) {
	if a == nil || a.repo == nil {
		return
	}

	actorID, _ := actorctx.UserIDFrom(ctx)

	entry := audit.NewEntry(actorID, action, entity, entityID)
	if err := a.repo.Append(ctx, entry); err != nil {
		a.log.ErrorContext(ctx, "audit append failed",
			"action", action,
			"entity", entity,
			"entity_id", entityID,
			"err", err,
		)
	}
}
