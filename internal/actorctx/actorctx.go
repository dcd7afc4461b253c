package actorctx

import (
	"context"

	"github.com/geocoder89/salescrm/internal/domain/user"
)

type ctxKey string

const (
	keyUserID ctxKey = "actor.user_id"
	keyRole   ctxKey = "actor.role"
)

// With stores the authenticated actor on a plain context so code below the HTTP layer can see it.
func With(ctx context.Context, userID string, role user.Role) context.Context {
	ctx = context.WithValue(ctx, keyUserID, userID)
	return context.WithValue(ctx, keyRole, role)
}

func UserIDFrom(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(keyUserID).(string)

	return v, ok && v != ""
}

func RoleFrom(ctx context.Context) (user.Role, bool) {
	v, ok := ctx.Value(keyRole).(user.Role)
	return v, ok && v != ""
}
