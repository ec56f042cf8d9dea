package xclient

import (
	"context"
	"fmt"
	"log/slog"
)

// IsFollowing reports whether u follows targetID. Nil entries in the
// following list are skipped.
func IsFollowing(u *User, targetID string) bool {
	if u == nil || targetID == "" {
		return false
	}
	for _, ref := range u.Following {
		if ref == nil {
			continue
		}
		if ref.ID == targetID {
			return true
		}
	}
	return false
}

// Relationships runs follow/unfollow for the session user.
type Relationships struct {
	session *Session
}

// NewRelationships binds follow commands to a session.
func NewRelationships(s *Session) *Relationships {
	return &Relationships{session: s}
}

// IsFollowing reports whether the session user follows target.
func (r *Relationships) IsFollowing(target *User) bool {
	if target == nil {
		return false
	}
	return IsFollowing(r.session.CurrentUser(), target.ID)
}

// Follow makes the session user follow target.
func (r *Relationships) Follow(ctx context.Context, target *User) error {
	return r.mutate(ctx, "FollowUser", target, r.session.client.FollowUser,
		func(name string) string { return fmt.Sprintf("You are now following %s", name) },
		msgFollowFailed)
}

// Unfollow makes the session user stop following target.
func (r *Relationships) Unfollow(ctx context.Context, target *User) error {
	return r.mutate(ctx, "UnfollowUser", target, r.session.client.UnfollowUser,
		func(name string) string { return fmt.Sprintf("You unfollowed %s", name) },
		msgUnfollowFail)
}

func (r *Relationships) mutate(ctx context.Context, op string, target *User,
	call func(context.Context, string) error, okMsg func(string) string, failMsg string) error {
	notify := r.session.client.Notifier()

	if target == nil || target.ID == "" {
		notify.Error(msgMissingTarget)
		return withOp(ErrMissingTarget, op)
	}

	if err := call(ctx, target.ID); err != nil {
		slog.Warn("relationship change failed",
			slog.String("operation", op),
			slog.String("target", target.ID),
			slog.Any("error", err))
		if KindOf(err) == KindAuthentication {
			notify.Error(msgNotAuthed)
		} else {
			notify.Error(failMsg)
		}
		return err
	}

	if err := r.session.Invalidate(ctx); err != nil {
		slog.Warn("refresh after relationship change failed", slog.Any("error", err))
	}
	notify.Success(okMsg(target.DisplayName()))
	return nil
}
