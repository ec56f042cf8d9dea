package xclient

import "log/slog"

// Notifier shows transient user-visible messages.
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

// LogNotifier writes toasts to the default slog logger.
type LogNotifier struct{}

func (LogNotifier) Success(msg string) { slog.Info(msg, slog.String("toast", "success")) }
func (LogNotifier) Error(msg string)   { slog.Warn(msg, slog.String("toast", "error")) }

// User-visible messages.
const (
	msgVerified      = "Verified successfully"
	msgLoggedOut     = "You have successfully logged out. See you soon!"
	msgPostFailed    = "There was an error posting your tweet. Please try again later."
	msgNotAuthed     = "You are not authenticated"
	msgFollowFailed  = "Failed to follow user"
	msgUnfollowFail  = "Failed to unfollow user"
	msgLoginFailed   = "Failed to verify credential. Please try again."
	msgTweetPosted   = "Tweet posted"
	msgMissingTarget = "User not found"
)
