package xclient

import (
	"context"
	"log/slog"
	"strings"
)

// Login exchanges an identity-provider credential for a session token,
// persists it and refreshes the current user. An empty credential fails
// with ErrMissingCredential before any request is made. The exchange is
// attempted once.
func (s *Session) Login(ctx context.Context, credential string) (string, error) {
	notify := s.client.Notifier()

	if strings.TrimSpace(credential) == "" {
		notify.Error(ErrMissingCredential.Message)
		return "", withOp(ErrMissingCredential, "Login")
	}

	token, err := s.client.VerifyGoogleToken(ctx, credential)
	if err != nil {
		slog.Warn("credential verification failed", slog.Any("error", err))
		notify.Error(msgLoginFailed)
		return "", err
	}
	notify.Success(msgVerified)

	if err := s.storeToken(ctx, token); err != nil {
		notify.Error(msgLoginFailed)
		return "", err
	}

	if err := s.Invalidate(ctx); err != nil {
		// The token is stored; the user resolves on the next load.
		slog.Warn("post-login refresh failed", slog.Any("error", err))
	}
	slog.Info("login successful")
	return token, nil
}
