// Package guard holds the authorization predicates. Each one is a pure
// function from identity plus resource to nil or a taxonomy error; callers
// evaluate them after loading the resource and before any write.
//
// The comparison contract is username equality throughout.
package guard

import (
	commonerrors "github.com/messagely/messagely/internal/common/errors"
	messagedomain "github.com/messagely/messagely/internal/message/domain"
	"github.com/messagely/messagely/internal/observability/metrics"
)

// RequireLoggedIn fails unless a verified identity is present.
func RequireLoggedIn(username string) error {
	if username == "" {
		metrics.AuthorizationDeniedTotal.WithLabelValues("logged_in").Inc()
		return commonerrors.ErrUnauthorized
	}
	return nil
}

// RequireSelf fails unless the identity is the target user.
func RequireSelf(username, target string) error {
	if err := RequireLoggedIn(username); err != nil {
		return err
	}
	if username != target {
		metrics.AuthorizationDeniedTotal.WithLabelValues("self").Inc()
		return commonerrors.ErrForbidden
	}
	return nil
}

// RequireParticipant fails unless the identity is the sender or the
// recipient of the message. Grants read access.
func RequireParticipant(username string, msg messagedomain.Message) error {
	if err := RequireLoggedIn(username); err != nil {
		return err
	}
	if username != msg.FromUsername && username != msg.ToUsername {
		metrics.AuthorizationDeniedTotal.WithLabelValues("participant").Inc()
		return commonerrors.ErrForbidden
	}
	return nil
}

// RequireRecipient fails unless the identity is the recipient of the
// message. Grants mark-read access; the sender is deliberately excluded.
func RequireRecipient(username string, msg messagedomain.Message) error {
	if err := RequireLoggedIn(username); err != nil {
		return err
	}
	if username != msg.ToUsername {
		metrics.AuthorizationDeniedTotal.WithLabelValues("recipient").Inc()
		return commonerrors.ErrForbidden
	}
	return nil
}
