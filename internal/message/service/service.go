package service

import (
	"context"
	"errors"
	"strings"

	"github.com/messagely/messagely/internal/auth/guard"
	"github.com/messagely/messagely/internal/common/clock"
	"github.com/messagely/messagely/internal/common/constants"
	commoncrypto "github.com/messagely/messagely/internal/common/crypto"
	commonerrors "github.com/messagely/messagely/internal/common/errors"
	"github.com/messagely/messagely/internal/common/logger"
	"github.com/messagely/messagely/internal/message/domain"
	messagerepo "github.com/messagely/messagely/internal/message/repository"
	"github.com/messagely/messagely/internal/observability/metrics"
)

// MessageService owns message reads and the two writes (send, mark-read).
// Every operation evaluates its guard predicate before touching the store;
// mark-read loads the record first so the recipient check runs against the
// stored usernames, then writes.
type MessageService struct {
	messages    messagerepo.Repository
	idGenerator commoncrypto.IDGenerator
	clock       clock.Clock
	log         *logger.Logger
}

func NewMessageService(
	messages messagerepo.Repository,
	idGenerator commoncrypto.IDGenerator,
	clock clock.Clock,
	log *logger.Logger,
) *MessageService {
	return &MessageService{
		messages:    messages,
		idGenerator: idGenerator,
		clock:       clock,
		log:         log,
	}
}

func (s *MessageService) Send(ctx context.Context, from, to, body string) (domain.Message, error) {
	if err := guard.RequireLoggedIn(from); err != nil {
		return domain.Message{}, err
	}

	if strings.TrimSpace(body) == "" {
		return domain.Message{}, commonerrors.ErrMissingField
	}
	if len(body) > constants.MaxMessageBodyLength {
		return domain.Message{}, commonerrors.ErrMessageTooLong
	}

	id, err := s.idGenerator.NewID()
	if err != nil {
		return domain.Message{}, commonerrors.ErrInternalError.WithCause(err)
	}

	msg := domain.Message{
		ID:           id,
		FromUsername: from,
		ToUsername:   to,
		Body:         body,
		SentAt:       s.clock.Now(),
	}

	if err := s.messages.Create(ctx, msg); err != nil {
		if errors.Is(err, commonerrors.ErrUserNotFound) {
			s.log.WithFields(ctx, logger.Fields{
				"from":   from,
				"to":     to,
				"action": "message_send_unknown_user",
			}).Warn("send failed: unknown user")
			return domain.Message{}, commonerrors.ErrUserNotFound
		}
		s.log.WithFields(ctx, logger.Fields{
			"from":   from,
			"to":     to,
			"action": "message_send_failed",
		}).Errorf("send failed: %v", err)
		return domain.Message{}, commonerrors.ErrInternalError.WithCause(err)
	}

	metrics.MessagesSentTotal.Inc()
	s.log.WithFields(ctx, logger.Fields{
		"message_id": msg.ID,
		"from":       from,
		"to":         to,
		"action":     "message_sent",
	}).Info("message sent")

	return msg, nil
}

func (s *MessageService) Get(ctx context.Context, requester, id string) (domain.Detail, error) {
	detail, err := s.messages.FindByID(ctx, id)
	if err != nil {
		return domain.Detail{}, err
	}

	if err := guard.RequireParticipant(requester, detail.Message); err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"message_id": id,
			"requester":  requester,
			"action":     "message_get_denied",
		}).Warn("get message denied")
		return domain.Detail{}, err
	}

	return detail, nil
}

// MarkRead stamps read_at with the current time. A repeated call re-stamps;
// the end state is the same either way (read_at non-null).
func (s *MessageService) MarkRead(ctx context.Context, requester, id string) (domain.ReadReceipt, error) {
	detail, err := s.messages.FindByID(ctx, id)
	if err != nil {
		return domain.ReadReceipt{}, err
	}

	if err := guard.RequireRecipient(requester, detail.Message); err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"message_id": id,
			"requester":  requester,
			"action":     "message_mark_read_denied",
		}).Warn("mark read denied")
		return domain.ReadReceipt{}, err
	}

	receipt, err := s.messages.MarkRead(ctx, id, s.clock.Now())
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"message_id": id,
			"action":     "message_mark_read_failed",
		}).Errorf("mark read failed: %v", err)
		return domain.ReadReceipt{}, err
	}

	metrics.MessagesReadTotal.Inc()
	s.log.WithFields(ctx, logger.Fields{
		"message_id": id,
		"requester":  requester,
		"action":     "message_read",
	}).Info("message marked read")

	return receipt, nil
}

func (s *MessageService) SentBy(ctx context.Context, requester, username string) ([]domain.Outgoing, error) {
	if err := guard.RequireSelf(requester, username); err != nil {
		return nil, err
	}
	return s.messages.ListSentBy(ctx, username)
}

func (s *MessageService) ReceivedBy(ctx context.Context, requester, username string) ([]domain.Incoming, error) {
	if err := guard.RequireSelf(requester, username); err != nil {
		return nil, err
	}
	return s.messages.ListReceivedBy(ctx, username)
}
