package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"groupchat/internal/apperrors"
	"groupchat/internal/authz"
	"groupchat/internal/models"
	"groupchat/internal/repositories"
)

// DefaultMaxContentLength bounds a message body, in runes.
const DefaultMaxContentLength = 2000

// Notifier pushes events to live connections. Both calls are fire-and-forget.
type Notifier interface {
	// SendToUser pushes ev to the user's current connection, if any.
	SendToUser(userID string, ev models.Event) bool
	// Broadcast pushes ev to every connection joined to the group's room and
	// returns how many received it.
	Broadcast(groupID string, ev models.Event) int
}

// DeliveryService accepts a message, authorizes the sender, persists the
// message and fans it out. Confirmation to the sending connection is the
// caller's job: it is the only one that knows the connection.
type DeliveryService struct {
	messages         repositories.MessageRepository
	authorizer       *authz.MembershipAuthorizer
	notifier         Notifier
	maxContentLength int
	log              *slog.Logger

	now   func() time.Time
	newID func() string
}

func NewDeliveryService(
	messages repositories.MessageRepository,
	authorizer *authz.MembershipAuthorizer,
	notifier Notifier,
	maxContentLength int,
	log *slog.Logger,
) *DeliveryService {
	if maxContentLength <= 0 {
		maxContentLength = DefaultMaxContentLength
	}
	return &DeliveryService{
		messages:         messages,
		authorizer:       authorizer,
		notifier:         notifier,
		maxContentLength: maxContentLength,
		log:              log.With(slog.String("component", "delivery")),
		now:              time.Now,
		newID:            uuid.NewString,
	}
}

// SendPrivate delivers content from sender to receiverID. The message is
// stored even when the receiver is offline; there is no queue and no retry.
func (s *DeliveryService) SendPrivate(ctx context.Context, sender models.Identity, receiverID, content string) (*models.PrivateMessage, error) {
	if err := s.validateContent(content); err != nil {
		return nil, err
	}

	ok, err := s.authorizer.CanSendPrivate(ctx, sender.UserID, receiverID)
	if err != nil {
		s.log.Error("authorize private send", slog.String("senderID", sender.UserID), slog.Any("error", err))
		return nil, err
	}
	if !ok {
		return nil, apperrors.ErrRecipientNotFound
	}

	msg := &models.Message{
		ID:             s.newID(),
		Content:        content,
		IsGroupMessage: false,
		SenderID:       sender.UserID,
		ReceiverID:     &receiverID,
		CreatedAt:      s.timestamp(),
	}
	if err := s.messages.Create(ctx, msg); err != nil {
		s.log.Error("persist private message", slog.String("senderID", sender.UserID), slog.Any("error", err))
		return nil, fmt.Errorf("%w: persist message: %w", apperrors.ErrInternal, err)
	}

	payload := models.PrivateMessage{
		ID:         msg.ID,
		Content:    msg.Content,
		SenderID:   msg.SenderID,
		ReceiverID: receiverID,
		CreatedAt:  msg.CreatedAt,
		SenderName: sender.Name,
	}
	delivered := s.notifier.SendToUser(receiverID, models.NewMessage(payload))
	s.log.Debug("private message sent",
		slog.String("messageID", msg.ID),
		slog.String("senderID", sender.UserID),
		slog.String("receiverID", receiverID),
		slog.Bool("delivered", delivered),
	)
	return &payload, nil
}

// SendGroup stores content as a group message and broadcasts it to the
// group's room. The sender sees it through the broadcast only if its
// connection has joined the room.
func (s *DeliveryService) SendGroup(ctx context.Context, sender models.Identity, groupID, content string) (*models.GroupMessage, error) {
	if err := s.validateContent(content); err != nil {
		return nil, err
	}

	if err := s.authorizer.CheckGroup(ctx, sender.UserID, groupID); err != nil {
		if errors.Is(err, apperrors.ErrInternal) {
			s.log.Error("authorize group send", slog.String("senderID", sender.UserID), slog.String("groupID", groupID), slog.Any("error", err))
		}
		return nil, err
	}

	msg := &models.Message{
		ID:             s.newID(),
		Content:        content,
		IsGroupMessage: true,
		SenderID:       sender.UserID,
		GroupID:        &groupID,
		CreatedAt:      s.timestamp(),
	}
	if err := s.messages.Create(ctx, msg); err != nil {
		s.log.Error("persist group message", slog.String("senderID", sender.UserID), slog.String("groupID", groupID), slog.Any("error", err))
		return nil, fmt.Errorf("%w: persist message: %w", apperrors.ErrInternal, err)
	}

	payload := models.GroupMessage{
		ID:         msg.ID,
		Content:    msg.Content,
		SenderID:   msg.SenderID,
		GroupID:    groupID,
		CreatedAt:  msg.CreatedAt,
		SenderName: sender.Name,
	}
	n := s.notifier.Broadcast(groupID, models.NewGroupMessage(payload))
	s.log.Debug("group message sent",
		slog.String("messageID", msg.ID),
		slog.String("senderID", sender.UserID),
		slog.String("groupID", groupID),
		slog.Int("recipients", n),
	)
	return &payload, nil
}

func (s *DeliveryService) validateContent(content string) error {
	if strings.TrimSpace(content) == "" || utf8.RuneCountInString(content) > s.maxContentLength {
		return apperrors.ErrInvalidContent
	}
	return nil
}

// timestamp is the server clock at the store's microsecond precision, so the
// pushed payload matches what history reads return.
func (s *DeliveryService) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Microsecond)
}
