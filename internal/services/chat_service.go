package services

import (
	"context"
	"fmt"

	"groupchat/internal/apperrors"
	"groupchat/internal/authz"
	"groupchat/internal/models"
	"groupchat/internal/repositories"
)

// ChatService serves private conversation history. Sending goes through
// DeliveryService.
type ChatService struct {
	messages   repositories.MessageRepository
	authorizer *authz.MembershipAuthorizer
}

func NewChatService(messages repositories.MessageRepository, authorizer *authz.MembershipAuthorizer) *ChatService {
	return &ChatService{messages: messages, authorizer: authorizer}
}

func (s *ChatService) GetConversation(ctx context.Context, userID, partnerID string, limit, offset int) ([]*models.MessageView, error) {
	ok, err := s.authorizer.CanSendPrivate(ctx, userID, partnerID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperrors.ErrRecipientNotFound
	}
	views, err := s.messages.ListPrivate(ctx, userID, partnerID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%w: list private messages: %w", apperrors.ErrInternal, err)
	}
	return views, nil
}

func (s *ChatService) ListPartners(ctx context.Context, userID string) ([]models.UserSummary, error) {
	partners, err := s.messages.ListPartners(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: list partners: %w", apperrors.ErrInternal, err)
	}
	return partners, nil
}
