package service

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/staynest/booking-service/internal/domain/entity"
	"github.com/staynest/booking-service/internal/platform/logger"
	"github.com/staynest/booking-service/internal/repository"
)

type MessageService interface {
	Send(ctx context.Context, senderID, receiverID, listingID, content string) (*entity.Message, error)
	// Chats summarizes the user's conversations grouped by counterparty,
	// most recent first.
	Chats(ctx context.Context, userID string) ([]entity.Chat, error)
	// Dialog returns the conversation with the counterparty and marks their
	// messages as read.
	Dialog(ctx context.Context, userID, otherUserID string) ([]entity.Message, error)
}

type messageService struct {
	messageRepo repository.MessageRepository
	userRepo    repository.UserRepository
	listingRepo repository.ListingRepository
	notifier    Notifier
	log         logger.Logger
}

func NewMessageService(
	messageRepo repository.MessageRepository,
	userRepo repository.UserRepository,
	listingRepo repository.ListingRepository,
	notifier Notifier,
	log logger.Logger,
) MessageService {
	return &messageService{
		messageRepo: messageRepo,
		userRepo:    userRepo,
		listingRepo: listingRepo,
		notifier:    notifier,
		log:         log,
	}
}

func (s *messageService) Send(ctx context.Context, senderID, receiverID, listingID, content string) (*entity.Message, error) {
	if senderID == receiverID {
		return nil, entity.ErrSelfAction
	}

	receiver, err := s.userRepo.GetByID(ctx, receiverID)
	if err != nil {
		return nil, err
	}
	if receiver.IsBanned {
		return nil, entity.ErrForbidden
	}

	message, err := entity.NewMessage(senderID, receiverID, listingID, content)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrInvalidInput, err)
	}

	messageID, err := s.messageRepo.Create(ctx, message)
	if err != nil {
		s.log.Errorf("Failed to save message from %s to %s: %v", senderID, receiverID, err)
		return nil, err
	}
	message.ID = messageID

	sender, err := s.userRepo.GetByID(ctx, senderID)
	senderName := senderID
	if err == nil && sender.Name != "" {
		senderName = sender.Name
	}
	s.notifier.Notify(receiverID,
		fmt.Sprintf("New message from %s.", senderName),
		entity.CategoryMessage)

	return message, nil
}

func (s *messageService) Chats(ctx context.Context, userID string) ([]entity.Chat, error) {
	messages, err := s.messageRepo.ListByUser(ctx, userID)
	if err != nil {
		s.log.Errorf("Failed to list messages for user %s: %v", userID, err)
		return nil, err
	}

	chats := map[string]*entity.Chat{}
	order := []string{}

	for _, message := range messages {
		counterparty := message.SenderID
		if counterparty == userID {
			counterparty = message.ReceiverID
		}
		if counterparty == systemSenderID {
			continue
		}

		chat, ok := chats[counterparty]
		if !ok {
			chat = &entity.Chat{}
			chats[counterparty] = chat
			order = append(order, counterparty)
		}
		// Messages arrive newest first, so the first one wins the preview.
		if chat.LastMessage == "" {
			chat.LastMessage = message.Content
			chat.LastAt = message.CreatedAt
			if message.ListingID != "" {
				if listing, lerr := s.listingRepo.GetByID(ctx, message.ListingID); lerr == nil {
					chat.ListingTitle = listing.Title
				}
			}
		}
		if message.ReceiverID == userID && !message.IsRead {
			chat.UnreadCount++
		}
	}

	result := make([]entity.Chat, 0, len(order))
	for _, counterparty := range order {
		chat := chats[counterparty]
		user, err := s.userRepo.GetByID(ctx, counterparty)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				continue
			}
			return nil, err
		}
		chat.User = user
		result = append(result, *chat)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].LastAt.After(result[j].LastAt)
	})
	return result, nil
}

func (s *messageService) Dialog(ctx context.Context, userID, otherUserID string) ([]entity.Message, error) {
	messages, err := s.messageRepo.ListDialog(ctx, userID, otherUserID)
	if err != nil {
		s.log.Errorf("Failed to list dialog for user %s with %s: %v", userID, otherUserID, err)
		return nil, err
	}
	if err := s.messageRepo.MarkDialogRead(ctx, otherUserID, userID); err != nil {
		s.log.Warnf("Failed to mark dialog read for user %s with %s: %v", userID, otherUserID, err)
	}
	return messages, nil
}
