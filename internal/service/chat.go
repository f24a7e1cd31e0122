package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"staffing_bridge/internal/domain"
	"staffing_bridge/internal/realtime"
	"staffing_bridge/internal/repository"
	apperrors "staffing_bridge/pkg/errors"
	"staffing_bridge/pkg/logger"
)

// PostMessageInput carries the raw fields of a chat turn before the
// normalization boundary. Text/MessageText/Content are the legacy body
// aliases; exactly one is expected to be set.
type PostMessageInput struct {
	RequestID   uuid.UUID
	Text        string
	MessageText string
	Content     string
	SenderID    string
	SenderName  string
	SenderRole  string
	Source      string
}

type ChatService interface {
	// Post normalizes, persists and fans out one chat turn. Sender fields
	// left empty are defaulted from the owning request.
	Post(ctx context.Context, input PostMessageInput) (*domain.Message, error)
	// List returns all messages for a request ascending by creation time.
	// afterID > 0 restricts to newer rows for the polling fallback.
	List(ctx context.Context, requestID uuid.UUID, afterID int64) ([]*domain.Message, error)
}

type chatService struct {
	messageRepo repository.MessageRepository
	requestRepo repository.RequestRepository
	hub         *realtime.Hub
	log         logger.Logger
}

func NewChatService(messageRepo repository.MessageRepository, requestRepo repository.RequestRepository, hub *realtime.Hub, log logger.Logger) ChatService {
	return &chatService{
		messageRepo: messageRepo,
		requestRepo: requestRepo,
		hub:         hub,
		log:         log,
	}
}

func (s *chatService) Post(ctx context.Context, input PostMessageInput) (*domain.Message, error) {
	if input.RequestID == uuid.Nil {
		return nil, fmt.Errorf("%w: missing request_id", apperrors.ErrValidation)
	}

	body := domain.NormalizeBody(input.Text, input.MessageText, input.Content)
	if body == "" {
		return nil, fmt.Errorf("%w: missing message body", apperrors.ErrValidation)
	}

	request, err := s.requestRepo.GetByID(ctx, input.RequestID)
	if err != nil {
		return nil, err
	}

	role := domain.NormalizeRole(input.SenderRole, domain.RoleCustomer)

	message := &domain.Message{
		RequestID:  request.ID,
		SenderID:   strings.TrimSpace(input.SenderID),
		SenderName: strings.TrimSpace(input.SenderName),
		SenderRole: role,
		Body:       body,
		Source:     strings.TrimSpace(input.Source),
	}
	s.applySenderDefaults(message, request)

	if err := s.messageRepo.Create(ctx, message); err != nil {
		return nil, err
	}

	s.hub.Publish(message)

	return message, nil
}

func (s *chatService) List(ctx context.Context, requestID uuid.UUID, afterID int64) ([]*domain.Message, error) {
	if requestID == uuid.Nil {
		return nil, fmt.Errorf("%w: missing request_id", apperrors.ErrValidation)
	}
	return s.messageRepo.ListAfter(ctx, requestID, afterID)
}

// applySenderDefaults fills empty sender descriptors from the owning
// request: claimant fields for the operator side, contact fields for the
// requester side.
func (s *chatService) applySenderDefaults(message *domain.Message, request *domain.Request) {
	switch message.SenderRole {
	case domain.RoleAgent:
		if message.SenderID == "" && request.ClaimedByID != nil {
			message.SenderID = *request.ClaimedByID
		}
		if message.SenderName == "" {
			if name := request.Claimant(); name != "" {
				message.SenderName = name
			} else {
				message.SenderName = "Operations"
			}
		}
		if message.Source == "" {
			message.Source = domain.SourceSlackBridge
		}
	default:
		if message.SenderID == "" {
			message.SenderID = domain.SenderCustomer
		}
		if message.SenderName == "" {
			switch {
			case request.ContactName != "":
				message.SenderName = request.ContactName
			case request.ContactEmail != "":
				message.SenderName = request.ContactEmail
			default:
				message.SenderName = "Customer"
			}
		}
		if message.Source == "" {
			message.Source = domain.SourceDashboard
		}
	}
}
