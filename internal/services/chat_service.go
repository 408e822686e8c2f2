package services

import (
	"context"
	"errors"
	"strings"

	"github.com/leasegrow/leasegrow-api/internal/events"
	"github.com/leasegrow/leasegrow-api/internal/models"
	"github.com/leasegrow/leasegrow-api/internal/repository"
	"gorm.io/gorm"
)

// ChatService handles the message threads attached to lease requests
// and maintenance requests. A thread is readable and writable by the
// owning client and by managers; closed threads reject new messages.
type ChatService struct {
	repo            repository.ChatRepository
	requestRepo     repository.LeaseRequestRepository
	maintenanceRepo repository.MaintenanceRepository
	accountRepo     repository.AccountRepository
	publisher       events.Publisher
}

func NewChatService(
	repo repository.ChatRepository,
	requestRepo repository.LeaseRequestRepository,
	maintenanceRepo repository.MaintenanceRepository,
	accountRepo repository.AccountRepository,
	publisher events.Publisher,
) *ChatService {
	return &ChatService{
		repo:            repo,
		requestRepo:     requestRepo,
		maintenanceRepo: maintenanceRepo,
		accountRepo:     accountRepo,
		publisher:       publisher,
	}
}

// RequestMessages returns the lease request thread for a participant
func (s *ChatService) RequestMessages(ctx context.Context, requestID, actorID uint, afterID uint) ([]models.ChatMessage, error) {
	actor, err := s.findActor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	request, err := s.findRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if !s.mayAccessRequest(request, actor) {
		return nil, ErrNotOwner
	}
	return s.repo.FindRequestMessages(ctx, requestID, afterID)
}

// PostRequestMessage appends a message to a lease request thread and
// fans it out to subscribers
func (s *ChatService) PostRequestMessage(ctx context.Context, requestID, actorID uint, text string) (*models.ChatMessage, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyMessage
	}

	actor, err := s.findActor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	request, err := s.findRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if !s.mayAccessRequest(request, actor) {
		return nil, ErrNotOwner
	}
	// Rejected and cancelled requests keep their history readable but
	// accept no new messages
	if request.Status == models.LeaseRequestStatusRejected ||
		request.Status == models.LeaseRequestStatusCancelled {
		return nil, ErrRequestClosed
	}

	message := &models.ChatMessage{
		LeaseRequestID: requestID,
		SenderID:       actor.ID,
		Text:           text,
	}
	if err := s.repo.CreateRequestMessage(ctx, message); err != nil {
		return nil, err
	}

	if s.publisher != nil {
		s.publisher.Publish(ctx, events.RequestTopic(requestID),
			events.NewEvent(events.KindChatMessage, message.ID, map[string]any{
				"sender_id":   actor.ID,
				"sender_name": actor.DisplayName(),
				"text":        text,
			}))
	}

	return message, nil
}

// MaintenanceMessages returns a maintenance thread for a participant
func (s *ChatService) MaintenanceMessages(ctx context.Context, maintenanceID, actorID uint, afterID uint) ([]models.MaintenanceChatMessage, error) {
	actor, err := s.findActor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	request, err := s.findMaintenance(ctx, maintenanceID)
	if err != nil {
		return nil, err
	}
	if !s.mayAccessMaintenance(request, actor) {
		return nil, ErrNotOwner
	}
	return s.repo.FindMaintenanceMessages(ctx, maintenanceID, afterID)
}

// PostMaintenanceMessage appends a message to a maintenance thread
func (s *ChatService) PostMaintenanceMessage(ctx context.Context, maintenanceID, actorID uint, text string) (*models.MaintenanceChatMessage, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyMessage
	}

	actor, err := s.findActor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	request, err := s.findMaintenance(ctx, maintenanceID)
	if err != nil {
		return nil, err
	}
	if !s.mayAccessMaintenance(request, actor) {
		return nil, ErrNotOwner
	}
	if request.IsClosed() {
		return nil, ErrRequestClosed
	}

	message := &models.MaintenanceChatMessage{
		MaintenanceRequestID: maintenanceID,
		SenderID:             actor.ID,
		Text:                 text,
	}
	if err := s.repo.CreateMaintenanceMessage(ctx, message); err != nil {
		return nil, err
	}

	if s.publisher != nil {
		s.publisher.Publish(ctx, events.MaintenanceTopic(maintenanceID),
			events.NewEvent(events.KindChatMessage, message.ID, map[string]any{
				"sender_id":   actor.ID,
				"sender_name": actor.DisplayName(),
				"text":        text,
			}))
	}

	return message, nil
}

func (s *ChatService) findActor(ctx context.Context, id uint) (*models.Account, error) {
	account, err := s.accountRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return account, nil
}

func (s *ChatService) findRequest(ctx context.Context, id uint) (*models.LeaseRequest, error) {
	request, err := s.requestRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return request, nil
}

func (s *ChatService) findMaintenance(ctx context.Context, id uint) (*models.MaintenanceRequest, error) {
	request, err := s.maintenanceRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return request, nil
}

func (s *ChatService) mayAccessRequest(request *models.LeaseRequest, actor *models.Account) bool {
	return actor.IsPrivileged() || request.IsOwnedBy(actor.ID)
}

func (s *ChatService) mayAccessMaintenance(request *models.MaintenanceRequest, actor *models.Account) bool {
	return actor.IsPrivileged() || request.IsOwnedBy(actor.ID)
}
