package services

import (
	"context"

	"github.com/leasegrow/leasegrow-api/internal/models"
	"github.com/leasegrow/leasegrow-api/internal/repository"
)

type NotificationService struct {
	repo        repository.NotificationRepository
	accountRepo repository.AccountRepository
}

func NewNotificationService(repo repository.NotificationRepository, accountRepo repository.AccountRepository) *NotificationService {
	return &NotificationService{repo: repo, accountRepo: accountRepo}
}

func (s *NotificationService) FindByAccount(ctx context.Context, accountID uint, unreadOnly bool, query *repository.ListQuery) ([]models.Notification, int64, error) {
	return s.repo.FindByAccount(ctx, accountID, unreadOnly, query)
}

func (s *NotificationService) CountUnread(ctx context.Context, accountID uint) (int64, error) {
	return s.repo.CountUnread(ctx, accountID)
}

func (s *NotificationService) MarkAsRead(ctx context.Context, id, accountID uint) error {
	ok, err := s.repo.MarkRead(ctx, id, accountID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

func (s *NotificationService) MarkAllAsRead(ctx context.Context, accountID uint) error {
	_, err := s.repo.MarkAllRead(ctx, accountID)
	return err
}

func (s *NotificationService) NotifyAccount(ctx context.Context, accountID uint, title, message, notifType string) error {
	notification := &models.Notification{
		AccountID:        accountID,
		Title:            title,
		Message:          message,
		NotificationType: &notifType,
	}
	return s.repo.Create(ctx, notification)
}

// NotifyManagers fans a notification out to every active manager and admin
func (s *NotificationService) NotifyManagers(ctx context.Context, title, message, notifType string) error {
	managers, err := s.accountRepo.FindManagers(ctx)
	if err != nil {
		return err
	}
	notifications := make([]models.Notification, 0, len(managers))
	for _, manager := range managers {
		notifications = append(notifications, models.Notification{
			AccountID:        manager.ID,
			Title:            title,
			Message:          message,
			NotificationType: &notifType,
		})
	}
	return s.repo.CreateBatch(ctx, notifications)
}
