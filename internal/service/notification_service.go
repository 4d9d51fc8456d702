package service

import (
	"context"

	"github.com/takebay/auction-backend/internal/model"
	"github.com/takebay/auction-backend/internal/repository"
	"go.uber.org/zap"
)

type NotificationService interface {
	Notify(ctx context.Context, userUID, typ, title, body string, auctionID, escrowID, paymentID *uint64)
	List(ctx context.Context, userUID string, unreadOnly bool, limit int) ([]model.Notification, int64, error)
	MarkAllRead(ctx context.Context, userUID string) error
}

type notificationService struct {
	repo repository.NotificationRepository
	log  *zap.Logger
}

func NewNotificationService(repo repository.NotificationRepository, log *zap.Logger) NotificationService {
	return &notificationService{repo: repo, log: log}
}

// Notify is best-effort and runs after the settlement transaction commits; a
// failed notification is logged as a warning, never surfaced as a settlement
// failure.
func (s *notificationService) Notify(ctx context.Context, userUID, typ, title, body string, auctionID, escrowID, paymentID *uint64) {
	if userUID == "" || typ == "" {
		return
	}
	n := &model.Notification{
		UserUID:   userUID,
		Type:      typ,
		Title:     title,
		Body:      body,
		AuctionID: auctionID,
		EscrowID:  escrowID,
		PaymentID: paymentID,
	}
	if err := s.repo.Create(ctx, n); err != nil {
		s.log.Warn("notification dropped",
			zap.String("user_uid", userUID),
			zap.String("type", typ),
			zap.Error(err))
	}
}

func (s *notificationService) List(ctx context.Context, userUID string, unreadOnly bool, limit int) ([]model.Notification, int64, error) {
	if userUID == "" {
		return nil, 0, nil
	}
	list, err := s.repo.ListByUser(ctx, userUID, unreadOnly, limit)
	if err != nil {
		return nil, 0, err
	}
	cnt, err := s.repo.CountUnread(ctx, userUID)
	if err != nil {
		return list, 0, err
	}
	return list, cnt, nil
}

func (s *notificationService) MarkAllRead(ctx context.Context, userUID string) error {
	if userUID == "" {
		return nil
	}
	return s.repo.MarkAllRead(ctx, userUID)
}

func uint64Ptr(v uint64) *uint64 {
	return &v
}
