package service

import (
	"context"
	"sync"
	"time"

	"github.com/staynest/booking-service/internal/adapter/nats"
	"github.com/staynest/booking-service/internal/domain/entity"
	"github.com/staynest/booking-service/internal/platform/logger"
	"github.com/staynest/booking-service/internal/platform/metrics"
	"github.com/staynest/booking-service/internal/repository"
)

const (
	natsSubjectNotificationCreated = "notification.created"

	// systemSenderID marks the mirrored chat message as coming from the
	// platform, not from another user.
	systemSenderID = "system"

	dispatchQueueSize  = 256
	dispatchJobTimeout = 10 * time.Second
)

// Notifier accepts a notification for asynchronous delivery. Delivery
// failures never surface to the caller.
type Notifier interface {
	Notify(userID, content string, category entity.NotificationCategory)
}

type NotificationService interface {
	Notifier
	ListForUser(ctx context.Context, userID string) ([]entity.Notification, error)
	MarkAllRead(ctx context.Context, userID string) error
	// Start launches the dispatch worker; Stop drains the queue and waits.
	Start()
	Stop()
}

type notificationJob struct {
	UserID   string
	Content  string
	Category entity.NotificationCategory
}

type notificationService struct {
	notificationRepo repository.NotificationRepository
	messageRepo      repository.MessageRepository
	msgPublisher     nats.MessagePublisher
	metrics          *metrics.Manager
	log              logger.Logger

	jobs chan notificationJob
	wg   sync.WaitGroup
	once sync.Once
}

func NewNotificationService(
	notificationRepo repository.NotificationRepository,
	messageRepo repository.MessageRepository,
	msgPublisher nats.MessagePublisher,
	metricsManager *metrics.Manager,
	log logger.Logger,
) NotificationService {
	return &notificationService{
		notificationRepo: notificationRepo,
		messageRepo:      messageRepo,
		msgPublisher:     msgPublisher,
		metrics:          metricsManager,
		log:              log,
		jobs:             make(chan notificationJob, dispatchQueueSize),
	}
}

func (s *notificationService) Start() {
	s.wg.Add(1)
	go s.run()
}

func (s *notificationService) Stop() {
	s.once.Do(func() {
		close(s.jobs)
	})
	s.wg.Wait()
}

// Notify enqueues without blocking. A full queue drops the notification;
// the booking transition it belongs to has already been committed.
func (s *notificationService) Notify(userID, content string, category entity.NotificationCategory) {
	select {
	case s.jobs <- notificationJob{UserID: userID, Content: content, Category: category}:
		s.metrics.NotificationsDispatchedTotal.Inc()
	default:
		s.metrics.NotificationsDroppedTotal.Inc()
		s.log.Warnf("Notification dispatch queue is full, dropping notification for user %s", userID)
	}
}

func (s *notificationService) run() {
	defer s.wg.Done()
	for job := range s.jobs {
		s.deliver(job)
	}
}

func (s *notificationService) deliver(job notificationJob) {
	ctx, cancel := context.WithTimeout(context.Background(), dispatchJobTimeout)
	defer cancel()

	notification := entity.NewNotification(job.UserID, job.Content, job.Category)
	notificationID, err := s.notificationRepo.Create(ctx, notification)
	if err != nil {
		s.log.Errorf("Failed to persist notification for user %s: %v", job.UserID, err)
		return
	}
	notification.ID = notificationID

	// Mirror the notification into the user's chat so it shows up in the
	// inbox alongside regular messages.
	if message, msgErr := entity.NewMessage(systemSenderID, job.UserID, "", job.Content); msgErr == nil {
		if _, msgErr = s.messageRepo.Create(ctx, message); msgErr != nil {
			s.log.Warnf("Failed to mirror notification %s as system message: %v", notificationID, msgErr)
		}
	}

	if err := s.msgPublisher.Publish(ctx, natsSubjectNotificationCreated, notification); err != nil {
		s.log.Warnf("Failed to publish notification created event for notification %s: %v", notificationID, err)
	}

	s.log.Infof("Notification %s delivered to user %s", notificationID, job.UserID)
}

func (s *notificationService) ListForUser(ctx context.Context, userID string) ([]entity.Notification, error) {
	return s.notificationRepo.ListByUser(ctx, userID)
}

func (s *notificationService) MarkAllRead(ctx context.Context, userID string) error {
	return s.notificationRepo.MarkAllRead(ctx, userID)
}
