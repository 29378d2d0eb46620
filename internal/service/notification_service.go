package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"copyforge-be/internal/dto"
	"copyforge-be/internal/entity"
	"copyforge-be/internal/pkg/logger"
	"copyforge-be/internal/pkg/mailer"
	"copyforge-be/internal/repository/contract"
	"copyforge-be/internal/repository/specification"
	"copyforge-be/internal/websocket"
	"copyforge-be/pkg/apperr"
	"copyforge-be/pkg/events"
	pktNats "copyforge-be/pkg/nats"
)

type INotificationService interface {
	// Start begins consuming the event bus. Call once from bootstrap.
	Start()

	List(ctx context.Context, userId uuid.UUID) ([]*dto.NotificationResponse, error)
	MarkRead(ctx context.Context, userId uuid.UUID, id uuid.UUID) error
}

// notificationService turns job lifecycle events into persisted inbox
// rows, websocket pushes, and completion/failure mail. It also kicks off
// the async session rename once a job finishes.
type notificationService struct {
	repo       contract.NotificationRepository
	subscriber *pktNats.Subscriber
	hub        *websocket.Hub
	mail       mailer.IEmailService
	sessions   ISessionService
	logger     logger.ILogger
}

func NewNotificationService(
	repo contract.NotificationRepository,
	sub *pktNats.Subscriber,
	hub *websocket.Hub,
	mail mailer.IEmailService,
	sessions ISessionService,
	log logger.ILogger,
) INotificationService {
	return &notificationService{
		repo:       repo,
		subscriber: sub,
		hub:        hub,
		mail:       mail,
		sessions:   sessions,
		logger:     log,
	}
}

func (s *notificationService) Start() {
	err := s.subscriber.Subscribe("events.>", "copyforge-notif-worker", s.handleEvent)
	if err != nil {
		s.logger.Error("NotificationService", "Failed to start notification subscriber", map[string]interface{}{"error": err.Error()})
		return
	}
	s.logger.Info("NotificationService", "Notification service started, listening to events.>", nil)
}

func (s *notificationService) handleEvent(ctx context.Context, event events.Event) error {
	payload := event.Payload()
	userId, err := uuid.Parse(stringField(payload, "user_id"))
	if err != nil {
		// Malformed producer payload; retrying will not help.
		s.logger.Warn("NotificationService", "Event without valid user_id, dropping", map[string]interface{}{"type": event.EventType()})
		return nil
	}

	switch event.EventType() {
	case events.TypeJobCompleted:
		return s.onJobCompleted(ctx, userId, payload)
	case events.TypeJobFailed:
		return s.onJobFailed(ctx, userId, payload)
	default:
		return nil
	}
}

func (s *notificationService) onJobCompleted(ctx context.Context, userId uuid.UUID, payload map[string]interface{}) error {
	sessionId := stringField(payload, "session_id")

	notif := &entity.Notification{
		Id:     uuid.New(),
		UserId: userId,
		Type:   events.TypeJobCompleted,
		Title:  "Copy generation finished",
		Body:   "Your generated messaging is ready to review.",
	}
	if err := s.repo.Create(ctx, notif); err != nil {
		return err
	}

	if s.hub != nil {
		s.hub.Send(userId, "notification", notificationToResponse(notif))
	}

	if sid, err := uuid.Parse(sessionId); err == nil {
		go s.sessions.AutoName(context.Background(), sid)
	}

	s.sendMail(func(toEmail string) error {
		return s.mail.SendJobCompleted(toEmail, "your messaging session", sessionId)
	}, payload)
	return nil
}

func (s *notificationService) onJobFailed(ctx context.Context, userId uuid.UUID, payload map[string]interface{}) error {
	errMsg := stringField(payload, "error")

	notif := &entity.Notification{
		Id:     uuid.New(),
		UserId: userId,
		Type:   events.TypeJobFailed,
		Title:  "Copy generation failed",
		Body:   fmt.Sprintf("Generation did not finish: %s", errMsg),
	}
	if err := s.repo.Create(ctx, notif); err != nil {
		return err
	}

	if s.hub != nil {
		s.hub.Send(userId, "notification", notificationToResponse(notif))
	}

	s.sendMail(func(toEmail string) error {
		return s.mail.SendJobFailed(toEmail, "your messaging session", errMsg)
	}, payload)
	return nil
}

// sendMail is best effort; mail problems never nack the event.
func (s *notificationService) sendMail(send func(toEmail string) error, payload map[string]interface{}) {
	if s.mail == nil {
		return
	}
	toEmail := stringField(payload, "user_email")
	if toEmail == "" {
		return
	}
	go func() {
		if err := send(toEmail); err != nil {
			s.logger.Warn("NotificationService", "Failed to send email", map[string]interface{}{"error": err.Error()})
		}
	}()
}

func (s *notificationService) List(ctx context.Context, userId uuid.UUID) ([]*dto.NotificationResponse, error) {
	notifs, err := s.repo.FindAll(ctx,
		specification.ByUserID{UserID: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: 100, Offset: 0},
	)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.NotificationResponse, 0, len(notifs))
	for _, n := range notifs {
		res = append(res, notificationToResponse(n))
	}
	return res, nil
}

func (s *notificationService) MarkRead(ctx context.Context, userId uuid.UUID, id uuid.UUID) error {
	notifs, err := s.repo.FindAll(ctx,
		specification.ByID{ID: id},
		specification.ByUserID{UserID: userId},
	)
	if err != nil {
		return err
	}
	if len(notifs) == 0 {
		return apperr.NewNotFound("notification not found")
	}
	return s.repo.MarkRead(ctx, id)
}

func notificationToResponse(n *entity.Notification) *dto.NotificationResponse {
	return &dto.NotificationResponse{
		Id:        n.Id,
		Type:      n.Type,
		Title:     n.Title,
		Body:      n.Body,
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt,
	}
}

func stringField(payload map[string]interface{}, key string) string {
	v, _ := payload[key].(string)
	return v
}
