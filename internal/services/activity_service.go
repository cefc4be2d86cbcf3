package services

import (
	"fmt"
	"log"

	"pasar/internal/models"
	"pasar/internal/repositories"
	"pasar/pkg/rabbitmq"
)

// Origin carries the request metadata stored with each activity.
type Origin struct {
	IP        string
	UserAgent string
}

// NotificationDispatcher hands created notifications to the external
// delivery collaborator (email/SMS/push). Failures are logged, never
// propagated.
type NotificationDispatcher interface {
	PublishNotification(event rabbitmq.DispatchEvent) error
}

// Event is one user action to record. The optional Product, Conversation
// and RecipientID fields feed the notification fan-out for the activity
// types that have one.
type Event struct {
	ActorID     string
	Type        string
	Description string
	Origin      Origin
	Metadata    map[string]string

	Product      *models.Product
	Conversation *models.Conversation
	RecipientID  string
}

// ActivityService is the event recorder: it appends immutable activity
// records and derives notifications from a fixed subset of them.
type ActivityService struct {
	activityRepo     repositories.ActivityRepository
	notificationRepo repositories.NotificationRepository
	dispatcher       NotificationDispatcher
}

// NewActivityService creates a new ActivityService. The dispatcher may be
// nil, in which case notifications are stored but not pushed to the
// delivery worker.
func NewActivityService(activityRepo repositories.ActivityRepository, notificationRepo repositories.NotificationRepository, dispatcher NotificationDispatcher) *ActivityService {
	return &ActivityService{
		activityRepo:     activityRepo,
		notificationRepo: notificationRepo,
		dispatcher:       dispatcher,
	}
}

// Record appends the activity and fans out notifications where the type
// calls for it. The event log is best-effort: recording must never fail
// the business operation that triggered it, so every failure here is
// logged and swallowed. Returns the activity id, empty when the append
// failed.
func (s *ActivityService) Record(ev Event) string {
	activity := &models.Activity{
		UserID:       ev.ActorID,
		ActivityType: ev.Type,
		Description:  ev.Description,
		IPAddress:    ev.Origin.IP,
		UserAgent:    ev.Origin.UserAgent,
		Metadata:     ev.Metadata,
	}
	if err := s.activityRepo.Append(activity); err != nil {
		log.Printf("Warning: failed to record %s activity for user %s: %v", ev.Type, ev.ActorID, err)
		return ""
	}

	s.fanOut(ev)
	return activity.ID
}

// ListForUser returns the actor's own activity log, newest first.
func (s *ActivityService) ListForUser(actor *models.User, limit int) ([]models.Activity, error) {
	if err := (Guard{}).Authorize(actor, Action{Resource: "activity", Op: OpRead}); err != nil {
		return nil, err
	}
	return s.activityRepo.ListByUser(actor.ID, limit)
}

// fanOut maps the fixed set of activity types to notification creation.
// All other types (login, logout, profile updates, verification, ...)
// deliberately produce none.
func (s *ActivityService) fanOut(ev Event) {
	switch ev.Type {
	case models.ActivityMessageSend:
		if ev.Conversation == nil {
			return
		}
		for _, participantID := range ev.Conversation.ParticipantIDs() {
			if participantID == ev.ActorID {
				continue
			}
			s.notify(&models.Notification{
				RecipientID:      participantID,
				SenderID:         ev.ActorID,
				NotificationType: models.NotificationMessage,
				Title:            "New message",
				Message:          ev.Description,
				ProductID:        ev.Conversation.ProductID,
				ConversationID:   ev.Conversation.ID,
			})
		}
	case models.ActivityProductLike:
		if ev.Product == nil {
			return
		}
		s.notify(&models.Notification{
			RecipientID:      ev.Product.SellerID,
			SenderID:         ev.ActorID,
			NotificationType: models.NotificationProductLike,
			Title:            "Product liked",
			Message:          fmt.Sprintf("Someone liked %q", ev.Product.Title),
			ProductID:        ev.Product.ID,
		})
	case models.ActivityProductSold:
		if ev.Product == nil {
			return
		}
		s.notify(&models.Notification{
			RecipientID:      ev.Product.SellerID,
			SenderID:         ev.ActorID,
			NotificationType: models.NotificationProductSold,
			Title:            "Product sold",
			Message:          fmt.Sprintf("%q was marked as sold", ev.Product.Title),
			ProductID:        ev.Product.ID,
		})
	case models.ActivityReviewCreate:
		if ev.Product == nil {
			return
		}
		s.notify(&models.Notification{
			RecipientID:      ev.Product.SellerID,
			SenderID:         ev.ActorID,
			NotificationType: models.NotificationReview,
			Title:            "New review",
			Message:          fmt.Sprintf("New review on %q", ev.Product.Title),
			ProductID:        ev.Product.ID,
		})
	}
}

// NotifySystem creates a system broadcast notification for one recipient.
// Best-effort like the rest of the pipeline.
func (s *ActivityService) NotifySystem(recipientID, title, message string) {
	s.notify(&models.Notification{
		RecipientID:      recipientID,
		NotificationType: models.NotificationSystem,
		Title:            title,
		Message:          message,
	})
}

func (s *ActivityService) notify(n *models.Notification) {
	if err := s.notificationRepo.Create(n); err != nil {
		log.Printf("Warning: failed to create %s notification for %s: %v", n.NotificationType, n.RecipientID, err)
		return
	}
	if s.dispatcher == nil {
		return
	}
	// Fire-and-forget: delivery failure must not surface to the request.
	err := s.dispatcher.PublishNotification(rabbitmq.DispatchEvent{
		NotificationID: n.ID,
		RecipientID:    n.RecipientID,
		TemplateID:     n.NotificationType,
		Context: map[string]any{
			"title":   n.Title,
			"message": n.Message,
		},
	})
	if err != nil {
		log.Printf("Warning: failed to publish dispatch event for notification %s: %v", n.ID, err)
	}
}
