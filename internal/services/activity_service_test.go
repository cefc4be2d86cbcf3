package services_test

import (
	"testing"

	"pasar/internal/models"
	"pasar/internal/services"

	"github.com/stretchr/testify/assert"
)

func TestRecordAppendsActivity(t *testing.T) {
	recorder, activityRepo, _, _ := newTestRecorder()

	id := recorder.Record(services.Event{
		ActorID:     "user-1",
		Type:        models.ActivityLogin,
		Description: "User logged in",
		Origin:      services.Origin{IP: "10.0.0.1", UserAgent: "test-agent"},
	})

	assert.NotEmpty(t, id)
	assert.Len(t, activityRepo.activities, 1)
	assert.Equal(t, models.ActivityLogin, activityRepo.activities[0].ActivityType)
	assert.Equal(t, "10.0.0.1", activityRepo.activities[0].IPAddress)
	assert.Equal(t, "test-agent", activityRepo.activities[0].UserAgent)
}

func TestRecordSwallowsAppendFailure(t *testing.T) {
	activityRepo := &memActivityRepo{failAppend: true}
	notificationRepo := &memNotificationRepo{}
	recorder := services.NewActivityService(activityRepo, notificationRepo, nil)

	id := recorder.Record(services.Event{
		ActorID: "user-1",
		Type:    models.ActivityLogin,
	})

	// The failure is logged and swallowed, and no fan-out happens
	assert.Empty(t, id)
	assert.Empty(t, notificationRepo.notifications)
}

func TestFanOutMessageSend(t *testing.T) {
	recorder, _, notificationRepo, dispatcher := newTestRecorder()

	conversation := &models.Conversation{
		ID: "conv-1",
		Participants: []models.ConversationParticipant{
			{ConversationID: "conv-1", UserID: "sender"},
			{ConversationID: "conv-1", UserID: "user-2"},
			{ConversationID: "conv-1", UserID: "user-3"},
		},
	}

	recorder.Record(services.Event{
		ActorID:      "sender",
		Type:         models.ActivityMessageSend,
		Description:  "hello",
		Conversation: conversation,
	})

	// Every participant except the sender gets one notification
	assert.Len(t, notificationRepo.notifications, 2)
	recipients := map[string]bool{}
	for _, n := range notificationRepo.notifications {
		recipients[n.RecipientID] = true
		assert.Equal(t, models.NotificationMessage, n.NotificationType)
		assert.Equal(t, "sender", n.SenderID)
		assert.Equal(t, "conv-1", n.ConversationID)
	}
	assert.True(t, recipients["user-2"])
	assert.True(t, recipients["user-3"])
	assert.False(t, recipients["sender"])

	// Each stored notification is handed to the delivery worker
	assert.Len(t, dispatcher.events, 2)
}

func TestFanOutProductEvents(t *testing.T) {
	recorder, _, notificationRepo, _ := newTestRecorder()
	product := &models.Product{ID: "prod-1", Title: "Bike", SellerID: "seller-1"}

	recorder.Record(services.Event{ActorID: "buyer", Type: models.ActivityProductLike, Product: product})
	recorder.Record(services.Event{ActorID: "seller-1", Type: models.ActivityProductSold, Product: product})
	recorder.Record(services.Event{ActorID: "buyer", Type: models.ActivityReviewCreate, Product: product})

	assert.Len(t, notificationRepo.notifications, 3)
	types := []string{}
	for _, n := range notificationRepo.notifications {
		assert.Equal(t, "seller-1", n.RecipientID)
		assert.Equal(t, "prod-1", n.ProductID)
		types = append(types, n.NotificationType)
	}
	assert.ElementsMatch(t, []string{
		models.NotificationProductLike,
		models.NotificationProductSold,
		models.NotificationReview,
	}, types)
}

func TestFanOutSilentTypes(t *testing.T) {
	recorder, activityRepo, notificationRepo, dispatcher := newTestRecorder()

	silent := []string{
		models.ActivityLogin,
		models.ActivityLogout,
		models.ActivityRegistration,
		models.ActivityProfileUpdate,
		models.ActivityPasswordChange,
		models.ActivityProductView,
		models.ActivityProductCreate,
	}
	for _, activityType := range silent {
		recorder.Record(services.Event{ActorID: "user-1", Type: activityType})
	}

	assert.Len(t, activityRepo.activities, len(silent))
	assert.Empty(t, notificationRepo.notifications)
	assert.Empty(t, dispatcher.events)
}

func TestFanOutSurvivesDispatchFailure(t *testing.T) {
	activityRepo := &memActivityRepo{}
	notificationRepo := &memNotificationRepo{}
	dispatcher := &memDispatcher{fail: true}
	recorder := services.NewActivityService(activityRepo, notificationRepo, dispatcher)

	product := &models.Product{ID: "prod-1", Title: "Bike", SellerID: "seller-1"}
	id := recorder.Record(services.Event{ActorID: "buyer", Type: models.ActivityProductLike, Product: product})

	// The notification is stored even though the broker publish failed
	assert.NotEmpty(t, id)
	assert.Len(t, notificationRepo.notifications, 1)
}

func TestNotifySystem(t *testing.T) {
	recorder, _, notificationRepo, dispatcher := newTestRecorder()

	recorder.NotifySystem("user-1", "Welcome", "Thanks for joining")

	assert.Len(t, notificationRepo.notifications, 1)
	n := notificationRepo.notifications[0]
	assert.Equal(t, models.NotificationSystem, n.NotificationType)
	assert.Equal(t, "user-1", n.RecipientID)
	assert.Empty(t, n.SenderID)
	assert.Len(t, dispatcher.events, 1)
	assert.Equal(t, n.ID, dispatcher.events[0].NotificationID)
}

func TestListForUser(t *testing.T) {
	recorder, _, _, _ := newTestRecorder()

	recorder.Record(services.Event{ActorID: "user-1", Type: models.ActivityLogin})
	recorder.Record(services.Event{ActorID: "user-1", Type: models.ActivityLogout})
	recorder.Record(services.Event{ActorID: "user-2", Type: models.ActivityLogin})

	actor := &models.User{ID: "user-1"}
	activities, err := recorder.ListForUser(actor, 50)
	assert.NoError(t, err)
	assert.Len(t, activities, 2)

	// Anonymous callers cannot read the log
	_, err = recorder.ListForUser(nil, 50)
	assert.Error(t, err)
}
