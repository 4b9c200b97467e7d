package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/julienmoreau/chantier-api/models"
)

func setupDispatchTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	// Auto-migrate all models
	if err := db.AutoMigrate(&models.User{}, &models.Lot{}, &models.Message{},
		&models.Notification{}, &models.SMSLog{}); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return db
}

func seedDispatchFixtures(t *testing.T, db *gorm.DB) (models.Lot, models.User, models.User) {
	lot := models.Lot{Number: 3, Name: "Gros oeuvre", Status: "active"}
	db.Create(&lot)

	sender := models.User{
		Auth0ID: "auth0|sender",
		Name:    "Alice Durand",
		Email:   "alice@example.com",
	}
	db.Create(&sender)

	recipient := models.User{
		Auth0ID:          "auth0|recipient",
		Name:             "Bob Martin",
		Email:            "bob@example.com",
		PhoneNumber:      "0612345678",
		SMSNotifications: true,
	}
	db.Create(&recipient)

	return lot, sender, recipient
}

func TestDispatchCreatesMessageNotificationAndSMSLog(t *testing.T) {
	db := setupDispatchTestDB(t)
	lot, sender, recipient := seedDispatchFixtures(t, db)

	mock := NewMockSMSService()
	svc := NewDispatchService(db, mock, "33")

	result, err := svc.Dispatch(context.Background(), DispatchInput{
		LotID:       lot.ID,
		SenderID:    sender.ID,
		RecipientID: recipient.ID,
		Subject:     "Concrete delivery tomorrow",
		Content:     "The truck arrives at 8am, please confirm access.",
		Urgency:     "high",
	})
	assert.NoError(t, err)
	assert.NotNil(t, result.Message)
	assert.NotNil(t, result.Notification)
	assert.NotNil(t, result.SMS)

	// Notification is linked to the message, unread, urgency copied
	assert.NotNil(t, result.Notification.RelatedMessageID)
	assert.Equal(t, result.Message.ID, *result.Notification.RelatedMessageID)
	assert.Equal(t, recipient.ID, result.Notification.UserID)
	assert.False(t, result.Notification.Read)
	assert.Equal(t, "high", result.Notification.Urgency)
	assert.Contains(t, result.Notification.Text, "🚨")
	assert.Contains(t, result.Notification.Text, "Alice Durand")

	// The SMS went to the normalized number with the SMS body
	sent := mock.SentMessages()
	assert.Len(t, sent, 1)
	assert.Equal(t, "+33612345678", sent[0].To)
	assert.Contains(t, sent[0].Text, "[Lot ")

	// One audit row with status sent, keeping the stored (raw) phone
	var smsLogs []models.SMSLog
	db.Find(&smsLogs)
	assert.Len(t, smsLogs, 1)
	assert.Equal(t, models.SMSStatusSent, smsLogs[0].Status)
	assert.Equal(t, "0612345678", smsLogs[0].PhoneNumber)
	assert.Equal(t, result.Message.ID, smsLogs[0].MessageID)
}

func TestDispatchSkipsSMSWithoutOptIn(t *testing.T) {
	db := setupDispatchTestDB(t)
	lot, sender, recipient := seedDispatchFixtures(t, db)

	// Recipient has a valid phone but never opted in
	db.Model(&recipient).Update("sms_notifications", false)

	mock := NewMockSMSService()
	svc := NewDispatchService(db, mock, "33")

	result, err := svc.Dispatch(context.Background(), DispatchInput{
		LotID:       lot.ID,
		SenderID:    sender.ID,
		RecipientID: recipient.ID,
		Subject:     "Progress update",
		Content:     "Second floor slab poured.",
		Urgency:     "normal",
	})
	assert.NoError(t, err)
	assert.NotNil(t, result.Message)
	assert.NotNil(t, result.Notification)
	assert.Nil(t, result.SMS, "SMS outcome should be absent when skipped")

	assert.Empty(t, mock.SentMessages())

	var count int64
	db.Model(&models.SMSLog{}).Count(&count)
	assert.Equal(t, int64(0), count, "no audit row without opt-in")
}

func TestDispatchSkipsSMSWithInvalidPhone(t *testing.T) {
	db := setupDispatchTestDB(t)
	lot, sender, recipient := seedDispatchFixtures(t, db)

	// Opted in, but the stored number is too short to be deliverable
	db.Model(&recipient).Update("phone_number", "123")

	mock := NewMockSMSService()
	svc := NewDispatchService(db, mock, "33")

	result, err := svc.Dispatch(context.Background(), DispatchInput{
		LotID:       lot.ID,
		SenderID:    sender.ID,
		RecipientID: recipient.ID,
		Subject:     "Progress update",
		Content:     "Scaffolding removed.",
		Urgency:     "low",
	})
	assert.NoError(t, err)
	assert.Nil(t, result.SMS)
	assert.Empty(t, mock.SentMessages())

	var count int64
	db.Model(&models.SMSLog{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestDispatchRecordsProviderFailureAndCommits(t *testing.T) {
	db := setupDispatchTestDB(t)
	lot, sender, recipient := seedDispatchFixtures(t, db)

	mock := NewMockSMSService()
	mock.FailNext = true
	svc := NewDispatchService(db, mock, "33")

	// A provider failure is audited, not escalated: the message and the
	// notification still commit
	result, err := svc.Dispatch(context.Background(), DispatchInput{
		LotID:       lot.ID,
		SenderID:    sender.ID,
		RecipientID: recipient.ID,
		Subject:     "Water leak in basement",
		Content:     "Please send the plumber today.",
		Urgency:     "high",
	})
	assert.NoError(t, err)
	assert.NotNil(t, result.SMS)
	assert.False(t, result.SMS.Success)

	var messageCount, notificationCount int64
	db.Model(&models.Message{}).Count(&messageCount)
	db.Model(&models.Notification{}).Count(&notificationCount)
	assert.Equal(t, int64(1), messageCount)
	assert.Equal(t, int64(1), notificationCount)

	var smsLog models.SMSLog
	assert.NoError(t, db.First(&smsLog).Error)
	assert.Equal(t, models.SMSStatusFailed, smsLog.Status)
}

func TestDispatchRecordsSimulatedDelivery(t *testing.T) {
	db := setupDispatchTestDB(t)
	lot, sender, recipient := seedDispatchFixtures(t, db)

	mock := NewMockSMSService()
	mock.Simulate = true
	svc := NewDispatchService(db, mock, "33")

	result, err := svc.Dispatch(context.Background(), DispatchInput{
		LotID:       lot.ID,
		SenderID:    sender.ID,
		RecipientID: recipient.ID,
		Subject:     "Weekly report",
		Content:     "Everything on schedule.",
		Urgency:     "normal",
	})
	assert.NoError(t, err)
	assert.True(t, result.SMS.Simulated)

	var smsLog models.SMSLog
	assert.NoError(t, db.First(&smsLog).Error)
	assert.Equal(t, models.SMSStatusSimulated, smsLog.Status,
		"a simulated delivery must be audited as simulated, not sent")
}

func TestDispatchRejectsInvalidUrgencyBeforeWriting(t *testing.T) {
	db := setupDispatchTestDB(t)
	lot, sender, recipient := seedDispatchFixtures(t, db)

	svc := NewDispatchService(db, NewMockSMSService(), "33")

	_, err := svc.Dispatch(context.Background(), DispatchInput{
		LotID:       lot.ID,
		SenderID:    sender.ID,
		RecipientID: recipient.ID,
		Subject:     "Test",
		Content:     "Test",
		Urgency:     "critical",
	})

	var validationErr *ValidationError
	assert.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "urgency", validationErr.Field)

	var count int64
	db.Model(&models.Message{}).Count(&count)
	assert.Equal(t, int64(0), count, "no write may happen on invalid urgency")
}

func TestDispatchFailsWhenRecipientMissing(t *testing.T) {
	db := setupDispatchTestDB(t)
	lot, sender, _ := seedDispatchFixtures(t, db)

	svc := NewDispatchService(db, NewMockSMSService(), "33")

	_, err := svc.Dispatch(context.Background(), DispatchInput{
		LotID:       lot.ID,
		SenderID:    sender.ID,
		RecipientID: 999,
		Subject:     "Test",
		Content:     "Test",
		Urgency:     "normal",
	})

	var notFoundErr *NotFoundError
	assert.ErrorAs(t, err, &notFoundErr)
	assert.Equal(t, "recipient", notFoundErr.Resource)

	// The already-inserted message must be rolled back with the rest
	var messageCount, notificationCount int64
	db.Model(&models.Message{}).Count(&messageCount)
	db.Model(&models.Notification{}).Count(&notificationCount)
	assert.Equal(t, int64(0), messageCount)
	assert.Equal(t, int64(0), notificationCount)
}

func TestDispatchFailsWhenLotMissing(t *testing.T) {
	db := setupDispatchTestDB(t)
	_, sender, recipient := seedDispatchFixtures(t, db)

	svc := NewDispatchService(db, NewMockSMSService(), "33")

	_, err := svc.Dispatch(context.Background(), DispatchInput{
		LotID:       999,
		SenderID:    sender.ID,
		RecipientID: recipient.ID,
		Subject:     "Test",
		Content:     "Test",
		Urgency:     "normal",
	})

	var notFoundErr *NotFoundError
	assert.ErrorAs(t, err, &notFoundErr)
	assert.Equal(t, "lot", notFoundErr.Resource)
}

func TestDispatchRollsBackOnPersistenceFailure(t *testing.T) {
	db := setupDispatchTestDB(t)
	lot, sender, recipient := seedDispatchFixtures(t, db)

	// Force the SMS audit insert (the last write of the sequence) to fail
	if err := db.Migrator().DropTable(&models.SMSLog{}); err != nil {
		t.Fatalf("Failed to drop sms_logs: %v", err)
	}

	svc := NewDispatchService(db, NewMockSMSService(), "33")

	_, err := svc.Dispatch(context.Background(), DispatchInput{
		LotID:       lot.ID,
		SenderID:    sender.ID,
		RecipientID: recipient.ID,
		Subject:     "Doomed dispatch",
		Content:     "This must leave no trace.",
		Urgency:     "high",
	})
	assert.Error(t, err)

	// Message and notification written before the failure are gone too
	var messageCount, notificationCount int64
	db.Model(&models.Message{}).Count(&messageCount)
	db.Model(&models.Notification{}).Count(&notificationCount)
	assert.Equal(t, int64(0), messageCount)
	assert.Equal(t, int64(0), notificationCount)
}

func TestDispatchRollsBackOnCancelledContext(t *testing.T) {
	db := setupDispatchTestDB(t)
	lot, sender, recipient := seedDispatchFixtures(t, db)

	mock := NewMockSMSService()
	svc := NewDispatchService(db, mock, "33")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Dispatch(ctx, DispatchInput{
		LotID:       lot.ID,
		SenderID:    sender.ID,
		RecipientID: recipient.ID,
		Subject:     "Abandoned dispatch",
		Content:     "The caller went away before commit.",
		Urgency:     "high",
	})
	assert.Error(t, err)

	// A cancelled dispatch leaves no partial rows behind
	var messageCount, notificationCount, smsLogCount int64
	db.Model(&models.Message{}).Count(&messageCount)
	db.Model(&models.Notification{}).Count(&notificationCount)
	db.Model(&models.SMSLog{}).Count(&smsLogCount)
	assert.Equal(t, int64(0), messageCount)
	assert.Equal(t, int64(0), notificationCount)
	assert.Equal(t, int64(0), smsLogCount)

	// The provider was never reached
	assert.Empty(t, mock.SentMessages())
}

func TestMarkNotificationRead(t *testing.T) {
	db := setupDispatchTestDB(t)
	lot, sender, recipient := seedDispatchFixtures(t, db)

	svc := NewDispatchService(db, NewMockSMSService(), "33")
	result, err := svc.Dispatch(context.Background(), DispatchInput{
		LotID:       lot.ID,
		SenderID:    sender.ID,
		RecipientID: recipient.ID,
		Subject:     "Read me",
		Content:     "Please acknowledge.",
		Urgency:     "normal",
	})
	assert.NoError(t, err)
	notificationID := result.Notification.ID

	// First acknowledgment flips the flag and sets the timestamp
	first, err := MarkNotificationRead(db, notificationID, recipient.ID)
	assert.NoError(t, err)
	assert.True(t, first.Read)
	assert.NotNil(t, first.ReadAt)

	// A repeat acknowledgment succeeds without touching read_at
	second, err := MarkNotificationRead(db, notificationID, recipient.ID)
	assert.NoError(t, err)
	assert.True(t, second.Read)
	assert.NotNil(t, second.ReadAt)
	assert.True(t, first.ReadAt.Equal(*second.ReadAt),
		"repeat acknowledgment must keep the original read timestamp")
}

func TestMarkNotificationReadHidesOtherUsersNotifications(t *testing.T) {
	db := setupDispatchTestDB(t)
	lot, sender, recipient := seedDispatchFixtures(t, db)

	svc := NewDispatchService(db, NewMockSMSService(), "33")
	result, err := svc.Dispatch(context.Background(), DispatchInput{
		LotID:       lot.ID,
		SenderID:    sender.ID,
		RecipientID: recipient.ID,
		Subject:     "Private",
		Content:     "For Bob only.",
		Urgency:     "normal",
	})
	assert.NoError(t, err)

	// The sender is not the target: the notification must look nonexistent
	_, err = MarkNotificationRead(db, result.Notification.ID, sender.ID)
	var notFoundErr *NotFoundError
	assert.ErrorAs(t, err, &notFoundErr)
}
