package services

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/julienmoreau/chantier-api/models"
	"github.com/julienmoreau/chantier-api/utils"
)

// DispatchInput carries the parameters of one send-message request
type DispatchInput struct {
	LotID       uint
	SenderID    uint
	RecipientID uint
	Subject     string
	Content     string
	Urgency     string
}

// DispatchResult bundles everything created by one dispatch
type DispatchResult struct {
	Message      *models.Message      `json:"message"`
	Notification *models.Notification `json:"notification"`
	// SMS is nil when the recipient is not SMS-eligible (no opt-in or no
	// valid phone number)
	SMS *SMSResult `json:"sms"`
}

// DispatchService orchestrates the atomic message dispatch: persist the
// message, create the recipient's internal notification and, when the
// recipient is SMS-eligible, deliver and audit an SMS — all inside one
// transaction. The gateway is injected once at construction; provider
// selection never happens per call.
type DispatchService struct {
	db          *gorm.DB
	sms         SMSInterface
	countryCode string
}

// NewDispatchService creates a dispatch service bound to a database and an
// SMS gateway
func NewDispatchService(db *gorm.DB, sms SMSInterface, countryCode string) *DispatchService {
	return &DispatchService{
		db:          db,
		sms:         sms,
		countryCode: countryCode,
	}
}

// Dispatch runs the full send-message sequence. On success exactly one
// message, one notification and zero-or-one SMS log rows exist; on any
// error nothing is persisted. A provider-level delivery failure is not an
// error: it is audited as a failed SMS log and the dispatch commits.
func (s *DispatchService) Dispatch(ctx context.Context, in DispatchInput) (*DispatchResult, error) {
	// Reject bad urgency before any write
	if !models.IsValidUrgency(in.Urgency) {
		return nil, &ValidationError{
			Field:   "urgency",
			Message: "must be one of low, normal, medium, high",
		}
	}

	result := &DispatchResult{}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// The lot must exist; a dangling lot id fails the whole dispatch
		var lot models.Lot
		if err := tx.First(&lot, in.LotID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return NewNotFoundError("lot", in.LotID)
			}
			return err
		}

		// 1. Create the message
		recipientID := in.RecipientID
		message := models.Message{
			LotID:       lot.ID,
			SenderID:    in.SenderID,
			RecipientID: &recipientID,
			Subject:     in.Subject,
			Content:     in.Content,
			Urgency:     in.Urgency,
		}
		if err := tx.Create(&message).Error; err != nil {
			return err
		}

		// 2. Resolve sender and recipient in one read
		var participants []models.User
		if err := tx.Where("id IN ?", []uint{in.SenderID, in.RecipientID}).
			Find(&participants).Error; err != nil {
			return err
		}
		var sender, recipient *models.User
		for i := range participants {
			if participants[i].ID == in.SenderID {
				sender = &participants[i]
			}
			if participants[i].ID == in.RecipientID {
				recipient = &participants[i]
			}
		}
		if sender == nil {
			return NewNotFoundError("sender", in.SenderID)
		}
		if recipient == nil {
			return NewNotFoundError("recipient", in.RecipientID)
		}

		// 3. Create the internal notification linked to the message
		messageID := message.ID
		notification := models.Notification{
			LotID:            lot.ID,
			UserID:           recipient.ID,
			Type:             "message",
			Text:             ComposeNotificationText(in.Urgency, sender.Name, in.Subject),
			Urgency:          in.Urgency,
			RelatedMessageID: &messageID,
		}
		if err := tx.Create(&notification).Error; err != nil {
			return err
		}

		// 4. Deliver and audit the SMS when the recipient is eligible
		if recipient.SMSNotifications && utils.IsValidPhoneNumber(recipient.PhoneNumber) {
			smsText := ComposeSMSText(lot.ID, in.Urgency, sender.Name, in.Subject)
			destination := utils.NormalizePhoneNumber(recipient.PhoneNumber, s.countryCode)

			smsResult := s.sms.SendSMS(ctx, destination, smsText)

			status := models.SMSStatusFailed
			switch {
			case smsResult.Simulated:
				status = models.SMSStatusSimulated
			case smsResult.Success:
				status = models.SMSStatusSent
			}

			smsLog := models.SMSLog{
				UserID:      recipient.ID,
				MessageID:   message.ID,
				PhoneNumber: recipient.PhoneNumber,
				Text:        smsText,
				Status:      status,
			}
			if err := tx.Create(&smsLog).Error; err != nil {
				return err
			}

			result.SMS = &smsResult
		}

		result.Message = &message
		result.Notification = &notification
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// MarkNotificationRead flips a notification to read on behalf of userID.
// The lookup is owner-scoped: a notification belonging to someone else is
// reported as not found, never as forbidden. Marking an already-read
// notification is a no-op that keeps the original read timestamp.
func MarkNotificationRead(db *gorm.DB, notificationID, userID uint) (*models.Notification, error) {
	var notification models.Notification
	err := db.Where("id = ? AND user_id = ?", notificationID, userID).
		First(&notification).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("notification", notificationID)
		}
		return nil, err
	}

	if notification.Read {
		return &notification, nil
	}

	now := time.Now()
	res := db.Model(&models.Notification{}).
		Where("id = ? AND read = ?", notification.ID, false).
		Updates(map[string]interface{}{"read": true, "read_at": now})
	if res.Error != nil {
		return nil, res.Error
	}

	// Reload so the caller sees the stored row, whether this call won the
	// update or lost the race with a concurrent acknowledgment
	if err := db.First(&notification, notification.ID).Error; err != nil {
		return nil, err
	}
	return &notification, nil
}
