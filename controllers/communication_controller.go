package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/julienmoreau/chantier-api/config"
	"github.com/julienmoreau/chantier-api/models"
	"github.com/julienmoreau/chantier-api/services"
)

// SendMessageRequest represents the request body for sending a message on a lot
type SendMessageRequest struct {
	RecipientID uint   `json:"recipient_id" binding:"required"`
	Subject     string `json:"subject" binding:"required"`
	Content     string `json:"content" binding:"required"`
	Urgency     string `json:"urgency"`
}

// CreateNotificationRequest represents the request body for a direct notification
type CreateNotificationRequest struct {
	UserID  uint   `json:"user_id" binding:"required"`
	Type    string `json:"type" binding:"required"`
	Text    string `json:"text" binding:"required"`
	Urgency string `json:"urgency"`
}

// messageWithUnread decorates a message with the caller's unread-notification flag
type messageWithUnread struct {
	models.Message
	HasUnreadNotification bool `json:"has_unread_notification"`
}

// newDispatchService builds the dispatch workflow from the process-wide
// database and SMS gateway. The gateway itself was selected once at startup.
func newDispatchService() *services.DispatchService {
	countryCode := "33"
	if cfg := config.GetConfig(); cfg != nil && cfg.DefaultCountryCode != "" {
		countryCode = cfg.DefaultCountryCode
	}
	return services.NewDispatchService(config.GetDB(), services.GetSMSService(), countryCode)
}

// SendMessage handles POST /api/v1/lots/:id/messages - dispatches a message
// with its internal notification and optional SMS delivery
func SendMessage(c *gin.Context) {
	user, ok := getCurrentUser(c)
	if !ok {
		return
	}

	lotID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	// Parse request body
	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.PureJSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

	if req.Urgency == "" {
		req.Urgency = models.UrgencyNormal
	}

	dispatcher := newDispatchService()
	result, err := dispatcher.Dispatch(c.Request.Context(), services.DispatchInput{
		LotID:       lotID,
		SenderID:    user.ID,
		RecipientID: req.RecipientID,
		Subject:     req.Subject,
		Content:     req.Content,
		Urgency:     req.Urgency,
	})
	if err != nil {
		var validationErr *services.ValidationError
		var notFoundErr *services.NotFoundError
		switch {
		case errors.As(err, &validationErr):
			c.PureJSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "VALIDATION_ERROR",
					"message": validationErr.Error(),
					"field":   validationErr.Field,
				},
			})
		case errors.As(err, &notFoundErr):
			c.PureJSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    strings.ToUpper(notFoundErr.Resource) + "_NOT_FOUND",
					"message": notFoundErr.Error(),
				},
			})
		default:
			body := gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to dispatch message",
			}
			// Internal detail is only exposed outside production
			if cfg := config.GetConfig(); cfg == nil || !cfg.IsProduction() {
				body["details"] = err.Error()
			}
			c.PureJSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error":   body,
			})
		}
		return
	}

	c.PureJSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    result,
	})
}

// ListMessages handles GET /api/v1/lots/:id/messages - lists lot messages
// ordered by urgency (high first), then newest first
func ListMessages(c *gin.Context) {
	user, ok := getCurrentUser(c)
	if !ok {
		return
	}

	lotID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	db := config.GetDB()
	var lot models.Lot
	if err := db.First(&lot, lotID).Error; err != nil {
		c.PureJSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "LOT_NOT_FOUND",
				"message": "Lot not found",
			},
		})
		return
	}

	query := db.Where("lot_id = ?", lot.ID).
		Preload("Sender").
		Preload("Recipient")

	// Optional filter on one participant
	if userID := c.Query("userId"); userID != "" {
		query = query.Where("sender_id = ? OR recipient_id = ?", userID, userID)
	}

	var messages []models.Message
	if err := query.
		Order("CASE urgency WHEN 'high' THEN 1 WHEN 'medium' THEN 2 WHEN 'normal' THEN 3 WHEN 'low' THEN 4 END").
		Order("created_at DESC").
		Find(&messages).Error; err != nil {
		c.PureJSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to fetch messages",
			},
		})
		return
	}

	// Flag messages whose notification the caller has not read yet
	messageIDs := make([]uint, 0, len(messages))
	for _, m := range messages {
		messageIDs = append(messageIDs, m.ID)
	}
	unread := map[uint]bool{}
	if len(messageIDs) > 0 {
		var notifications []models.Notification
		if err := db.Where("related_message_id IN ? AND user_id = ? AND read = ?",
			messageIDs, user.ID, false).Find(&notifications).Error; err != nil {
			c.PureJSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "DATABASE_ERROR",
					"message": "Failed to fetch notification state",
				},
			})
			return
		}
		for _, n := range notifications {
			if n.RelatedMessageID != nil {
				unread[*n.RelatedMessageID] = true
			}
		}
	}

	data := make([]messageWithUnread, 0, len(messages))
	for _, m := range messages {
		data = append(data, messageWithUnread{
			Message:               m,
			HasUnreadNotification: unread[m.ID],
		})
	}

	c.PureJSON(http.StatusOK, gin.H{
		"success": true,
		"data":    data,
	})
}

// CreateNotification handles POST /api/v1/lots/:id/notifications - inserts
// a notification directly, without a related message
func CreateNotification(c *gin.Context) {
	if _, ok := getCurrentUser(c); !ok {
		return
	}

	lotID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req CreateNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.PureJSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

	if req.Urgency == "" {
		req.Urgency = models.UrgencyNormal
	}
	if !models.IsValidUrgency(req.Urgency) {
		c.PureJSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Urgency must be one of low, normal, medium, high",
				"field":   "urgency",
			},
		})
		return
	}

	db := config.GetDB()
	var lot models.Lot
	if err := db.First(&lot, lotID).Error; err != nil {
		c.PureJSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "LOT_NOT_FOUND",
				"message": "Lot not found",
			},
		})
		return
	}

	notification := models.Notification{
		LotID:   lot.ID,
		UserID:  req.UserID,
		Type:    req.Type,
		Text:    req.Text,
		Urgency: req.Urgency,
	}
	if err := db.Create(&notification).Error; err != nil {
		c.PureJSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to create notification",
			},
		})
		return
	}

	c.PureJSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    notification,
	})
}

// ListNotifications handles GET /api/v1/lots/:id/notifications - lists the
// caller's notifications for a lot, newest first
func ListNotifications(c *gin.Context) {
	user, ok := getCurrentUser(c)
	if !ok {
		return
	}

	lotID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	db := config.GetDB()
	query := db.Where("lot_id = ? AND user_id = ?", lotID, user.ID)

	if c.Query("unreadOnly") == "true" {
		query = query.Where("read = ?", false)
	}

	var notifications []models.Notification
	if err := query.Order("created_at DESC").Find(&notifications).Error; err != nil {
		c.PureJSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to fetch notifications",
			},
		})
		return
	}

	c.PureJSON(http.StatusOK, gin.H{
		"success": true,
		"data":    notifications,
	})
}

// MarkNotificationRead handles PATCH /api/v1/notifications/:id/read - marks
// one of the caller's notifications as read. Repeating the call is a no-op.
func MarkNotificationRead(c *gin.Context) {
	user, ok := getCurrentUser(c)
	if !ok {
		return
	}

	notificationID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	notification, err := services.MarkNotificationRead(config.GetDB(), notificationID, user.ID)
	if err != nil {
		var notFoundErr *services.NotFoundError
		if errors.As(err, &notFoundErr) {
			c.PureJSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "NOTIFICATION_NOT_FOUND",
					"message": "Notification not found",
				},
			})
			return
		}
		c.PureJSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to update notification",
			},
		})
		return
	}

	c.PureJSON(http.StatusOK, gin.H{
		"success": true,
		"data":    notification,
	})
}
