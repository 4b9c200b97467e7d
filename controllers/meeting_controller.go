package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/julienmoreau/chantier-api/config"
	"github.com/julienmoreau/chantier-api/models"
)

// CreateMeetingRequest represents the request body for scheduling a meeting
type CreateMeetingRequest struct {
	Title    string    `json:"title" binding:"required"`
	Date     time.Time `json:"date" binding:"required"`
	Location string    `json:"location"`
	Agenda   string    `json:"agenda"`
}

// UpdateMeetingRequest represents the request body for updating a meeting
type UpdateMeetingRequest struct {
	Title    *string    `json:"title"`
	Date     *time.Time `json:"date"`
	Location *string    `json:"location"`
	Agenda   *string    `json:"agenda"`
}

// CreateMeeting handles POST /api/v1/lots/:id/meetings
func CreateMeeting(c *gin.Context) {
	if _, ok := getCurrentUser(c); !ok {
		return
	}

	lotID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req CreateMeetingRequest
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

	meeting := models.Meeting{
		LotID:    lot.ID,
		Title:    req.Title,
		Date:     req.Date,
		Location: req.Location,
		Agenda:   req.Agenda,
	}
	if err := db.Create(&meeting).Error; err != nil {
		c.PureJSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to create meeting",
			},
		})
		return
	}

	c.PureJSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    meeting,
	})
}

// ListMeetings handles GET /api/v1/lots/:id/meetings
func ListMeetings(c *gin.Context) {
	if _, ok := getCurrentUser(c); !ok {
		return
	}

	lotID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	db := config.GetDB()
	var meetings []models.Meeting
	if err := db.Where("lot_id = ?", lotID).
		Order("date ASC").
		Find(&meetings).Error; err != nil {
		c.PureJSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to fetch meetings",
			},
		})
		return
	}

	c.PureJSON(http.StatusOK, gin.H{
		"success": true,
		"data":    meetings,
	})
}

// UpdateMeeting handles PUT /api/v1/meetings/:id
func UpdateMeeting(c *gin.Context) {
	if _, ok := getCurrentUser(c); !ok {
		return
	}

	meetingID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateMeetingRequest
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

	db := config.GetDB()
	var meeting models.Meeting
	if err := db.First(&meeting, meetingID).Error; err != nil {
		c.PureJSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "MEETING_NOT_FOUND",
				"message": "Meeting not found",
			},
		})
		return
	}

	updates := map[string]interface{}{}
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Date != nil {
		updates["date"] = *req.Date
	}
	if req.Location != nil {
		updates["location"] = *req.Location
	}
	if req.Agenda != nil {
		updates["agenda"] = *req.Agenda
	}

	if len(updates) > 0 {
		if err := db.Model(&meeting).Updates(updates).Error; err != nil {
			c.PureJSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "DATABASE_ERROR",
					"message": "Failed to update meeting",
				},
			})
			return
		}
	}

	c.PureJSON(http.StatusOK, gin.H{
		"success": true,
		"data":    meeting,
	})
}

// DeleteMeeting handles DELETE /api/v1/meetings/:id
func DeleteMeeting(c *gin.Context) {
	if _, ok := getCurrentUser(c); !ok {
		return
	}

	meetingID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	db := config.GetDB()
	var meeting models.Meeting
	if err := db.First(&meeting, meetingID).Error; err != nil {
		c.PureJSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "MEETING_NOT_FOUND",
				"message": "Meeting not found",
			},
		})
		return
	}

	if err := db.Delete(&meeting).Error; err != nil {
		c.PureJSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to delete meeting",
			},
		})
		return
	}

	c.PureJSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Meeting deleted",
	})
}
