package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/julienmoreau/chantier-api/config"
	"github.com/julienmoreau/chantier-api/models"
)

// CreateActivityRequest represents the request body for creating an activity
type CreateActivityRequest struct {
	Title       string     `json:"title" binding:"required"`
	Description string     `json:"description"`
	DueDate     *time.Time `json:"due_date"`
}

// UpdateActivityRequest represents the request body for updating an activity
type UpdateActivityRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Status      *string    `json:"status" binding:"omitempty,oneof=pending in_progress completed"`
	DueDate     *time.Time `json:"due_date"`
}

// CreateActivity handles POST /api/v1/lots/:id/activities
func CreateActivity(c *gin.Context) {
	user, ok := getCurrentUser(c)
	if !ok {
		return
	}

	lotID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req CreateActivityRequest
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

	activity := models.Activity{
		LotID:       lot.ID,
		Title:       req.Title,
		Description: req.Description,
		Status:      "pending",
		DueDate:     req.DueDate,
		CreatedByID: user.ID,
	}
	if err := db.Create(&activity).Error; err != nil {
		c.PureJSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to create activity",
			},
		})
		return
	}

	c.PureJSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    activity,
	})
}

// ListActivities handles GET /api/v1/lots/:id/activities
func ListActivities(c *gin.Context) {
	if _, ok := getCurrentUser(c); !ok {
		return
	}

	lotID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	db := config.GetDB()
	var activities []models.Activity
	if err := db.Where("lot_id = ?", lotID).
		Preload("CreatedBy").
		Order("created_at DESC").
		Find(&activities).Error; err != nil {
		c.PureJSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to fetch activities",
			},
		})
		return
	}

	c.PureJSON(http.StatusOK, gin.H{
		"success": true,
		"data":    activities,
	})
}

// UpdateActivity handles PUT /api/v1/activities/:id
func UpdateActivity(c *gin.Context) {
	if _, ok := getCurrentUser(c); !ok {
		return
	}

	activityID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateActivityRequest
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
	var activity models.Activity
	if err := db.First(&activity, activityID).Error; err != nil {
		c.PureJSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "ACTIVITY_NOT_FOUND",
				"message": "Activity not found",
			},
		})
		return
	}

	updates := map[string]interface{}{}
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Status != nil {
		updates["status"] = *req.Status
	}
	if req.DueDate != nil {
		updates["due_date"] = *req.DueDate
	}

	if len(updates) > 0 {
		if err := db.Model(&activity).Updates(updates).Error; err != nil {
			c.PureJSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "DATABASE_ERROR",
					"message": "Failed to update activity",
				},
			})
			return
		}
	}

	c.PureJSON(http.StatusOK, gin.H{
		"success": true,
		"data":    activity,
	})
}

// DeleteActivity handles DELETE /api/v1/activities/:id
func DeleteActivity(c *gin.Context) {
	if _, ok := getCurrentUser(c); !ok {
		return
	}

	activityID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	db := config.GetDB()
	var activity models.Activity
	if err := db.First(&activity, activityID).Error; err != nil {
		c.PureJSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "ACTIVITY_NOT_FOUND",
				"message": "Activity not found",
			},
		})
		return
	}

	if err := db.Delete(&activity).Error; err != nil {
		c.PureJSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to delete activity",
			},
		})
		return
	}

	c.PureJSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Activity deleted",
	})
}
