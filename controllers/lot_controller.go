package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/julienmoreau/chantier-api/config"
	"github.com/julienmoreau/chantier-api/models"
)

// CreateLotRequest represents the request body for creating a lot
type CreateLotRequest struct {
	Number      int    `json:"number" binding:"required,gt=0"`
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// UpdateLotRequest represents the request body for updating a lot
type UpdateLotRequest struct {
	Number      *int    `json:"number" binding:"omitempty,gt=0"`
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Status      *string `json:"status" binding:"omitempty,oneof=active on_hold completed"`
}

// CreateLot handles POST /api/v1/lots - creates a new project lot
func CreateLot(c *gin.Context) {
	if _, ok := getCurrentUser(c); !ok {
		return
	}

	var req CreateLotRequest
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

	lot := models.Lot{
		Number:      req.Number,
		Name:        req.Name,
		Description: req.Description,
		Status:      "active",
	}

	db := config.GetDB()
	if err := db.Create(&lot).Error; err != nil {
		c.PureJSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to create lot",
			},
		})
		return
	}

	c.PureJSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    lot,
	})
}

// ListLots handles GET /api/v1/lots - lists all lots ordered by number
func ListLots(c *gin.Context) {
	if _, ok := getCurrentUser(c); !ok {
		return
	}

	db := config.GetDB()
	var lots []models.Lot
	if err := db.Order("number ASC").Find(&lots).Error; err != nil {
		c.PureJSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to fetch lots",
			},
		})
		return
	}

	c.PureJSON(http.StatusOK, gin.H{
		"success": true,
		"data":    lots,
	})
}

// GetLot handles GET /api/v1/lots/:id - returns one lot
func GetLot(c *gin.Context) {
	if _, ok := getCurrentUser(c); !ok {
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

	c.PureJSON(http.StatusOK, gin.H{
		"success": true,
		"data":    lot,
	})
}

// UpdateLot handles PUT /api/v1/lots/:id - updates lot fields
func UpdateLot(c *gin.Context) {
	if _, ok := getCurrentUser(c); !ok {
		return
	}

	lotID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateLotRequest
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

	updates := map[string]interface{}{}
	if req.Number != nil {
		updates["number"] = *req.Number
	}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Status != nil {
		updates["status"] = *req.Status
	}

	if len(updates) > 0 {
		if err := db.Model(&lot).Updates(updates).Error; err != nil {
			c.PureJSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "DATABASE_ERROR",
					"message": "Failed to update lot",
				},
			})
			return
		}
	}

	c.PureJSON(http.StatusOK, gin.H{
		"success": true,
		"data":    lot,
	})
}

// DeleteLot handles DELETE /api/v1/lots/:id - soft-deletes a lot
func DeleteLot(c *gin.Context) {
	if _, ok := getCurrentUser(c); !ok {
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

	if err := db.Delete(&lot).Error; err != nil {
		c.PureJSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to delete lot",
			},
		})
		return
	}

	c.PureJSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Lot deleted",
	})
}

// GetLotStats handles GET /api/v1/lots/:id/stats - returns activity and
// communication counters for one lot
func GetLotStats(c *gin.Context) {
	if _, ok := getCurrentUser(c); !ok {
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

	var activityCount, completedActivities, messageCount, meetingCount int64
	db.Model(&models.Activity{}).Where("lot_id = ?", lot.ID).Count(&activityCount)
	db.Model(&models.Activity{}).Where("lot_id = ? AND status = ?", lot.ID, "completed").Count(&completedActivities)
	db.Model(&models.Message{}).Where("lot_id = ?", lot.ID).Count(&messageCount)
	db.Model(&models.Meeting{}).Where("lot_id = ?", lot.ID).Count(&meetingCount)

	c.PureJSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"lot_id":               lot.ID,
			"activity_count":       activityCount,
			"completed_activities": completedActivities,
			"message_count":        messageCount,
			"meeting_count":        meetingCount,
		},
	})
}
