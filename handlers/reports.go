package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Azi77ry/personal-App/models"
)

type goalRequest struct {
	Name          string          `json:"name"`
	TargetAmount  decimal.Decimal `json:"target_amount"`
	CurrentAmount decimal.Decimal `json:"current_amount"`
	TargetDate    string          `json:"target_date"`
}

func (h *Handler) AddGoal(c *gin.Context) {
	var req goalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "amount must be a number")
		return
	}
	if req.Name == "" {
		fail(c, required("name"))
		return
	}
	if !req.TargetAmount.IsPositive() {
		fail(c, validationErr("target_amount", "target_amount must be a positive number"))
		return
	}
	if req.CurrentAmount.IsNegative() {
		fail(c, validationErr("current_amount", "current_amount cannot be negative"))
		return
	}
	targetDate := ""
	if req.TargetDate != "" {
		parsed, verr := parseDate("target_date", req.TargetDate)
		if verr != nil {
			fail(c, verr)
			return
		}
		targetDate = parsed
	}

	id := uuid.NewString()
	err := h.documents.Update(c.Request.Context(), userID(c), func(doc *models.UserDocument) error {
		doc.Goals[id] = models.Goal{
			Name:          req.Name,
			TargetAmount:  req.TargetAmount.InexactFloat64(),
			CurrentAmount: req.CurrentAmount.InexactFloat64(),
			TargetDate:    targetDate,
			CreatedAt:     time.Now().UTC(),
		}
		return nil
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"status": "success", "message": "Goal added successfully", "id": id})
}

func (h *Handler) GetGoals(c *gin.Context) {
	doc, err := h.documents.Load(c.Request.Context(), userID(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, doc.Goals)
}

type goalProgressRequest struct {
	CurrentAmount decimal.Decimal `json:"current_amount"`
}

func (h *Handler) UpdateGoalProgress(c *gin.Context) {
	var req goalProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "current_amount must be a number")
		return
	}
	if req.CurrentAmount.IsNegative() {
		fail(c, validationErr("current_amount", "current_amount cannot be negative"))
		return
	}

	id := c.Param("id")
	err := h.documents.Update(c.Request.Context(), userID(c), func(doc *models.UserDocument) error {
		goal, ok := doc.Goals[id]
		if !ok {
			return errNotFound
		}
		goal.CurrentAmount = req.CurrentAmount.InexactFloat64()
		doc.Goals[id] = goal
		return nil
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Goal progress updated"})
}
