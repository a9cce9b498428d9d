package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/Azi77ry/personal-App/directory"
	"github.com/Azi77ry/personal-App/logger"
	"github.com/Azi77ry/personal-App/models"
)

type profileRequest struct {
	Username string `json:"username"`
	Email    string `json:"email" binding:"omitempty,email"`
	Currency string `json:"currency"`
}

// UpdateProfile changes the account email and display currency. The
// username is the account's immutable identifier and cannot be changed.
// An email change clears the verified flag until the new address is
// confirmed.
func (h *Handler) UpdateProfile(c *gin.Context) {
	var req profileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "email must be a valid address")
		return
	}

	uid := userID(c)
	var emailChanged bool
	var username string

	err := h.documents.Update(c.Request.Context(), uid, func(doc *models.UserDocument) error {
		if req.Username != "" && req.Username != doc.Profile.Username {
			return validationErr("username", "username cannot be changed")
		}
		username = doc.Profile.Username

		if req.Email != "" && req.Email != doc.Profile.Email {
			owner, err := h.directory.FindByEmail(c.Request.Context(), req.Email)
			if err == nil && owner.ID != uid {
				return validationErr("email", "Email already exists")
			}
			if err != nil && !errors.Is(err, directory.ErrNotFound) {
				return err
			}
			if err := h.directory.UpdateEmail(c.Request.Context(), uid, req.Email); err != nil {
				if errors.Is(err, directory.ErrExists) {
					return validationErr("email", "Email already exists")
				}
				return err
			}
			doc.Profile.Email = req.Email
			doc.Profile.EmailVerified = false
			emailChanged = true
		}
		if req.Currency != "" {
			doc.Settings.Currency = req.Currency
		}
		return nil
	})
	if err != nil {
		fail(c, err)
		return
	}

	if emailChanged {
		h.sendVerificationEmail(uid, req.Email, username)
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Profile updated successfully"})
}

type notificationsRequest struct {
	Email  *bool  `json:"email"`
	Bills  *bool  `json:"bills"`
	Events *bool  `json:"events"`
	Time   string `json:"time"`
}

func (h *Handler) UpdateNotifications(c *gin.Context) {
	var req notificationsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Time != "" {
		if _, err := time.Parse("15:04", req.Time); err != nil {
			fail(c, validationErr("time", "time must be an HH:MM value"))
			return
		}
	}

	err := h.documents.Update(c.Request.Context(), userID(c), func(doc *models.UserDocument) error {
		if req.Email != nil {
			doc.Settings.Notifications.Email = *req.Email
		}
		if req.Bills != nil {
			doc.Settings.Notifications.Bills = *req.Bills
		}
		if req.Events != nil {
			doc.Settings.Notifications.Events = *req.Events
		}
		if req.Time != "" {
			doc.Settings.Notifications.Time = req.Time
		}
		return nil
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Notification settings updated successfully"})
}

func (h *Handler) GetNotificationSettings(c *gin.Context) {
	doc, err := h.documents.Load(c.Request.Context(), userID(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "settings": doc.Settings.Notifications})
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

func (h *Handler) ChangePassword(c *gin.Context) {
	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.CurrentPassword == "" || req.NewPassword == "" {
		respondError(c, http.StatusBadRequest, "current_password and new_password are required")
		return
	}

	uid := userID(c)
	user, err := h.directory.FindByID(c.Request.Context(), uid)
	if err != nil {
		fail(c, err)
		return
	}
	if bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(req.CurrentPassword)) != nil {
		respondError(c, http.StatusBadRequest, "Current password is incorrect")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		fail(c, err)
		return
	}
	if err := h.directory.UpdatePassword(c.Request.Context(), uid, hash); err != nil {
		fail(c, err)
		return
	}

	logger.Get().Info("password changed", zap.String("user_id", uid))
	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Password changed successfully"})
}

// ExportData returns the seven collections as a downloadable JSON file.
// Profile and settings stay out of the dump.
func (h *Handler) ExportData(c *gin.Context) {
	doc, err := h.documents.Load(c.Request.Context(), userID(c))
	if err != nil {
		fail(c, err)
		return
	}

	export := models.ExportData{
		Expenses: doc.Expenses,
		Incomes:  doc.Incomes,
		Budgets:  doc.Budgets,
		Goals:    doc.Goals,
		Bills:    doc.Bills,
		Tasks:    doc.Tasks,
		Events:   doc.Events,
	}
	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		fail(c, err)
		return
	}

	filename := fmt.Sprintf("money_event_data_%s.json", time.Now().Format("20060102_150405"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, "application/json", data)
}

// ImportData merges (or, with overwrite=true, replaces) collections from an
// uploaded JSON dump. Record ids are regenerated on the way in, except
// budgets, which keep their composite month/category key. Collections are
// imported one at a time with no atomicity across them; a failure partway
// leaves earlier collections imported.
func (h *Handler) ImportData(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		respondError(c, http.StatusBadRequest, "No file provided")
		return
	}
	if !strings.HasSuffix(fileHeader.Filename, ".json") {
		respondError(c, http.StatusBadRequest, "Invalid file type")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		fail(c, err)
		return
	}
	defer file.Close()

	var imported models.ExportData
	if err := json.NewDecoder(file).Decode(&imported); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid JSON file")
		return
	}
	overwrite := strings.EqualFold(c.PostForm("overwrite"), "true")

	err = h.documents.Update(c.Request.Context(), userID(c), func(doc *models.UserDocument) error {
		if imported.Expenses != nil {
			if overwrite {
				doc.Expenses = map[string]models.Expense{}
			}
			for _, record := range imported.Expenses {
				doc.Expenses[uuid.NewString()] = record
			}
		}
		if imported.Incomes != nil {
			if overwrite {
				doc.Incomes = map[string]models.Income{}
			}
			for _, record := range imported.Incomes {
				doc.Incomes[uuid.NewString()] = record
			}
		}
		if imported.Budgets != nil {
			if overwrite {
				doc.Budgets = map[string]models.Budget{}
			}
			for _, record := range imported.Budgets {
				doc.Budgets[record.Month+"_"+record.Category] = record
			}
		}
		if imported.Goals != nil {
			if overwrite {
				doc.Goals = map[string]models.Goal{}
			}
			for _, record := range imported.Goals {
				doc.Goals[uuid.NewString()] = record
			}
		}
		if imported.Bills != nil {
			if overwrite {
				doc.Bills = map[string]models.Bill{}
			}
			for _, record := range imported.Bills {
				doc.Bills[uuid.NewString()] = record
			}
		}
		if imported.Tasks != nil {
			if overwrite {
				doc.Tasks = map[string]models.Task{}
			}
			for _, record := range imported.Tasks {
				doc.Tasks[uuid.NewString()] = record
			}
		}
		if imported.Events != nil {
			if overwrite {
				doc.Events = map[string]models.Event{}
			}
			for _, record := range imported.Events {
				doc.Events[uuid.NewString()] = record
			}
		}
		return nil
	})
	if err != nil {
		fail(c, err)
		return
	}

	logger.Get().Info("data imported", zap.String("user_id", userID(c)), zap.Bool("overwrite", overwrite))
	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Data imported successfully"})
}

// ResetData clears all seven collections and keeps profile and settings.
func (h *Handler) ResetData(c *gin.Context) {
	err := h.documents.Update(c.Request.Context(), userID(c), func(doc *models.UserDocument) error {
		doc.ResetCollections()
		return nil
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "All data has been reset"})
}
