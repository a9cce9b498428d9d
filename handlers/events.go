package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Azi77ry/personal-App/models"
)

type eventRequest struct {
	Title             string `json:"title"`
	Start             string `json:"start"`
	End               string `json:"end"`
	Description       string `json:"description"`
	Recurring         bool   `json:"recurring"`
	RecurrencePattern string `json:"recurrence_pattern"`
}

func (h *Handler) AddEvent(c *gin.Context) {
	var req eventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Title == "" {
		fail(c, required("title"))
		return
	}
	if req.Start == "" {
		fail(c, required("start"))
		return
	}
	start, verr := parseEventTime("start", req.Start)
	if verr != nil {
		fail(c, verr)
		return
	}
	var end *time.Time
	if req.End != "" {
		parsed, verr := parseEventTime("end", req.End)
		if verr != nil {
			fail(c, verr)
			return
		}
		if !parsed.After(start) {
			fail(c, validationErr("end", "end must be after start"))
			return
		}
		end = &parsed
	}

	id := uuid.NewString()
	err := h.documents.Update(c.Request.Context(), userID(c), func(doc *models.UserDocument) error {
		doc.Events[id] = models.Event{
			Title:             req.Title,
			Start:             start,
			End:               end,
			Description:       req.Description,
			Recurring:         req.Recurring,
			RecurrencePattern: req.RecurrencePattern,
			CreatedAt:         time.Now().UTC(),
		}
		return nil
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"status": "success", "message": "Event added successfully", "id": id})
}

type taskRequest struct {
	Name        string `json:"name"`
	DueDate     string `json:"due_date"`
	Priority    string `json:"priority"`
	Description string `json:"description"`
}

func (h *Handler) AddTask(c *gin.Context) {
	var req taskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		fail(c, required("name"))
		return
	}
	dueDate, verr := parseDate("due_date", req.DueDate)
	if verr != nil {
		fail(c, verr)
		return
	}
	priority := models.TaskPriority(req.Priority)
	if req.Priority == "" {
		priority = models.TaskPriorityMedium
	} else if !priority.Valid() {
		fail(c, validationErr("priority", "priority must be one of low, medium, high"))
		return
	}

	id := uuid.NewString()
	err := h.documents.Update(c.Request.Context(), userID(c), func(doc *models.UserDocument) error {
		doc.Tasks[id] = models.Task{
			Name:        req.Name,
			DueDate:     dueDate,
			Priority:    priority,
			Description: req.Description,
			Completed:   false,
			CreatedAt:   time.Now().UTC(),
		}
		return nil
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"status": "success", "message": "Task added successfully", "id": id})
}

func (h *Handler) GetEvents(c *gin.Context) {
	doc, err := h.documents.Load(c.Request.Context(), userID(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, doc.Events)
}

func (h *Handler) GetTasks(c *gin.Context) {
	doc, err := h.documents.Load(c.Request.Context(), userID(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, doc.Tasks)
}

func (h *Handler) MarkTaskCompleted(c *gin.Context) {
	id := c.Param("id")
	err := h.documents.Update(c.Request.Context(), userID(c), func(doc *models.UserDocument) error {
		task, ok := doc.Tasks[id]
		if !ok {
			return errNotFound
		}
		now := time.Now().UTC()
		task.Completed = true
		task.CompletedDate = &now
		doc.Tasks[id] = task
		return nil
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Task marked as completed"})
}
