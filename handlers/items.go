package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Azi77ry/personal-App/models"
)

// DeleteItem removes one record from any of the seven collections. The
// document is loaded for the authenticated user only, so a record id
// belonging to someone else can never match.
func (h *Handler) DeleteItem(c *gin.Context) {
	itemType := c.Param("type")
	id := c.Param("id")

	err := h.documents.Update(c.Request.Context(), userID(c), func(doc *models.UserDocument) error {
		switch itemType {
		case "expenses":
			if _, ok := doc.Expenses[id]; !ok {
				return errNotFound
			}
			delete(doc.Expenses, id)
		case "incomes":
			if _, ok := doc.Incomes[id]; !ok {
				return errNotFound
			}
			delete(doc.Incomes, id)
		case "budgets":
			if _, ok := doc.Budgets[id]; !ok {
				return errNotFound
			}
			delete(doc.Budgets, id)
		case "goals":
			if _, ok := doc.Goals[id]; !ok {
				return errNotFound
			}
			delete(doc.Goals, id)
		case "bills":
			if _, ok := doc.Bills[id]; !ok {
				return errNotFound
			}
			delete(doc.Bills, id)
		case "tasks":
			if _, ok := doc.Tasks[id]; !ok {
				return errNotFound
			}
			delete(doc.Tasks, id)
		case "events":
			if _, ok := doc.Events[id]; !ok {
				return errNotFound
			}
			delete(doc.Events, id)
		default:
			return validationErr("type", "Invalid item type")
		}
		return nil
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Item deleted successfully"})
}
