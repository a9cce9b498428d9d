package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Azi77ry/personal-App/models"
)

// Amounts bind as decimals so "12.50" and 12.50 are both accepted and
// malformed values are rejected before validation even runs.

type expenseRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category"`
	Date        string          `json:"date"`
	Description string          `json:"description"`
}

func (h *Handler) AddExpense(c *gin.Context) {
	var req expenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "amount must be a number")
		return
	}
	if req.Category == "" {
		fail(c, required("category"))
		return
	}
	date, verr := parseDate("date", req.Date)
	if verr != nil {
		fail(c, verr)
		return
	}
	if !req.Amount.IsPositive() {
		fail(c, validationErr("amount", "amount must be a positive number"))
		return
	}

	id := uuid.NewString()
	err := h.documents.Update(c.Request.Context(), userID(c), func(doc *models.UserDocument) error {
		doc.Expenses[id] = models.Expense{
			Amount:      req.Amount.InexactFloat64(),
			Category:    req.Category,
			Date:        date,
			Description: req.Description,
			CreatedAt:   time.Now().UTC(),
		}
		return nil
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"status": "success", "message": "Expense added successfully", "id": id})
}

type incomeRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	Source      string          `json:"source"`
	Date        string          `json:"date"`
	Description string          `json:"description"`
}

func (h *Handler) AddIncome(c *gin.Context) {
	var req incomeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "amount must be a number")
		return
	}
	if req.Source == "" {
		fail(c, required("source"))
		return
	}
	date, verr := parseDate("date", req.Date)
	if verr != nil {
		fail(c, verr)
		return
	}
	if !req.Amount.IsPositive() {
		fail(c, validationErr("amount", "amount must be a positive number"))
		return
	}

	id := uuid.NewString()
	err := h.documents.Update(c.Request.Context(), userID(c), func(doc *models.UserDocument) error {
		doc.Incomes[id] = models.Income{
			Amount:      req.Amount.InexactFloat64(),
			Source:      req.Source,
			Date:        date,
			Description: req.Description,
			CreatedAt:   time.Now().UTC(),
		}
		return nil
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"status": "success", "message": "Income added successfully", "id": id})
}

type budgetRequest struct {
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
	Month    string          `json:"month"`
}

// AddBudget keys the record by "{month}_{category}", so setting the same
// month and category again replaces the prior budget.
func (h *Handler) AddBudget(c *gin.Context) {
	var req budgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "amount must be a number")
		return
	}
	if req.Category == "" {
		fail(c, required("category"))
		return
	}
	month, verr := parseMonth(req.Month)
	if verr != nil {
		fail(c, verr)
		return
	}
	if !req.Amount.IsPositive() {
		fail(c, validationErr("amount", "amount must be a positive number"))
		return
	}

	id := month + "_" + req.Category
	err := h.documents.Update(c.Request.Context(), userID(c), func(doc *models.UserDocument) error {
		doc.Budgets[id] = models.Budget{
			Category:  req.Category,
			Amount:    req.Amount.InexactFloat64(),
			Month:     month,
			CreatedAt: time.Now().UTC(),
		}
		return nil
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"status": "success", "message": "Budget set successfully", "id": id})
}

type billRequest struct {
	Name      string          `json:"name"`
	Amount    decimal.Decimal `json:"amount"`
	DueDate   string          `json:"due_date"`
	Recurring string          `json:"recurring"`
}

func (h *Handler) AddBill(c *gin.Context) {
	var req billRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "amount must be a number")
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
	if !req.Amount.IsPositive() {
		fail(c, validationErr("amount", "amount must be a positive number"))
		return
	}
	recurring := models.BillRecurrence(req.Recurring)
	if req.Recurring == "" {
		recurring = models.BillRecurrenceNone
	} else if !recurring.Valid() {
		fail(c, validationErr("recurring", "recurring must be one of none, weekly, monthly, yearly"))
		return
	}

	id := uuid.NewString()
	err := h.documents.Update(c.Request.Context(), userID(c), func(doc *models.UserDocument) error {
		doc.Bills[id] = models.Bill{
			Name:      req.Name,
			Amount:    req.Amount.InexactFloat64(),
			DueDate:   dueDate,
			Recurring: recurring,
			Paid:      false,
			CreatedAt: time.Now().UTC(),
		}
		return nil
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"status": "success", "message": "Bill added successfully", "id": id})
}

func (h *Handler) GetExpenses(c *gin.Context) {
	doc, err := h.documents.Load(c.Request.Context(), userID(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, doc.Expenses)
}

func (h *Handler) GetIncomes(c *gin.Context) {
	doc, err := h.documents.Load(c.Request.Context(), userID(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, doc.Incomes)
}

func (h *Handler) GetBudgets(c *gin.Context) {
	doc, err := h.documents.Load(c.Request.Context(), userID(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, doc.Budgets)
}

func (h *Handler) GetBills(c *gin.Context) {
	doc, err := h.documents.Load(c.Request.Context(), userID(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, doc.Bills)
}

func (h *Handler) MarkBillPaid(c *gin.Context) {
	id := c.Param("id")
	err := h.documents.Update(c.Request.Context(), userID(c), func(doc *models.UserDocument) error {
		bill, ok := doc.Bills[id]
		if !ok {
			return errNotFound
		}
		now := time.Now().UTC()
		bill.Paid = true
		bill.PaidDate = &now
		doc.Bills[id] = bill
		return nil
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Bill marked as paid"})
}

// GetFinancialSummary recomputes the totals from scratch on every request;
// there is no cached aggregate to drift out of sync.
func (h *Handler) GetFinancialSummary(c *gin.Context) {
	doc, err := h.documents.Load(c.Request.Context(), userID(c))
	if err != nil {
		fail(c, err)
		return
	}

	totalIncome := decimal.Zero
	for _, income := range doc.Incomes {
		totalIncome = totalIncome.Add(decimal.NewFromFloat(income.Amount))
	}
	totalExpense := decimal.Zero
	for _, expense := range doc.Expenses {
		totalExpense = totalExpense.Add(decimal.NewFromFloat(expense.Amount))
	}
	balance := totalIncome.Sub(totalExpense)

	c.JSON(http.StatusOK, gin.H{
		"total_income":  totalIncome.InexactFloat64(),
		"total_expense": totalExpense.InexactFloat64(),
		"balance":       balance.InexactFloat64(),
	})
}
