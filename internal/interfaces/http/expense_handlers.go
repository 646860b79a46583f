package http

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/garyjia/travel-expense/internal/application/service"
	"github.com/garyjia/travel-expense/internal/domain/entity"
	"github.com/garyjia/travel-expense/internal/domain/workflow"
)

type expenseItemRequest struct {
	CategoryCode string          `json:"category_code"`
	Date         string          `json:"date"`
	Amount       decimal.Decimal `json:"amount"`
	Description  string          `json:"description"`
	ReceiptURL   string          `json:"receipt_url"`
}

type submitExpenseRequest struct {
	Title       string               `json:"title"`
	Description string               `json:"description"`
	Items       []expenseItemRequest `json:"items"`
}

// ExpenseDetail is an expense application with the actions the caller may take on it
type ExpenseDetail struct {
	*entity.ExpenseApplication
	AllowedActions []workflow.Trigger `json:"allowed_actions"`
}

// ListExpenseCategories handles GET /api/v1/expense-categories
func (h *Handlers) ListExpenseCategories(c *gin.Context) {
	categories, err := h.services.Expense.Categories(c.Request.Context())
	if err != nil {
		h.respondError(c, "list expense categories", err)
		return
	}
	if categories == nil {
		categories = []*entity.ExpenseCategory{}
	}
	ok(c, http.StatusOK, categories)
}

// SubmitExpense handles POST /api/v1/expenses
func (h *Handlers) SubmitExpense(c *gin.Context) {
	user := mustUser(c)
	if user == nil {
		return
	}

	var req submitExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body")
		return
	}

	in := service.SubmitExpenseInput{
		Title:       req.Title,
		Description: req.Description,
		Items:       make([]service.ExpenseItemInput, len(req.Items)),
	}
	for i, item := range req.Items {
		date, err := parseDate(fmt.Sprintf("items[%d].date", i), item.Date)
		if err != nil {
			h.respondError(c, "submit expense", err)
			return
		}
		in.Items[i] = service.ExpenseItemInput{
			CategoryCode: item.CategoryCode,
			Date:         date,
			Amount:       item.Amount,
			Description:  item.Description,
			ReceiptURL:   item.ReceiptURL,
		}
	}

	app, err := h.services.Expense.Submit(c.Request.Context(), user.ID, in)
	if err != nil {
		h.respondError(c, "submit expense", err)
		return
	}

	ok(c, http.StatusCreated, app)
}

// ListExpenses handles GET /api/v1/expenses
func (h *Handlers) ListExpenses(c *gin.Context) {
	user := mustUser(c)
	if user == nil {
		return
	}

	var q listTripsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		fail(c, http.StatusBadRequest, "invalid query parameters")
		return
	}
	if q.Offset < 0 {
		q.Offset = 0
	}

	apps, err := h.services.Expense.List(c.Request.Context(), user, entity.ExpenseFilter{
		UserID: q.UserID,
		Status: q.Status,
		Limit:  q.Limit,
		Offset: q.Offset,
	})
	if err != nil {
		h.respondError(c, "list expenses", err)
		return
	}
	if apps == nil {
		apps = []*entity.ExpenseApplication{}
	}

	ok(c, http.StatusOK, apps)
}

// GetExpense handles GET /api/v1/expenses/:id
func (h *Handlers) GetExpense(c *gin.Context) {
	user := mustUser(c)
	if user == nil {
		return
	}
	id, valid := parseID(c)
	if !valid {
		return
	}

	ctx := c.Request.Context()
	app, err := h.services.Expense.Get(ctx, user, id)
	if err != nil {
		h.respondError(c, "get expense", err)
		return
	}

	ok(c, http.StatusOK, ExpenseDetail{
		ExpenseApplication: app,
		AllowedActions:     h.services.Expense.AllowedActions(ctx, user, app),
	})
}

// CancelExpense handles POST /api/v1/expenses/:id/cancel
func (h *Handlers) CancelExpense(c *gin.Context) {
	h.expenseAction(c, "cancel expense", h.services.Expense.Cancel)
}

// ApproveExpense handles POST /api/v1/expenses/:id/approve
func (h *Handlers) ApproveExpense(c *gin.Context) {
	h.expenseAction(c, "approve expense", h.services.Expense.Approve)
}

// RejectExpense handles POST /api/v1/expenses/:id/reject
func (h *Handlers) RejectExpense(c *gin.Context) {
	h.expenseAction(c, "reject expense", h.services.Expense.Reject)
}

// DeleteExpense handles DELETE /api/v1/expenses/:id
func (h *Handlers) DeleteExpense(c *gin.Context) {
	user := mustUser(c)
	if user == nil {
		return
	}
	id, valid := parseID(c)
	if !valid {
		return
	}

	if err := h.services.Expense.Delete(c.Request.Context(), user, id); err != nil {
		h.respondError(c, "delete expense", err)
		return
	}

	ok(c, http.StatusOK, gin.H{"id": id})
}

type expenseFunc func(ctx context.Context, actor *entity.User, id int64) (*entity.ExpenseApplication, error)

func (h *Handlers) expenseAction(c *gin.Context, op string, fn expenseFunc) {
	user := mustUser(c)
	if user == nil {
		return
	}
	id, valid := parseID(c)
	if !valid {
		return
	}

	app, err := fn(c.Request.Context(), user, id)
	if err != nil {
		h.respondError(c, op, err)
		return
	}

	ok(c, http.StatusOK, app)
}
