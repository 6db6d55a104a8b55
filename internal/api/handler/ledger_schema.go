package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/clearbooks/ledger-api/internal/core/domain"
)

// Create-request schemas for the ledger resources. Binding and validation
// stay here so the generic handler only deals in domain types.

func bindAndValidate[R any](c echo.Context) (*R, error) {
	var req R
	if err := c.Bind(&req); err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return &req, nil
}

type createBillRequest struct {
	Vendor      string    `json:"vendor" validate:"required"`
	Description string    `json:"description"`
	Amount      float64   `json:"amount" validate:"required,gt=0"`
	Currency    string    `json:"currency" validate:"required,len=3"`
	Category    string    `json:"category" validate:"required"`
	DueDate     time.Time `json:"due_date" validate:"required"`
	ReceiptURL  string    `json:"receipt_url" validate:"omitempty,url"`
}

func DecodeBill(c echo.Context) (*domain.Bill, error) {
	req, err := bindAndValidate[createBillRequest](c)
	if err != nil {
		return nil, err
	}
	return &domain.Bill{
		Vendor:      req.Vendor,
		Description: req.Description,
		Amount:      req.Amount,
		Currency:    req.Currency,
		Category:    req.Category,
		DueDate:     req.DueDate,
		Status:      domain.BillPending,
		ReceiptURL:  req.ReceiptURL,
	}, nil
}

type createCardRequest struct {
	Label        string  `json:"label" validate:"required"`
	Holder       string  `json:"holder" validate:"required"`
	LastFour     string  `json:"last_four" validate:"required,len=4,numeric"`
	Provider     string  `json:"provider" validate:"required"`
	CreditLimit  float64 `json:"credit_limit" validate:"gte=0"`
	StatementDay int     `json:"statement_day" validate:"min=1,max=28"`
}

func DecodeCard(c echo.Context) (*domain.Card, error) {
	req, err := bindAndValidate[createCardRequest](c)
	if err != nil {
		return nil, err
	}
	return &domain.Card{
		Label:        req.Label,
		Holder:       req.Holder,
		LastFour:     req.LastFour,
		Provider:     req.Provider,
		CreditLimit:  req.CreditLimit,
		StatementDay: req.StatementDay,
		Active:       true,
	}, nil
}

type createTransactionRequest struct {
	Kind       string    `json:"kind" validate:"required,oneof=income expense"`
	Amount     float64   `json:"amount" validate:"required,gt=0"`
	Category   string    `json:"category" validate:"required"`
	Note       string    `json:"note"`
	OccurredAt time.Time `json:"occurred_at" validate:"required"`
}

func DecodeTransaction(c echo.Context) (*domain.CashTransaction, error) {
	req, err := bindAndValidate[createTransactionRequest](c)
	if err != nil {
		return nil, err
	}
	email, _ := c.Get("email").(string)
	return &domain.CashTransaction{
		Kind:       req.Kind,
		Amount:     req.Amount,
		Category:   req.Category,
		Note:       req.Note,
		OccurredAt: req.OccurredAt,
		RecordedBy: email,
	}, nil
}

type createBudgetRequest struct {
	Category      string  `json:"category" validate:"required"`
	Period        string  `json:"period" validate:"required,len=7"` // YYYY-MM
	PlannedAmount float64 `json:"planned_amount" validate:"required,gt=0"`
	Notes         string  `json:"notes"`
}

func DecodeBudget(c echo.Context) (*domain.Budget, error) {
	req, err := bindAndValidate[createBudgetRequest](c)
	if err != nil {
		return nil, err
	}
	return &domain.Budget{
		Category:      req.Category,
		Period:        req.Period,
		PlannedAmount: req.PlannedAmount,
		Notes:         req.Notes,
	}, nil
}

type createSalaryRequest struct {
	EmployeeID string  `json:"employee_id" validate:"required"`
	Period     string  `json:"period" validate:"required,len=7"`
	Gross      float64 `json:"gross" validate:"required,gt=0"`
	Deductions float64 `json:"deductions" validate:"gte=0"`
}

func DecodeSalary(c echo.Context) (*domain.Salary, error) {
	req, err := bindAndValidate[createSalaryRequest](c)
	if err != nil {
		return nil, err
	}
	return &domain.Salary{
		EmployeeID: req.EmployeeID,
		Period:     req.Period,
		Gross:      req.Gross,
		Deductions: req.Deductions,
		Net:        req.Gross - req.Deductions,
		Status:     "pending",
	}, nil
}

type createPettyExpenseRequest struct {
	Description string    `json:"description" validate:"required"`
	Amount      float64   `json:"amount" validate:"required,gt=0"`
	ReceiptURL  string    `json:"receipt_url" validate:"omitempty,url"`
	OccurredAt  time.Time `json:"occurred_at" validate:"required"`
}

func DecodePettyExpense(c echo.Context) (*domain.PettyExpense, error) {
	req, err := bindAndValidate[createPettyExpenseRequest](c)
	if err != nil {
		return nil, err
	}
	email, _ := c.Get("email").(string)
	return &domain.PettyExpense{
		Description: req.Description,
		Amount:      req.Amount,
		SpentBy:     email,
		ReceiptURL:  req.ReceiptURL,
		OccurredAt:  req.OccurredAt,
	}, nil
}

type createReminderRequest struct {
	Title string    `json:"title" validate:"required"`
	Note  string    `json:"note"`
	DueAt time.Time `json:"due_at" validate:"required"`
}

func DecodeReminder(c echo.Context) (*domain.Reminder, error) {
	req, err := bindAndValidate[createReminderRequest](c)
	if err != nil {
		return nil, err
	}
	return &domain.Reminder{
		Title: req.Title,
		Note:  req.Note,
		DueAt: req.DueAt,
	}, nil
}

type createEmployeeRequest struct {
	Name          string    `json:"name" validate:"required"`
	Email         string    `json:"email" validate:"required,email"`
	Position      string    `json:"position" validate:"required"`
	MonthlySalary float64   `json:"monthly_salary" validate:"required,gt=0"`
	HiredAt       time.Time `json:"hired_at" validate:"required"`
}

func DecodeEmployee(c echo.Context) (*domain.Employee, error) {
	req, err := bindAndValidate[createEmployeeRequest](c)
	if err != nil {
		return nil, err
	}
	return &domain.Employee{
		Name:          req.Name,
		Email:         req.Email,
		Position:      req.Position,
		MonthlySalary: req.MonthlySalary,
		HiredAt:       req.HiredAt,
		Active:        true,
	}, nil
}
