package domain

import "time"

// Resource names as used in routes, permission policy tables and metrics.
const (
	ResourceBills         = "bills"
	ResourceCards         = "cards"
	ResourceTransactions  = "transactions"
	ResourceBudgets       = "budgets"
	ResourceSalaries      = "salaries"
	ResourcePettyExpenses = "petty_expenses"
	ResourceReminders     = "reminders"
	ResourceEmployees     = "employees"
)

// BillStatus is the lifecycle state of a bill.
type BillStatus string

const (
	BillPending BillStatus = "pending"
	BillPaid    BillStatus = "paid"
	BillOverdue BillStatus = "overdue"
)

// Bill is a payable owed to a vendor.
type Bill struct {
	ID          string     `json:"id" bson:"_id,omitempty"`
	Vendor      string     `json:"vendor" bson:"vendor"`
	Description string     `json:"description" bson:"description"`
	Amount      float64    `json:"amount" bson:"amount"`
	Currency    string     `json:"currency" bson:"currency"`
	Category    string     `json:"category" bson:"category"`
	DueDate     time.Time  `json:"due_date" bson:"due_date"`
	Status      BillStatus `json:"status" bson:"status"`
	PaidAt      *time.Time `json:"paid_at,omitempty" bson:"paid_at,omitempty"`
	ReceiptURL  string     `json:"receipt_url,omitempty" bson:"receipt_url,omitempty"`
	CreatedAt   time.Time  `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" bson:"updated_at"`
}

// Card is a company credit or debit card tracked on the dashboard.
type Card struct {
	ID           string    `json:"id" bson:"_id,omitempty"`
	Label        string    `json:"label" bson:"label"`
	Holder       string    `json:"holder" bson:"holder"`
	LastFour     string    `json:"last_four" bson:"last_four"`
	Provider     string    `json:"provider" bson:"provider"`
	CreditLimit  float64   `json:"credit_limit" bson:"credit_limit"`
	Balance      float64   `json:"balance" bson:"balance"`
	StatementDay int       `json:"statement_day" bson:"statement_day"`
	Active       bool      `json:"active" bson:"active"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" bson:"updated_at"`
}

// CashTransaction records money moving in or out of the cash box.
type CashTransaction struct {
	ID         string    `json:"id" bson:"_id,omitempty"`
	Kind       string    `json:"kind" bson:"kind"` // income | expense
	Amount     float64   `json:"amount" bson:"amount"`
	Category   string    `json:"category" bson:"category"`
	Note       string    `json:"note,omitempty" bson:"note,omitempty"`
	OccurredAt time.Time `json:"occurred_at" bson:"occurred_at"`
	RecordedBy string    `json:"recorded_by" bson:"recorded_by"`
	CreatedAt  time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" bson:"updated_at"`
}

// Budget is a per-category spending plan for one period.
type Budget struct {
	ID            string    `json:"id" bson:"_id,omitempty"`
	Category      string    `json:"category" bson:"category"`
	Period        string    `json:"period" bson:"period"` // YYYY-MM
	PlannedAmount float64   `json:"planned_amount" bson:"planned_amount"`
	SpentAmount   float64   `json:"spent_amount" bson:"spent_amount"`
	Notes         string    `json:"notes,omitempty" bson:"notes,omitempty"`
	CreatedAt     time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" bson:"updated_at"`
}

// Salary is one payroll line for one employee and period.
type Salary struct {
	ID         string     `json:"id" bson:"_id,omitempty"`
	EmployeeID string     `json:"employee_id" bson:"employee_id"`
	Period     string     `json:"period" bson:"period"` // YYYY-MM
	Gross      float64    `json:"gross" bson:"gross"`
	Deductions float64    `json:"deductions" bson:"deductions"`
	Net        float64    `json:"net" bson:"net"`
	Status     string     `json:"status" bson:"status"` // pending | paid
	PaidAt     *time.Time `json:"paid_at,omitempty" bson:"paid_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at" bson:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at" bson:"updated_at"`
}

// PettyExpense is a small out-of-pocket spend backed by a receipt.
type PettyExpense struct {
	ID          string    `json:"id" bson:"_id,omitempty"`
	Description string    `json:"description" bson:"description"`
	Amount      float64   `json:"amount" bson:"amount"`
	SpentBy     string    `json:"spent_by" bson:"spent_by"`
	ReceiptURL  string    `json:"receipt_url,omitempty" bson:"receipt_url,omitempty"`
	OccurredAt  time.Time `json:"occurred_at" bson:"occurred_at"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" bson:"updated_at"`
}

// Reminder is a dated note shown on the dashboard.
type Reminder struct {
	ID        string    `json:"id" bson:"_id,omitempty"`
	Title     string    `json:"title" bson:"title"`
	Note      string    `json:"note,omitempty" bson:"note,omitempty"`
	DueAt     time.Time `json:"due_at" bson:"due_at"`
	Done      bool      `json:"done" bson:"done"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// Employee is a staff record referenced by payroll.
type Employee struct {
	ID            string    `json:"id" bson:"_id,omitempty"`
	Name          string    `json:"name" bson:"name"`
	Email         string    `json:"email" bson:"email"`
	Position      string    `json:"position" bson:"position"`
	MonthlySalary float64   `json:"monthly_salary" bson:"monthly_salary"`
	HiredAt       time.Time `json:"hired_at" bson:"hired_at"`
	Active        bool      `json:"active" bson:"active"`
	CreatedAt     time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" bson:"updated_at"`
}

// SetID / Stamp let the generic resource service assign identity and
// timestamps without reflection.

func (b *Bill) SetID(id string) { b.ID = id }
func (b *Bill) Stamp(now time.Time) {
	if b.CreatedAt.IsZero() {
		b.CreatedAt = now
	}
	b.UpdatedAt = now
}

func (c *Card) SetID(id string) { c.ID = id }
func (c *Card) Stamp(now time.Time) {
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	c.UpdatedAt = now
}

func (t *CashTransaction) SetID(id string) { t.ID = id }
func (t *CashTransaction) Stamp(now time.Time) {
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	t.UpdatedAt = now
}

func (b *Budget) SetID(id string) { b.ID = id }
func (b *Budget) Stamp(now time.Time) {
	if b.CreatedAt.IsZero() {
		b.CreatedAt = now
	}
	b.UpdatedAt = now
}

func (s *Salary) SetID(id string) { s.ID = id }
func (s *Salary) Stamp(now time.Time) {
	if s.CreatedAt.IsZero() {
		s.CreatedAt = now
	}
	s.UpdatedAt = now
}

func (p *PettyExpense) SetID(id string) { p.ID = id }
func (p *PettyExpense) Stamp(now time.Time) {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
}

func (r *Reminder) SetID(id string) { r.ID = id }
func (r *Reminder) Stamp(now time.Time) {
	if r.CreatedAt.IsZero() {
		r.CreatedAt = now
	}
	r.UpdatedAt = now
}

func (e *Employee) SetID(id string) { e.ID = id }
func (e *Employee) Stamp(now time.Time) {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = now
	}
	e.UpdatedAt = now
}
