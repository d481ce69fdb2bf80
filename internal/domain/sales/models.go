package sales

import (
	"time"

	"opsboard/internal/domain/currency"
)

const (
	InvoiceStatusDraft = "draft"
	InvoiceStatusSent  = "sent"
	InvoiceStatusPaid  = "paid"
)

// Invoice is one billed amount attributed to the employee who closed the
// sale. Amounts keep their original currency; conversion happens at report
// time against the display currency.
type Invoice struct {
	ID         string            `json:"id"`
	EmployeeID string            `json:"employeeId"`
	ClientName string            `json:"clientName"`
	Amount     float64           `json:"amount"`
	Currency   currency.Currency `json:"currency"`
	Status     string            `json:"status"`
	IssuedAt   time.Time         `json:"issuedAt"`
	CreatedAt  time.Time         `json:"createdAt"`
}

// Goal is a revenue target for one employee over a period.
type Goal struct {
	ID           string            `json:"id"`
	EmployeeID   string            `json:"employeeId"`
	Name         string            `json:"name"`
	TargetAmount float64           `json:"targetAmount"`
	Currency     currency.Currency `json:"currency"`
	PeriodStart  time.Time         `json:"periodStart"`
	PeriodEnd    time.Time         `json:"periodEnd"`
	CreatedAt    time.Time         `json:"createdAt"`
}

// LeaderboardEntry is one employee's converted invoice total for the range.
type LeaderboardEntry struct {
	EmployeeID   string  `json:"employeeId"`
	EmployeeName string  `json:"employeeName"`
	Total        float64 `json:"total"`
	Formatted    string  `json:"formatted"`
	InvoiceCount int     `json:"invoiceCount"`
}

// GoalProgress reports achieved revenue against the target, both converted
// into the requested display currency.
type GoalProgress struct {
	GoalID    string            `json:"goalId"`
	Name      string            `json:"name"`
	Currency  currency.Currency `json:"currency"`
	Target    float64           `json:"target"`
	Achieved  float64           `json:"achieved"`
	Percent   float64           `json:"percent"`
	Formatted string            `json:"formatted"`
}
