package sales

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"opsboard/internal/platform/db"
)

type Store struct {
	DB db.Querier
}

func NewStore(q db.Querier) *Store {
	return &Store{DB: q}
}

func (s *Store) CreateInvoice(ctx context.Context, inv Invoice) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO invoices (employee_id, client_name, amount, currency, status, issued_at)
    VALUES ($1, $2, $3, $4, $5, $6)
    RETURNING id
  `, inv.EmployeeID, inv.ClientName, inv.Amount, string(inv.Currency), inv.Status, inv.IssuedAt).Scan(&id)
	return id, err
}

func (s *Store) CreateGoal(ctx context.Context, goal Goal) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO goals (employee_id, name, target_amount, currency, period_start, period_end)
    VALUES ($1, $2, $3, $4, $5, $6)
    RETURNING id
  `, goal.EmployeeID, goal.Name, goal.TargetAmount, string(goal.Currency), goal.PeriodStart, goal.PeriodEnd).Scan(&id)
	return id, err
}

func (s *Store) GetGoal(ctx context.Context, goalID string) (*Goal, error) {
	var goal Goal
	err := s.DB.QueryRow(ctx, `
    SELECT id, employee_id, name, target_amount, currency, period_start, period_end, created_at
    FROM goals
    WHERE id = $1
  `, goalID).Scan(&goal.ID, &goal.EmployeeID, &goal.Name, &goal.TargetAmount,
		&goal.Currency, &goal.PeriodStart, &goal.PeriodEnd, &goal.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrGoalNotFound
		}
		return nil, err
	}
	return &goal, nil
}

// InvoiceRow is the slice of invoice data the reports aggregate over, with
// the employee name joined in for display.
type InvoiceRow struct {
	EmployeeID   string
	EmployeeName string
	Amount       float64
	Currency     string
}

// ListInvoiceRows returns paid and sent invoices issued in [from, to].
func (s *Store) ListInvoiceRows(ctx context.Context, from, to time.Time) ([]InvoiceRow, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT i.employee_id, e.first_name || ' ' || e.last_name, i.amount, i.currency
    FROM invoices i
    JOIN employees e ON i.employee_id = e.id
    WHERE i.issued_at >= $1 AND i.issued_at <= $2 AND i.status <> $3
    ORDER BY i.issued_at
  `, from, to, InvoiceStatusDraft)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []InvoiceRow
	for rows.Next() {
		var row InvoiceRow
		if err := rows.Scan(&row.EmployeeID, &row.EmployeeName, &row.Amount, &row.Currency); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// ListEmployeeInvoiceRows scopes the rows to one employee's invoices within
// a goal period.
func (s *Store) ListEmployeeInvoiceRows(ctx context.Context, employeeID string, from, to time.Time) ([]InvoiceRow, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT i.employee_id, e.first_name || ' ' || e.last_name, i.amount, i.currency
    FROM invoices i
    JOIN employees e ON i.employee_id = e.id
    WHERE i.employee_id = $1 AND i.issued_at >= $2 AND i.issued_at <= $3 AND i.status <> $4
    ORDER BY i.issued_at
  `, employeeID, from, to, InvoiceStatusDraft)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []InvoiceRow
	for rows.Next() {
		var row InvoiceRow
		if err := rows.Scan(&row.EmployeeID, &row.EmployeeName, &row.Amount, &row.Currency); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
