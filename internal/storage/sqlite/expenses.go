package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/splitsmart/internal/models"
)

// CreateExpense persists an expense with its participants and split inputs,
// adding the payer and new participants to the group.
func (s *SQLiteStore) CreateExpense(ctx context.Context, expense *models.Expense) error {
	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	if expense.CreatedAt == 0 {
		expense.CreatedAt = time.Now().UnixNano()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	people := append([]string{expense.Payer}, expense.Participants...)
	if err := addMissingMembers(ctx, tx, expense.GroupID, people); err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO expenses (id, group_id, description, amount, payer, split_kind, created_at, created_by)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		expense.ID, expense.GroupID, expense.Description, expense.Amount.String(),
		expense.Payer, expense.SplitKind, expense.CreatedAt, expense.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}

	for i, name := range expense.Participants {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO expense_participants (expense_id, name, position) VALUES (?, ?, ?)",
			expense.ID, name, i,
		)
		if err != nil {
			return fmt.Errorf("failed to insert participant: %w", err)
		}
	}

	for _, p := range expense.Portions {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO expense_portions (expense_id, participant, value) VALUES (?, ?, ?)",
			expense.ID, p.Participant, p.Value.String(),
		)
		if err != nil {
			return fmt.Errorf("failed to insert portion: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// ListExpensesByGroup retrieves all expenses for a group in recording order,
// each with its participants and split inputs.
func (s *SQLiteStore) ListExpensesByGroup(ctx context.Context, groupID string) ([]*models.Expense, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, group_id, description, amount, payer, split_kind, created_at, created_by
		 FROM expenses WHERE group_id = ? ORDER BY created_at, rowid`,
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses by group: %w", err)
	}
	defer rows.Close()

	var expenses []*models.Expense
	for rows.Next() {
		e := &models.Expense{}
		if err := rows.Scan(&e.ID, &e.GroupID, &e.Description, &e.Amount, &e.Payer,
			&e.SplitKind, &e.CreatedAt, &e.CreatedBy); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}

	for _, e := range expenses {
		if err := s.loadExpenseDetail(ctx, e); err != nil {
			return nil, err
		}
	}
	return expenses, nil
}

func (s *SQLiteStore) loadExpenseDetail(ctx context.Context, e *models.Expense) error {
	partRows, err := s.db.QueryContext(ctx,
		"SELECT name FROM expense_participants WHERE expense_id = ? ORDER BY position",
		e.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to get expense participants: %w", err)
	}
	for partRows.Next() {
		var name string
		if err := partRows.Scan(&name); err != nil {
			partRows.Close()
			return fmt.Errorf("failed to scan participant: %w", err)
		}
		e.Participants = append(e.Participants, name)
	}
	partRows.Close()
	if err := partRows.Err(); err != nil {
		return fmt.Errorf("failed to iterate participants: %w", err)
	}

	portionRows, err := s.db.QueryContext(ctx,
		`SELECT p.participant, p.value
		 FROM expense_portions p
		 JOIN expense_participants ep ON ep.expense_id = p.expense_id AND ep.name = p.participant
		 WHERE p.expense_id = ? ORDER BY ep.position`,
		e.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to get expense portions: %w", err)
	}
	defer portionRows.Close()

	for portionRows.Next() {
		var p models.Portion
		if err := portionRows.Scan(&p.Participant, &p.Value); err != nil {
			return fmt.Errorf("failed to scan portion: %w", err)
		}
		e.Portions = append(e.Portions, p)
	}
	if err := portionRows.Err(); err != nil {
		return fmt.Errorf("failed to iterate portions: %w", err)
	}
	return nil
}
