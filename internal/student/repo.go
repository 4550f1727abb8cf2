package student

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"registration/internal/store"
)

const studentColumns = `id, first_name, last_name, email, dob, roll_number`

// Repository persists students in the users table.
type Repository struct {
	db *store.DB
}

// NewRepository creates a repo.
func NewRepository(db *store.DB) *Repository {
	return &Repository{db: db}
}

// Insert writes a new row and returns the id the store assigned. Nil fields
// are written as NULL and left to the table constraints.
func (r *Repository) Insert(ctx context.Context, firstName, lastName, email, dob, rollNumber *string) (int64, error) {
	var id int64
	err := r.db.Client.QueryRowContext(ctx, r.db.Rebind(`
		INSERT INTO users (first_name, last_name, email, dob, roll_number)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id
	`), firstName, lastName, email, dob, rollNumber).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert student: %w", err)
	}
	return id, nil
}

// List returns every row in store order.
func (r *Repository) List(ctx context.Context) ([]Student, error) {
	rows, err := r.db.Client.QueryContext(ctx, `SELECT `+studentColumns+` FROM users`)
	if err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	defer rows.Close()

	students := make([]Student, 0)
	for rows.Next() {
		var s Student
		if err := rows.Scan(&s.ID, &s.FirstName, &s.LastName, &s.Email, &s.DOB, &s.RollNumber); err != nil {
			return nil, fmt.Errorf("scan student: %w", err)
		}
		students = append(students, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	return students, nil
}

// Get returns a single row by id.
func (r *Repository) Get(ctx context.Context, id int64) (Student, error) {
	var s Student
	err := r.db.Client.QueryRowContext(ctx, r.db.Rebind(`SELECT `+studentColumns+` FROM users WHERE id = ?`), id).
		Scan(&s.ID, &s.FirstName, &s.LastName, &s.Email, &s.DOB, &s.RollNumber)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Student{}, ErrNotFound
		}
		return Student{}, fmt.Errorf("get student %d: %w", id, err)
	}
	return s, nil
}

// Delete removes the row if present. A missing row is not an error.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.Client.ExecContext(ctx, r.db.Rebind(`DELETE FROM users WHERE id = ?`), id); err != nil {
		return fmt.Errorf("delete student %d: %w", id, err)
	}
	return nil
}

// Update overwrites all five business fields. It returns ErrNotFound when no
// row matched.
func (r *Repository) Update(ctx context.Context, id int64, firstName, lastName, email, dob, rollNumber string) error {
	res, err := r.db.Client.ExecContext(ctx, r.db.Rebind(`
		UPDATE users
		SET first_name = ?, last_name = ?, email = ?, dob = ?, roll_number = ?
		WHERE id = ?
	`), firstName, lastName, email, dob, rollNumber, id)
	if err != nil {
		return fmt.Errorf("update student %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update student %d: rows affected: %w", id, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
