// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package employee

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/staffroom/internal/platform/database/schema"
	"github.com/taibuivan/staffroom/internal/platform/dberr"
	"github.com/taibuivan/staffroom/pkg/uuid"
)

// PostgresStore implements [Store] using pgx.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgreSQL implementation of [Store].
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

var (
	employeeColumns = strings.Join(schema.Employee.Columns(), ", ")

	insertQuery = fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING %s`,
		schema.Employee.Table,
		schema.Employee.PublicID, schema.Employee.FirstName, schema.Employee.MiddleName,
		schema.Employee.LastName, schema.Employee.FullName, schema.Employee.Email,
		schema.Employee.HashedPassword, schema.Employee.Role,
		employeeColumns,
	)

	selectQuery = fmt.Sprintf(`SELECT %s FROM %s`, employeeColumns, schema.Employee.Table)
)

// Insert persists a new employee row. The database assigns id and createdat.
//
// A duplicate email surfaces as [crud.ErrConflict] via the
// employee_email_key constraint.
func (store *PostgresStore) Insert(ctx context.Context, record Record) (Record, error) {
	row := store.pool.QueryRow(ctx, insertQuery,
		record.PublicID,
		record.FirstName,
		record.MiddleName,
		record.LastName,
		record.FullName,
		record.Email,
		record.HashedPassword,
		record.Role,
	)

	stored, err := scanRecord(row)
	if err != nil {
		return record, dberr.Wrap(err, "postgres_employee_insert_failed")
	}

	return stored, nil
}

// FindByPublicID retrieves an employee by public id. Non-UUID input is
// treated as absent rather than sent to the database.
func (store *PostgresStore) FindByPublicID(ctx context.Context, publicID string) (*Record, error) {
	if !uuid.Valid(publicID) {
		return nil, nil
	}

	query := selectQuery + fmt.Sprintf(" WHERE %s = $1", schema.Employee.PublicID)
	return store.findOne(ctx, query, publicID, "postgres_employee_find_by_public_id_failed")
}

// FindByEmail retrieves an employee by exact email match.
func (store *PostgresStore) FindByEmail(ctx context.Context, email string) (*Record, error) {
	query := selectQuery + fmt.Sprintf(" WHERE %s = $1", schema.Employee.Email)
	return store.findOne(ctx, query, email, "postgres_employee_find_by_email_failed")
}

// List returns every employee in insertion order.
func (store *PostgresStore) List(ctx context.Context) ([]Record, error) {
	query := selectQuery + fmt.Sprintf(" ORDER BY %s", schema.Employee.ID)

	rows, err := store.pool.Query(ctx, query)
	if err != nil {
		return nil, dberr.Wrap(err, "postgres_employee_list_failed")
	}
	defer rows.Close()

	records := []Record{}
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, dberr.Wrap(err, "postgres_employee_list_scan_failed")
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, "postgres_employee_list_rows_failed")
	}

	return records, nil
}

func (store *PostgresStore) findOne(ctx context.Context, query, argument, action string) (*Record, error) {
	record, err := scanRecord(store.pool.QueryRow(ctx, query, argument))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, dberr.Wrap(err, action)
	}
	return &record, nil
}

// scanRecord reads columns in [schema.EmployeeTable.Columns] order.
func scanRecord(row pgx.Row) (Record, error) {
	var record Record
	err := row.Scan(
		&record.ID,
		&record.PublicID,
		&record.FirstName,
		&record.MiddleName,
		&record.LastName,
		&record.FullName,
		&record.Email,
		&record.HashedPassword,
		&record.Role,
		&record.CreatedAt,
	)
	return record, err
}
