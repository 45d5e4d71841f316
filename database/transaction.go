/*
Copyright 2025 Spendtrail Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spendtrail/spendtrail/filter"
	"github.com/spendtrail/spendtrail/internal/apierror"
	"github.com/spendtrail/spendtrail/model"
)

// RecordTransaction inserts the transaction and moves the owner's balance in
// a single database transaction. The balance update is a relative increment
// executed by the database, so concurrent creations for the same user never
// lose updates. A transaction row must never exist without its balance
// adjustment: if the increment touches no row after a successful insert, the
// whole unit rolls back and the inconsistency is surfaced, not swallowed.
func (d Datasource) RecordTransaction(ctx context.Context, txn *model.Transaction) (*model.Transaction, error) {
	itemsJSON, err := json.Marshal(txn.Items)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to marshal items", err)
	}

	tx, err := d.Conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to begin transaction", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO transactions(transaction_id, user_id, total, description, business, date, items, created_at) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		txn.TransactionID, txn.UserID, txn.Total, txn.Description, txn.Business, txn.Date, itemsJSON, txn.CreatedAt,
	)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to record transaction", err)
	}

	result, err := tx.ExecContext(ctx,
		`UPDATE users SET balance = balance + $1 WHERE user_id = $2`,
		txn.Total, txn.UserID,
	)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to update user balance", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to read balance update result", err)
	}
	if affected == 0 {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer,
			"Balance update applied to no rows, transaction rolled back",
			fmt.Errorf("user '%s' disappeared during transaction creation", txn.UserID))
	}

	if err := tx.Commit(); err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to commit transaction", err)
	}

	return txn, nil
}

func (d Datasource) GetTransaction(ctx context.Context, id string) (*model.Transaction, error) {
	row := d.Conn.QueryRowContext(ctx, `
		SELECT transaction_id, user_id, total, description, business, date, items, created_at
		FROM transactions
		WHERE transaction_id = $1
	`, id)

	txn, err := scanTransaction(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apierror.NewAPIError(apierror.ErrNotFound, fmt.Sprintf("Transaction with ID '%s' not found", id), err)
		}
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve transaction", err)
	}
	return txn, nil
}

// GetAllTransactions returns one page of transactions matching the query,
// newest first. No cursor state is retained between calls.
func (d Datasource) GetAllTransactions(ctx context.Context, query filter.Query) ([]*model.Transaction, error) {
	where, args := query.SQL()
	stmt := fmt.Sprintf(`
		SELECT transaction_id, user_id, total, description, business, date, items, created_at
		FROM transactions
		%s
		ORDER BY date DESC
		LIMIT $%d OFFSET $%d
	`, where, len(args)+1, len(args)+2)
	args = append(args, query.Limit(), query.Offset())

	rows, err := d.Conn.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve transactions", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	transactions := []*model.Transaction{}
	for rows.Next() {
		txn, err := scanTransaction(rows.Scan)
		if err != nil {
			return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to scan transaction", err)
		}
		transactions = append(transactions, txn)
	}
	if err := rows.Err(); err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to iterate transactions", err)
	}
	return transactions, nil
}

func scanTransaction(scan func(dest ...interface{}) error) (*model.Transaction, error) {
	txn := &model.Transaction{}
	var itemsJSON []byte
	err := scan(&txn.TransactionID, &txn.UserID, &txn.Total, &txn.Description, &txn.Business, &txn.Date, &itemsJSON, &txn.CreatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(itemsJSON, &txn.Items); err != nil {
		return nil, err
	}
	return txn, nil
}
