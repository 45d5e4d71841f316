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
	"encoding/json"
	"net/url"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spendtrail/spendtrail/filter"
	"github.com/spendtrail/spendtrail/internal/apierror"
	"github.com/spendtrail/spendtrail/model"
)

func testTransaction() *model.Transaction {
	return &model.Transaction{
		TransactionID: "txn_123",
		UserID:        "usr_123",
		Total:         5000,
		Description:   "Office supplies",
		Business:      "Staples",
		Date:          time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC),
		Items: []model.LineItem{
			{Title: "Paper", Quantity: 2, Price: 1500},
			{Title: "Pens", Quantity: 4, Price: 500},
		},
		CreatedAt: time.Now(),
	}
}

func TestRecordTransaction_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	ds := Datasource{Conn: db}
	txn := testTransaction()
	itemsJSON, _ := json.Marshal(txn.Items)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO transactions(transaction_id, user_id, total, description, business, date, items, created_at) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`)).
		WithArgs(txn.TransactionID, txn.UserID, txn.Total, txn.Description, txn.Business, txn.Date, itemsJSON, txn.CreatedAt).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE users SET balance = balance + $1 WHERE user_id = $2`)).
		WithArgs(txn.Total, txn.UserID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	recorded, err := ds.RecordTransaction(context.Background(), txn)
	require.NoError(t, err)
	assert.Equal(t, txn.TransactionID, recorded.TransactionID)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordTransaction_BalanceUpdateTouchesNoRows(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	ds := Datasource{Conn: db}
	txn := testTransaction()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO transactions").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("UPDATE users SET balance").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, err = ds.RecordTransaction(context.Background(), txn)
	require.Error(t, err)

	apiErr, ok := err.(apierror.APIError)
	require.True(t, ok)
	assert.Equal(t, apierror.ErrInternalServer, apiErr.Code)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordTransaction_InsertFailureRollsBack(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	ds := Datasource{Conn: db}
	txn := testTransaction()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO transactions").
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	_, err = ds.RecordTransaction(context.Background(), txn)
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func transactionRows(txns ...*model.Transaction) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"transaction_id", "user_id", "total", "description", "business", "date", "items", "created_at"})
	for _, txn := range txns {
		itemsJSON, _ := json.Marshal(txn.Items)
		rows.AddRow(txn.TransactionID, txn.UserID, txn.Total, txn.Description, txn.Business, txn.Date, itemsJSON, txn.CreatedAt)
	}
	return rows
}

func TestGetAllTransactions_NoFilter(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	ds := Datasource{Conn: db}
	txn := testTransaction()

	mock.ExpectQuery("SELECT (.+) FROM transactions\\s+ORDER BY date DESC\\s+LIMIT \\$1 OFFSET \\$2").
		WithArgs(10, 0).
		WillReturnRows(transactionRows(txn))

	query := filter.ParseFromQuery(url.Values{})
	transactions, err := ds.GetAllTransactions(context.Background(), query)
	require.NoError(t, err)
	require.Len(t, transactions, 1)
	assert.Equal(t, txn.TransactionID, transactions[0].TransactionID)
	assert.Equal(t, txn.Items, transactions[0].Items)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetAllTransactions_FilteredAndPaged(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	ds := Datasource{Conn: db}

	mock.ExpectQuery("SELECT (.+) FROM transactions\\s+WHERE user_id = \\$1 AND total >= \\$2\\s+ORDER BY date DESC\\s+LIMIT \\$3 OFFSET \\$4").
		WithArgs("usr_123", int64(100), 10, 20).
		WillReturnRows(transactionRows())

	query := filter.ParseFromQuery(url.Values{
		"user":      {"usr_123"},
		"totalFrom": {"100"},
		"page":      {"3"},
	})
	transactions, err := ds.GetAllTransactions(context.Background(), query)
	require.NoError(t, err)
	assert.Empty(t, transactions)
	assert.NotNil(t, transactions)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetTransaction_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	ds := Datasource{Conn: db}

	mock.ExpectQuery("SELECT (.+) FROM transactions\\s+WHERE transaction_id = \\$1").
		WithArgs("txn_missing").
		WillReturnRows(transactionRows())

	_, err = ds.GetTransaction(context.Background(), "txn_missing")
	require.Error(t, err)

	apiErr, ok := err.(apierror.APIError)
	require.True(t, ok)
	assert.Equal(t, apierror.ErrNotFound, apiErr.Code)
}
