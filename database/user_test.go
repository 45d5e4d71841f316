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
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spendtrail/spendtrail/internal/apierror"
	"github.com/spendtrail/spendtrail/model"
)

func TestCreateUser_GeneratesID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	ds := Datasource{Conn: db}

	mock.ExpectExec("INSERT INTO users").
		WithArgs(sqlmock.AnyArg(), int64(0), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	usr, err := ds.CreateUser(context.Background(), model.User{})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(usr.UserID, "usr_"))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetUserByID_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	ds := Datasource{Conn: db}

	rows := sqlmock.NewRows([]string{"user_id", "balance", "created_at"}).
		AddRow("usr_123", int64(2500), time.Now())
	mock.ExpectQuery("SELECT user_id, balance, created_at\\s+FROM users\\s+WHERE user_id = \\$1").
		WithArgs("usr_123").
		WillReturnRows(rows)

	usr, err := ds.GetUserByID(context.Background(), "usr_123")
	require.NoError(t, err)
	assert.Equal(t, "usr_123", usr.UserID)
	assert.Equal(t, int64(2500), usr.Balance)
}

func TestGetUserByID_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	ds := Datasource{Conn: db}

	mock.ExpectQuery("SELECT user_id, balance, created_at\\s+FROM users\\s+WHERE user_id = \\$1").
		WithArgs("usr_absent").
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "balance", "created_at"}))

	_, err = ds.GetUserByID(context.Background(), "usr_absent")
	require.Error(t, err)

	apiErr, ok := err.(apierror.APIError)
	require.True(t, ok)
	assert.Equal(t, apierror.ErrNotFound, apiErr.Code)
}

func TestGenerateUUIDWithSuffix(t *testing.T) {
	id := GenerateUUIDWithSuffix("txn")
	assert.True(t, strings.HasPrefix(id, "txn_"))
	assert.NotEqual(t, id, GenerateUUIDWithSuffix("txn"))
}
