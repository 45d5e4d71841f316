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
	"errors"
	"fmt"
	"time"

	"github.com/spendtrail/spendtrail/internal/apierror"
	"github.com/spendtrail/spendtrail/model"
)

// CreateUser provisions a ledger user. User lifecycle lives outside the API
// surface; this is consumed by the seed command and by tests.
func (d Datasource) CreateUser(ctx context.Context, usr model.User) (model.User, error) {
	if usr.UserID == "" {
		usr.UserID = GenerateUUIDWithSuffix("usr")
	}
	usr.CreatedAt = time.Now()

	_, err := d.Conn.ExecContext(ctx,
		`INSERT INTO users (user_id, balance, created_at) VALUES ($1, $2, $3)`,
		usr.UserID, usr.Balance, usr.CreatedAt,
	)
	if err != nil {
		return model.User{}, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to create user", err)
	}
	return usr, nil
}

func (d Datasource) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	row := d.Conn.QueryRowContext(ctx, `
		SELECT user_id, balance, created_at
		FROM users
		WHERE user_id = $1
	`, id)

	usr := &model.User{}
	err := row.Scan(&usr.UserID, &usr.Balance, &usr.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apierror.NewAPIError(apierror.ErrNotFound, fmt.Sprintf("User with ID '%s' not found", id), err)
		}
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve user", err)
	}
	return usr, nil
}
