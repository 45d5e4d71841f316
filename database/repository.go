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

	"github.com/spendtrail/spendtrail/filter"
	"github.com/spendtrail/spendtrail/model"
)

type IDataSource interface {
	transaction
	user
}

type transaction interface {
	// RecordTransaction persists txn and applies its total to the owner's
	// balance as one atomic unit.
	RecordTransaction(ctx context.Context, txn *model.Transaction) (*model.Transaction, error)
	GetTransaction(ctx context.Context, id string) (*model.Transaction, error)
	GetAllTransactions(ctx context.Context, query filter.Query) ([]*model.Transaction, error)
}

type user interface {
	CreateUser(ctx context.Context, usr model.User) (model.User, error)
	GetUserByID(ctx context.Context, id string) (*model.User, error)
}
