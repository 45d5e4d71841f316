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

package spendtrail

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/spendtrail/spendtrail/database"
	"github.com/spendtrail/spendtrail/events"
	"github.com/spendtrail/spendtrail/filter"
	"github.com/spendtrail/spendtrail/internal/apierror"
	"github.com/spendtrail/spendtrail/internal/notification"
	"github.com/spendtrail/spendtrail/model"
)

// CreateTransaction records a transaction against an existing user. Request
// shape validation happens at the API boundary; this layer verifies the user
// reference and hands the record plus its balance adjustment to the
// datasource as one atomic unit. A post-insert balance failure is a fatal
// inconsistency: it is notified and surfaced, never swallowed.
func (s *Spendtrail) CreateTransaction(ctx context.Context, txn *model.Transaction) (*model.Transaction, error) {
	if _, err := s.GetUserByID(ctx, txn.UserID); err != nil {
		if apiErr, ok := err.(apierror.APIError); ok && apiErr.Code == apierror.ErrNotFound {
			return nil, apierror.NewValidationError(apierror.ReasonUserNotFound, "User not found")
		}
		return nil, errors.Wrap(err, "failed to verify transaction owner")
	}

	txn.TransactionID = database.GenerateUUIDWithSuffix("txn")
	txn.CreatedAt = time.Now()

	recorded, err := s.datasource.RecordTransaction(ctx, txn)
	if err != nil {
		if apiErr, ok := err.(apierror.APIError); ok && apiErr.Code == apierror.ErrInternalServer {
			notification.NotifyError(apiErr)
		}
		return nil, err
	}

	// the owner's balance moved; the cached copy is stale
	if s.cache != nil {
		_ = s.cache.Delete(ctx, userCacheKey(recorded.UserID))
	}

	s.publishTransactionCreated(recorded)
	return recorded, nil
}

// GetAllTransactions returns one page of transactions matching the query,
// newest first.
func (s *Spendtrail) GetAllTransactions(ctx context.Context, query filter.Query) ([]*model.Transaction, error) {
	return s.datasource.GetAllTransactions(ctx, query)
}

func (s *Spendtrail) GetTransaction(ctx context.Context, id string) (*model.Transaction, error) {
	return s.datasource.GetTransaction(ctx, id)
}

// publishTransactionCreated emits the event off the request path. Delivery
// failures are logged and dropped.
func (s *Spendtrail) publishTransactionCreated(txn *model.Transaction) {
	event := events.TransactionCreated{
		TransactionID: txn.TransactionID,
		UserID:        txn.UserID,
		Total:         txn.Total,
		Date:          txn.Date,
		OccurredAt:    time.Now().UTC(),
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.publisher.PublishTransactionCreated(ctx, event); err != nil {
			logrus.Warnf("failed to publish transaction created event for %s: %v", event.TransactionID, err)
		}
	}()
}
