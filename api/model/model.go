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
package model

import (
	"bytes"
	"encoding/json"
	"math"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/spendtrail/spendtrail/filter"
	"github.com/spendtrail/spendtrail/internal/apierror"
	"github.com/spendtrail/spendtrail/model"
)

// ValidateCreateTransaction applies the write-path rules in a fixed order,
// short-circuiting on the first failure. Zero values fail the presence
// checks; a free line item or a zero-total adjustment is rejected.
func (t *CreateTransaction) ValidateCreateTransaction() error {
	if err := (validation.Errors{
		"user":        validation.Validate(t.User, validation.Required),
		"total":       validation.Validate(t.Total, validation.Required),
		"description": validation.Validate(t.Description, validation.Required),
		"date":        validation.Validate(t.Date, validation.Required),
		"business":    validation.Validate(t.Business, validation.Required),
	}).Filter(); err != nil {
		return apierror.NewValidationError(apierror.ReasonMissingFields, "Missing required fields")
	}

	if t.Total != math.Trunc(t.Total) {
		return apierror.NewValidationError(apierror.ReasonNonIntegerTotal, "Total must be a whole number")
	}

	if len(t.Items) > 0 && !bytes.HasPrefix(bytes.TrimSpace(t.Items), []byte("[")) {
		return apierror.NewValidationError(apierror.ReasonItemsNotArray, "Items must be an array")
	}

	var rawItems []json.RawMessage
	if len(t.Items) > 0 {
		if err := json.Unmarshal(t.Items, &rawItems); err != nil {
			return apierror.NewValidationError(apierror.ReasonItemsNotArray, "Items must be an array")
		}
	}
	for _, raw := range rawItems {
		var item model.LineItem
		if err := json.Unmarshal(raw, &item); err != nil || !item.Valid() {
			return apierror.NewValidationError(apierror.ReasonInvalidItem, "Items must have a title, quantity, and price")
		}
	}

	if _, err := filter.ParseDateTime(t.Date); err != nil {
		return apierror.NewValidationError(apierror.ReasonInvalidDate, "Date is not in a recognized format")
	}

	return nil
}
