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

package apierror_test

import (
	"errors"
	"net/http"
	"testing"

	"github.com/spendtrail/spendtrail/internal/apierror"
	"github.com/stretchr/testify/assert"
)

func TestNewValidationError(t *testing.T) {
	err := apierror.NewValidationError(apierror.ReasonNonIntegerTotal, "Total must be a whole number")

	assert.Equal(t, apierror.ErrValidation, err.Code)
	assert.Equal(t, "VALIDATION: Total must be a whole number", err.Error())

	reason, ok := apierror.Reason(err)
	assert.True(t, ok)
	assert.Equal(t, apierror.ReasonNonIntegerTotal, reason)
}

func TestReason_NonValidationError(t *testing.T) {
	_, ok := apierror.Reason(errors.New("plain error"))
	assert.False(t, ok)

	_, ok = apierror.Reason(apierror.NewAPIError(apierror.ErrInternalServer, "boom", nil))
	assert.False(t, ok)
}

func TestMapErrorToHTTPStatus(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{
			name:     "Validation Error",
			err:      apierror.NewValidationError(apierror.ReasonMissingFields, "Missing required fields"),
			expected: http.StatusBadRequest,
		},
		{
			name:     "NotFound Error",
			err:      apierror.NewAPIError(apierror.ErrNotFound, "Transaction not found", nil),
			expected: http.StatusNotFound,
		},
		{
			name:     "Admission Error",
			err:      apierror.NewAPIError(apierror.ErrAdmissionDenied, "Forbidden", nil),
			expected: http.StatusForbidden,
		},
		{
			name:     "InternalServerError",
			err:      apierror.NewAPIError(apierror.ErrInternalServer, "Internal server error", nil),
			expected: http.StatusInternalServerError,
		},
		{
			name:     "Unknown Error",
			err:      errors.New("some random error"),
			expected: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, apierror.MapErrorToHTTPStatus(tt.err))
		})
	}
}
