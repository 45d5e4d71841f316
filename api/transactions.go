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
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	model2 "github.com/spendtrail/spendtrail/api/model"
	"github.com/spendtrail/spendtrail/filter"
	"github.com/spendtrail/spendtrail/internal/apierror"
)

// GetAllTransactions returns one page of transactions matching the query
// parameters. Malformed optional parameters impose no constraint rather
// than failing the request.
//
// Responses:
// - 200 OK: with the matching page, newest first.
// - 500 Internal Server Error: on persistence failure.
func (a Api) GetAllTransactions(c *gin.Context) {
	query := filter.ParseFromQuery(c.Request.URL.Query())

	transactions, err := a.spendtrail.GetAllTransactions(c.Request.Context(), query)
	if err != nil {
		a.handleError(c, err)
		return
	}

	respond(c, http.StatusOK, "Transactions retrieved successfully", gin.H{"transactions": transactions})
}

// CreateTransaction records a new transaction. The request is validated in a
// fixed order and rejected with a reason-specific message on the first
// failing rule.
//
// Responses:
// - 201 Created: transaction persisted and the owner's balance adjusted.
// - 400 Bad Request: validation failure, including an unknown user.
// - 500 Internal Server Error: on unexpected failure.
func (a Api) CreateTransaction(c *gin.Context) {
	var newTransaction model2.CreateTransaction
	if err := c.ShouldBindJSON(&newTransaction); err != nil {
		logrus.Error(err)
		respond(c, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := newTransaction.ValidateCreateTransaction(); err != nil {
		a.handleError(c, err)
		return
	}

	txn, err := a.spendtrail.CreateTransaction(c.Request.Context(), newTransaction.ToTransaction())
	if err != nil {
		a.handleError(c, err)
		return
	}

	respond(c, http.StatusCreated, "Transaction created successfully", gin.H{"transaction": txn})
}

// GetTransaction retrieves a single transaction by its ID.
//
// Responses:
// - 200 OK: transaction found.
// - 404 Not Found: no transaction with that ID.
func (a Api) GetTransaction(c *gin.Context) {
	id, passed := c.Params.Get("id")
	if !passed {
		respond(c, http.StatusBadRequest, "id is required. pass id in the route /:id", nil)
		return
	}

	txn, err := a.spendtrail.GetTransaction(c.Request.Context(), id)
	if err != nil {
		a.handleError(c, err)
		return
	}

	respond(c, http.StatusOK, "Transaction retrieved successfully", gin.H{"transaction": txn})
}

// handleError maps service errors onto the response envelope. Validation
// failures carry their reason-specific message; anything unexpected is
// logged in full and answered with a generic message so internals never
// leak to the caller.
func (a Api) handleError(c *gin.Context, err error) {
	status := apierror.MapErrorToHTTPStatus(err)
	if status >= http.StatusInternalServerError {
		logrus.Error(err)
		respond(c, status, "Internal server error", nil)
		return
	}

	message := "Bad request"
	if apiErr, ok := err.(apierror.APIError); ok {
		message = apiErr.Message
	}
	respond(c, status, message, nil)
}
