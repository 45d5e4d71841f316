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

import "time"

// LineItem is a single purchase line inside a transaction.
type LineItem struct {
	Title    string  `json:"title"`
	Quantity float64 `json:"quantity"`
	Price    float64 `json:"price"`
}

// Valid reports whether every field of the item is present. Zero quantity and
// zero price are rejected along with empty titles; a transaction carrying any
// invalid item is rejected wholesale.
func (li LineItem) Valid() bool {
	return li.Title != "" && li.Quantity > 0 && li.Price > 0
}

// Transaction is an immutable ledger record. Once created it is never updated
// or deleted; the owning user's balance moves by Total at creation time.
type Transaction struct {
	TransactionID string     `json:"id"`
	UserID        string     `json:"user"`
	Total         int64      `json:"total"`
	Description   string     `json:"description"`
	Date          time.Time  `json:"date"`
	Business      string     `json:"business"`
	Items         []LineItem `json:"items"`
	CreatedAt     time.Time  `json:"-"`
}
