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

// Package filter turns the sparse query parameters of the transaction list
// endpoint into a structured predicate. Building never fails: malformed
// optional values degrade to "no constraint" and a bad page number degrades
// to page 1.
package filter

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// PageSize is the fixed number of transactions per page.
const PageSize = 10

// Query is the structured form of the transaction list parameters. Nil/empty
// fields impose no constraint. Range bounds are inclusive on both ends.
type Query struct {
	User      string
	DateFrom  *time.Time
	DateTo    *time.Time
	TotalFrom *int64
	TotalTo   *int64
	Page      int
}

// ParseFromQuery builds a Query from raw URL parameters.
func ParseFromQuery(values url.Values) Query {
	q := Query{Page: parsePage(values.Get("page"))}

	if user := strings.TrimSpace(values.Get("user")); user != "" {
		q.User = user
	}
	q.DateFrom = parseDate(values.Get("dateFrom"))
	q.DateTo = parseDate(values.Get("dateTo"))
	q.TotalFrom = parseTotal(values.Get("totalFrom"), math.Ceil)
	q.TotalTo = parseTotal(values.Get("totalTo"), math.Floor)

	return q
}

// Offset returns the row offset for the requested page.
func (q Query) Offset() int {
	return (q.Page - 1) * PageSize
}

// Limit returns the page size. Result ordering is always descending by date;
// that is part of the endpoint contract, not a knob.
func (q Query) Limit() int {
	return PageSize
}

// SQL renders the WHERE clause and its positional arguments. The clause is
// empty when no constraint applies; placeholders start at $1 so the caller
// appends LIMIT/OFFSET with the next positions.
func (q Query) SQL() (string, []interface{}) {
	var conditions []string
	var args []interface{}

	if q.User != "" {
		args = append(args, q.User)
		conditions = append(conditions, fmt.Sprintf("user_id = $%d", len(args)))
	}
	if q.DateFrom != nil {
		args = append(args, *q.DateFrom)
		conditions = append(conditions, fmt.Sprintf("date >= $%d", len(args)))
	}
	if q.DateTo != nil {
		args = append(args, *q.DateTo)
		conditions = append(conditions, fmt.Sprintf("date <= $%d", len(args)))
	}
	if q.TotalFrom != nil {
		args = append(args, *q.TotalFrom)
		conditions = append(conditions, fmt.Sprintf("total >= $%d", len(args)))
	}
	if q.TotalTo != nil {
		args = append(args, *q.TotalTo)
		conditions = append(conditions, fmt.Sprintf("total <= $%d", len(args)))
	}
	if len(conditions) == 0 {
		return "", args
	}
	return "WHERE " + strings.Join(conditions, " AND "), args
}

func parsePage(raw string) int {
	page, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// parseTotal coerces a query-string number to an integer amount. Fractional
// bounds are rounded inward (ceil for a lower bound, floor for an upper
// bound) so the inclusive range never widens. Non-numeric input is treated
// as absent, matching the page-number degradation rule.
func parseTotal(raw string, round func(float64) float64) *int64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	total, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(total) || math.IsInf(total, 0) {
		return nil
	}
	v := int64(round(total))
	return &v
}

var dateFormats = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006/01/02",
}

// ParseDateTime parses value against the accepted datetime formats, most
// precise first.
func ParseDateTime(value string) (time.Time, error) {
	for _, format := range dateFormats {
		if t, err := time.Parse(format, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unable to parse date: %s", value)
}

func parseDate(raw string) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	t, err := ParseDateTime(raw)
	if err != nil {
		return nil
	}
	return &t
}
