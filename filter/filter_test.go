package filter

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFromQuery_NoParams(t *testing.T) {
	q := ParseFromQuery(url.Values{})

	assert.Equal(t, 1, q.Page)
	assert.Equal(t, 0, q.Offset())
	assert.Equal(t, 10, q.Limit())

	where, args := q.SQL()
	assert.Empty(t, where)
	assert.Empty(t, args)
}

func TestParseFromQuery_TotalFromOnly(t *testing.T) {
	q := ParseFromQuery(url.Values{"totalFrom": {"100"}})

	require.NotNil(t, q.TotalFrom)
	assert.Equal(t, int64(100), *q.TotalFrom)
	assert.Nil(t, q.TotalTo)

	where, args := q.SQL()
	assert.Equal(t, "WHERE total >= $1", where)
	assert.Equal(t, []interface{}{int64(100)}, args)
}

func TestParseFromQuery_AllParams(t *testing.T) {
	q := ParseFromQuery(url.Values{
		"user":      {"usr_abc"},
		"dateFrom":  {"2025-01-01"},
		"dateTo":    {"2025-02-01T12:30:00Z"},
		"totalFrom": {"50"},
		"totalTo":   {"500"},
		"page":      {"3"},
	})

	assert.Equal(t, "usr_abc", q.User)
	assert.Equal(t, 3, q.Page)
	assert.Equal(t, 20, q.Offset())
	require.NotNil(t, q.DateFrom)
	assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), *q.DateFrom)
	require.NotNil(t, q.DateTo)
	assert.Equal(t, time.Date(2025, 2, 1, 12, 30, 0, 0, time.UTC), *q.DateTo)

	where, args := q.SQL()
	assert.Equal(t, "WHERE user_id = $1 AND date >= $2 AND date <= $3 AND total >= $4 AND total <= $5", where)
	assert.Len(t, args, 5)
}

func TestParseFromQuery_FractionalTotalsRoundInward(t *testing.T) {
	q := ParseFromQuery(url.Values{
		"totalFrom": {"49.5"},
		"totalTo":   {"99.9"},
	})

	require.NotNil(t, q.TotalFrom)
	assert.Equal(t, int64(50), *q.TotalFrom)
	require.NotNil(t, q.TotalTo)
	assert.Equal(t, int64(99), *q.TotalTo)

	where, args := q.SQL()
	assert.Equal(t, "WHERE total >= $1 AND total <= $2", where)
	assert.Equal(t, []interface{}{int64(50), int64(99)}, args)
}

func TestParseFromQuery_MalformedValuesDegrade(t *testing.T) {
	q := ParseFromQuery(url.Values{
		"page":      {"abc"},
		"totalFrom": {"not-a-number"},
		"dateFrom":  {"yesterday"},
	})

	assert.Equal(t, 1, q.Page)
	assert.Nil(t, q.TotalFrom)
	assert.Nil(t, q.DateFrom)

	where, args := q.SQL()
	assert.Empty(t, where)
	assert.Empty(t, args)
}

func TestParseFromQuery_PageLessThanOne(t *testing.T) {
	for _, raw := range []string{"0", "-4", ""} {
		q := ParseFromQuery(url.Values{"page": {raw}})
		assert.Equal(t, 1, q.Page, "page=%q", raw)
	}
}

func TestParseDateTime_Formats(t *testing.T) {
	for _, raw := range []string{
		"2025-03-04T05:06:07Z",
		"2025-03-04T05:06:07",
		"2025-03-04 05:06:07",
		"2025-03-04 05:06",
		"2025-03-04",
		"2025/03/04",
	} {
		_, err := ParseDateTime(raw)
		assert.NoError(t, err, raw)
	}

	_, err := ParseDateTime("04-03-2025")
	assert.Error(t, err)
}
