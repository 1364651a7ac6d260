package utils

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimestamp(t *testing.T) {
	got, err := ParseTimestamp("2025-08-14T09:30:00+05:45")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 8, 14, 3, 45, 0, 0, time.UTC), got)

	got, err = ParseTimestamp("2025-08-14T09:30")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 8, 14, 9, 30, 0, 0, time.UTC), got)

	_, err = ParseTimestamp("14/08/2025")
	assert.Error(t, err)
}

func TestSanitize(t *testing.T) {
	req := struct {
		Name string
		Tags []string
		Age  int
	}{Name: "  Acme  ", Tags: []string{" a", "b "}, Age: 3}

	Sanitize(&req)

	assert.Equal(t, "Acme", req.Name)
	assert.Equal(t, []string{"a", "b"}, req.Tags)
	assert.Equal(t, 3, req.Age)
	assert.Panics(t, func() { Sanitize(req) })
}

func TestFormCoercion(t *testing.T) {
	assert.Nil(t, NullableString("   "))
	assert.Equal(t, "x", *NullableString(" x "))

	amount, err := ParseAmount("")
	require.NoError(t, err)
	assert.Nil(t, amount)

	amount, err = ParseAmount("1500.50")
	require.NoError(t, err)
	assert.InDelta(t, 1500.5, *amount, 0.0001)

	_, err = ParseAmount("ten")
	assert.Error(t, err)

	amount, err = ParseAmount("1e3")
	require.NoError(t, err)
	assert.InDelta(t, 1000, *amount, 0.0001)

	_, err = ParseAmount("NaN")
	assert.Error(t, err)
	_, err = ParseAmount("Inf")
	assert.Error(t, err)

	assert.Equal(t, 60, ParseMinutes("", 60))
	assert.Equal(t, 60, ParseMinutes("abc", 60))
	assert.Equal(t, 90, ParseMinutes("90", 60))

	date, err := ParseDate("2025-01-31")
	require.NoError(t, err)
	assert.Equal(t, "2025-01-31", *FormatDatePtr(date))

	assert.Equal(t, "other", OrDefault(" ", "other"))
	assert.Nil(t, FormatTimePtr(nil))
}

func TestFormValueUnmarshal(t *testing.T) {
	var body struct {
		Amount   FormValue `json:"amount"`
		Duration FormValue `json:"duration"`
		Missing  FormValue `json:"missing"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"amount":"1200.75","duration":90,"missing":null}`), &body))

	assert.Equal(t, FormValue("1200.75"), body.Amount)
	assert.Equal(t, FormValue("90"), body.Duration)
	assert.Equal(t, FormValue(""), body.Missing)

	assert.Error(t, json.Unmarshal([]byte(`{"amount":true}`), &body))
}
