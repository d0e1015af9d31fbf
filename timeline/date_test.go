package timeline

import (
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateCompare(t *testing.T) {
	a := NewDate(2024, time.March, 1)
	b := NewDate(2024, time.March, 2)
	assert.True(t, a.Before(b))
	assert.True(t, b.After(a))
	assert.Equal(t, 0, a.Compare(a))
}

func TestDateStringAndParseRoundTrip(t *testing.T) {
	d := NewDate(2024, time.March, 1)
	assert.Equal(t, "2024-03-01", d.String())

	parsed, err := ParseDate("2024-03-01")
	require.NoError(t, err)
	assert.Equal(t, d, parsed)
}

func TestParseDateInvalid(t *testing.T) {
	_, err := ParseDate("not-a-date")
	assert.Error(t, err)
}

func TestDateJSONRoundTrip(t *testing.T) {
	d := NewDate(2024, time.March, 1)
	data, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"2024-03-01"`, string(data))

	var decoded Date
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, d, decoded)
}
