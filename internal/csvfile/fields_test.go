package csvfile

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateRoundTrip(t *testing.T) {
	d := time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC)
	got, err := ParseDate(FormatDate(d))
	require.NoError(t, err)
	assert.True(t, d.Equal(got))

	assert.Equal(t, "", FormatDate(time.Time{}))
	zero, err := ParseDate("")
	require.NoError(t, err)
	assert.True(t, zero.IsZero())

	_, err = ParseDate("09/03/2025")
	assert.Error(t, err)
}

func TestTimeRoundTrip(t *testing.T) {
	ts := time.Date(2025, 3, 9, 14, 5, 7, 0, time.UTC)
	got, err := ParseTime(FormatTime(ts))
	require.NoError(t, err)
	assert.True(t, ts.Equal(got))

	_, err = ParseTime("yesterday")
	assert.Error(t, err)
}

func TestParseDecimal(t *testing.T) {
	d, err := ParseDecimal("")
	require.NoError(t, err)
	assert.True(t, d.IsZero())

	d, err = ParseDecimal("-12.38")
	require.NoError(t, err)
	assert.Equal(t, "-12.38", d.String())

	_, err = ParseDecimal("12,38")
	assert.Error(t, err)
}

func TestOptionalDecimal(t *testing.T) {
	assert.Equal(t, "", FormatOptionalDecimal(nil))

	rate := decimal.RequireFromString("0.05")
	assert.Equal(t, "0.05", FormatOptionalDecimal(&rate))

	got, err := ParseOptionalDecimal("")
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = ParseOptionalDecimal("0.05")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.Equal(rate))
}

func TestParseBool(t *testing.T) {
	b, err := ParseBool("true")
	require.NoError(t, err)
	assert.True(t, b)

	b, err = ParseBool("")
	require.NoError(t, err)
	assert.False(t, b)

	_, err = ParseBool("yes please")
	assert.Error(t, err)
}
