package market

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTemp(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadBars(t *testing.T) {
	t.Parallel()

	body := "time,open,high,low,close,volume\n" +
		"2024-03-04T00:00:00Z,1.0840,1.0851,1.0835,1.0847,1200\n" +
		"2024-03-04T01:00:00Z,1.0847,1.0860,1.0841,1.0855,900\n" +
		"\n" +
		"2024-03-04T02:00:00Z,1.0855,1.0858,1.0830,1.0833,1500\n"

	path := writeTemp(t, "eurusd.csv", body)
	s, err := LoadBars(path, "EUR_USD", LoadOptions{})
	require.NoError(t, err)

	assert.Equal(t, 3, s.Len())
	assert.Equal(t, time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC), s.FirstTime())
	assert.Equal(t, 1.0833, s.At(2).Close)
	assert.Equal(t, 900.0, s.At(1).Volume)
}

func TestLoadBarsNoHeader(t *testing.T) {
	t.Parallel()

	body := "2024-03-04 00:00:00,1.0840,1.0851,1.0835,1.0847\n" +
		"2024-03-04 01:00:00,1.0847,1.0860,1.0841,1.0855\n"

	path := writeTemp(t, "bare.csv", body)
	s, err := LoadBars(path, "EUR_USD", LoadOptions{})
	require.NoError(t, err)

	assert.Equal(t, 2, s.Len())
	assert.Equal(t, 0.0, s.At(0).Volume)
}

func TestLoadBarsErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
	}{
		{"bad price", "2024-03-04T00:00:00Z,oops,1.1,1.0,1.05,10\n"},
		{"bad time", "not-a-time,1.0,1.1,1.0,1.05,10\n"},
		{"bad volume", "2024-03-04T00:00:00Z,1.0,1.1,1.0,1.05,much\n"},
		{"no rows", "time,open,high,low,close,volume\n"},
		{"out of order", "2024-03-04T01:00:00Z,1,1,1,1,0\n2024-03-04T00:00:00Z,1,1,1,1,0\n"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			path := writeTemp(t, "bad.csv", tt.body)
			_, err := LoadBars(path, "EUR_USD", LoadOptions{})
			assert.Error(t, err)
		})
	}
}

func TestLookup(t *testing.T) {
	t.Parallel()

	m, ok := Lookup("eur/usd")
	require.True(t, ok)
	assert.Equal(t, "EUR_USD", m.Name)
	assert.True(t, m.HasCurrency("usd"))
	assert.True(t, m.HasCurrency("EUR"))
	assert.False(t, m.HasCurrency("JPY"))
	assert.False(t, m.HasCurrency(""))

	us10y, ok := Lookup("US10Y")
	require.True(t, ok)
	assert.Equal(t, Bonds, us10y.Class)
	assert.True(t, us10y.HasCurrency("USD"))

	_, ok = Lookup("ZZZ_TOP")
	assert.False(t, ok)
}
