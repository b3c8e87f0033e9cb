package marketdata

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(s string) time.Time {
	t, _ := time.Parse("2006-01-02", s)
	return t
}

func TestMarketDataLookups(t *testing.T) {
	md := New()
	md.AddPrice("SPY", day("2024-01-02"), 470.0)
	md.AddPrice("SPY", day("2024-01-03"), 471.5)
	md.AddRate("EUR", day("2024-01-02"), 1.09)

	p, ok := md.PriceOn("SPY", day("2024-01-02"))
	require.True(t, ok)
	assert.Equal(t, 470.0, p)

	_, ok = md.PriceOn("SPY", day("2024-01-04"))
	assert.False(t, ok)

	_, ok = md.PriceOn("QQQ", day("2024-01-02"))
	assert.False(t, ok)

	r, ok := md.RateOn("EUR", day("2024-01-02"))
	require.True(t, ok)
	assert.Equal(t, 1.09, r)

	_, ok = md.RateOn("JPY", day("2024-01-02"))
	assert.False(t, ok)
}

func TestTradingDaysUnion(t *testing.T) {
	md := New()
	md.AddPrice("SPY", day("2024-01-02"), 470)
	md.AddPrice("SPY", day("2024-01-04"), 472)
	md.AddPrice("QQQ", day("2024-01-03"), 400)
	md.AddPrice("QQQ", day("2024-01-04"), 401)
	md.AddPrice("QQQ", day("2024-02-01"), 410)

	days := md.TradingDays(day("2024-01-01"), day("2024-01-31"))
	require.Len(t, days, 3)
	assert.Equal(t, day("2024-01-02"), days[0])
	assert.Equal(t, day("2024-01-03"), days[1])
	assert.Equal(t, day("2024-01-04"), days[2])
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

func TestCSVLoader(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "SPY.csv", `Date,Open,High,Low,Close,Volume,Adj Close
2024-01-02,468.0,471.0,467.0,470.0,1000,470.0
2024-01-03,470.0,473.0,469.5,471.5,1100,471.5
bad-row,,,,,,
2024-01-04,471.0,474.0,470.0,473.0,900,473.0
`)
	writeFile(t, dir, "fx_EUR.csv", `Date,Rate
2024-01-02,1.09
2024-01-03,1.10
`)

	loader := NewCSVLoader(dir)
	assert.Equal(t, "csv", loader.SourceType())

	md, err := loader.Load([]string{"SPY"}, []string{"EUR"}, day("2024-01-01"), day("2024-01-03"))
	require.NoError(t, err)

	p, ok := md.PriceOn("SPY", day("2024-01-02"))
	require.True(t, ok)
	assert.Equal(t, 470.0, p)

	// 区间外的行被过滤
	_, ok = md.PriceOn("SPY", day("2024-01-04"))
	assert.False(t, ok)

	r, ok := md.RateOn("EUR", day("2024-01-03"))
	require.True(t, ok)
	assert.Equal(t, 1.10, r)

	assert.Len(t, md.TradingDays(day("2024-01-01"), day("2024-01-31")), 2)
}

func TestCSVLoaderMissingFile(t *testing.T) {
	loader := NewCSVLoader(t.TempDir())
	_, err := loader.Load([]string{"NOPE"}, nil, day("2024-01-01"), day("2024-01-31"))
	require.Error(t, err)
}

func TestCSVLoaderCloseFallback(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "BND.csv", `Date,Close
2024-01-02,72.5
`)

	loader := NewCSVLoader(dir)
	md, err := loader.Load([]string{"BND"}, nil, day("2024-01-01"), day("2024-01-31"))
	require.NoError(t, err)

	p, ok := md.PriceOn("BND", day("2024-01-02"))
	require.True(t, ok)
	assert.Equal(t, 72.5, p)
}
