package format

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/templui/ahorros/internal/forecast"
)

func TestCurrency(t *testing.T) {
	es := New("es-AR", "USD", "US$")
	assert.Equal(t, "US$ 250.000", es.Currency(250000))
	assert.Equal(t, "US$ 300", es.Currency(299.6))

	en := New("en-US", "USD", "$")
	assert.Equal(t, "$ 1,234,567", en.Currency(1234567))
}

func TestCurrencyDefaultsToISOCode(t *testing.T) {
	f := New("en", "EUR", "")
	assert.Equal(t, "EUR", f.CurrencyCode())
	assert.Equal(t, "EUR 120", f.Currency(120))
}

func TestNewFallsBackOnBadInput(t *testing.T) {
	f := New("not a locale!!", "???", "")
	assert.Equal(t, DefaultLocale, f.Locale())
	assert.Equal(t, DefaultCurrency, f.CurrencyCode())
}

func TestDate(t *testing.T) {
	assert.Equal(t, "5 ene 2026", New("es-AR", "USD", "").Date("2026-01-05"))
	assert.Equal(t, "Jan 5, 2026", New("en-US", "USD", "").Date("2026-01-05"))
	assert.Equal(t, "2026-13", New("es-AR", "USD", "").Date("2026-13"))
}

func TestDuration(t *testing.T) {
	es := New("es-AR", "USD", "")
	cases := []struct {
		in   forecast.Duration
		want string
	}{
		{forecast.Duration{Completed: true}, "Completado"},
		{forecast.Duration{Unknown: true}, "Sin estimación"},
		{forecast.Duration{Months: 1}, "1 mes"},
		{forecast.Duration{Months: 5}, "5 meses"},
		{forecast.Duration{Months: 12}, "1 año"},
		{forecast.Duration{Months: 24}, "2 años"},
		{forecast.Duration{Months: 14}, "1 año y 2 meses"},
		{forecast.Duration{Months: 27}, "2 años y 3 meses"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, es.Duration(tc.in))
	}

	en := New("en", "USD", "")
	assert.Equal(t, "2 years and 3 months", en.Duration(forecast.Duration{Months: 27}))
	assert.Equal(t, "Completed", en.Duration(forecast.Duration{Completed: true}))
}

func TestPercent(t *testing.T) {
	f := New("es-AR", "USD", "")
	assert.Equal(t, "70%", f.Percent(70))
	assert.Equal(t, "100%", f.Percent(100))
}
