package normalization

import (
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeZip(t *testing.T) {
	assert.Equal(t, "02139", NormalizeZip("02139-4307"))
	assert.Equal(t, "60601", NormalizeZip(" 60601 "))
	assert.Equal(t, "", NormalizeZip("1234"))
	assert.Equal(t, "", NormalizeZip(""))
}

func TestNormalizeDOB(t *testing.T) {
	tests := []struct {
		raw     string
		iso     string
		compact string
		ok      bool
	}{
		{"01/01/1980", "1980-01-01", "19800101", true},
		{"1/2/1980", "1980-01-02", "19800102", true},
		{"1980-12-31", "1980-12-31", "19801231", true},
		{" 1975-07-04 ", "1975-07-04", "19750704", true},
		{"19800101", "", "", false},
		{"02/30/1980", "", "", false},
		{"Jan 1 1980", "", "", false},
		{"", "", "", false},
	}

	for _, tt := range tests {
		iso, compact, ok := NormalizeDOB(tt.raw)
		assert.Equal(t, tt.ok, ok, "ok for %q", tt.raw)
		assert.Equal(t, tt.iso, iso, "iso for %q", tt.raw)
		assert.Equal(t, tt.compact, compact, "compact for %q", tt.raw)
	}
}

func TestNormalizeDOB_RoundTrip(t *testing.T) {
	faker := gofakeit.New(7)
	for i := 0; i < 100; i++ {
		date := faker.DateRange(
			time.Date(1920, 1, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2010, 12, 31, 0, 0, 0, 0, time.UTC),
		)

		for _, raw := range []string{date.Format("01/02/2006"), date.Format("2006-01-02")} {
			iso, compact, ok := NormalizeDOB(raw)
			require.True(t, ok, raw)
			assert.Equal(t, date.Format("2006-01-02"), iso)
			assert.Equal(t, date.Format("20060102"), compact)
		}
	}
}

func TestExtractSSNLast4(t *testing.T) {
	last4, ok := ExtractSSNLast4("123-45-6789")
	assert.True(t, ok)
	assert.Equal(t, "6789", last4)

	last4, ok = ExtractSSNLast4("xx-12")
	assert.False(t, ok)
	assert.Equal(t, "", last4)
}

func TestIsEIN(t *testing.T) {
	assert.True(t, IsEIN("12-3456789"))
	assert.False(t, IsEIN("123456789"))
	assert.False(t, IsEIN("123-45-678"))
	assert.False(t, IsEIN(""))
}
