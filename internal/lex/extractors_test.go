package lex

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractMoney(t *testing.T) {
	got := ExtractMoney("Pay $1,200.00 now, then $1,200.00 again and €50.")
	assert.Equal(t, []string{"$1200.00", "€50"}, got)
	for _, m := range got {
		assert.True(t, IsCanonicalMoney(m), m)
	}
	assert.Empty(t, ExtractMoney("no amounts here"))
}

func TestCleanMoney(t *testing.T) {
	assert.Equal(t, "$1200.00", CleanMoney("$1,200.00."))
	assert.Equal(t, "£5", CleanMoney("£5;"))
}

func TestIsCanonicalMoney(t *testing.T) {
	assert.True(t, IsCanonicalMoney("$1200.00"))
	assert.True(t, IsCanonicalMoney("¥300"))
	assert.False(t, IsCanonicalMoney("$1,200.00"))
	assert.False(t, IsCanonicalMoney("1200"))
	assert.False(t, IsCanonicalMoney("$12.5"))
}

func TestExtractDurations(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"business days", "paid within 5 business days.", []string{"5 business days"}},
		{"spelled and spaced", "for 12 months and  two   weeks, then 12 months", []string{"12 months", "two weeks"}},
		{"ordinal skipped", "due on the 1st day of each month", []string{}},
		{"no number", "each month and the year", []string{}},
		{"articles", "for a month and an additional year", []string{"a month", "an additional year"}},
		{"hyphenated compound", "notice of twenty-five days", []string{"twenty-five days"}},
		{"article without unit", "a late fee applies", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractDurations(tt.input))
		})
	}
}

func TestExtractCadences(t *testing.T) {
	got := ExtractCadences("Paid Monthly, reviewed annually and monthly.")
	assert.Equal(t, []string{"monthly", "annually"}, got)
}

func TestExtractAddresses(t *testing.T) {
	assert.Equal(t, []string{"123 Main Street"}, ExtractAddresses("Property located at 123 Main Street."))
	assert.Equal(t, []string{"77 Sunset Blvd"}, ExtractAddresses("Send notices to 77  Sunset Blvd, Suite 4."))
	assert.Empty(t, ExtractAddresses("due 15 days after rent St"))
}

func TestExtractAddressesAfterDuration(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"days then street", "Rent due in 5 days at 123 Main Street.", []string{"123 Main Street"}},
		{"payment window then road", "Pay within 30 days to 45 Elm Road.", []string{"45 Elm Road"}},
		{"only noise", "Rent of 5 days rent St", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractAddresses(tt.input))
		})
	}
}

func TestLateFees(t *testing.T) {
	re := lateFeePattern(LateFeeWindowChars)
	assert.Equal(t, []string{"late fee of $50.00"}, extractLateFees(re, "A late fee of $50.00 applies."))
	assert.Equal(t, []string{"Penalties: $25"}, extractLateFees(re, "Penalties: $25 per day."))
	assert.Equal(t, []string{"late payment fee of $30"}, extractLateFees(re, "A late payment fee of $30 applies."))

	far := "late fee " + strings.Repeat("x", 70) + " $10"
	assert.Empty(t, extractLateFees(re, far))
	assert.NotEmpty(t, extractLateFees(lateFeePattern(100), far))
}

func TestStripLateFeePrefix(t *testing.T) {
	assert.Equal(t, "$50.00", StripLateFeePrefix("late fee of $50.00"))
	assert.Equal(t, "$5", StripLateFeePrefix("Penalty of $5"))
	assert.Equal(t, "$30", StripLateFeePrefix("late payment fee of $30"))
	assert.Equal(t, "late charge $5", StripLateFeePrefix("late charge $5"))
}
