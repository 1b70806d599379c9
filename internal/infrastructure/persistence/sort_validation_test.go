package persistence

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateSortOrder(t *testing.T) {
	tests := map[string]string{
		"asc":   "ASC",
		" ASC ": "ASC",
		"desc":  "DESC",
		"":      "DESC",
	}
	for in, want := range tests {
		assert.Equal(t, want, ValidateSortOrder(in), in)
	}
	assert.Equal(t, "DESC", ValidateSortOrder("ASC; DROP TABLE bills;--"))
}

func TestValidateSortField(t *testing.T) {
	assert.Equal(t, "name", ValidateSortField("name", CustomerSortFields, "created_at"))
	assert.Equal(t, "current_balance", ValidateSortField(" current_balance ", CustomerSortFields, "created_at"))
	assert.Equal(t, "created_at", ValidateSortField("", CustomerSortFields, "created_at"))
	assert.Equal(t, "created_at", ValidateSortField("password_hash", CustomerSortFields, "created_at"))
	assert.Equal(t, "date", ValidateSortField("name; DROP TABLE customers", BillSortFields, "date"))
}

func TestSortFieldWhitelists(t *testing.T) {
	for name, fields := range map[string]map[string]bool{
		"customer": CustomerSortFields,
		"bill":     BillSortFields,
		"payment":  PaymentSortFields,
	} {
		assert.True(t, fields["created_at"], name)
		for f := range fields {
			assert.NotContains(t, f, " ", name)
			assert.NotContains(t, f, ";", name)
		}
	}
}
