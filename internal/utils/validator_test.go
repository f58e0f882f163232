// internal/utils/validator_test.go
package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type slugFixture struct {
	Slug string `validate:"slug"`
}

type phoneFixture struct {
	Phone string `validate:"kenyan_phone"`
}

type amountFixture struct {
	Amount string `validate:"decimal_amount"`
}

func TestSlugValidation(t *testing.T) {
	for _, valid := range []string{"tusker-lager", "jameson", "whisky-1l-gift-pack", "8pm"} {
		assert.NoError(t, ValidateStruct(&slugFixture{Slug: valid}), valid)
	}

	for _, invalid := range []string{"", "a", "Tusker", "double--dash", "-leading", "trailing-", "has space", "has_underscore"} {
		assert.Error(t, ValidateStruct(&slugFixture{Slug: invalid}), invalid)
	}
}

func TestKenyanPhoneValidation(t *testing.T) {
	for _, valid := range []string{"+254712345678", "+254110000000", "+254799999999"} {
		assert.NoError(t, ValidateStruct(&phoneFixture{Phone: valid}), valid)
	}

	for _, invalid := range []string{"", "0712345678", "+254812345678", "+25471234567", "+2547123456789", "254712345678"} {
		assert.Error(t, ValidateStruct(&phoneFixture{Phone: invalid}), invalid)
	}
}

func TestDecimalAmountValidation(t *testing.T) {
	for _, valid := range []string{"2500", "2500.00", "0.99", "0"} {
		assert.NoError(t, ValidateStruct(&amountFixture{Amount: valid}), valid)
	}

	for _, invalid := range []string{"", "abc", "10.999", "-5.00"} {
		assert.Error(t, ValidateStruct(&amountFixture{Amount: invalid}), invalid)
	}
}

func TestGetValidationErrors(t *testing.T) {
	type form struct {
		Email string `validate:"required,email"`
		Phone string `validate:"required,kenyan_phone"`
	}

	err := ValidateStruct(&form{Email: "not-an-email", Phone: ""})
	assert.Error(t, err)

	errs := GetValidationErrors(err)
	assert.Len(t, errs, 2)
	assert.Equal(t, "email", errs[0].Field)
	assert.Equal(t, "email", errs[0].Tag)
	assert.Equal(t, "phone", errs[1].Field)
	assert.Equal(t, "required", errs[1].Tag)
}
