package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePhone(t *testing.T) {
	assert.Equal(t, "79001234567", NormalizePhone("+7 (900) 123-45-67"))
	assert.Equal(t, "79001234567", NormalizePhone("79001234567"))
	assert.Equal(t, "", NormalizePhone("abc-def"))
	assert.Equal(t, "", NormalizePhone(""))
}

func TestValidateCheckout(t *testing.T) {
	phone, err := ValidateCheckout("Some street 1", "+7 (900) 123-45-67")
	assert.NoError(t, err)
	assert.Equal(t, "79001234567", phone)
}

func TestValidateCheckout_AddressRequired(t *testing.T) {
	_, err := ValidateCheckout("", "79001234567")
	assert.ErrorIs(t, err, ErrAddressRequired)

	//空白だけもNG
	_, err = ValidateCheckout("   ", "79001234567")
	assert.ErrorIs(t, err, ErrAddressRequired)
}

func TestValidateCheckout_PhoneTooShort(t *testing.T) {
	//数字9桁
	_, err := ValidateCheckout("Some street 1", "123-456-789")
	assert.ErrorIs(t, err, ErrPhoneTooShort)

	//10桁ちょうどは通る
	phone, err := ValidateCheckout("Some street 1", "1234567890")
	assert.NoError(t, err)
	assert.Equal(t, "1234567890", phone)
}
