// internal/models/common_test.go
package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseOrderStatus(t *testing.T) {
	for _, valid := range []string{"pending", "processing", "completed", "cancelled"} {
		status, err := ParseOrderStatus(valid)
		assert.NoError(t, err)
		assert.Equal(t, OrderStatus(valid), status)
	}

	for _, invalid := range []string{"", "shipped", "PENDING", "done", "pending "} {
		_, err := ParseOrderStatus(invalid)
		assert.Error(t, err, "expected %q to be rejected", invalid)
	}
}

func TestParsePaymentMethod(t *testing.T) {
	for _, valid := range []string{"cod", "mpesa", "card"} {
		method, err := ParsePaymentMethod(valid)
		assert.NoError(t, err)
		assert.Equal(t, PaymentMethod(valid), method)
	}

	for _, invalid := range []string{"", "cash", "MPESA", "paypal"} {
		_, err := ParsePaymentMethod(invalid)
		assert.Error(t, err, "expected %q to be rejected", invalid)
	}
}
