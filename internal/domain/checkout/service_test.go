package checkout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/your-org/storefront-backend/internal/domain/order"
)

func TestValidateAddressAcceptsCompleteAddress(t *testing.T) {
	err := validateAddress(&order.Address{
		FullName: "Nguyen Van A",
		Phone:    "0901234567",
		Street:   "12 Le Loi",
		City:     "Da Nang",
	})
	assert.NoError(t, err)
}

func TestValidateAddressRejectsMissingFields(t *testing.T) {
	cases := map[string]order.Address{
		"missing name":   {Phone: "0901234567", Street: "12 Le Loi", City: "Da Nang"},
		"missing phone":  {FullName: "Nguyen Van A", Street: "12 Le Loi", City: "Da Nang"},
		"missing street": {FullName: "Nguyen Van A", Phone: "0901234567", City: "Da Nang"},
		"missing city":   {FullName: "Nguyen Van A", Phone: "0901234567", Street: "12 Le Loi"},
		"blank fields":   {FullName: "   ", Phone: "0901234567", Street: "12 Le Loi", City: "Da Nang"},
	}

	for name, addr := range cases {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, validateAddress(&addr), ErrInvalidAddress)
		})
	}
}
