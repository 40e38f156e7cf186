package validator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"courier/internal/domain"
)

type sample struct {
	Name   string `json:"receiverName" validate:"required,max=10"`
	Pin    string `json:"receiverPin" validate:"required,numeric,len=6"`
	Weight int    `json:"weightInGram" validate:"gt=0"`
}

func TestStruct_ReportsJSONFieldName(t *testing.T) {
	err := Struct(sample{Pin: "560001", Weight: 1})
	require.Error(t, err)

	var ve *domain.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "receiverName", ve.Field)
	assert.Equal(t, "receiverName is required", ve.Message)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestStruct_Valid(t *testing.T) {
	assert.NoError(t, Struct(sample{Name: "Asha", Pin: "560001", Weight: 10}))
}

func TestStruct_ListsEveryFailingField(t *testing.T) {
	err := Struct(sample{Name: "Asha", Pin: "56A", Weight: 0})
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)

	assert.Equal(t, "receiverPin", ve.Field)
	assert.Equal(t, map[string]string{
		"receiverPin":  "receiverPin must contain digits only",
		"weightInGram": "weightInGram must be greater than 0",
	}, ve.Fields)
}

type contact struct {
	Mobile  string `json:"mobileNumber" validate:"required,mobile"`
	Secret  string `json:"password" validate:"required"`
	Confirm string `json:"confirmPassword" validate:"required,eqfield=Secret"`
}

func TestStruct_Mobile(t *testing.T) {
	assert.NoError(t, Struct(contact{Mobile: "9876543210", Secret: "abc", Confirm: "abc"}))

	for _, bad := range []string{"5876543210", "987654321", "98765432100", "98765x3210"} {
		err := Struct(contact{Mobile: bad, Secret: "abc", Confirm: "abc"})
		var ve *domain.ValidationError
		require.ErrorAs(t, err, &ve, bad)
		assert.Equal(t, "mobileNumber", ve.Field)
	}
}

func TestStruct_EqField(t *testing.T) {
	err := Struct(contact{Mobile: "9876543210", Secret: "abc", Confirm: "abd"})
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "confirmPassword", ve.Field)
	assert.Equal(t, "confirmPassword must match secret", ve.Message)
}
