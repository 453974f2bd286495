package validation

import (
	"encoding/json"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signupPayload struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"secret"`
}

func TestToDetailsUsesJSONNames(t *testing.T) {
	v := New()
	err := v.Struct(signupPayload{Email: "nope", Password: "123"})
	require.Error(t, err)

	details := ToDetails(err)
	assert.Equal(t, "must be a valid email", details["email"])
	assert.Equal(t, "must be at least 6 characters long", details["password"])
}

func TestEmailVar(t *testing.T) {
	v := New()
	assert.NoError(t, v.Var("a@x.com", "email"))
	assert.Error(t, v.Var("a@", "email"))
	assert.Error(t, v.Var("plainaddress", "email"))
}

func TestToDetailsJSONErrors(t *testing.T) {
	var dst map[string]any
	err := json.Unmarshal([]byte(`{"email":`), &dst)
	assert.Equal(t, map[string]string{"payload": "invalid json"}, ToDetails(err))

	var typed struct {
		Email string `json:"email"`
	}
	err = json.Unmarshal([]byte(`{"email": 5}`), &typed)
	assert.Equal(t, map[string]string{"email": "must be a string"}, ToDetails(err))

	assert.Equal(t, map[string]string{"payload": "empty body"}, ToDetails(io.EOF))
	assert.Equal(t, map[string]string{"payload": "invalid payload"}, ToDetails(errors.New("x")))
	assert.Nil(t, ToDetails(nil))
}
