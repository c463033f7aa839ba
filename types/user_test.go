package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewUserValidate(t *testing.T) {
	tests := []struct {
		name    string
		input   NewUser
		wantErr bool
	}{
		{name: "empty patch", input: NewUser{}},
		{name: "valid email", input: NewUser{Email: StringPtr("a@x.com")}},
		{name: "invalid email", input: NewUser{Email: StringPtr("not-an-email")}, wantErr: true},
		{name: "email on unresolvable domain", input: NewUser{Email: StringPtr("someone@no-such-host.invalid")}},
		{name: "empty pseudo", input: NewUser{Pseudo: StringPtr("")}, wantErr: true},
		{name: "password too long", input: NewUser{PasswordHash: StringPtr(string(make([]byte, 73)))}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.input.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestNewUserValidateCreateRequiresPassword(t *testing.T) {
	err := NewUser{Email: StringPtr("a@x.com")}.ValidateCreate()
	assert.Error(t, err)

	err = NewUser{Email: StringPtr("a@x.com"), PasswordHash: StringPtr("secret123")}.ValidateCreate()
	assert.NoError(t, err)
}

func TestNewUserIsEmpty(t *testing.T) {
	assert.True(t, NewUser{}.IsEmpty())
	assert.False(t, NewUser{Role: StringPtr("user")}.IsEmpty())
}
