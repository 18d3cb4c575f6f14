package account

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewAccount(t *testing.T) {
	a := &Account{Name: "Ana", Email: "a@x.com"}

	tests := []struct {
		name, email string
		wantErr     error
		wantAcc     *Account
	}{
		{wantErr: ErrMissingFields},
		{name: "Ana", wantErr: ErrMissingFields},
		{email: "a@x.com", wantErr: ErrMissingFields},
		{name: "   ", email: "a@x.com", wantErr: ErrMissingFields},
		{name: "Ana", email: "a@x.com", wantAcc: a},
		{name: " Ana ", email: " a@x.com", wantAcc: a},
	}

	for _, tt := range tests {
		acc, err := NewAccount(tt.name, tt.email)
		assert.Equal(t, tt.wantErr, err)
		assert.Equal(t, tt.wantAcc, acc)
	}
}

func TestIsValidID(t *testing.T) {
	assert.True(t, IsValidID(string(NewID())))
	assert.False(t, IsValidID(""))
	assert.False(t, IsValidID("not-an-id"))
	assert.False(t, IsValidID("507f1f77bcf86cd799439011"))
}

func TestAccount_Apply(t *testing.T) {
	now := time.Now().UTC()
	name, hash := "Bea", "hash2"
	acc := &Account{ID: NewID(), Name: "Ana", Email: "a@x.com", PasswordHash: "hash1"}
	id := acc.ID

	acc.apply(Changes{Name: &name, PasswordHash: &hash}, now)

	assert.Equal(t, id, acc.ID)
	assert.Equal(t, "Bea", acc.Name)
	assert.Equal(t, "a@x.com", acc.Email)
	assert.Equal(t, "hash2", acc.PasswordHash)
	assert.Equal(t, now, acc.UpdatedAt)
}

func TestChanges_IsEmpty(t *testing.T) {
	email := "b@x.com"
	assert.True(t, Changes{}.IsEmpty())
	assert.False(t, Changes{Email: &email}.IsEmpty())
}
