package account

import "context"

type Service interface {
	RegisterAccount(ctx context.Context, r registerAccountRequest) (ID, error)
	ListAccounts(ctx context.Context) ([]*Account, error)
	GetAccount(ctx context.Context, id string) (*Account, error)
	UpdateAccount(ctx context.Context, id string, r updateAccountRequest) (*Account, error)
	DeleteAccount(ctx context.Context, id string) (bool, error)
	ValidateCredentials(ctx context.Context, r validateCredentialsRequest) (*Account, error)
}

// Repository is the account store. Store and Update fail with
// ErrExistingEmail when the email is owned by another account; lookups and
// Update fail with ErrNotFound when no account matches.
type Repository interface {
	FindByID(ctx context.Context, id ID) (*Account, error)
	FindByEmail(ctx context.Context, email string) (*Account, error)
	FindAll(ctx context.Context) ([]*Account, error)
	Store(ctx context.Context, acc *Account) error
	Update(ctx context.Context, id ID, c Changes) (*Account, error)
	Delete(ctx context.Context, id ID) (bool, error)
}

type registerAccountRequest struct {
	Name     string `json:"nombre"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// registerUserRequest is the body of /api/register, which names the display
// name field "name".
type registerUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type updateAccountRequest struct {
	Name     *string `json:"nombre"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
}

type validateCredentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
