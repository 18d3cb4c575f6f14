package account

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
)

type service struct {
	accounts Repository
	hasher   Hasher

	dummyOnce sync.Once
	dummyHash string
}

func NewService(accounts Repository, hasher Hasher) Service {
	return &service{accounts: accounts, hasher: hasher}
}

func (svc *service) RegisterAccount(ctx context.Context, r registerAccountRequest) (ID, error) {
	acc, err := NewAccount(r.Name, r.Email)
	if err != nil {
		return "", err
	}

	password := r.Password
	if password == "" {
		return "", ErrMissingFields
	}

	if err := svc.verifyNotInUse(ctx, acc.Email); err != nil {
		return "", err
	}

	hash, err := svc.hasher.Hash(password)
	if err != nil {
		return "", err
	}

	now := time.Now().UTC()
	acc.ID = NewID()
	acc.PasswordHash = hash
	acc.CreatedAt = now
	acc.UpdatedAt = now

	if err = svc.accounts.Store(ctx, acc); err != nil {
		if errors.Is(err, ErrExistingEmail) {
			return "", err
		}
		return "", fmt.Errorf("error saving account: %w", err)
	}

	return acc.ID, nil
}

func (svc *service) ListAccounts(ctx context.Context) ([]*Account, error) {
	accs, err := svc.accounts.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing accounts: %w", err)
	}
	return accs, nil
}

func (svc *service) GetAccount(ctx context.Context, id string) (*Account, error) {
	if !IsValidID(id) {
		return nil, ErrNotFound
	}

	acc, err := svc.accounts.FindByID(ctx, ID(id))
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("error finding account: %w", err)
	}
	return acc, err
}

func (svc *service) UpdateAccount(ctx context.Context, id string, r updateAccountRequest) (*Account, error) {
	if !IsValidID(id) {
		return nil, ErrNotFound
	}

	var c Changes
	if name := trimmed(r.Name); name != "" {
		c.Name = &name
	}
	if email := trimmed(r.Email); email != "" {
		c.Email = &email
	}
	if r.Password != nil && *r.Password != "" {
		hash, err := svc.hasher.Hash(*r.Password)
		if err != nil {
			return nil, err
		}
		c.PasswordHash = &hash
	}
	if c.IsEmpty() {
		return svc.GetAccount(ctx, id)
	}

	acc, err := svc.accounts.Update(ctx, ID(id), c)
	if err != nil && !errors.Is(err, ErrNotFound) && !errors.Is(err, ErrExistingEmail) {
		return nil, fmt.Errorf("error updating account: %w", err)
	}
	return acc, err
}

func (svc *service) DeleteAccount(ctx context.Context, id string) (bool, error) {
	if !IsValidID(id) {
		return false, nil
	}

	deleted, err := svc.accounts.Delete(ctx, ID(id))
	if err != nil {
		return false, fmt.Errorf("error deleting account: %w", err)
	}
	return deleted, nil
}

func (svc *service) ValidateCredentials(ctx context.Context, r validateCredentialsRequest) (*Account, error) {
	email := strings.TrimSpace(r.Email)
	if email == "" || r.Password == "" {
		return nil, ErrMissingFields
	}

	acc, err := svc.accounts.FindByEmail(ctx, email)
	if errors.Is(err, ErrNotFound) {
		// keep the unknown email path as slow as a wrong password
		_, _ = svc.hasher.Verify(r.Password, svc.dummy())
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("error finding account: %w", err)
	}

	ok, err := svc.hasher.Verify(r.Password, acc.PasswordHash)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}

	return acc, nil
}

func (svc *service) verifyNotInUse(ctx context.Context, email string) error {
	_, err := svc.accounts.FindByEmail(ctx, email)
	if err == nil {
		return ErrExistingEmail
	}
	if !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("error finding account: %w", err)
	}
	return nil
}

func (svc *service) dummy() string {
	svc.dummyOnce.Do(func() {
		svc.dummyHash, _ = svc.hasher.Hash(string(NewID()))
	})
	return svc.dummyHash
}

func trimmed(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}
