package account

import (
	"context"
	"sort"
	"sync"
	"time"
)

type accountRepository struct {
	mu       sync.RWMutex
	accounts map[ID]*Account
}

func NewAccountRepository() Repository {
	return &accountRepository{accounts: map[ID]*Account{}}
}

func (repo *accountRepository) Store(_ context.Context, acc *Account) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	if repo.emailTaken(acc.Email, "") {
		return ErrExistingEmail
	}
	a := *acc
	repo.accounts[acc.ID] = &a
	return nil
}

func (repo *accountRepository) FindByID(_ context.Context, id ID) (*Account, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	if a, ok := repo.accounts[id]; ok {
		acc := *a
		return &acc, nil
	}
	return nil, ErrNotFound
}

func (repo *accountRepository) FindByEmail(_ context.Context, email string) (*Account, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	for _, v := range repo.accounts {
		if v.Email == email {
			acc := *v
			return &acc, nil
		}
	}
	return nil, ErrNotFound
}

func (repo *accountRepository) FindAll(_ context.Context) ([]*Account, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	accs := make([]*Account, 0, len(repo.accounts))
	for _, v := range repo.accounts {
		acc := *v
		accs = append(accs, &acc)
	}
	// xids sort by creation time
	sort.Slice(accs, func(i, j int) bool { return accs[i].ID < accs[j].ID })
	return accs, nil
}

func (repo *accountRepository) Update(_ context.Context, id ID, c Changes) (*Account, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	a, ok := repo.accounts[id]
	if !ok {
		return nil, ErrNotFound
	}
	if c.Email != nil && repo.emailTaken(*c.Email, id) {
		return nil, ErrExistingEmail
	}

	a.apply(c, time.Now().UTC())
	acc := *a
	return &acc, nil
}

func (repo *accountRepository) Delete(_ context.Context, id ID) (bool, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	if _, ok := repo.accounts[id]; !ok {
		return false, nil
	}
	delete(repo.accounts, id)
	return true, nil
}

// emailTaken must be called with mu held.
func (repo *accountRepository) emailTaken(email string, except ID) bool {
	for id, v := range repo.accounts {
		if v.Email == email && id != except {
			return true
		}
	}
	return false
}
