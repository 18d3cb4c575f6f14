package account

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStoredAccount(t *testing.T, repo Repository, name, email string) *Account {
	t.Helper()
	acc := &Account{ID: NewID(), Name: name, Email: email, PasswordHash: "hash"}
	require.NoError(t, repo.Store(context.Background(), acc))
	return acc
}

func TestAccountRepository_StoreRejectsExistingEmail(t *testing.T) {
	ctx := context.Background()
	repo := NewAccountRepository()
	newStoredAccount(t, repo, "Ana", "a@x.com")

	err := repo.Store(ctx, &Account{ID: NewID(), Name: "Bea", Email: "a@x.com"})

	assert.Equal(t, ErrExistingEmail, err)
	accs, _ := repo.FindAll(ctx)
	assert.Len(t, accs, 1)
}

func TestAccountRepository_Find(t *testing.T) {
	ctx := context.Background()
	repo := NewAccountRepository()
	acc := newStoredAccount(t, repo, "Ana", "a@x.com")

	byID, err := repo.FindByID(ctx, acc.ID)
	assert.NoError(t, err)
	assert.Equal(t, acc, byID)

	byEmail, err := repo.FindByEmail(ctx, "a@x.com")
	assert.NoError(t, err)
	assert.Equal(t, acc, byEmail)

	_, err = repo.FindByID(ctx, NewID())
	assert.Equal(t, ErrNotFound, err)

	_, err = repo.FindByEmail(ctx, "b@x.com")
	assert.Equal(t, ErrNotFound, err)
}

func TestAccountRepository_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewAccountRepository()
	acc := newStoredAccount(t, repo, "Ana", "a@x.com")

	found, _ := repo.FindByID(ctx, acc.ID)
	found.Email = "changed@x.com"

	again, _ := repo.FindByID(ctx, acc.ID)
	assert.Equal(t, "a@x.com", again.Email)
}

func TestAccountRepository_FindAllIsOrderedByID(t *testing.T) {
	ctx := context.Background()
	repo := NewAccountRepository()
	a1 := newStoredAccount(t, repo, "A", "a@x.com")
	a2 := newStoredAccount(t, repo, "B", "b@x.com")
	a3 := newStoredAccount(t, repo, "C", "c@x.com")

	accs, err := repo.FindAll(ctx)

	require.NoError(t, err)
	require.Len(t, accs, 3)
	assert.Equal(t, []ID{a1.ID, a2.ID, a3.ID}, []ID{accs[0].ID, accs[1].ID, accs[2].ID})
}

func TestAccountRepository_Update(t *testing.T) {
	ctx := context.Background()
	repo := NewAccountRepository()
	acc := newStoredAccount(t, repo, "Ana", "a@x.com")
	newStoredAccount(t, repo, "Bea", "b@x.com")

	name := "Ana Maria"
	updated, err := repo.Update(ctx, acc.ID, Changes{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Ana Maria", updated.Name)
	assert.Equal(t, "a@x.com", updated.Email)
	assert.False(t, updated.UpdatedAt.IsZero())

	taken := "b@x.com"
	_, err = repo.Update(ctx, acc.ID, Changes{Email: &taken})
	assert.Equal(t, ErrExistingEmail, err)

	same := "a@x.com"
	_, err = repo.Update(ctx, acc.ID, Changes{Email: &same})
	assert.NoError(t, err)
}

func TestAccountRepository_UpdateAbsentDoesNotCreate(t *testing.T) {
	ctx := context.Background()
	repo := NewAccountRepository()
	name := "Ana"

	acc, err := repo.Update(ctx, NewID(), Changes{Name: &name})

	assert.Nil(t, acc)
	assert.Equal(t, ErrNotFound, err)
	accs, _ := repo.FindAll(ctx)
	assert.Empty(t, accs)
}

func TestAccountRepository_Delete(t *testing.T) {
	ctx := context.Background()
	repo := NewAccountRepository()
	acc := newStoredAccount(t, repo, "Ana", "a@x.com")

	deleted, err := repo.Delete(ctx, acc.ID)
	assert.NoError(t, err)
	assert.True(t, deleted)

	_, err = repo.FindByID(ctx, acc.ID)
	assert.Equal(t, ErrNotFound, err)

	deleted, err = repo.Delete(ctx, acc.ID)
	assert.NoError(t, err)
	assert.False(t, deleted)
}

func TestAccountRepository_ConcurrentStoreKeepsEmailUnique(t *testing.T) {
	ctx := context.Background()
	repo := NewAccountRepository()

	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- repo.Store(ctx, &Account{ID: NewID(), Name: "Ana", Email: "a@x.com"})
		}()
	}
	wg.Wait()
	close(errs)

	stored := 0
	for err := range errs {
		if err == nil {
			stored++
		} else {
			assert.Equal(t, ErrExistingEmail, err)
		}
	}
	assert.Equal(t, 1, stored)
}
