// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package employee_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/taibuivan/staffroom/internal/employee"
	"github.com/taibuivan/staffroom/internal/platform/crud"
	"github.com/taibuivan/staffroom/internal/platform/sec"
	"github.com/taibuivan/staffroom/pkg/uuid"
)

func newRepository(opts ...employee.RepositoryOption) (*employee.Repository, *employee.MemoryStore) {
	store := employee.NewMemoryStore()
	return employee.NewRepository(store, sec.NewBcryptHasher(bcrypt.MinCost), opts...), store
}

func adaInput() employee.CreateInput {
	return employee.CreateInput{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@example.com",
		Password:  "analytical-engine",
	}
}

func TestRepository_CreateThenRead(t *testing.T) {
	repository, _ := newRepository()
	ctx := context.Background()

	created, err := repository.Create(ctx, adaInput())
	require.NoError(t, err)

	assert.True(t, uuid.Valid(created.PublicID))
	assert.Equal(t, "Ada  Lovelace", created.FullName)
	assert.Equal(t, sec.RoleEmployee, created.Role)
	assert.False(t, created.CreatedAt.IsZero())

	read, err := repository.Read(ctx, created.PublicID)
	require.NoError(t, err)
	require.NotNil(t, read)
	assert.Equal(t, created, *read)
}

func TestRepository_NamePartsMatchFullName(t *testing.T) {
	repository, store := newRepository()
	ctx := context.Background()

	input := adaInput()
	input.FirstName = "Jose\u0301"
	input.MiddleName = "Rau\u0301l"
	input.LastName = "Nu\u0303n\u0303ez"

	created, err := repository.Create(ctx, input)
	require.NoError(t, err)

	assert.Equal(t, "Jos\u00e9", created.FirstName)
	assert.Equal(t, "Ra\u00fal", created.MiddleName)
	assert.Equal(t, "\u00d1u\u00f1ez", created.LastName)
	assert.Equal(t, created.FirstName+" "+created.MiddleName+" "+created.LastName, created.FullName)

	record, err := store.FindByEmail(ctx, input.Email)
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, record.FirstName+" "+record.MiddleName+" "+record.LastName, record.FullName)
}

func TestRepository_StoresHashNotPlaintext(t *testing.T) {
	repository, store := newRepository()
	ctx := context.Background()
	input := adaInput()

	_, err := repository.Create(ctx, input)
	require.NoError(t, err)

	record, err := store.FindByEmail(ctx, input.Email)
	require.NoError(t, err)
	require.NotNil(t, record)

	assert.NotEqual(t, input.Password, record.HashedPassword)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(record.HashedPassword), []byte(input.Password)))
	assert.NotZero(t, record.ID)
}

func TestRepository_ReadByEmail(t *testing.T) {
	repository, _ := newRepository()
	ctx := context.Background()

	_, err := repository.Create(ctx, adaInput())
	require.NoError(t, err)

	found, err := repository.ReadByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "Ada", found.FirstName)

	missing, err := repository.ReadByEmail(ctx, "ADA@example.com")
	require.NoError(t, err)
	assert.Nil(t, missing, "lookup is exact-match")
}

func TestRepository_ReadAbsent(t *testing.T) {
	repository, _ := newRepository()

	found, err := repository.Read(context.Background(), uuid.New())
	assert.NoError(t, err)
	assert.Nil(t, found)
}

func TestRepository_ReadMultiInInsertionOrder(t *testing.T) {
	repository, _ := newRepository()
	ctx := context.Background()

	empty, err := repository.ReadMulti(ctx)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	for _, email := range []string{"c@example.com", "a@example.com", "b@example.com"} {
		input := adaInput()
		input.Email = email
		_, err := repository.Create(ctx, input)
		require.NoError(t, err)
	}

	all, err := repository.ReadMulti(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "c@example.com", all[0].Email)
	assert.Equal(t, "a@example.com", all[1].Email)
	assert.Equal(t, "b@example.com", all[2].Email)
}

func TestRepository_DuplicateEmailIsConflict(t *testing.T) {
	repository, _ := newRepository()
	ctx := context.Background()

	_, err := repository.Create(ctx, adaInput())
	require.NoError(t, err)

	_, err = repository.Create(ctx, adaInput())
	assert.ErrorIs(t, err, crud.ErrConflict)
}

func TestRepository_AdminRole(t *testing.T) {
	repository, _ := newRepository()
	input := adaInput()
	input.Role = sec.RoleAdmin

	created, err := repository.Create(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, sec.RoleAdmin, created.Role)
}

type failingHasher struct{}

func (failingHasher) Hash(string) (string, error)  { return "", errors.New("boom") }
func (failingHasher) Verify(string, string) bool { return false }

func TestRepository_HashFailureStopsInsert(t *testing.T) {
	store := employee.NewMemoryStore()
	repository := employee.NewRepository(store, failingHasher{})

	_, err := repository.Create(context.Background(), adaInput())
	require.Error(t, err)

	all, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
}

// mapCache is an in-process crud.Cache.
type mapCache map[string]employee.Employee

func (cache mapCache) Get(_ context.Context, id string) (*employee.Employee, error) {
	value, ok := cache[id]
	if !ok {
		return nil, nil
	}
	return &value, nil
}

func (cache mapCache) Set(_ context.Context, id string, value employee.Employee) error {
	cache[id] = value
	return nil
}

func TestRepository_WithCache(t *testing.T) {
	cache := mapCache{}
	repository, _ := newRepository(employee.WithCache(cache), employee.WithIDGenerator(func() string {
		return "0b6f1a4e-9a53-4d0c-8b9e-2f7d0c1e5a11"
	}))

	created, err := repository.Create(context.Background(), adaInput())
	require.NoError(t, err)
	assert.Equal(t, "0b6f1a4e-9a53-4d0c-8b9e-2f7d0c1e5a11", created.PublicID)
	assert.Contains(t, cache, created.PublicID)
}
