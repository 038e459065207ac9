// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SplitLedger Contributors

// Package mocks provides hand-maintained testify mocks for the auth
// package interfaces, shared by the auth and httpapi tests.
package mocks

import (
	context "context"
	time "time"

	mock "github.com/stretchr/testify/mock"

	auth "github.com/splitledger/splitledger/internal/auth"
)

// MockAccountRepository is a testify mock of AccountRepository.
type MockAccountRepository struct {
	mock.Mock
}

// Create provides a mock function with given fields: ctx, account
func (_m *MockAccountRepository) Create(ctx context.Context, account *auth.Account) error {
	ret := _m.Called(ctx, account)
	return ret.Error(0)
}

// GetByEmail provides a mock function with given fields: ctx, email
func (_m *MockAccountRepository) GetByEmail(ctx context.Context, email string) (*auth.Account, error) {
	ret := _m.Called(ctx, email)

	var r0 *auth.Account
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*auth.Account)
	}
	return r0, ret.Error(1)
}

// GetByResetTokenHash provides a mock function with given fields: ctx, tokenHash
func (_m *MockAccountRepository) GetByResetTokenHash(ctx context.Context, tokenHash string) (*auth.Account, error) {
	ret := _m.Called(ctx, tokenHash)

	var r0 *auth.Account
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*auth.Account)
	}
	return r0, ret.Error(1)
}

// RecordFailure provides a mock function with given fields: ctx, email
func (_m *MockAccountRepository) RecordFailure(ctx context.Context, email string) (int, error) {
	ret := _m.Called(ctx, email)
	return ret.Get(0).(int), ret.Error(1)
}

// Lock provides a mock function with given fields: ctx, email, until
func (_m *MockAccountRepository) Lock(ctx context.Context, email string, until time.Time) error {
	ret := _m.Called(ctx, email, until)
	return ret.Error(0)
}

// ClearLock provides a mock function with given fields: ctx, email
func (_m *MockAccountRepository) ClearLock(ctx context.Context, email string) error {
	ret := _m.Called(ctx, email)
	return ret.Error(0)
}

// RecordSuccess provides a mock function with given fields: ctx, email, at
func (_m *MockAccountRepository) RecordSuccess(ctx context.Context, email string, at time.Time) error {
	ret := _m.Called(ctx, email, at)
	return ret.Error(0)
}

// UpdateProfile provides a mock function with given fields: ctx, email, firstName, lastName
func (_m *MockAccountRepository) UpdateProfile(ctx context.Context, email string, firstName string, lastName string) error {
	ret := _m.Called(ctx, email, firstName, lastName)
	return ret.Error(0)
}

// UpdatePassword provides a mock function with given fields: ctx, email, credentialDigest
func (_m *MockAccountRepository) UpdatePassword(ctx context.Context, email string, credentialDigest string) error {
	ret := _m.Called(ctx, email, credentialDigest)
	return ret.Error(0)
}

// SetResetToken provides a mock function with given fields: ctx, email, tokenHash, expiresAt
func (_m *MockAccountRepository) SetResetToken(ctx context.Context, email string, tokenHash string, expiresAt time.Time) error {
	ret := _m.Called(ctx, email, tokenHash, expiresAt)
	return ret.Error(0)
}

// ConsumeResetToken provides a mock function with given fields: ctx, email, tokenHash, credentialDigest
func (_m *MockAccountRepository) ConsumeResetToken(ctx context.Context, email string, tokenHash string, credentialDigest string) error {
	ret := _m.Called(ctx, email, tokenHash, credentialDigest)
	return ret.Error(0)
}

// ListEmails provides a mock function with given fields: ctx
func (_m *MockAccountRepository) ListEmails(ctx context.Context) ([]string, error) {
	ret := _m.Called(ctx)

	var r0 []string
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]string)
	}
	return r0, ret.Error(1)
}

// Delete provides a mock function with given fields: ctx, email
func (_m *MockAccountRepository) Delete(ctx context.Context, email string) error {
	ret := _m.Called(ctx, email)
	return ret.Error(0)
}

// NewMockAccountRepository creates a new instance of MockAccountRepository. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
// The first argument is typically a *testing.T value.
func NewMockAccountRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockAccountRepository {
	m := &MockAccountRepository{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
