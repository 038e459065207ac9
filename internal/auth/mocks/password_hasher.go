// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SplitLedger Contributors

package mocks

import (
	mock "github.com/stretchr/testify/mock"
)

// MockPasswordHasher is a testify mock of PasswordHasher.
type MockPasswordHasher struct {
	mock.Mock
}

// Hash provides a mock function with given fields: password
func (_m *MockPasswordHasher) Hash(password string) (string, error) {
	ret := _m.Called(password)
	return ret.String(0), ret.Error(1)
}

// Verify provides a mock function with given fields: password, digest
func (_m *MockPasswordHasher) Verify(password string, digest string) (bool, error) {
	ret := _m.Called(password, digest)
	return ret.Bool(0), ret.Error(1)
}

// NewMockPasswordHasher creates a new instance of MockPasswordHasher. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
// The first argument is typically a *testing.T value.
func NewMockPasswordHasher(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockPasswordHasher {
	m := &MockPasswordHasher{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
