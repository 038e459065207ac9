// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SplitLedger Contributors

package mocks

import (
	time "time"

	mock "github.com/stretchr/testify/mock"

	auth "github.com/splitledger/splitledger/internal/auth"
)

// MockTokenIssuer is a testify mock of TokenIssuer.
type MockTokenIssuer struct {
	mock.Mock
}

// Issue provides a mock function with given fields: subject, kind
func (_m *MockTokenIssuer) Issue(subject string, kind auth.TTLKind) (string, time.Time, error) {
	ret := _m.Called(subject, kind)
	return ret.String(0), ret.Get(1).(time.Time), ret.Error(2)
}

// Verify provides a mock function with given fields: token
func (_m *MockTokenIssuer) Verify(token string) (string, error) {
	ret := _m.Called(token)
	return ret.String(0), ret.Error(1)
}

// NewMockTokenIssuer creates a new instance of MockTokenIssuer. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
// The first argument is typically a *testing.T value.
func NewMockTokenIssuer(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockTokenIssuer {
	m := &MockTokenIssuer{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
