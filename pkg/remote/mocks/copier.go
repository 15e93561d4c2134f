// Code generated manually. DO NOT EDIT.

package mocks

import (
	"context"
	"os"

	"github.com/stretchr/testify/mock"

	"github.com/byte3-it/iscp/pkg/remote"
)

// MockCopier is a mock implementation of the remote.Copier interface
type MockCopier struct {
	mock.Mock
}

// OpenWrite provides a mock function with given fields: ctx, path, mode, size
func (m *MockCopier) OpenWrite(ctx context.Context, path string, mode os.FileMode, size int64) (remote.WriteChannel, error) {
	ret := m.Called(ctx, path, mode, size)

	var r0 remote.WriteChannel
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, string, os.FileMode, int64) (remote.WriteChannel, error)); ok {
		return rf(ctx, path, mode, size)
	}
	if rf, ok := ret.Get(0).(func(context.Context, string, os.FileMode, int64) remote.WriteChannel); ok {
		r0 = rf(ctx, path, mode, size)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(remote.WriteChannel)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context, string, os.FileMode, int64) error); ok {
		r1 = rf(ctx, path, mode, size)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// Protocol provides a mock function with given fields:
func (m *MockCopier) Protocol() string {
	ret := m.Called()

	var r0 string
	if rf, ok := ret.Get(0).(func() string); ok {
		r0 = rf()
	} else {
		r0 = ret.Get(0).(string)
	}

	return r0
}

// MockWriteChannel is a mock implementation of the remote.WriteChannel interface
type MockWriteChannel struct {
	mock.Mock
}

// Write provides a mock function with given fields: p
func (m *MockWriteChannel) Write(p []byte) (int, error) {
	ret := m.Called(p)

	var r0 int
	var r1 error
	if rf, ok := ret.Get(0).(func([]byte) (int, error)); ok {
		return rf(p)
	}
	if rf, ok := ret.Get(0).(func([]byte) int); ok {
		r0 = rf(p)
	} else {
		r0 = ret.Get(0).(int)
	}

	if rf, ok := ret.Get(1).(func([]byte) error); ok {
		r1 = rf(p)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// SendEOF provides a mock function with given fields:
func (m *MockWriteChannel) SendEOF() error {
	ret := m.Called()

	var r0 error
	if rf, ok := ret.Get(0).(func() error); ok {
		r0 = rf()
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

// WaitEOF provides a mock function with given fields:
func (m *MockWriteChannel) WaitEOF() error {
	ret := m.Called()

	var r0 error
	if rf, ok := ret.Get(0).(func() error); ok {
		r0 = rf()
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

// Close provides a mock function with given fields:
func (m *MockWriteChannel) Close() error {
	ret := m.Called()

	var r0 error
	if rf, ok := ret.Get(0).(func() error); ok {
		r0 = rf()
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

// WaitClose provides a mock function with given fields:
func (m *MockWriteChannel) WaitClose() error {
	ret := m.Called()

	var r0 error
	if rf, ok := ret.Get(0).(func() error); ok {
		r0 = rf()
	} else {
		r0 = ret.Error(0)
	}

	return r0
}
