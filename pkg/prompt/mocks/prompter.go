// Code generated manually. DO NOT EDIT.

package mocks

import (
	"github.com/stretchr/testify/mock"
)

// MockPrompter is a mock implementation of the prompt.Prompter interface
type MockPrompter struct {
	mock.Mock
}

// Ask provides a mock function with given fields: label
func (m *MockPrompter) Ask(label string) (string, error) {
	ret := m.Called(label)

	var r0 string
	var r1 error
	if rf, ok := ret.Get(0).(func(string) (string, error)); ok {
		return rf(label)
	}
	if rf, ok := ret.Get(0).(func(string) string); ok {
		r0 = rf(label)
	} else {
		r0 = ret.Get(0).(string)
	}

	if rf, ok := ret.Get(1).(func(string) error); ok {
		r1 = rf(label)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// AskOptional provides a mock function with given fields: label
func (m *MockPrompter) AskOptional(label string) (string, error) {
	ret := m.Called(label)

	var r0 string
	var r1 error
	if rf, ok := ret.Get(0).(func(string) (string, error)); ok {
		return rf(label)
	}
	if rf, ok := ret.Get(0).(func(string) string); ok {
		r0 = rf(label)
	} else {
		r0 = ret.Get(0).(string)
	}

	if rf, ok := ret.Get(1).(func(string) error); ok {
		r1 = rf(label)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// AskSecret provides a mock function with given fields: label
func (m *MockPrompter) AskSecret(label string) (string, error) {
	ret := m.Called(label)

	var r0 string
	var r1 error
	if rf, ok := ret.Get(0).(func(string) (string, error)); ok {
		return rf(label)
	}
	if rf, ok := ret.Get(0).(func(string) string); ok {
		r0 = rf(label)
	} else {
		r0 = ret.Get(0).(string)
	}

	if rf, ok := ret.Get(1).(func(string) error); ok {
		r1 = rf(label)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}
