package service

import "github.com/stretchr/testify/mock"

// MockLoggerService swallows log output; tests that care register
// expectations on the level methods, everything else just wires it in.
type MockLoggerService struct {
	mock.Mock
}

func (m *MockLoggerService) Debug(msg string) {
	m.Called(msg)
}

func (m *MockLoggerService) Info(msg string) {
	m.Called(msg)
}

func (m *MockLoggerService) Warning(msg string) {
	m.Called(msg)
}

func (m *MockLoggerService) Exception(msg string) {
	m.Called(msg)
}

func (m *MockLoggerService) Shutdown() {}
