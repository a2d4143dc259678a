package service

import (
	"github.com/stretchr/testify/mock"

	"emberveil_backend/model"
)

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) Create(data *model.RegisterAPI) error {
	args := m.Called(data)
	return args.Error(0)
}

func (m *MockUserService) ActivateAccount(email string) error {
	args := m.Called(email)
	return args.Error(0)
}

func (m *MockUserService) CheckActivation(name string) (bool, error) {
	args := m.Called(name)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserService) CheckForBan(name string) (bool, error) {
	args := m.Called(name)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserService) Verify(data *model.LoginAPI) error {
	args := m.Called(data)
	return args.Error(0)
}

func (m *MockUserService) UpdatePassword(email string, password string) error {
	args := m.Called(email, password)
	return args.Error(0)
}

func (m *MockUserService) Fetch(name string, email string) (bool, error) {
	args := m.Called(name, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserService) FetchMail(name string) (string, error) {
	args := m.Called(name)
	return args.String(0), args.Error(1)
}

func (m *MockUserService) IsGameMaster(name string) (bool, error) {
	args := m.Called(name)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserService) IsAdmin(name string) (bool, error) {
	args := m.Called(name)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserService) GetStats(name string) (*model.AccountStatsAPI, error) {
	args := m.Called(name)
	return args.Get(0).(*model.AccountStatsAPI), args.Error(1)
}

func (m *MockUserService) GetServerStats() (*model.ServerStatsAPI, error) {
	args := m.Called()
	return args.Get(0).(*model.ServerStatsAPI), args.Error(1)
}

func (m *MockUserService) Ban(data *model.BanAPI) error {
	args := m.Called(data)
	return args.Error(0)
}

func (m *MockUserService) Unban(data *model.BanAPI) error {
	args := m.Called(data)
	return args.Error(0)
}

func (m *MockUserService) SweepBans() error {
	return nil
}
