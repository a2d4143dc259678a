package service

import (
	"github.com/stretchr/testify/mock"

	"emberveil_backend/game"
	"emberveil_backend/model"
)

type MockCharacterService struct {
	mock.Mock
}

func (c *MockCharacterService) Create(data *model.NewCharacterAPI) error {
	args := c.Called(data)
	return args.Error(0)
}

func (c *MockCharacterService) Delete(username, characterName string) error {
	args := c.Called(username, characterName)
	return args.Error(0)
}

func (c *MockCharacterService) Load(characterName string) (*game.Character, error) {
	args := c.Called(characterName)
	return args.Get(0).(*game.Character), args.Error(1)
}

func (c *MockCharacterService) SetOnline(characterID int, online bool) error {
	return nil
}
