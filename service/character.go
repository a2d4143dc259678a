package service

import (
	"errors"
	"fmt"

	"emberveil_backend/game"
	"emberveil_backend/model"
	"emberveil_backend/repository"
)

// MaxCharactersPerAccount caps the roster an account can own.
const MaxCharactersPerAccount = 3

type CharacterService struct {
	storage *repository.Storage
}

func NewCharacterService(storage *repository.Storage) *CharacterService {
	return &CharacterService{storage: storage}
}

// Create builds a fresh character aggregate from the creation request and
// persists it under the owning account.
func (c *CharacterService) Create(data *model.NewCharacterAPI) error {
	account, err := c.storage.GetAccountByName(data.Username)
	if err != nil {
		return err
	}

	if len(account.Characters) >= MaxCharactersPerAccount {
		return errors.New("character limit reached for this account")
	}

	taken, err := c.storage.DoesCharacterNameExist(data.Name)
	if err != nil {
		return err
	}
	if taken {
		return fmt.Errorf("character %s: %w", data.Name, model.ErrAlreadyExists)
	}

	ch := game.NewCharacter(data.Name, map[int]int{
		game.AttrStrength:     data.Attributes[0],
		game.AttrAgility:      data.Attributes[1],
		game.AttrDexterity:    data.Attributes[2],
		game.AttrVitality:     data.Attributes[3],
		game.AttrIntelligence: data.Attributes[4],
		game.AttrWillpower:    data.Attributes[5],
	})
	ch.AccountID = account.ID
	ch.Gender = data.Gender
	ch.HairStyle = data.HairStyle
	ch.HairColor = data.HairColor
	ch.Update()

	dto := ch.Snapshot()
	if err = c.storage.AddCharacter(&dto); err != nil {
		return err
	}

	if err = c.storage.LogTransaction(dto.ID, model.TransactionCharacterCreated, data.Name); err != nil {
		globalLogger.Warning("failed to log character creation: " + err.Error())
	}
	return nil
}

// Delete removes a character after checking it belongs to the requesting
// account. The cascade runs in one unit of work.
func (c *CharacterService) Delete(username, characterName string) error {
	account, err := c.storage.GetAccountByName(username)
	if err != nil {
		return err
	}

	ch, err := c.storage.GetCharacterByName(characterName)
	if err != nil {
		return err
	}

	if ch.AccountID != account.ID {
		return errors.New("character does not belong to this account")
	}

	if err = c.storage.DelCharacter(ch.ID, nil); err != nil {
		return err
	}

	if err = c.storage.LogTransaction(ch.ID, model.TransactionCharacterDeleted, characterName); err != nil {
		globalLogger.Warning("failed to log character deletion: " + err.Error())
	}
	return nil
}

func (c *CharacterService) Load(characterName string) (*game.Character, error) {
	ch, err := c.storage.GetCharacterByName(characterName)
	if err != nil {
		return nil, err
	}
	ch.Update()
	return ch, nil
}

func (c *CharacterService) SetOnline(characterID int, online bool) error {
	return c.storage.SetOnlineStatus(characterID, online)
}
