package service

import (
	"encoding/hex"
	"errors"
	"time"

	"github.com/jzelinskie/whirlpool"

	"emberveil_backend/model"
	"emberveil_backend/repository"
)

type UserService struct {
	storage *repository.Storage
}

func NewUserService(storage *repository.Storage) *UserService {
	return &UserService{storage: storage}
}

func (u *UserService) Create(data *model.RegisterAPI) error {
	dto := &repository.AccountDB{
		Username:     data.Username,
		Email:        data.Email,
		Password:     hashWP(data.Password),
		Level:        model.AccountLevelPlayer,
		Registration: time.Now().Unix(),
	}

	return u.storage.AddAccount(dto)
}

func (u *UserService) ActivateAccount(email string) error {
	return u.storage.ActivateAccount(email)
}

func (u *UserService) CheckActivation(name string) (bool, error) {
	account, err := u.storage.GetAccountByName(name)
	if err != nil {
		return false, err
	}
	return account.Activated == 1, nil
}

func (u *UserService) CheckForBan(name string) (bool, error) {
	account, err := u.storage.GetAccountByName(name)
	if err != nil {
		return false, err
	}
	return account.Level == model.AccountLevelBanned, nil
}

func (u *UserService) Verify(data *model.LoginAPI) error {
	account, err := u.storage.GetAccountByName(data.Username)
	if err != nil {
		return err
	}

	if account.Password != hashWP(data.Password) {
		return errors.New("wrong username or password")
	}

	return u.storage.UpdateLastLogin(account.ID, time.Now())
}

func (u *UserService) UpdatePassword(email string, password string) error {
	hashed := hashWP(password)
	return u.storage.UpdatePassword(email, hashed)
}

func (u *UserService) Fetch(name string, email string) (bool, error) {
	nameTaken, err := u.storage.DoesUserNameExist(name)
	if err != nil {
		return false, err
	}
	if nameTaken {
		return true, nil
	}

	return u.storage.DoesEmailAddressExist(email)
}

func (u *UserService) FetchMail(name string) (string, error) {
	account, err := u.storage.GetAccountByName(name)
	if err != nil {
		return "", err
	}
	return account.Email, nil
}

func (u *UserService) IsGameMaster(name string) (bool, error) {
	account, err := u.storage.GetAccountByName(name)
	if err != nil {
		return false, err
	}
	return account.Level >= model.AccountLevelGM, nil
}

func (u *UserService) IsAdmin(name string) (bool, error) {
	account, err := u.storage.GetAccountByName(name)
	if err != nil {
		return false, err
	}
	return account.Level >= model.AccountLevelAdmin, nil
}

func (u *UserService) GetStats(name string) (*model.AccountStatsAPI, error) {
	account, err := u.storage.GetAccountByName(name)
	if err != nil {
		return nil, err
	}

	var list []model.CharacterStatsAPI
	for _, charID := range account.Characters {
		c, errChar := u.storage.GetCharacterByID(charID)
		if errChar != nil {
			return nil, errChar
		}
		c.Update()

		list = append(list, model.CharacterStatsAPI{
			Name:          c.Name,
			Level:         c.Level(),
			LevelProgress: c.LevelProgress(),
			MapID:         c.MapID,
		})
	}

	return &model.AccountStatsAPI{
		Username:      account.Username,
		Level:         account.Level,
		LastLogin:     account.LastLogin,
		CharacterList: list,
	}, nil
}

func (u *UserService) GetServerStats() (*model.ServerStatsAPI, error) {
	online, err := u.storage.GetOnlineCharacters()
	if err != nil {
		return nil, err
	}

	accounts, err := u.storage.CountAccounts()
	if err != nil {
		return nil, err
	}

	characters, err := u.storage.CountCharacters()
	if err != nil {
		return nil, err
	}

	guilds, err := u.storage.CountGuilds()
	if err != nil {
		return nil, err
	}

	return &model.ServerStatsAPI{
		Online:     len(online),
		Accounts:   accounts,
		Characters: characters,
		Guilds:     guilds,
	}, nil
}

func (u *UserService) Ban(data *model.BanAPI) error {
	if err := u.storage.BanCharacter(data.CharacterID, data.Duration); err != nil {
		return err
	}

	if err := u.storage.LogTransaction(data.CharacterID, model.TransactionBan, data.Reason); err != nil {
		globalLogger.Warning("failed to log ban: " + err.Error())
	}
	return nil
}

func (u *UserService) Unban(data *model.BanAPI) error {
	if err := u.storage.UnbanCharacter(data.CharacterID); err != nil {
		return err
	}

	if err := u.storage.LogTransaction(data.CharacterID, model.TransactionUnban, data.Reason); err != nil {
		globalLogger.Warning("failed to log unban: " + err.Error())
	}
	return nil
}

func (u *UserService) SweepBans() error {
	return u.storage.CheckBannedAccounts()
}

func hashWP(payload string) string {
	w := whirlpool.New()
	w.Write([]byte(payload))
	return hex.EncodeToString(w.Sum(nil))
}
