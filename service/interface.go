package service

import (
	"github.com/gofiber/fiber/v2"

	"emberveil_backend/game"
	"emberveil_backend/model"
)

type UserServiceInterface interface {
	Create(data *model.RegisterAPI) error
	ActivateAccount(email string) error
	CheckActivation(name string) (bool, error)
	CheckForBan(name string) (bool, error)
	Verify(data *model.LoginAPI) error
	UpdatePassword(email string, password string) error
	Fetch(name string, email string) (bool, error)
	FetchMail(name string) (string, error)
	IsGameMaster(name string) (bool, error)
	IsAdmin(name string) (bool, error)
	GetStats(name string) (*model.AccountStatsAPI, error)
	GetServerStats() (*model.ServerStatsAPI, error)
	Ban(data *model.BanAPI) error
	Unban(data *model.BanAPI) error
	SweepBans() error
}

type AuthServiceInterface interface {
	CheckSession(ctx *fiber.Ctx) (string, bool, bool, error)
	SaveSession(ctx *fiber.Ctx, name string, isGM bool, isAdmin bool) error
	DestroySession(ctx *fiber.Ctx) error
}

type CharacterServiceInterface interface {
	Create(data *model.NewCharacterAPI) error
	Delete(username, characterName string) error
	Load(characterName string) (*game.Character, error)
	SetOnline(characterID int, online bool) error
}

type PersistInterface interface {
	Enqueue(data game.CharacterData) string
	FlushSkill(characterID, skillID, exp int) error
	Shutdown()
}

type LoggerInterface interface {
	Info(msg string)
	Warning(msg string)
	Exception(msg string)
	Debug(msg string)
	Shutdown()
}

type EmailInterface interface {
	SendEmail(to, subject, body string) error
}
