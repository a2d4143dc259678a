package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
)

type AuthService struct {
	Store *session.Store
}

func NewAuthService(store *session.Store) *AuthService {
	return &AuthService{Store: store}
}

func (a *AuthService) CheckSession(ctx *fiber.Ctx) (string, bool, bool, error) {
	var name string
	var isGM, isAdmin bool

	sess, err := a.Store.Get(ctx)
	if err != nil {
		globalLogger.Exception(err.Error())
		return name, isGM, isAdmin, err
	}

	if r := sess.Get("name"); r != nil {
		var ok bool
		name, ok = r.(string)
		if !ok {
			errMsg := fmt.Sprintf("can't type cast to string session for user %s", name)
			globalLogger.Exception(errMsg)
			return name, isGM, isAdmin, errors.New(errMsg)
		}
	}

	if r := sess.Get("is_gm"); r != nil {
		var ok bool
		isGM, ok = r.(bool)
		if !ok {
			errMsg := fmt.Sprintf("can't type cast to bool is_gm for user %s", name)
			globalLogger.Exception(errMsg)
			return name, isGM, isAdmin, errors.New(errMsg)
		}
	}

	if r := sess.Get("is_admin"); r != nil {
		var ok bool
		isAdmin, ok = r.(bool)
		if !ok {
			errMsg := fmt.Sprintf("can't type cast to bool is_admin for user %s", name)
			globalLogger.Exception(errMsg)
			return name, isGM, isAdmin, errors.New(errMsg)
		}
	}

	return name, isGM, isAdmin, nil
}

func (a *AuthService) SaveSession(ctx *fiber.Ctx, name string, isGM bool, isAdmin bool) error {
	sess, err := a.Store.Get(ctx)
	if err != nil {
		globalLogger.Exception(err.Error())
		return err
	}
	sess.Set("name", name)
	sess.Set("is_gm", isGM)
	sess.Set("is_admin", isAdmin)
	sess.SetExpiry(time.Hour * 24)
	return sess.Save()
}

func (a *AuthService) DestroySession(ctx *fiber.Ctx) error {
	sess, err := a.Store.Get(ctx)
	if err != nil {
		globalLogger.Exception(err.Error())
		return err
	}

	return sess.Destroy()
}
