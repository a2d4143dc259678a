package handler

import (
	"fmt"
	"net/http"
	"net/mail"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"emberveil_backend/model"
	"emberveil_backend/service"
)

type UserHandler struct {
	User        service.UserServiceInterface
	Char        service.CharacterServiceInterface
	Auth        service.AuthServiceInterface
	Logger      service.LoggerInterface
	Email       service.EmailInterface
	EmailErrors chan error
}

func New(userService service.UserServiceInterface, charService service.CharacterServiceInterface, authService service.AuthServiceInterface, logService service.LoggerInterface, emailService service.EmailInterface) *UserHandler {
	return &UserHandler{
		User:        userService,
		Char:        charService,
		Auth:        authService,
		Logger:      logService,
		Email:       emailService,
		EmailErrors: make(chan error, 10),
	}
}

func (h *UserHandler) Register(ctx *fiber.Ctx) error {
	br := model.BaseResponse{
		Error:   true,
		Message: "An internal error occurred.",
	}

	var registerData model.RegisterAPI

	if err := ctx.BodyParser(&registerData); err != nil {
		h.Logger.Exception(fmt.Sprintf("Register(): error parsing body request: %v", err))
		return ctx.Status(http.StatusUnprocessableEntity).JSON(br)
	}

	if err := registerData.Validate(); err != nil {
		h.Logger.Exception(fmt.Sprintf("Register(): error validating data to register: %v", err))
		br.Message = err.Error()
		return ctx.Status(http.StatusUnprocessableEntity).JSON(br)
	}

	fetched, err := h.User.Fetch(registerData.Username, registerData.Email)
	if err != nil {
		h.Logger.Exception(fmt.Sprintf("Register(): error checking for duplicates: %v", err))
		return ctx.Status(http.StatusInternalServerError).JSON(br)
	}

	if fetched {
		h.Logger.Exception("Register(): trying to duplicate register")
		br.Message = "An account with this name or email address already exists."
		return ctx.Status(fiber.StatusConflict).JSON(br)
	}

	if err = h.User.Create(&registerData); err != nil {
		h.Logger.Exception(fmt.Sprintf("Register(): error creating account: %v", err))
		return ctx.Status(http.StatusInternalServerError).JSON(br)
	}

	timestamp := time.Now().Unix()
	token := service.GenerateToken(registerData.Email, timestamp)
	confirmationLink := fmt.Sprintf("/api/v1/confirm?email=%s&token=%s&timestamp=%d", registerData.Email, token, timestamp)
	emailBody := fmt.Sprintf(service.ConfirmAccountEmail, confirmationLink, registerData.Email)

	go func() {
		err := h.Email.SendEmail(registerData.Email, "Emberveil account confirmation", emailBody)
		if err != nil {
			h.Logger.Exception("Register(): failed to send confirmation email: " + err.Error())
		}

		select {
		case h.EmailErrors <- err:
		default:
			h.Logger.Exception("Register(): EmailErrors channel is full or unbuffered.")
		}
	}()

	if err = <-h.EmailErrors; err != nil {
		br.Message = "The confirmation email could not be sent."
		return ctx.Status(http.StatusInternalServerError).JSON(br)
	}

	return ctx.Status(http.StatusCreated).JSON(model.BaseResponse{
		Error:   false,
		Message: "",
	})
}

func (h *UserHandler) Confirm(ctx *fiber.Ctx) error {
	br := model.BaseResponse{
		Error:   true,
		Message: "An internal error occurred.",
	}

	email := ctx.Query("email")
	token := ctx.Query("token")
	timestampStr := ctx.Query("timestamp")

	if email == "" || token == "" || timestampStr == "" {
		br.Message = "All parameters are required."
		return ctx.Status(http.StatusUnprocessableEntity).JSON(br)
	}

	timestamp, err := strconv.ParseInt(timestampStr, 10, 64)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(br)
	}

	if !service.ValidateToken(email, token, timestamp) {
		br.Message = "The token is invalid."
		return ctx.Status(fiber.StatusUnauthorized).JSON(br)
	}

	if time.Now().Unix()-timestamp > 15*60 {
		br.Message = "The token has expired."
		return ctx.Status(fiber.StatusUnauthorized).JSON(br)
	}

	if err = h.User.ActivateAccount(email); err != nil {
		h.Logger.Exception("Confirm(): failed to activate account: " + err.Error())
		br.Message = "The account could not be activated."
		return ctx.Status(fiber.StatusInternalServerError).JSON(br)
	}

	return ctx.Redirect("/", fiber.StatusFound)
}

func (h *UserHandler) Login(ctx *fiber.Ctx) error {
	br := model.BaseResponse{
		Error:   true,
		Message: "Wrong username or password.",
	}

	var loginData model.LoginAPI

	if err := ctx.BodyParser(&loginData); err != nil {
		h.Logger.Exception(fmt.Sprintf("Login(): error parsing body request: %v", err))
		return ctx.Status(http.StatusUnprocessableEntity).JSON(br)
	}

	if err := loginData.Validate(); err != nil {
		h.Logger.Exception(fmt.Sprintf("Login(): error validating data: %v", err))
		return ctx.Status(http.StatusUnprocessableEntity).JSON(br)
	}

	banned, err := h.User.CheckForBan(loginData.Username)
	if err != nil {
		h.Logger.Exception(fmt.Sprintf("Login(): error checking for ban for user %s: %v", loginData.Username, err))
		return ctx.Status(http.StatusOK).JSON(br)
	}

	if banned {
		br.Message = "This account is banned."
		return ctx.Status(http.StatusOK).JSON(br)
	}

	activated, err := h.User.CheckActivation(loginData.Username)
	if err != nil {
		h.Logger.Exception("Login(): error checking for activation status: " + err.Error())
		return ctx.Status(http.StatusConflict).JSON(br)
	}

	if !activated {
		br.Message = "The account is not activated. Check your email address."
		return ctx.Status(http.StatusConflict).JSON(br)
	}

	if err = h.User.Verify(&loginData); err != nil {
		h.Logger.Exception(fmt.Sprintf("Login(): error verifying account: %v", err))
		return ctx.Status(http.StatusUnauthorized).JSON(br)
	}

	isGM, errGM := h.User.IsGameMaster(loginData.Username)
	if errGM != nil {
		h.Logger.Exception(fmt.Sprintf("Login(): error fetching account: %v", errGM))
	}

	isAdmin, errAdmin := h.User.IsAdmin(loginData.Username)
	if errAdmin != nil {
		h.Logger.Exception(fmt.Sprintf("Login(): error fetching account: %v", errAdmin))
		return ctx.SendStatus(http.StatusInternalServerError)
	}

	if err = h.Auth.SaveSession(ctx, loginData.Username, isGM, isAdmin); err != nil {
		h.Logger.Exception(fmt.Sprintf("Login(): error saving session: %v", err))
		return ctx.SendStatus(http.StatusInternalServerError)
	}

	return ctx.Status(http.StatusAccepted).JSON(model.BaseResponse{
		Error:   false,
		Message: "",
	})
}

func (h *UserHandler) Logout(ctx *fiber.Ctx) error {
	if err := h.Auth.DestroySession(ctx); err != nil {
		h.Logger.Exception(fmt.Sprintf("Logout() error logging out: %v", err))
		return ctx.SendStatus(http.StatusUnauthorized)
	}

	return ctx.SendStatus(http.StatusOK)
}

func (h *UserHandler) ResetRequest(ctx *fiber.Ctx) error {
	br := model.BaseResponse{
		Error:   true,
		Message: "An internal error occurred.",
	}

	email := ctx.Query("email")

	if _, err := mail.ParseAddress(email); err != nil {
		br.Message = "The email address is invalid."
		return ctx.Status(http.StatusBadRequest).JSON(br)
	}

	timestamp := time.Now().Unix()
	token := service.GenerateToken(email, timestamp)

	confirmationLink := fmt.Sprintf("/api/v1/confirm-reset?email=%s&token=%s&timestamp=%d", email, token, timestamp)
	emailBody := fmt.Sprintf(service.ResetPasswordEmail, confirmationLink)

	go func() {
		err := h.Email.SendEmail(email, "Emberveil password reset", emailBody)
		if err != nil {
			h.Logger.Exception("ResetRequest(): failed to send reset email: " + err.Error())
		}

		select {
		case h.EmailErrors <- err:
		default:
			h.Logger.Exception("ResetRequest(): EmailErrors channel is full or unbuffered.")
		}
	}()

	if err := <-h.EmailErrors; err != nil {
		br.Message = "The reset email could not be sent."
		return ctx.Status(http.StatusInternalServerError).JSON(br)
	}

	return ctx.Status(http.StatusOK).JSON(model.BaseResponse{
		Error:   false,
		Message: "",
	})
}

func (h *UserHandler) ConfirmReset(ctx *fiber.Ctx) error {
	br := model.BaseResponse{
		Error:   true,
		Message: "An internal error occurred.",
	}

	resetPwd := model.UpdatePassword{
		Email:       ctx.Query("email"),
		Token:       ctx.Query("token"),
		Timestamp:   int64(ctx.QueryInt("timestamp")),
		NewPassword: "",
	}

	if _, err := mail.ParseAddress(resetPwd.Email); err != nil || resetPwd.Token == "" || resetPwd.Timestamp == 0 {
		return ctx.Status(http.StatusBadRequest).JSON(br)
	}

	ts := time.Now().Unix()
	if ts-resetPwd.Timestamp > 15*60 {
		br.Message = "The token has expired."
		return ctx.Status(http.StatusBadRequest).JSON(br)
	}

	if !service.ValidateToken(resetPwd.Email, resetPwd.Token, resetPwd.Timestamp) {
		br.Message = "The token is invalid."
		return ctx.Status(http.StatusBadRequest).JSON(br)
	}

	url := fmt.Sprintf("/password-reset?email=%s&token=%s&timestamp=%d", resetPwd.Email, resetPwd.Token, resetPwd.Timestamp)
	return ctx.Status(http.StatusFound).Redirect(url)
}

func (h *UserHandler) UpdatePassword(ctx *fiber.Ctx) error {
	br := model.BaseResponse{
		Error:   true,
		Message: "An internal error occurred.",
	}

	var resetPwd model.UpdatePassword

	if err := ctx.BodyParser(&resetPwd); err != nil {
		return ctx.Status(http.StatusUnprocessableEntity).JSON(br)
	}

	if err := resetPwd.Validate(); err != nil {
		br.Message = err.Error()
		return ctx.Status(http.StatusUnprocessableEntity).JSON(br)
	}

	ts := time.Now().Unix()
	if ts-resetPwd.Timestamp > 15*60 {
		br.Message = "The token has expired."
		return ctx.Status(http.StatusBadRequest).JSON(br)
	}

	if !service.ValidateToken(resetPwd.Email, resetPwd.Token, resetPwd.Timestamp) {
		br.Message = "The token is invalid."
		return ctx.Status(http.StatusBadRequest).JSON(br)
	}

	if err := h.User.UpdatePassword(resetPwd.Email, resetPwd.NewPassword); err != nil {
		h.Logger.Exception(fmt.Sprintf("UpdatePassword(): error updating new password: %v", err))
		return ctx.Status(http.StatusInternalServerError).JSON(br)
	}

	return ctx.Status(http.StatusOK).JSON(model.BaseResponse{
		Error:   false,
		Message: "",
	})
}

func (h *UserHandler) CheckAuth(ctx *fiber.Ctx) error {
	br := model.BaseResponse{
		Error:   true,
		Message: "you are not authenticated",
	}

	name, _, _, err := h.Auth.CheckSession(ctx)
	if err != nil {
		h.Logger.Exception(fmt.Sprintf("CheckAuth(): error checking for session: %v", err))
		return ctx.Status(http.StatusInternalServerError).JSON(br)
	}

	if name == "" {
		h.Logger.Exception("CheckAuth(): session doesn't exist: user is not logged in")
		return ctx.Status(http.StatusOK).JSON(br)
	}

	return ctx.Status(http.StatusOK).JSON(fiber.Map{
		"authenticated": true,
		"user":          name,
	})
}

func (h *UserHandler) GetStats(ctx *fiber.Ctx) error {
	name, _, _, err := h.Auth.CheckSession(ctx)
	if err != nil {
		h.Logger.Exception(fmt.Sprintf("GetStats(): error checking for session: %v", err))
		return ctx.SendStatus(http.StatusInternalServerError)
	}

	if name == "" {
		h.Logger.Exception("GetStats(): session doesn't exist: user is not logged in")
		return ctx.SendStatus(http.StatusUnauthorized)
	}

	data, err := h.User.GetStats(name)
	if err != nil {
		h.Logger.Exception(fmt.Sprintf("GetStats() error fetching stats: %v", err))
		return ctx.SendStatus(http.StatusInternalServerError)
	}

	return ctx.Status(http.StatusOK).JSON(data)
}

func (h *UserHandler) ServerStats(ctx *fiber.Ctx) error {
	br := model.BaseResponse{
		Error:   true,
		Message: "can't get data",
	}

	data, err := h.User.GetServerStats()
	if err != nil {
		h.Logger.Exception(fmt.Sprintf("ServerStats() error fetching stats: %v", err))
		return ctx.Status(http.StatusInternalServerError).JSON(br)
	}

	type response struct {
		model.BaseResponse
		Data model.ServerStatsAPI `json:"data"`
	}

	return ctx.Status(fiber.StatusOK).JSON(response{
		BaseResponse: model.BaseResponse{},
		Data:         *data,
	})
}

func (h *UserHandler) CheckPrivilege(ctx *fiber.Ctx) error {
	br := model.BaseResponse{
		Error:   true,
		Message: "you are not authenticated",
	}

	name, isGM, isAdmin, err := h.Auth.CheckSession(ctx)
	if err != nil {
		h.Logger.Exception(fmt.Sprintf("CheckPrivilege(): error checking for session: %v", err))
		return ctx.Status(http.StatusInternalServerError).JSON(br)
	}

	if name == "" {
		h.Logger.Exception("CheckPrivilege(): invalid session: user is not logged in")
		return ctx.Status(http.StatusOK).JSON(br)
	}

	if !isGM && !isAdmin {
		h.Logger.Exception("CheckPrivilege(): invalid session: user doesn't have elevated rights")
		return ctx.Status(http.StatusOK).JSON(br)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"user":     name,
		"is_gm":    isGM,
		"is_admin": isAdmin,
	})
}

func (h *UserHandler) CreateCharacter(ctx *fiber.Ctx) error {
	br := model.BaseResponse{
		Error:   true,
		Message: "An internal error occurred.",
	}

	name, _, _, err := h.Auth.CheckSession(ctx)
	if err != nil {
		h.Logger.Exception(fmt.Sprintf("CreateCharacter(): error checking for session: %v", err))
		return ctx.Status(http.StatusInternalServerError).JSON(br)
	}

	if name == "" {
		h.Logger.Exception("CreateCharacter(): session doesn't exist: user is not logged in")
		return ctx.Status(http.StatusUnauthorized).JSON(br)
	}

	var createChar model.NewCharacterAPI
	if err = ctx.BodyParser(&createChar); err != nil {
		h.Logger.Exception(fmt.Sprintf("CreateCharacter(): error parsing body request: %v", err))
		return ctx.Status(http.StatusUnprocessableEntity).JSON(br)
	}

	if err = createChar.Validate(); err != nil {
		h.Logger.Exception("CreateCharacter(): error validating character data")
		br.Message = err.Error()
		return ctx.Status(http.StatusUnprocessableEntity).JSON(br)
	}

	createChar.Username = name
	if err = h.Char.Create(&createChar); err != nil {
		h.Logger.Exception(fmt.Sprintf("CreateCharacter(): error creating character: %v", err))
		br.Message = "The character could not be created."
		return ctx.Status(http.StatusConflict).JSON(br)
	}

	return ctx.Status(http.StatusCreated).JSON(model.BaseResponse{
		Error:   false,
		Message: "",
	})
}

func (h *UserHandler) DeleteCharacter(ctx *fiber.Ctx) error {
	br := model.BaseResponse{
		Error:   true,
		Message: "The character could not be deleted.",
	}

	name, _, _, err := h.Auth.CheckSession(ctx)
	if err != nil {
		h.Logger.Exception(fmt.Sprintf("DeleteCharacter(): error checking for session: %v", err))
		return ctx.Status(http.StatusInternalServerError).JSON(br)
	}

	if name == "" {
		h.Logger.Exception("DeleteCharacter(): session doesn't exist: user is not logged in")
		return ctx.Status(http.StatusUnauthorized).JSON(br)
	}

	characterName := ctx.Query("name")
	if characterName == "" {
		br.Message = "The character name is required."
		return ctx.Status(http.StatusUnprocessableEntity).JSON(br)
	}

	if err = h.Char.Delete(name, characterName); err != nil {
		h.Logger.Exception(fmt.Sprintf("DeleteCharacter(): error deleting character: %v", err))
		return ctx.Status(http.StatusNotFound).JSON(br)
	}

	return ctx.Status(http.StatusOK).JSON(model.BaseResponse{
		Error:   false,
		Message: "",
	})
}

func (h *UserHandler) Ban(ctx *fiber.Ctx) error {
	br := model.BaseResponse{
		Error:   true,
		Message: "The player could not be banned.",
	}

	name, _, isAdmin, err := h.Auth.CheckSession(ctx)
	if err != nil {
		h.Logger.Exception(fmt.Sprintf("Ban(): error checking for session: %v", err))
		return ctx.Status(http.StatusInternalServerError).JSON(br)
	}

	if name == "" {
		h.Logger.Exception("Ban(): session doesn't exist: user is not logged in")
		return ctx.Status(http.StatusUnauthorized).JSON(br)
	}

	if !isAdmin {
		h.Logger.Exception(fmt.Sprintf("Ban(): user %s doesn't have admin rights", name))
		return ctx.Status(http.StatusUnauthorized).JSON(br)
	}

	var data model.BanAPI
	if err = ctx.BodyParser(&data); err != nil {
		h.Logger.Exception(fmt.Sprintf("Ban(): error parsing body request: %v", err))
		return ctx.Status(http.StatusUnprocessableEntity).JSON(br)
	}

	if err = data.Validate(); err != nil {
		br.Message = err.Error()
		return ctx.Status(http.StatusUnprocessableEntity).JSON(br)
	}

	if errBan := h.User.Ban(&data); errBan != nil {
		h.Logger.Exception(fmt.Sprintf("Ban(): error banning character: %v", errBan))
		return ctx.Status(http.StatusNotFound).JSON(br)
	}

	return ctx.Status(http.StatusOK).JSON(model.BaseResponse{
		Error:   false,
		Message: "",
	})
}

func (h *UserHandler) Unban(ctx *fiber.Ctx) error {
	br := model.BaseResponse{
		Error:   true,
		Message: "The player could not be unbanned.",
	}

	name, _, isAdmin, err := h.Auth.CheckSession(ctx)
	if err != nil {
		h.Logger.Exception(fmt.Sprintf("Unban(): error checking for session: %v", err))
		return ctx.Status(http.StatusInternalServerError).JSON(br)
	}

	if name == "" {
		h.Logger.Exception("Unban(): session doesn't exist: user is not logged in")
		return ctx.Status(http.StatusUnauthorized).JSON(br)
	}

	if !isAdmin {
		h.Logger.Exception(fmt.Sprintf("Unban(): user %s doesn't have admin rights", name))
		return ctx.Status(http.StatusUnauthorized).JSON(br)
	}

	var data model.BanAPI
	if err = ctx.BodyParser(&data); err != nil {
		h.Logger.Exception(fmt.Sprintf("Unban(): error parsing body request: %v", err))
		return ctx.Status(http.StatusUnprocessableEntity).JSON(br)
	}

	if data.CharacterID <= 0 {
		h.Logger.Exception("Unban(): invalid character id")
		return ctx.Status(http.StatusUnprocessableEntity).JSON(br)
	}

	if errUnban := h.User.Unban(&data); errUnban != nil {
		h.Logger.Exception(fmt.Sprintf("Unban(): error unbanning character: %v", errUnban))
		return ctx.Status(http.StatusNotFound).JSON(br)
	}

	return ctx.Status(http.StatusOK).JSON(model.BaseResponse{
		Error:   false,
		Message: "",
	})
}
