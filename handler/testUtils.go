package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"

	"emberveil_backend/model"
	"emberveil_backend/repository"
	"emberveil_backend/service"
)

const (
	testUsername = "testuser"
	testEmail    = "test@test.com"
	testPassword = "test1234"
)

func testRepository(t *testing.T) *repository.Storage {
	t.Helper()

	storage, errRepo := repository.New(repository.DriverSQLite, ":memory:")
	if errRepo != nil {
		t.Fatalf("Error creating test repository: %v", errRepo)
		return nil
	}
	t.Cleanup(func() {
		storage.Close()
	})

	if err := storage.CreateSchema(); err != nil {
		t.Fatalf("Error creating test schema: %v", err)
		return nil
	}

	return storage
}

func testServer(us service.UserServiceInterface, as *service.MockAuthService, es *service.MockEmailService, cs service.CharacterServiceInterface, ls *service.MockLoggerService) *fiber.App {
	handler := New(us, cs, as, ls, es)

	app := fiber.New()

	app.Post("/register", func(ctx *fiber.Ctx) error {
		return handler.Register(ctx)
	})

	app.Get("/confirm", func(ctx *fiber.Ctx) error {
		return handler.Confirm(ctx)
	})

	app.Post("/login", func(ctx *fiber.Ctx) error {
		return handler.Login(ctx)
	})

	app.Post("/logout", func(ctx *fiber.Ctx) error {
		return handler.Logout(ctx)
	})

	app.Get("/check-auth", func(ctx *fiber.Ctx) error {
		return handler.CheckAuth(ctx)
	})

	app.Get("/get-data", func(ctx *fiber.Ctx) error {
		return handler.GetStats(ctx)
	})

	app.Get("/server-stats", func(ctx *fiber.Ctx) error {
		return handler.ServerStats(ctx)
	})

	app.Post("/create-character", func(ctx *fiber.Ctx) error {
		return handler.CreateCharacter(ctx)
	})

	app.Post("/delete-character", func(ctx *fiber.Ctx) error {
		return handler.DeleteCharacter(ctx)
	})

	restricted := app.Group("restricted")
	{
		restricted.Get("/check", func(ctx *fiber.Ctx) error {
			return handler.CheckPrivilege(ctx)
		})

		restricted.Post("/ban", func(ctx *fiber.Ctx) error {
			return handler.Ban(ctx)
		})

		restricted.Post("/unban", func(ctx *fiber.Ctx) error {
			return handler.Unban(ctx)
		})
	}

	return app
}

func registerAccount(t *testing.T, app *fiber.App) {
	t.Helper()

	resp := testSendRequest(t, app, http.MethodPost, "/register", model.RegisterAPI{
		Username: testUsername,
		Email:    testEmail,
		Password: testPassword,
	})

	assert.Equal(t, http.StatusCreated, resp.StatusCode, "Unexpected response HTTP status")
}

func registerAndConfirmAccount(t *testing.T, app *fiber.App) {
	t.Helper()

	registerAccount(t, app)

	ts := time.Now().Unix()
	target := fmt.Sprintf("/confirm?email=%s&token=%s&timestamp=%d", testEmail, service.GenerateToken(testEmail, ts), ts)
	resp := testSendRequest(t, app, http.MethodGet, target, nil)
	assert.Equal(t, http.StatusFound, resp.StatusCode, "Unexpected response HTTP status")
}

func testCharacterData() *model.NewCharacterAPI {
	return &model.NewCharacterAPI{
		Name:       "Aria",
		Gender:     0,
		HairStyle:  2,
		HairColor:  5,
		Attributes: []int{10, 10, 10, 10, 10, 10},
	}
}

func createCharacter(t *testing.T, app *fiber.App) {
	t.Helper()

	resp := testSendRequest(t, app, http.MethodPost, "/create-character", testCharacterData())
	assert.Equal(t, http.StatusCreated, resp.StatusCode, "Unexpected response HTTP status")
}

func testSendRequest(t *testing.T, app *fiber.App, method, target string, body interface{}) *http.Response {
	t.Helper()

	var err error
	var bodyBytes []byte
	if body != nil {
		bodyBytes, err = json.Marshal(body)
		if err != nil {
			t.Fatalf("Error marshalling test body %v: %v", body, err)
		}
	}

	req := httptest.NewRequest(method, target, bytes.NewReader(bodyBytes))
	req.Header.Set("Content-Type", "application/json")

	var resp *http.Response
	resp, err = app.Test(req, -1)
	if err != nil {
		t.Fatalf("Error sending test request for %s with body %s: %v", target, body, err)
	}

	return resp
}
