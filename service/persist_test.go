package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"emberveil_backend/game"
	"emberveil_backend/model"
	"emberveil_backend/repository"
)

type nopLogger struct{}

func (nopLogger) Info(string)      {}
func (nopLogger) Warning(string)   {}
func (nopLogger) Exception(string) {}
func (nopLogger) Debug(string)     {}
func (nopLogger) Shutdown()        {}

func flushTestStorage(t *testing.T) *repository.Storage {
	t.Helper()

	storage, err := repository.New(repository.DriverSQLite, ":memory:")
	if err != nil {
		t.Fatalf("open storage: %v", err)
	}
	t.Cleanup(func() {
		storage.Close()
	})

	if err = storage.CreateSchema(); err != nil {
		t.Fatalf("create schema: %v", err)
	}
	return storage
}

func TestFlushWorkerAppliesJobsInOrder(t *testing.T) {
	storage := flushTestStorage(t)

	account := &repository.AccountDB{
		Username: "testuser",
		Password: "hash",
		Email:    "test@test.com",
		Level:    model.AccountLevelPlayer,
	}
	assert.NoError(t, storage.AddAccount(account))

	c := game.NewCharacter("Aria", map[int]int{
		game.AttrStrength: 10,
		game.AttrVitality: 10,
	})
	c.AccountID = account.ID
	c.Update()

	data := c.Snapshot()
	assert.NoError(t, storage.AddCharacter(&data))

	worker := NewFlushWorker(storage, nopLogger{}, 16)
	for money := 1; money <= 50; money++ {
		snapshot := data
		snapshot.Money = money
		worker.Enqueue(snapshot)
	}
	worker.Shutdown()

	loaded, err := storage.GetCharacterByID(data.ID)
	assert.NoError(t, err)
	assert.Equal(t, 50, loaded.Money)
}

func TestFlushWorkerFlushSkill(t *testing.T) {
	storage := flushTestStorage(t)

	account := &repository.AccountDB{
		Username: "testuser",
		Password: "hash",
		Email:    "test@test.com",
		Level:    model.AccountLevelPlayer,
	}
	assert.NoError(t, storage.AddAccount(account))

	c := game.NewCharacter("Aria", map[int]int{game.AttrStrength: 10})
	c.AccountID = account.ID
	c.Update()

	data := c.Snapshot()
	assert.NoError(t, storage.AddCharacter(&data))

	worker := NewFlushWorker(storage, nopLogger{}, 4)
	defer worker.Shutdown()

	assert.NoError(t, worker.FlushSkill(data.ID, game.SkillWeaponSword, 400))

	loaded, err := storage.GetCharacterByID(data.ID)
	assert.NoError(t, err)
	assert.Equal(t, 400, loaded.Experience(game.SkillWeaponSword))
}
