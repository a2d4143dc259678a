package repository

import (
	"errors"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"

	"emberveil_backend/game"
	"emberveil_backend/model"
)

func newTestStorage(t *testing.T) *Storage {
	t.Helper()

	storage, err := New(DriverSQLite, ":memory:")
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

func testAccount() *AccountDB {
	return &AccountDB{
		Username:     "testuser",
		Password:     "hashed-password",
		Email:        "test@test.com",
		Level:        model.AccountLevelPlayer,
		Registration: time.Now().Unix(),
	}
}

func TestAccountLifecycle(t *testing.T) {
	storage := newTestStorage(t)

	account := testAccount()
	err := storage.AddAccount(account)
	assert.NoError(t, err)
	assert.NotZero(t, account.ID)

	err = storage.AddAccount(testAccount())
	assert.ErrorIs(t, err, model.ErrAlreadyExists)

	fetched, err := storage.GetAccountByName("testuser")
	assert.NoError(t, err)
	assert.Equal(t, account.ID, fetched.ID)
	assert.Equal(t, "test@test.com", fetched.Email)
	assert.Equal(t, 0, fetched.Activated)

	_, err = storage.GetAccountByName("nobody")
	assert.ErrorIs(t, err, model.ErrNotFound)

	err = storage.ActivateAccount("test@test.com")
	assert.NoError(t, err)

	err = storage.ActivateAccount("test@test.com")
	assert.Error(t, err)

	err = storage.UpdatePassword("test@test.com", "new-hash")
	assert.NoError(t, err)

	err = storage.SetAccountLevel(account.ID, model.AccountLevelGM)
	assert.NoError(t, err)

	login := time.Now().Unix()
	err = storage.UpdateLastLogin(account.ID, time.Unix(login, 0))
	assert.NoError(t, err)

	fetched, err = storage.GetAccountByID(account.ID)
	assert.NoError(t, err)
	assert.Equal(t, 1, fetched.Activated)
	assert.Equal(t, "new-hash", fetched.Password)
	assert.Equal(t, model.AccountLevelGM, fetched.Level)
	assert.Equal(t, login, fetched.LastLogin)

	exists, err := storage.DoesUserNameExist("testuser")
	assert.NoError(t, err)
	assert.True(t, exists)

	exists, err = storage.DoesEmailAddressExist("other@test.com")
	assert.NoError(t, err)
	assert.False(t, exists)
}

func storedCharacter(t *testing.T, storage *Storage, accountID int, name string) game.CharacterData {
	t.Helper()

	c := game.NewCharacter(name, map[int]int{
		game.AttrStrength:     5,
		game.AttrAgility:      4,
		game.AttrDexterity:    3,
		game.AttrVitality:     6,
		game.AttrIntelligence: 2,
		game.AttrWillpower:    5,
	})
	c.AccountID = accountID
	c.MapID = 3
	c.PosX = 120
	c.PosY = 88
	c.Money = 250
	c.ReceiveExperience(game.SkillWeaponBow, 500)
	c.Update()
	c.ApplyStatusEffect(7, 12)
	c.SetInventory([]game.InventoryEntry{
		{Slot: 0, ItemID: 101, Amount: 1},
		{Slot: 1, ItemID: 220, Amount: 5},
	})

	data := c.Snapshot()
	if err := storage.AddCharacter(&data); err != nil {
		t.Fatalf("add character: %v", err)
	}
	return data
}

func TestCharacterRoundTrip(t *testing.T) {
	storage := newTestStorage(t)

	account := testAccount()
	assert.NoError(t, storage.AddAccount(account))

	stored := storedCharacter(t, storage, account.ID, "Aria")
	assert.NotZero(t, stored.ID)

	loaded, err := storage.GetCharacterByID(stored.ID)
	assert.NoError(t, err)
	assert.Equal(t, stored, loaded.Snapshot())

	byName, err := storage.GetCharacterByName("Aria")
	assert.NoError(t, err)
	assert.Equal(t, stored, byName.Snapshot())

	_, err = storage.GetCharacterByID(stored.ID + 100)
	assert.ErrorIs(t, err, model.ErrNotFound)

	fetched, err := storage.GetAccountByID(account.ID)
	assert.NoError(t, err)
	assert.Equal(t, []int{stored.ID}, fetched.Characters)

	exists, err := storage.DoesCharacterNameExist("Aria")
	assert.NoError(t, err)
	assert.True(t, exists)
}

func TestUnitOfWorkRollback(t *testing.T) {
	storage := newTestStorage(t)

	account := testAccount()
	assert.NoError(t, storage.AddAccount(account))
	stored := storedCharacter(t, storage, account.ID, "Aria")

	changed := stored
	changed.Money = 9999
	changed.Experience = map[int]int{game.SkillWeaponSword: 12345}
	changed.Inventory = nil

	errBoom := errors.New("boom")
	err := storage.WithUnitOfWork(func(q sqlx.Ext) error {
		if errTx := storage.UpdateCharacter(changed, q); errTx != nil {
			return errTx
		}
		return errBoom
	})
	assert.ErrorIs(t, err, errBoom)

	loaded, err := storage.GetCharacterByID(stored.ID)
	assert.NoError(t, err)
	assert.Equal(t, stored, loaded.Snapshot())
}

func TestUpdateCharacterCommit(t *testing.T) {
	storage := newTestStorage(t)

	account := testAccount()
	assert.NoError(t, storage.AddAccount(account))
	stored := storedCharacter(t, storage, account.ID, "Aria")

	changed := stored
	changed.Money = 9999

	assert.NoError(t, storage.UpdateCharacter(changed, nil))

	loaded, err := storage.GetCharacterByID(stored.ID)
	assert.NoError(t, err)
	assert.Equal(t, 9999, loaded.Money)
}

func TestUnitOfWorkLeavesOtherWritesAlone(t *testing.T) {
	storage := newTestStorage(t)

	account := testAccount()
	assert.NoError(t, storage.AddAccount(account))
	stored := storedCharacter(t, storage, account.ID, "Aria")

	// Acknowledged before the unit of work opens; its rollback must not
	// reach back and erase this.
	assert.NoError(t, storage.SetAccountLevel(account.ID, model.AccountLevelGM))

	changed := stored
	changed.Money = 1

	errBoom := errors.New("boom")
	err := storage.WithUnitOfWork(func(q sqlx.Ext) error {
		if errTx := storage.UpdateCharacter(changed, q); errTx != nil {
			return errTx
		}
		return errBoom
	})
	assert.ErrorIs(t, err, errBoom)

	fetched, err := storage.GetAccountByID(account.ID)
	assert.NoError(t, err)
	assert.Equal(t, model.AccountLevelGM, fetched.Level)

	loaded, err := storage.GetCharacterByID(stored.ID)
	assert.NoError(t, err)
	assert.Equal(t, stored.Money, loaded.Money)
}

func TestConcurrentWriteWhileUnitOfWorkOpen(t *testing.T) {
	storage := newTestStorage(t)

	account := testAccount()
	assert.NoError(t, storage.AddAccount(account))
	stored := storedCharacter(t, storage, account.ID, "Aria")

	changed := stored
	changed.Money = 777

	// A write from another goroutine waits for the connection at worst;
	// it must neither join the open unit of work nor block for good.
	done := make(chan error, 1)
	err := storage.WithUnitOfWork(func(q sqlx.Ext) error {
		go func() {
			done <- storage.SetQuestVar(stored.ID, "chapter", "3")
		}()
		return storage.UpdateCharacter(changed, q)
	})
	assert.NoError(t, err)
	assert.NoError(t, <-done)

	value, err := storage.GetQuestVar(stored.ID, "chapter")
	assert.NoError(t, err)
	assert.Equal(t, "3", value)

	loaded, err := storage.GetCharacterByID(stored.ID)
	assert.NoError(t, err)
	assert.Equal(t, 777, loaded.Money)
}

func TestSetPlayerLevel(t *testing.T) {
	storage := newTestStorage(t)

	account := testAccount()
	assert.NoError(t, storage.AddAccount(account))
	stored := storedCharacter(t, storage, account.ID, "Aria")

	assert.NoError(t, storage.SetPlayerLevel(stored.ID, 42))

	loaded, err := storage.GetCharacterByID(stored.ID)
	assert.NoError(t, err)
	assert.Equal(t, 42, loaded.Level())
}

func TestDelAccountCascades(t *testing.T) {
	storage := newTestStorage(t)

	account := testAccount()
	assert.NoError(t, storage.AddAccount(account))
	stored := storedCharacter(t, storage, account.ID, "Aria")

	assert.NoError(t, storage.SetQuestVar(stored.ID, "chapter", "2"))
	assert.NoError(t, storage.SetOnlineStatus(stored.ID, true))

	fetched, err := storage.GetAccountByID(account.ID)
	assert.NoError(t, err)
	assert.NoError(t, storage.DelAccount(fetched, nil))

	_, err = storage.GetAccountByID(account.ID)
	assert.ErrorIs(t, err, model.ErrNotFound)

	_, err = storage.GetCharacterByID(stored.ID)
	assert.ErrorIs(t, err, model.ErrNotFound)

	value, err := storage.GetQuestVar(stored.ID, "chapter")
	assert.NoError(t, err)
	assert.Equal(t, "", value)

	online, err := storage.GetOnlineCharacters()
	assert.NoError(t, err)
	assert.Empty(t, online)
}

func TestBanSweep(t *testing.T) {
	storage := newTestStorage(t)

	account := testAccount()
	assert.NoError(t, storage.AddAccount(account))
	stored := storedCharacter(t, storage, account.ID, "Aria")

	assert.NoError(t, storage.BanCharacter(stored.ID, 0))

	fetched, err := storage.GetAccountByID(account.ID)
	assert.NoError(t, err)
	assert.Equal(t, model.AccountLevelBanned, fetched.Level)
	assert.NotZero(t, fetched.Banned)

	assert.NoError(t, storage.CheckBannedAccounts())

	fetched, err = storage.GetAccountByID(account.ID)
	assert.NoError(t, err)
	assert.Equal(t, model.AccountLevelPlayer, fetched.Level)
	assert.Zero(t, fetched.Banned)
}

func TestFlushSkill(t *testing.T) {
	storage := newTestStorage(t)

	account := testAccount()
	assert.NoError(t, storage.AddAccount(account))
	stored := storedCharacter(t, storage, account.ID, "Aria")

	assert.NoError(t, storage.FlushSkill(stored.ID, game.SkillWeaponBow, 750))

	loaded, err := storage.GetCharacterByID(stored.ID)
	assert.NoError(t, err)
	assert.Equal(t, 750, loaded.Experience(game.SkillWeaponBow))

	assert.NoError(t, storage.FlushSkill(stored.ID, game.SkillWeaponBow, 0))

	loaded, err = storage.GetCharacterByID(stored.ID)
	assert.NoError(t, err)
	assert.Equal(t, 0, loaded.Experience(game.SkillWeaponBow))
}

func TestQuestAndWorldStateVars(t *testing.T) {
	storage := newTestStorage(t)

	value, err := storage.GetQuestVar(1, "chapter")
	assert.NoError(t, err)
	assert.Equal(t, "", value)

	assert.NoError(t, storage.SetQuestVar(1, "chapter", "2"))
	assert.NoError(t, storage.SetQuestVar(1, "chapter", "3"))

	value, err = storage.GetQuestVar(1, "chapter")
	assert.NoError(t, err)
	assert.Equal(t, "3", value)

	assert.NoError(t, storage.SetWorldStateVar("season", WorldStateGlobal, "winter"))
	assert.NoError(t, storage.SetWorldStateVar("season", 4, "spring"))

	value, err = storage.GetWorldStateVar("season", WorldStateGlobal)
	assert.NoError(t, err)
	assert.Equal(t, "winter", value)

	value, err = storage.GetWorldStateVar("season", 4)
	assert.NoError(t, err)
	assert.Equal(t, "spring", value)

	value, err = storage.GetWorldStateVar("season", 9)
	assert.NoError(t, err)
	assert.Equal(t, "", value)
}

func TestGuilds(t *testing.T) {
	storage := newTestStorage(t)

	guild, err := storage.AddGuild("Emberveil Watch")
	assert.NoError(t, err)
	assert.NotZero(t, guild.ID)

	_, err = storage.AddGuild("Emberveil Watch")
	assert.ErrorIs(t, err, model.ErrAlreadyExists)

	assert.NoError(t, storage.AddGuildMember(guild.ID, 10))
	assert.NoError(t, storage.AddGuildMember(guild.ID, 11))
	assert.NoError(t, storage.SetMemberRights(guild.ID, 10, 255))

	guilds, err := storage.GetGuildList()
	assert.NoError(t, err)
	assert.Len(t, guilds, 1)
	assert.Equal(t, []model.GuildMember{
		{CharacterID: 10, Rights: 255},
		{CharacterID: 11, Rights: 0},
	}, guilds[0].Members)

	assert.NoError(t, storage.RemoveGuildMember(guild.ID, 11))
	assert.NoError(t, storage.RemoveGuild(guild.ID))

	guilds, err = storage.GetGuildList()
	assert.NoError(t, err)
	assert.Empty(t, guilds)
}

func TestStoredPost(t *testing.T) {
	storage := newTestStorage(t)

	first := &model.Letter{
		SenderID:    1,
		ReceiverID:  2,
		SentDate:    100,
		Contents:    "older letter",
		Attachments: []int{301, 302},
	}
	second := &model.Letter{
		SenderID:   3,
		ReceiverID: 2,
		SentDate:   200,
		Contents:   "newer letter",
	}
	assert.NoError(t, storage.StoreLetter(second))
	assert.NoError(t, storage.StoreLetter(first))

	post, err := storage.GetStoredPost(2)
	assert.NoError(t, err)
	assert.Len(t, post.Letters, 2)
	assert.Equal(t, "older letter", post.Letters[0].Contents)
	assert.Equal(t, []int{301, 302}, post.Letters[0].Attachments)
	assert.Equal(t, "newer letter", post.Letters[1].Contents)
	assert.Empty(t, post.Letters[1].Attachments)

	empty, err := storage.GetStoredPost(99)
	assert.NoError(t, err)
	assert.Empty(t, empty.Letters)
}

func TestOnlineList(t *testing.T) {
	storage := newTestStorage(t)

	assert.NoError(t, storage.SetOnlineStatus(5, true))
	assert.NoError(t, storage.SetOnlineStatus(9, true))
	assert.NoError(t, storage.SetOnlineStatus(5, true))

	online, err := storage.GetOnlineCharacters()
	assert.NoError(t, err)
	assert.Equal(t, []int{5, 9}, online)

	assert.NoError(t, storage.SetOnlineStatus(5, false))

	online, err = storage.GetOnlineCharacters()
	assert.NoError(t, err)
	assert.Equal(t, []int{9}, online)

	assert.NoError(t, storage.ClearOnlineList())

	online, err = storage.GetOnlineCharacters()
	assert.NoError(t, err)
	assert.Empty(t, online)
}

func TestAuctionsAndTransactionLog(t *testing.T) {
	storage := newTestStorage(t)

	auctionID, err := storage.AddAuctionItem(5, 101, 2000)
	assert.NoError(t, err)
	assert.NotZero(t, auctionID)

	assert.NoError(t, storage.AddAuctionBid(auctionID, 9, 2100))
	assert.NoError(t, storage.LogTransaction(5, model.TransactionBan, "auction opened"))
	assert.NoError(t, storage.LogTransaction(5, model.TransactionUnban, "auction closed"))

	auctions, err := storage.GetAuctions(5)
	assert.NoError(t, err)
	assert.Len(t, auctions, 1)
	assert.Equal(t, auctionID, auctions[0].ID)
	assert.Equal(t, 101, auctions[0].ItemID)
	assert.Equal(t, 2000, auctions[0].StartPrice)

	log, err := storage.GetTransactionLog(5)
	assert.NoError(t, err)
	assert.Len(t, log, 2)
	assert.Equal(t, model.TransactionBan, log[0].Action)
	assert.Equal(t, "auction opened", log[0].Message)
	assert.Equal(t, model.TransactionUnban, log[1].Action)

	empty, err := storage.GetTransactionLog(9)
	assert.NoError(t, err)
	assert.Empty(t, empty)
}
