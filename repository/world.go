package repository

import (
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"emberveil_backend/model"
)

// WorldStateGlobal selects world state variables that belong to no map.
const WorldStateGlobal = -1

func (s *Storage) AddGuild(name string) (*model.Guild, error) {
	existsQuery := "SELECT COUNT(*) FROM guilds WHERE name = ?"
	exists, err := s.valueExists(existsQuery, name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("guild %s: %w", name, model.ErrAlreadyExists)
	}

	guild := &model.Guild{Name: name}
	err = s.WithUnitOfWork(func(q sqlx.Ext) error {
		id, errTx := s.insertID(q, "INSERT INTO guilds (name) VALUES (?)", name)
		if errTx != nil {
			return fmt.Errorf("storage: add guild: %w", errTx)
		}
		guild.ID = id
		return nil
	})
	if err != nil {
		return nil, err
	}
	return guild, nil
}

func (s *Storage) RemoveGuild(guildID int) error {
	return s.WithUnitOfWork(func(q sqlx.Ext) error {
		if _, err := q.Exec(s.rebind("DELETE FROM guild_members WHERE guild_id = ?"), guildID); err != nil {
			return fmt.Errorf("storage: remove guild: %w", err)
		}
		if _, err := q.Exec(s.rebind("DELETE FROM guilds WHERE id = ?"), guildID); err != nil {
			return fmt.Errorf("storage: remove guild: %w", err)
		}
		return nil
	})
}

func (s *Storage) AddGuildMember(guildID, characterID int) error {
	query := "INSERT INTO guild_members (guild_id, member_id, rights) VALUES (?, ?, 0)"
	if _, err := s.DB.Exec(s.rebind(query), guildID, characterID); err != nil {
		return fmt.Errorf("storage: add guild member: %w", err)
	}
	return nil
}

func (s *Storage) RemoveGuildMember(guildID, characterID int) error {
	query := "DELETE FROM guild_members WHERE guild_id = ? AND member_id = ?"
	if _, err := s.DB.Exec(s.rebind(query), guildID, characterID); err != nil {
		return fmt.Errorf("storage: remove guild member: %w", err)
	}
	return nil
}

func (s *Storage) SetMemberRights(guildID, characterID, rights int) error {
	query := "UPDATE guild_members SET rights = ? WHERE guild_id = ? AND member_id = ?"
	if _, err := s.DB.Exec(s.rebind(query), rights, guildID, characterID); err != nil {
		return fmt.Errorf("storage: set member rights: %w", err)
	}
	return nil
}

// GetGuildList returns every guild with its member roster.
func (s *Storage) GetGuildList() ([]*model.Guild, error) {
	var rows []GuildDB
	if err := s.selectAll(&rows, "SELECT id, name FROM guilds ORDER BY id"); err != nil {
		return nil, err
	}

	guilds := make([]*model.Guild, 0, len(rows))
	for _, row := range rows {
		guild := &model.Guild{ID: row.ID, Name: row.Name}

		var members []GuildMemberDB
		query := "SELECT guild_id, member_id, rights FROM guild_members WHERE guild_id = ? ORDER BY member_id"
		if err := s.selectAll(&members, query, row.ID); err != nil {
			return nil, err
		}
		for _, member := range members {
			guild.Members = append(guild.Members, model.GuildMember{
				CharacterID: member.CharacterID,
				Rights:      member.Rights,
			})
		}
		guilds = append(guilds, guild)
	}
	return guilds, nil
}

// GetQuestVar returns the empty string for variables never set; quest
// scripts treat missing and empty the same way.
func (s *Storage) GetQuestVar(characterID int, name string) (string, error) {
	var row QuestVarDB
	query := "SELECT owner_id, name, value FROM quests WHERE owner_id = ? AND name = ?"
	err := s.get(&row, query, characterID, name)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return "", nil
		}
		return "", err
	}
	return row.Value, nil
}

// SetQuestVar upserts by delete-and-insert, the one idiom all three engines
// share.
func (s *Storage) SetQuestVar(characterID int, name, value string) error {
	return s.WithUnitOfWork(func(q sqlx.Ext) error {
		if _, err := q.Exec(s.rebind("DELETE FROM quests WHERE owner_id = ? AND name = ?"), characterID, name); err != nil {
			return fmt.Errorf("storage: set quest var: %w", err)
		}
		if _, err := q.Exec(s.rebind("INSERT INTO quests (owner_id, name, value) VALUES (?, ?, ?)"), characterID, name, value); err != nil {
			return fmt.Errorf("storage: set quest var: %w", err)
		}
		return nil
	})
}

// GetWorldStateVar reads a per-map variable; pass WorldStateGlobal for
// variables that belong to the whole world.
func (s *Storage) GetWorldStateVar(name string, mapID int) (string, error) {
	var row WorldStateDB
	query := "SELECT state_name, map_id, value, moddate FROM world_states WHERE state_name = ? AND map_id = ?"
	err := s.get(&row, query, name, mapID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return "", nil
		}
		return "", err
	}
	return row.Value, nil
}

func (s *Storage) SetWorldStateVar(name string, mapID int, value string) error {
	return s.WithUnitOfWork(func(q sqlx.Ext) error {
		if _, err := q.Exec(s.rebind("DELETE FROM world_states WHERE state_name = ? AND map_id = ?"), name, mapID); err != nil {
			return fmt.Errorf("storage: set world state: %w", err)
		}
		query := "INSERT INTO world_states (state_name, map_id, value, moddate) VALUES (?, ?, ?, ?)"
		if _, err := q.Exec(s.rebind(query), name, mapID, value, time.Now().Unix()); err != nil {
			return fmt.Errorf("storage: set world state: %w", err)
		}
		return nil
	})
}

// StoreLetter persists the letter and its attachments and fills in the
// generated id.
func (s *Storage) StoreLetter(letter *model.Letter) error {
	insertQuery := `INSERT INTO post (letter_type, sender_id, receiver_id, sending_date, expiration_date, letter_text)
		VALUES (?, ?, ?, ?, ?, ?)`

	return s.WithUnitOfWork(func(q sqlx.Ext) error {
		id, err := s.insertID(q, insertQuery,
			letter.Type, letter.SenderID, letter.ReceiverID,
			letter.SentDate, letter.ExpiryDate, letter.Contents)
		if err != nil {
			return fmt.Errorf("storage: store letter: %w", err)
		}
		letter.ID = id

		attachQuery := s.rebind("INSERT INTO post_attachments (letter_id, item_id) VALUES (?, ?)")
		for _, itemID := range letter.Attachments {
			if _, err := q.Exec(attachQuery, id, itemID); err != nil {
				return fmt.Errorf("storage: store letter attachment: %w", err)
			}
		}
		return nil
	})
}

// GetStoredPost returns every letter addressed to the character, oldest
// first, attachments included.
func (s *Storage) GetStoredPost(receiverID int) (*model.Post, error) {
	var rows []LetterDB
	query := `SELECT id, letter_type, sender_id, receiver_id, sending_date, expiration_date, letter_text
		FROM post WHERE receiver_id = ? ORDER BY sending_date, id`
	if err := s.selectAll(&rows, query, receiverID); err != nil {
		return nil, err
	}

	post := &model.Post{}
	for _, row := range rows {
		letter := &model.Letter{
			ID:         row.ID,
			Type:       row.Type,
			SenderID:   row.SenderID,
			ReceiverID: row.ReceiverID,
			SentDate:   row.SentDate,
			ExpiryDate: row.ExpiryDate,
			Contents:   row.Contents,
		}
		if err := s.selectAll(&letter.Attachments, "SELECT item_id FROM post_attachments WHERE letter_id = ?", row.ID); err != nil {
			return nil, err
		}
		post.Letters = append(post.Letters, letter)
	}
	return post, nil
}

func (s *Storage) AddAuctionItem(characterID, itemID, startPrice int) (int, error) {
	insertQuery := `INSERT INTO auctions (state, char_id, itemclass_id, start_time, start_price)
		VALUES (0, ?, ?, ?, ?)`

	var auctionID int
	err := s.WithUnitOfWork(func(q sqlx.Ext) error {
		id, errTx := s.insertID(q, insertQuery, characterID, itemID, time.Now().Unix(), startPrice)
		if errTx != nil {
			return fmt.Errorf("storage: add auction: %w", errTx)
		}
		auctionID = id
		return nil
	})
	if err != nil {
		return 0, err
	}
	return auctionID, nil
}

// GetAuctions lists the auctions a character has opened, oldest first.
func (s *Storage) GetAuctions(characterID int) ([]AuctionDB, error) {
	var rows []AuctionDB
	query := `SELECT id, state, char_id, itemclass_id, start_time, start_price
		FROM auctions WHERE char_id = ? ORDER BY id`
	if err := s.selectAll(&rows, query, characterID); err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *Storage) AddAuctionBid(auctionID, characterID, price int) error {
	query := "INSERT INTO auction_bids (auction_id, char_id, bid_time, bid_price) VALUES (?, ?, ?, ?)"
	if _, err := s.DB.Exec(s.rebind(query), auctionID, characterID, time.Now().Unix(), price); err != nil {
		return fmt.Errorf("storage: add auction bid: %w", err)
	}
	return nil
}

// LogTransaction appends an audit row; failures here never abort the action
// being logged, so callers only log the error.
func (s *Storage) LogTransaction(characterID, action int, message string) error {
	query := "INSERT INTO transactions_log (char_id, action, message, time) VALUES (?, ?, ?, ?)"
	if _, err := s.DB.Exec(s.rebind(query), characterID, action, message, time.Now().Unix()); err != nil {
		return fmt.Errorf("storage: log transaction: %w", err)
	}
	return nil
}

// GetTransactionLog returns the character's audit rows in the order they
// were written.
func (s *Storage) GetTransactionLog(characterID int) ([]TransactionLogDB, error) {
	var rows []TransactionLogDB
	query := "SELECT id, char_id, action, message, time FROM transactions_log WHERE char_id = ? ORDER BY id"
	if err := s.selectAll(&rows, query, characterID); err != nil {
		return nil, err
	}
	return rows, nil
}
