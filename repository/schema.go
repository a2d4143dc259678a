package repository

import (
	"fmt"
	"strings"
)

// The schema below is written once with two dialect tokens: {{PK}} for the
// auto-increment primary key and nothing else. Column types stick to
// INTEGER/BIGINT/VARCHAR, which all three engines accept. Foreign keys are
// deliberately not declared: sqlite historically does not enforce them, so
// referential integrity (cascading deletes in particular) is emulated in the
// gateway methods and must not silently rely on the engine.
var schemaTables = []string{
	`CREATE TABLE IF NOT EXISTS accounts (
		id {{PK}},
		username VARCHAR(64) NOT NULL UNIQUE,
		password VARCHAR(128) NOT NULL,
		email VARCHAR(64) NOT NULL UNIQUE,
		level INTEGER NOT NULL,
		banned BIGINT NOT NULL DEFAULT 0,
		registration BIGINT NOT NULL DEFAULT 0,
		lastlogin BIGINT NOT NULL DEFAULT 0,
		activated INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS characters (
		id {{PK}},
		user_id INTEGER NOT NULL,
		name VARCHAR(32) NOT NULL UNIQUE,
		gender INTEGER NOT NULL DEFAULT 0,
		hair_style INTEGER NOT NULL DEFAULT 0,
		hair_color INTEGER NOT NULL DEFAULT 0,
		level INTEGER NOT NULL DEFAULT 1,
		char_pts INTEGER NOT NULL DEFAULT 0,
		correct_pts INTEGER NOT NULL DEFAULT 0,
		money INTEGER NOT NULL DEFAULT 0,
		map_id INTEGER NOT NULL DEFAULT 1,
		pos_x INTEGER NOT NULL DEFAULT 0,
		pos_y INTEGER NOT NULL DEFAULT 0,
		strength INTEGER NOT NULL DEFAULT 1,
		agility INTEGER NOT NULL DEFAULT 1,
		dexterity INTEGER NOT NULL DEFAULT 1,
		vitality INTEGER NOT NULL DEFAULT 1,
		intelligence INTEGER NOT NULL DEFAULT 1,
		willpower INTEGER NOT NULL DEFAULT 1
	)`,
	`CREATE TABLE IF NOT EXISTS char_skills (
		char_id INTEGER NOT NULL,
		skill_id INTEGER NOT NULL,
		skill_exp INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (char_id, skill_id)
	)`,
	`CREATE TABLE IF NOT EXISTS char_status_effects (
		char_id INTEGER NOT NULL,
		status_id INTEGER NOT NULL,
		status_ticks INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (char_id, status_id)
	)`,
	`CREATE TABLE IF NOT EXISTS inventories (
		owner_id INTEGER NOT NULL,
		slot INTEGER NOT NULL,
		class_id INTEGER NOT NULL,
		amount INTEGER NOT NULL DEFAULT 1,
		PRIMARY KEY (owner_id, slot)
	)`,
	`CREATE TABLE IF NOT EXISTS items (
		id {{PK}},
		name VARCHAR(64) NOT NULL,
		description VARCHAR(255) NOT NULL DEFAULT '',
		item_type INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS guilds (
		id {{PK}},
		name VARCHAR(32) NOT NULL UNIQUE
	)`,
	`CREATE TABLE IF NOT EXISTS guild_members (
		guild_id INTEGER NOT NULL,
		member_id INTEGER NOT NULL,
		rights INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (guild_id, member_id)
	)`,
	`CREATE TABLE IF NOT EXISTS quests (
		owner_id INTEGER NOT NULL,
		name VARCHAR(100) NOT NULL,
		value VARCHAR(200) NOT NULL,
		PRIMARY KEY (owner_id, name)
	)`,
	`CREATE TABLE IF NOT EXISTS world_states (
		state_name VARCHAR(100) NOT NULL,
		map_id INTEGER NOT NULL DEFAULT -1,
		value VARCHAR(255) NOT NULL,
		moddate BIGINT NOT NULL DEFAULT 0,
		PRIMARY KEY (state_name, map_id)
	)`,
	`CREATE TABLE IF NOT EXISTS post (
		id {{PK}},
		letter_type INTEGER NOT NULL DEFAULT 0,
		sender_id INTEGER NOT NULL,
		receiver_id INTEGER NOT NULL,
		sending_date BIGINT NOT NULL DEFAULT 0,
		expiration_date BIGINT NOT NULL DEFAULT 0,
		letter_text VARCHAR(255) NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS post_attachments (
		letter_id INTEGER NOT NULL,
		item_id INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS auctions (
		id {{PK}},
		state INTEGER NOT NULL DEFAULT 0,
		char_id INTEGER NOT NULL,
		itemclass_id INTEGER NOT NULL,
		start_time BIGINT NOT NULL DEFAULT 0,
		start_price INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS auction_bids (
		id {{PK}},
		auction_id INTEGER NOT NULL,
		char_id INTEGER NOT NULL,
		bid_time BIGINT NOT NULL DEFAULT 0,
		bid_price INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS online_list (
		char_id INTEGER NOT NULL PRIMARY KEY,
		login_date BIGINT NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS transactions_log (
		id {{PK}},
		char_id INTEGER NOT NULL,
		action INTEGER NOT NULL,
		message VARCHAR(255) NOT NULL DEFAULT '',
		time BIGINT NOT NULL DEFAULT 0
	)`,
}

// autoPK is the only piece of DDL the engines spell differently.
func (s *Storage) autoPK() string {
	switch s.driver {
	case DriverMySQL:
		return "INTEGER PRIMARY KEY AUTO_INCREMENT"
	case DriverPostgres:
		return "SERIAL PRIMARY KEY"
	default:
		return "INTEGER PRIMARY KEY AUTOINCREMENT"
	}
}

// CreateSchema creates any missing tables. Safe to run at every start.
func (s *Storage) CreateSchema() error {
	pk := s.autoPK()
	for _, table := range schemaTables {
		ddl := strings.ReplaceAll(table, "{{PK}}", pk)
		if _, err := s.DB.Exec(ddl); err != nil {
			return fmt.Errorf("storage: create schema: %w", err)
		}
	}
	return nil
}
