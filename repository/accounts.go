package repository

import (
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"emberveil_backend/model"
)

func (s *Storage) loadAccountCharacters(account *AccountDB) error {
	query := "SELECT id FROM characters WHERE user_id = ? ORDER BY id"
	if err := s.selectAll(&account.Characters, query, account.ID); err != nil {
		return err
	}
	return nil
}

// GetAccountByName returns the account and its owned character ids.
func (s *Storage) GetAccountByName(username string) (*AccountDB, error) {
	var account AccountDB
	query := "SELECT id, username, password, email, level, banned, registration, lastlogin, activated FROM accounts WHERE username = ?"
	if err := s.get(&account, query, username); err != nil {
		return nil, err
	}
	if err := s.loadAccountCharacters(&account); err != nil {
		return nil, err
	}
	return &account, nil
}

func (s *Storage) GetAccountByID(id int) (*AccountDB, error) {
	var account AccountDB
	query := "SELECT id, username, password, email, level, banned, registration, lastlogin, activated FROM accounts WHERE id = ?"
	if err := s.get(&account, query, id); err != nil {
		return nil, err
	}
	if err := s.loadAccountCharacters(&account); err != nil {
		return nil, err
	}
	return &account, nil
}

// AddAccount inserts a new account after re-checking uniqueness, and fills
// in the generated id.
func (s *Storage) AddAccount(account *AccountDB) error {
	existsQuery := "SELECT COUNT(*) FROM accounts WHERE username = ? OR email = ?"
	exists, err := s.valueExists(existsQuery, account.Username, account.Email)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("account %s: %w", account.Username, model.ErrAlreadyExists)
	}

	insertQuery := `INSERT INTO accounts (username, password, email, level, banned, registration, lastlogin, activated)
		VALUES (?, ?, ?, ?, 0, ?, ?, 0)`

	return s.WithUnitOfWork(func(q sqlx.Ext) error {
		id, errTx := s.insertID(q, insertQuery,
			account.Username, account.Password, account.Email,
			account.Level, account.Registration, account.LastLogin)
		if errTx != nil {
			return fmt.Errorf("storage: add account: %w", errTx)
		}
		account.ID = id
		return nil
	})
}

// DelAccount removes the account and everything reachable from it. The
// cascade to characters runs inside the same unit of work; sqlite would not
// enforce it for us. Pass a q from WithUnitOfWork to join a larger group,
// nil to run standalone.
func (s *Storage) DelAccount(account *AccountDB, q sqlx.Ext) error {
	return s.inUnitOfWork(q, func(q sqlx.Ext) error {
		for _, charID := range account.Characters {
			if err := s.delCharacterTx(q, charID); err != nil {
				return err
			}
		}
		if _, err := q.Exec(s.rebind("DELETE FROM accounts WHERE id = ?"), account.ID); err != nil {
			return fmt.Errorf("storage: del account: %w", err)
		}
		return nil
	})
}

func (s *Storage) UpdateLastLogin(accountID int, when time.Time) error {
	query := "UPDATE accounts SET lastlogin = ? WHERE id = ?"
	if _, err := s.DB.Exec(s.rebind(query), when.Unix(), accountID); err != nil {
		return fmt.Errorf("storage: update last login: %w", err)
	}
	return nil
}

func (s *Storage) SetAccountLevel(accountID, level int) error {
	query := "UPDATE accounts SET level = ? WHERE id = ?"
	if _, err := s.DB.Exec(s.rebind(query), level, accountID); err != nil {
		return fmt.Errorf("storage: set account level: %w", err)
	}
	return nil
}

func (s *Storage) ActivateAccount(email string) error {
	return s.WithUnitOfWork(func(q sqlx.Ext) error {
		result, err := q.Exec(s.rebind("UPDATE accounts SET activated = 1 WHERE email = ? AND activated = 0"), email)
		if err != nil {
			return fmt.Errorf("storage: activate account: %w", err)
		}
		rows, err := result.RowsAffected()
		if err != nil || rows == 0 {
			return errors.New("no rows affected, expected one")
		}
		return nil
	})
}

func (s *Storage) UpdatePassword(email, password string) error {
	return s.WithUnitOfWork(func(q sqlx.Ext) error {
		result, err := q.Exec(s.rebind("UPDATE accounts SET password = ? WHERE email = ?"), password, email)
		if err != nil {
			return fmt.Errorf("storage: update password: %w", err)
		}
		rows, err := result.RowsAffected()
		if err != nil || rows == 0 {
			return errors.New("no rows affected, expected one")
		}
		return nil
	})
}

// BanCharacter bans the account owning the character for the given number
// of minutes. The account level flips to banned and the expiry lands in the
// banned column, both in one unit of work.
func (s *Storage) BanCharacter(characterID, durationMinutes int) error {
	var accountID int
	if err := s.get(&accountID, "SELECT user_id FROM characters WHERE id = ?", characterID); err != nil {
		return err
	}

	expiry := time.Now().Add(time.Duration(durationMinutes) * time.Minute).Unix()

	return s.WithUnitOfWork(func(q sqlx.Ext) error {
		query := "UPDATE accounts SET level = ?, banned = ? WHERE id = ?"
		if _, err := q.Exec(s.rebind(query), model.AccountLevelBanned, expiry, accountID); err != nil {
			return fmt.Errorf("storage: ban character: %w", err)
		}
		return nil
	})
}

// UnbanCharacter lifts the ban from the account owning the character
// regardless of the expiry that was set.
func (s *Storage) UnbanCharacter(characterID int) error {
	var accountID int
	if err := s.get(&accountID, "SELECT user_id FROM characters WHERE id = ?", characterID); err != nil {
		return err
	}

	query := "UPDATE accounts SET level = ?, banned = 0 WHERE id = ? AND level = ?"
	if _, err := s.DB.Exec(s.rebind(query), model.AccountLevelPlayer, accountID, model.AccountLevelBanned); err != nil {
		return fmt.Errorf("storage: unban character: %w", err)
	}
	return nil
}

// CheckBannedAccounts lifts every expired ban in one statement; the caller
// schedules the sweep.
func (s *Storage) CheckBannedAccounts() error {
	query := "UPDATE accounts SET level = ?, banned = 0 WHERE level = ? AND banned <= ?"
	now := time.Now().Unix()
	if _, err := s.DB.Exec(s.rebind(query), model.AccountLevelPlayer, model.AccountLevelBanned, now); err != nil {
		return fmt.Errorf("storage: ban sweep: %w", err)
	}
	return nil
}

func (s *Storage) CountAccounts() (int, error) {
	var count int
	if err := s.get(&count, "SELECT COUNT(*) FROM accounts"); err != nil {
		return 0, err
	}
	return count, nil
}

func (s *Storage) CountCharacters() (int, error) {
	var count int
	if err := s.get(&count, "SELECT COUNT(*) FROM characters"); err != nil {
		return 0, err
	}
	return count, nil
}

func (s *Storage) CountGuilds() (int, error) {
	var count int
	if err := s.get(&count, "SELECT COUNT(*) FROM guilds"); err != nil {
		return 0, err
	}
	return count, nil
}

func (s *Storage) DoesUserNameExist(name string) (bool, error) {
	return s.valueExists("SELECT COUNT(*) FROM accounts WHERE username = ?", name)
}

func (s *Storage) DoesEmailAddressExist(email string) (bool, error) {
	return s.valueExists("SELECT COUNT(*) FROM accounts WHERE email = ?", email)
}

func (s *Storage) DoesCharacterNameExist(name string) (bool, error) {
	return s.valueExists("SELECT COUNT(*) FROM characters WHERE name = ?", name)
}
