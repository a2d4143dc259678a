package repository

import (
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"emberveil_backend/game"
)

const characterColumns = `id, user_id, name, gender, hair_style, hair_color, level,
	char_pts, correct_pts, money, map_id, pos_x, pos_y,
	strength, agility, dexterity, vitality, intelligence, willpower`

func rowToData(row CharacterDB) game.CharacterData {
	return game.CharacterData{
		ID:               row.ID,
		AccountID:        row.AccountID,
		Name:             row.Name,
		Gender:           row.Gender,
		HairStyle:        row.HairStyle,
		HairColor:        row.HairColor,
		Level:            row.Level,
		CharacterPoints:  row.CharacterPoints,
		CorrectionPoints: row.CorrectionPoints,
		MapID:            row.MapID,
		PosX:             row.PosX,
		PosY:             row.PosY,
		Money:            row.Money,
		Attributes: map[int]int{
			game.AttrStrength:     row.Strength,
			game.AttrAgility:      row.Agility,
			game.AttrDexterity:    row.Dexterity,
			game.AttrVitality:     row.Vitality,
			game.AttrIntelligence: row.Intelligence,
			game.AttrWillpower:    row.Willpower,
		},
		Experience:    map[int]int{},
		StatusEffects: map[int]int{},
	}
}

func (s *Storage) loadCharacterDetails(d *game.CharacterData) error {
	var skills []CharacterSkillDB
	if err := s.selectAll(&skills, "SELECT char_id, skill_id, skill_exp FROM char_skills WHERE char_id = ?", d.ID); err != nil {
		return err
	}
	for _, skill := range skills {
		d.Experience[skill.SkillID] = skill.Exp
	}

	var effects []StatusEffectDB
	if err := s.selectAll(&effects, "SELECT char_id, status_id, status_ticks FROM char_status_effects WHERE char_id = ?", d.ID); err != nil {
		return err
	}
	for _, effect := range effects {
		d.StatusEffects[effect.EffectID] = effect.Ticks
	}

	var items []InventoryDB
	if err := s.selectAll(&items, "SELECT owner_id, slot, class_id, amount FROM inventories WHERE owner_id = ? ORDER BY slot", d.ID); err != nil {
		return err
	}
	for _, item := range items {
		d.Inventory = append(d.Inventory, game.InventoryEntry{
			Slot:   item.Slot,
			ItemID: item.ItemID,
			Amount: item.Amount,
		})
	}
	return nil
}

// GetCharacterByID hydrates a full character aggregate from its row and the
// three detail tables.
func (s *Storage) GetCharacterByID(id int) (*game.Character, error) {
	var row CharacterDB
	query := "SELECT " + characterColumns + " FROM characters WHERE id = ?"
	if err := s.get(&row, query, id); err != nil {
		return nil, err
	}
	data := rowToData(row)
	if err := s.loadCharacterDetails(&data); err != nil {
		return nil, err
	}
	return game.FromData(data), nil
}

func (s *Storage) GetCharacterByName(name string) (*game.Character, error) {
	var row CharacterDB
	query := "SELECT " + characterColumns + " FROM characters WHERE name = ?"
	if err := s.get(&row, query, name); err != nil {
		return nil, err
	}
	data := rowToData(row)
	if err := s.loadCharacterDetails(&data); err != nil {
		return nil, err
	}
	return game.FromData(data), nil
}

func (s *Storage) writeCharacterDetails(q sqlx.Ext, d game.CharacterData) error {
	deletes := []string{
		"DELETE FROM char_skills WHERE char_id = ?",
		"DELETE FROM char_status_effects WHERE char_id = ?",
		"DELETE FROM inventories WHERE owner_id = ?",
	}
	for _, query := range deletes {
		if _, err := q.Exec(s.rebind(query), d.ID); err != nil {
			return fmt.Errorf("storage: clear character details: %w", err)
		}
	}

	skillQuery := s.rebind("INSERT INTO char_skills (char_id, skill_id, skill_exp) VALUES (?, ?, ?)")
	for skill, exp := range d.Experience {
		if exp == 0 {
			continue
		}
		if _, err := q.Exec(skillQuery, d.ID, skill, exp); err != nil {
			return fmt.Errorf("storage: write skill: %w", err)
		}
	}

	effectQuery := s.rebind("INSERT INTO char_status_effects (char_id, status_id, status_ticks) VALUES (?, ?, ?)")
	for effect, ticks := range d.StatusEffects {
		if _, err := q.Exec(effectQuery, d.ID, effect, ticks); err != nil {
			return fmt.Errorf("storage: write status effect: %w", err)
		}
	}

	itemQuery := s.rebind("INSERT INTO inventories (owner_id, slot, class_id, amount) VALUES (?, ?, ?, ?)")
	for _, item := range d.Inventory {
		if _, err := q.Exec(itemQuery, d.ID, item.Slot, item.ItemID, item.Amount); err != nil {
			return fmt.Errorf("storage: write inventory: %w", err)
		}
	}
	return nil
}

// AddCharacter inserts the character and its details and fills in the
// generated id.
func (s *Storage) AddCharacter(d *game.CharacterData) error {
	insertQuery := `INSERT INTO characters (user_id, name, gender, hair_style, hair_color, level,
		char_pts, correct_pts, money, map_id, pos_x, pos_y,
		strength, agility, dexterity, vitality, intelligence, willpower)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	return s.WithUnitOfWork(func(q sqlx.Ext) error {
		id, err := s.insertID(q, insertQuery,
			d.AccountID, d.Name, d.Gender, d.HairStyle, d.HairColor, d.Level,
			d.CharacterPoints, d.CorrectionPoints, d.Money, d.MapID, d.PosX, d.PosY,
			d.Attributes[game.AttrStrength], d.Attributes[game.AttrAgility],
			d.Attributes[game.AttrDexterity], d.Attributes[game.AttrVitality],
			d.Attributes[game.AttrIntelligence], d.Attributes[game.AttrWillpower])
		if err != nil {
			return fmt.Errorf("storage: add character: %w", err)
		}
		d.ID = id
		return s.writeCharacterDetails(q, *d)
	})
}

// UpdateCharacter rewrites the character row and replaces its detail rows.
// Pass a q from WithUnitOfWork so the row and the details commit with a
// larger group, nil to run standalone; either way partial writes roll back
// together.
func (s *Storage) UpdateCharacter(d game.CharacterData, q sqlx.Ext) error {
	updateQuery := `UPDATE characters SET gender = ?, hair_style = ?, hair_color = ?, level = ?,
		char_pts = ?, correct_pts = ?, money = ?, map_id = ?, pos_x = ?, pos_y = ?,
		strength = ?, agility = ?, dexterity = ?, vitality = ?, intelligence = ?, willpower = ?
		WHERE id = ?`

	return s.inUnitOfWork(q, func(q sqlx.Ext) error {
		_, err := q.Exec(s.rebind(updateQuery),
			d.Gender, d.HairStyle, d.HairColor, d.Level,
			d.CharacterPoints, d.CorrectionPoints, d.Money, d.MapID, d.PosX, d.PosY,
			d.Attributes[game.AttrStrength], d.Attributes[game.AttrAgility],
			d.Attributes[game.AttrDexterity], d.Attributes[game.AttrVitality],
			d.Attributes[game.AttrIntelligence], d.Attributes[game.AttrWillpower],
			d.ID)
		if err != nil {
			return fmt.Errorf("storage: update character: %w", err)
		}
		return s.writeCharacterDetails(q, d)
	})
}

func (s *Storage) delCharacterTx(q sqlx.Ext, id int) error {
	deletes := []string{
		"DELETE FROM char_skills WHERE char_id = ?",
		"DELETE FROM char_status_effects WHERE char_id = ?",
		"DELETE FROM inventories WHERE owner_id = ?",
		"DELETE FROM quests WHERE owner_id = ?",
		"DELETE FROM guild_members WHERE member_id = ?",
		"DELETE FROM online_list WHERE char_id = ?",
		"DELETE FROM characters WHERE id = ?",
	}
	for _, query := range deletes {
		if _, err := q.Exec(s.rebind(query), id); err != nil {
			return fmt.Errorf("storage: del character: %w", err)
		}
	}
	return nil
}

// DelCharacter removes the character and every row that references it.
func (s *Storage) DelCharacter(id int, q sqlx.Ext) error {
	return s.inUnitOfWork(q, func(q sqlx.Ext) error {
		return s.delCharacterTx(q, id)
	})
}

// FlushSkill persists a single skill total without touching the rest of the
// character. Zeroed skills lose their row instead of keeping a dead one.
func (s *Storage) FlushSkill(characterID, skillID, exp int) error {
	return s.WithUnitOfWork(func(q sqlx.Ext) error {
		if _, err := q.Exec(s.rebind("DELETE FROM char_skills WHERE char_id = ? AND skill_id = ?"), characterID, skillID); err != nil {
			return fmt.Errorf("storage: flush skill: %w", err)
		}
		if exp == 0 {
			return nil
		}
		if _, err := q.Exec(s.rebind("INSERT INTO char_skills (char_id, skill_id, skill_exp) VALUES (?, ?, ?)"), characterID, skillID, exp); err != nil {
			return fmt.Errorf("storage: flush skill: %w", err)
		}
		return nil
	})
}

func (s *Storage) SetPlayerLevel(characterID, level int) error {
	query := "UPDATE characters SET level = ? WHERE id = ?"
	if _, err := s.DB.Exec(s.rebind(query), level, characterID); err != nil {
		return fmt.Errorf("storage: set player level: %w", err)
	}
	return nil
}

// SetOnlineStatus maintains the online_list row for the character.
func (s *Storage) SetOnlineStatus(characterID int, online bool) error {
	return s.WithUnitOfWork(func(q sqlx.Ext) error {
		if _, err := q.Exec(s.rebind("DELETE FROM online_list WHERE char_id = ?"), characterID); err != nil {
			return fmt.Errorf("storage: online status: %w", err)
		}
		if !online {
			return nil
		}
		if _, err := q.Exec(s.rebind("INSERT INTO online_list (char_id, login_date) VALUES (?, ?)"), characterID, time.Now().Unix()); err != nil {
			return fmt.Errorf("storage: online status: %w", err)
		}
		return nil
	})
}

// ClearOnlineList wipes the presence table, used at startup since nobody can
// be online before the server is.
func (s *Storage) ClearOnlineList() error {
	if _, err := s.DB.Exec("DELETE FROM online_list"); err != nil {
		return fmt.Errorf("storage: clear online list: %w", err)
	}
	return nil
}

func (s *Storage) GetOnlineCharacters() ([]int, error) {
	var ids []int
	if err := s.selectAll(&ids, "SELECT char_id FROM online_list ORDER BY char_id"); err != nil {
		return nil, err
	}
	return ids, nil
}
