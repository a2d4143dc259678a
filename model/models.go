package model

import (
	"errors"
	"net/mail"
	"regexp"
)

// Account levels. Banned accounts keep their previous level in the banned
// column's shadow; the sweep restores AccountLevelPlayer when the ban ends.
const (
	AccountLevelBanned = 1
	AccountLevelPlayer = 10
	AccountLevelGM     = 50
	AccountLevelAdmin  = 99
)

// Audit actions recorded in the transactions log.
const (
	TransactionBan = iota + 1
	TransactionUnban
	TransactionCharacterCreated
	TransactionCharacterDeleted
)

type BaseResponse struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
}

type RegisterAPI struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *RegisterAPI) Validate() error {
	if r.Username == "" || r.Email == "" || r.Password == "" {
		return errors.New("one or more fields are empty")
	}

	validUsername := regexp.MustCompile(`^[a-zA-Z0-9]+$`)
	if !validUsername.MatchString(r.Username) {
		return errors.New("username can only contain letters and digits")
	}

	if _, err := mail.ParseAddress(r.Email); err != nil {
		return errors.New("invalid email address")
	}

	if len(r.Password) < 8 {
		return errors.New("password length must be greater than 8")
	}

	if !containsLetter(r.Password) {
		return errors.New("password must contain at least one letter")
	}

	if !containsDigit(r.Password) {
		return errors.New("password must contain at least one digit")
	}

	return nil
}

type LoginAPI struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (l *LoginAPI) Validate() error {
	if l.Username == "" || l.Password == "" {
		return errors.New("one or more fields are empty")
	}

	validUsername := regexp.MustCompile(`^[a-zA-Z0-9]+$`)
	if !validUsername.MatchString(l.Username) {
		return errors.New("username can only contain letters and digits")
	}

	return nil
}

type UpdatePassword struct {
	Email       string `json:"email"`
	Token       string `json:"token"`
	Timestamp   int64  `json:"timestamp"`
	NewPassword string `json:"new_password"`
}

func (r *UpdatePassword) Validate() error {
	if _, err := mail.ParseAddress(r.Email); err != nil {
		return errors.New("invalid email address")
	}

	if len(r.NewPassword) < 8 {
		return errors.New("password length must be greater than 8")
	}

	if !containsLetter(r.NewPassword) {
		return errors.New("password must contain at least one letter")
	}

	if !containsDigit(r.NewPassword) {
		return errors.New("password must contain at least one digit")
	}

	return nil
}

// NewCharacterAPI is the character-creation request. The attribute points
// are distributed over the six customizable attributes and must spend the
// whole starting pool.
type NewCharacterAPI struct {
	Username   string `json:"username"`
	Name       string `json:"character_name"`
	Gender     int    `json:"gender"`
	HairStyle  int    `json:"hair_style"`
	HairColor  int    `json:"hair_color"`
	Attributes []int  `json:"attributes"`
}

const (
	StartingAttributePool = 60
	MinCreationAttribute  = 1
	MaxCreationAttribute  = 20
	MaxHairStyle          = 7
	MaxHairColor          = 11
)

func (c *NewCharacterAPI) Validate() error {
	if c.Name == "" {
		return errors.New("name cannot be empty")
	}

	if !checkCharacterName(c.Name) {
		return errors.New("invalid character name")
	}

	if c.Gender != 0 && c.Gender != 1 {
		return errors.New("invalid gender")
	}

	if c.HairStyle < 0 || c.HairStyle > MaxHairStyle {
		return errors.New("invalid hair style")
	}

	if c.HairColor < 0 || c.HairColor > MaxHairColor {
		return errors.New("invalid hair color")
	}

	if len(c.Attributes) != 6 {
		return errors.New("exactly six attributes are required")
	}

	total := 0
	for _, value := range c.Attributes {
		if value < MinCreationAttribute || value > MaxCreationAttribute {
			return errors.New("attribute out of range")
		}
		total += value
	}
	if total != StartingAttributePool {
		return errors.New("attribute points must spend the whole pool")
	}

	return nil
}

type CharacterStatsAPI struct {
	Name          string `json:"character_name"`
	Level         int    `json:"character_level"`
	LevelProgress int    `json:"level_progress"`
	MapID         int    `json:"map_id"`
}

type AccountStatsAPI struct {
	Username      string              `json:"username"`
	Level         int                 `json:"account_level"`
	LastLogin     int64               `json:"last_login"`
	CharacterList []CharacterStatsAPI `json:"character_list"`
}

type ServerStatsAPI struct {
	Online     int `json:"online"`
	Accounts   int `json:"accounts"`
	Characters int `json:"characters"`
	Guilds     int `json:"guilds"`
}

type BanAPI struct {
	CharacterID int    `json:"character_id"`
	Duration    int    `json:"duration_minutes"`
	Reason      string `json:"reason"`
}

func (b *BanAPI) Validate() error {
	if b.CharacterID <= 0 {
		return errors.New("invalid character id")
	}
	if b.Duration <= 0 {
		return errors.New("ban duration must be positive")
	}
	return nil
}

// Letter is one piece of in-game mail; attachments reference item ids.
type Letter struct {
	ID          int
	Type        int
	SenderID    int
	ReceiverID  int
	SentDate    int64
	ExpiryDate  int64
	Contents    string
	Attachments []int
}

// Post is the bundle of letters a character retrieves at once.
type Post struct {
	Letters []*Letter
}

type GuildMember struct {
	CharacterID int
	Rights      int
}

type Guild struct {
	ID      int
	Name    string
	Members []GuildMember
}
