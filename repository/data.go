package repository

// AccountDB is the accounts row. Banned is a unix timestamp; zero means the
// account is in good standing.
type AccountDB struct {
	ID           int    `db:"id"`
	Username     string `db:"username"`
	Password     string `db:"password"`
	Email        string `db:"email"`
	Level        int    `db:"level"`
	Banned       int64  `db:"banned"`
	Registration int64  `db:"registration"`
	LastLogin    int64  `db:"lastlogin"`
	Activated    int    `db:"activated"`

	// Characters owned by the account, ordered by id. Loaded by the
	// account getters, not a column.
	Characters []int
}

type CharacterDB struct {
	ID               int    `db:"id"`
	AccountID        int    `db:"user_id"`
	Name             string `db:"name"`
	Gender           int    `db:"gender"`
	HairStyle        int    `db:"hair_style"`
	HairColor        int    `db:"hair_color"`
	Level            int    `db:"level"`
	CharacterPoints  int    `db:"char_pts"`
	CorrectionPoints int    `db:"correct_pts"`
	Money            int    `db:"money"`
	MapID            int    `db:"map_id"`
	PosX             int    `db:"pos_x"`
	PosY             int    `db:"pos_y"`
	Strength         int    `db:"strength"`
	Agility          int    `db:"agility"`
	Dexterity        int    `db:"dexterity"`
	Vitality         int    `db:"vitality"`
	Intelligence     int    `db:"intelligence"`
	Willpower        int    `db:"willpower"`
}

type CharacterSkillDB struct {
	CharacterID int `db:"char_id"`
	SkillID     int `db:"skill_id"`
	Exp         int `db:"skill_exp"`
}

type StatusEffectDB struct {
	CharacterID int `db:"char_id"`
	EffectID    int `db:"status_id"`
	Ticks       int `db:"status_ticks"`
}

type InventoryDB struct {
	CharacterID int `db:"owner_id"`
	Slot        int `db:"slot"`
	ItemID      int `db:"class_id"`
	Amount      int `db:"amount"`
}

type GuildDB struct {
	ID   int    `db:"id"`
	Name string `db:"name"`
}

type GuildMemberDB struct {
	GuildID     int `db:"guild_id"`
	CharacterID int `db:"member_id"`
	Rights      int `db:"rights"`
}

type QuestVarDB struct {
	OwnerID int    `db:"owner_id"`
	Name    string `db:"name"`
	Value   string `db:"value"`
}

type WorldStateDB struct {
	Name    string `db:"state_name"`
	MapID   int    `db:"map_id"`
	Value   string `db:"value"`
	ModDate int64  `db:"moddate"`
}

type LetterDB struct {
	ID         int    `db:"id"`
	Type       int    `db:"letter_type"`
	SenderID   int    `db:"sender_id"`
	ReceiverID int    `db:"receiver_id"`
	SentDate   int64  `db:"sending_date"`
	ExpiryDate int64  `db:"expiration_date"`
	Contents   string `db:"letter_text"`
}

type AuctionDB struct {
	ID          int   `db:"id"`
	State       int   `db:"state"`
	CharacterID int   `db:"char_id"`
	ItemID      int   `db:"itemclass_id"`
	StartTime   int64 `db:"start_time"`
	StartPrice  int   `db:"start_price"`
}

type TransactionLogDB struct {
	ID          int    `db:"id"`
	CharacterID int    `db:"char_id"`
	Action      int    `db:"action"`
	Message     string `db:"message"`
	Time        int64  `db:"time"`
}
