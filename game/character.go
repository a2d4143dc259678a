// Package game holds the authoritative in-memory state of player characters:
// attribute derivation, skill experience and leveling, point spending and the
// exclusive trade/shop transaction. It performs no I/O; persistence goes
// through the repository package and notifications through the Notifier port.
package game

const (
	CharacterPointsPerLevel  = 5
	CorrectionPointsPerLevel = 2
	CorrectionPointsMax      = 10
)

// AttribModResult is the outcome of a point-spending operation. These are
// response codes sent back to the client, not errors.
type AttribModResult int

const (
	AttribModOK AttribModResult = iota
	AttribModInvalidAttribute
	AttribModNoPointsLeft
	AttribModDenied
)

type Character struct {
	ID        int
	AccountID int
	Name      string
	Gender    int
	HairStyle int
	HairColor int
	MapID     int
	PosX      int
	PosY      int
	Money     int

	attributes [attrCount]Attribute
	experience [SkillCount]int

	level            int
	levelProgress    int
	characterPoints  int
	correctionPoints int

	equippedWeaponSkill int

	modifiedAttributes  map[int]struct{}
	modifiedExperience  map[int]struct{}
	updateLevelProgress bool
	needsRecalculation  bool
	levelUps            []LevelUp

	transaction transactionState

	statusEffects map[int]int
	inventory     []InventoryEntry

	disconnectListeners []DisconnectListener
}

// NewCharacter creates a fresh level-1 character. Initial character
// attributes come from the creation flow; everything derived is computed
// immediately so the first flush already carries a consistent state.
func NewCharacter(name string, attributes map[int]int) *Character {
	c := &Character{
		Name:                name,
		level:               1,
		equippedWeaponSkill: SkillWeaponNone,
		modifiedAttributes:  make(map[int]struct{}),
		modifiedExperience:  make(map[int]struct{}),
		needsRecalculation:  true,
	}
	for id := CharAttrBegin; id < CharAttrEnd; id++ {
		c.attributes[id].Base = 1
	}
	for id, value := range attributes {
		if id >= CharAttrBegin && id < CharAttrEnd {
			c.attributes[id].Base = value
		}
	}
	for id := CharAttrBegin; id < CharAttrEnd; id++ {
		c.ModifiedAttribute(id)
	}
	return c
}

func (c *Character) Level() int            { return c.level }
func (c *Character) LevelProgress() int    { return c.levelProgress }
func (c *Character) CharacterPoints() int  { return c.characterPoints }
func (c *Character) CorrectionPoints() int { return c.correctionPoints }

// Update runs the deferred per-tick work. Level recalculation is requested
// by experience gain and executed here at most once per tick.
func (c *Character) Update() {
	if c.needsRecalculation {
		c.needsRecalculation = false
		c.recalculateLevel()
	}
}

// UseCharacterPoint spends one character point to raise a customizable
// attribute by one.
func (c *Character) UseCharacterPoint(attribute int) AttribModResult {
	if attribute < CharAttrBegin || attribute >= CharAttrEnd {
		return AttribModInvalidAttribute
	}
	if c.characterPoints == 0 {
		return AttribModNoPointsLeft
	}

	c.characterPoints--
	c.SetAttribute(attribute, c.Attribute(attribute)+1)
	c.ModifiedAttribute(attribute)
	return AttribModOK
}

// UseCorrectionPoint lowers a customizable attribute by one and refunds a
// character point. Attributes never drop below 1.
func (c *Character) UseCorrectionPoint(attribute int) AttribModResult {
	if attribute < CharAttrBegin || attribute >= CharAttrEnd {
		return AttribModInvalidAttribute
	}
	if c.correctionPoints == 0 {
		return AttribModNoPointsLeft
	}
	if c.Attribute(attribute) <= 1 {
		return AttribModDenied
	}

	c.correctionPoints--
	c.characterPoints++
	c.SetAttribute(attribute, c.Attribute(attribute)-1)
	c.ModifiedAttribute(attribute)
	return AttribModOK
}

// InventoryEntry is the storage shape of one inventory slot. Slot semantics
// belong to the inventory system; the character only carries the rows.
type InventoryEntry struct {
	Slot   int
	ItemID int
	Amount int
}

// CharacterData is the flat snapshot exchanged with the storage layer. It is
// also what the flush worker carries, so a slow write never observes (or
// blocks) further simulation of the live character.
type CharacterData struct {
	ID               int
	AccountID        int
	Name             string
	Gender           int
	HairStyle        int
	HairColor        int
	Level            int
	CharacterPoints  int
	CorrectionPoints int
	MapID            int
	PosX             int
	PosY             int
	Money            int
	Attributes       map[int]int
	Experience       map[int]int
	StatusEffects    map[int]int
	Inventory        []InventoryEntry
}

// Snapshot captures everything the storage layer persists.
func (c *Character) Snapshot() CharacterData {
	d := CharacterData{
		ID:               c.ID,
		AccountID:        c.AccountID,
		Name:             c.Name,
		Gender:           c.Gender,
		HairStyle:        c.HairStyle,
		HairColor:        c.HairColor,
		Level:            c.level,
		CharacterPoints:  c.characterPoints,
		CorrectionPoints: c.correctionPoints,
		MapID:            c.MapID,
		PosX:             c.PosX,
		PosY:             c.PosY,
		Money:            c.Money,
		Attributes:       make(map[int]int, CharAttrEnd-CharAttrBegin),
		Experience:       make(map[int]int, SkillCount),
		StatusEffects:    make(map[int]int, len(c.statusEffects)),
		Inventory:        append([]InventoryEntry(nil), c.inventory...),
	}
	for id := CharAttrBegin; id < CharAttrEnd; id++ {
		d.Attributes[id] = c.attributes[id].Base
	}
	for skill := SkillBegin; skill < SkillEnd; skill++ {
		if exp := c.experience[skill-SkillBegin]; exp > 0 {
			d.Experience[skill] = exp
		}
	}
	for effect, ticks := range c.statusEffects {
		d.StatusEffects[effect] = ticks
	}
	return d
}

// ApplyStatusEffect records a status effect for persistence; ticks <= 0
// removes it. Effect behavior lives in the status system.
func (c *Character) ApplyStatusEffect(effect, ticks int) {
	if ticks <= 0 {
		delete(c.statusEffects, effect)
		return
	}
	if c.statusEffects == nil {
		c.statusEffects = make(map[int]int)
	}
	c.statusEffects[effect] = ticks
}

// SetInventory replaces the carried inventory rows. Slot resolution is the
// inventory system's concern.
func (c *Character) SetInventory(entries []InventoryEntry) {
	c.inventory = append([]InventoryEntry(nil), entries...)
}

// FromData rebuilds a character from a stored snapshot. Skill levels and
// derived attributes are recomputed rather than trusted, and a full level
// recalculation is scheduled; experience is the single source of truth the
// stored level can never diverge from.
func FromData(d CharacterData) *Character {
	c := &Character{
		ID:                  d.ID,
		AccountID:           d.AccountID,
		Name:                d.Name,
		Gender:              d.Gender,
		HairStyle:           d.HairStyle,
		HairColor:           d.HairColor,
		MapID:               d.MapID,
		PosX:                d.PosX,
		PosY:                d.PosY,
		Money:               d.Money,
		level:               d.Level,
		characterPoints:     d.CharacterPoints,
		correctionPoints:    d.CorrectionPoints,
		equippedWeaponSkill: SkillWeaponNone,
		modifiedAttributes:  make(map[int]struct{}),
		modifiedExperience:  make(map[int]struct{}),
		needsRecalculation:  true,
	}
	if c.level < 1 {
		c.level = 1
	}
	for id, value := range d.Attributes {
		if id >= CharAttrBegin && id < CharAttrEnd {
			c.attributes[id].Base = value
		}
	}
	for skill, exp := range d.Experience {
		if skill < SkillBegin || skill >= SkillEnd {
			continue
		}
		if exp < 0 {
			exp = 0
		}
		if exp > MaxExperience {
			exp = MaxExperience
		}
		c.experience[skill-SkillBegin] = exp
		level := 0
		for exp >= ExpForLevel(level+1) {
			level++
		}
		c.attributes[skill].Base = level
	}
	for effect, ticks := range d.StatusEffects {
		c.ApplyStatusEffect(effect, ticks)
	}
	c.SetInventory(d.Inventory)
	for id := CharAttrBegin; id < CharAttrEnd; id++ {
		c.ModifiedAttribute(id)
	}
	// Hydration is not a gameplay change; nothing is pending notification.
	c.modifiedAttributes = make(map[int]struct{})
	c.modifiedExperience = make(map[int]struct{})
	return c
}
