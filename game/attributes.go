package game

// Attribute ids. The layout mirrors the database encoding: derived combat
// attributes first, then the six customizable character attributes, then one
// skill per weapon type. Skill levels are kept in the same table so the same
// accessors serve both.
const (
	AttrHP = iota
	AttrPhyAtkMin
	AttrPhyAtkDelta
	AttrMagAtk
	AttrEvade
	AttrHit
	AttrPhyRes
	AttrMagRes

	AttrStrength
	AttrAgility
	AttrDexterity
	AttrVitality
	AttrIntelligence
	AttrWillpower

	SkillWeaponNone
	SkillWeaponKnife
	SkillWeaponSword
	SkillWeaponPolearm
	SkillWeaponStaff
	SkillWeaponWhip
	SkillWeaponBow
	SkillWeaponShooting
	SkillWeaponMace
	SkillWeaponAxe
	SkillWeaponThrown

	attrCount
)

const (
	BaseAttrBegin = AttrHP
	BaseAttrEnd   = AttrMagRes + 1
	CharAttrBegin = AttrStrength
	CharAttrEnd   = AttrWillpower + 1
	SkillBegin    = SkillWeaponNone
	SkillEnd      = attrCount
	SkillCount    = SkillEnd - SkillBegin
)

// Attribute holds the stored value and the sum of equipment and status
// modifiers applied on top of it. Modifiers are managed by the inventory and
// status-effect systems; this package only reads them.
type Attribute struct {
	Base int
	Mod  int
}

// Effective is the value combat actually uses.
func (a Attribute) Effective() int {
	return a.Base + a.Mod
}

// Attribute returns the stored value of an attribute or skill level.
func (c *Character) Attribute(id int) int {
	if id < 0 || id >= attrCount {
		return 0
	}
	return c.attributes[id].Base
}

// EffectiveAttribute returns the attribute with modifiers applied.
func (c *Character) EffectiveAttribute(id int) int {
	if id < 0 || id >= attrCount {
		return 0
	}
	return c.attributes[id].Effective()
}

// SetAttribute stores a value without recomputation. Callers that change a
// character attribute must follow up with ModifiedAttribute.
func (c *Character) SetAttribute(id, value int) {
	if id < 0 || id >= attrCount {
		return
	}
	c.attributes[id].Base = value
}

// SetAttributeModifier replaces the modifier total for an attribute and
// recomputes everything derived from it.
func (c *Character) SetAttributeModifier(id, value int) {
	if id < 0 || id >= attrCount {
		return
	}
	c.attributes[id].Mod = value
	c.ModifiedAttribute(id)
}

// deriveAttribute computes the value a derived attribute should have from the
// current character attributes. Each formula reads only base/derived inputs,
// never the slot it fills, so recomputation order does not matter.
func (c *Character) deriveAttribute(id int) int {
	switch id {
	case AttrHP:
		return (c.EffectiveAttribute(AttrVitality) + 10) * (c.level + 10)
	case AttrHit:
		return c.EffectiveAttribute(AttrDexterity) +
			c.EffectiveAttribute(c.equippedWeaponSkill)
	case AttrEvade:
		// Equipment weight scaling hooks in here once the inventory
		// system provides it.
		return c.EffectiveAttribute(AttrAgility)
	case AttrPhyRes:
		return c.EffectiveAttribute(AttrVitality)
	case AttrPhyAtkMin:
		return c.EffectiveAttribute(AttrStrength)
	case AttrPhyAtkDelta:
		// Weapon attack contributes through equipment modifiers.
		return 0
	case AttrMagRes, AttrMagAtk:
		return c.EffectiveAttribute(AttrWillpower)
	}
	return c.Attribute(id)
}

// ModifiedAttribute records a change to an attribute and, when the change is
// to one of the customizable character attributes, recomputes every derived
// attribute. Derived attributes whose value actually changed are flagged for
// the next notification cycle.
func (c *Character) ModifiedAttribute(id int) {
	if (id >= CharAttrBegin && id < CharAttrEnd) || id == c.equippedWeaponSkill {
		for i := BaseAttrBegin; i < BaseAttrEnd; i++ {
			newValue := c.deriveAttribute(i)
			if newValue != c.Attribute(i) {
				c.SetAttribute(i, newValue)
				c.flagAttribute(i)
			}
		}
	}
	c.flagAttribute(id)
}

func (c *Character) flagAttribute(id int) {
	c.modifiedAttributes[id] = struct{}{}
}

// EquipWeaponSkill records which weapon skill the equipped weapon uses and
// recomputes the attributes that depend on it.
func (c *Character) EquipWeaponSkill(skill int) {
	if skill < SkillBegin || skill >= SkillEnd {
		skill = SkillWeaponNone
	}
	c.equippedWeaponSkill = skill
	for i := BaseAttrBegin; i < BaseAttrEnd; i++ {
		newValue := c.deriveAttribute(i)
		if newValue != c.Attribute(i) {
			c.SetAttribute(i, newValue)
			c.flagAttribute(i)
		}
	}
}
