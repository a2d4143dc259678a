package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func testAttributes() map[int]int {
	return map[int]int{
		AttrStrength:     5,
		AttrAgility:      4,
		AttrDexterity:    3,
		AttrVitality:     6,
		AttrIntelligence: 2,
		AttrWillpower:    5,
	}
}

type recordingNotifier struct {
	attrs    [][]AttributeUpdate
	exps     [][]ExperienceUpdate
	progress []int
	levelUps []LevelUp
}

func (n *recordingNotifier) AttributesChanged(_ *Character, updates []AttributeUpdate) {
	n.attrs = append(n.attrs, updates)
}

func (n *recordingNotifier) ExperienceChanged(_ *Character, updates []ExperienceUpdate) {
	n.exps = append(n.exps, updates)
}

func (n *recordingNotifier) LevelProgressChanged(_ *Character, progress int) {
	n.progress = append(n.progress, progress)
}

func (n *recordingNotifier) LeveledUp(_ *Character, up LevelUp) {
	n.levelUps = append(n.levelUps, up)
}

func TestDerivedAttributes(t *testing.T) {
	c := NewCharacter("Ayla", testAttributes())

	tests := []struct {
		name      string
		attribute int
		expected  int
	}{
		{"health pool", AttrHP, (6 + 10) * (1 + 10)},
		{"hit chance", AttrHit, 3},
		{"evasion", AttrEvade, 4},
		{"physical resistance", AttrPhyRes, 6},
		{"physical attack base", AttrPhyAtkMin, 5},
		{"physical attack delta", AttrPhyAtkDelta, 0},
		{"magic resistance", AttrMagRes, 5},
		{"magic attack", AttrMagAtk, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, c.Attribute(tt.attribute))
		})
	}
}

func TestDerivedAttributesFollowBaseChanges(t *testing.T) {
	c := NewCharacter("Ayla", testAttributes())
	n := &recordingNotifier{}
	c.SendStatus(n) // drain creation changes

	c.SetAttribute(AttrVitality, 8)
	c.ModifiedAttribute(AttrVitality)

	assert.Equal(t, (8+10)*(1+10), c.Attribute(AttrHP))
	assert.Equal(t, 8, c.Attribute(AttrPhyRes))

	c.SendStatus(n)
	if assert.Len(t, n.attrs, 1) {
		ids := make([]int, 0)
		for _, u := range n.attrs[0] {
			ids = append(ids, u.Attribute)
		}
		assert.Contains(t, ids, AttrHP)
		assert.Contains(t, ids, AttrPhyRes)
		assert.Contains(t, ids, AttrVitality)
	}
}

func TestHitChanceUsesEquippedWeaponSkill(t *testing.T) {
	c := NewCharacter("Ayla", testAttributes())
	c.SetAttribute(SkillWeaponSword, 7)

	c.EquipWeaponSkill(SkillWeaponSword)

	assert.Equal(t, 3+7, c.Attribute(AttrHit))
}

func TestSendStatusDrainsExactlyOnce(t *testing.T) {
	c := NewCharacter("Ayla", testAttributes())

	first := &recordingNotifier{}
	c.SendStatus(first)
	assert.NotEmpty(t, first.attrs)

	second := &recordingNotifier{}
	c.SendStatus(second)
	assert.Empty(t, second.attrs)
	assert.Empty(t, second.exps)
	assert.Empty(t, second.progress)
	assert.Empty(t, second.levelUps)
}

func TestUseCharacterPoint(t *testing.T) {
	c := FromData(CharacterData{
		Name:            "Ayla",
		Level:           1,
		CharacterPoints: 1,
		Attributes:      testAttributes(),
	})

	assert.Equal(t, AttribModInvalidAttribute, c.UseCharacterPoint(CharAttrBegin-1))
	assert.Equal(t, AttribModInvalidAttribute, c.UseCharacterPoint(CharAttrEnd))

	assert.Equal(t, AttribModOK, c.UseCharacterPoint(AttrStrength))
	assert.Equal(t, 6, c.Attribute(AttrStrength))
	assert.Equal(t, 0, c.CharacterPoints())

	assert.Equal(t, AttribModNoPointsLeft, c.UseCharacterPoint(AttrStrength))
	assert.Equal(t, 6, c.Attribute(AttrStrength))
}

func TestUseCorrectionPoint(t *testing.T) {
	attributes := testAttributes()
	attributes[AttrIntelligence] = 1

	c := FromData(CharacterData{
		Name:             "Ayla",
		Level:            1,
		CorrectionPoints: 2,
		Attributes:       attributes,
	})

	assert.Equal(t, AttribModInvalidAttribute, c.UseCorrectionPoint(BaseAttrBegin))

	// Attribute already at its floor.
	assert.Equal(t, AttribModDenied, c.UseCorrectionPoint(AttrIntelligence))
	assert.Equal(t, 2, c.CorrectionPoints())
	assert.Equal(t, 0, c.CharacterPoints())

	assert.Equal(t, AttribModOK, c.UseCorrectionPoint(AttrStrength))
	assert.Equal(t, 4, c.Attribute(AttrStrength))
	assert.Equal(t, 1, c.CorrectionPoints())
	assert.Equal(t, 1, c.CharacterPoints())
}

func TestSnapshotRoundTrip(t *testing.T) {
	c := NewCharacter("Ayla", testAttributes())
	c.AccountID = 7
	c.Gender = 1
	c.MapID = 3
	c.PosX, c.PosY = 120, 88
	c.Money = 250
	c.ReceiveExperience(SkillWeaponBow, 500)
	c.Update()
	c.ApplyStatusEffect(4, 12)
	c.SetInventory([]InventoryEntry{{Slot: 0, ItemID: 101, Amount: 1}})

	restored := FromData(c.Snapshot())

	for id := CharAttrBegin; id < CharAttrEnd; id++ {
		assert.Equal(t, c.Attribute(id), restored.Attribute(id))
	}
	for skill := SkillBegin; skill < SkillEnd; skill++ {
		assert.Equal(t, c.Experience(skill), restored.Experience(skill))
		assert.Equal(t, c.Attribute(skill), restored.Attribute(skill))
	}
	assert.Equal(t, c.Level(), restored.Level())
	assert.Equal(t, c.CharacterPoints(), restored.CharacterPoints())
	assert.Equal(t, c.CorrectionPoints(), restored.CorrectionPoints())
	assert.Equal(t, c.Snapshot(), restored.Snapshot())
}

func TestDisconnectListenersToleratesSelfRemoval(t *testing.T) {
	c := NewCharacter("Ayla", testAttributes())

	calls := 0
	var l1, l2 *funcListener
	l1 = &funcListener{fn: func(ch *Character) {
		calls++
		ch.RemoveDisconnectListener(l1)
	}}
	l2 = &funcListener{fn: func(*Character) { calls++ }}

	c.RegisterDisconnectListener(l1)
	c.RegisterDisconnectListener(l2)
	c.RegisterDisconnectListener(l2) // duplicate registration is ignored

	c.Disconnected()
	assert.Equal(t, 2, calls)

	c.Disconnected()
	assert.Equal(t, 3, calls)
}

type funcListener struct {
	fn func(c *Character)
}

func (l *funcListener) Disconnected(c *Character) { l.fn(c) }
