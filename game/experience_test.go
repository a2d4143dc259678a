package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExpForLevelStrictlyIncreasing(t *testing.T) {
	for level := 1; level < 100; level++ {
		assert.Greater(t, ExpForLevel(level+1), ExpForLevel(level),
			"curve must grow at level %d", level)
	}
}

func TestReceiveExperienceLevelsUpSkill(t *testing.T) {
	c := NewCharacter("Ayla", testAttributes())

	c.ReceiveExperience(SkillWeaponSword, ExpForLevel(3))

	assert.Equal(t, 3, c.Attribute(SkillWeaponSword))
	assert.Equal(t, ExpForLevel(3), c.Experience(SkillWeaponSword))
	assert.Contains(t, c.modifiedExperience, SkillWeaponSword)
	assert.Contains(t, c.modifiedAttributes, SkillWeaponSword)
}

func TestReceiveExperienceSaturates(t *testing.T) {
	c := NewCharacter("Ayla", testAttributes())

	c.ReceiveExperience(SkillWeaponSword, MaxExperience)
	c.ReceiveExperience(SkillWeaponSword, MaxExperience)

	assert.Equal(t, MaxExperience, c.Experience(SkillWeaponSword))
}

func TestReceiveExperienceNeverNegative(t *testing.T) {
	c := NewCharacter("Ayla", testAttributes())

	c.ReceiveExperience(SkillWeaponSword, -5000)

	assert.Equal(t, 0, c.Experience(SkillWeaponSword))
}

func TestReceiveExperienceIgnoresUnknownSkill(t *testing.T) {
	c := NewCharacter("Ayla", testAttributes())

	c.ReceiveExperience(AttrStrength, 1000)
	c.ReceiveExperience(SkillEnd, 1000)

	for skill := SkillBegin; skill < SkillEnd; skill++ {
		assert.Zero(t, c.Experience(skill))
	}
}

func TestWeightedSkillLevel(t *testing.T) {
	// (10.2*1 + 8.5*0.6 + 5.0*0.36) / (1 + 0.6 + 0.36) + 1
	level := weightedSkillLevel([]float64{5.0, 10.2, 8.5}, 0.6)
	assert.InDelta(t, 17.1/1.96+1, level, 1e-9)

	// Order must not matter; the combination sorts descending itself.
	assert.Equal(t, level, weightedSkillLevel([]float64{10.2, 8.5, 5.0}, 0.6))
}

func TestRecalculateLevelDrivesLevelUps(t *testing.T) {
	c := NewCharacter("Ayla", testAttributes())

	// Sword to exactly skill level 8; every other skill stays at 0.
	c.ReceiveExperience(SkillWeaponSword, ExpForLevel(8))
	c.Update()

	// Weighted target is ~3.088, so the level climbs one step at a time
	// from 1 to 4 and every step grants points.
	assert.Equal(t, 4, c.Level())
	assert.Equal(t, 3*CharacterPointsPerLevel, c.CharacterPoints())
	assert.Equal(t, 3*CorrectionPointsPerLevel, c.CorrectionPoints())
	assert.Equal(t, 8, c.LevelProgress())

	n := &recordingNotifier{}
	c.SendStatus(n)
	if assert.Len(t, n.levelUps, 3) {
		assert.Equal(t, LevelUp{
			Level:            4,
			CharacterPoints:  15,
			CorrectionPoints: 6,
		}, n.levelUps[2])
	}
	assert.Equal(t, []int{8}, n.progress)
}

func TestRecalculationIsIdempotent(t *testing.T) {
	c := NewCharacter("Ayla", testAttributes())
	c.ReceiveExperience(SkillWeaponBow, 12345)
	c.Update()

	level, progress := c.Level(), c.LevelProgress()

	// A second recalculation without any experience change.
	c.ReceiveExperience(SkillWeaponBow, 0)
	c.Update()

	assert.Equal(t, level, c.Level())
	assert.Equal(t, progress, c.LevelProgress())
}

func TestCorrectionPointsAreCapped(t *testing.T) {
	c := NewCharacter("Ayla", testAttributes())

	// Enough experience to gain many levels in one recalculation.
	c.ReceiveExperience(SkillWeaponSword, ExpForLevel(40))
	c.Update()

	assert.Greater(t, c.Level(), 5)
	assert.Equal(t, CorrectionPointsMax, c.CorrectionPoints())
}
