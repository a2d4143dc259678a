package game

import (
	"math"
	"sort"
)

const (
	// Experience curve: expForLevel(L) = floor(L^exponent * factor).
	ExpCurveExponent = 3.0
	ExpCurveFactor   = 10.0

	// Geometric decay applied to each lower-ranked skill when combining
	// skill levels into the aggregate character level.
	LevelPrecedenceFactor = 0.75

	// MaxExperience saturates experience gain. Kept at the 32-bit limit so
	// the value fits the INTEGER columns of all three backends.
	MaxExperience = math.MaxInt32
)

// ExpForLevel returns the total experience required to hold a skill level.
// Strictly increasing for level >= 1.
func ExpForLevel(level int) int {
	return int(math.Pow(float64(level), ExpCurveExponent) * ExpCurveFactor)
}

// Experience returns the accumulated experience of a skill.
func (c *Character) Experience(skill int) int {
	if skill < SkillBegin || skill >= SkillEnd {
		return 0
	}
	return c.experience[skill-SkillBegin]
}

// ExperienceGained is the experience collected toward the skill's next level.
func (c *Character) ExperienceGained(skill int) int {
	return c.Experience(skill) - ExpForLevel(c.Attribute(skill))
}

// ExperienceNeeded is the experience required to go from the skill's current
// level to the next one.
func (c *Character) ExperienceNeeded(skill int) int {
	level := c.Attribute(skill)
	return ExpForLevel(level+1) - ExpForLevel(level)
}

// ReceiveExperience adds experience to a skill, applying any skill level-ups
// immediately and scheduling the deferred aggregate-level recalculation. The
// addition saturates at MaxExperience and never drops below zero.
func (c *Character) ReceiveExperience(skill, amount int) {
	if skill < SkillBegin || skill >= SkillEnd {
		return
	}

	exp := c.experience[skill-SkillBegin]
	newExp := exp + amount
	if amount > 0 && newExp < exp {
		newExp = MaxExperience
	}
	if newExp > MaxExperience {
		newExp = MaxExperience
	}
	if newExp < 0 {
		newExp = 0
	}
	c.experience[skill-SkillBegin] = newExp
	c.modifiedExperience[skill] = struct{}{}

	for newExp >= ExpForLevel(c.Attribute(skill)+1) {
		c.SetAttribute(skill, c.Attribute(skill)+1)
		c.ModifiedAttribute(skill)
	}

	c.needsRecalculation = true
}

// weightedSkillLevel combines fractional skill levels, highest first, with
// geometrically decaying weights. The +1 keeps the lowest possible character
// level at 1.
func weightedSkillLevel(levels []float64, precedence float64) float64 {
	sorted := append([]float64(nil), levels...)
	sort.Sort(sort.Reverse(sort.Float64Slice(sorted)))

	var sum, weightSum float64
	weight := 1.0
	for _, level := range sorted {
		sum += level * weight
		weightSum += weight
		weight *= precedence
	}
	if weightSum == 0 {
		return 1
	}
	return sum/weightSum + 1
}

// recalculateLevel derives the aggregate character level from per-skill
// experience. Idempotent: with no experience change in between, a second run
// finds the character already at the target and changes nothing.
func (c *Character) recalculateLevel() {
	levels := make([]float64, 0, SkillCount)
	for skill := SkillBegin; skill < SkillEnd; skill++ {
		fractional := float64(c.Attribute(skill))
		if needed := c.ExperienceNeeded(skill); needed > 0 {
			fractional += float64(c.ExperienceGained(skill)) / float64(needed)
		}
		levels = append(levels, fractional)
	}

	target := weightedSkillLevel(levels, LevelPrecedenceFactor)

	for float64(c.level) < target {
		c.levelUp()
	}

	progress := int((target - math.Floor(target)) * 100)
	if progress != c.levelProgress {
		c.levelProgress = progress
		c.updateLevelProgress = true
	}
}

// levelUp raises the character level by exactly one and grants the per-level
// point budget. The notification is buffered until the next status flush.
func (c *Character) levelUp() {
	c.level++

	c.characterPoints += CharacterPointsPerLevel
	c.correctionPoints += CorrectionPointsPerLevel
	if c.correctionPoints > CorrectionPointsMax {
		c.correctionPoints = CorrectionPointsMax
	}

	c.levelUps = append(c.levelUps, LevelUp{
		Level:            c.level,
		CharacterPoints:  c.characterPoints,
		CorrectionPoints: c.correctionPoints,
	})
}
