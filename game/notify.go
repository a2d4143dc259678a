package game

import "sort"

// AttributeUpdate reports one modified attribute with its stored and
// effective value.
type AttributeUpdate struct {
	Attribute int
	Base      int
	Effective int
}

// ExperienceUpdate reports one modified skill with the experience collected
// toward, and required for, its next level.
type ExperienceUpdate struct {
	Skill  int
	Gained int
	Needed int
}

// LevelUp carries the state granted by one character level-up.
type LevelUp struct {
	Level            int
	CharacterPoints  int
	CorrectionPoints int
}

// Notifier is the outbound port to the client-facing layer. Calls happen only
// from SendStatus, never mid-computation.
type Notifier interface {
	AttributesChanged(c *Character, updates []AttributeUpdate)
	ExperienceChanged(c *Character, updates []ExperienceUpdate)
	LevelProgressChanged(c *Character, progress int)
	LeveledUp(c *Character, up LevelUp)
}

// SendStatus drains every pending change-set through the notifier. Each
// change is reported exactly once: the sets are cleared here and nowhere
// else, and nothing is emitted while a computation is still running.
func (c *Character) SendStatus(n Notifier) {
	if len(c.modifiedAttributes) > 0 {
		ids := make([]int, 0, len(c.modifiedAttributes))
		for id := range c.modifiedAttributes {
			ids = append(ids, id)
		}
		sort.Ints(ids)

		updates := make([]AttributeUpdate, 0, len(ids))
		for _, id := range ids {
			updates = append(updates, AttributeUpdate{
				Attribute: id,
				Base:      c.Attribute(id),
				Effective: c.EffectiveAttribute(id),
			})
		}
		c.modifiedAttributes = make(map[int]struct{})
		n.AttributesChanged(c, updates)
	}

	if len(c.modifiedExperience) > 0 {
		skills := make([]int, 0, len(c.modifiedExperience))
		for skill := range c.modifiedExperience {
			skills = append(skills, skill)
		}
		sort.Ints(skills)

		updates := make([]ExperienceUpdate, 0, len(skills))
		for _, skill := range skills {
			updates = append(updates, ExperienceUpdate{
				Skill:  skill,
				Gained: c.ExperienceGained(skill),
				Needed: c.ExperienceNeeded(skill),
			})
		}
		c.modifiedExperience = make(map[int]struct{})
		n.ExperienceChanged(c, updates)
	}

	if len(c.levelUps) > 0 {
		ups := c.levelUps
		c.levelUps = nil
		for _, up := range ups {
			n.LeveledUp(c, up)
		}
	}

	if c.updateLevelProgress {
		c.updateLevelProgress = false
		n.LevelProgressChanged(c, c.levelProgress)
	}
}

// DisconnectListener is notified when the character's client goes away.
type DisconnectListener interface {
	Disconnected(c *Character)
}

// RegisterDisconnectListener subscribes a listener. Registering the same
// listener twice is a no-op.
func (c *Character) RegisterDisconnectListener(l DisconnectListener) {
	for _, existing := range c.disconnectListeners {
		if existing == l {
			return
		}
	}
	c.disconnectListeners = append(c.disconnectListeners, l)
}

// RemoveDisconnectListener unsubscribes a listener.
func (c *Character) RemoveDisconnectListener(l DisconnectListener) {
	for i, existing := range c.disconnectListeners {
		if existing == l {
			c.disconnectListeners = append(
				c.disconnectListeners[:i], c.disconnectListeners[i+1:]...)
			return
		}
	}
}

// Disconnected informs all listeners. Iteration runs over a snapshot so a
// listener may remove itself (or others) while being notified.
func (c *Character) Disconnected() {
	snapshot := append([]DisconnectListener(nil), c.disconnectListeners...)
	for _, l := range snapshot {
		l.Disconnected(c)
	}
}
