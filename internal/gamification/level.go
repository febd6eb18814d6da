package gamification

// xpPerLevel is the fixed width of every level band.
const xpPerLevel = 100

// Level is the authoritative level function: floor(xp/100)+1. Negative XP
// is clamped to 0 so the function is total. Any stored current_level column
// is a cache of this.
func Level(xp int) int {
	if xp < 0 {
		xp = 0
	}
	return xp/xpPerLevel + 1
}

// XPIntoLevel returns how far into the current level the XP total sits.
func XPIntoLevel(xp int) int {
	if xp < 0 {
		xp = 0
	}
	return xp % xpPerLevel
}

// XPToNextLevel returns the XP remaining until the next level boundary.
// XPIntoLevel(xp) + XPToNextLevel(xp) == 100 for all xp.
func XPToNextLevel(xp int) int {
	return xpPerLevel - XPIntoLevel(xp)
}

// CappedLevel applies the configured ceiling. maxLevel <= 0 means no cap.
func CappedLevel(xp, maxLevel int) int {
	level := Level(xp)
	if maxLevel > 0 && level > maxLevel {
		return maxLevel
	}
	return level
}
