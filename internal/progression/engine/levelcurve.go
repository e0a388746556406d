package engine

import "math"

// XPForLevel returns the cumulative XP threshold for reaching a level:
// floor(100 * n^1.5).
func XPForLevel(level int) int {
	if level <= 0 {
		return 0
	}
	return int(math.Floor(100 * math.Pow(float64(level), 1.5)))
}

// LevelFromXP derives the level for a total XP amount. Level 1 is the
// floor: 0 XP is level 1, never level 0.
func LevelFromXP(totalXP int) int {
	level := 1
	for XPForLevel(level+1) <= totalXP {
		level++
	}
	return level
}

// XPToNextLevel returns how much XP is still needed to reach the next level.
func XPToNextLevel(totalXP, level int) int {
	return XPForLevel(level+1) - totalXP
}
