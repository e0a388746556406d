package engine

// PlacementOutcome maps a placement raw score to a starting state.
type PlacementOutcome struct {
	Score           int
	LevelLabel      string
	XPGranted       int
	ModulesUnlocked int
}

type placementBucket struct {
	minScore        int
	maxScore        int
	label           string
	xpGranted       int
	modulesUnlocked int
}

// Inclusive score ranges, checked in order. Anything outside every range
// falls back to the first bucket.
var placementBuckets = []placementBucket{
	{0, 2, "Beginner", 0, 1},
	{3, 4, "Knows Basics", 150, 3},
	{5, 6, "Intermediate", 375, 5},
	{7, 8, "Advanced", 700, 7},
	{9, 10, "Expert", 1125, 9},
}

// ClassifyPlacement buckets a raw placement score. The granted XP is an
// absolute starting amount (set, not added) and ModulesUnlocked counts
// modules unlocked from the front of the curriculum order.
func ClassifyPlacement(score int) PlacementOutcome {
	for _, b := range placementBuckets {
		if score >= b.minScore && score <= b.maxScore {
			return PlacementOutcome{
				Score:           score,
				LevelLabel:      b.label,
				XPGranted:       b.xpGranted,
				ModulesUnlocked: b.modulesUnlocked,
			}
		}
	}
	first := placementBuckets[0]
	return PlacementOutcome{
		Score:           score,
		LevelLabel:      first.label,
		XPGranted:       first.xpGranted,
		ModulesUnlocked: first.modulesUnlocked,
	}
}
