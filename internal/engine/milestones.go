package engine

// milestoneMessages holds the one-time advisory shown when a piece first reaches a row
var milestoneMessages = map[int]string{
	4: "Nice start! The journey has just begun.",
	3: "Making progress! You're getting the hang of this.",
	2: "Impressive! You are a natural strategist.",
	1: "The summit awaits! One more push to victory!",
	0: "VICTORY! You have conquered the board!",
}

// VictoryRow is the goal row; reaching it wins the game
const VictoryRow = 0

// MilestoneMessage returns the advisory for a newly reached row
func MilestoneMessage(row int) (string, bool) {
	msg, ok := milestoneMessages[row]
	return msg, ok
}
