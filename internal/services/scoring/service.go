package scoring

import "github.com/mcoot/fivesgame-go/internal/model"

// PointsPerSum is the multiplier applied to each scoring line's tile sum
const PointsPerSum = 10

// Service computes turn scores from validated scoring lines
type Service struct{}

// New creates a new scoring service
func New() *Service {
	return &Service{}
}

// LineScore returns the points awarded for one scoring line
func (s *Service) LineScore(line model.Line) int {
	return PointsPerSum * line.Sum()
}

// TurnScore returns the total points for a committed batch. Each scoring
// line counts once; a tile shared between two lines contributes to both
// line sums.
func (s *Service) TurnScore(lines []model.Line) int {
	total := 0
	for _, line := range lines {
		total += s.LineScore(line)
	}
	return total
}

// ReachedWinningScore reports whether a score meets the game's threshold
func (s *Service) ReachedWinningScore(score, winningScore int) bool {
	return winningScore > 0 && score >= winningScore
}

// Leader returns the address with the highest score, or empty on a tie.
// Scores is parallel to players.
func (s *Service) Leader(players []model.Address, scores []int) model.Address {
	if len(players) == 0 || len(players) != len(scores) {
		return ""
	}

	best := 0
	tied := false
	for i := 1; i < len(scores); i++ {
		if scores[i] > scores[best] {
			best = i
			tied = false
		} else if scores[i] == scores[best] {
			tied = true
		}
	}
	if tied {
		return ""
	}
	return players[best]
}
