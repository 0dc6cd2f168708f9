package quiz

import "math"

// Summary aggregates a session's answers. It is derived on demand and
// never stored.
type Summary struct {
	TotalAnswered         int
	Correct               int
	Wrong                 int
	AverageSeconds        int
	Accuracy              int
	DifficultyProgression []Difficulty
	Topic                 Topic
	DurationSeconds       int
}

// Summarize computes the summary of s. It works mid-session as well as
// on a finished session.
func Summarize(s *Session) Summary {
	sum := Summary{
		Topic:                 s.Topic,
		DifficultyProgression: make([]Difficulty, 0, len(s.Answers)),
	}

	for _, a := range s.Answers {
		if a.IsCorrect {
			sum.Correct++
		}
		sum.DurationSeconds += a.ElapsedSeconds
		sum.DifficultyProgression = append(sum.DifficultyProgression, a.Difficulty)
	}

	sum.TotalAnswered = len(s.Answers)
	sum.Wrong = sum.TotalAnswered - sum.Correct

	if sum.TotalAnswered > 0 {
		n := float64(sum.TotalAnswered)
		sum.AverageSeconds = int(math.Round(float64(sum.DurationSeconds) / n))
		sum.Accuracy = Percent(sum.Correct, sum.TotalAnswered)
	}

	return sum
}

// Percent returns part/total as a rounded whole percentage, 0 when total is 0.
func Percent(part, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(total) * 100))
}
