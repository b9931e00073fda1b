package game

// Scoreboard holds the score and the round countdown.
type Scoreboard struct {
	Score    int
	TimeLeft int // Seconds
}

// NewScoreboard returns a scoreboard at the start of a round.
func NewScoreboard() Scoreboard {
	return Scoreboard{TimeLeft: RoundSeconds}
}

// AddScore adds n points. Negative n is ignored so the score never drops.
func (s *Scoreboard) AddScore(n int) {
	if n > 0 {
		s.Score += n
	}
}

// Tick counts down one second. Returns true when the countdown has run out.
func (s *Scoreboard) Tick() (over bool) {
	if s.TimeLeft <= 1 {
		s.TimeLeft = 0
		return true
	}
	s.TimeLeft--
	return false
}

// Reset restores the start-of-round values.
func (s *Scoreboard) Reset() {
	*s = NewScoreboard()
}
