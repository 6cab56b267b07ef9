package session

import "time"

// Config holds all tunable parameters for the session lifecycle.
type Config struct {
	// InactivityTimeout is how long the session may go without any
	// activity before the countdown starts.
	InactivityTimeout time.Duration

	// CountdownSeconds is the length of the countdown overlay before
	// the redirect fires.
	CountdownSeconds int

	// TickInterval is the countdown tick period.
	TickInterval time.Duration

	// MaxStillFrames is how many consecutive frames without detected
	// movement trigger the countdown directly, without waiting for the
	// inactivity deadline.
	MaxStillFrames int

	// RedirectURL is the absolute URL navigated to when the countdown
	// reaches zero.
	RedirectURL string
}

// DefaultConfig returns the recommended session lifecycle configuration.
func DefaultConfig() Config {
	return Config{
		InactivityTimeout: 3 * time.Minute,
		CountdownSeconds:  5,
		TickInterval:      time.Second,
		MaxStillFrames:    150, // ~5s of stillness at 30fps
		RedirectURL:       "",
	}
}
