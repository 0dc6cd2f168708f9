// Package screens holds what every screen of the quiz TUI shares.
package screens

import (
	"log/slog"

	"github.com/abhisek/quizmind/internal/config"
	"github.com/abhisek/quizmind/internal/quiz"
	"github.com/abhisek/quizmind/internal/session"
	"github.com/abhisek/quizmind/internal/store"
)

// Deps is shared by pointer between screens. The profile screen updates
// User in place.
type Deps struct {
	// Session is the template for each quiz's state machine. UserID is
	// filled in from User when a quiz starts.
	Session session.Config

	// Sessions reads quiz history. Nil when no store is configured.
	Sessions store.SessionRepo

	User config.UserConfig

	DefaultTopic      quiz.Topic
	DefaultDifficulty quiz.Difficulty

	// SaveProfile persists a player name and returns the stored user.
	// Nil disables the profile prompt.
	SaveProfile func(name string) (config.UserConfig, error)

	Logger *slog.Logger
}

// NewMachine returns a state machine for the current user.
func (d *Deps) NewMachine() *session.Machine {
	cfg := d.Session
	cfg.UserID = d.User.ID
	if cfg.Logger == nil {
		cfg.Logger = d.Logger
	}
	return session.New(cfg)
}

// HasHistory reports whether past quizzes can be listed.
func (d *Deps) HasHistory() bool {
	return d.Sessions != nil && d.User.ID != ""
}

// Log returns the configured logger or the default one.
func (d *Deps) Log() *slog.Logger {
	if d.Logger != nil {
		return d.Logger
	}
	return slog.Default()
}
