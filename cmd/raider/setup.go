package main

import (
	"log/slog"
	"os"

	"github.com/spf13/viper"

	"github.com/digeex/raider/pkg/config"
	"github.com/digeex/raider/pkg/logging"
	"github.com/digeex/raider/pkg/session"
)

// loadProject reads the project file named by --project.
func loadProject() (*config.Project, error) {
	return config.Load(viper.GetString("project"))
}

// newSession wires a session from the global flags: transport config,
// user selection, event emitter, terminal prompter.
func newSession(project *config.Project) (*session.Session, func(), error) {
	users := session.NewUserStore(project.Users)
	if name := viper.GetString("user"); name != "" {
		if err := users.SetActiveByName(name); err != nil {
			return nil, nil, err
		}
	}

	opts := []session.Option{
		session.WithUsers(users),
		session.WithLogger(slog.Default()),
		session.WithPrompter(session.NewTerminalPrompter(os.Stdin, os.Stderr)),
	}

	cleanup := func() {}
	if path := viper.GetString("events"); path != "" {
		sink, err := logging.NewJSONLWriter(path)
		if err != nil {
			return nil, nil, err
		}
		emitter := logging.NewEmitter(logging.EmitterConfig{Project: project.BaseURL}, sink)
		opts = append(opts, session.WithEmitter(emitter))
		cleanup = func() { _ = emitter.Close() }
	}

	sess, err := session.New(session.Config{
		Proxy:     viper.GetString("proxy"),
		Verify:    viper.GetBool("verify"),
		UserAgent: viper.GetString("user-agent"),
	}, opts...)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	return sess, cleanup, nil
}

// openSlots opens the session snapshot database named by --session-db.
func openSlots() (*session.SlotStore, error) {
	return session.OpenSlotStore(viper.GetString("session-db"))
}
