// Command privacyd runs the privacy/blocking/invisibility core as a
// standalone daemon: a sqlite-backed ListStore, an in-memory
// RosterStore, and the C3-C7 components wired together. A real
// deployment embeds internal/pipeline.Hooks and internal/command.Handler
// into an XMPP server's stanza-processing chain instead; this binary
// exists to prove the wiring compiles and to give operators something
// to point optional backend plugins at.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/meszmate/privacy/internal/cache"
	"github.com/meszmate/privacy/internal/command"
	"github.com/meszmate/privacy/internal/config"
	"github.com/meszmate/privacy/internal/disco"
	"github.com/meszmate/privacy/internal/engine"
	"github.com/meszmate/privacy/internal/logging"
	"github.com/meszmate/privacy/internal/pipeline"
	"github.com/meszmate/privacy/internal/presence"
	"github.com/meszmate/privacy/internal/rosterstore"
	"github.com/meszmate/privacy/internal/sideeffect"
	"github.com/meszmate/privacy/internal/storage/sqlite"
	"github.com/meszmate/privacy/internal/store"
	"github.com/meszmate/privacy/pkg/plugin"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := logging.New(logging.Config{
		Level:   cfg.Logging.Level,
		File:    cfg.Logging.File,
		Console: cfg.Logging.Console,
	})
	if err != nil {
		log.Fatalf("failed to init logging: %v", err)
	}
	defer logger.Close()

	db, err := sqlite.Open(cfg.Storage.Path, cfg.General.DataDir)
	if err != nil {
		logger.Error("failed to open storage: %v", err)
		os.Exit(1)
	}
	defer db.Close()

	var listStore store.ListStore = db
	var rosterStore store.RosterStore = rosterstore.New()
	sessions := newSessionRegistry()
	var sessionDir store.SessionDirectory = sessions

	backends := plugin.NewHost(cfg.General.DataDir)
	if err := backends.LoadEnabled(cfg.Backend.PluginDir, cfg.Backend.Enabled); err != nil {
		logger.Warn("backend plugin load failed: %v", err)
	}
	defer backends.UnloadAll()
	for _, lb := range backends.List() {
		logger.Info("loaded backend %s v%s", lb.Name, lb.Version)
		if lb.Lists != nil {
			listStore = lb.Lists
		}
		if lb.Roster != nil {
			rosterStore = lb.Roster
		}
		if lb.Sessions != nil {
			sessionDir = lb.Sessions
		}
	}

	listCache := cache.New()
	presenceTracker := presence.NewTracker()

	emitter := &sideeffect.Emitter{
		Router:   sessions,
		Sessions: sessionDir,
		Roster:   rosterStore,
		Cache:    listCache,
	}
	handler := &command.Handler{
		Cache:   listCache,
		Store:   listStore,
		Emitter: emitter,
	}
	hooks := &pipeline.Hooks{
		Cache:  listCache,
		Store:  listStore,
		Roster: engine.SyncSource{Roster: rosterStore},
	}

	engineLog := logger.With("engine")
	engineLog.Info("privacy core ready for domain %s (data dir %s)", cfg.General.Domain, cfg.General.DataDir)
	for _, f := range disco.Features() {
		engineLog.Debug("advertising disco feature %s", f)
	}

	// handler, hooks and presenceTracker are the three entry points a
	// host wires into its stanza-processing chain: hooks.Ingress/Egress/
	// Deliver for the match-engine path (§4.6), handler.Query/Set/Block/
	// Unblock/Invisible/Visible for admin IQs (§4.5), and
	// presenceTracker.MarkPresent/PastInitial to track initial presence
	// per bound session. Exposing them here as local variables (rather
	// than exiting immediately) documents that contract; a host
	// embedding this package never runs this main function at all.
	_ = handler
	_ = hooks
	_ = presenceTracker

	fmt.Println("privacyd: core initialized, no transport attached")
}
