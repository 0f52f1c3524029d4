// Package workbook ties a store to its directory: it loads the
// collections, writes them back after each change, appends to the
// activity log and, when enabled, commits the change to git.
package workbook

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/cleared-dev/ledgerdash/internal/accounts"
	"github.com/cleared-dev/ledgerdash/internal/activity"
	"github.com/cleared-dev/ledgerdash/internal/config"
	"github.com/cleared-dev/ledgerdash/internal/gitops"
	"github.com/cleared-dev/ledgerdash/internal/id"
	"github.com/cleared-dev/ledgerdash/internal/importer"
	"github.com/cleared-dev/ledgerdash/internal/insights"
	"github.com/cleared-dev/ledgerdash/internal/logger"
	"github.com/cleared-dev/ledgerdash/internal/store"
)

// ErrNotWorkbook is returned by Open for a directory without ledgerdash.yaml.
var ErrNotWorkbook = errors.New("not a ledgerdash workbook")

// Workbook is an open workbook directory.
type Workbook struct {
	Dir    string
	Config *config.Config
	Store  *store.Store

	// Actor is recorded in the activity log for changes without one.
	Actor string

	mu  sync.Mutex
	ids *id.Generator
	log zerolog.Logger
}

// Open loads the workbook at dir. Environment overrides are applied to the
// loaded config.
func Open(dir string) (*Workbook, error) {
	return open(dir, id.NewGenerator())
}

func open(dir string, ids *id.Generator) (*Workbook, error) {
	cfg, err := config.Load(config.Path(dir))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w (run ledgerdash init)", dir, ErrNotWorkbook)
	}
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv()

	st, err := store.Load(dir, ids)
	if err != nil {
		return nil, fmt.Errorf("loading workbook: %w", err)
	}

	return &Workbook{
		Dir:    dir,
		Config: cfg,
		Store:  st,
		Actor:  "cli",
		ids:    ids,
		log:    logger.WithComponent("workbook"),
	}, nil
}

// Create lays out a new workbook at dir with the default chart of
// accounts, the built-in insights and an initial git commit.
func Create(dir, name, entityType string) (*Workbook, error) {
	return create(dir, name, entityType, id.NewGenerator())
}

func create(dir, name, entityType string, ids *id.Generator) (*Workbook, error) {
	dirs := []string{
		"accounts",
		"crm",
		"ledger",
		"invoices",
		"kpis",
		"logs",
		importer.Dir,
		importer.ProcessedDir,
	}
	for _, d := range dirs {
		if err := os.MkdirAll(filepath.Join(dir, d), 0o755); err != nil {
			return nil, fmt.Errorf("creating directory %s: %w", d, err)
		}
	}

	cfg := config.Default(name, entityType)
	if err := config.Save(config.Path(dir), cfg); err != nil {
		return nil, fmt.Errorf("writing config: %w", err)
	}

	builtin := insights.Builtin()
	data, err := insights.Marshal(builtin)
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(filepath.Join(dir, insights.File), data, 0o644); err != nil {
		return nil, fmt.Errorf("writing insights: %w", err)
	}

	if err := os.WriteFile(filepath.Join(dir, importer.Dir, ".gitkeep"), []byte{}, 0o644); err != nil {
		return nil, fmt.Errorf("writing .gitkeep: %w", err)
	}

	st := store.NewFromSnapshot(ids, store.Snapshot{
		Accounts: accounts.DefaultChart(entityType, ids.Now()),
		Insights: builtin,
	})
	cfg.ApplyEnv()
	w := &Workbook{
		Dir:    dir,
		Config: cfg,
		Store:  st,
		Actor:  "cli",
		ids:    ids,
		log:    logger.WithComponent("workbook"),
	}

	if err := gitops.Init(dir); err != nil {
		return nil, err
	}
	if err := w.Record(activity.ActionInit, "workbook", "", "Initialize "+name); err != nil {
		return nil, err
	}
	return w, nil
}

// Record saves the store and logs a change to entity. The change is
// committed when git.auto_commit is set, and always for init.
func (w *Workbook) Record(action, entity, entityID, details string) error {
	return w.Commit(activity.Entry{
		Action:   action,
		Entity:   entity,
		EntityID: entityID,
		Details:  details,
	})
}

// Commit is Record with a full activity entry. Empty Timestamp and Actor
// are filled in.
func (w *Workbook) Commit(e activity.Entry) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if e.Timestamp.IsZero() {
		e.Timestamp = w.ids.Now().UTC().Truncate(time.Second)
	}
	if e.Actor == "" {
		e.Actor = w.Actor
	}

	if err := w.Store.Save(w.Dir); err != nil {
		return fmt.Errorf("saving workbook: %w", err)
	}
	if err := activity.Append(w.Dir, e); err != nil {
		return fmt.Errorf("writing activity log: %w", err)
	}

	w.log.Debug().
		Str("action", e.Action).
		Str("entity", e.Entity).
		Str("entity_id", e.EntityID).
		Msg("recorded change")

	if !gitops.IsRepo(w.Dir) || (!w.Config.Git.AutoCommit && e.Action != activity.ActionInit) {
		return nil
	}
	repo := gitops.Repo{Dir: w.Dir, AuthorName: w.Config.Git.AuthorName, AuthorEmail: w.Config.Git.AuthorEmail}
	msg := e.CommitMessage()
	if e.Details != "" {
		msg += " (" + e.Details + ")"
	}
	hash, err := repo.CommitAll(msg)
	if err != nil {
		return fmt.Errorf("committing change: %w", err)
	}
	if hash != "" {
		w.log.Debug().Str("commit", hash).Msg("committed change")
	}
	return nil
}

// Activity returns the most recent n activity entries, newest first.
func (w *Workbook) Activity(n int) ([]activity.Entry, error) {
	entries, err := activity.Read(w.Dir)
	if err != nil {
		return nil, err
	}
	return activity.Recent(entries, n), nil
}
