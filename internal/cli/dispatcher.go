package cli

import (
	"fmt"
	"path/filepath"

	"github.com/soyeahso/octomcp/internal/config"
	"github.com/soyeahso/octomcp/internal/github"
	"github.com/soyeahso/octomcp/internal/logging"
	"github.com/soyeahso/octomcp/internal/store"
	"github.com/soyeahso/octomcp/internal/tools"
)

// buildDispatcher assembles the dispatch pipeline from config: the GitHub
// client, the optional audit log, and the tool registry. The returned
// cleanup closes the audit database (a no-op when auditing is off).
func buildDispatcher(cfg config.Config, lg *logging.Logger) (*tools.Dispatcher, func(), error) {
	issues := config.Validate(&cfg)
	if len(issues) > 0 {
		for _, issue := range issues {
			lg.Error().Str("path", issue.Path).Msg(issue.Message)
		}
		return nil, nil, fmt.Errorf("config validation failed with %d issue(s)", len(issues))
	}

	client, err := github.New(cfg.GitHub, lg.Sub("github"))
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {}
	var audit *store.AuditLog
	if cfg.Audit.Enabled {
		dbPath := cfg.Audit.Path
		if dbPath == "" {
			dbPath = filepath.Join(paths.Data, "audit.db")
		}
		db, err := store.Open(dbPath, lg)
		if err != nil {
			return nil, nil, fmt.Errorf("opening audit database: %w", err)
		}
		audit = store.NewAuditLog(db, lg)
		cleanup = func() { db.Close() }
	}

	return tools.NewDispatcher(tools.NewRegistry(), client, audit, lg), cleanup, nil
}
