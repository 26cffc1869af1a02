// Package manager provides rulebook loading, registration, and hot reload.
//
// The manager coordinates three components:
//
//   - RulebookLoader reads rulebook files from disk (single file or
//     directory) with size and encoding validation.
//   - ClauseRegistry stores loaded clauses with atomic whole-set
//     replacement and a content-derived version hash.
//   - An fsnotify-backed watcher follows the source for changes and
//     debounces reloads; Watch drives it.
//
// # Basic Usage
//
//	mgr, err := manager.NewRulebookManager(&manager.Config{
//	    Path:         "rulebooks/",
//	    WatchEnabled: true,
//	}, parser.NewParser(), logger)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	if err := mgr.Load(); err != nil {
//	    log.Fatal(err)
//	}
//
//	clause, ok := mgr.Clause("TRAVEL_001")
//
// # Hot Reload
//
// Watch blocks until the context is cancelled and reloads clauses whenever
// a watched file changes:
//
//	go func() {
//	    if err := mgr.Watch(ctx); err != nil {
//	        logger.Error("watch failed", "error", err)
//	    }
//	}()
//
// Reloads are atomic. If a changed file fails to parse, the previously
// loaded clause set stays active and the error is logged and retained for
// inspection via LastLoadError.
package manager
