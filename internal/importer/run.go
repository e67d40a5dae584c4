package importer

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Stats accumulates counters for one import run.
type Stats struct {
	FilesTotal    int
	FilesImported int
	FilesSkipped  int
	FilesErrored  int
	EntriesSent   int
	DaysDirty     int
}

// Importer walks a directory of plain-text logs and sends each new or changed
// file to the server.
type Importer struct {
	client *Client
	state  *StateDB
	dir    string
	dryRun bool
	log    *slog.Logger
}

// New creates an Importer. client may be nil in dry-run mode.
func New(client *Client, state *StateDB, dir string, dryRun bool, log *slog.Logger) *Importer {
	return &Importer{client: client, state: state, dir: dir, dryRun: dryRun, log: log}
}

// Run imports every .txt and .log file under the directory. Per-file failures
// are counted and logged; only a directory walk failure aborts the run.
func (im *Importer) Run() (*Stats, error) {
	stats := &Stats{}

	err := filepath.WalkDir(im.dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		if ext != ".txt" && ext != ".log" {
			return nil
		}
		stats.FilesTotal++
		if err := im.importFile(path, stats); err != nil {
			stats.FilesErrored++
			im.log.Error("import failed", "file", path, "error", err)
		}
		return nil
	})
	if err != nil {
		return stats, fmt.Errorf("walking %s: %w", im.dir, err)
	}
	return stats, nil
}

func (im *Importer) importFile(path string, stats *Stats) error {
	rel, err := filepath.Rel(im.dir, path)
	if err != nil {
		rel = path
	}

	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	hash, err := HashFile(path)
	if err != nil {
		return fmt.Errorf("hashing: %w", err)
	}

	done, err := im.state.IsImported(rel, info.Size(), hash)
	if err != nil {
		return fmt.Errorf("checking state: %w", err)
	}
	if done {
		stats.FilesSkipped++
		return nil
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	parsed, err := ParseLog(f)
	f.Close()
	if err != nil {
		return err
	}
	if parsed.SkippedLines > 0 {
		im.log.Warn("skipped unparseable lines", "file", rel, "lines", parsed.SkippedLines)
	}
	if len(parsed.Entries) == 0 && parsed.GoalWeightKg == nil {
		stats.FilesSkipped++
		return nil
	}

	if im.dryRun {
		im.log.Info("dry run, not sending", "file", rel, "entries", len(parsed.Entries))
		stats.EntriesSent += len(parsed.Entries)
		return nil
	}

	result, err := im.client.SendPayload(parsed.Payload())
	if err != nil {
		return err
	}
	stats.FilesImported++
	stats.EntriesSent += len(parsed.Entries)
	stats.DaysDirty += result.DaysDirty
	im.log.Info("imported", "file", rel, "entries", len(parsed.Entries), "days_dirty", result.DaysDirty)

	return im.state.MarkImported(rel, info.Size(), hash)
}
