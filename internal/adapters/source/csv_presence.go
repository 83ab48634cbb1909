// Package source contains the file-backed presence and directory loaders.
package source

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/mikey/presence-analyzer/internal/core"
	"go.uber.org/zap"
)

// CSVPresence loads punch data from a comma-delimited file with rows of the
// form user_id,YYYY-MM-DD,HH:MM:SS,HH:MM:SS.
type CSVPresence struct {
	path   string
	logger *zap.Logger
}

// NewCSVPresence creates a loader for the given file.
func NewCSVPresence(path string, logger *zap.Logger) *CSVPresence {
	return &CSVPresence{path: path, logger: logger}
}

// Path returns the source file path. Cache decorators use it as the entry key.
func (s *CSVPresence) Path() string {
	return s.path
}

// Load parses the punch file into a fresh index. Rows without exactly four
// fields are header or footer noise and skipped silently; four-field rows
// that fail to parse are skipped with a diagnostic. A malformed row never
// aborts the batch. Later rows for the same user and date overwrite earlier
// ones.
func (s *CSVPresence) Load(ctx context.Context) (core.PresenceIndex, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open presence file: %w", err)
	}
	defer f.Close()

	index := make(core.PresenceIndex)
	scanner := bufio.NewScanner(f)
	for row := 0; scanner.Scan(); row++ {
		fields := strings.Split(scanner.Text(), ",")
		if len(fields) != 4 {
			continue
		}

		userID, date, punch, err := parseRow(fields)
		if err != nil {
			s.logger.Debug("Skipping malformed punch row",
				zap.Int("row", row),
				zap.Error(err))
			continue
		}

		days, ok := index[userID]
		if !ok {
			days = make(map[core.Date]core.Punch)
			index[userID] = days
		}
		days[date] = punch
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read presence file: %w", err)
	}
	return index, nil
}

func parseRow(fields []string) (int, core.Date, core.Punch, error) {
	userID, err := strconv.Atoi(strings.TrimSpace(fields[0]))
	if err != nil {
		return 0, core.Date{}, core.Punch{}, fmt.Errorf("invalid user id %q: %w", fields[0], err)
	}
	date, err := core.ParseDate(fields[1])
	if err != nil {
		return 0, core.Date{}, core.Punch{}, err
	}
	start, err := core.ParseClockTime(fields[2])
	if err != nil {
		return 0, core.Date{}, core.Punch{}, err
	}
	end, err := core.ParseClockTime(fields[3])
	if err != nil {
		return 0, core.Date{}, core.Punch{}, err
	}
	return userID, date, core.Punch{Start: start, End: end}, nil
}
