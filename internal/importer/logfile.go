// Package importer reads plain-text weight/intake logs and sends them to the
// kcalm server. One log line per day:
//
//	2026-03-01 91.4 2250
//
// (date, weight in kg, intake in kcal). A line of the form "gw 85" sets the
// goal weight. Unparseable lines are skipped, not fatal.
package importer

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/meltforce/kcalm/internal/models"
)

// LogEntry is one parsed day line.
type LogEntry struct {
	Date     models.Date
	WeightKg float64
	Kcal     float64
}

// ParsedLog is the outcome of parsing one log file.
type ParsedLog struct {
	Entries      []LogEntry
	GoalWeightKg *float64
	SkippedLines int
}

// ParseLog reads a plain-text log. Entries come back sorted by date; the last
// valid "gw" line wins.
func ParseLog(r io.Reader) (*ParsedLog, error) {
	p := &ParsedLog{}
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)

		if len(fields) == 2 && fields[0] == "gw" {
			gw, err := strconv.ParseFloat(fields[1], 64)
			if err != nil || gw < 0 {
				p.SkippedLines++
				continue
			}
			p.GoalWeightKg = &gw
			continue
		}

		if len(fields) != 3 {
			p.SkippedLines++
			continue
		}
		date, err := models.ParseDate(fields[0])
		if err != nil {
			p.SkippedLines++
			continue
		}
		weight, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			p.SkippedLines++
			continue
		}
		kcal, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			p.SkippedLines++
			continue
		}
		p.Entries = append(p.Entries, LogEntry{Date: date, WeightKg: weight, Kcal: kcal})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading log: %w", err)
	}
	sort.Slice(p.Entries, func(i, j int) bool { return p.Entries[i].Date.Before(p.Entries[j].Date.Time) })
	return p, nil
}

// Payload converts the parsed log into an ingest batch. Weights become manual
// samples, intake goes to the food log, and the goal weight (if any) is dated
// with the last entry's date.
func (p *ParsedLog) Payload() models.IngestPayload {
	var data models.IngestData
	for _, e := range p.Entries {
		data.Weight = append(data.Weight, models.WeightEntry{
			Date:   e.Date,
			Kg:     e.WeightKg,
			Source: models.WeightSourceManualEntry,
		})
		data.FoodLog = append(data.FoodLog, models.EnergyEntry{Date: e.Date, Kcal: e.Kcal})
	}
	if p.GoalWeightKg != nil {
		date := models.Today()
		if n := len(p.Entries); n > 0 {
			date = p.Entries[n-1].Date
		}
		data.Biometrics = append(data.Biometrics, models.BiometricEntry{
			Date:  date,
			Kind:  models.KindGoalWeight,
			Value: p.GoalWeightKg,
		})
	}
	return models.IngestPayload{Data: data}
}
