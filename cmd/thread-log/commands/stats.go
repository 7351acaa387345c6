package commands

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/mash-protocol/mash-thread/pkg/log"
)

// Stats holds aggregate statistics about a log file.
type Stats struct {
	TotalEvents      int
	EventsByLayer    map[log.Layer]int
	EventsByCategory map[log.Category]int
	Attempts         map[string]*AttemptStats
	RoleChanges      int
	Errors           int
	TimeRange        struct {
		Start time.Time
		End   time.Time
	}
}

// AttemptStats holds statistics for a single attach attempt.
type AttemptStats struct {
	FirstSeen time.Time
	LastSeen  time.Time
	Events    int
	DeviceID  string

	// LastPhase is the latest attach phase seen for the attempt.
	LastPhase *log.AttachPhase
	Status    string
}

// RunStats analyzes the log file and prints statistics.
func RunStats(path string, w io.Writer) error {
	reader, err := log.NewReader(path)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	stats := &Stats{
		EventsByLayer:    make(map[log.Layer]int),
		EventsByCategory: make(map[log.Category]int),
		Attempts:         make(map[string]*AttemptStats),
	}

	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		stats.add(event)
	}

	printStats(w, stats)
	return nil
}

func (s *Stats) add(event log.Event) {
	s.TotalEvents++
	s.EventsByLayer[event.Layer]++
	s.EventsByCategory[event.Category]++

	if s.TimeRange.Start.IsZero() || event.Timestamp.Before(s.TimeRange.Start) {
		s.TimeRange.Start = event.Timestamp
	}
	if event.Timestamp.After(s.TimeRange.End) {
		s.TimeRange.End = event.Timestamp
	}

	if event.Role != nil {
		s.RoleChanges++
	}
	if event.Error != nil {
		s.Errors++
	}

	// Events outside an attempt are only counted globally.
	if event.AttemptID == "" {
		return
	}
	a, ok := s.Attempts[event.AttemptID]
	if !ok {
		a = &AttemptStats{
			FirstSeen: event.Timestamp,
			LastSeen:  event.Timestamp,
		}
		s.Attempts[event.AttemptID] = a
	}
	a.Events++
	if event.Timestamp.After(a.LastSeen) {
		a.LastSeen = event.Timestamp
	}
	if event.DeviceID != "" && a.DeviceID == "" {
		a.DeviceID = event.DeviceID
	}
	if event.Attach != nil {
		phase := event.Attach.Phase
		a.LastPhase = &phase
		if event.Attach.Status != "" {
			a.Status = event.Attach.Status
		}
	}
}

func printStats(w io.Writer, stats *Stats) {
	fmt.Fprintln(w, "=== Thread Log Statistics ===")
	fmt.Fprintln(w)

	if stats.TotalEvents > 0 {
		fmt.Fprintf(w, "Time Range: %s to %s\n",
			stats.TimeRange.Start.Format(time.RFC3339),
			stats.TimeRange.End.Format(time.RFC3339))
		fmt.Fprintf(w, "Duration:   %s\n", stats.TimeRange.End.Sub(stats.TimeRange.Start).Round(time.Second))
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Total Events: %d\n", stats.TotalEvents)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Events by Layer:")
	for _, layer := range []log.Layer{log.LayerNative, log.LayerManager, log.LayerDiscovery} {
		if count := stats.EventsByLayer[layer]; count > 0 {
			fmt.Fprintf(w, "  %-14s %d\n", layer.String()+":", count)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Events by Category:")
	for _, cat := range []log.Category{
		log.CategoryRole, log.CategoryConnectivity, log.CategoryProvisioning,
		log.CategoryService, log.CategoryAttach, log.CategoryError,
	} {
		if count := stats.EventsByCategory[cat]; count > 0 {
			fmt.Fprintf(w, "  %-14s %d\n", cat.String()+":", count)
		}
	}
	fmt.Fprintln(w)

	if stats.RoleChanges > 0 {
		fmt.Fprintf(w, "Role Changes: %d\n", stats.RoleChanges)
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Attach Attempts: %d\n", len(stats.Attempts))
	if len(stats.Attempts) > 0 {
		type attemptInfo struct {
			id    string
			stats *AttemptStats
		}
		attempts := make([]attemptInfo, 0, len(stats.Attempts))
		for id, as := range stats.Attempts {
			attempts = append(attempts, attemptInfo{id, as})
		}
		sort.Slice(attempts, func(i, j int) bool {
			return attempts[i].stats.FirstSeen.Before(attempts[j].stats.FirstSeen)
		})

		fmt.Fprintln(w)
		for _, a := range attempts {
			duration := a.stats.LastSeen.Sub(a.stats.FirstSeen).Round(time.Millisecond)
			fmt.Fprintf(w, "  [%s] %d events, duration %s\n", shortenID(a.id), a.stats.Events, duration)
			if a.stats.DeviceID != "" {
				fmt.Fprintf(w, "           Device: %s\n", a.stats.DeviceID)
			}
			if a.stats.LastPhase != nil {
				fmt.Fprintf(w, "           Phase: %s", *a.stats.LastPhase)
				if a.stats.Status != "" {
					fmt.Fprintf(w, " (%s)", a.stats.Status)
				}
				fmt.Fprintln(w)
			}
		}
	}

	if stats.Errors > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Errors: %d\n", stats.Errors)
	}
}
