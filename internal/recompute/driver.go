// Package recompute orchestrates the aggregation pipeline: ledger -> points
// aggregation -> team rollup -> ranking -> leaderboard materialization.
package recompute

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"teamfit-tracker/internal/aggregate"
	"teamfit-tracker/internal/database"
	"teamfit-tracker/internal/metrics"
	"teamfit-tracker/internal/ranking"
)

// State is the driver's pipeline phase
type State string

const (
	StateIdle          State = "idle"
	StateAggregating   State = "aggregating"
	StateRanking       State = "ranking"
	StateMaterializing State = "materializing"
	StateFailed        State = "failed"
)

var stateGaugeValues = map[State]float64{
	StateIdle:          0,
	StateAggregating:   1,
	StateRanking:       2,
	StateMaterializing: 3,
	StateFailed:        4,
}

// Driver runs recomputations with single-flight semantics: at most one run is
// in flight, and triggers arriving during a run are coalesced into pending
// state that the same goroutine drains afterwards. The run that picks up a
// coalesced trigger always reads the latest ledger state, so multiple rapid
// writes produce a single recomputation reflecting all of them.
type Driver struct {
	db     *database.DB
	points *aggregate.PointsAggregator
	teams  *aggregate.TeamAggregator
	logger *slog.Logger

	// now stamps all entries of one run with a shared logical time
	now func() time.Time

	mu            sync.Mutex
	cond          *sync.Cond
	running       bool
	closed        bool
	pendingFull   bool
	pendingEmails map[string]struct{}
	state         State
	completedRuns int64

	wg sync.WaitGroup
}

// NewDriver creates a recomputation driver for the given database
func NewDriver(db *database.DB) *Driver {
	d := &Driver{
		db:     db,
		points: aggregate.NewPointsAggregator(db),
		teams:  aggregate.NewTeamAggregator(db),
		logger: slog.Default(),
		now:    time.Now,
		state:  StateIdle,
	}
	d.cond = sync.NewCond(&d.mu)
	return d
}

// TriggerFull schedules a full recomputation across all participants and
// teams. Safe to invoke repeatedly; invocations during an active run coalesce
// into a single pending rebuild.
func (d *Driver) TriggerFull() {
	d.trigger(true, nil)
}

// TriggerParticipants schedules an incremental recomputation scoped to the
// given participant identities. Ranking and materialization still cover the
// full scope, since one change can shift any other subject's rank.
func (d *Driver) TriggerParticipants(emails ...string) {
	if len(emails) == 0 {
		return
	}
	d.trigger(false, emails)
}

func (d *Driver) trigger(full bool, emails []string) {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}

	if full {
		d.pendingFull = true
		// A full rebuild supersedes queued incremental work
		d.pendingEmails = nil
	} else if !d.pendingFull {
		if d.pendingEmails == nil {
			d.pendingEmails = make(map[string]struct{})
		}
		for _, email := range emails {
			d.pendingEmails[email] = struct{}{}
		}
	}

	if d.running {
		metrics.RecomputeCoalescedTotal.Inc()
		d.mu.Unlock()
		return
	}

	d.running = true
	d.mu.Unlock()

	d.wg.Add(1)
	go d.drain()
}

// drain executes runs until no pending work remains
func (d *Driver) drain() {
	defer d.wg.Done()

	for {
		d.mu.Lock()
		full := d.pendingFull
		emails := d.pendingEmails
		d.pendingFull = false
		d.pendingEmails = nil
		if !full && len(emails) == 0 {
			d.running = false
			d.cond.Broadcast()
			d.mu.Unlock()
			return
		}
		d.mu.Unlock()

		trigger := metrics.TriggerIncremental
		if full {
			trigger = metrics.TriggerFull
		}

		start := time.Now()
		err := d.runOnce(full, emails)
		duration := time.Since(start)

		if err != nil {
			d.logger.Error("Recomputation failed, previous leaderboard left in place",
				"trigger", trigger, "error", err)
			metrics.RecomputeRunsTotal.WithLabelValues(trigger, metrics.ResultFailure).Inc()
		} else {
			d.logger.Info("Recomputation complete",
				"trigger", trigger, "duration", duration)
			metrics.RecomputeRunsTotal.WithLabelValues(trigger, metrics.ResultSuccess).Inc()
		}
		metrics.RecomputeDuration.WithLabelValues(trigger).Observe(duration.Seconds())

		d.mu.Lock()
		d.completedRuns++
		d.cond.Broadcast()
		d.mu.Unlock()
	}
}

// runOnce executes one pass through the pipeline. Any error abandons the run
// wholesale; nothing partial is materialized.
func (d *Driver) runOnce(full bool, emails map[string]struct{}) error {
	d.setState(StateAggregating)

	var err error
	if full {
		_, err = d.points.AggregateAll()
	} else {
		scoped := make([]string, 0, len(emails))
		for email := range emails {
			scoped = append(scoped, email)
		}
		_, err = d.points.AggregateParticipants(scoped)
	}
	if err != nil {
		d.fail()
		return fmt.Errorf("points aggregation: %w", err)
	}

	// Team rollup reads the participant totals written above
	if _, err := d.teams.AggregateAll(); err != nil {
		d.fail()
		return fmt.Errorf("team aggregation: %w", err)
	}

	d.setState(StateRanking)

	participants, err := d.db.ListParticipants(database.ParticipantFilter{})
	if err != nil {
		d.fail()
		return fmt.Errorf("listing participants for ranking: %w", err)
	}
	teams, err := d.db.ListTeams(database.TeamFilter{})
	if err != nil {
		d.fail()
		return fmt.Errorf("listing teams for ranking: %w", err)
	}

	byEmail := make(map[string]*database.Participant, len(participants))
	individualSubjects := make([]ranking.Subject, 0, len(participants))
	for _, p := range participants {
		byEmail[p.Email] = p
		individualSubjects = append(individualSubjects, ranking.Subject{
			Key:    p.Email,
			Name:   p.Name,
			Points: p.TotalPoints,
		})
	}

	teamSubjects := make([]ranking.Subject, 0, len(teams))
	for _, t := range teams {
		teamSubjects = append(teamSubjects, ranking.Subject{
			Key:    t.Name,
			Name:   t.Name,
			Points: t.TotalPoints,
		})
	}

	rankedIndividuals := ranking.Rank(individualSubjects)
	rankedTeams := ranking.Rank(teamSubjects)

	d.setState(StateMaterializing)

	stamp := d.now().Unix()

	individualEntries := make([]*database.LeaderboardEntry, 0, len(rankedIndividuals))
	for _, r := range rankedIndividuals {
		entry := &database.LeaderboardEntry{
			Scope:       database.ScopeIndividual,
			Name:        r.Name,
			Email:       r.Key,
			Points:      r.Points,
			Rank:        r.Rank,
			LastUpdated: stamp,
		}
		if p, ok := byEmail[r.Key]; ok {
			entry.Team = p.Team
		}
		individualEntries = append(individualEntries, entry)
	}

	teamEntries := make([]*database.LeaderboardEntry, 0, len(rankedTeams))
	for _, r := range rankedTeams {
		teamEntries = append(teamEntries, &database.LeaderboardEntry{
			Scope:       database.ScopeTeam,
			Name:        r.Name,
			Points:      r.Points,
			Rank:        r.Rank,
			LastUpdated: stamp,
		})
	}

	if err := d.db.ReplaceLeaderboard(database.ScopeIndividual, individualEntries); err != nil {
		d.fail()
		return fmt.Errorf("materializing individual leaderboard: %w", err)
	}
	if err := d.db.ReplaceLeaderboard(database.ScopeTeam, teamEntries); err != nil {
		d.fail()
		return fmt.Errorf("materializing team leaderboard: %w", err)
	}

	metrics.LeaderboardEntries.WithLabelValues(string(database.ScopeIndividual)).Set(float64(len(individualEntries)))
	metrics.LeaderboardEntries.WithLabelValues(string(database.ScopeTeam)).Set(float64(len(teamEntries)))

	d.setState(StateIdle)
	return nil
}

func (d *Driver) setState(s State) {
	d.mu.Lock()
	d.state = s
	d.mu.Unlock()
	metrics.RecomputeState.Set(stateGaugeValues[s])
}

// fail records the failed transition, then returns the driver to idle so the
// next trigger can start a fresh run
func (d *Driver) fail() {
	d.setState(StateFailed)
	d.setState(StateIdle)
}

// State returns the driver's current pipeline phase
func (d *Driver) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// CompletedRuns returns the number of finished recomputations, including
// failed ones
func (d *Driver) CompletedRuns() int64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.completedRuns
}

// Wait blocks until no run is in flight and no pending work remains
func (d *Driver) Wait() {
	d.mu.Lock()
	defer d.mu.Unlock()
	for d.running || d.pendingFull || len(d.pendingEmails) > 0 {
		d.cond.Wait()
	}
}

// RebuildAndWait triggers a full recomputation and blocks until the driver is
// idle again. Used by the CLI rebuild path and the seeder.
func (d *Driver) RebuildAndWait() {
	d.TriggerFull()
	d.Wait()
}

// Close rejects further triggers and waits for any in-flight run to finish
func (d *Driver) Close() {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()
	d.wg.Wait()
}
