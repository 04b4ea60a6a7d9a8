package server

import (
	"context"
	"log/slog"
	"time"

	"skyrelay/internal/analytics"
	"skyrelay/internal/db"
	"skyrelay/internal/events"
	"skyrelay/internal/leaderboard"
	"skyrelay/internal/metrics"
)

const recordTimeout = 5 * time.Second

// Publisher forwards lifecycle events to another process.
type Publisher interface {
	Publish(ev events.Event) error
}

// Recorder drains lifecycle events into the optional sinks. Any sink may be
// nil.
type Recorder struct {
	DB        *db.DB
	Board     *leaderboard.Board
	Publisher Publisher
	Metrics   *metrics.Metrics
	Logger    *slog.Logger
}

// Run consumes ch until it is closed.
func (rec *Recorder) Run(ch <-chan events.Event) {
	logger := rec.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "recorder")
	for ev := range ch {
		rec.record(logger, ev)
	}
}

func (rec *Recorder) record(logger *slog.Logger, ev events.Event) {
	if rec.Metrics != nil {
		rec.Metrics.Observe(ev)
	}
	if rec.Publisher != nil {
		if err := rec.Publisher.Publish(ev); err != nil {
			logger.Warn("publishing event", "kind", ev.Kind, "room", ev.RoomCode, "err", err)
		}
	}
	if ev.Kind != events.GameEnded || ev.Result == nil {
		return
	}
	res := *ev.Result

	if rec.DB != nil {
		gameID, err := rec.archive(logger, res)
		rec.outcome("postgres", err)
		if err != nil {
			logger.Error("archiving contest", "room", res.RoomCode, "err", err)
		} else {
			logger.Info("contest archived", "room", res.RoomCode, "game", gameID)
		}
	}

	if rec.Board != nil {
		ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
		err := rec.Board.Record(ctx, res)
		cancel()
		rec.outcome("redis", err)
		if err != nil {
			logger.Warn("updating live leaderboard", "room", res.RoomCode, "err", err)
		}
	}
}

// archive stores the contest and awards badges. Badge failures are logged
// and do not fail the archive.
func (rec *Recorder) archive(logger *slog.Logger, res events.Result) (string, error) {
	gameID, err := rec.DB.RecordGame(analytics.GameRecord(res), analytics.Standings(res))
	if err != nil {
		return "", err
	}

	q := analytics.NewQueries(rec.DB)
	for _, stats := range analytics.GameStats(gameID, res) {
		for _, b := range analytics.EvaluateGameBadges(stats) {
			gID := gameID
			if err := rec.DB.AwardBadge(stats.PlayerID, string(b.ID), &gID); err != nil {
				logger.Warn("awarding badge", "player", stats.PlayerID, "badge", b.ID, "err", err)
			}
		}
		life, err := q.GetPlayerLifetimeStats(stats.PlayerID)
		if err != nil {
			logger.Warn("loading lifetime stats", "player", stats.PlayerID, "err", err)
			continue
		}
		for _, b := range analytics.EvaluateLifetimeBadges(*life) {
			if err := rec.DB.AwardBadge(stats.PlayerID, string(b.ID), nil); err != nil {
				logger.Warn("awarding badge", "player", stats.PlayerID, "badge", b.ID, "err", err)
			}
		}
	}
	return gameID, nil
}

func (rec *Recorder) outcome(sink string, err error) {
	if rec.Metrics != nil {
		rec.Metrics.ArchiveOutcome(sink, err)
	}
}
