package repository

import (
	"context"
	"database/sql"
	"encoding/json"

	sq "github.com/Masterminds/squirrel"

	"github.com/tosh-m12/courtmatch/internal/models"
)

// ==================== Draft Methods ====================

// SaveDraft stores the event's draft, replacing any previous one
func (r *Repository) SaveDraft(ctx context.Context, draft models.Draft) error {
	scheduleJSON, paramsJSON, err := encodeSchedule(draft.Schedule, draft.Params)
	if err != nil {
		return err
	}
	createdAt := draft.CreatedAt
	if createdAt.IsZero() {
		createdAt = now()
	}
	_, err = qExec(ctx, r.db, sq.Insert("schedule_drafts").
		Columns("event_id", "schedule_json", "params_json", "created_at").
		Values(draft.EventID, scheduleJSON, paramsJSON, createdAt).
		Suffix(`ON CONFLICT(event_id) DO UPDATE SET
			schedule_json = excluded.schedule_json,
			params_json = excluded.params_json,
			created_at = excluded.created_at`))
	return err
}

// GetDraft returns the event's draft
func (r *Repository) GetDraft(ctx context.Context, eventID int) (*models.Draft, error) {
	var d models.Draft
	var scheduleJSON, paramsJSON string
	err := qRow(ctx, r.db, sq.Select("event_id", "schedule_json", "params_json", "created_at").
		From("schedule_drafts").
		Where(sq.Eq{"event_id": eventID})).
		Scan(&d.EventID, &scheduleJSON, &paramsJSON, &d.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := decodeSchedule(scheduleJSON, paramsJSON, &d.Schedule, &d.Params); err != nil {
		return nil, err
	}
	return &d, nil
}

// DeleteDraft discards the event's draft, if any
func (r *Repository) DeleteDraft(ctx context.Context, eventID int) error {
	_, err := qExec(ctx, r.db, sq.Delete("schedule_drafts").Where(sq.Eq{"event_id": eventID}))
	return err
}

// ==================== Published Schedule Methods ====================

var publishedColumns = []string{"id", "event_id", "schedule_json", "params_json", "locked", "locked_at", "version", "updated_at"}

// GetPublishedSchedule returns the event's published schedule
func (r *Repository) GetPublishedSchedule(ctx context.Context, eventID int) (*models.PublishedSchedule, error) {
	return getPublished(ctx, r.db, eventID)
}

func getPublished(ctx context.Context, db queryer, eventID int) (*models.PublishedSchedule, error) {
	var p models.PublishedSchedule
	var scheduleJSON, paramsJSON string
	var lockedAt sql.NullTime
	err := qRow(ctx, db, sq.Select(publishedColumns...).
		From("published_schedules").
		Where(sq.Eq{"event_id": eventID})).
		Scan(&p.ID, &p.EventID, &scheduleJSON, &paramsJSON, &p.Locked, &lockedAt, &p.Version, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if lockedAt.Valid {
		t := lockedAt.Time
		p.LockedAt = &t
	}
	if err := decodeSchedule(scheduleJSON, paramsJSON, &p.Schedule, &p.Params); err != nil {
		return nil, err
	}
	return &p, nil
}

// PublishSchedule makes schedule the event's schedule of record in one
// transaction: the published row is upserted and unlocked, its scores are
// deleted, exactly params.ParticipantIDs are marked as playing and the draft
// is discarded.
func (r *Repository) PublishSchedule(ctx context.Context, eventID int, schedule models.Schedule, params models.GenerationParams) (*models.PublishedSchedule, error) {
	scheduleJSON, paramsJSON, err := encodeSchedule(schedule, params)
	if err != nil {
		return nil, err
	}

	var published *models.PublishedSchedule
	err = r.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := qExec(ctx, tx, sq.Insert("published_schedules").
			Columns("event_id", "schedule_json", "params_json", "locked", "locked_at", "version", "updated_at").
			Values(eventID, scheduleJSON, paramsJSON, false, nil, 1, now()).
			Suffix(`ON CONFLICT(event_id) DO UPDATE SET
				schedule_json = excluded.schedule_json,
				params_json = excluded.params_json,
				locked = 0,
				locked_at = NULL,
				version = published_schedules.version + 1,
				updated_at = excluded.updated_at`)); err != nil {
			return err
		}

		p, err := getPublished(ctx, tx, eventID)
		if err != nil {
			return err
		}

		if _, err := qExec(ctx, tx, sq.Delete("match_scores").Where(sq.Eq{"schedule_id": p.ID})); err != nil {
			return err
		}

		if _, err := qExec(ctx, tx, sq.Update("event_participants").
			Set("participates_match", false).
			Where(sq.Eq{"event_id": eventID})); err != nil {
			return err
		}
		if len(params.ParticipantIDs) > 0 {
			ids := make([]int, len(params.ParticipantIDs))
			for i, id := range params.ParticipantIDs {
				ids[i] = int(id)
			}
			if _, err := qExec(ctx, tx, sq.Update("event_participants").
				Set("participates_match", true).
				Where(sq.Eq{"event_id": eventID, "id": ids})); err != nil {
				return err
			}
		}

		if _, err := qExec(ctx, tx, sq.Delete("schedule_drafts").Where(sq.Eq{"event_id": eventID})); err != nil {
			return err
		}

		published = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return published, nil
}

// ReplacePublishedSchedule overwrites the rounds of a published schedule if
// its version still matches, optionally deleting the score of one match, and
// returns the new version.
func (r *Repository) ReplacePublishedSchedule(ctx context.Context, scheduleID, version int, schedule models.Schedule, clear *ScoreKey) (int, error) {
	scheduleJSON, err := json.Marshal(schedule)
	if err != nil {
		return 0, err
	}

	err = r.withTx(ctx, func(tx *sql.Tx) error {
		result, err := qExec(ctx, tx, sq.Update("published_schedules").
			Set("schedule_json", string(scheduleJSON)).
			Set("version", sq.Expr("version + 1")).
			Set("updated_at", now()).
			Where(sq.Eq{"id": scheduleID, "version": version}))
		if err != nil {
			return err
		}
		n, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			var count int
			if err := qRow(ctx, tx, sq.Select("COUNT(*)").
				From("published_schedules").
				Where(sq.Eq{"id": scheduleID})).Scan(&count); err != nil {
				return err
			}
			if count == 0 {
				return ErrNotFound
			}
			return ErrVersionConflict
		}

		if clear != nil {
			if _, err := qExec(ctx, tx, sq.Delete("match_scores").Where(sq.Eq{
				"schedule_id": scheduleID,
				"round_no":    clear.Round,
				"court_no":    clear.Court,
			})); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return version + 1, nil
}

// ResetSchedule empties the draft and published schedule, unlocks it, deletes
// its scores and unmarks every participant.
func (r *Repository) ResetSchedule(ctx context.Context, eventID int) error {
	emptyParams, err := json.Marshal(models.GenerationParams{ParticipantIDs: []models.ParticipantID{}})
	if err != nil {
		return err
	}

	return r.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := qExec(ctx, tx, sq.Delete("match_scores").
			Where("schedule_id IN (SELECT id FROM published_schedules WHERE event_id = ?)", eventID)); err != nil {
			return err
		}

		if _, err := qExec(ctx, tx, sq.Update("published_schedules").
			Set("schedule_json", "[]").
			Set("locked", false).
			Set("locked_at", nil).
			Set("version", sq.Expr("version + 1")).
			Set("updated_at", now()).
			Where(sq.Eq{"event_id": eventID})); err != nil {
			return err
		}

		if _, err := qExec(ctx, tx, sq.Insert("schedule_drafts").
			Columns("event_id", "schedule_json", "params_json", "created_at").
			Values(eventID, "[]", string(emptyParams), now()).
			Suffix("ON CONFLICT(event_id) DO UPDATE SET schedule_json = '[]'")); err != nil {
			return err
		}

		_, err := qExec(ctx, tx, sq.Update("event_participants").
			Set("participates_match", false).
			Where(sq.Eq{"event_id": eventID}))
		return err
	})
}

// ==================== Score Methods ====================

// GetScores returns every score record of a published schedule
func (r *Repository) GetScores(ctx context.Context, scheduleID int) ([]models.ScoreRecord, error) {
	rows, err := qQuery(ctx, r.db, sq.Select("schedule_id", "round_no", "court_no", "score1", "score2").
		From("match_scores").
		Where(sq.Eq{"schedule_id": scheduleID}).
		OrderBy("round_no", "court_no"))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []models.ScoreRecord
	for rows.Next() {
		var rec models.ScoreRecord
		var s1, s2 sql.NullInt64
		if err := rows.Scan(&rec.ScheduleID, &rec.Round, &rec.Court, &s1, &s2); err != nil {
			return nil, err
		}
		rec.Score1 = nullIntPtr(s1)
		rec.Score2 = nullIntPtr(s2)
		records = append(records, rec)
	}
	return records, rows.Err()
}

// HasAnyScore reports whether any match of the schedule has a non-null score
func (r *Repository) HasAnyScore(ctx context.Context, scheduleID int) (bool, error) {
	var count int
	err := qRow(ctx, r.db, sq.Select("COUNT(*)").
		From("match_scores").
		Where(sq.Eq{"schedule_id": scheduleID}).
		Where(sq.Or{sq.NotEq{"score1": nil}, sq.NotEq{"score2": nil}})).
		Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// SetScore writes one side's score for a match and, when value is non-null,
// locks the schedule. It returns the schedule's lock flag after the write.
func (r *Repository) SetScore(ctx context.Context, scheduleID int, key ScoreKey, side string, value *int) (bool, error) {
	var column string
	switch side {
	case "a":
		column = "score1"
	case "b":
		column = "score2"
	default:
		return false, ErrInvalidSide
	}

	var locked bool
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		var v interface{}
		if value != nil {
			v = *value
		}
		if _, err := qExec(ctx, tx, sq.Insert("match_scores").
			Columns("schedule_id", "round_no", "court_no", column, "updated_at").
			Values(scheduleID, key.Round, key.Court, v, now()).
			Suffix("ON CONFLICT(schedule_id, round_no, court_no) DO UPDATE SET " +
				column + " = excluded." + column + ", updated_at = excluded.updated_at")); err != nil {
			return err
		}

		if value != nil {
			if _, err := qExec(ctx, tx, sq.Update("published_schedules").
				Set("locked", true).
				Set("locked_at", now()).
				Where(sq.Eq{"id": scheduleID, "locked": false})); err != nil {
				return err
			}
		}

		err := qRow(ctx, tx, sq.Select("locked").
			From("published_schedules").
			Where(sq.Eq{"id": scheduleID})).Scan(&locked)
		if err == sql.ErrNoRows {
			return ErrNotFound
		}
		return err
	})
	return locked, err
}

// ==================== Encoding ====================

func encodeSchedule(s models.Schedule, p models.GenerationParams) (string, string, error) {
	scheduleJSON, err := json.Marshal(s)
	if err != nil {
		return "", "", err
	}
	if p.ParticipantIDs == nil {
		p.ParticipantIDs = []models.ParticipantID{}
	}
	paramsJSON, err := json.Marshal(p)
	if err != nil {
		return "", "", err
	}
	return string(scheduleJSON), string(paramsJSON), nil
}

func decodeSchedule(scheduleJSON, paramsJSON string, s *models.Schedule, p *models.GenerationParams) error {
	if err := json.Unmarshal([]byte(scheduleJSON), s); err != nil {
		return err
	}
	if *s == nil {
		*s = models.Schedule{}
	}
	return json.Unmarshal([]byte(paramsJSON), p)
}

func nullIntPtr(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	n := int(v.Int64)
	return &n
}
