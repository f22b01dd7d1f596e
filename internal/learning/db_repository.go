package learning

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/avast/retry-go"
	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
)

const (
	itemColumns = "id, title, description, key_points, code_example, resources, " +
		"topic, subtopic, tags, difficulty, " +
		"source_type, session_id, harvest_id, insight_id, project, " +
		"confidence, ease_factor, next_review_date, last_review_date, review_count, streak, " +
		"status, created_at, updated_at"
	recordColumns = "id, item_id, reviewed_at, confidence_before, confidence_after, correct, time_spent_seconds"

	mysqlErrLockWaitTimeout = 1205
	mysqlErrDeadlock        = 1213

	defaultRetryDelay = 50 * time.Millisecond
)

type itemRow struct {
	ID             string       `db:"id"`
	Title          string       `db:"title"`
	Description    string       `db:"description"`
	KeyPoints      []byte       `db:"key_points"`
	CodeExample    string       `db:"code_example"`
	Resources      []byte       `db:"resources"`
	Topic          string       `db:"topic"`
	Subtopic       string       `db:"subtopic"`
	Tags           []byte       `db:"tags"`
	Difficulty     string       `db:"difficulty"`
	SourceType     string       `db:"source_type"`
	SessionID      string       `db:"session_id"`
	HarvestID      string       `db:"harvest_id"`
	InsightID      string       `db:"insight_id"`
	Project        string       `db:"project"`
	Confidence     int          `db:"confidence"`
	EaseFactor     float64      `db:"ease_factor"`
	NextReviewDate time.Time    `db:"next_review_date"`
	LastReviewDate sql.NullTime `db:"last_review_date"`
	ReviewCount    int          `db:"review_count"`
	Streak         int          `db:"streak"`
	Status         string       `db:"status"`
	CreatedAt      time.Time    `db:"created_at"`
	UpdatedAt      time.Time    `db:"updated_at"`
}

type recordRow struct {
	ID               int64     `db:"id"`
	ItemID           string    `db:"item_id"`
	ReviewedAt       time.Time `db:"reviewed_at"`
	ConfidenceBefore int       `db:"confidence_before"`
	ConfidenceAfter  int       `db:"confidence_after"`
	Correct          bool      `db:"correct"`
	TimeSpentSeconds int       `db:"time_spent_seconds"`
}

func (row itemRow) toItem(history []ReviewRecord) (Item, error) {
	var keyPoints, resources, tags []string
	if err := decodeStrings(row.KeyPoints, &keyPoints); err != nil {
		return Item{}, fmt.Errorf("decode key_points of %s > %w", row.ID, err)
	}
	if err := decodeStrings(row.Resources, &resources); err != nil {
		return Item{}, fmt.Errorf("decode resources of %s > %w", row.ID, err)
	}
	if err := decodeStrings(row.Tags, &tags); err != nil {
		return Item{}, fmt.Errorf("decode tags of %s > %w", row.ID, err)
	}

	var lastReviewDate *civil.Date
	if row.LastReviewDate.Valid {
		d := civil.DateOf(row.LastReviewDate.Time)
		lastReviewDate = &d
	}
	if history == nil {
		history = []ReviewRecord{}
	}

	return Item{
		ID: row.ID,
		Content: Content{
			Title:       row.Title,
			Description: row.Description,
			KeyPoints:   keyPoints,
			CodeExample: row.CodeExample,
			Resources:   resources,
		},
		Classification: Classification{
			Topic:      row.Topic,
			Subtopic:   row.Subtopic,
			Tags:       tags,
			Difficulty: Difficulty(row.Difficulty),
		},
		Source: Source{
			Type:      SourceType(row.SourceType),
			SessionID: row.SessionID,
			HarvestID: row.HarvestID,
			InsightID: row.InsightID,
			Project:   row.Project,
		},
		SpaceRep: SpaceRep{
			Confidence:     row.Confidence,
			EaseFactor:     row.EaseFactor,
			NextReviewDate: civil.DateOf(row.NextReviewDate),
			LastReviewDate: lastReviewDate,
			ReviewCount:    row.ReviewCount,
			Streak:         row.Streak,
		},
		Status:    Status(row.Status),
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
		History:   history,
	}, nil
}

func (row recordRow) toRecord() ReviewRecord {
	return ReviewRecord{
		Date:             row.ReviewedAt,
		ConfidenceBefore: row.ConfidenceBefore,
		ConfidenceAfter:  row.ConfidenceAfter,
		Correct:          row.Correct,
		TimeSpent:        row.TimeSpentSeconds,
	}
}

func decodeStrings(data []byte, dest *[]string) error {
	if len(data) == 0 {
		*dest = []string{}
		return nil
	}
	return json.Unmarshal(data, dest)
}

func encodeStrings(values []string) (string, error) {
	if values == nil {
		values = []string{}
	}
	data, err := json.Marshal(values)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func nullableDate(d *civil.Date) any {
	if d == nil {
		return nil
	}
	return d.String()
}

// DBRepository implements Repository using MySQL.
type DBRepository struct {
	db               *sqlx.DB
	maxRetryAttempts uint
	retryDelay       time.Duration
}

// NewDBRepository creates a new DBRepository. Updates that hit a deadlock or a
// lock wait timeout are retried up to maxRetryAttempts times.
func NewDBRepository(db *sqlx.DB, maxRetryAttempts uint) *DBRepository {
	return &DBRepository{
		db:               db,
		maxRetryAttempts: maxRetryAttempts,
		retryDelay:       defaultRetryDelay,
	}
}

// FindByID returns the item with its full history, or nil if not found.
func (r *DBRepository) FindByID(ctx context.Context, id string) (*Item, error) {
	var row itemRow
	err := r.db.GetContext(ctx, &row, "SELECT "+itemColumns+" FROM learning_items WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("db.GetContext(learning_item) > %w", err)
	}

	histories, err := loadHistories(ctx, r.db, []string{id})
	if err != nil {
		return nil, err
	}
	item, err := row.toItem(histories[id])
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// FindAll returns the items matching filter ordered by next review date.
func (r *DBRepository) FindAll(ctx context.Context, filter Filter) ([]Item, error) {
	var conditions []string
	var args []any
	if filter.Status != "" {
		conditions = append(conditions, "status = ?")
		args = append(args, string(filter.Status))
	}
	if filter.Topic != "" {
		conditions = append(conditions, "topic = ?")
		args = append(args, filter.Topic)
	}
	if filter.Difficulty != "" {
		conditions = append(conditions, "difficulty = ?")
		args = append(args, string(filter.Difficulty))
	}

	query := "SELECT " + itemColumns + " FROM learning_items"
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY next_review_date, id"

	var rows []itemRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("db.SelectContext(learning_items) > %w", err)
	}
	if len(rows) == 0 {
		return []Item{}, nil
	}

	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}
	histories, err := loadHistories(ctx, r.db, ids)
	if err != nil {
		return nil, err
	}

	items := make([]Item, 0, len(rows))
	for _, row := range rows {
		item, err := row.toItem(histories[row.ID])
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

// Create inserts a new item together with any history it already carries.
func (r *DBRepository) Create(ctx context.Context, item *Item) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("db.BeginTxx() > %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	keyPoints, err := encodeStrings(item.Content.KeyPoints)
	if err != nil {
		return fmt.Errorf("encodeStrings(key_points) > %w", err)
	}
	resources, err := encodeStrings(item.Content.Resources)
	if err != nil {
		return fmt.Errorf("encodeStrings(resources) > %w", err)
	}
	tags, err := encodeStrings(item.Classification.Tags)
	if err != nil {
		return fmt.Errorf("encodeStrings(tags) > %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO learning_items (`+itemColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		item.ID, item.Content.Title, item.Content.Description, keyPoints, item.Content.CodeExample, resources,
		item.Classification.Topic, item.Classification.Subtopic, tags, string(item.Classification.Difficulty),
		string(item.Source.Type), item.Source.SessionID, item.Source.HarvestID, item.Source.InsightID, item.Source.Project,
		item.SpaceRep.Confidence, item.SpaceRep.EaseFactor, item.SpaceRep.NextReviewDate.String(),
		nullableDate(item.SpaceRep.LastReviewDate), item.SpaceRep.ReviewCount, item.SpaceRep.Streak,
		string(item.Status), item.CreatedAt.UTC(), item.UpdatedAt.UTC(),
	); err != nil {
		return fmt.Errorf("tx.ExecContext(insert learning_item) > %w", err)
	}

	if err := insertRecords(ctx, tx, item.ID, item.History); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("tx.Commit() > %w", err)
	}
	return nil
}

// Update locks the item row, applies fn and writes the result in one transaction.
func (r *DBRepository) Update(ctx context.Context, id string, fn func(item *Item) error) (*Item, error) {
	var updated *Item
	var lastErr error
	err := retry.Do(
		func() error {
			item, err := r.updateOnce(ctx, id, fn)
			if err != nil {
				lastErr = err
				if !isRetryableError(err) {
					return retry.Unrecoverable(err)
				}
				return err
			}
			updated = item
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(r.maxRetryAttempts+1),
		retry.Delay(r.retryDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			slog.Default().Info("Retrying learning item update",
				"attempt", n+1,
				"id", id,
				"error", err)
		}),
	)
	if err != nil {
		if lastErr != nil {
			return nil, lastErr
		}
		return nil, err
	}
	return updated, nil
}

func (r *DBRepository) updateOnce(ctx context.Context, id string, fn func(item *Item) error) (*Item, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("db.BeginTxx() > %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var row itemRow
	err = tx.GetContext(ctx, &row, "SELECT "+itemColumns+" FROM learning_items WHERE id = ? FOR UPDATE", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("tx.GetContext(learning_item for update) > %w", err)
	}

	histories, err := loadHistories(ctx, tx, []string{id})
	if err != nil {
		return nil, err
	}
	item, err := row.toItem(histories[id])
	if err != nil {
		return nil, err
	}
	stored := len(item.History)

	if err := fn(&item); err != nil {
		return nil, err
	}
	if item.ID != id {
		return nil, fmt.Errorf("learning item id changed from %s to %s", id, item.ID)
	}
	if len(item.History) < stored {
		return nil, fmt.Errorf("history of %s shrank from %d to %d records", id, stored, len(item.History))
	}

	keyPoints, err := encodeStrings(item.Content.KeyPoints)
	if err != nil {
		return nil, fmt.Errorf("encodeStrings(key_points) > %w", err)
	}
	resources, err := encodeStrings(item.Content.Resources)
	if err != nil {
		return nil, fmt.Errorf("encodeStrings(resources) > %w", err)
	}
	tags, err := encodeStrings(item.Classification.Tags)
	if err != nil {
		return nil, fmt.Errorf("encodeStrings(tags) > %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE learning_items SET
		title = ?, description = ?, key_points = ?, code_example = ?, resources = ?,
		topic = ?, subtopic = ?, tags = ?, difficulty = ?,
		confidence = ?, ease_factor = ?, next_review_date = ?, last_review_date = ?, review_count = ?, streak = ?,
		status = ?, updated_at = ?
		WHERE id = ?`,
		item.Content.Title, item.Content.Description, keyPoints, item.Content.CodeExample, resources,
		item.Classification.Topic, item.Classification.Subtopic, tags, string(item.Classification.Difficulty),
		item.SpaceRep.Confidence, item.SpaceRep.EaseFactor, item.SpaceRep.NextReviewDate.String(),
		nullableDate(item.SpaceRep.LastReviewDate), item.SpaceRep.ReviewCount, item.SpaceRep.Streak,
		string(item.Status), item.UpdatedAt.UTC(),
		id,
	); err != nil {
		return nil, fmt.Errorf("tx.ExecContext(update learning_item) > %w", err)
	}

	if err := insertRecords(ctx, tx, id, item.History[stored:]); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("tx.Commit() > %w", err)
	}
	return &item, nil
}

func insertRecords(ctx context.Context, tx *sqlx.Tx, itemID string, records []ReviewRecord) error {
	for _, record := range records {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO review_records (item_id, reviewed_at, confidence_before, confidence_after, correct, time_spent_seconds)
			VALUES (?, ?, ?, ?, ?, ?)`,
			itemID, record.Date.UTC(), record.ConfidenceBefore, record.ConfidenceAfter, record.Correct, record.TimeSpent,
		); err != nil {
			return fmt.Errorf("tx.ExecContext(insert review_record) > %w", err)
		}
	}
	return nil
}

// loadHistories returns review records grouped by item id in insertion order.
func loadHistories(ctx context.Context, q sqlx.QueryerContext, ids []string) (map[string][]ReviewRecord, error) {
	query, args, err := sqlx.In("SELECT "+recordColumns+" FROM review_records WHERE item_id IN (?) ORDER BY id", ids)
	if err != nil {
		return nil, fmt.Errorf("sqlx.In(review_records) > %w", err)
	}

	var rows []recordRow
	if err := sqlx.SelectContext(ctx, q, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("sqlx.SelectContext(review_records) > %w", err)
	}

	histories := make(map[string][]ReviewRecord, len(ids))
	for _, row := range rows {
		histories[row.ItemID] = append(histories[row.ItemID], row.toRecord())
	}
	return histories, nil
}

func isRetryableError(err error) bool {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == mysqlErrDeadlock || mysqlErr.Number == mysqlErrLockWaitTimeout
	}
	return errors.Is(err, mysql.ErrInvalidConn) || errors.Is(err, driver.ErrBadConn)
}
