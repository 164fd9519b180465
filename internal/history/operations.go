package history

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/scrollsense/scrollsense/models"
)

// Entry is one recorded analysis cycle.
type Entry struct {
	ID     int64
	Result models.ClassificationResult
}

// HostStats aggregates recorded cycles per hostname.
type HostStats struct {
	Hostname     string
	Count        int
	AvgDoomScore float64
}

// Insert records a classification, returning the classification_id. The
// text and structured columns stay NULL unless the privacy gate attached
// them to the result.
func (db *DB) Insert(result models.ClassificationResult) (int64, error) {
	var text sql.NullString
	if result.Text != nil {
		text = sql.NullString{String: *result.Text, Valid: true}
	}

	var structured sql.NullString
	if result.Structured != nil {
		blob, err := json.Marshal(result.Structured)
		if err != nil {
			return 0, fmt.Errorf("failed to marshal structured data: %w", err)
		}
		structured = sql.NullString{String: string(blob), Valid: true}
	}

	res, err := db.Exec(`
		INSERT INTO classifications
			(url, hostname, sentiment, content_type, doom_score, language,
			 model_version, extraction_method, classified_at, text, structured_data)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, result.URL, result.Hostname, string(result.Sentiment), result.ContentType,
		result.DoomScore, result.Language, result.ModelVersion, string(result.Method),
		result.Timestamp.UTC().Format(time.RFC3339), text, structured)
	if err != nil {
		return 0, fmt.Errorf("failed to insert classification: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get classification ID: %w", err)
	}
	return id, nil
}

// Recent returns the most recent entries, newest first.
func (db *DB) Recent(limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := db.Query(`
		SELECT classification_id, url, hostname, sentiment, content_type,
		       doom_score, language, model_version, extraction_method,
		       classified_at, text, structured_data
		FROM classifications
		ORDER BY classification_id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query classifications: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate classifications: %w", err)
	}
	return entries, nil
}

// ByHostname returns entries recorded for a single hostname, newest first.
func (db *DB) ByHostname(hostname string, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := db.Query(`
		SELECT classification_id, url, hostname, sentiment, content_type,
		       doom_score, language, model_version, extraction_method,
		       classified_at, text, structured_data
		FROM classifications
		WHERE hostname = ?
		ORDER BY classification_id DESC
		LIMIT ?
	`, hostname, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query classifications: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate classifications: %w", err)
	}
	return entries, nil
}

// Summary aggregates recorded cycles per hostname, highest average doom
// score first.
func (db *DB) Summary() ([]HostStats, error) {
	rows, err := db.Query(`
		SELECT hostname, COUNT(*), AVG(doom_score)
		FROM classifications
		GROUP BY hostname
		ORDER BY AVG(doom_score) DESC, hostname
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query summary: %w", err)
	}
	defer rows.Close()

	var stats []HostStats
	for rows.Next() {
		var s HostStats
		if err := rows.Scan(&s.Hostname, &s.Count, &s.AvgDoomScore); err != nil {
			return nil, fmt.Errorf("failed to scan summary row: %w", err)
		}
		stats = append(stats, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate summary: %w", err)
	}
	return stats, nil
}

func scanEntry(rows *sql.Rows) (Entry, error) {
	var (
		entry        Entry
		sentiment    string
		method       string
		classifiedAt string
		text         sql.NullString
		structured   sql.NullString
	)
	err := rows.Scan(&entry.ID, &entry.Result.URL, &entry.Result.Hostname,
		&sentiment, &entry.Result.ContentType, &entry.Result.DoomScore,
		&entry.Result.Language, &entry.Result.ModelVersion, &method,
		&classifiedAt, &text, &structured)
	if err != nil {
		return Entry{}, fmt.Errorf("failed to scan classification: %w", err)
	}

	entry.Result.Sentiment = models.Sentiment(sentiment)
	entry.Result.Method = models.ExtractionMethod(method)

	if ts, err := time.Parse(time.RFC3339, classifiedAt); err == nil {
		entry.Result.Timestamp = ts
	}
	if text.Valid {
		entry.Result.Text = &text.String
	}
	if structured.Valid {
		var sd models.StructuredData
		if err := json.Unmarshal([]byte(structured.String), &sd); err == nil {
			entry.Result.Structured = &sd
		}
	}
	return entry, nil
}
