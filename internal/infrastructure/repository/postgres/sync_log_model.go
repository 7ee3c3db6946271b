package postgres

import (
	"time"

	"github.com/bytedance/sonic"
	"github.com/riskibarqy/sports-sync/internal/domain/synclog"
)

type syncLogTableModel struct {
	ID             int64     `db:"id"`
	RunID          string    `db:"run_id"`
	SourceID       *int64    `db:"source_id"`
	Source         string    `db:"source"`
	EntityType     string    `db:"entity_type"`
	Scope          string    `db:"scope"`
	Status         string    `db:"status"`
	StartedAt      time.Time `db:"started_at"`
	CompletedAt    time.Time `db:"completed_at"`
	RecordsCreated int       `db:"records_created"`
	RecordsUpdated int       `db:"records_updated"`
	RecordsFailed  int       `db:"records_failed"`
	ErrorMessage   string    `db:"error_message"`
	Detail         string    `db:"detail"`
	CreatedAt      time.Time `db:"created_at"`
}

type syncLogInsertModel struct {
	RunID          string    `db:"run_id"`
	SourceID       *int64    `db:"source_id"`
	Source         string    `db:"source"`
	EntityType     string    `db:"entity_type"`
	Scope          string    `db:"scope"`
	Status         string    `db:"status"`
	StartedAt      time.Time `db:"started_at"`
	CompletedAt    time.Time `db:"completed_at"`
	RecordsCreated int       `db:"records_created"`
	RecordsUpdated int       `db:"records_updated"`
	RecordsFailed  int       `db:"records_failed"`
	ErrorMessage   string    `db:"error_message"`
	Detail         string    `db:"detail"`
}

func newSyncLogInsertModel(entry synclog.Entry) (syncLogInsertModel, error) {
	detail := "{}"
	if len(entry.Detail) > 0 {
		encoded, err := sonic.MarshalString(entry.Detail)
		if err != nil {
			return syncLogInsertModel{}, err
		}
		detail = encoded
	}

	var sourceID *int64
	if entry.SourceID > 0 {
		id := entry.SourceID
		sourceID = &id
	}

	return syncLogInsertModel{
		RunID:          entry.RunID,
		SourceID:       sourceID,
		Source:         entry.Source,
		EntityType:     entry.EntityType,
		Scope:          entry.Scope,
		Status:         entry.Status,
		StartedAt:      entry.StartedAt.UTC(),
		CompletedAt:    entry.CompletedAt.UTC(),
		RecordsCreated: entry.RecordsCreated,
		RecordsUpdated: entry.RecordsUpdated,
		RecordsFailed:  entry.RecordsFailed,
		ErrorMessage:   entry.ErrorMessage,
		Detail:         detail,
	}, nil
}

func (m syncLogTableModel) toDomain() (synclog.Entry, error) {
	var detail map[string]any
	if m.Detail != "" && m.Detail != "{}" {
		if err := sonic.UnmarshalString(m.Detail, &detail); err != nil {
			return synclog.Entry{}, err
		}
	}

	var sourceID int64
	if m.SourceID != nil {
		sourceID = *m.SourceID
	}

	return synclog.Entry{
		ID:             m.ID,
		RunID:          m.RunID,
		SourceID:       sourceID,
		Source:         m.Source,
		EntityType:     m.EntityType,
		Scope:          m.Scope,
		Status:         m.Status,
		StartedAt:      m.StartedAt.UTC(),
		CompletedAt:    m.CompletedAt.UTC(),
		RecordsCreated: m.RecordsCreated,
		RecordsUpdated: m.RecordsUpdated,
		RecordsFailed:  m.RecordsFailed,
		ErrorMessage:   m.ErrorMessage,
		Detail:         detail,
	}, nil
}
