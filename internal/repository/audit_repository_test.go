package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/student-crm-api/internal/models"
)

func newAuditMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestAuditRepositoryAppend(t *testing.T) {
	db, mock, cleanup := newAuditMock(t)
	defer cleanup()
	repo := NewAuditRepository(db)

	mock.ExpectQuery("INSERT INTO audit_logs").
		WithArgs(sqlmock.AnyArg(), models.AuditActionAdd, "r1", "Added student: Asha Verma").
		WillReturnRows(sqlmock.NewRows([]string{"log_id"}).AddRow(7))

	entry := &models.AuditLogEntry{Action: models.AuditActionAdd, RecordID: "r1", Details: "Added student: Asha Verma"}
	require.NoError(t, repo.Append(context.Background(), entry))
	assert.Equal(t, int64(7), entry.LogID)
	assert.False(t, entry.Timestamp.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAuditRepositoryAppendDefaultsRecordID(t *testing.T) {
	db, mock, cleanup := newAuditMock(t)
	defer cleanup()
	repo := NewAuditRepository(db)

	mock.ExpectQuery("INSERT INTO audit_logs").
		WithArgs(sqlmock.AnyArg(), models.AuditActionDelete, models.AuditRecordIDNone, "Deleted student record").
		WillReturnRows(sqlmock.NewRows([]string{"log_id"}).AddRow(1))

	entry := &models.AuditLogEntry{Action: models.AuditActionDelete, Details: "Deleted student record"}
	require.NoError(t, repo.Append(context.Background(), entry))
	assert.Equal(t, models.AuditRecordIDNone, entry.RecordID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAuditRepositoryList(t *testing.T) {
	db, mock, cleanup := newAuditMock(t)
	defer cleanup()
	repo := NewAuditRepository(db)

	rows := sqlmock.NewRows([]string{"log_id", "timestamp", "action", "record_id", "details"}).
		AddRow(2, time.Now(), models.AuditActionEdit, "r1", "Updated fields: fees_paid, balance_fees").
		AddRow(1, time.Now().Add(-time.Hour), models.AuditActionAdd, "r1", "Added student: Asha Verma")
	mock.ExpectQuery("FROM audit_logs\\s+ORDER BY timestamp DESC, log_id DESC LIMIT 100 OFFSET 0").
		WillReturnRows(rows)
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM audit_logs`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	entries, total, err := repo.List(context.Background(), models.AuditFilter{})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, 2, total)
	assert.Equal(t, int64(2), entries[0].LogID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
