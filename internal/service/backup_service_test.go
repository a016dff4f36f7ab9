package service

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/student-crm-api/internal/models"
	"github.com/noah-isme/student-crm-api/pkg/storage"
)

type mockBackupStudents struct {
	records []models.StudentRecord
	err     error
}

func (m *mockBackupStudents) ListAll(ctx context.Context) ([]models.StudentRecord, error) {
	return m.records, m.err
}

type mockBackupAudits struct {
	entries []models.AuditLogEntry
	err     error
}

func (m *mockBackupAudits) ListAll(ctx context.Context) ([]models.AuditLogEntry, error) {
	return m.entries, m.err
}

func newBackupService(t *testing.T, students *mockBackupStudents, audits *mockBackupAudits) (*BackupService, string) {
	t.Helper()
	dir := t.TempDir()
	store, err := storage.NewLocalStorage(dir)
	require.NoError(t, err)
	return NewBackupService(students, audits, store, nil, nil, zap.NewNop()), dir
}

func TestBackupServiceRunCreatesDailyFiles(t *testing.T) {
	students := &mockBackupStudents{records: []models.StudentRecord{
		{RecordID: "r1", StudentName: "Asha Verma", CourseName: "Python", MobileNo: "9876543210", TotalFees: 5000, FeesPaid: 2000, BalanceFees: 3000},
	}}
	audits := &mockBackupAudits{entries: []models.AuditLogEntry{
		{LogID: 1, Timestamp: time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC), Action: models.AuditActionAdd, RecordID: "r1", Details: "Added student: Asha Verma"},
	}}
	svc, dir := newBackupService(t, students, audits)

	day := time.Date(2026, 8, 29, 6, 0, 0, 0, time.UTC)
	results := svc.Run(context.Background(), day)
	require.Len(t, results, 2)
	for _, result := range results {
		assert.Equal(t, BackupOutcomeCreated, result.Outcome)
		assert.Equal(t, 1, result.Rows)
	}

	studentFile := filepath.Join(dir, "student_crm_students_backup_20260829.csv")
	auditFile := filepath.Join(dir, "audit_log_logs_backup_20260829.csv")

	studentData, err := os.ReadFile(studentFile)
	require.NoError(t, err)
	assert.Contains(t, string(studentData), "Asha Verma")
	assert.Contains(t, string(studentData), "3000.00")

	auditData, err := os.ReadFile(auditFile)
	require.NoError(t, err)
	assert.Contains(t, string(auditData), models.AuditActionAdd)
}

func TestBackupServiceRunTwiceSameDaySkips(t *testing.T) {
	students := &mockBackupStudents{records: []models.StudentRecord{{RecordID: "r1", StudentName: "Asha Verma"}}}
	audits := &mockBackupAudits{}
	svc, dir := newBackupService(t, students, audits)

	day := time.Date(2026, 8, 29, 6, 0, 0, 0, time.UTC)
	first := svc.Run(context.Background(), day)
	require.Len(t, first, 2)
	assert.Equal(t, BackupOutcomeCreated, first[0].Outcome)

	before, err := os.ReadFile(filepath.Join(dir, "student_crm_students_backup_20260829.csv"))
	require.NoError(t, err)

	students.records = append(students.records, models.StudentRecord{RecordID: "r2", StudentName: "Ravi Sahu"})
	second := svc.Run(context.Background(), day.Add(8*time.Hour))
	require.Len(t, second, 2)
	assert.Equal(t, BackupOutcomeSkipped, second[0].Outcome)
	assert.Equal(t, BackupOutcomeSkipped, second[1].Outcome)

	after, err := os.ReadFile(filepath.Join(dir, "student_crm_students_backup_20260829.csv"))
	require.NoError(t, err)
	assert.Equal(t, before, after)
	assert.False(t, strings.Contains(string(after), "Ravi Sahu"))
}

func TestBackupServiceOneStoreFailureDoesNotAbortBatch(t *testing.T) {
	students := &mockBackupStudents{err: assert.AnError}
	audits := &mockBackupAudits{entries: []models.AuditLogEntry{
		{LogID: 1, Timestamp: time.Now(), Action: models.AuditActionDelete, RecordID: "r1", Details: "Deleted student record"},
	}}
	svc, dir := newBackupService(t, students, audits)

	day := time.Date(2026, 8, 29, 6, 0, 0, 0, time.UTC)
	results := svc.Run(context.Background(), day)
	require.Len(t, results, 2)
	assert.Equal(t, BackupOutcomeFailed, results[0].Outcome)
	assert.Equal(t, BackupOutcomeCreated, results[1].Outcome)

	_, err := os.Stat(filepath.Join(dir, "audit_log_logs_backup_20260829.csv"))
	assert.NoError(t, err)
}
