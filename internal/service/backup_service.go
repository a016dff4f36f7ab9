package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/student-crm-api/internal/models"
	"github.com/noah-isme/student-crm-api/pkg/export"
)

type backupStudentSource interface {
	ListAll(ctx context.Context) ([]models.StudentRecord, error)
}

type backupAuditSource interface {
	ListAll(ctx context.Context) ([]models.AuditLogEntry, error)
}

type backupStorage interface {
	Exists(filename string) (bool, error)
	SaveExclusive(filename string, data []byte) (string, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

// Backup outcome labels.
const (
	BackupOutcomeCreated = "created"
	BackupOutcomeSkipped = "skipped"
	BackupOutcomeFailed  = "failed"
)

// BackupResult summarises one store's backup run.
type BackupResult struct {
	Store    string `json:"store"`
	Table    string `json:"table"`
	Filename string `json:"filename"`
	Outcome  string `json:"outcome"`
	Rows     int    `json:"rows"`
}

// BackupService exports the student and audit stores to daily CSV files.
// Backups are keyed by calendar date: at most one file per store per day, and
// an existing file is never overwritten.
type BackupService struct {
	students backupStudentSource
	audits   backupAuditSource
	storage  backupStorage
	csv      csvRenderer
	metrics  *MetricsService
	logger   *zap.Logger
}

// NewBackupService constructs the backup service.
func NewBackupService(students backupStudentSource, audits backupAuditSource, storage backupStorage, csv csvRenderer, metrics *MetricsService, logger *zap.Logger) *BackupService {
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BackupService{students: students, audits: audits, storage: storage, csv: csv, metrics: metrics, logger: logger}
}

// Run backs up both stores for the given day. A failure in one store is
// reported and counted but never aborts the other store's backup.
func (s *BackupService) Run(ctx context.Context, day time.Time) []BackupResult {
	results := make([]BackupResult, 0, 2)
	results = append(results, s.runOne(ctx, day, "student_crm", "students", s.studentDataset))
	results = append(results, s.runOne(ctx, day, "audit_log", "logs", s.auditDataset))
	return results
}

func (s *BackupService) runOne(ctx context.Context, day time.Time, store, table string, build func(ctx context.Context) (export.Dataset, error)) BackupResult {
	filename := backupFilename(store, table, day)
	result := BackupResult{Store: store, Table: table, Filename: filename}

	exists, err := s.storage.Exists(filename)
	if err != nil {
		s.fail(&result, "check backup file", err)
		return result
	}
	if exists {
		result.Outcome = BackupOutcomeSkipped
		s.metrics.RecordBackup(store, BackupOutcomeSkipped)
		return result
	}

	dataset, err := build(ctx)
	if err != nil {
		s.fail(&result, "load backup rows", err)
		return result
	}

	payload, err := s.csv.Render(dataset)
	if err != nil {
		s.fail(&result, "render backup csv", err)
		return result
	}

	if _, err := s.storage.SaveExclusive(filename, payload); err != nil {
		s.fail(&result, "write backup file", err)
		return result
	}

	result.Outcome = BackupOutcomeCreated
	result.Rows = len(dataset.Rows)
	s.metrics.RecordBackup(store, BackupOutcomeCreated)
	s.logger.Info("backup created",
		zap.String("store", store),
		zap.String("file", filename),
		zap.Int("rows", result.Rows),
	)
	return result
}

func (s *BackupService) fail(result *BackupResult, stage string, err error) {
	result.Outcome = BackupOutcomeFailed
	s.metrics.RecordBackup(result.Store, BackupOutcomeFailed)
	s.logger.Error("backup failed",
		zap.String("store", result.Store),
		zap.String("stage", stage),
		zap.Error(err),
	)
}

func backupFilename(store, table string, day time.Time) string {
	return fmt.Sprintf("%s_%s_backup_%s.csv", store, table, day.Format("20060102"))
}

var studentBackupHeaders = []string{
	"Record ID", "Student Name", "Father Name", "Mother Name", "Course Name", "Fees Payment Mode",
	"Date of Birth", "Course Enrollment Date", "Address", "Aadhar No", "Mobile No", "Email",
	"Enrollment No", "Total Fees", "Fees Paid", "Balance Fees",
}

func (s *BackupService) studentDataset(ctx context.Context) (export.Dataset, error) {
	records, err := s.students.ListAll(ctx)
	if err != nil {
		return export.Dataset{}, err
	}
	rows := make([]map[string]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, map[string]string{
			"Record ID":              r.RecordID,
			"Student Name":           r.StudentName,
			"Father Name":            r.FatherName,
			"Mother Name":            r.MotherName,
			"Course Name":            r.CourseName,
			"Fees Payment Mode":      r.FeesPaymentMode,
			"Date of Birth":          r.DateOfBirth,
			"Course Enrollment Date": r.CourseEnrollmentDate,
			"Address":                r.Address,
			"Aadhar No":              r.AadharNo,
			"Mobile No":              r.MobileNo,
			"Email":                  r.Email,
			"Enrollment No":          r.EnrollmentNo,
			"Total Fees":             fmt.Sprintf("%.2f", r.TotalFees),
			"Fees Paid":              fmt.Sprintf("%.2f", r.FeesPaid),
			"Balance Fees":           fmt.Sprintf("%.2f", r.BalanceFees),
		})
	}
	return export.Dataset{Headers: studentBackupHeaders, Rows: rows}, nil
}

var auditBackupHeaders = []string{"Log ID", "Timestamp", "Action", "Record ID", "Details"}

func (s *BackupService) auditDataset(ctx context.Context) (export.Dataset, error) {
	entries, err := s.audits.ListAll(ctx)
	if err != nil {
		return export.Dataset{}, err
	}
	rows := make([]map[string]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, map[string]string{
			"Log ID":    strconv.FormatInt(e.LogID, 10),
			"Timestamp": e.Timestamp.UTC().Format("2006-01-02 15:04:05"),
			"Action":    e.Action,
			"Record ID": e.RecordID,
			"Details":   e.Details,
		})
	}
	return export.Dataset{Headers: auditBackupHeaders, Rows: rows}, nil
}
