package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/student-crm-api/internal/models"
	"github.com/noah-isme/student-crm-api/internal/repository"
	appErrors "github.com/noah-isme/student-crm-api/pkg/errors"
)

type studentRepository interface {
	List(ctx context.Context, filter models.StudentFilter) ([]models.StudentRecord, int, error)
	FindByID(ctx context.Context, recordID string) (*models.StudentRecord, error)
	Create(ctx context.Context, record *models.StudentRecord) error
	Update(ctx context.Context, record *models.StudentRecord) error
	Delete(ctx context.Context, recordID string) error
}

type auditAppender interface {
	Append(ctx context.Context, entry *models.AuditLogEntry) error
}

// studentListCacheKey prefixes cached list payloads; mutations invalidate the
// whole key space.
const studentListCachePrefix = "crm:students:list"

// CreateStudentRequest holds the payload for creating a student record.
// Amounts are pointers so absent input is rejected rather than read as zero.
type CreateStudentRequest struct {
	StudentName          string   `json:"student_name" validate:"required"`
	FatherName           string   `json:"father_name"`
	MotherName           string   `json:"mother_name"`
	CourseName           string   `json:"course_name" validate:"required"`
	FeesPaymentMode      string   `json:"fees_payment_mode"`
	DateOfBirth          string   `json:"date_of_birth"`
	CourseEnrollmentDate string   `json:"course_enrollment_date"`
	Address              string   `json:"address"`
	AadharNo             string   `json:"aadhar_no"`
	MobileNo             string   `json:"mobile_no" validate:"required"`
	Email                string   `json:"email"`
	EnrollmentNo         string   `json:"enrollment_no"`
	TotalFees            *float64 `json:"total_fees" validate:"required,gte=0"`
	FeesPaid             *float64 `json:"fees_paid" validate:"required,gte=0"`
}

// UpdateStudentRequest holds the payload for a full-field update. Required
// fields must always be supplied; optional fields are pointers and stay
// untouched when omitted.
type UpdateStudentRequest struct {
	StudentName          string   `json:"student_name" validate:"required"`
	CourseName           string   `json:"course_name" validate:"required"`
	MobileNo             string   `json:"mobile_no" validate:"required"`
	TotalFees            *float64 `json:"total_fees" validate:"required,gte=0"`
	FeesPaid             *float64 `json:"fees_paid" validate:"required,gte=0"`
	FatherName           *string  `json:"father_name"`
	MotherName           *string  `json:"mother_name"`
	FeesPaymentMode      *string  `json:"fees_payment_mode"`
	DateOfBirth          *string  `json:"date_of_birth"`
	CourseEnrollmentDate *string  `json:"course_enrollment_date"`
	Address              *string  `json:"address"`
	AadharNo             *string  `json:"aadhar_no"`
	Email                *string  `json:"email"`
	EnrollmentNo         *string  `json:"enrollment_no"`
}

// LedgerService owns the validation and fee computation shared by the create
// and update paths. Balance is always recomputed here; caller-supplied values
// are never trusted.
type LedgerService struct {
	repo      studentRepository
	audits    auditAppender
	cache     *CacheService
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewLedgerService constructs the ledger service.
func NewLedgerService(repo studentRepository, audits auditAppender, cache *CacheService, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *LedgerService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LedgerService{repo: repo, audits: audits, cache: cache, metrics: metrics, validator: validate, logger: logger}
}

// List returns student records and pagination metadata.
func (s *LedgerService) List(ctx context.Context, filter models.StudentFilter) ([]models.StudentRecord, *models.Pagination, error) {
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 100
	}

	type cachedList struct {
		Records []models.StudentRecord `json:"records"`
		Total   int                    `json:"total"`
	}
	cacheKey := fmt.Sprintf("%s:%s:%t:%d:%d", studentListCachePrefix, strings.ToLower(filter.Search), filter.BalanceDue, page, size)
	if s.cache.Enabled() {
		var cached cachedList
		if hit, _ := s.cache.Get(ctx, cacheKey, &cached); hit {
			return cached.Records, &models.Pagination{Page: page, PageSize: size, TotalCount: cached.Total}, nil
		}
	}

	records, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "failed to list students")
	}

	if s.cache.Enabled() {
		_ = s.cache.Set(ctx, cacheKey, cachedList{Records: records, Total: total}, 0)
	}

	return records, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Get returns one student record.
func (s *LedgerService) Get(ctx context.Context, recordID string) (*models.StudentRecord, error) {
	record, err := s.repo.FindByID(ctx, recordID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student record not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "failed to load student")
	}
	return record, nil
}

// Create validates the payload, assigns a fresh record id, computes the
// balance and persists the row. A successful create appends one ADD audit
// entry.
func (s *LedgerService) Create(ctx context.Context, req CreateStudentRequest) (*models.StudentRecord, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student payload")
	}
	totalFees, feesPaid := *req.TotalFees, *req.FeesPaid
	if feesPaid > totalFees {
		return nil, appErrors.Clone(appErrors.ErrInvalidFeeState, "fees paid cannot be greater than total fees")
	}

	record := &models.StudentRecord{
		RecordID:             uuid.NewString(),
		StudentName:          strings.TrimSpace(req.StudentName),
		FatherName:           req.FatherName,
		MotherName:           req.MotherName,
		CourseName:           strings.TrimSpace(req.CourseName),
		FeesPaymentMode:      req.FeesPaymentMode,
		DateOfBirth:          normalizeDate(req.DateOfBirth),
		CourseEnrollmentDate: normalizeDate(req.CourseEnrollmentDate),
		Address:              req.Address,
		AadharNo:             req.AadharNo,
		MobileNo:             strings.TrimSpace(req.MobileNo),
		Email:                req.Email,
		EnrollmentNo:         req.EnrollmentNo,
		TotalFees:            totalFees,
		FeesPaid:             feesPaid,
		BalanceFees:          totalFees - feesPaid,
	}

	if err := s.repo.Create(ctx, record); err != nil {
		if errors.Is(err, repository.ErrDuplicateRecordID) {
			return nil, appErrors.Clone(appErrors.ErrValidation, "record id already exists")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "failed to create student")
	}

	s.metrics.RecordMutation(models.AuditActionAdd)
	s.appendAudit(ctx, models.AuditActionAdd, record.RecordID, fmt.Sprintf("Added student: %s", record.StudentName))
	s.invalidateListCache(ctx)

	return record, nil
}

// Update replaces the stored field set of an existing record, recomputes the
// balance and appends one EDIT audit entry listing the changed fields.
func (s *LedgerService) Update(ctx context.Context, recordID string, req UpdateStudentRequest) (*models.StudentRecord, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student payload")
	}
	totalFees, feesPaid := *req.TotalFees, *req.FeesPaid
	if feesPaid > totalFees {
		return nil, appErrors.Clone(appErrors.ErrInvalidFeeState, "fees paid cannot be greater than total fees")
	}

	existing, err := s.repo.FindByID(ctx, recordID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student record not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "failed to load student")
	}

	updated := *existing
	updated.StudentName = strings.TrimSpace(req.StudentName)
	updated.CourseName = strings.TrimSpace(req.CourseName)
	updated.MobileNo = strings.TrimSpace(req.MobileNo)
	updated.TotalFees = totalFees
	updated.FeesPaid = feesPaid
	updated.BalanceFees = totalFees - feesPaid
	applyString(&updated.FatherName, req.FatherName)
	applyString(&updated.MotherName, req.MotherName)
	applyString(&updated.FeesPaymentMode, req.FeesPaymentMode)
	applyDate(&updated.DateOfBirth, req.DateOfBirth)
	applyDate(&updated.CourseEnrollmentDate, req.CourseEnrollmentDate)
	applyString(&updated.Address, req.Address)
	applyString(&updated.AadharNo, req.AadharNo)
	applyString(&updated.Email, req.Email)
	applyString(&updated.EnrollmentNo, req.EnrollmentNo)

	changed := changedFields(existing, &updated)

	if err := s.repo.Update(ctx, &updated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student record not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "failed to update student")
	}

	details := "No fields changed"
	if len(changed) > 0 {
		details = fmt.Sprintf("Updated fields: %s", strings.Join(changed, ", "))
	}
	s.metrics.RecordMutation(models.AuditActionEdit)
	s.appendAudit(ctx, models.AuditActionEdit, recordID, details)
	s.invalidateListCache(ctx)

	return &updated, nil
}

// Delete permanently removes a record and appends one DELETE audit entry.
func (s *LedgerService) Delete(ctx context.Context, recordID string) error {
	if err := s.repo.Delete(ctx, recordID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "student record not found")
		}
		return appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "failed to delete student")
	}

	s.metrics.RecordMutation(models.AuditActionDelete)
	s.appendAudit(ctx, models.AuditActionDelete, recordID, "Deleted student record")
	s.invalidateListCache(ctx)

	return nil
}

// appendAudit writes the audit entry best-effort: a failure is reported but
// never unwinds the primary mutation, and the append is not retried.
func (s *LedgerService) appendAudit(ctx context.Context, action, recordID, details string) {
	if s.audits == nil {
		return
	}
	entry := &models.AuditLogEntry{Action: action, RecordID: recordID, Details: details}
	if err := s.audits.Append(ctx, entry); err != nil {
		s.metrics.RecordAuditFailure()
		s.logger.Error("audit append failed",
			zap.String("action", action),
			zap.String("record_id", recordID),
			zap.Error(err),
		)
	}
}

func (s *LedgerService) invalidateListCache(ctx context.Context) {
	if s.cache.Enabled() {
		_ = s.cache.Invalidate(ctx, studentListCachePrefix+":*")
	}
}

func applyString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func applyDate(dst *string, src *string) {
	if src != nil {
		*dst = normalizeDate(*src)
	}
}

// normalizeDate canonicalises calendar dates to YYYY-MM-DD. Absent or
// unparseable input becomes empty, never an error.
func normalizeDate(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	for _, layout := range []string{"2006-01-02", "2006/01/02", "02-01-2006", "02/01/2006", time.RFC3339} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format("2006-01-02")
		}
	}
	return ""
}

// changedFields returns the column names whose values differ between the two
// records, in schema order.
func changedFields(before, after *models.StudentRecord) []string {
	var changed []string
	compare := []struct {
		name     string
		from, to string
	}{
		{"student_name", before.StudentName, after.StudentName},
		{"father_name", before.FatherName, after.FatherName},
		{"mother_name", before.MotherName, after.MotherName},
		{"course_name", before.CourseName, after.CourseName},
		{"fees_payment_mode", before.FeesPaymentMode, after.FeesPaymentMode},
		{"date_of_birth", before.DateOfBirth, after.DateOfBirth},
		{"course_enrollment_date", before.CourseEnrollmentDate, after.CourseEnrollmentDate},
		{"address", before.Address, after.Address},
		{"aadhar_no", before.AadharNo, after.AadharNo},
		{"mobile_no", before.MobileNo, after.MobileNo},
		{"email", before.Email, after.Email},
		{"enrollment_no", before.EnrollmentNo, after.EnrollmentNo},
	}
	for _, c := range compare {
		if c.from != c.to {
			changed = append(changed, c.name)
		}
	}
	if before.TotalFees != after.TotalFees {
		changed = append(changed, "total_fees")
	}
	if before.FeesPaid != after.FeesPaid {
		changed = append(changed, "fees_paid")
	}
	if before.BalanceFees != after.BalanceFees {
		changed = append(changed, "balance_fees")
	}
	return changed
}
