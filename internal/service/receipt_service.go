package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/student-crm-api/internal/models"
	appErrors "github.com/noah-isme/student-crm-api/pkg/errors"
	"github.com/noah-isme/student-crm-api/pkg/export"
)

type receiptStudentSource interface {
	FindByID(ctx context.Context, recordID string) (*models.StudentRecord, error)
}

type receiptRenderer interface {
	Render(r export.Receipt) ([]byte, error)
}

// ReceiptService renders fee receipts for stored student records.
type ReceiptService struct {
	students receiptStudentSource
	renderer receiptRenderer
	logger   *zap.Logger
}

// NewReceiptService constructs the receipt service.
func NewReceiptService(students receiptStudentSource, renderer receiptRenderer, logger *zap.Logger) *ReceiptService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReceiptService{students: students, renderer: renderer, logger: logger}
}

// Generate renders the receipt PDF for the given record and returns the
// payload together with a download filename.
func (s *ReceiptService) Generate(ctx context.Context, recordID string) ([]byte, string, error) {
	record, err := s.students.FindByID(ctx, recordID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, "", appErrors.Clone(appErrors.ErrNotFound, "student record not found")
		}
		return nil, "", appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "failed to load student record")
	}

	payload, err := s.renderer.Render(export.Receipt{
		RecordID:       record.RecordID,
		StudentName:    record.StudentName,
		CourseName:     record.CourseName,
		EnrollmentDate: record.CourseEnrollmentDate,
		MobileNo:       record.MobileNo,
		Email:          record.Email,
		TotalFees:      record.TotalFees,
		FeesPaid:       record.FeesPaid,
		BalanceFees:    record.BalanceFees,
		PaymentMode:    record.FeesPaymentMode,
		IssuedAt:       time.Now(),
	})
	if err != nil {
		s.logger.Error("receipt render failed", zap.String("record_id", recordID), zap.Error(err))
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render receipt")
	}

	return payload, receiptFilename(record.StudentName, record.RecordID), nil
}

func receiptFilename(studentName, recordID string) string {
	name := strings.ReplaceAll(strings.TrimSpace(studentName), " ", "_")
	if name == "" {
		name = "Student"
	}
	return fmt.Sprintf("Receipt_%s_%s.pdf", name, recordID)
}
