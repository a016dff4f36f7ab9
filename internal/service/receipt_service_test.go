package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/student-crm-api/internal/models"
	appErrors "github.com/noah-isme/student-crm-api/pkg/errors"
	"github.com/noah-isme/student-crm-api/pkg/export"
)

type receiptFinderMock struct {
	record *models.StudentRecord
}

func (m *receiptFinderMock) FindByID(ctx context.Context, recordID string) (*models.StudentRecord, error) {
	if m.record == nil || m.record.RecordID != recordID {
		return nil, sql.ErrNoRows
	}
	return m.record, nil
}

func TestReceiptServiceGenerate(t *testing.T) {
	finder := &receiptFinderMock{record: &models.StudentRecord{
		RecordID:    "r1",
		StudentName: "Asha Verma",
		CourseName:  "Tally with GST",
		MobileNo:    "9876543210",
		TotalFees:   5000,
		FeesPaid:    2000,
		BalanceFees: 3000,
	}}
	svc := NewReceiptService(finder, export.NewReceiptPDF(export.Letterhead{Name: "Progressive Computers"}), zap.NewNop())

	payload, filename, err := svc.Generate(context.Background(), "r1")
	require.NoError(t, err)
	assert.NotEmpty(t, payload)
	assert.Equal(t, "Receipt_Asha_Verma_r1.pdf", filename)
}

func TestReceiptServiceGenerateMissingRecord(t *testing.T) {
	svc := NewReceiptService(&receiptFinderMock{}, export.NewReceiptPDF(export.Letterhead{}), zap.NewNop())

	_, _, err := svc.Generate(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
