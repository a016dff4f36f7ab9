package export

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// Letterhead is the fixed institute block printed on every receipt.
type Letterhead struct {
	Name    string
	Address string
	Phone   string
}

// Receipt carries the fields rendered on a fee receipt. Amounts are printed
// with two-decimal formatting.
type Receipt struct {
	RecordID       string
	StudentName    string
	CourseName     string
	EnrollmentDate string
	MobileNo       string
	Email          string
	TotalFees      float64
	FeesPaid       float64
	BalanceFees    float64
	PaymentMode    string
	IssuedAt       time.Time
}

// ReceiptPDF renders fee receipts. Rendering is pure: no I/O, no mutation of
// the input.
type ReceiptPDF struct {
	letterhead Letterhead
}

// NewReceiptPDF constructs a receipt renderer with the given letterhead.
func NewReceiptPDF(letterhead Letterhead) *ReceiptPDF {
	return &ReceiptPDF{letterhead: letterhead}
}

// Render produces the receipt PDF with the student copy and the institute
// copy stacked on a single page.
func (e *ReceiptPDF) Render(r Receipt) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(12, 12, 12)
	pdf.AddPage()

	e.renderCopy(pdf, r, "Student Copy")
	pdf.Ln(6)
	pdf.SetDrawColor(150, 150, 150)
	pageWidth, _ := pdf.GetPageSize()
	y := pdf.GetY()
	pdf.SetDashPattern([]float64{2, 2}, 0)
	pdf.Line(12, y, pageWidth-12, y)
	pdf.SetDashPattern([]float64{}, 0)
	pdf.Ln(6)
	e.renderCopy(pdf, r, "Institute Copy")

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render receipt pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func (e *ReceiptPDF) renderCopy(pdf *gofpdf.Fpdf, r Receipt, label string) {
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 8, "Fee Receipt", "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(0, 6, e.letterhead.Name, "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(0, 5, e.letterhead.Address, "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 5, e.letterhead.Phone, "", 1, "C", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "I", 8)
	pdf.CellFormat(0, 5, label, "", 1, "R", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(0, 5, fmt.Sprintf("Date: %s", r.IssuedAt.Format("2006-01-02 15:04:05")), "", 1, "R", false, 0, "")
	pdf.CellFormat(0, 5, fmt.Sprintf("Receipt For Record ID: %s", r.RecordID), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(0, 6, "Student Details:", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	e.row(pdf, "Name:", r.StudentName)
	e.row(pdf, "Course:", r.CourseName)
	e.row(pdf, "Enrolled On:", orNA(r.EnrollmentDate))
	e.row(pdf, "Mobile No:", r.MobileNo)
	e.row(pdf, "Email:", orNA(r.Email))
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(0, 6, "Fee Details:", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	e.row(pdf, "Total Course Fees:", fmt.Sprintf("%.2f", r.TotalFees))
	e.row(pdf, "Total Fees Paid:", fmt.Sprintf("%.2f", r.FeesPaid))
	e.row(pdf, "Balance Fees:", fmt.Sprintf("%.2f", r.BalanceFees))
	e.row(pdf, "Last Payment Mode:", orNA(r.PaymentMode))
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "I", 7)
	pdf.CellFormat(0, 4, "*This is a system-generated receipt.*", "", 1, "C", false, 0, "")
}

func (e *ReceiptPDF) row(pdf *gofpdf.Fpdf, key, value string) {
	pdf.CellFormat(45, 5, key, "", 0, "L", false, 0, "")
	pdf.CellFormat(0, 5, value, "", 1, "L", false, 0, "")
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
