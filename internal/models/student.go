package models

import "time"

// StudentRecord is one row of the student table. Dates are stored as
// YYYY-MM-DD strings; empty means not provided. BalanceFees is derived and
// always recomputed server-side.
type StudentRecord struct {
	RecordID             string    `db:"record_id" json:"record_id"`
	StudentName          string    `db:"student_name" json:"student_name"`
	FatherName           string    `db:"father_name" json:"father_name"`
	MotherName           string    `db:"mother_name" json:"mother_name"`
	CourseName           string    `db:"course_name" json:"course_name"`
	FeesPaymentMode      string    `db:"fees_payment_mode" json:"fees_payment_mode"`
	DateOfBirth          string    `db:"date_of_birth" json:"date_of_birth"`
	CourseEnrollmentDate string    `db:"course_enrollment_date" json:"course_enrollment_date"`
	Address              string    `db:"address" json:"address"`
	AadharNo             string    `db:"aadhar_no" json:"aadhar_no"`
	MobileNo             string    `db:"mobile_no" json:"mobile_no"`
	Email                string    `db:"email" json:"email"`
	EnrollmentNo         string    `db:"enrollment_no" json:"enrollment_no"`
	TotalFees            float64   `db:"total_fees" json:"total_fees"`
	FeesPaid             float64   `db:"fees_paid" json:"fees_paid"`
	BalanceFees          float64   `db:"balance_fees" json:"balance_fees"`
	CreatedAt            time.Time `db:"created_at" json:"created_at"`
	UpdatedAt            time.Time `db:"updated_at" json:"updated_at"`
}

// StudentFilter encapsulates allowed search parameters for listing records.
type StudentFilter struct {
	Search     string
	BalanceDue bool
	Page       int
	PageSize   int
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
