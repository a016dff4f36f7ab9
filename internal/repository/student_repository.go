package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/student-crm-api/internal/models"
)

// ErrDuplicateRecordID signals an insert with an already used record id.
var ErrDuplicateRecordID = errors.New("record id already exists")

const studentColumns = `record_id, student_name, father_name, mother_name, course_name, fees_payment_mode,
        date_of_birth, course_enrollment_date, address, aadhar_no, mobile_no, email, enrollment_no,
        total_fees, fees_paid, balance_fees, created_at, updated_at`

// StudentRepository manages persistence for student records.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository constructs a StudentRepository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// List returns records matching the provided filters in stable insertion
// order. An empty table yields an empty slice, never an error.
func (r *StudentRepository) List(ctx context.Context, filter models.StudentFilter) ([]models.StudentRecord, int, error) {
	conditions := []string{"1=1"}
	args := []interface{}{}

	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(LOWER(student_name) LIKE $%d OR mobile_no LIKE $%d)", len(args)+1, len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}
	if filter.BalanceDue {
		conditions = append(conditions, "balance_fees > 0")
	}

	where := strings.Join(conditions, " AND ")

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 500 {
		size = 100
	}
	offset := (page - 1) * size

	query := fmt.Sprintf(`SELECT %s FROM students WHERE %s ORDER BY created_at ASC, record_id ASC LIMIT %d OFFSET %d`,
		studentColumns, where, size, offset)

	records := []models.StudentRecord{}
	if err := r.db.SelectContext(ctx, &records, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list students: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM students WHERE %s", where)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count students: %w", err)
	}
	return records, total, nil
}

// FindByID fetches a single record by id.
func (r *StudentRepository) FindByID(ctx context.Context, recordID string) (*models.StudentRecord, error) {
	query := fmt.Sprintf(`SELECT %s FROM students WHERE record_id = $1`, studentColumns)
	var record models.StudentRecord
	if err := r.db.GetContext(ctx, &record, query, recordID); err != nil {
		return nil, err
	}
	return &record, nil
}

// Create inserts a new student record. A duplicate record id yields
// ErrDuplicateRecordID.
func (r *StudentRepository) Create(ctx context.Context, record *models.StudentRecord) error {
	now := time.Now().UTC()
	if record.CreatedAt.IsZero() {
		record.CreatedAt = now
	}
	record.UpdatedAt = now
	const query = `INSERT INTO students (record_id, student_name, father_name, mother_name, course_name, fees_payment_mode,
        date_of_birth, course_enrollment_date, address, aadhar_no, mobile_no, email, enrollment_no,
        total_fees, fees_paid, balance_fees, created_at, updated_at)
        VALUES (:record_id, :student_name, :father_name, :mother_name, :course_name, :fees_payment_mode,
        :date_of_birth, :course_enrollment_date, :address, :aadhar_no, :mobile_no, :email, :enrollment_no,
        :total_fees, :fees_paid, :balance_fees, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, record); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return ErrDuplicateRecordID
		}
		return fmt.Errorf("create student: %w", err)
	}
	return nil
}

// Update replaces all stored fields of an existing record. A missing record
// yields sql.ErrNoRows.
func (r *StudentRepository) Update(ctx context.Context, record *models.StudentRecord) error {
	record.UpdatedAt = time.Now().UTC()
	const query = `UPDATE students SET student_name = :student_name, father_name = :father_name, mother_name = :mother_name,
        course_name = :course_name, fees_payment_mode = :fees_payment_mode, date_of_birth = :date_of_birth,
        course_enrollment_date = :course_enrollment_date, address = :address, aadhar_no = :aadhar_no,
        mobile_no = :mobile_no, email = :email, enrollment_no = :enrollment_no,
        total_fees = :total_fees, fees_paid = :fees_paid, balance_fees = :balance_fees, updated_at = :updated_at
        WHERE record_id = :record_id`
	result, err := r.db.NamedExecContext(ctx, query, record)
	if err != nil {
		return fmt.Errorf("update student: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update student rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete permanently removes a record. A missing record yields
// sql.ErrNoRows.
func (r *StudentRepository) Delete(ctx context.Context, recordID string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM students WHERE record_id = $1`, recordID)
	if err != nil {
		return fmt.Errorf("delete student: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete student rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ListAll streams the full table for backup exports, insertion order.
func (r *StudentRepository) ListAll(ctx context.Context) ([]models.StudentRecord, error) {
	query := fmt.Sprintf(`SELECT %s FROM students ORDER BY created_at ASC, record_id ASC`, studentColumns)
	records := []models.StudentRecord{}
	if err := r.db.SelectContext(ctx, &records, query); err != nil {
		return nil, fmt.Errorf("list all students: %w", err)
	}
	return records, nil
}
