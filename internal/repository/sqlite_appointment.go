package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/casebridge/casebridge/internal/db"
	"github.com/casebridge/casebridge/internal/domain"
)

// SQLiteAppointmentRepo implements AppointmentRepo using SQLite.
type SQLiteAppointmentRepo struct {
	db db.DBTX
}

var _ AppointmentRepo = (*SQLiteAppointmentRepo)(nil)

func NewSQLiteAppointmentRepo(conn db.DBTX) *SQLiteAppointmentRepo {
	return &SQLiteAppointmentRepo{db: conn}
}

const appointmentColumns = `a.id, a.case_id, a.client_id, a.lawyer_id, a.date, a.type, a.status, a.description`

func (r *SQLiteAppointmentRepo) Upsert(ctx context.Context, a domain.Appointment) error {
	query := `INSERT INTO appointments (id, case_id, client_id, lawyer_id, date, type, status, description, synced_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			case_id = excluded.case_id,
			client_id = excluded.client_id,
			lawyer_id = excluded.lawyer_id,
			date = excluded.date,
			type = excluded.type,
			status = excluded.status,
			description = excluded.description,
			synced_at = excluded.synced_at`
	_, err := r.db.ExecContext(ctx, query,
		a.ID,
		a.CaseID,
		a.ClientID,
		a.LawyerID,
		formatTime(a.Date),
		string(a.Type),
		string(a.Status),
		a.Description,
		nowUTC(),
	)
	if err != nil {
		return fmt.Errorf("upserting appointment %s: %w", a.ID, err)
	}
	return nil
}

func (r *SQLiteAppointmentRepo) GetByID(ctx context.Context, id string) (*domain.Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments a WHERE a.id = ?`
	row := r.db.QueryRowContext(ctx, query, id)

	a, err := scanAppointment(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("appointment %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *SQLiteAppointmentRepo) ListByScope(ctx context.Context, scope string) ([]domain.Appointment, error) {
	query := `SELECT ` + appointmentColumns + `
		FROM appointment_scopes s
		JOIN appointments a ON a.id = s.appointment_id
		WHERE s.scope = ?
		ORDER BY s.position, a.date`
	rows, err := r.db.QueryContext(ctx, query, scope)
	if err != nil {
		return nil, fmt.Errorf("listing appointments for %s: %w", scope, err)
	}
	defer rows.Close()

	var out []domain.Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating appointments: %w", err)
	}
	return out, nil
}

func (r *SQLiteAppointmentRepo) ReplaceScope(ctx context.Context, scope string, appts []domain.Appointment) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM appointment_scopes WHERE scope = ?`, scope); err != nil {
		return fmt.Errorf("clearing scope %s: %w", scope, err)
	}
	for i, a := range appts {
		if err := r.Upsert(ctx, a); err != nil {
			return err
		}
		if err := r.addToScope(ctx, scope, a.ID, i); err != nil {
			return err
		}
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO scope_syncs (scope, synced_at) VALUES (?, ?)
		 ON CONFLICT(scope) DO UPDATE SET synced_at = excluded.synced_at`,
		scope, nowUTC())
	if err != nil {
		return fmt.Errorf("recording sync of %s: %w", scope, err)
	}
	return nil
}

// AddToScope appends an appointment to the end of a scope. It is a no-op if
// the appointment is already a member.
func (r *SQLiteAppointmentRepo) AddToScope(ctx context.Context, scope, appointmentID string) error {
	var next int
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(position), -1) + 1 FROM appointment_scopes WHERE scope = ?`, scope).Scan(&next)
	if err != nil {
		return fmt.Errorf("reading scope %s position: %w", scope, err)
	}
	return r.addToScope(ctx, scope, appointmentID, next)
}

func (r *SQLiteAppointmentRepo) addToScope(ctx context.Context, scope, appointmentID string, position int) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO appointment_scopes (scope, appointment_id, position) VALUES (?, ?, ?)
		 ON CONFLICT(scope, appointment_id) DO NOTHING`,
		scope, appointmentID, position)
	if err != nil {
		return fmt.Errorf("adding %s to scope %s: %w", appointmentID, scope, err)
	}
	return nil
}

func (r *SQLiteAppointmentRepo) LastSynced(ctx context.Context, scope string) (*time.Time, error) {
	var s sql.NullString
	err := r.db.QueryRowContext(ctx, `SELECT synced_at FROM scope_syncs WHERE scope = ?`, scope).Scan(&s)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("scope %s: %w", scope, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("reading sync time for %s: %w", scope, err)
	}
	return parseNullableTime(s), nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAppointment(row rowScanner) (domain.Appointment, error) {
	var (
		a           domain.Appointment
		dateStr     string
		typ, status string
	)
	err := row.Scan(&a.ID, &a.CaseID, &a.ClientID, &a.LawyerID, &dateStr, &typ, &status, &a.Description)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return a, err
		}
		return a, fmt.Errorf("scanning appointment: %w", err)
	}
	a.Date, err = time.Parse(time.RFC3339Nano, dateStr)
	if err != nil {
		return a, fmt.Errorf("parsing date of %s: %w", a.ID, err)
	}
	a.Type = domain.AppointmentType(typ)
	a.Status = domain.AppointmentStatus(status)
	return a, nil
}
