package db

import (
	"context"
	"database/sql"

	"github.com/Spok95/smartschool/internal/models"
)

// ListRoster — ученики группы по предмету, по имени.
func ListRoster(ctx context.Context, database *sql.DB, subject, classGroupID string) ([]models.StudentEntry, error) {
	rows, err := database.QueryContext(ctx, `
		SELECT student_id, display_name
		FROM roster
		WHERE class_group_id = $1 AND subject_name = $2
		ORDER BY display_name, student_id
	`, classGroupID, subject)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	out := []models.StudentEntry{}
	for rows.Next() {
		var s models.StudentEntry
		if err := rows.Scan(&s.ID, &s.DisplayName); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Enroll is idempotent per (group, subject, student).
func Enroll(ctx context.Context, database *sql.DB, subject, classGroupID string, s models.StudentEntry) error {
	_, err := database.ExecContext(ctx, `
		INSERT INTO roster (class_group_id, subject_name, student_id, display_name)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (class_group_id, subject_name, student_id) DO UPDATE SET display_name = EXCLUDED.display_name
	`, classGroupID, subject, s.ID, s.DisplayName)
	return err
}
