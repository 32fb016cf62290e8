package database

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/kawasemi/timesheet-api/internal/logging"
)

// AddIndexes adds performance-critical indexes to the database
func AddIndexes(db *gorm.DB) error {
	indexes := []struct {
		table   string
		name    string
		columns string
	}{
		// Membership lookups by tenant and by identity email
		{"memberships", "idx_memberships_tenant_id", "tenant_id"},
		{"memberships", "idx_memberships_email", "lower(email)"},
		{"memberships", "idx_memberships_organization_id", "organization_id"},

		// Session expiry sweeps
		{"sessions", "idx_sessions_expires_at", "expires_at"},

		// Timesheet entries per member per day
		{"timesheet_entries", "idx_timesheet_entries_membership_date", "membership_id, work_date"},
	}

	for _, idx := range indexes {
		var count int64
		err := db.Raw(`
			SELECT COUNT(*)
			FROM pg_indexes
			WHERE tablename = ? AND indexname = ?
		`, idx.table, idx.name).Count(&count).Error

		if err != nil {
			return fmt.Errorf("failed to check index %s: %w", idx.name, err)
		}

		if count > 0 {
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		logging.L().Sugar().Infof("Created index %s on %s(%s)", idx.name, idx.table, idx.columns)
	}

	// Last line of defense against two concurrent assignments racing past the
	// in-transaction existence check: at most one membership per
	// (tenant_id, lower(email)).
	const uniqueName = "uq_memberships_tenant_email"
	var count int64
	err := db.Raw(`
		SELECT COUNT(*)
		FROM pg_indexes
		WHERE tablename = 'memberships' AND indexname = ?
	`, uniqueName).Count(&count).Error
	if err != nil {
		return fmt.Errorf("failed to check index %s: %w", uniqueName, err)
	}
	if count == 0 {
		sql := fmt.Sprintf(
			"CREATE UNIQUE INDEX %s ON memberships (tenant_id, lower(email)) WHERE deleted_at IS NULL",
			uniqueName,
		)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", uniqueName, err)
		}
	}

	return nil
}
