package config

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"

	"github.com/edsa-freetown/gridwatch/models"
)

func Migrations(db *gorm.DB) error {
	m := gormigrate.New(db, gormigrate.DefaultOptions, []*gormigrate.Migration{
		{
			ID: "20250601_create_core_tables",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(
					&models.AdminAccount{}, &models.AdminSession{},
					&models.Community{}, &models.Resident{},
					&models.Report{}, &models.Outage{},
					&models.Notification{}, &models.Payment{},
				)
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable(
					"notifications", "payments", "outages", "reports",
					"residents", "communities", "admin_sessions", "admin_accounts",
				)
			},
		},
		{
			// Statement-level triggers feed the changefeed. The payload is
			// only the table name; subscribers re-query, they never get rows.
			ID: "20250614_add_change_notify_triggers",
			Migrate: func(tx *gorm.DB) error {
				if err := tx.Exec(`
					CREATE OR REPLACE FUNCTION grid_notify_change() RETURNS trigger AS $$
					BEGIN
						PERFORM pg_notify('grid_changes', TG_TABLE_NAME);
						RETURN NULL;
					END;
					$$ LANGUAGE plpgsql;
				`).Error; err != nil {
					return err
				}
				for _, table := range []string{"reports", "outages"} {
					if err := tx.Exec(`
						DROP TRIGGER IF EXISTS ` + table + `_notify ON ` + table + `;
						CREATE TRIGGER ` + table + `_notify
						AFTER INSERT OR UPDATE OR DELETE ON ` + table + `
						FOR EACH STATEMENT EXECUTE FUNCTION grid_notify_change();
					`).Error; err != nil {
						return err
					}
				}
				return nil
			},
			Rollback: func(tx *gorm.DB) error {
				for _, table := range []string{"reports", "outages"} {
					if err := tx.Exec(`DROP TRIGGER IF EXISTS ` + table + `_notify ON ` + table).Error; err != nil {
						return err
					}
				}
				return tx.Exec(`DROP FUNCTION IF EXISTS grid_notify_change()`).Error
			},
		},
	})

	return m.Migrate()
}
