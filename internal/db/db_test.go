package db

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/zulandar/intake/internal/config"
)

func TestMySQLDSN(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.DatabaseConfig
		want []string
	}{
		{
			name: "default local",
			cfg:  config.DatabaseConfig{Host: "127.0.0.1", Port: 3306, User: "root", Name: "intake"},
			want: []string{"root@tcp(127.0.0.1:3306)/intake", "parseTime=true"},
		},
		{
			name: "password and custom port",
			cfg:  config.DatabaseConfig{Host: "10.0.0.5", Port: 3307, User: "intake", Password: "s3cret", Name: "intake_prod"},
			want: []string{"intake:s3cret@tcp(10.0.0.5:3307)/intake_prod"},
		},
		{
			name: "ipv6 host",
			cfg:  config.DatabaseConfig{Host: "::1", Port: 3306, User: "root", Name: "intake"},
			want: []string{"tcp([::1]:3306)"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MySQLDSN(tt.cfg)
			for _, w := range tt.want {
				if !strings.Contains(got, w) {
					t.Errorf("MySQLDSN() = %q, want to contain %q", got, w)
				}
			}
		})
	}
}

func TestAllModels_Count(t *testing.T) {
	models := AllModels()
	if len(models) != 1 {
		t.Errorf("AllModels() returned %d models, want 1", len(models))
	}
}

func TestConnect_UnsupportedDriver(t *testing.T) {
	_, err := Connect(config.DatabaseConfig{Driver: "postgres"})
	if err == nil {
		t.Fatal("expected error for unsupported driver")
	}
	if !strings.Contains(err.Error(), `unsupported driver "postgres"`) {
		t.Errorf("error = %q, want to contain unsupported driver", err.Error())
	}
}

func TestConnect_SQLiteRequiresPath(t *testing.T) {
	_, err := Connect(config.DatabaseConfig{Driver: config.DriverSQLite})
	if err == nil {
		t.Fatal("expected error for empty sqlite path")
	}
	if !strings.Contains(err.Error(), "sqlite path is required") {
		t.Errorf("error = %q, want to contain %q", err.Error(), "sqlite path is required")
	}
}

func TestConnect_MySQLError(t *testing.T) {
	// Port 1 is unlikely to have a MySQL server; expect connection error.
	_, err := Connect(config.DatabaseConfig{
		Driver: config.DriverMySQL, Host: "127.0.0.1", Port: 1, User: "root", Name: "nonexistent",
	})
	if err == nil {
		t.Fatal("expected error connecting to invalid port")
	}
	if !strings.Contains(err.Error(), "db: connect to") {
		t.Errorf("error = %q, want to contain %q", err.Error(), "db: connect to")
	}
}

func TestConnect_SQLiteMigrateAndDrop(t *testing.T) {
	path := filepath.Join(t.TempDir(), "intake.db")
	gormDB, err := Connect(config.DatabaseConfig{Driver: config.DriverSQLite, Path: path})
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}

	if err := AutoMigrate(gormDB); err != nil {
		t.Fatalf("AutoMigrate: %v", err)
	}
	m := gormDB.Migrator()
	if !m.HasTable("actions") {
		t.Fatal("actions table missing after AutoMigrate")
	}
	if !m.HasIndex("actions", "idx_actions_analysis_status_priority") {
		t.Error("idx_actions_analysis_status_priority missing after AutoMigrate")
	}

	// Migrating twice is a no-op.
	if err := AutoMigrate(gormDB); err != nil {
		t.Fatalf("second AutoMigrate: %v", err)
	}

	if err := DropAll(gormDB); err != nil {
		t.Fatalf("DropAll: %v", err)
	}
	if m.HasTable("actions") {
		t.Error("actions table still present after DropAll")
	}
	if err := DropAll(gormDB); err != nil {
		t.Errorf("DropAll on empty schema: %v", err)
	}
}
