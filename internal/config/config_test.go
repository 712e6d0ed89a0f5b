package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const fullYAML = `
database:
  driver: mysql
  host: 10.0.0.5
  port: 3307
  user: intake
  password: s3cret
  name: intake_prod

server:
  port: 9090
  base_path: /api/
`

const minimalYAML = `
database:
  path: /var/lib/intake/actions.db
`

func TestParse_FullConfig(t *testing.T) {
	cfg, err := Parse([]byte(fullYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Database.Driver != DriverMySQL {
		t.Errorf("Database.Driver = %q, want %q", cfg.Database.Driver, DriverMySQL)
	}
	if cfg.Database.Host != "10.0.0.5" {
		t.Errorf("Database.Host = %q, want %q", cfg.Database.Host, "10.0.0.5")
	}
	if cfg.Database.Port != 3307 {
		t.Errorf("Database.Port = %d, want %d", cfg.Database.Port, 3307)
	}
	if cfg.Database.User != "intake" {
		t.Errorf("Database.User = %q, want %q", cfg.Database.User, "intake")
	}
	if cfg.Database.Password != "s3cret" {
		t.Errorf("Database.Password = %q, want %q", cfg.Database.Password, "s3cret")
	}
	if cfg.Database.Name != "intake_prod" {
		t.Errorf("Database.Name = %q, want %q", cfg.Database.Name, "intake_prod")
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, 9090)
	}
	if cfg.Server.BasePath != "/api" {
		t.Errorf("Server.BasePath = %q, want %q (trailing slash trimmed)", cfg.Server.BasePath, "/api")
	}
}

func TestParse_MinimalConfig_AppliesDefaults(t *testing.T) {
	cfg, err := Parse([]byte(minimalYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Database.Driver != DriverSQLite {
		t.Errorf("Database.Driver = %q, want %q (default)", cfg.Database.Driver, DriverSQLite)
	}
	if cfg.Database.Path != "/var/lib/intake/actions.db" {
		t.Errorf("Database.Path = %q, want %q", cfg.Database.Path, "/var/lib/intake/actions.db")
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want %d (default)", cfg.Server.Port, 8080)
	}
	if cfg.Server.BasePath != "" {
		t.Errorf("Server.BasePath = %q, want empty", cfg.Server.BasePath)
	}
}

func TestParse_EmptyConfig(t *testing.T) {
	cfg, err := Parse([]byte(""))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Database.Path != "intake.db" {
		t.Errorf("Database.Path = %q, want %q (default)", cfg.Database.Path, "intake.db")
	}
}

func TestParse_MySQLDefaults(t *testing.T) {
	yaml := `
database:
  driver: mysql
  name: intake
`
	cfg, err := Parse([]byte(yaml))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Database.Host != "127.0.0.1" {
		t.Errorf("Database.Host = %q, want %q (default)", cfg.Database.Host, "127.0.0.1")
	}
	if cfg.Database.Port != 3306 {
		t.Errorf("Database.Port = %d, want %d (default)", cfg.Database.Port, 3306)
	}
	if cfg.Database.User != "root" {
		t.Errorf("Database.User = %q, want %q (default)", cfg.Database.User, "root")
	}
	if cfg.Database.Path != "" {
		t.Errorf("Database.Path = %q, want empty for mysql", cfg.Database.Path)
	}
}

func TestParse_ValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{
			name: "unknown driver",
			yaml: "database:\n  driver: postgres\n",
			want: `database.driver "postgres" is not supported`,
		},
		{
			name: "mysql without name",
			yaml: "database:\n  driver: mysql\n",
			want: "database.name is required for mysql",
		},
		{
			name: "mysql port out of range",
			yaml: "database:\n  driver: mysql\n  name: x\n  port: 70000\n",
			want: "database.port 70000 out of range",
		},
		{
			name: "server port out of range",
			yaml: "server:\n  port: -1\n",
			want: "server.port -1 out of range",
		},
		{
			name: "relative base path",
			yaml: "server:\n  base_path: api\n",
			want: "server.base_path must start with /",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %q, want to contain %q", err.Error(), tt.want)
			}
			if !strings.HasPrefix(err.Error(), "config: validation failed:") {
				t.Errorf("error = %q, want config: validation failed prefix", err.Error())
			}
		})
	}
}

func TestParse_MultipleValidationErrors(t *testing.T) {
	yaml := `
database:
  driver: mysql
server:
  base_path: api
`
	_, err := Parse([]byte(yaml))
	if err == nil {
		t.Fatal("expected error")
	}
	msg := err.Error()
	if !strings.Contains(msg, "database.name is required for mysql") {
		t.Errorf("error missing database.name: %s", msg)
	}
	if !strings.Contains(msg, "server.base_path must start with /") {
		t.Errorf("error missing server.base_path: %s", msg)
	}
}

func TestParse_InvalidYAML(t *testing.T) {
	_, err := Parse([]byte(":::invalid"))
	if err == nil {
		t.Fatal("expected error for invalid YAML")
	}
	if !strings.Contains(err.Error(), "config: parse:") {
		t.Errorf("error = %q, want to contain %q", err.Error(), "config: parse:")
	}
}

func TestLoad_ValidFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "intake.yaml")
	if err := os.WriteFile(path, []byte(minimalYAML), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Database.Path != "/var/lib/intake/actions.db" {
		t.Errorf("Database.Path = %q, want %q", cfg.Database.Path, "/var/lib/intake/actions.db")
	}
}

func TestLoad_FileNotFound(t *testing.T) {
	_, err := Load("/nonexistent/intake.yaml")
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !strings.Contains(err.Error(), "config: read") {
		t.Errorf("error = %q, want to contain %q", err.Error(), "config: read")
	}
}
