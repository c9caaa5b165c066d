package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/piwi3910/SiteTakeoff/internal/model"
)

// BackupVersion is written into every backup file. Backups whose major
// version differs cannot be restored.
const BackupVersion = "1.0.0"

// File names inside a home directory.
const (
	ConfigFile    = "config.toml"
	CatalogFile   = "catalog.json"
	TemplatesFile = "templates.json"
)

// Store locates the three files that make up the saved state of a home
// directory.
type Store struct {
	Config    string
	Catalog   string
	Templates string
}

// StoreAt returns the Store for the files kept under dir.
func StoreAt(dir string) Store {
	return Store{
		Config:    filepath.Join(dir, ConfigFile),
		Catalog:   filepath.Join(dir, CatalogFile),
		Templates: filepath.Join(dir, TemplatesFile),
	}
}

// Backup is one snapshot of settings, catalog and templates.
type Backup struct {
	Version   string              `json:"version"`
	CreatedAt string              `json:"created_at"`
	Config    model.AppConfig     `json:"config"`
	Catalog   model.Catalog       `json:"catalog"`
	Templates model.TemplateStore `json:"templates"`
}

// Snapshot reads everything the store holds. Missing files yield defaults.
func (s Store) Snapshot() (Backup, error) {
	config, err := LoadAppConfig(s.Config)
	if err != nil {
		return Backup{}, err
	}
	catalog, err := LoadCatalog(s.Catalog)
	if err != nil {
		return Backup{}, err
	}
	templates, err := LoadTemplates(s.Templates)
	if err != nil {
		return Backup{}, err
	}
	return Backup{
		Version:   BackupVersion,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
		Config:    config,
		Catalog:   catalog,
		Templates: templates,
	}, nil
}

// Restore overwrites the store's files with the backup contents. The
// returned error names the part that could not be written.
func (s Store) Restore(b Backup) error {
	if err := SaveAppConfig(s.Config, b.Config); err != nil {
		return fmt.Errorf("settings not restored: %w", err)
	}
	if err := SaveCatalog(s.Catalog, b.Catalog); err != nil {
		return fmt.Errorf("catalog not restored: %w", err)
	}
	if err := SaveTemplates(s.Templates, b.Templates); err != nil {
		return fmt.Errorf("templates not restored: %w", err)
	}
	return nil
}

// WriteBackup stores b as indented JSON at path, creating parent directories.
func WriteBackup(path string, b Backup) error {
	if b.Version == "" {
		b.Version = BackupVersion
	}
	if b.CreatedAt == "" {
		b.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	}
	data, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal backup: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create backup directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write backup: %w", err)
	}
	return nil
}

// ReadBackup loads a backup file. Parts absent from the file come back
// empty but usable, and the catalog regains any missing built-in materials.
func ReadBackup(path string) (Backup, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Backup{}, fmt.Errorf("failed to read backup: %w", err)
	}
	var b Backup
	if err := json.Unmarshal(data, &b); err != nil {
		return Backup{}, fmt.Errorf("failed to parse backup: %w", err)
	}
	if b.Version == "" {
		return Backup{}, fmt.Errorf("%s is not a backup: no version", path)
	}
	if major(b.Version) != major(BackupVersion) {
		return Backup{}, fmt.Errorf("backup version %s cannot be restored by %s", b.Version, BackupVersion)
	}
	if b.Config.RecentFiles == nil {
		b.Config.RecentFiles = []string{}
	}
	if b.Templates.Templates == nil {
		b.Templates.Templates = []model.CalculationTemplate{}
	}
	b.Catalog.MergeDefaults()
	return b, nil
}

func major(version string) string {
	v, _, _ := strings.Cut(strings.TrimPrefix(version, "v"), ".")
	return v
}
