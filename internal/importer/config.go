package importer

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// LoadConfig reads a calculator configuration file into cfg, a pointer to a
// DeckConfig, PavingConfig or WallConfig already holding its defaults. The
// format follows the file extension: .toml, .json, .csv/.txt or .xlsx.
// Values in the file replace the defaults; keys the configuration does not
// know are reported as warnings.
func LoadConfig(path string, cfg any) (ImportResult, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return loadTOML(path, cfg)
	case ".json":
		return loadJSON(path, cfg)
	case ".csv", ".txt", ".tsv":
		return applySheet(ImportCSV(path), cfg)
	case ".xlsx", ".xlsm":
		return applySheet(ImportExcel(path), cfg)
	default:
		return ImportResult{}, fmt.Errorf("unsupported config format %q", filepath.Ext(path))
	}
}

func loadTOML(path string, cfg any) (ImportResult, error) {
	result := ImportResult{}
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return result, fmt.Errorf("decoding %s: %w", path, err)
	}
	for _, key := range md.Undecoded() {
		result.Warnings = append(result.Warnings, fmt.Sprintf("unknown key %q", key.String()))
	}
	return result, nil
}

func loadJSON(path string, cfg any) (ImportResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ImportResult{}, fmt.Errorf("reading %s: %w", path, err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return ImportResult{}, fmt.Errorf("decoding %s: %w", path, err)
	}
	return ImportResult{}, nil
}

func applySheet(result ImportResult, cfg any) (ImportResult, error) {
	if len(result.Errors) > 0 && len(result.Fields) == 0 {
		return result, errors.New(result.Errors[0])
	}
	result.Apply(cfg)
	return result, nil
}
