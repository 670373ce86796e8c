package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/mitchellh/mapstructure"
)

// Settings are the resolved filesystem locations used by the xlsx stores and the exporter.
type Settings struct {
	BaseDir        string
	Template       string
	LedgerStore    string
	DirectoryStore string
	CatalogStore   string
	OutputDir      string
}

type settingsPaths struct {
	Template       string `mapstructure:"template"`
	LedgerStore    string `mapstructure:"ledger_store"`
	DirectoryStore string `mapstructure:"directory_store"`
	CatalogStore   string `mapstructure:"catalog_store"`
	OutputDir      string `mapstructure:"output_dir"`
}

// Older settings files name the same locations differently; first match wins.
var legacyPathKeys = map[string][]string{
	"ledger_store":    {"aap_db", "excel"},
	"directory_store": {"darbuotojai", "employees"},
	"catalog_store":   {"gear_excel"},
	"output_dir":      {"outputs"},
}

var defaultPaths = settingsPaths{
	Template:       "template.xlsx",
	LedgerStore:    "AAP DB.xlsx",
	DirectoryStore: "Darbuotojai.xlsx",
	CatalogStore:   "Aprangos kodai.xlsx",
	OutputDir:      "sugeneruotos kortelės",
}

// LoadSettings reads the JSON settings file at path. Every location is resolved
// relative to the settings file's directory unless already absolute. A missing
// file yields the defaults.
func LoadSettings(path string) (*Settings, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	doc := map[string]interface{}{}
	data, err := os.ReadFile(abs)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		logg.WithField("settings", abs).Info("settings file not found, using default paths")
	case err != nil:
		return nil, fmt.Errorf("read settings: %w", err)
	default:
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parse settings %s: %w", abs, err)
		}
	}

	raw, _ := doc["paths"].(map[string]interface{})
	if raw == nil {
		raw = map[string]interface{}{}
	}
	for key, aliases := range legacyPathKeys {
		if _, ok := raw[key]; ok {
			continue
		}
		for _, alias := range aliases {
			if v, ok := raw[alias]; ok {
				raw[key] = v
				break
			}
		}
	}

	paths := defaultPaths
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &paths,
		TagName:          "mapstructure",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(raw); err != nil {
		return nil, fmt.Errorf("decode settings paths: %w", err)
	}

	base := filepath.Dir(abs)
	return &Settings{
		BaseDir:        base,
		Template:       ResolvePath(base, paths.Template),
		LedgerStore:    ResolvePath(base, paths.LedgerStore),
		DirectoryStore: ResolvePath(base, paths.DirectoryStore),
		CatalogStore:   ResolvePath(base, paths.CatalogStore),
		OutputDir:      ResolvePath(base, paths.OutputDir),
	}, nil
}

// ResolvePath returns target unchanged when absolute, else joined onto base.
func ResolvePath(base, target string) string {
	if filepath.IsAbs(target) {
		return filepath.Clean(target)
	}
	return filepath.Join(base, target)
}
