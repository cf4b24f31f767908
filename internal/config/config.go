package config

import (
	"os"
	"path/filepath"

	"github.com/standardbeagle/docnav/internal/catalog"
	"github.com/standardbeagle/docnav/internal/search"
)

// FileName is the configuration file looked up in the home directory and
// then in the working directory
const FileName = ".docnav.kdl"

const (
	DefaultMaxResults = 50
	DefaultOrder      = "ascending"
	DefaultInsertion  = "block"
	DefaultFallback   = "none"
)

type Config struct {
	Sources     Sources
	Categorizer Categorizer
	Search      Search
	Session     Session
}

// Sources locates the documentation catalog. A YAML Catalog wins over the
// GIR directory scan when both are set.
type Sources struct {
	GirDir     string
	GirPattern string
	Catalog    string
	Watch      bool // Reset the library when the GIR directory changes
}

type Categorizer struct {
	Enabled   bool
	Table     string // Optional TOML table merged over the built-in platform table
	Fallback  string // "none" or a category identifier
	Order     string // "ascending" or "descending"
	Insertion string // "block" or "prepend"
}

type Search struct {
	FuzzyThreshold float64
	MaxResults     int
	Stemming       bool
}

type Session struct {
	MaxItems int // 0 = unbounded
}

// Default returns the configuration used when no file is present
func Default() *Config {
	return &Config{
		Sources: Sources{
			GirDir:     catalog.DefaultGirDir,
			GirPattern: catalog.DefaultGirPattern,
		},
		Categorizer: Categorizer{
			Enabled:   true,
			Fallback:  DefaultFallback,
			Order:     DefaultOrder,
			Insertion: DefaultInsertion,
		},
		Search: Search{
			FuzzyThreshold: search.DefaultThreshold,
			MaxResults:     DefaultMaxResults,
			Stemming:       true,
		},
	}
}

// Load reads the configuration file from the working directory
func Load() (*Config, error) {
	return LoadWithRoot("")
}

// LoadWithRoot layers ~/.docnav.kdl and then rootDir/.docnav.kdl over the
// defaults. Settings in the project file override the home file.
func LoadWithRoot(rootDir string) (*Config, error) {
	searchDir := "."
	if rootDir != "" {
		searchDir = rootDir
	}

	cfg := Default()
	if homeDir, err := os.UserHomeDir(); err == nil {
		if abs, _ := filepath.Abs(homeDir); abs != absDir(searchDir) {
			if _, err := loadKDLInto(cfg, homeDir); err != nil {
				return nil, err
			}
		}
	}
	if _, err := loadKDLInto(cfg, searchDir); err != nil {
		return nil, err
	}

	if err := NewValidator().ValidateAndSetDefaults(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile reads one explicit configuration file over the defaults
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	if err := loadKDLFile(cfg, path); err != nil {
		return nil, err
	}
	if err := NewValidator().ValidateAndSetDefaults(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func absDir(dir string) string {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return dir
	}
	return abs
}
