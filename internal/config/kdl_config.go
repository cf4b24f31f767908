package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	kdl "github.com/sblinch/kdl-go"
	"github.com/sblinch/kdl-go/document"
)

// LoadKDL loads dir/.docnav.kdl over the defaults. A missing file yields
// nil, nil.
func LoadKDL(dir string) (*Config, error) {
	cfg := Default()
	found, err := loadKDLInto(cfg, dir)
	if err != nil || !found {
		return nil, err
	}
	return cfg, nil
}

func loadKDLInto(cfg *Config, dir string) (bool, error) {
	path := filepath.Join(dir, FileName)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return false, nil
	}
	return true, loadKDLFile(cfg, path)
}

func loadKDLFile(cfg *Config, path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := applyKDL(cfg, string(content)); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	// relative file settings are relative to the file that names them
	base := filepath.Dir(path)
	cfg.Sources.Catalog = resolvePath(base, cfg.Sources.Catalog)
	cfg.Sources.GirDir = resolvePath(base, cfg.Sources.GirDir)
	cfg.Categorizer.Table = resolvePath(base, cfg.Categorizer.Table)
	return nil
}

func resolvePath(base, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Clean(filepath.Join(base, p))
}

// parseKDL parses content over the defaults
func parseKDL(content string) (*Config, error) {
	cfg := Default()
	if err := applyKDL(cfg, content); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyKDL overwrites the settings content names and leaves the rest alone
func applyKDL(cfg *Config, content string) error {
	doc, err := kdl.Parse(strings.NewReader(content))
	if err != nil {
		return fmt.Errorf("failed to parse KDL config: %w", err)
	}

	for _, n := range doc.Nodes {
		switch nodeName(n) {
		case "sources":
			for _, c := range n.Children {
				switch nodeName(c) {
				case "gir_dir":
					assignSimpleString(c, func(s string) { cfg.Sources.GirDir = s })
				case "gir_pattern":
					assignSimpleString(c, func(s string) { cfg.Sources.GirPattern = s })
				case "catalog":
					assignSimpleString(c, func(s string) { cfg.Sources.Catalog = s })
				case "watch":
					if b, ok := firstBoolArg(c); ok {
						cfg.Sources.Watch = b
					}
				default:
					unknownKey("sources", c)
				}
			}
		case "categorizer":
			for _, c := range n.Children {
				switch nodeName(c) {
				case "enabled":
					if b, ok := firstBoolArg(c); ok {
						cfg.Categorizer.Enabled = b
					}
				case "table":
					assignSimpleString(c, func(s string) { cfg.Categorizer.Table = s })
				case "fallback":
					assignSimpleString(c, func(s string) { cfg.Categorizer.Fallback = s })
				case "order":
					assignSimpleString(c, func(s string) { cfg.Categorizer.Order = s })
				case "insertion":
					assignSimpleString(c, func(s string) { cfg.Categorizer.Insertion = s })
				default:
					unknownKey("categorizer", c)
				}
			}
		case "search":
			for _, c := range n.Children {
				switch nodeName(c) {
				case "fuzzy_threshold":
					if f, ok := firstFloatArg(c); ok {
						cfg.Search.FuzzyThreshold = f
					}
				case "max_results":
					if v, ok := firstIntArg(c); ok {
						cfg.Search.MaxResults = v
					}
				case "stemming":
					if b, ok := firstBoolArg(c); ok {
						cfg.Search.Stemming = b
					}
				default:
					unknownKey("search", c)
				}
			}
		case "session":
			for _, c := range n.Children {
				switch nodeName(c) {
				case "max_items":
					if v, ok := firstIntArg(c); ok {
						cfg.Session.MaxItems = v
					}
				default:
					unknownKey("session", c)
				}
			}
		default:
			unknownKey("", n)
		}
	}
	return nil
}

func unknownKey(section string, n *document.Node) {
	if section == "" {
		log.Printf("WARNING: unknown section '%s' in KDL config", nodeName(n))
		return
	}
	log.Printf("WARNING: unknown key '%s.%s' in KDL config", section, nodeName(n))
}

func nodeName(n *document.Node) string {
	if n == nil || n.Name == nil {
		return ""
	}
	return n.Name.NodeNameString()
}

func firstIntArg(n *document.Node) (int, bool) {
	if len(n.Arguments) == 0 {
		return 0, false
	}
	switch v := n.Arguments[0].Value.(type) {
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}

func firstStringArg(n *document.Node) (string, bool) {
	if len(n.Arguments) == 0 {
		return "", false
	}
	if s, ok := n.Arguments[0].Value.(string); ok {
		return s, true
	}
	return "", false
}

func firstBoolArg(n *document.Node) (bool, bool) {
	if len(n.Arguments) == 0 {
		return false, false
	}
	if b, ok := n.Arguments[0].Value.(bool); ok {
		return b, true
	}
	return false, false
}

func firstFloatArg(n *document.Node) (float64, bool) {
	if len(n.Arguments) == 0 {
		return 0, false
	}
	switch v := n.Arguments[0].Value.(type) {
	case float64:
		return v, true
	case int64:
		return float64(v), true
	default:
		log.Printf("WARNING: invalid float value for '%s' in KDL config, expected number but got %T", nodeName(n), n.Arguments[0].Value)
		return 0, false
	}
}

func assignSimpleString(n *document.Node, set func(string)) {
	if s, ok := firstStringArg(n); ok {
		set(s)
	}
}
