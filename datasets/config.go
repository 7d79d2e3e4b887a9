// Package datasets provides the data used by the sglearn examples: a downloader that turns
// categorised product CSV files into fastText-style labelled lines, and a synthetic grouped
// regression generator.
package datasets

import (
	"io"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/sglearn/sglearn/pkg/errors"
)

// Config describes a download job.
//
//	out_file: data/dominicks.txt
//	main_url: https://www.example.org/dominicks/
//	categories:
//	  analgesics: ana.csv
//	  bath soap: bat.csv
type Config struct {
	// OutFile receives one labelled line per product description.
	OutFile string `yaml:"out_file"`

	// MainURL is prefixed to every category path.
	MainURL string `yaml:"main_url"`

	// Categories maps a category name to the path of its CSV file under MainURL.
	Categories map[string]string `yaml:"categories"`
}

// LoadConfig reads a YAML Config from path.
func LoadConfig(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open config %s", path)
	}
	defer f.Close()
	return ParseConfig(f)
}

// ParseConfig decodes and validates a YAML Config.
func ParseConfig(r io.Reader) (*Config, error) {
	var cfg Config
	if err := yaml.NewDecoder(r).Decode(&cfg); err != nil {
		return nil, errors.Mark(errors.Wrap(err, "decode config"), errors.ErrInvalidInput)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that every field is set.
func (c *Config) Validate() error {
	if c.OutFile == "" {
		return errors.NewValidationError("out_file", "is required", c.OutFile)
	}
	if c.MainURL == "" {
		return errors.NewValidationError("main_url", "is required", c.MainURL)
	}
	if len(c.Categories) == 0 {
		return errors.NewValidationError("categories", "at least one category is required", len(c.Categories))
	}
	return nil
}

// CategoryNames returns the category names in sorted order, the order in which they are
// downloaded.
func (c *Config) CategoryNames() []string {
	names := make([]string, 0, len(c.Categories))
	for name := range c.Categories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
