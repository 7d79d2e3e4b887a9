package datasets

import (
	"bufio"
	"context"
	"encoding/csv"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/sglearn/sglearn/pkg/errors"
	"github.com/sglearn/sglearn/pkg/log"
)

const (
	// DescriptionColumn is the CSV column holding the product description.
	DescriptionColumn = "DESCRIP"

	labelPrefix = "__label__"
)

// Label returns the fastText label line for one description of category.
func Label(category, description string) string {
	return labelPrefix + strings.ReplaceAll(category, " ", "_") + " " + description
}

// Download fetches every category of cfg and writes the labelled, ASCII-folded descriptions
// of all categories to cfg.OutFile. It returns the number of lines written.
func Download(ctx context.Context, client *http.Client, cfg *Config) (int, error) {
	if err := cfg.Validate(); err != nil {
		return 0, err
	}

	f, err := os.Create(cfg.OutFile)
	if err != nil {
		return 0, errors.Wrapf(err, "create %s", cfg.OutFile)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	n, err := WriteLabelled(ctx, client, cfg, w)
	if err != nil {
		return n, err
	}
	if err := w.Flush(); err != nil {
		return n, errors.Wrapf(err, "write %s", cfg.OutFile)
	}
	return n, nil
}

// WriteLabelled is Download writing to w instead of cfg.OutFile.
func WriteLabelled(ctx context.Context, client *http.Client, cfg *Config, w io.Writer) (int, error) {
	if client == nil {
		client = http.DefaultClient
	}
	logger := log.GetLoggerWithName("datasets")

	total := 0
	for _, category := range cfg.CategoryNames() {
		logger.Info("Downloading category", "category", category)

		descriptions, err := fetchDescriptions(ctx, client, cfg.MainURL+cfg.Categories[category])
		if err != nil {
			return total, errors.Wrapf(err, "category %q", category)
		}
		for _, d := range descriptions {
			if _, err := io.WriteString(w, FoldASCII(Label(category, d))+"\n"); err != nil {
				return total, errors.Wrap(err, "write labelled line")
			}
			total++
		}
	}
	return total, nil
}

func fetchDescriptions(ctx context.Context, client *http.Client, url string) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "build request for %s", url)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "GET %s", url)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Newf("GET %s: unexpected status %s", url, resp.Status)
	}
	return ReadDescriptions(resp.Body)
}

// ReadDescriptions returns the DescriptionColumn of a CSV stream. Empty descriptions are
// skipped.
func ReadDescriptions(r io.Reader) ([]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, errors.Mark(errors.Wrap(err, "read CSV header"), errors.ErrInvalidInput)
	}
	col := -1
	for i, name := range header {
		if strings.TrimSpace(name) == DescriptionColumn {
			col = i
			break
		}
	}
	if col < 0 {
		return nil, errors.NewValueError("ReadDescriptions", "missing column "+DescriptionColumn)
	}

	var out []string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Mark(errors.Wrap(err, "read CSV record"), errors.ErrInvalidInput)
		}
		if col >= len(record) || record[col] == "" {
			continue
		}
		out = append(out, record[col])
	}
	return out, nil
}
