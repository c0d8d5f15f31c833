package corpus

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ppiankov/morphprod/internal/model"
)

// Exclusions is a set of surface forms to drop from the corpus
type Exclusions map[string]struct{}

// LoadExclusions reads an exclusion list (one form per line)
func LoadExclusions(filePath string) (Exclusions, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open exclusions: %w", err)
	}
	defer func() { _ = f.Close() }()

	return ReadExclusions(f)
}

// ReadExclusions parses an exclusion list. Blank lines are ignored.
func ReadExclusions(r io.Reader) (Exclusions, error) {
	ex := make(Exclusions)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		ex[line] = struct{}{}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan exclusions: %w", err)
	}
	return ex, nil
}

// Contains reports whether a form is excluded
func (e Exclusions) Contains(s string) bool {
	_, ok := e[s]
	return ok
}

// Exclude drops every row whose token or lemma is excluded
func Exclude(rows []model.DatedRow, ex Exclusions) []model.DatedRow {
	if len(ex) == 0 {
		return rows
	}
	out := make([]model.DatedRow, 0, len(rows))
	for _, r := range rows {
		if ex.Contains(r.Token) || ex.Contains(r.Lemma) {
			continue
		}
		out = append(out, r)
	}
	return out
}
