package corpus

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"

	"github.com/sirupsen/logrus"
)

// rule lines look like "-> input => output" or "-> input -> output"
var ruleRegex = regexp.MustCompile(`^->\s(?P<input>[\p{L}\p{N}_]*) [-=]> (?P<output>[\p{L}\p{N}_]*)`)

// Corrections maps misspelled or mis-tagged forms to their fix
type Corrections struct {
	rules map[string]string
}

// LoadCorrections reads a corrections file
func LoadCorrections(filePath string, log logrus.FieldLogger) (*Corrections, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open corrections: %w", err)
	}
	defer func() { _ = f.Close() }()

	return ReadCorrections(f, log)
}

// ReadCorrections parses correction rules; lines that are not rules are
// logged and ignored. Later rules for the same input win.
func ReadCorrections(r io.Reader, log logrus.FieldLogger) (*Corrections, error) {
	c := &Corrections{rules: make(map[string]string)}
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		m := ruleRegex.FindStringSubmatch(scanner.Text())
		if m == nil {
			log.WithFields(logrus.Fields{"line": line, "text": scanner.Text()}).Debug("Ignoring non-rule line")
			continue
		}
		c.rules[m[1]] = m[2]
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan corrections: %w", err)
	}
	return c, nil
}

// Len returns the number of rules
func (c *Corrections) Len() int {
	return len(c.rules)
}

// Correct returns the corrected form of word, or word itself
func (c *Corrections) Correct(word string) string {
	if fixed, ok := c.rules[word]; ok {
		return fixed
	}
	return word
}
