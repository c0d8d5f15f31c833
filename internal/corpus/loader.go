// Package corpus turns tagged word lists into dated rows and groups them by year.
package corpus

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"regexp"
	"strconv"
	"strings"

	"github.com/ppiankov/morphprod/internal/model"
	"github.com/sirupsen/logrus"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

var (
	documentRegex = regexp.MustCompile(`\./(.*\.txt)`)
	yearRegex     = regexp.MustCompile(`(\d{4}|\d{2}th)`)
)

// Loader reads tagged word lists into dated rows
type Loader struct {
	unknownLemma string
	tokenPattern *regexp.Regexp
	corrections  *Corrections
	lower        cases.Caser
	log          logrus.FieldLogger
}

// LoaderOption configures a Loader
type LoaderOption func(*Loader)

// WithCorrections applies spelling corrections to tokens and lemmas
func WithCorrections(c *Corrections) LoaderOption {
	return func(l *Loader) { l.corrections = c }
}

// WithTokenFilter keeps only rows whose surface form matches re
func WithTokenFilter(re *regexp.Regexp) LoaderOption {
	return func(l *Loader) { l.tokenPattern = re }
}

// WithUnknownLemma overrides the "<unknown>" lemma sentinel
func WithUnknownLemma(s string) LoaderOption {
	return func(l *Loader) { l.unknownLemma = s }
}

// NewLoader creates a loader. Without WithTokenFilter every surface form
// is kept.
func NewLoader(log logrus.FieldLogger, opts ...LoaderOption) *Loader {
	l := &Loader{
		unknownLemma: "<unknown>",
		lower:        cases.Lower(language.Portuguese),
		log:          log,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load reads a word-list file and stamps every row with tag
func (l *Loader) Load(filePath, tag string) ([]model.DatedRow, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open word list: %w", err)
	}
	defer func() { _ = f.Close() }()

	rows, err := l.Read(f, tag)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filePath, err)
	}
	return rows, nil
}

// Read parses a word list from r
func (l *Loader) Read(r io.Reader, tag string) ([]model.DatedRow, error) {
	t, err := newTable(r, "token", "pos", "lemma")
	if err != nil {
		return nil, err
	}

	var rows []model.DatedRow
	skipped := 0
	for {
		rec, err := t.next()
		if err == io.EOF {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				l.log.WithFields(logrus.Fields{"line": t.line, "error": err}).Warn("Skipping malformed row")
				skipped++
				continue
			}
			return nil, fmt.Errorf("read row %d: %w", t.line, err)
		}
		if len(rec) != t.width {
			l.log.WithFields(logrus.Fields{"line": t.line, "fields": len(rec), "want": t.width}).Warn("Skipping row with wrong field count")
			skipped++
			continue
		}

		row, ok := l.parseRow(t.field(rec, "token"), t.field(rec, "pos"), t.field(rec, "lemma"))
		if !ok {
			l.log.WithFields(logrus.Fields{"line": t.line, "token": t.field(rec, "token")}).Debug("Skipping non-word token")
			skipped++
			continue
		}
		row.Tag = tag
		rows = append(rows, row)
	}

	l.log.WithFields(logrus.Fields{"tag": tag, "rows": len(rows), "skipped": skipped}).Debug("Loaded word list")
	return rows, nil
}

func (l *Loader) parseRow(rawToken, pos, lemma string) (model.DatedRow, bool) {
	doc, surface := SplitToken(rawToken)
	surface = norm.NFC.String(strings.TrimSpace(surface))
	lemma = norm.NFC.String(strings.TrimSpace(lemma))

	// corrections see the forms as written in the corpus
	if l.corrections != nil {
		surface = l.corrections.Correct(surface)
		if lemma != l.unknownLemma {
			lemma = l.corrections.Correct(lemma)
		}
	}

	surface = l.lower.String(surface)
	if surface == "" || strings.HasPrefix(surface, "<") {
		return model.DatedRow{}, false
	}
	if l.tokenPattern != nil && !l.tokenPattern.MatchString(surface) {
		return model.DatedRow{}, false
	}
	if lemma == l.unknownLemma || lemma == "" {
		lemma = surface
	}

	row := model.DatedRow{
		TaggedEntry: model.TaggedEntry{Token: surface, POS: strings.TrimSpace(pos), Lemma: lemma},
		Document:    doc,
	}
	if year, err := ParseYear(doc); err == nil {
		row.Year = year
		row.HasYear = true
	}
	return row, true
}

// SplitToken separates the composite token column into its source
// document (base name) and the surface form after the first colon.
func SplitToken(raw string) (document, surface string) {
	if m := documentRegex.FindStringSubmatch(raw); m != nil {
		document = path.Base(m[1])
	}
	if _, after, ok := strings.Cut(raw, ":"); ok {
		surface = after
	} else {
		surface = raw
	}
	return document, surface
}

// ParseYear extracts a year from a document name. A 4-digit run is taken
// literally; a century marker such as "17th" maps to the middle of that
// century (1650).
func ParseYear(document string) (int, error) {
	m := yearRegex.FindString(document)
	if m == "" {
		return 0, fmt.Errorf("%w: no year in %q", model.ErrParse, document)
	}
	if strings.HasSuffix(m, "th") {
		century, err := strconv.Atoi(strings.TrimSuffix(m, "th"))
		if err != nil || century < 1 {
			return 0, fmt.Errorf("%w: bad century in %q", model.ErrParse, document)
		}
		return (century-1)*100 + 50, nil
	}
	year, err := strconv.Atoi(m)
	if err != nil {
		return 0, fmt.Errorf("%w: bad year in %q", model.ErrParse, document)
	}
	return year, nil
}
