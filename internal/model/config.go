package model

import "runtime"

// Config holds the full morphprod configuration
type Config struct {
	Corpus    CorpusConfig   `yaml:"corpus" mapstructure:"corpus"`
	Datations []Datation     `yaml:"datations" mapstructure:"datations"`
	Window    WindowConfig   `yaml:"window" mapstructure:"window"`
	Resample  ResampleConfig `yaml:"resample" mapstructure:"resample"`
	Output    OutputConfig   `yaml:"output" mapstructure:"output"`
}

// CorpusConfig describes the input files and how to read them
type CorpusConfig struct {
	Subcorpora   []Subcorpus `yaml:"subcorpora" mapstructure:"subcorpora"`
	FullWordlist string      `yaml:"full_wordlist" mapstructure:"full_wordlist"`
	Exclusions   string      `yaml:"exclusions" mapstructure:"exclusions"`
	Corrections  string      `yaml:"corrections" mapstructure:"corrections"`
	Reference    string      `yaml:"reference" mapstructure:"reference"`
	UnknownLemma string      `yaml:"unknown_lemma" mapstructure:"unknown_lemma"`
	NounTag      string      `yaml:"noun_tag" mapstructure:"noun_tag"`

	// ReferenceTokenPattern filters the full word list only
	ReferenceTokenPattern string `yaml:"reference_token_pattern" mapstructure:"reference_token_pattern"`
}

// Subcorpus binds an opaque dataset tag to its word-list file
type Subcorpus struct {
	Tag  string `yaml:"tag" mapstructure:"tag"`
	Path string `yaml:"path" mapstructure:"path"`
}

// Datation is a manual year override for one source document
type Datation struct {
	Document string `yaml:"document" mapstructure:"document"`
	Year     int    `yaml:"year" mapstructure:"year"`
}

// WindowConfig controls the rolling window
type WindowConfig struct {
	Width int `yaml:"width" mapstructure:"width"`
}

// ResampleConfig controls the resampling estimator
type ResampleConfig struct {
	SampleSize int     `yaml:"sample_size" mapstructure:"sample_size"`
	Runs       int     `yaml:"runs" mapstructure:"runs"`
	Confidence float64 `yaml:"confidence" mapstructure:"confidence"`
	Seed       uint64  `yaml:"seed" mapstructure:"seed"` // 0 = derived from the clock
	Workers    int     `yaml:"workers" mapstructure:"workers"`
}

// OutputConfig controls where tables are written
type OutputConfig struct {
	Dir      string `yaml:"dir" mapstructure:"dir"`
	DebugDir string `yaml:"debug_dir" mapstructure:"debug_dir"`
	HTML     bool   `yaml:"html" mapstructure:"html"`
}

// DefaultReferenceTokenPattern keeps any form containing a word character,
// so punctuation drops out of the reference counts
const DefaultReferenceTokenPattern = `[\p{L}\p{N}_]`

// DefaultDatations are the corrected dates of the Colonia texts whose
// file names only carry a century marker or a misleading year.
func DefaultDatations() []Datation {
	return []Datation{
		{Document: "vieira17th.txt", Year: 1670},
		{Document: "camoes16th.txt", Year: 1580},
		{Document: "faria16th.txt", Year: 1624},
		{Document: "guerreiro16th.txt", Year: 1590},
		{Document: "vicente16th.txt", Year: 1522},
		{Document: "almeida17th.txt", Year: 1630},
		{Document: "brochado17th.txt", Year: 1690},
		{Document: "matos17th1.txt", Year: 1679}, // published posthumously
		{Document: "matos17th2.txt", Year: 1679},
		{Document: "garcao18th.txt", Year: 1778},
	}
}

// DefaultConfig returns the configuration used when nothing else is set
func DefaultConfig() *Config {
	return &Config{
		Corpus: CorpusConfig{
			Subcorpora: []Subcorpus{
				{Tag: "cao", Path: "colonia_cao.lst"},
				{Tag: "mento", Path: "colonia_mento.lst"},
			},
			FullWordlist:          "full_wordlist.lst",
			Exclusions:            "exclusions.lst",
			Reference:             "datasets/full_corpus_stats_df.tsv",
			UnknownLemma:          "<unknown>",
			NounTag:               "NOM",
			ReferenceTokenPattern: DefaultReferenceTokenPattern,
		},
		Datations: DefaultDatations(),
		Window: WindowConfig{
			Width: 25,
		},
		Resample: ResampleConfig{
			SampleSize: 131,
			Runs:       1000,
			Confidence: 0.95,
			Workers:    runtime.NumCPU(),
		},
		Output: OutputConfig{
			Dir:      "datasets",
			DebugDir: "debug",
		},
	}
}
