package model

// TaggedEntry is one line of a tagged word list
type TaggedEntry struct {
	Token string
	POS   string
	Lemma string
}

// DatedRow is a tagged entry with its source document and year.
// Year is meaningful only when HasYear is true.
type DatedRow struct {
	TaggedEntry
	Tag      string // sub-corpus label, kept verbatim
	Document string // e.g. "vieira17th.txt"
	Year     int
	HasYear  bool
}

// Counts is the (tokens, types, hapaxes) triple used both for
// frequency distributions and for the corpus-wide reference.
type Counts struct {
	Tokens  int
	Types   int
	Hapaxes int
}

// Add returns the element-wise sum of two triples
func (c Counts) Add(o Counts) Counts {
	return Counts{
		Tokens:  c.Tokens + o.Tokens,
		Types:   c.Types + o.Types,
		Hapaxes: c.Hapaxes + o.Hapaxes,
	}
}

// ProductivityRow holds the productivity metrics of one window
type ProductivityRow struct {
	Year            int // window midpoint
	Start           int
	End             int // exclusive
	Tokens          int
	Types           int
	Hapaxes         int
	Expanding       float64
	Potential       float64
	TypesPerMillion float64
	ReferenceTokens int
}

// Estimate is a point estimate with its interval
type Estimate struct {
	Mean float64
	Low  float64
	High float64
}

// ResampleRow holds the resampled type and hapax estimates of one window
type ResampleRow struct {
	Year       int
	Types      Estimate
	Hapaxes    Estimate
	SampleSize int
	CorpusN    int // tokens available in the window
}

// ChangepointRow is one point of a series with its change-point probability
type ChangepointRow struct {
	Index       int
	Year        int
	Value       float64
	Probability float64
}
