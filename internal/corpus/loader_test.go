package corpus

import (
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/ppiankov/morphprod/internal/model"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const wordList = "token\tpos\tlemma\n" +
	"./vieira17th.txt:Nação\tNOM\tnação\n" +
	"./vieira17th.txt:canções\tNOM\tcanção\n" +
	"./bernardes1711.txt:pensamentos\tNOM\t<unknown>\n" +
	"./anon.txt:movimento\tNOM\tmovimento\n" +
	"./bernardes1711.txt:<s>\tSENT\t<unknown>\n" +
	"./bernardes1711.txt:...\tPON\t...\n" +
	"./bernardes1711.txt:guarda-chuva\tNOM\tguarda-chuva\n" +
	"broken\trow\n"

func newTestLoader(t *testing.T, opts ...LoaderOption) *Loader {
	t.Helper()
	log, _ := test.NewNullLogger()
	return NewLoader(log, opts...)
}

func TestLoader_Read(t *testing.T) {
	l := newTestLoader(t)

	rows, err := l.Read(strings.NewReader(wordList), "cao")
	require.NoError(t, err)
	require.Len(t, rows, 6)

	assert.Equal(t, model.DatedRow{
		TaggedEntry: model.TaggedEntry{Token: "nação", POS: "NOM", Lemma: "nação"},
		Tag:         "cao",
		Document:    "vieira17th.txt",
		Year:        1650,
		HasYear:     true,
	}, rows[0])

	// unknown lemma falls back to the token
	assert.Equal(t, "pensamentos", rows[2].Lemma)
	assert.Equal(t, 1711, rows[2].Year)

	// no year in the document name: kept, year missing
	assert.Equal(t, "anon.txt", rows[3].Document)
	assert.False(t, rows[3].HasYear)

	// no token filter: punctuation rows stay, only tag markup is dropped
	assert.Equal(t, "...", rows[4].Token)
	assert.Equal(t, "guarda-chuva", rows[5].Token)
	for _, r := range rows {
		assert.Equal(t, "cao", r.Tag)
	}
}

func TestLoader_Schema(t *testing.T) {
	l := newTestLoader(t)

	_, err := l.Read(strings.NewReader("token\tlemma\nx\ty\n"), "cao")
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrSchema))
	assert.Contains(t, err.Error(), "pos")
}

func TestLoader_Corrections(t *testing.T) {
	log, _ := test.NewNullLogger()
	c, err := ReadCorrections(strings.NewReader("-> nacao => nação\n"), log)
	require.NoError(t, err)

	l := newTestLoader(t, WithCorrections(c))
	rows, err := l.Read(strings.NewReader("token\tpos\tlemma\n./a1600.txt:nacao\tNOM\tnacao\n"), "cao")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "nação", rows[0].Token)
	assert.Equal(t, "nação", rows[0].Lemma)
}

func TestLoader_KeepsCompoundsAndElisions(t *testing.T) {
	const list = "token\tpos\tlemma\n" +
		"./sousa1650.txt:pé-de-meia\tNOM\tpé-de-meia\n" +
		"./sousa1650.txt:d'água\tNOM\t<unknown>\n" +
		"./sousa1650.txt:ação\tNOM\tação\n" +
		"./sousa1650.txt:--\tPON\t--\n"

	rows, err := newTestLoader(t).Read(strings.NewReader(list), "cao")
	require.NoError(t, err)
	require.Len(t, rows, 4)

	filtered := newTestLoader(t, WithTokenFilter(regexp.MustCompile(model.DefaultReferenceTokenPattern)))
	rows, err = filtered.Read(strings.NewReader(list), "full")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "pé-de-meia", rows[0].Token)
	assert.Equal(t, "d'água", rows[1].Token)
	assert.Equal(t, "d'água", rows[1].Lemma)
	assert.Equal(t, "ação", rows[2].Token)
}

func TestLoader_CorrectionsBeforeLowercase(t *testing.T) {
	log, _ := test.NewNullLogger()
	c, err := ReadCorrections(strings.NewReader("-> Nacao => Nação\n-> camara -> câmara\n"), log)
	require.NoError(t, err)

	l := newTestLoader(t, WithCorrections(c))
	rows, err := l.Read(strings.NewReader("token\tpos\tlemma\n"+
		"./a1600.txt:Nacao\tNOM\tnação\n"+
		"./a1600.txt:Camara\tNOM\tcâmara\n"), "cao")
	require.NoError(t, err)
	require.Len(t, rows, 2)

	// capitalised rule matches the form as written, then it is lower-cased
	assert.Equal(t, "nação", rows[0].Token)
	// lower-case rule leaves a capitalised form alone
	assert.Equal(t, "camara", rows[1].Token)
}

func TestLoader_Load(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "colonia_mento.lst")
	require.NoError(t, os.WriteFile(p, []byte(wordList), 0644))

	rows, err := newTestLoader(t).Load(p, "mento")
	require.NoError(t, err)
	assert.Len(t, rows, 6)

	_, err = newTestLoader(t).Load(filepath.Join(dir, "missing.lst"), "mento")
	assert.Error(t, err)
}

func TestSplitToken(t *testing.T) {
	tests := []struct {
		raw     string
		doc     string
		surface string
	}{
		{raw: "./vieira17th.txt:palavra", doc: "vieira17th.txt", surface: "palavra"},
		{raw: "./corpus/sousa1650.txt:acção", doc: "sousa1650.txt", surface: "acção"},
		{raw: "nodoc", doc: "", surface: "nodoc"},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			doc, surface := SplitToken(tt.raw)
			assert.Equal(t, tt.doc, doc)
			assert.Equal(t, tt.surface, surface)
		})
	}
}

func TestParseYear(t *testing.T) {
	tests := []struct {
		doc     string
		want    int
		wantErr bool
	}{
		{doc: "bernardes1711.txt", want: 1711},
		{doc: "vieira17th.txt", want: 1650},
		{doc: "garcao18th.txt", want: 1750},
		{doc: "matos17th2.txt", want: 1650},
		{doc: "anon.txt", wantErr: true},
		{doc: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.doc, func(t *testing.T) {
			got, err := ParseYear(tt.doc)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, model.ErrParse))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
