package pipeline

import (
	"github.com/ppiankov/morphprod/internal/model"
	"github.com/ppiankov/morphprod/internal/score"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

func logNull() logrus.FieldLogger {
	log, _ := test.NewNullLogger()
	return log
}

func newReference(counts map[int]model.Counts) *score.Reference {
	return score.NewReference(counts)
}
