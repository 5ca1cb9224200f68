package scoring_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Prateekiiitg56/SmartScribe/internal/dependencies/mocks"
	"github.com/Prateekiiitg56/SmartScribe/internal/dependencies/random"
	"github.com/Prateekiiitg56/SmartScribe/internal/model"
	"github.com/Prateekiiitg56/SmartScribe/internal/services/scoring"
)

func TestEvaluateWithFixedDraws(t *testing.T) {
	rnd := mocks.NewMockRandom()
	// grammar, coherence, argument draws
	rnd.QueueFloat64(0.5, 0.25, 1.0)
	rnd.QueueIntn(1)

	svc := scoring.New(rnd)
	eval := svc.Evaluate("some essay text")

	assert.Equal(t, 7.0, eval.Grammar)   // 5 + 0.5*4
	assert.Equal(t, 6.0, eval.Coherence) // 5 + 0.25*4
	assert.Equal(t, 9.0, eval.Argument)  // 4 + 1.0*5
	assert.Equal(t, 7.3, eval.Overall)   // round((7+6+9)/3, 1)
	assert.NotEmpty(t, eval.Feedback)
}

func TestEvaluateScoresStayInBand(t *testing.T) {
	svc := scoring.New(random.New())

	for i := 0; i < 100; i++ {
		eval := svc.Evaluate("band check")

		assert.GreaterOrEqual(t, eval.Grammar, 5.0)
		assert.LessOrEqual(t, eval.Grammar, 9.0)
		assert.GreaterOrEqual(t, eval.Coherence, 5.0)
		assert.LessOrEqual(t, eval.Coherence, 9.0)
		assert.GreaterOrEqual(t, eval.Argument, 4.0)
		assert.LessOrEqual(t, eval.Argument, 9.0)
		assert.GreaterOrEqual(t, eval.Overall, 4.0)
		assert.LessOrEqual(t, eval.Overall, 9.0)
		assert.NotEmpty(t, eval.Feedback)
	}
}

func TestApplyWritesAllFields(t *testing.T) {
	eval := scoring.Evaluation{
		Grammar:   8.1,
		Coherence: 7.2,
		Argument:  6.3,
		Overall:   7.2,
		Feedback:  "solid work",
	}

	var essay model.Essay
	eval.Apply(&essay)

	assert.Equal(t, 8.1, essay.GrammarScore)
	assert.Equal(t, 7.2, essay.CoherenceScore)
	assert.Equal(t, 6.3, essay.ArgumentScore)
	assert.Equal(t, 7.2, essay.OverallScore)
	assert.Equal(t, "solid work", essay.Feedback)
}
