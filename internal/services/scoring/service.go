// Package scoring produces essay evaluations. The current engine is a
// stand-in that draws scores from fixed bands; it will be replaced by the
// NLP evaluation pipeline without changing the Service surface.
package scoring

import (
	"math"

	"github.com/Prateekiiitg56/SmartScribe/internal/dependencies/random"
	"github.com/Prateekiiitg56/SmartScribe/internal/model"
)

// Evaluation holds the component scores and feedback for one essay
type Evaluation struct {
	Grammar   float64
	Coherence float64
	Argument  float64
	Overall   float64
	Feedback  string
}

var feedbackMessages = []string{
	"Strong structure overall. Tighten topic sentences and vary sentence length for better flow.",
	"The argument is clear but could use more supporting evidence in the middle paragraphs.",
	"Watch for run-on sentences and comma splices; the thesis itself is well stated.",
	"Good vocabulary range. Transitions between paragraphs could be smoother.",
}

// Service evaluates essay content
type Service struct {
	random random.Random
}

// New creates a new scoring Service
func New(rnd random.Random) *Service {
	return &Service{random: rnd}
}

// Evaluate scores an essay's content. Component scores land on a 0-10
// scale with one decimal place; the overall score is their mean.
func (s *Service) Evaluate(content string) Evaluation {
	grammar := s.draw(5, 9)
	coherence := s.draw(5, 9)
	argument := s.draw(4, 9)
	overall := round1((grammar + coherence + argument) / 3)

	return Evaluation{
		Grammar:   grammar,
		Coherence: coherence,
		Argument:  argument,
		Overall:   overall,
		Feedback:  feedbackMessages[s.random.Intn(len(feedbackMessages))],
	}
}

// Apply writes an evaluation onto an essay record
func (e Evaluation) Apply(essay *model.Essay) {
	essay.GrammarScore = e.Grammar
	essay.CoherenceScore = e.Coherence
	essay.ArgumentScore = e.Argument
	essay.OverallScore = e.Overall
	essay.Feedback = e.Feedback
}

// draw picks a score uniformly in [lo, hi] rounded to one decimal
func (s *Service) draw(lo, hi float64) float64 {
	return round1(lo + s.random.Float64()*(hi-lo))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
