package model

import "time"

// EssayID uniquely identifies an essay submission
type EssayID int64

// DefaultEssayTitle is used when a submission has no title
const DefaultEssayTitle = "Untitled Essay"

// Essay is a scored essay submission. Essays belong to exactly one user and
// are deleted with them.
type Essay struct {
	ID             EssayID
	UserID         UserID
	Title          string
	Content        string
	GrammarScore   float64
	CoherenceScore float64
	ArgumentScore  float64
	OverallScore   float64
	Feedback       string
	SubmittedAt    time.Time
}

// ScoreSummary holds per-user score averages for the dashboard
type ScoreSummary struct {
	AvgGrammar   float64
	AvgCoherence float64
	AvgArgument  float64
	AvgOverall   float64
}
