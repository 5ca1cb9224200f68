// Package response defines the API response bodies
package response

import (
	"time"

	"github.com/Prateekiiitg56/SmartScribe/internal/model"
	"github.com/Prateekiiitg56/SmartScribe/internal/services/auth"
	"github.com/Prateekiiitg56/SmartScribe/internal/services/essay"
)

// User is a user's public representation. The password hash never leaves
// the service layer.
type User struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	Bio       string    `json:"bio,omitempty"`
	AvatarURL string    `json:"avatar_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserFromModel converts a model user to its response form
func UserFromModel(u *model.User) User {
	return User{
		ID:        int64(u.ID),
		Username:  u.Username,
		Email:     u.Email,
		FullName:  u.FullName,
		Bio:       u.Bio,
		AvatarURL: u.AvatarURL,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// Session describes the caller's session state
type Session struct {
	Authenticated bool   `json:"authenticated"`
	Token         string `json:"token"`
	UserID        int64  `json:"user_id,omitempty"`
	Username      string `json:"username,omitempty"`
	FullName      string `json:"full_name,omitempty"`
}

// SessionFromView converts an auth session view to its response form
func SessionFromView(v auth.SessionView) Session {
	return Session{
		Authenticated: v.Authenticated,
		Token:         v.Token,
		UserID:        int64(v.UserID),
		Username:      v.Username,
		FullName:      v.FullName,
	}
}

// Essay is a scored essay in response form
type Essay struct {
	ID             int64     `json:"id"`
	Title          string    `json:"title"`
	Content        string    `json:"content,omitempty"`
	GrammarScore   float64   `json:"grammar_score"`
	CoherenceScore float64   `json:"coherence_score"`
	ArgumentScore  float64   `json:"argument_score"`
	OverallScore   float64   `json:"overall_score"`
	Feedback       string    `json:"feedback"`
	SubmittedAt    time.Time `json:"submitted_at"`
}

// EssayFromModel converts an essay, including its content
func EssayFromModel(e *model.Essay) Essay {
	resp := EssaySummaryFromModel(e)
	resp.Content = e.Content
	return resp
}

// EssaySummaryFromModel converts an essay without its content, for lists
func EssaySummaryFromModel(e *model.Essay) Essay {
	return Essay{
		ID:             int64(e.ID),
		Title:          e.Title,
		GrammarScore:   e.GrammarScore,
		CoherenceScore: e.CoherenceScore,
		ArgumentScore:  e.ArgumentScore,
		OverallScore:   e.OverallScore,
		Feedback:       e.Feedback,
		SubmittedAt:    e.SubmittedAt,
	}
}

// EssayList wraps a list of essays
type EssayList struct {
	Essays []Essay `json:"essays"`
}

// EssayListFromModels converts essays to their summary response form
func EssayListFromModels(essays []*model.Essay) EssayList {
	out := EssayList{Essays: make([]Essay, 0, len(essays))}
	for _, e := range essays {
		out.Essays = append(out.Essays, EssaySummaryFromModel(e))
	}
	return out
}

// ScoreSummary holds per-user score averages
type ScoreSummary struct {
	AvgGrammar   float64 `json:"avg_grammar"`
	AvgCoherence float64 `json:"avg_coherence"`
	AvgArgument  float64 `json:"avg_argument"`
	AvgOverall   float64 `json:"avg_overall"`
}

// Dashboard is the per-user activity summary
type Dashboard struct {
	EssayCount int          `json:"essay_count"`
	Averages   ScoreSummary `json:"averages"`
	Recent     []Essay      `json:"recent"`
}

// DashboardFromModel converts a dashboard to its response form
func DashboardFromModel(d *essay.Dashboard) Dashboard {
	return Dashboard{
		EssayCount: d.EssayCount,
		Averages: ScoreSummary{
			AvgGrammar:   d.Averages.AvgGrammar,
			AvgCoherence: d.Averages.AvgCoherence,
			AvgArgument:  d.Averages.AvgArgument,
			AvgOverall:   d.Averages.AvgOverall,
		},
		Recent: EssayListFromModels(d.Recent).Essays,
	}
}
