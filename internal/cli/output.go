package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Println(string(data))
	} else {
		fmt.Println(msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case Session:
		o.printSession(v)
	case User:
		o.printUser(v)
	case Essay:
		o.printEssay(v)
	case EssayList:
		o.printEssayList(v)
	case Dashboard:
		o.printDashboard(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// Session response type (matches API)
type Session struct {
	Authenticated bool   `json:"authenticated"`
	Token         string `json:"token"`
	UserID        int64  `json:"user_id,omitempty"`
	Username      string `json:"username,omitempty"`
	FullName      string `json:"full_name,omitempty"`
}

// User response type
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

// Essay response type
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

// EssayList response type
type EssayList struct {
	Essays []Essay `json:"essays"`
}

// ScoreSummary response type
type ScoreSummary struct {
	AvgGrammar   float64 `json:"avg_grammar"`
	AvgCoherence float64 `json:"avg_coherence"`
	AvgArgument  float64 `json:"avg_argument"`
	AvgOverall   float64 `json:"avg_overall"`
}

// Dashboard response type
type Dashboard struct {
	EssayCount int          `json:"essay_count"`
	Averages   ScoreSummary `json:"averages"`
	Recent     []Essay      `json:"recent"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printSession(s Session) {
	if !s.Authenticated {
		fmt.Println("Not signed in")
		fmt.Printf("Token: %s\n", s.Token)
		return
	}
	fmt.Printf("Signed in as: %s", s.Username)
	if s.FullName != "" {
		fmt.Printf(" (%s)", s.FullName)
	}
	fmt.Println()
	fmt.Printf("User ID: %d\n", s.UserID)
	fmt.Printf("Token: %s\n", s.Token)
}

func (o *Output) printUser(u User) {
	fmt.Printf("Username:  %s\n", u.Username)
	fmt.Printf("Full name: %s\n", u.FullName)
	fmt.Printf("Email:     %s\n", u.Email)
	if u.Bio != "" {
		fmt.Printf("Bio:       %s\n", u.Bio)
	}
	if u.AvatarURL != "" {
		fmt.Printf("Avatar:    %s\n", u.AvatarURL)
	}
	fmt.Printf("Joined:    %s\n", u.CreatedAt.Format("2006-01-02"))
}

func (o *Output) printEssay(e Essay) {
	fmt.Printf("%s (#%d)\n", e.Title, e.ID)
	fmt.Printf("Submitted: %s\n", e.SubmittedAt.Format("2006-01-02 15:04"))
	fmt.Printf("Overall:   %.1f/10\n", e.OverallScore)
	fmt.Printf("Grammar:   %.1f  Coherence: %.1f  Argument: %.1f\n",
		e.GrammarScore, e.CoherenceScore, e.ArgumentScore)
	if e.Feedback != "" {
		fmt.Printf("Feedback:  %s\n", e.Feedback)
	}
}

func (o *Output) printEssayList(list EssayList) {
	if len(list.Essays) == 0 {
		fmt.Println("No essays yet")
		return
	}
	for i, e := range list.Essays {
		if i > 0 {
			fmt.Println(strings.Repeat("-", 40))
		}
		o.printEssay(e)
	}
}

func (o *Output) printDashboard(d Dashboard) {
	fmt.Printf("Essays submitted: %d\n", d.EssayCount)
	if d.EssayCount == 0 {
		return
	}
	fmt.Printf("Average overall:  %.1f/10\n", d.Averages.AvgOverall)
	fmt.Printf("Average grammar:  %.1f  coherence: %.1f  argument: %.1f\n",
		d.Averages.AvgGrammar, d.Averages.AvgCoherence, d.Averages.AvgArgument)
	if len(d.Recent) > 0 {
		fmt.Println("\nRecent essays:")
		for _, e := range d.Recent {
			fmt.Printf("  %s - %.1f/10 (%s)\n",
				e.Title, e.OverallScore, e.SubmittedAt.Format("2006-01-02"))
		}
	}
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Printf("Status: %s\n", h.Status)
}
