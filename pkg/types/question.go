package types

import (
	"errors"
	"time"
)

// Intent is the classified category of a user question. It drives which
// context sections are rendered for the text generator.
type Intent string

const (
	IntentGeneral       Intent = "general"
	IntentFunction      Intent = "function"
	IntentClass         Intent = "class"
	IntentFile          Intent = "file"
	IntentStructure     Intent = "structure"
	IntentTechnology    Intent = "technology"
	IntentReadme        Intent = "readme"
	IntentDocumentation Intent = "documentation"
)

// Validate checks if the intent is one of the known categories
func (i Intent) Validate() error {
	switch i {
	case IntentGeneral, IntentFunction, IntentClass, IntentFile,
		IntentStructure, IntentTechnology, IntentReadme, IntentDocumentation:
		return nil
	default:
		return errors.New("invalid question intent")
	}
}

// FunctionRef ties a matched function to its owning file
type FunctionRef struct {
	File     string         `json:"file"`
	Function FunctionRecord `json:"function"`
}

// ClassRef ties a matched class to its owning file
type ClassRef struct {
	File  string      `json:"file"`
	Class ClassRecord `json:"class"`
}

// QuestionContext is the bounded fact selection gathered for one question.
// It lives for a single question/answer exchange; the only durable trace is
// the ConversationTurn recorded afterward.
type QuestionContext struct {
	Intent     Intent            `json:"intent"`
	Files      []*FileRecord     `json:"files,omitempty"`
	Functions  []FunctionRef     `json:"functions,omitempty"`
	Classes    []ClassRef        `json:"classes,omitempty"`
	Components []ComponentRecord `json:"components,omitempty"`
}

// NewQuestionContext returns an empty context with the general intent
func NewQuestionContext() *QuestionContext {
	return &QuestionContext{Intent: IntentGeneral}
}

// IsEmpty reports whether no entities were gathered
func (q *QuestionContext) IsEmpty() bool {
	return len(q.Files) == 0 && len(q.Functions) == 0 &&
		len(q.Classes) == 0 && len(q.Components) == 0
}

// Validate checks the context for structural integrity
func (q *QuestionContext) Validate() error {
	if err := q.Intent.Validate(); err != nil {
		return err
	}
	for _, f := range q.Files {
		if f == nil {
			return errors.New("context file entries cannot be nil")
		}
	}
	return nil
}

// ConversationTurn is one completed question/answer exchange
type ConversationTurn struct {
	Question string    `json:"question"`
	Answer   string    `json:"answer"`
	Intent   Intent    `json:"intent"`
	AskedAt  time.Time `json:"asked_at"`
}

// FileSummary is one generated per-file summary
type FileSummary struct {
	Path     string `json:"path"`
	Language string `json:"language"`
	Lines    int    `json:"lines"`
	Summary  string `json:"summary"`
}

// RepositorySummary is the comprehensive generated summary of a snapshot
type RepositorySummary struct {
	GeneratedAt   time.Time `json:"generated_at"`
	RootPath      string    `json:"root_path"`
	TotalFiles    int       `json:"total_files"`
	AnalyzedFiles int       `json:"analyzed_files"`

	Overview          string                   `json:"overview"`
	FileSummaries     []FileSummary            `json:"file_summaries,omitempty"`
	Languages         map[string]*LanguageStat `json:"language_breakdown,omitempty"`
	StructureAnalysis string                   `json:"structure_analysis"`
	Components        []ComponentRecord        `json:"components,omitempty"`
	Recommendations   string                   `json:"recommendations"`
}
