package qa

import (
	"fmt"
	"strings"
)

const maxSuggestions = 10

var (
	unloadedSuggestions = []string{
		"What is the main purpose of this repository?",
		"What programming languages are used?",
		"How is the code organized?",
	}
	generalSuggestions = []string{
		"What is the main purpose of this repository?",
		"What programming languages are used in this project?",
		"How is the code organized and structured?",
	}
	technologySuggestions = []string{
		"What frameworks and libraries are being used?",
		"How are different technologies integrated in this project?",
	}
	architectureSuggestions = []string{
		"What are the main components of this application?",
		"How do different modules interact with each other?",
	}
	fallbackSuggestions = []string{
		"What is the main purpose of this repository?",
		"What programming languages are used?",
		"How is the code organized?",
		"What are the main components?",
		"How does this project work?",
	}

	entryFileMarkers = []string{"main", "app", "index", "api"}
)

// Suggest proposes questions worth asking about the loaded snapshot.
// Without a snapshot it returns generic starters. It never fails.
func (e *Engine) Suggest() (suggestions []string) {
	defer func() {
		if r := recover(); r != nil {
			e.log.Error("suggestion generation failed", "error", r)
			suggestions = append([]string(nil), fallbackSuggestions...)
		}
	}()

	if e.snapshot == nil {
		return append([]string(nil), unloadedSuggestions...)
	}

	suggestions = append(suggestions, generalSuggestions...)

	names := e.idx.FunctionNames()
	if len(names) > 3 {
		names = names[:3]
	}
	for _, name := range names {
		suggestions = append(suggestions, fmt.Sprintf("What does the %s function do?", name))
	}

	classNames := e.idx.ClassNames()
	if len(classNames) > 2 {
		classNames = classNames[:2]
	}
	for _, name := range classNames {
		suggestions = append(suggestions, fmt.Sprintf("What is the %s class used for?", name))
	}

	files := e.idx.Files()
	if len(files) > 3 {
		files = files[:3]
	}
	for _, rec := range files {
		path := strings.ToLower(rec.Path)
		if containsAny(path, entryFileMarkers) {
			suggestions = append(suggestions, fmt.Sprintf("What does the %s file contain?", path))
		}
	}

	if len(e.snapshot.Languages) > 1 {
		suggestions = append(suggestions, technologySuggestions...)
	}
	if e.idx.ComponentCount() > 2 {
		suggestions = append(suggestions, architectureSuggestions...)
	}

	if len(suggestions) > maxSuggestions {
		suggestions = suggestions[:maxSuggestions]
	}
	return suggestions
}
