package chatbot

import (
	"regexp"
	"strings"
)

// Classification is the outcome of free-text classification: the matched
// intent and the payload (task title or search key) extracted from the
// message, when the intent carries one.
type Classification struct {
	Intent Intent
	Title  string
}

// Classifier turns a raw message into a Classification. The default is
// keyword/regex driven; it is an interface so a smarter classifier can be
// substituted without touching the dispatcher.
type Classifier interface {
	Classify(message string) Classification
}

var (
	todoMarkerRe = regexp.MustCompile(`(?i)#to-do\s+(.+)`)
	addPrefixRe  = regexp.MustCompile(`(?i)add task[:\s]+(.+)`)
	completeRe   = regexp.MustCompile(`(?i)\b(complete|done)\b`)
)

// KeywordClassifier matches messages against a fixed keyword priority,
// first match wins: to-do marker, then list, then complete.
type KeywordClassifier struct{}

func NewKeywordClassifier() *KeywordClassifier {
	return &KeywordClassifier{}
}

func (c *KeywordClassifier) Classify(message string) Classification {
	if m := todoMarkerRe.FindStringSubmatch(message); m != nil {
		return Classification{Intent: IntentAdd, Title: strings.TrimSpace(m[1])}
	}

	lower := strings.ToLower(message)
	if strings.Contains(lower, "list") || strings.Contains(lower, "show tasks") {
		return Classification{Intent: IntentList}
	}

	if strings.Contains(lower, "complete") || strings.Contains(lower, "done") {
		return Classification{Intent: IntentComplete, Title: stripCompleteWords(message)}
	}

	return Classification{Intent: IntentNone}
}

// extractAddTitle resolves the title for an add: the text after a literal
// "add task:" prefix when present, otherwise the remainder after the to-do
// marker, otherwise the whole message. Extraction never fails closed.
func extractAddTitle(message string) string {
	if m := addPrefixRe.FindStringSubmatch(message); m != nil {
		return strings.TrimSpace(m[1])
	}
	if m := todoMarkerRe.FindStringSubmatch(message); m != nil {
		return strings.TrimSpace(m[1])
	}
	return strings.TrimSpace(message)
}

// stripCompleteWords removes the literal command words from a complete
// message, leaving the title search key.
func stripCompleteWords(message string) string {
	stripped := completeRe.ReplaceAllString(message, "")
	stripped = strings.Trim(stripped, " :\t\n")
	return stripped
}
