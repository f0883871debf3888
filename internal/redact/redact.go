// Package redact removes secrets and patient identifiers from text before
// it is sent to a language model.
package redact

import "regexp"

const placeholder = "[REDACTED]"

type rule struct {
	name    string
	pattern *regexp.Regexp
}

var rules = []rule{
	// credentials
	{"aws-access-key", regexp.MustCompile(`AKIA[0-9A-Z]{16}`)},
	{"private-key", regexp.MustCompile(`-----BEGIN [A-Z ]+PRIVATE KEY-----[\s\S]*?-----END [A-Z ]+PRIVATE KEY-----`)},
	{"bearer", regexp.MustCompile(`Bearer\s+[A-Za-z0-9\-._~+/]+=*`)},
	{"assignment", regexp.MustCompile(`(?i)(api[_-]?key|api[_-]?secret|secret[_-]?key|token|password|passwd|credentials)\s*[:=]\s*\S+`)},

	// patient identifiers
	{"ssn", regexp.MustCompile(`\b\d{3}-\d{2}-\d{4}\b`)},
	{"mrn", regexp.MustCompile(`(?i)\b(mrn|medical record(?: number| no\.?)?)\s*[:#]?\s*[A-Z0-9-]{4,}`)},
	{"dob", regexp.MustCompile(`(?i)\b(dob|date of birth)\s*[:=]?\s*\d{1,4}[/-]\d{1,2}[/-]\d{1,4}`)},
	{"email", regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)},
}

// Redact replaces secret and patient-identifier patterns in text with [REDACTED].
func Redact(text string) string {
	for _, r := range rules {
		text = r.pattern.ReplaceAllString(text, placeholder)
	}
	return text
}

// Matches reports which rules fire on text, by name.
func Matches(text string) []string {
	var names []string
	for _, r := range rules {
		if r.pattern.MatchString(text) {
			names = append(names, r.name)
		}
	}
	return names
}
