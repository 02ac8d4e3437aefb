// Package parse extracts structured values from free-form language
// model output. All functions are best-effort: malformed input yields
// a fallback value, never an error.
package parse

import (
	"encoding/json"
	"strings"
	"unicode"

	"docuchat/internal/domain"
)

// Category normalizes a classification response to one of the known
// document types. Anything unrecognized maps to "other".
func Category(s string) string {
	got := strings.ToLower(strings.TrimSpace(s))
	got = strings.Trim(got, `"'.`)
	for _, t := range domain.DocumentTypes {
		if got == t {
			return t
		}
	}
	// Models occasionally answer in a sentence; accept a response that
	// contains exactly one taxonomy word.
	var found string
	for _, t := range domain.DocumentTypes {
		if strings.Contains(got, t) {
			if found != "" {
				return domain.DocTypeOther
			}
			found = t
		}
	}
	if found != "" {
		return found
	}
	return domain.DocTypeOther
}

// JSONObject parses a model response as a JSON object. It tries the
// raw text, then the contents of a fenced code block, then the first
// balanced {...} span. The second return is false when nothing parses.
func JSONObject(s string) (map[string]any, bool) {
	for _, candidate := range jsonCandidates(s) {
		var m map[string]any
		if err := json.Unmarshal([]byte(candidate), &m); err == nil {
			return m, true
		}
	}
	return nil, false
}

func jsonCandidates(s string) []string {
	s = strings.TrimSpace(s)
	candidates := []string{s}

	if idx := strings.Index(s, "```"); idx >= 0 {
		rest := s[idx+3:]
		rest = strings.TrimPrefix(rest, "json")
		if end := strings.Index(rest, "```"); end >= 0 {
			candidates = append(candidates, strings.TrimSpace(rest[:end]))
		}
	}

	if open := strings.Index(s, "{"); open >= 0 {
		if close := strings.LastIndex(s, "}"); close > open {
			candidates = append(candidates, s[open:close+1])
		}
	}

	return candidates
}

// FollowUps parses numbered follow-up questions from model output.
// Grammar: a line is accepted when it starts with an ordinal marker
// ("1.", "2)", or a bare leading digit); the marker is stripped and
// the remainder trimmed. At most three questions are returned, in
// input order.
func FollowUps(s string) []string {
	var questions []string
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || !unicode.IsDigit(rune(line[0])) {
			continue
		}

		rest := strings.TrimLeft(line, "0123456789")
		rest = strings.TrimLeft(rest, ".) ")
		rest = strings.TrimSpace(rest)
		if rest == "" {
			continue
		}
		questions = append(questions, rest)
		if len(questions) == 3 {
			break
		}
	}
	return questions
}
