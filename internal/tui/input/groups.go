// Package input parses and completes the free-text fields of the lesson form.
package input

import (
	"fmt"
	"strconv"
	"strings"
)

// Candidate is a group that can be typed into a group list.
type Candidate struct {
	ID   int64
	Name string
}

// lastToken splits a comma separated list into the finished part and the
// token being typed.
func lastToken(input string) (head, token string) {
	i := strings.LastIndex(input, ",")
	if i < 0 {
		return "", strings.TrimSpace(input)
	}
	return input[:i+1], strings.TrimSpace(input[i+1:])
}

// Matching returns candidates whose name starts with the token being typed.
func Matching(input string, candidates []Candidate) []Candidate {
	_, token := lastToken(input)
	if token == "" {
		return nil
	}

	prefix := strings.ToLower(token)
	matches := make([]Candidate, 0, len(candidates))
	for _, c := range candidates {
		if strings.HasPrefix(strings.ToLower(c.Name), prefix) {
			matches = append(matches, c)
		}
	}
	return matches
}

// Autocomplete replaces the token being typed with the first matching name.
func Autocomplete(input string, candidates []Candidate) (string, bool) {
	matches := Matching(input, candidates)
	if len(matches) == 0 {
		return input, false
	}
	head, _ := lastToken(input)
	if head != "" {
		head += " "
	}
	return head + matches[0].Name, true
}

// ParseList resolves a comma separated list of group names or ids.
// Names match case-insensitively. Empty items are skipped.
func ParseList(input string, candidates []Candidate) ([]int64, error) {
	var ids []int64
	for _, item := range strings.Split(input, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		id, err := resolve(item, candidates)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func resolve(item string, candidates []Candidate) (int64, error) {
	for _, c := range candidates {
		if strings.EqualFold(c.Name, item) {
			return c.ID, nil
		}
	}
	if id, err := strconv.ParseInt(item, 10, 64); err == nil {
		for _, c := range candidates {
			if c.ID == id {
				return id, nil
			}
		}
	}
	return 0, fmt.Errorf("unknown group %q", item)
}
