package organizer

import (
	"fmt"
	"strings"
)

// Policy selects how files are grouped
type Policy string

const (
	PolicyType       Policy = "type"
	PolicyDate       Policy = "date"
	PolicyDuplicates Policy = "duplicates"
)

// Policies lists the policies in menu order
func Policies() []Policy {
	return []Policy{PolicyType, PolicyDate, PolicyDuplicates}
}

// ParsePolicy accepts a policy name, a common alias or its 1-based menu number
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "type", "by-type", "bytype", "extension":
		return PolicyType, nil
	case "2", "date", "by-date", "bydate", "month":
		return PolicyDate, nil
	case "3", "duplicates", "dupes", "find-duplicates", "dedupe":
		return PolicyDuplicates, nil
	default:
		return "", fmt.Errorf("unknown organize method: %q", s)
	}
}

// Label is the menu text for the policy
func (p Policy) Label() string {
	switch p {
	case PolicyType:
		return "Organize by file type"
	case PolicyDate:
		return "Organize by modification date"
	case PolicyDuplicates:
		return "Find and move duplicates"
	default:
		return string(p)
	}
}
