package diagnostics

import "fmt"

type IssueType uint

const (
	IssueTypeMalformedEntry IssueType = iota
	IssueTypeInvalidKey
	IssueTypeDuplicateKey
	IssueTypeEmptyDisplayName
	IssueTypeMissingOpener
	IssueTypeMissingCloser
	IssueTypeDuplicateDisplayName
	IssueTypeNotCanonical
	IssueTypeStringTemplate
)

type IssueSeverity uint

const (
	IssueSeverityMajor IssueSeverity = iota
	IssueSeverityMinor
	IssueSeverityNote // Lint errors
)

type Issue struct {
	Path        string
	Line        int
	Description string
	Severity    IssueSeverity
	Type        IssueType
}

// String formats the issue as path:line: description, omitting the parts which are unknown
func (issue Issue) String() string {
	switch {
	case issue.Path != "" && issue.Line > 0:
		return fmt.Sprintf("%s:%d: %s", issue.Path, issue.Line, issue.Description)
	case issue.Line > 0:
		return fmt.Sprintf("line %d: %s", issue.Line, issue.Description)
	case issue.Path != "":
		return fmt.Sprintf("%s: %s", issue.Path, issue.Description)
	}
	return issue.Description
}

// String returns a short name of the severity
func (severity IssueSeverity) String() string {
	switch severity {
	case IssueSeverityMajor:
		return "major"
	case IssueSeverityMinor:
		return "minor"
	case IssueSeverityNote:
		return "note"
	}
	return "unknown"
}

// HasMajor returns true if any of the issues has major severity
func HasMajor(issues []Issue) bool {
	for _, issue := range issues {
		if issue.Severity == IssueSeverityMajor {
			return true
		}
	}
	return false
}
