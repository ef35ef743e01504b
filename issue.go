package unusedres

import "sort"

// Issue is a class referenced in source that no stylesheet declares.
type Issue struct {
	ClassName  string
	Text       string   // "class \"ext-x\" is not declared in any stylesheet"
	Pos        IssuePos // File location
	SourceLine string   // Line of code with the reference
}

// IssuePos specifies the exact location of an issue
type IssuePos struct {
	Filename string // Relative to the repository root
	Line     int
	Column   int // 1-based, exact start of the class name
}

// IssueUndeclaredClass is the message format of an Issue.
const IssueUndeclaredClass = "class %q is not declared in any stylesheet"

// sortIssues orders issues by file, then line, then column.
func sortIssues(issues []Issue) {
	sort.SliceStable(issues, func(i, j int) bool {
		if issues[i].Pos.Filename != issues[j].Pos.Filename {
			return issues[i].Pos.Filename < issues[j].Pos.Filename
		}
		if issues[i].Pos.Line != issues[j].Pos.Line {
			return issues[i].Pos.Line < issues[j].Pos.Line
		}
		return issues[i].Pos.Column < issues[j].Pos.Column
	})
}
