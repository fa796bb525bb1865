/*
Functions for reading and writing the service table source.

The source is the generated Kotlin file used by the CI configuration:

	// NOTE: this is Generated from the Service Definitions - manual changes will be lost
	var services = mapOf(
	        "cosmos" to "CosmosDB",
	        "keyvault" to "KeyVault"
	)

Parse scans it one line at a time and reports everything it finds wrong as diagnostics, so that a single run of
`svcnames validate` shows all the problems in a file. Write produces the same format back.
*/
package services

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/daedaleanai/svcnames/diagnostics"
	"github.com/pkg/errors"
)

var (
	reComment = regexp.MustCompile(`^\s*//`)
	reOpener  = regexp.MustCompile(`^\s*va[rl]\s+\w+\s*=\s*mapOf\(\s*$`)
	reCloser  = regexp.MustCompile(`^\s*\)\s*$`)

	// "<key>" to "<display name>", with an optional trailing comma
	reEntry = regexp.MustCompile(`^\s*"((?:[^"\\]|\\.)*)"\s+to\s+"((?:[^"\\]|\\.)*)"\s*(,?)\s*$`)
)

// The comment written at the top of generated sources
var DefaultHeader = []string{
	"Copyright (c) HashiCorp, Inc.",
	"SPDX-License-Identifier: MPL-2.0",
	"NOTE: this is Generated from the Service Definitions - manual changes will be lost",
	"      to re-generate this file, run 'make generate' in the root of the repository",
}

// Indentation of the entries in generated sources
const entryIndent = "        "

// ParseFile reads and parses the table source at path.
func ParseFile(path string) (*Table, []diagnostics.Issue, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, errors.Wrap(err, "open service table")
	}
	defer f.Close()
	return Parse(f, path)
}

// Parse reads a table source. The returned error is only set when reading fails, problems in the source itself are
// returned as issues. If any of the issues is major, the table is nil.
func Parse(r io.Reader, path string) (*Table, []diagnostics.Issue, error) {
	var (
		entries []Entry
		lines   []int // line of each entry
		issues  []diagnostics.Issue

		opened, closed  bool
		missingComma    int // line of the last entry if it had no trailing comma
		lineNo, entryNo int
	)

	issue := func(line int, issueType diagnostics.IssueType, format string, args ...interface{}) {
		issues = append(issues, diagnostics.Issue{
			Path:        path,
			Line:        line,
			Description: fmt.Sprintf(format, args...),
			Severity:    diagnostics.IssueSeverityMajor,
			Type:        issueType,
		})
	}

	scan := bufio.NewScanner(r)
	for scan.Scan() {
		lineNo++
		line := scan.Text()
		if strings.TrimSpace(line) == "" || reComment.MatchString(line) {
			continue
		}

		switch {
		case reOpener.MatchString(line):
			if opened {
				issue(lineNo, diagnostics.IssueTypeMalformedEntry, "Unexpected second `mapOf(`.")
			}
			opened = true

		case reCloser.MatchString(line):
			if !opened || closed {
				issue(lineNo, diagnostics.IssueTypeMissingOpener, "Unexpected `)` without a matching `mapOf(`.")
			}
			closed = true
			missingComma = 0

		default:
			m := reEntry.FindStringSubmatch(line)
			if m == nil {
				issue(lineNo, diagnostics.IssueTypeMalformedEntry, "Malformed line, expected `\"<key>\" to \"<display name>\",`: %s", strings.TrimSpace(line))
				continue
			}
			if !opened && entryNo == 0 {
				issue(lineNo, diagnostics.IssueTypeMissingOpener, "Service entry found before `mapOf(`.")
			}
			if closed {
				issue(lineNo, diagnostics.IssueTypeMalformedEntry, "Service entry found after the closing `)`.")
			}
			if missingComma > 0 {
				issue(missingComma, diagnostics.IssueTypeMalformedEntry, "Missing `,` after service entry.")
			}
			missingComma = 0
			if m[3] == "" {
				missingComma = lineNo
			}

			key, keyOk := unquote(m[1])
			name, nameOk := unquote(m[2])
			if !keyOk || !nameOk {
				issue(lineNo, diagnostics.IssueTypeMalformedEntry, "Invalid escape sequence: %s", strings.TrimSpace(line))
				continue
			}
			if hasTemplate(m[2]) {
				issues = append(issues, diagnostics.Issue{
					Path:        path,
					Line:        lineNo,
					Description: fmt.Sprintf("Unescaped `$` in display name `%s` starts a string template, write `\\$` instead.", name),
					Severity:    diagnostics.IssueSeverityMinor,
					Type:        diagnostics.IssueTypeStringTemplate,
				})
			}
			entries = append(entries, Entry{Key: key, DisplayName: name})
			lines = append(lines, lineNo)
			entryNo++
		}
	}
	if err := scan.Err(); err != nil {
		return nil, nil, errors.Wrapf(err, "read service table `%s`", path)
	}

	if !opened && entryNo == 0 {
		issue(0, diagnostics.IssueTypeMissingOpener, "No `mapOf(` found.")
	}
	if opened && !closed {
		issue(lineNo, diagnostics.IssueTypeMissingCloser, "Missing closing `)`.")
	}

	issues = append(issues, checkEntries(entries, path, lines)...)
	if diagnostics.HasMajor(issues) {
		return nil, issues, nil
	}
	return newTable(entries), issues, nil
}

// Write serializes the table in the source format, preceded by the given comment lines.
func Write(w io.Writer, t *Table, header []string) error {
	bw := bufio.NewWriter(w)
	for _, line := range header {
		if !strings.HasPrefix(line, "//") {
			line = "// " + line
		}
		fmt.Fprintln(bw, line)
	}
	fmt.Fprintln(bw, "var services = mapOf(")
	for i, e := range t.entries {
		sep := ","
		if i == len(t.entries)-1 {
			sep = ""
		}
		fmt.Fprintf(bw, "%s\"%s\" to \"%s\"%s\n", entryIndent, quote(e.Key), quote(e.DisplayName), sep)
	}
	fmt.Fprintln(bw, ")")
	return errors.Wrap(bw.Flush(), "write service table")
}

// quote escapes the characters which are special inside a Kotlin string literal. Control characters are escaped
// too, so every string survives a Write followed by a Parse.
func quote(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		switch {
		case r == utf8.RuneError && size == 1:
			// not UTF-8, kept as is
			b.WriteByte(s[i])
		case r == '\\' || r == '"' || r == '$':
			b.WriteByte('\\')
			b.WriteRune(r)
		case r == '\n':
			b.WriteString(`\n`)
		case r == '\r':
			b.WriteString(`\r`)
		case r == '\t':
			b.WriteString(`\t`)
		case r == '\b':
			b.WriteString(`\b`)
		case unicode.IsControl(r):
			fmt.Fprintf(&b, `\u%04x`, r)
		default:
			b.WriteRune(r)
		}
		i += size
	}
	return b.String()
}

// unquote resolves the escape sequences of a Kotlin string literal. It returns false on an unknown or truncated escape.
func unquote(s string) (string, bool) {
	if !strings.Contains(s, `\`) {
		return s, true
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] != '\\' {
			b.WriteByte(s[i])
			continue
		}
		i++
		if i == len(s) {
			return "", false
		}
		switch s[i] {
		case '\\', '"', '$', '\'':
			b.WriteByte(s[i])
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 't':
			b.WriteByte('\t')
		case 'b':
			b.WriteByte('\b')
		case 'u':
			if i+4 >= len(s) {
				return "", false
			}
			code, err := strconv.ParseUint(s[i+1:i+5], 16, 16)
			if err != nil {
				return "", false
			}
			b.WriteRune(rune(code))
			i += 4
		default:
			return "", false
		}
	}
	return b.String(), true
}

// hasTemplate returns true if the raw literal contains an unescaped `$` followed by an identifier or `{`, which Kotlin
// evaluates as a string template.
func hasTemplate(raw string) bool {
	for i := 0; i < len(raw)-1; i++ {
		switch raw[i] {
		case '\\':
			i++
		case '$':
			next, _ := utf8.DecodeRuneInString(raw[i+1:])
			if next == '{' || next == '_' || unicode.IsLetter(next) {
				return true
			}
		}
	}
	return false
}
