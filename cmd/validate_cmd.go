package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/daedaleanai/cobra"
	"github.com/daedaleanai/svcnames/diagnostics"
	"github.com/daedaleanai/svcnames/services"
	"github.com/pkg/errors"
)

var fValidateJson *string
var fOnlyErrors *bool
var fCanonical *bool

var validateCmd = &cobra.Command{
	Use:   "validate [FILE]",
	Short: "Validates a service table source",
	Long: `Parses a service table source and reports every problem found in it. Without FILE the
configured source is validated. Fails if any problem is an error.`,
	Args: cobra.MaximumNArgs(1),
	RunE: RunAndHandleError(runValidate),
}

type LintMessage struct {
	Name        string `json:"name"`
	Code        string `json:"code"`
	Severity    string `json:"severity"`
	Path        string `json:"path"`
	Line        int    `json:"line"`
	Char        int    `json:"char"`
	Description string `json:"description"`
}

// Translates the severity code into a value valid for the json output
func translateSeverityCode(severity diagnostics.IssueSeverity) string {
	switch severity {
	case diagnostics.IssueSeverityMajor:
		return "error"
	case diagnostics.IssueSeverityMinor:
		return "warning"
	case diagnostics.IssueSeverityNote:
		return "note"
	}
	return "error"
}

// Writes one json lint message per issue
func buildJsonIssues(issues []diagnostics.Issue, jsonWriter *json.Encoder) error {
	for _, issue := range issues {
		var name string
		var code string
		switch issue.Type {
		case diagnostics.IssueTypeMalformedEntry:
			name = "Malformed entry"
			code = "SVC1"
		case diagnostics.IssueTypeInvalidKey:
			name = "Invalid service key"
			code = "SVC2"
		case diagnostics.IssueTypeDuplicateKey:
			name = "Duplicate service key"
			code = "SVC3"
		case diagnostics.IssueTypeEmptyDisplayName:
			name = "Empty display name"
			code = "SVC4"
		case diagnostics.IssueTypeMissingOpener:
			name = "Missing mapOf("
			code = "SVC5"
		case diagnostics.IssueTypeMissingCloser:
			name = "Missing closing parenthesis"
			code = "SVC6"
		case diagnostics.IssueTypeDuplicateDisplayName:
			name = "Shared display name"
			code = "SVC7"
		case diagnostics.IssueTypeNotCanonical:
			name = "Not canonical"
			code = "SVC8"
		case diagnostics.IssueTypeStringTemplate:
			name = "String template"
			code = "SVC9"
		default:
			return fmt.Errorf("Unhandled IssueType: %d", issue.Type)
		}

		if err := jsonWriter.Encode(LintMessage{
			Name:        name,
			Code:        code,
			Severity:    translateSeverityCode(issue.Severity),
			Path:        issue.Path,
			Line:        issue.Line,
			Char:        0,
			Description: issue.Description,
		}); err != nil {
			return err
		}
	}
	return nil
}

// checkCanonical reports an issue if the source differs from what `generate` would write for the same table
func checkCanonical(source []byte, path string, table *services.Table, header []string) ([]diagnostics.Issue, error) {
	var regenerated bytes.Buffer
	if err := services.Write(&regenerated, table, header); err != nil {
		return nil, err
	}
	if bytes.Equal(source, regenerated.Bytes()) {
		return nil, nil
	}
	return []diagnostics.Issue{{
		Path:        path,
		Description: "The service table differs from the generated format. Run `svcnames generate` to rewrite it.",
		Severity:    diagnostics.IssueSeverityMinor,
		Type:        diagnostics.IssueTypeNotCanonical,
	}}, nil
}

// validate parses the source, prints the issues found and returns them. An error is returned if any of them is major.
func validate(w io.Writer, source []byte, path string, onlyErrors, canonical bool, header []string) ([]diagnostics.Issue, error) {
	table, issues, err := services.Parse(bytes.NewReader(source), path)
	if err != nil {
		return nil, err
	}
	if canonical && table != nil {
		canonicalIssues, err := checkCanonical(source, path, table, header)
		if err != nil {
			return nil, err
		}
		issues = append(issues, canonicalIssues...)
	}

	for _, issue := range issues {
		if onlyErrors && issue.Severity == diagnostics.IssueSeverityNote {
			continue
		}
		fmt.Fprintf(w, "%s: %s\n", issue.Severity, issue)
	}

	if diagnostics.HasMajor(issues) {
		return issues, errors.New("ERROR. Validation failed")
	}
	if table != nil {
		fmt.Fprintf(w, "Validation passed, %d services\n", table.Len())
	}
	return issues, nil
}

// the run command for validate
func runValidate(command *cobra.Command, args []string) error {
	if err := setupConfiguration(); err != nil {
		return err
	}

	var source []byte
	var path string
	var err error
	switch {
	case len(args) == 1:
		path = args[0]
	case svcConfig.Source != "":
		path = svcConfig.Source
	}
	if path == "" {
		source, path = services.EmbeddedSource(), services.EmbeddedPath
	} else if source, err = os.ReadFile(path); err != nil {
		return errors.Wrap(err, "read service table")
	}

	issues, validateErr := validate(command.OutOrStdout(), source, path, *fOnlyErrors, *fCanonical, svcConfig.Header)

	if *fValidateJson != "" {
		file, err := os.Create(*fValidateJson)
		if err != nil {
			return errors.Wrap(err, "create json file")
		}
		defer file.Close()

		if err := buildJsonIssues(issues, json.NewEncoder(file)); err != nil {
			return errors.Wrap(err, "write json lint messages")
		}
	}

	return validateErr
}

// Registers the validate command
func init() {
	fValidateJson = validateCmd.PersistentFlags().String("json", "", "Outputs a json file with lint messages in addition to a textual representation of the issues")
	fOnlyErrors = validateCmd.PersistentFlags().Bool("only-errors", false, "Do not print notes")
	fCanonical = validateCmd.PersistentFlags().Bool("canonical", false, "Also check that the file is formatted exactly as `generate` writes it")
	rootCmd.AddCommand(validateCmd)
}
