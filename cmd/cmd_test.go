package cmd

import (
	"bufio"
	"bytes"
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/daedaleanai/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daedaleanai/svcnames/diagnostics"
	"github.com/daedaleanai/svcnames/linepipes"
	"github.com/daedaleanai/svcnames/services"
)

func TestLookup(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, lookup(&buf, services.Default(), []string{"cosmos", "keyvault"}, false, false))
	assert.Equal(t, "CosmosDB\nKeyVault\n", buf.String())

	buf.Reset()
	require.NoError(t, lookup(&buf, services.Default(), []string{"storage"}, false, true))
	assert.Equal(t, "storage\tStorage\n", buf.String())
}

func TestLookup_NotFound(t *testing.T) {
	var buf bytes.Buffer
	err := lookup(&buf, services.Default(), []string{"cosmos", "doesnotexist", "web"}, false, false)
	assert.True(t, services.IsNotFound(err))
	assert.Equal(t, "CosmosDB\n", buf.String())

	buf.Reset()
	require.NoError(t, lookup(&buf, services.Default(), []string{"cosmos", "doesnotexist", "web"}, true, false))
	assert.Equal(t, "CosmosDB\ndoesnotexist\nWeb\n", buf.String())
}

func TestPrintConcise(t *testing.T) {
	var buf bytes.Buffer
	printConcise(&buf, []services.Entry{
		{Key: "cdn", DisplayName: "CDN"},
		{Key: "keyvault", DisplayName: "KeyVault"},
	})
	assert.Equal(t, "cdn       CDN\nkeyvault  KeyVault\n", buf.String())
}

func TestPrintCsv(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printCsv(&buf, []services.Entry{
		{Key: "mssql", DisplayName: "Microsoft SQL Server / Azure SQL"},
		{Key: "quoted", DisplayName: `A "quoted", name`},
	}))
	assert.Equal(t, "Key,Display Name\nmssql,Microsoft SQL Server / Azure SQL\nquoted,\"A \"\"quoted\"\", name\"\n", buf.String())
}

func TestValidate(t *testing.T) {
	var buf bytes.Buffer
	issues, err := validate(&buf, services.EmbeddedSource(), services.EmbeddedPath, false, true, services.DefaultHeader)
	require.NoError(t, err)
	assert.Empty(t, issues)
	assert.Equal(t, "Validation passed, 122 services\n", buf.String())
}

func TestValidate_Issues(t *testing.T) {
	source := []byte(`var services = mapOf(
    "sql" to "SQL",
    "mssql" to "SQL",
    "Bad" to "Bad"
)
`)
	var buf bytes.Buffer
	issues, err := validate(&buf, source, "services.kt", false, false, nil)
	assert.EqualError(t, err, "ERROR. Validation failed")
	assert.Len(t, issues, 2)
	assert.Equal(t, "note: services.kt:3: Services `sql` and `mssql` share the display name `SQL`.\n"+
		"major: services.kt:4: Invalid service key `Bad`: must be a lowercase alphanumeric identifier.\n", buf.String())

	buf.Reset()
	_, err = validate(&buf, source, "services.kt", true, false, nil)
	assert.Error(t, err)
	assert.NotContains(t, buf.String(), "note:")
}

func TestValidate_Canonical(t *testing.T) {
	// Valid, but indented differently from the generated format
	source := []byte("var services = mapOf(\n  \"cdn\" to \"CDN\"\n)\n")

	var buf bytes.Buffer
	issues, err := validate(&buf, source, "services.kt", false, false, nil)
	require.NoError(t, err)
	assert.Empty(t, issues)

	buf.Reset()
	issues, err = validate(&buf, source, "services.kt", false, true, nil)
	require.NoError(t, err)
	require.Len(t, issues, 1)
	assert.Equal(t, diagnostics.IssueTypeNotCanonical, issues[0].Type)
	assert.Equal(t, diagnostics.IssueSeverityMinor, issues[0].Severity)

	canonical := []byte("var services = mapOf(\n        \"cdn\" to \"CDN\"\n)\n")
	issues, err = validate(&buf, canonical, "services.kt", false, true, nil)
	require.NoError(t, err)
	assert.Empty(t, issues)
}

func TestBuildJsonIssues(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, buildJsonIssues([]diagnostics.Issue{
		{Path: "services.kt", Line: 3, Description: "Duplicate service key `cosmos`.", Severity: diagnostics.IssueSeverityMajor, Type: diagnostics.IssueTypeDuplicateKey},
		{Path: "services.kt", Line: 7, Description: "shared", Severity: diagnostics.IssueSeverityNote, Type: diagnostics.IssueTypeDuplicateDisplayName},
	}, json.NewEncoder(&buf)))

	var messages []LintMessage
	scanner := bufio.NewScanner(&buf)
	for scanner.Scan() {
		var m LintMessage
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &m))
		messages = append(messages, m)
	}
	assert.Equal(t, []LintMessage{
		{Name: "Duplicate service key", Code: "SVC3", Severity: "error", Path: "services.kt", Line: 3, Description: "Duplicate service key `cosmos`."},
		{Name: "Shared display name", Code: "SVC7", Severity: "note", Path: "services.kt", Line: 7, Description: "shared"},
	}, messages)

	assert.Error(t, buildJsonIssues([]diagnostics.Issue{{Type: diagnostics.IssueType(99)}}, json.NewEncoder(&buf)))
}

func TestExport_CanBeReloaded(t *testing.T) {
	dir := t.TempDir()
	for _, format := range []services.ExportFormat{services.ExportJSON, services.ExportYAML} {
		filePath, err := exportTable(services.Default(), dir, format)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "services"+format.Extension()), filePath)

		table, issues, err := services.LoadExport(filePath)
		require.NoError(t, err)
		assert.Empty(t, issues)
		assert.True(t, services.Default().Equal(table))
	}

	_, err := exportTable(services.Default(), filepath.Join(dir, "missing"), services.ExportJSON)
	assert.Error(t, err)
}

func TestLoadTable_Export(t *testing.T) {
	dir := t.TempDir()
	defer func() { sourcePath = "" }()

	for _, format := range []services.ExportFormat{services.ExportJSON, services.ExportYAML} {
		filePath, err := exportTable(services.Default(), dir, format)
		require.NoError(t, err)

		sourcePath = filePath
		table, err := loadTable()
		require.NoError(t, err)
		assert.True(t, services.Default().Equal(table))
	}
}

func TestGenerate_FromExport(t *testing.T) {
	dir := t.TempDir()
	exported := filepath.Join(dir, "services.json")
	require.NoError(t, os.WriteFile(exported, []byte(`{"services": [
  {"key": "cdn", "displayName": "Content\nDelivery"},
  {"key": "web", "displayName": "Web $app"}
]}`), 0644))

	sourcePath = exported
	defer func() { sourcePath = "" }()
	table, err := loadTable()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, generate(&buf, table, nil))
	assert.Equal(t, "var services = mapOf(\n        \"cdn\" to \"Content\\nDelivery\",\n        \"web\" to \"Web \\$app\"\n)\n", buf.String())

	issues, err := validate(&bytes.Buffer{}, buf.Bytes(), "services.kt", false, true, nil)
	require.NoError(t, err)
	assert.Empty(t, issues)
}

func TestReport_QuietUnlessVerbose(t *testing.T) {
	var logged bytes.Buffer
	log.SetOutput(&logged)
	defer log.SetOutput(os.Stderr)

	out := filepath.Join(t.TempDir(), "services.html")
	require.NoError(t, runReportCmd(reportCmd, []string{out}))
	assert.FileExists(t, out)
	assert.Empty(t, logged.String())

	linepipes.Verbose = true
	defer func() { linepipes.Verbose = false }()
	require.NoError(t, runReportCmd(reportCmd, []string{out}))
	assert.Contains(t, logged.String(), "Creating "+out)
}

func TestGenerate(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, generate(&buf, services.Default(), services.DefaultHeader))
	assert.Equal(t, string(services.EmbeddedSource()), buf.String())
}

func TestCompleteServiceKey(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "services.kt")
	require.NoError(t, os.WriteFile(source, []byte(`var services = mapOf(
        "redis" to "Redis",
        "redisenterprise" to "Redis Enterprise",
        "relay" to "Relay"
)
`), 0644))

	sourcePath = source
	defer func() { sourcePath = "" }()

	completions, directive := completeServiceKey(lookupCmd, nil, "redis")
	assert.Equal(t, []string{"redis", "redisenterprise"}, completions)
	assert.Equal(t, cobra.ShellCompDirectiveNoFileComp, directive)

	completions, _ = completeServiceKey(lookupCmd, []string{"redis"}, "re")
	assert.Equal(t, []string{"redisenterprise", "relay"}, completions)
}

func TestLoadTable_Invalid(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "services.kt")
	require.NoError(t, os.WriteFile(source, []byte("var services = mapOf(\n    \"Bad\" to \"Bad\"\n)\n"), 0644))

	sourcePath = source
	defer func() { sourcePath = "" }()

	_, err := loadTable()
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "Invalid service key `Bad`"))
}
