// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/paperclean/pkg/types"
)

const sheet = `Subject Name,Subject Code,Topic,Sub topic,Paper Number,Paper Variant,Variant,Difficulty,Year,Marks,Question Number
Accounting,9706,Financial accounting,Depreciation,1,2,s,Easy,2024,1,1
Accounting,9706,Financial accounting,Depreciation,1,2,s,Hard,2023,1,2
Accounting,9706,Financial accounting,Accruals,1,3,w,Medium,2023,1,3
Accounting,9706,Cost accounting,Budgeting,3,2,s,Hard,2024,4.0,1
Economics,9708,Macroeconomics,Inflation,2,1,m,Easy,2022,2,5
`

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(types.CatalogConfig{DBPath: filepath.Join(t.TempDir(), "db", "past_papers.db")}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func seededStore(t *testing.T) *Store {
	t.Helper()
	s := testStore(t)
	records, err := ParseCSV(strings.NewReader(sheet), func(int, error) { t.Fatal("unexpected bad row") })
	require.NoError(t, err)
	_, err = s.Insert(context.Background(), records)
	require.NoError(t, err)
	return s
}

func TestParseCSV(t *testing.T) {
	records, err := ParseCSV(strings.NewReader(sheet), func(int, error) {})
	require.NoError(t, err)
	require.Len(t, records, 5)

	assert.Equal(t, types.PaperRecord{
		SubjectName: "Accounting", SubjectCode: "9706", Topic: "Cost accounting", SubTopic: "Budgeting",
		PaperNumber: "3", PaperVariant: "2", Variant: "s", Difficulty: "Hard", Year: "2024",
		Marks: 4, QuestionNumber: "1",
	}, records[3])
}

func TestParseCSV_HeadingsAndBadRows(t *testing.T) {
	in := "\ufeffsubject_name,YEAR,marks,notes\nPhysics,2021.0,x,ignored\nPhysics,2020,3,\n"
	var bad []int
	records, err := ParseCSV(strings.NewReader(in), func(line int, _ error) { bad = append(bad, line) })
	require.NoError(t, err)
	assert.Equal(t, []int{2}, bad)
	require.Len(t, records, 1)
	assert.Equal(t, "2020", records[0].Year)
	assert.Equal(t, 3, records[0].Marks)

	_, err = ParseCSV(strings.NewReader("a,b\n1,2\n"), func(int, error) {})
	assert.Error(t, err, "header without catalog columns")
}

func TestImportFile(t *testing.T) {
	s := testStore(t)
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "STATS.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte(sheet+"Physics,9702,Waves,,1,1,s,Easy,2021,lots,1\n"), 0o644))

	core, logs := observer.New(zapcore.WarnLevel)
	s.log = zap.New(core)

	var out bytes.Buffer
	summary, err := s.ImportFile(context.Background(), csvPath, &out)
	require.NoError(t, err)
	assert.Equal(t, ImportSummary{Imported: 5, Failed: 1}, summary)
	assert.Equal(t, 6, summary.Total())
	assert.Equal(t, 1, logs.FilterMessage("skipping row").Len())
	assert.Contains(t, out.String(), "imported: STATS.csv (5 rows, 1 skipped)")

	yamlPath := filepath.Join(dir, "extra.yaml")
	data, err := yaml.Marshal([]types.PaperRecord{{ID: 99, SubjectName: "Physics", Topic: "Waves", Year: "2021"}})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(yamlPath, data, 0o644))
	summary, err = s.ImportFile(context.Background(), yamlPath, &out)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Imported)

	n, err := s.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 6, n)

	_, err = s.ImportFile(context.Background(), filepath.Join(dir, "STATS.xlsx"), &out)
	assert.Error(t, err)
}

func TestCascade(t *testing.T) {
	s := seededStore(t)
	ctx := context.Background()

	subjects, err := s.Subjects(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Accounting", "Economics"}, subjects)

	sel := Selection{Subject: "Accounting"}
	topics, err := s.Topics(ctx, sel)
	require.NoError(t, err)
	assert.Equal(t, []string{"Cost accounting", "Financial accounting"}, topics)

	sel.Topics = []string{"Financial accounting"}
	subtopics, err := s.Subtopics(ctx, sel)
	require.NoError(t, err)
	assert.Equal(t, []string{"Accruals", "Depreciation"}, subtopics)

	years, err := s.Years(ctx, sel)
	require.NoError(t, err)
	assert.Equal(t, []string{"2023", "2024"}, years)

	sel.Subtopics = []string{"Depreciation"}
	sel.Years = []string{"2023"}
	variants, err := s.Variants(ctx, sel)
	require.NoError(t, err)
	assert.Equal(t, []string{"s"}, variants)

	sel.Variants = variants
	papers, err := s.PaperNumbers(ctx, sel)
	require.NoError(t, err)
	assert.Equal(t, []string{"1"}, papers)

	sel.PaperNumbers = papers
	pvs, err := s.PaperVariants(ctx, sel)
	require.NoError(t, err)
	assert.Equal(t, []string{"2"}, pvs)

	sel.PaperVariants = pvs
	diffs, err := s.Difficulties(ctx, sel)
	require.NoError(t, err)
	assert.Equal(t, []string{"Hard"}, diffs)
}

func TestCascade_UnknownSubject(t *testing.T) {
	s := seededStore(t)
	topics, err := s.Topics(context.Background(), Selection{Subject: "Biology"})
	require.NoError(t, err)
	assert.Empty(t, topics)
	assert.NotNil(t, topics)
}

func TestFilter(t *testing.T) {
	s := seededStore(t)
	ctx := context.Background()

	all, err := s.Filter(ctx, Selection{})
	require.NoError(t, err)
	assert.Len(t, all, 5)

	rows, err := s.Filter(ctx, Selection{Subject: "Accounting", Years: []string{"2024"}, Difficulties: []string{"Hard", "Easy"}})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Depreciation", rows[0].SubTopic)
	assert.Equal(t, "Budgeting", rows[1].SubTopic)
	assert.Less(t, rows[0].ID, rows[1].ID)
}

func TestExport(t *testing.T) {
	s := seededStore(t)
	ctx := context.Background()
	dir := t.TempDir()
	sel := Selection{Subject: "Economics"}

	n, err := s.ExportJSON(ctx, sel, filepath.Join(dir, "out", "economics.json"))
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	data, err := os.ReadFile(filepath.Join(dir, "out", "economics.json"))
	require.NoError(t, err)
	var got Export
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, 1, got.Count)
	assert.Equal(t, "Inflation", got.Records[0].SubTopic)

	n, err = s.ExportYAML(ctx, Selection{Subject: "Accounting"}, filepath.Join(dir, "accounting.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	data, err = os.ReadFile(filepath.Join(dir, "accounting.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "subject: Accounting")
	assert.Contains(t, string(data), "count: 4")
}
