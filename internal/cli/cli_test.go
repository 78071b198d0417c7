package cli

import (
	"bytes"
	"math"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/ppiankov/chronicle/internal/explorer"
	"github.com/ppiankov/chronicle/internal/filter"
	"github.com/ppiankov/chronicle/internal/model"
	"github.com/ppiankov/chronicle/internal/quiz"
)

const dataset = `Name,Birth,Death,Cause,Dynasty
Augustus,-0063-09-23,0014-08-19,Natural Causes,Julio-Claudian
Caligula,0012-08-31,0041-01-24,Assassination,Julio-Claudian
Vespasian,0009-11-17,0079-06-23,Natural Causes,Flavian
Domitian,0051-10-24,0096-09-18,Assassination,Flavian
`

func testRecords() []model.Record {
	return []model.Record{
		{Name: "Augustus", Birth: "-0063-09-23", Death: "0014-08-19", Cause: "Natural Causes", Dynasty: "Julio-Claudian"},
		{Name: "Caligula", Birth: "0012-08-31", Death: "0041-01-24", Cause: "Assassination", Dynasty: "Julio-Claudian"},
		{Name: "Vespasian", Birth: "0009-11-17", Death: "0079-06-23", Cause: "Natural Causes", Dynasty: "Flavian"},
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"https://example.com/data/emperors.csv", "example.com_data_emperors"},
		{"./emperors.csv", "emperors"},
		{"/tmp/my data.csv", "tmp_my-data"},
		{"https://example.com/q?x=1&y=2", "example.com_q_x_1_y_2"},
		{"", "dataset"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, sanitizeFilename(tt.in), tt.in)
	}

	long := sanitizeFilename(strings.Repeat("a", 300))
	assert.Len(t, long, 100)
}

func TestResolvePageSize(t *testing.T) {
	display := model.DisplayConfig{PageSize: 10, PageSizes: []int{5, 10, 25}}

	size, err := resolvePageSize(0, display)
	require.NoError(t, err)
	assert.Equal(t, 10, size)

	size, err = resolvePageSize(25, display)
	require.NoError(t, err)
	assert.Equal(t, 25, size)

	_, err = resolvePageSize(7, display)
	assert.ErrorContains(t, err, "not allowed")

	size, err = resolvePageSize(7, model.DisplayConfig{PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, 7, size)
}

func TestBuildCriteria(t *testing.T) {
	t.Cleanup(func() {
		listSearch, listDynasty, listCause, listFrom, listTo = "", "", "", 0, 0
	})

	fs := pflag.NewFlagSet("list", pflag.ContinueOnError)
	fs.StringVar(&listSearch, "search", "", "")
	fs.StringVar(&listDynasty, "dynasty", "", "")
	fs.StringVar(&listCause, "cause", "", "")
	fs.IntVar(&listFrom, "from", 0, "")
	fs.IntVar(&listTo, "to", 0, "")

	require.NoError(t, fs.Parse([]string{"--dynasty", "flav", "--cause", "assassin", "--from", "-50"}))

	c := buildCriteria(fs, []string{"Flavian", "Julio-Claudian"})
	require.NotNil(t, c.Dynasty)
	assert.Equal(t, "Flavian", *c.Dynasty)
	require.NotNil(t, c.Cause)
	assert.Equal(t, model.CauseAssassination, *c.Cause)
	require.NotNil(t, c.YearStart)
	assert.Equal(t, -50, *c.YearStart)
	assert.Nil(t, c.YearEnd, "--to was not given")
	assert.Empty(t, c.SearchTerm)
}

func TestBuildCriteria_UnknownValueKept(t *testing.T) {
	t.Cleanup(func() { listDynasty = "" })

	fs := pflag.NewFlagSet("list", pflag.ContinueOnError)
	fs.StringVar(&listDynasty, "dynasty", "", "")
	require.NoError(t, fs.Parse([]string{"--dynasty", "Tetrarchy"}))

	c := buildCriteria(fs, []string{"Flavian"})
	require.NotNil(t, c.Dynasty)
	assert.Equal(t, "Tetrarchy", *c.Dynasty)
}

func TestBuildCriteria_NumberIsNotAnOptionIndex(t *testing.T) {
	t.Cleanup(func() { listDynasty = "" })

	fs := pflag.NewFlagSet("list", pflag.ContinueOnError)
	fs.StringVar(&listDynasty, "dynasty", "", "")
	require.NoError(t, fs.Parse([]string{"--dynasty", "2"}))

	c := buildCriteria(fs, []string{"Flavian", "Julio-Claudian"})
	require.NotNil(t, c.Dynasty)
	assert.Equal(t, "2", *c.Dynasty)
}

func TestWritePage(t *testing.T) {
	var buf bytes.Buffer
	writePage(&buf, filter.Paginate(testRecords(), 0, 2))

	out := buf.String()
	assert.Contains(t, out, "NAME")
	assert.Contains(t, out, "63 BCE")
	assert.Contains(t, out, "14 CE")
	assert.Contains(t, out, "Caligula")
	assert.NotContains(t, out, "Vespasian")
	assert.Contains(t, out, "Page 1 of 2 (3 records)")
}

func TestWritePage_Empty(t *testing.T) {
	var buf bytes.Buffer
	writePage(&buf, filter.Paginate(nil, 0, 10))
	assert.Contains(t, buf.String(), "No records match.")
}

func TestWritePage_PastEnd(t *testing.T) {
	var buf bytes.Buffer
	writePage(&buf, filter.Paginate(testRecords(), 5, 2))
	assert.Contains(t, buf.String(), "Page 6 is past the end (2 pages).")
}

func TestWritePage_HugePageNumber(t *testing.T) {
	var buf bytes.Buffer
	writePage(&buf, filter.Paginate(testRecords(), math.MaxInt-1, 2))
	assert.Contains(t, buf.String(), "is past the end (2 pages).")
}

func newQuizSession() *explorer.Session {
	engine := quiz.NewEngine(quiz.WithRand(rand.New(rand.NewPCG(1, 2))))
	sess := explorer.NewSession(explorer.WithQuizEngine(engine))
	sess.Replace("test", testRecords())
	return sess
}

func TestPlayQuiz(t *testing.T) {
	sess := newQuizSession()
	var out bytes.Buffer

	asked, err := playQuiz(sess, 2, strings.NewReader("1\n1\n"), &out)
	require.NoError(t, err)
	assert.Equal(t, 2, asked)
	assert.Contains(t, out.String(), "Question 1:")
	assert.Contains(t, out.String(), "Question 2:")
	assert.LessOrEqual(t, sess.Score(), 2)
}

func TestPlayQuiz_RepromptsOnUnknownInput(t *testing.T) {
	sess := newQuizSession()
	var out bytes.Buffer

	asked, err := playQuiz(sess, 1, strings.NewReader("zzzzzzzz\n1\n"), &out)
	require.NoError(t, err)
	assert.Equal(t, 1, asked)
	assert.Contains(t, out.String(), "Please choose 1-")
}

func TestPlayQuiz_QuitEarly(t *testing.T) {
	sess := newQuizSession()
	var out bytes.Buffer

	asked, err := playQuiz(sess, 3, strings.NewReader("q\n"), &out)
	require.NoError(t, err)
	assert.Equal(t, 0, asked)
	assert.Nil(t, sess.CurrentQuestion(), "quitting discards the pending question")
}

func TestPlayQuiz_EmptyDataset(t *testing.T) {
	sess := explorer.NewSession()
	var out bytes.Buffer

	_, err := playQuiz(sess, 1, strings.NewReader("1\n"), &out)
	assert.ErrorIs(t, err, quiz.ErrEmptyDataset)
}

func TestWriteDefaultConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	require.NoError(t, writeDefaultConfig(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "# Chronicle Configuration File"))

	var cfg model.Config
	require.NoError(t, yaml.Unmarshal(data, &cfg))
	assert.Equal(t, model.DefaultConfig().Source.UserAgent, cfg.Source.UserAgent)
	assert.Equal(t, 30*time.Second, cfg.Source.Timeout)
	assert.Equal(t, []int{5, 10, 25}, cfg.Display.PageSizes)

	err = writeDefaultConfig(path)
	assert.ErrorContains(t, err, "already exists")
}

func TestSetDefaults_EnvOverrides(t *testing.T) {
	t.Setenv("CHRONICLE_SOURCE_LOCATION", "https://example.com/emperors.csv")
	t.Setenv("CHRONICLE_DISPLAY_PAGE_SIZE", "25")

	v := viper.New()
	require.NoError(t, setDefaults(v, model.DefaultConfig()))
	v.SetEnvPrefix("CHRONICLE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := model.DefaultConfig()
	require.NoError(t, v.Unmarshal(cfg))

	assert.Equal(t, "https://example.com/emperors.csv", cfg.Source.Location)
	assert.Equal(t, 25, cfg.Display.PageSize)
	assert.Equal(t, 30*time.Second, cfg.Source.Timeout)
	assert.Equal(t, 3, cfg.Source.MaxRetries)
	assert.NoError(t, cfg.Validate())
}

func TestStatsCommand(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	path := filepath.Join(home, "emperors.csv")
	require.NoError(t, os.WriteFile(path, []byte(dataset), 0o644))

	t.Cleanup(func() { outJSON = "" })

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"stats", path, "--json", "-"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	require.NoError(t, Execute())

	got := out.String()
	assert.Contains(t, got, "Records:        4")
	assert.Contains(t, got, "Violent deaths: 50%")
	assert.Contains(t, got, `"total": 4`)
	assert.Contains(t, got, "Julio-Claudian")
}
