package topics

import (
	"bytes"
	"testing"
	"testing/fstest"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"status-codes.md":         {Data: []byte("# Status codes\n")},
		"option-dry-run.txt":      {Data: []byte("Dry run help")},
		"advanced/exit-codes.txt": {Data: []byte("Exit codes")},
		"notes.json":              {Data: []byte("{}")},
	}
}

func TestNew_ScansExtensions(t *testing.T) {
	tests := []struct {
		name string
		exts []string
		want []string
	}{
		{"defaults", nil, []string{"exit-codes", "option-dry-run", "status-codes"}},
		{"markdown only", []string{".md"}, []string{"status-codes"}},
		{"json too", []string{".md", ".txt", ".json"}, []string{"exit-codes", "notes", "option-dry-run", "status-codes"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := New(testFS(), Options{Extensions: tt.exts})
			require.NoError(t, err)
			assert.Equal(t, tt.want, m.List())
		})
	}
}

func TestManager_Get(t *testing.T) {
	m, err := New(testFS(), Options{})
	require.NoError(t, err)

	tests := []struct {
		input string
		want  string
		found bool
	}{
		{"status-codes", "status-codes", true},
		{"exit-codes", "exit-codes", true},
		{"option-dry-run", "option-dry-run", true},
		{"dry-run", "option-dry-run", true},
		{"--dry-run", "option-dry-run", true},
		{"-n", "", false},
		{"missing", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			topic, ok := m.Get(tt.input)
			assert.Equal(t, tt.found, ok)
			if ok {
				assert.Equal(t, tt.want, topic.Name)
			}
		})
	}
}

func TestNew_EmptyFS(t *testing.T) {
	m, err := New(fstest.MapFS{}, Options{})
	require.NoError(t, err)
	assert.Empty(t, m.List())
}

func TestPlainRenderer(t *testing.T) {
	assert.Equal(t, "# x", PlainRenderer{}.Render("# x", ".md"))
}

func TestGlamourRenderer_SkipsNonMarkdown(t *testing.T) {
	assert.Equal(t, "plain *text*", GlamourRenderer{}.Render("plain *text*", ".txt"))
}

func newRoot(t *testing.T) (*cobra.Command, *bytes.Buffer) {
	t.Helper()
	root := &cobra.Command{Use: "app", Short: "Test app"}
	root.AddGroup(&cobra.Group{ID: "misc", Title: "MISC:"})
	root.AddCommand(&cobra.Command{Use: "status", Short: "Show status", Run: func(*cobra.Command, []string) {}})

	m, err := New(testFS(), Options{GroupID: "misc"})
	require.NoError(t, err)
	m.Install(root)

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	return root, &out
}

func TestInstall_HelpTopic(t *testing.T) {
	root, out := newRoot(t)
	root.SetArgs([]string{"help", "exit-codes"})
	require.NoError(t, root.Execute())
	assert.Equal(t, "Exit codes", out.String())
}

func TestInstall_HelpTopicsList(t *testing.T) {
	root, out := newRoot(t)
	root.SetArgs([]string{"help", "topics"})
	require.NoError(t, root.Execute())

	got := out.String()
	assert.Contains(t, got, "General topics:")
	assert.Contains(t, got, "  status-codes")
	assert.Contains(t, got, "Option topics:")
	assert.Contains(t, got, "  --dry-run")
	assert.Contains(t, got, "'app help <topic>'")
}

func TestInstall_HelpCommandFallsBack(t *testing.T) {
	root, out := newRoot(t)
	root.SetArgs([]string{"help", "status"})
	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), "Show status")
}

func TestInstall_ReplacesHelpCommand(t *testing.T) {
	root, _ := newRoot(t)
	root.InitDefaultHelpCmd()
	help, _, err := root.Find([]string{"help"})
	require.NoError(t, err)
	assert.Equal(t, "help [command or topic]", help.Use)
	assert.Equal(t, "misc", help.GroupID)
}
