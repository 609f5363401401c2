package view

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/naka-gawa/top-repos/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func summaries() []domain.RepositorySummary {
	goLang := "Go"
	prev := 4
	return []domain.RepositorySummary{
		{Repo: "a/one", Owner: "a", PositionCur: 1, PositionPrev: &prev, Stars: 100, Watchers: 10, Forks: 5, OpenIssues: 2, Language: &goLang},
		{Repo: "b/two", Owner: "b", PositionCur: 2, Stars: 90, Watchers: 9, Forks: 4, OpenIssues: 1},
	}
}

func newFilledList() *List {
	l := NewList()
	for _, s := range summaries() {
		l.Add(s)
	}
	return l
}

func TestList_AddAndLookup(t *testing.T) {
	l := newFilledList()

	assert.Equal(t, 2, l.Len())
	assert.Equal(t, []string{"a/one", "b/two"}, l.Identifiers())

	item, ok := l.Lookup("b/two")
	require.True(t, ok)
	assert.Equal(t, 2, item.Position)

	item, ok = l.At(1)
	require.True(t, ok)
	assert.Equal(t, "a/one", item.Summary.Repo)

	_, ok = l.At(3)
	assert.False(t, ok)
	_, ok = l.Lookup("c/three")
	assert.False(t, ok)
}

func TestList_DuplicateIdentifierResolvesToFirst(t *testing.T) {
	l := NewList()
	l.Add(domain.RepositorySummary{Repo: "a/one", Stars: 1})
	l.Add(domain.RepositorySummary{Repo: "a/one", Stars: 2})

	require.True(t, l.AppendActivity("a/one", ActivityBlock{Since: "x"}))
	items := l.Items()
	require.Len(t, items, 2)
	assert.Len(t, items[0].Activity, 1)
	assert.Empty(t, items[1].Activity)
}

func TestList_AppendActivity(t *testing.T) {
	l := newFilledList()
	block := ActivityBlock{
		Since:   "2024-01-01",
		Until:   "2024-01-31",
		Entries: []domain.CommitActivityEntry{{Date: "2024-01-02", Commits: 5, Authors: []string{"a", "b"}}},
	}

	assert.True(t, l.AppendActivity("a/one", block))
	assert.False(t, l.AppendActivity("missing/repo", block))

	items := l.Items()
	assert.Equal(t, []ActivityBlock{block}, items[0].Activity)
	assert.Empty(t, items[1].Activity)
}

func TestList_Reset(t *testing.T) {
	l := newFilledList()
	l.Reset()
	assert.Equal(t, 0, l.Len())
	assert.False(t, l.AppendActivity("a/one", ActivityBlock{}))
}

func TestList_ItemsIsSnapshot(t *testing.T) {
	l := newFilledList()
	items := l.Items()
	items[0].Activity = append(items[0].Activity, ActivityBlock{Since: "x"})

	item, ok := l.Lookup("a/one")
	require.True(t, ok)
	assert.Empty(t, item.Activity)
}

func TestList_ConcurrentAppend(t *testing.T) {
	l := newFilledList()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			l.AppendActivity("a/one", ActivityBlock{Since: fmt.Sprint(i)})
		}(i)
	}
	wg.Wait()
	item, _ := l.Lookup("a/one")
	assert.Len(t, item.Activity, 50)
}

func TestParseFormat(t *testing.T) {
	for _, in := range []string{"text", "JSON", "html"} {
		_, err := ParseFormat(in)
		assert.NoError(t, err, in)
	}
	_, err := ParseFormat("yaml")
	assert.Error(t, err)
}

func TestRenderer_Text(t *testing.T) {
	l := newFilledList()
	l.AppendActivity("a/one", ActivityBlock{
		Since:   "2024-01-01",
		Until:   "2024-01-31",
		Entries: []domain.CommitActivityEntry{{Date: "2024-01-02", Commits: 5, Authors: []string{"a", "b"}}},
		Summary: &domain.ActivitySummary{Days: 1, TotalCommits: 5, Authors: []string{"a", "b"}, MeanPerDay: 5, MedianPerDay: 5, BusiestDate: "2024-01-02", BusiestCommits: 5},
	})

	var buf bytes.Buffer
	require.NoError(t, NewRenderer(FormatText, "top-repos activity").Render(&buf, l.Items()))
	out := buf.String()

	first := strings.Index(out, "[1] a/one")
	second := strings.Index(out, "[2] b/two")
	require.True(t, first >= 0 && second > first, out)

	assert.Contains(t, out, "Previous position: 4")
	assert.Contains(t, out, "Language: Go")
	assert.Contains(t, out, "Previous position: N/A")
	assert.Contains(t, out, "Language: N/A")
	assert.Contains(t, out, "View Commit Activity: top-repos activity b/two")
	assert.Contains(t, out, "Date: 2024-01-02")
	assert.Contains(t, out, "Commits: 5")
	assert.Contains(t, out, "Authors: a, b")
	assert.Contains(t, out, "Total: 5 commits by 2 authors over 1 days")
}

func TestRenderer_HTML(t *testing.T) {
	l := newFilledList()
	l.AppendActivity("b/two", ActivityBlock{
		Since:   "2024-01-01",
		Until:   "2024-01-31",
		Entries: []domain.CommitActivityEntry{{Date: "2024-01-02", Commits: 5, Authors: []string{"a", "b"}}},
	})

	var buf bytes.Buffer
	require.NoError(t, NewRenderer(FormatHTML, "").Render(&buf, l.Items()))
	out := buf.String()

	assert.Equal(t, 2, strings.Count(out, `class="repo-item"`))
	assert.Contains(t, out, `data-repo="a/one"`)
	assert.Contains(t, out, "<p>Language: N/A</p>")
	assert.Equal(t, 1, strings.Count(out, `class="commit-activity"`))
	assert.Contains(t, out, "<p>Commits: 5</p>")
	assert.Contains(t, out, "<p>Authors: a, b</p>")
	assert.Less(t, strings.Index(out, `data-repo="b/two"`), strings.Index(out, `class="commit-activity"`))
}

func TestRenderer_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewRenderer(FormatJSON, "").Render(&buf, nil))
	assert.JSONEq(t, `[]`, buf.String())

	buf.Reset()
	require.NoError(t, NewRenderer(FormatJSON, "").Render(&buf, newFilledList().Items()))
	var decoded []Item
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 2)
	assert.Equal(t, "a/one", decoded[0].Summary.Repo)
	assert.Nil(t, decoded[1].Summary.Language)
}

func TestRenderer_RenderItem(t *testing.T) {
	item, _ := newFilledList().Lookup("b/two")

	var buf bytes.Buffer
	require.NoError(t, NewRenderer(FormatHTML, "").RenderItem(&buf, item))
	assert.Contains(t, buf.String(), `<div class="repo-item" data-repo="b/two">`)
	assert.NotContains(t, buf.String(), `id="repoList"`)
}
