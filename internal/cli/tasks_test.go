package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskpilot/internal/models"
)

func TestRenderTasks_Empty(t *testing.T) {
	out := &bytes.Buffer{}
	renderTasks(out, nil, models.ViewList)
	assert.Equal(t, "No tasks.\n", out.String())
}

func TestRenderTasks_ListView(t *testing.T) {
	out := &bytes.Buffer{}
	tasks := []models.Task{
		{ID: "t1", Title: "buy milk", Description: "two liters", Priority: models.PriorityLow},
		{ID: "t2", Title: "ship release", Completed: true, Priority: models.PriorityHigh},
	}
	renderTasks(out, tasks, models.ViewList)

	s := out.String()
	assert.Contains(t, s, "[ ] [low   ] buy milk  t1")
	assert.Contains(t, s, "two liters")
	assert.Contains(t, s, "[x] [high  ] ship release  t2")
	assert.Contains(t, s, "2 task(s)")
}

func TestRenderTasks_GridView(t *testing.T) {
	out := &bytes.Buffer{}
	tasks := []models.Task{
		{ID: "t1", Title: "buy milk", Priority: models.PriorityMedium},
	}
	renderTasks(out, tasks, models.ViewGrid)

	s := out.String()
	assert.Contains(t, s, "+--")
	assert.Contains(t, s, "buy milk")
	assert.Contains(t, s, "medium")
	assert.Contains(t, s, "1 task(s)")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "a very...", truncate("a very long title indeed", 10))
	assert.LessOrEqual(t, len(truncate("a very long title indeed", 10)), 10)
}

func TestCmdAdd(t *testing.T) {
	client := &stubClient{
		CreateResp: &models.Task{ID: "t9", Title: "buy milk", Priority: models.PriorityHigh},
	}
	a, out, _ := newTestApp(t, client, "buy milk\ntwo liters\nhigh\n")
	loginTestApp(t, a, client)

	a.cmdAdd(context.Background())

	assert.Equal(t, "buy milk", client.LastDraft.Title)
	assert.Equal(t, "two liters", client.LastDraft.Description)
	assert.Equal(t, models.PriorityHigh, client.LastDraft.Priority)
	assert.Contains(t, out.String(), "Created t9")
	require.Len(t, a.tasks.Tasks(), 1)
}

func TestCmdAdd_DefaultPriority(t *testing.T) {
	client := &stubClient{
		CreateResp: &models.Task{ID: "t9", Title: "buy milk", Priority: models.PriorityMedium},
	}
	a, _, _ := newTestApp(t, client, "buy milk\n\n\n")
	loginTestApp(t, a, client)

	a.cmdAdd(context.Background())
	assert.Equal(t, models.PriorityMedium, client.LastDraft.Priority)
}

func TestCmdEdit_OnlyChangedFields(t *testing.T) {
	client := &stubClient{
		UpdateResp: &models.Task{ID: "t1", Title: "new title"},
	}
	a, _, _ := newTestApp(t, client, "new title\n\n")
	loginTestApp(t, a, client)

	a.cmdEdit(context.Background(), "t1")

	require.NotNil(t, client.LastPatch.Title)
	assert.Equal(t, "new title", *client.LastPatch.Title)
	assert.Nil(t, client.LastPatch.Description)
	assert.Nil(t, client.LastPatch.Completed)
}

func TestCmdEdit_NothingToChange(t *testing.T) {
	client := &stubClient{}
	a, out, _ := newTestApp(t, client, "\n\n")
	loginTestApp(t, a, client)

	a.cmdEdit(context.Background(), "t1")
	assert.Contains(t, out.String(), "Nothing to change.")
	assert.Nil(t, client.LastPatch.Title)
}

func TestCmdEdit_RequiresID(t *testing.T) {
	a, out, _ := newTestApp(t, &stubClient{}, "")
	a.cmdEdit(context.Background(), "")
	assert.Contains(t, out.String(), "Usage: edit <id>")
}

func TestCmdDelete(t *testing.T) {
	client := &stubClient{}
	a, out, _ := newTestApp(t, client, "")
	loginTestApp(t, a, client)

	a.cmdDelete(context.Background(), "t1")
	assert.Equal(t, "t1", client.LastDeleteID)
	assert.Contains(t, out.String(), "Deleted t1")
}
