package tasks

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCollector(svc Service, lister DirectoryLister, env map[string]string) *Collector {
	c := NewCollector(svc, newTestResolver(lister, env), Options{IncludeHidden: true, Host: "WIN-TEST"}, discardLogger())
	c.now = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }
	return c
}

func taskNames(rows []Row) []string {
	names := make([]string, 0, len(rows))
	for _, r := range rows {
		names = append(names, r.Name)
	}
	return names
}

func TestCollector_VisitsRootThenSubfolders(t *testing.T) {
	svc := newFakeService(map[string]fakeFolderFixture{
		`\`:                  {tasks: []fakeTaskFixture{{name: "root-1"}, {name: "root-2"}}},
		`\Microsoft`:         {},
		`\Microsoft\Windows`: {tasks: []fakeTaskFixture{{name: "win-1"}}},
		`\Agents`:            {tasks: []fakeTaskFixture{{name: "agent-1"}, {fetchErr: errFake}, {name: "agent-3"}}},
	})
	lister := &fakeLister{dirs: []string{
		`C:\Windows\System32\Tasks\Microsoft`,
		`C:\Windows\System32\Tasks\Microsoft\Windows`,
		`C:\Windows\System32\Tasks\Agents`,
	}}
	c := newTestCollector(svc, lister, map[string]string{"SystemRoot": `C:\Windows`})

	snap := c.Snapshot()

	assert.Equal(t, []string{"root-1", "root-2", "win-1", "agent-1", "agent-3"}, taskNames(snap.Rows))
	assert.Equal(t, []string{`\`, `\Microsoft`, `\Microsoft\Windows`, `\Agents`}, svc.opened)
	assert.Equal(t, 5, snap.Total)
	assert.True(t, snap.Connected)
	assert.Equal(t, "WIN-TEST", snap.Host)
	assert.NotEmpty(t, snap.ID)
	assert.Equal(t, time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC), snap.CollectedAt)
	assert.Equal(t, Stats{FoldersVisited: 4, TasksSkipped: 1}, snap.Stats)
	assert.Equal(t, 0, svc.t.open())
}

func TestCollector_SkipsFoldersThatFailToOpen(t *testing.T) {
	svc := newFakeService(map[string]fakeFolderFixture{
		`\`:       {tasks: []fakeTaskFixture{{name: "root"}}},
		`\Denied`: {openErr: errors.New("access denied")},
		`\Broken`: {tasksErr: errFake},
		`\Fine`:   {tasks: []fakeTaskFixture{{name: "fine"}}},
	})
	lister := &fakeLister{dirs: []string{
		`C:\Windows\System32\Tasks\Denied`,
		`C:\Windows\System32\Tasks\Missing`,
		`C:\Windows\System32\Tasks\Broken`,
		`C:\Windows\System32\Tasks\Fine`,
	}}
	c := newTestCollector(svc, lister, map[string]string{"SystemRoot": `C:\Windows`})

	snap := c.Snapshot()

	assert.Equal(t, []string{"root", "fine"}, taskNames(snap.Rows))
	assert.Equal(t, 2, snap.Stats.FoldersVisited)
	assert.Equal(t, 3, snap.Stats.FoldersSkipped)
	assert.Equal(t, 0, svc.t.open())
	assert.Equal(t, 0, svc.t.doubles)
}

func TestCollector_MalformedPathsContributeNothing(t *testing.T) {
	svc := newFakeService(map[string]fakeFolderFixture{
		`\`: {tasks: []fakeTaskFixture{{name: "root"}}},
	})
	lister := &fakeLister{dirs: []string{`C:\Windows\System32\Tasks`, `C:\Win`}}
	c := newTestCollector(svc, lister, map[string]string{"SystemRoot": `C:\Windows`})

	rows := c.Collect()

	assert.Equal(t, []string{"root"}, taskNames(rows))
	assert.Equal(t, []string{`\`}, svc.opened)
}

func TestCollector_ConnectionFailureYieldsNoRows(t *testing.T) {
	svc := newFakeService(map[string]fakeFolderFixture{
		`\`: {tasks: []fakeTaskFixture{{name: "root"}}},
	})
	svc.connectErr = errors.New("class not registered")
	lister := &fakeLister{dirs: []string{`C:\Windows\System32\Tasks\Microsoft`}}
	c := newTestCollector(svc, lister, map[string]string{"SystemRoot": `C:\Windows`})

	var snap *Snapshot
	require.NotPanics(t, func() { snap = c.Snapshot() })

	assert.NotNil(t, snap.Rows)
	assert.Empty(t, snap.Rows)
	assert.False(t, snap.Connected)
	assert.Empty(t, svc.opened)
	assert.Empty(t, lister.roots)
	assert.Equal(t, 0, svc.t.acquired)
}

func TestCollector_WithoutSystemRootOnlyVisitsRoot(t *testing.T) {
	svc := newFakeService(map[string]fakeFolderFixture{
		`\`:          {tasks: []fakeTaskFixture{{name: "root"}}},
		`\Microsoft`: {tasks: []fakeTaskFixture{{name: "ms"}}},
	})
	lister := &fakeLister{dirs: []string{`C:\Windows\System32\Tasks\Microsoft`}}
	c := newTestCollector(svc, lister, map[string]string{})

	assert.Equal(t, []string{"root"}, taskNames(c.Collect()))
}

func TestCollector_RowCountMatchesCollection(t *testing.T) {
	tasks := make([]fakeTaskFixture, 0, 10)
	for i := 0; i < 10; i++ {
		fixture := fakeTaskFixture{name: "t"}
		if i%3 == 0 {
			fixture.fetchErr = errFake
		}
		tasks = append(tasks, fixture)
	}
	svc := newFakeService(map[string]fakeFolderFixture{`\`: {tasks: tasks}})
	c := newTestCollector(svc, nil, nil)

	snap := c.Snapshot()

	assert.Len(t, snap.Rows, 10-4)
	assert.Equal(t, 4, snap.Stats.TasksSkipped)
}

func TestCollector_Idempotent(t *testing.T) {
	svc := newFakeService(map[string]fakeFolderFixture{
		`\`: {tasks: []fakeTaskFixture{{
			name:    "backup",
			path:    `\backup`,
			enabled: true,
			state:   int32(StateReady),
			lastRun: 45000.5,
			nextRun: 45001.5,
			actions: []fakeActionFixture{
				{exec: &fakeExec{workingDir: "wd1", path: "p1", args: "a1"}},
				{exec: &fakeExec{workingDir: "wd2", path: "p2", args: "a2"}},
			},
		}}},
	})
	c := newTestCollector(svc, nil, nil)

	first := c.Collect()
	second := c.Collect()

	require.Len(t, first, 1)
	assert.Equal(t, first, second)
	assert.Equal(t, "wd1 p1 a1,wd2 p2 a2", first[0].Action)
	assert.Equal(t, 0, svc.t.open())
}
