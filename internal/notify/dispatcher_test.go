package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/crewdesk-api/internal/clock"
	"github.com/yukikurage/crewdesk-api/internal/models"
	"github.com/yukikurage/crewdesk-api/internal/store"
)

var now = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func ptr(s string) *string { return &s }

func newTestDispatcher() *Dispatcher {
	return NewDispatcher(clock.NewFixed(now), clock.Sequence("n"))
}

func testWorkspace() *store.Workspace {
	return &store.Workspace{
		Tenant: models.Tenant{ID: "t1"},
		Users: []models.User{
			{ID: "admin", TenantID: "t1", Username: "root", Role: models.RoleAdmin, IsActive: true},
			{ID: "mgr", TenantID: "t1", Username: "mia", Role: models.RoleManager, TeammateID: ptr("mgr"), IsActive: true},
			{ID: "alice", TenantID: "t1", Username: "alice", Role: models.RoleTeammate, TeammateID: ptr("alice"), IsActive: true},
			{ID: "gone", TenantID: "t1", Username: "gone", Role: models.RoleTeammate, TeammateID: ptr("gone"), IsActive: false},
		},
		Teammates: []models.Teammate{
			{ID: "mgr", TenantID: "t1", Name: "Mia", ManagerID: ptr("admin"), IsActive: true},
			{ID: "alice", TenantID: "t1", Name: "Alice", ManagerID: ptr("mgr"), IsActive: true},
			{ID: "gone", TenantID: "t1", Name: "Gone", ManagerID: ptr("mgr"), IsActive: false},
			{ID: "orphan", TenantID: "t1", Name: "Orphan", IsActive: true},
		},
	}
}

func testTask() models.Task {
	return models.Task{ID: "task-1", TenantID: "t1", Title: "Stock shelves", AssigneeID: ptr("alice")}
}

func TestOnAssigned(t *testing.T) {
	d := newTestDispatcher()
	ws := testWorkspace()

	out := d.OnAssigned(testTask(), AssigneeUser(ws, "alice"))
	require.Len(t, out, 1)

	n := out[0]
	assert.Equal(t, "n-1", n.ID)
	assert.Equal(t, "alice", n.UserID)
	assert.Equal(t, "t1", n.TenantID)
	assert.Equal(t, models.NotificationTaskAssigned, n.Type)
	assert.Equal(t, "task-1", n.RelatedTaskID)
	assert.False(t, n.IsRead)
	assert.Equal(t, now, n.Timestamp)
}

func TestOnAssigned_SkipsMissingOrInactiveUser(t *testing.T) {
	d := newTestDispatcher()
	ws := testWorkspace()

	assert.Empty(t, d.OnAssigned(testTask(), AssigneeUser(ws, "orphan")))
	assert.Empty(t, d.OnAssigned(testTask(), AssigneeUser(ws, "gone")))
	assert.Empty(t, d.OnAssigned(testTask(), nil))
}

func TestOnCompleted_ManagerAndAdmin(t *testing.T) {
	d := newTestDispatcher()
	ws := testWorkspace()
	alice := *ws.TeammateByID("alice")

	out := d.OnCompleted(testTask(), alice, DirectManager(ws, alice), ws.Admin())
	require.Len(t, out, 2)
	assert.Equal(t, "mgr", out[0].UserID)
	assert.Equal(t, "admin", out[1].UserID)
	for _, n := range out {
		assert.Equal(t, models.NotificationTaskCompleted, n.Type)
		assert.Contains(t, n.Message, "Alice")
	}
	assert.NotEqual(t, out[0].ID, out[1].ID)
}

func TestOnCompleted_NoDedupWhenManagerIsAdmin(t *testing.T) {
	d := newTestDispatcher()
	ws := testWorkspace()
	mia := *ws.TeammateByID("mgr")

	manager := DirectManager(ws, mia)
	require.NotNil(t, manager)
	require.Equal(t, "admin", manager.ID)

	out := d.OnCompleted(testTask(), mia, manager, ws.Admin())
	require.Len(t, out, 2)
	assert.Equal(t, "admin", out[0].UserID)
	assert.Equal(t, "admin", out[1].UserID)
}

func TestOnCompleted_UnresolvedManager(t *testing.T) {
	d := newTestDispatcher()
	ws := testWorkspace()
	orphan := *ws.TeammateByID("orphan")

	out := d.OnCompleted(testTask(), orphan, DirectManager(ws, orphan), ws.Admin())
	require.Len(t, out, 1)
	assert.Equal(t, "admin", out[0].UserID)

	inactiveMgr := ws.UserByID("mgr")
	inactiveMgr.IsActive = false
	alice := *ws.TeammateByID("alice")
	out = d.OnCompleted(testTask(), alice, DirectManager(ws, alice), ws.Admin())
	require.Len(t, out, 1)
	assert.Equal(t, "admin", out[0].UserID)
}

func TestOnCommentAdded(t *testing.T) {
	d := newTestDispatcher()
	ws := testWorkspace()
	task := testTask()
	comment := models.Comment{ID: "c1", Text: "done soon", AuthorName: "Alice"}

	recipients := CommentRecipients(ws, task, "alice")
	out := d.OnCommentAdded(task, comment, recipients...)
	require.Len(t, out, 1)
	assert.Equal(t, "mgr", out[0].UserID)
	assert.Equal(t, models.NotificationCommentAdded, out[0].Type)

	recipients = CommentRecipients(ws, task, "mgr")
	out = d.OnCommentAdded(task, comment, recipients...)
	require.Len(t, out, 1)
	assert.Equal(t, "alice", out[0].UserID)
}

func TestCommentRecipients_UnassignedGoesToAdmin(t *testing.T) {
	ws := testWorkspace()
	task := models.Task{ID: "t", TenantID: "t1"}

	recipients := CommentRecipients(ws, task, "mgr")
	require.Len(t, recipients, 1)
	assert.Equal(t, "admin", recipients[0].ID)

	assert.Empty(t, CommentRecipients(ws, task, "admin"))
}
