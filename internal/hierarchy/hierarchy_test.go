package hierarchy

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/crewdesk-api/internal/clock"
	"github.com/yukikurage/crewdesk-api/internal/models"
	"github.com/yukikurage/crewdesk-api/internal/store"
)

const header = "Name,Username,Email,Contact,Role,Job Profile,Skills,Manager Username\n"

func emptyWorkspace(tenantID string) *store.Workspace {
	return &store.Workspace{
		Tenant: models.Tenant{ID: tenantID, Name: "Acme"},
		Users: []models.User{
			{ID: tenantID + "-admin", TenantID: tenantID, Username: "owner", Name: "Owner", Role: models.RoleAdmin, IsActive: true},
		},
	}
}

func importString(t *testing.T, ws *store.Workspace, data string) Result {
	t.Helper()
	result, err := Import(ws, strings.NewReader(data), Options{DefaultPassword: "welcome", NewID: clock.Sequence(ws.Tenant.ID)})
	require.NoError(t, err)
	return result
}

func teammateByUsername(ws *store.Workspace, username string) *models.Teammate {
	for i := range ws.Teammates {
		if strings.EqualFold(ws.Teammates[i].Username, username) {
			return &ws.Teammates[i]
		}
	}
	return nil
}

func TestImport_ForwardManagerReference(t *testing.T) {
	ws := emptyWorkspace("t1")
	data := header +
		"Bob,bob,bob@example.com,555-1,teammate,Driver,Driving,alice\n" +
		"Alice,alice,alice@example.com,555-2,manager,Lead,,\n"

	result := importString(t, ws, data)
	assert.Len(t, result.Imported, 2)
	assert.Empty(t, result.Skipped)
	assert.Equal(t, 1, result.ManagersLinked)

	alice := ws.UserByUsername("alice")
	require.NotNil(t, alice)
	bob := teammateByUsername(ws, "bob")
	require.NotNil(t, bob)
	require.NotNil(t, bob.ManagerID)
	assert.Equal(t, alice.ID, *bob.ManagerID)
}

func TestImport_SharedIDAndDefaults(t *testing.T) {
	ws := emptyWorkspace("t1")
	importString(t, ws, header+"Bob,Bob,b@x.io,1,TEAMMATE,Driver,Driving,\n")

	user := ws.UserByUsername("bob")
	require.NotNil(t, user)
	require.NotNil(t, user.TeammateID)
	assert.Equal(t, user.ID, *user.TeammateID)
	assert.Equal(t, "welcome", user.Password)
	assert.True(t, user.IsActive)
	assert.Equal(t, "t1", user.TenantID)

	teammate := ws.TeammateByID(user.ID)
	require.NotNil(t, teammate)
	assert.Equal(t, "b@x.io", teammate.Email)
	assert.Nil(t, teammate.ManagerID)
}

func TestImport_RoleNormalization(t *testing.T) {
	ws := emptyWorkspace("t1")
	importString(t, ws, header+
		"Ann,ann,,,Manager,,,\n"+
		"Sam,sam,,,supervisor,,,\n"+
		"Ida,ida,,,ADMIN,,,\n")

	assert.Equal(t, models.RoleManager, ws.UserByUsername("ann").Role)
	assert.Equal(t, models.RoleTeammate, ws.UserByUsername("sam").Role)

	ida := ws.UserByUsername("ida")
	assert.Equal(t, models.RoleAdmin, ida.Role)
	assert.Nil(t, ida.TeammateID)
	assert.Nil(t, teammateByUsername(ws, "ida"), "admins get no teammate record")
}

func TestImport_QuotedFieldWithComma(t *testing.T) {
	ws := emptyWorkspace("t1")
	importString(t, ws, header+`Bob,bob,bob@example.com,555,teammate,Driver,"Driving, Loading",`+"\n"+
		`"Smith, Jo",jo,,,teammate,,"Says ""hi""",`+"\n")

	bob := teammateByUsername(ws, "bob")
	require.NotNil(t, bob)
	assert.Equal(t, "Driving, Loading", bob.Skills)

	jo := teammateByUsername(ws, "jo")
	require.NotNil(t, jo)
	assert.Equal(t, "Smith, Jo", jo.Name)
	assert.Equal(t, `Says "hi"`, jo.Skills)
}

func TestImport_SkipsDuplicatesAndShortRows(t *testing.T) {
	ws := emptyWorkspace("t1")
	data := header +
		"Bob,bob,,,teammate,,,\n" +
		"Bobby,BOB,,,teammate,,,\n" +
		"Short,row\n" +
		",nameless,,,teammate,,,\n" +
		"Owner Two,Owner,,,admin,,,\n"

	result := importString(t, ws, data)
	assert.Len(t, result.Imported, 1)
	require.Len(t, result.Skipped, 4)
	assert.Equal(t, ReasonDuplicateUsername, result.Skipped[0].Reason)
	assert.Equal(t, 3, result.Skipped[0].Line)
	assert.Equal(t, ReasonTooFewFields, result.Skipped[1].Reason)
	assert.Equal(t, ReasonMissingName, result.Skipped[2].Reason)
	assert.Equal(t, ReasonDuplicateUsername, result.Skipped[3].Reason)
}

func TestImport_SameFileTwiceCreatesNoDuplicates(t *testing.T) {
	ws := emptyWorkspace("t1")
	data := header +
		"Bob,bob,,,teammate,,,alice\n" +
		"Alice,alice,,,manager,,,\n"

	importString(t, ws, data)
	second := importString(t, ws, data)

	assert.Empty(t, second.Imported)
	assert.Len(t, second.Skipped, 2)
	assert.Len(t, ws.Users, 3)
	assert.Len(t, ws.Teammates, 2)
}

func TestImport_UnresolvedManagerLeftUnset(t *testing.T) {
	ws := emptyWorkspace("t1")
	data := header +
		"Bob,bob,,,teammate,,,ghost\n" +
		"Cid,cid,,,teammate,,,bob\n" +
		"Dee,dee,,,manager,,,dee\n" +
		"Eve,eve,,,teammate,,,OWNER\n"

	result := importString(t, ws, data)
	assert.Len(t, result.Imported, 4)
	assert.Len(t, result.UnresolvedManagers, 3)
	assert.Equal(t, 1, result.ManagersLinked)

	assert.Nil(t, teammateByUsername(ws, "bob").ManagerID)
	assert.Nil(t, teammateByUsername(ws, "cid").ManagerID, "a teammate cannot manage")
	assert.Nil(t, teammateByUsername(ws, "dee").ManagerID, "nobody manages themselves")

	eve := teammateByUsername(ws, "eve")
	require.NotNil(t, eve.ManagerID)
	assert.Equal(t, "t1-admin", *eve.ManagerID)
}

func TestImport_HardFailuresCommitNothing(t *testing.T) {
	cases := map[string]struct {
		data string
		err  error
	}{
		"empty":        {data: "", err: ErrMissingHeader},
		"short header": {data: "Name,Username\nBob,bob,,,teammate,,,\n", err: ErrMalformedHeader},
		"unterminated quote": {
			data: header + "Bob,bob,,,teammate,,,\n" + `"Alice,alice,,,teammate,,,` + "\nCarol,carol,,,teammate,,,\n",
			err:  ErrMalformedFile,
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			ws := emptyWorkspace("t1")
			_, err := Import(ws, strings.NewReader(tc.data), Options{})
			require.ErrorIs(t, err, tc.err)
			assert.Len(t, ws.Users, 1)
			assert.Empty(t, ws.Teammates)
		})
	}
}

func TestImport_MalformedRowIsSkipped(t *testing.T) {
	ws := emptyWorkspace("t1")
	result := importString(t, ws, header+
		"Bob,bob,,,teammate,,,\n"+
		`Al"ice,alice,,,teammate,,,`+"\n"+
		`"Dan"x,dan,,,teammate,,,`+"\n"+
		"Carol,carol,,,teammate,,,bob\n")

	require.Len(t, result.Skipped, 2)
	assert.Equal(t, SkippedRow{Line: 3, Reason: ReasonMalformedRow}, result.Skipped[0])
	assert.Equal(t, SkippedRow{Line: 4, Reason: ReasonMalformedRow}, result.Skipped[1])

	assert.Len(t, result.Imported, 2)
	assert.NotNil(t, ws.UserByUsername("bob"))
	assert.NotNil(t, ws.UserByUsername("carol"))
	assert.Nil(t, ws.UserByUsername("alice"))
	assert.Nil(t, ws.UserByUsername("dan"))
	assert.Equal(t, 1, result.ManagersLinked)
}

func TestExport(t *testing.T) {
	ws := emptyWorkspace("t1")
	importString(t, ws, header+
		"Alice,alice,a@x.io,1,manager,Lead,Planning,\n"+
		`Bob,bob,b@x.io,2,teammate,Driver,"Driving, Loading",alice`+"\n")

	var buf bytes.Buffer
	require.NoError(t, Export(ws, &buf))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, strings.TrimSpace(header), lines[0])
	assert.Equal(t, "Alice,alice,a@x.io,1,manager,Lead,Planning,", lines[1])
	assert.Equal(t, `Bob,bob,b@x.io,2,teammate,Driver,"Driving, Loading",alice`, lines[2])
}

func TestExportImportRoundTrip(t *testing.T) {
	source := emptyWorkspace("src")
	importString(t, source, header+
		"Alice,alice,a@x.io,1,manager,Lead,Planning,\n"+
		`Bob,bob,b@x.io,2,teammate,Driver,"Driving, Loading",alice`+"\n"+
		`"Cho, Ming",ming,m@x.io,3,teammate,Packer,"Says ""ok""",`+"\n"+
		`Dee,dee,,,teammate," Night shift "," Driving",`+"\n")

	var buf bytes.Buffer
	require.NoError(t, Export(source, &buf))
	assert.Equal(t, " Driving", teammateByUsername(source, "dee").Skills)

	target := emptyWorkspace("dst")
	result := importString(t, target, buf.String())
	require.Empty(t, result.Skipped)
	require.Len(t, target.Teammates, len(source.Teammates))

	for _, want := range source.Teammates {
		got := teammateByUsername(target, want.Username)
		require.NotNil(t, got, want.Username)
		assert.Equal(t, want.Name, got.Name)
		assert.Equal(t, want.Email, got.Email)
		assert.Equal(t, want.Contact, got.Contact)
		assert.Equal(t, want.JobProfile, got.JobProfile)
		assert.Equal(t, want.Skills, got.Skills)
		assert.Equal(t, source.UserByTeammateID(want.ID).Role, target.UserByTeammateID(got.ID).Role)
	}

	bob := teammateByUsername(target, "bob")
	require.NotNil(t, bob.ManagerID)
	assert.Equal(t, "alice", target.UserByID(*bob.ManagerID).Username)
}
