package hierarchy

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/yukikurage/crewdesk-api/internal/models"
	"github.com/yukikurage/crewdesk-api/internal/store"
)

// Export writes one row per teammate of ws, the inverse of Import. Fields
// containing commas or quotes are quoted.
func Export(ws *store.Workspace, w io.Writer) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(Header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for _, t := range ws.Teammates {
		if err := writer.Write(exportRow(ws, t)); err != nil {
			return fmt.Errorf("failed to write teammate %s: %w", t.Username, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

func exportRow(ws *store.Workspace, t models.Teammate) []string {
	role := models.RoleTeammate
	if user := ws.UserByTeammateID(t.ID); user != nil {
		role = user.Role.Normalize()
	}

	managerUsername := ""
	if t.ManagerID != nil {
		if manager := ws.UserByID(*t.ManagerID); manager != nil {
			managerUsername = manager.Username
		}
	}

	row := make([]string, fieldCount)
	row[colName] = t.Name
	row[colUsername] = t.Username
	row[colEmail] = t.Email
	row[colContact] = t.Contact
	row[colRole] = string(role)
	row[colJobProfile] = t.JobProfile
	row[colSkills] = t.Skills
	row[colManagerUsername] = managerUsername
	return row
}
