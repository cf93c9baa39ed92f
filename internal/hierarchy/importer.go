package hierarchy

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/yukikurage/crewdesk-api/internal/clock"
	"github.com/yukikurage/crewdesk-api/internal/models"
	"github.com/yukikurage/crewdesk-api/internal/store"
)

var (
	ErrMissingHeader   = errors.New("import file has no header row")
	ErrMalformedHeader = errors.New("import header must have 8 columns")
	ErrMalformedFile   = errors.New("import file is not valid CSV")
)

// Skip reasons reported per rejected row.
const (
	ReasonTooFewFields      = "expected 8 fields"
	ReasonMissingName       = "name and username are required"
	ReasonDuplicateUsername = "username already exists"
	ReasonMalformedRow      = "row is not valid CSV"
)

// Options tune an import.
type Options struct {
	// DefaultPassword is given to every imported user.
	DefaultPassword string
	NewID           clock.IDFunc
}

// SkippedRow is a data row that was rejected during the first pass.
type SkippedRow struct {
	Line     int    `json:"line"`
	Username string `json:"username,omitempty"`
	Reason   string `json:"reason"`
}

// UnresolvedManager is a row whose manager username matched nobody who can
// manage. The row itself was imported without a manager.
type UnresolvedManager struct {
	Line            int    `json:"line"`
	Username        string `json:"username"`
	ManagerUsername string `json:"manager_username"`
}

// Result summarizes an import.
type Result struct {
	Imported           []models.User       `json:"-"`
	Skipped            []SkippedRow        `json:"skipped"`
	ManagersLinked     int                 `json:"managers_linked"`
	UnresolvedManagers []UnresolvedManager `json:"unresolved_managers"`
}

type stagedRow struct {
	line            int
	user            models.User
	teammate        *models.Teammate
	managerUsername string
}

// Import reads r and adds every new user (and, for non-admins, its teammate
// record) to ws. Nodes are staged first and manager edges linked afterwards,
// so a manager may appear anywhere in the file. A structurally broken file
// returns an error and leaves ws untouched.
func Import(ws *store.Workspace, r io.Reader, opts Options) (Result, error) {
	if opts.NewID == nil {
		opts.NewID = clock.NewID
	}

	rows, err := readRows(r)
	if err != nil {
		return Result{}, err
	}

	result := Result{
		Imported:           []models.User{},
		Skipped:            []SkippedRow{},
		UnresolvedManagers: []UnresolvedManager{},
	}

	// Pass 1: nodes.
	staged := make([]stagedRow, 0, len(rows))
	byUsername := make(map[string]int, len(rows))
	for _, row := range rows {
		record := row.fields
		if row.malformed {
			result.Skipped = append(result.Skipped, SkippedRow{Line: row.line, Reason: ReasonMalformedRow})
			continue
		}
		if len(record) < fieldCount {
			result.Skipped = append(result.Skipped, SkippedRow{Line: row.line, Reason: ReasonTooFewFields})
			continue
		}

		name := field(record, colName)
		username := field(record, colUsername)
		if name == "" || username == "" {
			result.Skipped = append(result.Skipped, SkippedRow{Line: row.line, Username: username, Reason: ReasonMissingName})
			continue
		}

		key := strings.ToLower(username)
		if _, dup := byUsername[key]; dup || ws.UsernameTaken(username) {
			result.Skipped = append(result.Skipped, SkippedRow{Line: row.line, Username: username, Reason: ReasonDuplicateUsername})
			continue
		}

		staged = append(staged, stage(ws.Tenant.ID, row.line, record, opts))
		byUsername[key] = len(staged) - 1
	}

	// Pass 2: edges.
	for i := range staged {
		s := &staged[i]
		if s.teammate == nil || s.managerUsername == "" {
			continue
		}

		var manager *models.User
		if idx, ok := byUsername[strings.ToLower(s.managerUsername)]; ok {
			manager = &staged[idx].user
		} else {
			manager = ws.UserByUsername(s.managerUsername)
		}
		if manager == nil || manager.ID == s.user.ID || !manager.Role.CanManage() {
			result.UnresolvedManagers = append(result.UnresolvedManagers, UnresolvedManager{
				Line:            s.line,
				Username:        s.user.Username,
				ManagerUsername: s.managerUsername,
			})
			continue
		}

		managerID := manager.ID
		s.teammate.ManagerID = &managerID
		result.ManagersLinked++
	}

	for _, s := range staged {
		ws.Users = append(ws.Users, s.user)
		if s.teammate != nil {
			ws.Teammates = append(ws.Teammates, *s.teammate)
		}
		result.Imported = append(result.Imported, s.user)
	}

	return result, nil
}

func stage(tenantID string, line int, record []string, opts Options) stagedRow {
	id := opts.NewID()
	role := models.ParseRole(field(record, colRole))

	user := models.User{
		ID:         id,
		TenantID:   tenantID,
		Username:   field(record, colUsername),
		Password:   opts.DefaultPassword,
		Name:       field(record, colName),
		Role:       role,
		IsActive:   true,
		JobProfile: field(record, colJobProfile),
	}

	row := stagedRow{line: line, user: user}
	if role == models.RoleAdmin {
		return row
	}

	teammateID := id
	row.user.TeammateID = &teammateID
	row.teammate = &models.Teammate{
		ID:         id,
		TenantID:   tenantID,
		Name:       user.Name,
		JobProfile: user.JobProfile,
		Contact:    field(record, colContact),
		Email:      field(record, colEmail),
		Username:   user.Username,
		Skills:     field(record, colSkills),
		IsActive:   true,
	}
	row.managerUsername = field(record, colManagerUsername)
	return row
}

type rawRow struct {
	line      int
	fields    []string
	malformed bool
}

func readRows(r io.Reader) ([]rawRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrMissingHeader
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedFile, err)
	}
	if len(header) < fieldCount {
		return nil, ErrMalformedHeader
	}

	// A broken data row is reported and reading resumes on the next line.
	// An unterminated quote that runs to the end of the input is fatal,
	// since every row after it was swallowed into one field.
	var rows []rawRow
	var unterminated error
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			if unterminated != nil {
				return nil, fmt.Errorf("%w: %v", ErrMalformedFile, unterminated)
			}
			break
		}
		unterminated = nil

		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			rows = append(rows, rawRow{line: parseErr.StartLine, malformed: true})
			if errors.Is(parseErr.Err, csv.ErrQuote) && parseErr.Line > parseErr.StartLine {
				unterminated = err
			}
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedFile, err)
		}
		line, _ := reader.FieldPos(0)
		rows = append(rows, rawRow{line: line, fields: record})
	}
	return rows, nil
}

// field trims identifiers and contact data. Job profile and skills are free
// text and keep their spaces so an exported file imports back unchanged.
func field(record []string, col int) string {
	switch col {
	case colJobProfile, colSkills:
		return record[col]
	default:
		return strings.TrimSpace(record[col])
	}
}
