// Package hierarchy converts the staff directory to and from CSV while
// keeping manager relationships intact.
package hierarchy

// Header is written on export. On import the first row is required but its
// contents are ignored.
var Header = []string{
	"Name",
	"Username",
	"Email",
	"Contact",
	"Role",
	"Job Profile",
	"Skills",
	"Manager Username",
}

const (
	colName = iota
	colUsername
	colEmail
	colContact
	colRole
	colJobProfile
	colSkills
	colManagerUsername

	fieldCount
)
