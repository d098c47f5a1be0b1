package signup

import "github.com/comalice/chartforms/internal/core"

// Border colors for a field.
const (
	ColorNone   = ""
	ColorRed    = "red"
	ColorGreen  = "green"
	ColorOrange = "orange"
)

var borderColors = map[string]string{
	UsernameValid:         ColorGreen,
	UsernameUniquePending: ColorOrange,
	UsernameTaken:         ColorRed,
	UsernameRequired:      ColorRed,
	PasswordValid:         ColorGreen,
	PasswordInvalid:       ColorRed,
	PasswordRequired:      ColorRed,
}

// BorderColor maps the active leaf of region to the color its input field
// is drawn with. Idle and editing fields have no color.
func BorderColor(c core.Configuration, region string) string {
	leaf := c.Leaf(region)
	if leaf == nil {
		return ColorNone
	}
	return borderColors[leaf.Path()]
}

// SubmitLabel is the caption of the submit button.
func SubmitLabel(c core.Configuration) string {
	if c.Matches(SubmitPending) {
		return "PENDING ..."
	}
	return "SUBMIT"
}
