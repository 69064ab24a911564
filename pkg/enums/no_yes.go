package enums

// NoYes is the ERP's textual boolean.
type NoYes string

const (
	NoYesNo  NoYes = "No"
	NoYesYes NoYes = "Yes"
)

// String implements fmt.Stringer.
func (n NoYes) String() string {
	return string(n)
}

// Bool is true only for the exact "Yes" flag.
func (n NoYes) Bool() bool {
	return n == NoYesYes
}
