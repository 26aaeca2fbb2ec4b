// Package nav holds the client's navigation state machine and the history
// stack it is synchronized with. State moves forward through the Select*
// operations and backward only through HandlePop; Back itself never touches
// state, it just asks the history to pop.
package nav

// View names one of the four screens.
type View int

const (
	ViewGroups View = iota
	ViewMembers
	ViewPrayers
	ViewAllPrayers
)

var viewTokens = map[View]string{
	ViewGroups:     "groups",
	ViewMembers:    "members",
	ViewPrayers:    "prayers",
	ViewAllPrayers: "all_prayers",
}

func (v View) String() string {
	if s, ok := viewTokens[v]; ok {
		return s
	}
	return "groups"
}

// ParseView maps a fragment token back to a View. Unknown tokens land on
// the groups screen.
func ParseView(token string) (View, bool) {
	for v, s := range viewTokens {
		if s == token {
			return v, true
		}
	}
	return ViewGroups, false
}
