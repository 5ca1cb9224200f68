package model

// Location is an opaque navigation token tracked per session. The router
// maps locations to pages; the auth core only cares which ones require an
// authenticated session.
type Location string

// Known locations
const (
	LocationHome      Location = "home"
	LocationLogin     Location = "login"
	LocationRegister  Location = "register"
	LocationEvaluate  Location = "evaluate"
	LocationProfile   Location = "profile"
	LocationDashboard Location = "dashboard"
)

var protectedLocations = map[Location]bool{
	LocationEvaluate:  true,
	LocationProfile:   true,
	LocationDashboard: true,
}

// RequiresAuth reports whether a location may only be visited by an
// authenticated session
func (l Location) RequiresAuth() bool {
	return protectedLocations[l]
}
