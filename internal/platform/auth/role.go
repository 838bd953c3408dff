package auth

// Role is the closed set of principal kinds a token can be checked against.
// Each role resolves its subject in a different repository, so the role
// decides which lookup a validation performs.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleDoctor  Role = "doctor"
	RolePatient Role = "patient"
)

// ParseRole maps a path/user-supplied string onto the closed enumeration.
// Unknown strings report false rather than producing an unchecked role.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleAdmin, RoleDoctor, RolePatient:
		return Role(s), true
	default:
		return "", false
	}
}
