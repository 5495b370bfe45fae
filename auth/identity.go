package auth

// Well-known authorities.
const (
	// AuthorityAny is used in route policies to require any authenticated
	// identity without naming a specific authority.
	AuthorityAny = "*"
)

// Identity represents an authenticated principal: a username plus the set
// of authorities granted to it. Authorities are opaque role identifiers
// (e.g. "ROLE_USER"); duplicates are removed on construction and order
// carries no meaning.
type Identity struct {
	// Username is the unique identifier of the principal.
	Username string

	// Authorities are the roles granted to this principal.
	Authorities []string
}

// NewIdentity creates an identity with a deduplicated authority set.
func NewIdentity(username string, authorities []string) *Identity {
	seen := make(map[string]bool, len(authorities))
	set := make([]string, 0, len(authorities))
	for _, a := range authorities {
		if a == "" || seen[a] {
			continue
		}
		seen[a] = true
		set = append(set, a)
	}
	return &Identity{Username: username, Authorities: set}
}

// HasAuthority checks if the identity holds a specific authority.
func (id *Identity) HasAuthority(authority string) bool {
	for _, a := range id.Authorities {
		if a == authority {
			return true
		}
	}
	return false
}
