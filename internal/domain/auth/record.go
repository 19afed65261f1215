package auth

// Persisted storage keys. The names match what earlier portal builds wrote,
// so existing session files keep working.
const (
	KeyAuth     = "auth"
	KeyUserName = "userName"
	KeyUserRole = "userRole"
	KeyToken    = "token"
)

// AuthFlagTrue is the only value of KeyAuth that means "logged in".
const AuthFlagTrue = "true"

// RecordKeys lists every key that makes up a persisted session.
func RecordKeys() []string {
	return []string{KeyAuth, KeyUserName, KeyUserRole, KeyToken}
}

// PersistedRecord is the durable form of a session. Empty fields are absent keys.
type PersistedRecord struct {
	Auth     string
	UserName string
	Role     string
	Token    string
}

// IsEmpty reports whether no key is present.
func (r PersistedRecord) IsEmpty() bool {
	return r.Auth == "" && r.UserName == "" && r.Role == "" && r.Token == ""
}

// RecordFromValues builds a record from a key/value map, ignoring unknown keys.
func RecordFromValues(values map[string]string) PersistedRecord {
	return PersistedRecord{
		Auth:     values[KeyAuth],
		UserName: values[KeyUserName],
		Role:     values[KeyUserRole],
		Token:    values[KeyToken],
	}
}

// Values returns the keys to write and the keys to delete for r.
// Blank fields are deleted rather than written as empty strings.
func (r PersistedRecord) Values() (set map[string]string, del []string) {
	set = make(map[string]string, 4)
	pairs := []struct{ key, val string }{
		{KeyAuth, r.Auth},
		{KeyUserName, r.UserName},
		{KeyUserRole, r.Role},
		{KeyToken, r.Token},
	}
	for _, p := range pairs {
		if p.val == "" {
			del = append(del, p.key)
			continue
		}
		set[p.key] = p.val
	}
	return set, del
}
