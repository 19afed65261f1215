package auth

import (
	"encoding/json"
	"strings"
)

// userNameFields are the JSON keys accepted as the user name, in priority order.
var userNameFields = []string{"userName", "username", "UserName", "name"}

// DecodeUser turns the persisted userName value into a User.
//
// A JSON object yields its fields, a JSON string yields just the name, and anything
// else falls back to the raw text with the stored role. corrupt is true for the fallback.
// JSON null, an empty string or an object without a name field decode to an empty
// UserName; callers treat that as no user.
func DecodeUser(raw, storedRole string) (u User, corrupt bool) {
	trimmed := strings.TrimSpace(raw)

	var obj map[string]any
	if err := json.Unmarshal([]byte(trimmed), &obj); err == nil && obj != nil {
		return userFromObject(obj, storedRole), false
	}

	var name string
	if err := json.Unmarshal([]byte(trimmed), &name); err == nil {
		return User{UserName: name, Role: ParseRole(storedRole)}, false
	}

	return User{UserName: raw, Role: ParseRole(storedRole)}, true
}

func userFromObject(obj map[string]any, storedRole string) User {
	u := User{Profile: make(map[string]any, len(obj))}
	for k, v := range obj {
		u.Profile[k] = v
	}

	for _, field := range userNameFields {
		if s, ok := obj[field].(string); ok && s != "" {
			u.UserName = s
			delete(u.Profile, field)
			break
		}
	}

	u.Role = RoleUnknown
	if s, ok := obj["role"].(string); ok {
		u.Role = ParseRole(s)
		delete(u.Profile, "role")
	}
	if !u.Role.Known() {
		u.Role = ParseRole(storedRole)
	}

	if len(u.Profile) == 0 {
		u.Profile = nil
	}
	return u
}

// EncodeUser serialises u as the JSON object stored under KeyUserName.
func EncodeUser(u User) (string, error) {
	obj := make(map[string]any, len(u.Profile)+2)
	for k, v := range u.Profile {
		obj[k] = v
	}
	obj["userName"] = u.UserName
	if u.Role != "" {
		obj["role"] = string(u.Role)
	}

	b, err := json.Marshal(obj)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
