package model

import "encoding/json"

// Notification is a message for the logged-in user, owned by the remote service.
type Notification struct {
	ID        ID        `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	IsRead    bool      `json:"isRead"`
	CreatedAt Timestamp `json:"createdAt"`
}

// UnmarshalJSON also accepts "message" as the body field.
func (n *Notification) UnmarshalJSON(b []byte) error {
	type plain Notification
	var aux struct {
		plain
		Message string `json:"message"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	*n = Notification(aux.plain)
	if n.Body == "" {
		n.Body = aux.Message
	}
	return nil
}

// CountUnread returns how many notifications have IsRead=false.
func CountUnread(list []Notification) int {
	n := 0
	for _, item := range list {
		if !item.IsRead {
			n++
		}
	}
	return n
}

// CloneNotifications returns a copy that shares no backing array with list.
func CloneNotifications(list []Notification) []Notification {
	if list == nil {
		return nil
	}
	out := make([]Notification, len(list))
	copy(out, list)
	return out
}
