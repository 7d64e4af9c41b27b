package serializer

import "github.com/wegavilla/server/internal/session"

// Session serializes the render of a session record.
func Session(m session.Session) map[string]interface{} {
	return map[string]interface{}{
		"session_id":     m.ID,
		"user_id":        m.UserID,
		"email":          m.Email,
		"role":           m.Role,
		"created_at":     m.CreatedAt,
		"last_heartbeat": m.LastHeartbeat,
	}
}

// Sessions serializes the render of sessions.
func Sessions(m []session.Session) []map[string]interface{} {
	sessions := make([]map[string]interface{}, len(m))
	for i, s := range m {
		sessions[i] = Session(s)
	}
	return sessions
}
