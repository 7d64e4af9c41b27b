// Package serializer shapes API responses.
package serializer

import "github.com/wegavilla/server/internal/model"

// User serializes the render of a user, credentials excluded.
func User(m *model.User) map[string]interface{} {
	return map[string]interface{}{
		"id":     m.ID,
		"email":  m.Email,
		"name":   m.Name,
		"role":   m.Role,
		"status": m.Status,
	}
}

// Users serializes the render of users.
func Users(m []*model.User) []map[string]interface{} {
	users := make([]map[string]interface{}, len(m))
	for i, u := range m {
		users[i] = User(u)
	}
	return users
}
