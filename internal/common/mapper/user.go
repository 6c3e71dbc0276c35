package mapper

import (
	"strconv"

	userdomain "github.com/AlibekovAA/gql-user-auth/internal/user/domain"
)

// UserToPayload shapes a user for the GraphQL User type. The password field
// carries the stored hash, never plaintext.
func UserToPayload(user userdomain.User) map[string]interface{} {
	payload := map[string]interface{}{
		"id":       strconv.FormatInt(int64(user.ID), 10),
		"username": user.Username,
		"password": user.PasswordHash,
		"email":    nil,
	}
	if user.Email != "" {
		payload["email"] = user.Email
	}
	return payload
}
