package redis

import (
	"fmt"

	"github.com/Prateekiiitg56/SmartScribe/internal/model"
)

// Key prefix for all application data
const keyPrefix = "smartscribe"

// userKey returns the Redis key for a User record
func userKey(id model.UserID) string {
	return fmt.Sprintf("%s:user:%d", keyPrefix, id)
}

// usernameIndexKey returns the Redis key for the username -> user_id index.
// Registration reserves this key with SETNX, which is what makes the
// uniqueness check atomic with the insert.
func usernameIndexKey(username string) string {
	return fmt.Sprintf("%s:idx:username:%s", keyPrefix, username)
}

// emailIndexKey returns the Redis key for the email -> user_id index
func emailIndexKey(email string) string {
	return fmt.Sprintf("%s:idx:email:%s", keyPrefix, email)
}

// userSeqKey returns the Redis key for the user id sequence
func userSeqKey() string {
	return fmt.Sprintf("%s:seq:user", keyPrefix)
}

// essayKey returns the Redis key for an Essay record
func essayKey(id model.EssayID) string {
	return fmt.Sprintf("%s:essay:%d", keyPrefix, id)
}

// essaysForUserKey returns the Redis key for the LIST of a user's essay ids,
// newest first
func essaysForUserKey(userID model.UserID) string {
	return fmt.Sprintf("%s:idx:essays_for_user:%d", keyPrefix, userID)
}

// essaySeqKey returns the Redis key for the essay id sequence
func essaySeqKey() string {
	return fmt.Sprintf("%s:seq:essay", keyPrefix)
}
