// Package repository provides persistence implementations for the identity,
// report and notification services on top of the record store.
//
// The key space is fixed and shared with other consumers of the store:
//
//	allUsers               -> array of User
//	currentUser            -> User (absent when logged out)
//	isLoggedIn             -> literal "true" (absent when logged out)
//	darkMode               -> boolean
//	allReports             -> array of Report (global denormalized view)
//	userReports_<email>    -> array of Report (per-user view)
//	notifications_<email>  -> array of Notification
package repository

const (
	keyAllUsers    = "allUsers"
	keyCurrentUser = "currentUser"
	keyIsLoggedIn  = "isLoggedIn"
	keyDarkMode    = "darkMode"
	keyAllReports  = "allReports"

	// UserReportsPrefix is the key prefix of every per-user report list.
	UserReportsPrefix = "userReports_"
	// NotificationsPrefix is the key prefix of every per-user notification list.
	NotificationsPrefix = "notifications_"
)

// loggedInValue is the literal stored under isLoggedIn. It is a string, not
// a JSON boolean, for compatibility with existing stores.
var loggedInValue = []byte("true")

// UserReportsKey returns the per-user report list key for email.
func UserReportsKey(email string) string {
	return UserReportsPrefix + email
}

// NotificationsKey returns the per-user notification list key for email.
func NotificationsKey(email string) string {
	return NotificationsPrefix + email
}
