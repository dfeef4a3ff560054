// Package models defines the core data structures for users, reports,
// notifications, sessions and preferences.
package models

// Role identifies the permission level of a user account.
type Role string

const (
	// RoleUser is a regular account that can submit and browse reports.
	RoleUser Role = "user"
	// RoleAdmin is an administrative account that manages users and listings.
	RoleAdmin Role = "admin"
)

// User represents an application user with credentials.
type User struct {
	// ID is the unique identifier for the user (millisecond timestamp at creation).
	ID int64 `json:"id"`
	// Username is the display name chosen by the user.
	Username string `json:"username"`
	// Email is the unique login identifier, compared case-sensitively as stored.
	Email string `json:"email"`
	// Password holds the bcrypt hash of the user's password.
	Password string `json:"password"`
	// Role is either "user" or "admin".
	Role Role `json:"role"`
}

// ReportStatus indicates whether an item was lost or found.
type ReportStatus string

const (
	// StatusLost marks a report about an item its owner is missing.
	StatusLost ReportStatus = "lost"
	// StatusFound marks a report about an item somebody picked up.
	StatusFound ReportStatus = "found"
)

// Category is the item category of a report.
type Category string

const (
	CategoryElectronics Category = "Electronics"
	CategoryDocuments   Category = "Documents"
	CategoryAccessories Category = "Accessories"
	CategoryOther       Category = "Other"
)

// ValidCategory reports whether c is one of the known item categories.
func ValidCategory(c Category) bool {
	switch c {
	case CategoryElectronics, CategoryDocuments, CategoryAccessories, CategoryOther:
		return true
	}
	return false
}

// Report represents a lost or found item report. Every report belongs to
// exactly one user (by email) and is stored both in the owner's per-user
// list and in the global list; the two copies must stay value-identical.
type Report struct {
	// ID is the unique identifier for the report (millisecond timestamp at creation).
	ID int64 `json:"id"`
	// ItemName is the short name of the item.
	ItemName string `json:"itemName"`
	// Description is the free-form item description.
	Description string `json:"description"`
	// Category is one of Electronics, Documents, Accessories, Other.
	Category Category `json:"category"`
	// DateTime is when the item was lost or found, as entered by the user.
	DateTime string `json:"dateTime"`
	// Status is "lost" or "found".
	Status ReportStatus `json:"status"`
	// Location is where the item was lost or found.
	Location string `json:"location"`
	// ContactInfo is how to reach the reporter.
	ContactInfo string `json:"contactInfo"`
	// Image is an opaque reference to a locally attached picture.
	// It is not durable across sessions.
	Image *string `json:"image"`
	// UserEmail is the owner's email.
	UserEmail string `json:"userEmail"`
	// Username is the owner's display name at submission time.
	Username string `json:"username"`
	// UserID is the owner's user ID.
	UserID int64 `json:"userId"`
	// Timestamp is the ISO creation time of the report.
	Timestamp string `json:"timestamp"`
	// Verified is set once an admin has verified the report.
	Verified bool `json:"verified"`
	// VerificationDate is the ISO time of verification, or null.
	VerificationDate *string `json:"verificationDate"`
	// VerifiedBy names the admin who verified the report, or null.
	VerifiedBy *string `json:"verifiedBy"`
}

// NotificationType classifies a notification.
type NotificationType string

const (
	// NotificationVerification is sent when an admin verifies a report.
	NotificationVerification NotificationType = "verification"
	// NotificationSystem is a general announcement to a user.
	NotificationSystem NotificationType = "system"
)

// Notification is a message delivered to exactly one user, keyed by email.
type Notification struct {
	// ID is the unique identifier for the notification (millisecond timestamp).
	ID int64 `json:"id"`
	// Type classifies the notification ("verification", "system", ...).
	Type NotificationType `json:"type"`
	// Title is the short headline.
	Title string `json:"title"`
	// Message is the body text.
	Message string `json:"message"`
	// ItemName optionally names the report's item.
	ItemName string `json:"itemName,omitempty"`
	// ReportID optionally links back to the report.
	ReportID int64 `json:"reportId,omitempty"`
	// Status optionally carries the report's lost/found status.
	Status ReportStatus `json:"status,omitempty"`
	// Timestamp is the ISO creation time.
	Timestamp string `json:"timestamp"`
	// Read is flipped once the user has seen the notification. One-way.
	Read bool `json:"read"`
}

// Session is the transient record of which user, if any, is authenticated.
// It is persisted redundantly so it survives process restarts.
type Session struct {
	// IsLoggedIn reports whether a user is currently authenticated.
	IsLoggedIn bool `json:"isLoggedIn"`
	// CurrentUser is the authenticated user, or nil.
	CurrentUser *User `json:"currentUser"`
}

// Preference holds global, non-per-user settings.
type Preference struct {
	// DarkMode selects the dark visual theme.
	DarkMode bool `json:"darkMode"`
}
