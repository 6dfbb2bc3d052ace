package models

// CivicRecord holds the civic attributes of a citizen, keyed by the email of
// the owning user (not enforced as a foreign key). At most one record exists
// per email; individual fields may be empty.
type CivicRecord struct {
	Email            string
	SubscriptionCode string
	PODCode          string
	DriverLicense    string
}
