// Package models defines the record types persisted by the storage layer.
package models

// User is one registered account. Email is the identity key and must be
// unique within the store. The password is stored as plain text: this is a
// demo backend with no real authentication.
type User struct {
	Name         string
	Surname      string
	Email        string
	Password     string
	FiscalCode   string
	IDCardNumber string
}
