package model

import "time"

type User struct {
	UID       string    `firestore:"uid" json:"uid"`
	Email     string    `firestore:"email" json:"email"`
	CreatedAt time.Time `firestore:"createdAt" json:"createdAt"`
	EcoPoints int       `firestore:"ecoPoints" json:"ecoPoints"`
}

// Credential is only written by the local auth provider.
type Credential struct {
	UID          string    `firestore:"uid"`
	Email        string    `firestore:"email"`
	PasswordHash string    `firestore:"passwordHash"`
	CreatedAt    time.Time `firestore:"createdAt"`
}
