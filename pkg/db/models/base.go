package models

import "github.com/google/uuid"

// All returns every persisted model, in dependency order, for AutoMigrate.
func All() []any {
	return []any{
		&License{},
		&User{},
		&Admin{},
		&Campaign{},
		&Funnel{},
		&Reset{},
	}
}

func ensureUUID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}
