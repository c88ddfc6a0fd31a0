package models

import (
	"fmt"

	"gorm.io/gorm"
)

// Entity describes one persisted model. The list below is the single source
// for migrations and the admin entity endpoints; nothing is discovered by
// reflection.
type Entity struct {
	Name  string
	Table string
	Model func() any
	Rows  func() any
}

var Registry = []Entity{
	{Name: "campus", Table: Campus{}.TableName(), Model: func() any { return &Campus{} }, Rows: func() any { return &[]Campus{} }},
	{Name: "user", Table: User{}.TableName(), Model: func() any { return &User{} }, Rows: func() any { return &[]User{} }},
	{Name: "roommate_profile", Table: RoommateProfile{}.TableName(), Model: func() any { return &RoommateProfile{} }, Rows: func() any { return &[]RoommateProfile{} }},
	{Name: "housing", Table: Housing{}.TableName(), Model: func() any { return &Housing{} }, Rows: func() any { return &[]Housing{} }},
	{Name: "review", Table: Review{}.TableName(), Model: func() any { return &Review{} }, Rows: func() any { return &[]Review{} }},
	{Name: "media", Table: Media{}.TableName(), Model: func() any { return &Media{} }, Rows: func() any { return &[]Media{} }},
	{Name: "bookmark", Table: Bookmark{}.TableName(), Model: func() any { return &Bookmark{} }, Rows: func() any { return &[]Bookmark{} }},
	{Name: "report", Table: Report{}.TableName(), Model: func() any { return &Report{} }, Rows: func() any { return &[]Report{} }},
}

// LookupEntity finds a registered entity by name.
func LookupEntity(name string) (Entity, bool) {
	for _, e := range Registry {
		if e.Name == name {
			return e, true
		}
	}
	return Entity{}, false
}

// AutoMigrate creates or updates every registered table, parents first.
func AutoMigrate(db *gorm.DB) error {
	for _, e := range Registry {
		if err := db.AutoMigrate(e.Model()); err != nil {
			return fmt.Errorf("migrate %s: %w", e.Name, err)
		}
	}
	return nil
}
