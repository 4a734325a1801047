package models

import (
	"database/sql"
	"time"
)

// Question maps the QUESTIONS table.
type Question struct {
	ID           string         `db:"ID"`
	Content      string         `db:"CONTENT"`
	Type         string         `db:"TYPE"`
	Difficulty   string         `db:"DIFFICULTY"`
	PositionID   sql.NullString `db:"POSITION_ID"`
	ShipTypeID   sql.NullString `db:"SHIP_TYPE_ID"`
	CategoryID   sql.NullString `db:"CATEGORY_ID"`
	CategoryName sql.NullString `db:"CATEGORY_NAME"`
	Explanation  sql.NullString `db:"EXPLANATION"`
	CreatedBy    sql.NullString `db:"CREATED_BY"`
	CreatedAt    time.Time      `db:"CREATED_AT"`
	UpdatedAt    time.Time      `db:"UPDATED_AT"`
	DeletedAt    sql.NullTime   `db:"DELETED_AT"` // soft delete keeps attempt history intact
}

// Answer maps the ANSWERS table. IS_CORRECT is NUMBER(1).
type Answer struct {
	ID          string         `db:"ID"`
	QuestionID  string         `db:"QUESTION_ID"`
	Content     string         `db:"CONTENT"`
	IsCorrect   bool           `db:"IS_CORRECT"`
	Explanation sql.NullString `db:"EXPLANATION"`
	Position    int            `db:"POSITION"`
}

// Reference maps POSITIONS, SHIP_TYPES and CATEGORIES, which share one shape.
type Reference struct {
	ID          string         `db:"ID"`
	Name        string         `db:"NAME"`
	Description sql.NullString `db:"DESCRIPTION"`
	CreatedAt   time.Time      `db:"CREATED_AT"`
}

// CrewProfile maps CREW_PROFILES.
type CrewProfile struct {
	UserID     string         `db:"USER_ID"`
	FullName   sql.NullString `db:"FULL_NAME"`
	PositionID sql.NullString `db:"POSITION_ID"`
	ShipTypeID sql.NullString `db:"SHIP_TYPE_ID"`
}
