package models

import "time"

// ClassRecord is one graded class inside a tenant store.
type ClassRecord struct {
	ID         int64     `json:"id"`
	Department string    `json:"department"`
	ClassID    int       `json:"classId"`
	Grade      float64   `json:"grade"`
	Credits    int       `json:"credits"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// RecordInput carries the mutable fields of a ClassRecord. The binding tags
// are enforced both by the HTTP binder and by the record service.
type RecordInput struct {
	Department string   `json:"department" binding:"required,max=4"`
	ClassID    int      `json:"classId" binding:"required,max=2147483647"`
	Grade      *float64 `json:"grade" binding:"required,gte=0,lte=4"`
	Credits    int      `json:"credits" binding:"required,gt=0,max=2147483647"`
}

// Aggregate is the credit-weighted grade average of a tenant store.
type Aggregate struct {
	GPA          float64 `json:"gpa"`
	TotalCredits int64   `json:"totalCredits"`
}

// Record builds the ClassRecord that in describes, with the given id.
func (in RecordInput) Record(id int64) *ClassRecord {
	r := &ClassRecord{
		ID:         id,
		Department: in.Department,
		ClassID:    in.ClassID,
		Credits:    in.Credits,
	}
	if in.Grade != nil {
		r.Grade = *in.Grade
	}
	return r
}
