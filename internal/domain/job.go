package domain

import "time"

// Job is a company's open role. The core only needs enough of it to scope
// listings and resolve which company owns an application.
type Job struct {
	ID            JobID
	CompanyID     CompanyID
	Title         string
	Description   string
	Location      string
	SalaryMin     float64
	SalaryMax     float64
	FeePercentage float64
	Status        string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Company is an employer organization.
type Company struct {
	ID        CompanyID
	Name      string
	Website   string
	CreatedAt time.Time
	UpdatedAt time.Time
}
