package models

import (
	"strconv"
	"time"
)

// RawMember is one input row exactly as the reader typed it.
// Salary stays text because it may arrive currency-formatted.
type RawMember struct {
	FirstName string
	LastName  string
	Company   string
	BirthDate string
	Salary    string
	Address   string
	Suburb    string
	State     string
	Post      int64
	Phone     int64
	Mobile    int64
	Email     string
}

// Member is the transformed record written to the output sinks.
// Field order is the output column order.
type Member struct {
	FullName     string       `json:"FullName"`
	Company      string       `json:"Company"`
	BirthDate    string       `json:"BirthDate"`
	Salary       *string      `json:"Salary"`
	SalaryBucket SalaryBucket `json:"SalaryBucket"`
	Address      string       `json:"Address"`
	Suburb       string       `json:"Suburb"`
	State        string       `json:"State"`
	Post         int64        `json:"Post"`
	Phone        int64        `json:"Phone"`
	Mobile       int64        `json:"Mobile"`
	Email        string       `json:"Email"`

	// SalaryAmount is the numeric salary behind Salary; nil when missing.
	SalaryAmount *float64 `json:"-"`
}

// OutputColumns is the fixed column order of every output sink.
var OutputColumns = []string{
	"FullName", "Company", "BirthDate", "Salary", "SalaryBucket", "Address",
	"Suburb", "State", "Post", "Phone", "Mobile", "Email",
}

// Values returns the row as text in OutputColumns order. A missing salary is "".
func (m *Member) Values() []string {
	salary := ""
	if m.Salary != nil {
		salary = *m.Salary
	}
	return []string{
		m.FullName,
		m.Company,
		m.BirthDate,
		salary,
		string(m.SalaryBucket),
		m.Address,
		m.Suburb,
		m.State,
		strconv.FormatInt(m.Post, 10),
		strconv.FormatInt(m.Phone, 10),
		strconv.FormatInt(m.Mobile, 10),
		m.Email,
	}
}

// Address is the postal part of a member row. It only exists to be rendered.
type Address struct {
	Street string
	Suburb string
	State  string
	Post   int64
}

func (a Address) String() string {
	return a.Street + ", " + a.Suburb + ", " + a.State + ", " + strconv.FormatInt(a.Post, 10)
}

// SalaryBucket is the categorical salary band of a member.
type SalaryBucket string

const (
	BucketNone SalaryBucket = ""
	BucketA    SalaryBucket = "A"
	BucketB    SalaryBucket = "B"
	BucketC    SalaryBucket = "C"
)

const (
	bucketBLower = 50000
	bucketBUpper = 100000
)

// BucketFor maps a salary to its band. Both B boundaries are inclusive.
func BucketFor(salary *float64) SalaryBucket {
	if salary == nil {
		return BucketNone
	}
	switch s := *salary; {
	case s < bucketBLower:
		return BucketA
	case s <= bucketBUpper:
		return BucketB
	default:
		return BucketC
	}
}

// InsightReport holds summary statistics over one run's output.
type InsightReport struct {
	RunID          string
	GeneratedAt    time.Time
	TotalMembers   int
	BucketCounts   map[SalaryBucket]int
	AverageSalary  float64
	MinSalary      float64
	MaxSalary      float64
	HighestPaid    *Member
	MembersByState map[string]int
}
