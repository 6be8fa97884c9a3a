package storage

import "member-etl/models"

// MemberWriter is the interface any output sink must satisfy.
type MemberWriter interface {
	Write(members []*models.Member) error
	Close() error
}

var (
	_ MemberWriter = (*JSONLWriter)(nil)
	_ MemberWriter = (*CSVWriter)(nil)
	_ MemberWriter = (*PostgresWriter)(nil)
)
