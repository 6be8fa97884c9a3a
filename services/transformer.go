package services

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"member-etl/models"
	"member-etl/utils"
)

const birthDateWidth = 8

var (
	// nonNumericRegexp matches everything a salary can carry besides digits and the decimal point
	nonNumericRegexp = regexp.MustCompile(`[^\d.]`)

	nameControlReplacer = strings.NewReplacer("\t", "", "\n", "", "\r", "")
)

// Transformer turns RawMembers into output Members.
type Transformer struct {
	logger  *utils.Logger
	printer *message.Printer
}

// NewTransformer creates a Transformer with the given logger.
func NewTransformer(logger *utils.Logger) *Transformer {
	return &Transformer{
		logger:  logger,
		printer: message.NewPrinter(language.English),
	}
}

// Transform applies the column rules to every row. Rows are independent; the
// first failure aborts the whole batch.
func (t *Transformer) Transform(raw []*models.RawMember) ([]*models.Member, error) {
	result := make([]*models.Member, 0, len(raw))

	for i, r := range raw {
		m, err := t.transformRow(r)
		if err != nil {
			err = fmt.Errorf("transform: row %d: %w", i, err)
			t.logger.Error("[transformer] An error occurred during transformation: %v", err)
			return nil, err
		}
		result = append(result, m)
	}

	t.logger.Info("[transformer] Transformed %d rows", len(result))
	return result, nil
}

func (t *Transformer) transformRow(r *models.RawMember) (*models.Member, error) {
	if r == nil {
		return nil, errors.New("nil record")
	}

	birthDate := FormatBirthDate(r.BirthDate)

	salary := CoerceSalary(t.CleanCurrency(r.Salary))
	bucket := models.BucketFor(salary)

	first := CleanName(r.FirstName)
	last := CleanName(r.LastName)

	addr := models.Address{
		Street: r.Address,
		Suburb: r.Suburb,
		State:  r.State,
		Post:   r.Post,
	}

	return &models.Member{
		FullName:     first + " " + last,
		Company:      r.Company,
		BirthDate:    birthDate,
		Salary:       t.FormatCurrency(salary),
		SalaryBucket: bucket,
		Address:      addr.String(),
		Suburb:       r.Suburb,
		State:        r.State,
		Post:         r.Post,
		Phone:        r.Phone,
		Mobile:       r.Mobile,
		Email:        r.Email,
		SalaryAmount: salary,
	}, nil
}

// FormatBirthDate renders a DDMMYYYY digit string as DD-MM-YYYY.
// Short inputs are zero-padded on the left to 8 characters first. Nothing is
// validated; "0101/1985" becomes "01-01-/1985".
func FormatBirthDate(dob string) string {
	if dob == "" {
		return ""
	}
	r := []rune(dob)
	if pad := birthDateWidth - len(r); pad > 0 {
		r = append([]rune(strings.Repeat("0", pad)), r...)
	}
	return string(r[:2]) + "-" + string(r[2:4]) + "-" + string(r[4:])
}

// CleanCurrency keeps only digits and dots and parses the rest.
// Empty or unparsable input yields 0. Values beyond float64 range come back
// as ±Inf and are dropped by CoerceSalary.
// Examples:
//
//	"$49,999.00" → 49999
//	"USD 1 250"  → 1250
//	"1.2.3"      → 0
func (t *Transformer) CleanCurrency(value string) float64 {
	cleaned := nonNumericRegexp.ReplaceAllString(value, "")
	if cleaned == "" {
		return 0
	}

	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return f
		}
		t.logger.Warn("[transformer] Error cleaning currency value: %q. %v", value, err)
		return 0
	}
	return f
}

// CoerceSalary returns nil for values that are not finite numbers.
func CoerceSalary(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// FormatCurrency renders a salary as "$1,234.56". A missing salary stays nil
// so it is written as null.
func (t *Transformer) FormatCurrency(salary *float64) *string {
	if salary == nil {
		return nil
	}
	s := t.printer.Sprintf("$%.2f", *salary)
	return &s
}

// CleanName trims surrounding whitespace and drops tab, newline and carriage return.
func CleanName(s string) string {
	return nameControlReplacer.Replace(strings.TrimSpace(s))
}
