package services

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"member-etl/models"
	"member-etl/utils"
)

func newTestLogger() *utils.Logger { return utils.NewLoggerWithOutput(&bytes.Buffer{}) }

func fixtureRows() []*models.RawMember {
	return []*models.RawMember{
		{FirstName: "        Weverton", LastName: "Goulart", Company: "Weverton WG LTD", BirthDate: "20041985", Salary: "49999",
			Address: "123 Heaven St", Suburb: "Rockdale", State: "NSW", Post: 2216, Phone: 2404040404, Mobile: 404040404, Email: "weverton.wg@wevertonwg.com"},
		{FirstName: "        Maria Isabel", LastName: "de Faria Goulart", Company: "Isabel Faria LTD", BirthDate: "0101/1985", Salary: "50000",
			Address: "123 Heaven St", Suburb: "Rockdale", State: "NSW", Post: 2216, Phone: 2404040405, Mobile: 404040405, Email: "isabelfaria@isabelfaria.com"},
		{FirstName: "        Leticia", LastName: "Faria Goulart", Company: "Leles World", BirthDate: "01012017", Salary: "100001",
			Address: "123 Heaven St", Suburb: "Rockdale", State: "NSW", Post: 2216, Phone: 2404040406, Mobile: 404040406, Email: "lele@leleworld.com"},
	}
}

func TestFormatBirthDate(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"20041985", "20-04-1985"},
		{"1012017", "01-01-2017"},
		{"01012017", "01-01-2017"},
		{"0101/1985", "01-01-/1985"},
		{"", ""},
		{"5", "00-00-0005"},
	}

	for _, tt := range tests {
		if got := FormatBirthDate(tt.raw); got != tt.want {
			t.Errorf("FormatBirthDate(%q) = %q; want %q", tt.raw, got, tt.want)
		}
	}
}

func TestCleanCurrency(t *testing.T) {
	tr := NewTransformer(newTestLogger())

	tests := []struct {
		raw  string
		want float64
	}{
		{"49999", 49999},
		{"49999.0", 49999},
		{"$49,999.00", 49999},
		{"USD 1 250.5", 1250.5},
		{"", 0},
		{"n/a", 0},
		{".", 0},
		{"1.2.3", 0},
	}

	for _, tt := range tests {
		if got := tr.CleanCurrency(tt.raw); got != tt.want {
			t.Errorf("CleanCurrency(%q) = %.2f; want %.2f", tt.raw, got, tt.want)
		}
	}
}

func TestCleanCurrencyOverflowIsMissing(t *testing.T) {
	tr := NewTransformer(newTestLogger())
	huge := strings.Repeat("9", 400)

	got := tr.CleanCurrency(huge)
	if !math.IsInf(got, 1) {
		t.Fatalf("CleanCurrency(huge) = %v; want +Inf", got)
	}
	if CoerceSalary(got) != nil {
		t.Error("CoerceSalary(+Inf) should be missing")
	}
}

func TestCoerceSalary(t *testing.T) {
	if CoerceSalary(math.NaN()) != nil {
		t.Error("NaN should be missing")
	}
	if v := CoerceSalary(12.5); v == nil || *v != 12.5 {
		t.Errorf("CoerceSalary(12.5) = %v", v)
	}
}

func TestFormatCurrency(t *testing.T) {
	tr := NewTransformer(newTestLogger())

	tests := []struct {
		salary float64
		want   string
	}{
		{49999, "$49,999.00"},
		{50000, "$50,000.00"},
		{100001, "$100,001.00"},
		{1234567.891, "$1,234,567.89"},
		{0, "$0.00"},
		{999.5, "$999.50"},
	}

	for _, tt := range tests {
		s := tt.salary
		got := tr.FormatCurrency(&s)
		if got == nil || *got != tt.want {
			t.Errorf("FormatCurrency(%v) = %v; want %q", tt.salary, got, tt.want)
		}
	}

	if tr.FormatCurrency(nil) != nil {
		t.Error("FormatCurrency(nil) should stay nil")
	}
}

func TestCleanName(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"  Weverton  ", "Weverton"},
		{"\tMaria\r\n", "Maria"},
		{"Ana\tMaria", "AnaMaria"},
		{"de Faria\nGoulart", "de FariaGoulart"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := CleanName(tt.raw); got != tt.want {
			t.Errorf("CleanName(%q) = %q; want %q", tt.raw, got, tt.want)
		}
	}
}

func TestTransformFixture(t *testing.T) {
	tr := NewTransformer(newTestLogger())
	out, err := tr.Transform(fixtureRows())
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}
	if len(out) != 3 {
		t.Fatalf("rows: got %d, want 3", len(out))
	}

	wantBuckets := []models.SalaryBucket{models.BucketA, models.BucketB, models.BucketC}
	wantNames := []string{"Weverton Goulart", "Maria Isabel de Faria Goulart", "Leticia Faria Goulart"}
	wantSalaries := []string{"$49,999.00", "$50,000.00", "$100,001.00"}
	wantDates := []string{"20-04-1985", "01-01-/1985", "01-01-2017"}

	for i, m := range out {
		if m.SalaryBucket != wantBuckets[i] {
			t.Errorf("row %d bucket: got %q, want %q", i, m.SalaryBucket, wantBuckets[i])
		}
		if m.FullName != wantNames[i] {
			t.Errorf("row %d FullName: got %q, want %q", i, m.FullName, wantNames[i])
		}
		if m.Salary == nil || *m.Salary != wantSalaries[i] {
			t.Errorf("row %d Salary: got %v, want %q", i, m.Salary, wantSalaries[i])
		}
		if m.BirthDate != wantDates[i] {
			t.Errorf("row %d BirthDate: got %q, want %q", i, m.BirthDate, wantDates[i])
		}
		if m.Address != "123 Heaven St, Rockdale, NSW, 2216" {
			t.Errorf("row %d Address: got %q", i, m.Address)
		}
	}
}

func TestTransformMissingSalary(t *testing.T) {
	tr := NewTransformer(newTestLogger())
	rows := fixtureRows()[:1]
	rows[0].Salary = strings.Repeat("9", 400)

	out, err := tr.Transform(rows)
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}
	if out[0].Salary != nil {
		t.Errorf("Salary: got %q, want nil", *out[0].Salary)
	}
	if out[0].SalaryBucket != models.BucketNone {
		t.Errorf("SalaryBucket: got %q, want empty", out[0].SalaryBucket)
	}
}

func TestTransformEmptySalaryIsZero(t *testing.T) {
	tr := NewTransformer(newTestLogger())
	rows := fixtureRows()[:1]
	rows[0].Salary = ""

	out, err := tr.Transform(rows)
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}
	if out[0].Salary == nil || *out[0].Salary != "$0.00" {
		t.Errorf("Salary: got %v, want $0.00", out[0].Salary)
	}
	if out[0].SalaryBucket != models.BucketA {
		t.Errorf("SalaryBucket: got %q, want A", out[0].SalaryBucket)
	}
}

func TestTransformNilRowFails(t *testing.T) {
	tr := NewTransformer(newTestLogger())
	rows := append(fixtureRows(), nil)

	out, err := tr.Transform(rows)
	if err == nil {
		t.Fatal("expected an error for a nil row")
	}
	if out != nil {
		t.Error("no rows should be returned on failure")
	}
}

func TestTransformEmptyInput(t *testing.T) {
	tr := NewTransformer(newTestLogger())
	out, err := tr.Transform(nil)
	if err != nil {
		t.Fatalf("Transform(nil): %v", err)
	}
	if len(out) != 0 {
		t.Errorf("rows: got %d, want 0", len(out))
	}
}
