// Package sample writes synthetic member files in the pipe-delimited input
// format, for local runs and tests.
package sample

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Options controls the generated file.
type Options struct {
	Rows int
	// Seed makes output reproducible; 0 picks a random seed.
	Seed int64
	// CurrencyEvery formats every n-th salary as "$12,345"; 0 disables it.
	CurrencyEvery int
}

// Write emits opt.Rows records to w.
func Write(w io.Writer, opt Options) error {
	f := gofakeit.New(opt.Seed)
	p := message.NewPrinter(language.English)
	bw := bufio.NewWriter(w)

	for i := 0; i < opt.Rows; i++ {
		salary := fmt.Sprintf("%d", f.Number(20000, 150000))
		if opt.CurrencyEvery > 0 && i%opt.CurrencyEvery == 0 {
			salary = p.Sprintf("$%d", f.Number(20000, 150000))
		}

		dob := f.Date()
		fields := []string{
			f.FirstName(),
			f.LastName(),
			f.Company(),
			// The day loses its leading zero, as it does in real exports.
			fmt.Sprintf("%d%02d%d", dob.Day(), int(dob.Month()), dob.Year()),
			salary,
			f.Street(),
			f.City(),
			f.StateAbr(),
			fmt.Sprintf("%d", f.Number(1000, 9999)),
			fmt.Sprintf("%d", f.Number(200000000, 999999999)),
			fmt.Sprintf("0%d", f.Number(400000000, 499999999)),
			f.Email(),
		}
		for j := range fields {
			fields[j] = strings.ReplaceAll(fields[j], "|", " ")
		}

		if _, err := bw.WriteString(strings.Join(fields, "|") + "\n"); err != nil {
			return fmt.Errorf("sample: write row %d: %w", i, err)
		}
	}
	return bw.Flush()
}
