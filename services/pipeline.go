package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"member-etl/metrics"
	"member-etl/models"
	"member-etl/reader"
	"member-etl/storage"
	"member-etl/utils"
)

// ErrReadFailed is returned by Run when the input produced no rows.
// RunReport.ReadStatus tells which kind of read failure it was.
var ErrReadFailed = errors.New("read failed")

// Sink is an extra destination written after the primary JSON output.
// Open is called once per run.
type Sink struct {
	Name string
	Open func() (storage.MemberWriter, error)
}

// RunReport describes one pipeline run.
type RunReport struct {
	RunID       string
	InputPath   string
	OutputPath  string
	StartedAt   time.Time
	Duration    time.Duration
	ReadStatus  reader.ReadStatus
	RowsRead    int
	RowsWritten int
	Members     []*models.Member

	// WriteErr is the primary output failure, if any. It does not fail the run.
	WriteErr error
	// SinkErrs holds failures of extra sinks by sink name.
	SinkErrs map[string]error
}

// Pipeline runs read → transform → write over one file.
type Pipeline struct {
	logger      *utils.Logger
	reader      *reader.Reader
	transformer *Transformer
	sinks       []Sink
}

// NewPipeline creates a Pipeline writing JSON lines plus any extra sinks.
func NewPipeline(logger *utils.Logger, sinks ...Sink) *Pipeline {
	return &Pipeline{
		logger:      logger,
		reader:      reader.New(logger),
		transformer: NewTransformer(logger),
		sinks:       sinks,
	}
}

// Run processes inputPath into outputPath.
//
// A read failure returns ErrReadFailed and nothing is written. A transform
// failure is returned as is. Write failures are logged and reported in
// RunReport only; Run still returns a nil error for them.
func (p *Pipeline) Run(inputPath, outputPath string) (*RunReport, error) {
	report := &RunReport{
		RunID:      uuid.NewString(),
		InputPath:  inputPath,
		OutputPath: outputPath,
		StartedAt:  time.Now(),
		SinkErrs:   make(map[string]error),
	}
	defer func() {
		report.Duration = time.Since(report.StartedAt)
		if err := metrics.Flush(); err != nil {
			p.logger.Warn("[pipeline] run %s: metrics flush failed: %v", report.RunID, err)
		}
	}()

	p.logger.Info("[pipeline] run %s: reading %s", report.RunID, inputPath)

	start := time.Now()
	res := p.reader.Read(inputPath)
	report.ReadStatus = res.Status
	if !res.OK() {
		err := fmt.Errorf("%w: %s: %v", ErrReadFailed, res.Status, res.Err)
		metrics.RecordStep("read", err, time.Since(start))
		p.logger.Error("[pipeline] run %s: aborting before transform (%s)", report.RunID, res.Status)
		return report, err
	}
	metrics.RecordStep("read", nil, time.Since(start))
	report.RowsRead = len(res.Members)
	metrics.RecordRows("read", report.RowsRead)

	start = time.Now()
	members, err := p.transformer.Transform(res.Members)
	metrics.RecordStep("transform", err, time.Since(start))
	if err != nil {
		return report, err
	}
	report.Members = members
	recordBuckets(members)

	report.WriteErr = p.write("jsonl", func() (storage.MemberWriter, error) {
		return storage.NewJSONLWriter(outputPath)
	}, members)
	if report.WriteErr == nil {
		report.RowsWritten = len(members)
		metrics.RecordRows("written", len(members))
		p.logger.Info("[pipeline] Data successfully saved to %s", outputPath)
	}

	for _, s := range p.sinks {
		if err := p.write(s.Name, s.Open, members); err != nil {
			report.SinkErrs[s.Name] = err
		} else {
			p.logger.Info("[pipeline] %d rows written to %s", len(members), s.Name)
		}
	}

	if report.WriteErr == nil && len(report.SinkErrs) == 0 {
		metrics.MarkSuccess(time.Now())
	}
	p.logger.Info("[pipeline] run %s finished: %d read, %d written",
		report.RunID, report.RowsRead, report.RowsWritten)
	return report, nil
}

// write opens, writes and closes one sink. Errors are logged and returned
// for the report, never propagated as run failures.
func (p *Pipeline) write(name string, open func() (storage.MemberWriter, error), members []*models.Member) (err error) {
	start := time.Now()
	defer func() {
		metrics.RecordStep("write_"+name, err, time.Since(start))
		if err != nil {
			p.logger.Error("[pipeline] An error occurred while saving data to %s: %v", name, err)
		}
	}()

	w, err := open()
	if err != nil {
		return err
	}
	if err = w.Write(members); err != nil {
		_ = w.Close()
		return err
	}
	return w.Close()
}

func recordBuckets(members []*models.Member) {
	counts := make(map[models.SalaryBucket]int)
	for _, m := range members {
		counts[m.SalaryBucket]++
	}
	for bucket, n := range counts {
		kind := "bucket_" + string(bucket)
		if bucket == models.BucketNone {
			kind = "bucket_none"
		}
		metrics.RecordRows(kind, n)
	}
}
