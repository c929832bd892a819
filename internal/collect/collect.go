// Package collect gathers bond reference data from public sources, runs the
// valuation engine over the quoted prices, and stores the resulting records
// as parquet, either on the local filesystem or in S3.
package collect

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/parquet-go/parquet-go"

	"benritz/bondcalc/internal/analyze"
	"benritz/bondcalc/internal/types"
)

var (
	ErrInvalidRow      = fmt.Errorf("invalid row")
	ErrDataUnavailable = fmt.Errorf("data unavailable")
	ErrUnsupportedBond = fmt.Errorf("unsupported bond")
)

// Record is one collected bond quote with the analytics computed from it.
// Yields and rates are in percent, durations in years.
type Record struct {
	Source           string
	ISIN             string
	Ticker           string
	Desc             string
	ParValue         float64
	CouponRate       float64
	Frequency        int
	MaturityDate     time.Time
	SettlementDate   time.Time
	CleanPrice       float64
	DirtyPrice       float64
	AccruedAmount    float64
	Yield            float64
	ModifiedDuration float64
	Convexity        float64
}

type CollectedRecord struct {
	Record *Record
	Err    error
}

func (c *CollectedRecord) SetError(err error) {
	if c.Err == nil {
		c.Err = err
	}
}

type CollectedRecords struct {
	Records        []*Record
	Failures       []*CollectedRecord
	Source         string
	SettlementDate time.Time
}

func (c *CollectedRecords) Add(cr *CollectedRecord) {
	if cr.Err == nil {
		c.Records = append(c.Records, cr.Record)
	} else {
		c.Failures = append(c.Failures, cr)
	}
}

func NewCollectedRecords(source string, date time.Time) *CollectedRecords {
	return &CollectedRecords{
		Source:         source,
		SettlementDate: date,
		Records:        []*Record{},
		Failures:       []*CollectedRecord{},
	}
}

type Collector interface {
	Collect(ctx context.Context, date time.Time) (*CollectedRecords, error)
	Source() string
}

// complete runs the valuation engine over the record's quoted clean price
// and fills in yield, duration and convexity.
//
// The sources publish no issue date; the coupon grid is anchored on the
// maturity date, so the zero issue date only widens the valid purchase range.
func complete(r *Record) error {
	terms := types.BondTerms{
		Name:         r.Ticker,
		ParValue:     r.ParValue,
		CouponRate:   r.CouponRate,
		Frequency:    r.Frequency,
		MaturityDate: r.MaturityDate,
	}

	result, err := analyze.Run(analyze.Request{
		Terms:        terms,
		PurchaseDate: r.SettlementDate,
		CleanPrice:   &r.CleanPrice,
	})
	if err != nil {
		return err
	}

	r.DirtyPrice = result.DirtyPrice
	r.AccruedAmount = result.AccruedInterest
	r.Yield = result.Yield * 100
	r.ModifiedDuration = result.ModifiedDuration
	r.Convexity = result.Convexity

	return nil
}

func writeRecords(records []*Record, output io.Writer) error {
	writer := parquet.NewGenericWriter[*Record](output)
	defer writer.Close()

	if _, err := writer.Write(records); err != nil {
		return fmt.Errorf("failed to write records: %w", err)
	}

	return nil
}

func StoreToPath(ctx context.Context, collected *CollectedRecords, basepath string) (string, error) {
	date := collected.SettlementDate

	path := fmt.Sprintf(
		"%s%c%04d%c%02d%c%02d",
		basepath,
		filepath.Separator,
		date.UTC().Year(),
		filepath.Separator,
		date.UTC().Month(),
		filepath.Separator,
		date.UTC().Day(),
	)

	if err := os.MkdirAll(path, os.ModePerm); err != nil {
		return "", err
	}

	outPath := fmt.Sprintf("%s%c%s.parquet", path, filepath.Separator, collected.Source)

	file, err := os.Create(outPath)
	if err != nil {
		return "", err
	}
	defer file.Close()

	if err := writeRecords(collected.Records, file); err != nil {
		return "", err
	}

	return outPath, nil
}

type S3Path struct {
	Bucket string
	Prefix string
}

func ParseS3(path string) (*S3Path, error) {
	if !strings.HasPrefix(path, "s3://") {
		return nil, fmt.Errorf("path must start with s3://")
	}

	path = strings.TrimPrefix(path, "s3://")
	parts := strings.SplitN(path, "/", 2)

	bucket := parts[0]

	var prefix string

	if len(parts) > 1 {
		prefix = parts[1]
		prefix = strings.TrimSuffix(prefix, "/")
	} else {
		prefix = ""
	}

	return &S3Path{
		Bucket: bucket,
		Prefix: prefix,
	}, nil
}

func StoreToS3(ctx context.Context, collected *CollectedRecords, s3Client *s3.Client, dst *S3Path) (string, error) {
	tmp, err := os.CreateTemp("", "bond-*.parquet")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %v", err)
	}
	defer tmp.Close()
	defer os.Remove(tmp.Name())

	if err := writeRecords(collected.Records, tmp); err != nil {
		return "", err
	}

	if _, err := tmp.Seek(0, 0); err != nil {
		return "", fmt.Errorf("failed to seek to start of file: %w", err)
	}

	date := collected.SettlementDate

	key := fmt.Sprintf(
		"%04d/%02d/%02d/%s.parquet",
		date.UTC().Year(),
		date.UTC().Month(),
		date.UTC().Day(),
		collected.Source,
	)

	if dst.Prefix != "" {
		key = fmt.Sprintf("%s/%s", dst.Prefix, key)
	}

	input := &s3.PutObjectInput{
		Bucket: aws.String(dst.Bucket),
		Key:    aws.String(key),
		Body:   tmp,
	}

	if _, err := s3Client.PutObject(ctx, input); err != nil {
		return "", fmt.Errorf("failed to upload file to s3://%s/%s: %w", dst.Bucket, key, err)
	}

	outPath := fmt.Sprintf("s3://%s/%s", dst.Bucket, key)

	return outPath, nil
}
