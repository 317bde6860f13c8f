package linelog

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/src-d/enry/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Column names of the change log header.
const (
	ColCommit   = "commit"
	ColAuthor   = "author"
	ColFile     = "file"
	ColLine     = "line"
	ColType     = "type"
	ColDate     = "date"
	ColTime     = "time"
	ColTimezone = "timezone"
	ColDatetime = "datetime"
	ColDepth    = "depth"
	ColLength   = "length"
)

const (
	tracerName = "commitplot"
	stdinPath  = "-"
	dateLayout = "2006-01-02"
	secPerHour = 3600
	secPerMin  = 60
)

var requiredColumns = []string{ColCommit, ColAuthor, ColFile, ColLine, ColDate, ColTime, ColTimezone}

var clockLayouts = []string{"15:04:05", "15:04", "15:04:05.999999999"}

// Options controls parsing.
type Options struct {
	// InferTypes fills an empty type column with the language detected from
	// the file extension.
	InferTypes bool

	// Logger receives one warning per skipped row. Defaults to slog.Default().
	Logger *slog.Logger
}

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}

	return slog.Default()
}

// Load opens the log at path ("-" reads stdin) and parses it.
func Load(ctx context.Context, path string, opts Options) (*Result, error) {
	if path == stdinPath {
		return Parse(ctx, os.Stdin, opts)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open change log: %w", err)
	}
	defer f.Close()

	return Parse(ctx, f, opts)
}

// Parse reads a CSV change log with a header row. Columns are matched by
// name, so their order is free. Malformed rows are skipped and reported in
// Result.Errors; only an unreadable stream or a header lacking a required
// column fails the whole parse.
func Parse(ctx context.Context, r io.Reader, opts Options) (*Result, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "commitplot.linelog.parse")
	defer span.End()

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return &Result{}, nil
		}

		return nil, fmt.Errorf("read header: %w", err)
	}

	cols, err := indexColumns(header)
	if err != nil {
		return nil, err
	}

	logger := opts.logger()
	result := &Result{}

	for row := 1; ; row++ {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("parse change log: %w", ctxErr)
		}

		fields, readErr := reader.Read()
		if errors.Is(readErr, io.EOF) {
			break
		}

		if readErr != nil {
			var csvErr *csv.ParseError
			if !errors.As(readErr, &csvErr) {
				return nil, fmt.Errorf("read row %d: %w", row, readErr)
			}

			result.Rows++
			result.Errors = append(result.Errors, rowError(row, "", readErr))

			continue
		}

		result.Rows++

		rec, rowErr := cols.record(row, fields, opts.InferTypes)
		if rowErr != nil {
			logger.WarnContext(ctx, "skipping malformed row", "row", row, "column", rowErr.Column, "error", rowErr.Err)
			result.Errors = append(result.Errors, rowErr)

			continue
		}

		result.Records = append(result.Records, rec)
	}

	span.SetAttributes(
		attribute.Int("linelog.rows", result.Rows),
		attribute.Int("linelog.records", len(result.Records)),
		attribute.Int("linelog.skipped", result.Skipped()),
	)

	if result.Skipped() > 0 {
		span.AddEvent("rows skipped", trace.WithAttributes(attribute.Int("count", result.Skipped())))
	}

	return result, nil
}

// columns maps lower-cased column names to their header position.
type columns map[string]int

func indexColumns(header []string) (columns, error) {
	cols := columns{}

	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		if _, dup := cols[name]; !dup {
			cols[name] = i
		}
	}

	var missing []string

	for _, name := range requiredColumns {
		if _, ok := cols[name]; !ok {
			missing = append(missing, name)
		}
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", "))
	}

	return cols, nil
}

func (c columns) get(fields []string, name string) string {
	idx, ok := c[name]
	if !ok || idx >= len(fields) {
		return ""
	}

	return strings.TrimSpace(fields[idx])
}

func (c columns) record(row int, fields []string, inferTypes bool) (LineRecord, *ParseError) {
	rec := LineRecord{
		Commit:   c.get(fields, ColCommit),
		Author:   c.get(fields, ColAuthor),
		File:     c.get(fields, ColFile),
		Type:     c.get(fields, ColType),
		Date:     c.get(fields, ColDate),
		Time:     c.get(fields, ColTime),
		Timezone: c.get(fields, ColTimezone),
	}

	for _, req := range []struct{ name, value string }{
		{ColCommit, rec.Commit},
		{ColAuthor, rec.Author},
		{ColFile, rec.File},
	} {
		if req.value == "" {
			return LineRecord{}, rowError(row, req.name, ErrMissingField)
		}
	}

	var perr *ParseError

	rec.Line, perr = intField(row, ColLine, c.get(fields, ColLine), true, 1)
	if perr != nil {
		return LineRecord{}, perr
	}

	rec.Depth, perr = intField(row, ColDepth, c.get(fields, ColDepth), false, 0)
	if perr != nil {
		return LineRecord{}, perr
	}

	rec.Length, perr = intField(row, ColLength, c.get(fields, ColLength), false, 0)
	if perr != nil {
		return LineRecord{}, perr
	}

	datetime, err := deriveDatetime(rec.Date, rec.Time, rec.Timezone)
	if err != nil {
		fallback, fbErr := time.Parse(time.RFC3339, c.get(fields, ColDatetime))
		if fbErr != nil {
			return LineRecord{}, rowError(row, ColDatetime, err)
		}

		datetime = fallback
	}

	rec.Datetime = datetime

	if rec.Type == "" && inferTypes {
		if lang, _ := enry.GetLanguageByExtension(rec.File); lang != "" {
			rec.Type = lang
		}
	}

	return rec, nil
}

func intField(row int, column, raw string, required bool, minValue int) (int, *ParseError) {
	if raw == "" {
		if required {
			return 0, rowError(row, column, ErrMissingField)
		}

		return 0, nil
	}

	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, rowError(row, column, fmt.Errorf("%w: %q", ErrNotNumeric, raw))
	}

	if v < minValue {
		return 0, rowError(row, column, fmt.Errorf("%w: %d < %d", ErrOutOfRange, v, minValue))
	}

	return v, nil
}

// deriveDatetime combines a calendar date, a clock time and a UTC offset into
// an instant in that fixed zone. The clock may carry its own trailing offset,
// which is used only when the timezone field is empty.
func deriveDatetime(date, clock, tz string) (time.Time, error) {
	if date == "" || clock == "" {
		return time.Time{}, fmt.Errorf("%w: date or time is empty", ErrBadTimestamp)
	}

	day, err := time.Parse(dateLayout, date)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date %q", ErrBadTimestamp, date)
	}

	clockPart, embedded := splitOffset(clock)
	if tz == "" {
		tz = embedded
	}

	if tz == "" {
		return time.Time{}, fmt.Errorf("%w: no timezone", ErrBadTimestamp)
	}

	offset, err := ParseOffset(tz)
	if err != nil {
		return time.Time{}, err
	}

	tod, err := parseClock(clockPart)
	if err != nil {
		return time.Time{}, err
	}

	loc := time.FixedZone(tz, offset)

	return time.Date(day.Year(), day.Month(), day.Day(),
		tod.Hour(), tod.Minute(), tod.Second(), tod.Nanosecond(), loc), nil
}

func parseClock(clock string) (time.Time, error) {
	for _, layout := range clockLayouts {
		t, err := time.Parse(layout, clock)
		if err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("%w: time %q", ErrBadTimestamp, clock)
}

// splitOffset separates "21:26:24-08:00" into "21:26:24" and "-08:00".
func splitOffset(clock string) (string, string) {
	if before, ok := strings.CutSuffix(clock, "Z"); ok {
		return before, "Z"
	}

	if i := strings.IndexAny(clock, "+-"); i > 0 {
		return clock[:i], clock[i:]
	}

	return clock, ""
}

// ParseOffset converts "Z", "UTC", "+05:30", "-0800" or "+02" into seconds
// east of UTC.
func ParseOffset(tz string) (int, error) {
	switch strings.ToUpper(tz) {
	case "Z", "UTC", "GMT":
		return 0, nil
	}

	if len(tz) < 3 || (tz[0] != '+' && tz[0] != '-') {
		return 0, fmt.Errorf("%w: timezone %q", ErrBadTimestamp, tz)
	}

	sign := 1
	if tz[0] == '-' {
		sign = -1
	}

	digits := strings.ReplaceAll(tz[1:], ":", "")

	var hours, minutes int

	var err error

	switch len(digits) {
	case 2:
		hours, err = strconv.Atoi(digits)
	case 4:
		hours, err = strconv.Atoi(digits[:2])
		if err == nil {
			minutes, err = strconv.Atoi(digits[2:])
		}
	default:
		err = ErrBadTimestamp
	}

	if err != nil || hours > 23 || minutes > 59 {
		return 0, fmt.Errorf("%w: timezone %q", ErrBadTimestamp, tz)
	}

	return sign * (hours*secPerHour + minutes*secPerMin), nil
}
