package services

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"golang.org/x/sync/errgroup"

	"restaurant-dashboard/internal/models"
)

const (
	batchSize        = 10000
	maxWorkers       = 10
	defaultCacheSize = 8
)

var (
	ErrEmptySource       = errors.New("source has no rows")
	ErrUnsupportedSource = errors.New("unsupported source format")
	ErrMissingColumn     = errors.New("missing required column")
	ErrMalformedDate     = errors.New("malformed date")
	ErrMalformedNumber   = errors.New("malformed number")
)

type ColumnNames struct {
	Date     string
	Item     string
	Quantity string
	Total    string
}

func DefaultColumns() ColumnNames {
	return ColumnNames{
		Date:     "Date",
		Item:     "Item",
		Quantity: "Qty.",
		Total:    "Total (₹)",
	}
}

type LoaderOptions struct {
	// Sheet selects the worksheet of a spreadsheet source. Empty means the first sheet.
	Sheet   string
	Columns ColumnNames
	// CacheSize bounds the number of distinct sources kept in memory.
	// Zero or less means defaultCacheSize.
	CacheSize int
}

// Loader reads transaction sources and caches each loaded Store by absolute
// source path. A cached Store is never refreshed from disk, so edits to a
// source show up only after a restart. The cache holds at most CacheSize
// sources; loading one more drops the least recently used, which is read
// again on its next Load. The web server and CLI each load a single source,
// so there the Store lives until the process exits.
type Loader struct {
	opts   LoaderOptions
	cache  *lru.Cache[string, *Store]
	logger *slog.Logger
}

func NewLoader(opts LoaderOptions, logger *slog.Logger) (*Loader, error) {
	if opts.CacheSize <= 0 {
		opts.CacheSize = defaultCacheSize
	}
	if opts.Columns == (ColumnNames{}) {
		opts.Columns = DefaultColumns()
	}
	if logger == nil {
		logger = slog.Default()
	}

	cache, err := lru.New[string, *Store](opts.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("create load cache: %w", err)
	}

	return &Loader{opts: opts, cache: cache, logger: logger}, nil
}

func (l *Loader) Load(ctx context.Context, source string) (*Store, error) {
	key := cacheKey(source)
	if store, ok := l.cache.Get(key); ok {
		l.logger.Debug("loaded from cache", "source", source, "records", store.Len())
		return store, nil
	}

	start := time.Now()
	l.logger.Info("loading transactions", "source", source)

	rows, dates, err := l.readRows(source)
	if err != nil {
		return nil, err
	}

	records, err := l.parseRows(ctx, rows, dates)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", source, err)
	}

	store := NewStore(source, records)
	l.cache.Add(key, store)

	duration := time.Since(start)
	l.logger.Info("transactions loaded",
		"source", source,
		"records", store.Len(),
		"duration", duration,
	)
	return store, nil
}

func cacheKey(source string) string {
	if abs, err := filepath.Abs(source); err == nil {
		return abs
	}
	return filepath.Clean(source)
}

// dateParser turns one date cell into a calendar day.
type dateParser func(string) (time.Time, error)

// readRows returns the raw rows of source and the date parser matching its
// format. Only spreadsheet cells may carry serial day numbers.
func (l *Loader) readRows(source string) ([][]string, dateParser, error) {
	switch strings.ToLower(filepath.Ext(source)) {
	case ".xlsx", ".xlsm":
		rows, err := l.readSpreadsheet(source)
		return rows, parseCellDate, err
	case ".csv":
		rows, err := readCSV(source)
		return rows, parseDate, err
	}
	return nil, nil, fmt.Errorf("%w: %s", ErrUnsupportedSource, source)
}

func (l *Loader) readSpreadsheet(source string) ([][]string, error) {
	f, err := excelize.OpenFile(source)
	if err != nil {
		return nil, fmt.Errorf("open spreadsheet: %w", err)
	}
	defer f.Close()

	sheet := l.opts.Sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, ErrEmptySource
		}
		sheet = sheets[0]
	}

	// Raw values keep dates as serial numbers instead of locale-formatted text.
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	return rows, nil
}

func readCSV(source string) ([][]string, error) {
	file, err := os.Open(source)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	var rows [][]string
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		rows = append(rows, record)
	}
	return rows, nil
}

type columnIndex struct {
	date, item, quantity, total int
}

func (l *Loader) locateColumns(header []string) (columnIndex, error) {
	idx := columnIndex{date: -1, item: -1, quantity: -1, total: -1}
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		switch name {
		case l.opts.Columns.Date:
			idx.date = i
		case l.opts.Columns.Item:
			idx.item = i
		case l.opts.Columns.Quantity:
			idx.quantity = i
		case l.opts.Columns.Total:
			idx.total = i
		}
	}

	var missing []string
	if idx.date < 0 {
		missing = append(missing, l.opts.Columns.Date)
	}
	if idx.item < 0 {
		missing = append(missing, l.opts.Columns.Item)
	}
	if idx.quantity < 0 {
		missing = append(missing, l.opts.Columns.Quantity)
	}
	if idx.total < 0 {
		missing = append(missing, l.opts.Columns.Total)
	}
	if len(missing) > 0 {
		return idx, fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", "))
	}
	return idx, nil
}

type parsedRow struct {
	rec   models.TransactionRecord
	valid bool
}

type rowParser struct {
	cols      columnIndex
	parseDate dateParser
}

func (l *Loader) parseRows(ctx context.Context, rows [][]string, dates dateParser) ([]models.TransactionRecord, error) {
	if len(rows) == 0 {
		return nil, ErrEmptySource
	}

	cols, err := l.locateColumns(rows[0])
	if err != nil {
		return nil, err
	}
	p := rowParser{cols: cols, parseDate: dates}

	data := rows[1:]
	parsed := make([]parsedRow, len(data))

	for offset := 0; offset < len(data); offset += batchSize {
		end := min(offset+batchSize, len(data))
		if err := parseBatch(ctx, data[offset:end], parsed[offset:end], offset, p); err != nil {
			return nil, err
		}
	}

	records := make([]models.TransactionRecord, 0, len(parsed))
	for _, p := range parsed {
		if p.valid {
			records = append(records, p.rec)
		}
	}
	return records, nil
}

func parseBatch(ctx context.Context, batch [][]string, out []parsedRow, offset int, p rowParser) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxWorkers)

	for i, row := range batch {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			rec, ok, err := p.parse(row)
			if err != nil {
				// header is row 1 and data rows start at row 2
				return fmt.Errorf("row %d: %w", offset+i+2, err)
			}
			out[i] = parsedRow{rec: rec, valid: ok}
			return nil
		})
	}

	return g.Wait()
}

func (p rowParser) parse(row []string) (models.TransactionRecord, bool, error) {
	if isBlank(row) {
		return models.TransactionRecord{}, false, nil
	}
	idx := p.cols

	date, err := p.parseDate(cell(row, idx.date))
	if err != nil {
		return models.TransactionRecord{}, false, err
	}

	qty, err := parseQuantity(cell(row, idx.quantity))
	if err != nil {
		return models.TransactionRecord{}, false, err
	}

	total, err := parseAmount(cell(row, idx.total))
	if err != nil {
		return models.TransactionRecord{}, false, err
	}

	return models.TransactionRecord{
		Date:     date,
		Item:     cell(row, idx.item),
		Quantity: qty,
		Total:    total,
	}, true, nil
}

func cell(row []string, i int) string {
	if i < len(row) {
		return strings.TrimSpace(row[i])
	}
	return ""
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006/01/02",
	"01/02/2006",
	"1/2/2006",
	"01-02-2006",
	"1/2/06",
	"02 Jan 2006",
	"Jan 2, 2006",
}

// Serial day numbers excelize can convert: 1900-01-01 through 9999-12-31.
const (
	minSerialDate = 1
	maxSerialDate = 2958465
)

// parseCellDate reads a spreadsheet date cell. Raw cells hold serial day
// numbers; text cells fall back to parseDate.
func parseCellDate(s string) (time.Time, error) {
	serial, err := decimal.NewFromString(s)
	if err != nil {
		return parseDate(s)
	}

	f := serial.InexactFloat64()
	if f < minSerialDate || f >= maxSerialDate+1 {
		return time.Time{}, fmt.Errorf("%w: serial %q out of range", ErrMalformedDate, s)
	}
	t, err := excelize.ExcelDateToTime(f, false)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrMalformedDate, s)
	}
	return truncateDate(t), nil
}

// parseDate accepts common textual layouts, month before day as pandas does
// by default. The result is truncated to the calendar date in UTC.
func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: empty value", ErrMalformedDate)
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return truncateDate(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrMalformedDate, s)
}

func truncateDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func parseQuantity(s string) (int, error) {
	d, err := decimal.NewFromString(s)
	if err != nil || !d.IsInteger() || d.IsNegative() {
		return 0, fmt.Errorf("%w: quantity %q", ErrMalformedNumber, s)
	}
	return int(d.IntPart()), nil
}

// parseAmount tolerates currency prefixes ("₹", "INR", "Rs.") and
// thousands separators.
func parseAmount(s string) (decimal.Decimal, error) {
	cleaned := trimCurrencyPrefix(s)
	cleaned = strings.NewReplacer(",", "", " ", "", "\u00a0", "").Replace(cleaned)

	d, err := decimal.NewFromString(cleaned)
	if err != nil || d.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: total %q", ErrMalformedNumber, s)
	}
	return d, nil
}

// trimCurrencyPrefix drops leading currency symbols, letters and spaces. A
// dot directly after a letter ends an abbreviation and goes too; any other
// dot is a decimal point and stays.
func trimCurrencyPrefix(s string) string {
	for s != "" {
		r, size := utf8.DecodeRuneInString(s)
		switch {
		case unicode.IsLetter(r):
			s = strings.TrimPrefix(s[size:], ".")
		case unicode.Is(unicode.Sc, r), unicode.IsSpace(r):
			s = s[size:]
		default:
			return s
		}
	}
	return s
}
