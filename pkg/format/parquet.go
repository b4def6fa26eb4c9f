package format

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/parquet-go/parquet-go"

	"github.com/jittakal/kafeventcodec/pkg/codec"
	"github.com/jittakal/kafeventcodec/pkg/errors"
	"github.com/jittakal/kafeventcodec/pkg/event"
)

// Ensure implementation satisfies interface at compile time.
var _ codec.BatchCodec = (*Parquet)(nil)

// EventParquet is the Parquet row schema for one event.
// Optional attributes are pointers so absent values are stored as NULL.
type EventParquet struct {
	// Required attributes
	Type        string `parquet:"type,dict"`
	Source      string `parquet:"source,dict"`
	ID          string `parquet:"id"`
	SpecVersion string `parquet:"specversion,dict"`

	// Optional attributes
	Subject         *string `parquet:"subject,dict,optional"`
	DataContentType *string `parquet:"datacontenttype,dict,optional"`
	DataSchema      *string `parquet:"dataschema,dict,optional"`
	Time            *string `parquet:"time,optional"`

	// Payload bytes; DataBinary tells Binary from Text.
	Data       []byte `parquet:"data,optional"`
	DataBinary bool   `parquet:"data_binary"`

	// Extensions as a JSON object in insertion order.
	Extensions *string `parquet:"extensions,optional"`
}

// Parquet implements codec.BatchCodec for Apache Parquet columnar files.
// Supports multiple compression codecs: SNAPPY (default), GZIP, LZ4, ZSTD.
type Parquet struct {
	compressionName string
}

// NewParquet creates a Parquet codec with the given compression.
func NewParquet(compression string) *Parquet {
	return &Parquet{
		compressionName: compression,
	}
}

// compressionCodec converts string compression name to parquet WriterOption.
func compressionCodec(compression string) parquet.WriterOption {
	switch strings.ToLower(compression) {
	case "snappy":
		return parquet.Compression(&parquet.Snappy)
	case "gzip":
		return parquet.Compression(&parquet.Gzip)
	case "lz4":
		return parquet.Compression(&parquet.Lz4Raw)
	case "zstd":
		return parquet.Compression(&parquet.Zstd)
	case "uncompressed", "none":
		return parquet.Compression(&parquet.Uncompressed)
	default:
		return parquet.Compression(&parquet.Snappy)
	}
}

// Format returns the file format.
func (p *Parquet) Format() codec.Format {
	return codec.FormatParquet
}

// EncodeBatch writes one row per event.
func (p *Parquet) EncodeBatch(events []event.Event) ([]byte, error) {
	if len(events) == 0 {
		return nil, errors.ErrNoEvents
	}

	rows := make([]EventParquet, len(events))
	for i, e := range events {
		row, err := toParquetRow(e)
		if err != nil {
			return nil, fmt.Errorf("failed to convert event %d: %w", i, err)
		}
		rows[i] = row
	}

	var buf bytes.Buffer
	schema := parquet.SchemaOf(new(EventParquet))
	writer := parquet.NewGenericWriter[EventParquet](
		&buf,
		schema,
		compressionCodec(p.compressionName),
		parquet.CreatedBy("kafeventcodec", "1.0", "0"),
	)

	if _, err := writer.Write(rows); err != nil {
		writer.Close()
		return nil, fmt.Errorf("failed to write events: %w", err)
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to close writer: %w", err)
	}

	return buf.Bytes(), nil
}

// DecodeBatch reads every row back into an event.
func (p *Parquet) DecodeBatch(b []byte) ([]event.Event, error) {
	rows, err := parquet.Read[EventParquet](bytes.NewReader(b), int64(len(b)))
	if err != nil {
		return nil, &errors.DecodeError{Format: codec.FormatParquet.String(), Err: err}
	}

	events := make([]event.Event, 0, len(rows))
	for i, row := range rows {
		e, err := fromParquetRow(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		events = append(events, e)
	}
	return events, nil
}

// FileExtension returns the file extension.
func (p *Parquet) FileExtension() string {
	return ".parquet"
}

func toParquetRow(e event.Event) (EventParquet, error) {
	row := EventParquet{
		Type:            e.Type(),
		Source:          e.Source(),
		ID:              e.ID(),
		SpecVersion:     e.SpecVersion(),
		Subject:         optionalString(e.Subject()),
		DataContentType: optionalString(e.DataContentType()),
		DataSchema:      optionalString(e.DataSchema()),
		Time:            optionalString(e.Time()),
		DataBinary:      e.HasBinaryData(),
	}
	if d := e.Data(); d != nil {
		row.Data = d.Bytes()
	}

	exts, err := encodeExtensions(e)
	if err != nil {
		return EventParquet{}, err
	}
	row.Extensions = exts

	return row, nil
}

func fromParquetRow(row EventParquet) (event.Event, error) {
	opts := event.Options{
		Type:            row.Type,
		Source:          row.Source,
		ID:              row.ID,
		SpecVersion:     row.SpecVersion,
		Subject:         deref(row.Subject),
		DataContentType: deref(row.DataContentType),
		DataSchema:      deref(row.DataSchema),
	}
	if row.Time != nil {
		opts.Time = event.TextTime(*row.Time)
	}
	if len(row.Data) > 0 {
		if row.DataBinary {
			opts.Data = event.Binary(row.Data)
		} else {
			opts.Data = event.Text(row.Data)
		}
	}
	if row.Extensions != nil {
		if err := decodeExtensions(*row.Extensions, &opts); err != nil {
			return event.Event{}, err
		}
	}
	return event.New(opts)
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
