// Package format implements the CloudEvents wire and file formats.
//
// # Supported Formats
//
//   - JSON: the CloudEvents JSON event format, single objects and batch arrays
//   - Avro: single datums against the CloudEvents Avro schema
//   - Avro OCF: Avro Object Container Files holding many events
//   - Parquet: columnar files with one row per event
//
// # Codec Factory
//
// Use Factory to create codec instances by format name:
//
//	factory := format.NewFactory(codec.FormatAvroOCF, "deflate")
//	batch, err := factory.CreateBatchCodec()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// # JSON
//
// Standard attributes are written in a fixed order, followed by data (text
// payloads) or data_base64 (binary payloads), then extensions in insertion
// order:
//
//	b, err := format.NewJSON().Encode(e)
//	// {"type":"OximeterMeasured","source":"oximeter/123","id":"1000","specversion":"1.0","data":"..."}
//
// DecodeAny accepts either an object or an array and reports which it saw.
// Extension values may be floats in JSON; the Avro format cannot carry them.
//
// # Avro
//
// The Avro codec is optional. AvroAvailable probes it once; NewAvro returns an
// error matching errors.ErrUnavailable when it cannot be used, including in
// builds with the noavro tag:
//
//	avro, err := format.NewAvro()
//	if errors.IsUnavailable(err) {
//	    // fall back to JSON
//	}
//
// Attributes are stored in a string-keyed map, so the byte order of encoded
// datums is not stable between runs; decoding is.
//
// # Compression Options
//
// Supported compression codecs:
//
//	Avro OCF: "null", "deflate" (default), "snappy", "gzip"
//	Parquet:  "snappy" (default), "gzip", "lz4", "zstd", "uncompressed"
//
// # Metrics
//
// NewInstrumentedCodec and NewInstrumentedBatchCodec wrap any codec and report
// counts, durations, payload sizes and error kinds to a MetricsCollector.
//
// # Thread Safety
//
// Codec instances hold only read-only state and are safe for concurrent use.
// AvroEncoder and AvroDecoder are not.
package format
