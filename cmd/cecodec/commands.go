package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"go.uber.org/zap"

	"github.com/jittakal/kafeventcodec/internal/config"
	"github.com/jittakal/kafeventcodec/internal/generator"
	"github.com/jittakal/kafeventcodec/pkg/codec"
	"github.com/jittakal/kafeventcodec/pkg/errors"
	"github.com/jittakal/kafeventcodec/pkg/event"
	"github.com/jittakal/kafeventcodec/pkg/format"
	"github.com/jittakal/kafeventcodec/pkg/interop"
)

func runConvert(a *app) error {
	from, to, err := a.formats()
	if err != nil {
		return err
	}

	input, err := a.readInput()
	if err != nil {
		return err
	}

	events, single, err := a.decode(from, input)
	if err != nil {
		return fmt.Errorf("failed to decode %s input: %w", from, err)
	}

	// A lone object stays a lone object when the output format allows it
	var output []byte
	if single && len(events) == 1 && to != codec.FormatAvroOCF && to != codec.FormatParquet {
		output, err = a.encodeOne(to, events[0])
	} else {
		output, err = a.encodeBatch(to, events)
	}
	if err != nil {
		return fmt.Errorf("failed to encode %s output: %w", to, err)
	}

	if err := a.writeOutput(output); err != nil {
		return err
	}

	a.logger.Info("Converted events",
		zap.String("from", from.String()),
		zap.String("to", to.String()),
		zap.Int("count", len(events)),
		zap.Int("inputBytes", len(input)),
		zap.Int("outputBytes", len(output)),
	)
	return nil
}

func runGenerate(a *app) error {
	to, err := format.ParseFormat(a.cfg.Codec.OutputFormat)
	if err != nil {
		return err
	}

	gen, err := generator.NewGenerator(a.cfg.Generator, a.logger)
	if err != nil {
		return err
	}
	events, err := gen.GenerateBatch(a.cfg.Generator.Count)
	if err != nil {
		return err
	}

	output, err := a.encodeBatch(to, events)
	if err != nil {
		return fmt.Errorf("failed to encode %s output: %w", to, err)
	}
	return a.writeOutput(output)
}

// runValidate converts every event to the CloudEvents SDK and reports those it rejects.
func runValidate(a *app) error {
	from, err := format.ParseFormat(a.cfg.Codec.InputFormat)
	if err != nil {
		return err
	}

	input, err := a.readInput()
	if err != nil {
		return err
	}
	events, _, err := a.decode(from, input)
	if err != nil {
		return fmt.Errorf("failed to decode %s input: %w", from, err)
	}

	invalid := 0
	for i, e := range events {
		if _, err := interop.ToSDK(e); err != nil {
			invalid++
			fmt.Fprintf(a.stdout, "%d\t%s\t%v\n", i, e.ID(), err)
			a.logger.Warn("Invalid event",
				zap.Int("index", i),
				zap.String("eventId", e.ID()),
				zap.String("kind", errors.KindOf(err).String()),
				zap.Error(err),
			)
		}
	}

	a.logger.Info("Validated events", zap.Int("count", len(events)), zap.Int("invalid", invalid))
	if invalid > 0 {
		return fmt.Errorf("%d of %d events are invalid", invalid, len(events))
	}
	return nil
}

func runProbe(a *app) error {
	w := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "FORMAT\tAVAILABLE\tCOMPRESSION")
	for _, f := range format.SupportedFormats() {
		available := format.Available(f)
		if a.metrics != nil {
			a.metrics.SetFormatAvailable(f.String(), available)
		}

		compressions := "-"
		if c := format.SupportedCompressions(f); len(c) > 0 {
			compressions = strings.Join(c, ",")
		}
		fmt.Fprintf(w, "%s\t%t\t%s\n", f, available, compressions)
	}
	return w.Flush()
}

func (a *app) formats() (codec.Format, codec.Format, error) {
	from, err := format.ParseFormat(a.cfg.Codec.InputFormat)
	if err != nil {
		return "", "", err
	}
	to, err := format.ParseFormat(a.cfg.Codec.OutputFormat)
	if err != nil {
		return "", "", err
	}
	return from, to, nil
}

// decode reads every event in input. single reports a JSON object input.
func (a *app) decode(f codec.Format, input []byte) ([]event.Event, bool, error) {
	if f == codec.FormatJSON {
		c := a.instrumentBatch(jsonDocument{format.NewJSON()})
		events, err := c.DecodeBatch(input)
		if err != nil {
			return nil, false, err
		}
		return events, !isJSONArray(input), nil
	}

	c, err := a.batchCodec(f)
	if err != nil {
		return nil, false, err
	}
	events, err := c.DecodeBatch(input)
	return events, false, err
}

func (a *app) encodeOne(f codec.Format, e event.Event) ([]byte, error) {
	c, err := format.NewFactory(f, "").CreateCodec()
	if err != nil {
		return nil, err
	}
	if a.metrics != nil {
		c = format.NewInstrumentedCodec(c, a.metrics)
	}
	return c.Encode(e)
}

func (a *app) encodeBatch(f codec.Format, events []event.Event) ([]byte, error) {
	c, err := a.batchCodec(f)
	if err != nil {
		return nil, err
	}
	return c.EncodeBatch(events)
}

func (a *app) batchCodec(f codec.Format) (codec.BatchCodec, error) {
	c, err := format.NewFactory(f, config.CompressionFor(a.cfg, f)).CreateBatchCodec()
	if err != nil {
		return nil, err
	}
	return a.instrumentBatch(c), nil
}

func (a *app) instrumentBatch(c codec.BatchCodec) codec.BatchCodec {
	if a.metrics == nil {
		return c
	}
	return format.NewInstrumentedBatchCodec(c, a.metrics)
}

func (a *app) readInput() ([]byte, error) {
	path := a.cfg.IO.Input
	if path == "" || path == "-" {
		b, err := io.ReadAll(a.stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return b, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	return b, nil
}

func (a *app) writeOutput(b []byte) error {
	path := a.cfg.IO.Output
	if path == "" || path == "-" {
		_, err := a.stdout.Write(b)
		return err
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	a.logger.Debug("Wrote output", zap.String("path", path), zap.Int("bytes", len(b)))
	return nil
}

// jsonDocument reads a JSON object or array as a batch.
type jsonDocument struct {
	*format.JSON
}

func (d jsonDocument) DecodeBatch(b []byte) ([]event.Event, error) {
	events, _, err := d.DecodeAny(b)
	return events, err
}

func isJSONArray(b []byte) bool {
	trimmed := bytes.TrimLeft(b, " \t\r\n")
	return len(trimmed) > 0 && trimmed[0] == '['
}
