package generator

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jaswdr/faker"
	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"github.com/jittakal/kafeventcodec/internal/config/dto"
	"github.com/jittakal/kafeventcodec/pkg/event"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Generator generates fake measurement events
type Generator struct {
	config *dto.GeneratorConfig
	faker  faker.Faker
	logger *zap.Logger
}

// NewGenerator creates a new event generator.
// It returns an error when config would not produce valid events.
func NewGenerator(config dto.GeneratorConfig, logger *zap.Logger) (*Generator, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid generator config: %w", err)
	}
	return &Generator{
		config: &config,
		faker:  faker.New(),
		logger: logger,
	}, nil
}

// Generate returns one event with a random type from the configured types.
// A share of events set by BinaryRatio carry binary data, the rest JSON.
func (g *Generator) Generate() (event.Event, error) {
	opts := event.Options{
		Type:    g.randomType(),
		Source:  g.config.Source,
		ID:      uuid.New().String(),
		Subject: "patient/" + g.faker.UUID().V4()[0:8],
		Time:    event.At(time.Now().UTC()),
	}

	if g.binary() {
		opts.DataContentType = ContentTypeBinary
		opts.Data = event.Binary(g.faker.RandomStringWithLength(g.faker.IntBetween(8, 64)))
	} else {
		data, err := json.Marshal(g.measurement())
		if err != nil {
			return event.Event{}, fmt.Errorf("failed to encode measurement: %w", err)
		}
		opts.DataContentType = ContentTypeJSON
		opts.Data = event.Text(data)
	}

	if g.config.Extensions > 0 {
		opts.Extensions = event.NewExtensions()
		for i := 0; i < g.config.Extensions; i++ {
			name, value := g.extension(i)
			if err := opts.Extensions.Set(name, value); err != nil {
				return event.Event{}, err
			}
		}
	}

	e, err := event.New(opts)
	if err != nil {
		return event.Event{}, err
	}

	g.logger.Debug("Generated event",
		zap.String("eventId", e.ID()),
		zap.String("eventType", e.Type()),
		zap.Bool("binaryData", e.HasBinaryData()),
	)
	return e, nil
}

// GenerateBatch returns n events.
func (g *Generator) GenerateBatch(n int) ([]event.Event, error) {
	events := make([]event.Event, 0, n)
	for i := 0; i < n; i++ {
		e, err := g.Generate()
		if err != nil {
			return nil, fmt.Errorf("event %d: %w", i, err)
		}
		events = append(events, e)
	}
	g.logger.Info("Generated events", zap.Int("count", len(events)))
	return events, nil
}

// Helper functions for generating realistic data

func (g *Generator) measurement() MeasurementData {
	return MeasurementData{
		DeviceID:    g.generateDeviceID(),
		PatientName: g.faker.Person().Name(),
		SpO2:        g.faker.IntBetween(88, 100),
		PulseRate:   g.faker.IntBetween(45, 140),
		Perfusion:   float64(g.faker.IntBetween(2, 200)) / 10,
		Ward:        g.faker.Address().City() + " Ward",
	}
}

func (g *Generator) generateDeviceID() string {
	return "OX" + g.faker.UUID().V4()[0:6]
}

func (g *Generator) randomType() string {
	types := g.config.Types
	return types[g.faker.IntBetween(0, len(types)-1)]
}

func (g *Generator) binary() bool {
	if g.config.BinaryRatio <= 0 {
		return false
	}
	return g.faker.IntBetween(1, 100) <= int(g.config.BinaryRatio*100)
}

// extension returns the i-th extension attribute. Names repeat with a numeric
// suffix once the kinds are used up.
func (g *Generator) extension(i int) (string, any) {
	kinds := []string{"location", "sequence", "calibrated"}
	name := kinds[i%len(kinds)]
	if round := i / len(kinds); round > 0 {
		name = fmt.Sprintf("%s%d", name, round)
	}

	switch i % len(kinds) {
	case 0:
		return name, g.faker.Address().City()
	case 1:
		return name, g.faker.IntBetween(1, 1_000_000)
	default:
		return name, g.faker.IntBetween(0, 1) == 1
	}
}
