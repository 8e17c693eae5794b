package observability

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// LoggerFactory and MetricsFactory decouple the provider from concrete
// implementations so the packages below can depend on this one.
type (
	LoggerFactory  func(serviceName, environment, logLevel string, output io.Writer, fields Fields) Logger
	MetricsFactory func(prefix string) Metrics
)

// DefaultProvider implements Provider with lazily created, per-component
// singleton Logger and Metrics instances.
type DefaultProvider struct {
	config     *Config
	output     io.Writer
	newLogger  LoggerFactory
	newMetrics MetricsFactory

	mu      sync.RWMutex
	loggers map[string]Logger
	metrics map[string]Metrics
}

// NewProvider creates a provider writing logs to output (os.Stdout when
// nil). The factories construct the concrete logger and metrics
// implementations; see cmd/server for the standard wiring.
func NewProvider(config *Config, output io.Writer, newLogger LoggerFactory, newMetrics MetricsFactory) *DefaultProvider {
	if output == nil {
		output = os.Stdout
	}
	return &DefaultProvider{
		config:     config,
		output:     output,
		newLogger:  newLogger,
		newMetrics: newMetrics,
		loggers:    make(map[string]Logger),
		metrics:    make(map[string]Metrics),
	}
}

// Logger returns the Logger for a component, creating it on first use.
// Every entry carries a "component" field and a service name of the form
// "{service}.{component}".
func (p *DefaultProvider) Logger(component string) Logger {
	p.mu.RLock()
	if l, ok := p.loggers[component]; ok {
		p.mu.RUnlock()
		return l
	}
	p.mu.RUnlock()

	p.mu.Lock()
	defer p.mu.Unlock()

	if l, ok := p.loggers[component]; ok {
		return l
	}

	fields := make(Fields, len(p.config.AdditionalFields)+1)
	for k, v := range p.config.AdditionalFields {
		fields[k] = v
	}
	fields["component"] = component

	serviceName := fmt.Sprintf("%s.%s", p.config.ServiceName, component)
	l := p.newLogger(serviceName, p.config.Environment, p.config.LogLevel, p.output, fields)
	p.loggers[component] = l
	return l
}

// Metrics returns the Metrics for a component, creating it on first use.
// Metric names are prefixed "{service}_{component}".
func (p *DefaultProvider) Metrics(component string) Metrics {
	p.mu.RLock()
	if m, ok := p.metrics[component]; ok {
		p.mu.RUnlock()
		return m
	}
	p.mu.RUnlock()

	p.mu.Lock()
	defer p.mu.Unlock()

	if m, ok := p.metrics[component]; ok {
		return m
	}

	m := p.newMetrics(fmt.Sprintf("%s_%s", p.config.ServiceName, component))
	p.metrics[component] = m
	return m
}
