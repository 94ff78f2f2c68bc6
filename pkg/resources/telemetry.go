package resources

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploggrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/log/global"
	"go.opentelemetry.io/otel/propagation"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// HookFn runs once the providers are registered, typically to bridge the logger.
type HookFn func(ctx context.Context) (context.Context, error)

type telemetryOptions struct {
	endpoint string
	insecure bool
}

type TelemetryOption func(*telemetryOptions)

func WithEndpoint(endpoint string) TelemetryOption {
	return func(o *telemetryOptions) { o.endpoint = endpoint }
}

func WithInsecure() TelemetryOption {
	return func(o *telemetryOptions) { o.insecure = true }
}

// Observe sets up traces, metrics and logs exported over OTLP/gRPC. With OTEL_ENABLED off only
// the propagator is installed and the global no-op providers stay in place.
func Observe(ctx context.Context, name string, version string, env string, hookFn HookFn, opts ...TelemetryOption) (context.Context, StopFn, error) {
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	if !viper.GetBool("OTEL_ENABLED") {
		log.Ctx(ctx).Info().Str("stage", "startup").Str("component", "telemetry").Msg("telemetry export disabled")
		return ctx, StopNothing, nil
	}

	options := telemetryOptions{endpoint: viper.GetString("OTEL_ENDPOINT")}
	for _, opt := range opts {
		opt(&options)
	}

	res, err := resource.New(ctx, resource.WithAttributes(
		attribute.String("service.name", name),
		attribute.String("service.version", version),
		attribute.String("deployment.environment.name", env),
	))
	if err != nil {
		return ctx, StopNothing, fmt.Errorf("failed to create the otel resource: %w", err)
	}

	tp, err := newTracerProvider(ctx, res, options)
	if err != nil {
		return ctx, StopNothing, err
	}

	otel.SetTracerProvider(tp)

	mp, err := newMeterProvider(ctx, res, options)
	if err != nil {
		return ctx, shutdown(tp.Shutdown), err
	}

	otel.SetMeterProvider(mp)

	lp, err := newLoggerProvider(ctx, res, options)
	if err != nil {
		return ctx, shutdown(tp.Shutdown, mp.Shutdown), err
	}

	global.SetLoggerProvider(lp)

	stopFn := shutdown(lp.Shutdown, mp.Shutdown, tp.Shutdown)

	if hookFn != nil {
		ctx, err = hookFn(ctx)
		if err != nil {
			return ctx, stopFn, fmt.Errorf("failed to run the telemetry hook: %w", err)
		}
	}

	return ctx, stopFn, nil
}

func shutdown(fns ...func(context.Context) error) StopFn {
	return func(ctx context.Context, timeout time.Duration) {
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		var errs []error
		for _, fn := range fns {
			errs = append(errs, fn(ctx))
		}

		err := errors.Join(errs...)
		if err != nil {
			log.Ctx(ctx).Error().Str("stage", "shut down").Str("component", "telemetry").Err(err).Msg("failed to flush telemetry")
		}
	}
}

func newTracerProvider(ctx context.Context, res *resource.Resource, options telemetryOptions) (*sdktrace.TracerProvider, error) {
	opts := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(options.endpoint)}
	if options.insecure {
		opts = append(opts, otlptracegrpc.WithInsecure())
	}

	exp, err := otlptracegrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create the OTLP trace exporter: %w", err)
	}

	return sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(res),
	), nil
}

func newMeterProvider(ctx context.Context, res *resource.Resource, options telemetryOptions) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithEndpoint(options.endpoint)}
	if options.insecure {
		opts = append(opts, otlpmetricgrpc.WithInsecure())
	}

	exp, err := otlpmetricgrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create the OTLP metric exporter: %w", err)
	}

	return sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exp)),
		sdkmetric.WithResource(res),
	), nil
}

func newLoggerProvider(ctx context.Context, res *resource.Resource, options telemetryOptions) (*sdklog.LoggerProvider, error) {
	opts := []otlploggrpc.Option{otlploggrpc.WithEndpoint(options.endpoint)}
	if options.insecure {
		opts = append(opts, otlploggrpc.WithInsecure())
	}

	exp, err := otlploggrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create the OTLP log exporter: %w", err)
	}

	return sdklog.NewLoggerProvider(
		sdklog.WithProcessor(sdklog.NewBatchProcessor(exp)),
		sdklog.WithResource(res),
	), nil
}
