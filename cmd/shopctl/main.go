// Command shopctl sends one signed request to the TikTok Shop Open API and
// prints the response body.
//
//	shopctl [--config file] [--env file] get <path> [key=value ...]
//	shopctl post <path> --body '{"title":"Tee"}'
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/letanthang/tiktok-shop-ex/component"
	"github.com/letanthang/tiktok-shop-ex/config"
	"github.com/letanthang/tiktok-shop-ex/errors"
	"github.com/letanthang/tiktok-shop-ex/logger"
	"github.com/letanthang/tiktok-shop-ex/observability"
	"github.com/letanthang/tiktok-shop-ex/shop"
	"github.com/letanthang/tiktok-shop-ex/version"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

type options struct {
	configFile   string
	envFile      string
	body         string
	otlpEndpoint string
	showVersion  bool
	method       string
	path         string
	query        [][2]string
}

func parseArgs(args []string, stderr io.Writer) (*options, error) {
	o := &options{}
	fs := pflag.NewFlagSet("shopctl", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVarP(&o.configFile, "config", "c", "", "config file (default: search ./cmd/shopctl/config.yml, ./config.yml)")
	fs.StringVarP(&o.envFile, "env", "e", "", ".env file")
	fs.StringVarP(&o.body, "body", "b", "", "JSON request body, or @file")
	fs.StringVar(&o.otlpEndpoint, "otlp-endpoint", "localhost:4318", "OTLP HTTP endpoint used when tracing is enabled")
	fs.BoolVar(&o.showVersion, "version", false, "print version and exit")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: shopctl [flags] get|post|put|delete <path> [key=value ...]")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if o.showVersion {
		return o, nil
	}

	rest := fs.Args()
	if len(rest) < 2 {
		fs.Usage()
		return nil, fmt.Errorf("method and path are required")
	}
	o.method = strings.ToUpper(rest[0])
	switch o.method {
	case "GET", "POST", "PUT", "DELETE":
	default:
		return nil, fmt.Errorf("unsupported method %q", rest[0])
	}
	o.path = rest[1]
	for _, kv := range rest[2:] {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("query parameter %q must be key=value", kv)
		}
		o.query = append(o.query, [2]string{k, v})
	}
	return o, nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	opts, err := parseArgs(args, stderr)
	if err != nil {
		fmt.Fprintln(stderr, "shopctl:", err)
		return 2
	}
	if opts.showVersion {
		fmt.Fprintln(stdout, version.Full())
		return 0
	}

	var loadOpts []config.LoaderOption
	if opts.configFile != "" {
		loadOpts = append(loadOpts, config.WithConfigFile(opts.configFile))
	}
	if opts.envFile != "" {
		loadOpts = append(loadOpts, config.WithEnvFile(opts.envFile))
	}
	cfg, err := shop.LoadConfig(loadOpts...)
	if err != nil {
		fmt.Fprintln(stderr, "shopctl: load config:", err)
		return 1
	}
	log := logger.NewWithWriter(&cfg.Log, cfg.ServiceName, stderr)
	logger.SetGlobalLogger(log)
	cfg.Logger = log

	body, err := readBody(opts.body)
	if err != nil {
		fmt.Fprintln(stderr, "shopctl:", err)
		return 2
	}

	registry := component.NewRegistry(log)
	if cfg.Tracing {
		tel, err := newTelemetry(cfg.ServiceName, opts.otlpEndpoint, log)
		if err != nil {
			printError(stderr, err)
			return 1
		}
		if err := registry.Register(tel); err != nil {
			printError(stderr, err)
			return 1
		}
		cfg.Metrics = tel.Metrics()
	}
	client := shop.NewComponent("tiktok-shop", cfg, shop.Options{})
	if err := registry.Register(client); err != nil {
		printError(stderr, err)
		return 1
	}

	if err := registry.StartAll(ctx); err != nil {
		_ = registry.StopAll(context.Background())
		printError(stderr, err)
		return 1
	}
	defer func() { _ = registry.StopAll(context.Background()) }()

	for _, d := range registry.Describe() {
		log.Debug("component ready", logger.Fields("name", d.Name, logger.FieldType, d.Type, "details", d.Details))
	}

	var callOpts []shop.CallOption
	for _, kv := range opts.query {
		callOpts = append(callOpts, shop.WithQuery(kv[0], kv[1]))
	}
	resp, err := client.Client().Do(ctx, opts.method, opts.path, body, callOpts...)
	if err != nil {
		printError(stderr, err)
		return 1
	}
	return printJSON(stdout, stderr, resp)
}

func readBody(raw string) (any, error) {
	if raw == "" {
		return nil, nil
	}
	data := []byte(raw)
	if path, ok := strings.CutPrefix(raw, "@"); ok {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read body: %w", err)
		}
		data = b
	}
	if !json.Valid(data) {
		return nil, fmt.Errorf("body is not valid JSON")
	}
	return json.RawMessage(data), nil
}

func printJSON(stdout, stderr io.Writer, v any) int {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintln(stderr, "shopctl:", err)
		return 1
	}
	fmt.Fprintln(stdout, string(out))
	return 0
}

func printError(w io.Writer, err error) {
	appErr, ok := errors.AsAppError(err)
	if !ok {
		fmt.Fprintln(w, "shopctl:", err)
		return
	}
	out, _ := json.MarshalIndent(map[string]any{
		"code":    appErr.Code,
		"message": appErr.Message,
		"details": appErr.Details,
	}, "", "  ")
	fmt.Fprintln(w, string(out))
}

// telemetry runs the OTLP tracer and meter providers as one component.
type telemetry struct {
	tracerCfg observability.TracerConfig
	meterCfg  observability.MeterConfig
	metrics   *observability.Metrics
	log       *logger.Logger
	shutdown  []func(context.Context) error
}

var _ component.Component = (*telemetry)(nil)

func newTelemetry(service, endpoint string, log *logger.Logger) (*telemetry, error) {
	metrics, err := observability.NewMetrics(observability.Meter(service))
	if err != nil {
		return nil, fmt.Errorf("telemetry: %w", err)
	}
	t := &telemetry{
		tracerCfg: observability.DefaultTracerConfig(service),
		meterCfg:  observability.DefaultMeterConfig(service),
		metrics:   metrics,
		log:       log.WithComponent("telemetry"),
	}
	t.tracerCfg.Endpoint = endpoint
	t.meterCfg.Endpoint = endpoint
	return t, nil
}

func (t *telemetry) Name() string { return "telemetry" }

// Metrics returns instruments bound to the global meter provider, which
// Start replaces with the OTLP one.
func (t *telemetry) Metrics() *observability.Metrics { return t.metrics }

func (t *telemetry) Start(ctx context.Context) error {
	tp, err := observability.InitTracer(ctx, &t.tracerCfg, t.log)
	if err != nil {
		return err
	}
	t.shutdown = append(t.shutdown, tp.Shutdown)
	mp, err := observability.InitMeter(ctx, &t.meterCfg, t.log)
	if err != nil {
		return err
	}
	t.shutdown = append(t.shutdown, mp.Shutdown)
	return nil
}

func (t *telemetry) Stop(ctx context.Context) error {
	var first error
	for i := len(t.shutdown) - 1; i >= 0; i-- {
		if err := t.shutdown[i](ctx); err != nil && first == nil {
			first = err
		}
	}
	t.shutdown = nil
	return first
}

func (t *telemetry) Health(_ context.Context) component.Health {
	if len(t.shutdown) == 0 {
		return component.Health{Name: t.Name(), Status: component.StatusUnhealthy, Message: "not started"}
	}
	return component.Health{Name: t.Name(), Status: component.StatusHealthy}
}
