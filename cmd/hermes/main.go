package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"hermes/internal/agent"
	"hermes/internal/api"
	"hermes/internal/app"
	"hermes/internal/disambig"
	"hermes/internal/domain"
	"hermes/internal/infra/config"
	"hermes/internal/infra/logger"
	"hermes/internal/infra/tracer"
	"hermes/internal/registry"
	"hermes/internal/report"
	"hermes/internal/route"
	"hermes/internal/session"
)

func main() {
	cfgPath := flag.String("config", "", "path to the YAML configuration (built-in defaults when empty)")
	serve := flag.Bool("serve", false, "start the HTTP API instead of the interactive prompt")
	flag.Parse()

	if err := run(*cfgPath, *serve, strings.Join(flag.Args(), " ")); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run(cfgPath string, serve bool, query string) error {
	// 1. Config
	var cfg *config.Config
	var err error
	if cfgPath == "" {
		cfg = config.Default()
	} else {
		cfg, err = config.Load(cfgPath, os.Getenv("HERMES_PASSPHRASE"))
		if err != nil {
			return fmt.Errorf("config: %w", err)
		}
	}

	// 2. Logger & Tracer
	log, logCloser, err := logger.New(cfg.Logger)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer logCloser()

	ctx := context.Background()
	tracerShutdown, err := tracer.Setup(ctx, cfg.Tracer)
	if err != nil {
		return fmt.Errorf("tracer: %w", err)
	}
	defer tracerShutdown(ctx)

	// 3. Sessions
	store := session.NewMemoryStore(cfg.Sessions.MaxIdle, log)
	reaper, err := session.NewReaper(store, cfg.Sessions.ReapSchedule, log)
	if err != nil {
		return fmt.Errorf("session reaper: %w", err)
	}
	reaper.Start()
	defer reaper.Stop()

	// 4. Agents
	reg := registry.New(log)
	if err := buildAgents(cfg, reg, store, log); err != nil {
		return fmt.Errorf("agents: %w", err)
	}

	// 5. Router
	router, err := buildRouter(cfg, reg, log)
	if err != nil {
		return fmt.Errorf("router: %w", err)
	}

	// 6. Reporting
	reporter, reporterCloser, err := buildReporter(cfg, log)
	if err != nil {
		return fmt.Errorf("reporter: %w", err)
	}
	defer reporterCloser()

	// 7. Application
	application := app.New(router, log)
	application.SetReporter(reporter)
	if len(cfg.Filters.WakeWords) > 0 {
		application.SetFilters(app.WakeWordFilter(cfg.Filters.WakeWords...))
	}
	defer application.Close()

	// 8. Graceful shutdown
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	log.Info("hermes starting",
		"agents", reg.Len(),
		"strategies", cfg.Routing.Strategies,
		"serve", serve || cfg.API.Enabled,
	)

	if query != "" {
		resp := application.Process(ctx, domain.NewRequest(query))
		fmt.Println(renderResponse(resp))
		return nil
	}
	if serve || cfg.API.Enabled {
		return runServer(ctx, cfg.API, application, log)
	}
	return runREPL(ctx, application)
}

// buildAgents instantiates and registers every configured agent.
func buildAgents(cfg *config.Config, reg *registry.Registry, store session.Service, log *slog.Logger) error {
	for _, ac := range cfg.Agents {
		var a domain.Agent
		switch ac.Kind {
		case "echo":
			e := agent.NewEcho()
			e.SetName(ac.Name)
			a = e
		case "clock":
			c := agent.NewClock()
			c.SetName(ac.Name)
			a = c
		case "knowledge":
			a = agent.NewKnowledge(ac.Name, store, disambig.NewMapSource(ac.Facts), ac.Threshold, log)
		case "remote":
			var opts []agent.RemoteOption
			if ac.AuthToken != "" {
				opts = append(opts, agent.WithAuthToken(ac.AuthToken))
			}
			a = agent.NewRemote(ac.Name, ac.Endpoint, agent.BreakerConfig{}, log, opts...)
		default:
			return fmt.Errorf("unknown agent kind %q", ac.Kind)
		}
		reg.Register(a)
	}
	return nil
}

// buildRouter assembles the strategy chain in configured order.
func buildRouter(cfg *config.Config, reg *registry.Registry, log *slog.Logger) (route.Router, error) {
	params := make([]route.AgentParams, 0, len(cfg.Agents))
	for _, ac := range cfg.Agents {
		a, ok := reg.Get(ac.Name)
		if !ok {
			continue
		}
		params = append(params, route.AgentParams{
			Agent: a,
			Params: map[string][]string{
				route.ParamKeywords: ac.Keywords,
				route.ParamRegex:    ac.Regex,
				route.ParamTriggers: ac.Triggers,
			},
		})
	}

	var members []route.Router
	for _, s := range cfg.Routing.Strategies {
		switch s {
		case "trigger":
			members = append(members, route.NewTrigger(params, log))
		case "keyword":
			members = append(members, route.NewKeyword(params))
		case "regex":
			r, err := route.NewRegex(params)
			if err != nil {
				return nil, err
			}
			members = append(members, r)
		case "fixed":
			members = append(members, route.NewFixed(reg, cfg.Routing.Fallback, log))
		default:
			return nil, fmt.Errorf("unknown routing strategy %q", s)
		}
	}
	return route.NewChain(members...), nil
}

// buildReporter assembles the configured reporting backends.
func buildReporter(cfg *config.Config, log *slog.Logger) (report.Reporter, func(), error) {
	var reporters []report.Reporter
	closer := func() {}
	for _, b := range cfg.Report.Backends {
		switch b {
		case "log":
			reporters = append(reporters, report.NewLogReporter(log))
		case "sqlite":
			sq, err := report.NewSQLiteReporter(cfg.Report.SQLitePath)
			if err != nil {
				return nil, nil, err
			}
			reporters = append(reporters, sq)
			closer = func() {
				if err := sq.Close(); err != nil {
					log.Error("closing report store", "error", err)
				}
			}
		default:
			return nil, nil, fmt.Errorf("unknown report backend %q", b)
		}
	}
	return report.Multi(reporters...), closer, nil
}

func runServer(ctx context.Context, cfg config.APIConfig, application *app.Application, log *slog.Logger) error {
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           api.New(application, application.Router(), cfg.RateLimit, cfg.RateBurst, log).Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("http api listening", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func runREPL(ctx context.Context, application *app.Application) error {
	fmt.Println("hermes ready. Type a request, or ctrl-d to quit.")

	lines := make(chan string)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(os.Stdin)
		for sc.Scan() {
			lines <- sc.Text()
		}
	}()

	// Replies carry the session id so a clarifying question can be
	// answered in the same conversation.
	var sessionID string
	for {
		fmt.Print("> ")
		select {
		case <-ctx.Done():
			fmt.Println()
			return nil
		case line, ok := <-lines:
			if !ok {
				fmt.Println()
				return nil
			}
			if strings.TrimSpace(line) == "" {
				continue
			}
			req := domain.NewRequest(line)
			req.SessionID = sessionID
			resp := application.Process(ctx, req)
			sessionID = resp.SessionID
			fmt.Println(renderResponse(resp))
		}
	}
}

func renderResponse(resp *domain.AgentResponse) string {
	if resp == nil {
		return domain.NewErrorResponse(domain.StatusInternalError).Status.Message
	}
	if resp.Text != "" {
		return resp.Text
	}
	return resp.Status.Message
}
