// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/poiesic/refind/ai"
	"github.com/poiesic/refind/ai/openai"
	"github.com/poiesic/refind/cache"
	"github.com/poiesic/refind/config"
	"github.com/poiesic/refind/core"
	"github.com/poiesic/refind/httpapi"
	"github.com/poiesic/refind/rerank"
	"github.com/poiesic/refind/rules"
	"github.com/poiesic/refind/storage/badger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "refind",
		Usage: "Lost-and-found item search with rule and semantic reranking",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the refind HTTP server",
				Action: serveCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to YAML configuration file",
					},
				},
			},
			{
				Name:   "seed",
				Usage:  "Load sample found items into the database",
				Action: seedCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func serveCommand(c *cli.Context) error {
	cfg, errs := config.Load(c.String("config"))
	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	logger := slog.Default()
	logger.Info("starting refind server")
	for key, value := range cfg.LogSummary() {
		logger.Debug("config", key, value)
	}

	backend, err := badger.OpenBackend(cfg.DBPath, false)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer backend.Close()

	repo, err := badger.NewItemRepository(backend)
	if err != nil {
		return fmt.Errorf("failed to create item repository: %w", err)
	}
	defer repo.Close()

	aiConfig := ai.NewConfig(
		ai.WithBaseURL(cfg.LLMBaseURL),
		ai.WithModel(cfg.LLMModel),
		ai.WithAPIKey(cfg.LLMAPIKey),
		ai.WithTimeout(time.Duration(cfg.LLMTimeoutSeconds*float64(time.Second))),
	)
	scorer, err := openai.NewScorer(aiConfig)
	if err != nil {
		return fmt.Errorf("failed to create semantic scorer: %w", err)
	}

	cached, err := ai.NewCachedScorer(
		scorer,
		cache.NewStore(),
		aiConfig.Model,
		time.Duration(cfg.CacheTTLSeconds*float64(time.Second)),
	)
	if err != nil {
		return fmt.Errorf("failed to create scorer cache: %w", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := rerank.NewMetrics()
	if err := metrics.Register(registry); err != nil {
		return fmt.Errorf("failed to register metrics: %w", err)
	}

	ruleScorer := rules.NewScorer(rules.Config{
		BrandWeight:   20.0,
		ColorWeight:   15.0,
		PlaceWeight:   15.0,
		TextWeight:    10.0,
		SigmaKm:       cfg.SigmaKm,
		HalfLifeHours: cfg.HalfLifeHours,
	})

	pipeline, err := rerank.NewPipeline(ruleScorer, cached, rerank.Config{
		TopK:           cfg.TopKLimit,
		RuleWeight:     cfg.RuleWeight,
		SemanticWeight: cfg.SemanticWeight,
		SoftmaxTau:     cfg.SoftmaxTau,
	},
		rerank.WithPoolSize(max(1, runtime.NumCPU()/2)),
		rerank.WithMetrics(metrics),
	)
	if err != nil {
		return fmt.Errorf("failed to create pipeline: %w", err)
	}
	defer pipeline.Close()

	server, err := httpapi.NewServer(repo, pipeline, httpapi.WithRegistry(registry))
	if err != nil {
		return fmt.Errorf("failed to create http server: %w", err)
	}

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           server.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", httpServer.Addr)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return err
		}
	}

	return nil
}

func seedCommand(c *cli.Context) error {
	backend, err := badger.OpenBackend(c.String("db"), false)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer backend.Close()

	repo, err := badger.NewItemRepository(backend)
	if err != nil {
		return fmt.Errorf("failed to create item repository: %w", err)
	}
	defer repo.Close()

	now := time.Now().UTC()
	items := []*core.FoundItem{
		{
			Name: "검은색 가죽 지갑", Category: "지갑", Brand: "루이비통", Color: "검은색",
			StoredPlace: "강남역 유실물센터", FeaturesText: "카드 여러 장, 현금 없음",
			Lat: 37.4979, Lon: 127.0276, HasLocation: true,
			FoundAt: now.Add(-3 * time.Hour),
		},
		{
			Name: "은색 스마트폰", Category: "휴대폰", Brand: "삼성", Color: "은색",
			StoredPlace: "홍대입구역 고객센터", FeaturesText: "투명 케이스, 배터리 방전",
			Lat: 37.5572, Lon: 126.9245, HasLocation: true,
			FoundAt: now.Add(-26 * time.Hour),
		},
		{
			Name: "파란색 우산", Category: "우산", Color: "파란색",
			StoredPlace: "서울역 대합실", FeaturesText: "장우산, 손잡이 나무 재질",
			Lat: 37.5547, Lon: 126.9707, HasLocation: true,
			FoundAt: now.Add(-72 * time.Hour),
		},
		{
			Name: "갈색 백팩", Category: "가방", Brand: "노스페이스", Color: "갈색",
			StoredPlace: "잠실역 유실물센터", FeaturesText: "노트북 파우치 포함",
			Lat: 37.5133, Lon: 127.1001, HasLocation: true,
			FoundAt: now.Add(-10 * time.Hour),
		},
		{
			Name: "무선 이어폰", Category: "전자기기", Brand: "애플", Color: "흰색",
			StoredPlace: "광화문 빌딩 안내데스크", FeaturesText: "충전 케이스만 발견",
			FoundAt: now.Add(-50 * time.Hour),
		},
	}

	stored, err := repo.AddItems(c.Context, items...)
	if err != nil {
		return fmt.Errorf("failed to seed items: %w", err)
	}

	for _, item := range stored {
		slog.Info("seeded item", "id", uint64(item.Id), "name", item.Name)
	}
	return nil
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

	// Map string to slog.Level
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	// Configure slog with the specified level
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
