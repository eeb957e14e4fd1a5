package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/yasserrrr2025/rasd2/internal/app"
	"github.com/yasserrrr2025/rasd2/internal/config"
	"github.com/yasserrrr2025/rasd2/internal/logger"
	"github.com/yasserrrr2025/rasd2/internal/server"
	"github.com/yasserrrr2025/rasd2/internal/util"
)

var (
	port       = flag.Int("port", 0, "server port (used only when config.toml does not set one)")
	devMode    = flag.Bool("dev", false, "development mode")
	dataDir    = flag.String("dataDir", "", "data directory (overrides the config file)")
	configPath = flag.String("config", "", "config file (default: config.toml next to the executable)")
	memory     = flag.Bool("memory", false, "keep state in memory only")
)

func main() {
	flag.Parse()

	fmt.Println("==========================================")
	fmt.Println("  Rasd - grade recording tracker")
	fmt.Println("==========================================")

	path := *configPath
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, info, err := config.LoadFile(path)
	if err != nil {
		log.Printf("failed to load config, using defaults: %v", err)
		cfg = config.DefaultConfig()
		info = config.LoadConfigInfo{}
	}

	if *port > 0 && !info.PortSpecified {
		cfg.Server.Port = *port
	}
	if *devMode {
		cfg.Server.DevMode = true
	}
	if *dataDir != "" {
		cfg.Data.DataDir = *dataDir
	}

	baseDir, err := config.GetExeDir()
	if err != nil {
		baseDir = "."
	}
	zl, err := logger.New(cfg.Log, baseDir)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer zl.Sync()

	a, err := app.New(cfg, app.Options{BaseDir: baseDir, Memory: *memory, Logger: zl})
	if err != nil {
		zl.Fatal("failed to start", zap.Error(err))
	}
	defer a.Close()
	fmt.Printf("data directory: %s\n", a.DataDir)

	srv := server.NewServer(a)

	listenPort := cfg.Server.Port
	if !info.PortSpecified {
		listenPort = util.FindAvailablePort(listenPort, 20)
	}
	addr := fmt.Sprintf(":%d", listenPort)
	url := fmt.Sprintf("http://localhost:%d", listenPort)

	go func() {
		zl.Info("server listening", zap.String("addr", addr))
		if err := srv.Run(addr); err != nil {
			zl.Fatal("server failed", zap.Error(err))
		}
	}()

	if cfg.Server.OpenBrowser && !cfg.Server.DevMode {
		fmt.Printf("opening browser: %s\n", url)
		if err := util.OpenBrowser(url); err != nil {
			fmt.Printf("could not open a browser, visit %s\n", url)
		}
	} else {
		fmt.Printf("visit %s\n", url)
	}

	fmt.Println("\npress Ctrl+C to stop...")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	fmt.Println("\nshutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zl.Warn("shutdown incomplete", zap.Error(err))
	}
}
