package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kingpin"
	"github.com/gin-gonic/gin"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/version"
	"github.com/sirupsen/logrus"

	"github.com/snowie2000/streamgate/global"
	"github.com/snowie2000/streamgate/handler"
	"github.com/snowie2000/streamgate/route"
	"github.com/snowie2000/streamgate/service"
)

const appName = "streamgate"

var (
	configFile  = kingpin.Flag("config", "yaml config file").Envar("STREAMGATE_CONFIG").String()
	listen      = kingpin.Flag("listen", "listening address").Envar("STREAMGATE_LISTEN").String()
	datadir     = kingpin.Flag("datadir", "directory for the log file").Envar("STREAMGATE_DATADIR").String()
	logLevel    = kingpin.Flag("log-level", "debug, info, warn or error").Envar("STREAMGATE_LOG_LEVEL").String()
	proxyURL    = kingpin.Flag("proxy", "upstream proxy, socks5:// or http://").Envar("STREAMGATE_PROXY").String()
	impersonate = kingpin.Flag("impersonate", "browser fingerprint for upstream requests: chrome, firefox or safari").Envar("STREAMGATE_IMPERSONATE").String()
)

func loadConfig() (*global.Config, error) {
	cfg, err := global.LoadConfig(*configFile)
	if err != nil {
		return nil, err
	}
	if *listen != "" {
		cfg.Listen = *listen
	}
	if *datadir != "" {
		cfg.DataDir = *datadir
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	if *proxyURL != "" {
		cfg.ProxyURL = *proxyURL
	}
	if *impersonate != "" {
		cfg.Impersonate = *impersonate
	}
	return cfg, cfg.Verify()
}

func main() {
	kingpin.Version(version.Print(appName))
	kingpin.Parse()

	cfg, err := loadConfig()
	if err != nil {
		logrus.Fatalf("config: %s", err)
	}
	if cfg.DataDir != "" {
		os.MkdirAll(cfg.DataDir, os.ModePerm)
	}
	global.InitLogger(cfg)
	logrus.Infoln("Server listen", cfg.Listen)

	prometheus.MustRegister(version.NewCollector(appName))

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(handler.Logger(), gin.Recovery())
	resolver := service.NewResolver(cfg, service.NewClient(cfg))
	route.Register(router, handler.NewStreamHandler(cfg, resolver))

	srv := &http.Server{
		Addr:              cfg.Listen,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("listen: %s", err)
		}
	}()
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Infoln("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		// relayed streams never finish on their own
		logrus.Warnf("Server forced to shutdown: %s", err)
		srv.Close()
	}
	logrus.Infoln("Server exiting")
}
