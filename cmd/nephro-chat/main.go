package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"

	"github.com/mark3labs/mcp-go/server"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	rag "github.com/HasinduNiran/Nephro-AI-sub000"
	"github.com/HasinduNiran/Nephro-AI-sub000/common/logger"
	"github.com/HasinduNiran/Nephro-AI-sub000/config"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the configuration file")
	logLevel := flag.String("log-level", "info", "log level: debug, info, warn, error")
	metricsAddr := flag.String("metrics-addr", "", "optional address for the Prometheus /metrics endpoint, e.g. :9090")
	flag.Parse()

	logger.SetLevel(logger.ParseLevel(*logLevel))

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	s, err := rag.NewServer(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "start server: %v\n", err)
		os.Exit(1)
	}

	if *metricsAddr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			if err := http.ListenAndServe(*metricsAddr, mux); err != nil {
				logger.Errorf("metrics endpoint stopped: %v", err)
			}
		}()
	}

	logger.Infof("nephro-chat %s serving on stdio", rag.Version)
	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "serve: %v\n", err)
		os.Exit(1)
	}
}
