package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"

	"github.com/2beens/liftlog/internal"
	"github.com/2beens/liftlog/internal/config"
	"github.com/2beens/liftlog/internal/logging"
	"github.com/2beens/liftlog/pkg"
)

func main() {
	fmt.Println("starting ...")

	env := flag.String("env", "development", "environment [prod | production | dev | development]")
	configPath := flag.String("config", "./config.toml", "path for the TOML config file")
	envFile := flag.String("env-file", ".env", "optional .env file with secrets")
	migrate := flag.Bool("migrate", false, "apply pending db migrations before serving")
	flag.Parse()

	log.Warnf("---->> running in [%s] environment", *env)

	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		panic(err)
	}

	secrets, err := config.LoadSecrets(*envFile)
	if err != nil {
		panic(err)
	}

	logging.Setup(logging.LoggerSetupParams{
		LogFileName:      cfg.LogsPath,
		LogToStdout:      cfg.LogToStdout,
		LogLevel:         cfg.LogLevel,
		LogFormatJSON:    cfg.LogFormatJSON,
		Environment:      cfg.Environment,
		SentryEnabled:    cfg.SentryEnabled,
		SentryDSN:        secrets.SentryDSN,
		SentryServerName: cfg.SentryServerName(),
	})

	log.Debugf("using port: %d", cfg.Port)
	log.Debugf("using server logs path: [%s]", cfg.LogsPath)

	versionInfo, err := tryGetLastCommitHash()
	if err != nil {
		log.Tracef("failed to get last commit hash / version info: %s", err)
	} else {
		log.Tracef("running version: %s", versionInfo)
	}

	if secrets.RedisPassword == "" {
		log.Warnln("redis password not set. use LIFTLOG_REDIS_PASS")
	}
	if secrets.PostgresPassword == "" {
		log.Warnln("postgres password not set. use LIFTLOG_POSTGRES_PASS")
	}
	if secrets.OtelServiceName == "" {
		log.Warnln("OTEL_SERVICE_NAME env var not set")
	}
	if secrets.HoneycombEnabled {
		if secrets.HoneycombAPIKey == "" {
			log.Warnln("HONEYCOMB_API_KEY env var not set")
		}
	} else {
		log.Debugln("honeycomb tracing disabled")
	}

	chOsInterrupt := make(chan os.Signal, 1)
	signal.Notify(chOsInterrupt, os.Interrupt, syscall.SIGTERM)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	server, err := internal.NewServer(
		ctx,
		internal.NewServerParams{
			Config:                  cfg,
			VersionInfo:             versionInfo,
			RedisPassword:           secrets.RedisPassword,
			PostgresPassword:        secrets.PostgresPassword,
			HoneycombTracingEnabled: secrets.HoneycombEnabled,
			OtelServiceName:         secrets.OtelServiceName,
			RunMigrations:           *migrate,
		},
	)
	if err != nil {
		log.Fatalf("new server: %s", err)
	}

	server.Serve(cfg.Host, cfg.Port)

	receivedSig := <-chOsInterrupt
	log.Warnf("signal [%s] received, shutting down ...", receivedSig)

	server.GracefulShutdown()
}

// tryGetLastCommitHash will try to get the last commit hash
// assumes that the built main executable is in project root
func tryGetLastCommitHash() (string, error) {
	cmd := exec.Command("/usr/bin/git", "rev-parse", "HEAD")
	stdout, err := cmd.Output()
	if err != nil {
		return "", err
	}
	return pkg.BytesToString(stdout), nil
}
