package main

import (
	"context"
	"flag"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/2beens/liftlog/internal/config"
	"github.com/2beens/liftlog/internal/db"
	"github.com/2beens/liftlog/internal/logging"
)

func main() {
	env := flag.String("env", "development", "environment [prod | production | dev | development]")
	configPath := flag.String("config", "./config.toml", "path for the TOML config file")
	envFile := flag.String("env-file", ".env", "optional .env file with secrets")
	flag.Parse()

	command := flag.Arg(0)
	if command == "" {
		command = "up"
	}

	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		log.Fatalf("load config: %s", err)
	}
	secrets, err := config.LoadSecrets(*envFile)
	if err != nil {
		log.Fatalf("load secrets: %s", err)
	}

	logging.Setup(logging.LoggerSetupParams{
		LogToStdout: true,
		LogLevel:    cfg.LogLevel,
		Environment: cfg.Environment,
	})

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DBHost:     cfg.PostgresHost,
		DBPort:     cfg.PostgresPort,
		DBName:     cfg.PostgresDBName,
		DBUser:     cfg.PostgresUser,
		DBPassword: secrets.PostgresPassword,
	})
	if err != nil {
		log.Fatalf("new db pool: %s", err)
	}
	defer dbPool.Close()

	switch command {
	case "up":
		err = db.RunMigrations(dbPool)
	case "down":
		err = db.MigrateDown(dbPool)
	case "version":
		var version int64
		version, err = db.MigrationsVersion(dbPool)
		if err == nil {
			log.Infof("db schema version: %d", version)
		}
	default:
		log.Fatalf("unknown command [%s], use one of: up, down, version", command)
	}
	if err != nil {
		log.Fatalf("migrate %s: %s", command, err)
	}
}
