package main

import (
	"context"
	"flag"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/2beens/liftlog/internal/config"
	"github.com/2beens/liftlog/internal/db"
	"github.com/2beens/liftlog/internal/gymstats/exercises"
	"github.com/2beens/liftlog/internal/logging"
	"github.com/2beens/liftlog/internal/users"
)

func main() {
	env := flag.String("env", "development", "environment [prod | production | dev | development]")
	configPath := flag.String("config", "./config.toml", "path for the TOML config file")
	envFile := flag.String("env-file", ".env", "optional .env file with secrets")
	flag.Parse()

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

	service := exercises.NewService(exercises.NewRepo(dbPool), users.NewRepo(dbPool), nil)
	added, err := service.Seed(ctx)
	if err != nil {
		log.Fatalf("seed exercises: %s", err)
	}

	log.Infof("seed done, %d exercises added", added)
}
