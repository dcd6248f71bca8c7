package main

import (
	"context"

	"campusroom/config"
	"campusroom/di"
	"campusroom/shared/logger"
)

func main() {
	cfg := config.Get()

	logger.InitLogger()

	logger.SetLogLevel(cfg)

	service := di.InitializeService()

	go service.Consumer.Start(context.Background())

	service.HTTP.Serve()
}
