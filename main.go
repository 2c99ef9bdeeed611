package main

import (
	"fmt"
	"log"

	"backend/broker"
	"backend/configs"
	"backend/middlewares"
	"backend/routes"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg := configs.LoadConfig()

	// DB
	configs.ConnectionDB(cfg.DBSource)
	db := configs.DB()
	configs.SetupDatabase()

	// Broker: keeps order/notification events consistent across instances
	redisClient := configs.ConnectRedis(cfg)
	b := broker.NewRedisBroker(redisClient)

	// HTTP
	r := gin.Default()
	r.Use(middlewares.CORSMiddleware())

	hub := routes.RegisterRoutes(r, db, cfg, b)
	go hub.Run()
	hub.SubscribeBroker()

	addr := fmt.Sprintf(":%s", cfg.Port)
	log.Println("server running at", addr)
	if err := r.Run(addr); err != nil {
		log.Fatal(err)
	}
}
