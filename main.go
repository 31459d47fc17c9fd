package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	intconfig "billettigue/internal/config"
	"billettigue/internal/db"
	router "billettigue/internal/http"
	"billettigue/internal/utils"
	"billettigue/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("aucun fichier .env, utilisation des variables d'environnement")
	}

	env := intconfig.LoadEnv()
	utils.SetupLogger(env.LogLevel)
	if env.GinMode != "" {
		gin.SetMode(env.GinMode)
	}

	intconfig.ConnectDB(env)
	defer intconfig.CloseDB()

	if intconfig.DB != nil {
		if err := db.EnsureSchema(intconfig.DB); err != nil {
			log.Fatalf("Initialisation du schéma impossible: %v", err)
		}
	}

	r := router.NewRouter(env)

	sweeper := worker.NewSweeper(env.SweepSpec)
	if err := sweeper.Start(); err != nil {
		log.Fatalf("Démarrage du sweeper impossible: %v", err)
	}
	defer sweeper.Stop()

	srv := &http.Server{
		Addr:              env.AppAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       20 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("Serveur démarré sur http://localhost%s", env.AppAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Impossible de démarrer le serveur: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("Arrêt du serveur...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Arrêt du serveur échoué: %v", err)
	}

	log.Println("Serveur arrêté proprement.")
}
