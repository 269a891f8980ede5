package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/joho/godotenv"
	"github.com/jrsteele09/go-cinema-booking/backend"
	"github.com/jrsteele09/go-cinema-booking/booking"
	"github.com/jrsteele09/go-cinema-booking/events"
	"github.com/jrsteele09/go-cinema-booking/internal/config"
	"github.com/jrsteele09/go-cinema-booking/server"
	"github.com/jrsteele09/go-cinema-booking/session"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const draftCleanupInterval = 10 * time.Minute

func main() {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file loaded")
	}

	for {
		if err := run(); err != nil {
			log.Error().Err(err).Msg("Error running server")
			time.Sleep(1 * time.Second)
		} else {
			break
		}
	}
	log.Info().Msg("Server stopped")
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Msgf("Recovered from panic: %v", r)
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	c := config.New()
	setupLogging(c.GetEnv())
	displayAppname(c.GetAppName())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	redisClient, err := config.NewRedisClient(ctx, c)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	tokens, drafts := stores(ctx, c, redisClient)
	api := backend.New(c.GetBackendURL(), c.GetBackendTimeout())
	wizard := booking.NewService(api, drafts,
		booking.WithCardSecurityFields(c.GetForwardCardSecurityFields()),
		booking.WithPublisher(publisher(c)),
	)

	handler, err := server.New(c, api, session.NewGate(tokens), wizard)
	if err != nil {
		return err
	}

	srv := &http.Server{Addr: c.GetPort(), Handler: handler, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		if err := listenAndServe(srv); err != nil {
			log.Error().Err(err).Msg("Server failed")
		}
	}()
	waitForStopSignal()
	returnError = shutdown(srv)
	return returnError
}

func setupLogging(env string) {
	zerolog.TimeFieldFormat = time.RFC3339
	if env == "DEV" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		return
	}
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
}

// stores picks Redis when it is configured, otherwise tokens and drafts live in memory.
func stores(ctx context.Context, c config.Config, client *redis.Client) (session.TokenStore, booking.DraftStore) {
	if client != nil {
		log.Info().Str("addr", c.GetRedisAddr()).Msg("Using Redis for sessions and drafts")
		return session.NewRedisTokenStore(client, c.GetTokenStorageKey()),
			booking.NewRedisDraftStore(client, c.GetDraftStorageKey(), c.GetMaxDraftAge())
	}

	drafts := booking.NewInMemoryDraftStore(c.GetMaxDraftAge())
	go func() {
		ticker := time.NewTicker(draftCleanupInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := drafts.CleanupExpired(); n > 0 {
					log.Debug().Int("removed", n).Msg("Removed expired booking drafts")
				}
			}
		}
	}()
	return session.NewInMemoryTokenStore(), drafts
}

func publisher(c config.Config) events.Publisher {
	if url := c.GetRabbitMQURL(); url != "" {
		log.Info().Str("queue", c.GetBookingConfirmedQueue()).Msg("Publishing booking confirmations to RabbitMQ")
		return events.NewAMQPPublisher(url, c.GetBookingConfirmedQueue())
	}
	return events.NewLogPublisher()
}

func listenAndServe(server *http.Server) error {
	log.Info().Msgf("Server listening on %s", server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server.ListenAndServe %w", err)
	}
	return nil
}

func waitForStopSignal() {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
}

func shutdown(server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
