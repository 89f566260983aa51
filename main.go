package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/Kariqs/bistro-api/cart"
	"github.com/Kariqs/bistro-api/checkout"
	"github.com/Kariqs/bistro-api/controllers"
	"github.com/Kariqs/bistro-api/gateway"
	"github.com/Kariqs/bistro-api/initializers"
	"github.com/Kariqs/bistro-api/models"
	"github.com/Kariqs/bistro-api/notify"
	"github.com/Kariqs/bistro-api/routes"
	"github.com/Kariqs/bistro-api/utils"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func fatal(logger *slog.Logger, msg string, err error) {
	logger.Error(msg, "error", err)
	os.Exit(1)
}

func cartMirrors(cfg initializers.Config, logger *slog.Logger) cart.MirrorFactory {
	switch cfg.CartMirror {
	case "redis":
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		logger.Info("carts persisted to redis", "addr", cfg.RedisAddr, "ttl", cfg.CartTTL)
		return func(slot string) cart.Mirror {
			return cart.NewRedisMirror(client, slot, cfg.CartTTL)
		}
	case "memory":
		logger.Warn("carts kept in memory only")
		return func(string) cart.Mirror {
			return cart.NewMemoryMirror(nil)
		}
	default:
		logger.Info("carts persisted to disk", "dir", cfg.CartDir)
		return func(slot string) cart.Mirror {
			return cart.NewFileMirror(cfg.CartDir, slot)
		}
	}
}

func main() {
	initializers.LoadEnv()
	cfg, err := initializers.LoadConfig()
	logger := utils.InitLogger(cfg.LogLevel)
	if err != nil {
		fatal(logger, "invalid configuration", err)
	}

	db, err := initializers.ConnectToDB(cfg)
	if err != nil {
		fatal(logger, "database unavailable", err)
	}
	if err := initializers.SyncDatabase(db); err != nil {
		fatal(logger, "database migration failed", err)
	}

	ctx := context.Background()
	items := gateway.NewGormCollection[models.Item](db)
	itemTypes := gateway.NewGormCollection[models.ItemType](db)
	orders := gateway.NewGormCollection[models.Order](db)
	users := gateway.NewUsers(db)

	if err := initializers.EnsureAdmin(ctx, users, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		fatal(logger, "admin bootstrap failed", err)
	}
	if cfg.SeedFile != "" {
		if err := initializers.SeedMenu(ctx, cfg.SeedFile, itemTypes, items); err != nil {
			fatal(logger, "menu seed failed", err)
		}
	}

	notifier := notify.Multi{notify.Log{Logger: logger}, notify.Contextual{}}
	if cfg.NotifyWebhookURL != "" {
		notifier = append(notifier, notify.NewWebhook(cfg.NotifyWebhookURL, cfg.WebhookTimeout, logger))
	}

	sessions := cart.NewSessions(cartMirrors(cfg, logger), cart.WithNotifier(notifier), cart.WithLogger(logger))

	workflowOpts := []checkout.Option{checkout.WithNotifier(notifier), checkout.WithLogger(logger)}
	if cfg.KitchenEmail != "" {
		send := func(_ context.Context, data utils.OrderEmailData) error {
			// SMTP is slow; the customer should not wait for it
			go func() {
				if err := utils.SendOrderEmail(cfg.Mail, cfg.KitchenEmail, data); err != nil {
					logger.Error("error sending kitchen email", "to", cfg.KitchenEmail, "error", err)
				}
			}()
			return nil
		}
		workflowOpts = append(workflowOpts, checkout.WithPlacedHook(checkout.NotifyKitchen(send, logger)))
	}

	controller := &controllers.Controller{
		Items:     items,
		ItemTypes: itemTypes,
		Orders:    orders,
		Users:     users,
		Carts:     sessions,
		Checkout:  checkout.New(orders, items, workflowOpts...),
		JWTSecret: cfg.JWTSecret,
		TokenTTL:  cfg.TokenTTL,
		Logger:    logger,
	}
	if cfg.S3Bucket != "" {
		uploader, err := utils.NewS3Uploader(ctx, cfg.S3Bucket)
		if err != nil {
			fatal(logger, "s3 unavailable", err)
		}
		controller.Images = uploader
	}

	server := gin.Default()
	server.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	routes.Register(server, controller)

	logger.Info("listening", "port", cfg.Port)
	if err := server.Run(":" + cfg.Port); err != nil {
		fatal(logger, "server stopped", err)
	}
}
