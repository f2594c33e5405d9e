package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	goredis "github.com/redis/go-redis/v9"

	"stayfinder/internal/app/policies"
	adminsvc "stayfinder/internal/app/services/admin"
	"stayfinder/internal/app/services/admission"
	authsvc "stayfinder/internal/app/services/auth"
	hotelsvc "stayfinder/internal/app/services/hotels"
	"stayfinder/internal/app/services/recommend"
	"stayfinder/internal/app/uow"
	domainauth "stayfinder/internal/domain/auth"
	domainbooking "stayfinder/internal/domain/booking"
	domainhotel "stayfinder/internal/domain/hotel"
	domainuser "stayfinder/internal/domain/user"
	"stayfinder/internal/infra/broker/kafka"
	"stayfinder/internal/infra/config"
	mongodb "stayfinder/internal/infra/db/mongo"
	ginserver "stayfinder/internal/infra/http/gin"
	"stayfinder/internal/infra/mailer"
	"stayfinder/internal/infra/obs"
	"stayfinder/internal/infra/payments/fake"
	stripepay "stayfinder/internal/infra/payments/stripe"
	"stayfinder/internal/infra/security"
	"stayfinder/internal/infra/storage/memory"
	redisstore "stayfinder/internal/infra/storage/redis"
	"stayfinder/internal/infra/storage/s3"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("configuration invalid", "error", err)
		os.Exit(1)
	}
	logger := obs.NewLogger(cfg.Env)

	app, cleanup, err := buildApplication(ctx, cfg, logger)
	if err != nil {
		logger.Error("startup failed", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	server := ginserver.NewServer(cfg, obs.Middleware{Logger: logger}, obs.HealthHandlers{
		Ready: app.ready,
	}, app.handlers)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("http shutdown failed", "error", err)
		}
	}()

	logger.Info("HTTP server starting", "addr", cfg.HTTPAddr, "storage", cfg.StorageMode)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("http server failed", "error", err)
		os.Exit(1)
	}
	logger.Info("HTTP server stopped")
}

type application struct {
	handlers ginserver.Handlers
	ready    func() error
}

func buildApplication(ctx context.Context, cfg config.Config, logger *slog.Logger) (application, func(), error) {
	var cleanups []func()
	cleanup := func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}

	var (
		hotels   domainhotel.Repository
		bookings domainbooking.Repository
		users    domainuser.Repository
		sessions domainauth.SessionStore
		factory  uow.Factory
		ready    = func() error { return nil }
	)

	switch cfg.StorageMode {
	case config.StorageMongo:
		client, err := mongodb.New(cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return application{}, cleanup, err
		}
		hotelRepo := mongodb.NewHotelRepository(client.DB)
		userRepo := mongodb.NewUserRepository(client.DB)
		if err := userRepo.EnsureIndexes(ctx); err != nil {
			logger.Warn("user index creation failed", "error", err)
		}
		hotels = hotelRepo
		bookings = mongodb.NewBookingRepository(client.DB)
		users = userRepo
		factory = mongodb.Factory{DB: client.DB, HotelsRepo: hotels, BookingsRepo: bookings}

		redisClient := goredis.NewClient(&goredis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		cleanups = append(cleanups, func() { _ = redisClient.Close() })
		sessions = redisstore.NewSessionStore(redisClient)
		ready = func() error {
			if err := client.Ping(ctx); err != nil {
				return err
			}
			return redisClient.Ping(ctx).Err()
		}
	default:
		hotelRepo := memory.NewHotelRepository()
		bookingRepo := memory.NewBookingRepository()
		hotels = hotelRepo
		bookings = bookingRepo
		users = memory.NewUserRepository()
		sessions = memory.NewSessionStore()
		factory = memory.NewFactory(hotelRepo, bookingRepo)
	}

	var events policies.BookingEvents = kafka.LogPublisher{Logger: logger}
	if len(cfg.KafkaBrokers) > 0 {
		producer, err := kafka.NewProducer(cfg.KafkaBrokers, nil)
		if err != nil {
			return application{}, cleanup, err
		}
		cleanups = append(cleanups, func() { _ = producer.Close() })
		events = &kafka.BookingEventPublisher{Producer: producer, TopicPrefix: cfg.KafkaTopicPrefix}

		consumer, err := kafka.NewConsumer(cfg.KafkaBrokers, "stayfinder-notifier", nil, kafka.BookingNotifier{Logger: logger})
		if err != nil {
			logger.Warn("booking notifier disabled", "error", err)
		} else {
			cleanups = append(cleanups, func() { _ = consumer.Close() })
			go func() {
				topic := cfg.KafkaTopicPrefix + kafka.BookingEventsTopic
				if err := consumer.Run(ctx, []string{topic}); err != nil && !errors.Is(err, context.Canceled) {
					logger.Error("booking notifier stopped", "error", err)
				}
			}()
		}
	}

	var payments policies.PaymentsPort
	if cfg.StripeSecretKey != "" {
		payments = stripepay.NewProvider(cfg.StripeSecretKey)
	} else {
		logger.Warn("stripe key missing, using in-process payment fake")
		payments = fake.NewProvider()
	}

	var mail policies.Mailer
	if cfg.MailerSendAPIKey != "" {
		mail = mailer.NewMailerSend(cfg.MailerSendAPIKey, cfg.MailFromEmail, cfg.MailFromName)
	} else {
		logger.Warn("mailersend key missing, login codes go to the log")
		mail = mailer.LogMailer{Logger: logger}
	}

	var uploader hotelsvc.ImageUploader
	s3Client, err := s3.NewClient(cfg.S3Endpoint, cfg.S3UseSSL, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3Bucket, cfg.S3PublicEndpoint, logger)
	if err != nil {
		logger.Warn("s3 uploader unavailable", "error", err)
		uploader = s3.NoopUploader{}
	} else {
		uploader = s3Client
	}

	auth := &authsvc.Service{
		Users:      users,
		Sessions:   sessions,
		Passwords:  security.BcryptHasher{},
		Tokens:     security.RandomTokenGenerator{},
		Codes:      security.DigitCodeGenerator{},
		Mailer:     mail,
		SessionTTL: cfg.SessionTTL,
		OTPTTL:     cfg.OTPTTL,
		Logger:     logger,
	}
	adm := &admission.Service{UoW: factory, Events: events, Logger: logger}
	hotelService := &hotelsvc.Service{Hotels: hotels, Uploader: uploader, Logger: logger}
	recommendService := &recommend.Service{Hotels: hotels, Users: users, Logger: logger}
	adminService := &adminsvc.Service{Users: users, Hotels: hotels, Sessions: sessions, Logger: logger}

	return application{
		handlers: ginserver.Handlers{
			Auth:           ginserver.AuthHandler{Service: auth, Logger: logger},
			Hotel:          ginserver.HotelHandler{Hotels: hotelService, Admission: adm, Recommend: recommendService, Logger: logger},
			Booking:        ginserver.BookingHandler{Admission: adm, Payments: payments, Bookings: bookings, Hotels: hotels, Logger: logger},
			Owner:          ginserver.OwnerHandler{Hotels: hotelService, BookingRepo: bookings, Logger: logger},
			Admin:          ginserver.AdminHandler{Admin: adminService, Hotels: hotelService, Logger: logger},
			AuthMiddleware: ginserver.AuthMiddleware{Service: auth, Logger: logger}.Handle,
		},
		ready: ready,
	}, cleanup, nil
}
