package bootstrap

import (
	"context"
	"log"
	"time"

	"property-card-be/internal/config"
	"property-card-be/internal/handler"
	"property-card-be/internal/pkg/lock"
	"property-card-be/internal/pkg/logger"
	"property-card-be/internal/pkg/mailer"
	"property-card-be/internal/repository/unitofwork"
	"property-card-be/internal/scheduler"
	"property-card-be/internal/service"

	pktNats "property-card-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// HTTP surface
	NotificationHandler *handler.NotificationHandler
	JobHandler          *handler.JobHandler

	// Background services (exposed for main.go to run)
	ConsumerService service.INotificationConsumerService
	Scheduler       *scheduler.Scheduler

	Logger  logger.ILogger
	NatsPub *pktNats.Publisher
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.SenderName,
	)

	// 2. Event bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. Infrastructure
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}

	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)

	var jobLocker lock.JobLocker
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis, job locking disabled: %v", err)
		jobLocker = lock.NoopJobLocker{}
	} else {
		jobLocker = lock.NewRedisJobLocker(rdb)
	}

	// 4. Services
	sender := service.NewNotificationPublisher(cfg.App.NotificationTopic, pubSub)
	consumerService := service.NewNotificationConsumerService(
		pubSub,
		cfg.App.NotificationTopic,
		uowFactory,
		natsPub,
		emailService,
		sysLogger,
	)

	directory := service.NewResidentDirectory(uowFactory)
	lifecycleService := service.NewCardLifecycleService(uowFactory, natsPub, sender, sysLogger, cfg.Cards)
	reminderService := service.NewFeeReminderService(uowFactory, directory, sender, sysLogger, cfg.Cards)
	sweeperService := service.NewPaymentSweeper(uowFactory, natsPub, sender, sysLogger, cfg.Cards)
	notificationService := service.NewNotificationService(uowFactory)

	// 5. Scheduler
	sched := scheduler.NewScheduler(jobLocker, sysLogger)
	registerJobs(sched, cfg.Cards, lifecycleService, reminderService, sweeperService)

	// 6. Handlers
	notificationHandler := handler.NewNotificationHandler(notificationService, sysLogger)
	jobHandler := handler.NewJobHandler(lifecycleService, reminderService, sweeperService, sysLogger)

	return &Container{
		NotificationHandler: notificationHandler,
		JobHandler:          jobHandler,
		ConsumerService:     consumerService,
		Scheduler:           sched,
		Logger:              sysLogger,
		NatsPub:             natsPub,
	}
}

func registerJobs(
	sched *scheduler.Scheduler,
	cfg config.CardConfig,
	lifecycle service.ICardLifecycleService,
	reminders service.IFeeReminderService,
	sweeper service.IPaymentSweeper,
) {
	statusAt, err := scheduler.ParseDailyAt(cfg.StatusJobAt)
	if err != nil {
		log.Printf("[WARN] Invalid CARD_STATUS_JOB_AT %q, falling back to 01:00: %v", cfg.StatusJobAt, err)
		statusAt = scheduler.DailyAt{Hour: 1}
	}
	reminderAt, err := scheduler.ParseDailyAt(cfg.ReminderJobAt)
	if err != nil {
		log.Printf("[WARN] Invalid CARD_REMINDER_JOB_AT %q, falling back to 08:00: %v", cfg.ReminderJobAt, err)
		reminderAt = scheduler.DailyAt{Hour: 8}
	}

	sched.Register(scheduler.Job{
		Name: "card-status-update",
		Run:  lifecycle.RunStatusUpdate,
	}, statusAt, 30*time.Minute)

	sched.Register(scheduler.Job{
		Name: "card-fee-reminders",
		Run:  reminders.RunReminders,
	}, reminderAt, 30*time.Minute)

	sched.Register(scheduler.Job{
		Name: "payment-sweep",
		Run:  sweeper.RunSweep,
	}, scheduler.Every{Interval: cfg.SweepInterval}, cfg.SweepInterval)
}
