package main

import (
	"context"
	"log"
	"strings"
	"time"

	"app/internal/config"
	"app/internal/domain/model"
	"app/internal/handler"
	"app/internal/infra/cache"
	"app/internal/infra/db"
	"app/internal/infra/event"
	infraRepo "app/internal/infra/repository"
	"app/internal/usecase"
	"app/internal/validator"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
)

func main() {
	// .envは無ければ環境変数だけで動く
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	gormDB, err := db.Open(cfg)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}

	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.RefreshToken{},
		&model.MenuItem{},
		&model.CartItem{},
		&model.Order{},
		&model.OrderItem{},
		&model.Reservation{},
		&model.Favorite{},
		&model.Profile{},
	); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	// Repository（GORM実装）生成
	userRepo := infraRepo.NewUserGormRepository(gormDB)
	rtRepo := infraRepo.NewRefreshTokenGormRepository(gormDB)
	menuRepo := infraRepo.NewMenuItemGormRepository(gormDB)
	cartItemRepo := infraRepo.NewCartItemGormRepository(gormDB)
	orderRepo := infraRepo.NewOrderGormRepository(gormDB)
	orderItemRepo := infraRepo.NewOrderItemGormRepository(gormDB)
	reservationRepo := infraRepo.NewReservationGormRepository(gormDB)
	favoriteRepo := infraRepo.NewFavoriteGormRepository(gormDB)
	profileRepo := infraRepo.NewProfileGormRepository(gormDB)

	if err := seedMenu(menuRepo); err != nil {
		log.Fatalf("seed menu: %v", err)
	}

	// redisは任意。REDIS_ADDRが空ならキャッシュなしで動く
	var menuCache usecase.MenuCache
	var countCache usecase.CartCountCache
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		rc := cache.NewRedisCache(rdb, 5*time.Minute)
		menuCache = rc
		countCache = rc
	}

	// kafkaも任意。ブローカー未指定なら発行しない
	var events usecase.OrderEventPublisher
	if cfg.KafkaBrokers != "" {
		writer := &kafka.Writer{
			Addr:         kafka.TCP(strings.Split(cfg.KafkaBrokers, ",")...),
			Topic:        cfg.KafkaTopic,
			Balancer:     &kafka.LeastBytes{},
			RequiredAcks: kafka.RequireOne,
		}
		defer writer.Close()
		events = event.NewKafkaPublisher(writer)
	}

	// Usecase生成
	authUC := usecase.NewAuthUsecase(cfg, userRepo, rtRepo, validator.NewAuthValidator())
	menuUC := usecase.NewMenuUsecase(menuRepo, menuCache)
	cartUC := usecase.NewCartUsecase(cartItemRepo, menuRepo, countCache)
	checkoutUC := usecase.NewCheckoutUsecase(cartUC, orderRepo, orderItemRepo, cartItemRepo, countCache, events)
	staffOrderUC := usecase.NewStaffOrderUsecase(orderRepo, orderItemRepo)
	reservationUC := usecase.NewReservationUsecase(reservationRepo)
	favoriteUC := usecase.NewFavoriteUsecase(favoriteRepo, menuRepo)
	profileUC := usecase.NewProfileUsecase(profileRepo)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.Logger())
	if cfg.FEURL != "" {
		e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
			AllowOrigins:     []string{cfg.FEURL},
			AllowCredentials: true,
		}))
	}

	// Handler生成・ルーティング
	handler.NewAuthHandler(authUC, 30*24*time.Hour, cfg).RegisterRoutes(e, cfg, userRepo)
	handler.NewMenuHandler(menuUC).RegisterRoutes(e)
	handler.NewCartHandler(cartUC).RegisterRoutes(e, cfg, userRepo)
	handler.NewOrderHandler(checkoutUC, staffOrderUC).RegisterRoutes(e, cfg, userRepo)
	handler.NewReservationHandler(reservationUC).RegisterRoutes(e, cfg, userRepo)
	handler.NewFavoriteHandler(favoriteUC).RegisterRoutes(e, cfg, userRepo)
	handler.NewProfileHandler(profileUC).RegisterRoutes(e, cfg, userRepo)

	addr := cfg.Port
	if addr[0] != ':' {
		addr = ":" + addr
	}
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}

// メニューが空のときだけ初期データを入れる
func seedMenu(repo interface {
	Count(ctx context.Context) (int64, error)
	CreateBulk(ctx context.Context, items []model.MenuItem) error
}) error {
	ctx := context.Background()

	n, err := repo.Count(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	return repo.CreateBulk(ctx, []model.MenuItem{
		{
			Name:        "Truffle Risotto",
			Description: "Creamy Arborio rice with black truffle and aged Parmesan",
			PriceCents:  2800,
			Image:       "/placeholder.svg",
			Category:    "Mains",
			Vegetarian:  true,
		},
		{
			Name:        "Wagyu Steak",
			Description: "Grade A5 Japanese Wagyu with roasted vegetables",
			PriceCents:  4500,
			Image:       "/placeholder.svg",
			Category:    "Mains",
		},
		{
			Name:        "Lobster Thermidor",
			Description: "Fresh Maine lobster in a rich brandy cream sauce",
			PriceCents:  4200,
			Image:       "/placeholder.svg",
			Category:    "Seafood",
		},
	})
}
