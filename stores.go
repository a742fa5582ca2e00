package main

import (
	"context"
	"fmt"

	"github.com/MdFaizanuddin1/Ecommerce-Full-stack/config"
	"github.com/MdFaizanuddin1/Ecommerce-Full-stack/database"
	aws_pkg "github.com/MdFaizanuddin1/Ecommerce-Full-stack/pkg/aws"
	"github.com/MdFaizanuddin1/Ecommerce-Full-stack/repository"
	"github.com/MdFaizanuddin1/Ecommerce-Full-stack/services"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// stores holds the database connections and the repositories built on them.
type stores struct {
	cfg   *config.Config
	mongo *mongo.Client
	redis *redis.Client

	users      *repository.UserRepository
	products   *repository.ProductRepository
	categories *repository.CategoryRepository
	carts      *repository.CartRepository
	wishLists  *repository.WishListRepository
	reviews    *repository.ReviewRepository
	addresses  *repository.AddressRepository
	orders     *repository.OrderRepository
}

func openStores(ctx context.Context, cfg *config.Config) (*stores, error) {
	client, db, err := database.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		return nil, err
	}

	rdb, err := database.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		_ = database.Close(client)
		return nil, err
	}

	return &stores{
		cfg:        cfg,
		mongo:      client,
		redis:      rdb,
		users:      repository.NewUserRepository(db),
		products:   repository.NewProductRepository(db),
		categories: repository.NewCategoryRepository(db),
		carts:      repository.NewCartRepository(db),
		wishLists:  repository.NewWishListRepository(db),
		reviews:    repository.NewReviewRepository(db),
		addresses:  repository.NewAddressRepository(db),
		orders:     repository.NewOrderRepository(db),
	}, nil
}

func (s *stores) ensureIndexes(ctx context.Context) error {
	return database.EnsureIndexes(ctx,
		s.users, s.products, s.categories, s.carts,
		s.wishLists, s.reviews, s.addresses, s.orders,
	)
}

// checkoutStore picks where pending checkout snapshots live.
func (s *stores) checkoutStore(dynamo repository.DynamoAPI) (repository.CheckoutStore, error) {
	switch s.cfg.Payment.CheckoutStore {
	case "", "redis":
		return repository.NewRedisCheckoutStore(s.redis), nil
	case "dynamodb":
		if dynamo == nil {
			return nil, fmt.Errorf("checkout store dynamodb needs AWS configuration")
		}
		return repository.NewDynamoCheckoutStore(dynamo, s.cfg.Payment.CheckoutTable), nil
	default:
		return nil, fmt.Errorf("unknown CHECKOUT_STORE %q", s.cfg.Payment.CheckoutStore)
	}
}

func (s *stores) auth(metrics *aws_pkg.MetricsClient) *services.AuthService {
	return services.NewAuthService(s.users, services.NewTokenService(s.cfg.Tokens), metrics)
}

func (s *stores) close() {
	if err := s.redis.Close(); err != nil {
		zap.L().Error("failed to close Redis", zap.Error(err))
	}
	if err := database.Close(s.mongo); err != nil {
		zap.L().Error("failed to close MongoDB", zap.Error(err))
	}
}
