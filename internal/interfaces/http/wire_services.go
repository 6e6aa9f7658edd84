package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pinegate/pinegate/internal/infrastructure/auth"
	"github.com/pinegate/pinegate/internal/infrastructure/lock"
	"github.com/pinegate/pinegate/internal/infrastructure/tradingview"
	"github.com/pinegate/pinegate/internal/infrastructure/vault"
	"github.com/pinegate/pinegate/internal/shared/db"
)

// services holds the infrastructure services shared by use cases.
type services struct {
	vault     *vault.Vault
	platform  *tradingview.Client
	locker    *lock.GrantLocker
	txManager *db.TransactionManager
	tokens    *auth.ServiceTokenService
}

func (c *Container) initInfrastructure() error {
	c.redis = redis.NewClient(&redis.Options{
		Addr:     c.cfg.Redis.GetAddr(),
		Password: c.cfg.Redis.Password,
		DB:       c.cfg.Redis.DB,
	})

	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := c.redis.Ping(pingCtx).Err(); err != nil {
		// the grant lock fails closed until redis comes back
		c.log.Warnw("redis not reachable at startup", "address", c.cfg.Redis.GetAddr(), "error", err)
	} else {
		c.log.Infow("redis connection established", "address", c.cfg.Redis.GetAddr())
	}

	v, err := vault.NewFromSecret(c.cfg.Vault.Key)
	if err != nil {
		return fmt.Errorf("failed to initialize credential vault: %w", err)
	}

	httpClient := &http.Client{Timeout: c.cfg.Platform.RequestTimeout()}

	c.svcs = &services{
		vault:     v,
		platform:  tradingview.NewClient(c.cfg.Platform, httpClient, c.log.Named("tradingview")),
		locker:    lock.NewGrantLocker(c.redis, c.cfg.Grants.LockTTL(), c.log),
		txManager: db.NewTransactionManager(c.db),
		tokens:    auth.NewServiceTokenService(c.cfg.Auth.ServiceSecret, c.cfg.Auth.Issuer),
	}
	return nil
}
