package http

import (
	grantUsecases "github.com/pinegate/pinegate/internal/application/accessgrant/usecases"
	catalogUsecases "github.com/pinegate/pinegate/internal/application/catalog/usecases"
	sellerUsecases "github.com/pinegate/pinegate/internal/application/seller/usecases"
)

// allUseCases holds every use case instance.
type allUseCases struct {
	// Access grants
	createGrantUC *grantUsecases.CreateGrantUseCase
	getGrantUC    *grantUsecases.GetGrantUseCase
	listLogsUC    *grantUsecases.ListGrantLogsUseCase
	assignUC      *grantUsecases.AssignAccessUseCase
	revokeUC      *grantUsecases.RevokeAccessUseCase
	retryUC       *grantUsecases.RetryGrantUseCase
	verifyUC      *grantUsecases.VerifyAccessUseCase

	// Catalog
	syncCatalogUC *catalogUsecases.SyncCatalogUseCase
	listCatalogUC *catalogUsecases.ListCatalogUseCase

	// Seller connections and session health
	connectUC    *sellerUsecases.ConnectSellerUseCase
	getConnUC    *sellerUsecases.GetConnectionUseCase
	testConnUC   *sellerUsecases.TestConnectionUseCase
	disconnectUC *sellerUsecases.DisconnectSellerUseCase
	probeUC      *sellerUsecases.ProbeSessionsUseCase
}

func (c *Container) initUseCases() {
	r, s, log := c.repos, c.svcs, c.log

	assignUC := grantUsecases.NewAssignAccessUseCase(
		r.grantRepo, r.logRepo, r.connectionRepo, r.catalogRepo,
		s.platform, s.vault, s.locker, s.txManager, log,
	)

	c.ucs = &allUseCases{
		createGrantUC: grantUsecases.NewCreateGrantUseCase(r.grantRepo, r.programRepo, log),
		getGrantUC:    grantUsecases.NewGetGrantUseCase(r.grantRepo, log),
		listLogsUC:    grantUsecases.NewListGrantLogsUseCase(r.grantRepo, r.logRepo, log),
		assignUC:      assignUC,
		revokeUC: grantUsecases.NewRevokeAccessUseCase(
			r.grantRepo, r.logRepo, r.connectionRepo, r.catalogRepo,
			s.platform, s.vault, s.locker, s.txManager, log,
		),
		retryUC:  grantUsecases.NewRetryGrantUseCase(assignUC),
		verifyUC: grantUsecases.NewVerifyAccessUseCase(r.grantRepo, r.connectionRepo, r.catalogRepo, s.platform, s.vault, log),

		syncCatalogUC: catalogUsecases.NewSyncCatalogUseCase(r.connectionRepo, r.catalogRepo, s.platform, s.vault, log),
		listCatalogUC: catalogUsecases.NewListCatalogUseCase(r.catalogRepo, log),

		connectUC:    sellerUsecases.NewConnectSellerUseCase(r.connectionRepo, s.vault, s.platform, log),
		getConnUC:    sellerUsecases.NewGetConnectionUseCase(r.connectionRepo, log),
		testConnUC:   sellerUsecases.NewTestConnectionUseCase(r.connectionRepo, s.vault, s.platform, log),
		disconnectUC: sellerUsecases.NewDisconnectSellerUseCase(r.connectionRepo, r.programRepo, log),
		probeUC: sellerUsecases.NewProbeSessionsUseCase(
			r.connectionRepo, r.programRepo, s.platform, s.vault,
			c.cfg.Prober.RevalidateAfter(), c.cfg.Prober.Delay(), log.Named("prober"),
		),
	}
}

// ProbeSessions exposes the session health prober to the worker and CLI.
func (c *Container) ProbeSessions() *sellerUsecases.ProbeSessionsUseCase {
	return c.ucs.probeUC
}

// SyncCatalog exposes the catalog synchronizer to the CLI.
func (c *Container) SyncCatalog() *catalogUsecases.SyncCatalogUseCase {
	return c.ucs.syncCatalogUC
}
