// Package sync refreshes one seller's script catalog from the command line.
package catalogsync

import (
	"context"
	"encoding/json"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	catalogUsecases "github.com/pinegate/pinegate/internal/application/catalog/usecases"
	"github.com/pinegate/pinegate/internal/interfaces/cli/bootstrap"
	httpRouter "github.com/pinegate/pinegate/internal/interfaces/http"
)

var (
	env        string
	configPath string
	sellerID   uint
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Synchronize a seller's script catalog",
		Long:  `Fetch the seller's published scripts from the platform and upsert them into the local catalog.`,
		RunE:  run,
	}

	cmd.Flags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to config file (default: ./configs/config.yaml)")
	cmd.Flags().UintVar(&sellerID, "seller", 0, "Seller ID to synchronize (required)")
	_ = cmd.MarkFlagRequired("seller")

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	rt, err := bootstrap.Load(env, configPath, true)
	if err != nil {
		return err
	}
	defer rt.Close()

	container, err := httpRouter.NewContainer(rt.DB, rt.Config, rt.Log)
	if err != nil {
		return fmt.Errorf("failed to build container: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	defer container.Shutdown(context.Background())

	result, err := container.SyncCatalog().Execute(ctx, catalogUsecases.SyncCatalogCommand{SellerID: sellerID})
	if err != nil {
		return fmt.Errorf("catalog sync failed: %w", err)
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}
