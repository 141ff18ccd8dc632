package cmd

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/AzielCF/az-inbox/tenants/domain"
	tenantRepo "github.com/AzielCF/az-inbox/tenants/repository"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create the demo tenants if they do not exist",
	Run:   seedTenants,
}

func init() {
	rootCmd.AddCommand(seedCmd)
}

// seedTenants inserta los tenants de demostración. Idempotente: los slugs
// duplicados se saltan sin error.
func seedTenants(_ *cobra.Command, _ []string) {
	ctx := context.Background()
	repo := tenantRepo.NewTenantGormRepository(db)

	demo := []*domain.Tenant{
		{Slug: "crunchypaws", Name: "Crunchy Paws", Environment: domain.EnvSandbox},
		{Slug: "dkape", Name: "DKape", Environment: domain.EnvSandbox},
	}

	created := 0
	for _, tenant := range demo {
		if err := repo.Create(ctx, tenant); err != nil {
			if errors.Is(err, domain.ErrDuplicateTenant) {
				logrus.Infof("[SEED] Tenant %s already exists, skipping", tenant.Slug)
				continue
			}
			logrus.Fatalln("Failed to seed tenant: ", err.Error())
		}
		created++
		logrus.Infof("[SEED] Tenant %s created", tenant.Slug)
	}

	logrus.Infof("[SEED] Done, %d tenants created", created)
}
