package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/yungbote/cecredit-backend/internal/app"
	dbpkg "github.com/yungbote/cecredit-backend/internal/db"
	"github.com/yungbote/cecredit-backend/internal/platform/logger"
	"github.com/yungbote/cecredit-backend/internal/services"
)

// runtime is shared by subcommands. The database is opened on first use so
// render-sample works without one.
type runtime struct {
	log  *logger.Logger
	cfg  app.Config
	dbs  *dbpkg.Service
	cert services.CertificateService
}

func (rt *runtime) certificates() (services.CertificateService, error) {
	if rt.cert != nil {
		return rt.cert, nil
	}
	dbs, err := app.OpenDatabase(rt.log, rt.cfg)
	if err != nil {
		return nil, err
	}
	rt.dbs = dbs
	signer, err := app.NewSigner(rt.cfg)
	if err != nil {
		return nil, err
	}
	rt.cert = app.NewCertificateService(dbs.DB(), rt.log, app.WireRepos(dbs.DB(), rt.log), signer)
	return rt.cert, nil
}

func (rt *runtime) close() {
	if rt.dbs != nil {
		_ = rt.dbs.Close()
	}
	if rt.log != nil {
		rt.log.Sync()
	}
}

func newRootCmd() *cobra.Command {
	rt := &runtime{}
	root := &cobra.Command{
		Use:           "certadmin",
		Short:         "Operator tools for CE certificates",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			log, err := app.NewLogger()
			if err != nil {
				return err
			}
			cfg, err := app.LoadConfig(log)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			rt.log, rt.cfg = log, cfg
			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			rt.close()
		},
	}
	root.AddCommand(
		newRevokeCmd(rt),
		newVerifyHashCmd(rt),
		newAuditCmd(rt),
		newRenderSampleCmd(rt),
	)
	return root
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
