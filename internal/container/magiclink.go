package container

import (
	"crypto/rand"
	"fmt"

	"github.com/samber/do"
	"github.com/serroba/brand-audit/internal/magiclink"
	"go.uber.org/zap"
)

// MagicLinkPackage provides the magic link signer. Links live as long as stored reports.
func MagicLinkPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (*magiclink.Signer, error) {
		opts := do.MustInvoke[*Options](i)

		cfg, err := opts.ReportConfig()
		if err != nil {
			return nil, err
		}

		secret := []byte(opts.MagicLinkSecret)
		if len(secret) == 0 {
			do.MustInvoke[*zap.Logger](i).Warn("no magic link secret configured, links will not survive a restart")

			secret = make([]byte, 32)
			if _, err := rand.Read(secret); err != nil {
				return nil, fmt.Errorf("generate magic link secret: %w", err)
			}
		}

		return magiclink.NewSigner(secret, cfg.Retention)
	})
}
