package pipeline

import (
	"fmt"
	"log/slog"

	"github.com/seoscribe/seoscribe/internal/crypto"
	"github.com/seoscribe/seoscribe/internal/models"
	"github.com/seoscribe/seoscribe/internal/wordpress"
)

// WordPressFactory builds per-integration WordPress clients, decrypting the
// stored application password on the way.
type WordPressFactory struct {
	encryptor *crypto.CredentialEncryptor
	logger    *slog.Logger
}

// NewWordPressFactory creates a WordPressFactory.
func NewWordPressFactory(encryptor *crypto.CredentialEncryptor, logger *slog.Logger) *WordPressFactory {
	return &WordPressFactory{encryptor: encryptor, logger: logger}
}

func (f *WordPressFactory) ForIntegration(integration *models.Integration) (ArticlePublisher, error) {
	password := integration.AppPassword
	if f.encryptor != nil {
		decrypted, err := f.encryptor.Decrypt(password)
		if err != nil {
			return nil, fmt.Errorf("failed to decrypt integration credentials: %w", err)
		}
		password = decrypted
	}
	return wordpress.NewClient(integration.SiteURL, integration.Username, password, f.logger), nil
}
