package backend

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"google.golang.org/api/option"
	"gorm.io/gorm"

	"stayhere_backend/pkg/authn"
	"stayhere_backend/pkg/config"
	"stayhere_backend/pkg/database"
	"stayhere_backend/pkg/docstore"
	"stayhere_backend/pkg/filestore"
)

// Client bundles the auth provider, document store and file store the
// services run against.
type Client struct {
	Auth  authn.Provider
	Docs  docstore.Store
	Files filestore.Store

	db *gorm.DB
}

var (
	mu     sync.Mutex
	shared *Client
)

// Open returns the process-wide client, creating it on first use. A failed
// attempt is not cached so a later call can retry.
func Open(ctx context.Context, cfg *config.Config) (*Client, error) {
	mu.Lock()
	defer mu.Unlock()

	if shared != nil {
		return shared, nil
	}
	c, err := New(ctx, cfg)
	if err != nil {
		return nil, err
	}
	shared = c
	return shared, nil
}

// Close tears down the process-wide client. The next Open initializes again.
func Close() error {
	mu.Lock()
	defer mu.Unlock()

	if shared == nil {
		return nil
	}
	err := shared.Close()
	shared = nil
	return err
}

// New builds a client that is not shared with Open.
func New(ctx context.Context, cfg *config.Config) (*Client, error) {
	c := &Client{}

	if needsDatabase(cfg.Backend) {
		db, err := database.Open(cfg.Database.DSN())
		if err != nil {
			return nil, err
		}
		c.db = db
	}

	docs, err := openDocuments(ctx, cfg, c.db)
	if err != nil {
		c.Close()
		return nil, err
	}
	c.Docs = docs

	files, err := openFiles(ctx, cfg)
	if err != nil {
		c.Close()
		return nil, err
	}
	c.Files = files

	auth, err := openAuth(cfg, c.db)
	if err != nil {
		c.Close()
		return nil, err
	}
	c.Auth = auth

	if c.db != nil {
		if err := database.Migrate(c.db, c.models()...); err != nil {
			log.Printf("Migration warning: %v", err)
		}
	}

	log.Printf("Backend ready (documents=%s, files=%s, auth=%s)",
		cfg.Backend.Documents, cfg.Backend.Files, cfg.Backend.Auth)
	return c, nil
}

// Close releases every store the client opened.
func (c *Client) Close() error {
	var errs []error
	if c.Docs != nil {
		errs = append(errs, c.Docs.Close())
	}
	if c.db != nil {
		errs = append(errs, database.Close(c.db))
	}
	return errors.Join(errs...)
}

func (c *Client) models() []interface{} {
	var models []interface{}
	if m, ok := c.Docs.(interface{ Models() []interface{} }); ok {
		models = append(models, m.Models()...)
	}
	if m, ok := c.Auth.(interface{ Models() []interface{} }); ok {
		models = append(models, m.Models()...)
	}
	return models
}

func needsDatabase(b config.BackendConfig) bool {
	return b.Documents == "postgres" || b.Auth == "local"
}

func openDocuments(ctx context.Context, cfg *config.Config, db *gorm.DB) (docstore.Store, error) {
	switch cfg.Backend.Documents {
	case "firestore":
		var opts []option.ClientOption
		if cfg.Firebase.CredentialsFile != "" {
			opts = append(opts, option.WithCredentialsFile(cfg.Firebase.CredentialsFile))
		}
		return docstore.NewFirestoreStore(ctx, cfg.Firebase.ProjectID, opts...)
	case "postgres":
		return docstore.NewPostgresStore(db), nil
	case "mongo":
		return docstore.NewMongoStore(ctx, cfg.Mongo.URI, cfg.Mongo.Database)
	case "memory":
		return docstore.NewMemoryStore(), nil
	}
	return nil, fmt.Errorf("unknown document store %q", cfg.Backend.Documents)
}

func openFiles(ctx context.Context, cfg *config.Config) (filestore.Store, error) {
	s3cfg := filestore.S3Config{
		Bucket:    cfg.Storage.Bucket,
		Region:    cfg.Storage.Region,
		Endpoint:  cfg.Storage.Endpoint,
		AccessKey: cfg.Storage.AccessKey,
		SecretKey: cfg.Storage.SecretKey,
		PublicURL: cfg.Storage.PublicURL,
	}
	switch cfg.Backend.Files {
	case "s3":
		return filestore.NewS3Store(ctx, s3cfg)
	case "r2":
		return filestore.NewR2Store(ctx, cfg.Storage.R2AccountID, s3cfg)
	case "memory":
		return filestore.NewMemoryStore(cfg.Storage.Bucket), nil
	}
	return nil, fmt.Errorf("unknown file store %q", cfg.Backend.Files)
}

func openAuth(cfg *config.Config, db *gorm.DB) (authn.Provider, error) {
	switch cfg.Backend.Auth {
	case "identitytoolkit":
		itCfg := authn.IdentityToolkitConfig{APIKey: cfg.Firebase.APIKey}
		if host := cfg.Firebase.AuthEmulatorHost; host != "" {
			itCfg.BaseURL = "http://" + host + "/identitytoolkit.googleapis.com/v1"
			itCfg.TokenURL = "http://" + host + "/securetoken.googleapis.com/v1/token"
		}
		return authn.NewIdentityToolkit(itCfg), nil
	case "local":
		return authn.NewLocalProvider(db, authn.LocalConfig{
			Secret:     cfg.JWT.Secret,
			Issuer:     cfg.JWT.Issuer,
			TokenTTL:   cfg.JWT.TokenTTL,
			RefreshTTL: cfg.JWT.RefreshTTL,
		}), nil
	case "memory":
		return authn.NewMemoryProvider(), nil
	}
	return nil, fmt.Errorf("unknown auth provider %q", cfg.Backend.Auth)
}
