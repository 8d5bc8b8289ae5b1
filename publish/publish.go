package publish

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"

	"github.com/Backblaze/blazer/b2"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Credentials for the B2 bucket the bundle artifacts are uploaded to.
type Credentials struct {
	AccountID      string
	ApplicationKey string
	BucketName     string
	BasePath       string // Optional object name prefix inside the bucket
}

// LoadCredentials reads B2 credentials from the environment, loading a .env
// file first when one is present.
func LoadCredentials() (*Credentials, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("cannot load .env file: %w", err)
		}
	}

	creds := &Credentials{
		AccountID:      os.Getenv("B2_ACCOUNT_ID"),
		ApplicationKey: os.Getenv("B2_APPLICATION_KEY"),
		BucketName:     os.Getenv("B2_BUCKET"),
		BasePath:       os.Getenv("B2_BASE_PATH"),
	}
	if creds.AccountID == "" || creds.ApplicationKey == "" || creds.BucketName == "" {
		return nil, fmt.Errorf("B2_ACCOUNT_ID, B2_APPLICATION_KEY and B2_BUCKET must be set")
	}
	return creds, nil
}

// ObjectName maps a local artifact path to its object name in the bucket.
func (c *Credentials) ObjectName(localPath string) string {
	return path.Join(c.BasePath, filepath.Base(localPath))
}

// Upload copies the given artifact files into the configured bucket. Missing
// optional artifacts (e.g. a source map that was not emitted) are skipped.
func Upload(ctx context.Context, creds *Credentials, paths ...string) error {
	client, err := b2.NewClient(ctx, creds.AccountID, creds.ApplicationKey)
	if err != nil {
		return fmt.Errorf("cannot create B2 client: %w", err)
	}
	bucket, err := client.Bucket(ctx, creds.BucketName)
	if err != nil {
		return fmt.Errorf("cannot open B2 bucket '%s': %w", creds.BucketName, err)
	}

	for _, p := range paths {
		if _, err := os.Stat(p); os.IsNotExist(err) {
			logrus.WithField("path", p).Debug("publish: artifact not present, skipping")
			continue
		}
		dst := creds.ObjectName(p)
		if err := copyFile(ctx, bucket, p, dst); err != nil {
			return fmt.Errorf("upload of '%s' failed: %w", p, err)
		}
		logrus.WithFields(logrus.Fields{"path": p, "object": dst}).Info("publish: uploaded artifact")
	}
	return nil
}

func copyFile(ctx context.Context, bucket *b2.Bucket, src, dst string) error {
	f, err := os.Open(src)
	if err != nil {
		return err
	}
	defer f.Close()

	obj := bucket.Object(dst)
	w := obj.NewWriter(ctx)
	if _, err := io.Copy(w, f); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}
