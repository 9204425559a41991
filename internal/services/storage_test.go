package services

import (
	"testing"

	"github.com/minio/minio-go/v7/pkg/lifecycle"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foxxcyber/bid-pricing/internal/config"
)

func TestStorageObjectKeys(t *testing.T) {
	s, err := NewStorageService(config.StorageConfig{Endpoint: "localhost:3900", Prefix: "/staging/", Bucket: "exports"})
	require.NoError(t, err)

	assert.Equal(t, "staging/inquiries/7/a.csv", s.objectKey("inquiries/7/a.csv"))
	assert.Equal(t, "staging/inquiries/7/a.csv", s.objectKey("/inquiries/7/a.csv"))
	assert.Equal(t,
		[]string{"staging/inquiries/7/a.csv", "staging/inquiries/7/b.csv"},
		s.objectKeys([]string{"inquiries/7/a.csv", "", "inquiries/7/b.csv", "inquiries/7/a.csv"}),
	)

	bare, err := NewStorageService(config.StorageConfig{Endpoint: "localhost:3900"})
	require.NoError(t, err)
	assert.Equal(t, "inquiries/7/a.csv", bare.objectKey("inquiries/7/a.csv"))
}

func TestExportFilename(t *testing.T) {
	assert.Equal(t, "inquiry-7-20240305T143000Z.csv", exportFilename("inquiries/7/20240305T143000Z.csv"))
	assert.Equal(t, "report.csv", exportFilename("other/place/report.csv"))
	assert.Equal(t, `attachment; filename=inquiry-7-20240305T143000Z.csv`, attachmentDisposition("inquiries/7/20240305T143000Z.csv"))
}

func TestRetentionRules(t *testing.T) {
	assert.Nil(t, retentionRules("inquiries/", 0))

	cfg := retentionRules("staging/inquiries/", 30)
	require.NotNil(t, cfg)
	require.Len(t, cfg.Rules, 1)
	assert.Equal(t, "Enabled", cfg.Rules[0].Status)
	assert.Equal(t, "staging/inquiries/", cfg.Rules[0].RuleFilter.Prefix)
	assert.Equal(t, lifecycle.ExpirationDays(30), cfg.Rules[0].Expiration.Days)
}
