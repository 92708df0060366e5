package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTenantSelection_Stale(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	row := TenantSelection{UpdatedAt: now.Add(-48 * time.Hour)}

	assert.False(t, row.Stale(0, now))
	assert.False(t, row.Stale(72*time.Hour, now))
	assert.True(t, row.Stale(24*time.Hour, now))
	assert.Equal(t, "tenant_selections", row.TableName())
}
