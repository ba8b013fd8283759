package prompt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogTemplates(t *testing.T) {
	ids := CatalogIDs()
	require.Len(t, ids, 5)

	for _, id := range ids {
		tpl, err := CatalogTemplate(id)
		require.NoError(t, err, id)
		assert.True(t, tpl.IsSystem)
		assert.Nil(t, tpl.TenantID)
		assert.Equal(t, string(id), tpl.AliasValue())
		assert.NotEmpty(t, tpl.Body)
		assert.NotEmpty(t, tpl.Variables, id)
		assert.True(t, tpl.Category.IsValid())
	}
}

func TestCatalogMetaTitleVariables(t *testing.T) {
	tpl, err := CatalogTemplate(CatalogMetaTitle)
	require.NoError(t, err)
	assert.Equal(t, []string{"keyword", "category"}, []string(tpl.Variables))

	out := Resolve(tpl.Body, map[string]string{"keyword": "running shoes", "category": "sport"})
	assert.Contains(t, out, "'running shoes' in the sport category")
	assert.Contains(t, out, "Maximum 60 characters")
}

func TestCatalogUnknown(t *testing.T) {
	_, err := CatalogBody("nope")
	assert.Error(t, err)
}
