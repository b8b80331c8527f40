package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/obrastudio/site-backend/errs"
)

func TestParseTable_AllowList(t *testing.T) {
	for _, name := range []string{"projetos", "projeto_galeria", "posts", "autores", "depoimentos"} {
		table, err := ParseTable(name)
		require.NoError(t, err, name)
		assert.Equal(t, name, table.String())
	}
}

func TestParseTable_RejectsUnknown(t *testing.T) {
	for _, name := range []string{"admin_users", "uploads", "comments", "users", ""} {
		_, err := ParseTable(name)
		require.Error(t, err, name)
		assert.True(t, errs.IsUnknownTable(err))
		assert.Equal(t, 404, errs.StatusOf(err))
	}
}

func TestPublicFilter(t *testing.T) {
	assert.Equal(t, bson.M{"publicado": true}, TablePosts.PublicFilter())
	assert.Equal(t, bson.M{"publicado": true}, TableAuthors.PublicFilter())
	assert.Equal(t, bson.M{"ativo": true}, TableTestimonials.PublicFilter())
	assert.Nil(t, TableProjects.PublicFilter())
	assert.Nil(t, TableGallery.PublicFilter())
}
