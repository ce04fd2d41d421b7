package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	data, err := New(ArticleFavorited, 7, "hello-world-1", 3).Encode()
	require.NoError(t, err)

	evt, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, ArticleFavorited, evt.Type)
	assert.Equal(t, int64(7), evt.ArticleID)
	assert.Equal(t, int64(3), evt.UserID)
	assert.Equal(t, []byte("article-7"), evt.Key())
}

func TestDecode_Malformed(t *testing.T) {
	_, err := Decode([]byte("{"))
	assert.Error(t, err)

	_, err = Decode([]byte(`{"type":"article.created"}`))
	assert.ErrorContains(t, err, "malformed")
}
