package optional

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValue_States(t *testing.T) {
	var absent Value[int]
	_, ok := absent.Get()
	assert.False(t, ok)
	assert.Nil(t, absent.Ptr())
	assert.Equal(t, 9, absent.Or(9))

	null := Null[int]()
	assert.True(t, null.Set)
	assert.True(t, null.Null)
	assert.Nil(t, null.Ptr())

	set := Of(3)
	v, ok := set.Get()
	assert.True(t, ok)
	assert.Equal(t, 3, v)
	require.NotNil(t, set.Ptr())
	assert.Equal(t, 3, *set.Ptr())
}

func TestFromPtr(t *testing.T) {
	assert.Equal(t, Null[string](), FromPtr[string](nil))

	s := "x"
	assert.Equal(t, Of("x"), FromPtr(&s))
}

func TestValue_UnmarshalJSON(t *testing.T) {
	var body struct {
		Title       Value[string] `json:"title"`
		Description Value[string] `json:"description"`
		Pages       Value[int]    `json:"pages"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"title":"Dune","description":null}`), &body))

	assert.Equal(t, Of("Dune"), body.Title)
	assert.True(t, body.Description.Null)
	assert.False(t, body.Pages.Set)
}
