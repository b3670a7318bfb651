package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestUserListOptionsCollation(t *testing.T) {
	fallback := bson.D{{Key: "createdAt", Value: -1}}

	// Username sorts get the case-insensitive collation, whichever
	// direction and position the field appears in.
	opts := userListOptions(ParseSort("username", fallback))
	require.NotNil(t, opts.Collation)
	assert.Equal(t, "en", opts.Collation.Locale)
	assert.Equal(t, 2, opts.Collation.Strength)

	opts = userListOptions(ParseSort("-username,createdAt", fallback))
	assert.NotNil(t, opts.Collation)

	// Other sorts, including the default, stay collation-free.
	opts = userListOptions(ParseSort("", fallback))
	assert.Nil(t, opts.Collation)
	assert.Equal(t, fallback, opts.Sort)

	opts = userListOptions(ParseSort("-createdAt", fallback))
	assert.Nil(t, opts.Collation)
}
