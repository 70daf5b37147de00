package favorites

import (
	"testing"

	"cloud.google.com/go/firestore"
	"github.com/stretchr/testify/assert"
)

func TestSavedSetOp(t *testing.T) {
	assert.Equal(t, firestore.ArrayUnion("prop-1"), savedSetOp("prop-1", true))
	assert.Equal(t, firestore.ArrayRemove("prop-1"), savedSetOp("prop-1", false))

	// The two transforms are distinct types, so both branches must yield
	// a value assignable to firestore.Update.Value.
	for _, saved := range []bool{true, false} {
		update := firestore.Update{Path: savedPropertiesPath, Value: savedSetOp("prop-2", saved)}
		assert.NotNil(t, update.Value)
	}
}
