// internal/document/identity_test.go
package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDerive_Deterministic(t *testing.T) {
	payload := map[string]interface{}{
		"name":  "Test User",
		"total": 120.5,
		"items": []interface{}{"a", "b"},
	}

	first, err := Derive(payload)
	require.NoError(t, err)
	assert.Len(t, first, 12)

	for i := 0; i < 5; i++ {
		again, err := Derive(payload)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestDerive_IndependentOfInsertionOrder(t *testing.T) {
	a := map[string]interface{}{}
	a["x"] = 1.0
	a["y"] = "v"
	a["z"] = true

	b := map[string]interface{}{}
	b["z"] = true
	b["y"] = "v"
	b["x"] = 1.0

	idA, err := Derive(a)
	require.NoError(t, err)
	idB, err := Derive(b)
	require.NoError(t, err)

	assert.Equal(t, idA, idB)
}

func TestDerive_DifferentPayloadsDiffer(t *testing.T) {
	base := map[string]interface{}{"name": "x", "total": 10.0}
	changed := map[string]interface{}{"name": "x", "total": 10.01}

	idBase, err := Derive(base)
	require.NoError(t, err)
	idChanged, err := Derive(changed)
	require.NoError(t, err)

	assert.NotEqual(t, idBase, idChanged)
}

func TestDerive_UnserializablePayload(t *testing.T) {
	payload := map[string]interface{}{"bad": make(chan int)}

	_, err := Derive(payload)
	assert.Error(t, err)
}
