package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore(t *testing.T) {
	st := NewStore(testRates)

	a := st.Create("Villa")
	b := st.Create("")
	assert.Equal(t, "Villa", a.Name())
	assert.Equal(t, "Untitled", b.Name())

	got, err := st.Get(a.ID())
	require.NoError(t, err)
	assert.Same(t, a, got)

	_, err = a.Materialize(treadDraft("sys-1"))
	require.NoError(t, err)

	list := st.List()
	require.Len(t, list, 2)
	assert.Equal(t, a.ID(), list[0].ID)
	assert.Equal(t, 1, list[0].Totals.Parts)

	require.NoError(t, st.Delete(a.ID()))
	_, err = st.Get(a.ID())
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, st.Delete(a.ID()), ErrNotFound)
	assert.Len(t, st.List(), 1)
}
