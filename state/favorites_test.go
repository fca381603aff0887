package state

import (
	"testing"

	"github.com/curatenet/datamarket/tx"
	"github.com/curatenet/datamarket/types"
	"github.com/stretchr/testify/require"
)

func TestToggleFavoriteFlipsMembership(t *testing.T) {
	st := newTestState(t)
	creator := addTestAccount(t, st, types.Tokens(1000))
	_, err := st.UploadDataset(validUpload(), creator.Index, false)
	require.NoError(t, err)

	user := addTestAccount(t, st, nil)
	addr := user.Address()

	ev, err := st.ToggleFavorite(&tx.FavoriteTx{Dataset: 1}, user.Index, false)
	require.NoError(t, err)
	require.True(t, ev.Marked)

	marked, err := st.IsFavorite(addr, 1)
	require.NoError(t, err)
	require.True(t, marked)

	ev, err = st.ToggleFavorite(&tx.FavoriteTx{Dataset: 1}, user.Index, false)
	require.NoError(t, err)
	require.False(t, ev.Marked)

	marked, err = st.IsFavorite(addr, 1)
	require.NoError(t, err)
	require.False(t, marked)
}

func TestToggleFavoriteUnknownDataset(t *testing.T) {
	st := newTestState(t)
	user := addTestAccount(t, st, nil)
	_, err := st.ToggleFavorite(&tx.FavoriteTx{Dataset: 3}, user.Index, false)
	require.ErrorIs(t, err, ErrDatasetNotFound)
}

func TestFavoritesOfListsAscending(t *testing.T) {
	st := newTestState(t)
	creator := addTestAccount(t, st, types.Tokens(1000))
	for i := 0; i < 3; i++ {
		_, err := st.UploadDataset(validUpload(), creator.Index, false)
		require.NoError(t, err)
	}

	user := addTestAccount(t, st, nil)
	for _, id := range []uint64{3, 1} {
		_, err := st.ToggleFavorite(&tx.FavoriteTx{Dataset: id}, user.Index, false)
		require.NoError(t, err)
	}

	ids, err := st.FavoritesOf(user.Address())
	require.NoError(t, err)
	require.Equal(t, []uint64{1, 3}, ids)

	// a stranger has no favourites
	other := addTestAccount(t, st, nil)
	ids, err = st.FavoritesOf(other.Address())
	require.NoError(t, err)
	require.Empty(t, ids)
}

func TestFavoritesSurviveCommit(t *testing.T) {
	st := newTestState(t)
	creator := addTestAccount(t, st, types.Tokens(1000))
	_, err := st.UploadDataset(validUpload(), creator.Index, false)
	require.NoError(t, err)
	user := addTestAccount(t, st, nil)
	_, err = st.ToggleFavorite(&tx.FavoriteTx{Dataset: 1}, user.Index, false)
	require.NoError(t, err)

	_, err = st.Update()
	require.NoError(t, err)
	_, err = st.save()
	require.NoError(t, err)

	next := st.nextState()
	marked, err := next.IsFavorite(user.Address(), 1)
	require.NoError(t, err)
	require.True(t, marked)
}
