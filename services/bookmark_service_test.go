package services

import (
	"context"
	"testing"

	"campusnest/errors"
	"campusnest/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookmarkLifecycle(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	svc := NewBookmarkService(db)

	campus := testutil.Campus(t, db, "Texas Tech", "ttu.edu")
	vue := testutil.Housing(t, db, campus, "The Vue")
	hall := testutil.Housing(t, db, campus, "Chitwood Hall")
	alice := testutil.User(t, db, "alice", campus)
	bob := testutil.User(t, db, "bob", campus)

	first, err := svc.Create(ctx, actorOf(alice), vue.ID)
	require.NoError(t, err)
	_, err = svc.Create(ctx, actorOf(alice), hall.ID)
	require.NoError(t, err)

	_, err = svc.Create(ctx, actorOf(alice), vue.ID)
	assert.True(t, errors.HasCode(err, errors.ErrCodeConflict))

	_, err = svc.Create(ctx, actorOf(alice), hall.ID+100)
	assert.True(t, errors.HasCode(err, errors.ErrCodeNotFound))

	_, err = svc.Create(ctx, nil, vue.ID)
	assert.True(t, errors.HasCode(err, errors.ErrCodeUnauthorized))

	list, err := svc.List(ctx, actorOf(alice), alice.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.NotNil(t, list[0].Housing)
	assert.Equal(t, "Chitwood Hall", list[0].Housing.Name)

	_, err = svc.List(ctx, actorOf(bob), alice.ID)
	assert.True(t, errors.HasCode(err, errors.ErrCodeForbidden))

	err = svc.Delete(ctx, actorOf(bob), first.ID)
	assert.True(t, errors.HasCode(err, errors.ErrCodeForbidden))

	require.NoError(t, svc.Delete(ctx, actorOf(alice), first.ID))
	err = svc.Delete(ctx, actorOf(alice), first.ID)
	assert.True(t, errors.HasCode(err, errors.ErrCodeNotFound))

	list, err = svc.List(ctx, actorOf(alice), alice.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestHousingIDsByUser(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	svc := NewBookmarkService(db)

	campus := testutil.Campus(t, db, "Texas Tech", "ttu.edu")
	vue := testutil.Housing(t, db, campus, "The Vue")
	hall := testutil.Housing(t, db, campus, "Chitwood Hall")
	alice := testutil.User(t, db, "alice", campus)
	bob := testutil.User(t, db, "bob", campus)
	carol := testutil.User(t, db, "carol", campus)

	for _, pair := range []struct {
		user    uint
		housing uint
	}{{alice.ID, vue.ID}, {alice.ID, hall.ID}, {bob.ID, hall.ID}} {
		_, err := svc.Create(ctx, actorFor(pair.user), pair.housing)
		require.NoError(t, err)
	}

	sets, err := svc.HousingIDsByUser(ctx, []uint{alice.ID, bob.ID, carol.ID})
	require.NoError(t, err)
	assert.Equal(t, []uint{vue.ID, hall.ID}, sets[alice.ID])
	assert.Equal(t, []uint{hall.ID}, sets[bob.ID])
	assert.Empty(t, sets[carol.ID])

	empty, err := svc.HousingIDsByUser(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}
