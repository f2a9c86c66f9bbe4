package settings

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/angelmondragon/storefront-backend/pkg/db"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) Service {
	t.Helper()
	client, err := db.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	svc, err := NewService(NewRepository(client.DB()))
	require.NoError(t, err)
	return svc
}

func TestPutOverwritesAndListsByKey(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Put(ctx, "store_name", json.RawMessage(`"Mates del Sur"`))
	require.NoError(t, err)
	_, err = svc.Put(ctx, "Hero.Banner", json.RawMessage(`{"title":"Hot Sale","enabled":true}`))
	require.NoError(t, err)
	_, err = svc.Put(ctx, "store_name", json.RawMessage(`"Mates del Norte"`))
	require.NoError(t, err)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "hero.banner", list[0].Key)
	assert.JSONEq(t, `{"title":"Hot Sale","enabled":true}`, string(list[0].Value))

	got, err := svc.Get(ctx, "store_name")
	require.NoError(t, err)
	assert.JSONEq(t, `"Mates del Norte"`, string(got.Value))
}

func TestPutValidatesKeyAndValue(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Put(ctx, "bad key!", json.RawMessage(`1`))
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	_, err = svc.Put(ctx, "ok", json.RawMessage(`{oops`))
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestDeleteSetting(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	_, err := svc.Put(ctx, "contact_phone", json.RawMessage(`"+54 341 555"`))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, "contact_phone"))
	_, err = svc.Get(ctx, "contact_phone")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
	assert.True(t, pkgerrors.IsCode(svc.Delete(ctx, "contact_phone"), pkgerrors.CodeNotFound))
}
