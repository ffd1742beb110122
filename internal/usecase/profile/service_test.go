package profile

import (
	"context"
	stdErrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-notes/errors"
	"github.com/johnquangdev/meeting-notes/internal/domain/entities"
	"github.com/johnquangdev/meeting-notes/internal/testutil"
)

func TestNormalize(t *testing.T) {
	assert.Equal(t, "tanaka", Normalize("  ＴＡＮＡＫＡ "))
	assert.Equal(t, "カタカナ", Normalize("ｶﾀｶﾅ"))
	assert.Equal(t, "strasse", Normalize("STRASSE"))
}

func TestSuggest(t *testing.T) {
	store := testutil.NewStore()
	store.AddProfile("tanaka@example.com", "田中 太郎", "tanaka")
	store.AddProfile("suzuki@example.com", "Suzuki Hanako", "hanako")
	store.AddProfile("sato@example.com", "", "ＳＡＴＯ")

	svc := NewProfileService(testutil.ProfileRepo{S: store}, zap.NewNop())
	ctx := context.Background()

	got, err := svc.Suggest(ctx, "田中", 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "tanaka@example.com", got[0].Email)

	got, err = svc.Suggest(ctx, "HANA", 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "suzuki@example.com", got[0].Email)

	got, err = svc.Suggest(ctx, "sato", 0)
	require.NoError(t, err)
	require.Len(t, got, 1)

	got, err = svc.Suggest(ctx, "", 0)
	require.NoError(t, err)
	assert.Len(t, got, 3)
}

func TestSuggestCapsResults(t *testing.T) {
	store := testutil.NewStore()
	for i := 0; i < 12; i++ {
		store.AddProfile(string(rune('a'+i))+"@example.com", "member "+string(rune('a'+i)), "")
	}
	svc := NewProfileService(testutil.ProfileRepo{S: store}, nil)

	got, err := svc.Suggest(context.Background(), "member", 50)
	require.NoError(t, err)
	assert.Len(t, got, DefaultSuggestLimit)
}

func TestResolveAssignees(t *testing.T) {
	store := testutil.NewStore()
	tanaka := store.AddProfile("tanaka@example.com", "田中", "tanaka")
	store.AddProfile("yamada1@example.com", "山田", "")
	store.AddProfile("yamada2@example.com", "山田", "")

	svc := NewProfileService(testutil.ProfileRepo{S: store}, zap.NewNop())

	resolved, err := svc.ResolveAssignees(context.Background(), []string{"田中", "TANAKA", "山田", "nobody", ""})
	require.NoError(t, err)

	assert.Equal(t, tanaka.ID, resolved["田中"])
	assert.Equal(t, tanaka.ID, resolved["TANAKA"])
	assert.NotContains(t, resolved, "山田")
	assert.NotContains(t, resolved, "nobody")
	assert.NotContains(t, resolved, "")

	id, err := svc.ResolveAssignee(context.Background(), " tanaka ")
	require.NoError(t, err)
	require.NotNil(t, id)
	assert.Equal(t, tanaka.ID, *id)

	id, err = svc.ResolveAssignee(context.Background(), "山田")
	require.NoError(t, err)
	assert.Nil(t, id)
}

type failingProfiles struct {
	testutil.ProfileRepo
}

func (failingProfiles) ListActive(context.Context) ([]*entities.Profile, error) {
	return nil, stdErrors.New("connection reset")
}

func TestRepositoryFailures(t *testing.T) {
	svc := NewProfileService(failingProfiles{testutil.ProfileRepo{S: testutil.NewStore()}}, nil)
	ctx := context.Background()

	tests := []struct {
		name string
		call func() error
	}{
		{"suggest", func() error { _, err := svc.Suggest(ctx, "sa", 0); return err }},
		{"resolve", func() error { _, err := svc.ResolveAssignees(ctx, []string{"Sato"}); return err }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.call()
			var appErr errors.AppError
			require.True(t, stdErrors.As(err, &appErr))
			assert.Equal(t, errors.ErrorCode_DB_QUERY_FAILED, appErr.Code)
			assert.Equal(t, "list profiles", appErr.Details["query"])
		})
	}
}
