package businessflow

import (
	"context"
	"testing"

	"github.com/oroshi-mobile/simdesk/app/dto"
	"github.com/oroshi-mobile/simdesk/config"
	"github.com/oroshi-mobile/simdesk/models"
	"github.com/oroshi-mobile/simdesk/repository"
	testingutil "github.com/oroshi-mobile/simdesk/testing"
	"github.com/oroshi-mobile/simdesk/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTagFlow builds the flow without redis; caching is optional and the flow
// falls through to the database when no client is wired.
func newTagFlow(testDB *testingutil.TestDB) TagFlow {
	tagRepo := repository.NewTagRepository(testDB.DB)
	auditRepo := repository.NewAuditLogRepository(testDB.DB)
	return NewTagFlow(tagRepo, auditRepo, nil, &config.CacheConfig{RedisPrefix: "simdesk-test:"})
}

func TestTagFlow(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		flow := newTagFlow(testDB)
		metadata := NewClientMetadata("127.0.0.1", "go-test")

		admin, err := fixtures.CreateTestAdmin("operator", "SecurePass123!")
		require.NoError(t, err)

		t.Run("CreateNormalizesName", func(t *testing.T) {
			tag, err := flow.Create(context.Background(), &dto.CreateTagRequest{
				Name: "  Shelf   B ",
				Type: string(models.TagTypeSimLocation),
			}, admin.ID, metadata)
			require.NoError(t, err)
			assert.Equal(t, "Shelf B", tag.Name)
			assert.Equal(t, string(models.TagTypeSimLocation), tag.Type)
			assert.NotZero(t, tag.ID)
		})

		t.Run("NameIsUniquePerTypeOnly", func(t *testing.T) {
			_, err := flow.Create(context.Background(), &dto.CreateTagRequest{
				Name: "Drawer 1",
				Type: string(models.TagTypeSimLocation),
			}, admin.ID, metadata)
			require.NoError(t, err)

			// Same name under another type is a different tag
			_, err = flow.Create(context.Background(), &dto.CreateTagRequest{
				Name: "Drawer 1",
				Type: string(models.TagTypeSpare),
			}, admin.ID, metadata)
			require.NoError(t, err)

			_, err = flow.Create(context.Background(), &dto.CreateTagRequest{
				Name: "Drawer 1",
				Type: string(models.TagTypeSimLocation),
			}, admin.ID, metadata)
			require.Error(t, err)
			assert.True(t, IsTagAlreadyExists(err))
		})

		t.Run("UnknownTypeIsRejected", func(t *testing.T) {
			_, err := flow.Create(context.Background(), &dto.CreateTagRequest{
				Name: "Somewhere",
				Type: "warehouse",
			}, admin.ID, metadata)
			require.Error(t, err)
			assert.True(t, IsTagTypeInvalid(err))
		})

		t.Run("UpdateRenames", func(t *testing.T) {
			tag, err := flow.Create(context.Background(), &dto.CreateTagRequest{
				Name: "Old Name",
				Type: string(models.TagTypeSpare),
			}, admin.ID, metadata)
			require.NoError(t, err)

			renamed, err := flow.Update(context.Background(), tag.ID, &dto.UpdateTagRequest{Name: "New Name"}, admin.ID, metadata)
			require.NoError(t, err)
			assert.Equal(t, "New Name", renamed.Name)

			_, err = flow.Update(context.Background(), 999999, &dto.UpdateTagRequest{Name: "Ghost"}, admin.ID, metadata)
			require.Error(t, err)
			assert.True(t, IsTagNotFound(err))
		})

		t.Run("ListFiltersByType", func(t *testing.T) {
			all, err := flow.List(context.Background(), nil, metadata)
			require.NoError(t, err)
			assert.NotEmpty(t, all.Items)

			spares, err := flow.List(context.Background(), &dto.ListTagsRequest{
				Type: utils.ToPtr(string(models.TagTypeSpare)),
			}, metadata)
			require.NoError(t, err)
			for _, item := range spares.Items {
				assert.Equal(t, string(models.TagTypeSpare), item.Type)
			}
		})

		return nil
	})
	require.NoError(t, err)
}
