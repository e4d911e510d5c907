package businessflow

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/oroshi-mobile/simdesk/app/dto"
	"github.com/oroshi-mobile/simdesk/models"
	"github.com/oroshi-mobile/simdesk/repository"
	testingutil "github.com/oroshi-mobile/simdesk/testing"
	"github.com/oroshi-mobile/simdesk/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newContractorFlow(testDB *testingutil.TestDB) ContractorFlow {
	contractorRepo := repository.NewContractorRepository(testDB.DB)
	appRepo := repository.NewApplicationRepository(testDB.DB)
	auditRepo := repository.NewAuditLogRepository(testDB.DB)
	return NewContractorFlow(contractorRepo, appRepo, auditRepo, testDB.DB)
}

func TestContractorDuplicates(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		contractorRepo := repository.NewContractorRepository(testDB.DB)
		flow := newContractorFlow(testDB)
		metadata := NewClientMetadata("127.0.0.1", "go-test")

		// Two records with the same normalized identity and one unrelated record
		shared := "09088887777"
		for _, name := range []string{"Suzuki  Denki", "Suzuki Denki"} {
			contractor := &models.Contractor{
				UUID:     uuid.New(),
				Name:     name,
				Mobile:   shared,
				IsActive: utils.ToPtr(true),
			}
			require.NoError(t, contractorRepo.Save(context.Background(), contractor))
		}
		other := &models.Contractor{
			UUID:     uuid.New(),
			Name:     "Tanaka Tsushin",
			Mobile:   "09011110000",
			IsActive: utils.ToPtr(true),
		}
		require.NoError(t, contractorRepo.Save(context.Background(), other))

		result, err := flow.Duplicates(context.Background(), metadata)
		require.NoError(t, err)
		require.Len(t, result.Groups, 1)
		assert.Len(t, result.Groups[0].Members, 2)
		assert.Contains(t, result.Groups[0].Key, shared)

		return nil
	})
	require.NoError(t, err)
}

func TestContractorMerge(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		contractorRepo := repository.NewContractorRepository(testDB.DB)
		appRepo := repository.NewApplicationRepository(testDB.DB)

		flow := newContractorFlow(testDB)
		metadata := NewClientMetadata("127.0.0.1", "go-test")

		admin, err := fixtures.CreateTestAdmin("operator", "SecurePass123!")
		require.NoError(t, err)

		t.Run("MergeReassignsApplications", func(t *testing.T) {
			target, err := fixtures.CreateTestContractor("Suzuki Denki")
			require.NoError(t, err)
			source, err := fixtures.CreateTestContractor("Suzuki Denki")
			require.NoError(t, err)

			app, err := fixtures.CreateTestApplication(models.ApplicationStatusSubmitted, 1)
			require.NoError(t, err)
			require.NoError(t, appRepo.UpdateFields(context.Background(), app.ID,
				map[string]any{"contractor_id": source.ID}))

			result, err := flow.Merge(context.Background(), &dto.MergeContractorsRequest{
				TargetID:  target.ID,
				SourceIDs: []uint{source.ID},
			}, admin.ID, metadata)
			require.NoError(t, err)
			assert.Equal(t, 1, result.MergedCount)
			assert.Equal(t, int64(1), result.ReassignedApps)

			savedApp, err := appRepo.ByID(context.Background(), app.ID)
			require.NoError(t, err)
			require.NotNil(t, savedApp.ContractorID)
			assert.Equal(t, target.ID, *savedApp.ContractorID)

			savedSource, err := contractorRepo.ByID(context.Background(), source.ID)
			require.NoError(t, err)
			require.NotNil(t, savedSource.MergedIntoID)
			assert.Equal(t, target.ID, *savedSource.MergedIntoID)
			assert.False(t, utils.IsTrue(savedSource.IsActive))

			// A merged contractor drops out of the duplicate clustering
			dupes, err := flow.Duplicates(context.Background(), metadata)
			require.NoError(t, err)
			assert.Empty(t, dupes.Groups)
		})

		t.Run("SelfMergeIsRejected", func(t *testing.T) {
			contractor, err := fixtures.CreateTestContractor("Solo Shoten")
			require.NoError(t, err)

			_, err = flow.Merge(context.Background(), &dto.MergeContractorsRequest{
				TargetID:  contractor.ID,
				SourceIDs: []uint{contractor.ID},
			}, admin.ID, metadata)
			require.Error(t, err)
			assert.True(t, IsContractorSelfMerge(err))
		})

		t.Run("MergedSourceCannotBeMergedAgain", func(t *testing.T) {
			target, err := fixtures.CreateTestContractor("Yamada Mobile")
			require.NoError(t, err)
			source, err := fixtures.CreateTestContractor("Yamada Mobile")
			require.NoError(t, err)

			_, err = flow.Merge(context.Background(), &dto.MergeContractorsRequest{
				TargetID:  target.ID,
				SourceIDs: []uint{source.ID},
			}, admin.ID, metadata)
			require.NoError(t, err)

			_, err = flow.Merge(context.Background(), &dto.MergeContractorsRequest{
				TargetID:  target.ID,
				SourceIDs: []uint{source.ID},
			}, admin.ID, metadata)
			require.Error(t, err)
			assert.True(t, IsContractorAlreadyMerged(err))
		})

		t.Run("UnknownTargetIsNotFound", func(t *testing.T) {
			source, err := fixtures.CreateTestContractor("Ghost Denki")
			require.NoError(t, err)

			_, err = flow.Merge(context.Background(), &dto.MergeContractorsRequest{
				TargetID:  999999,
				SourceIDs: []uint{source.ID},
			}, admin.ID, metadata)
			require.Error(t, err)
			assert.True(t, IsContractorNotFound(err))
		})

		return nil
	})
	require.NoError(t, err)
}
