package businessflow

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/oroshi-mobile/simdesk/app/dto"
	"github.com/oroshi-mobile/simdesk/models"
	"github.com/oroshi-mobile/simdesk/repository"
	testingutil "github.com/oroshi-mobile/simdesk/testing"
	"github.com/oroshi-mobile/simdesk/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func newAdminLineFlow(testDB *testingutil.TestDB, registry *IntakeRegistry) AdminLineFlow {
	lineRepo := repository.NewLineRepository(testDB.DB)
	auditRepo := repository.NewAuditLogRepository(testDB.DB)
	dispatcher := NewBatchCommitDispatcher(DefaultCommitConcurrency)
	return NewAdminLineFlow(lineRepo, auditRepo, dispatcher, registry, 20*time.Millisecond)
}

func TestUpdateLinesBatch(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		lineRepo := repository.NewLineRepository(testDB.DB)

		flow := newAdminLineFlow(testDB, NewIntakeRegistry(time.Minute))
		metadata := NewClientMetadata("127.0.0.1", "go-test")

		admin, err := fixtures.CreateTestAdmin("operator", "SecurePass123!")
		require.NoError(t, err)
		app, err := fixtures.CreateTestApplication(models.ApplicationStatusAccepted, 3)
		require.NoError(t, err)

		t.Run("PartialUpdateAcrossLines", func(t *testing.T) {
			first, err := fixtures.CreateTestLine(app.ID, models.LineStatusNotOpened)
			require.NoError(t, err)
			second, err := fixtures.CreateTestLine(app.ID, models.LineStatusNotOpened)
			require.NoError(t, err)
			tag, err := fixtures.CreateTestTag(models.TagTypeSimLocation, "Shelf A")
			require.NoError(t, err)

			// JSON numbers decode as float64; the flow coerces them to uint
			req := &dto.BatchUpdateLinesRequest{
				Items: []dto.UpdateLineItem{
					{ID: first.ID, Fields: map[string]any{
						"phone_number":  "09011112222",
						"status":        "opened",
						"shipment_date": "2026-08-01",
					}},
					{ID: second.ID, Fields: map[string]any{
						"sim_location_tag_id": float64(tag.ID),
					}},
				},
			}

			result, err := flow.UpdateBatch(context.Background(), req, admin.ID, metadata)
			require.NoError(t, err)
			assert.Equal(t, 2, result.UpdatedCount)

			savedFirst, err := lineRepo.ByID(context.Background(), first.ID)
			require.NoError(t, err)
			require.NotNil(t, savedFirst.PhoneNumber)
			assert.Equal(t, "09011112222", *savedFirst.PhoneNumber)
			assert.Equal(t, models.LineStatusOpened, savedFirst.Status)
			require.NotNil(t, savedFirst.ShipmentDate)
			assert.Equal(t, "2026-08-01", savedFirst.ShipmentDate.UTC().Format("2006-01-02"))

			savedSecond, err := lineRepo.ByID(context.Background(), second.ID)
			require.NoError(t, err)
			require.NotNil(t, savedSecond.SimLocationTagID)
			assert.Equal(t, tag.ID, *savedSecond.SimLocationTagID)
			// Untouched columns survive
			assert.Equal(t, models.LineStatusNotOpened, savedSecond.Status)
			assert.Nil(t, savedSecond.PhoneNumber)
		})

		t.Run("NullClearsNullableColumn", func(t *testing.T) {
			line, err := fixtures.CreateTestLine(app.ID, models.LineStatusShipped)
			require.NoError(t, err)
			require.NoError(t, lineRepo.UpdateFields(context.Background(), line.ID,
				map[string]any{"shipment_date": utils.UTCNow()}))

			req := &dto.BatchUpdateLinesRequest{
				Items: []dto.UpdateLineItem{
					{ID: line.ID, Fields: map[string]any{"shipment_date": nil}},
				},
			}
			_, err = flow.UpdateBatch(context.Background(), req, admin.ID, metadata)
			require.NoError(t, err)

			saved, err := lineRepo.ByID(context.Background(), line.ID)
			require.NoError(t, err)
			assert.Nil(t, saved.ShipmentDate)
		})

		t.Run("StatusCannotBeCleared", func(t *testing.T) {
			line, err := fixtures.CreateTestLine(app.ID, models.LineStatusNotOpened)
			require.NoError(t, err)

			req := &dto.BatchUpdateLinesRequest{
				Items: []dto.UpdateLineItem{
					{ID: line.ID, Fields: map[string]any{"status": nil}},
				},
			}
			_, err = flow.UpdateBatch(context.Background(), req, admin.ID, metadata)
			require.Error(t, err)
			assert.True(t, IsInvalidLineStatus(err))
		})

		t.Run("UnknownFieldIsRejected", func(t *testing.T) {
			line, err := fixtures.CreateTestLine(app.ID, models.LineStatusNotOpened)
			require.NoError(t, err)

			req := &dto.BatchUpdateLinesRequest{
				Items: []dto.UpdateLineItem{
					{ID: line.ID, Fields: map[string]any{"application_id": float64(1)}},
				},
			}
			_, err = flow.UpdateBatch(context.Background(), req, admin.ID, metadata)
			require.Error(t, err)
			assert.True(t, IsUnknownLineField(err))
		})

		return nil
	})
	require.NoError(t, err)
}

func TestIntakeEndToEnd(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		lineRepo := repository.NewLineRepository(testDB.DB)

		registry := NewIntakeRegistry(time.Minute)
		flow := newAdminLineFlow(testDB, registry)
		metadata := NewClientMetadata("127.0.0.1", "go-test")

		admin, err := fixtures.CreateTestAdmin("operator", "SecurePass123!")
		require.NoError(t, err)
		app, err := fixtures.CreateTestApplication(models.ApplicationStatusAccepted, 3)
		require.NoError(t, err)

		var emptyLines []*models.Line
		for i := 0; i < 3; i++ {
			line, err := fixtures.CreateTestLine(app.ID, models.LineStatusNotOpened)
			require.NoError(t, err)
			emptyLines = append(emptyLines, line)
		}
		// A line that already holds an ICCID is not a candidate, and its serial
		// is a global duplicate for the session.
		takenICCID := testingutil.RandomICCID()
		_, err = fixtures.CreateTestLineWithICCID(app.ID, takenICCID)
		require.NoError(t, err)

		start, err := flow.StartIntake(context.Background(), &dto.StartIntakeRequest{
			Mode:          string(ScanModeAutoEnter),
			ApplicationID: &app.ID,
		}, metadata)
		require.NoError(t, err)
		assert.Equal(t, 3, start.CandidateCount)
		assert.Equal(t, 3, start.Remaining)

		t.Run("ScansFillSlotsInOrder", func(t *testing.T) {
			first := testingutil.RandomICCID()
			state, err := flow.Scan(context.Background(), start.SessionID, &dto.ScanRequest{Token: first}, metadata)
			require.NoError(t, err)
			require.Len(t, state.Assignments, 1)
			assert.Equal(t, emptyLines[0].ID, state.Assignments[0].LineID)
			assert.Equal(t, first, state.Assignments[0].ICCID)
			assert.Equal(t, 2, state.Remaining)
		})

		t.Run("GlobalDuplicateIsRejected", func(t *testing.T) {
			state, err := flow.Scan(context.Background(), start.SessionID, &dto.ScanRequest{Token: takenICCID}, metadata)
			require.Error(t, err)
			assert.True(t, IsICCIDTaken(err))
			// State snapshot still comes back so the screen can re-render
			require.NotNil(t, state)
			assert.Len(t, state.Assignments, 1)
		})

		t.Run("UndoFreesTheLastSlot", func(t *testing.T) {
			state, err := flow.UndoScan(context.Background(), start.SessionID, metadata)
			require.NoError(t, err)
			assert.Empty(t, state.Assignments)
			assert.Equal(t, 3, state.Remaining)
		})

		t.Run("CommitWritesOnePartialUpdatePerLine", func(t *testing.T) {
			scanned := make([]string, 0, 3)
			for i := 0; i < 3; i++ {
				iccid := testingutil.RandomICCID()
				scanned = append(scanned, iccid)
				_, err := flow.Scan(context.Background(), start.SessionID, &dto.ScanRequest{Token: iccid}, metadata)
				require.NoError(t, err)
			}

			result, err := flow.CommitIntake(context.Background(), start.SessionID, admin.ID, metadata)
			require.NoError(t, err)
			assert.Equal(t, 3, result.UpdatedCount)

			for i, line := range emptyLines {
				saved, err := lineRepo.ByID(context.Background(), line.ID)
				require.NoError(t, err)
				require.NotNil(t, saved.ICCID)
				assert.Equal(t, scanned[i], *saved.ICCID)
				// Only the ICCID column changed
				assert.Equal(t, models.LineStatusNotOpened, saved.Status)
			}

			// The session is gone after a successful commit
			_, err = flow.Scan(context.Background(), start.SessionID, &dto.ScanRequest{Token: testingutil.RandomICCID()}, metadata)
			require.Error(t, err)
			assert.True(t, IsIntakeSessionNotFound(err))
		})

		t.Run("CommitWithoutAssignmentsIsRejected", func(t *testing.T) {
			empty, err := flow.StartIntake(context.Background(), &dto.StartIntakeRequest{
				Mode:          string(ScanModeAutoEnter),
				ApplicationID: &app.ID,
			}, metadata)
			require.NoError(t, err)

			_, err = flow.CommitIntake(context.Background(), empty.SessionID, admin.ID, metadata)
			require.Error(t, err)
			assert.True(t, IsIntakeNoAssignments(err))
		})

		return nil
	})
	require.NoError(t, err)
}

func TestExportLinesXLSX(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)

		flow := newAdminLineFlow(testDB, NewIntakeRegistry(time.Minute))
		metadata := NewClientMetadata("127.0.0.1", "go-test")

		app, err := fixtures.CreateTestApplication(models.ApplicationStatusAccepted, 2)
		require.NoError(t, err)
		_, err = fixtures.CreateTestLine(app.ID, models.LineStatusNotOpened)
		require.NoError(t, err)
		iccid := testingutil.RandomICCID()
		_, err = fixtures.CreateTestLineWithICCID(app.ID, iccid)
		require.NoError(t, err)

		payload, filename, err := flow.ExportXLSX(context.Background(), &dto.ListLinesRequest{ApplicationID: &app.ID}, metadata)
		require.NoError(t, err)
		assert.Regexp(t, `^lines_\d{8}_\d{6}\.xlsx$`, filename)

		file, err := excelize.OpenReader(bytes.NewReader(payload))
		require.NoError(t, err)
		defer func() { _ = file.Close() }()

		rows, err := file.GetRows("Lines")
		require.NoError(t, err)
		// Header row plus one row per line
		require.Len(t, rows, 3)
		assert.Equal(t, "ICCID", rows[0][3])
		assert.Equal(t, iccid, rows[2][3])

		return nil
	})
	require.NoError(t, err)
}
