package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"siteline/internal/contract"
	"siteline/internal/repository"
	"siteline/internal/service"
	"siteline/internal/testutil"
)

func TestScheduleService_ShiftTaskCascades(t *testing.T) {
	database := testutil.NewTestDB(t)
	projects := repository.NewSQLiteProjectRepo(database)
	tasks := repository.NewSQLiteTaskRepo(database)
	deps := repository.NewSQLiteDependencyRepo(database)
	svc := service.NewScheduleService(tasks, testutil.NewTestUoW(database))
	ctx := context.Background()

	p := testutil.NewTestProject("Tower")
	require.NoError(t, projects.Create(ctx, p))

	group := testutil.NewTestTask(p.ID, "Structure",
		testutil.WithTaskType("group"),
		testutil.WithPlan(testutil.Day(2024, time.June, 1), testutil.Day(2024, time.June, 30)))
	a := testutil.NewTestTask(p.ID, "Excavation",
		testutil.WithParent(group.ID),
		testutil.WithPlan(testutil.Day(2024, time.June, 1), testutil.Day(2024, time.June, 10)))
	b := testutil.NewTestTask(p.ID, "Foundation",
		testutil.WithPlan(testutil.Day(2024, time.June, 11), testutil.Day(2024, time.June, 20)))
	require.NoError(t, tasks.Create(ctx, group))
	require.NoError(t, tasks.Create(ctx, a))
	require.NoError(t, tasks.Create(ctx, b))
	require.NoError(t, deps.Create(ctx, a.ID, b.ID))

	result, err := svc.ShiftTask(ctx, a.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, result.DayShift)
	assert.Equal(t, 1, result.CascadedSuccessors)
	assert.True(t, result.PauseForCascade)

	gotA, err := tasks.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.True(t, gotA.PlanStart.Equal(testutil.Day(2024, time.June, 4)))
	assert.True(t, gotA.PlanEnd.Equal(testutil.Day(2024, time.June, 13)))

	gotB, err := tasks.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.True(t, gotB.PlanStart.Equal(testutil.Day(2024, time.June, 14)))
	assert.True(t, gotB.PlanEnd.Equal(testutil.Day(2024, time.June, 23)))
}

func TestScheduleService_ShiftGroupMovesChildren(t *testing.T) {
	database := testutil.NewTestDB(t)
	projects := repository.NewSQLiteProjectRepo(database)
	tasks := repository.NewSQLiteTaskRepo(database)
	svc := service.NewScheduleService(tasks, testutil.NewTestUoW(database))
	ctx := context.Background()

	p := testutil.NewTestProject("Tower")
	require.NoError(t, projects.Create(ctx, p))

	group := testutil.NewTestTask(p.ID, "Structure",
		testutil.WithTaskType("group"),
		testutil.WithPlan(testutil.Day(2024, time.June, 1), testutil.Day(2024, time.June, 30)))
	child := testutil.NewTestTask(p.ID, "Excavation",
		testutil.WithParent(group.ID),
		testutil.WithPlan(testutil.Day(2024, time.June, 1), testutil.Day(2024, time.June, 5)))
	require.NoError(t, tasks.Create(ctx, group))
	require.NoError(t, tasks.Create(ctx, child))

	result, err := svc.ShiftTask(ctx, group.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, 1, result.CascadedDescendants)

	got, err := tasks.GetByID(ctx, child.ID)
	require.NoError(t, err)
	assert.True(t, got.PlanStart.Equal(testutil.Day(2024, time.June, 4)))
	assert.True(t, got.PlanEnd.Equal(testutil.Day(2024, time.June, 8)))
}

func TestScheduleService_ResizeRightCascades(t *testing.T) {
	database := testutil.NewTestDB(t)
	projects := repository.NewSQLiteProjectRepo(database)
	tasks := repository.NewSQLiteTaskRepo(database)
	deps := repository.NewSQLiteDependencyRepo(database)
	svc := service.NewScheduleService(tasks, testutil.NewTestUoW(database))
	ctx := context.Background()

	p := testutil.NewTestProject("Tower")
	require.NoError(t, projects.Create(ctx, p))

	a := testutil.NewTestTask(p.ID, "Excavation",
		testutil.WithPlan(testutil.Day(2024, time.June, 1), testutil.Day(2024, time.June, 10)))
	b := testutil.NewTestTask(p.ID, "Foundation",
		testutil.WithPlan(testutil.Day(2024, time.June, 11), testutil.Day(2024, time.June, 20)))
	require.NoError(t, tasks.Create(ctx, a))
	require.NoError(t, tasks.Create(ctx, b))
	require.NoError(t, deps.Create(ctx, a.ID, b.ID))

	result, err := svc.ResizeTask(ctx, a.ID, "right", 2)
	require.NoError(t, err)
	assert.Equal(t, 1, result.CascadedSuccessors)

	gotA, err := tasks.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.True(t, gotA.PlanStart.Equal(testutil.Day(2024, time.June, 1)), "left edge stays pinned")
	assert.True(t, gotA.PlanEnd.Equal(testutil.Day(2024, time.June, 12)))

	gotB, err := tasks.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.True(t, gotB.PlanStart.Equal(testutil.Day(2024, time.June, 13)))
}

func TestScheduleService_ResizeUnknownEdge(t *testing.T) {
	database := testutil.NewTestDB(t)
	tasks := repository.NewSQLiteTaskRepo(database)
	svc := service.NewScheduleService(tasks, testutil.NewTestUoW(database))

	_, err := svc.ResizeTask(context.Background(), "any", "top", 1)
	assert.ErrorContains(t, err, "unknown edge")
}

func TestScheduleService_MoveActualRecomputesProgress(t *testing.T) {
	database := testutil.NewTestDB(t)
	projects := repository.NewSQLiteProjectRepo(database)
	tasks := repository.NewSQLiteTaskRepo(database)
	svc := service.NewScheduleService(tasks, testutil.NewTestUoW(database))
	ctx := context.Background()

	p := testutil.NewTestProject("Tower")
	require.NoError(t, projects.Create(ctx, p))

	task := testutil.NewTestTask(p.ID, "Excavation",
		testutil.WithPlan(testutil.Day(2024, time.June, 1), testutil.Day(2024, time.June, 10)),
		testutil.WithActual(testutil.DayPtr(2024, time.June, 1), testutil.DayPtr(2024, time.June, 4)))
	require.NoError(t, tasks.Create(ctx, task))

	_, err := svc.MoveActual(ctx, task.ID, 1)
	require.NoError(t, err)

	got, err := tasks.GetByID(ctx, task.ID)
	require.NoError(t, err)
	require.NotNil(t, got.ActualStart)
	assert.True(t, got.ActualStart.Equal(testutil.Day(2024, time.June, 2)))
	require.NotNil(t, got.ActualEnd)
	assert.True(t, got.ActualEnd.Equal(testutil.Day(2024, time.June, 5)))
	assert.Equal(t, 40.0, got.Progress, "4 actual days over a 10 day plan")
}

func TestScheduleService_NoopShiftSkipsPersistence(t *testing.T) {
	database := testutil.NewTestDB(t)
	projects := repository.NewSQLiteProjectRepo(database)
	tasks := repository.NewSQLiteTaskRepo(database)
	svc := service.NewScheduleService(tasks, testutil.NewTestUoW(database))
	ctx := context.Background()

	p := testutil.NewTestProject("Tower")
	require.NoError(t, projects.Create(ctx, p))
	task := testutil.NewTestTask(p.ID, "Excavation")
	require.NoError(t, tasks.Create(ctx, task))

	var mirrored int
	svc.SetMirror(func(contract.UpdateBatch) { mirrored++ })

	result, err := svc.ShiftTask(ctx, task.ID, 0)
	require.NoError(t, err)
	assert.True(t, result.IsNoop())
	assert.Zero(t, mirrored, "no-op release must not reach the mirror")
}

func TestScheduleService_MirrorSeesBatchBeforePersistence(t *testing.T) {
	database := testutil.NewTestDB(t)
	projects := repository.NewSQLiteProjectRepo(database)
	tasks := repository.NewSQLiteTaskRepo(database)
	ctx := context.Background()

	p := testutil.NewTestProject("Tower")
	require.NoError(t, projects.Create(ctx, p))
	task := testutil.NewTestTask(p.ID, "Excavation")
	require.NoError(t, tasks.Create(ctx, task))

	boom := errors.New("disk full")
	failingUoW := &testutil.FailOnNthExecUoW{DB: database, FailOn: 1, Err: boom}
	svc := service.NewScheduleService(tasks, failingUoW)

	var mirrored []contract.UpdateBatch
	svc.SetMirror(func(b contract.UpdateBatch) { mirrored = append(mirrored, b) })

	_, err := svc.ShiftTask(ctx, task.ID, 2)
	require.ErrorIs(t, err, boom)

	require.Len(t, mirrored, 1, "mirror fires even when persistence later fails")
	assert.Equal(t, task.ID, mirrored[0][0].TaskID)

	got, err := tasks.GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.True(t, got.PlanStart.Equal(task.PlanStart), "failed batch must roll back")
}
