package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/inkwell-ai/inkwell-api/internal/data/jobstore"
	"github.com/inkwell-ai/inkwell-api/internal/domain/model"
	apperrors "github.com/inkwell-ai/inkwell-api/internal/errors"
	"github.com/inkwell-ai/inkwell-api/internal/mocks"
)

const testWait = 2 * time.Second

func newJobService(t *testing.T, ml *mocks.MockMLClient, timeout time.Duration) (*JobService, *jobstore.Store) {
	t.Helper()
	store := jobstore.New()
	svc, err := NewJobService(JobServiceOptions{
		Store:           store,
		ML:              ml,
		UpstreamTimeout: timeout,
	})
	require.NoError(t, err)
	return svc, store
}

// waitForTerminal polls until the job leaves processing state.
func waitForTerminal(t *testing.T, svc *JobService, id string) model.JobStatusResponse {
	t.Helper()
	var view model.JobStatusResponse
	require.Eventually(t, func() bool {
		v, err := svc.GetStatus(id)
		if err != nil {
			return false
		}
		view = v
		return v.Status != model.JobStatusProcessing
	}, testWait, 5*time.Millisecond)
	return view
}

func TestNewJobService_RequiresDependencies(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	_, err := NewJobService(JobServiceOptions{ML: mocks.NewMockMLClient(ctrl)})
	require.Error(t, err)

	_, err = NewJobService(JobServiceOptions{Store: jobstore.New()})
	require.Error(t, err)
}

func TestSubmitAnalysis_ImmediatelyProcessing_ThenCompleted(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	release := make(chan struct{})
	ml := mocks.NewMockMLClient(ctrl)
	ml.EXPECT().Analyze(gomock.Any(), model.AnalyzeRequest{Text: "some draft"}).
		DoAndReturn(func(context.Context, model.AnalyzeRequest) (json.RawMessage, error) {
			<-release
			return json.RawMessage(`{"sentiment":"positive"}`), nil
		})

	svc, _ := newJobService(t, ml, 0)

	id, err := svc.SubmitAnalysis(model.AnalyzeRequest{Text: "some draft"})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	// The id is queryable before the upstream call finishes.
	view, err := svc.GetStatus(id)
	require.NoError(t, err)
	assert.Equal(t, model.JobStatusProcessing, view.Status)
	assert.Nil(t, view.Result)
	assert.Empty(t, view.Error)

	close(release)

	view = waitForTerminal(t, svc, id)
	assert.Equal(t, model.JobStatusCompleted, view.Status)
	assert.JSONEq(t, `{"sentiment":"positive"}`, string(view.Result))
	assert.Empty(t, view.Error)
}

func TestSubmitGeneration_Completed(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ml := mocks.NewMockMLClient(ctrl)
	ml.EXPECT().Generate(gomock.Any(), gomock.Any()).
		Return(json.RawMessage(`{"content":"draft"}`), nil)

	svc, _ := newJobService(t, ml, 0)

	id, err := svc.SubmitGeneration(model.GenerateRequest{Title: "Go profiling"})
	require.NoError(t, err)

	view := waitForTerminal(t, svc, id)
	assert.Equal(t, model.JobStatusCompleted, view.Status)
	assert.JSONEq(t, `{"content":"draft"}`, string(view.Result))
}

func TestSubmitAnalysis_UpstreamError_MarksFailed(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ml := mocks.NewMockMLClient(ctrl)
	ml.EXPECT().Analyze(gomock.Any(), gomock.Any()).
		Return(nil, apperrors.Upstream("ml service /api/analyze returned 500 Internal Server Error"))

	svc, _ := newJobService(t, ml, 0)

	id, err := svc.SubmitAnalysis(model.AnalyzeRequest{Text: "x"})
	require.NoError(t, err)

	view := waitForTerminal(t, svc, id)
	assert.Equal(t, model.JobStatusFailed, view.Status)
	assert.Nil(t, view.Result)
	assert.Contains(t, view.Error, "returned 500")
}

func TestSubmitAnalysis_PanickingClient_MarksFailed(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ml := mocks.NewMockMLClient(ctrl)
	ml.EXPECT().Analyze(gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, model.AnalyzeRequest) (json.RawMessage, error) {
			panic("nil dereference in decoder")
		})

	svc, _ := newJobService(t, ml, 0)

	id, err := svc.SubmitAnalysis(model.AnalyzeRequest{Text: "x"})
	require.NoError(t, err)

	view := waitForTerminal(t, svc, id)
	assert.Equal(t, model.JobStatusFailed, view.Status)
	assert.Contains(t, view.Error, "panicked")
}

func TestSubmitAnalysis_UpstreamTimeout_MarksFailed(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ml := mocks.NewMockMLClient(ctrl)
	ml.EXPECT().Analyze(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, _ model.AnalyzeRequest) (json.RawMessage, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		})

	svc, _ := newJobService(t, ml, 50*time.Millisecond)

	id, err := svc.SubmitAnalysis(model.AnalyzeRequest{Text: "x"})
	require.NoError(t, err)

	view := waitForTerminal(t, svc, id)
	assert.Equal(t, model.JobStatusFailed, view.Status)
	assert.Contains(t, view.Error, "did not respond within")
}

func TestSubmitAnalysis_InvalidRequest_NoJobCreated(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, store := newJobService(t, mocks.NewMockMLClient(ctrl), 0)

	_, err := svc.SubmitAnalysis(model.AnalyzeRequest{})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
	assert.Zero(t, store.Len())
}

func TestSubmitGeneration_InvalidRequest_NoJobCreated(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, store := newJobService(t, mocks.NewMockMLClient(ctrl), 0)

	_, err := svc.SubmitGeneration(model.GenerateRequest{})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
	assert.Zero(t, store.Len())
}

func TestGetStatus_UnknownID(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, _ := newJobService(t, mocks.NewMockMLClient(ctrl), 0)

	_, err := svc.GetStatus("nope")
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestTerminalStateIsStable(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ml := mocks.NewMockMLClient(ctrl)
	ml.EXPECT().Analyze(gomock.Any(), gomock.Any()).
		Return(json.RawMessage(`{"ok":true}`), nil)

	svc, _ := newJobService(t, ml, 0)

	id, err := svc.SubmitAnalysis(model.AnalyzeRequest{Text: "x"})
	require.NoError(t, err)

	first := waitForTerminal(t, svc, id)
	for range 5 {
		again, getErr := svc.GetStatus(id)
		require.NoError(t, getErr)
		assert.Equal(t, first, again)
	}
}
