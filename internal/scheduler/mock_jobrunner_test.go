package scheduler

import (
	"context"
	"reflect"

	"go.uber.org/mock/gomock"

	"github.com/vk/qgraph/internal/runner"
)

// MockJobRunner is a hand-written gomock-style mock of runner.JobRunner,
// generated in the shape mockgen would produce for the small, stable
// JobRunner contract.
type MockJobRunner struct {
	ctrl     *gomock.Controller
	recorder *MockJobRunnerMockRecorder
}

type MockJobRunnerMockRecorder struct {
	mock *MockJobRunner
}

func NewMockJobRunner(ctrl *gomock.Controller) *MockJobRunner {
	m := &MockJobRunner{ctrl: ctrl}
	m.recorder = &MockJobRunnerMockRecorder{m}
	return m
}

func (m *MockJobRunner) EXPECT() *MockJobRunnerMockRecorder {
	return m.recorder
}

func (m *MockJobRunner) Start(ctx context.Context) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Start", ctx)
	err, _ := ret[0].(error)
	return err
}

func (mr *MockJobRunnerMockRecorder) Start(ctx interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Start", reflect.TypeOf((*MockJobRunner)(nil).Start), ctx)
}

func (m *MockJobRunner) Status() runner.Status {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Status")
	status, _ := ret[0].(runner.Status)
	return status
}

func (mr *MockJobRunnerMockRecorder) Status() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Status", reflect.TypeOf((*MockJobRunner)(nil).Status))
}

func (m *MockJobRunner) TryStop(ctx context.Context) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "TryStop", ctx)
	err, _ := ret[0].(error)
	return err
}

func (mr *MockJobRunnerMockRecorder) TryStop(ctx interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "TryStop", reflect.TypeOf((*MockJobRunner)(nil).TryStop), ctx)
}

func (m *MockJobRunner) RemoveTemporaryFiles() error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "RemoveTemporaryFiles")
	err, _ := ret[0].(error)
	return err
}

func (mr *MockJobRunnerMockRecorder) RemoveTemporaryFiles() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "RemoveTemporaryFiles", reflect.TypeOf((*MockJobRunner)(nil).RemoveTemporaryFiles))
}
