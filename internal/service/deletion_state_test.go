package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeletionStateHappyPath(t *testing.T) {
	run := &deletionRun{userID: 1, state: stateRequested}
	for _, next := range []deleteState{
		stateIdentitySnapshotted,
		stateTombstoned,
		stateReceiverMapped,
		stateCascadePurged,
		stateFilesPurged,
		stateCommitted,
	} {
		require.NoError(t, run.advance(next))
	}
	assert.Equal(t, stateCommitted, run.state)
}

func TestDeletionStateRollbackBeforeCommit(t *testing.T) {
	run := &deletionRun{userID: 1, state: stateTombstoned}
	require.NoError(t, run.advance(stateRolledBack))
	assert.Equal(t, stateRolledBack, run.state)
}

func TestDeletionStateRejectsIllegalTransitions(t *testing.T) {
	// 不能跳过中间状态
	run := &deletionRun{userID: 1, state: stateRequested}
	assert.Error(t, run.advance(stateCommitted))

	// 文件清理阶段已提交，不能再回滚
	run = &deletionRun{userID: 1, state: stateFilesPurged}
	assert.Error(t, run.advance(stateRolledBack))

	// 终态不能再转移
	run = &deletionRun{userID: 1, state: stateCommitted}
	assert.Error(t, run.advance(stateFilesPurged))
}
