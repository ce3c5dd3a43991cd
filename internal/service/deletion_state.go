package service

import (
	"fmt"
)

// 删除编排器的显式状态机
// 每次删除请求对应一次状态推进序列，事务的全有或全无边界由状态转移表明确：
// CascadePurged 之前的任何失败都转移到 RolledBack 并整体回滚；
// 数据库提交发生在 CascadePurged 之后，FilesPurged 在提交之后执行（文件系统无法回滚），
// 文件清理失败不阻止到达 Committed

type deleteState int

const (
	stateRequested deleteState = iota
	stateIdentitySnapshotted
	stateTombstoned
	stateReceiverMapped
	stateCascadePurged
	stateFilesPurged
	stateCommitted
	stateRolledBack
)

// String 状态名
func (s deleteState) String() string {
	switch s {
	case stateRequested:
		return "Requested"
	case stateIdentitySnapshotted:
		return "IdentitySnapshotted"
	case stateTombstoned:
		return "Tombstoned"
	case stateReceiverMapped:
		return "ReceiverMapped"
	case stateCascadePurged:
		return "CascadePurged"
	case stateFilesPurged:
		return "FilesPurged"
	case stateCommitted:
		return "Committed"
	case stateRolledBack:
		return "RolledBack"
	default:
		return fmt.Sprintf("deleteState(%d)", int(s))
	}
}

// deleteTransitions 状态转移表
var deleteTransitions = map[deleteState][]deleteState{
	stateRequested:           {stateIdentitySnapshotted, stateRolledBack},
	stateIdentitySnapshotted: {stateTombstoned, stateRolledBack},
	stateTombstoned:          {stateReceiverMapped, stateRolledBack},
	stateReceiverMapped:      {stateCascadePurged, stateRolledBack},
	stateCascadePurged:       {stateFilesPurged, stateRolledBack},
	stateFilesPurged:         {stateCommitted},
	stateCommitted:           {},
	stateRolledBack:          {},
}

// deletionRun 单次删除请求的状态跟踪
type deletionRun struct {
	userID uint
	state  deleteState
}

// advance 推进状态；非法转移视为编排器内部错误
func (d *deletionRun) advance(next deleteState) error {
	for _, allowed := range deleteTransitions[d.state] {
		if allowed == next {
			d.state = next
			return nil
		}
	}
	return fmt.Errorf("非法状态转移: %s -> %s (user_id=%d)", d.state, next, d.userID)
}
