package websocket

import (
	"encoding/json"
	"sync"
	"time"

	"match-system/pkg/redis"

	"github.com/gorilla/websocket"
)

// Client 代表一个WebSocket连接的用户
// UserID: 用户ID
// Conn: WebSocket连接
// Send: 发送消息的通道

type Client struct {
	UserID uint
	Conn   *websocket.Conn
	Send   chan []byte
}

// Manager 管理所有在线用户的WebSocket连接
// 删除编排器提交事务后，通过 Manager 向在线的会话对象推送账号注销事件；
// 不在线的对象将通知暂存到Redis，下次连接时补推

type Manager struct {
	clients map[uint]*Client // 在线用户
	lock    sync.RWMutex
}

var manager = &Manager{
	clients: make(map[uint]*Client),
}

// GetManager 获取全局WebSocket管理器
func GetManager() *Manager {
	return manager
}

// AddClient 添加新连接
func (m *Manager) AddClient(userID uint, client *Client) {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.clients[userID] = client

	// 推送Redis中暂存的注销通知
	go m.pushPendingNotices(userID, client)
}

// RemoveClient 移除连接
func (m *Manager) RemoveClient(userID uint) {
	m.lock.Lock()
	defer m.lock.Unlock()
	if c, ok := m.clients[userID]; ok {
		close(c.Send)
		delete(m.clients, userID)
	}
}

// IsOnline 判断用户是否在线
func (m *Manager) IsOnline(userID uint) bool {
	m.lock.RLock()
	defer m.lock.RUnlock()
	_, ok := m.clients[userID]
	return ok
}

// NotifyAccountDeactivated 向接收方推送账号注销事件
// 接收方在线则直接推送，不在线则暂存到Redis
func (m *Manager) NotifyAccountDeactivated(receiverID, deletedUserID uint, realName string) {
	payload := map[string]interface{}{
		"type":            "account_deactivated",
		"deleted_user_id": deletedUserID,
		"real_name":       realName,
		"timestamp":       time.Now().Unix(),
	}
	msg, err := json.Marshal(payload)
	if err != nil {
		return
	}

	m.lock.RLock()
	client, ok := m.clients[receiverID]
	m.lock.RUnlock()
	if ok {
		// 在线，直接推送
		select {
		case client.Send <- msg:
		default:
			// 发送失败，可能连接已断开
		}
	} else {
		// 不在线，暂存到Redis
		go func() {
			_ = redis.AddDeactivationNotice(receiverID, &redis.DeactivationNotice{
				DeletedUserID: deletedUserID,
				RealName:      realName,
				CreatedAt:     time.Now(),
			})
		}()
	}
}

// pushPendingNotices 推送暂存的注销通知给用户
func (m *Manager) pushPendingNotices(userID uint, client *Client) {
	// 从Redis获取暂存通知
	notices, err := redis.GetDeactivationNotices(userID, 50) // 最多推送50条
	if err != nil {
		return
	}

	// 推送通知
	for _, notice := range notices {
		msgData, err := json.Marshal(map[string]interface{}{
			"type":            "account_deactivated",
			"deleted_user_id": notice.DeletedUserID,
			"real_name":       notice.RealName,
			"created_at":      notice.CreatedAt.Format("2006-01-02 15:04:05"),
		})
		if err != nil {
			continue
		}

		select {
		case client.Send <- msgData:
		case <-time.After(5 * time.Second):
			// 发送超时，停止推送
			return
		}
	}

	// 推送完成后清空暂存通知
	_ = redis.ClearDeactivationNotices(userID)
}
