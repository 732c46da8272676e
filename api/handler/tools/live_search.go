package tools

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/harane/toolshed/database/models"
	"github.com/harane/toolshed/internal/search"
)

const (
	liveSearchPageSize   = 50
	liveSearchWriteWait  = 10 * time.Second
	liveSearchPongWait   = 60 * time.Second
	liveSearchPingPeriod = 54 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// 搜索是公开只读接口，跨域连接无害
	CheckOrigin: func(r *http.Request) bool { return true },
}

// searchRequest 客户端发来的查询更新
type searchRequest struct {
	Query string `json:"query"`
}

// searchResponse 推送给客户端的搜索结果
type searchResponse struct {
	Type  string     `json:"type"`
	Seq   uint64     `json:"seq"`
	Query string     `json:"query"`
	Tools []toolView `json:"tools,omitempty"`
	Error string     `json:"error,omitempty"`
}

// LiveSearch 实时搜索 WebSocket 端点
// 客户端在输入时持续推送查询，服务端做去抖，静默期结束后才执行，
// 结果按序号推送，乱序完成的旧查询结果直接丢弃。
func (h *Handler) LiveSearch(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade 已经写过响应
		return
	}
	defer conn.Close()

	debouncer := search.NewDebouncer(h.searchDebounceInterval, func(ctx context.Context, query string) ([]*models.Tool, error) {
		toolList, _, err := h.toolService.List(ctx, query, "", 1, liveSearchPageSize)
		return toolList, err
	})
	defer debouncer.Close()

	done := make(chan struct{})

	// 写循环：转发去抖结果，定期 ping 保活
	go func() {
		defer close(done)
		ticker := time.NewTicker(liveSearchPingPeriod)
		defer ticker.Stop()

		for {
			select {
			case result, ok := <-debouncer.Results():
				if !ok {
					return
				}
				response := searchResponse{
					Type:  "results",
					Seq:   result.Seq,
					Query: result.Query,
				}
				if result.Err != nil {
					response.Type = "error"
					response.Error = "Search failed"
				} else {
					response.Tools = viewsOf(result.Tools)
				}
				conn.SetWriteDeadline(time.Now().Add(liveSearchWriteWait))
				if err := conn.WriteJSON(response); err != nil {
					return
				}
			case <-ticker.C:
				conn.SetWriteDeadline(time.Now().Add(liveSearchWriteWait))
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					return
				}
			}
		}
	}()

	// 读循环：接收查询更新
	conn.SetReadLimit(1024)
	conn.SetReadDeadline(time.Now().Add(liveSearchPongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(liveSearchPongWait))
		return nil
	})

	for {
		var req searchRequest
		if err := conn.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("live search connection error: %v", err)
			}
			break
		}
		debouncer.Update(req.Query)
	}

	debouncer.Close()
	<-done
}
