package handlers

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/wonhee/gavel/internal/valuation"
	"github.com/wonhee/gavel/pkg/logger"
)

// StreamHandler streams fallback-chain progress over a websocket while
// a valuation runs, then sends the final result.
type StreamHandler struct {
	service  *valuation.Service
	upgrader websocket.Upgrader
	logger   *logger.Logger
}

// NewStreamHandler creates a new stream handler
func NewStreamHandler(service *valuation.Service, log *logger.Logger) *StreamHandler {
	return &StreamHandler{
		service: service,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		logger: log,
	}
}

// streamMessage is the websocket frame envelope
type streamMessage struct {
	Type     string                   `json:"type"` // progress, result, error
	Progress *valuation.ProgressEvent `json:"progress,omitempty"`
	Result   *valuation.Result        `json:"result,omitempty"`
	Error    string                   `json:"error,omitempty"`
}

// Stream upgrades the connection, reads one valuation request and
// pushes progress events as the chain walks its tiers.
// GET /api/valuation/stream
func (h *StreamHandler) Stream(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.WithError(err).Warn("Websocket upgrade failed")
		return
	}
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(30 * time.Second))

	var body ValuateRequest
	if err := conn.ReadJSON(&body); err != nil {
		h.writeError(conn, "Invalid request frame")
		return
	}

	req := valuation.Request{
		CaseNumber:   body.CaseNumber,
		Region:       body.Region,
		District:     body.District,
		PropertyType: body.PropertyType,
	}

	// 체인 고루틴이 이벤트를 쌓는 동안 이 고루틴이 순서대로 내보낸다
	events := make(chan valuation.ProgressEvent, 32)
	done := make(chan struct{})

	go func() {
		defer close(done)
		for ev := range events {
			ev := ev
			if err := conn.WriteJSON(streamMessage{Type: "progress", Progress: &ev}); err != nil {
				h.logger.WithError(err).Debug("Websocket write failed, dropping stream")
				return
			}
		}
	}()

	result, err := h.service.ValuateObserved(r.Context(), req, func(ev valuation.ProgressEvent) {
		select {
		case events <- ev:
		default:
			// 느린 소비자는 진행 이벤트를 잃을 수 있다. 최종 결과는 항상 전달된다.
		}
	})
	close(events)
	<-done

	if err != nil {
		h.writeError(conn, err.Error())
		return
	}

	if err := conn.WriteJSON(streamMessage{Type: "result", Result: result}); err != nil {
		h.logger.WithError(err).Debug("Failed to send final result frame")
	}
}

func (h *StreamHandler) writeError(conn *websocket.Conn, message string) {
	if err := conn.WriteJSON(streamMessage{Type: "error", Error: message}); err != nil {
		h.logger.WithError(err).Debug("Failed to send error frame")
	}
}
