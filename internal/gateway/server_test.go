package gateway

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Dream2Nightmare/brainbot/internal/agent"
	"github.com/Dream2Nightmare/brainbot/internal/bus"
	"github.com/Dream2Nightmare/brainbot/internal/dream"
	"github.com/Dream2Nightmare/brainbot/internal/reflection"
	"github.com/Dream2Nightmare/brainbot/internal/scan"
)

func startServer(t *testing.T) (*Server, *agent.Bot, *websocket.Conn) {
	t.Helper()

	bot, err := agent.New(t.TempDir(), nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	srv := NewServer("127.0.0.1:0", bot, dream.NewEngine(bot), scan.NewService(scan.Config{}, bot))
	if err := srv.Start(); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(srv.Stop)

	conn, _, err := websocket.DefaultDialer.Dial("ws://"+srv.Addr()+"/ws", nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return srv, bot, conn
}

func roundTrip(t *testing.T, conn *websocket.Conn, req RequestFrame) ResponseFrame {
	t.Helper()
	req.Type = FrameTypeRequest
	if err := conn.WriteJSON(req); err != nil {
		t.Fatalf("write: %v", err)
	}

	// Skip pushed event frames until the matching response arrives.
	deadline := time.Now().Add(5 * time.Second)
	for {
		conn.SetReadDeadline(deadline)
		_, data, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		var probe struct {
			Type string `json:"type"`
		}
		if err := json.Unmarshal(data, &probe); err != nil {
			t.Fatalf("parse frame: %v", err)
		}
		if probe.Type != FrameTypeResponse {
			continue
		}
		var resp ResponseFrame
		if err := json.Unmarshal(data, &resp); err != nil {
			t.Fatalf("parse response: %v", err)
		}
		return resp
	}
}

func TestAsk(t *testing.T) {
	_, bot, conn := startServer(t)

	r := reflection.New("Q: what is love?\nA: an emotion", reflection.Meta{
		TrainingPairs: []reflection.Pair{{"what is love?", "an emotion"}},
	})
	if err := bot.LongTerm().Append([]reflection.Reflection{r}); err != nil {
		t.Fatal(err)
	}

	resp := roundTrip(t, conn, RequestFrame{ID: "1", Method: MethodAsk, Params: json.RawMessage(`{"text":"what is love?"}`)})
	if !resp.OK {
		t.Fatalf("error = %q", resp.Error)
	}
	payload, _ := resp.Payload.(map[string]interface{})
	if payload["answer"] != "an emotion" {
		t.Errorf("answer = %v", payload["answer"])
	}
}

func TestAsk_RequiresText(t *testing.T) {
	_, _, conn := startServer(t)

	resp := roundTrip(t, conn, RequestFrame{ID: "1", Method: MethodAsk})
	if resp.OK {
		t.Error("expected error for missing text")
	}
}

func TestStatus(t *testing.T) {
	_, _, conn := startServer(t)

	resp := roundTrip(t, conn, RequestFrame{ID: "2", Method: MethodStatus})
	if !resp.OK {
		t.Fatalf("error = %q", resp.Error)
	}
	payload, ok := resp.Payload.(map[string]interface{})
	if !ok {
		t.Fatalf("payload = %T", resp.Payload)
	}
	if _, ok := payload["shortterm_count"]; !ok {
		t.Errorf("payload missing shortterm_count: %v", payload)
	}
}

func TestDream(t *testing.T) {
	_, bot, conn := startServer(t)
	bot.StoreReflection("a note", reflection.Meta{})

	resp := roundTrip(t, conn, RequestFrame{ID: "3", Method: MethodDream})
	if !resp.OK {
		t.Fatalf("error = %q", resp.Error)
	}
	payload, _ := resp.Payload.(map[string]interface{})
	if got, _ := payload["consolidated"].(float64); got != 1 {
		t.Errorf("consolidated = %v, want 1", payload["consolidated"])
	}
}

func TestUnknownMethod(t *testing.T) {
	_, _, conn := startServer(t)

	resp := roundTrip(t, conn, RequestFrame{ID: "4", Method: "teleport"})
	if resp.OK {
		t.Error("expected error for unknown method")
	}
}

func TestSendAfterStopIsDropped(t *testing.T) {
	srv, _, conn := startServer(t)

	// A round trip guarantees the client is registered.
	roundTrip(t, conn, RequestFrame{ID: "0", Method: MethodStatus})

	srv.mu.Lock()
	var c *client
	for _, cl := range srv.clients {
		c = cl
	}
	srv.mu.Unlock()
	if c == nil {
		t.Fatal("no registered client")
	}

	// Stop closes every client channel; a handler still holding the client
	// must drop the frame rather than send on the closed channel.
	srv.Stop()
	srv.send(c, NewOKResponse("late", nil))
}

func TestEventBroadcast(t *testing.T) {
	_, bot, conn := startServer(t)

	// A round trip guarantees the client is registered before publishing.
	roundTrip(t, conn, RequestFrame{ID: "0", Method: MethodStatus})

	bot.Events().Publish(bus.EventLog, "test", "something happened")

	deadline := time.Now().Add(5 * time.Second)
	for {
		conn.SetReadDeadline(deadline)
		_, data, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		var frame EventFrame
		if err := json.Unmarshal(data, &frame); err != nil {
			t.Fatal(err)
		}
		if frame.Type == FrameTypeEvent && frame.Event == string(bus.EventLog) {
			return
		}
	}
}
