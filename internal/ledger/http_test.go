package ledger

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func testClient(url string) *HTTPClient {
	return NewHTTPClient(HTTPConfig{
		BaseURL:        url,
		MaxRetries:     2,
		BaseRetryDelay: time.Millisecond,
		MaxRetryDelay:  5 * time.Millisecond,
		Timeout:        time.Second,
	})
}

func TestCreateGame(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" || r.URL.Path != "/games" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		if body["player"] != "alice" {
			t.Errorf("player = %q, want %q", body["player"], "alice")
		}
		json.NewEncoder(w).Encode(map[string]string{"gameId": "g1"})
	}))
	defer srv.Close()

	gameID, err := testClient(srv.URL).CreateGame(context.Background(), "alice")
	if err != nil {
		t.Fatalf("CreateGame() failed: %v", err)
	}
	if gameID != "g1" {
		t.Errorf("gameID = %q, want %q", gameID, "g1")
	}
}

func TestCreateGameDecodesErrorEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(APIError{Code: CodeAlreadyActive, Message: "active game exists", GameID: "g9"})
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).CreateGame(context.Background(), "alice")
	if !IsAlreadyActive(err) {
		t.Fatalf("error = %v, want alreadyActive", err)
	}
	ae, _ := AsAPIError(err)
	if ae.GameID != "g9" {
		t.Errorf("GameID = %q, want %q", ae.GameID, "g9")
	}
}

func TestWriteRetriesOn5xx(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) <= 2 {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"gameId": "g1", "status": "won"})
	}))
	defer srv.Close()

	if err := testClient(srv.URL).SetResult(context.Background(), "g1", true); err != nil {
		t.Fatalf("SetResult() failed after retries: %v", err)
	}
	if n := calls.Load(); n != 3 {
		t.Errorf("server saw %d calls, want 3", n)
	}
}

func TestWriteGivesUpAfterRetryBudget(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	err := testClient(srv.URL).SetResult(context.Background(), "g1", true)
	if !IsUnavailable(err) {
		t.Fatalf("error = %v, want UnavailableError", err)
	}
	// Initial attempt plus MaxRetries
	if n := calls.Load(); n != 3 {
		t.Errorf("server saw %d calls, want 3", n)
	}
}

func TestWriteDoesNotRetryRejections(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(APIError{Code: CodeInvalidTransition, Message: "resolved"})
	}))
	defer srv.Close()

	err := testClient(srv.URL).SetResult(context.Background(), "g1", true)
	if ae, ok := AsAPIError(err); !ok || ae.Code != CodeInvalidTransition {
		t.Fatalf("error = %v, want invalidTransition", err)
	}
	if n := calls.Load(); n != 1 {
		t.Errorf("server saw %d calls, want 1 (rejections are final)", n)
	}
}

func TestReadFailsFast(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).GameStatus(context.Background(), "g1")
	if !IsUnavailable(err) {
		t.Fatalf("error = %v, want UnavailableError", err)
	}
	if n := calls.Load(); n != 1 {
		t.Errorf("server saw %d calls, want 1 (reads are never retried)", n)
	}
}

func TestActiveGameMapsNotFoundToNone(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(APIError{Code: CodeNotFound, Message: "no active game"})
	}))
	defer srv.Close()

	gameID, ok, err := testClient(srv.URL).ActiveGame(context.Background(), "alice")
	if err != nil {
		t.Fatalf("ActiveGame() failed: %v", err)
	}
	if ok || gameID != "" {
		t.Errorf("ActiveGame() = %q ok=%v, want no active game", gameID, ok)
	}
}

func TestActiveGameReturnsPending(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("player"); got != "alice" {
			t.Errorf("player query = %q, want %q", got, "alice")
		}
		json.NewEncoder(w).Encode(GameStatus{GameID: "g1", Player: "alice", Status: StatusPending})
	}))
	defer srv.Close()

	gameID, ok, err := testClient(srv.URL).ActiveGame(context.Background(), "alice")
	if err != nil {
		t.Fatalf("ActiveGame() failed: %v", err)
	}
	if !ok || gameID != "g1" {
		t.Errorf("ActiveGame() = %q ok=%v, want g1", gameID, ok)
	}
}

func TestClaimDecodesReward(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]float64{"reward": 20})
	}))
	defer srv.Close()

	reward, err := testClient(srv.URL).Claim(context.Background(), "g1", "alice")
	if err != nil {
		t.Fatalf("Claim() failed: %v", err)
	}
	if reward != 20 {
		t.Errorf("reward = %f, want 20", reward)
	}
}

func TestUnreachableLedgerIsUnavailable(t *testing.T) {
	// Nothing listens here
	c := testClient("http://127.0.0.1:1")
	_, err := c.GameStatus(context.Background(), "g1")
	if !IsUnavailable(err) {
		t.Errorf("error = %v, want UnavailableError", err)
	}
}
