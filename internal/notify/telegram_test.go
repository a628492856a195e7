package notify

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alias1177/fxscalper/models"
)

type fakeBotAPI struct {
	mu       sync.Mutex
	messages []map[string]string
}

func (f *fakeBotAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch {
	case strings.HasSuffix(r.URL.Path, "/getMe"):
		_, _ = io.WriteString(w, `{"ok":true,"result":{"id":1,"is_bot":true,"first_name":"scalper","username":"scalper_bot"}}`)
	case strings.HasSuffix(r.URL.Path, "/sendMessage"):
		_ = r.ParseForm()
		f.mu.Lock()
		f.messages = append(f.messages, map[string]string{
			"chat_id": r.FormValue("chat_id"),
			"text":    r.FormValue("text"),
		})
		f.mu.Unlock()
		_, _ = io.WriteString(w, `{"ok":true,"result":{"message_id":7,"date":0,"chat":{"id":42,"type":"private"},"text":"ok"}}`)
	default:
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"ok":false,"error_code":404,"description":"Not Found"}`)
	}
}

func TestTelegramOrderPlaced(t *testing.T) {
	fake := &fakeBotAPI{}
	srv := httptest.NewServer(fake)
	defer srv.Close()

	tg, err := NewTelegram("token", 42, srv.URL+"/bot%s/%s", srv.Client())
	require.NoError(t, err)

	intent := models.OrderIntent{
		Symbol:     "EUR_USD",
		Side:       models.SideBuy,
		Units:      1000,
		StopLoss:   "1.08400",
		TakeProfit: "1.08700",
		BarTime:    time.Date(2024, 6, 3, 9, 0, 0, 0, time.UTC),
	}
	conf := &models.OrderConfirmation{OrderID: "6356", TradeID: "6357", FillPrice: 1.08522}

	require.NoError(t, tg.OrderPlaced(context.Background(), intent, conf))

	fake.mu.Lock()
	defer fake.mu.Unlock()
	require.Len(t, fake.messages, 1)
	assert.Equal(t, "42", fake.messages[0]["chat_id"])
	assert.Contains(t, fake.messages[0]["text"], "BUY EUR_USD x1000")
	assert.Contains(t, fake.messages[0]["text"], "SL: 1.08400")
	assert.Contains(t, fake.messages[0]["text"], "Trade: 6357")
}

func TestTelegramCancelledContext(t *testing.T) {
	fake := &fakeBotAPI{}
	srv := httptest.NewServer(fake)
	defer srv.Close()

	tg, err := NewTelegram("token", 42, srv.URL+"/bot%s/%s", srv.Client())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, tg.OrderPlaced(ctx, models.OrderIntent{}, nil), context.Canceled)
	assert.Empty(t, fake.messages)
}

func TestFormatOrder(t *testing.T) {
	intent := models.OrderIntent{Symbol: "USD_JPY", Side: models.SideSell, Units: 500, StopLoss: "151.300", TakeProfit: "150.900"}
	assert.Equal(t, "SELL USD_JPY x500\nSL: 151.300\nTP: 150.900", FormatOrder(intent, nil))
	assert.Equal(t, "SELL USD_JPY x500\nSL: 151.300\nTP: 150.900\nOrder: 12",
		FormatOrder(intent, &models.OrderConfirmation{OrderID: "12"}))
}

func TestNop(t *testing.T) {
	assert.NoError(t, Nop{}.OrderPlaced(context.Background(), models.OrderIntent{}, nil))
}
