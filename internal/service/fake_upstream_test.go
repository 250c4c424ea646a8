package service

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/Qodirxon2000aa/bottt/internal/upstream"
)

// fakeUpstream stands in for the PHP API in service tests.
type fakeUpstream struct {
	mu           sync.Mutex
	balance      int64
	rate         int64
	orderOK      bool
	orderMessage string
	userFound    bool
	setDataOK    bool
	setDataMsg   string
	tonLink      string
	tonStatuses  []string
	hits         map[string]int
}

func newFakeUpstream() *fakeUpstream {
	return &fakeUpstream{
		balance:   500_000,
		rate:      1_500,
		orderOK:   true,
		userFound: true,
		setDataOK: true,
		hits:      make(map[string]int),
	}
}

func (f *fakeUpstream) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.hits[r.URL.Path]++
	f.mu.Unlock()

	switch r.URL.Path {
	case "/settings.php":
		fmt.Fprintf(w, `{"ok":true,"settings":{"price":%d,"3oylik":165000,"6oylik":225000,"12oylik":295000,"tonkurs":41200,"referal_price":100}}`, f.rateValue())
	case "/get_user.php":
		fmt.Fprintf(w, `{"ok":true,"data":{"balance":"%d"}}`, f.balanceValue())
	case "/history.php":
		fmt.Fprint(w, `{"ok":true,"orders":[]}`)
	case "/payments.php":
		fmt.Fprint(w, `{"ok":true,"payments":[]}`)
	case "/order.php", "/premium.php", "/gifting.php":
		f.mu.Lock()
		resp := map[string]any{"ok": f.orderOK}
		if f.orderMessage != "" {
			resp["message"] = f.orderMessage
		}
		f.mu.Unlock()
		json.NewEncoder(w).Encode(resp)
	case "/check_user.php":
		f.mu.Lock()
		found := f.userFound
		f.mu.Unlock()
		if found {
			fmt.Fprintf(w, `{"ok":true,"data":{"username":%q,"first_name":"Test","last_name":"User"}}`, r.URL.Query().Get("username"))
		} else {
			fmt.Fprint(w, `{"ok":false,"message":"Foydalanuvchi topilmadi"}`)
		}
	case "/setdata.php":
		f.mu.Lock()
		resp := map[string]any{"ok": f.setDataOK}
		if f.setDataMsg != "" {
			resp["message"] = f.setDataMsg
		}
		f.mu.Unlock()
		json.NewEncoder(w).Encode(resp)
	case "/payments/tonpay.php":
		f.mu.Lock()
		link := f.tonLink
		f.mu.Unlock()
		fmt.Fprintf(w, `{"status":"ok","payment_id":"p-1","sum":50000,"ton":0.5,"link":%q}`, link)
	case "/payments/ton_status.php":
		f.mu.Lock()
		status := "pending"
		if len(f.tonStatuses) > 0 {
			status = f.tonStatuses[0]
			if len(f.tonStatuses) > 1 {
				f.tonStatuses = f.tonStatuses[1:]
			}
		}
		f.mu.Unlock()
		fmt.Fprintf(w, `{"ok":true,"status":%q}`, status)
	case "/statistics.php":
		fmt.Fprint(w, `{"ok":true,"users":{"total":120,"today":5},"stars":{"sold":9000,"summa":13500000},"turnover":{"today":450000},"date":"01.01.2026"}`)
	case "/week.php":
		fmt.Fprint(w, `{"ok":true,"top10":[{"rank":2,"name":"@ali","harid":100,"summa":150000},{"rank":1,"name":"vali","harid":300,"summa":450000}]}`)
	default:
		http.NotFound(w, r)
	}
}

func (f *fakeUpstream) rateValue() int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.rate
}

func (f *fakeUpstream) balanceValue() int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.balance
}

func (f *fakeUpstream) setBalance(v int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.balance = v
}

func (f *fakeUpstream) hitCount(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hits[path]
}

func newTestClient(t *testing.T, f *fakeUpstream) *upstream.Client {
	t.Helper()
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)
	return upstream.New(srv.URL, 5*time.Second)
}

func testLogger() *zap.Logger {
	return zap.NewNop()
}
