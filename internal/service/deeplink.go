package service

import (
	"strings"
	"sync"
)

// DeepLinkService resolves the Telegram launch parameter into a client
// route. A parameter is acted on at most once per user session: re-sending
// the same start parameter resolves to nothing, so the receipt screen does
// not reopen on every navigation.
type DeepLinkService struct {
	mu      sync.Mutex
	handled map[int64]string
}

func NewDeepLinkService() *DeepLinkService {
	return &DeepLinkService{handled: make(map[int64]string)}
}

// Resolve maps a start parameter to a route. Supported forms: "chek",
// "chek_id=<id>" and "order_<id>"; anything else resolves to no route.
func (s *DeepLinkService) Resolve(userID int64, param string) (string, bool) {
	param = strings.TrimSpace(param)
	if param == "" {
		return "", false
	}

	s.mu.Lock()
	if s.handled[userID] == param {
		s.mu.Unlock()
		return "", false
	}
	s.handled[userID] = param
	s.mu.Unlock()

	switch {
	case param == "chek":
		return "/chek", true
	case strings.HasPrefix(param, "chek_id="):
		id := strings.TrimPrefix(param, "chek_id=")
		if id == "" {
			return "", false
		}
		return "/order/" + id, true
	case strings.HasPrefix(param, "order_"):
		id := strings.TrimPrefix(param, "order_")
		if id == "" {
			return "", false
		}
		return "/order/" + id, true
	default:
		return "", false
	}
}
