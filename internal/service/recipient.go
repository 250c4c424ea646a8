package service

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/Qodirxon2000aa/bottt/internal/model"
	"github.com/Qodirxon2000aa/bottt/internal/upstream"
)

// RecipientService resolves "@username" input into a recipient profile.
// Lookups race: a user typing quickly can have several checks in flight at
// once, and an early slow response must not clobber the result of a later
// keystroke. Each check takes a per-requester sequence number and only the
// holder of the latest number may publish its result.
type RecipientService struct {
	client *upstream.Client
	log    *zap.Logger

	mu       sync.Mutex
	seq      map[int64]uint64
	inflight map[int64]int
	results  map[int64]model.RecipientProfile
}

func NewRecipientService(client *upstream.Client, log *zap.Logger) *RecipientService {
	return &RecipientService{
		client:   client,
		log:      log.Named("recipient"),
		seq:      make(map[int64]uint64),
		inflight: make(map[int64]int),
		results:  make(map[int64]model.RecipientProfile),
	}
}

// Check resolves raw username input for one requester. Input below the
// minimum length or outside the username character class never reaches the
// upstream.
func (s *RecipientService) Check(ctx context.Context, requesterID int64, raw string) (model.RecipientProfile, error) {
	username := model.NormalizeUsername(raw)

	if username == "" {
		profile := model.RecipientProfile{Status: model.LookupIdle}
		s.publishAlways(requesterID, profile)
		return profile, nil
	}
	if !model.ValidateUsername(username) {
		profile := model.RecipientProfile{Username: username, Status: model.LookupInvalid}
		s.publishAlways(requesterID, profile)
		return profile, nil
	}

	ticket := s.begin(requesterID)
	defer s.finish(requesterID)

	data, message, err := s.client.CheckUser(ctx, username)
	if err != nil {
		s.log.Warn("lookup failed", zap.String("username", username), zap.Error(err))
		return model.RecipientProfile{}, err
	}

	var profile model.RecipientProfile
	if data == nil {
		if message != "" {
			s.log.Debug("lookup miss", zap.String("username", username), zap.String("message", message))
		}
		profile = model.RecipientProfile{Username: username, Status: model.LookupNotFound}
	} else {
		profile = model.RecipientProfile{
			Username:    username,
			DisplayName: profileDisplayName(data, username),
			PhotoURL:    data.PhotoURL,
			HasPremium:  data.Premium,
			Status:      model.LookupFound,
		}
	}

	return s.publish(requesterID, ticket, profile), nil
}

// Last returns the current lookup state for a requester: the latest
// published result, loading while checks are in flight, idle otherwise.
func (s *RecipientService) Last(requesterID int64) model.RecipientProfile {
	s.mu.Lock()
	defer s.mu.Unlock()
	if profile, ok := s.results[requesterID]; ok {
		return profile
	}
	if s.inflight[requesterID] > 0 {
		return model.RecipientProfile{Status: model.LookupLoading}
	}
	return model.RecipientProfile{Status: model.LookupIdle}
}

func (s *RecipientService) begin(requesterID int64) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq[requesterID]++
	s.inflight[requesterID]++
	delete(s.results, requesterID)
	return s.seq[requesterID]
}

func (s *RecipientService) finish(requesterID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inflight[requesterID] > 0 {
		s.inflight[requesterID]--
	}
}

// publish stores the result only if ticket is still the latest check for
// this requester. A superseded check returns the newer result when one has
// already landed, so the stale value never surfaces.
func (s *RecipientService) publish(requesterID int64, ticket uint64, profile model.RecipientProfile) model.RecipientProfile {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.seq[requesterID] != ticket {
		if newer, ok := s.results[requesterID]; ok {
			return newer
		}
		return model.RecipientProfile{Status: model.LookupLoading}
	}
	s.results[requesterID] = profile
	return profile
}

func (s *RecipientService) publishAlways(requesterID int64, profile model.RecipientProfile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq[requesterID]++
	s.results[requesterID] = profile
}

func profileDisplayName(data *upstream.ProfileData, username string) string {
	if data.Name != "" {
		return strings.TrimSpace(strings.ReplaceAll(data.Name, "@", ""))
	}
	name := strings.TrimSpace(strings.TrimSpace(data.FirstName) + " " + strings.TrimSpace(data.LastName))
	if name != "" {
		return name
	}
	return username
}
